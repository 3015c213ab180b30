// internal/source/source.go
package source

import (
	"errors"
	"fmt"

	"github.com/transistorgrab/modmon/internal/channel"
)

// Source abstracts "read N registers starting at address A from slave D".
// The transport handle behind a Source is exclusively owned by the poll
// loop; no other component may issue reads.
type Source interface {
	// Read returns exactly count raw 16-bit words or a *CommError.
	// Partial reads are never returned as success.
	Read(slaveID uint8, fn channel.RegisterFunction, address, count uint16) ([]uint16, error)

	Connected() bool
	Reconnect() error
	Close() error
}

// CommError is a per-read transport failure: timeout, framing/CRC error,
// device exception. It is recovered locally by the poll loop, never fatal.
type CommError struct {
	Op  string
	Err error
}

func (e *CommError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("modbus: %s failed", e.Op)
	}
	return fmt.Sprintf("modbus: %s: %v", e.Op, e.Err)
}

func (e *CommError) Unwrap() error { return e.Err }

// IsComm reports whether err is (or wraps) a CommError.
func IsComm(err error) bool {
	var ce *CommError
	return errors.As(err, &ce)
}
