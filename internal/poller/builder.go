// internal/poller/builder.go
package poller

import (
	"github.com/transistorgrab/modmon/internal/source/modbus"
)

// Build constructs a Poller wired to a connected Modbus transport.
// Startup fails fast; steady-state reconnects are the runner's job.
func Build(scfg modbus.Config, cfg Config) (*Poller, func() error, error) {
	client, err := modbus.New(scfg)
	if err != nil {
		return nil, nil, err
	}

	p, err := New(cfg, client)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return p, client.Close, nil
}
