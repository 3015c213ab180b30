// internal/poller/types.go
package poller

import "time"

// Reading is one channel's result for one poll cycle. Readings are
// ephemeral: the next cycle replaces the whole set, and a backend only
// ever sees complete sets.
type Reading struct {
	ChannelID string
	Raw       []uint16
	Value     float64 // decoded and scaled
	Text      string  // fixed-width display text
	OK        bool    // false renders the placeholder
	At        time.Time
}

// CycleResult is the snapshot produced by one poll cycle.
type CycleResult struct {
	At       time.Time
	Readings []Reading

	// Readable counts channels the device answered for, including
	// ones that reported their "no value" sentinel.
	Readable int
}
