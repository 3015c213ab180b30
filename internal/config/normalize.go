// internal/config/normalize.go
package config

import (
	"github.com/transistorgrab/modmon/internal/channel"
	"github.com/transistorgrab/modmon/internal/display"
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	conn := &cfg.Connection
	if conn.TimeoutMs == 0 {
		conn.TimeoutMs = 1000
	}
	if conn.PollInterval == 0 {
		conn.PollInterval = 5
	}
	if conn.WordOrder == "" {
		conn.WordOrder = string(channel.BigEndian)
	}
	if conn.Transport == "rtu" {
		if conn.BaudRate == 0 {
			conn.BaudRate = 9600
		}
		if conn.DataBits == 0 {
			conn.DataBits = 8
		}
		if conn.Parity == "" {
			conn.Parity = "N"
		}
		if conn.StopBits == 0 {
			conn.StopBits = 1
		}
	}

	if cfg.Display.Backend == "" {
		cfg.Display.Backend = display.BackendChar
	}
	if cfg.Display.Backlight == nil {
		on := true
		cfg.Display.Backlight = &on
	}

	for i := range cfg.Channels {
		cc := &cfg.Channels[i]
		if cc.Function == "" {
			cc.Function = string(channel.InputRegister)
		}
		if cc.Scale == 0 {
			cc.Scale = 1
		}
	}
}
