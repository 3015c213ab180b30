// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/transistorgrab/modmon/internal/channel"
)

// Error is a configuration fault: invalid or missing settings. It is
// fatal at startup, before any polling begins.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// IsConfig reports whether err is (or wraps) a configuration Error.
func IsConfig(err error) bool {
	var ce *Error
	return errors.As(err, &ce)
}

func errf(field, format string, args ...interface{}) *Error {
	return &Error{Field: field, Reason: fmt.Sprintf(format, args...)}
}

type Config struct {
	Connection ConnectionConfig `yaml:"connection"`
	Display    DisplayConfig    `yaml:"display"`
	Channels   []ChannelConfig  `yaml:"channels"`
}

// ---- CONNECTION ----

type ConnectionConfig struct {
	Transport string `yaml:"transport"` // tcp | rtu
	Address   string `yaml:"address"`   // host:port (tcp) or device path (rtu)

	// Serial parameters (rtu only).
	BaudRate int    `yaml:"baud_rate"`
	DataBits int    `yaml:"data_bits"`
	Parity   string `yaml:"parity"`
	StopBits int    `yaml:"stop_bits"`

	SlaveID      uint8  `yaml:"slave_id"`
	TimeoutMs    int    `yaml:"timeout_ms"`
	PollInterval int    `yaml:"poll_interval_s"`
	WordOrder    string `yaml:"word_order"` // big | little
}

func (c ConnectionConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

func (c ConnectionConfig) Interval() time.Duration {
	return time.Duration(c.PollInterval) * time.Second
}

// ---- DISPLAY ----

type DisplayConfig struct {
	Backend   string `yaml:"backend"` // char | pixel | led
	Backlight *bool  `yaml:"backlight"`
}

// ---- CHANNEL ----

type ChannelConfig struct {
	ID        string     `yaml:"id"`
	Label     string     `yaml:"label"`
	Address   uint16     `yaml:"address"`
	Function  string     `yaml:"function"` // input | holding
	Type      string     `yaml:"type"`
	Scale     float64    `yaml:"scale"`
	Precision int        `yaml:"precision"`
	Unit      string     `yaml:"unit"`
	SlaveID   *uint8     `yaml:"slave_id"` // per-channel override (optional)
	Threshold float64    `yaml:"threshold"`
	Slot      SlotConfig `yaml:"slot"`
}

// SlotConfig is backend-specific placement. Only the fields for the
// configured backend are read.
type SlotConfig struct {
	Row   int  `yaml:"row"`
	Col   int  `yaml:"col"`
	Width int  `yaml:"width"`
	X     int  `yaml:"x"`
	Y     int  `yaml:"y"`
	LED   *int `yaml:"led"`
}

// ChannelList converts the configured channels into the runtime model.
// Call only after Validate and Normalize.
func (c *Config) ChannelList() []channel.Channel {
	out := make([]channel.Channel, 0, len(c.Channels))
	for _, cc := range c.Channels {
		slave := c.Connection.SlaveID
		if cc.SlaveID != nil {
			slave = *cc.SlaveID
		}
		led := 0
		if cc.Slot.LED != nil {
			led = *cc.Slot.LED
		}
		out = append(out, channel.Channel{
			ID:        cc.ID,
			Label:     cc.Label,
			Address:   cc.Address,
			Function:  channel.RegisterFunction(cc.Function),
			Type:      channel.DataType(cc.Type),
			Scale:     cc.Scale,
			Precision: cc.Precision,
			Unit:      cc.Unit,
			SlaveID:   slave,
			Threshold: cc.Threshold,
			Slot: channel.Slot{
				Row:   cc.Slot.Row,
				Col:   cc.Slot.Col,
				Width: cc.Slot.Width,
				X:     cc.Slot.X,
				Y:     cc.Slot.Y,
				LED:   led,
			},
		})
	}
	return out
}

// WordOrder returns the device word order for multi-word values.
func (c *Config) WordOrder() channel.WordOrder {
	if c.Connection.WordOrder == string(channel.LittleEndian) {
		return channel.LittleEndian
	}
	return channel.BigEndian
}
