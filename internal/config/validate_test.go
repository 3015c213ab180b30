// internal/config/validate_test.go
package config

import (
	"strings"
	"testing"
)

// helper to build a minimal valid config quickly
func charConfig(channels ...ChannelConfig) *Config {
	return &Config{
		Connection: ConnectionConfig{
			Transport: "tcp",
			Address:   "10.0.0.42:502",
			SlaveID:   3,
		},
		Display:  DisplayConfig{Backend: "char"},
		Channels: channels,
	}
}

func charChannel(id string, row, col, width int) ChannelConfig {
	return ChannelConfig{
		ID:      id,
		Address: 100,
		Type:    "unsigned16",
		Slot:    SlotConfig{Row: row, Col: col, Width: width},
	}
}

// ---- tests ----

func TestValidate_CharGridOK(t *testing.T) {
	cfg := charConfig(
		charChannel("u1", 0, 0, 10),
		charChannel("u2", 0, 10, 10), // touching, not overlapping
		charChannel("u3", 1, 0, 20),
	)

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_CharSlotOverlapDetected(t *testing.T) {
	cfg := charConfig(
		charChannel("u1", 0, 0, 10), // 0–9
		charChannel("u2", 0, 5, 10), // 5–14 → overlap
	)

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected overlap error, got nil")
	}
}

func TestValidate_CharSlotOutOfBounds(t *testing.T) {
	cfg := charConfig(charChannel("u1", 4, 0, 10))
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected row bounds error, got nil")
	}

	cfg = charConfig(charChannel("u1", 0, 15, 10))
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected col span error, got nil")
	}
}

func TestValidate_CapacityExceeded(t *testing.T) {
	var chans []ChannelConfig
	for i := 0; i < 9; i++ {
		chans = append(chans, charChannel(string(rune('a'+i)), i%4, (i/4)*10, 5))
	}
	cfg := charConfig(chans...)

	err := Validate(cfg)
	if err == nil {
		t.Fatalf("expected capacity error, got nil")
	}
	if !IsConfig(err) {
		t.Fatalf("expected config error, got %T", err)
	}
	if !strings.Contains(err.Error(), "at most") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestValidate_UnknownDataType(t *testing.T) {
	ch := charChannel("u1", 0, 0, 10)
	ch.Type = "quadfloat"
	if err := Validate(charConfig(ch)); err == nil {
		t.Fatalf("expected data type error, got nil")
	}
}

func TestValidate_DuplicateChannelID(t *testing.T) {
	cfg := charConfig(
		charChannel("u1", 0, 0, 10),
		charChannel("u1", 1, 0, 10),
	)
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected duplicate id error, got nil")
	}
}

func TestValidate_AddressSpaceOverflow(t *testing.T) {
	ch := charChannel("u1", 0, 0, 10)
	ch.Address = 0xffff
	ch.Type = "unsigned32"
	if err := Validate(charConfig(ch)); err == nil {
		t.Fatalf("expected address space error, got nil")
	}
}

func TestValidate_PixelSlots(t *testing.T) {
	cfg := charConfig(
		ChannelConfig{ID: "u1", Address: 1, Type: "unsigned16", Slot: SlotConfig{X: 0, Y: 0, Width: 10}},
		ChannelConfig{ID: "u2", Address: 2, Type: "unsigned16", Slot: SlotConfig{X: 0, Y: 12, Width: 10}},
	)
	cfg.Display.Backend = "pixel"
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// same origin
	cfg.Channels[1].Slot.Y = 0
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected overlap error, got nil")
	}

	// out of canvas
	cfg.Channels[1].Slot = SlotConfig{X: 130, Y: 0, Width: 10}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected bounds error, got nil")
	}
}

func TestValidate_PixelRegionOverlap(t *testing.T) {
	pixel := func(id string, x, y, width int) ChannelConfig {
		return ChannelConfig{ID: id, Address: 1, Type: "unsigned16", Slot: SlotConfig{X: x, Y: y, Width: width}}
	}

	// 4 chars at 6 px per glyph span x 0..23; a region starting inside
	// that span on an intersecting line must be rejected even though
	// the origins differ.
	cfg := charConfig(pixel("u1", 0, 0, 4), pixel("u2", 10, 4, 4))
	cfg.Display.Backend = "pixel"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected overlap error, got nil")
	}

	// side by side on the same line
	cfg = charConfig(pixel("u1", 0, 0, 4), pixel("u2", 24, 0, 4))
	cfg.Display.Backend = "pixel"
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// stacked lines, 8 px apart
	cfg = charConfig(pixel("u1", 0, 0, 10), pixel("u2", 0, 8, 10))
	cfg.Display.Backend = "pixel"
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_LEDSlots(t *testing.T) {
	led := func(id string, idx int) ChannelConfig {
		return ChannelConfig{ID: id, Address: 1, Type: "unsigned16", Threshold: 100, Slot: SlotConfig{LED: &idx}}
	}

	cfg := charConfig(led("u1", 0), led("u2", 13))
	cfg.Display.Backend = "led"
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg = charConfig(led("u1", 3), led("u2", 3))
	cfg.Display.Backend = "led"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected duplicate led error, got nil")
	}

	cfg = charConfig(led("u1", 14))
	cfg.Display.Backend = "led"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected led bounds error, got nil")
	}

	// missing led index
	cfg = charConfig(ChannelConfig{ID: "u1", Address: 1, Type: "unsigned16"})
	cfg.Display.Backend = "led"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected missing led error, got nil")
	}
}

func TestValidate_Connection(t *testing.T) {
	cfg := charConfig(charChannel("u1", 0, 0, 10))
	cfg.Connection.Transport = "modbus+carrier-pigeon"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected transport error, got nil")
	}

	cfg = charConfig(charChannel("u1", 0, 0, 10))
	cfg.Connection.Address = ""
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected address error, got nil")
	}

	cfg = charConfig(charChannel("u1", 0, 0, 10))
	cfg.Connection.WordOrder = "middle"
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected word order error, got nil")
	}
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := charConfig(charChannel("u1", 0, 0, 10))
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Normalize(cfg)

	if cfg.Connection.TimeoutMs != 1000 {
		t.Fatalf("timeout default: %d", cfg.Connection.TimeoutMs)
	}
	if cfg.Connection.PollInterval != 5 {
		t.Fatalf("interval default: %d", cfg.Connection.PollInterval)
	}
	if cfg.Connection.WordOrder != "big" {
		t.Fatalf("word order default: %q", cfg.Connection.WordOrder)
	}
	if cfg.Channels[0].Scale != 1 {
		t.Fatalf("scale default: %v", cfg.Channels[0].Scale)
	}
	if cfg.Channels[0].Function != "input" {
		t.Fatalf("function default: %q", cfg.Channels[0].Function)
	}
	if cfg.Display.Backlight == nil || !*cfg.Display.Backlight {
		t.Fatalf("backlight default should be on")
	}
}
