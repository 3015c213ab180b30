// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/transistorgrab/modmon/internal/channel"
	"github.com/transistorgrab/modmon/internal/display"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if err := validateConnection(&cfg.Connection); err != nil {
		return err
	}

	backend := cfg.Display.Backend
	switch backend {
	case "", display.BackendChar, display.BackendPixel, display.BackendLED:
	default:
		return errf("display.backend", "unknown backend %q", backend)
	}
	if backend == "" {
		backend = display.BackendChar
	}

	// An empty channel list is a valid file for the setup tool to keep
	// editing; the monitor rejects it at startup.
	if max := display.MaxChannels(backend); len(cfg.Channels) > max {
		return errf("channels", "%d channels configured, backend %s renders at most %d", len(cfg.Channels), backend, max)
	}

	seen := make(map[string]bool)
	for i, cc := range cfg.Channels {
		field := fmt.Sprintf("channels[%d]", i)

		if cc.ID == "" {
			return errf(field+".id", "id required")
		}
		if seen[cc.ID] {
			return errf(field+".id", "duplicate channel id %q", cc.ID)
		}
		seen[cc.ID] = true

		switch cc.Function {
		case "", string(channel.InputRegister), string(channel.HoldingRegister):
		default:
			return errf(field+".function", "unknown register function %q", cc.Function)
		}

		words, err := channel.DataType(cc.Type).WordCount()
		if err != nil {
			return errf(field+".type", "unknown data type %q", cc.Type)
		}
		if int(cc.Address)+int(words) > 0x10000 {
			return errf(field+".address", "register block %d+%d exceeds address space", cc.Address, words)
		}

		if cc.Precision < 0 || cc.Precision > 6 {
			return errf(field+".precision", "precision %d out of range 0..6", cc.Precision)
		}
	}

	return validateSlots(cfg, backend)
}

func validateConnection(cc *ConnectionConfig) error {
	switch cc.Transport {
	case "tcp", "rtu":
	case "":
		return errf("connection.transport", "transport required (tcp or rtu)")
	default:
		return errf("connection.transport", "unknown transport %q", cc.Transport)
	}
	if cc.Address == "" {
		return errf("connection.address", "address required")
	}
	if cc.Transport == "rtu" {
		switch cc.Parity {
		case "", "N", "E", "O":
		default:
			return errf("connection.parity", "parity must be N, E or O")
		}
	}
	if cc.TimeoutMs < 0 {
		return errf("connection.timeout_ms", "must not be negative")
	}
	if cc.PollInterval < 0 {
		return errf("connection.poll_interval_s", "must not be negative")
	}
	switch cc.WordOrder {
	case "", string(channel.BigEndian), string(channel.LittleEndian):
	default:
		return errf("connection.word_order", "word order must be big or little")
	}
	return nil
}

// validateSlots checks that every display slot fits the backend geometry
// and that no two channels claim overlapping placement.
func validateSlots(cfg *Config, backend string) error {
	type span struct {
		start int
		end   int
		id    string
	}

	switch backend {
	case display.BackendChar:
		// key = row
		spans := make(map[int][]span)
		for i, cc := range cfg.Channels {
			field := fmt.Sprintf("channels[%d].slot", i)
			s := cc.Slot
			if s.Width < 1 {
				return errf(field+".width", "width required for the character backend")
			}
			if s.Row < 0 || s.Row >= display.CharRows {
				return errf(field+".row", "row %d outside 0..%d", s.Row, display.CharRows-1)
			}
			if s.Col < 0 || s.Col+s.Width > display.CharCols {
				return errf(field+".col", "span %d..%d outside 0..%d", s.Col, s.Col+s.Width-1, display.CharCols-1)
			}

			start, end := s.Col, s.Col+s.Width-1
			for _, other := range spans[s.Row] {
				// overlap check (inclusive)
				if !(end < other.start || start > other.end) {
					return errf(field, "row %d cols %d-%d overlap channel %q (%d-%d)",
						s.Row, start, end, other.id, other.start, other.end)
				}
			}
			spans[s.Row] = append(spans[s.Row], span{start: start, end: end, id: cc.ID})
		}

	case display.BackendPixel:
		type box struct {
			x0, y0 int
			x1, y1 int
			id     string
		}
		var boxes []box
		for i, cc := range cfg.Channels {
			field := fmt.Sprintf("channels[%d].slot", i)
			s := cc.Slot
			if s.Width < 1 {
				return errf(field+".width", "width required for the pixel backend")
			}
			if s.X < 0 || s.X >= display.PixelWidth || s.Y < 0 || s.Y >= display.PixelHeight {
				return errf(field, "region origin (%d,%d) outside %dx%d", s.X, s.Y, display.PixelWidth, display.PixelHeight)
			}

			// Each slot occupies a text-line bounding box.
			b := box{
				x0: s.X,
				y0: s.Y,
				x1: s.X + s.Width*display.PixelGlyphWidth - 1,
				y1: s.Y + display.PixelLineHeight - 1,
				id: cc.ID,
			}
			for _, other := range boxes {
				if b.x1 >= other.x0 && b.x0 <= other.x1 && b.y1 >= other.y0 && b.y0 <= other.y1 {
					return errf(field, "region (%d,%d) %d chars overlaps channel %q at (%d,%d)",
						s.X, s.Y, s.Width, other.id, other.x0, other.y0)
				}
			}
			boxes = append(boxes, b)
		}

	case display.BackendLED:
		owner := make(map[int]string)
		for i, cc := range cfg.Channels {
			field := fmt.Sprintf("channels[%d].slot", i)
			if channel.DataType(cc.Type).IsString() {
				return errf(field, "string channels cannot drive an LED")
			}
			if cc.Slot.LED == nil {
				return errf(field+".led", "led index required for the LED backend")
			}
			led := *cc.Slot.LED
			if led < 0 || led >= display.LEDCount {
				return errf(field+".led", "index %d outside 0..%d", led, display.LEDCount-1)
			}
			if prev, exists := owner[led]; exists {
				return errf(field+".led", "led %d already used by channel %q", led, prev)
			}
			owner[led] = cc.ID
		}
	}

	return nil
}
