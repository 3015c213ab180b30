// internal/display/display.go

// Package display renders poll readings onto a fixed-geometry output:
// a 20x4 character LCD, a 128x64 monochrome pixel LCD, or a bank of 14
// discrete LEDs behind a shift register. Backends talk to hardware
// through small device interfaces; the pin/bus wiring lives outside
// this module.
package display

import (
	"errors"
	"fmt"

	"github.com/transistorgrab/modmon/internal/poller"
)

// Backend names as they appear in configuration.
const (
	BackendChar  = "char"
	BackendPixel = "pixel"
	BackendLED   = "led"
)

// Fixed display geometry.
const (
	CharRows = 4
	CharCols = 20

	PixelWidth  = 128
	PixelHeight = 64
	pixelPages  = PixelHeight / 8

	// Text cell metrics of the pixel font (Org01: 6 px advance per
	// glyph, ascent plus descent fit in 8 px). Slot layout checks use
	// these to compute the region a text line occupies.
	PixelGlyphWidth = 6
	PixelLineHeight = 8

	// 7 green and 7 red LEDs on two chained shift registers, plus a
	// backlight bit.
	LEDCount = 14
)

// MaxChannels is the renderable slot capacity per backend.
func MaxChannels(backend string) int {
	switch backend {
	case BackendLED:
		return LEDCount
	default:
		return 8
	}
}

// Backend renders one complete, ordered reading set per poll cycle.
type Backend interface {
	Render(readings []poller.Reading) error

	// Clear blanks the output. Called once at shutdown.
	Clear() error
}

// BackendError is a render/write failure: the display hardware did not
// respond. Recovered locally; rendering continues on later cycles.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("display: %s failed", e.Op)
	}
	return fmt.Sprintf("display: %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// IsBackend reports whether err is (or wraps) a BackendError.
func IsBackend(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}

// ---- hardware device interfaces ----

// CharDevice is a character LCD: positioned string writes.
type CharDevice interface {
	WriteAt(row, col int, text string) error
	Clear() error
}

// FrameDevice accepts a full page-organized frame in one transfer.
// Pushing the whole buffer at once avoids partial-frame tearing.
type FrameDevice interface {
	PushFrame(pages []byte) error
}

// ShiftDevice writes a whole shift-register frame in one operation so
// intermediate LED states are never externally visible.
type ShiftDevice interface {
	WriteFrame(data []byte) error
}

// Multi fans one render call out to several backends, e.g. the real
// display plus a console mirror. The first error wins but every
// backend still gets the readings.
func Multi(backends ...Backend) Backend {
	return multi(backends)
}

type multi []Backend

func (m multi) Render(readings []poller.Reading) error {
	var first error
	for _, b := range m {
		if err := b.Render(readings); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m multi) Clear() error {
	var first error
	for _, b := range m {
		if err := b.Clear(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
