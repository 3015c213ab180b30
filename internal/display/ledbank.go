// internal/display/ledbank.go
package display

import (
	"github.com/transistorgrab/modmon/internal/channel"
	"github.com/transistorgrab/modmon/internal/poller"
)

// LED bank frame layout, two chained shift registers:
//
//	byte 0: [ -  R1 R2 R3 R4 R5 R6 R7 ]
//	byte 1: [ BL G7 G6 G5 G4 G3 G2 G1 ]
//
// LED indices 0..6 address the green LEDs G1..G7, indices 7..13 the red
// LEDs R1..R7. BL is the display backlight.
const ledFrameLen = 2

// LEDBank drives 14 discrete LEDs. A channel's LED is on while the
// scaled value exceeds the channel's threshold; unavailable readings
// switch the LED off. All 14 bits go out in a single shift transfer.
type LEDBank struct {
	dev       ShiftDevice
	channels  []channel.Channel
	backlight bool
}

func NewLEDBank(dev ShiftDevice, channels []channel.Channel, backlight bool) *LEDBank {
	return &LEDBank{dev: dev, channels: channels, backlight: backlight}
}

func (b *LEDBank) Render(readings []poller.Reading) error {
	byID := make(map[string]poller.Reading, len(readings))
	for _, rd := range readings {
		byID[rd.ChannelID] = rd
	}

	var frame [ledFrameLen]byte
	if b.backlight {
		frame[1] |= 0x80
	}

	for _, ch := range b.channels {
		rd, ok := byID[ch.ID]
		if !ok || !rd.OK {
			continue
		}
		if rd.Value > ch.Threshold {
			frame[0] |= redBit(ch.Slot.LED)
			frame[1] |= greenBit(ch.Slot.LED)
		}
	}

	if err := b.dev.WriteFrame(frame[:]); err != nil {
		return &BackendError{Op: "shift write", Err: err}
	}
	return nil
}

// Clear switches every LED and the backlight off.
func (b *LEDBank) Clear() error {
	if err := b.dev.WriteFrame(make([]byte, ledFrameLen)); err != nil {
		return &BackendError{Op: "shift write", Err: err}
	}
	return nil
}

func greenBit(led int) byte {
	if led < 0 || led > 6 {
		return 0
	}
	return 1 << led
}

func redBit(led int) byte {
	if led < 7 || led > 13 {
		return 0
	}
	// R1 sits at bit 6, R7 at bit 0.
	return 1 << (13 - led)
}
