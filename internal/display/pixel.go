// internal/display/pixel.go
package display

import (
	"image/color"
	"time"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"

	"github.com/transistorgrab/modmon/internal/channel"
	"github.com/transistorgrab/modmon/internal/poller"
)

// Frame doubles as a drivers.Displayer so TinyGo display helpers can
// draw on it directly.
var _ drivers.Displayer = (*Frame)(nil)

var (
	pixelOn  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	textFont = &tinyfont.Org01
)

// Baseline offset for textFont when slot coordinates address the top
// left corner of a text region.
const fontAscent = 6

// Frame is a 128x64 monochrome pixel buffer. It implements
// drivers.Displayer so tinyfont (or any TinyGo display helper) can draw
// on it; the hardware push happens separately through a FrameDevice.
type Frame struct {
	buf [PixelWidth * PixelHeight / 8]byte
}

func (f *Frame) Size() (x, y int16) { return PixelWidth, PixelHeight }

func (f *Frame) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || x >= PixelWidth || y < 0 || y >= PixelHeight {
		return
	}
	idx := int(y)*PixelWidth + int(x)
	if c.R|c.G|c.B > 0 {
		f.buf[idx/8] |= 1 << (idx % 8)
	} else {
		f.buf[idx/8] &^= 1 << (idx % 8)
	}
}

// Display satisfies drivers.Displayer. The frame itself has no
// hardware; PixelText pushes the converted buffer.
func (f *Frame) Display() error { return nil }

// Pixel reports the state of one pixel. Used by tests.
func (f *Frame) Pixel(x, y int) bool {
	if x < 0 || x >= PixelWidth || y < 0 || y >= PixelHeight {
		return false
	}
	idx := y*PixelWidth + x
	return f.buf[idx/8]&(1<<(idx%8)) != 0
}

func (f *Frame) ClearBuffer() {
	for i := range f.buf {
		f.buf[i] = 0
	}
}

// Pages converts the buffer to the page layout UC1701-class controllers
// expect: 8 pages of 128 column bytes, bit k of a column byte holding
// pixel y = page*8+k.
func (f *Frame) Pages() []byte {
	out := make([]byte, pixelPages*PixelWidth)
	i := 0
	for page := 0; page < pixelPages; page++ {
		for x := 0; x < PixelWidth; x++ {
			var b byte
			for k := 0; k < 8; k++ {
				if f.Pixel(x, page*8+k) {
					b |= 1 << k
				}
			}
			out[i] = b
			i++
		}
	}
	return out
}

// PixelText renders readings as text regions on the pixel LCD, plus a
// clock in the bottom right corner. The canvas is cleared and fully
// redrawn each cycle, then pushed in one transfer.
type PixelText struct {
	dev      FrameDevice
	frame    Frame
	channels []channel.Channel
	now      func() time.Time
}

func NewPixelText(dev FrameDevice, channels []channel.Channel) *PixelText {
	return &PixelText{dev: dev, channels: channels, now: time.Now}
}

func (p *PixelText) Render(readings []poller.Reading) error {
	p.frame.ClearBuffer()

	byID := make(map[string]poller.Reading, len(readings))
	for _, rd := range readings {
		byID[rd.ChannelID] = rd
	}

	for _, ch := range p.channels {
		rd, ok := byID[ch.ID]
		if !ok {
			continue
		}
		line := rd.Text
		if ch.Label != "" {
			line = ch.Label + " " + rd.Text
		}
		tinyfont.WriteLine(&p.frame, textFont,
			int16(ch.Slot.X), int16(ch.Slot.Y)+fontAscent, line, pixelOn)
	}

	clock := p.now().Format("15:04")
	_, w := tinyfont.LineWidth(textFont, clock)
	tinyfont.WriteLine(&p.frame, textFont,
		int16(PixelWidth)-int16(w)-1, int16(PixelHeight)-2, clock, pixelOn)

	if err := p.dev.PushFrame(p.frame.Pages()); err != nil {
		return &BackendError{Op: "push frame", Err: err}
	}
	return nil
}

func (p *PixelText) Clear() error {
	p.frame.ClearBuffer()
	if err := p.dev.PushFrame(p.frame.Pages()); err != nil {
		return &BackendError{Op: "push frame", Err: err}
	}
	return nil
}
