// internal/display/pixel_test.go
package display

import (
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transistorgrab/modmon/internal/channel"
	"github.com/transistorgrab/modmon/internal/poller"
)

type fakeFrameDevice struct {
	pushes [][]byte
	fail   bool
}

func (d *fakeFrameDevice) PushFrame(pages []byte) error {
	if d.fail {
		return &BackendError{Op: "push"}
	}
	cp := make([]byte, len(pages))
	copy(cp, pages)
	d.pushes = append(d.pushes, cp)
	return nil
}

func TestFrame_SetAndClearPixel(t *testing.T) {
	var f Frame
	on := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	off := color.RGBA{A: 0xff}

	f.SetPixel(5, 9, on)
	assert.True(t, f.Pixel(5, 9))

	f.SetPixel(5, 9, off)
	assert.False(t, f.Pixel(5, 9))

	// out of bounds is ignored, not a panic
	f.SetPixel(-1, 0, on)
	f.SetPixel(PixelWidth, 0, on)
	f.SetPixel(0, PixelHeight, on)
}

func TestFrame_PageLayout(t *testing.T) {
	var f Frame
	on := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	// y=9 lives in page 1, bit 1.
	f.SetPixel(5, 9, on)
	pages := f.Pages()

	require.Len(t, pages, PixelWidth*PixelHeight/8)
	assert.Equal(t, byte(1<<1), pages[1*PixelWidth+5])

	// everything else stays zero
	total := 0
	for _, b := range pages {
		if b != 0 {
			total++
		}
	}
	assert.Equal(t, 1, total)
}

func TestPixelText_RenderDrawsAndPushesOnce(t *testing.T) {
	channels := []channel.Channel{{
		ID:    "ac",
		Label: "AC",
		Slot:  channel.Slot{X: 1, Y: 1, Width: 10},
	}}
	dev := &fakeFrameDevice{}
	p := NewPixelText(dev, channels)
	p.now = func() time.Time {
		return time.Date(2024, 6, 1, 12, 34, 0, 0, time.UTC)
	}

	readings := []poller.Reading{{ChannelID: "ac", Text: "1234W", OK: true}}
	require.NoError(t, p.Render(readings))
	require.Len(t, dev.pushes, 1, "full frame pushed in one transfer")

	lit := 0
	for _, b := range dev.pushes[0] {
		for ; b != 0; b &= b - 1 {
			lit++
		}
	}
	assert.Greater(t, lit, 10, "text rendering should light pixels")
}

func TestPixelText_FullRedrawReplacesOldContent(t *testing.T) {
	channels := []channel.Channel{{ID: "ac", Slot: channel.Slot{X: 1, Y: 1, Width: 10}}}
	dev := &fakeFrameDevice{}
	p := NewPixelText(dev, channels)
	fixed := time.Date(2024, 6, 1, 12, 34, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	require.NoError(t, p.Render([]poller.Reading{{ChannelID: "ac", Text: "8888W", OK: true}}))
	require.NoError(t, p.Render([]poller.Reading{{ChannelID: "ac", Text: "1W", OK: true}}))
	require.Len(t, dev.pushes, 2)

	// The second frame must not contain remnants of the first: render
	// the short text from a clean frame and compare.
	dev2 := &fakeFrameDevice{}
	p2 := NewPixelText(dev2, channels)
	p2.now = func() time.Time { return fixed }
	require.NoError(t, p2.Render([]poller.Reading{{ChannelID: "ac", Text: "1W", OK: true}}))

	assert.Equal(t, dev2.pushes[0], dev.pushes[1])
}

func TestPixelText_ClearPushesEmptyFrame(t *testing.T) {
	dev := &fakeFrameDevice{}
	p := NewPixelText(dev, nil)

	require.NoError(t, p.Clear())
	require.Len(t, dev.pushes, 1)
	for _, b := range dev.pushes[0] {
		if b != 0 {
			t.Fatalf("clear pushed a non-empty frame")
		}
	}
}

func TestPixelText_PushFailureWrapped(t *testing.T) {
	dev := &fakeFrameDevice{fail: true}
	p := NewPixelText(dev, nil)

	err := p.Render(nil)
	require.Error(t, err)
	assert.True(t, IsBackend(err))
}
