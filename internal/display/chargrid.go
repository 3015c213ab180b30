// internal/display/chargrid.go
package display

import (
	"github.com/transistorgrab/modmon/internal/channel"
	"github.com/transistorgrab/modmon/internal/poller"
)

// CharGrid renders readings onto a 20x4 character LCD. Every cycle the
// full grid is rebuilt from scratch and written row by row, so a value
// shrinking from "120W" to "5W" leaves no stale digits behind.
type CharGrid struct {
	dev   CharDevice
	slots map[string]channel.Slot
}

// NewCharGrid builds the character backend for a validated channel list.
func NewCharGrid(dev CharDevice, channels []channel.Channel) *CharGrid {
	slots := make(map[string]channel.Slot, len(channels))
	for _, ch := range channels {
		slots[ch.ID] = ch.Slot
	}
	return &CharGrid{dev: dev, slots: slots}
}

func (g *CharGrid) Render(readings []poller.Reading) error {
	var grid [CharRows][CharCols]byte
	for r := range grid {
		for c := range grid[r] {
			grid[r][c] = ' '
		}
	}

	for _, rd := range readings {
		slot, ok := g.slots[rd.ChannelID]
		if !ok {
			continue
		}
		for i := 0; i < len(rd.Text) && slot.Col+i < CharCols; i++ {
			grid[slot.Row][slot.Col+i] = rd.Text[i]
		}
	}

	for r := 0; r < CharRows; r++ {
		if err := g.dev.WriteAt(r, 0, string(grid[r][:])); err != nil {
			return &BackendError{Op: "write row", Err: err}
		}
	}
	return nil
}

func (g *CharGrid) Clear() error {
	if err := g.dev.Clear(); err != nil {
		return &BackendError{Op: "clear", Err: err}
	}
	return nil
}
