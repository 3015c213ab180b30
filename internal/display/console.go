// internal/display/console.go
package display

import (
	"fmt"
	"io"
	"strings"
)

// Console implementations of the hardware device interfaces. They back
// the --print mode of the monitor and double as the device to run the
// pipeline on machines without the actual display attached. Output is
// only written when the frame content changed, so an idle display does
// not scroll the terminal.

// ConsoleChar mimics the 20x4 character LCD on a terminal.
type ConsoleChar struct {
	w    io.Writer
	rows [CharRows]string
	last string
}

func NewConsoleChar(w io.Writer) *ConsoleChar {
	return &ConsoleChar{w: w}
}

func (c *ConsoleChar) WriteAt(row, col int, text string) error {
	if row < 0 || row >= CharRows {
		return &BackendError{Op: fmt.Sprintf("console write row %d", row)}
	}

	line := c.rows[row]
	if len(line) < CharCols {
		line += strings.Repeat(" ", CharCols-len(line))
	}
	buf := []byte(line)
	for i := 0; i < len(text) && col+i < CharCols; i++ {
		buf[col+i] = text[i]
	}
	c.rows[row] = string(buf)

	// The grid backend writes rows top to bottom; flush once the last
	// row arrived.
	if row == CharRows-1 {
		c.flush()
	}
	return nil
}

func (c *ConsoleChar) Clear() error {
	for i := range c.rows {
		c.rows[i] = strings.Repeat(" ", CharCols)
	}
	c.flush()
	return nil
}

func (c *ConsoleChar) flush() {
	frame := "+" + strings.Repeat("-", CharCols) + "+\n"
	for _, row := range c.rows {
		if len(row) < CharCols {
			row += strings.Repeat(" ", CharCols-len(row))
		}
		frame += "|" + row + "|\n"
	}
	frame += "+" + strings.Repeat("-", CharCols) + "+\n"

	if frame == c.last {
		return
	}
	c.last = frame
	fmt.Fprint(c.w, frame)
}

// ConsoleFrame renders pushed pixel frames as ASCII art.
type ConsoleFrame struct {
	w    io.Writer
	last string
}

func NewConsoleFrame(w io.Writer) *ConsoleFrame {
	return &ConsoleFrame{w: w}
}

func (c *ConsoleFrame) PushFrame(pages []byte) error {
	if len(pages) != pixelPages*PixelWidth {
		return &BackendError{Op: fmt.Sprintf("console frame: %d bytes", len(pages))}
	}

	var sb strings.Builder
	sb.WriteString("+" + strings.Repeat("-", PixelWidth) + "+\n")
	for y := 0; y < PixelHeight; y++ {
		sb.WriteByte('|')
		for x := 0; x < PixelWidth; x++ {
			if pages[(y/8)*PixelWidth+x]&(1<<(y%8)) != 0 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("+" + strings.Repeat("-", PixelWidth) + "+\n")

	frame := sb.String()
	if frame == c.last {
		return nil
	}
	c.last = frame
	fmt.Fprint(c.w, frame)
	return nil
}

// ConsoleShift prints the LED shift frame as bit patterns.
type ConsoleShift struct {
	w    io.Writer
	last string
}

func NewConsoleShift(w io.Writer) *ConsoleShift {
	return &ConsoleShift{w: w}
}

func (c *ConsoleShift) WriteFrame(data []byte) error {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = fmt.Sprintf("%08b", b)
	}
	frame := "LED " + strings.Join(parts, " ") + "\n"
	if frame == c.last {
		return nil
	}
	c.last = frame
	fmt.Fprint(c.w, frame)
	return nil
}
