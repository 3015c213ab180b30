// internal/format/format.go

// Package format turns channel values into display strings.
// Output is deterministic and fixed-width so layouts never shift
// between poll cycles.
package format

import (
	"strconv"
	"strings"
)

// PlaceholderText is rendered for channels with no usable value.
const PlaceholderText = "----"

// Fixed renders a scaled numeric value with a fixed number of decimal
// places and the channel's unit suffix, padded or truncated to width.
func Fixed(value float64, precision int, unit string, width int) string {
	if precision < 0 {
		precision = 0
	}
	s := strconv.FormatFloat(value, 'f', precision, 64) + unit
	return pad(s, width)
}

// Text renders a string-typed channel value.
func Text(s string, width int) string {
	return pad(s, width)
}

// Placeholder is the fixed-width "no value" marker.
func Placeholder(width int) string {
	return pad(PlaceholderText, width)
}

func pad(s string, width int) string {
	if width <= 0 {
		return s
	}
	if len(s) > width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}
