// internal/channel/channel.go
package channel

import (
	"fmt"
	"math"
	"strings"
)

// Device sentinel values. The controller reports these when no actual
// measurement is available (e.g. DC quantities at night).
const (
	MinSigned   = -2147483648
	MaxUnsigned = 4294967295
)

// DataType describes how raw register words combine into a value.
type DataType string

const (
	Signed16   DataType = "signed16"
	Unsigned16 DataType = "unsigned16"
	Signed32   DataType = "signed32"
	Unsigned32 DataType = "unsigned32"
	Unsigned64 DataType = "unsigned64"
	Float32    DataType = "float32"

	// Strings are named by character count, two ASCII chars per word.
	String16 DataType = "string16"
	String24 DataType = "string24"
	String32 DataType = "string32"
)

var wordCounts = map[DataType]uint16{
	Signed16:   1,
	Unsigned16: 1,
	Signed32:   2,
	Unsigned32: 2,
	Unsigned64: 4,
	Float32:    2,
	String16:   8,
	String24:   12,
	String32:   16,
}

// WordCount returns the number of 16-bit registers the type occupies.
func (t DataType) WordCount() (uint16, error) {
	n, ok := wordCounts[t]
	if !ok {
		return 0, fmt.Errorf("channel: unknown data type %q", string(t))
	}
	return n, nil
}

// IsString reports whether the type decodes to text instead of a number.
func (t DataType) IsString() bool {
	return t == String16 || t == String24 || t == String32
}

// WordOrder is the register word order for multi-word types.
// Controllers disagree on this, so it is a per-device setting.
type WordOrder string

const (
	BigEndian    WordOrder = "big" // most-significant word first
	LittleEndian WordOrder = "little"
)

// RegisterFunction selects the Modbus register table a channel reads from.
type RegisterFunction string

const (
	InputRegister   RegisterFunction = "input"   // FC 4
	HoldingRegister RegisterFunction = "holding" // FC 3
)

// Slot is a channel's placement on a display backend. Only the fields
// for the active backend are meaningful.
type Slot struct {
	// character grid
	Row   int
	Col   int
	Width int

	// pixel frame (top-left corner of the text region)
	X int
	Y int

	// LED bank
	LED int
}

// Channel maps one or more registers to a single display value.
type Channel struct {
	ID        string
	Label     string
	Address   uint16
	Function  RegisterFunction
	Type      DataType
	Scale     float64
	Precision int
	Unit      string
	SlaveID   uint8
	Threshold float64 // LED backend: on when scaled value > threshold
	Slot      Slot
}

// Value is a decoded channel value. Exactly one of Float or Text is
// meaningful, depending on the channel's data type.
type Value struct {
	Float float64
	Text  string

	// Unavailable is set when the device reported its "no value"
	// sentinel instead of a measurement.
	Unavailable bool
}

// Decode combines raw register words into a Value.
// Multi-word types are combined most-significant word first unless the
// device uses little-endian word order.
func Decode(t DataType, words []uint16, order WordOrder) (Value, error) {
	want, err := t.WordCount()
	if err != nil {
		return Value{}, err
	}
	if len(words) != int(want) {
		return Value{}, fmt.Errorf("channel: type %s wants %d words, got %d", t, want, len(words))
	}

	if t.IsString() {
		return Value{Text: decodeString(words)}, nil
	}

	switch t {
	case Signed16:
		return Value{Float: float64(int16(words[0]))}, nil
	case Unsigned16:
		return Value{Float: float64(words[0])}, nil
	case Signed32:
		raw := combine32(words, order)
		v := Value{Float: float64(int32(raw))}
		v.Unavailable = int32(raw) == MinSigned
		return v, nil
	case Unsigned32:
		raw := combine32(words, order)
		v := Value{Float: float64(raw)}
		v.Unavailable = raw == MaxUnsigned
		return v, nil
	case Unsigned64:
		raw := combine64(words, order)
		v := Value{Float: float64(raw)}
		v.Unavailable = raw == MaxUnsigned
		return v, nil
	case Float32:
		raw := combine32(words, order)
		return Value{Float: float64(math.Float32frombits(raw))}, nil
	}
	return Value{}, fmt.Errorf("channel: unknown data type %q", string(t))
}

// Encode is the inverse of Decode. It exists for tests and for building
// register images in simulated sources.
func Encode(t DataType, v Value, order WordOrder) ([]uint16, error) {
	n, err := t.WordCount()
	if err != nil {
		return nil, err
	}

	if t.IsString() {
		return encodeString(v.Text, int(n)), nil
	}

	switch t {
	case Signed16:
		return []uint16{uint16(int16(v.Float))}, nil
	case Unsigned16:
		return []uint16{uint16(v.Float)}, nil
	case Signed32:
		return split32(uint32(int32(v.Float)), order), nil
	case Unsigned32:
		return split32(uint32(v.Float), order), nil
	case Unsigned64:
		return split64(uint64(v.Float), order), nil
	case Float32:
		return split32(math.Float32bits(float32(v.Float)), order), nil
	}
	return nil, fmt.Errorf("channel: unknown data type %q", string(t))
}

func combine32(w []uint16, order WordOrder) uint32 {
	if order == LittleEndian {
		return uint32(w[1])<<16 | uint32(w[0])
	}
	return uint32(w[0])<<16 | uint32(w[1])
}

func split32(v uint32, order WordOrder) []uint16 {
	hi, lo := uint16(v>>16), uint16(v)
	if order == LittleEndian {
		return []uint16{lo, hi}
	}
	return []uint16{hi, lo}
}

func combine64(w []uint16, order WordOrder) uint64 {
	var v uint64
	if order == LittleEndian {
		for i := 3; i >= 0; i-- {
			v = v<<16 | uint64(w[i])
		}
		return v
	}
	for i := 0; i < 4; i++ {
		v = v<<16 | uint64(w[i])
	}
	return v
}

func split64(v uint64, order WordOrder) []uint16 {
	out := make([]uint16, 4)
	for i := 0; i < 4; i++ {
		out[3-i] = uint16(v >> (16 * i))
	}
	if order == LittleEndian {
		out[0], out[1], out[2], out[3] = out[3], out[2], out[1], out[0]
	}
	return out
}

// Strings are two ASCII bytes per word, high byte first, NUL padded.
// Word order does not apply; character order is fixed by the device.
func decodeString(words []uint16) string {
	b := make([]byte, 0, len(words)*2)
	for _, w := range words {
		b = append(b, byte(w>>8), byte(w))
	}
	return strings.TrimRight(string(b), "\x00")
}

func encodeString(s string, n int) []uint16 {
	b := make([]byte, n*2)
	copy(b, s)
	out := make([]uint16, n)
	for i := range out {
		out[i] = uint16(b[2*i])<<8 | uint16(b[2*i+1])
	}
	return out
}
