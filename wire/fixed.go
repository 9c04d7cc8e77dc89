package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// DecodeFixed64 decodes a 64-bit little-endian fixed-width value
func (d *Decoder) DecodeFixed64() (uint64, error) {
	if d.pos+8 > len(d.buf) {
		return 0, fmt.Errorf("not enough data for fixed64: have %d bytes", len(d.buf)-d.pos)
	}

	value := binary.LittleEndian.Uint64(d.buf[d.pos:])
	d.pos += 8
	return value, nil
}

// DecodeDouble decodes a 64-bit float from fixed64 data
func (d *Decoder) DecodeDouble() (float64, error) {
	v, err := d.DecodeFixed64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// EncodeFixed64 encodes a 64-bit little-endian fixed-width value
func (e *Encoder) EncodeFixed64(v uint64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
}

// EncodeDouble encodes a 64-bit float as fixed64
func (e *Encoder) EncodeDouble(v float64) {
	e.EncodeFixed64(math.Float64bits(v))
}
