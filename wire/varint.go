package wire

import (
	"errors"
)

// Varint encoding/decoding errors
var (
	ErrVarintOverflow = errors.New("varint overflow")
	ErrUnexpectedEOF  = errors.New("unexpected EOF while reading varint")
)

// DecodeVarint decodes a varint from the current position
func (d *Decoder) DecodeVarint() (uint64, error) {
	var result uint64
	var shift uint

	for i := 0; i < 10; i++ { // Max 10 bytes for 64-bit varint
		if d.pos >= len(d.buf) {
			return 0, ErrUnexpectedEOF
		}

		b := d.buf[d.pos]
		d.pos++

		// The tenth byte may only carry the top bit of a 64-bit value
		if i == 9 && b > 1 {
			return 0, ErrVarintOverflow
		}

		result |= uint64(b&0x7F) << shift
		if (b & 0x80) == 0 {
			return result, nil
		}
		shift += 7
	}

	return 0, ErrVarintOverflow
}

// DecodeSint64 decodes a zigzag-encoded signed varint as int64
func (d *Decoder) DecodeSint64() (int64, error) {
	v, err := d.DecodeVarint()
	if err != nil {
		return 0, err
	}
	return DecodeZigZag64(v), nil
}

// EncodeVarint encodes a uint64 as varint
func (e *Encoder) EncodeVarint(v uint64) {
	for v >= 0x80 {
		e.buf = append(e.buf, byte(v)|0x80)
		v >>= 7
	}
	e.buf = append(e.buf, byte(v))
}

// EncodeSint64 encodes a signed int64 with zigzag encoding
func (e *Encoder) EncodeSint64(v int64) {
	e.EncodeVarint(EncodeZigZag64(v))
}

// EncodeTag encodes a field tag
func (e *Encoder) EncodeTag(fieldNumber FieldNumber, wireType WireType) {
	e.EncodeVarint(uint64(MakeTag(fieldNumber, wireType)))
}

// DecodeZigZag64 decodes a zigzag-encoded 64-bit integer
func DecodeZigZag64(encoded uint64) int64 {
	return int64((encoded >> 1) ^ uint64(-int64(encoded&1)))
}

// EncodeZigZag64 encodes a signed 64-bit integer using zigzag encoding
func EncodeZigZag64(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

// VarintSize returns the number of bytes needed to encode the given varint
func VarintSize(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}
