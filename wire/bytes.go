package wire

import (
	"fmt"
)

// DecodeBytes decodes a length-delimited byte slice. The result shares the
// decoder's buffer.
func (d *Decoder) DecodeBytes() ([]byte, error) {
	length, err := d.DecodeVarint()
	if err != nil {
		return nil, fmt.Errorf("failed to decode bytes length: %w", err)
	}

	if length > uint64(len(d.buf)-d.pos) {
		return nil, fmt.Errorf("bytes truncated: need %d bytes, have %d", length, len(d.buf)-d.pos)
	}

	data := d.buf[d.pos : d.pos+int(length)]
	d.pos += int(length)
	return data, nil
}

// EncodeBytes encodes a byte slice as length-delimited
func (e *Encoder) EncodeBytes(data []byte) {
	e.EncodeVarint(uint64(len(data)))
	e.buf = append(e.buf, data...)
}

// skipField skips a field based on wire type
func (d *Decoder) skipField(wireType WireType) error {
	switch wireType {
	case WireVarint:
		_, err := d.DecodeVarint()
		return err
	case WireFixed64:
		if d.pos+8 > len(d.buf) {
			return fmt.Errorf("not enough data to skip fixed64")
		}
		d.pos += 8
		return nil
	case WireBytes:
		_, err := d.DecodeBytes()
		return err
	case WireFixed32:
		if d.pos+4 > len(d.buf) {
			return fmt.Errorf("not enough data to skip fixed32")
		}
		d.pos += 4
		return nil
	default:
		return fmt.Errorf("unknown wire type: %d", wireType)
	}
}
