package wire

import (
	"fmt"

	"github.com/anirudhraja/flexmsg/message"
	"github.com/anirudhraja/flexmsg/registry"
	"github.com/anirudhraja/flexmsg/schema"
)

// Encoder handles low-level wire format encoding
type Encoder struct {
	buf []byte
}

// NewEncoder creates a new wire format encoder
func NewEncoder() *Encoder {
	return &Encoder{
		buf: make([]byte, 0, 64),
	}
}

// Bytes returns the encoded bytes
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Reset clears the encoder buffer
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// EncodeMessage encodes an instance inside an envelope carrying its kind -
// main entry point
func EncodeMessage(inst message.Instance, reg *registry.Registry) ([]byte, error) {
	if inst == nil {
		return nil, fmt.Errorf("encode: nil instance")
	}
	msg, err := reg.GetMessage(inst.Kind())
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	payload := NewEncoder()
	if err := payload.EncodePayload(msg, inst); err != nil {
		return nil, err
	}

	envelope := NewEncoder()
	envelope.EncodeTag(EnvelopeKind, WireVarint)
	envelope.EncodeVarint(uint64(uint32(msg.Kind)))
	envelope.EncodeTag(EnvelopePayload, WireBytes)
	envelope.EncodeBytes(payload.Bytes())
	return envelope.Bytes(), nil
}

// EncodePayload encodes every field of inst in schema order.
func (e *Encoder) EncodePayload(msg *schema.Message, inst message.Instance) error {
	read, err := message.Accessor(msg, inst)
	if err != nil {
		return schema.WrapField(err, msg.Name)
	}

	for i, field := range msg.Fields {
		value, err := read(i)
		if err != nil {
			return schema.WrapField(schema.WrapField(err, field.Name), msg.Name)
		}
		if err := e.EncodeValue(FieldNumber(i+1), field.Type, value); err != nil {
			return schema.WrapField(schema.WrapField(err, field.Name), msg.Name)
		}
	}
	return nil
}

// EncodeValue encodes one tagged value under the given field number
func (e *Encoder) EncodeValue(fieldNumber FieldNumber, fieldType schema.PrimitiveType, value schema.Value) error {
	switch fieldType {
	case schema.TypeInteger:
		v, err := schema.AsInteger(value)
		if err != nil {
			return err
		}
		e.EncodeTag(fieldNumber, WireVarint)
		e.EncodeSint64(v)
	case schema.TypeFloat:
		v, err := schema.AsFloat(value)
		if err != nil {
			return err
		}
		e.EncodeTag(fieldNumber, WireFixed64)
		e.EncodeDouble(v)
	case schema.TypeChar:
		v, err := schema.AsChar(value)
		if err != nil {
			return err
		}
		e.EncodeTag(fieldNumber, WireVarint)
		e.EncodeVarint(uint64(v))
	default:
		return fmt.Errorf("unsupported field type: %s", fieldType)
	}
	return nil
}

// WireTypeFor returns the wire type a primitive type is encoded with
func WireTypeFor(t schema.PrimitiveType) (WireType, error) {
	switch t {
	case schema.TypeInteger, schema.TypeChar:
		return WireVarint, nil
	case schema.TypeFloat:
		return WireFixed64, nil
	default:
		return 0, fmt.Errorf("unsupported field type: %s", t)
	}
}
