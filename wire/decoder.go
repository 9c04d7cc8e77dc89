package wire

import (
	"errors"
	"fmt"
	"math"

	"github.com/anirudhraja/flexmsg/message"
	"github.com/anirudhraja/flexmsg/registry"
	"github.com/anirudhraja/flexmsg/schema"
)

var (
	ErrMissingKind     = errors.New("envelope has no kind")
	ErrWireType        = errors.New("unexpected wire type")
	ErrUnknownField    = errors.New("unknown field")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrFieldNumber     = errors.New("invalid field number")
)

// Decoder handles low-level wire format decoding
type Decoder struct {
	buf  []byte
	pos  int
	opts Options
}

// NewDecoder creates a new wire format decoder
func NewDecoder(data []byte) *Decoder {
	return &Decoder{
		buf: data,
		pos: 0,
	}
}

// NewDecoderWithOptions creates a decoder with the given options
func NewDecoderWithOptions(data []byte, opts Options) *Decoder {
	return &Decoder{
		buf:  data,
		pos:  0,
		opts: opts,
	}
}

// Remaining reports how many bytes are left to decode
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

// DecodeMessage decodes an envelope into an instance of the kind it names -
// main entry point
func DecodeMessage(data []byte, reg *registry.Registry) (message.Instance, error) {
	return NewDecoder(data).DecodeEnvelope(reg)
}

// DecodeMessageWithOptions is DecodeMessage with explicit decoder options
func DecodeMessageWithOptions(data []byte, reg *registry.Registry, opts Options) (message.Instance, error) {
	return NewDecoderWithOptions(data, opts).DecodeEnvelope(reg)
}

// DecodeEnvelope reads the kind and payload fields and decodes the payload
// against the schema registered for the kind.
func (d *Decoder) DecodeEnvelope(reg *registry.Registry) (message.Instance, error) {
	var (
		kind     uint64
		payload  []byte
		seenKind bool
	)

	for d.pos < len(d.buf) {
		fieldNumber, wireType, err := d.decodeTag()
		if err != nil {
			return nil, fmt.Errorf("failed to decode envelope: %w", err)
		}

		switch {
		case fieldNumber == EnvelopeKind && wireType == WireVarint:
			if kind, err = d.DecodeVarint(); err != nil {
				return nil, fmt.Errorf("failed to decode envelope kind: %w", err)
			}
			seenKind = true
		case fieldNumber == EnvelopePayload && wireType == WireBytes:
			if payload, err = d.DecodeBytes(); err != nil {
				return nil, fmt.Errorf("failed to decode envelope payload: %w", err)
			}
		case fieldNumber == EnvelopeKind || fieldNumber == EnvelopePayload:
			return nil, fmt.Errorf("envelope field %d: %w %d", fieldNumber, ErrWireType, wireType)
		default:
			if d.opts.Strict {
				return nil, fmt.Errorf("envelope field %d: %w", fieldNumber, ErrUnknownField)
			}
			if err := d.skipField(wireType); err != nil {
				return nil, fmt.Errorf("failed to decode envelope: %w", err)
			}
		}
	}

	if !seenKind {
		return nil, ErrMissingKind
	}
	if kind > math.MaxUint32 {
		return nil, fmt.Errorf("envelope kind %d: %w", kind, ErrValueOutOfRange)
	}
	msg, err := reg.GetMessage(schema.Kind(int32(uint32(kind))))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	values, err := NewDecoderWithOptions(payload, d.opts).DecodePayload(msg)
	if err != nil {
		return nil, err
	}
	inst, err := message.Build(msg, values)
	if err != nil {
		return nil, schema.WrapField(err, msg.Name)
	}
	return inst, nil
}

// DecodePayload decodes payload fields into values in schema order. Fields
// absent from the payload decode as zero values; the last occurrence of a
// repeated field wins.
func (d *Decoder) DecodePayload(msg *schema.Message) ([]schema.Value, error) {
	values := make([]schema.Value, len(msg.Fields))
	for i, f := range msg.Fields {
		values[i] = schema.Zero(f.Type)
	}

	for d.pos < len(d.buf) {
		fieldNumber, wireType, err := d.decodeTag()
		if err != nil {
			return nil, fmt.Errorf("failed to decode message %s: %w", msg.Name, err)
		}

		index := int(fieldNumber) - 1
		if index < 0 || index >= len(msg.Fields) {
			if d.opts.Strict {
				return nil, schema.WrapField(fmt.Errorf("field number %d: %w", fieldNumber, ErrUnknownField), msg.Name)
			}
			if err := d.skipField(wireType); err != nil {
				return nil, fmt.Errorf("failed to decode message %s: %w", msg.Name, err)
			}
			continue
		}

		field := msg.Fields[index]
		value, err := d.DecodeValue(field.Type, wireType)
		if err != nil {
			return nil, schema.WrapField(schema.WrapField(err, field.Name), msg.Name)
		}
		values[index] = value
	}
	return values, nil
}

// decodeTag reads a tag and rejects field numbers outside 1..MaxFieldNumber
// before they are narrowed to FieldNumber.
func (d *Decoder) decodeTag() (FieldNumber, WireType, error) {
	tag, err := d.DecodeVarint()
	if err != nil {
		return 0, 0, err
	}
	if !ValidTag(Tag(tag)) {
		return 0, 0, fmt.Errorf("%w %d", ErrFieldNumber, tag>>3)
	}
	fieldNumber, wireType := ParseTag(Tag(tag))
	return fieldNumber, wireType, nil
}

// DecodeValue decodes one value of the given primitive type
func (d *Decoder) DecodeValue(fieldType schema.PrimitiveType, wireType WireType) (schema.Value, error) {
	want, err := WireTypeFor(fieldType)
	if err != nil {
		return nil, err
	}
	if wireType != want {
		return nil, fmt.Errorf("%w %d for %s, want %d", ErrWireType, wireType, fieldType, want)
	}

	switch fieldType {
	case schema.TypeInteger:
		v, err := d.DecodeSint64()
		if err != nil {
			return nil, err
		}
		return schema.Integer(v), nil
	case schema.TypeFloat:
		v, err := d.DecodeDouble()
		if err != nil {
			return nil, err
		}
		return schema.Float(v), nil
	default: // schema.TypeChar
		v, err := d.DecodeVarint()
		if err != nil {
			return nil, err
		}
		if v > math.MaxUint8 {
			return nil, fmt.Errorf("char %d: %w", v, ErrValueOutOfRange)
		}
		return schema.Char(byte(v)), nil
	}
}
