// Package message defines message instances for both storage strategies.
//
// A layout instance is any payload struct whose Kind method names its message
// kind, so the kind is fixed by the payload type. A Record is the tagged
// alternative: a kind plus an ordered list of (descriptor, value) pairs.
package message

import (
	"errors"
	"fmt"

	"github.com/anirudhraja/flexmsg/schema"
)

var (
	ErrFieldCount = errors.New("wrong number of field values")
	ErrNotInline  = errors.New("instance does not carry inline values")
)

// Instance is a concrete message of some kind.
type Instance interface {
	Kind() schema.Kind
}

// InlineReader is implemented by instances that carry their values inline.
type InlineReader interface {
	Instance
	FieldValue(i int) (schema.Value, error)
}

// FieldValue pairs a descriptor with the value it describes.
type FieldValue struct {
	Field *schema.Field
	Value schema.Value
}

// Record is a tagged message instance.
type Record struct {
	kind   schema.Kind
	fields []FieldValue
}

// NewRecord builds a Record of msg from values given in field order. Every
// value must carry the primitive type of its field.
func NewRecord(msg *schema.Message, values ...schema.Value) (*Record, error) {
	if msg.Strategy() != schema.StrategyTagged {
		return nil, fmt.Errorf("%s: records need a tagged schema, got %s", msg.Name, msg.Strategy())
	}
	if len(values) != len(msg.Fields) {
		return nil, fmt.Errorf("%s: %w: want %d, got %d", msg.Name, ErrFieldCount, len(msg.Fields), len(values))
	}
	fields := make([]FieldValue, len(values))
	for i, v := range values {
		f := msg.Fields[i]
		if v == nil || v.Type() != f.Type {
			return nil, fmt.Errorf("%s.%s: %w", msg.Name, f.Name, mismatch(f.Type, v))
		}
		fields[i] = FieldValue{Field: f, Value: v}
	}
	return &Record{kind: msg.Kind, fields: fields}, nil
}

// Kind returns the message kind of the record.
func (r *Record) Kind() schema.Kind { return r.kind }

// Len returns the number of fields in the record.
func (r *Record) Len() int { return len(r.fields) }

// Fields returns a copy of the record's field pairs, descriptors included.
func (r *Record) Fields() []FieldValue {
	out := make([]FieldValue, len(r.fields))
	for i, fv := range r.fields {
		f := *fv.Field
		out[i] = FieldValue{Field: &f, Value: fv.Value}
	}
	return out
}

// FieldValue returns the value stored in slot i.
func (r *Record) FieldValue(i int) (schema.Value, error) {
	if i < 0 || i >= len(r.fields) {
		return nil, fmt.Errorf("record of kind %d has no field %d", r.kind, i)
	}
	return r.fields[i].Value, nil
}

func mismatch(want schema.PrimitiveType, v schema.Value) error {
	var got schema.PrimitiveType
	if v != nil {
		got = v.Type()
	}
	return &schema.TypeMismatchError{Want: want, Got: got}
}
