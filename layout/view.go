package layout

import (
	"fmt"
	"math"
	"reflect"

	"github.com/anirudhraja/flexmsg/schema"
)

// View is a read-only accessor over one payload, checked against the layout
// of its message kind.
type View struct {
	msg *schema.Message
	v   reflect.Value
}

// NewView checks that payload has the payload type of msg and returns a View
// over it. payload may be a struct value or a non-nil pointer to one.
func NewView(msg *schema.Message, payload any) (View, error) {
	if msg.Payload == nil {
		return View{}, fmt.Errorf("%w: %s has no payload type", ErrLayoutMismatch, msg.Name)
	}
	rv := reflect.ValueOf(payload)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return View{}, fmt.Errorf("%w: nil %s payload", ErrLayoutMismatch, msg.Name)
		}
		rv = rv.Elem()
	}
	if rv.Type() != msg.Payload {
		return View{}, fmt.Errorf("%w: %s wants %s, got %s", ErrLayoutMismatch, msg.Name, msg.Payload, rv.Type())
	}
	return View{msg: msg, v: rv}, nil
}

// Field returns the value of field i of the message.
func (w View) Field(i int) (schema.Value, error) {
	fv, f, err := locate(w.msg, w.v, i)
	if err != nil {
		return nil, err
	}
	switch f.Type {
	case schema.TypeInteger:
		switch fv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return schema.Integer(fv.Int()), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if u := fv.Uint(); u <= math.MaxInt64 {
				return schema.Integer(int64(u)), nil
			}
			return nil, fmt.Errorf("%w: %s.%s: %d overflows integer", ErrLayoutMismatch, w.msg.Name, f.Name, fv.Uint())
		}
	case schema.TypeFloat:
		switch fv.Kind() {
		case reflect.Float32, reflect.Float64:
			return schema.Float(fv.Float()), nil
		}
	case schema.TypeChar:
		if fv.Kind() == reflect.Uint8 {
			return schema.Char(byte(fv.Uint())), nil
		}
	}
	return nil, fmt.Errorf("%w: %s.%s declared %s, stored as %s", ErrLayoutMismatch, w.msg.Name, f.Name, f.Type, fv.Type())
}

// Builder fills a payload struct field by field.
type Builder struct {
	msg *schema.Message
	v   reflect.Value
}

// NewBuilder returns a Builder over a fresh zero payload of msg.
func NewBuilder(msg *schema.Message) (*Builder, error) {
	if msg.Payload == nil {
		return nil, fmt.Errorf("%w: %s has no payload type", ErrLayoutMismatch, msg.Name)
	}
	return &Builder{msg: msg, v: reflect.New(msg.Payload).Elem()}, nil
}

// BuilderFor returns a Builder writing into ptr, which must point to a value
// of the payload type of msg.
func BuilderFor(msg *schema.Message, ptr any) (*Builder, error) {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, fmt.Errorf("%w: target must be a non-nil pointer, got %T", ErrLayoutMismatch, ptr)
	}
	if rv.Elem().Type() != msg.Payload {
		return nil, fmt.Errorf("%w: %s wants *%s, got %T", ErrLayoutMismatch, msg.Name, msg.Payload, ptr)
	}
	return &Builder{msg: msg, v: rv.Elem()}, nil
}

// Set stores value into field i. The value must carry the field's declared
// primitive type and fit the Go type of the struct field.
func (b *Builder) Set(i int, value schema.Value) error {
	fv, f, err := locate(b.msg, b.v, i)
	if err != nil {
		return err
	}
	if value == nil || value.Type() != f.Type {
		return fmt.Errorf("%s.%s: %w", b.msg.Name, f.Name, &schema.TypeMismatchError{Want: f.Type, Got: typeOf(value)})
	}

	switch v := value.(type) {
	case schema.Integer:
		switch fv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if fv.OverflowInt(int64(v)) {
				return fmt.Errorf("%s.%s: %d overflows %s", b.msg.Name, f.Name, v, fv.Type())
			}
			fv.SetInt(int64(v))
			return nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if v < 0 || fv.OverflowUint(uint64(v)) {
				return fmt.Errorf("%s.%s: %d overflows %s", b.msg.Name, f.Name, v, fv.Type())
			}
			fv.SetUint(uint64(v))
			return nil
		}
	case schema.Float:
		switch fv.Kind() {
		case reflect.Float32:
			if !math.IsInf(float64(v), 0) && fv.OverflowFloat(float64(v)) {
				return fmt.Errorf("%s.%s: %g overflows %s", b.msg.Name, f.Name, float64(v), fv.Type())
			}
			fv.SetFloat(float64(v))
			return nil
		case reflect.Float64:
			fv.SetFloat(float64(v))
			return nil
		}
	case schema.Char:
		if fv.Kind() == reflect.Uint8 {
			fv.SetUint(uint64(v))
			return nil
		}
	}
	return fmt.Errorf("%w: %s.%s declared %s, stored as %s", ErrLayoutMismatch, b.msg.Name, f.Name, f.Type, fv.Type())
}

// Payload returns the built payload struct as a value.
func (b *Builder) Payload() any {
	return b.v.Interface()
}

func locate(msg *schema.Message, v reflect.Value, i int) (reflect.Value, *schema.Field, error) {
	if i < 0 || i >= len(msg.Fields) {
		return reflect.Value{}, nil, fmt.Errorf("%w: %s has no field %d", ErrLayoutMismatch, msg.Name, i)
	}
	f := msg.Fields[i]
	if f.Locator.Kind != schema.LocatorOffset {
		return reflect.Value{}, nil, fmt.Errorf("%w: %s.%s is not an offset field", ErrLayoutMismatch, msg.Name, f.Name)
	}
	idx := f.Locator.Index
	if idx < 0 || idx >= v.NumField() {
		return reflect.Value{}, nil, fmt.Errorf("%w: %s.%s: struct field %d out of range", ErrLayoutMismatch, msg.Name, f.Name, idx)
	}
	if sf := v.Type().Field(idx); sf.Offset != f.Locator.Offset {
		return reflect.Value{}, nil, fmt.Errorf("%w: %s.%s: offset %d, struct has %d", ErrLayoutMismatch, msg.Name, f.Name, f.Locator.Offset, sf.Offset)
	}
	return v.Field(idx), f, nil
}

func typeOf(v schema.Value) schema.PrimitiveType {
	if v == nil {
		return ""
	}
	return v.Type()
}
