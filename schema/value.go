package schema

import "fmt"

// Value holds exactly one primitive value. The set of implementations is
// closed: Integer, Float and Char.
type Value interface {
	// Type reports the primitive type the value was constructed with.
	Type() PrimitiveType
	isValue()
}

// Integer is a signed integer value.
type Integer int64

// Float is a floating point value.
type Float float64

// Char is a single byte character value.
type Char byte

func (Integer) Type() PrimitiveType { return TypeInteger }
func (Float) Type() PrimitiveType   { return TypeFloat }
func (Char) Type() PrimitiveType    { return TypeChar }

func (Integer) isValue() {}
func (Float) isValue()   {}
func (Char) isValue()    {}

// TypeMismatchError is returned when a value is read under a primitive type
// other than the one it holds.
type TypeMismatchError struct {
	Want PrimitiveType
	Got  PrimitiveType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: want %s, got %s", e.Want, e.Got)
}

func typeOf(v Value) PrimitiveType {
	if v == nil {
		return ""
	}
	return v.Type()
}

// AsInteger returns v as an int64, failing if v is not an Integer.
func AsInteger(v Value) (int64, error) {
	i, ok := v.(Integer)
	if !ok {
		return 0, &TypeMismatchError{Want: TypeInteger, Got: typeOf(v)}
	}
	return int64(i), nil
}

// AsFloat returns v as a float64, failing if v is not a Float.
func AsFloat(v Value) (float64, error) {
	f, ok := v.(Float)
	if !ok {
		return 0, &TypeMismatchError{Want: TypeFloat, Got: typeOf(v)}
	}
	return float64(f), nil
}

// AsChar returns v as a byte, failing if v is not a Char.
func AsChar(v Value) (byte, error) {
	c, ok := v.(Char)
	if !ok {
		return 0, &TypeMismatchError{Want: TypeChar, Got: typeOf(v)}
	}
	return byte(c), nil
}

// Zero returns the zero value for t, or nil if t is not a valid type.
func Zero(t PrimitiveType) Value {
	switch t {
	case TypeInteger:
		return Integer(0)
	case TypeFloat:
		return Float(0)
	case TypeChar:
		return Char(0)
	default:
		return nil
	}
}
