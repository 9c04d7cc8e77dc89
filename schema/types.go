package schema

import (
	"reflect"
)

// Kind identifies a message kind. Every kind has exactly one Message
// descriptor in a registry.
type Kind int32

// Message describes one message kind: its display name and its ordered fields.
// A Message is built once during startup and is read-only afterwards.
type Message struct {
	Kind    Kind         `json:"kind"`    // 0
	Name    string       `json:"name"`    // "Temp"
	Fields  []*Field     `json:"fields"`  // display order == declaration order
	Payload reflect.Type `json:"-"`       // payload struct type, nil for tagged records
}

// Field describes a single field of a message kind.
type Field struct {
	Name    string        `json:"name"`    // "Average Temp"
	Type    PrimitiveType `json:"type"`    // float
	Locator Locator       `json:"locator"` // where the value lives
}

// Strategy is the storage strategy a Message uses for its values.
type Strategy string

const (
	// StrategyTagged stores every value inline next to its descriptor.
	StrategyTagged Strategy = "tagged"
	// StrategyLayout stores values in a fixed payload struct addressed by field index.
	StrategyLayout Strategy = "layout"
)

// Strategy reports how instances of this message store their values.
func (m *Message) Strategy() Strategy {
	if m.Payload != nil {
		return StrategyLayout
	}
	return StrategyTagged
}

// Clone returns a deep copy of m. The payload type is shared.
func (m *Message) Clone() *Message {
	c := *m
	fields := make([]Field, len(m.Fields))
	c.Fields = make([]*Field, len(m.Fields))
	for i, f := range m.Fields {
		fields[i] = *f
		c.Fields[i] = &fields[i]
	}
	return &c
}

// FieldNames returns the display names in declaration order.
func (m *Message) FieldNames() []string {
	names := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		names[i] = f.Name
	}
	return names
}

// LocatorKind tells the renderer where to look for a field's value.
type LocatorKind string

const (
	// LocatorInline means the value is carried next to the descriptor.
	LocatorInline LocatorKind = "inline"
	// LocatorOffset means the value lives in a payload struct field.
	LocatorOffset LocatorKind = "offset"
)

// Locator points at the storage of one field.
//
// For inline locators Index is the slot in the record. For offset locators
// Index is the struct field index used by the accessor, and Offset is the byte
// offset reported by the compiler for that field. Offset is descriptive only;
// values are never read through it.
type Locator struct {
	Kind   LocatorKind `json:"kind"`
	Index  int         `json:"index"`
	Offset uintptr     `json:"offset,omitempty"`
}

// Inline returns an inline locator for slot i.
func Inline(i int) Locator {
	return Locator{Kind: LocatorInline, Index: i}
}

// Offset returns an offset locator for struct field index i at byte offset off.
func Offset(i int, off uintptr) Locator {
	return Locator{Kind: LocatorOffset, Index: i, Offset: off}
}

// PrimitiveType is the closed set of scalar kinds a field can hold.
type PrimitiveType string

const (
	TypeInteger PrimitiveType = "integer"
	TypeFloat   PrimitiveType = "float"
	TypeChar    PrimitiveType = "char"
)

var primitiveTypes = map[PrimitiveType]struct{}{
	TypeInteger: {},
	TypeFloat:   {},
	TypeChar:    {},
}

// Valid reports whether t is one of the supported primitive types.
func (t PrimitiveType) Valid() bool {
	_, ok := primitiveTypes[t]
	return ok
}

// PrimitiveTypes lists every supported primitive type.
func PrimitiveTypes() []PrimitiveType {
	return []PrimitiveType{TypeInteger, TypeFloat, TypeChar}
}
