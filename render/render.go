// Package render turns message instances into ordered (name, text) pairs by
// walking the schema of the instance's kind. It never branches on the kind
// itself, only on the primitive type of each field.
package render

import (
	"fmt"
	"strconv"

	"github.com/anirudhraja/flexmsg/message"
	"github.com/anirudhraja/flexmsg/registry"
	"github.com/anirudhraja/flexmsg/schema"
)

// DefaultPrecision is the number of fractional digits used for floats.
const DefaultPrecision = 6

// Pair is one rendered field.
type Pair struct {
	Name string `json:"name" yaml:"name" cbor:"name"`
	Text string `json:"text" yaml:"text" cbor:"text"`
}

// Rendering is a rendered instance together with its schema name, ready for a
// sink to print.
type Rendering struct {
	Kind   schema.Kind `json:"kind" yaml:"kind" cbor:"kind"`
	Name   string      `json:"name" yaml:"name" cbor:"name"`
	Fields []Pair      `json:"fields" yaml:"fields" cbor:"fields"`
}

// Renderer renders instances against a schema table.
type Renderer struct {
	registry  *registry.Registry
	precision int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPrecision sets the number of fractional digits for floats.
func WithPrecision(digits int) Option {
	return func(r *Renderer) {
		if digits >= 0 {
			r.precision = digits
		}
	}
}

func New(reg *registry.Registry, opts ...Option) *Renderer {
	r := &Renderer{registry: reg, precision: DefaultPrecision}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render returns one pair per schema field, in schema order. Either every
// field renders or an error is returned and no pairs are.
func (r *Renderer) Render(inst message.Instance) ([]Pair, error) {
	rendering, err := r.RenderMessage(inst)
	if err != nil {
		return nil, err
	}
	return rendering.Fields, nil
}

// MustRender is like Render but panics on error. A failure here means the
// schema table and the instance disagree, which is a programming error.
func (r *Renderer) MustRender(inst message.Instance) []Pair {
	pairs, err := r.Render(inst)
	if err != nil {
		panic(err)
	}
	return pairs
}

// RenderMessage renders inst and attaches its kind and schema name.
func (r *Renderer) RenderMessage(inst message.Instance) (Rendering, error) {
	if inst == nil {
		return Rendering{}, fmt.Errorf("render: nil instance")
	}
	msg, err := r.registry.GetMessage(inst.Kind())
	if err != nil {
		return Rendering{}, fmt.Errorf("render: %w", err)
	}

	read, err := message.Accessor(msg, inst)
	if err != nil {
		return Rendering{}, schema.WrapField(err, msg.Name)
	}

	pairs := make([]Pair, len(msg.Fields))
	for i, f := range msg.Fields {
		v, err := read(i)
		if err != nil {
			return Rendering{}, schema.WrapField(schema.WrapField(err, f.Name), msg.Name)
		}
		if v == nil || v.Type() != f.Type {
			err := &schema.TypeMismatchError{Want: f.Type, Got: typeOf(v)}
			return Rendering{}, schema.WrapField(schema.WrapField(err, f.Name), msg.Name)
		}
		pairs[i] = Pair{Name: f.Name, Text: Format(v, r.precision)}
	}
	return Rendering{Kind: msg.Kind, Name: msg.Name, Fields: pairs}, nil
}

// Format renders a single value. Integers are base-10 and floats use fixed
// notation with precision fractional digits. A char is read as a Latin-1
// code point, so every byte yields valid UTF-8 and ASCII is unchanged.
func Format(v schema.Value, precision int) string {
	switch v := v.(type) {
	case schema.Integer:
		return strconv.FormatInt(int64(v), 10)
	case schema.Float:
		return strconv.FormatFloat(float64(v), 'f', precision, 64)
	case schema.Char:
		return string(rune(v))
	default:
		panic(fmt.Sprintf("render: unsupported value %T", v))
	}
}

func typeOf(v schema.Value) schema.PrimitiveType {
	if v == nil {
		return ""
	}
	return v.Type()
}
