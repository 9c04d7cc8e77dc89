package render

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/anirudhraja/flexmsg/buoy"
	"github.com/anirudhraja/flexmsg/layout"
	"github.com/anirudhraja/flexmsg/message"
	"github.com/anirudhraja/flexmsg/registry"
	"github.com/anirudhraja/flexmsg/schema"
)

func newRenderer(t *testing.T, opts ...Option) (*Renderer, *registry.Registry) {
	t.Helper()
	reg := registry.NewRegistry()
	if err := buoy.Register(reg); err != nil {
		t.Fatalf("buoy.Register: %v", err)
	}
	if err := buoy.RegisterTagged(reg); err != nil {
		t.Fatalf("buoy.RegisterTagged: %v", err)
	}
	reg.Freeze()
	return New(reg, opts...), reg
}

// forged carries inline values without going through NewRecord.
type forged struct {
	kind   schema.Kind
	values []schema.Value
}

func (f forged) Kind() schema.Kind { return f.kind }

func (f forged) FieldValue(i int) (schema.Value, error) {
	return f.values[i], nil
}

// impostor claims the temperature kind but has a different layout.
type impostor struct {
	AvgTemp float64
}

func (impostor) Kind() schema.Kind { return buoy.KindTemperature }

func TestRender_Layout(t *testing.T) {
	r, _ := newRenderer(t)

	tests := []struct {
		name string
		inst message.Instance
		want []Pair
	}{
		{
			name: "temperature",
			inst: buoy.Temperature{AvgTemp: 4.5, NumSamples: 15},
			want: []Pair{
				{Name: "Average Temp", Text: "4.500000"},
				{Name: "Number of Samples", Text: "15"},
			},
		},
		{
			name: "location",
			inst: buoy.Location{Latitude: 33.4567, NorthSouth: 'N', Longitude: 124.8724, EastWest: 'E'},
			want: []Pair{
				{Name: "Latitude", Text: "33.456700"},
				{Name: "N/S", Text: "N"},
				{Name: "Longitude", Text: "124.872400"},
				{Name: "E/W", Text: "E"},
			},
		},
		{
			name: "location pointer",
			inst: &buoy.Location{Latitude: -12.5, NorthSouth: 'S', Longitude: -0.25, EastWest: 'W'},
			want: []Pair{
				{Name: "Latitude", Text: "-12.500000"},
				{Name: "N/S", Text: "S"},
				{Name: "Longitude", Text: "-0.250000"},
				{Name: "E/W", Text: "W"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Render(tt.inst)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Render() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRender_Tagged(t *testing.T) {
	r, reg := newRenderer(t)
	records, err := buoy.TaggedSamples(reg)
	if err != nil {
		t.Fatal(err)
	}

	want := [][]Pair{
		{{Name: "Temp", Text: "4.500000"}, {Name: "Samples", Text: "10"}},
		{{Name: "Lat", Text: "33.456700"}, {Name: "N/S", Text: "N"}, {Name: "Long", Text: "124.872400"}, {Name: "E/W", Text: "E"}},
	}
	for i, rec := range records {
		got, err := r.Render(rec)
		if err != nil {
			t.Fatalf("Render(record %d) error = %v", i, err)
		}
		if !reflect.DeepEqual(got, want[i]) {
			t.Errorf("Render(record %d) = %v, want %v", i, got, want[i])
		}
	}
}

func TestRender_FieldCountAndOrder(t *testing.T) {
	r, reg := newRenderer(t)
	insts := append(buoy.Samples(), mustTagged(t, reg)...)

	for _, inst := range insts {
		msg, err := reg.GetMessage(inst.Kind())
		if err != nil {
			t.Fatal(err)
		}
		pairs := r.MustRender(inst)
		if len(pairs) != len(msg.Fields) {
			t.Fatalf("%s: got %d pairs, want %d", msg.Name, len(pairs), len(msg.Fields))
		}
		for i, p := range pairs {
			if p.Name != msg.Fields[i].Name {
				t.Errorf("%s: pair %d is %q, want %q", msg.Name, i, p.Name, msg.Fields[i].Name)
			}
		}
	}
}

func TestRender_Idempotent(t *testing.T) {
	r, _ := newRenderer(t)
	temp := buoy.Temperature{AvgTemp: 4.5, NumSamples: 15}
	loc := buoy.Location{Latitude: 33.4567, NorthSouth: 'N', Longitude: 124.8724, EastWest: 'E'}

	first := r.MustRender(temp)
	r.MustRender(loc)
	second := r.MustRender(temp)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("rendering changed between calls: %v vs %v", first, second)
	}

	first[0].Text = "mutated"
	if third := r.MustRender(temp); third[0].Text != "4.500000" {
		t.Errorf("renders share state: %v", third)
	}
}

func TestRender_UnknownKind(t *testing.T) {
	reg := registry.NewRegistry()
	r := New(reg)

	_, err := r.Render(buoy.Temperature{AvgTemp: 1})
	if !errors.Is(err, registry.ErrUnknownKind) {
		t.Fatalf("Render() error = %v, want ErrUnknownKind", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected MustRender to panic on unknown kind")
		}
	}()
	r.MustRender(buoy.Temperature{AvgTemp: 1})
}

func TestRender_Mismatch(t *testing.T) {
	r, _ := newRenderer(t)

	t.Run("tagged value under wrong tag", func(t *testing.T) {
		bad := forged{
			kind:   buoy.KindTempRecord,
			values: []schema.Value{schema.Integer(4), schema.Integer(10)},
		}
		pairs, err := r.Render(bad)
		var mismatch *schema.TypeMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("Render() error = %v, want TypeMismatchError", err)
		}
		if pairs != nil {
			t.Errorf("Render() returned partial output %v", pairs)
		}
		var fieldErr *schema.FieldError
		if !errors.As(err, &fieldErr) || strings.Join(fieldErr.FieldPath, ".") != "Temp msg.Temp" {
			t.Errorf("field path = %v", err)
		}
	})

	t.Run("payload of another layout", func(t *testing.T) {
		_, err := r.Render(impostor{AvgTemp: 4.5})
		if !errors.Is(err, layout.ErrLayoutMismatch) {
			t.Fatalf("Render() error = %v, want ErrLayoutMismatch", err)
		}
	})

	t.Run("nil instance", func(t *testing.T) {
		if _, err := r.Render(nil); err == nil {
			t.Fatal("Expected error for nil instance")
		}
	})
}

func TestRenderMessage(t *testing.T) {
	r, _ := newRenderer(t)
	got, err := r.RenderMessage(buoy.Temperature{AvgTemp: 4.5, NumSamples: 15})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Temp" || got.Kind != buoy.KindTemperature || len(got.Fields) != 2 {
		t.Errorf("RenderMessage() = %+v", got)
	}
}

func TestWithPrecision(t *testing.T) {
	r, _ := newRenderer(t, WithPrecision(2))
	pairs := r.MustRender(buoy.Location{Latitude: 33.4567, NorthSouth: 'N', Longitude: 124.8724, EastWest: 'E'})
	if pairs[0].Text != "33.46" || pairs[2].Text != "124.87" {
		t.Errorf("pairs = %v", pairs)
	}

	r, _ = newRenderer(t, WithPrecision(-3))
	if pairs := r.MustRender(buoy.Temperature{AvgTemp: 4.5}); pairs[0].Text != "4.500000" {
		t.Errorf("negative precision should keep the default, got %v", pairs)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		value schema.Value
		want  string
	}{
		{schema.Integer(15), "15"},
		{schema.Integer(-9223372036854775808), "-9223372036854775808"},
		{schema.Integer(0), "0"},
		{schema.Float(4.5), "4.500000"},
		{schema.Float(0), "0.000000"},
		{schema.Float(1e21), "1000000000000000000000.000000"},
		{schema.Char('N'), "N"},
		{schema.Char('/'), "/"},
		{schema.Char(0xE9), "é"},
		{schema.Char(0xFF), "ÿ"},
	}
	for _, tt := range tests {
		if got := Format(tt.value, DefaultPrecision); got != tt.want {
			t.Errorf("Format(%#v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestFormat_CharIsValidUTF8(t *testing.T) {
	for c := 0; c <= 0xFF; c++ {
		got := Format(schema.Char(c), DefaultPrecision)
		if !utf8.ValidString(got) {
			t.Fatalf("Format(Char(%#x)) = %q, not valid UTF-8", c, got)
		}
		if r, _ := utf8.DecodeRuneInString(got); r != rune(c) {
			t.Errorf("Format(Char(%#x)) decodes to %U", c, r)
		}
	}
}

func mustTagged(t *testing.T, reg *registry.Registry) []message.Instance {
	t.Helper()
	recs, err := buoy.TaggedSamples(reg)
	if err != nil {
		t.Fatal(err)
	}
	return recs
}
