package flexmsg

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/anirudhraja/flexmsg/buoy"
	"github.com/anirudhraja/flexmsg/registry"
	"github.com/anirudhraja/flexmsg/render"
	"github.com/anirudhraja/flexmsg/schema"
	"github.com/anirudhraja/flexmsg/wire"
)

func newBuoy(t *testing.T, opts ...Option) *Flexmsg {
	t.Helper()
	fm := New(opts...)
	if err := buoy.Register(fm.GetRegistry()); err != nil {
		t.Fatal(err)
	}
	if err := buoy.RegisterTagged(fm.GetRegistry()); err != nil {
		t.Fatal(err)
	}
	if err := fm.Freeze(append(buoy.Kinds(), buoy.TaggedKinds()...)...); err != nil {
		t.Fatal(err)
	}
	return fm
}

func TestFlexmsg_Render(t *testing.T) {
	fm := newBuoy(t)

	t.Run("layout", func(t *testing.T) {
		pairs, err := fm.Render(buoy.Temperature{AvgTemp: 4.5, NumSamples: 15})
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		want := []render.Pair{{Name: "Average Temp", Text: "4.500000"}, {Name: "Number of Samples", Text: "15"}}
		if !reflect.DeepEqual(pairs, want) {
			t.Errorf("Render() = %v, want %v", pairs, want)
		}
	})

	t.Run("tagged", func(t *testing.T) {
		rec, err := fm.Record(buoy.KindLocRecord, schema.Float(33.4567), schema.Char('N'), schema.Float(124.8724), schema.Char('E'))
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		rendering, err := fm.RenderMessage(rec)
		if err != nil {
			t.Fatalf("RenderMessage failed: %v", err)
		}
		if rendering.Name != "Loc msg" || rendering.Fields[2].Text != "124.872400" {
			t.Errorf("RenderMessage() = %+v", rendering)
		}
	})

	t.Run("record of unknown kind", func(t *testing.T) {
		if _, err := fm.Record(55, schema.Integer(1)); !errors.Is(err, registry.ErrUnknownKind) {
			t.Errorf("Expected ErrUnknownKind, got %v", err)
		}
	})
}

func TestFlexmsg_WithPrecision(t *testing.T) {
	fm := newBuoy(t, WithPrecision(1))
	pairs, err := fm.Render(buoy.Temperature{AvgTemp: 4.5, NumSamples: 15})
	if err != nil {
		t.Fatal(err)
	}
	if pairs[0].Text != "4.5" {
		t.Errorf("Average Temp = %q", pairs[0].Text)
	}
}

func TestFlexmsg_Freeze(t *testing.T) {
	fm := New()
	if err := buoy.Register(fm.GetRegistry()); err != nil {
		t.Fatal(err)
	}
	if err := fm.Freeze(buoy.KindTempRecord); !errors.Is(err, registry.ErrUnknownKind) {
		t.Errorf("Expected ErrUnknownKind for a missing required kind, got %v", err)
	}
	if fm.GetRegistry().Frozen() {
		t.Error("failed Freeze must leave the table open")
	}

	if err := fm.Freeze(buoy.Kinds()...); err != nil {
		t.Fatal(err)
	}
	_, err := fm.RegisterSchema(7, "Late", []*schema.Field{{Name: "A", Type: schema.TypeChar}})
	if !errors.Is(err, registry.ErrFrozen) {
		t.Errorf("Expected ErrFrozen, got %v", err)
	}
	if got, want := fm.ListMessages(), []string{"Temp", "Loc"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ListMessages() = %v, want %v", got, want)
	}
}

func TestFlexmsg_MarshalParse(t *testing.T) {
	fm := newBuoy(t)
	records, err := buoy.TaggedSamples(fm.GetRegistry())
	if err != nil {
		t.Fatal(err)
	}

	for _, inst := range append(buoy.Samples(), records...) {
		data, err := fm.Marshal(inst)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		parsed, err := fm.Parse(data)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		want, _ := fm.Render(inst)
		got, err := fm.Render(parsed)
		if err != nil {
			t.Fatalf("Render(parsed) failed: %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("round trip rendered %v, want %v", got, want)
		}
	}
}

func TestFlexmsg_Unmarshal(t *testing.T) {
	fm := newBuoy(t)
	want := buoy.Location{Latitude: 33.4567, NorthSouth: 'N', Longitude: 124.8724, EastWest: 'E'}
	data, err := fm.Marshal(want)
	if err != nil {
		t.Fatal(err)
	}

	var got buoy.Location
	if err := fm.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got != want {
		t.Errorf("Unmarshal() = %+v, want %+v", got, want)
	}

	var temp buoy.Temperature
	if err := fm.Unmarshal(data, &temp); err == nil || !strings.Contains(err.Error(), "kind") {
		t.Errorf("Expected kind mismatch error, got %v", err)
	}
	if err := fm.Unmarshal(data, got); err == nil {
		t.Error("Expected error for non-pointer target")
	}
}

func TestFlexmsg_StrictDecoding(t *testing.T) {
	data, err := newBuoy(t).Marshal(buoy.Temperature{AvgTemp: 1, NumSamples: 2})
	if err != nil {
		t.Fatal(err)
	}
	e := wire.NewEncoder()
	e.EncodeTag(9, wire.WireVarint)
	e.EncodeVarint(1)
	data = append(data, e.Bytes()...)

	if _, err := newBuoy(t).Parse(data); err != nil {
		t.Errorf("lenient Parse failed: %v", err)
	}
	if _, err := newBuoy(t, WithStrictDecoding()).Parse(data); !errors.Is(err, wire.ErrUnknownField) {
		t.Errorf("Expected ErrUnknownField, got %v", err)
	}
}

func TestFlexmsg_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	newBuoy(t, WithLogger(logger))

	out := buf.String()
	if !strings.Contains(out, `name="Loc msg"`) || !strings.Contains(out, "schema table frozen") {
		t.Errorf("log output = %q", out)
	}
}
