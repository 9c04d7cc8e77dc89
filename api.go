package flexmsg

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/anirudhraja/flexmsg/layout"
	"github.com/anirudhraja/flexmsg/message"
	"github.com/anirudhraja/flexmsg/registry"
	"github.com/anirudhraja/flexmsg/render"
	"github.com/anirudhraja/flexmsg/schema"
	"github.com/anirudhraja/flexmsg/wire"
)

// ===== SCHEMA-AWARE API =====

// Flexmsg ties a schema table to a renderer and the wire codec
type Flexmsg struct {
	registry *registry.Registry
	renderer *render.Renderer
	wireOpts wire.Options
}

// Option configures a Flexmsg instance
type Option func(*options)

type options struct {
	logger    *slog.Logger
	precision int
	strict    bool
}

// WithLogger sets the logger used by the schema table
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithPrecision sets the number of fractional digits used to render floats
func WithPrecision(digits int) Option {
	return func(o *options) { o.precision = digits }
}

// WithStrictDecoding makes Parse reject unknown fields
func WithStrictDecoding() Option {
	return func(o *options) { o.strict = true }
}

// New creates a new Flexmsg instance with an empty schema table
func New(opts ...Option) *Flexmsg {
	o := options{precision: render.DefaultPrecision}
	for _, opt := range opts {
		opt(&o)
	}
	reg := registry.NewRegistry(registry.WithLogger(o.logger))
	return &Flexmsg{
		registry: reg,
		renderer: render.New(reg, render.WithPrecision(o.precision)),
		wireOpts: wire.Options{Strict: o.strict},
	}
}

// RegisterSchema registers a tagged message kind
func (f *Flexmsg) RegisterSchema(kind schema.Kind, name string, fields []*schema.Field) (*schema.Message, error) {
	return f.registry.RegisterSchema(kind, name, fields)
}

// RegisterLayout registers a layout message kind derived from a payload struct
func (f *Flexmsg) RegisterLayout(kind schema.Kind, name string, payload message.Instance) (*schema.Message, error) {
	return f.registry.RegisterLayout(kind, name, payload)
}

// Freeze ends the registration phase after checking that every kind in
// required has a schema
func (f *Flexmsg) Freeze(required ...schema.Kind) error {
	if err := f.registry.Require(required...); err != nil {
		return err
	}
	f.registry.Freeze()
	return nil
}

// Record builds a tagged record of a registered kind
func (f *Flexmsg) Record(kind schema.Kind, values ...schema.Value) (*message.Record, error) {
	msg, err := f.registry.GetMessage(kind)
	if err != nil {
		return nil, err
	}
	return message.NewRecord(msg, values...)
}

// Render renders an instance into ordered (name, text) pairs
func (f *Flexmsg) Render(inst message.Instance) ([]render.Pair, error) {
	return f.renderer.Render(inst)
}

// RenderMessage renders an instance together with its schema name
func (f *Flexmsg) RenderMessage(inst message.Instance) (render.Rendering, error) {
	return f.renderer.RenderMessage(inst)
}

// Marshal encodes an instance to wire bytes
func (f *Flexmsg) Marshal(inst message.Instance) ([]byte, error) {
	return wire.EncodeMessage(inst, f.registry)
}

// Parse decodes wire bytes into an instance of the kind they carry
func (f *Flexmsg) Parse(data []byte) (message.Instance, error) {
	return wire.DecodeMessageWithOptions(data, f.registry, f.wireOpts)
}

// Unmarshal decodes wire bytes into v, a pointer to a registered payload struct
func (f *Flexmsg) Unmarshal(data []byte, v message.Instance) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("unmarshal target must be a pointer to struct")
	}

	inst, err := f.Parse(data)
	if err != nil {
		return err
	}
	if inst.Kind() != v.Kind() {
		return fmt.Errorf("unmarshal: data holds kind %d, target %T has kind %d", inst.Kind(), v, v.Kind())
	}

	msg, err := f.registry.GetMessage(inst.Kind())
	if err != nil {
		return err
	}
	return copyFields(msg, inst, v)
}

// copyFields copies every field of src into the payload dst points to
func copyFields(msg *schema.Message, src, dst message.Instance) error {
	read, err := message.Accessor(msg, src)
	if err != nil {
		return err
	}
	b, err := layout.BuilderFor(msg, dst)
	if err != nil {
		return err
	}
	for i, field := range msg.Fields {
		value, err := read(i)
		if err != nil {
			return fmt.Errorf("failed to read field %s: %w", field.Name, err)
		}
		if err := b.Set(i, value); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}
	return nil
}

// ===== REGISTRY ACCESS =====

func (f *Flexmsg) GetRegistry() *registry.Registry { return f.registry }
func (f *Flexmsg) ListMessages() []string          { return f.registry.ListMessages() }
