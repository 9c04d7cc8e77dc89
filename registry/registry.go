package registry

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/anirudhraja/flexmsg/layout"
	"github.com/anirudhraja/flexmsg/message"
	"github.com/anirudhraja/flexmsg/schema"
)

var (
	ErrDuplicateKind = errors.New("kind already registered")
	ErrEmptyFields   = errors.New("no field descriptors")
	ErrFrozen        = errors.New("registry is frozen")
	ErrKindMismatch  = errors.New("payload kind does not match registered kind")
	ErrUnknownKind   = errors.New("no schema registered for kind")
)

// Registry is the schema table: one message descriptor per kind. Schemas are
// registered during startup, after which Freeze makes the table read-only.
// Descriptors handed out by a Registry are copies; changing them does not
// change the table.
type Registry struct {
	messages map[schema.Kind]*schema.Message // kind -> message
	byName   map[string]*schema.Message      // display name -> message
	frozen   bool
	logger   *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used to report registrations.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		messages: make(map[schema.Kind]*schema.Message),
		byName:   make(map[string]*schema.Message),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterSchema registers a tagged message kind. Field locators are assigned
// inline slots by position; the caller's descriptors are copied.
func (r *Registry) RegisterSchema(kind schema.Kind, name string, fields []*schema.Field) (*schema.Message, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("register %s (kind %d): %w", name, kind, ErrEmptyFields)
	}
	copied := make([]*schema.Field, len(fields))
	for i, f := range fields {
		if f == nil {
			return nil, fmt.Errorf("register %s (kind %d): field %d: %w", name, kind, i, schema.ErrEmptyFieldName)
		}
		copied[i] = &schema.Field{Name: f.Name, Type: f.Type, Locator: schema.Inline(i)}
	}
	return r.register(&schema.Message{Kind: kind, Name: name, Fields: copied})
}

// RegisterLayout registers a layout message kind whose descriptors are derived
// from the struct type of payload.
func (r *Registry) RegisterLayout(kind schema.Kind, name string, payload message.Instance) (*schema.Message, error) {
	if payload == nil {
		return nil, fmt.Errorf("register %s (kind %d): %w", name, kind, layout.ErrNotStruct)
	}
	if got := payload.Kind(); got != kind {
		return nil, fmt.Errorf("register %s (kind %d): %w: payload reports %d", name, kind, ErrKindMismatch, got)
	}
	fields, rt, err := layout.Derive(payload)
	if err != nil {
		return nil, fmt.Errorf("register %s (kind %d): %w", name, kind, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("register %s (kind %d): %w", name, kind, ErrEmptyFields)
	}
	return r.register(&schema.Message{Kind: kind, Name: name, Fields: fields, Payload: rt})
}

func (r *Registry) register(msg *schema.Message) (*schema.Message, error) {
	if r.frozen {
		return nil, fmt.Errorf("register %s (kind %d): %w", msg.Name, msg.Kind, ErrFrozen)
	}
	if existing, exists := r.messages[msg.Kind]; exists {
		return nil, fmt.Errorf("register %s (kind %d): %w as %s", msg.Name, msg.Kind, ErrDuplicateKind, existing.Name)
	}
	if err := msg.Validate(); err != nil {
		return nil, fmt.Errorf("register kind %d: %w", msg.Kind, err)
	}
	if existing, exists := r.byName[msg.Name]; exists {
		return nil, fmt.Errorf("register %s (kind %d): name already used by kind %d", msg.Name, msg.Kind, existing.Kind)
	}

	r.messages[msg.Kind] = msg
	r.byName[msg.Name] = msg
	r.logger.Debug("registered message schema",
		"kind", int32(msg.Kind),
		"name", msg.Name,
		"strategy", string(msg.Strategy()),
		"fields", len(msg.Fields),
	)
	return msg.Clone(), nil
}

// MustRegisterSchema is like RegisterSchema but panics on error. It is meant
// for startup code where a bad schema table is a programming error.
func (r *Registry) MustRegisterSchema(kind schema.Kind, name string, fields []*schema.Field) *schema.Message {
	msg, err := r.RegisterSchema(kind, name, fields)
	if err != nil {
		panic(err)
	}
	return msg
}

// MustRegisterLayout is like RegisterLayout but panics on error.
func (r *Registry) MustRegisterLayout(kind schema.Kind, name string, payload message.Instance) *schema.Message {
	msg, err := r.RegisterLayout(kind, name, payload)
	if err != nil {
		panic(err)
	}
	return msg
}

// Freeze ends the registration phase.
func (r *Registry) Freeze() {
	if !r.frozen {
		r.logger.Debug("schema table frozen", "kinds", len(r.messages))
	}
	r.frozen = true
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool { return r.frozen }

// Require checks that every kind in kinds has a schema.
func (r *Registry) Require(kinds ...schema.Kind) error {
	var missing []string
	for _, k := range kinds {
		if _, ok := r.messages[k]; !ok {
			missing = append(missing, fmt.Sprint(int32(k)))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrUnknownKind, strings.Join(missing, ", "))
	}
	return nil
}

// GetMessage retrieves the message descriptor for kind.
func (r *Registry) GetMessage(kind schema.Kind) (*schema.Message, error) {
	if msg, exists := r.messages[kind]; exists {
		return msg.Clone(), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
}

// GetMessageByName retrieves a message descriptor by its display name.
func (r *Registry) GetMessageByName(name string) (*schema.Message, error) {
	if msg, exists := r.byName[name]; exists {
		return msg.Clone(), nil
	}
	return nil, fmt.Errorf("message not found: %s", name)
}

// Kinds returns every registered kind in ascending order.
func (r *Registry) Kinds() []schema.Kind {
	kinds := make([]schema.Kind, 0, len(r.messages))
	for k := range r.messages {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// ListMessages returns all registered message names ordered by kind.
func (r *Registry) ListMessages() []string {
	var names []string
	for _, k := range r.Kinds() {
		names = append(names, r.messages[k].Name)
	}
	return names
}

// Len returns the number of registered kinds.
func (r *Registry) Len() int { return len(r.messages) }
