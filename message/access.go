package message

import (
	"fmt"

	"github.com/anirudhraja/flexmsg/layout"
	"github.com/anirudhraja/flexmsg/schema"
)

// Accessor returns a function reading field i of inst according to the
// storage strategy of msg. inst must be an instance of msg's kind.
func Accessor(msg *schema.Message, inst Instance) (func(i int) (schema.Value, error), error) {
	if inst == nil {
		return nil, fmt.Errorf("%s: nil instance", msg.Name)
	}
	if inst.Kind() != msg.Kind {
		return nil, fmt.Errorf("%s: instance has kind %d, schema has kind %d", msg.Name, inst.Kind(), msg.Kind)
	}
	switch msg.Strategy() {
	case schema.StrategyLayout:
		view, err := layout.NewView(msg, inst)
		if err != nil {
			return nil, err
		}
		return view.Field, nil
	default:
		inline, ok := inst.(InlineReader)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrNotInline, inst)
		}
		return inline.FieldValue, nil
	}
}

// Build constructs an instance of msg from values given in field order.
func Build(msg *schema.Message, values []schema.Value) (Instance, error) {
	if msg.Strategy() == schema.StrategyTagged {
		return NewRecord(msg, values...)
	}
	if len(values) != len(msg.Fields) {
		return nil, fmt.Errorf("%s: %w: want %d, got %d", msg.Name, ErrFieldCount, len(msg.Fields), len(values))
	}
	b, err := layout.NewBuilder(msg)
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		if err := b.Set(i, v); err != nil {
			return nil, err
		}
	}
	inst, ok := b.Payload().(Instance)
	if !ok {
		return nil, fmt.Errorf("%s: payload type %s does not implement Instance", msg.Name, msg.Payload)
	}
	return inst, nil
}
