package schema

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyName      = errors.New("message name is empty")
	ErrEmptyFields    = errors.New("message has no fields")
	ErrEmptyFieldName = errors.New("field name is empty")
	ErrDuplicateField = errors.New("duplicate field name")
	ErrInvalidType    = errors.New("invalid primitive type")
	ErrBadLocator     = errors.New("locator does not match storage strategy")
)

// Validate checks that m is a well formed descriptor.
func (m *Message) Validate() error {
	if m.Name == "" {
		return ErrEmptyName
	}
	if len(m.Fields) == 0 {
		return fmt.Errorf("%s: %w", m.Name, ErrEmptyFields)
	}

	want := LocatorInline
	if m.Strategy() == StrategyLayout {
		want = LocatorOffset
	}

	seen := make(map[string]struct{}, len(m.Fields))
	for i, f := range m.Fields {
		if f == nil || f.Name == "" {
			return fmt.Errorf("%s: field %d: %w", m.Name, i, ErrEmptyFieldName)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%s: %q: %w", m.Name, f.Name, ErrDuplicateField)
		}
		seen[f.Name] = struct{}{}

		if !f.Type.Valid() {
			return fmt.Errorf("%s.%s: %w %q", m.Name, f.Name, ErrInvalidType, f.Type)
		}
		if f.Locator.Kind != want {
			return fmt.Errorf("%s.%s: %w: %s locator on %s message", m.Name, f.Name, ErrBadLocator, f.Locator.Kind, m.Strategy())
		}
		if want == LocatorInline && f.Locator.Index != i {
			return fmt.Errorf("%s.%s: %w: inline slot %d at position %d", m.Name, f.Name, ErrBadLocator, f.Locator.Index, i)
		}
	}
	return nil
}
