// Package layout derives field descriptors from payload struct definitions and
// gives checked access to payload fields by descriptor.
//
// Descriptors are computed once per struct type from the struct's own field
// declarations, so a descriptor can never drift from the layout it describes.
// Values are always read and written through reflect field indices; the byte
// offsets recorded in the locators are kept for inspection only.
package layout

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/anirudhraja/flexmsg/schema"
)

// TagName is the struct tag consulted by Derive.
const TagName = "flex"

var (
	ErrNotStruct        = errors.New("payload is not a struct")
	ErrUnsupportedField = errors.New("unsupported payload field")
	ErrLayoutMismatch   = errors.New("payload does not match layout")
)

var cache sync.Map // reflect.Type -> []schema.Field

// Derive builds offset descriptors for every exported field of the struct
// type of payload. payload may be a struct value or a pointer to one.
func Derive(payload any) ([]*schema.Field, reflect.Type, error) {
	rt := reflect.TypeOf(payload)
	if rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("%w: %T", ErrNotStruct, payload)
	}

	var template []schema.Field
	if cached, ok := cache.Load(rt); ok {
		template = cached.([]schema.Field)
	} else {
		derived, err := deriveType(rt)
		if err != nil {
			return nil, nil, err
		}
		cache.Store(rt, derived)
		template = derived
	}

	fields := make([]*schema.Field, len(template))
	for i := range template {
		f := template[i]
		fields[i] = &f
	}
	return fields, rt, nil
}

func deriveType(rt reflect.Type) ([]schema.Field, error) {
	var fields []schema.Field
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, isChar, skip := parseTag(sf)
		if skip {
			continue
		}
		if sf.Anonymous {
			return nil, fmt.Errorf("%w: %s.%s: embedded fields are not supported", ErrUnsupportedField, rt.Name(), sf.Name)
		}

		typ, err := primitiveFor(sf.Type, isChar)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", rt.Name(), sf.Name, err)
		}
		fields = append(fields, schema.Field{
			Name:    name,
			Type:    typ,
			Locator: schema.Offset(i, sf.Offset),
		})
	}
	return fields, nil
}

func parseTag(sf reflect.StructField) (name string, isChar, skip bool) {
	tag, ok := sf.Tag.Lookup(TagName)
	if !ok {
		return sf.Name, false, false
	}
	if tag == "-" {
		return "", false, true
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = sf.Name
	}
	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == "char" {
			isChar = true
		}
	}
	return name, isChar, false
}

func primitiveFor(t reflect.Type, isChar bool) (schema.PrimitiveType, error) {
	if isChar {
		if t.Kind() != reflect.Uint8 {
			return "", fmt.Errorf("%w: char option on %s, want byte", ErrUnsupportedField, t)
		}
		return schema.TypeChar, nil
	}
	// Integer is a signed 64-bit value; uint and uint64 do not fit it.
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return schema.TypeInteger, nil
	case reflect.Float32, reflect.Float64:
		return schema.TypeFloat, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedField, t)
	}
}
