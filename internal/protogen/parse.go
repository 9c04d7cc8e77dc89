// Package protogen turns message definitions written in protobuf syntax into
// Go payload structs and registration code for the layout strategy.
//
// Only scalar fields are supported. Each message may set
//
//	option (flexmsg.name) = "Temp";   // schema display name
//	option (flexmsg.kind) = 0;        // message kind tag
//
// and each field may set
//
//	[(flexmsg.label) = "Average Temp", (flexmsg.char) = true]
//
// The options are declared in proto/flexmsg/options.proto. Field numbers must
// run 1..n in declaration order, since the wire codec numbers payload fields
// by schema position.
package protogen

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	protoparser "github.com/yoheimuta/go-protoparser/v4"
	protoparserparser "github.com/yoheimuta/go-protoparser/v4/parser"
)

var (
	ErrUnsupported  = errors.New("unsupported definition")
	ErrInvalidLabel = errors.New("invalid field label")
)

// File is the parsed form of one .proto file.
type File struct {
	Name     string
	Package  string
	Messages []*Message
}

// Message is one message definition.
type Message struct {
	ProtoName   string // Temperature
	DisplayName string // Temp
	Kind        int32
	Comment     []string
	Fields      []*Field
}

// Field is one scalar field of a message.
type Field struct {
	ProtoName string // avg_temp
	GoName    string // AvgTemp
	GoType    string // float64
	Label     string // Average Temp
	Char      bool
	Number    int
}

// goTypes maps protobuf scalar types to Go field types. Only types whose
// protobuf encoding matches the flexmsg wire codec are accepted: integers are
// zigzag varints and floats are fixed64 doubles. Char fields are declared
// uint32.
var goTypes = map[string]string{
	"double": "float64",
	"sint32": "int32",
	"sint64": "int64",
}

// Parse reads a .proto file and extracts its message definitions.
func Parse(r io.Reader, filename string) (*File, error) {
	parsed, err := protoparser.Parse(r, protoparser.WithFilename(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	file := &File{Name: filename}
	kinds := make(map[int32]string)
	for _, body := range parsed.ProtoBody {
		switch b := body.(type) {
		case *protoparserparser.Package:
			file.Package = b.Name
		case *protoparserparser.Message:
			msg, err := buildMessage(b, len(file.Messages))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", filename, err)
			}
			if other, dup := kinds[msg.Kind]; dup {
				return nil, fmt.Errorf("%s: kind %d used by both %s and %s", filename, msg.Kind, other, msg.ProtoName)
			}
			kinds[msg.Kind] = msg.ProtoName
			file.Messages = append(file.Messages, msg)
		}
	}
	if len(file.Messages) == 0 {
		return nil, fmt.Errorf("%s: no messages defined", filename)
	}
	return file, nil
}

func buildMessage(m *protoparserparser.Message, position int) (*Message, error) {
	msg := &Message{
		ProtoName:   m.MessageName,
		DisplayName: m.MessageName,
		Kind:        int32(position),
		Comment:     commentLines(m.Comments),
	}

	for _, body := range m.MessageBody {
		switch b := body.(type) {
		case *protoparserparser.Option:
			switch optionName(b.OptionName) {
			case "name":
				msg.DisplayName = unquote(b.Constant)
			case "kind":
				kind, err := strconv.ParseInt(b.Constant, 0, 32)
				if err != nil {
					return nil, fmt.Errorf("%s: bad kind %q: %w", m.MessageName, b.Constant, err)
				}
				msg.Kind = int32(kind)
			}
		case *protoparserparser.Field:
			field, err := buildField(b)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", m.MessageName, b.FieldName, err)
			}
			if want := len(msg.Fields) + 1; field.Number != want {
				return nil, fmt.Errorf("%s.%s: field number %d, want %d", m.MessageName, b.FieldName, field.Number, want)
			}
			msg.Fields = append(msg.Fields, field)
		case *protoparserparser.Comment, *protoparserparser.EmptyStatement:
		default:
			return nil, fmt.Errorf("%s: %w: %T", m.MessageName, ErrUnsupported, body)
		}
	}

	if len(msg.Fields) == 0 {
		return nil, fmt.Errorf("%s: message has no fields", m.MessageName)
	}
	return msg, nil
}

func buildField(f *protoparserparser.Field) (*Field, error) {
	if f.IsRepeated {
		return nil, fmt.Errorf("%w: repeated field", ErrUnsupported)
	}
	number, err := strconv.Atoi(f.FieldNumber)
	if err != nil {
		return nil, fmt.Errorf("bad field number %q: %w", f.FieldNumber, err)
	}

	field := &Field{
		ProtoName: f.FieldName,
		GoName:    goName(f.FieldName),
		Label:     f.FieldName,
		Number:    number,
	}
	for _, opt := range f.FieldOptions {
		switch optionName(opt.OptionName) {
		case "label":
			field.Label = unquote(opt.Constant)
		case "char":
			field.Char = opt.Constant == "true"
		}
	}
	if err := checkLabel(field.Label); err != nil {
		return nil, err
	}
	if field.Char {
		if f.Type != "uint32" {
			return nil, fmt.Errorf("%w: char option on %s, want uint32", ErrUnsupported, f.Type)
		}
		field.GoType = "byte"
		return field, nil
	}
	goType, ok := goTypes[f.Type]
	if !ok {
		return nil, fmt.Errorf("%w: field type %s", ErrUnsupported, f.Type)
	}
	field.GoType = goType
	return field, nil
}

// checkLabel rejects labels that cannot sit verbatim inside a flex struct tag.
// A comma starts a tag option and "-" skips the field.
func checkLabel(label string) error {
	if label == "" || label == "-" {
		return fmt.Errorf("%w %q", ErrInvalidLabel, label)
	}
	for _, r := range label {
		if r == ',' || r == '"' || r == '`' || r == '\\' || unicode.IsControl(r) {
			return fmt.Errorf("%w %q: contains %q", ErrInvalidLabel, label, r)
		}
	}
	return nil
}

// optionName strips the extension syntax: "(flexmsg.label)" -> "label".
func optionName(name string) string {
	name = strings.Trim(name, "()")
	name = strings.TrimPrefix(name, "flexmsg.")
	return strings.Trim(name, "()")
}

func unquote(s string) string {
	if u, err := strconv.Unquote(s); err == nil {
		return u
	}
	return strings.Trim(s, `"'`)
}

// goName converts snake_case to an exported CamelCase identifier.
func goName(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if r == '_' {
			upper = true
			continue
		}
		if upper && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		upper = false
		b.WriteRune(r)
	}
	return b.String()
}

func commentLines(comments []*protoparserparser.Comment) []string {
	var lines []string
	for _, c := range comments {
		for _, line := range strings.Split(c.Raw, "\n") {
			line = strings.TrimSpace(line)
			line = strings.TrimPrefix(line, "//")
			line = strings.TrimPrefix(line, "/*")
			line = strings.TrimSuffix(line, "*/")
			line = strings.TrimPrefix(line, "*")
			line = strings.TrimSpace(line)
			if line != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines
}
