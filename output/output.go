// Package output writes renderings to text sinks. It owns everything about
// presentation: headers, separators and serialization format.
package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/fxamacker/cbor/v2"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/anirudhraja/flexmsg/render"
)

// Sink receives renderings one at a time.
type Sink interface {
	Write(r render.Rendering) error
	Flush() error
}

// Options configures sinks created by New.
type Options struct {
	// Color styles text headers.
	Color bool
}

// Formats lists the names accepted by New.
func Formats() []string {
	return []string{"text", "json", "yaml", "cbor"}
}

// New returns the sink for format writing to w.
func New(format string, w io.Writer, opts Options) (Sink, error) {
	switch format {
	case "text":
		return NewText(w, opts.Color), nil
	case "json":
		return &jsonSink{enc: json.NewEncoder(w)}, nil
	case "yaml":
		return &yamlSink{enc: yaml.NewEncoder(w)}, nil
	case "cbor":
		mode, err := cbor.CoreDetEncOptions().EncMode()
		if err != nil {
			return nil, fmt.Errorf("output: CBOR encoder initialization failed: %w", err)
		}
		return &cborSink{enc: mode.NewEncoder(w)}, nil
	default:
		return nil, fmt.Errorf("output: unknown format %q", format)
	}
}

// Text prints each rendering as a ---Name--- header, one "Name: value" line
// per field and a blank line.
type Text struct {
	w      *bufio.Writer
	header lipgloss.Style
	color  bool
}

func NewText(w io.Writer, color bool) *Text {
	renderer := lipgloss.NewRenderer(w)
	renderer.SetColorProfile(termenv.ANSI)
	return &Text{
		w:      bufio.NewWriter(w),
		header: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		color:  color,
	}
}

func (t *Text) Write(r render.Rendering) error {
	header := "---" + r.Name + "---"
	if t.color {
		header = t.header.Render(header)
	}
	if _, err := fmt.Fprintln(t.w, header); err != nil {
		return err
	}
	for _, p := range r.Fields {
		if _, err := fmt.Fprintf(t.w, "%s: %s\n", p.Name, p.Text); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(t.w)
	return err
}

func (t *Text) Flush() error { return t.w.Flush() }

// jsonSink writes one JSON object per line.
type jsonSink struct {
	enc *json.Encoder
}

func (s *jsonSink) Write(r render.Rendering) error { return s.enc.Encode(r) }
func (s *jsonSink) Flush() error                   { return nil }

// yamlSink writes one YAML document per rendering.
type yamlSink struct {
	enc *yaml.Encoder
}

func (s *yamlSink) Write(r render.Rendering) error { return s.enc.Encode(r) }
func (s *yamlSink) Flush() error                   { return s.enc.Close() }

// cborSink writes a CBOR sequence (RFC 8742) using deterministic encoding.
type cborSink struct {
	enc *cbor.Encoder
}

func (s *cborSink) Write(r render.Rendering) error { return s.enc.Encode(r) }
func (s *cborSink) Flush() error                   { return nil }
