// Package report serializes rendered readings.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/randomtoy/oura/internal/ports"
)

// Format names an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

func Formats() []Format {
	return []Format{FormatText, FormatMarkdown, FormatJSON}
}

// ForFormat returns the writer for f.
func ForFormat(f string) (ports.ReadingWriter, error) {
	switch Format(strings.ToLower(f)) {
	case FormatText, "":
		return TextWriter{}, nil
	case FormatMarkdown, "md":
		return MarkdownWriter{}, nil
	case FormatJSON:
		return JSONWriter{Indent: "  "}, nil
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}
}

// JSONWriter encodes the document with encoding/json.
type JSONWriter struct {
	Indent string
}

func (JSONWriter) ContentType() string { return "application/json; charset=utf-8" }

func (w JSONWriter) Write(out io.Writer, doc ports.ReadingDocument) error {
	enc := json.NewEncoder(out)
	if w.Indent != "" {
		enc.SetIndent("", w.Indent)
	}
	return enc.Encode(doc)
}

// TextWriter prints a plain terminal layout.
type TextWriter struct{}

func (TextWriter) ContentType() string { return "text/plain; charset=utf-8" }

func (TextWriter) Write(out io.Writer, doc ports.ReadingDocument) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", doc.Title, doc.Spread)
	for _, c := range doc.Cards {
		fmt.Fprintf(&b, "%d. %s: %s (%s)\n   %s\n\n", c.Index+1, c.Position, c.Card, c.Category, c.Interpretation)
	}
	fmt.Fprintf(&b, "%s\n%s\n\n%s\n%s\n", doc.Headings.Summary, doc.Summary, doc.Headings.Advice, doc.Advice)
	_, err := io.WriteString(out, b.String())
	return err
}
