// Package parser turns raw Markdown documents into models.Document values.
//
// A document may open with a metadata block fenced by "---" lines holding a
// JSON5 object. A block that cannot be decoded leaves the document without
// metadata; parsing itself never fails.
package parser

import (
	"path/filepath"
	"strings"

	"github.com/titanous/json5"

	"github.com/starford/folio/internal/models"
)

const (
	// Delimiter fences the metadata block. A line counts only when its
	// trimmed form is exactly this token.
	Delimiter = "---"

	DefaultSuffix       = ".md"
	DefaultHiddenMarker = "_"
)

// Parser derives documents from file names and text. The zero value uses
// the default suffix and hidden marker.
type Parser struct {
	suffix string
	marker string
}

// New returns a Parser recognising the given document suffix and hidden
// marker. Empty arguments fall back to the defaults.
func New(suffix, hiddenMarker string) *Parser {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	if hiddenMarker == "" {
		hiddenMarker = DefaultHiddenMarker
	}
	return &Parser{suffix: suffix, marker: hiddenMarker}
}

var defaultParser = New(DefaultSuffix, DefaultHiddenMarker)

// Parse parses text with the default suffix and hidden marker.
func Parse(filename, text string) models.Document {
	return defaultParser.Parse(filename, text)
}

// Suffix returns the recognised document suffix.
func (p *Parser) Suffix() string {
	if p.suffix == "" {
		return DefaultSuffix
	}
	return p.suffix
}

// HiddenMarker returns the filename prefix that marks a document hidden.
func (p *Parser) HiddenMarker() string {
	if p.marker == "" {
		return DefaultHiddenMarker
	}
	return p.marker
}

// IsDocument reports whether name carries the document suffix.
func (p *Parser) IsDocument(name string) bool {
	return strings.HasSuffix(baseName(name), p.Suffix())
}

// Parse builds a Document from a file name and its raw text.
func (p *Parser) Parse(filename, text string) models.Document {
	meta, content := splitMetadata(text)
	return models.Document{
		Slug:     p.Slug(filename),
		Content:  content,
		Metadata: meta,
		Hidden:   p.Hidden(filename),
	}
}

// Slug derives the public identifier of a file: suffix and hidden marker
// stripped, whitespace runs collapsed into "-".
func (p *Parser) Slug(filename string) string {
	suffix, marker := p.Suffix(), p.HiddenMarker()
	name := baseName(filename)
	for strings.HasSuffix(name, suffix) {
		name = strings.TrimSuffix(name, suffix)
	}
	for strings.HasPrefix(name, marker) {
		name = strings.TrimPrefix(name, marker)
	}
	return strings.Join(strings.Fields(name), "-")
}

// Hidden reports whether the base name of filename starts with the marker.
func (p *Parser) Hidden(filename string) bool {
	return strings.HasPrefix(baseName(filename), p.HiddenMarker())
}

func baseName(filename string) string {
	if filename == "" {
		return ""
	}
	return filepath.Base(filename)
}

type blockState int

const (
	beforeBlock blockState = iota
	insideBlock
	inBody
)

// splitMetadata separates the metadata block from the body. Block lines are
// concatenated verbatim; body lines after the first are newline-prefixed. An
// unterminated block swallows the rest of the text.
func splitMetadata(text string) (*models.Metadata, string) {
	var block, body strings.Builder
	opened := false

	state := beforeBlock
	for _, line := range splitLines(strings.TrimSpace(text)) {
		switch state {
		case beforeBlock:
			if strings.TrimSpace(line) == Delimiter {
				opened = true
				state = insideBlock
				continue
			}
			body.WriteString(line)
			state = inBody
		case insideBlock:
			if strings.TrimSpace(line) == Delimiter {
				state = inBody
				continue
			}
			block.WriteString(line)
		case inBody:
			body.WriteByte('\n')
			body.WriteString(line)
		}
	}

	if !opened {
		return nil, body.String()
	}
	return decodeMetadata(block.String()), body.String()
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// decodeMetadata returns nil for anything that is not a JSON5 object whose
// known fields have the expected types.
func decodeMetadata(block string) *models.Metadata {
	if strings.TrimSpace(block) == "" {
		return nil
	}

	var raw any
	if err := json5.Unmarshal([]byte(block), &raw); err != nil {
		return nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil
	}

	var meta models.Metadata
	if meta.Title, ok = optionalString(obj["title"]); !ok {
		return nil
	}
	if meta.Date, ok = optionalString(obj["date"]); !ok {
		return nil
	}
	if meta.Description, ok = optionalString(obj["description"]); !ok {
		return nil
	}
	if meta.Tags, ok = optionalStrings(obj["tags"]); !ok {
		return nil
	}
	return &meta
}

func optionalString(v any) (*string, bool) {
	switch v := v.(type) {
	case nil:
		return nil, true
	case string:
		return &v, true
	default:
		return nil, false
	}
}

func optionalStrings(v any) ([]string, bool) {
	if v == nil {
		return nil, true
	}
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}
