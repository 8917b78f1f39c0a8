package utils

import (
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"
)

// StringHelper provides string utility functions.
type StringHelper struct{}

// NewStringHelper creates a new string helper.
func NewStringHelper() *StringHelper {
	return &StringHelper{}
}

// NormalizeWhitespace replaces multiple whitespace with single space.
func (s *StringHelper) NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// TruncateString truncates str to maxWidth terminal cells, appending "...".
// Wide (CJK) characters count as two cells.
func (s *StringHelper) TruncateString(str string, maxWidth int) string {
	if runewidth.StringWidth(str) <= maxWidth {
		return str
	}

	return runewidth.Truncate(str, maxWidth, "...")
}

// WithExtension replaces the extension of name with ext, or appends ext
// when name has none. Leading-dot names like ".data" count as having none.
func WithExtension(name, ext string) string {
	base := filepath.Base(name)
	current := filepath.Ext(base)

	if current == ext {
		return name
	}

	if current == "" || current == base {
		return name + ext
	}

	return strings.TrimSuffix(name, current) + ext
}
