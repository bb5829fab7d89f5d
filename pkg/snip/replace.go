package snip

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/textum/pkg/rope"
)

// Replace resolves s against buf and returns a new rope with the selected
// range replaced by replacement. buf is not modified.
//
// Replacement text must be valid UTF-8 without NUL bytes.
func Replace(s Snippet, buf *rope.Rope, replacement string) (*rope.Rope, error) {
	if err := CheckText(replacement); err != nil {
		return nil, err
	}

	span, err := s.Resolve(buf)
	if err != nil {
		return nil, err
	}

	out := buf.Clone()
	out.Remove(span.Start, span.End)
	out.Insert(span.Start, replacement)
	return out, nil
}

// CheckText returns ErrInvalidUTF8 when text is not valid UTF-8 or contains
// a NUL byte.
func CheckText(text string) error {
	if !utf8.ValidString(text) {
		return fmt.Errorf("%w: replacement is not valid UTF-8", ErrInvalidUTF8)
	}
	if i := strings.IndexByte(text, 0); i >= 0 {
		return fmt.Errorf("%w: NUL byte at offset %d", ErrInvalidUTF8, i)
	}
	return nil
}
