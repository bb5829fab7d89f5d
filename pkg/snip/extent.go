package snip

import (
	"fmt"

	"github.com/yaklabco/textum/pkg/rope"
)

// Extent measures a distance forward from a character index.
//
// The set of extents is closed: Lines, Chars, Bytes and Matching.
type Extent interface {
	// Advance returns the index reached by moving the extent's distance
	// forward from from.
	Advance(buf *rope.Rope, from int) (int, error)

	// Equal reports whether other describes the same extent.
	Equal(other Extent) bool

	String() string

	isExtent()
}

// Lines moves forward by whole lines and lands on the first character of the
// target line.
type Lines int

// Advance implements Extent.
func (n Lines) Advance(buf *rope.Rope, from int) (int, error) {
	if err := checkFrom(buf, from); err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative line count %d", ErrInvalidExtent, int(n))
	}

	line := buf.CharToLine(from)
	if int(n) >= buf.LenLines()-line {
		return 0, fmt.Errorf("%w: %d lines from line %d of %d", ErrExtentOutOfBounds, int(n), line, buf.LenLines())
	}
	return buf.LineToChar(line + int(n)), nil
}

// Equal implements Extent.
func (n Lines) Equal(other Extent) bool {
	o, ok := other.(Lines)
	return ok && o == n
}

func (n Lines) String() string {
	return fmt.Sprintf("lines(%d)", int(n))
}

func (Lines) isExtent() {}

// Chars moves forward by a number of characters.
type Chars int

// Advance implements Extent.
func (n Chars) Advance(buf *rope.Rope, from int) (int, error) {
	if err := checkFrom(buf, from); err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative char count %d", ErrInvalidExtent, int(n))
	}

	if int(n) > buf.LenChars()-from {
		return 0, fmt.Errorf("%w: %d chars from %d of %d", ErrExtentOutOfBounds, int(n), from, buf.LenChars())
	}
	return from + int(n), nil
}

// Equal implements Extent.
func (n Chars) Equal(other Extent) bool {
	o, ok := other.(Chars)
	return ok && o == n
}

func (n Chars) String() string {
	return fmt.Sprintf("chars(%d)", int(n))
}

func (Chars) isExtent() {}

// Bytes moves forward by a number of UTF-8 bytes. When the byte target falls
// inside a multi-byte character, the result is that character's index, so
// the returned index always starts a character at or before the byte target.
type Bytes int

// Advance implements Extent.
func (n Bytes) Advance(buf *rope.Rope, from int) (int, error) {
	if err := checkFrom(buf, from); err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative byte count %d", ErrInvalidExtent, int(n))
	}

	start := buf.CharToByte(from)
	if int(n) > buf.LenBytes()-start {
		return 0, fmt.Errorf("%w: %d bytes from byte %d of %d", ErrExtentOutOfBounds, int(n), start, buf.LenBytes())
	}
	return buf.ByteToChar(start + int(n)), nil
}

// Equal implements Extent.
func (n Bytes) Equal(other Extent) bool {
	o, ok := other.(Bytes)
	return ok && o == n
}

func (n Bytes) String() string {
	return fmt.Sprintf("bytes(%d)", int(n))
}

func (Bytes) isExtent() {}

// Matching moves past N successive, non-overlapping matches of Target and
// lands on the character after the last one. Target must be a non-empty
// Literal or a Pattern.
type Matching struct {
	N      int
	Target Target
}

// Advance implements Extent.
func (m Matching) Advance(buf *rope.Rope, from int) (int, error) {
	if err := checkFrom(buf, from); err != nil {
		return 0, err
	}
	if m.N < 0 {
		return 0, fmt.Errorf("%w: negative match count %d", ErrInvalidExtent, m.N)
	}

	search, ok := m.Target.(searcher)
	if !ok {
		return 0, fmt.Errorf("%w: cannot match against %v", ErrInvalidExtent, m.Target)
	}
	if lit, isLit := search.(Literal); isLit && lit == "" {
		return 0, fmt.Errorf("%w: empty literal matches everywhere", ErrInvalidExtent)
	}

	pos := from
	for found := range m.N {
		match, ok, err := search.find(buf, pos)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, fmt.Errorf("%w: found %d of %d matches for %s",
				ErrExtentOutOfBounds, found, m.N, m.Target)
		}
		if match.IsEmpty() {
			return 0, fmt.Errorf("%w: %s matched an empty string at %d",
				ErrInvalidExtent, m.Target, match.Start)
		}
		pos = match.End
	}
	return pos, nil
}

// Equal implements Extent.
func (m Matching) Equal(other Extent) bool {
	o, ok := other.(Matching)
	if !ok || o.N != m.N {
		return false
	}
	if m.Target == nil || o.Target == nil {
		return m.Target == nil && o.Target == nil
	}
	return m.Target.Equal(o.Target)
}

func (m Matching) String() string {
	return fmt.Sprintf("matching(%d, %v)", m.N, m.Target)
}

func (Matching) isExtent() {}

func checkFrom(buf *rope.Rope, from int) error {
	if from < 0 || from > buf.LenChars() {
		return fmt.Errorf("%w: start %d of %d", ErrExtentOutOfBounds, from, buf.LenChars())
	}
	return nil
}
