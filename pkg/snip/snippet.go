package snip

import (
	"fmt"

	"github.com/yaklabco/textum/pkg/rope"
)

// Snippet selects a non-empty range of a buffer.
//
// The set of snippets is closed: At, From, To, Between and All.
type Snippet interface {
	// Resolve returns the selected range. The range is never empty and never
	// extends past the end of buf.
	Resolve(buf *rope.Rope) (Span, error)

	// Locate is Resolve in the form expected by patch.Locator.
	Locate(buf *rope.Rope) (int, int, error)

	Equal(other Snippet) bool
	String() string

	isSnippet()
}

// At selects a boundary's own span.
type At struct {
	Boundary Boundary
}

// Resolve implements Snippet.
func (a At) Resolve(buf *rope.Rope) (Span, error) {
	s, err := a.Boundary.Resolve(buf)
	if err != nil {
		return Span{}, err
	}
	return validate(buf, s)
}

// Locate implements Snippet.
func (a At) Locate(buf *rope.Rope) (int, int, error) { return locate(a, buf) }

// Equal implements Snippet.
func (a At) Equal(other Snippet) bool {
	o, ok := other.(At)
	return ok && a.Boundary.Equal(o.Boundary)
}

func (a At) String() string { return fmt.Sprintf("at(%v)", a.Boundary) }

func (At) isSnippet() {}

// From selects everything after a boundary to the end of the buffer.
type From struct {
	Boundary Boundary
}

// Resolve implements Snippet.
func (f From) Resolve(buf *rope.Rope) (Span, error) {
	s, err := f.Boundary.Resolve(buf)
	if err != nil {
		return Span{}, err
	}
	return validate(buf, Span{Start: s.End, End: buf.LenChars()})
}

// Locate implements Snippet.
func (f From) Locate(buf *rope.Rope) (int, int, error) { return locate(f, buf) }

// Equal implements Snippet.
func (f From) Equal(other Snippet) bool {
	o, ok := other.(From)
	return ok && f.Boundary.Equal(o.Boundary)
}

func (f From) String() string { return fmt.Sprintf("from(%v)", f.Boundary) }

func (From) isSnippet() {}

// To selects everything from the start of the buffer up to a boundary.
type To struct {
	Boundary Boundary
}

// Resolve implements Snippet.
func (t To) Resolve(buf *rope.Rope) (Span, error) {
	s, err := t.Boundary.Resolve(buf)
	if err != nil {
		return Span{}, err
	}
	return validate(buf, Span{Start: 0, End: s.Start})
}

// Locate implements Snippet.
func (t To) Locate(buf *rope.Rope) (int, int, error) { return locate(t, buf) }

// Equal implements Snippet.
func (t To) Equal(other Snippet) bool {
	o, ok := other.(To)
	return ok && t.Boundary.Equal(o.Boundary)
}

func (t To) String() string { return fmt.Sprintf("to(%v)", t.Boundary) }

func (To) isSnippet() {}

// Between selects the text after the end of Start and before the start of
// End. Two Include boundaries around markers select the interior.
type Between struct {
	Start Boundary
	End   Boundary
}

// Resolve implements Snippet.
func (b Between) Resolve(buf *rope.Rope) (Span, error) {
	start, err := b.Start.Resolve(buf)
	if err != nil {
		return Span{}, err
	}
	end, err := b.End.Resolve(buf)
	if err != nil {
		return Span{}, err
	}
	return validate(buf, Span{Start: start.End, End: end.Start})
}

// Locate implements Snippet.
func (b Between) Locate(buf *rope.Rope) (int, int, error) { return locate(b, buf) }

// Equal implements Snippet.
func (b Between) Equal(other Snippet) bool {
	o, ok := other.(Between)
	return ok && b.Start.Equal(o.Start) && b.End.Equal(o.End)
}

func (b Between) String() string {
	return fmt.Sprintf("between(%v; %v)", b.Start, b.End)
}

func (Between) isSnippet() {}

// All selects the whole buffer. It resolves even when the buffer is empty.
type All struct{}

// Resolve implements Snippet.
func (All) Resolve(buf *rope.Rope) (Span, error) {
	return Span{Start: 0, End: buf.LenChars()}, nil
}

// Locate implements Snippet.
func (a All) Locate(buf *rope.Rope) (int, int, error) { return locate(a, buf) }

// Equal implements Snippet.
func (All) Equal(other Snippet) bool {
	_, ok := other.(All)
	return ok
}

func (All) String() string { return "all" }

func (All) isSnippet() {}

func validate(buf *rope.Rope, s Span) (Span, error) {
	if s.Start >= s.End {
		return Span{}, &RangeError{Start: s.Start, End: s.End}
	}
	if s.End > buf.LenChars() {
		return Span{}, &BoundsError{Index: s.End, Len: buf.LenChars()}
	}
	return s, nil
}

func locate(s Snippet, buf *rope.Rope) (int, int, error) {
	span, err := s.Resolve(buf)
	if err != nil {
		return 0, 0, err
	}
	return span.Start, span.End, nil
}
