package snip

import (
	"fmt"
	"regexp"

	"github.com/yaklabco/textum/pkg/rope"
)

// Span is a half-open range of character indices [Start, End).
type Span struct {
	Start int
	End   int
}

// Len returns the number of characters in the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty reports whether the span selects no characters.
func (s Span) IsEmpty() bool {
	return s.End <= s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("[%d, %d)", s.Start, s.End)
}

// Target locates a single position in a buffer.
//
// The set of targets is closed: Literal, Pattern, Line, Char and Position.
type Target interface {
	// Resolve returns the character index the target refers to.
	Resolve(buf *rope.Rope) (int, error)

	// Equal reports whether other describes the same target.
	Equal(other Target) bool

	// String returns a canonical form, stable enough to use as a map key.
	String() string

	// span returns the target's own span: the match for literals and
	// patterns, an empty span for point targets.
	span(buf *rope.Rope) (Span, error)
}

// searcher is implemented by targets that can be matched repeatedly from an
// arbitrary starting index.
type searcher interface {
	Target

	// find returns the first match at or after from.
	find(buf *rope.Rope, from int) (Span, bool, error)
}

// Literal matches the first exact occurrence of its text. An empty literal
// resolves to index 0.
type Literal string

// Resolve implements Target.
func (l Literal) Resolve(buf *rope.Rope) (int, error) {
	s, err := l.span(buf)
	return s.Start, err
}

// Equal implements Target.
func (l Literal) Equal(other Target) bool {
	o, ok := other.(Literal)
	return ok && o == l
}

func (l Literal) String() string {
	return fmt.Sprintf("literal(%q)", string(l))
}

func (l Literal) span(buf *rope.Rope) (Span, error) {
	if l == "" {
		return Span{}, nil
	}
	s, ok, err := l.find(buf, 0)
	if err != nil {
		return Span{}, err
	}
	if !ok {
		return Span{}, ErrNotFound
	}
	return s, nil
}

// find scans forward with Knuth-Morris-Pratt over the rope cursor, so the
// buffer is never copied into a contiguous string.
func (l Literal) find(buf *rope.Rope, from int) (Span, bool, error) {
	needle := []rune(string(l))
	if len(needle) == 0 {
		return Span{Start: from, End: from}, true, nil
	}

	fail := failureTable(needle)
	cur := buf.Cursor(from)
	matched := 0
	for {
		r, _, err := cur.ReadRune()
		if err != nil {
			return Span{}, false, nil
		}
		for matched > 0 && r != needle[matched] {
			matched = fail[matched-1]
		}
		if r == needle[matched] {
			matched++
		}
		if matched == len(needle) {
			end := cur.Pos()
			return Span{Start: end - len(needle), End: end}, true, nil
		}
	}
}

// failureTable returns, for each prefix of needle, the length of its longest
// proper prefix that is also a suffix.
func failureTable(needle []rune) []int {
	fail := make([]int, len(needle))
	k := 0
	for i := 1; i < len(needle); i++ {
		for k > 0 && needle[i] != needle[k] {
			k = fail[k-1]
		}
		if needle[i] == needle[k] {
			k++
		}
		fail[i] = k
	}
	return fail
}

// Pattern matches the first occurrence of a regular expression.
//
// Matching streams runes from the rope, so anchors such as ^ and \b see the
// position where the search starts as the beginning of input.
type Pattern struct {
	re *regexp.Regexp
}

// NewPattern compiles expr into a Pattern.
func NewPattern(expr string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	return Pattern{re: re}, nil
}

// MustPattern is like NewPattern but panics if expr does not compile.
func MustPattern(expr string) Pattern {
	p, err := NewPattern(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// PatternOf wraps an already compiled expression.
func PatternOf(re *regexp.Regexp) Pattern {
	return Pattern{re: re}
}

// Regexp returns the compiled expression.
func (p Pattern) Regexp() *regexp.Regexp {
	return p.re
}

// Resolve implements Target.
func (p Pattern) Resolve(buf *rope.Rope) (int, error) {
	s, err := p.span(buf)
	return s.Start, err
}

// Equal implements Target. Patterns compare by source expression.
func (p Pattern) Equal(other Target) bool {
	o, ok := other.(Pattern)
	if !ok {
		return false
	}
	if p.re == nil || o.re == nil {
		return p.re == o.re
	}
	return p.re.String() == o.re.String()
}

func (p Pattern) String() string {
	if p.re == nil {
		return "pattern(<nil>)"
	}
	return fmt.Sprintf("pattern(%q)", p.re.String())
}

func (p Pattern) span(buf *rope.Rope) (Span, error) {
	s, ok, err := p.find(buf, 0)
	if err != nil {
		return Span{}, err
	}
	if !ok {
		return Span{}, ErrNotFound
	}
	return s, nil
}

func (p Pattern) find(buf *rope.Rope, from int) (Span, bool, error) {
	if p.re == nil {
		return Span{}, false, ErrInvalidPattern
	}

	cur := buf.Cursor(from)
	base := cur.BytePos()
	loc := p.re.FindReaderIndex(cur)
	if loc == nil {
		return Span{}, false, nil
	}
	return Span{
		Start: buf.ByteToChar(base + loc[0]),
		End:   buf.ByteToChar(base + loc[1]),
	}, true, nil
}

// Line targets the first character of a 0-indexed line.
type Line int

// Resolve implements Target.
func (l Line) Resolve(buf *rope.Rope) (int, error) {
	if l < 0 || int(l) >= buf.LenLines() {
		return 0, &PositionError{Line: int(l)}
	}
	return buf.LineToChar(int(l)), nil
}

// Equal implements Target.
func (l Line) Equal(other Target) bool {
	o, ok := other.(Line)
	return ok && o == l
}

func (l Line) String() string {
	return fmt.Sprintf("line(%d)", int(l))
}

func (l Line) span(buf *rope.Rope) (Span, error) {
	return pointSpan(l, buf)
}

// Char targets an absolute 0-indexed character.
type Char int

// Resolve implements Target.
func (c Char) Resolve(buf *rope.Rope) (int, error) {
	if c < 0 || int(c) >= buf.LenChars() {
		return 0, &BoundsError{Index: int(c), Len: buf.LenChars()}
	}
	return int(c), nil
}

// Equal implements Target.
func (c Char) Equal(other Target) bool {
	o, ok := other.(Char)
	return ok && o == c
}

func (c Char) String() string {
	return fmt.Sprintf("char(%d)", int(c))
}

func (c Char) span(buf *rope.Rope) (Span, error) {
	return pointSpan(c, buf)
}

// Position targets a 1-indexed line and column. Columns count characters and
// stop before the line's terminating newline.
type Position struct {
	Line int
	Col  int
}

// Resolve implements Target.
func (p Position) Resolve(buf *rope.Rope) (int, error) {
	invalid := &PositionError{Line: p.Line, Col: p.Col, HasCol: true}
	if p.Line < 1 || p.Col < 1 {
		return 0, invalid
	}

	line := p.Line - 1
	if line >= buf.LenLines() {
		return 0, invalid
	}
	if p.Col > buf.LineLen(line) {
		return 0, invalid
	}
	return buf.LineToChar(line) + p.Col - 1, nil
}

// Equal implements Target.
func (p Position) Equal(other Target) bool {
	o, ok := other.(Position)
	return ok && o == p
}

func (p Position) String() string {
	return fmt.Sprintf("position(%d:%d)", p.Line, p.Col)
}

func (p Position) span(buf *rope.Rope) (Span, error) {
	return pointSpan(p, buf)
}

func pointSpan(t Target, buf *rope.Rope) (Span, error) {
	i, err := t.Resolve(buf)
	if err != nil {
		return Span{}, err
	}
	return Span{Start: i, End: i}, nil
}

var (
	_ searcher = Literal("")
	_ searcher = Pattern{}
	_ Target   = Line(0)
	_ Target   = Char(0)
	_ Target   = Position{}
)
