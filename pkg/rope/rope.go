package rope

import (
	"io"
	"strings"
)

// Rope is a mutable handle over an immutable balanced tree of text chunks.
// The zero value is an empty rope ready to use.
//
// A Rope is not safe for concurrent mutation. Clone it to hand an
// independent copy to another goroutine.
type Rope struct {
	root *node
}

// New returns an empty rope.
func New() *Rope {
	return &Rope{}
}

// FromString builds a rope holding s.
func FromString(s string) *Rope {
	return &Rope{root: build(s)}
}

// FromReader reads r to EOF and builds a rope from its contents.
func FromReader(r io.Reader) (*Rope, error) {
	var sb strings.Builder
	if _, err := io.Copy(&sb, r); err != nil {
		return nil, err
	}
	return FromString(sb.String()), nil
}

// Clone returns an independent rope sharing structure with r.
func (r *Rope) Clone() *Rope {
	return &Rope{root: r.root}
}

// LenChars returns the number of characters in the rope.
func (r *Rope) LenChars() int {
	if r.root == nil {
		return 0
	}
	return r.root.m.chars
}

// LenBytes returns the number of UTF-8 bytes in the rope.
func (r *Rope) LenBytes() int {
	if r.root == nil {
		return 0
	}
	return r.root.m.bytes
}

// LenLines returns the number of lines, which is the newline count plus one.
func (r *Rope) LenLines() int {
	if r.root == nil {
		return 1
	}
	return r.root.m.newlines + 1
}

// Height returns the height of the underlying tree. An empty rope has
// height -1 and a single leaf has height 0.
func (r *Rope) Height() int {
	return heightOf(r.root)
}

// String returns the full text.
func (r *Rope) String() string {
	return r.Slice(0, r.LenChars())
}

// Slice returns the text of characters [start, end). Indices are clamped to
// the rope, and an empty string is returned when start >= end.
func (r *Rope) Slice(start, end int) string {
	start = r.clamp(start)
	end = r.clamp(end)
	if start >= end {
		return ""
	}

	var sb strings.Builder
	sb.Grow(r.CharToByte(end) - r.CharToByte(start))
	appendRange(r.root, start, end, &sb)
	return sb.String()
}

// WriteTo writes the full text to w.
func (r *Rope) WriteTo(w io.Writer) (int64, error) {
	var written int64
	var walk func(n *node) error
	walk = func(n *node) error {
		if n == nil {
			return nil
		}
		if n.isLeaf() {
			k, err := io.WriteString(w, n.text)
			written += int64(k)
			return err
		}
		if err := walk(n.left); err != nil {
			return err
		}
		return walk(n.right)
	}
	err := walk(r.root)
	return written, err
}

// Insert inserts text at character index at. The index is clamped to
// [0, LenChars()].
func (r *Rope) Insert(at int, text string) {
	if text == "" {
		return
	}
	at = r.clamp(at)
	left, right := split(r.root, at)
	r.root = join(join(left, build(text)), right)
}

// Remove deletes characters [start, end). Indices are clamped, and nothing
// happens when start >= end.
func (r *Rope) Remove(start, end int) {
	start = r.clamp(start)
	end = r.clamp(end)
	if start >= end {
		return
	}
	left, rest := split(r.root, start)
	_, right := split(rest, end-start)
	r.root = join(left, right)
}

// CharToByte returns the byte offset of character index c. c is clamped,
// so LenChars() maps to LenBytes().
func (r *Rope) CharToByte(c int) int {
	c = r.clamp(c)
	bytes := 0
	n := r.root
	for n != nil {
		if n.isLeaf() {
			return bytes + byteOffset(n.text, c)
		}
		if c < n.left.m.chars {
			n = n.left
			continue
		}
		c -= n.left.m.chars
		bytes += n.left.m.bytes
		n = n.right
	}
	return bytes
}

// ByteToChar returns the index of the character containing byte offset b.
// Offsets at or past LenBytes() map to LenChars(); negative offsets map to 0.
func (r *Rope) ByteToChar(b int) int {
	if b <= 0 {
		return 0
	}
	if b >= r.LenBytes() {
		return r.LenChars()
	}

	chars := 0
	n := r.root
	for !n.isLeaf() {
		if b < n.left.m.bytes {
			n = n.left
			continue
		}
		b -= n.left.m.bytes
		chars += n.left.m.chars
		n = n.right
	}
	return chars + charContaining(n.text, b)
}

// CharToLine returns the 0-indexed line containing character index c.
// c is clamped to [0, LenChars()].
func (r *Rope) CharToLine(c int) int {
	c = r.clamp(c)
	lines := 0
	n := r.root
	for n != nil {
		if n.isLeaf() {
			return lines + newlinesBefore(n.text, c)
		}
		if c < n.left.m.chars {
			n = n.left
			continue
		}
		c -= n.left.m.chars
		lines += n.left.m.newlines
		n = n.right
	}
	return lines
}

// LineToChar returns the character index of the first character of line l.
// l is clamped to [0, LenLines()]; LenLines() maps to LenChars().
func (r *Rope) LineToChar(l int) int {
	if l <= 0 {
		return 0
	}
	if l >= r.LenLines() {
		return r.LenChars()
	}

	chars := 0
	n := r.root
	for !n.isLeaf() {
		if l <= n.left.m.newlines {
			n = n.left
			continue
		}
		l -= n.left.m.newlines
		chars += n.left.m.chars
		n = n.right
	}
	return chars + charAfterNewline(n.text, l)
}

// LineLen returns the number of characters on line l, excluding the
// terminating newline. It returns 0 for lines outside the rope.
func (r *Rope) LineLen(l int) int {
	if l < 0 || l >= r.LenLines() {
		return 0
	}
	start := r.LineToChar(l)
	end := r.LineToChar(l + 1)
	if l+1 < r.LenLines() {
		end-- // newline
	}
	return end - start
}

// Line returns the text of line l without its terminating newline.
func (r *Rope) Line(l int) string {
	if l < 0 || l >= r.LenLines() {
		return ""
	}
	start := r.LineToChar(l)
	return r.Slice(start, start+r.LineLen(l))
}

// Cursor returns a reader that yields runes starting at character index at.
func (r *Rope) Cursor(at int) *Cursor {
	return newCursor(r.root, r.clamp(at))
}

func (r *Rope) clamp(c int) int {
	return min(max(c, 0), r.LenChars())
}
