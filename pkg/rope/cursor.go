package rope

import (
	"io"
	"unicode/utf8"
)

// Cursor reads runes from a rope sequentially. It implements io.RuneReader,
// so it can be handed to regexp.FindReaderIndex without materializing the
// text.
//
// A Cursor holds a snapshot of the tree it was created from; later edits to
// the rope are not observed.
type Cursor struct {
	stack []*node // pending subtrees, next on top
	leaf  string  // unread remainder of the current leaf
	pos   int     // character index of the next rune
	bytes int     // byte offset of the next rune
}

func newCursor(root *node, at int) *Cursor {
	c := &Cursor{pos: at}
	n := root
	for n != nil && !n.isLeaf() {
		if at < n.left.m.chars {
			c.stack = append(c.stack, n.right)
			n = n.left
			continue
		}
		at -= n.left.m.chars
		c.bytes += n.left.m.bytes
		n = n.right
	}
	if n != nil {
		off := byteOffset(n.text, at)
		c.leaf = n.text[off:]
		c.bytes += off
	}
	return c
}

// ReadRune returns the next rune and its UTF-8 width. It returns io.EOF at
// the end of the text.
func (c *Cursor) ReadRune() (rune, int, error) {
	for c.leaf == "" {
		if !c.advance() {
			return 0, 0, io.EOF
		}
	}
	r, size := utf8.DecodeRuneInString(c.leaf)
	c.leaf = c.leaf[size:]
	c.pos++
	c.bytes += size
	return r, size, nil
}

// Pos returns the character index of the next rune to be read.
func (c *Cursor) Pos() int {
	return c.pos
}

// BytePos returns the byte offset of the next rune to be read.
func (c *Cursor) BytePos() int {
	return c.bytes
}

// advance loads the leftmost leaf of the next pending subtree.
func (c *Cursor) advance() bool {
	if len(c.stack) == 0 {
		return false
	}
	n := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	for !n.isLeaf() {
		c.stack = append(c.stack, n.right)
		n = n.left
	}
	c.leaf = n.text
	return true
}
