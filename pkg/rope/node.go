package rope

import (
	"strings"
	"unicode/utf8"
)

// Leaf sizing. Leaves are split at character boundaries, so a leaf may be
// up to utf8.UTFMax-1 bytes shorter than maxLeafBytes.
const (
	// maxLeafBytes is the largest chunk stored in a single leaf.
	maxLeafBytes = 1024

	// mergeLeafBytes is the combined size below which two adjacent leaves
	// are merged when joined.
	mergeLeafBytes = maxLeafBytes / 2
)

// metrics holds the aggregated counts for a span of text.
type metrics struct {
	bytes    int
	chars    int
	newlines int
}

func (m metrics) add(other metrics) metrics {
	return metrics{
		bytes:    m.bytes + other.bytes,
		chars:    m.chars + other.chars,
		newlines: m.newlines + other.newlines,
	}
}

func measure(s string) metrics {
	return metrics{
		bytes:    len(s),
		chars:    utf8.RuneCountInString(s),
		newlines: strings.Count(s, "\n"),
	}
}

// node is an immutable rope node. Leaves have nil children and carry text;
// internal nodes always have two non-nil children.
type node struct {
	left, right *node
	text        string
	height      int
	m           metrics
}

func newLeaf(s string) *node {
	if s == "" {
		return nil
	}
	return &node{text: s, m: measure(s)}
}

func newBranch(left, right *node) *node {
	return &node{
		left:   left,
		right:  right,
		height: max(left.height, right.height) + 1,
		m:      left.m.add(right.m),
	}
}

func (n *node) isLeaf() bool {
	return n.left == nil
}

// heightOf returns the height of n, or -1 for the empty tree.
func heightOf(n *node) int {
	if n == nil {
		return -1
	}
	return n.height
}

// join concatenates two balanced trees into one balanced tree.
func join(a, b *node) *node {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}

	if a.isLeaf() && b.isLeaf() && a.m.bytes+b.m.bytes <= mergeLeafBytes {
		// Invalid bytes on either side of the seam may decode as one
		// character once adjacent; such leaves stay separate so every
		// character keeps its index.
		if merged := newLeaf(a.text + b.text); merged.m.chars == a.m.chars+b.m.chars {
			return merged
		}
	}

	switch {
	case a.height > b.height+1:
		return rebalance(a.left, join(a.right, b))
	case b.height > a.height+1:
		return rebalance(join(a, b.left), b.right)
	default:
		return newBranch(a, b)
	}
}

// rebalance builds a branch over left and right whose heights may differ by
// at most two, rotating once or twice to restore the AVL invariant.
func rebalance(left, right *node) *node {
	switch {
	case heightOf(left) > heightOf(right)+1:
		if heightOf(left.left) >= heightOf(left.right) {
			return newBranch(left.left, newBranch(left.right, right))
		}
		mid := left.right
		return newBranch(newBranch(left.left, mid.left), newBranch(mid.right, right))
	case heightOf(right) > heightOf(left)+1:
		if heightOf(right.right) >= heightOf(right.left) {
			return newBranch(newBranch(left, right.left), right.right)
		}
		mid := right.left
		return newBranch(newBranch(left, mid.left), newBranch(mid.right, right.right))
	default:
		return newBranch(left, right)
	}
}

// split divides n at character index at. The left tree holds [0, at).
func split(n *node, at int) (*node, *node) {
	if n == nil {
		return nil, nil
	}
	if at <= 0 {
		return nil, n
	}
	if at >= n.m.chars {
		return n, nil
	}

	if n.isLeaf() {
		off := byteOffset(n.text, at)
		return newLeaf(n.text[:off]), newLeaf(n.text[off:])
	}

	if at <= n.left.m.chars {
		ll, lr := split(n.left, at)
		return ll, join(lr, n.right)
	}
	rl, rr := split(n.right, at-n.left.m.chars)
	return join(n.left, rl), rr
}

// build creates a balanced tree from s.
func build(s string) *node {
	chunks := chunk(s)
	return buildChunks(chunks)
}

func buildChunks(chunks []string) *node {
	switch len(chunks) {
	case 0:
		return nil
	case 1:
		return newLeaf(chunks[0])
	}
	mid := len(chunks) / 2
	return join(buildChunks(chunks[:mid]), buildChunks(chunks[mid:]))
}

// chunk splits s into pieces of at most maxLeafBytes, cutting only where
// decoding s as a whole steps from one character to the next.
func chunk(s string) []string {
	if s == "" {
		return nil
	}

	chunks := make([]string, 0, len(s)/maxLeafBytes+1)
	for len(s) > maxLeafBytes {
		cut := 0
		for {
			_, size := utf8.DecodeRuneInString(s[cut:])
			if cut+size > maxLeafBytes {
				break
			}
			cut += size
		}
		chunks = append(chunks, s[:cut])
		s = s[cut:]
	}
	return append(chunks, s)
}

// byteOffset returns the byte offset of the character at index c in s,
// or len(s) when c is past the end.
func byteOffset(s string, c int) int {
	for i := range s {
		if c == 0 {
			return i
		}
		c--
	}
	return len(s)
}

// charContaining returns the index of the character that contains byte b.
// b must be within [0, len(s)).
func charContaining(s string, b int) int {
	count := 0
	for i := range s {
		if i > b {
			break
		}
		count++
	}
	return count - 1
}

// newlinesBefore counts the newlines among the first c characters of s.
func newlinesBefore(s string, c int) int {
	count := 0
	for _, r := range s {
		if c == 0 {
			break
		}
		if r == '\n' {
			count++
		}
		c--
	}
	return count
}

// charAfterNewline returns the number of characters up to and including
// the k-th newline in s (k >= 1).
func charAfterNewline(s string, k int) int {
	count := 0
	for _, r := range s {
		count++
		if r == '\n' {
			k--
			if k == 0 {
				return count
			}
		}
	}
	return count
}

// appendRange writes the characters [start, end) of n to sb.
func appendRange(n *node, start, end int, sb *strings.Builder) {
	if n == nil || start >= end || end <= 0 || start >= n.m.chars {
		return
	}

	if n.isLeaf() {
		from := byteOffset(n.text, max(start, 0))
		to := byteOffset(n.text, min(end, n.m.chars))
		sb.WriteString(n.text[from:to])
		return
	}

	leftChars := n.left.m.chars
	appendRange(n.left, start, end, sb)
	appendRange(n.right, start-leftChars, end-leftChars, sb)
}
