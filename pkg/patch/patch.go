// Package patch applies character-range edits to text buffers.
//
// A Patch removes a half-open character range and inserts optional
// replacement text at its start. A Set collects patches for many files and
// applies each file's group in descending start order, so that no patch
// shifts the recorded position of another patch that has yet to run.
package patch

import (
	"errors"
	"fmt"

	"github.com/yaklabco/textum/pkg/rope"
	"github.com/yaklabco/textum/pkg/snip"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrRangeOutOfBounds is returned when a patch range does not fit the buffer.
	ErrRangeOutOfBounds = errors.New("range out of bounds")

	// ErrFileNotFound is returned when a patched file does not exist.
	ErrFileNotFound = errors.New("file not found")
)

// Range is a half-open range of character indices.
type Range struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end"   yaml:"end"`
}

// Len returns the number of characters covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// Patch is a single edit: remove Range, then insert Replacement at
// Range.Start.
//
// Start == End is a pure insertion. A nil Replacement is a pure deletion.
// SymbolPath and MaxLineDrift are carried through unchanged and never
// consulted when applying.
type Patch struct {
	File         string   `json:"file"                     yaml:"file"`
	Range        Range    `json:"range"                    yaml:"range"`
	Replacement  *string  `json:"replacement,omitempty"    yaml:"replacement,omitempty"`
	SymbolPath   []string `json:"symbol_path,omitempty"    yaml:"symbol_path,omitempty"`
	MaxLineDrift *int     `json:"max_line_drift,omitempty" yaml:"max_line_drift,omitempty"`
}

// New returns a patch replacing [start, end) of file with replacement.
func New(file string, start, end int, replacement string) Patch {
	return Patch{
		File:        file,
		Range:       Range{Start: start, End: end},
		Replacement: &replacement,
	}
}

// Insertion returns a patch inserting text at index at.
func Insertion(file string, at int, text string) Patch {
	return New(file, at, at, text)
}

// Deletion returns a patch removing [start, end).
func Deletion(file string, start, end int) Patch {
	return Patch{File: file, Range: Range{Start: start, End: end}}
}

// Text returns a pointer to s, for use as a Replacement.
func Text(s string) *string {
	return &s
}

// ReplacementText returns the replacement, or "" for a deletion.
func (p Patch) ReplacementText() string {
	if p.Replacement == nil {
		return ""
	}
	return *p.Replacement
}

// IsInsertion reports whether the patch removes nothing.
func (p Patch) IsInsertion() bool {
	return p.Range.Start == p.Range.End
}

// IsDeletion reports whether the patch inserts nothing.
func (p Patch) IsDeletion() bool {
	return p.Replacement == nil
}

func (p Patch) String() string {
	switch {
	case p.IsDeletion():
		return fmt.Sprintf("%s[%s] delete", p.File, p.Range)
	case p.IsInsertion():
		return fmt.Sprintf("%s[%s] insert %q", p.File, p.Range, *p.Replacement)
	default:
		return fmt.Sprintf("%s[%s] replace with %q", p.File, p.Range, *p.Replacement)
	}
}

// Check reports whether the patch range fits a buffer of length chars.
func (p Patch) Check(length int) error {
	if p.Range.Start < 0 || p.Range.Start > p.Range.End || p.Range.End > length {
		return &RangeError{Range: p.Range, Len: length}
	}
	return nil
}

// Apply edits buf in place. On error buf is left untouched.
func (p Patch) Apply(buf *rope.Rope) error {
	if err := p.Check(buf.LenChars()); err != nil {
		return err
	}

	if p.Range.Start < p.Range.End {
		buf.Remove(p.Range.Start, p.Range.End)
	}
	if p.Replacement != nil {
		buf.Insert(p.Range.Start, *p.Replacement)
	}
	return nil
}

// FromLinePositions builds a patch from 0-indexed line/column pairs resolved
// against buf. A column may point at the end of its line but not past it.
func FromLinePositions(
	file string,
	lineStart, colStart, lineEnd, colEnd int,
	buf *rope.Rope,
	replacement *string,
) (Patch, error) {
	start, err := lineColToChar(buf, lineStart, colStart)
	if err != nil {
		return Patch{}, err
	}
	end, err := lineColToChar(buf, lineEnd, colEnd)
	if err != nil {
		return Patch{}, err
	}

	return Patch{
		File:        file,
		Range:       Range{Start: start, End: end},
		Replacement: replacement,
	}, nil
}

func lineColToChar(buf *rope.Rope, line, col int) (int, error) {
	if line < 0 || line >= buf.LenLines() || col < 0 || col > buf.LineLen(line) {
		return 0, &PositionError{Line: line, Col: col}
	}
	return buf.LineToChar(line) + col, nil
}

// RangeError describes a patch range that does not fit its buffer.
type RangeError struct {
	Range Range
	Len   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("range %s out of bounds for length %d", e.Range, e.Len)
}

func (e *RangeError) Unwrap() error {
	return ErrRangeOutOfBounds
}

// PositionError describes a 0-indexed line/column pair that does not exist.
// It matches snip.ErrInvalidPosition.
type PositionError struct {
	Line int
	Col  int
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("invalid position: line %d, column %d (0-indexed)", e.Line, e.Col)
}

func (e *PositionError) Unwrap() error {
	return snip.ErrInvalidPosition
}

// PatchError ties a failure to the patch and file that caused it.
type PatchError struct {
	File  string
	Index int
	Patch Patch
	Err   error
}

func (e *PatchError) Error() string {
	return fmt.Sprintf("%s: patch %d: %v", e.File, e.Index, e.Err)
}

func (e *PatchError) Unwrap() error {
	return e.Err
}
