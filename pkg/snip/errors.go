package snip

import (
	"errors"
	"fmt"
)

// Target errors.
var (
	// ErrNotFound is returned when a literal or pattern has no match.
	ErrNotFound = errors.New("target not found")

	// ErrOutOfBounds is returned when an index lies past the end of the buffer.
	ErrOutOfBounds = errors.New("index out of bounds")

	// ErrInvalidPosition is returned when a line or column does not exist.
	ErrInvalidPosition = errors.New("invalid position")

	// ErrInvalidPattern is returned for a Pattern without a compiled expression.
	ErrInvalidPattern = errors.New("invalid pattern")
)

// Extent errors.
var (
	// ErrExtentOutOfBounds is returned when an extent reaches past the buffer.
	ErrExtentOutOfBounds = errors.New("extent out of bounds")

	// ErrInvalidExtent is returned for extents that cannot be measured.
	ErrInvalidExtent = errors.New("invalid extent")
)

// Snippet errors.
var (
	// ErrInvalidRange is returned when a snippet resolves to an empty or
	// inverted range.
	ErrInvalidRange = errors.New("invalid range")

	// ErrInvalidUTF8 is returned for replacement text that is not valid UTF-8
	// or contains a NUL byte.
	ErrInvalidUTF8 = errors.New("invalid UTF-8")

	// ErrIncomplete is returned when a boundary or snippet is missing one of
	// its parts.
	ErrIncomplete = errors.New("incomplete selector")
)

// PositionError describes a line or line/column coordinate that does not
// exist in the buffer.
type PositionError struct {
	Line   int
	Col    int
	HasCol bool
}

func (e *PositionError) Error() string {
	if e.HasCol {
		return fmt.Sprintf("invalid position: line %d, column %d", e.Line, e.Col)
	}
	return fmt.Sprintf("invalid position: line %d", e.Line)
}

func (e *PositionError) Unwrap() error {
	return ErrInvalidPosition
}

// BoundaryError wraps a target or extent failure with the boundary that
// produced it.
type BoundaryError struct {
	Boundary Boundary
	Err      error
}

func (e *BoundaryError) Error() string {
	return fmt.Sprintf("boundary %s: %v", e.Boundary, e.Err)
}

func (e *BoundaryError) Unwrap() error {
	return e.Err
}

// RangeError reports a resolved range with start >= end.
type RangeError struct {
	Start int
	End   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid range: start %d, end %d", e.Start, e.End)
}

func (e *RangeError) Unwrap() error {
	return ErrInvalidRange
}

// BoundsError reports a resolved index past the end of the buffer.
type BoundsError struct {
	Index int
	Len   int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("index %d out of bounds for length %d", e.Index, e.Len)
}

func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}
