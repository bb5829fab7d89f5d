package snip

import (
	"fmt"

	"github.com/yaklabco/textum/pkg/rope"
)

// Mode decides how much of a target's own span a boundary keeps.
//
// The set of modes is closed: Exclude, Include and Extend.
type Mode interface {
	// shape turns the target's own span into the boundary span.
	shape(buf *rope.Rope, own Span) (Span, error)

	Equal(other Mode) bool
	String() string
}

// Exclude collapses the target's span to its end edge.
type Exclude struct{}

func (Exclude) shape(_ *rope.Rope, own Span) (Span, error) {
	return Span{Start: own.End, End: own.End}, nil
}

// Equal implements Mode.
func (Exclude) Equal(other Mode) bool {
	_, ok := other.(Exclude)
	return ok
}

func (Exclude) String() string { return "exclude" }

// Include keeps the target's span.
type Include struct{}

func (Include) shape(_ *rope.Rope, own Span) (Span, error) {
	return own, nil
}

// Equal implements Mode.
func (Include) Equal(other Mode) bool {
	_, ok := other.(Include)
	return ok
}

func (Include) String() string { return "include" }

// Extend starts at the end of the target's span and grows by Extent.
type Extend struct {
	Extent Extent
}

func (e Extend) shape(buf *rope.Rope, own Span) (Span, error) {
	if e.Extent == nil {
		return Span{}, fmt.Errorf("%w: extend without extent", ErrIncomplete)
	}
	end, err := e.Extent.Advance(buf, own.End)
	if err != nil {
		return Span{}, err
	}
	return Span{Start: own.End, End: end}, nil
}

// Equal implements Mode.
func (e Extend) Equal(other Mode) bool {
	o, ok := other.(Extend)
	if !ok {
		return false
	}
	if e.Extent == nil || o.Extent == nil {
		return e.Extent == nil && o.Extent == nil
	}
	return e.Extent.Equal(o.Extent)
}

func (e Extend) String() string {
	return fmt.Sprintf("extend(%v)", e.Extent)
}

// Boundary pairs a target with a mode.
type Boundary struct {
	Target Target
	Mode   Mode
}

// NewBoundary returns a boundary over target with the given mode.
func NewBoundary(target Target, mode Mode) Boundary {
	return Boundary{Target: target, Mode: mode}
}

// Resolve returns the boundary's span in buf. Failures are reported as a
// *BoundaryError wrapping the target or extent error.
func (b Boundary) Resolve(buf *rope.Rope) (Span, error) {
	if b.Target == nil || b.Mode == nil {
		return Span{}, &BoundaryError{Boundary: b, Err: ErrIncomplete}
	}

	own, err := b.Target.span(buf)
	if err != nil {
		return Span{}, &BoundaryError{Boundary: b, Err: err}
	}

	s, err := b.Mode.shape(buf, own)
	if err != nil {
		return Span{}, &BoundaryError{Boundary: b, Err: err}
	}
	return s, nil
}

// Equal reports whether both boundaries have equal targets and modes.
func (b Boundary) Equal(other Boundary) bool {
	if b.Target == nil || other.Target == nil || b.Mode == nil || other.Mode == nil {
		return b.Target == other.Target && b.Mode == other.Mode
	}
	return b.Target.Equal(other.Target) && b.Mode.Equal(other.Mode)
}

func (b Boundary) String() string {
	return fmt.Sprintf("%v %v", b.Target, b.Mode)
}
