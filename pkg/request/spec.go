package request

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/yaklabco/textum/pkg/snip"
)

// TargetSpec describes a snip.Target. Exactly one field must be set.
type TargetSpec struct {
	Literal  *string       `json:"literal,omitempty"  yaml:"literal,omitempty"`
	Pattern  *string       `json:"pattern,omitempty"  yaml:"pattern,omitempty"`
	Line     *int          `json:"line,omitempty"     yaml:"line,omitempty"`
	Char     *int          `json:"char,omitempty"     yaml:"char,omitempty"`
	Position *PositionSpec `json:"position,omitempty" yaml:"position,omitempty"`
}

// PositionSpec is a 1-indexed line and column.
type PositionSpec struct {
	Line int `json:"line" yaml:"line"`
	Col  int `json:"col"  yaml:"col"`
}

// Build returns the described snip.Target.
func (t TargetSpec) Build() (snip.Target, error) {
	if err := exactlyOne("target", t.Literal != nil, t.Pattern != nil, t.Line != nil,
		t.Char != nil, t.Position != nil); err != nil {
		return nil, err
	}

	switch {
	case t.Literal != nil:
		return snip.Literal(*t.Literal), nil
	case t.Pattern != nil:
		pattern, err := snip.NewPattern(*t.Pattern)
		if err != nil {
			return nil, err
		}
		return pattern, nil
	case t.Line != nil:
		return snip.Line(*t.Line), nil
	case t.Char != nil:
		return snip.Char(*t.Char), nil
	default:
		return snip.Position{Line: t.Position.Line, Col: t.Position.Col}, nil
	}
}

// ExtentSpec describes a snip.Extent. Exactly one field must be set.
type ExtentSpec struct {
	Lines    *int          `json:"lines,omitempty"    yaml:"lines,omitempty"`
	Chars    *int          `json:"chars,omitempty"    yaml:"chars,omitempty"`
	Bytes    *int          `json:"bytes,omitempty"    yaml:"bytes,omitempty"`
	Matching *MatchingSpec `json:"matching,omitempty" yaml:"matching,omitempty"`
}

// MatchingSpec counts occurrences of a target.
type MatchingSpec struct {
	Count  int        `json:"count"  yaml:"count"`
	Target TargetSpec `json:"target" yaml:"target"`
}

// Build returns the described snip.Extent.
func (e ExtentSpec) Build() (snip.Extent, error) {
	if err := exactlyOne("extent", e.Lines != nil, e.Chars != nil, e.Bytes != nil,
		e.Matching != nil); err != nil {
		return nil, err
	}

	switch {
	case e.Lines != nil:
		return snip.Lines(*e.Lines), nil
	case e.Chars != nil:
		return snip.Chars(*e.Chars), nil
	case e.Bytes != nil:
		return snip.Bytes(*e.Bytes), nil
	default:
		target, err := e.Matching.Target.Build()
		if err != nil {
			return nil, fmt.Errorf("matching: %w", err)
		}
		return snip.Matching{N: e.Matching.Count, Target: target}, nil
	}
}

// Mode names accepted in BoundarySpec.Mode.
const (
	ModeExclude = "exclude"
	ModeInclude = "include"
	ModeExtend  = "extend"
)

// BoundarySpec describes a snip.Boundary. Mode defaults to include; extend
// requires Extent.
type BoundarySpec struct {
	Target TargetSpec  `json:"target"           yaml:"target"`
	Mode   string      `json:"mode,omitempty"   yaml:"mode,omitempty"`
	Extent *ExtentSpec `json:"extent,omitempty" yaml:"extent,omitempty"`
}

// Build returns the described snip.Boundary.
func (b BoundarySpec) Build() (snip.Boundary, error) {
	target, err := b.Target.Build()
	if err != nil {
		return snip.Boundary{}, err
	}

	var mode snip.Mode
	switch b.Mode {
	case "", ModeInclude:
		mode = snip.Include{}
	case ModeExclude:
		mode = snip.Exclude{}
	case ModeExtend:
		if b.Extent == nil {
			return snip.Boundary{}, fmt.Errorf("%w: mode extend needs an extent", ErrInvalidRequest)
		}
		extent, err := b.Extent.Build()
		if err != nil {
			return snip.Boundary{}, err
		}
		mode = snip.Extend{Extent: extent}
	default:
		return snip.Boundary{}, fmt.Errorf("%w: unknown mode %q (want %s, %s or %s)",
			ErrInvalidRequest, b.Mode, ModeExclude, ModeInclude, ModeExtend)
	}

	if b.Extent != nil && b.Mode != ModeExtend {
		return snip.Boundary{}, fmt.Errorf("%w: extent is only valid with mode extend", ErrInvalidRequest)
	}

	return snip.NewBoundary(target, mode), nil
}

// BetweenSpec holds the two boundaries of a Between snippet.
type BetweenSpec struct {
	Start BoundarySpec `json:"start" yaml:"start"`
	End   BoundarySpec `json:"end"   yaml:"end"`
}

// SnippetSpec describes a snip.Snippet. Exactly one field must be set.
type SnippetSpec struct {
	At      *BoundarySpec `json:"at,omitempty"      yaml:"at,omitempty"`
	From    *BoundarySpec `json:"from,omitempty"    yaml:"from,omitempty"`
	To      *BoundarySpec `json:"to,omitempty"      yaml:"to,omitempty"`
	Between *BetweenSpec  `json:"between,omitempty" yaml:"between,omitempty"`
	All     bool          `json:"all,omitempty"     yaml:"all,omitempty"`
}

// Build returns the described snip.Snippet.
func (s SnippetSpec) Build() (snip.Snippet, error) {
	if err := exactlyOne("snippet", s.At != nil, s.From != nil, s.To != nil,
		s.Between != nil, s.All); err != nil {
		return nil, err
	}

	single := func(spec *BoundarySpec, wrap func(snip.Boundary) snip.Snippet) (snip.Snippet, error) {
		boundary, err := spec.Build()
		if err != nil {
			return nil, err
		}
		return wrap(boundary), nil
	}

	switch {
	case s.At != nil:
		return single(s.At, func(b snip.Boundary) snip.Snippet { return snip.At{Boundary: b} })
	case s.From != nil:
		return single(s.From, func(b snip.Boundary) snip.Snippet { return snip.From{Boundary: b} })
	case s.To != nil:
		return single(s.To, func(b snip.Boundary) snip.Snippet { return snip.To{Boundary: b} })
	case s.Between != nil:
		start, err := s.Between.Start.Build()
		if err != nil {
			return nil, fmt.Errorf("start: %w", err)
		}
		end, err := s.Between.End.Build()
		if err != nil {
			return nil, fmt.Errorf("end: %w", err)
		}
		return snip.Between{Start: start, End: end}, nil
	default:
		return snip.All{}, nil
	}
}

func exactlyOne(what string, set ...bool) error {
	n := lo.Count(set, true)
	switch n {
	case 1:
		return nil
	case 0:
		return fmt.Errorf("%w: %s is empty", ErrInvalidRequest, what)
	default:
		return fmt.Errorf("%w: %s sets %d variants, want exactly one", ErrInvalidRequest, what, n)
	}
}
