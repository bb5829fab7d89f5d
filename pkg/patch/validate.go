package patch

import (
	"cmp"
	"fmt"
	"slices"
)

// ConflictError describes two patches whose ranges overlap.
type ConflictError struct {
	First  Patch
	Second Patch
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping patches in %s: [%s] and [%s]",
		e.First.File, e.First.Range, e.Second.Range)
}

// SortDescending orders patches by start position, highest first. The sort
// is stable: patches with equal starts keep their relative order.
func SortDescending(patches []Patch) {
	slices.SortStableFunc(patches, func(a, b Patch) int {
		return cmp.Compare(b.Range.Start, a.Range.Start)
	})
}

// Overlaps reports the first pair of patches whose ranges intersect.
// Adjacent ranges and insertions at a range edge do not overlap.
func Overlaps(patches []Patch) error {
	sorted := slices.Clone(patches)
	slices.SortStableFunc(sorted, func(a, b Patch) int {
		return cmp.Or(
			cmp.Compare(a.Range.Start, b.Range.Start),
			cmp.Compare(a.Range.End, b.Range.End),
		)
	})

	for i := 1; i < len(sorted); i++ {
		prev, curr := sorted[i-1], sorted[i]
		if curr.Range.Start < prev.Range.End {
			return &ConflictError{First: prev, Second: curr}
		}
	}
	return nil
}
