// Package snip resolves semantic text locations into character ranges.
//
// Resolution runs in four layers, each built on the one before:
//
//   - Target locates a single position: a Literal, a regular expression
//     Pattern, a 0-indexed Line or Char, or a 1-indexed Position.
//   - Extent measures a forward distance in Lines, Chars, Bytes or
//     Matching occurrences of a target.
//   - Boundary pairs a Target with a Mode (Exclude, Include or Extend) and
//     resolves to a Span.
//   - Snippet combines boundaries into a validated, non-empty range: At,
//     From, To, Between or All.
//
// All values in this package are immutable and resolution never modifies
// the buffer. Replace returns a new rope with the selected range replaced.
//
// Example:
//
//	buf := rope.FromString("hello world")
//	s := snip.Between{
//		Start: snip.NewBoundary(snip.Literal("hello"), snip.Include{}),
//		End:   snip.NewBoundary(snip.Literal("world"), snip.Include{}),
//	}
//	out, err := snip.Replace(s, buf, "-") // "hello-world"
package snip
