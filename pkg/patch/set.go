package patch

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/textum/pkg/fsutil"
	"github.com/yaklabco/textum/pkg/rope"
)

// Locator resolves a character range against the original content of a
// file. Every snip.Snippet is a Locator.
type Locator interface {
	Locate(buf *rope.Rope) (start, end int, err error)
}

// LinePositions locates a range by 0-indexed line/column pairs.
type LinePositions struct {
	LineStart int
	ColStart  int
	LineEnd   int
	ColEnd    int
}

// Locate implements Locator.
func (lp LinePositions) Locate(buf *rope.Rope) (int, int, error) {
	start, err := lineColToChar(buf, lp.LineStart, lp.ColStart)
	if err != nil {
		return 0, 0, err
	}
	end, err := lineColToChar(buf, lp.LineEnd, lp.ColEnd)
	if err != nil {
		return 0, 0, err
	}
	if start > end {
		return 0, 0, &RangeError{Range: Range{Start: start, End: end}, Len: buf.LenChars()}
	}
	return start, end, nil
}

// Source reads the current content of a file.
type Source interface {
	ReadFile(ctx context.Context, path string) (string, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, path string) (string, error)

// ReadFile implements Source.
func (f SourceFunc) ReadFile(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// FileSource reads files from disk. The path fsutil.StdinMarker reads
// standard input.
type FileSource struct{}

// ReadFile implements Source.
func (FileSource) ReadFile(ctx context.Context, path string) (string, error) {
	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, fsutil.ErrNotFound) {
			return "", fmt.Errorf("%w: %w", ErrFileNotFound, err)
		}
		return "", err
	}
	return string(content), nil
}

// entry is a registered patch. When loc is set the patch range is filled in
// from the file content at apply time.
type entry struct {
	patch Patch
	loc   Locator
}

// Set collects patches across files and applies them per file.
type Set struct {
	entries []entry
	source  Source
	jobs    int
}

// Option configures a Set.
type Option func(*Set)

// WithSource sets where file content is read from. The default reads from
// disk through fsutil.
func WithSource(src Source) Option {
	return func(s *Set) {
		s.source = src
	}
}

// WithJobs bounds the number of files processed concurrently. Zero or less
// means no limit.
func WithJobs(n int) Option {
	return func(s *Set) {
		s.jobs = n
	}
}

// NewSet returns an empty Set.
func NewSet(opts ...Option) *Set {
	s := &Set{source: FileSource{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers a patch with an explicit range.
func (s *Set) Add(p Patch) {
	s.entries = append(s.entries, entry{patch: p})
}

// AddLocated registers a patch whose range is found by loc in the original
// content of tmpl.File. The other fields of tmpl are kept.
func (s *Set) AddLocated(tmpl Patch, loc Locator) {
	s.entries = append(s.entries, entry{patch: tmpl, loc: loc})
}

// Len returns the number of registered patches.
func (s *Set) Len() int {
	return len(s.entries)
}

// Files returns the distinct files referenced by the set, in order of first
// registration.
func (s *Set) Files() []string {
	return lo.Uniq(lo.Map(s.entries, func(e entry, _ int) string {
		return e.patch.File
	}))
}

// ResolveFile returns the patches registered for file, in registration
// order, with located ranges resolved against buf.
func (s *Set) ResolveFile(file string, buf *rope.Rope) ([]Patch, error) {
	group := lo.GroupBy(s.entries, func(e entry) string {
		return e.patch.File
	})[file]

	patches := make([]Patch, 0, len(group))
	for idx, e := range group {
		p := e.patch
		if e.loc != nil {
			start, end, err := e.loc.Locate(buf)
			if err != nil {
				return nil, &PatchError{File: file, Index: idx, Patch: p, Err: err}
			}
			p.Range = Range{Start: start, End: end}
		}
		patches = append(patches, p)
	}
	return patches, nil
}

// ApplyToBuffer applies patches to buf in descending start order. Each patch
// is checked against the buffer as the patches before it left it, so a
// patch may reach into text inserted by one further right. buf is only
// replaced once every patch has applied.
func ApplyToBuffer(buf *rope.Rope, patches []Patch) error {
	sorted := slices.Clone(patches)
	SortDescending(sorted)

	work := buf.Clone()
	for _, p := range sorted {
		if err := p.Apply(work); err != nil {
			return err
		}
	}
	*buf = *work
	return nil
}

// ApplyToFiles reads every referenced file once, applies its patches, and
// returns the new content keyed by file. Files are processed concurrently.
// Nothing is written back.
//
// On any failure the map is nil and the first error is returned.
func (s *Set) ApplyToFiles(ctx context.Context) (map[string]string, error) {
	files := s.Files()
	results := make([]string, len(files))

	group, ctx := errgroup.WithContext(ctx)
	if s.jobs > 0 {
		group.SetLimit(s.jobs)
	}

	for idx, file := range files {
		group.Go(func() error {
			content, err := s.source.ReadFile(ctx, file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}

			out, err := s.ApplyToContent(file, content)
			if err != nil {
				return err
			}
			results[idx] = out
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return lo.SliceToMap(lo.Range(len(files)), func(idx int) (string, string) {
		return files[idx], results[idx]
	}), nil
}

// ApplyToContent applies the patches registered for file to content.
func (s *Set) ApplyToContent(file, content string) (string, error) {
	buf := rope.FromString(content)
	patches, err := s.ResolveFile(file, buf)
	if err != nil {
		return "", err
	}
	if err := ApplyToBuffer(buf, patches); err != nil {
		return "", fmt.Errorf("%s: %w", file, err)
	}
	return buf.String(), nil
}
