package patch_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/textum/pkg/patch"
	"github.com/yaklabco/textum/pkg/rope"
	"github.com/yaklabco/textum/pkg/snip"
)

// memSource serves file content from memory and counts reads per path.
type memSource struct {
	mu    sync.Mutex
	files map[string]string
	reads map[string]int
}

func newMemSource(files map[string]string) *memSource {
	return &memSource{files: files, reads: map[string]int{}}
}

func (m *memSource) ReadFile(_ context.Context, path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reads[path]++
	content, ok := m.files[path]
	if !ok {
		return "", fmt.Errorf("%w: %s", patch.ErrFileNotFound, path)
	}
	return content, nil
}

func TestApplyToBuffer_OrderIndependent(t *testing.T) {
	t.Parallel()

	first := patch.New("f", 0, 1, "X")
	second := patch.New("f", 5, 6, "Y")

	for _, order := range [][]patch.Patch{{first, second}, {second, first}} {
		buf := rope.FromString("abcdefghij")
		require.NoError(t, patch.ApplyToBuffer(buf, order))
		assert.Equal(t, "XbcdeYghij", buf.String())
	}
}

func TestApplyToBuffer_GrowingAndShrinkingEdits(t *testing.T) {
	t.Parallel()

	buf := rope.FromString("one two three")
	patches := []patch.Patch{
		patch.New("f", 0, 3, "1111111"),
		patch.Deletion("f", 3, 8),
		patch.Insertion("f", 13, "!"),
	}

	require.NoError(t, patch.ApplyToBuffer(buf, patches))
	assert.Equal(t, "1111111three!", buf.String())
}

func TestApplyToBuffer_EqualStartsKeepRegistrationOrder(t *testing.T) {
	t.Parallel()

	buf := rope.FromString("ab")
	patches := []patch.Patch{
		patch.Insertion("f", 1, "1"),
		patch.Insertion("f", 1, "2"),
	}

	require.NoError(t, patch.ApplyToBuffer(buf, patches))
	// The second insertion runs last and lands in front of the first.
	assert.Equal(t, "a21b", buf.String())
}

func TestApplyToBuffer_FailureLeavesBufferUntouched(t *testing.T) {
	t.Parallel()

	buf := rope.FromString("short")
	patches := []patch.Patch{
		patch.New("f", 0, 1, "S"),
		patch.New("f", 3, 40, "x"),
	}

	err := patch.ApplyToBuffer(buf, patches)
	require.ErrorIs(t, err, patch.ErrRangeOutOfBounds)
	assert.Equal(t, "short", buf.String())
}

func TestApplyToBuffer_StacksOnEarlierEdits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		patches []patch.Patch
		want    string
	}{
		{
			name:    "reaches into inserted text",
			content: "abc",
			patches: []patch.Patch{
				patch.Insertion("f", 3, "XYZ"),
				patch.New("f", 2, 5, "Q"),
			},
			want: "abQZ",
		},
		{
			name:    "replaces part of a longer replacement",
			content: "0123456789",
			patches: []patch.Patch{
				patch.New("f", 5, 6, "abcdef"),
				patch.Deletion("f", 3, 8),
			},
			want: "012def6789",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			buf := rope.FromString(testCase.content)
			require.NoError(t, patch.ApplyToBuffer(buf, testCase.patches))
			assert.Equal(t, testCase.want, buf.String())
		})
	}
}

func TestApplyToBuffer_InvalidUTF8StaysPerByte(t *testing.T) {
	t.Parallel()

	buf := rope.FromString("\xe2X\x82\xac")
	require.Equal(t, 4, buf.LenChars())

	patches := []patch.Patch{
		patch.Deletion("f", 0, 1),
		patch.Deletion("f", 1, 2),
	}
	require.NoError(t, patch.ApplyToBuffer(buf, patches))
	assert.Equal(t, "\x82\xac", buf.String())
}

func TestSet_ApplyToFiles(t *testing.T) {
	t.Parallel()

	src := newMemSource(map[string]string{
		"a.txt": "abcdefghij",
		"b.txt": "hello world",
	})

	set := patch.NewSet(patch.WithSource(src), patch.WithJobs(2))
	set.Add(patch.New("a.txt", 5, 6, "Y"))
	set.Add(patch.New("b.txt", 0, 5, "goodbye"))
	set.Add(patch.New("a.txt", 0, 1, "X"))

	assert.Equal(t, 3, set.Len())
	assert.Equal(t, []string{"a.txt", "b.txt"}, set.Files())

	got, err := set.ApplyToFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"a.txt": "XbcdeYghij",
		"b.txt": "goodbye world",
	}, got)
	assert.Equal(t, map[string]int{"a.txt": 1, "b.txt": 1}, src.reads)
}

func TestSet_AddLocated(t *testing.T) {
	t.Parallel()

	src := newMemSource(map[string]string{
		"a.txt": "line 1\nline 2\nline 3",
	})

	set := patch.NewSet(patch.WithSource(src))
	set.AddLocated(
		patch.Patch{File: "a.txt", Replacement: patch.Text("EDITED"), SymbolPath: []string{"x"}},
		patch.LinePositions{LineStart: 1, ColStart: 0, LineEnd: 1, ColEnd: 6},
	)
	set.AddLocated(
		patch.Patch{File: "a.txt", Replacement: patch.Text("-")},
		snip.Between{
			Start: snip.NewBoundary(snip.Literal("line"), snip.Include{}),
			End:   snip.NewBoundary(snip.Literal("1"), snip.Include{}),
		},
	)
	set.Add(patch.Insertion("a.txt", 20, "!"))

	got, err := set.ApplyToFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "line-1\nEDITED\nline 3!", got["a.txt"])
}

func TestSet_ResolveFile(t *testing.T) {
	t.Parallel()

	set := patch.NewSet()
	set.Add(patch.New("a", 0, 1, "x"))
	set.Add(patch.New("b", 0, 1, "y"))
	set.AddLocated(patch.Patch{File: "a"}, snip.All{})

	patches, err := set.ResolveFile("a", rope.FromString("abc"))
	require.NoError(t, err)
	require.Len(t, patches, 2)
	assert.Equal(t, patch.Range{Start: 0, End: 1}, patches[0].Range)
	assert.Equal(t, patch.Range{Start: 0, End: 3}, patches[1].Range)

	patches, err = set.ResolveFile("missing", rope.New())
	require.NoError(t, err)
	assert.Empty(t, patches)
}

func TestSet_ApplyToFiles_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		set := patch.NewSet(patch.WithSource(newMemSource(map[string]string{"a": "abc"})))
		set.Add(patch.New("a", 0, 1, "x"))
		set.Add(patch.New("nope", 0, 0, "x"))

		got, err := set.ApplyToFiles(context.Background())
		require.ErrorIs(t, err, patch.ErrFileNotFound)
		assert.Nil(t, got)
	})

	t.Run("out of bounds patch", func(t *testing.T) {
		t.Parallel()

		set := patch.NewSet(patch.WithSource(newMemSource(map[string]string{"a": "abc"})))
		set.Add(patch.New("a", 2, 9, "x"))

		got, err := set.ApplyToFiles(context.Background())
		require.ErrorIs(t, err, patch.ErrRangeOutOfBounds)
		assert.Nil(t, got)
	})

	t.Run("locator failure names the patch", func(t *testing.T) {
		t.Parallel()

		set := patch.NewSet(patch.WithSource(newMemSource(map[string]string{"a": "abc"})))
		set.Add(patch.New("a", 0, 1, "x"))
		set.AddLocated(patch.Patch{File: "a"}, snip.At{
			Boundary: snip.NewBoundary(snip.Literal("zzz"), snip.Include{}),
		})

		_, err := set.ApplyToFiles(context.Background())
		require.ErrorIs(t, err, snip.ErrNotFound)

		var patchErr *patch.PatchError
		require.ErrorAs(t, err, &patchErr)
		assert.Equal(t, "a", patchErr.File)
		assert.Equal(t, 1, patchErr.Index)
	})

	t.Run("inverted line positions", func(t *testing.T) {
		t.Parallel()

		set := patch.NewSet(patch.WithSource(newMemSource(map[string]string{"a": "a\nb"})))
		set.AddLocated(patch.Patch{File: "a"}, patch.LinePositions{LineStart: 1, LineEnd: 0})

		_, err := set.ApplyToFiles(context.Background())
		require.ErrorIs(t, err, patch.ErrRangeOutOfBounds)
	})
}

func TestSet_FileSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("alpha beta"), 0o644))

	set := patch.NewSet()
	set.Add(patch.New(path, 0, 5, "gamma"))

	got, err := set.ApplyToFiles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "gamma beta", got[path])

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "alpha beta", string(content), "ApplyToFiles must not write")

	missing := patch.NewSet()
	missing.Add(patch.New(filepath.Join(dir, "absent.txt"), 0, 0, "x"))
	_, err = missing.ApplyToFiles(context.Background())
	require.ErrorIs(t, err, patch.ErrFileNotFound)
}

func TestSet_SourceFunc(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	set := patch.NewSet(patch.WithSource(patch.SourceFunc(func(context.Context, string) (string, error) {
		return "", boom
	})))
	set.Add(patch.New("a", 0, 0, "x"))

	_, err := set.ApplyToFiles(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		patches  []patch.Patch
		conflict bool
	}{
		{name: "disjoint", patches: []patch.Patch{patch.New("f", 0, 2, ""), patch.New("f", 4, 6, "")}},
		{name: "adjacent", patches: []patch.Patch{patch.New("f", 0, 2, ""), patch.New("f", 2, 4, "")}},
		{name: "insert at edge", patches: []patch.Patch{patch.New("f", 0, 2, ""), patch.Insertion("f", 2, "x")}},
		{name: "same insertion point", patches: []patch.Patch{patch.Insertion("f", 2, "a"), patch.Insertion("f", 2, "b")}},
		{name: "overlap", patches: []patch.Patch{patch.New("f", 3, 8, ""), patch.New("f", 0, 4, "")}, conflict: true},
		{name: "insert inside", patches: []patch.Patch{patch.New("f", 0, 5, ""), patch.Insertion("f", 2, "x")}, conflict: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			err := patch.Overlaps(testCase.patches)
			if !testCase.conflict {
				assert.NoError(t, err)
				return
			}
			var conflict *patch.ConflictError
			require.ErrorAs(t, err, &conflict)
		})
	}
}

func TestSortDescending_IsStable(t *testing.T) {
	t.Parallel()

	patches := []patch.Patch{
		patch.Insertion("f", 1, "a"),
		patch.Insertion("f", 5, "b"),
		patch.Insertion("f", 1, "c"),
		patch.Insertion("f", 3, "d"),
	}
	patch.SortDescending(patches)

	got := make([]string, 0, len(patches))
	for _, p := range patches {
		got = append(got, p.ReplacementText())
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, got)
}
