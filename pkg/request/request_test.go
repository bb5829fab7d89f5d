package request_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/textum/pkg/patch"
	"github.com/yaklabco/textum/pkg/request"
	"github.com/yaklabco/textum/pkg/snip"
)

func memSource(files map[string]string) patch.Option {
	return patch.WithSource(patch.SourceFunc(func(_ context.Context, path string) (string, error) {
		content, ok := files[path]
		if !ok {
			return "", patch.ErrFileNotFound
		}
		return content, nil
	}))
}

func TestParse_JSON(t *testing.T) {
	t.Parallel()

	descs, err := request.Parse([]byte(`[
		{"file": "hello.txt", "range": [6, 11], "replacement": "World"},
		{"file": "hello.txt", "range": [0, 0]}
	]`))
	require.NoError(t, err)
	require.Len(t, descs, 2)

	assert.Equal(t, "hello.txt", descs[0].File)
	assert.Equal(t, []int{6, 11}, descs[0].Range)
	require.NotNil(t, descs[0].Replacement)
	assert.Equal(t, "World", *descs[0].Replacement)
	assert.Nil(t, descs[1].Replacement)
}

func TestParse_SingleObject(t *testing.T) {
	t.Parallel()

	for _, input := range []string{
		`{"file": "a", "range": [0, 1]}`,
		"file: a\nrange: [0, 1]\n",
	} {
		descs, err := request.Parse([]byte(input))
		require.NoError(t, err, input)
		require.Len(t, descs, 1)
		assert.Equal(t, "a", descs[0].File)
	}
}

func TestParse_YAML(t *testing.T) {
	t.Parallel()

	descs, err := request.Parse([]byte(`
- file: greeting.txt
  snippet:
    between:
      start: {target: {literal: hello}, mode: include}
      end: {target: {literal: world}, mode: include}
  replacement: "-"
- file: notes.txt
  lines: {start: [1, 0], end: [1, 6]}
  replacement: EDITED
  symbol_path: [notes, second]
  max_line_drift: 2
`))
	require.NoError(t, err)
	require.Len(t, descs, 2)

	require.NotNil(t, descs[0].Snippet)
	require.NotNil(t, descs[0].Snippet.Between)
	require.NotNil(t, descs[1].Lines)
	assert.Equal(t, []int{1, 0}, descs[1].Lines.Start)
	assert.Equal(t, []string{"notes", "second"}, descs[1].SymbolPath)
	require.NotNil(t, descs[1].MaxLineDrift)
	assert.Equal(t, 2, *descs[1].MaxLineDrift)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		index int
	}{
		{name: "empty", input: "   ", index: -1},
		{name: "not a list", input: "not valid json", index: -1},
		{name: "bad json", input: `[{"file": }]`, index: -1},
		{name: "unknown json field", input: `[{"file": "a", "range": [0, 1]}, {"file": "a", "rnage": [0, 1]}]`, index: 1},
		{name: "unknown yaml field", input: "- file: a\n  range: [0, 1]\n  colour: red\n", index: 0},
		{name: "wrong yaml type", input: "- file: a\n- file: b\n  range: nope\n", index: 1},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := request.Parse([]byte(testCase.input))
			require.Error(t, err)

			var decodeErr *request.DecodeError
			require.ErrorAs(t, err, &decodeErr)
			assert.Equal(t, testCase.index, decodeErr.Index)
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		index int
		want  error
	}{
		{name: "missing file", input: `[{"range": [0, 1]}]`, want: request.ErrInvalidRequest},
		{name: "no locator", input: `[{"file": "a"}]`, want: request.ErrInvalidRequest},
		{
			name:  "two locators",
			input: `[{"file": "a", "range": [0, 1]}, {"file": "a", "range": [0, 1], "snippet": {"all": true}}]`,
			index: 1,
			want:  request.ErrInvalidRequest,
		},
		{name: "short range", input: `[{"file": "a", "range": [1]}]`, want: request.ErrInvalidRequest},
		{name: "negative range", input: `[{"file": "a", "range": [-1, 2]}]`, want: request.ErrInvalidRequest},
		{name: "bad lines", input: `[{"file": "a", "lines": {"start": [0, 0], "end": [1]}}]`, want: request.ErrInvalidRequest},
		{
			name:  "bad pattern",
			input: `[{"file": "a", "snippet": {"at": {"target": {"pattern": "("}}}}]`,
			want:  snip.ErrInvalidPattern,
		},
		{
			name:  "unknown mode",
			input: `[{"file": "a", "snippet": {"at": {"target": {"literal": "x"}, "mode": "around"}}}]`,
			want:  request.ErrInvalidRequest,
		},
		{
			name:  "extend without extent",
			input: `[{"file": "a", "snippet": {"at": {"target": {"literal": "x"}, "mode": "extend"}}}]`,
			want:  request.ErrInvalidRequest,
		},
		{
			name:  "extent without extend",
			input: `[{"file": "a", "snippet": {"at": {"target": {"literal": "x"}, "extent": {"lines": 1}}}}]`,
			want:  request.ErrInvalidRequest,
		},
		{
			name:  "two target variants",
			input: `[{"file": "a", "snippet": {"at": {"target": {"literal": "x", "line": 1}}}}]`,
			want:  request.ErrInvalidRequest,
		},
		{
			name:  "empty extent",
			input: `[{"file": "a", "snippet": {"from": {"target": {"line": 0}, "mode": "extend", "extent": {}}}}]`,
			want:  request.ErrInvalidRequest,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			descs, err := request.Parse([]byte(testCase.input))
			require.NoError(t, err)

			_, err = request.Build(descs)
			require.Error(t, err)
			assert.True(t, errors.Is(err, testCase.want), "got %v", err)

			var decodeErr *request.DecodeError
			require.ErrorAs(t, err, &decodeErr)
			assert.Equal(t, testCase.index, decodeErr.Index)
		})
	}
}

func TestBuild_AppliesEveryLocator(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"hello.txt":    "Hello Louis!",
		"greeting.txt": "hello world",
		"notes.txt":    "line 1\nline 2\nline 3",
		"list.txt":     "a\nb\nc\nd\n",
	}

	descs, err := request.Parse([]byte(`
- file: hello.txt
  range: [6, 11]
  replacement: World
- file: greeting.txt
  snippet:
    between:
      start: {target: {literal: hello}}
      end: {target: {literal: world}}
  replacement: "-"
- file: notes.txt
  lines: {start: [1, 0], end: [1, 6]}
  replacement: EDITED
- file: list.txt
  snippet:
    at:
      target: {char: 0}
      mode: extend
      extent: {matching: {count: 3, target: {literal: "\n"}}}
- file: notes.txt
  snippet:
    at: {target: {pattern: 'line \d$'}}
  replacement: last
`))
	require.NoError(t, err)

	set, err := request.Build(descs, memSource(files))
	require.NoError(t, err)
	assert.Equal(t, 5, set.Len())

	out, err := set.ApplyToFiles(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"hello.txt":    "Hello World!",
		"greeting.txt": "hello-world",
		"notes.txt":    "line 1\nEDITED\nlast",
		"list.txt":     "d\n",
	}, out)
}

func TestParseSnippet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		want    snip.Snippet
		wantErr bool
	}{
		{name: "all", text: "{all: true}", want: snip.All{}},
		{
			name: "at literal",
			text: "{at: {target: {literal: foo}, mode: exclude}}",
			want: snip.At{Boundary: snip.NewBoundary(snip.Literal("foo"), snip.Exclude{})},
		},
		{
			name: "from position extend",
			text: `{"from": {"target": {"position": {"line": 2, "col": 1}}, "mode": "extend", "extent": {"chars": 3}}}`,
			want: snip.From{Boundary: snip.NewBoundary(snip.Position{Line: 2, Col: 1}, snip.Extend{Extent: snip.Chars(3)})},
		},
		{
			name: "bytes extent",
			text: "{at: {target: {line: 0}, mode: extend, extent: {bytes: 4}}}",
			want: snip.At{Boundary: snip.NewBoundary(snip.Line(0), snip.Extend{Extent: snip.Bytes(4)})},
		},
		{name: "empty", text: "", wantErr: true},
		{name: "unknown key", text: "{around: {}}", wantErr: true},
		{name: "no variant", text: "{}", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := request.ParseSnippet(testCase.text)
			if testCase.wantErr {
				require.ErrorIs(t, err, request.ErrInvalidRequest)
				return
			}
			require.NoError(t, err)
			assert.True(t, testCase.want.Equal(got), "want %v, got %v", testCase.want, got)
		})
	}
}

func TestDecode_Reader(t *testing.T) {
	t.Parallel()

	descs, err := request.Decode(strings.NewReader(`[{"file": "a", "range": [0, 1], "replacement": "x"}]`))
	require.NoError(t, err)
	require.Len(t, descs, 1)
}

func TestEncode_RoundTrip(t *testing.T) {
	t.Parallel()

	original := []request.Description{
		request.FromPatch(patch.New("a.txt", 1, 3, "x")),
		request.FromPatch(patch.Deletion("b.txt", 0, 2)),
	}

	var buf bytes.Buffer
	require.NoError(t, request.Encode(&buf, original))

	decoded, err := request.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}
