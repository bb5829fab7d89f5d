package rope_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/textum/pkg/rope"
)

func TestFromString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantChars int
		wantBytes int
		wantLines int
	}{
		{name: "empty", input: "", wantChars: 0, wantBytes: 0, wantLines: 1},
		{name: "ascii", input: "hello", wantChars: 5, wantBytes: 5, wantLines: 1},
		{name: "trailing newline", input: "a\nb\n", wantChars: 4, wantBytes: 4, wantLines: 3},
		{name: "multibyte", input: "aé😊", wantChars: 3, wantBytes: 7, wantLines: 1},
		{name: "crlf counts lf only", input: "a\r\nb", wantChars: 4, wantBytes: 4, wantLines: 2},
		{name: "invalid byte counts once", input: "a\xffb", wantChars: 3, wantBytes: 3, wantLines: 1},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			r := rope.FromString(testCase.input)
			assert.Equal(t, testCase.input, r.String())
			assert.Equal(t, testCase.wantChars, r.LenChars())
			assert.Equal(t, testCase.wantBytes, r.LenBytes())
			assert.Equal(t, testCase.wantLines, r.LenLines())
		})
	}
}

func TestFromString_LargeInputIsBalanced(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("line of text with ünïcödé\n", 4000)
	r := rope.FromString(text)

	assert.Equal(t, text, r.String())
	assert.Equal(t, 4001, r.LenLines())
	assert.Less(t, r.Height(), 20)
}

func TestFromReader(t *testing.T) {
	t.Parallel()

	r, err := rope.FromReader(strings.NewReader("from a reader"))
	require.NoError(t, err)
	assert.Equal(t, "from a reader", r.String())
}

func TestNew_ZeroValueIsUsable(t *testing.T) {
	t.Parallel()

	var r rope.Rope
	assert.Equal(t, 0, r.LenChars())
	assert.Equal(t, 1, r.LenLines())

	r.Insert(0, "x")
	assert.Equal(t, "x", r.String())
	assert.Empty(t, rope.New().String())
}

func TestInsert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		at    int
		text  string
		want  string
	}{
		{name: "start", input: "world", at: 0, text: "hello ", want: "hello world"},
		{name: "middle", input: "helloworld", at: 5, text: ", ", want: "hello, world"},
		{name: "end", input: "hello", at: 5, text: "!", want: "hello!"},
		{name: "after multibyte", input: "aé😊", at: 2, text: "-", want: "aé-😊"},
		{name: "clamped past end", input: "ab", at: 10, text: "c", want: "abc"},
		{name: "clamped negative", input: "ab", at: -3, text: "c", want: "cab"},
		{name: "empty text", input: "ab", at: 1, text: "", want: "ab"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			r := rope.FromString(testCase.input)
			r.Insert(testCase.at, testCase.text)
			assert.Equal(t, testCase.want, r.String())
			assert.Equal(t, len(testCase.want), r.LenBytes())
		})
	}
}

func TestInsert_InvalidBytesKeepTheirIndices(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		at        int
		text      string
		wantChars int
	}{
		{name: "lead byte then continuations", input: "\xe2", at: 1, text: "\x82\xac", wantChars: 3},
		{name: "continuations then lead byte", input: "\x82\xac", at: 0, text: "\xe2", wantChars: 3},
		{name: "split between", input: "\xe2\xac", at: 1, text: "\x82", wantChars: 3},
		{name: "valid text", input: "a", at: 1, text: "€", wantChars: 2},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			r := rope.FromString(testCase.input)
			before := r.CharToByte(testCase.at)
			r.Insert(testCase.at, testCase.text)

			assert.Equal(t, testCase.wantChars, r.LenChars())
			assert.Equal(t, before, r.CharToByte(testCase.at))
			assert.Equal(t, testCase.input[:before]+testCase.text+testCase.input[before:], r.String())
		})
	}
}

func TestRemove_InvalidBytesStayPerByte(t *testing.T) {
	t.Parallel()

	r := rope.FromString("\xe2X\x82\xac")
	require.Equal(t, 4, r.LenChars())

	r.Remove(1, 2)
	assert.Equal(t, "\xe2\x82\xac", r.String())
	assert.Equal(t, 3, r.LenChars())

	r.Remove(0, 1)
	assert.Equal(t, "\x82\xac", r.String())
	assert.Equal(t, 2, r.LenChars())
}

func TestRemove(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		start, end int
		want       string
	}{
		{name: "prefix", input: "hello world", start: 0, end: 6, want: "world"},
		{name: "suffix", input: "hello world", start: 5, end: 11, want: "hello"},
		{name: "multibyte", input: "aé😊b", start: 1, end: 3, want: "ab"},
		{name: "empty range", input: "abc", start: 1, end: 1, want: "abc"},
		{name: "inverted range", input: "abc", start: 2, end: 1, want: "abc"},
		{name: "clamped", input: "abc", start: 1, end: 100, want: "a"},
		{name: "everything", input: "abc", start: 0, end: 3, want: ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			r := rope.FromString(testCase.input)
			r.Remove(testCase.start, testCase.end)
			assert.Equal(t, testCase.want, r.String())
		})
	}
}

func TestClone_IsIndependent(t *testing.T) {
	t.Parallel()

	original := rope.FromString("shared text")
	clone := original.Clone()

	clone.Insert(0, ">> ")
	original.Remove(0, 7)

	assert.Equal(t, ">> shared text", clone.String())
	assert.Equal(t, "text", original.String())
}

func TestCharToByte(t *testing.T) {
	t.Parallel()

	r := rope.FromString("aé😊b")

	tests := []struct {
		char int
		want int
	}{
		{char: 0, want: 0},
		{char: 1, want: 1},
		{char: 2, want: 3},
		{char: 3, want: 7},
		{char: 4, want: 8},
		{char: 99, want: 8},
		{char: -1, want: 0},
	}

	for _, testCase := range tests {
		assert.Equal(t, testCase.want, r.CharToByte(testCase.char), "char %d", testCase.char)
	}
}

func TestByteToChar(t *testing.T) {
	t.Parallel()

	r := rope.FromString("aé😊b")

	tests := []struct {
		byteOffset int
		want       int
	}{
		{byteOffset: 0, want: 0},
		{byteOffset: 1, want: 1},
		{byteOffset: 2, want: 1},
		{byteOffset: 3, want: 2},
		{byteOffset: 5, want: 2},
		{byteOffset: 7, want: 3},
		{byteOffset: 8, want: 4},
		{byteOffset: 50, want: 4},
	}

	for _, testCase := range tests {
		assert.Equal(t, testCase.want, r.ByteToChar(testCase.byteOffset), "byte %d", testCase.byteOffset)
	}
}

func TestLineConversions(t *testing.T) {
	t.Parallel()

	r := rope.FromString("line 1\nline 2\n\nlast")

	assert.Equal(t, 4, r.LenLines())

	lineStarts := []int{0, 7, 14, 15}
	for line, want := range lineStarts {
		assert.Equal(t, want, r.LineToChar(line), "LineToChar(%d)", line)
		assert.Equal(t, line, r.CharToLine(want), "CharToLine(%d)", want)
	}

	assert.Equal(t, r.LenChars(), r.LineToChar(4))
	assert.Equal(t, 0, r.CharToLine(6))
	assert.Equal(t, 1, r.CharToLine(7))
	assert.Equal(t, 3, r.CharToLine(r.LenChars()))
}

func TestLineLen(t *testing.T) {
	t.Parallel()

	r := rope.FromString("ab\n\nçde\n")

	assert.Equal(t, 2, r.LineLen(0))
	assert.Equal(t, 0, r.LineLen(1))
	assert.Equal(t, 3, r.LineLen(2))
	assert.Equal(t, 0, r.LineLen(3))
	assert.Equal(t, 0, r.LineLen(4))
	assert.Equal(t, "çde", r.Line(2))
	assert.Empty(t, r.Line(-1))
}

func TestSlice(t *testing.T) {
	t.Parallel()

	r := rope.FromString("hello wörld")

	assert.Equal(t, "wörld", r.Slice(6, 11))
	assert.Equal(t, "ö", r.Slice(7, 8))
	assert.Empty(t, r.Slice(5, 5))
	assert.Empty(t, r.Slice(8, 2))
	assert.Equal(t, "hello wörld", r.Slice(-4, 400))
}

func TestWriteTo(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("chunked output ", 500)
	r := rope.FromString(text)

	var buf bytes.Buffer
	n, err := r.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(text)), n)
	assert.Equal(t, text, buf.String())
}

func TestCursor(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("ab€", 600)
	r := rope.FromString(text)

	cur := r.Cursor(1000)
	assert.Equal(t, 1000, cur.Pos())
	assert.Equal(t, r.CharToByte(1000), cur.BytePos())

	var sb strings.Builder
	for {
		ch, size, err := cur.ReadRune()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		assert.Equal(t, len(string(ch)), size)
		sb.WriteRune(ch)
	}

	assert.Equal(t, r.Slice(1000, r.LenChars()), sb.String())
	assert.Equal(t, r.LenChars(), cur.Pos())
	assert.Equal(t, r.LenBytes(), cur.BytePos())
}

func TestCursor_AtEnd(t *testing.T) {
	t.Parallel()

	r := rope.FromString("xyz")
	_, _, err := r.Cursor(3).ReadRune()
	assert.Equal(t, io.EOF, err)

	_, _, err = rope.New().Cursor(0).ReadRune()
	assert.Equal(t, io.EOF, err)
}

func TestManyEdits_MatchStringModel(t *testing.T) {
	t.Parallel()

	r := rope.New()
	model := []rune{}

	for i := range 3000 {
		at := (i * 7919) % (len(model) + 1)
		piece := []rune("xé\n😊")[:1+i%4]
		r.Insert(at, string(piece))
		model = append(model[:at], append(append([]rune{}, piece...), model[at:]...)...)

		if i%3 == 0 && len(model) > 2 {
			start := (i * 31) % len(model)
			end := min(start+1+i%5, len(model))
			r.Remove(start, end)
			model = append(model[:start], model[end:]...)
		}
	}

	require.Equal(t, string(model), r.String())
	assert.Equal(t, len(model), r.LenChars())
	assert.Equal(t, strings.Count(string(model), "\n")+1, r.LenLines())
	assert.Less(t, r.Height(), 40)
}
