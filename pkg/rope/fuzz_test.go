package rope_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/yaklabco/textum/pkg/rope"
)

func FuzzRopeConversions(f *testing.F) {
	f.Add("", 0, 0)
	f.Add("hello world", 3, 8)
	f.Add("aé😊\nb", 1, 4)
	f.Add("line 1\nline 2\nline 3", 7, 13)
	f.Add(strings.Repeat("ß\n", 700), 100, 900)

	f.Fuzz(func(t *testing.T, text string, a, b int) {
		if !utf8.ValidString(text) {
			return
		}

		r := rope.FromString(text)
		runes := []rune(text)

		if r.String() != text {
			t.Fatalf("String() = %q, want %q", r.String(), text)
		}
		if r.LenChars() != len(runes) {
			t.Fatalf("LenChars() = %d, want %d", r.LenChars(), len(runes))
		}

		// Every character index round-trips through its byte offset.
		for c := 0; c <= len(runes); c++ {
			byteOffset := r.CharToByte(c)
			if byteOffset != len(string(runes[:c])) {
				t.Fatalf("CharToByte(%d) = %d, want %d", c, byteOffset, len(string(runes[:c])))
			}
			if got := r.ByteToChar(byteOffset); got != c {
				t.Fatalf("ByteToChar(CharToByte(%d)) = %d", c, got)
			}
		}

		// ByteToChar never lands inside a character.
		for byteOffset := 0; byteOffset <= len(text); byteOffset++ {
			c := r.ByteToChar(byteOffset)
			if start := r.CharToByte(c); start > byteOffset {
				t.Fatalf("ByteToChar(%d) = %d starting at byte %d", byteOffset, c, start)
			}
		}

		// Splice edits match the string model.
		n := len(runes)
		start, end := clampPair(a, b, n)
		r.Remove(start, end)
		r.Insert(start, "✓")
		want := string(runes[:start]) + "✓" + string(runes[end:])
		if r.String() != want {
			t.Fatalf("after splice = %q, want %q", r.String(), want)
		}
		if r.LenLines() != strings.Count(want, "\n")+1 {
			t.Fatalf("LenLines() = %d, want %d", r.LenLines(), strings.Count(want, "\n")+1)
		}
	})
}

func clampPair(a, b, n int) (int, int) {
	if n == 0 {
		return 0, 0
	}
	a = abs(a) % (n + 1)
	b = abs(b) % (n + 1)
	if a > b {
		a, b = b, a
	}
	return a, b
}

func abs(v int) int {
	if v < 0 {
		if v == -v { // math.MinInt
			return 0
		}
		return -v
	}
	return v
}

// FuzzRopeInvalidUTF8 checks that each invalid byte stays a character of its
// own across edits. The model decodes every inserted piece on its own, the
// way the rope sees it.
func FuzzRopeInvalidUTF8(f *testing.F) {
	f.Add("\xe2", "\x82\xac", 1, 0, 0)
	f.Add("\xe2X\x82\xac", "", 0, 1, 2)
	f.Add("a\xff\nb", "\xc3", 2, 0, 1)
	f.Add(strings.Repeat("\x80", 1500), "\xf0\x9f", 700, 3, 1200)

	f.Fuzz(func(t *testing.T, text, insert string, at, a, b int) {
		r := rope.FromString(text)
		model := decodePieces(text)

		at = clampIndex(at, len(model))
		r.Insert(at, insert)
		model = append(model[:at:at], append(decodePieces(insert), model[at:]...)...)
		checkModel(t, r, model)

		start, end := clampPair(a, b, len(model))
		r.Remove(start, end)
		model = append(model[:start:start], model[end:]...)
		checkModel(t, r, model)
	})
}

func decodePieces(s string) []string {
	var pieces []string
	for len(s) > 0 {
		_, size := utf8.DecodeRuneInString(s)
		pieces = append(pieces, s[:size])
		s = s[size:]
	}
	return pieces
}

func checkModel(t *testing.T, r *rope.Rope, model []string) {
	t.Helper()

	want := strings.Join(model, "")
	if r.String() != want {
		t.Fatalf("String() = %q, want %q", r.String(), want)
	}
	if r.LenChars() != len(model) {
		t.Fatalf("LenChars() = %d, want %d", r.LenChars(), len(model))
	}

	offset := 0
	for c, piece := range model {
		if got := r.CharToByte(c); got != offset {
			t.Fatalf("CharToByte(%d) = %d, want %d", c, got, offset)
		}
		offset += len(piece)
	}
}

func clampIndex(v, n int) int {
	return abs(v) % (n + 1)
}
