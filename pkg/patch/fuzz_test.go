package patch_test

import (
	"slices"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/yaklabco/textum/pkg/patch"
	"github.com/yaklabco/textum/pkg/rope"
)

func FuzzApplyMatchesNaive(f *testing.F) {
	f.Add("hello world", uint8(0), uint8(5), uint8(6), uint8(11), "HELLO", "WORLD")
	f.Add("aé😊b", uint8(1), uint8(1), uint8(1), uint8(3), "x", "")
	f.Add("", uint8(0), uint8(0), uint8(0), uint8(0), "a", "b")
	f.Add("日本語\nテキスト", uint8(2), uint8(4), uint8(4), uint8(7), "", "\n")

	f.Fuzz(func(t *testing.T, text string, p0, p1, p2, p3 uint8, first, second string) {
		if !utf8.ValidString(text) || !utf8.ValidString(first) || !utf8.ValidString(second) {
			t.Skip()
		}

		runes := []rune(text)
		points := []int{int(p0), int(p1), int(p2), int(p3)}
		for i := range points {
			points[i] %= len(runes) + 1
		}
		slices.Sort(points)

		// The later range is registered first so equal starts still
		// produce first+second in document order.
		patches := []patch.Patch{
			patch.New("f", points[2], points[3], second),
			patch.New("f", points[0], points[1], first),
		}

		buf := rope.FromString(text)
		if err := patch.ApplyToBuffer(buf, patches); err != nil {
			t.Fatalf("apply %v to %q: %v", patches, text, err)
		}

		var want strings.Builder
		want.WriteString(string(runes[:points[0]]))
		want.WriteString(first)
		want.WriteString(string(runes[points[1]:points[2]]))
		want.WriteString(second)
		want.WriteString(string(runes[points[3]:]))

		if got := buf.String(); got != want.String() {
			t.Fatalf("apply %v to %q = %q, want %q", patches, text, got, want.String())
		}
	})
}
