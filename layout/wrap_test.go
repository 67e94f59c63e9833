package layout

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/folio/style"
)

func lineTexts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		parts := make([]string, len(l.Items))
		for j, it := range l.Items {
			parts[j] = it.Text
		}
		out[i] = strings.Join(parts, " ")
	}
	return out
}

// 两个 60 宽的词加 10 宽的空白放进 200 宽的行：一行，总宽 130，不调用断字。
func TestWrapTwoWordsOnOneLine(t *testing.T) {
	lib := newFixedLibrary(t, 12, 10)
	h := &countingHyphenator{}
	lines, err := WrapText(lib, h, "en", rootStyle(), "Hello World", 200)
	if err != nil {
		t.Fatalf("WrapText: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %v", len(lines), lineTexts(lines))
	}
	if math.Abs(lines[0].Width-130) > 1e-9 {
		t.Fatalf("line width = %g, want 130", lines[0].Width)
	}
	if !lines[0].Last {
		t.Fatalf("single line must be last")
	}
	if h.calls != 0 {
		t.Fatalf("hyphenator called %d times", h.calls)
	}
}

// 250 宽的词放进 200 宽的行，断点给出 80(+10 连字符) 与 170 两段。
func TestWrapHyphenatesOverlongWord(t *testing.T) {
	lib := newFixedLibrary(t, 10, 10)
	word := "abcdefghijklmnopqrstuvwxy"
	h := &countingHyphenator{breaks: map[string][]int{word: {8, 20}}}
	lines, err := WrapText(lib, h, "en", rootStyle(), word, 200)
	if err != nil {
		t.Fatalf("WrapText: %v", err)
	}
	if diff := cmp.Diff([]string{"abcdefgh-", "ijklmnopqrstuvwxy"}, lineTexts(lines)); diff != "" {
		t.Fatalf("lines (-want +got):\n%s", diff)
	}
	if lines[0].Width != 90 || !lines[0].Items[0].Hyphen || lines[0].Last {
		t.Fatalf("first line = %+v", lines[0])
	}
	if lines[1].Width != 170 || !lines[1].Last {
		t.Fatalf("second line = %+v", lines[1])
	}

	var rebuilt strings.Builder
	for _, l := range lines {
		for _, it := range l.Items {
			text := it.Text
			if it.Hyphen {
				text = strings.TrimSuffix(text, "-")
			}
			rebuilt.WriteString(text)
		}
	}
	if rebuilt.String() != word {
		t.Fatalf("fragments do not rebuild the word: %q", rebuilt.String())
	}
}

func TestWrapHyphenationAfterFilledLine(t *testing.T) {
	lib := newFixedLibrary(t, 10, 10)
	h := &countingHyphenator{breaks: map[string][]int{"lengthy": {5}}}
	// "ab" 加空白占 30，剩 45 放不下 "lengt-"(60)，整词移到下一行
	lines, err := WrapText(lib, h, "en", rootStyle(), "ab lengthy", 75)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"ab", "lengthy"}, lineTexts(lines)); diff != "" {
		t.Fatalf("lines (-want +got):\n%s", diff)
	}

	lines, err = WrapText(lib, h, "en", rootStyle(), "ab lengthy", 90)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"ab lengt-", "hy"}, lineTexts(lines)); diff != "" {
		t.Fatalf("lines (-want +got):\n%s", diff)
	}
}

func TestWrapCachesBreaksPerWord(t *testing.T) {
	lib := newFixedLibrary(t, 10, 10)
	h := &countingHyphenator{breaks: map[string][]int{"lengthy": {5}}}
	lines, err := WrapText(lib, h, "en", rootStyle(), "lengthy lengthy", 65)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"lengt-", "hy", "lengt-", "hy"}, lineTexts(lines)); diff != "" {
		t.Fatalf("lines (-want +got):\n%s", diff)
	}
	if h.calls != 1 {
		t.Fatalf("hyphenator calls = %d, want 1", h.calls)
	}
}

func TestWrapOverlongWordOverflows(t *testing.T) {
	lib := newFixedLibrary(t, 10, 10)
	lines, err := WrapText(lib, nil, "", rootStyle(), "tiny "+strings.Repeat("x", 30)+" end", 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %v", lineTexts(lines))
	}
	if !lines[1].Overflow || lines[1].Width != 300 || len(lines[1].Items) != 1 {
		t.Fatalf("middle line should overflow alone: %+v", lines[1])
	}
	if lines[0].Overflow || lines[2].Overflow {
		t.Fatalf("only the overlong word overflows")
	}
}

// 超宽词后紧跟强制换行时不应多出空行。
func TestWrapOverflowBeforeHardBreak(t *testing.T) {
	lib := newFixedLibrary(t, 10, 10)
	lines, err := WrapText(lib, nil, "", rootStyle(), "abcdefghijkl\nnext", 100)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"abcdefghijkl", "next"}, lineTexts(lines)); diff != "" {
		t.Fatalf("lines (-want +got):\n%s", diff)
	}
	if !lines[0].Overflow || !lines[0].Last {
		t.Fatalf("overlong line should overflow and end its paragraph: %+v", lines[0])
	}

	lines, err = WrapText(lib, nil, "", rootStyle(), "abcdefghijkl\n\nnext", 100)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"abcdefghijkl", "", "next"}, lineTexts(lines)); diff != "" {
		t.Fatalf("explicit blank line lost (-want +got):\n%s", diff)
	}
}

func TestWrapWidthBound(t *testing.T) {
	lib := newFixedLibrary(t, 2.5, 1.5)
	text := "the quick brown fox jumps over the lazy dog and keeps running through the field " +
		"until nightfall while counting stars in the sky"
	for _, width := range []float64{20, 33.3, 50, 75} {
		lines, err := WrapText(lib, nil, "", rootStyle(), text, width)
		if err != nil {
			t.Fatal(err)
		}
		var got []string
		for _, l := range lines {
			if l.Width > width+1e-9 && !l.Overflow {
				t.Fatalf("width %g: line %q is %g wide", width, lineTexts([]Line{l})[0], l.Width)
			}
			got = append(got, lineTexts([]Line{l})[0])
		}
		if strings.Join(got, " ") != text {
			t.Fatalf("width %g: words lost or reordered", width)
		}
		if !lines[len(lines)-1].Last {
			t.Fatalf("width %g: final line not tagged last", width)
		}
	}
}

func TestWrapHardBreaks(t *testing.T) {
	lib := newFixedLibrary(t, 10, 5)
	lines, err := WrapText(lib, nil, "", rootStyle(), "foo\n\nbar baz", 1000)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"foo", "", "bar baz"}, lineTexts(lines)); diff != "" {
		t.Fatalf("lines (-want +got):\n%s", diff)
	}
	for i, l := range lines {
		if !l.Last {
			t.Fatalf("line %d should be last of its paragraph", i)
		}
	}
	if lines[1].metrics.height != 5 {
		t.Fatalf("empty line should keep the base line height, got %g", lines[1].metrics.height)
	}
}

func TestJustifyDistributesLeftover(t *testing.T) {
	lib := newFixedLibrary(t, 3, 2)
	text := "a bb ccc dddd eeeee ffffff a bb ccc dddd eeeee ffffff a bb ccc"
	const width = 40.0
	lines, err := WrapText(lib, nil, "", rootStyle(), text, width)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) < 3 {
		t.Fatalf("expected several lines, got %d", len(lines))
	}
	for i, l := range lines {
		gaps := lineGaps(l, width, style.AlignJustify)
		var sumGaps, sumWords float64
		for j, it := range l.Items {
			sumGaps += gaps[j]
			sumWords += it.Width
		}
		if l.Last {
			if math.Abs(sumGaps-(l.Width-sumWords)) > 1e-9 {
				t.Fatalf("last line %d must keep natural spacing", i)
			}
			continue
		}
		if math.Abs(sumGaps-(width-sumWords)) > 1e-9 {
			t.Fatalf("line %d: gaps %g, want %g", i, sumGaps, width-sumWords)
		}
		xs := arrange(l, width, style.AlignJustify)
		last := len(l.Items) - 1
		if math.Abs(xs[last]+l.Items[last].Width-width) > 1e-9 {
			t.Fatalf("line %d does not reach the right edge", i)
		}
	}
}

func TestArrangeAlignments(t *testing.T) {
	lib := newFixedLibrary(t, 10, 10)
	lines, err := WrapText(lib, nil, "", rootStyle(), "ab cd", 100)
	if err != nil {
		t.Fatal(err)
	}
	l := lines[0] // 宽 50
	cases := []struct {
		align style.Alignment
		want  []float64
	}{
		{style.AlignLeft, []float64{0, 30}},
		{style.AlignRight, []float64{50, 80}},
		{style.AlignCenter, []float64{25, 55}},
		{style.AlignJustify, []float64{0, 30}}, // 最后一行保持左对齐
	}
	for _, tc := range cases {
		t.Run(tc.align.String(), func(t *testing.T) {
			if diff := cmp.Diff(tc.want, arrange(l, 100, tc.align)); diff != "" {
				t.Fatalf("positions (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizeMixedRuns(t *testing.T) {
	lib := newFixedLibrary(t, 10, 5)
	ctx := rootStyle()
	f, err := tokenize(lib, ctx, []*Text{
		NewText("He", style.Style{}),
		NewText("llo  world", style.Style{Bold: true}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(f.tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(f.tokens))
	}
	hello := f.tokens[0]
	if hello.text() != "Hello" || len(hello.segs) != 2 || hello.width != 50 {
		t.Fatalf("word spanning runs = %+v", hello)
	}
	if hello.segs[0].face == hello.segs[1].face {
		t.Fatalf("bold run should use another face")
	}
	if f.tokens[1].space != 5 {
		t.Fatalf("consecutive spaces collapse to one, got %g", f.tokens[1].space)
	}
}
