package style

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/folio/fonts"
)

func TestMergeEffectsAreSticky(t *testing.T) {
	red := RGB(255, 0, 0)
	base := Style{Family: "Go", Size: 10, Bold: true}
	got := base.Merge(Style{Size: 14, Italic: true, Color: &red})
	want := Style{Family: "Go", Size: 14, Bold: true, Italic: true, Color: &red}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Merge mismatch (-want +got):\n%s", diff)
	}
	// 子样式无法关闭粗体
	if !got.Merge(Style{Bold: false}).Bold {
		t.Fatalf("bold should survive an unset child")
	}
}

func TestContextPushPop(t *testing.T) {
	root := NewContext(Style{})
	if root.Depth() != 0 || root.Style().Size != DefaultFontSize {
		t.Fatalf("unexpected root: depth=%d style=%+v", root.Depth(), root.Style())
	}
	child := root.Push(Style{Size: 20, Align: AlignJustify})
	grand := child.Push(Style{Bold: true})
	if grand.Depth() != 2 {
		t.Fatalf("depth = %d", grand.Depth())
	}
	if s := grand.Style(); s.Size != 20 || !s.Bold || s.Align != AlignJustify {
		t.Fatalf("grandchild style = %+v", s)
	}
	if grand.Pop() != child || child.Pop() != root || root.Pop() != root {
		t.Fatalf("Pop should walk back the chain")
	}
	if root.Style().Bold || root.Style().Size != DefaultFontSize {
		t.Fatalf("parent was mutated: %+v", root.Style())
	}
}

func TestColorSpaces(t *testing.T) {
	cases := []struct {
		name string
		c    Color
		want [3]uint32
	}{
		{"rgb", RGB(255, 0, 0), [3]uint32{0xffff, 0, 0}},
		{"gray", Gray(0), [3]uint32{0, 0, 0}},
		{"cmyk-white", CMYK(0, 0, 0, 0), [3]uint32{0xffff, 0xffff, 0xffff}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, g, b, a := tc.c.RGBA()
			if diff := cmp.Diff(tc.want, [3]uint32{r, g, b}); diff != "" || a != 0xffff {
				t.Fatalf("RGBA mismatch (-want +got):\n%s alpha=%x", diff, a)
			}
		})
	}
}

func TestParseColorAndAlignment(t *testing.T) {
	c, err := ParseColor("#0a0")
	if err != nil {
		t.Fatalf("ParseColor: %v", err)
	}
	if diff := cmp.Diff(RGB(0, 0xaa, 0), c); diff != "" {
		t.Fatalf("ParseColor (-want +got):\n%s", diff)
	}
	if _, err := ParseColor("#12"); err == nil {
		t.Fatalf("short color should fail")
	}
	a, err := ParseAlignment("Justify")
	if err != nil || a != AlignJustify {
		t.Fatalf("ParseAlignment = %v, %v", a, err)
	}
	if _, err := ParseAlignment("diagonal"); err == nil {
		t.Fatalf("unknown alignment should fail")
	}
}

func TestContextMeasuresWithLineSpacing(t *testing.T) {
	lib, err := fonts.NewDefaultLibrary()
	if err != nil {
		t.Fatal(err)
	}
	ctx := NewContext(Style{Size: 10})
	single, err := ctx.LineHeight(lib)
	if err != nil {
		t.Fatalf("LineHeight: %v", err)
	}
	double, err := ctx.Push(Style{LineSpacing: 2}).LineHeight(lib)
	if err != nil {
		t.Fatalf("LineHeight: %v", err)
	}
	if math.Abs(double-2*single) > 1e-9 {
		t.Fatalf("line spacing not applied: %g vs %g", single, double)
	}
	plain, _ := ctx.TextWidth(lib, "word")
	bold, _ := ctx.Push(Style{Bold: true}).TextWidth(lib, "word")
	if plain <= 0 || bold <= plain {
		t.Fatalf("bold should be wider: plain=%g bold=%g", plain, bold)
	}
}
