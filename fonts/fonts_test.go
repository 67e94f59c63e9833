package fonts

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font/gofont/goregular"
)

func TestLoadRejectsGarbage(t *testing.T) {
	p := NewSFNTProvider()
	_, err := p.Load([]byte("definitely not a font"))
	if !errors.Is(err, ErrInvalidFontData) {
		t.Fatalf("expected ErrInvalidFontData, got %v", err)
	}
}

func TestMeasureBuiltin(t *testing.T) {
	lib, err := NewDefaultLibrary()
	if err != nil {
		t.Fatalf("NewDefaultLibrary: %v", err)
	}
	face, err := lib.Face("", false, false)
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	a, err := lib.TextWidth(face, "a", 12)
	if err != nil {
		t.Fatalf("TextWidth: %v", err)
	}
	ab, err := lib.TextWidth(face, "ab", 12)
	if err != nil {
		t.Fatalf("TextWidth: %v", err)
	}
	if a <= 0 || ab <= a {
		t.Fatalf("widths not monotonic: a=%g ab=%g", a, ab)
	}
	big, _ := lib.TextWidth(face, "a", 24)
	if math.Abs(big-2*a) > 0.02 {
		t.Fatalf("width should scale with size: 12pt=%g 24pt=%g", a, big)
	}

	m, err := lib.Metrics(face, 12)
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if m.Ascent <= 0 || m.Descent <= 0 || m.LineHeight() < m.GlyphHeight() {
		t.Fatalf("implausible metrics: %+v", m)
	}
}

func TestCacheHits(t *testing.T) {
	lib, err := NewDefaultLibrary()
	if err != nil {
		t.Fatalf("NewDefaultLibrary: %v", err)
	}
	face, _ := lib.Face(BuiltinFamily, true, false)
	for i := 0; i < 5; i++ {
		if _, err := lib.TextWidth(face, "repeat", 10); err != nil {
			t.Fatalf("TextWidth: %v", err)
		}
	}
	st := lib.CacheStats()
	if st.Misses != 1 || st.Hits != 4 {
		t.Fatalf("unexpected cache stats: %+v", st)
	}
}

func TestAddFamilyDeduplicatesData(t *testing.T) {
	lib := NewLibrary(NewSFNTProvider())
	fam, err := lib.AddFamily("Plain", goregular.TTF, nil, nil, nil)
	if err != nil {
		t.Fatalf("AddFamily: %v", err)
	}
	for v := Regular; v <= BoldItalic; v++ {
		if fam.Handle(v) != fam.Handle(Regular) {
			t.Fatalf("variant %s should reuse the regular handle", v)
		}
	}
	again, err := lib.AddFamily("Alias", goregular.TTF, nil, nil, nil)
	if err != nil {
		t.Fatalf("AddFamily: %v", err)
	}
	if again.Handle(Regular) != fam.Handle(Regular) {
		t.Fatalf("identical data across families should be loaded once")
	}
	if lib.Default() != "Plain" {
		t.Fatalf("first family should be default, got %q", lib.Default())
	}
	if _, err := lib.Face("Missing", false, false); !errors.Is(err, ErrUnknownFamily) {
		t.Fatalf("expected ErrUnknownFamily, got %v", err)
	}
}

func TestCoverage(t *testing.T) {
	lib, _ := NewDefaultLibrary()
	face, _ := lib.Face("", false, false)
	cov := lib.Coverage(face, "abc漢")
	if cov.Total != 4 || cov.Covered != 3 {
		t.Fatalf("unexpected coverage: %+v", cov)
	}
	if diff := cmp.Diff([]rune{'漢'}, cov.Missing); diff != "" {
		t.Fatalf("missing runes (-want +got):\n%s", diff)
	}
	if cov.Complete() || cov.Percent() != 75 {
		t.Fatalf("coverage percent = %g", cov.Percent())
	}
}

// latinOnly knows glyphs for ASCII on handle 0 and for everything on handle 1.
type latinOnly struct{ n int }

func (p *latinOnly) Load([]byte) (Handle, error) {
	p.n++
	return Handle(p.n - 1), nil
}

func (p *latinOnly) Measure(Handle, string, float64) (Measurement, error) {
	return Measurement{}, nil
}

func (p *latinOnly) HasGlyph(h Handle, r rune) bool { return h == 1 || r < 128 }

func TestSegmentFallback(t *testing.T) {
	lib := NewLibrary(&latinOnly{})
	if _, err := lib.AddFamily("Latin", []byte{1}, nil, nil, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := lib.AddFamily("CJK", []byte{2}, nil, nil, nil); err != nil {
		t.Fatal(err)
	}
	if err := lib.SetFallback("Latin", "CJK"); err != nil {
		t.Fatal(err)
	}
	latin, _ := lib.Face("Latin", false, false)
	cjk, _ := lib.Face("CJK", false, false)

	got := lib.Segment(latin, "ab 漢字 cd")
	want := []Run{
		{Text: "ab ", Face: latin},
		{Text: "漢字 ", Face: cjk},
		{Text: "cd", Face: latin},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Segment mismatch (-want +got):\n%s", diff)
	}
	if err := lib.SetFallback("Latin", "Nope"); !errors.Is(err, ErrUnknownFamily) {
		t.Fatalf("expected ErrUnknownFamily, got %v", err)
	}
}

func TestLoadBuiltinByName(t *testing.T) {
	if _, err := Load("embed:bold"); err != nil {
		t.Fatalf("Load embed:bold: %v", err)
	}
	if _, err := Load("embed:comic-sans"); err == nil {
		t.Fatalf("unknown builtin should fail")
	}
}
