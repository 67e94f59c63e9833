package layout

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ByLCY/folio/fonts"
	"github.com/ByLCY/folio/renderer"
	"github.com/ByLCY/folio/style"
)

// fixedMetrics 是测试用的度量提供者：每个字符宽度固定（mm），与字号无关，
// 行高恒为 ascent+descent。
type fixedMetrics struct {
	char    float64
	space   float64
	hyphen  float64
	ascent  float64
	descent float64
	n       int
}

func (p *fixedMetrics) Load([]byte) (fonts.Handle, error) {
	p.n++
	return fonts.Handle(p.n - 1), nil
}

func (p *fixedMetrics) Measure(_ fonts.Handle, text string, _ float64) (fonts.Measurement, error) {
	var w float64
	for _, r := range text {
		switch r {
		case ' ':
			w += p.space
		case '-':
			w += p.hyphen
		default:
			w += p.char
		}
	}
	return fonts.Measurement{Advance: w, VMetrics: fonts.VMetrics{Ascent: p.ascent, Descent: p.descent}}, nil
}

func (p *fixedMetrics) HasGlyph(fonts.Handle, rune) bool { return true }

// newFixedLibrary 返回行高 5mm 的字体库。
func newFixedLibrary(t *testing.T, char, space float64) *fonts.Library {
	t.Helper()
	lib := fonts.NewLibrary(&fixedMetrics{char: char, space: space, hyphen: char, ascent: 4, descent: 1})
	if _, err := lib.AddFamily("Fixed", []byte{1}, []byte{2}, nil, nil); err != nil {
		t.Fatalf("AddFamily: %v", err)
	}
	return lib
}

// countingHyphenator 记录调用次数并返回预设断点。
type countingHyphenator struct {
	breaks map[string][]int
	calls  int
}

func (h *countingHyphenator) Hyphenate(word, _ string) []int {
	h.calls++
	return h.breaks[word]
}

func words(prefix string, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return strings.Join(parts, " ")
}

func newTestContext(lib *fonts.Library) *renderContext {
	return newRenderContext(lib, nil, "", discardLogger())
}

func rootStyle() *style.Context { return style.NewContext(style.Style{}) }

func textsOf(ops []renderer.Op) []string {
	var out []string
	for _, op := range ops {
		if t, ok := op.(renderer.TextOp); ok {
			out = append(out, t.Text)
		}
	}
	return out
}

func pageTexts(rec *renderer.Recorder) [][]string {
	out := make([][]string, len(rec.Pages))
	for i, p := range rec.Pages {
		out[i] = textsOf(p.Ops)
	}
	return out
}

// depthRecorder 记录渲染时看到的样式深度。
type depthRecorder struct {
	seen *[]int
}

func (p *depthRecorder) Kind() string { return "depth-recorder" }

func (p *depthRecorder) render(_ *renderContext, _ *Area, ctx *style.Context, _ Continuation) (RenderResult, error) {
	*p.seen = append(*p.seen, ctx.Depth())
	return RenderResult{}, nil
}
