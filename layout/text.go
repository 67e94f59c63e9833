package layout

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ByLCY/folio/fonts"
	"github.com/ByLCY/folio/renderer"
	"github.com/ByLCY/folio/style"
)

// Text 是一段使用同一样式增量的字符串。单独使用时按一个段落排版。
// 字符串中的 '\n' 为强制换行。
type Text struct {
	Content string
	Style   style.Style
	// Link 非空时文字所在区域成为指向该 URI 的链接。
	Link string
}

// NewText 创建文本元素。
func NewText(content string, st style.Style) *Text {
	return &Text{Content: content, Style: st}
}

func (t *Text) Kind() string { return "text" }

func (t *Text) render(rc *renderContext, area *Area, ctx *style.Context, cont Continuation) (RenderResult, error) {
	return renderFlow(rc, area, ctx.Push(t.Style), t, []*Text{t}, cont)
}

// Paragraph 是有序的文本片段序列，共享对齐方式等段落级样式。
type Paragraph struct {
	Runs  []*Text
	Style style.Style
}

// NewParagraph 创建段落，runs 可以为空。
func NewParagraph(st style.Style, runs ...*Text) *Paragraph {
	return &Paragraph{Runs: runs, Style: st}
}

// Push 追加一个片段。
func (p *Paragraph) Push(content string, st style.Style) *Paragraph {
	p.Runs = append(p.Runs, NewText(content, st))
	return p
}

func (p *Paragraph) Kind() string { return "paragraph" }

func (p *Paragraph) render(rc *renderContext, area *Area, ctx *style.Context, cont Continuation) (RenderResult, error) {
	return renderFlow(rc, area, ctx.Push(p.Style), p, p.Runs, cont)
}

// segment 是词内使用同一字形、字号与颜色的一段文字。
type segment struct {
	text  string
	face  fonts.Face
	size  float64
	color style.Color
	st    style.Style
	link  string
	width float64
}

type segKey struct {
	face  fonts.Face
	size  float64
	color style.Color
	link  string
}

func (s segment) key() segKey { return segKey{s.face, s.size, s.color, s.link} }

// token 是以空白分隔的词，或一个强制换行。
type token struct {
	segs    []segment
	width   float64
	space   float64 // 词前空白的自然宽度
	runes   int
	newline bool
}

func (t token) text() string {
	var sb strings.Builder
	for _, s := range t.segs {
		sb.WriteString(s.text)
	}
	return sb.String()
}

// flow 是一个文本元素在给定样式下的词元序列，按 (元素, 样式) 缓存，跨页恢复时不重新测量。
type flow struct {
	tokens []token
	base   style.Style
	empty  lineMetrics
}

// flowKey 标识缓存项。同一元素在不同样式作用域下（如共享于多个单元格）各有一份词元。
type flowKey struct {
	el       Element
	st       style.Style // Color 置空，颜色单独比较
	color    style.Color
	hasColor bool
}

func newFlowKey(el Element, st style.Style) flowKey {
	k := flowKey{el: el, st: st}
	if st.Color != nil {
		k.color, k.hasColor = *st.Color, true
	}
	k.st.Color = nil
	return k
}

func (rc *renderContext) flowFor(el Element, ctx *style.Context, runs []*Text) (*flow, error) {
	key := newFlowKey(el, ctx.Style())
	if f, ok := rc.flows[key]; ok {
		return f, nil
	}
	f, err := tokenize(rc.fonts, ctx, runs)
	if err != nil {
		return nil, err
	}
	rc.flows[key] = f
	return f, nil
}

func tokenize(lib *fonts.Library, ctx *style.Context, runs []*Text) (*flow, error) {
	f := &flow{base: ctx.Style()}
	face, err := ctx.Face(lib)
	if err != nil {
		return nil, err
	}
	m, err := lib.Metrics(face, f.base.Size)
	if err != nil {
		return nil, err
	}
	f.empty = lineMetrics{ascent: m.Ascent, descent: m.Descent, height: style.LineHeight(m, f.base)}

	var (
		cur     token
		seg     *segment
		sb      strings.Builder
		pending float64
		inWord  bool
	)
	closeSeg := func() error {
		if seg == nil || sb.Len() == 0 {
			return nil
		}
		seg.text = sb.String()
		w, err := lib.TextWidth(seg.face, seg.text, seg.size)
		if err != nil {
			return err
		}
		seg.width = w
		cur.segs = append(cur.segs, *seg)
		cur.width += w
		sb.Reset()
		seg = nil
		return nil
	}
	flush := func() error {
		if err := closeSeg(); err != nil {
			return err
		}
		if inWord {
			cur.space = pending
			pending = 0
			f.tokens = append(f.tokens, cur)
		}
		cur = token{}
		inWord = false
		return nil
	}

	for _, run := range runs {
		st := ctx.Push(run.Style).Style()
		rf, err := lib.Face(st.Family, st.Bold, st.Italic)
		if err != nil {
			return nil, fmt.Errorf("文本样式: %w", err)
		}
		for _, part := range lib.Segment(rf, run.Content) {
			for _, r := range part.Text {
				switch {
				case r == '\r':
				case r == '\n':
					if err := flush(); err != nil {
						return nil, err
					}
					f.tokens = append(f.tokens, token{newline: true})
					pending = 0
				case unicode.IsSpace(r):
					if err := flush(); err != nil {
						return nil, err
					}
					if pending == 0 {
						w, err := lib.TextWidth(part.Face, " ", st.Size)
						if err != nil {
							return nil, err
						}
						pending = w
					}
				default:
					next := segment{face: part.Face, size: st.Size, color: st.TextColor(), st: st, link: run.Link}
					if seg != nil && seg.key() != next.key() {
						if err := closeSeg(); err != nil {
							return nil, err
						}
					}
					if seg == nil {
						seg = &next
					}
					sb.WriteRune(r)
					cur.runes++
					inWord = true
				}
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return f, nil
}

// slice 截取词中 [from, to) 范围（rune 偏移）的片段并重新测量。
func (t token) slice(lib *fonts.Library, from, to int) ([]segment, float64, error) {
	if from == 0 && to >= t.runes {
		return t.segs, t.width, nil
	}
	var (
		out   []segment
		total float64
		pos   int
	)
	for _, s := range t.segs {
		rs := []rune(s.text)
		start, end := pos, pos+len(rs)
		pos = end
		lo, hi := max(from, start), min(to, end)
		if lo >= hi {
			continue
		}
		piece := s
		piece.text = string(rs[lo-start : hi-start])
		if lo != start || hi != end {
			w, err := lib.TextWidth(s.face, piece.text, s.size)
			if err != nil {
				return nil, 0, err
			}
			piece.width = w
		}
		out = append(out, piece)
		total += piece.width
	}
	return out, total, nil
}

// renderFlow 逐行排版并绘制，直到文本结束或区域放不下下一行。
func renderFlow(rc *renderContext, area *Area, ctx *style.Context, el Element, runs []*Text, cont Continuation) (RenderResult, error) {
	f, err := rc.flowFor(el, ctx, runs)
	if err != nil {
		return RenderResult{}, err
	}
	var start TextCursor
	if c, ok := cont.(TextCursor); ok {
		start = c
	}
	w := newWrapper(rc, f, area.Width(), start)
	align := f.base.Align

	var used float64
	for {
		at := w.pos
		line, ok, err := w.next()
		if err != nil {
			return RenderResult{}, err
		}
		if !ok {
			return RenderResult{Height: used}, nil
		}
		if line.metrics.height > area.Remaining()+epsilon {
			if used == 0 && area.IsFresh() {
				return RenderResult{}, &LayoutError{
					Page: area.Page(), Element: el.Kind(),
					Needed: line.metrics.height, Available: area.Remaining(), Err: ErrOutOfSpace,
				}
			}
			return RenderResult{Height: used, Next: at}, nil
		}
		drawLine(area, line, arrange(line, area.Width(), align))
		if err := area.Advance(line.metrics.height); err != nil {
			return RenderResult{}, err
		}
		used += line.metrics.height
	}
}

func drawLine(area *Area, l Line, xs []float64) {
	baseline := area.Cursor() + (l.metrics.height-l.metrics.ascent-l.metrics.descent)/2 + l.metrics.ascent
	top := baseline - l.metrics.ascent
	var (
		link   string
		x0, x1 float64
	)
	flushLink := func() {
		if link != "" && x1 > x0 {
			area.DrawLink(renderer.Point{X: x0, Y: top}, x1-x0, l.metrics.ascent+l.metrics.descent, link)
		}
		link = ""
	}
	for i, it := range l.Items {
		x := xs[i]
		for _, s := range it.segs {
			area.DrawText(renderer.Point{X: x, Y: baseline}, s.text, s.face, s.size, s.color)
			// 同一行内相邻且指向同一 URI 的片段合并为一个链接区域，词间空白包含在内
			if s.link != link {
				flushLink()
				link, x0 = s.link, x
			}
			x1 = x + s.width
			x += s.width
		}
	}
	flushLink()
}
