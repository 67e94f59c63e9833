package layout

import (
	"github.com/ByLCY/folio/fonts"
	"github.com/ByLCY/folio/style"
)

// Line 是换行器产生的一行。
type Line struct {
	Items []LineItem
	// Width 是自然宽度：各词宽度加上词间自然空白。
	Width float64
	// Last 表示段落最后一行或强制换行前的一行，两端对齐时保持左对齐。
	Last bool
	// Overflow 表示该行只有一个无法拆分且超宽的词。
	Overflow bool

	metrics lineMetrics
}

// LineItem 是行内的一个词或断字后的词片段。
type LineItem struct {
	Text   string
	Width  float64 // 含连字符
	Space  float64 // 词前自然空白，行首为 0
	Hyphen bool

	segs []segment
}

type lineMetrics struct {
	ascent, descent, height float64
}

// wrapper 是贪心换行器：每次调用 next 产生一行，位置保存在 pos 中，
// 这正是跨页时文本元素的恢复点。
type wrapper struct {
	rc  *renderContext
	f   *flow
	max float64
	pos TextCursor
}

func newWrapper(rc *renderContext, f *flow, maxWidth float64, start TextCursor) *wrapper {
	return &wrapper{rc: rc, f: f, max: maxWidth, pos: start}
}

func (w *wrapper) done() bool { return w.pos.Token >= len(w.f.tokens) }

// next 产生下一行。词在当前行放不下时先尝试断字，取能放下的最宽前缀；
// 无法断字且该行为空时，整个词单独成行并允许超宽，保证总能前进。
func (w *wrapper) next() (Line, bool, error) {
	if w.done() {
		return Line{}, false, nil
	}
	var line Line
	for !w.done() {
		tok := w.f.tokens[w.pos.Token]
		if tok.newline {
			w.pos = TextCursor{Token: w.pos.Token + 1}
			line.Last = true
			return w.finish(line)
		}
		segs, width, err := tok.slice(w.rc.fonts, w.pos.Offset, tok.runes)
		if err != nil {
			return Line{}, false, err
		}
		gap := tok.space
		if len(line.Items) == 0 {
			gap = 0
		}
		if line.Width+gap+width <= w.max+epsilon {
			line.add(LineItem{Width: width, Space: gap, segs: segs})
			w.pos = TextCursor{Token: w.pos.Token + 1}
			continue
		}
		if item, n, ok, err := w.hyphenate(tok, w.max-line.Width-gap); err != nil {
			return Line{}, false, err
		} else if ok {
			item.Space = gap
			line.add(item)
			w.pos.Offset += n
			return w.finish(line)
		}
		if len(line.Items) == 0 {
			line.add(LineItem{Width: width, segs: segs})
			line.Overflow = true
			w.pos = TextCursor{Token: w.pos.Token + 1}
			// 紧随其后的强制换行属于本行
			if !w.done() && w.f.tokens[w.pos.Token].newline {
				w.pos.Token++
				line.Last = true
			} else {
				line.Last = w.done()
			}
			return w.finish(line)
		}
		return w.finish(line)
	}
	line.Last = true
	return w.finish(line)
}

// hyphenate 在剩余宽度 avail 内为当前词找最宽的断字前缀（含连字符）。
// 返回片段与其 rune 数。
func (w *wrapper) hyphenate(tok token, avail float64) (LineItem, int, bool, error) {
	if w.rc.hyph == nil || avail <= 0 {
		return LineItem{}, 0, false, nil
	}
	from := w.pos.Offset
	var (
		best      LineItem
		bestRunes int
		found     bool
	)
	for _, b := range w.rc.breaks(tok.text()) {
		if b <= from {
			continue
		}
		segs, width, err := tok.slice(w.rc.fonts, from, b)
		if err != nil {
			return LineItem{}, 0, false, err
		}
		last := segs[len(segs)-1]
		hw, err := w.rc.fonts.TextWidth(last.face, w.rc.hyphenText, last.size)
		if err != nil {
			return LineItem{}, 0, false, err
		}
		if width+hw > avail+epsilon {
			continue
		}
		if found && width+hw <= best.Width {
			continue
		}
		hyph := last
		hyph.text = w.rc.hyphenText
		hyph.width = hw
		best = LineItem{Width: width + hw, Hyphen: true, segs: append(append([]segment(nil), segs...), hyph)}
		bestRunes = b - from
		found = true
	}
	return best, bestRunes, found, nil
}

func (l *Line) add(it LineItem) {
	l.Items = append(l.Items, it)
	l.Width += it.Space + it.Width
}

// finish 填充文本与行度量。空行使用段落基础样式的度量。
func (w *wrapper) finish(l Line) (Line, bool, error) {
	l.metrics = lineMetrics{}
	for i := range l.Items {
		var text string
		for _, s := range l.Items[i].segs {
			text += s.text
			m, err := w.rc.fonts.Metrics(s.face, s.size)
			if err != nil {
				return Line{}, false, err
			}
			l.metrics.ascent = max(l.metrics.ascent, m.Ascent)
			l.metrics.descent = max(l.metrics.descent, m.Descent)
			l.metrics.height = max(l.metrics.height, style.LineHeight(m, s.st))
		}
		l.Items[i].Text = text
	}
	if l.metrics.height == 0 {
		l.metrics = w.f.empty
	}
	return l, true, nil
}

// WrapText 把纯文本按给定样式与宽度排成行，不绘制。主要用于测量与调试。
func WrapText(lib *fonts.Library, hyph Hyphenator, locale string, ctx *style.Context, content string, width float64) ([]Line, error) {
	rc := newRenderContext(lib, hyph, locale, discardLogger())
	f, err := tokenize(lib, ctx, []*Text{{Content: content}})
	if err != nil {
		return nil, err
	}
	w := newWrapper(rc, f, width, TextCursor{})
	var lines []Line
	for {
		l, ok, err := w.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return lines, nil
		}
		lines = append(lines, l)
	}
}
