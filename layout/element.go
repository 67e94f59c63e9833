package layout

import (
	"log/slog"

	"github.com/ByLCY/folio/fonts"
	"github.com/ByLCY/folio/style"
)

// Element 是文档树中的节点。元素种类是封闭的：Text、Paragraph、Table、
// Image、LinearLayout 与 PageBreak，外部包无法新增实现。
// 元素构建后不可变，跨页渲染所需的状态全部保存在 Continuation 中。
type Element interface {
	// Kind 返回元素种类名，用于错误信息与调试输出。
	Kind() string
	render(rc *renderContext, area *Area, ctx *style.Context, cont Continuation) (RenderResult, error)
}

// RenderResult 描述一次渲染调用的结果。
// Next 为空表示元素已完整绘制；否则它携带恰好足够在新区域上继续的状态。
type RenderResult struct {
	Height float64 // 在当前区域消耗的高度（mm）
	Next   Continuation
	forced bool // 换页由 PageBreak 主动触发
}

// Continuation 是某个元素的恢复点。
type Continuation interface {
	isContinuation()
}

// TextCursor 指向词元序列中的位置；Offset 是被断字拆开的词内的字符（rune）偏移。
type TextCursor struct {
	Token  int
	Offset int
}

// TableCursor 指向第一个尚未绘制的行。
type TableCursor struct {
	Row int
}

// LayoutCursor 指向正在进行中的子元素及其自身的恢复点。
type LayoutCursor struct {
	Child int
	Inner Continuation
}

// Deferred 表示不可拆分的元素整体推迟到下一个区域（图片、水平布局），
// 或 PageBreak 已经触发了换页。
type Deferred struct{}

func (TextCursor) isContinuation()   {}
func (TableCursor) isContinuation()  {}
func (LayoutCursor) isContinuation() {}
func (Deferred) isContinuation()     {}

// renderContext 是一次文档渲染期间共享的可变状态，只被驱动线程访问。
type renderContext struct {
	fonts  *fonts.Library
	hyph   Hyphenator
	locale string
	log    *slog.Logger

	flows      map[flowKey]*flow
	hyphens    map[string][]int
	hyphCalls  int
	hyphenText string
}

func newRenderContext(lib *fonts.Library, hyph Hyphenator, locale string, log *slog.Logger) *renderContext {
	return &renderContext{
		fonts:      lib,
		hyph:       hyph,
		locale:     locale,
		log:        log,
		flows:      map[flowKey]*flow{},
		hyphens:    map[string][]int{},
		hyphenText: "-",
	}
}

// breaks 返回 word 的合法断点（rune 偏移，严格递增且位于 (0, len) 之间），按词缓存。
func (rc *renderContext) breaks(word string) []int {
	if rc.hyph == nil {
		return nil
	}
	if offs, ok := rc.hyphens[word]; ok {
		return offs
	}
	rc.hyphCalls++
	offs := validBreaks(rc.hyph.Hyphenate(word, rc.locale), len([]rune(word)))
	rc.hyphens[word] = offs
	return offs
}

func validBreaks(offs []int, n int) []int {
	out := make([]int, 0, len(offs))
	last := 0
	for _, o := range offs {
		if o <= last || o >= n {
			continue
		}
		out = append(out, o)
		last = o
	}
	return out
}

// Hyphenator 为单词给出合法的词内断点（rune 偏移，升序）。
type Hyphenator interface {
	Hyphenate(word, locale string) []int
}

// HyphenatorFunc 让普通函数实现 Hyphenator。
type HyphenatorFunc func(word, locale string) []int

func (f HyphenatorFunc) Hyphenate(word, locale string) []int { return f(word, locale) }
