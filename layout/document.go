package layout

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ByLCY/folio/fonts"
	"github.com/ByLCY/folio/renderer"
	"github.com/ByLCY/folio/style"
	"github.com/ByLCY/folio/units"
)

// Document 是顶层元素序列加上全局样式与页面设置，只渲染一次。
type Document struct {
	PageSize units.Size
	Margins  units.Margins
	Style    style.Style
	Meta     renderer.Meta
	// Header 若不为空，在每页正文之前绘制返回的元素；page 从 1 开始。
	Header func(page int) Element

	root *LinearLayout
}

// NewDocument 创建指定纸张尺寸的文档。
func NewDocument(size units.Size) *Document {
	return &Document{PageSize: size, root: NewVerticalLayout()}
}

// Push 追加顶层元素。
func (d *Document) Push(el Element) *Document {
	d.root.Push(el)
	return d
}

// Elements 返回顶层元素。
func (d *Document) Elements() []Element { return d.root.Children }

// SetSpacing 设置顶层元素之间的纵向间距（mm）。
func (d *Document) SetSpacing(mm float64) { d.root.Spacing = mm }

// Render 是 NewEngine(opts) 后调用 Engine.Render 的简写。
func (d *Document) Render(backend renderer.Backend, opts Options) ([]byte, error) {
	e, err := NewEngine(opts)
	if err != nil {
		return nil, err
	}
	return e.Render(d, backend)
}

// PageProvider 为每一页给出纸张尺寸与边距，page 从 0 开始。
type PageProvider interface {
	Page(doc *Document, page int) (units.Size, units.Margins)
}

// PageProviderFunc 让普通函数实现 PageProvider。
type PageProviderFunc func(doc *Document, page int) (units.Size, units.Margins)

func (f PageProviderFunc) Page(doc *Document, page int) (units.Size, units.Margins) {
	return f(doc, page)
}

type documentPages struct{}

func (documentPages) Page(doc *Document, _ int) (units.Size, units.Margins) {
	return doc.PageSize, doc.Margins
}

// Engine 是分页驱动。它把元素树渲染到由 PageProvider 提供的一系列页面上，
// 元素返回恢复点时申请新页并从恢复点继续。
type Engine struct {
	fonts    *fonts.Library
	hyph     Hyphenator
	locale   string
	log      *slog.Logger
	maxPages int
	pages    PageProvider
	degraded []error
}

// NewEngine 解析选项。请求断字却没有断字器属于可恢复的降级：
// 断字被关闭，ErrHyphenationUnavailable 记录在 Degraded 中，不会返回错误。
func NewEngine(opts Options) (*Engine, error) {
	e := &Engine{
		fonts:    opts.Fonts,
		locale:   opts.Locale,
		log:      opts.Logger,
		maxPages: opts.MaxPages,
		pages:    opts.Pages,
	}
	if e.log == nil {
		e.log = discardLogger()
	}
	if e.fonts == nil {
		lib, err := fonts.NewDefaultLibrary()
		if err != nil {
			return nil, fmt.Errorf("加载内置字体失败: %w", err)
		}
		e.fonts = lib
	}
	if e.pages == nil {
		e.pages = documentPages{}
	}
	if opts.Hyphenate {
		if opts.Hyphenator == nil {
			e.degraded = append(e.degraded, ErrHyphenationUnavailable)
			e.log.Warn("hyphenation disabled", "err", ErrHyphenationUnavailable)
		} else {
			e.hyph = opts.Hyphenator
		}
	}
	return e, nil
}

// Fonts 返回引擎使用的字体库，后端需用同一个实例取字体数据。
func (e *Engine) Fonts() *fonts.Library { return e.fonts }

// Degraded 返回构建时被关闭的可选能力。
func (e *Engine) Degraded() []error { return append([]error(nil), e.degraded...) }

// Render 渲染文档并返回后端的输出。任何错误都会让后端丢弃已累积的页面。
func (e *Engine) Render(doc *Document, backend renderer.Backend) ([]byte, error) {
	out, err := e.render(doc, backend)
	if err != nil {
		backend.Reset()
		e.log.Error("render aborted", "err", err)
		return nil, err
	}
	return out, nil
}

func (e *Engine) render(doc *Document, backend renderer.Backend) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: document is nil", ErrInvalidElement)
	}
	rc := newRenderContext(e.fonts, e.hyph, e.locale, e.log)
	ctx := style.NewContext(doc.Style)
	backend.SetMeta(doc.Meta)

	var cont Continuation
	for page := 0; ; page++ {
		if e.maxPages > 0 && page >= e.maxPages {
			return nil, fmt.Errorf("%w: limit %d", ErrTooManyPages, e.maxPages)
		}
		area, err := e.beginPage(rc, doc, ctx, backend, page)
		if err != nil {
			return nil, err
		}
		fresh := area.IsFresh()
		res, err := doc.root.render(rc, area, ctx, cont)
		if err != nil {
			return nil, err
		}
		if fresh && res.Next != nil && res.Height <= epsilon && !res.forced {
			return nil, &LayoutError{Page: page, Element: doc.root.Kind(), Available: area.Remaining(), Err: ErrOutOfSpace}
		}
		if err := area.Finalize(backend); err != nil {
			return nil, err
		}
		e.log.Debug("page finished", "page", page+1, "height", res.Height, "continues", res.Next != nil)
		cont = res.Next
		if cont == nil {
			break
		}
	}
	out, err := backend.Close()
	if err != nil {
		return nil, &BackendError{Op: "close", Err: err}
	}
	return out, nil
}

// beginPage 申请新页，扣除边距并绘制页眉，返回正文区域。
func (e *Engine) beginPage(rc *renderContext, doc *Document, ctx *style.Context, backend renderer.Backend, page int) (*Area, error) {
	size, m := e.pages.Page(doc, page)
	if size.Width <= 0 || size.Height <= 0 {
		return nil, fmt.Errorf("%w: page size %gx%g", ErrInvalidElement, size.Width, size.Height)
	}
	w, h := size.Width-m.Left-m.Right, size.Height-m.Top-m.Bottom
	if w <= 0 || h <= 0 {
		return nil, &LayoutError{Page: page, Element: "page", Needed: m.Top + m.Bottom, Available: size.Height, Err: ErrOutOfSpace}
	}
	if err := backend.BeginPage(size.Width, size.Height); err != nil {
		return nil, &BackendError{Op: "begin page", Err: err}
	}
	e.log.Debug("page started", "page", page+1)
	area := newPageArea(page, renderer.Point{X: m.Left, Y: m.Top}, w, h)
	if doc.Header == nil {
		return area, nil
	}
	header := doc.Header(page + 1)
	if header == nil {
		return area, nil
	}
	res, err := header.render(rc, area, ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("页眉: %w", err)
	}
	if res.Next != nil {
		return nil, &LayoutError{Page: page, Element: "header", Available: h, Err: ErrOutOfSpace}
	}
	area.markTop()
	return area, nil
}

// IsOutOfSpace 报告 err 是否为空间不足。
func IsOutOfSpace(err error) bool { return errors.Is(err, ErrOutOfSpace) }
