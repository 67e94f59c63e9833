// Package canvasrenderer writes layout output to PDF through github.com/tdewolff/canvas.
package canvasrenderer

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/folio/fonts"
	"github.com/ByLCY/folio/renderer"
)

var (
	errPageOpen = errors.New("canvas: previous page not finished")
	errNoPage   = errors.New("canvas: no page started")
	errNoPages  = errors.New("canvas: document has no pages")
)

// Options configures the backend. Meta fields are defaults that a
// document's own metadata overrides field by field.
type Options struct {
	Meta renderer.Meta
}

// Backend draws pages onto canvases as they are finished and writes the
// PDF once, in Close. Fonts are looked up in the same library the layout
// engine measured with, so what is drawn matches what was measured.
type Backend struct {
	lib  *fonts.Library
	opts Options

	mu       sync.Mutex
	meta     renderer.Meta
	pages    []page
	open     *canvas.Canvas
	families map[fonts.Handle]*canvas.FontFamily
	usage    *fonts.Usage
}

var _ renderer.Backend = (*Backend)(nil)

// page 是画好的一页。链接不属于画布内容，在写出 PDF 时作为注释附加。
type page struct {
	c     *canvas.Canvas
	links []renderer.LinkOp
}

// New creates a backend that resolves faces through lib.
func New(lib *fonts.Library, opts Options) *Backend {
	return &Backend{
		lib:      lib,
		opts:     opts,
		meta:     opts.Meta,
		families: map[fonts.Handle]*canvas.FontFamily{},
		usage:    fonts.NewUsage(),
	}
}

func (b *Backend) SetMeta(meta renderer.Meta) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.meta = mergeMeta(b.opts.Meta, meta)
}

func (b *Backend) BeginPage(width, height float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.open != nil {
		return errPageOpen
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("canvas: invalid page size %gx%g", width, height)
	}
	b.open = canvas.New(width, height)
	return nil
}

func (b *Backend) FinishPage(ops []renderer.Op) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.open == nil {
		return errNoPage
	}
	ctx := canvas.NewContext(b.open)
	ctx.SetCoordSystem(canvas.CartesianIV) // 左上角为原点，与布局坐标一致
	pg := page{c: b.open}
	for _, op := range ops {
		if l, ok := op.(renderer.LinkOp); ok {
			if l.URI == "" || l.Width <= 0 || l.Height <= 0 {
				return fmt.Errorf("canvas: invalid link %q %gx%g", l.URI, l.Width, l.Height)
			}
			pg.links = append(pg.links, l)
			continue
		}
		if err := b.draw(ctx, op); err != nil {
			return err
		}
	}
	b.pages = append(b.pages, pg)
	b.open = nil
	return nil
}

// Close renders every finished page into a single PDF.
func (b *Backend) Close() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.open != nil {
		return nil, errPageOpen
	}
	if len(b.pages) == 0 {
		return nil, errNoPages
	}
	var buf bytes.Buffer
	first := b.pages[0].c
	writer := pdf.New(&buf, first.W, first.H, nil)
	writer.SetInfo(b.meta.Title, b.meta.Subject, strings.Join(b.meta.Keywords, ", "), b.meta.Author, b.meta.Creator)
	for i, pg := range b.pages {
		if i > 0 {
			writer.NewPage(pg.c.W, pg.c.H)
		}
		pg.c.RenderTo(writer)
		for _, l := range pg.links {
			writer.AddLink(l.URI, linkRect(l, pg.c.H))
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// Reset drops pages and font state; the backend can be reused afterwards.
func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pages = nil
	b.open = nil
	b.meta = b.opts.Meta
	b.families = map[fonts.Handle]*canvas.FontFamily{}
	b.usage.Reset()
}

// EmbeddedFonts lists the faces used so far, one entry per distinct font file.
func (b *Backend) EmbeddedFonts() []fonts.Face {
	b.mu.Lock()
	defer b.mu.Unlock()
	seen := map[fonts.Handle]bool{}
	var out []fonts.Face
	for _, f := range b.usage.Faces() {
		if seen[f.Handle] {
			continue
		}
		seen[f.Handle] = true
		out = append(out, f)
	}
	return out
}

// Usage returns the characters drawn with each face.
func (b *Backend) Usage() *fonts.Usage { return b.usage }

// PageCount returns the number of finished pages.
func (b *Backend) PageCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pages)
}

func (b *Backend) draw(ctx *canvas.Context, op renderer.Op) error {
	switch o := op.(type) {
	case renderer.TextOp:
		return b.drawText(ctx, o)
	case renderer.LineOp:
		from, to := o.Endpoints()
		ctx.SetFillColor(transparent)
		ctx.SetStrokeColor(o.Style.Color)
		ctx.SetStrokeWidth(o.Style.Thickness)
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(to.X-from.X, to.Y-from.Y)
		ctx.DrawPath(from.X, from.Y, p)
	case renderer.RectOp:
		at := o.At()
		if o.Fill != nil {
			ctx.SetFillColor(*o.Fill)
		} else {
			ctx.SetFillColor(transparent)
		}
		if o.Stroke != nil {
			ctx.SetStrokeColor(o.Stroke.Color)
			ctx.SetStrokeWidth(o.Stroke.Thickness)
		} else {
			ctx.SetStrokeColor(transparent)
			ctx.SetStrokeWidth(0)
		}
		ctx.DrawPath(at.X, at.Y, canvas.Rectangle(o.Width, o.Height))
	case renderer.ImageOp:
		if o.Image == nil || o.Width <= 0 {
			return fmt.Errorf("canvas: image op without pixels")
		}
		at := o.At()
		dpmm := float64(o.Image.Bounds().Dx()) / o.Width
		ctx.DrawImage(at.X, at.Y, o.Image, canvas.DPMM(dpmm))
	default:
		return fmt.Errorf("canvas: unsupported op %q", op.Kind())
	}
	return nil
}

// linkRect 把左上角原点的链接区域换算为 PDF 的左下角原点坐标。
func linkRect(l renderer.LinkOp, pageHeight float64) canvas.Rect {
	at := l.At()
	return canvas.Rect{X0: at.X, Y0: pageHeight - at.Y - l.Height, X1: at.X + l.Width, Y1: pageHeight - at.Y}
}

var transparent color.Color = color.RGBA{0, 0, 0, 0}

func (b *Backend) drawText(ctx *canvas.Context, o renderer.TextOp) error {
	family, err := b.family(o.Face)
	if err != nil {
		return err
	}
	face := family.Face(o.Size, o.Color, canvas.FontRegular, canvas.FontNormal)
	at := o.At()
	ctx.DrawText(at.X, at.Y, canvas.NewTextLine(face, o.Text, canvas.Left))
	b.usage.Add(o.Face, o.Text)
	return nil
}

// family loads each font file once; faces that share a handle share a family.
func (b *Backend) family(f fonts.Face) (*canvas.FontFamily, error) {
	if fam, ok := b.families[f.Handle]; ok {
		return fam, nil
	}
	data, ok := b.lib.Data(f)
	if !ok {
		return nil, fmt.Errorf("canvas: %w: %s", fonts.ErrUnknownFont, f.Key())
	}
	fam := canvas.NewFontFamily(f.Key())
	if err := fam.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", f.Key(), err)
	}
	b.families[f.Handle] = fam
	return fam, nil
}

func mergeMeta(base, doc renderer.Meta) renderer.Meta {
	out := base
	if doc.Title != "" {
		out.Title = doc.Title
	}
	if doc.Author != "" {
		out.Author = doc.Author
	}
	if doc.Subject != "" {
		out.Subject = doc.Subject
	}
	if doc.Creator != "" {
		out.Creator = doc.Creator
	}
	if len(doc.Keywords) > 0 {
		out.Keywords = doc.Keywords
	}
	return out
}
