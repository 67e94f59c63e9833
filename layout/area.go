package layout

import (
	"fmt"
	"image"

	"github.com/ByLCY/folio/fonts"
	"github.com/ByLCY/folio/renderer"
	"github.com/ByLCY/folio/style"
)

// 浮点比较容差（mm）。
const epsilon = 1e-9

// opBuffer 按绘制顺序累积一页（或一个暂存区）的指令。
type opBuffer struct {
	ops    []renderer.Op
	sealed bool
}

func (b *opBuffer) emit(op renderer.Op) {
	if b.sealed {
		panic("layout: draw on finalized area")
	}
	b.ops = append(b.ops, op)
}

// Area 是一块矩形可绘制区域，带有只增不减的纵向游标。
// 页面区域由引擎创建，子区域通过 Carve 从父区域切出，不会超出父区域范围。
// 区域只属于当前正在其上渲染的调用，不支持并发访问。
type Area struct {
	buf    *opBuffer
	origin renderer.Point // 左上角在页面上的位置
	width  float64
	height float64
	cursor float64
	fresh  bool    // 是否属于一张新页面
	top    float64 // 正文起点（页眉之下）
	page   int
	root   bool
}

func newPageArea(page int, origin renderer.Point, width, height float64) *Area {
	return &Area{
		buf:    &opBuffer{},
		origin: origin,
		width:  width,
		height: height,
		fresh:  true,
		page:   page,
		root:   true,
	}
}

// Width 返回区域宽度（mm）。
func (a *Area) Width() float64 { return a.width }

// Height 返回区域总高度（mm）。
func (a *Area) Height() float64 { return a.height }

// Remaining 返回游标之下的剩余高度。
func (a *Area) Remaining() float64 { return a.height - a.cursor }

// Cursor 返回当前游标位置（相对区域顶部）。
func (a *Area) Cursor() float64 { return a.cursor }

// Origin 返回区域左上角的页面坐标。
func (a *Area) Origin() renderer.Point { return a.origin }

// Page 返回区域所在页的序号（从 0 开始）。
func (a *Area) Page() int { return a.page }

// IsFresh 报告区域是否是一张新页面上尚未使用的正文区域。
// 不可拆分元素在这样的区域里仍放不下时，换页也无济于事。
func (a *Area) IsFresh() bool { return a.fresh && a.cursor <= a.top+epsilon }

// Advance 将游标下移 dy。
func (a *Area) Advance(dy float64) error {
	if dy < 0 {
		return fmt.Errorf("%w: cursor cannot move backwards (%g)", ErrInvalidElement, dy)
	}
	if dy > a.Remaining()+epsilon {
		return fmt.Errorf("%w: advance %.3fmm, remaining %.3fmm", ErrOutOfSpace, dy, a.Remaining())
	}
	a.cursor += dy
	if a.cursor > a.height {
		a.cursor = a.height
	}
	return nil
}

// Carve 在游标处、水平偏移 x 处切出宽 width、高 height 的子区域。
// 子区域与父区域共享绘制缓冲区；父游标不移动。
func (a *Area) Carve(x, width, height float64) (*Area, error) {
	if x < 0 || width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: negative carve (%g, %g, %g)", ErrInvalidElement, x, width, height)
	}
	if x+width > a.width+epsilon || height > a.Remaining()+epsilon {
		return nil, fmt.Errorf("%w: carve %.3fx%.3f at %.3f exceeds %.3fx%.3f",
			ErrOutOfSpace, width, height, x, a.width, a.Remaining())
	}
	return &Area{
		buf:    a.buf,
		origin: renderer.Point{X: a.origin.X + x, Y: a.origin.Y + a.cursor},
		width:  width,
		height: height,
		fresh:  a.IsFresh(),
		page:   a.page,
	}, nil
}

// stage 与 Carve 相同，但子区域拥有独立缓冲区，只有 commit 后内容才进入父区域。
// 用于表格行等必须整体落在同一页上的内容。
func (a *Area) stage(x, width, height float64) (*Area, error) {
	sub, err := a.Carve(x, width, height)
	if err != nil {
		return nil, err
	}
	sub.buf = &opBuffer{}
	return sub, nil
}

// commit 把暂存区的指令按顺序追加到 parent。
func (a *Area) commit(parent *Area) {
	for _, op := range a.buf.ops {
		parent.buf.emit(op)
	}
	a.buf.ops = nil
	a.buf.sealed = true
}

// markTop 把当前游标视为正文起点，页眉绘制完成后调用。
func (a *Area) markTop() { a.top = a.cursor }

// Finalize 把本页累积的绘制指令交给后端并使区域不可再用。
// 只有页面区域可以调用；这是内容对后端可见的唯一时刻。
func (a *Area) Finalize(backend renderer.Backend) error {
	if !a.root {
		return fmt.Errorf("%w: finalize on a sub-area", ErrInvalidElement)
	}
	if a.buf.sealed {
		return fmt.Errorf("%w: area already finalized", ErrInvalidElement)
	}
	a.buf.sealed = true
	if err := backend.FinishPage(a.buf.ops); err != nil {
		return &BackendError{Op: "finish page", Err: err}
	}
	return nil
}

// ops 返回当前缓冲区内容，供测试检查。
func (a *Area) ops() []renderer.Op { return a.buf.ops }

// DrawText 在区域坐标 pos（基线起点）处绘制文本。
func (a *Area) DrawText(pos renderer.Point, text string, face fonts.Face, size float64, color style.Color) {
	a.buf.emit(renderer.TextOp{Origin: a.origin, Pos: pos, Text: text, Face: face, Size: size, Color: color})
}

// DrawLine 绘制区域坐标中的线段。
func (a *Area) DrawLine(from, to renderer.Point, ls style.LineStyle) {
	a.buf.emit(renderer.LineOp{Origin: a.origin, From: from, To: to, Style: ls})
}

// DrawRect 绘制矩形，fill 或 stroke 可为空。
func (a *Area) DrawRect(pos renderer.Point, width, height float64, fill *style.Color, stroke *style.LineStyle) {
	a.buf.emit(renderer.RectOp{Origin: a.origin, Pos: pos, Width: width, Height: height, Fill: fill, Stroke: stroke})
}

// DrawImage 把图片绘制在区域坐标 pos（左上角）处。
func (a *Area) DrawImage(pos renderer.Point, width, height float64, img image.Image, format string) {
	a.buf.emit(renderer.ImageOp{Origin: a.origin, Pos: pos, Width: width, Height: height, Format: format, Image: img})
}

// DrawLink 把区域坐标中 pos（左上角）处的矩形标记为链接。
func (a *Area) DrawLink(pos renderer.Point, width, height float64, uri string) {
	a.buf.emit(renderer.LinkOp{Origin: a.origin, Pos: pos, Width: width, Height: height, URI: uri})
}
