package renderer

import (
	"image"

	"github.com/ByLCY/folio/fonts"
	"github.com/ByLCY/folio/style"
)

// Backend 接收排版引擎产生的绘制指令并输出最终文件，例如 PDF。
// 调用顺序：SetMeta → (BeginPage → FinishPage)* → Close。
// 任一步失败后引擎会调用 Reset，丢弃已累积的页面。
type Backend interface {
	SetMeta(meta Meta)
	BeginPage(width, height float64) error
	FinishPage(ops []Op) error
	Close() ([]byte, error)
	Reset()
}

// Meta 保存文档元信息。
type Meta struct {
	Title    string   `json:"title,omitempty"`
	Author   string   `json:"author,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Creator  string   `json:"creator,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// Point 以毫米为单位，y 轴向下。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add 返回两点之和。
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Op 是一条基本绘制指令。坐标相对于产生它的区域（Origin 为区域左上角在页面上的位置）。
type Op interface {
	Kind() string
}

// TextOp 在基线位置 Pos 处绘制一段使用单一字形的文本。
type TextOp struct {
	Origin Point       `json:"origin"`
	Pos    Point       `json:"pos"`
	Text   string      `json:"text"`
	Face   fonts.Face  `json:"face"`
	Size   float64     `json:"size"` // pt
	Color  style.Color `json:"color"`
}

// LineOp 绘制一条线段。
type LineOp struct {
	Origin Point           `json:"origin"`
	From   Point           `json:"from"`
	To     Point           `json:"to"`
	Style  style.LineStyle `json:"style"`
}

// RectOp 绘制矩形，Fill 与 Stroke 均可为空。
type RectOp struct {
	Origin Point            `json:"origin"`
	Pos    Point            `json:"pos"`
	Width  float64          `json:"width"`
	Height float64          `json:"height"`
	Fill   *style.Color     `json:"fill,omitempty"`
	Stroke *style.LineStyle `json:"stroke,omitempty"`
}

// ImageOp 将已解码的图片绘制到 Pos 处的矩形内（Pos 为左上角）。
type ImageOp struct {
	Origin Point       `json:"origin"`
	Pos    Point       `json:"pos"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Format string      `json:"format"`
	Image  image.Image `json:"-"`
}

// LinkOp 把 Pos（左上角）处的矩形标记为指向 URI 的可点击区域，本身不绘制任何内容。
type LinkOp struct {
	Origin Point   `json:"origin"`
	Pos    Point   `json:"pos"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	URI    string  `json:"uri"`
}

func (TextOp) Kind() string  { return "text" }
func (LineOp) Kind() string  { return "line" }
func (RectOp) Kind() string  { return "rect" }
func (ImageOp) Kind() string { return "image" }
func (LinkOp) Kind() string  { return "link" }

// At 返回基线起点的页面绝对坐标。
func (o TextOp) At() Point { return o.Origin.Add(o.Pos) }

// At 返回左上角的页面绝对坐标。
func (o RectOp) At() Point { return o.Origin.Add(o.Pos) }

// At 返回左上角的页面绝对坐标。
func (o ImageOp) At() Point { return o.Origin.Add(o.Pos) }

// At 返回左上角的页面绝对坐标。
func (o LinkOp) At() Point { return o.Origin.Add(o.Pos) }

// Endpoints 返回线段两端的页面绝对坐标。
func (o LineOp) Endpoints() (Point, Point) { return o.Origin.Add(o.From), o.Origin.Add(o.To) }

// Page 记录一页的尺寸（mm）与按绘制顺序排列的指令。
type Page struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Ops    []Op    `json:"-"`
}
