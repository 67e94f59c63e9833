package style

import (
	"github.com/ByLCY/folio/fonts"
)

// Context 是不可变的样式作用域链。Push 返回新的子上下文，
// 父上下文不受影响，因此兄弟元素之间不会串样式。
type Context struct {
	parent    *Context
	effective Style
	depth     int
}

// NewContext 以 base 叠加默认值创建根上下文。
func NewContext(base Style) *Context {
	root := Style{
		Size:        DefaultFontSize,
		LineSpacing: DefaultLineSpacing,
		Align:       AlignLeft,
	}.WithColor(Black)
	return &Context{effective: root.Merge(base)}
}

// Push 进入子作用域。
func (c *Context) Push(delta Style) *Context {
	if delta.IsZero() {
		return &Context{parent: c, effective: c.effective, depth: c.depth + 1}
	}
	return &Context{parent: c, effective: c.effective.Merge(delta), depth: c.depth + 1}
}

// Pop 返回父作用域；根上下文返回自身。
func (c *Context) Pop() *Context {
	if c.parent == nil {
		return c
	}
	return c.parent
}

// Depth 为嵌套层数，根为 0。
func (c *Context) Depth() int { return c.depth }

// Style 返回当前生效样式。
func (c *Context) Style() Style { return c.effective }

// Face 根据当前字体族与粗体/斜体选择具体字形。
func (c *Context) Face(lib *fonts.Library) (fonts.Face, error) {
	return lib.Face(c.effective.Family, c.effective.Bold, c.effective.Italic)
}

// Metrics 返回当前字体在当前字号下的纵向度量（mm）。
func (c *Context) Metrics(lib *fonts.Library) (fonts.VMetrics, error) {
	f, err := c.Face(lib)
	if err != nil {
		return fonts.VMetrics{}, err
	}
	return lib.Metrics(f, c.effective.Size)
}

// LineHeight 为字体行高乘以行距倍数（mm）。
func (c *Context) LineHeight(lib *fonts.Library) (float64, error) {
	m, err := c.Metrics(lib)
	if err != nil {
		return 0, err
	}
	return LineHeight(m, c.effective), nil
}

// TextWidth 测量 s 在当前样式下的宽度（mm）。
func (c *Context) TextWidth(lib *fonts.Library, s string) (float64, error) {
	f, err := c.Face(lib)
	if err != nil {
		return 0, err
	}
	return lib.TextWidth(f, s, c.effective.Size)
}

// LineHeight 计算某样式下的行高。
func LineHeight(m fonts.VMetrics, s Style) float64 {
	spacing := s.LineSpacing
	if spacing <= 0 {
		spacing = DefaultLineSpacing
	}
	return m.LineHeight() * spacing
}
