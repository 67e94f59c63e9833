package layout

import (
	"github.com/ByLCY/folio/style"
)

// Direction 是线性布局的排列方向。
type Direction uint8

const (
	Vertical Direction = iota
	Horizontal
)

// LinearLayout 按声明顺序排列子元素。
// 纵向布局可以跨页：正在进行的子元素完成之前，不会尝试其后的子元素。
// 横向布局按列权重分配宽度，所有子元素必须落在同一页上。
type LinearLayout struct {
	Direction Direction
	Children  []Element
	Style     style.Style
	// Spacing 是纵向相邻子元素之间的间距（mm），位于页尾时被吞掉。
	Spacing float64
	// Weights 是横向布局的列权重，为空时平分。
	Weights []float64
}

// NewVerticalLayout 创建纵向布局。
func NewVerticalLayout(children ...Element) *LinearLayout {
	return &LinearLayout{Direction: Vertical, Children: children}
}

// NewHorizontalLayout 创建横向布局；weights 为空时各列等宽。
func NewHorizontalLayout(weights []float64, children ...Element) (*LinearLayout, error) {
	if len(children) == 0 {
		return nil, constructionError("layout", ErrInvalidElement, "横向布局至少需要一个子元素")
	}
	if len(weights) > 0 && len(weights) != len(children) {
		return nil, constructionError("layout", ErrInvalidElement,
			"列权重数量 %d 与子元素数量 %d 不一致", len(weights), len(children))
	}
	for _, w := range weights {
		if w <= 0 {
			return nil, constructionError("layout", ErrInvalidElement, "列权重必须为正数")
		}
	}
	for i, c := range children {
		if containsPageBreak(c) {
			return nil, constructionError("layout", ErrInvalidElement, "横向布局第 %d 列中不能包含分页符", i+1)
		}
	}
	return &LinearLayout{Direction: Horizontal, Children: children, Weights: weights}, nil
}

// Push 追加子元素。
func (l *LinearLayout) Push(el Element) *LinearLayout {
	l.Children = append(l.Children, el)
	return l
}

func (l *LinearLayout) Kind() string {
	if l.Direction == Horizontal {
		return "hlayout"
	}
	return "vlayout"
}

func (l *LinearLayout) render(rc *renderContext, area *Area, ctx *style.Context, cont Continuation) (RenderResult, error) {
	ctx = ctx.Push(l.Style)
	if l.Direction == Horizontal {
		return l.renderHorizontal(rc, area, ctx)
	}
	return l.renderVertical(rc, area, ctx, cont)
}

func (l *LinearLayout) renderVertical(rc *renderContext, area *Area, ctx *style.Context, cont Continuation) (RenderResult, error) {
	var start LayoutCursor
	if c, ok := cont.(LayoutCursor); ok {
		start = c
	}
	var used float64
	for i := start.Child; i < len(l.Children); i++ {
		var inner Continuation
		if i == start.Child {
			inner = start.Inner
		}
		if i > start.Child && l.Spacing > 0 && used > 0 {
			gap := min(l.Spacing, area.Remaining())
			if err := area.Advance(gap); err != nil {
				return RenderResult{}, err
			}
			used += gap
		}
		res, err := l.Children[i].render(rc, area, ctx, inner)
		if err != nil {
			return RenderResult{}, err
		}
		used += res.Height
		if res.Next != nil {
			return RenderResult{Height: used, Next: LayoutCursor{Child: i, Inner: res.Next}, forced: res.forced}, nil
		}
	}
	return RenderResult{Height: used}, nil
}

func (l *LinearLayout) renderHorizontal(rc *renderContext, area *Area, ctx *style.Context) (RenderResult, error) {
	widths := distribute(area.Width(), l.Weights, len(l.Children))
	staged := make([]*Area, 0, len(l.Children))
	var height, x float64
	for i, child := range l.Children {
		col, err := area.stage(x, widths[i], area.Remaining())
		if err != nil {
			return RenderResult{}, err
		}
		res, err := child.render(rc, col, ctx, nil)
		if err != nil {
			return RenderResult{}, err
		}
		if res.forced {
			return RenderResult{}, constructionError("layout", ErrInvalidElement, "横向布局第 %d 列中不能包含分页符", i+1)
		}
		if res.Next != nil {
			// 整体推迟到下一页；新页面上仍放不下时由驱动报告 ErrOutOfSpace。
			return RenderResult{Next: Deferred{}}, nil
		}
		height = max(height, res.Height)
		staged = append(staged, col)
		x += widths[i]
	}
	for _, col := range staged {
		col.commit(area)
	}
	if err := area.Advance(height); err != nil {
		return RenderResult{}, err
	}
	return RenderResult{Height: height}, nil
}

// distribute 按权重把 total 分给 n 列。
func distribute(total float64, weights []float64, n int) []float64 {
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	if len(weights) != n {
		for i := range out {
			out[i] = total / float64(n)
		}
		return out
	}
	var sum float64
	for _, w := range weights {
		sum += w
	}
	for i, w := range weights {
		out[i] = total * w / sum
	}
	return out
}

// PageBreak 无条件结束当前页；在新页上再次渲染时不占高度。
type PageBreak struct{}

// NewPageBreak 创建分页符。
func NewPageBreak() *PageBreak { return &PageBreak{} }

func (*PageBreak) Kind() string { return "pagebreak" }

func (*PageBreak) render(_ *renderContext, _ *Area, _ *style.Context, cont Continuation) (RenderResult, error) {
	if cont == nil {
		return RenderResult{Next: Deferred{}, forced: true}, nil
	}
	return RenderResult{}, nil
}

// containsPageBreak 报告 el 或其后代中是否有分页符。
func containsPageBreak(el Element) bool {
	switch e := el.(type) {
	case *PageBreak:
		return true
	case *LinearLayout:
		for _, c := range e.Children {
			if containsPageBreak(c) {
				return true
			}
		}
	case *Table:
		for _, row := range e.Rows {
			for _, c := range row {
				if containsPageBreak(c) {
					return true
				}
			}
		}
	}
	return false
}
