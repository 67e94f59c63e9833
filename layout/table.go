package layout

import (
	"github.com/ByLCY/folio/renderer"
	"github.com/ByLCY/folio/style"
)

// Table 是按列权重分配宽度的表格。每一行都是不可拆分的：
// 放不下的行整体移到下一页，已绘制的行不会重绘。
// 前 HeaderRows 行为表头，在续页顶部重复。
type Table struct {
	Weights    []float64
	Rows       [][]Element
	HeaderRows int
	Padding    float64          // 单元格内边距（mm）
	Border     *style.LineStyle // 为空时不画边框
	HeaderFill *style.Color
	Style      style.Style
}

// NewTable 以列权重创建表格，权重必须为正数。
func NewTable(weights ...float64) (*Table, error) {
	if len(weights) == 0 {
		return nil, constructionError("table", ErrInvalidElement, "表格至少需要一列")
	}
	for i, w := range weights {
		if w <= 0 {
			return nil, constructionError("table", ErrInvalidElement, "第 %d 列权重 %g 不是正数", i+1, w)
		}
	}
	return &Table{Weights: append([]float64(nil), weights...)}, nil
}

// Columns 返回列数。
func (t *Table) Columns() int { return len(t.Weights) }

// AddRow 追加一行，单元格数量必须等于列数。
func (t *Table) AddRow(cells ...Element) error {
	if len(cells) != len(t.Weights) {
		return constructionError("table", ErrInvalidElement,
			"第 %d 行有 %d 个单元格，表格有 %d 列", len(t.Rows)+1, len(cells), len(t.Weights))
	}
	for i, c := range cells {
		if c == nil {
			return constructionError("table", ErrInvalidElement, "第 %d 行第 %d 个单元格为空", len(t.Rows)+1, i+1)
		}
		if containsPageBreak(c) {
			return constructionError("table", ErrInvalidElement, "第 %d 行第 %d 个单元格中不能包含分页符", len(t.Rows)+1, i+1)
		}
	}
	t.Rows = append(t.Rows, cells)
	return nil
}

// SetHeaderRows 标记前 n 行为表头。
func (t *Table) SetHeaderRows(n int) error {
	if n < 0 || n > len(t.Rows) {
		return constructionError("table", ErrInvalidElement, "表头行数 %d 超出行数 %d", n, len(t.Rows))
	}
	t.HeaderRows = n
	return nil
}

func (t *Table) Kind() string { return "table" }

func (t *Table) render(rc *renderContext, area *Area, ctx *style.Context, cont Continuation) (RenderResult, error) {
	ctx = ctx.Push(t.Style)
	start := 0
	if c, ok := cont.(TableCursor); ok {
		start = c.Row
	}
	fresh := area.IsFresh()
	// 本页的所有行先排进暂存区，至少放下一行正文后才提交，避免表头孤立在页尾。
	body, err := area.stage(0, area.Width(), area.Remaining())
	if err != nil {
		return RenderResult{}, err
	}
	rows := make([]int, 0, len(t.Rows)-start+t.HeaderRows)
	if start > 0 && start >= t.HeaderRows {
		for i := 0; i < t.HeaderRows; i++ {
			rows = append(rows, i)
		}
	}
	for i := start; i < len(t.Rows); i++ {
		rows = append(rows, i)
	}

	placed := false
	for _, i := range rows {
		ok, err := t.renderRow(rc, body, ctx, i)
		if err != nil {
			return RenderResult{}, err
		}
		if ok {
			placed = placed || i >= t.HeaderRows
			continue
		}
		if placed {
			return t.commit(area, body, TableCursor{Row: i})
		}
		if fresh {
			return RenderResult{}, &LayoutError{
				Page: area.Page(), Element: t.Kind(),
				Needed: body.Cursor() + t.Padding*2, Available: area.Remaining(), Err: ErrOutOfSpace,
			}
		}
		return RenderResult{Next: TableCursor{Row: start}}, nil
	}
	return t.commit(area, body, nil)
}

func (t *Table) commit(area, body *Area, next Continuation) (RenderResult, error) {
	h := body.Cursor()
	body.commit(area)
	if err := area.Advance(h); err != nil {
		return RenderResult{}, err
	}
	return RenderResult{Height: h, Next: next}, nil
}

// renderRow 在暂存区中排版一行，整行放得下时提交到 target 并推进其游标。
func (t *Table) renderRow(rc *renderContext, target *Area, ctx *style.Context, row int) (bool, error) {
	widths := distribute(target.Width(), t.Weights, len(t.Weights))
	avail := target.Remaining()
	pad := t.Padding
	if 2*pad >= avail {
		return false, nil
	}

	cells := make([]*Area, len(widths))
	var content, x float64
	for i, el := range t.Rows[row] {
		cell, err := target.stage(x, widths[i], avail)
		if err != nil {
			return false, err
		}
		if err := cell.Advance(pad); err != nil {
			return false, err
		}
		p := min(pad, widths[i]/2)
		inner, err := cell.Carve(p, widths[i]-2*p, avail-2*pad)
		if err != nil {
			return false, err
		}
		res, err := el.render(rc, inner, ctx, nil)
		if err != nil {
			return false, err
		}
		if res.forced {
			return false, constructionError("table", ErrInvalidElement, "第 %d 行第 %d 个单元格中不能包含分页符", row+1, i+1)
		}
		if res.Next != nil {
			return false, nil
		}
		content = max(content, res.Height)
		cells[i] = cell
		x += widths[i]
	}
	height := content + 2*pad

	// 背景、单元格内容、边框依次提交，边框画在最上层。
	if t.HeaderFill != nil && row < t.HeaderRows {
		target.DrawRect(renderer.Point{Y: target.Cursor()}, target.Width(), height, t.HeaderFill, nil)
	}
	for _, c := range cells {
		c.commit(target)
	}
	if t.Border != nil {
		t.drawBorders(target, widths, height)
	}
	if err := target.Advance(height); err != nil {
		return false, err
	}
	return true, nil
}

func (t *Table) drawBorders(a *Area, widths []float64, height float64) {
	ls := *t.Border
	top, bottom := a.Cursor(), a.Cursor()+height
	a.DrawLine(renderer.Point{X: 0, Y: top}, renderer.Point{X: a.Width(), Y: top}, ls)
	a.DrawLine(renderer.Point{X: 0, Y: bottom}, renderer.Point{X: a.Width(), Y: bottom}, ls)
	a.DrawLine(renderer.Point{X: 0, Y: top}, renderer.Point{X: 0, Y: bottom}, ls)
	var x float64
	for _, w := range widths {
		x += w
		a.DrawLine(renderer.Point{X: x, Y: top}, renderer.Point{X: x, Y: bottom}, ls)
	}
}
