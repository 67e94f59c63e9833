package layout

import (
	"github.com/ByLCY/folio/style"
)

// arrange 计算一行中每个词的起始 x（相对区域左边）。
// 左/右/居中只平移整行；两端对齐把剩余宽度按自然空白的比例追加到各个词间，
// 段落最后一行、单词行与超宽行保持左对齐。
func arrange(l Line, maxWidth float64, align style.Alignment) []float64 {
	xs := make([]float64, len(l.Items))
	if len(l.Items) == 0 {
		return xs
	}
	gaps := lineGaps(l, maxWidth, align)
	var offset float64
	switch align {
	case style.AlignRight:
		offset = maxWidth - l.Width
	case style.AlignCenter:
		offset = (maxWidth - l.Width) / 2
	}
	if offset < 0 || l.Overflow {
		offset = 0
	}
	x := offset
	for i, it := range l.Items {
		if i > 0 {
			x += gaps[i]
		}
		xs[i] = x
		x += it.Width
	}
	return xs
}

// lineGaps 返回每个词前的实际间距，gaps[0] 恒为 0。
func lineGaps(l Line, maxWidth float64, align style.Alignment) []float64 {
	gaps := make([]float64, len(l.Items))
	var natural float64
	for i := 1; i < len(l.Items); i++ {
		gaps[i] = l.Items[i].Space
		natural += gaps[i]
	}
	if align != style.AlignJustify || l.Last || l.Overflow || len(l.Items) < 2 {
		return gaps
	}
	extra := maxWidth - l.Width
	if extra <= 0 {
		return gaps
	}
	n := float64(len(l.Items) - 1)
	for i := 1; i < len(gaps); i++ {
		if natural > 0 {
			gaps[i] += extra * gaps[i] / natural
		} else {
			gaps[i] += extra / n
		}
	}
	return gaps
}
