// Package style 定义可继承的文本样式与作用域化的样式上下文。
package style

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// 默认值：未设置时从父样式继承，根上下文使用这些值。
const (
	DefaultFontSize    = 12.0 // pt
	DefaultLineSpacing = 1.0
)

// ColorSpace 标识颜色的取值空间。
type ColorSpace uint8

const (
	SpaceRGB ColorSpace = iota
	SpaceCMYK
	SpaceGray
)

// Color 支持 RGB、CMYK 与灰度，分量均为 0-255。
type Color struct {
	Space      ColorSpace `json:"space"`
	C1, C2, C3 uint8
	C4         uint8
}

// RGB 创建 RGB 颜色。
func RGB(r, g, b uint8) Color { return Color{Space: SpaceRGB, C1: r, C2: g, C3: b} }

// CMYK 创建 CMYK 颜色。
func CMYK(c, m, y, k uint8) Color { return Color{Space: SpaceCMYK, C1: c, C2: m, C3: y, C4: k} }

// Gray 创建灰度颜色。
func Gray(v uint8) Color { return Color{Space: SpaceGray, C1: v} }

// Black 是默认文字颜色。
var Black = RGB(0, 0, 0)

// RGBA 实现 color.Color，便于交给绘图后端。
func (c Color) RGBA() (r, g, b, a uint32) {
	switch c.Space {
	case SpaceCMYK:
		return color.CMYK{C: c.C1, M: c.C2, Y: c.C3, K: c.C4}.RGBA()
	case SpaceGray:
		return color.Gray{Y: c.C1}.RGBA()
	default:
		return color.RGBA{R: c.C1, G: c.C2, B: c.C3, A: 0xff}.RGBA()
	}
}

// ParseColor 解析 #RGB / #RRGGBB 形式的颜色。
func ParseColor(value string) (Color, error) {
	v := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(v) == 3 {
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	}
	if len(v) != 6 {
		return Color{}, fmt.Errorf("无法解析颜色 %q", value)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("无法解析颜色 %q: %w", value, err)
	}
	return RGB(uint8(n>>16), uint8(n>>8), uint8(n)), nil
}

// Alignment 是水平对齐方式；AlignInherit 表示沿用父样式。
type Alignment uint8

const (
	AlignInherit Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
	AlignJustify
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	default:
		return "inherit"
	}
}

// ParseAlignment 接受 left/center/right/justify 以及 start/end 别名。
func ParseAlignment(v string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "left", "start":
		return AlignLeft, nil
	case "center", "centre":
		return AlignCenter, nil
	case "right", "end":
		return AlignRight, nil
	case "justify", "justified":
		return AlignJustify, nil
	case "", "inherit":
		return AlignInherit, nil
	}
	return AlignInherit, fmt.Errorf("未知的对齐方式 %q", v)
}

// Style 是一个样式增量：零值字段表示“继承”。
// Bold/Italic 只能被打开，合并时不会被子样式关闭。
type Style struct {
	Family      string    `json:"family,omitempty"`
	Size        float64   `json:"size,omitempty"`        // pt
	LineSpacing float64   `json:"lineSpacing,omitempty"` // 行高倍数
	Color       *Color    `json:"color,omitempty"`
	Align       Alignment `json:"align,omitempty"`
	Bold        bool      `json:"bold,omitempty"`
	Italic      bool      `json:"italic,omitempty"`
}

// Merge 返回在 s 之上叠加 delta 后的样式。
func (s Style) Merge(delta Style) Style {
	if delta.Family != "" {
		s.Family = delta.Family
	}
	if delta.Size > 0 {
		s.Size = delta.Size
	}
	if delta.LineSpacing > 0 {
		s.LineSpacing = delta.LineSpacing
	}
	if delta.Color != nil {
		c := *delta.Color
		s.Color = &c
	}
	if delta.Align != AlignInherit {
		s.Align = delta.Align
	}
	s.Bold = s.Bold || delta.Bold
	s.Italic = s.Italic || delta.Italic
	return s
}

// IsZero 判断增量是否不改变任何属性。
func (s Style) IsZero() bool {
	return s.Family == "" && s.Size == 0 && s.LineSpacing == 0 && s.Color == nil &&
		s.Align == AlignInherit && !s.Bold && !s.Italic
}

// TextColor 返回生效的文字颜色（未设置时为黑色）。
func (s Style) TextColor() Color {
	if s.Color == nil {
		return Black
	}
	return *s.Color
}

// WithColor 是构造样式时的便捷方法。
func (s Style) WithColor(c Color) Style {
	s.Color = &c
	return s
}

// LineStyle 描述线条（表格边框、分隔线）的粗细与颜色。
// 粗细为 0 时后端按 1px 细线处理。
type LineStyle struct {
	Thickness float64 `json:"thickness"` // mm
	Color     Color   `json:"color"`
}

// DefaultLineStyle 为 0.1mm 黑线。
func DefaultLineStyle() LineStyle {
	return LineStyle{Thickness: 0.1, Color: Black}
}
