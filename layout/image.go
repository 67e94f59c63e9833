package layout

import (
	"image"

	"github.com/ByLCY/folio/renderer"
	"github.com/ByLCY/folio/style"
	"github.com/ByLCY/folio/units"
)

// DefaultDPI 用于未指定宽度的图片，将像素换算为毫米。
const DefaultDPI = 300.0

// ImageDecoder 把图片字节解码为像素数据与格式名。
type ImageDecoder interface {
	Decode(data []byte) (image.Image, string, error)
}

// configDecoder 额外提供原始像素尺寸。解码时被缩小的图片按原始尺寸换算物理大小。
type configDecoder interface {
	DecodeConfig(data []byte) (image.Config, string, error)
}

// Image 是不可拆分的位图元素。
type Image struct {
	img    image.Image
	format string
	// 原始像素尺寸，为 0 时取 img 的尺寸
	srcW, srcH int
	// Width 为显示宽度（mm），0 时按 DPI 换算；超过区域宽度时等比缩小。
	Width float64
	DPI   float64
	Align style.Alignment
}

// NewImage 用 dec 解码 data。dec 为空表示未启用图片解码，构建即失败。
func NewImage(data []byte, dec ImageDecoder) (*Image, error) {
	if dec == nil {
		return nil, constructionError("image", ErrFeatureDisabled, "未配置图片解码器")
	}
	if len(data) == 0 {
		return nil, constructionError("image", ErrInvalidElement, "图片数据为空")
	}
	img, format, err := dec.Decode(data)
	if err != nil {
		return nil, constructionError("image", err, "解码失败")
	}
	el, err := NewImageFrom(img, format)
	if err != nil {
		return nil, err
	}
	if cd, ok := dec.(configDecoder); ok {
		if cfg, _, err := cd.DecodeConfig(data); err == nil && cfg.Width > 0 && cfg.Height > 0 {
			el.srcW, el.srcH = cfg.Width, cfg.Height
		}
	}
	return el, nil
}

// NewImageFrom 使用已解码的图片。
func NewImageFrom(img image.Image, format string) (*Image, error) {
	if img == nil {
		return nil, constructionError("image", ErrInvalidElement, "图片为空")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, constructionError("image", ErrInvalidElement, "图片尺寸为 %dx%d", b.Dx(), b.Dy())
	}
	return &Image{img: img, format: format}, nil
}

// Pixels 返回原始像素尺寸，解码时的缩小不计入。
func (i *Image) Pixels() (int, int) {
	if i.srcW > 0 && i.srcH > 0 {
		return i.srcW, i.srcH
	}
	b := i.img.Bounds()
	return b.Dx(), b.Dy()
}

// Size 返回在宽度为 maxWidth 的区域中的显示尺寸（mm）。
func (i *Image) Size(maxWidth float64) (float64, float64) {
	px, py := i.Pixels()
	w := i.Width
	if w <= 0 {
		dpi := i.DPI
		if dpi <= 0 {
			dpi = DefaultDPI
		}
		w = float64(px) / dpi * units.MmPerInch
	}
	if maxWidth > 0 && w > maxWidth {
		w = maxWidth
	}
	return w, w * float64(py) / float64(px)
}

func (i *Image) Kind() string { return "image" }

func (i *Image) render(_ *renderContext, area *Area, _ *style.Context, _ Continuation) (RenderResult, error) {
	w, h := i.Size(area.Width())
	if h > area.Remaining()+epsilon {
		if area.IsFresh() {
			return RenderResult{}, &LayoutError{
				Page: area.Page(), Element: i.Kind(), Needed: h, Available: area.Remaining(), Err: ErrOutOfSpace,
			}
		}
		return RenderResult{Next: Deferred{}}, nil
	}
	var x float64
	switch i.Align {
	case style.AlignCenter:
		x = (area.Width() - w) / 2
	case style.AlignRight:
		x = area.Width() - w
	}
	area.DrawImage(renderer.Point{X: x, Y: area.Cursor()}, w, h, i.img, i.format)
	if err := area.Advance(h); err != nil {
		return RenderResult{}, err
	}
	return RenderResult{Height: h}, nil
}
