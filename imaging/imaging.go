// Package imaging decodes raster images for layout.Image. PNG, JPEG and GIF
// come from the standard library; BMP, TIFF and WebP from golang.org/x/image.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrUnsupportedFormat is returned for data no registered decoder accepts.
	ErrUnsupportedFormat = errors.New("imaging: unsupported image format")
	// ErrEmptyImage is returned for empty input or images without pixels.
	ErrEmptyImage = errors.New("imaging: empty image")
)

// Options tunes decoding.
type Options struct {
	// MaxPixels caps width*height; larger images are down-scaled keeping the
	// aspect ratio. Zero means no cap.
	MaxPixels int
}

// Decoder implements layout.ImageDecoder.
type Decoder struct {
	opts Options
}

// NewDecoder returns a decoder using opts.
func NewDecoder(opts Options) *Decoder { return &Decoder{opts: opts} }

// Decode returns the pixels and the format name ("png", "jpeg", "bmp", ...).
func (d *Decoder) Decode(data []byte) (image.Image, string, error) {
	cfg, format, err := d.DecodeConfig(data)
	if err != nil {
		return nil, "", err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("解码 %s 图片失败: %w", format, err)
	}
	if d.opts.MaxPixels > 0 && cfg.Width*cfg.Height > d.opts.MaxPixels {
		img = downscale(img, d.opts.MaxPixels)
	}
	return img, format, nil
}

// DecodeConfig reads only the header.
func (d *Decoder) DecodeConfig(data []byte) (image.Config, string, error) {
	if len(data) == 0 {
		return image.Config{}, "", ErrEmptyImage
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if errors.Is(err, image.ErrFormat) {
		return image.Config{}, "", ErrUnsupportedFormat
	}
	if err != nil {
		return image.Config{}, "", fmt.Errorf("读取图片头失败: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return image.Config{}, "", fmt.Errorf("%w: %dx%d", ErrEmptyImage, cfg.Width, cfg.Height)
	}
	return cfg, format, nil
}

func downscale(src image.Image, maxPixels int) image.Image {
	b := src.Bounds()
	f := math.Sqrt(float64(maxPixels) / float64(b.Dx()*b.Dy()))
	w := max(1, int(float64(b.Dx())*f))
	h := max(1, int(float64(b.Dy())*f))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
