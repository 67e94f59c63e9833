package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/ByLCY/folio/layout"
)

var _ layout.ImageDecoder = (*Decoder)(nil)

func sample(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	return img
}

func TestDecodeFormats(t *testing.T) {
	src := sample(12, 7)
	encoders := []struct {
		format string
		encode func(*bytes.Buffer) error
	}{
		{"png", func(b *bytes.Buffer) error { return png.Encode(b, src) }},
		{"bmp", func(b *bytes.Buffer) error { return bmp.Encode(b, src) }},
		{"tiff", func(b *bytes.Buffer) error { return tiff.Encode(b, src, nil) }},
	}
	d := NewDecoder(Options{})
	for _, tc := range encoders {
		t.Run(tc.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tc.encode(&buf); err != nil {
				t.Fatal(err)
			}
			img, format, err := d.Decode(buf.Bytes())
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if format != tc.format {
				t.Fatalf("format = %q", format)
			}
			if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 7 {
				t.Fatalf("size = %v", b)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	d := NewDecoder(Options{})
	if _, _, err := d.Decode(nil); !errors.Is(err, ErrEmptyImage) {
		t.Fatalf("empty input: %v", err)
	}
	if _, _, err := d.Decode([]byte("definitely not an image")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("garbage input: %v", err)
	}
}

func TestDownscale(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, sample(200, 100)); err != nil {
		t.Fatal(err)
	}
	img, _, err := NewDecoder(Options{MaxPixels: 5000}).Decode(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	if b.Dx()*b.Dy() > 5000 {
		t.Fatalf("image not scaled down: %v", b)
	}
	if b.Dx() != 100 || b.Dy() != 50 {
		t.Fatalf("aspect ratio not kept: %v", b)
	}
}

func TestImageElementFromDecoder(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, sample(300, 150)); err != nil {
		t.Fatal(err)
	}
	el, err := layout.NewImage(buf.Bytes(), NewDecoder(Options{}))
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}
	// 300px at 300 DPI is one inch.
	if w, h := el.Size(0); math.Abs(w-25.4) > 1e-9 || math.Abs(h-12.7) > 1e-9 {
		t.Fatalf("size = %gx%g", w, h)
	}
	var ce *layout.ConstructionError
	if _, err := layout.NewImage([]byte("nope"), NewDecoder(Options{})); !errors.As(err, &ce) || !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("bad data should be a construction error, got %v", err)
	}
}

func TestDownscaleKeepsPrintedSize(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, sample(1000, 1000)); err != nil {
		t.Fatal(err)
	}
	full, err := layout.NewImage(buf.Bytes(), NewDecoder(Options{}))
	if err != nil {
		t.Fatal(err)
	}
	capped, err := layout.NewImage(buf.Bytes(), NewDecoder(Options{MaxPixels: 250000}))
	if err != nil {
		t.Fatal(err)
	}
	fw, fh := full.Size(0)
	cw, ch := capped.Size(0)
	if math.Abs(fw-cw) > 1e-9 || math.Abs(fh-ch) > 1e-9 {
		t.Fatalf("down-scaled image printed at %gx%g, original at %gx%g", cw, ch, fw, fh)
	}
	if px, py := capped.Pixels(); px != 1000 || py != 1000 {
		t.Fatalf("pixels = %dx%d, want the source size", px, py)
	}
}
