// Package fonts measures text. It wraps golang.org/x/image/font/sfnt behind
// a small Provider interface, groups parsed fonts into families and caches
// measurements for the lifetime of one document.
package fonts

import (
	"errors"
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/folio/units"
)

var (
	// ErrInvalidFontData is returned when font bytes cannot be parsed.
	ErrInvalidFontData = errors.New("fonts: invalid font data")
	// ErrUnknownFont is returned for handles that were never loaded.
	ErrUnknownFont = errors.New("fonts: unknown font handle")
	// ErrUnknownFamily is returned when a style names a family that was not added.
	ErrUnknownFamily = errors.New("fonts: unknown font family")
)

// Handle identifies a font loaded into a Provider.
type Handle int

// VMetrics are the vertical metrics of a font at a given size, in mm.
// Descent is positive below the baseline.
type VMetrics struct {
	Ascent  float64 `json:"ascent"`
	Descent float64 `json:"descent"`
	LineGap float64 `json:"lineGap"`
}

// GlyphHeight is the distance between the highest ascender and the lowest descender.
func (m VMetrics) GlyphHeight() float64 { return m.Ascent + m.Descent }

// LineHeight is the glyph height plus the font's recommended line gap.
func (m VMetrics) LineHeight() float64 { return m.Ascent + m.Descent + m.LineGap }

// Measurement is the result of measuring a run of text.
type Measurement struct {
	Advance float64 `json:"advance"` // mm
	VMetrics
}

// Provider converts text and a size into advance widths and vertical metrics.
type Provider interface {
	Load(data []byte) (Handle, error)
	Measure(h Handle, text string, size float64) (Measurement, error)
	HasGlyph(h Handle, r rune) bool
}

// SFNTProvider implements Provider with golang.org/x/image/font/sfnt.
// It is not safe for concurrent use; rendering is single-threaded.
type SFNTProvider struct {
	fonts  []*sfnt.Font
	buffer sfnt.Buffer
}

var _ Provider = (*SFNTProvider)(nil)

// NewSFNTProvider returns an empty provider.
func NewSFNTProvider() *SFNTProvider { return &SFNTProvider{} }

// Load parses TrueType or OpenType data. The bytes must not be modified
// while the font is in use.
func (p *SFNTProvider) Load(data []byte) (Handle, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidFontData, err)
	}
	if f.UnitsPerEm() == 0 {
		return 0, fmt.Errorf("%w: font is not scalable", ErrInvalidFontData)
	}
	p.fonts = append(p.fonts, f)
	return Handle(len(p.fonts) - 1), nil
}

// Name returns the family name recorded in the font's name table.
func (p *SFNTProvider) Name(h Handle) (string, error) {
	f, err := p.font(h)
	if err != nil {
		return "", err
	}
	return f.Name(&p.buffer, sfnt.NameIDFamily)
}

// Measure returns the kerned advance of text at size (pt) together with the
// vertical metrics of the font at that size.
func (p *SFNTProvider) Measure(h Handle, text string, size float64) (Measurement, error) {
	f, err := p.font(h)
	if err != nil {
		return Measurement{}, err
	}
	ppem := fixed.Int26_6(size * 64)
	metrics, err := f.Metrics(&p.buffer, ppem, font.HintingNone)
	if err != nil {
		return Measurement{}, fmt.Errorf("fonts: metrics: %w", err)
	}

	var advance fixed.Int26_6
	var prev sfnt.GlyphIndex
	first := true
	for _, r := range text {
		idx, err := f.GlyphIndex(&p.buffer, r)
		if err != nil {
			return Measurement{}, fmt.Errorf("fonts: glyph index for %q: %w", r, err)
		}
		if !first {
			kern, err := f.Kern(&p.buffer, prev, idx, ppem, font.HintingNone)
			if err == nil {
				advance += kern
			} else if !errors.Is(err, sfnt.ErrNotFound) {
				return Measurement{}, fmt.Errorf("fonts: kern: %w", err)
			}
		}
		adv, err := f.GlyphAdvance(&p.buffer, idx, ppem, font.HintingNone)
		if err != nil {
			return Measurement{}, fmt.Errorf("fonts: advance for %q: %w", r, err)
		}
		advance += adv
		prev = idx
		first = false
	}

	ascent := fixedToMM(metrics.Ascent)
	descent := fixedToMM(metrics.Descent)
	gap := fixedToMM(metrics.Height) - ascent - descent
	if gap < 0 {
		gap = 0
	}
	return Measurement{
		Advance:  fixedToMM(advance),
		VMetrics: VMetrics{Ascent: ascent, Descent: descent, LineGap: gap},
	}, nil
}

// HasGlyph reports whether the font maps r to a glyph other than .notdef.
func (p *SFNTProvider) HasGlyph(h Handle, r rune) bool {
	f, err := p.font(h)
	if err != nil {
		return false
	}
	idx, err := f.GlyphIndex(&p.buffer, r)
	return err == nil && idx != 0
}

func (p *SFNTProvider) font(h Handle) (*sfnt.Font, error) {
	if h < 0 || int(h) >= len(p.fonts) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFont, h)
	}
	return p.fonts[h], nil
}

// at 72 dpi one pixel per em unit equals one point.
func fixedToMM(v fixed.Int26_6) float64 {
	return float64(v) / 64 * units.PtToMm
}
