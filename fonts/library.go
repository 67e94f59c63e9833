package fonts

import (
	"bytes"
	"fmt"
	"hash/maphash"
)

// Variant selects one member of a family.
type Variant uint8

const (
	Regular Variant = iota
	Bold
	Italic
	BoldItalic
)

// VariantOf maps bold/italic effects to a family member.
func VariantOf(bold, italic bool) Variant {
	switch {
	case bold && italic:
		return BoldItalic
	case bold:
		return Bold
	case italic:
		return Italic
	default:
		return Regular
	}
}

func (v Variant) String() string {
	switch v {
	case Bold:
		return "Bold"
	case Italic:
		return "Italic"
	case BoldItalic:
		return "BoldItalic"
	default:
		return "Regular"
	}
}

// Family is a regular, a bold, an italic and a bold italic font.
type Family struct {
	Name  string
	faces [4]Handle
}

// Handle returns the font used for variant v.
func (f *Family) Handle(v Variant) Handle { return f.faces[v] }

// Face identifies a concrete font: a family member plus the handle it was loaded as.
// Face values are comparable and are used as resource keys by backends.
type Face struct {
	Family  string
	Variant Variant
	Handle  Handle
}

// Key is a stable, human readable resource name for the face.
func (f Face) Key() string { return f.Family + "-" + f.Variant.String() }

// Library is the per-document font registry used for measurement.
// It keeps the raw bytes of every loaded font so that a backend can embed them.
type Library struct {
	provider      Provider
	families      map[string]*Family
	order         []string
	data          map[Handle][]byte
	loaded        map[uint64][]Handle
	seed          maphash.Seed
	fallbacks     map[string][]string
	defaultFamily string
	cache         *Cache
}

// NewLibrary creates an empty library measuring through p.
func NewLibrary(p Provider) *Library {
	l := &Library{
		provider:  p,
		families:  map[string]*Family{},
		data:      map[Handle][]byte{},
		loaded:    map[uint64][]Handle{},
		seed:      maphash.MakeSeed(),
		fallbacks: map[string][]string{},
	}
	l.cache = newCache(p)
	return l
}

// NewDefaultLibrary returns a library backed by an SFNTProvider with the
// built-in Go family registered as default.
func NewDefaultLibrary() (*Library, error) {
	l := NewLibrary(NewSFNTProvider())
	if _, err := l.AddBuiltin(); err != nil {
		return nil, err
	}
	return l, nil
}

// AddFamily loads the four members of a family. Missing bold/italic members
// fall back to regular (bold italic falls back to bold, then italic).
// The first family added becomes the default.
func (l *Library) AddFamily(name string, regular, bold, italic, boldItalic []byte) (*Family, error) {
	if name == "" {
		return nil, fmt.Errorf("fonts: family name is empty")
	}
	if len(regular) == 0 {
		return nil, fmt.Errorf("%w: family %s has no regular font", ErrInvalidFontData, name)
	}
	if len(boldItalic) == 0 {
		if len(bold) > 0 {
			boldItalic = bold
		} else {
			boldItalic = italic
		}
	}
	fam := &Family{Name: name}
	for i, data := range [4][]byte{regular, bold, italic, boldItalic} {
		if len(data) == 0 {
			data = regular
		}
		h, err := l.load(data)
		if err != nil {
			return nil, fmt.Errorf("fonts: family %s %s: %w", name, Variant(i), err)
		}
		fam.faces[i] = h
	}
	if _, ok := l.families[name]; !ok {
		l.order = append(l.order, name)
	}
	l.families[name] = fam
	if l.defaultFamily == "" {
		l.defaultFamily = name
	}
	return fam, nil
}

// load de-duplicates identical font data so a file shared by several
// variants or families is parsed and embedded only once.
func (l *Library) load(data []byte) (Handle, error) {
	sum := maphash.Bytes(l.seed, data)
	for _, h := range l.loaded[sum] {
		if bytes.Equal(l.data[h], data) {
			return h, nil
		}
	}
	h, err := l.provider.Load(data)
	if err != nil {
		return 0, err
	}
	l.data[h] = data
	l.loaded[sum] = append(l.loaded[sum], h)
	return h, nil
}

// SetDefault selects the family used by styles that name none.
func (l *Library) SetDefault(name string) error {
	if _, ok := l.families[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFamily, name)
	}
	l.defaultFamily = name
	return nil
}

// Default returns the name of the default family.
func (l *Library) Default() string { return l.defaultFamily }

// Families lists family names in the order they were added.
func (l *Library) Families() []string { return append([]string(nil), l.order...) }

// Face resolves a family name and effects to a concrete face.
// An empty name selects the default family.
func (l *Library) Face(family string, bold, italic bool) (Face, error) {
	if family == "" {
		family = l.defaultFamily
	}
	fam, ok := l.families[family]
	if !ok {
		return Face{}, fmt.Errorf("%w: %q", ErrUnknownFamily, family)
	}
	v := VariantOf(bold, italic)
	return Face{Family: fam.Name, Variant: v, Handle: fam.Handle(v)}, nil
}

// Data returns the raw bytes a face was loaded from.
func (l *Library) Data(f Face) ([]byte, bool) {
	data, ok := l.data[f.Handle]
	return data, ok
}

// Metrics returns the cached vertical metrics of f at size (pt).
func (l *Library) Metrics(f Face, size float64) (VMetrics, error) {
	return l.cache.metrics(f.Handle, size)
}

// TextWidth returns the cached advance of text in face f at size (pt).
func (l *Library) TextWidth(f Face, text string, size float64) (float64, error) {
	return l.cache.width(f.Handle, text, size)
}

// HasGlyph reports whether f can render r.
func (l *Library) HasGlyph(f Face, r rune) bool { return l.provider.HasGlyph(f.Handle, r) }

// CacheStats exposes the cache counters, mostly for tests and debugging.
func (l *Library) CacheStats() CacheStats { return l.cache.stats }
