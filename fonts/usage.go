package fonts

import "sort"

// Usage collects the characters drawn with each face. A backend fills it
// while writing pages and can use it to decide which fonts to subset.
type Usage struct {
	runes map[Face]map[rune]struct{}
	order []Face
}

// NewUsage returns an empty collector.
func NewUsage() *Usage { return &Usage{runes: map[Face]map[rune]struct{}{}} }

// Add records every rune of text for f.
func (u *Usage) Add(f Face, text string) {
	set, ok := u.runes[f]
	if !ok {
		set = map[rune]struct{}{}
		u.runes[f] = set
		u.order = append(u.order, f)
	}
	for _, r := range text {
		set[r] = struct{}{}
	}
}

// Faces lists faces in first-use order.
func (u *Usage) Faces() []Face { return append([]Face(nil), u.order...) }

// Runes returns the sorted characters used with f.
func (u *Usage) Runes(f Face) []rune {
	set := u.runes[f]
	out := make([]rune, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Reset forgets everything.
func (u *Usage) Reset() {
	u.runes = map[Face]map[rune]struct{}{}
	u.order = nil
}
