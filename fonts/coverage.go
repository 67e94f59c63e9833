package fonts

import (
	"fmt"
	"sort"
	"strings"
)

// Coverage reports how many distinct characters of a text a face can render.
type Coverage struct {
	Total   int
	Covered int
	Missing []rune
}

// Complete reports whether no character is missing.
func (c Coverage) Complete() bool { return len(c.Missing) == 0 }

// Percent returns the covered share in percent; an empty text is fully covered.
func (c Coverage) Percent() float64 {
	if c.Total == 0 {
		return 100
	}
	return float64(c.Covered) / float64(c.Total) * 100
}

// Coverage checks every distinct rune of text against f.
func (l *Library) Coverage(f Face, text string) Coverage {
	seen := map[rune]struct{}{}
	var cov Coverage
	for _, r := range text {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		cov.Total++
		if l.HasGlyph(f, r) {
			cov.Covered++
		} else {
			cov.Missing = append(cov.Missing, r)
		}
	}
	sort.Slice(cov.Missing, func(i, j int) bool { return cov.Missing[i] < cov.Missing[j] })
	return cov
}

// SetFallback registers families consulted, in order, for characters the
// primary family cannot render.
func (l *Library) SetFallback(family string, fallbacks ...string) error {
	if _, ok := l.families[family]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFamily, family)
	}
	for _, fb := range fallbacks {
		if _, ok := l.families[fb]; !ok {
			return fmt.Errorf("%w: fallback %s", ErrUnknownFamily, fb)
		}
	}
	l.fallbacks[family] = append([]string(nil), fallbacks...)
	return nil
}

// Run is a piece of text drawn with a single face.
type Run struct {
	Text string
	Face Face
}

// Segment splits text into runs so that each character uses the first face
// of the fallback chain of f that has a glyph for it. Whitespace stays with
// the preceding run. Characters no face covers stay with the primary face.
func (l *Library) Segment(f Face, text string) []Run {
	chain := l.fallbacks[f.Family]
	if len(chain) == 0 || text == "" {
		return []Run{{Text: text, Face: f}}
	}
	faces := make([]Face, 0, len(chain)+1)
	faces = append(faces, f)
	for _, name := range chain {
		fam := l.families[name]
		faces = append(faces, Face{Family: fam.Name, Variant: f.Variant, Handle: fam.Handle(f.Variant)})
	}
	pick := func(r rune) Face {
		for _, cand := range faces {
			if l.HasGlyph(cand, r) {
				return cand
			}
		}
		return f
	}

	var runs []Run
	var sb strings.Builder
	current := f
	started := false
	for _, r := range text {
		next := current
		if r != ' ' && r != '\t' {
			next = pick(r)
		}
		if started && next != current {
			runs = append(runs, Run{Text: sb.String(), Face: current})
			sb.Reset()
		}
		current = next
		started = true
		sb.WriteRune(r)
	}
	if sb.Len() > 0 {
		runs = append(runs, Run{Text: sb.String(), Face: current})
	}
	return runs
}
