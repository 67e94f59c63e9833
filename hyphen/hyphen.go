// Package hyphen finds hyphenation points with Liang patterns
// (github.com/speedata/hyphenation) and picks the pattern set for a locale
// with golang.org/x/text/language.
package hyphen

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/speedata/hyphenation"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrNoPatterns is returned when a registry has nothing to hyphenate with.
var ErrNoPatterns = errors.New("hyphen: no patterns loaded")

// Patterns is one language's pattern set.
type Patterns struct {
	tag  language.Tag
	lang *hyphenation.Lang
}

// Load reads TeX-style patterns (one per whitespace separated token) for tag.
func Load(r io.Reader, tag language.Tag) (*Patterns, error) {
	l, err := hyphenation.New(r)
	if err != nil {
		return nil, fmt.Errorf("读取断字规则 %s 失败: %w", tag, err)
	}
	return &Patterns{tag: tag, lang: l}, nil
}

// LoadFile loads a patterns file for the BCP 47 locale.
func LoadFile(path, locale string) (*Patterns, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("无效的语言标记 %q: %w", locale, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开断字规则 %s 失败: %w", path, err)
	}
	defer f.Close()
	return Load(f, tag)
}

// Tag returns the language the patterns were loaded for.
func (p *Patterns) Tag() language.Tag { return p.tag }

// Breaks returns break offsets in runes, strictly increasing and inside the
// word. Leading and trailing punctuation is never split.
func (p *Patterns) Breaks(word string) []int {
	runes := []rune(word)
	lead, trail := 0, len(runes)
	for lead < trail && !unicode.IsLetter(runes[lead]) {
		lead++
	}
	for trail > lead && !unicode.IsLetter(runes[trail-1]) {
		trail--
	}
	core := string(runes[lead:trail])
	if core == "" {
		return nil
	}
	// Patterns are lower case. Lowering can change the rune count (e.g. "İ"),
	// in which case offsets would no longer line up with the input.
	if lowered := cases.Lower(p.tag).String(core); utf8.RuneCountInString(lowered) == trail-lead {
		core = lowered
	}
	offs := p.lang.Hyphenate(core)
	out := make([]int, 0, len(offs))
	for _, o := range offs {
		if o > 0 && o < trail-lead {
			out = append(out, o+lead)
		}
	}
	sort.Ints(out)
	return dedupe(out)
}

func dedupe(offs []int) []int {
	if len(offs) < 2 {
		return offs
	}
	out := offs[:1]
	for _, o := range offs[1:] {
		if o != out[len(out)-1] {
			out = append(out, o)
		}
	}
	return out
}

// Registry chooses pattern sets by locale. The first set added is used when
// the requested locale is empty. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	sets    []*Patterns
	matcher language.Matcher
}

// NewRegistry creates a registry holding sets.
func NewRegistry(sets ...*Patterns) *Registry {
	r := &Registry{}
	for _, p := range sets {
		r.Add(p)
	}
	return r
}

// Add registers p; a later set for the same tag replaces the earlier one.
func (r *Registry) Add(p *Patterns) {
	r.mu.Lock()
	defer r.mu.Unlock()
	replaced := false
	for i, s := range r.sets {
		if s.tag.String() == p.tag.String() {
			r.sets[i] = p
			replaced = true
		}
	}
	if !replaced {
		r.sets = append(r.sets, p)
	}
	tags := make([]language.Tag, len(r.sets))
	for i, s := range r.sets {
		tags[i] = s.tag
	}
	r.matcher = language.NewMatcher(tags)
}

// Languages lists the registered tags in insertion order.
func (r *Registry) Languages() []language.Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]language.Tag, len(r.sets))
	for i, s := range r.sets {
		out[i] = s.tag
	}
	return out
}

// Lookup returns the best pattern set for locale.
func (r *Registry) Lookup(locale string) (*Patterns, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.sets) == 0 {
		return nil, ErrNoPatterns
	}
	if locale == "" {
		return r.sets[0], nil
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("无效的语言标记 %q: %w", locale, err)
	}
	_, idx, conf := r.matcher.Match(tag)
	if conf == language.No {
		return nil, fmt.Errorf("%w for %s", ErrNoPatterns, tag)
	}
	return r.sets[idx], nil
}

// Hyphenate returns break offsets for word in locale, or nil when no
// pattern set matches.
func (r *Registry) Hyphenate(word, locale string) []int {
	p, err := r.Lookup(locale)
	if err != nil {
		return nil
	}
	return p.Breaks(word)
}
