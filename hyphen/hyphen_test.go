package hyphen

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"

	"github.com/ByLCY/folio/layout"
)

var _ layout.Hyphenator = (*Registry)(nil)

func mustLoad(t *testing.T, patterns string, tag language.Tag) *Patterns {
	t.Helper()
	p, err := Load(strings.NewReader(patterns), tag)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return p
}

func TestBreaks(t *testing.T) {
	p := mustLoad(t, "a1b", language.English)
	cases := []struct {
		word string
		want []int
	}{
		{"xxxabxxx", []int{4}},
		{"XXXABXXX", []int{4}},    // patterns match after lower-casing
		{"(xxxabxxx),", []int{5}}, // punctuation shifts offsets but is never split
		{"xxxxxxxx", []int{}},     // no pattern applies
		{"...", nil},
	}
	for _, tc := range cases {
		t.Run(tc.word, func(t *testing.T) {
			got := p.Breaks(tc.word)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Breaks(%q) (-want +got):\n%s", tc.word, diff)
			}
		})
	}
}

func TestRegistryMatchesLocale(t *testing.T) {
	en := mustLoad(t, "a1b", language.English)
	de := mustLoad(t, "c1d", language.German)
	r := NewRegistry(en, de)

	if got := r.Hyphenate("xxxabxxx", "en-GB"); !cmp.Equal(got, []int{4}) {
		t.Fatalf("en-GB should use the English patterns, got %v", got)
	}
	if got := r.Hyphenate("xxxcdxxx", "de-AT"); !cmp.Equal(got, []int{4}) {
		t.Fatalf("de-AT should use the German patterns, got %v", got)
	}
	if got := r.Hyphenate("xxxabxxx", ""); !cmp.Equal(got, []int{4}) {
		t.Fatalf("empty locale should use the first set, got %v", got)
	}
	if _, err := r.Lookup("not a tag!"); err == nil {
		t.Fatalf("malformed locale should fail")
	}
	if diff := cmp.Diff([]string{"en", "de"}, tagNames(r.Languages())); diff != "" {
		t.Fatalf("languages (-want +got):\n%s", diff)
	}
}

func TestRegistryReplacesSameTag(t *testing.T) {
	r := NewRegistry(mustLoad(t, "a1b", language.English))
	r.Add(mustLoad(t, "c1d", language.English))
	if len(r.Languages()) != 1 {
		t.Fatalf("same tag should replace, got %v", r.Languages())
	}
	if got := r.Hyphenate("xxxcdxxx", "en"); !cmp.Equal(got, []int{4}) {
		t.Fatalf("replacement patterns not used, got %v", got)
	}
}

func TestEmptyRegistry(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Lookup("en"); !errors.Is(err, ErrNoPatterns) {
		t.Fatalf("expected ErrNoPatterns, got %v", err)
	}
	if got := r.Hyphenate("anything", "en"); got != nil {
		t.Fatalf("expected no breaks, got %v", got)
	}
}

func tagNames(tags []language.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.String()
	}
	return out
}
