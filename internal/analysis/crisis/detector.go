package crisis

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"
)

// ErrNoKeywords is returned when the keyword list is empty after normalization.
var ErrNoKeywords = errors.New("crisis detector needs at least one keyword")

// DefaultKeywords is the deny-list that triggers the crisis short-circuit.
var DefaultKeywords = []string{
	"suicide",
	"kill myself",
	"end my life",
	"want to die",
	"hurt myself",
	"hang myself",
	"overdose",
	"i will die",
}

// Detector reports whether a message contains one of the crisis keywords.
// Matching is case-insensitive and only accepts whole-word hits, so "overdose"
// matches "an overdose." but not "overdosed".
type Detector struct {
	matcher  *goahocorasick.Machine
	keywords []string
}

// NewDetector builds the automaton over the ASCII-lowercased keyword list.
// A nil or empty list falls back to DefaultKeywords.
func NewDetector(keywords []string) (*Detector, error) {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}

	normalized := lo.Uniq(lo.Compact(lo.Map(keywords, func(word string, _ int) string {
		return string(lowerRunes(strings.TrimSpace(word)))
	})))
	if len(normalized) == 0 {
		return nil, ErrNoKeywords
	}

	// the double-array trie wants its keys sorted
	sorted := append([]string(nil), normalized...)
	sort.Strings(sorted)
	patterns := make([][]rune, len(sorted))
	for i, word := range sorted {
		patterns[i] = lowerRunes(word)
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, fmt.Errorf("build crisis keyword matcher: %w", err)
	}
	return &Detector{matcher: m, keywords: normalized}, nil
}

// Keywords returns the normalized keyword list in use.
func (d *Detector) Keywords() []string {
	return append([]string(nil), d.keywords...)
}

// Match returns the first keyword found on word boundaries, if any.
func (d *Detector) Match(text string) (string, bool) {
	content := lowerRunes(text)
	if len(content) == 0 {
		return "", false
	}

	for _, term := range d.matcher.MultiPatternSearch(content, false) {
		start := term.Pos
		end := start + len(term.Word)
		if start < 0 || end > len(content) {
			continue
		}
		if atBoundary(content, start) && atBoundary(content, end) {
			return string(term.Word), true
		}
	}
	return "", false
}

// Detect is Match without the keyword.
func (d *Detector) Detect(text string) bool {
	_, ok := d.Match(text)
	return ok
}

// atBoundary mirrors the regexp \b assertion: exactly one side of pos is an
// ASCII word character.
func atBoundary(content []rune, pos int) bool {
	before := pos > 0 && isWordRune(content[pos-1])
	after := pos < len(content) && isWordRune(content[pos])
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || ('0' <= r && r <= '9') || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

// lowerRunes folds ASCII letters only. Full Unicode folding would turn the
// Kelvin sign into 'k' and 'İ' into 'i', which the regex \b(...)\b/i never matched.
func lowerRunes(s string) []rune {
	out := []rune(s)
	for i, r := range out {
		if 'A' <= r && r <= 'Z' {
			out[i] = r + ('a' - 'A')
		}
	}
	return out
}
