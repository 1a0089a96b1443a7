package vault

import (
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"
)

// Matcher selects how search terms are compared against candidates.
type Matcher int

const (
	// MatchCaseInsensitive is a case-folded substring match.
	MatchCaseInsensitive Matcher = iota
	// MatchFuzzy matches non-contiguous subsequences ("bkng" hits
	// "Banking").
	MatchFuzzy
)

// matchContained decides whether one hierarchy item matches the term.
// Groupings match on name; entries match on username, url or title
// (revealed through the store); virtual roots always match.
func matchContained(ref Contained, term string, matcher Matcher) bool {
	if ref.kind == KindVirtualRoot {
		return true
	}
	if ref.kind == KindEntry {
		return matchEntry(ref.entry, term, matcher)
	}
	return matchString(ref.Name(), term, matcher)
}

func matchEntry(e *Entry, term string, matcher Matcher) bool {
	for _, get := range []func() (ValueRef, bool){e.Username, e.URL, e.Title} {
		ref, ok := get()
		if !ok {
			continue
		}
		value, err := ref.Reveal()
		if err != nil {
			continue
		}
		if matchString(value, term, matcher) {
			return true
		}
	}
	return false
}

func matchString(candidate, term string, matcher Matcher) bool {
	switch matcher {
	case MatchFuzzy:
		return len(fuzzy.Find(term, []string{candidate})) > 0
	default:
		// cases.Caser carries state, so fold with a fresh one per call
		fold := cases.Fold()
		return strings.Contains(fold.String(candidate), fold.String(term))
	}
}
