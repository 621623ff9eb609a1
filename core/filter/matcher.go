package filter

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/basalt-labs/topos/core/errors"
	"github.com/basalt-labs/topos/core/reference"
	"github.com/basalt-labs/topos/core/segment"
)

// Matcher is a compiled Filter: a book-name regex scoped to the selected
// BookIDs plus the ComplexFilter inside/outside constraints (spec.md §4.4).
type Matcher struct {
	Data          *reference.Data
	BookIDs       map[segment.BookID]struct{}
	BookRegex     *regexp.Regexp
	ComplexFilter ComplexFilter
}

// regexCache memoizes compiled book-name regexes across Matchers that
// happen to select the same set of books, keyed by a blake3 digest of the
// sorted id set (spec.md §4.4's "cache the compiled regex per filter" note).
var regexCache sync.Map // map[[32]byte]*regexp.Regexp

func newMatcher(data *reference.Data, ids map[segment.BookID]struct{}, cf ComplexFilter) (*Matcher, error) {
	re, err := compiledRegexFor(data, ids)
	if err != nil {
		return nil, err
	}
	return &Matcher{
		Data:          data,
		BookIDs:       ids,
		BookRegex:     re,
		ComplexFilter: cf,
	}, nil
}

func compiledRegexFor(data *reference.Data, ids map[segment.BookID]struct{}) (*regexp.Regexp, error) {
	digest := digestOf(ids)
	if cached, ok := regexCache.Load(digest); ok {
		return cached.(*regexp.Regexp), nil
	}

	keys := data.KeysForBooks(ids)
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	alts := make([]string, len(keys))
	for i, k := range keys {
		alts[i] = regexp.QuoteMeta(k)
	}
	// Trailing `\.?\s*\d` reduces false positives: a bare book-name
	// abbreviation only anchors a citation if followed by a digit.
	pattern := `(?i)\b(` + strings.Join(alts, "|") + `)\b\.?\s*\d`
	re, err := regexp.Compile(pattern)
	if err != nil {
		verr := errors.NewValidation("book_regex", "failed to compile book-name regex")
		verr.Err = err
		return nil, verr
	}

	regexCache.Store(digest, re)
	return re, nil
}

// digestOf computes a blake3 hash over the sorted numeric BookIDs, used as
// the regex cache key.
func digestOf(ids map[segment.BookID]struct{}) [32]byte {
	sorted := make([]byte, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, byte(id))
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return blake3.Sum256(sorted)
}
