// Package passagematcher implements the PassageMatcher scanning algorithm
// of spec.md §4.5: a one-match book-name lookahead over text, each
// candidate resolved into a citation by the minimal segment parser and
// filtered by a compiled Matcher's inside/outside constraints.
package passagematcher

import (
	"strings"
	"unicode/utf8"

	"github.com/basalt-labs/topos/core/filter"
	"github.com/basalt-labs/topos/core/segment"
	"github.com/basalt-labs/topos/core/segmentparser"
)

// Position is a 1-based line/column location, column counted by code
// point, per spec.md §4.5.
type Position struct {
	Line   int
	Column int
}

// ByteRange is the half-open [Start, End) byte offset of a match within the
// scanned input.
type ByteRange struct {
	Start int
	End   int
}

// Location pairs the human-facing line/column span with the raw byte
// range.
type Location struct {
	Start Position
	End   Position
	Bytes ByteRange
}

// Match is one recognized, filter-accepted citation.
type Match struct {
	Location Location
	Passage  segment.Passage
}

// Scan runs the PassageMatcher algorithm over input using the compiled
// matcher m, returning every Match that survives m's ComplexFilter.
func Scan(m *filter.Matcher, input string) []Match {
	lookup := newLineColLookup(input)

	idx := m.BookRegex.FindAllStringSubmatchIndex(input, -1)
	var matches []Match

	for i, loc := range idx {
		// loc[2:4] is capture group 1 (the book name itself, excluding the
		// trailing anchor digit consumed to disambiguate abbreviations).
		curStart, curEnd := loc[2], loc[3]

		var nextStart int
		hasNext := false
		if i+1 < len(idx) {
			nextStart = idx[i+1][2]
			hasNext = true
		}

		if match, ok := tryMatch(m, input, lookup, curStart, curEnd, nextStart, hasNext); ok {
			matches = append(matches, match)
		}
	}
	return matches
}

func tryMatch(m *filter.Matcher, input string, lookup *lineColLookup, curStart, curEnd, nextStart int, hasNext bool) (Match, bool) {
	bookID, ok := m.Data.LookupBook(input[curStart:curEnd])
	if !ok {
		return Match{}, false
	}

	windowEnd := len(input)
	if hasNext {
		windowEnd = nextStart
	}
	window := input[curEnd:windowEnd]
	window = strings.TrimPrefix(window, ".")
	consumedLeadingDot := len(input[curEnd:windowEnd]) - len(window)

	span, ok := segmentparser.TryExtract(window)
	if !ok {
		return Match{}, false
	}
	segments := segmentparser.Parse(span)
	if len(segments) == 0 {
		return Match{}, false
	}

	end := curEnd + consumedLeadingDot + len(span)
	passage := segment.Passage{Book: bookID, Segments: segments}
	if !m.ComplexFilter.Keep(passage) {
		return Match{}, false
	}

	loc := Location{
		Start: lookup.position(curStart),
		End:   lookup.position(end),
		Bytes: ByteRange{Start: curStart, End: end},
	}
	return Match{Location: loc, Passage: passage}, true
}

// lineColLookup precomputes the byte offset of every line start so that
// byte-offset -> (line, column) lookups are O(log n) via binary search.
type lineColLookup struct {
	lineStarts []int
	text       string
}

func newLineColLookup(text string) *lineColLookup {
	starts := []int{0}
	for i, b := range []byte(text) {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineColLookup{lineStarts: starts, text: text}
}

// position converts a byte offset into a 1-based line and a 1-based,
// code-point-indexed column.
func (l *lineColLookup) position(byteOffset int) Position {
	line := 0
	for i, start := range l.lineStarts {
		if start > byteOffset {
			break
		}
		line = i
	}
	lineStart := l.lineStarts[line]
	column := utf8.RuneCountInString(l.text[lineStart:byteOffset]) + 1
	return Position{Line: line + 1, Column: column}
}
