// Package completer implements the citation autocomplete engine of
// spec.md §4.6: given a partial citation string, it resolves the book,
// classifies the trailing (possibly incomplete) token into one of six
// partial states, and generates the suggestion list.
package completer

import (
	"strconv"
	"strings"

	"github.com/basalt-labs/topos/core/reference"
	"github.com/basalt-labs/topos/core/segment"
	"github.com/basalt-labs/topos/core/segmentparser"
)

// PartialKind discriminates the six trailing-token states from spec.md §4.3.
type PartialKind uint8

const (
	// ChapterOrVerse is a single trailing number with no chapter-delimiter
	// context yet, e.g. "Genesis 2" or "Genesis 1:5, 2".
	ChapterOrVerse PartialKind = iota
	// ChapterOrVerseTo is "N-" or "N-M" awaiting a chapter/verse decision.
	ChapterOrVerseTo
	// ChapterVerse is "ch:" or "ch:v".
	ChapterVerse
	// ChapterVerseTo is "ch:v-" or "ch:v-n".
	ChapterVerseTo
	// ChapterRangeTo is "chStart-chEnd:" or "chStart-chEnd:v".
	ChapterRangeTo
	// ChapterVerseRangeTo is "ch:v-chEnd:" or "ch:v-chEnd:v".
	ChapterVerseRangeTo
)

// Partial is the classified trailing token, per spec.md §4.3/§4.6.
type Partial struct {
	Kind PartialKind

	Start  *uint8 // ChapterOrVerse / ChapterOrVerseTo.start
	End    *uint8 // ChapterOrVerseTo.end / ChapterVerseTo.end / ChapterRangeTo.v / ChapterVerseRangeTo.v
	Ch     uint8  // ChapterVerse.ch / ChapterVerseTo.ch
	V      *uint8 // ChapterVerse.v
	ChEnd  uint8  // ChapterRangeTo.ch_end / ChapterVerseRangeTo.ch_end
	VStart uint8  // ChapterVerseRangeTo.v_start
}

// Result is the completer's output: the resolved book, the segments
// already fully accepted, and the suggestion list for the trailing token.
type Result struct {
	Book            segment.BookID
	AcceptedSegments segment.Segments
	Suggestions     []segment.Segments
}

// Complete runs the full algorithm of spec.md §4.6 over a partial citation
// string whose cursor is implicitly at the end.
func Complete(data *reference.Data, input string) (*Result, bool) {
	bookName, rest, ok := lastBookOccurrence(data, input)
	if !ok {
		return nil, false
	}
	bookID, ok := data.LookupBook(bookName)
	if !ok {
		return nil, false
	}

	tokens, err := segmentparser.Tokenize(rest)
	if err != nil {
		tokens = nil
	}
	completeTokens, trailingTokens := segmentparser.SplitTrailing(tokens)
	accepted := segmentparser.Parse(segmentparser.Join(completeTokens))

	partial := classify(trailingTokens)

	chapterCount, ok := data.ChapterCount(bookID)
	if !ok {
		return nil, false
	}

	suggestions := suggest(data, bookID, accepted, partial, uint8(chapterCount))
	return &Result{Book: bookID, AcceptedSegments: accepted, Suggestions: suggestions}, true
}

// lastBookOccurrence finds the last book-name match in s using the
// all-books regex and returns the matched name and everything after it.
func lastBookOccurrence(data *reference.Data, s string) (name string, rest string, ok bool) {
	re := data.BookNamePattern()
	locs := re.FindAllStringSubmatchIndex(s, -1)
	if len(locs) == 0 {
		return "", "", false
	}
	last := locs[len(locs)-1]
	name = s[last[2]:last[3]]
	rest = s[last[1]:]
	return name, rest, true
}

// classify turns the trailing token run into one of the six partial
// states described in spec.md §4.3.
func classify(tokens []segmentparser.Token) Partial {
	nums := make([]uint8, 0, 4)
	for _, t := range tokens {
		if t.Kind == segmentparser.TokNumber {
			v, err := strconv.ParseUint(t.Text, 10, 8)
			if err != nil {
				continue
			}
			nums = append(nums, uint8(v))
		}
	}

	shape := tokenShape(tokens)
	switch shape {
	case "":
		return Partial{Kind: ChapterOrVerse}
	case "N":
		v := nums[0]
		return Partial{Kind: ChapterOrVerse, Start: &v}
	case "N-":
		v := nums[0]
		return Partial{Kind: ChapterOrVerseTo, Start: &v}
	case "N-N":
		v, e := nums[0], nums[1]
		return Partial{Kind: ChapterOrVerseTo, Start: &v, End: &e}
	case "N:":
		return Partial{Kind: ChapterVerse, Ch: nums[0]}
	case "N:N":
		v := nums[1]
		return Partial{Kind: ChapterVerse, Ch: nums[0], V: &v}
	case "N:N-":
		return Partial{Kind: ChapterVerseTo, Ch: nums[0], VStart: nums[1]}
	case "N:N-N":
		e := nums[2]
		return Partial{Kind: ChapterVerseTo, Ch: nums[0], VStart: nums[1], End: &e}
	case "N-N:":
		return Partial{Kind: ChapterRangeTo, Ch: nums[0], ChEnd: nums[1]}
	case "N-N:N":
		e := nums[2]
		return Partial{Kind: ChapterRangeTo, Ch: nums[0], ChEnd: nums[1], End: &e}
	case "N:N-N:":
		return Partial{Kind: ChapterVerseRangeTo, Ch: nums[0], VStart: nums[1], ChEnd: nums[2]}
	case "N:N-N:N":
		e := nums[3]
		return Partial{Kind: ChapterVerseRangeTo, Ch: nums[0], VStart: nums[1], ChEnd: nums[2], End: &e}
	default:
		return Partial{Kind: ChapterOrVerse}
	}
}

// tokenShape reduces a token run to a shape string ("N:N-N", etc.) for
// classification by simple string matching.
func tokenShape(tokens []segmentparser.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		switch t.Kind {
		case segmentparser.TokNumber:
			b.WriteByte('N')
		case segmentparser.TokColon:
			b.WriteByte(':')
		case segmentparser.TokDash:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// suggest generates the suggestion list per spec.md §4.6 step 6, appending
// each candidate segment to the already-accepted ones.
func suggest(data *reference.Data, book segment.BookID, accepted segment.Segments, p Partial, chapterCount uint8) []segment.Segments {
	lastVerse := func(ch uint8) uint8 {
		v, _ := data.LastVerse(book, ch)
		return v
	}

	var out []segment.Segments
	withAccepted := func(seg segment.Segment) segment.Segments {
		combined := make(segment.Segments, 0, len(accepted)+1)
		combined = append(combined, accepted...)
		combined = append(combined, seg)
		return combined
	}

	switch p.Kind {
	case ChapterOrVerse:
		if p.Start == nil && len(accepted) == 0 {
			for ch := uint8(1); ch <= chapterCount; ch++ {
				out = append(out, withAccepted(segment.NewFullChapter(ch)))
			}
			return out
		}
		if len(accepted) > 0 {
			last := accepted[len(accepted)-1]
			ch := last.EndingChapter()
			if v, has := last.EndingVerse(); has {
				for vv := v + 1; vv <= lastVerse(ch) && vv > v; vv++ {
					out = append(out, withAccepted(segment.NewChapterVerse(ch, vv)))
				}
			}
			for c := ch + 1; c <= chapterCount && c > ch; c++ {
				out = append(out, withAccepted(segment.NewFullChapter(c)))
			}
		}
		return out

	case ChapterOrVerseTo:
		if len(accepted) == 0 {
			start := uint8(1)
			if p.Start != nil {
				start = *p.Start
			}
			for ch := start + 1; ch <= chapterCount && ch > start; ch++ {
				out = append(out, withAccepted(segment.NewFullChapterRange(start, ch)))
			}
			return out
		}
		last := accepted[len(accepted)-1]
		ch := last.EndingChapter()
		start := uint8(1)
		if p.Start != nil {
			start = *p.Start
		}
		for v := start + 1; v <= lastVerse(ch) && v > start; v++ {
			out = append(out, withAccepted(segment.NewChapterVerseRange(ch, start, v)))
		}
		return out

	case ChapterVerse:
		for v := uint8(1); v <= lastVerse(p.Ch) && v >= 1; v++ {
			out = append(out, withAccepted(segment.NewChapterVerse(p.Ch, v)))
		}
		return out

	case ChapterVerseTo:
		for v := p.VStart + 1; v <= lastVerse(p.Ch) && v > p.VStart; v++ {
			out = append(out, withAccepted(segment.NewChapterVerseRange(p.Ch, p.VStart, v)))
		}
		for ch := p.Ch + 1; ch <= chapterCount && ch > p.Ch; ch++ {
			out = append(out, withAccepted(segment.NewChapterRange(p.Ch, p.VStart, ch, 1)))
		}
		return out

	case ChapterRangeTo:
		for v := uint8(1); v <= lastVerse(p.ChEnd) && v >= 1; v++ {
			out = append(out, withAccepted(segment.NewChapterRange(p.Ch, 1, p.ChEnd, v)))
		}
		return out

	case ChapterVerseRangeTo:
		for v := uint8(1); v <= lastVerse(p.ChEnd) && v >= 1; v++ {
			out = append(out, withAccepted(segment.NewChapterRange(p.Ch, p.VStart, p.ChEnd, v)))
		}
		return out
	}
	return out
}
