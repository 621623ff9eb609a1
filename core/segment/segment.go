// Package segment implements the citation segment model and its interval
// algebra: the five reference shapes (single verse, verse range, chapter
// range, whole chapter, chapter range) plus the overlap/containment
// predicates used to apply inside/outside passage constraints.
package segment

import (
	"fmt"
	"strconv"
)

// Kind discriminates the five segment shapes described in spec.md §3.
type Kind uint8

const (
	// KindChapterVerse is a single chapter:verse reference, e.g. `1:2`.
	KindChapterVerse Kind = iota
	// KindChapterVerseRange is a verse range within one chapter, e.g. `1:2-3`.
	KindChapterVerseRange
	// KindChapterRange crosses a chapter boundary, e.g. `1:2-3:4`.
	KindChapterRange
	// KindFullChapter is a whole chapter, e.g. `1`.
	KindFullChapter
	// KindFullChapterRange is a whole-chapter range, e.g. `1-2`.
	KindFullChapterRange
)

func (k Kind) String() string {
	switch k {
	case KindChapterVerse:
		return "ChapterVerse"
	case KindChapterVerseRange:
		return "ChapterVerseRange"
	case KindChapterRange:
		return "ChapterRange"
	case KindFullChapter:
		return "FullChapter"
	case KindFullChapterRange:
		return "FullChapterRange"
	default:
		return "Unknown"
	}
}

// Segment is a single citation range. It is a tagged-union value type: the
// Kind field picks out which combination of Start/End fields are
// meaningful. Whole-chapter shapes (FullChapter, FullChapterRange) have no
// ending verse — HasEndVerse is false and EndVerse extends implicitly to
// "end of chapter".
//
// Construct values with the New* functions rather than building a Segment
// literal directly: they apply the degenerate-case collapsing required by
// spec.md §3 (a same-chapter ChapterRange becomes a ChapterVerseRange, and
// a zero-width ChapterVerseRange becomes a ChapterVerse).
type Segment struct {
	Kind Kind

	StartChapter uint8
	StartVerse   uint8 // meaningless (0) for FullChapter/FullChapterRange
	EndChapter   uint8
	EndVerse     uint8
	HasEndVerse  bool

	// StartSubverse is an optional trailing letter (a-d) on the starting
	// verse number, e.g. the `b` in `28:18b`. It has no bearing on
	// ordering or overlap (GLOSSARY: Subverse).
	StartSubverse byte
}

// NewChapterVerse builds a `ch:v` segment.
func NewChapterVerse(chapter, verse uint8) Segment {
	return Segment{Kind: KindChapterVerse, StartChapter: chapter, StartVerse: verse, EndChapter: chapter, EndVerse: verse, HasEndVerse: true}
}

// NewChapterVerseWithSubverse builds a `ch:v` segment carrying a subverse letter.
func NewChapterVerseWithSubverse(chapter, verse uint8, subverse byte) Segment {
	s := NewChapterVerse(chapter, verse)
	s.StartSubverse = subverse
	return s
}

// NewChapterVerseRange builds a `ch:vStart-vEnd` segment, collapsing to a
// ChapterVerse when the endpoints coincide.
func NewChapterVerseRange(chapter, startVerse, endVerse uint8) Segment {
	if startVerse == endVerse {
		return NewChapterVerse(chapter, startVerse)
	}
	return Segment{Kind: KindChapterVerseRange, StartChapter: chapter, StartVerse: startVerse, EndChapter: chapter, EndVerse: endVerse, HasEndVerse: true}
}

// NewChapterRange builds a `chStart:vStart-chEnd:vEnd` segment, collapsing
// to a ChapterVerseRange (and further to ChapterVerse) when the chapters
// coincide.
func NewChapterRange(startChapter, startVerse, endChapter, endVerse uint8) Segment {
	if startChapter == endChapter {
		return NewChapterVerseRange(startChapter, startVerse, endVerse)
	}
	return Segment{Kind: KindChapterRange, StartChapter: startChapter, StartVerse: startVerse, EndChapter: endChapter, EndVerse: endVerse, HasEndVerse: true}
}

// NewFullChapter builds a whole-chapter segment, e.g. `1`.
func NewFullChapter(chapter uint8) Segment {
	return Segment{Kind: KindFullChapter, StartChapter: chapter, EndChapter: chapter}
}

// NewFullChapterRange builds a whole-chapter-range segment, e.g. `1-2`,
// collapsing to FullChapter when the endpoints coincide.
func NewFullChapterRange(startChapter, endChapter uint8) Segment {
	if startChapter == endChapter {
		return NewFullChapter(startChapter)
	}
	return Segment{Kind: KindFullChapterRange, StartChapter: startChapter, EndChapter: endChapter}
}

// StartingChapter returns the chapter the segment begins in.
func (s Segment) StartingChapter() uint8 { return s.StartChapter }

// StartingVerse returns the verse the segment begins at. For whole-chapter
// shapes this is 0 ("start of chapter").
func (s Segment) StartingVerse() uint8 { return s.StartVerse }

// EndingChapter returns the chapter the segment ends in.
func (s Segment) EndingChapter() uint8 { return s.EndChapter }

// EndingVerse returns the verse the segment ends at and whether that verse
// is bounded. An unbounded ending verse means "through the end of the
// chapter".
func (s Segment) EndingVerse() (uint8, bool) { return s.EndVerse, s.HasEndVerse }

// IsRange reports whether the segment spans more than a single point.
func (s Segment) IsRange() bool {
	switch s.Kind {
	case KindChapterVerse, KindFullChapter:
		return false
	default:
		return true
	}
}

// Compare implements the total order over (start_ch, start_v, end_ch, end_v).
func (s Segment) Compare(other Segment) int {
	if d := cmpU8(s.StartChapter, other.StartChapter); d != 0 {
		return d
	}
	if d := cmpU8(s.StartVerse, other.StartVerse); d != 0 {
		return d
	}
	if d := cmpU8(s.EndChapter, other.EndChapter); d != 0 {
		return d
	}
	return cmpEndVerse(s.EndVerse, s.HasEndVerse, other.EndVerse, other.HasEndVerse)
}

func cmpU8(a, b uint8) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// cmpEndVerse treats an absent ending verse as "greater than any bounded
// verse in the same chapter" (it extends to the end of the chapter).
func cmpEndVerse(a uint8, aHas bool, b uint8, bHas bool) int {
	switch {
	case aHas && bHas:
		return cmpU8(a, b)
	case !aHas && !bHas:
		return 0
	case !aHas:
		return 1
	default:
		return -1
	}
}

// endsBefore implements spec.md §4.2's `ends_before` relation.
func (s Segment) endsBefore(other Segment) bool {
	if s.EndChapter < other.StartChapter {
		return true
	}
	if s.EndChapter == other.StartChapter && s.HasEndVerse && s.EndVerse < other.StartVerse {
		return true
	}
	return false
}

// OverlapsWith reports whether the two segments share any point.
func (s Segment) OverlapsWith(other Segment) bool {
	return !(s.endsBefore(other) || other.endsBefore(s))
}

// startAtOrBefore reports whether s's start point is <= other's start point.
func startAtOrBefore(aCh, aV, bCh, bV uint8) bool {
	if aCh != bCh {
		return aCh < bCh
	}
	return aV <= bV
}

// endAtOrAfter reports whether a's end point is >= b's end point, honoring
// the "unbounded end covers anything in the same chapter" convention.
func endAtOrAfter(aCh uint8, aV uint8, aHas bool, bCh uint8, bV uint8, bHas bool) bool {
	if aCh != bCh {
		return aCh > bCh
	}
	if !aHas {
		return true
	}
	if !bHas {
		return false
	}
	return aV >= bV
}

// FullyContains reports whether s's range fully contains other's range.
func (s Segment) FullyContains(other Segment) bool {
	startsOK := startAtOrBefore(s.StartChapter, s.StartVerse, other.StartChapter, other.StartVerse)
	endsOK := endAtOrAfter(s.EndChapter, s.EndVerse, s.HasEndVerse, other.EndChapter, other.EndVerse, other.HasEndVerse)
	return startsOK && endsOK
}

// ChapterlessFormat renders the segment without its leading chapter number,
// used when joining consecutive same-chapter segments (spec.md §3 Segments
// display format).
func (s Segment) ChapterlessFormat() string {
	switch s.Kind {
	case KindChapterVerse:
		return s.verseString(s.StartVerse, s.StartSubverse)
	case KindChapterVerseRange:
		return fmt.Sprintf("%s-%d", s.verseString(s.StartVerse, s.StartSubverse), s.EndVerse)
	case KindChapterRange:
		return fmt.Sprintf("%s-%d:%d", s.verseString(s.StartVerse, s.StartSubverse), s.EndChapter, s.EndVerse)
	case KindFullChapter:
		return strconv.Itoa(int(s.StartChapter))
	case KindFullChapterRange:
		return fmt.Sprintf("%d-%d", s.StartChapter, s.EndChapter)
	default:
		return ""
	}
}

func (s Segment) verseString(verse uint8, subverse byte) string {
	if subverse == 0 {
		return strconv.Itoa(int(verse))
	}
	return fmt.Sprintf("%d%c", verse, subverse)
}

// String renders the segment's canonical form, e.g. "1:2-3" or "5-7".
func (s Segment) String() string {
	switch s.Kind {
	case KindChapterVerse:
		return fmt.Sprintf("%d:%s", s.StartChapter, s.verseString(s.StartVerse, s.StartSubverse))
	case KindChapterVerseRange:
		return fmt.Sprintf("%d:%s", s.StartChapter, s.ChapterlessFormat())
	case KindChapterRange:
		return fmt.Sprintf("%d:%s", s.StartChapter, s.ChapterlessFormat())
	case KindFullChapter, KindFullChapterRange:
		return s.ChapterlessFormat()
	default:
		return ""
	}
}

// sameStartingChapter reports whether two segments begin in the same
// chapter — used by Segments.String to decide verse-separator vs.
// chapter-separator joins.
func sameStartingChapter(a, b Segment) bool {
	return a.EndChapter == b.StartChapter
}
