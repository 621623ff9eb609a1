package segment

import "strings"

// BookID identifies a canonical book, an opaque integer in [1, 66].
// Genesis = 1, Matthew = 40, Revelation = 66.
type BookID uint8

// Testament partitions BookID ranges per spec.md §3.
type Testament uint8

const (
	OldTestament Testament = iota
	NewTestament
)

// TestamentOf returns which testament a BookID belongs to.
func TestamentOf(id BookID) Testament {
	if id <= 39 {
		return OldTestament
	}
	return NewTestament
}

// DefaultVerseSeparator and DefaultChapterSeparator are the Segments
// display-format joiners from spec.md §3.
const (
	DefaultVerseSeparator   = ","
	DefaultChapterSeparator = "; "
)

// Segments is an ordered sequence of Segment values belonging to one
// Passage.
type Segments []Segment

// Format renders the segments, joining contiguous same-chapter segments
// with verseSep and chapter-crossing segments with chapterSep.
func (s Segments) Format(verseSep, chapterSep string) string {
	if len(s) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(s[0].String())
	for i := 1; i < len(s); i++ {
		prev, cur := s[i-1], s[i]
		if sameStartingChapter(prev, cur) {
			b.WriteString(verseSep)
			b.WriteString(cur.ChapterlessFormat())
		} else {
			b.WriteString(chapterSep)
			b.WriteString(cur.String())
		}
	}
	return b.String()
}

// String renders the segments using the default separators.
func (s Segments) String() string {
	return s.Format(DefaultVerseSeparator, DefaultChapterSeparator)
}

// OverlapsWith reports whether any segment of s overlaps any segment of other.
func (s Segments) OverlapsWith(other Segments) bool {
	for _, a := range s {
		for _, b := range other {
			if a.OverlapsWith(b) {
				return true
			}
		}
	}
	return false
}

// FullyContains reports whether every segment of other is contained by some
// segment of s.
func (s Segments) FullyContains(other Segments) bool {
	for _, b := range other {
		contained := false
		for _, a := range s {
			if a.FullyContains(b) {
				contained = true
				break
			}
		}
		if !contained {
			return false
		}
	}
	return true
}

// Passage pairs a book with a set of segments within it.
type Passage struct {
	Book     BookID
	Segments Segments
}

// OverlapsWith reports whether two passages refer to the same book and
// share any point.
func (p Passage) OverlapsWith(other Passage) bool {
	if p.Book != other.Book {
		return false
	}
	return p.Segments.OverlapsWith(other.Segments)
}

// FullyContains reports whether p fully contains other (same book and every
// segment of other is covered by some segment of p).
func (p Passage) FullyContains(other Passage) bool {
	if p.Book != other.Book {
		return false
	}
	return p.Segments.FullyContains(other.Segments)
}

// String renders "Book Segments" using the book's default display name is
// left to callers that have access to ReferenceData; this only formats the
// segment portion.
func (p Passage) String() string {
	return p.Segments.String()
}
