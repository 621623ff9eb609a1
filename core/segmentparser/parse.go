// Package segmentparser implements the two segment-parsing tiers described
// in spec.md §4.3: a fast, non-backtracking minimal parser used while
// scanning text for citations, and a verbose parser (parse_verbose.go) used
// by the completer to classify partially-typed input.
package segmentparser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/basalt-labs/topos/core/segment"
)

const (
	digitToken    = `[0-9]{1,3}`
	romanToken    = `[ivxlcIVXLC]{1,9}`
	subverseToken = `[a-dA-D]?`
	numberToken   = `(?:` + digitToken + `|` + romanToken + `)` + subverseToken
)

var (
	// segmentSpan matches the longest run of reference-segment syntax
	// anchored at the start of the string: a Number optionally followed by
	// repeated (delimiter, Number) pairs.
	segmentSpan = regexp.MustCompile(`^[ \t]*` + numberToken + `(?:[ \t]*[.,:;\-–—⸺][ \t]*` + numberToken + `)*`)

	allowedChars      = regexp.MustCompile(`[^0-9a-dA-Divxlc IVXLC,:;.\-–—⸺]+`)
	trailingNonDigits = regexp.MustCompile(`[^0-9a-dA-Divxlc]+$`)
	segSplitters      = regexp.MustCompile(`[,;]`)
	dashVariants      = strings.NewReplacer("–", "-", "—", "-", "⸺", "-")
)

// TryExtract returns the prefix of input that matches reference-segment
// syntax, per spec.md §4.5 step 2: the PassageMatcher consumes a leading
// '.' itself before calling this.
func TryExtract(input string) (string, bool) {
	m := segmentSpan.FindString(input)
	if m == "" {
		return "", false
	}
	return m, true
}

// Parse parses a segment-input string (the output of TryExtract, or any
// string the caller already knows to be segment syntax) into Segments. It
// never errors: unparseable input produces an empty Segments, matching
// spec.md §4.3's failure semantics for the minimal parser.
func Parse(input string) segment.Segments {
	sanitized := sanitize(input)
	if sanitized == "" {
		return nil
	}
	return parseReferenceSegments(sanitized)
}

// ParseStrict extracts and parses a whole string, failing if the string
// isn't entirely consumed by a single recognized span.
func ParseStrict(input string) (segment.Segments, bool) {
	span, ok := TryExtract(input)
	if !ok {
		return nil, false
	}
	segs := Parse(span)
	if len(segs) == 0 {
		return nil, false
	}
	return segs, true
}

// ParseSingle parses input as exactly one segment, failing if it produces
// zero segments or more than one — e.g. validating a single --inside/--outside
// passage argument, where silently keeping only the first segment would be
// surprising.
func ParseSingle(input string) (segment.Segment, error) {
	segs, ok := ParseStrict(input)
	if !ok || len(segs) == 0 {
		return segment.Segment{}, fmt.Errorf("no segment found in %q", input)
	}
	if len(segs) > 1 {
		return segment.Segment{}, fmt.Errorf("expected exactly one segment in %q, found %d", input, len(segs))
	}
	return segs[0], nil
}

// sanitize normalizes dash variants to '-', periods to ':' (so "Jn1.1"
// reads as "Jn1:1"), strips anything outside the reference-segment
// character set, and trims a trailing non-alphanumeric tail.
func sanitize(input string) string {
	s := dashVariants.Replace(input)
	s = strings.ReplaceAll(s, ".", ":")
	s = allowedChars.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, " ", "")
	s = trailingNonDigits.ReplaceAllString(s, "")
	return s
}

// parseReferenceSegments implements spec.md §4.3's contextual resolution
// over a sanitized, comma/semicolon-split stream of chapter:verse tokens.
func parseReferenceSegments(input string) segment.Segments {
	ranges := segSplitters.Split(input, -1)

	var chapter uint8 = 1
	checkForFullChapters := true
	var segments segment.Segments

	for _, r := range ranges {
		if r == "" {
			continue
		}
		if left, right, isRange := cutDash(r); isRange {
			if checkForFullChapters && !strings.Contains(left, ":") && !strings.Contains(right, ":") {
				start, _, ok1 := parseNumberToken(left)
				end, _, ok2 := parseNumberToken(right)
				if ok1 && ok2 {
					segments = append(segments, segment.NewFullChapterRange(start, end))
					chapter = end
					continue
				}
			}
			checkForFullChapters = false

			leftCh, leftV, leftHasCh := splitColon(left)
			rightCh, rightV, rightHasCh := splitColon(right)

			switch {
			case leftHasCh && rightHasCh:
				ch1, v1, ok1 := parseChapterVerse(leftCh, leftV)
				ch2, v2, ok2 := parseChapterVerse(rightCh, rightV)
				if !ok1 || !ok2 {
					return segments
				}
				chapter = ch2
				seg := segment.NewChapterRange(ch1, v1, chapter, v2)
				segments = append(segments, seg)
			case leftHasCh && !rightHasCh:
				ch1, v1, ok1 := parseChapterVerse(leftCh, leftV)
				v2, _, ok2 := parseNumberToken(right)
				if !ok1 || !ok2 {
					return segments
				}
				chapter = ch1
				segments = append(segments, segment.NewChapterVerseRange(chapter, v1, v2))
			case !leftHasCh && rightHasCh:
				v1, _, ok1 := parseNumberToken(left)
				ch2, v2, ok2 := parseChapterVerse(rightCh, rightV)
				if !ok1 || !ok2 {
					return segments
				}
				startChapter := chapter
				chapter = ch2
				segments = append(segments, segment.NewChapterRange(startChapter, v1, chapter, v2))
			default:
				v1, _, ok1 := parseNumberToken(left)
				v2, _, ok2 := parseNumberToken(right)
				if !ok1 || !ok2 {
					return segments
				}
				segments = append(segments, segment.NewChapterVerseRange(chapter, v1, v2))
			}
			continue
		}

		// not a range: either `ch:v` or a lone number
		if ch, v, hasCh := splitColon(r); hasCh {
			chVal, vVal, ok := parseChapterVerse(ch, v)
			if !ok {
				return segments
			}
			chapter = chVal
			segments = append(segments, segment.NewChapterVerse(chapter, vVal))
			checkForFullChapters = false
			continue
		}

		value, sub, ok := parseNumberToken(r)
		if !ok {
			return segments
		}
		if checkForFullChapters {
			chapter = value
			segments = append(segments, segment.NewFullChapter(chapter))
		} else {
			seg := segment.NewChapterVerseWithSubverse(chapter, value, sub)
			segments = append(segments, seg)
			checkForFullChapters = false
		}
	}
	return segments
}

// cutDash splits on the first '-', reporting whether one was found.
func cutDash(s string) (left, right string, ok bool) {
	i := strings.IndexByte(s, '-')
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

// splitColon splits a token on its first ':', reporting whether one was
// present. The left side still carries an optional subverse suffix if no
// colon is found (it's just a lone number).
func splitColon(s string) (left, right string, ok bool) {
	i := strings.IndexByte(s, ':')
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

// parseChapterVerse parses a "ch:v" pair, dropping any subverse on the
// chapter half (chapters never carry one) and preserving it on the verse.
func parseChapterVerse(ch, v string) (chapter, verse uint8, ok bool) {
	chVal, _, chOK := parseNumberToken(ch)
	vVal, _, vOK := parseNumberToken(v)
	if !chOK || !vOK {
		return 0, 0, false
	}
	return chVal, vVal, true
}

// parseNumberToken parses a Number token (digits or roman numeral, with an
// optional trailing subverse letter) per spec.md §4.3's grammar. Values
// outside [1, 255] are rejected rather than clamped, per spec.md §9.
func parseNumberToken(tok string) (value uint8, subverse byte, ok bool) {
	if tok == "" {
		return 0, 0, false
	}
	if v, err := strconv.ParseUint(tok, 10, 8); err == nil {
		return uint8(v), 0, true
	}
	if v, rok := parseRomanNumeral(tok); rok {
		return v, 0, true
	}

	last := tok[len(tok)-1]
	if isSubverseLetter(last) {
		rest := tok[:len(tok)-1]
		if v, err := strconv.ParseUint(rest, 10, 8); err == nil {
			return uint8(v), lower(last), true
		}
		if v, rok := parseRomanNumeral(rest); rok {
			return v, lower(last), true
		}
	}
	return 0, 0, false
}

func isSubverseLetter(b byte) bool {
	l := lower(b)
	return l >= 'a' && l <= 'd'
}
