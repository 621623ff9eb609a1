// Package reference loads the canonical book, genre, and chapter-length
// tables and exposes the lookups the segment parser, filter builder, and
// completer are built on (spec.md §3/§6).
package reference

import (
	"embed"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/basalt-labs/topos/core/errors"
	"github.com/basalt-labs/topos/core/segment"
)

//go:embed data/books.json data/genres.json data/chapter_lengths.json
var defaultFS embed.FS

// Data is the compiled reference table: books, genres, and chapter lengths,
// plus the derived lookup structures built on top of them.
type Data struct {
	Books    []Book
	Genres   map[string]*Genre
	keyToID  map[string]segment.BookID
	chapters map[segment.BookID][]uint8

	booksByID map[segment.BookID]Book
	// bookRegex matches any recognized book key as a whole word, with an
	// optional trailing period, per spec.md §4.1 step 4.
	bookRegex *regexp.Regexp
}

// LoadDefault builds Data from the reference tables embedded in the binary.
func LoadDefault() (*Data, error) {
	books, err := defaultFS.ReadFile("data/books.json")
	if err != nil {
		return nil, errors.NewIO("read", "data/books.json", err)
	}
	genres, err := defaultFS.ReadFile("data/genres.json")
	if err != nil {
		return nil, errors.NewIO("read", "data/genres.json", err)
	}
	chapters, err := defaultFS.ReadFile("data/chapter_lengths.json")
	if err != nil {
		return nil, errors.NewIO("read", "data/chapter_lengths.json", err)
	}
	return load(books, genres, chapters)
}

// Load builds Data from caller-supplied JSON documents, e.g. when a user
// overrides the reference tables with --data-dir.
func Load(booksJSON, genresJSON, chapterLengthsJSON []byte) (*Data, error) {
	return load(booksJSON, genresJSON, chapterLengthsJSON)
}

func load(booksJSON, genresJSON, chapterLengthsJSON []byte) (*Data, error) {
	books, keyToID, err := buildBooks(booksJSON)
	if err != nil {
		return nil, err
	}
	genres, err := buildGenres(genresJSON, keyToID)
	if err != nil {
		return nil, err
	}
	chapters, err := buildChapters(chapterLengthsJSON, keyToID)
	if err != nil {
		return nil, err
	}

	booksByID := make(map[segment.BookID]Book, len(books))
	for _, b := range books {
		booksByID[b.ID] = b
	}

	re, err := compileBookRegex(keyToID)
	if err != nil {
		return nil, err
	}

	return &Data{
		Books:     books,
		Genres:    genres,
		keyToID:   keyToID,
		chapters:  chapters,
		booksByID: booksByID,
		bookRegex: re,
	}, nil
}

// compileBookRegex builds the single alternation regex used to find book
// names inside free text, longest-key-first so "1 Corinthians" wins over
// "Corinthians" in the alternation (regexp/RE2 prefers the earliest
// alternative that matches, not the longest).
func compileBookRegex(keyToID map[string]segment.BookID) (*regexp.Regexp, error) {
	keys := make([]string, 0, len(keyToID))
	for k := range keyToID {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	alts := make([]string, len(keys))
	for i, k := range keys {
		alts[i] = regexp.QuoteMeta(k)
	}
	pattern := `(?i)\b(` + strings.Join(alts, "|") + `)\b\.?`
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.NewParse("books", "", fmt.Sprintf("failed to compile book regex: %v", err))
	}
	return re, nil
}

// LookupBook resolves a free-text book name/abbreviation to its BookID.
func (d *Data) LookupBook(name string) (segment.BookID, bool) {
	id, ok := d.keyToID[normalizeKey(name)]
	return id, ok
}

// Book returns the display record for a BookID.
func (d *Data) Book(id segment.BookID) (Book, bool) {
	b, ok := d.booksByID[id]
	return b, ok
}

// AllBooks returns every BookID in canonical order.
func (d *Data) AllBooks() []segment.BookID {
	ids := make([]segment.BookID, len(d.Books))
	for i, b := range d.Books {
		ids[i] = b.ID
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// GenreBooks resolves a genre name/abbreviation to its set of BookIDs
// (already transitively closed over subcategories).
func (d *Data) GenreBooks(name string) (map[segment.BookID]struct{}, bool) {
	g, ok := d.Genres[normalizeKey(name)]
	if !ok {
		return nil, false
	}
	return g.Books, true
}

// ChapterCount returns the number of chapters in a book.
func (d *Data) ChapterCount(id segment.BookID) (int, bool) {
	lens, ok := d.chapters[id]
	if !ok {
		return 0, false
	}
	return len(lens), true
}

// LastVerse returns the final verse number of a given chapter in a book.
func (d *Data) LastVerse(id segment.BookID, chapter uint8) (uint8, bool) {
	lens, ok := d.chapters[id]
	if !ok || chapter == 0 || int(chapter) > len(lens) {
		return 0, false
	}
	return lens[chapter-1], true
}

// BookNamePattern returns the compiled all-book-names alternation regex used
// to locate book references inside free text.
func (d *Data) BookNamePattern() *regexp.Regexp {
	return d.bookRegex
}

// KeysForBooks returns every lookup key belonging to the given BookIDs, used
// by a Matcher to compile a filter-scoped book-name regex (spec.md §4.4).
func (d *Data) KeysForBooks(ids map[segment.BookID]struct{}) []string {
	var keys []string
	for _, b := range d.Books {
		if _, ok := ids[b.ID]; !ok {
			continue
		}
		keys = append(keys, b.LookupKeys...)
	}
	return keys
}
