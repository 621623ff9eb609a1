package reference

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/basalt-labs/topos/core/errors"
	"github.com/basalt-labs/topos/core/segment"
)

// Book is the display/lookup record for one canonical book, spec.md §3.
type Book struct {
	ID            segment.BookID
	DisplayName   string
	DisplayAbbrev string
	LookupKeys    []string
}

// bookInput mirrors the JSON shape documented in spec.md §6, accepting the
// listed key aliases for each field.
type bookInput struct {
	ID            segment.BookID
	DisplayName   string
	Abbreviation  string
	Abbreviations []string
}

func (b *bookInput) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if err := firstOf(raw, []string{"id", "num", "number"}, &b.ID); err != nil {
		return errors.NewParse("books", "", fmt.Sprintf("book id: %v", err))
	}
	if err := firstOf(raw, []string{"book", "name", "book_name", "display_name"}, &b.DisplayName); err != nil {
		return errors.NewParse("books", "", fmt.Sprintf("book name: %v", err))
	}
	if err := firstOf(raw, []string{"abbreviation", "abbr", "abbrv", "abbrev"}, &b.Abbreviation); err != nil {
		return errors.NewParse("books", "", fmt.Sprintf("book abbreviation: %v", err))
	}
	// abbreviations is optional
	_ = firstOf(raw, []string{"abbreviations", "abbrs", "abbrvs", "abbrevs"}, &b.Abbreviations)
	return nil
}

// firstOf tries each key in order and unmarshals the first one present into out.
func firstOf(raw map[string]json.RawMessage, keys []string, out interface{}) error {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			return json.Unmarshal(v, out)
		}
	}
	return fmt.Errorf("none of %v present", keys)
}

// normalizeKey implements spec.md §3's normalization: lowercase, trim, strip
// trailing '.', trim again.
func normalizeKey(s string) string {
	s = strings.ToLower(s)
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".")
	s = strings.TrimSpace(s)
	return s
}

// buildBooks parses the raw JSON book array into the Book table plus the
// normalized-key -> BookID lookup map. Fails on field errors or duplicate keys.
func buildBooks(raw []byte) ([]Book, map[string]segment.BookID, error) {
	var inputs []bookInput
	if err := json.Unmarshal(raw, &inputs); err != nil {
		return nil, nil, errors.NewParse("books", "", err.Error())
	}

	books := make([]Book, 0, len(inputs))
	keyToID := make(map[string]segment.BookID)

	registerKey := func(key string, id segment.BookID) error {
		norm := normalizeKey(key)
		if norm == "" {
			return nil
		}
		if existing, ok := keyToID[norm]; ok && existing != id {
			return errors.NewParse("books", "", fmt.Sprintf("duplicate lookup key %q (books %d and %d)", norm, existing, id))
		}
		keyToID[norm] = id
		return nil
	}

	for _, in := range inputs {
		if in.DisplayName == "" {
			return nil, nil, errors.NewParse("books", "", fmt.Sprintf("book %d missing display name", in.ID))
		}
		keys := make([]string, 0, 2+len(in.Abbreviations))
		keys = append(keys, in.DisplayName, in.Abbreviation)
		keys = append(keys, in.Abbreviations...)

		for _, k := range keys {
			if err := registerKey(k, in.ID); err != nil {
				return nil, nil, err
			}
		}

		books = append(books, Book{
			ID:            in.ID,
			DisplayName:   in.DisplayName,
			DisplayAbbrev: in.Abbreviation,
			LookupKeys:    keys,
		})
	}

	return books, keyToID, nil
}
