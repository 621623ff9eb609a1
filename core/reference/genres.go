package reference

import (
	"encoding/json"

	"github.com/basalt-labs/topos/core/errors"
	"github.com/basalt-labs/topos/core/segment"
)

// Genre groups books under a shared title, possibly via subcategories
// (spec.md §3/§4.1).
type Genre struct {
	Title string
	Keys  []string
	Books map[segment.BookID]struct{}
}

type genreInput struct {
	Title         string   `json:"title"`
	Abbreviations []string `json:"abbreviations"`
	Books         []string `json:"books"`
	Subcategories []string `json:"subcategories"`
}

// buildGenres resolves the genre table against an already-built book
// lookup map, following spec.md §4.1 steps 2-3: unknown book names are
// silently skipped, and subcategories are unioned in a second pass with
// undefined subcategory names silently skipped.
func buildGenres(raw []byte, keyToBookID map[string]segment.BookID) (map[string]*Genre, error) {
	var inputs []genreInput
	if err := json.Unmarshal(raw, &inputs); err != nil {
		return nil, errors.NewParse("genres", "", err.Error())
	}

	byKey := make(map[string]*Genre, len(inputs))
	subcatsOf := make(map[string][]string, len(inputs))

	for _, in := range inputs {
		g := &Genre{
			Title: in.Title,
			Books: make(map[segment.BookID]struct{}),
		}
		for _, name := range in.Books {
			if id, ok := keyToBookID[normalizeKey(name)]; ok {
				g.Books[id] = struct{}{}
			}
		}

		keys := append([]string{in.Title}, in.Abbreviations...)
		g.Keys = keys

		titleKey := normalizeKey(in.Title)
		byKey[titleKey] = g
		for _, ab := range in.Abbreviations {
			byKey[normalizeKey(ab)] = g
		}
		subcatsOf[titleKey] = in.Subcategories
	}

	// Second pass: union in subcategory book sets, transitively. Resolution
	// is memoized per title key and guards against cycles defensively even
	// though the subcategory graph is cycle-free by construction.
	resolved := make(map[string]bool, len(subcatsOf))
	var resolve func(titleKey string, inProgress map[string]bool)
	resolve = func(titleKey string, inProgress map[string]bool) {
		if resolved[titleKey] || inProgress[titleKey] {
			return
		}
		inProgress[titleKey] = true
		g := byKey[titleKey]
		for _, sub := range subcatsOf[titleKey] {
			subKey := normalizeKey(sub)
			subGenre, ok := byKey[subKey]
			if !ok {
				continue
			}
			resolve(subKey, inProgress)
			for id := range subGenre.Books {
				g.Books[id] = struct{}{}
			}
		}
		resolved[titleKey] = true
	}
	for titleKey := range subcatsOf {
		resolve(titleKey, make(map[string]bool))
	}

	return byKey, nil
}
