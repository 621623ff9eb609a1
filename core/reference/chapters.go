package reference

import (
	"encoding/json"
	"fmt"

	"github.com/basalt-labs/topos/core/errors"
	"github.com/basalt-labs/topos/core/segment"
)

// buildChapters parses the raw chapter-length JSON (book name -> []verse
// count) and rekeys it against the already-built book lookup map so chapter
// data can be found under any of a book's alias keys.
func buildChapters(raw []byte, keyToBookID map[string]segment.BookID) (map[segment.BookID][]uint8, error) {
	var named map[string][]int
	if err := json.Unmarshal(raw, &named); err != nil {
		return nil, errors.NewParse("chapter_lengths", "", err.Error())
	}

	out := make(map[segment.BookID][]uint8, len(named))
	for name, verses := range named {
		id, ok := keyToBookID[normalizeKey(name)]
		if !ok {
			return nil, errors.NewParse("chapter_lengths", "", fmt.Sprintf("unknown book %q", name))
		}
		counts := make([]uint8, len(verses))
		for i, v := range verses {
			if v < 0 || v > 255 {
				return nil, errors.NewParse("chapter_lengths", "", fmt.Sprintf("%s chapter %d: verse count %d out of range", name, i+1, v))
			}
			counts[i] = uint8(v)
		}
		out[id] = counts
	}
	return out, nil
}
