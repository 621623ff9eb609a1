package filter

import (
	"testing"

	"github.com/basalt-labs/topos/core/reference"
	"github.com/basalt-labs/topos/core/segment"
)

func loadData(t *testing.T) *reference.Data {
	t.Helper()
	d, err := reference.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}
	return d
}

func bookID(t *testing.T, data *reference.Data, name string) segment.BookID {
	t.Helper()
	id, ok := data.LookupBook(name)
	if !ok {
		t.Fatalf("LookupBook(%q) not found", name)
	}
	return id
}

func TestBuilderDefaultsToEveryBook(t *testing.T) {
	data := loadData(t)
	m, err := NewBuilder(data).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(m.BookIDs) != 66 {
		t.Errorf("len(BookIDs) = %d, want 66", len(m.BookIDs))
	}
}

func TestBuilderFirstIncludeResetsUniverse(t *testing.T) {
	data := loadData(t)
	genesis := bookID(t, data, "Genesis")
	exodus := bookID(t, data, "Exodus")

	m, err := NewBuilder(data).
		Apply(Include(BookFilter{Name: "Genesis"})).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, ok := m.BookIDs[genesis]; !ok {
		t.Error("expected Genesis to be included")
	}
	if _, ok := m.BookIDs[exodus]; ok {
		t.Error("expected Exodus to be excluded after the first Include reset the universe")
	}
	if len(m.BookIDs) != 1 {
		t.Errorf("len(BookIDs) = %d, want 1", len(m.BookIDs))
	}
}

func TestBuilderSubsequentIncludesUnion(t *testing.T) {
	data := loadData(t)
	genesis := bookID(t, data, "Genesis")
	exodus := bookID(t, data, "Exodus")

	m, err := NewBuilder(data).
		Apply(Include(BookFilter{Name: "Genesis"})).
		Apply(Include(BookFilter{Name: "Exodus"})).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(m.BookIDs) != 2 {
		t.Fatalf("len(BookIDs) = %d, want 2", len(m.BookIDs))
	}
	if _, ok := m.BookIDs[genesis]; !ok {
		t.Error("expected Genesis to remain included")
	}
	if _, ok := m.BookIDs[exodus]; !ok {
		t.Error("expected Exodus to be unioned in")
	}
}

func TestBuilderExcludeSubtracts(t *testing.T) {
	data := loadData(t)
	genesis := bookID(t, data, "Genesis")

	m, err := NewBuilder(data).
		Apply(Include(GenreFilter{Name: "Pentateuch"})).
		Apply(Exclude(BookFilter{Name: "Genesis"})).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, ok := m.BookIDs[genesis]; ok {
		t.Error("expected Genesis to be excluded")
	}
	if len(m.BookIDs) != 4 {
		t.Errorf("len(BookIDs) = %d, want 4 (Pentateuch minus Genesis)", len(m.BookIDs))
	}
}

func TestBuilderTestamentFilter(t *testing.T) {
	data := loadData(t)
	m, err := NewBuilder(data).
		Apply(Include(TestamentFilter{Testament: segment.NewTestament})).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(m.BookIDs) != 27 {
		t.Errorf("len(BookIDs) = %d, want 27", len(m.BookIDs))
	}
	john := bookID(t, data, "John")
	if _, ok := m.BookIDs[john]; !ok {
		t.Error("expected John to be included in the New Testament filter")
	}
}

func TestComplexFilterKeepWithInside(t *testing.T) {
	data := loadData(t)
	john := bookID(t, data, "John")

	cf := ComplexFilter{
		InsideOf: []segment.Passage{
			{Book: john, Segments: segment.Segments{segment.NewFullChapter(3)}},
		},
	}

	inside := segment.Passage{Book: john, Segments: segment.Segments{segment.NewChapterVerse(3, 16)}}
	if !cf.Keep(inside) {
		t.Error("expected a passage overlapping the inside constraint to be kept")
	}

	outside := segment.Passage{Book: john, Segments: segment.Segments{segment.NewChapterVerse(4, 18)}}
	if cf.Keep(outside) {
		t.Error("expected a passage not overlapping the inside constraint to be dropped")
	}
}

func TestComplexFilterKeepWithOutside(t *testing.T) {
	data := loadData(t)
	john := bookID(t, data, "John")

	cf := ComplexFilter{
		OutsideOf: []segment.Passage{
			{Book: john, Segments: segment.Segments{segment.NewChapterVerse(3, 16)}},
		},
	}

	excluded := segment.Passage{Book: john, Segments: segment.Segments{segment.NewChapterVerse(3, 16)}}
	if cf.Keep(excluded) {
		t.Error("expected a passage overlapping the outside constraint to be dropped")
	}

	kept := segment.Passage{Book: john, Segments: segment.Segments{segment.NewChapterVerse(4, 18)}}
	if !cf.Keep(kept) {
		t.Error("expected a passage not overlapping the outside constraint to be kept")
	}
}

func TestComplexFilterKeepWithNoConstraints(t *testing.T) {
	data := loadData(t)
	john := bookID(t, data, "John")
	var cf ComplexFilter
	p := segment.Passage{Book: john, Segments: segment.Segments{segment.NewChapterVerse(3, 16)}}
	if !cf.Keep(p) {
		t.Error("expected an unconstrained ComplexFilter to keep everything")
	}
}
