package reference

import "testing"

func loadTestData(t *testing.T) *Data {
	t.Helper()
	d, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}
	return d
}

func TestLoadDefaultParsesAll66Books(t *testing.T) {
	d := loadTestData(t)
	if len(d.Books) != 66 {
		t.Fatalf("len(Books) = %d, want 66", len(d.Books))
	}
}

func TestLookupBookByAliasAndAbbreviation(t *testing.T) {
	d := loadTestData(t)
	for _, name := range []string{"Genesis", "genesis", "Gen", "gen.", "  GN  "} {
		id, ok := d.LookupBook(name)
		if !ok || id != 1 {
			t.Errorf("LookupBook(%q) = (%d, %v), want (1, true)", name, id, ok)
		}
	}
	if _, ok := d.LookupBook("Nope"); ok {
		t.Errorf("LookupBook(%q) unexpectedly found", "Nope")
	}
}

func TestPentateuchGenreBoundaryScenarios(t *testing.T) {
	d := loadTestData(t)
	books, ok := d.GenreBooks("Pentateuch")
	if !ok {
		t.Fatalf("GenreBooks(Pentateuch) not found")
	}
	if len(books) != 5 {
		t.Fatalf("len(Pentateuch books) = %d, want 5", len(books))
	}
	genesisID, _ := d.LookupBook("Genesis")
	if _, ok := books[genesisID]; !ok {
		t.Errorf("expected Genesis in Pentateuch")
	}
}

func TestProphetsGenreIsUnionOfMajorAndMinor(t *testing.T) {
	d := loadTestData(t)
	major, ok := d.GenreBooks("Major Prophets")
	if !ok {
		t.Fatalf("GenreBooks(Major Prophets) not found")
	}
	minor, ok := d.GenreBooks("Minor Prophets")
	if !ok {
		t.Fatalf("GenreBooks(Minor Prophets) not found")
	}
	prophets, ok := d.GenreBooks("Prophets")
	if !ok {
		t.Fatalf("GenreBooks(Prophets) not found")
	}
	if len(prophets) != len(major)+len(minor) {
		t.Fatalf("len(Prophets) = %d, want %d (major) + %d (minor)", len(prophets), len(major), len(minor))
	}
	for id := range major {
		if _, ok := prophets[id]; !ok {
			t.Errorf("Prophets missing major-prophet book %d", id)
		}
	}
}

func TestUndefinedGenreSubcategoryIsSilentlySkipped(t *testing.T) {
	d := loadTestData(t)
	g, ok := d.GenreBooks("Does Not Exist")
	if !ok {
		t.Fatalf("GenreBooks(Does Not Exist) not found")
	}
	if len(g) != 0 {
		t.Fatalf("len(Does Not Exist books) = %d, want 0", len(g))
	}
}

func TestChapterCountAndLastVerse(t *testing.T) {
	d := loadTestData(t)
	genesisID, _ := d.LookupBook("Genesis")
	n, ok := d.ChapterCount(genesisID)
	if !ok || n != 50 {
		t.Fatalf("ChapterCount(Genesis) = (%d, %v), want (50, true)", n, ok)
	}
	v, ok := d.LastVerse(genesisID, 1)
	if !ok || v != 31 {
		t.Fatalf("LastVerse(Genesis, 1) = (%d, %v), want (31, true)", v, ok)
	}
	if _, ok := d.LastVerse(genesisID, 51); ok {
		t.Errorf("LastVerse(Genesis, 51) unexpectedly found")
	}
}

func TestBookNamePatternMatchesMultiWordAndNumberedBooks(t *testing.T) {
	d := loadTestData(t)
	re := d.BookNamePattern()
	for _, text := range []string{"See John 3:16", "1 Corinthians 13", "Gen. 1:1"} {
		if !re.MatchString(text) {
			t.Errorf("BookNamePattern() did not match %q", text)
		}
	}
}
