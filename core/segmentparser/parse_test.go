package segmentparser

import (
	"testing"

	"github.com/basalt-labs/topos/core/segment"
)

func TestTryExtract(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{name: "chapter verse", input: "3:16 is great", want: "3:16", ok: true},
		{name: "range", input: "1:1-2:3", want: "1:1-2:3", ok: true},
		{name: "no leading number", input: "is great", ok: false},
		{name: "roman numeral chapter", input: "iii:16", want: "iii:16", ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TryExtract(tt.input)
			if ok != tt.ok {
				t.Fatalf("TryExtract(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("TryExtract(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseChapterVerseRange(t *testing.T) {
	got := Parse("1:1-2:3")
	want := segment.Segments{segment.NewChapterRange(1, 1, 2, 3)}
	if got.String() != want.String() {
		t.Errorf("Parse() = %v, want %v", got, want)
	}
}

func TestParseVerseOnlyCarriesChapter(t *testing.T) {
	got := Parse("3:16, 18")
	want := segment.Segments{
		segment.NewChapterVerse(3, 16),
		segment.NewChapterVerse(3, 18),
	}
	if got.String() != want.String() {
		t.Errorf("Parse() = %v, want %v", got, want)
	}
}

func TestParseFullChapterRange(t *testing.T) {
	got := Parse("1-3")
	want := segment.Segments{segment.NewFullChapterRange(1, 3)}
	if got.String() != want.String() {
		t.Errorf("Parse() = %v, want %v", got, want)
	}
}

func TestParseLoneNumberIsFullChapter(t *testing.T) {
	got := Parse("3")
	want := segment.Segments{segment.NewFullChapter(3)}
	if got.String() != want.String() {
		t.Errorf("Parse() = %v, want %v", got, want)
	}
}

func TestParseSubverseLetter(t *testing.T) {
	got := Parse("28:18b")
	if len(got) != 1 {
		t.Fatalf("Parse() len = %d, want 1", len(got))
	}
	if v, has := got[0].EndingVerse(); !has || v != 18 {
		t.Errorf("EndingVerse() = %d,%v, want 18,true", v, has)
	}
}

func TestParseLoneNumbersStayFullChaptersAcrossCommas(t *testing.T) {
	got := Parse("1,2")
	want := segment.Segments{
		segment.NewFullChapter(1),
		segment.NewFullChapter(2),
	}
	if got.String() != want.String() {
		t.Errorf("Parse() = %v, want %v", got, want)
	}
}

func TestParseFullChaptersThenVerseRangeSwitchesContext(t *testing.T) {
	got := Parse("1,2-4,5:1-3")
	want := segment.Segments{
		segment.NewFullChapter(1),
		segment.NewFullChapterRange(2, 4),
		segment.NewChapterVerseRange(5, 1, 3),
	}
	if got.String() != want.String() {
		t.Errorf("Parse() = %v, want %v", got, want)
	}
}

func TestParseOverflowRejected(t *testing.T) {
	got := Parse("999:1")
	if len(got) != 0 {
		t.Errorf("Parse(%q) = %v, want empty (overflow rejected)", "999:1", got)
	}
}

func TestParseStrictRequiresFullConsumption(t *testing.T) {
	if _, ok := ParseStrict("3:16 and more text"); ok {
		t.Errorf("ParseStrict() unexpectedly succeeded on trailing garbage")
	}
	if _, ok := ParseStrict("3:16"); !ok {
		t.Errorf("ParseStrict() unexpectedly failed on clean input")
	}
}

func TestParseSingle(t *testing.T) {
	seg, err := ParseSingle("3:16")
	if err != nil {
		t.Fatalf("ParseSingle() error = %v", err)
	}
	if seg.String() != "3:16" {
		t.Errorf("ParseSingle() = %v, want 3:16", seg)
	}

	if _, err := ParseSingle("3:16, 18"); err == nil {
		t.Error("ParseSingle() on multiple segments unexpectedly succeeded")
	}
	if _, err := ParseSingle("not a reference"); err == nil {
		t.Error("ParseSingle() on unparseable input unexpectedly succeeded")
	}
}
