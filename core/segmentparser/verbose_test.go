package segmentparser

import "testing"

func TestParseRomanNumeral(t *testing.T) {
	tests := []struct {
		in   string
		want uint8
		ok   bool
	}{
		{in: "i", want: 1, ok: true},
		{in: "iv", want: 4, ok: true},
		{in: "ix", want: 9, ok: true},
		{in: "xiv", want: 14, ok: true},
		{in: "XL", want: 40, ok: true},
		{in: "iii", want: 3, ok: true},
		{in: "", ok: false},
		{in: "iz", ok: false},
	}
	for _, tt := range tests {
		got, ok := parseRomanNumeral(tt.in)
		if ok != tt.ok {
			t.Fatalf("parseRomanNumeral(%q) ok = %v, want %v", tt.in, ok, tt.ok)
		}
		if ok && got != tt.want {
			t.Errorf("parseRomanNumeral(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTokenizeAndSplitTrailing(t *testing.T) {
	tokens, err := Tokenize("1:1, 2:")
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	complete, trailing := SplitTrailing(tokens)
	if Join(complete) != "1:1" {
		t.Errorf("Join(complete) = %q, want %q", Join(complete), "1:1")
	}
	if Join(trailing) != "2:" {
		t.Errorf("Join(trailing) = %q, want %q", Join(trailing), "2:")
	}
}

func TestSplitTrailingNoSeparator(t *testing.T) {
	tokens, err := Tokenize("1:")
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	complete, trailing := SplitTrailing(tokens)
	if len(complete) != 0 {
		t.Errorf("complete = %v, want empty", complete)
	}
	if Join(trailing) != "1:" {
		t.Errorf("Join(trailing) = %q, want %q", Join(trailing), "1:")
	}
}
