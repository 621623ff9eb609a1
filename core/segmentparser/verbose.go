package segmentparser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// verboseLexer tokenizes the completer's input stream, distinguishing
// delimiter kinds (chapter vs. range vs. segment separator) that the
// minimal parser's sanitize step normally collapses away.
var verboseLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `[0-9]{1,3}|[ivxlcIVXLC]{1,9}`},
	{Name: "Subverse", Pattern: `[a-dA-D]`},
	{Name: "Colon", Pattern: `[:.]`},
	{Name: "Dash", Pattern: `[-–—⸺]`},
	{Name: "Sep", Pattern: `[,;]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// rawToken captures one lexeme's kind without interpreting it: the
// structural resolution (which number is a chapter vs. a verse) is context
// dependent and handled by the caller, the same way the minimal parser
// resolves it.
type rawToken struct {
	Number   *string `  @Number`
	Subverse *string `| @Subverse`
	Colon    *string `| @Colon`
	Dash     *string `| @Dash`
	Sep      *string `| @Sep`
}

// tokenStream is the top-level grammar: a flat run of tokens.
type tokenStream struct {
	Tokens []*rawToken `@@*`
}

var verboseParser = participle.MustBuild[tokenStream](
	participle.Lexer(verboseLexer),
	participle.Elide("Whitespace"),
)

// TokenKind discriminates a lexeme in a tokenized verbose-parse stream.
type TokenKind uint8

const (
	TokNumber TokenKind = iota
	TokSubverse
	TokColon
	TokDash
	TokSep
)

// Token is one lexeme plus its source text.
type Token struct {
	Kind TokenKind
	Text string
}

// Tokenize lexes and parses s into a flat token stream using the verbose
// grammar, used by the completer to separate the trailing, possibly
// incomplete segment from the fully-formed segments preceding it.
func Tokenize(s string) ([]Token, error) {
	stream, err := verboseParser.ParseString("", s)
	if err != nil {
		return nil, err
	}
	tokens := make([]Token, 0, len(stream.Tokens))
	for _, t := range stream.Tokens {
		switch {
		case t.Number != nil:
			tokens = append(tokens, Token{Kind: TokNumber, Text: *t.Number})
		case t.Subverse != nil:
			tokens = append(tokens, Token{Kind: TokSubverse, Text: *t.Subverse})
		case t.Colon != nil:
			tokens = append(tokens, Token{Kind: TokColon, Text: *t.Colon})
		case t.Dash != nil:
			tokens = append(tokens, Token{Kind: TokDash, Text: *t.Dash})
		case t.Sep != nil:
			tokens = append(tokens, Token{Kind: TokSep, Text: *t.Sep})
		}
	}
	return tokens, nil
}

// SplitTrailing splits a tokenized stream at the last Sep, returning the
// text of every complete segment before it (rejoined with its original
// separators) and the trailing token run still being typed.
func SplitTrailing(tokens []Token) (complete []Token, trailing []Token) {
	lastSep := -1
	for i, t := range tokens {
		if t.Kind == TokSep {
			lastSep = i
		}
	}
	if lastSep == -1 {
		return nil, tokens
	}
	return tokens[:lastSep], tokens[lastSep+1:]
}

// Join renders a token slice back to source text (used to feed the
// "complete" prefix back into the minimal parser).
func Join(tokens []Token) string {
	var s string
	for _, t := range tokens {
		s += t.Text
	}
	return s
}
