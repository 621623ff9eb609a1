// Command topos searches text and files for scripture citations.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/basalt-labs/topos/core/filter"
	"github.com/basalt-labs/topos/core/passagematcher"
	"github.com/basalt-labs/topos/core/reference"
	"github.com/basalt-labs/topos/core/segment"
	"github.com/basalt-labs/topos/core/segmentparser"
	"github.com/basalt-labs/topos/internal/logging"
	"github.com/basalt-labs/topos/internal/output"
	"github.com/basalt-labs/topos/internal/walker"
)

const version = "0.1.0"

// CLI defines topos's full command-line surface, per spec.md §6.
var CLI struct {
	Input string `arg:"" optional:"" help:"File, directory, or literal text to scan; defaults to stdin or the current directory."`

	Testament        []string `name:"testament" short:"t" help:"Include a testament (old, new)."`
	ExcludeTestament []string `name:"exclude-testament" help:"Exclude a testament."`
	Genre            []string `name:"genre" short:"g" help:"Include a genre."`
	ExcludeGenre     []string `name:"exclude-genre" help:"Exclude a genre."`
	Book             []string `name:"book" short:"b" help:"Include a book."`
	ExcludeBook      []string `name:"exclude-book" help:"Exclude a book."`

	Inside  []string `name:"inside" short:"i" help:"Keep only matches overlapping this passage, e.g. 'John 3'."`
	Outside []string `name:"outside" short:"o" help:"Drop matches overlapping this passage."`

	Mode string `name:"mode" short:"m" default:"table" help:"Output mode: table, quickfix, json, count (aliases t, qf, j)."`

	Verbose bool `name:"verbose" short:"v" help:"Enable verbose logging."`
	Context int  `name:"context" short:"c" help:"Lines of context around each match (unused by core today)."`
	Before  int  `name:"before" help:"Lines of context before each match (unused by core today)."`
	After   int  `name:"after" help:"Lines of context after each match (unused by core today)."`

	DataDir string `name:"data-dir" type:"path" help:"Directory containing books.json/genres.json/chapter_lengths.json overrides."`

	Version kong.VersionFlag `name:"version" help:"Print version and exit."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("topos"),
		kong.Description("Find scripture citations in text and files."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	ctx.FatalIfErrorf(run())
}

func run() error {
	level := logging.LevelInfo
	if CLI.Verbose {
		level = logging.LevelDebug
	}
	logging.InitLogger(level, logging.FormatText)

	data, err := loadReferenceData()
	if err != nil {
		return fmt.Errorf("loading reference data: %w", err)
	}

	mode, ok := output.ParseMode(CLI.Mode)
	if !ok {
		return fmt.Errorf("unknown output mode %q", CLI.Mode)
	}

	m, err := buildMatcher(data)
	if err != nil {
		return fmt.Errorf("building filter: %w", err)
	}

	formatter := output.New(os.Stdout, mode, data)
	defer formatter.Flush()

	return dispatch(formatter, m)
}

func loadReferenceData() (*reference.Data, error) {
	if CLI.DataDir == "" {
		return reference.LoadDefault()
	}
	booksJSON, err := os.ReadFile(CLI.DataDir + "/books.json")
	if err != nil {
		return nil, err
	}
	genresJSON, err := os.ReadFile(CLI.DataDir + "/genres.json")
	if err != nil {
		return nil, err
	}
	chaptersJSON, err := os.ReadFile(CLI.DataDir + "/chapter_lengths.json")
	if err != nil {
		return nil, err
	}
	return reference.Load(booksJSON, genresJSON, chaptersJSON)
}

// buildMatcher folds the CLI's flags into a filter.Builder, applying
// includes before excludes within each category (testament, genre, book)
// and in that category order — kong does not preserve interleaving order
// across distinct repeatable flags, so the ordered Operation stream spec.md
// §4.4 describes is approximated by this fixed category order.
func buildMatcher(data *reference.Data) (*filter.Matcher, error) {
	b := filter.NewBuilder(data)

	for _, t := range CLI.Testament {
		b.Apply(filter.Include(filter.TestamentFilter{Testament: parseTestament(t)}))
	}
	for _, g := range CLI.Genre {
		b.Apply(filter.Include(filter.GenreFilter{Name: g}))
	}
	for _, bk := range CLI.Book {
		b.Apply(filter.Include(filter.BookFilter{Name: bk}))
	}
	for _, t := range CLI.ExcludeTestament {
		b.Apply(filter.Exclude(filter.TestamentFilter{Testament: parseTestament(t)}))
	}
	for _, g := range CLI.ExcludeGenre {
		b.Apply(filter.Exclude(filter.GenreFilter{Name: g}))
	}
	for _, bk := range CLI.ExcludeBook {
		b.Apply(filter.Exclude(filter.BookFilter{Name: bk}))
	}

	for _, raw := range CLI.Inside {
		p, err := parsePassage(data, raw)
		if err != nil {
			return nil, fmt.Errorf("--inside %q: %w", raw, err)
		}
		b.Inside(p)
	}
	for _, raw := range CLI.Outside {
		p, err := parsePassage(data, raw)
		if err != nil {
			return nil, fmt.Errorf("--outside %q: %w", raw, err)
		}
		b.Outside(p)
	}

	return b.Build()
}

func parseTestament(s string) segment.Testament {
	if strings.EqualFold(s, "new") {
		return segment.NewTestament
	}
	return segment.OldTestament
}

// parsePassage parses a "BookName segments" string such as "John 3" into a
// Passage, using the all-books regex to find the book and the minimal
// segment parser for the rest.
func parsePassage(data *reference.Data, s string) (segment.Passage, error) {
	loc := data.BookNamePattern().FindStringSubmatchIndex(s)
	if loc == nil {
		return segment.Passage{}, fmt.Errorf("no recognized book name")
	}
	name := s[loc[2]:loc[3]]
	bookID, ok := data.LookupBook(name)
	if !ok {
		return segment.Passage{}, fmt.Errorf("unknown book %q", name)
	}
	rest := s[loc[1]:]
	seg, err := segmentparser.ParseSingle(rest)
	if err != nil {
		return segment.Passage{}, err
	}
	return segment.Passage{Book: bookID, Segments: segment.Segments{seg}}, nil
}

// dispatch interprets CLI.Input per spec.md §6's positional-argument order:
// an existing file, an existing directory, non-empty literal text, piped
// stdin, or the current directory.
func dispatch(f *output.Formatter, m *filter.Matcher) error {
	switch {
	case CLI.Input != "":
		if info, err := os.Stat(CLI.Input); err == nil {
			if info.IsDir() {
				return scanDir(f, m, CLI.Input)
			}
			return scanFile(f, m, CLI.Input)
		}
		return scanText(f, m, CLI.Input)
	case stdinIsPiped():
		text, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		return scanText(f, m, string(text))
	default:
		return scanDir(f, m, ".")
	}
}

func stdinIsPiped() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) == 0
}

func scanText(f *output.Formatter, m *filter.Matcher, text string) error {
	f.StartFile("")
	for _, match := range passagematcher.Scan(m, text) {
		f.Match("", match)
	}
	f.EndFile("")
	return nil
}

func scanFile(f *output.Formatter, m *filter.Matcher, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		logging.Error("failed to read file", "path", path, "error", err)
		return nil
	}
	f.StartFile(path)
	for _, match := range passagematcher.Scan(m, string(data)) {
		f.Match(path, match)
	}
	f.EndFile(path)
	return nil
}

func scanDir(f *output.Formatter, m *filter.Matcher, root string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for pm := range walker.Walk(ctx, root, m) {
		path := ""
		if pm.Path != nil {
			path = *pm.Path
		}
		if pm.Err != nil {
			continue
		}
		f.StartFile(path)
		for _, match := range pm.Matches {
			f.Match(path, match)
		}
		f.EndFile(path)
	}
	return nil
}
