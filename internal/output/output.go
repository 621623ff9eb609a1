// Package output renders passagematcher.Match results in the formats
// spec.md §6 documents: quickfix, table, json, and count.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/basalt-labs/topos/core/reference"
	"github.com/basalt-labs/topos/core/passagematcher"
)

// Mode selects an output format.
type Mode uint8

const (
	ModeTable Mode = iota
	ModeQuickfix
	ModeJSON
	ModeCount
)

// ParseMode resolves a mode name or alias (spec.md §6: aliases j, t, qf).
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(s) {
	case "table", "t":
		return ModeTable, true
	case "quickfix", "qf":
		return ModeQuickfix, true
	case "json", "j":
		return ModeJSON, true
	case "count":
		return ModeCount, true
	default:
		return 0, false
	}
}

// Formatter streams per-file results to w in one of the supported formats.
type Formatter struct {
	w     io.Writer
	mode  Mode
	data  *reference.Data
	count int

	tableRows []tableRow
}

type tableRow struct {
	path  string
	line  int
	col   int
	verse string
}

// New builds a Formatter for the given mode, writing to w.
func New(w io.Writer, mode Mode, data *reference.Data) *Formatter {
	return &Formatter{w: w, mode: mode, data: data}
}

// StartFile signals the beginning of a file's match stream (path is empty
// for synchronous text/single-buffer input).
func (f *Formatter) StartFile(path string) {
	if f.mode == ModeJSON {
		f.writeJSON(map[string]any{"type": "start", "path": path})
	}
}

// Match renders one match belonging to the current file.
func (f *Formatter) Match(path string, m passagematcher.Match) {
	f.count++
	book, _ := f.data.Book(m.Passage.Book)
	verse := fmt.Sprintf("%s %s", book.DisplayName, m.Passage.Segments.String())

	switch f.mode {
	case ModeQuickfix:
		fmt.Fprintf(f.w, "%s:%d:%d: %s\n", path, m.Location.Start.Line, m.Location.Start.Column, verse)
	case ModeTable:
		f.tableRows = append(f.tableRows, tableRow{
			path:  path,
			line:  m.Location.Start.Line,
			col:   m.Location.Start.Column,
			verse: verse,
		})
	case ModeJSON:
		f.writeJSON(map[string]any{
			"type": "match",
			"path": path,
			"line": m.Location.Start.Line,
			"col":  m.Location.Start.Column,
			"book": book.DisplayName,
			"verse": verse,
		})
	case ModeCount:
		// count mode only needs the running total, emitted at EndFile/Flush.
	}
}

// EndFile signals the end of a file's match stream.
func (f *Formatter) EndFile(path string) {
	if f.mode == ModeJSON {
		f.writeJSON(map[string]any{"type": "end", "path": path})
	}
}

// Flush renders any buffered output (the table's pipe-table body, or the
// count mode's final tally). Call once after every file has been
// processed.
func (f *Formatter) Flush() {
	switch f.mode {
	case ModeTable:
		f.flushTable()
	case ModeCount:
		fmt.Fprintf(f.w, "%d\n", f.count)
	}
}

func (f *Formatter) flushTable() {
	fmt.Fprintln(f.w, "| File | Line | Col | Verse |")
	fmt.Fprintln(f.w, "|---|---|---|---|")
	for _, r := range f.tableRows {
		fmt.Fprintf(f.w, "| %s | %d | %d | %s |\n", r.path, r.line, r.col, r.verse)
	}
}

func (f *Formatter) writeJSON(v map[string]any) {
	enc := json.NewEncoder(f.w)
	_ = enc.Encode(v)
}
