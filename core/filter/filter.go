// Package filter implements the book-selection algebra described in
// spec.md §4.4: testament/genre/book filters composed through an ordered
// stream of Include/Exclude operations, plus compilation into a Matcher.
package filter

import (
	"github.com/basalt-labs/topos/core/reference"
	"github.com/basalt-labs/topos/core/segment"
)

// Filter resolves to a set of BookIDs against a loaded reference.Data.
type Filter interface {
	// IDs returns the BookIDs this filter selects.
	IDs(data *reference.Data) map[segment.BookID]struct{}
}

// TestamentFilter selects every book in one testament.
type TestamentFilter struct {
	Testament segment.Testament
}

// IDs implements Filter.
func (f TestamentFilter) IDs(data *reference.Data) map[segment.BookID]struct{} {
	out := make(map[segment.BookID]struct{})
	for _, id := range data.AllBooks() {
		if segment.TestamentOf(id) == f.Testament {
			out[id] = struct{}{}
		}
	}
	return out
}

// GenreFilter selects every book belonging to a named genre (and its
// transitively-closed subcategories).
type GenreFilter struct {
	Name string
}

// IDs implements Filter.
func (f GenreFilter) IDs(data *reference.Data) map[segment.BookID]struct{} {
	books, ok := data.GenreBooks(f.Name)
	if !ok {
		return map[segment.BookID]struct{}{}
	}
	out := make(map[segment.BookID]struct{}, len(books))
	for id := range books {
		out[id] = struct{}{}
	}
	return out
}

// BookFilter selects a single named book.
type BookFilter struct {
	Name string
}

// IDs implements Filter.
func (f BookFilter) IDs(data *reference.Data) map[segment.BookID]struct{} {
	out := make(map[segment.BookID]struct{})
	if id, ok := data.LookupBook(f.Name); ok {
		out[id] = struct{}{}
	}
	return out
}

// opKind discriminates an Include from an Exclude operation.
type opKind uint8

const (
	opInclude opKind = iota
	opExclude
)

// Operation is one step in the ordered stream fed to Builder: either
// Include(f) or Exclude(f).
type Operation struct {
	kind opKind
	f    Filter
}

// Include wraps f as an Include operation.
func Include(f Filter) Operation { return Operation{kind: opInclude, f: f} }

// Exclude wraps f as an Exclude operation.
func Exclude(f Filter) Operation { return Operation{kind: opExclude, f: f} }

// Builder accumulates an ordered stream of Include/Exclude operations plus
// inside/outside passage constraints, per spec.md §4.4.
type Builder struct {
	data         *reference.Data
	ids          map[segment.BookID]struct{}
	hasInclusion bool
	insideOf     []segment.Passage
	outsideOf    []segment.Passage
}

// NewBuilder starts a Builder bound to a loaded reference.Data. The initial
// id set is every known book, until the first Include narrows it.
func NewBuilder(data *reference.Data) *Builder {
	ids := make(map[segment.BookID]struct{})
	for _, id := range data.AllBooks() {
		ids[id] = struct{}{}
	}
	return &Builder{data: data, ids: ids}
}

// Apply folds one operation into the builder's running id set. The first
// Include replaces the universe with its own id set ("first include resets
// the universe"); subsequent Includes union in; every Exclude subtracts.
func (b *Builder) Apply(op Operation) *Builder {
	ids := op.f.IDs(b.data)
	switch op.kind {
	case opInclude:
		if !b.hasInclusion {
			b.ids = ids
			b.hasInclusion = true
		} else {
			for id := range ids {
				b.ids[id] = struct{}{}
			}
		}
	case opExclude:
		for id := range ids {
			delete(b.ids, id)
		}
	}
	return b
}

// Inside appends a passage the match must overlap.
func (b *Builder) Inside(p segment.Passage) *Builder {
	b.insideOf = append(b.insideOf, p)
	return b
}

// Outside appends a passage the match must not overlap.
func (b *Builder) Outside(p segment.Passage) *Builder {
	b.outsideOf = append(b.outsideOf, p)
	return b
}

// Build compiles the accumulated state into a Matcher.
func (b *Builder) Build() (*Matcher, error) {
	return newMatcher(b.data, b.ids, ComplexFilter{InsideOf: b.insideOf, OutsideOf: b.outsideOf})
}

// ComplexFilter holds the inside/outside passage constraints applied after
// a candidate citation has been resolved, per spec.md §4.4/§4.5 step 6.
type ComplexFilter struct {
	InsideOf  []segment.Passage
	OutsideOf []segment.Passage
}

// Keep applies the inside/outside constraints to a resolved passage: kept
// iff (InsideOf is empty OR any inside passage overlaps) AND (no outside
// passage overlaps).
func (c ComplexFilter) Keep(p segment.Passage) bool {
	if len(c.InsideOf) > 0 {
		anyInside := false
		for _, in := range c.InsideOf {
			if in.OverlapsWith(p) {
				anyInside = true
				break
			}
		}
		if !anyInside {
			return false
		}
	}
	for _, out := range c.OutsideOf {
		if out.OverlapsWith(p) {
			return false
		}
	}
	return true
}
