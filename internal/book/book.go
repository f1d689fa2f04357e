// Package book implements the address book: a keyed, ordered collection of
// contact records with an upcoming-birthdays query.
package book

import (
	"fmt"
	"iter"

	"github.com/smileynet/addrbook/internal/contact"
)

// Book maps contact names to records. Iteration follows insertion order.
// A Book is not safe for concurrent use.
type Book struct {
	records map[string]*contact.Record
	order   []string
}

// New returns an empty Book.
func New() *Book {
	return &Book{records: make(map[string]*contact.Record)}
}

// Add inserts r keyed by its name. An existing record with the same name is
// replaced in place and keeps its position; phones are not merged.
// Callers that must not lose data should Find first.
func (b *Book) Add(r *contact.Record) {
	name := r.Name()
	if _, ok := b.records[name]; !ok {
		b.order = append(b.order, name)
	}
	b.records[name] = r
}

// Find returns the record for name using exact, case-sensitive matching.
func (b *Book) Find(name string) (*contact.Record, error) {
	r, ok := b.records[name]
	if !ok {
		return nil, fmt.Errorf("%w: contact %q", contact.ErrNotFound, name)
	}
	return r, nil
}

// Len returns the number of records.
func (b *Book) Len() int { return len(b.order) }

// Items yields each contact name with its phones rendered as "p1, p2",
// in insertion order. The sequence can be ranged over repeatedly.
func (b *Book) Items() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, name := range b.order {
			if !yield(name, b.records[name].PhoneList()) {
				return
			}
		}
	}
}

// Records returns the records in insertion order.
func (b *Book) Records() []*contact.Record {
	out := make([]*contact.Record, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.records[name])
	}
	return out
}
