package store

import (
	"errors"
	"fmt"

	"github.com/smileynet/addrbook/internal/book"
	"github.com/smileynet/addrbook/internal/contact"
)

// SchemaVersion is the document version written by Encode.
const SchemaVersion = 1

// ErrUnsupportedVersion indicates a document written with an unknown schema version.
var ErrUnsupportedVersion = errors.New("store: unsupported schema version")

// Document is the on-disk form of an address book. It is decoupled from the
// in-memory types so the schema can evolve independently.
type Document struct {
	Version  int     `yaml:"version" cbor:"version"`
	Contacts []Entry `yaml:"contacts" cbor:"contacts"`
}

// Entry is one contact in a Document. Birthday uses DD.MM.YYYY.
type Entry struct {
	Name     string   `yaml:"name" cbor:"name"`
	Phones   []string `yaml:"phones,omitempty" cbor:"phones,omitempty"`
	Birthday string   `yaml:"birthday,omitempty" cbor:"birthday,omitempty"`
}

// ToDocument captures b as a Document in insertion order.
func ToDocument(b *book.Book) Document {
	doc := Document{Version: SchemaVersion, Contacts: []Entry{}}
	for _, r := range b.Records() {
		e := Entry{Name: r.Name(), Phones: r.Phones()}
		if len(e.Phones) == 0 {
			e.Phones = nil
		}
		if bd, ok := r.Birthday(); ok {
			e.Birthday = bd.String()
		}
		doc.Contacts = append(doc.Contacts, e)
	}
	return doc
}

// FromDocument rebuilds a Book from doc. An empty version-0 document (such as
// an empty file) yields an empty Book.
func FromDocument(doc Document) (*book.Book, error) {
	b := book.New()
	if doc.Version == 0 && len(doc.Contacts) == 0 {
		return b, nil
	}
	if doc.Version != SchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}

	for i, e := range doc.Contacts {
		r, err := contact.NewRecord(e.Name)
		if err != nil {
			return nil, fmt.Errorf("store: contact %d: %w", i, err)
		}
		if _, err := b.Find(r.Name()); err == nil {
			return nil, fmt.Errorf("store: contact %d: duplicate name %q", i, r.Name())
		}
		for _, p := range e.Phones {
			if err := r.AddPhone(p); err != nil {
				return nil, fmt.Errorf("store: contact %q: %w", r.Name(), err)
			}
		}
		if e.Birthday != "" {
			if err := r.AddBirthday(e.Birthday); err != nil {
				return nil, fmt.Errorf("store: contact %q: %w", r.Name(), err)
			}
		}
		b.Add(r)
	}
	return b, nil
}

// Encode serializes b with codec.
func Encode(b *book.Book, codec Codec) ([]byte, error) {
	data, err := codec.Marshal(ToDocument(b))
	if err != nil {
		return nil, fmt.Errorf("store: encoding %s: %w", codec.Name(), err)
	}
	return data, nil
}

// Decode parses data with codec and rebuilds the Book.
func Decode(data []byte, codec Codec) (*book.Book, error) {
	if len(data) == 0 {
		return book.New(), nil
	}
	var doc Document
	if err := codec.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("store: decoding %s: %w", codec.Name(), err)
	}
	return FromDocument(doc)
}
