// Package contact holds a single person's name, phone numbers, and birthday.
package contact

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Callers match them with errors.Is to pick a user-facing message.
var (
	ErrNotFound       = errors.New("contact: not found")
	ErrMalformedInput = errors.New("contact: malformed input")
)

// Record is one person's entry in an address book.
// The name is fixed at creation; phones keep insertion order and may repeat.
type Record struct {
	name     string
	phones   []string
	birthday *Birthday
}

// NewRecord creates a Record for name. Surrounding whitespace is trimmed and
// an empty name is rejected.
func NewRecord(name string) (*Record, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrMalformedInput)
	}
	return &Record{name: name}, nil
}

// Name returns the contact's identifying name.
func (r *Record) Name() string { return r.name }

// Phones returns a copy of the contact's phone numbers in insertion order.
func (r *Record) Phones() []string {
	out := make([]string, len(r.phones))
	copy(out, r.phones)
	return out
}

// HasPhones reports whether at least one phone is stored.
func (r *Record) HasPhones() bool { return len(r.phones) > 0 }

// AddPhone appends a phone number. Duplicates are allowed.
func (r *Record) AddPhone(phone string) error {
	if phone == "" {
		return fmt.Errorf("%w: phone cannot be empty", ErrMalformedInput)
	}
	r.phones = append(r.phones, phone)
	return nil
}

// EditPhone replaces the first phone equal to old with phone.
func (r *Record) EditPhone(old, phone string) error {
	i := r.indexOf(old)
	if i < 0 {
		return fmt.Errorf("%w: phone %q for %s", ErrNotFound, old, r.name)
	}
	if phone == "" {
		return fmt.Errorf("%w: phone cannot be empty", ErrMalformedInput)
	}
	r.phones[i] = phone
	return nil
}

// RemovePhone deletes the first phone equal to phone.
func (r *Record) RemovePhone(phone string) error {
	i := r.indexOf(phone)
	if i < 0 {
		return fmt.Errorf("%w: phone %q for %s", ErrNotFound, phone, r.name)
	}
	r.phones = append(r.phones[:i], r.phones[i+1:]...)
	return nil
}

// FindPhone returns the stored phone equal to phone, or ErrNotFound.
func (r *Record) FindPhone(phone string) (string, error) {
	i := r.indexOf(phone)
	if i < 0 {
		return "", fmt.Errorf("%w: phone %q for %s", ErrNotFound, phone, r.name)
	}
	return r.phones[i], nil
}

// AddBirthday parses text as DD.MM.YYYY and stores it, replacing any previous birthday.
func (r *Record) AddBirthday(text string) error {
	b, err := ParseBirthday(text)
	if err != nil {
		return err
	}
	r.SetBirthday(b)
	return nil
}

// SetBirthday stores b, replacing any previous birthday.
func (r *Record) SetBirthday(b Birthday) {
	r.birthday = &b
}

// Birthday returns the stored birthday and whether one is set.
func (r *Record) Birthday() (Birthday, bool) {
	if r.birthday == nil {
		return Birthday{}, false
	}
	return *r.birthday, true
}

// PhoneList renders the phones as a comma-separated list.
func (r *Record) PhoneList() string {
	return strings.Join(r.phones, ", ")
}

// String renders the record for display.
func (r *Record) String() string {
	s := fmt.Sprintf("Contact name: %s, phones: %s", r.name, strings.Join(r.phones, "; "))
	if r.birthday != nil {
		s += ", birthday: " + r.birthday.String()
	}
	return s
}

func (r *Record) indexOf(phone string) int {
	for i, p := range r.phones {
		if p == phone {
			return i
		}
	}
	return -1
}
