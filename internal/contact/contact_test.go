package contact

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewRecord(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantErr  bool
	}{
		{name: "plain name", input: "Alice", wantName: "Alice"},
		{name: "surrounding whitespace trimmed", input: "  Bob ", wantName: "Bob"},
		{name: "empty name", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRecord(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedInput) {
					t.Fatalf("NewRecord(%q) error = %v, want ErrMalformedInput", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRecord(%q) error = %v", tt.input, err)
			}
			if r.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", r.Name(), tt.wantName)
			}
		})
	}
}

func TestRecord_AddAndFindPhone(t *testing.T) {
	// Given a record
	r := mustRecord(t, "Alice")

	// When a phone is added
	if err := r.AddPhone("1234567890"); err != nil {
		t.Fatalf("AddPhone() error = %v", err)
	}

	// Then FindPhone returns it
	got, err := r.FindPhone("1234567890")
	if err != nil {
		t.Fatalf("FindPhone() error = %v", err)
	}
	if got != "1234567890" {
		t.Errorf("FindPhone() = %q, want %q", got, "1234567890")
	}
}

func TestRecord_AddPhoneAllowsDuplicates(t *testing.T) {
	r := mustRecord(t, "Alice")
	_ = r.AddPhone("123")
	_ = r.AddPhone("123")

	if got := len(r.Phones()); got != 2 {
		t.Errorf("len(Phones()) = %d, want 2", got)
	}
}

func TestRecord_AddPhoneEmpty(t *testing.T) {
	r := mustRecord(t, "Alice")

	err := r.AddPhone("")

	if !errors.Is(err, ErrMalformedInput) {
		t.Errorf("AddPhone(\"\") error = %v, want ErrMalformedInput", err)
	}
	if r.HasPhones() {
		t.Error("HasPhones() = true after rejected AddPhone")
	}
}

func TestRecord_EditPhone(t *testing.T) {
	// Given a record with two phones
	r := mustRecord(t, "Alice")
	_ = r.AddPhone("111")
	_ = r.AddPhone("222")

	// When the first phone is edited
	if err := r.EditPhone("111", "333"); err != nil {
		t.Fatalf("EditPhone() error = %v", err)
	}

	// Then the new value is found, the old one is gone, and order is kept
	if _, err := r.FindPhone("333"); err != nil {
		t.Errorf("FindPhone(new) error = %v", err)
	}
	if _, err := r.FindPhone("111"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindPhone(old) error = %v, want ErrNotFound", err)
	}
	phones := r.Phones()
	if phones[0] != "333" || phones[1] != "222" {
		t.Errorf("Phones() = %v, want [333 222]", phones)
	}
}

func TestRecord_EditPhoneOnlyFirstMatch(t *testing.T) {
	r := mustRecord(t, "Alice")
	_ = r.AddPhone("111")
	_ = r.AddPhone("111")

	if err := r.EditPhone("111", "999"); err != nil {
		t.Fatalf("EditPhone() error = %v", err)
	}

	phones := r.Phones()
	if phones[0] != "999" || phones[1] != "111" {
		t.Errorf("Phones() = %v, want [999 111]", phones)
	}
}

func TestRecord_EditPhoneNotFound(t *testing.T) {
	r := mustRecord(t, "Alice")
	_ = r.AddPhone("111")

	err := r.EditPhone("000", "333")

	if !errors.Is(err, ErrNotFound) {
		t.Errorf("EditPhone(missing) error = %v, want ErrNotFound", err)
	}
}

func TestRecord_EditPhoneEmptyReplacement(t *testing.T) {
	r := mustRecord(t, "Alice")
	_ = r.AddPhone("111")

	err := r.EditPhone("111", "")

	if !errors.Is(err, ErrMalformedInput) {
		t.Errorf("EditPhone(empty) error = %v, want ErrMalformedInput", err)
	}
	if _, err := r.FindPhone("111"); err != nil {
		t.Error("original phone should survive a rejected edit")
	}
}

func TestRecord_RemovePhone(t *testing.T) {
	r := mustRecord(t, "Alice")
	_ = r.AddPhone("111")
	_ = r.AddPhone("222")

	if err := r.RemovePhone("111"); err != nil {
		t.Fatalf("RemovePhone() error = %v", err)
	}
	if got := r.Phones(); len(got) != 1 || got[0] != "222" {
		t.Errorf("Phones() = %v, want [222]", got)
	}
	if err := r.RemovePhone("111"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemovePhone(again) error = %v, want ErrNotFound", err)
	}
}

func TestRecord_PhonesReturnsCopy(t *testing.T) {
	r := mustRecord(t, "Alice")
	_ = r.AddPhone("111")

	phones := r.Phones()
	phones[0] = "mutated"

	if _, err := r.FindPhone("111"); err != nil {
		t.Error("mutating Phones() result changed the record")
	}
}

func TestRecord_AddBirthday(t *testing.T) {
	// Given a record without a birthday
	r := mustRecord(t, "Alice")
	if _, ok := r.Birthday(); ok {
		t.Fatal("Birthday() ok = true on new record")
	}

	// When a birthday is added, then overwritten
	if err := r.AddBirthday("15.06.1990"); err != nil {
		t.Fatalf("AddBirthday() error = %v", err)
	}
	if err := r.AddBirthday("01.02.1991"); err != nil {
		t.Fatalf("AddBirthday() error = %v", err)
	}

	// Then the latest value wins
	b, ok := r.Birthday()
	if !ok {
		t.Fatal("Birthday() ok = false after AddBirthday")
	}
	if b.String() != "01.02.1991" {
		t.Errorf("Birthday() = %s, want 01.02.1991", b)
	}
}

func TestRecord_AddBirthdayMalformedKeepsPrevious(t *testing.T) {
	r := mustRecord(t, "Alice")
	_ = r.AddBirthday("15.06.1990")

	err := r.AddBirthday("1990-06-15")

	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("AddBirthday(bad) error = %v, want ErrMalformedInput", err)
	}
	b, _ := r.Birthday()
	if b.String() != "15.06.1990" {
		t.Errorf("Birthday() = %s, want unchanged 15.06.1990", b)
	}
}

func TestRecord_String(t *testing.T) {
	r := mustRecord(t, "Alice")
	_ = r.AddPhone("111")
	_ = r.AddPhone("222")
	_ = r.AddBirthday("15.06.1990")

	got := r.String()

	for _, want := range []string{"Alice", "111; 222", "15.06.1990"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, want to contain %q", got, want)
		}
	}
}

func TestParseBirthday(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Birthday
		wantErr bool
	}{
		{name: "valid date", input: "15.06.2024", want: Birthday{2024, time.June, 15}},
		{name: "leap day", input: "29.02.2000", want: Birthday{2000, time.February, 29}},
		{name: "surrounding whitespace", input: " 01.01.1999 ", want: Birthday{1999, time.January, 1}},
		{name: "iso format", input: "2024-06-15", wantErr: true},
		{name: "single digit day", input: "5.06.2024", wantErr: true},
		{name: "two digit year", input: "05.06.24", wantErr: true},
		{name: "impossible date", input: "31.02.2024", wantErr: true},
		{name: "leap day in non-leap year", input: "29.02.2023", wantErr: true},
		{name: "month out of range", input: "01.13.2024", wantErr: true},
		{name: "trailing text", input: "01.01.2024x", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBirthday(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedInput) {
					t.Fatalf("ParseBirthday(%q) error = %v, want ErrMalformedInput", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBirthday(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseBirthday(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewBirthday(t *testing.T) {
	if _, err := NewBirthday(2024, time.February, 29); err != nil {
		t.Errorf("NewBirthday(2024-02-29) error = %v", err)
	}
	if _, err := NewBirthday(2023, time.February, 29); !errors.Is(err, ErrMalformedInput) {
		t.Errorf("NewBirthday(2023-02-29) error = %v, want ErrMalformedInput", err)
	}
}

func TestBirthday_Occurrence(t *testing.T) {
	leap := Birthday{2000, time.February, 29}
	regular := Birthday{1990, time.June, 15}

	tests := []struct {
		name   string
		b      Birthday
		year   int
		policy LeapDayPolicy
		want   time.Time
	}{
		{name: "regular birthday", b: regular, year: 2024, policy: LeapDayMarch1, want: date(2024, time.June, 15)},
		{name: "leap day in leap year", b: leap, year: 2024, policy: LeapDayMarch1, want: date(2024, time.February, 29)},
		{name: "leap day non-leap year march policy", b: leap, year: 2025, policy: LeapDayMarch1, want: date(2025, time.March, 1)},
		{name: "leap day non-leap year feb policy", b: leap, year: 2025, policy: LeapDayFeb28, want: date(2025, time.February, 28)},
		{name: "century non-leap year", b: leap, year: 2100, policy: LeapDayMarch1, want: date(2100, time.March, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.b.Occurrence(tt.year, tt.policy)
			if !got.Equal(tt.want) {
				t.Errorf("Occurrence(%d) = %s, want %s", tt.year, got, tt.want)
			}
		})
	}
}

func TestParseLeapDayPolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    LeapDayPolicy
		wantErr bool
	}{
		{input: "", want: LeapDayMarch1},
		{input: "mar1", want: LeapDayMarch1},
		{input: "FEB28", want: LeapDayFeb28},
		{input: "feb29", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseLeapDayPolicy(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLeapDayPolicy(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLeapDayPolicy(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func mustRecord(t *testing.T, name string) *Record {
	t.Helper()
	r, err := NewRecord(name)
	if err != nil {
		t.Fatalf("NewRecord(%q) error = %v", name, err)
	}
	return r
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
