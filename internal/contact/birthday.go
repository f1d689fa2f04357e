package contact

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the textual form of a birthday: DD.MM.YYYY.
const DateLayout = "02.01.2006"

// LeapDayPolicy decides where a Feb 29 birthday lands in a non-leap year.
type LeapDayPolicy int

const (
	// LeapDayMarch1 moves Feb 29 to Mar 1 in non-leap years.
	LeapDayMarch1 LeapDayPolicy = iota
	// LeapDayFeb28 moves Feb 29 to Feb 28 in non-leap years.
	LeapDayFeb28
)

// ParseLeapDayPolicy maps a config value ("mar1", "feb28") to a LeapDayPolicy.
// An empty value selects LeapDayMarch1.
func ParseLeapDayPolicy(s string) (LeapDayPolicy, error) {
	switch strings.ToLower(s) {
	case "", "mar1":
		return LeapDayMarch1, nil
	case "feb28":
		return LeapDayFeb28, nil
	default:
		return 0, fmt.Errorf("%w: leap day policy %q (want mar1 or feb28)", ErrMalformedInput, s)
	}
}

// String returns the config spelling of the policy.
func (p LeapDayPolicy) String() string {
	if p == LeapDayFeb28 {
		return "feb28"
	}
	return "mar1"
}

// Birthday is a calendar date without a time of day.
type Birthday struct {
	year  int
	month time.Month
	day   int
}

// ParseBirthday parses text in DD.MM.YYYY form. Day and month must have two
// digits and the date must exist in the calendar.
func ParseBirthday(text string) (Birthday, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(text))
	if err != nil {
		return Birthday{}, fmt.Errorf("%w: invalid date %q, use DD.MM.YYYY", ErrMalformedInput, text)
	}
	return Birthday{year: t.Year(), month: t.Month(), day: t.Day()}, nil
}

// NewBirthday builds a Birthday from its parts, rejecting dates that do not exist.
func NewBirthday(year int, month time.Month, day int) (Birthday, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Birthday{}, fmt.Errorf("%w: no such date %04d-%02d-%02d", ErrMalformedInput, year, int(month), day)
	}
	return Birthday{year: year, month: month, day: day}, nil
}

// Year returns the birth year.
func (b Birthday) Year() int { return b.year }

// Month returns the birth month.
func (b Birthday) Month() time.Month { return b.month }

// Day returns the day of the month.
func (b Birthday) Day() int { return b.day }

// IsZero reports whether b is the zero Birthday.
func (b Birthday) IsZero() bool { return b.year == 0 && b.month == 0 && b.day == 0 }

// Time returns the birth date at midnight UTC.
func (b Birthday) Time() time.Time {
	return time.Date(b.year, b.month, b.day, 0, 0, 0, 0, time.UTC)
}

// String renders the birthday as DD.MM.YYYY.
func (b Birthday) String() string {
	return b.Time().Format(DateLayout)
}

// Occurrence returns the anniversary of b in year at midnight UTC.
// Feb 29 birthdays in non-leap years follow policy.
func (b Birthday) Occurrence(year int, policy LeapDayPolicy) time.Time {
	if b.month == time.February && b.day == 29 && !isLeap(year) {
		if policy == LeapDayFeb28 {
			return time.Date(year, time.February, 28, 0, 0, 0, 0, time.UTC)
		}
		return time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(year, b.month, b.day, 0, 0, 0, 0, time.UTC)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
