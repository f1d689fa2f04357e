package book

import (
	"fmt"
	"sort"
	"time"

	"github.com/smileynet/addrbook/internal/contact"
)

// Upcoming pairs a record with the date its birthday should be congratulated.
type Upcoming struct {
	Record *contact.Record
	// Occurrence is the birthday anniversary that falls inside the window.
	Occurrence time.Time
	// Date is Occurrence moved off the weekend.
	Date time.Time
}

// QueryOption configures UpcomingBirthdays.
type QueryOption func(*query)

type query struct {
	leapDay contact.LeapDayPolicy
}

// WithLeapDayPolicy sets where Feb 29 birthdays fall in non-leap years.
func WithLeapDayPolicy(p contact.LeapDayPolicy) QueryOption {
	return func(q *query) { q.leapDay = p }
}

// UpcomingBirthdays returns every record whose next birthday falls within
// [today, today+days], both ends inclusive. Only the calendar date of today
// is used. Results are ordered by congratulation date, then by name.
func (b *Book) UpcomingBirthdays(today time.Time, days int, opts ...QueryOption) ([]Upcoming, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: window must be non-negative, got %d", contact.ErrMalformedInput, days)
	}

	q := query{leapDay: contact.LeapDayMarch1}
	for _, opt := range opts {
		opt(&q)
	}

	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, days)

	var out []Upcoming
	for _, name := range b.order {
		r := b.records[name]
		bd, ok := r.Birthday()
		if !ok {
			continue
		}
		occ := bd.Occurrence(start.Year(), q.leapDay)
		if occ.Before(start) {
			occ = bd.Occurrence(start.Year()+1, q.leapDay)
		}
		if occ.After(end) {
			continue
		}
		out = append(out, Upcoming{Record: r, Occurrence: occ, Date: CongratulationDate(occ)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Record.Name() < out[j].Record.Name()
	})
	return out, nil
}

// CongratulationDate moves a Saturday or Sunday to the following Monday.
func CongratulationDate(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, 2)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	default:
		return t
	}
}
