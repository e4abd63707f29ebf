// Package daterange models a stay as a pair of calendar dates.
package daterange

import (
	"errors"
	"fmt"
	"time"
)

const Layout = "2006-01-02"

var (
	ErrEmptyRange = errors.New("check-in date must be before check-out date")
	ErrPastDate   = errors.New("check-in date cannot be in the past")
)

// Range is a stay from CheckIn to CheckOut. Both are calendar dates at UTC
// midnight; the CheckOut night is not part of the stay.
type Range struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Date truncates t to its calendar date, keeping the wall-clock day of t's
// location.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// New builds a range and enforces checkIn < checkOut.
func New(checkIn, checkOut time.Time) (Range, error) {
	r := Range{CheckIn: Date(checkIn), CheckOut: Date(checkOut)}
	if !r.CheckIn.Before(r.CheckOut) {
		return Range{}, ErrEmptyRange
	}
	return r, nil
}

// ParseRange parses two YYYY-MM-DD strings into a Range.
func ParseRange(checkIn, checkOut string) (Range, error) {
	in, err := Parse(checkIn)
	if err != nil {
		return Range{}, err
	}
	out, err := Parse(checkOut)
	if err != nil {
		return Range{}, err
	}
	return New(in, out)
}

// NotBefore fails with ErrPastDate when the stay starts before today.
func (r Range) NotBefore(today time.Time) error {
	if r.CheckIn.Before(Date(today)) {
		return ErrPastDate
	}
	return nil
}

func (r Range) Nights() int {
	return DaysBetween(r.CheckIn, r.CheckOut)
}

// Overlaps uses the inclusive test: ranges that only touch on a boundary day
// still overlap, so a checkout day cannot be another guest's check-in day.
func (r Range) Overlaps(other Range) bool {
	return !r.CheckIn.After(other.CheckOut) && !r.CheckOut.Before(other.CheckIn)
}

func (r Range) String() string {
	return r.CheckIn.Format(Layout) + "/" + r.CheckOut.Format(Layout)
}

// DaysBetween counts whole calendar days from a to b, negative if b < a.
func DaysBetween(a, b time.Time) int {
	return int(Date(b).Sub(Date(a)).Hours() / 24)
}

// AddDays shifts a calendar date.
func AddDays(t time.Time, days int) time.Time {
	return Date(t).AddDate(0, 0, days)
}
