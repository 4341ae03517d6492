package booking

import (
	"fmt"
	"time"
)

// StayPeriod is an immutable value object holding a booking's check-in and
// check-out calendar dates. Dates are normalized to UTC midnight; overlap
// testing treats the range as closed on both ends.
type StayPeriod struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

// NewStayPeriod validates and normalizes a stay period.
func NewStayPeriod(checkIn, checkOut time.Time) (StayPeriod, error) {
	in := toCalendarDate(checkIn)
	out := toCalendarDate(checkOut)
	if !out.After(in) {
		return StayPeriod{}, fmt.Errorf("check-out must be after check-in")
	}
	return StayPeriod{CheckIn: in, CheckOut: out}, nil
}

// Nights returns the number of nights covered by the stay.
func (p StayPeriod) Nights() int {
	return int(p.CheckOut.Sub(p.CheckIn).Hours() / 24)
}

// Overlaps reports whether the two periods share at least one calendar date.
func (p StayPeriod) Overlaps(other StayPeriod) bool {
	return !other.CheckIn.After(p.CheckOut) && !other.CheckOut.Before(p.CheckIn)
}

// Contains reports whether the given date falls within the stay.
func (p StayPeriod) Contains(date time.Time) bool {
	d := toCalendarDate(date)
	return !d.Before(p.CheckIn) && !d.After(p.CheckOut)
}

func toCalendarDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
