package utils

import (
	"sort"
	"time"

	"toolshare-booking-backend/internal/domain"
)

const dayLayout = "2006-01-02"

// DayStart normalizes a timestamp to its calendar day (midnight UTC).
// All availability comparisons are calendar-day comparisons; time of day
// is ignored.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// InclusiveDayCount returns the number of calendar days in [start, end],
// counting both endpoints. Same start and end yields 1. Returns 0 when
// end precedes start.
func InclusiveDayCount(start, end time.Time) int {
	s := DayStart(start)
	e := DayStart(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s)/(24*time.Hour)) + 1
}

// ExceedsMaxDuration reports whether the inclusive day count between date
// and reference is greater than maxDays. The order of the two arguments
// does not matter.
func ExceedsMaxDuration(date, reference time.Time, maxDays int) bool {
	a, b := DayStart(date), DayStart(reference)
	if b.Before(a) {
		a, b = b, a
	}
	return InclusiveDayCount(a, b) > maxDays
}

// AvailabilityCalendar is the per-day availability derived from a tool's
// bookings. A day lands in the most restrictive bucket of any booking
// covering it; any non-cancelled, non-rejected booking makes a day
// unavailable.
type AvailabilityCalendar struct {
	unavailable map[string]struct{}
	confirmed   map[string]struct{}
	pending     map[string]struct{}
	inProgress  map[string]struct{}
}

// ComputeAvailability expands every blocking booking's inclusive date
// range into per-day status buckets. An empty booking list yields a
// calendar where every date is free.
func ComputeAvailability(bookings []domain.Booking) *AvailabilityCalendar {
	c := &AvailabilityCalendar{
		unavailable: make(map[string]struct{}),
		confirmed:   make(map[string]struct{}),
		pending:     make(map[string]struct{}),
		inProgress:  make(map[string]struct{}),
	}

	for _, b := range bookings {
		if !b.Status.Blocks() {
			continue
		}
		end := DayStart(b.EndDate)
		for d := DayStart(b.StartDate); !d.After(end); d = d.AddDate(0, 0, 1) {
			key := d.Format(dayLayout)
			c.unavailable[key] = struct{}{}
			switch b.Status {
			case domain.BookingStatusConfirmed, domain.BookingStatusInProgress:
				c.confirmed[key] = struct{}{}
			case domain.BookingStatusPending, domain.BookingStatusAccepted:
				c.pending[key] = struct{}{}
			}
			if b.Status == domain.BookingStatusInProgress {
				c.inProgress[key] = struct{}{}
			}
		}
	}

	return c
}

func (c *AvailabilityCalendar) IsDateUnavailable(t time.Time) bool {
	_, ok := c.unavailable[DayStart(t).Format(dayLayout)]
	return ok
}

func (c *AvailabilityCalendar) IsDateConfirmed(t time.Time) bool {
	_, ok := c.confirmed[DayStart(t).Format(dayLayout)]
	return ok
}

func (c *AvailabilityCalendar) IsDatePending(t time.Time) bool {
	_, ok := c.pending[DayStart(t).Format(dayLayout)]
	return ok
}

func (c *AvailabilityCalendar) IsDateInProgress(t time.Time) bool {
	_, ok := c.inProgress[DayStart(t).Format(dayLayout)]
	return ok
}

// IsPeriodUnavailable reports whether any day in [start, end] inclusive
// is unavailable.
func (c *AvailabilityCalendar) IsPeriodUnavailable(start, end time.Time) bool {
	e := DayStart(end)
	for d := DayStart(start); !d.After(e); d = d.AddDate(0, 0, 1) {
		if _, ok := c.unavailable[d.Format(dayLayout)]; ok {
			return true
		}
	}
	return false
}

// UnavailableDates returns all unavailable days as sorted yyyy-mm-dd strings.
func (c *AvailabilityCalendar) UnavailableDates() []string { return sortedKeys(c.unavailable) }

// ConfirmedDates returns all confirmed/in-progress days as sorted yyyy-mm-dd strings.
func (c *AvailabilityCalendar) ConfirmedDates() []string { return sortedKeys(c.confirmed) }

// PendingDates returns all pending/accepted days as sorted yyyy-mm-dd strings.
func (c *AvailabilityCalendar) PendingDates() []string { return sortedKeys(c.pending) }

// InProgressDates returns all in-progress days as sorted yyyy-mm-dd strings.
func (c *AvailabilityCalendar) InProgressDates() []string { return sortedKeys(c.inProgress) }

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
