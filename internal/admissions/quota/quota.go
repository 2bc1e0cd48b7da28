// Package quota enforces the per-user daily booking cap. The check itself is
// pure; the caller supplies the user's committed bookings for the day and is
// responsible for reading them inside the resource's critical section, since
// two racing requests from one user could otherwise both pass and jointly
// exceed the cap.
package quota

import (
	"time"

	"roomly/pkg/model"
)

type Checker struct {
	capMinutes int
	loc        *time.Location
}

func NewChecker(capMinutes int, loc *time.Location) *Checker {
	return &Checker{capMinutes: capMinutes, loc: loc}
}

// DayBounds returns the inclusive bounds [00:00:00.000, 23:59:59.999] of the
// local calendar day containing t. Computed with civil-time arithmetic so
// DST-shortened or -lengthened days keep correct bounds.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	dayEnd := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc).Add(-time.Millisecond)
	return dayStart, dayEnd
}

// Bounds returns the day bounds of the candidate's start day, used to load
// the user's committed bookings for that day.
func (c *Checker) Bounds(candidate model.TimeWindow) (time.Time, time.Time) {
	return DayBounds(candidate.Start, c.loc)
}

// Check sums the committed durations and rejects when adding the candidate
// would exceed the daily cap. Bookings are counted on the day their window
// starts.
func (c *Checker) Check(candidate model.TimeWindow, committed []*model.Booking) error {
	used := 0
	for _, b := range committed {
		used += b.Window().Minutes()
	}

	if total := used + candidate.Minutes(); total > c.capMinutes {
		return model.Reject(model.ReasonQuotaExceeded,
			"daily booking quota exceeded: %d minutes committed, %d requested, %d allowed",
			used, candidate.Minutes(), c.capMinutes)
	}

	return nil
}
