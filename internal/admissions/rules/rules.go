// Package rules validates a candidate window against the booking business
// rules. Validation is pure: no locking, no I/O, and the checks run in a
// fixed order with the first failure winning.
package rules

import (
	"time"

	"roomly/pkg/config"
	"roomly/pkg/model"
)

type RuleSet struct {
	maxMinutes  int
	openMinute  int // minutes since local midnight
	closeMinute int
	weekdays    map[time.Weekday]bool
	loc         *time.Location
}

func New(maxMinutes, openMinute, closeMinute int, weekdays map[time.Weekday]bool, loc *time.Location) *RuleSet {
	return &RuleSet{
		maxMinutes:  maxMinutes,
		openMinute:  openMinute,
		closeMinute: closeMinute,
		weekdays:    weekdays,
		loc:         loc,
	}
}

// FromConfig builds the rule set from a validated configuration.
func FromConfig(cfg *config.Config) *RuleSet {
	openMinute, _ := config.MinuteOfDay(cfg.OpeningTime)
	closeMinute, _ := config.MinuteOfDay(cfg.ClosingTime)
	return New(cfg.MaxBookingMinutes, openMinute, closeMinute, cfg.Weekdays(), cfg.Location())
}

// Validate returns nil when the window passes every rule, or the first
// *model.Rejection in check order:
//
//  1. start < end at whole-minute granularity, else INVALID_WINDOW
//  2. duration within the cap, else DURATION_EXCEEDED
//  3. local weekday of start allowed, else WEEKDAY_NOT_ALLOWED
//  4. window inside operating hours of a single local day, else
//     OUTSIDE_OPERATING_HOURS (windows spanning midnight fail here)
func (r *RuleSet) Validate(w model.TimeWindow) error {
	if !w.Start.Before(w.End) {
		return model.Reject(model.ReasonInvalidWindow, "start_time must be before end_time")
	}
	if !wholeMinute(w.Start) || !wholeMinute(w.End) {
		return model.Reject(model.ReasonInvalidWindow, "start_time and end_time must be at whole-minute granularity")
	}

	if minutes := w.Minutes(); minutes > r.maxMinutes {
		return model.Reject(model.ReasonDurationExceeded, "duration of %d minutes exceeds the %d minute maximum", minutes, r.maxMinutes)
	}

	start := w.Start.In(r.loc)
	end := w.End.In(r.loc)

	if !r.weekdays[start.Weekday()] {
		return model.Reject(model.ReasonWeekdayNotAllowed, "bookings are not accepted on %s", start.Weekday())
	}

	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	sameDay := sy == ey && sm == em && sd == ed

	startMinute := start.Hour()*60 + start.Minute()
	endMinute := end.Hour()*60 + end.Minute()

	if !sameDay || startMinute < r.openMinute || endMinute > r.closeMinute {
		return model.Reject(model.ReasonOutsideOperatingHours,
			"window must fall within %s-%s on a single day",
			formatMinute(r.openMinute), formatMinute(r.closeMinute))
	}

	return nil
}

func wholeMinute(t time.Time) bool {
	return t.Second() == 0 && t.Nanosecond() == 0
}

func formatMinute(minuteOfDay int) string {
	return time.Date(0, 1, 1, minuteOfDay/60, minuteOfDay%60, 0, 0, time.UTC).Format("15:04")
}
