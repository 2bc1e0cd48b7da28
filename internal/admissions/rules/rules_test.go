package rules

import (
	"errors"
	"testing"
	"time"

	"roomly/pkg/model"
)

// Monday, March 3 2025 in the booking timezone.
var monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func testRuleSet() *RuleSet {
	weekdays := map[time.Weekday]bool{
		time.Monday:    true,
		time.Tuesday:   true,
		time.Wednesday: true,
		time.Thursday:  true,
		time.Friday:    true,
	}
	// 08:30-17:00, 120 minute cap
	return New(120, 8*60+30, 17*60, weekdays, time.UTC)
}

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}

func TestValidate(t *testing.T) {
	rs := testRuleSet()
	saturday := monday.AddDate(0, 0, 5)
	sunday := monday.AddDate(0, 0, 6)

	tests := []struct {
		name       string
		window     model.TimeWindow
		wantReason model.RejectReason
	}{
		{
			name:   "window at opening boundary accepted",
			window: model.TimeWindow{Start: at(monday, 8, 30), End: at(monday, 9, 0)},
		},
		{
			name:   "window ending exactly at closing accepted",
			window: model.TimeWindow{Start: at(monday, 16, 0), End: at(monday, 17, 0)},
		},
		{
			name:   "duration of exactly 120 minutes accepted",
			window: model.TimeWindow{Start: at(monday, 9, 0), End: at(monday, 11, 0)},
		},
		{
			name:       "start equal to end rejected",
			window:     model.TimeWindow{Start: at(monday, 9, 0), End: at(monday, 9, 0)},
			wantReason: model.ReasonInvalidWindow,
		},
		{
			name:       "start after end rejected",
			window:     model.TimeWindow{Start: at(monday, 10, 0), End: at(monday, 9, 0)},
			wantReason: model.ReasonInvalidWindow,
		},
		{
			name: "sub-minute precision rejected",
			window: model.TimeWindow{
				Start: at(monday, 9, 0).Add(30 * time.Second),
				End:   at(monday, 10, 0),
			},
			wantReason: model.ReasonInvalidWindow,
		},
		{
			name:       "duration of 121 minutes rejected",
			window:     model.TimeWindow{Start: at(monday, 9, 0), End: at(monday, 11, 1)},
			wantReason: model.ReasonDurationExceeded,
		},
		{
			name:       "saturday rejected regardless of time of day",
			window:     model.TimeWindow{Start: at(saturday, 10, 0), End: at(saturday, 11, 0)},
			wantReason: model.ReasonWeekdayNotAllowed,
		},
		{
			name:       "sunday rejected",
			window:     model.TimeWindow{Start: at(sunday, 10, 0), End: at(sunday, 11, 0)},
			wantReason: model.ReasonWeekdayNotAllowed,
		},
		{
			name:       "start before opening rejected",
			window:     model.TimeWindow{Start: at(monday, 8, 0), End: at(monday, 9, 0)},
			wantReason: model.ReasonOutsideOperatingHours,
		},
		{
			name:       "end one minute past closing rejected",
			window:     model.TimeWindow{Start: at(monday, 16, 1), End: at(monday, 17, 1)},
			wantReason: model.ReasonOutsideOperatingHours,
		},
		{
			name: "window spanning midnight rejected",
			window: model.TimeWindow{
				Start: at(monday, 16, 30),
				End:   at(monday.AddDate(0, 0, 1), 0, 30),
			},
			wantReason: model.ReasonOutsideOperatingHours,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rs.Validate(tt.window)

			if tt.wantReason == "" {
				if err != nil {
					t.Fatalf("expected window to pass, got %v", err)
				}
				return
			}

			rej, ok := model.AsRejection(err)
			if !ok {
				t.Fatalf("expected a rejection, got %v", err)
			}
			if rej.Reason != tt.wantReason {
				t.Errorf("reason = %s, want %s", rej.Reason, tt.wantReason)
			}
		})
	}
}

func TestValidateOrderIsDeterministic(t *testing.T) {
	rs := testRuleSet()

	// A window that is both too long and on a weekend must fail on duration
	// first: checks run in a fixed order.
	saturday := monday.AddDate(0, 0, 5)
	w := model.TimeWindow{Start: at(saturday, 9, 0), End: at(saturday, 12, 0)}

	for i := 0; i < 10; i++ {
		rej, ok := model.AsRejection(rs.Validate(w))
		if !ok || rej.Reason != model.ReasonDurationExceeded {
			t.Fatalf("iteration %d: expected DURATION_EXCEEDED, got %v", i, rej)
		}
	}
}

func TestValidateIsPure(t *testing.T) {
	rs := testRuleSet()
	good := model.TimeWindow{Start: at(monday, 9, 0), End: at(monday, 10, 0)}
	bad := model.TimeWindow{Start: at(monday, 7, 0), End: at(monday, 8, 0)}

	// Interleaving calls must not change outcomes.
	for i := 0; i < 5; i++ {
		if err := rs.Validate(good); err != nil {
			t.Fatalf("good window rejected on iteration %d: %v", i, err)
		}
		if err := rs.Validate(bad); err == nil {
			t.Fatalf("bad window accepted on iteration %d", i)
		}
	}

	var rej *model.Rejection
	if !errors.As(rs.Validate(bad), &rej) {
		t.Fatal("expected typed rejection")
	}
}

func TestValidateRespectsLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	weekdays := map[time.Weekday]bool{time.Monday: true}
	rs := New(120, 8*60+30, 17*60, weekdays, ny)

	// 15:00 UTC on this Monday is 10:00 in New York, a Monday morning inside
	// operating hours.
	w := model.TimeWindow{
		Start: time.Date(2025, 3, 3, 15, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 3, 16, 0, 0, 0, time.UTC),
	}
	if err := rs.Validate(w); err != nil {
		t.Fatalf("expected window to pass in local time, got %v", err)
	}

	// 23:30 UTC Monday is Monday evening in New York: outside hours there
	// even though the UTC clock already rolled toward Tuesday.
	late := model.TimeWindow{
		Start: time.Date(2025, 3, 3, 23, 30, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 4, 0, 30, 0, 0, time.UTC),
	}
	rej, ok := model.AsRejection(rs.Validate(late))
	if !ok || rej.Reason != model.ReasonOutsideOperatingHours {
		t.Fatalf("expected OUTSIDE_OPERATING_HOURS, got %v", rej)
	}
}
