package quota

import (
	"testing"
	"time"

	"roomly/pkg/model"
)

func window(startHour, startMin, endHour, endMin int) model.TimeWindow {
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	return model.TimeWindow{
		Start: day.Add(time.Duration(startHour)*time.Hour + time.Duration(startMin)*time.Minute),
		End:   day.Add(time.Duration(endHour)*time.Hour + time.Duration(endMin)*time.Minute),
	}
}

func committed(windows ...model.TimeWindow) []*model.Booking {
	bookings := make([]*model.Booking, 0, len(windows))
	for i, w := range windows {
		bookings = append(bookings, &model.Booking{
			ID:         string(rune('a' + i)),
			UserID:     "u-1",
			ResourceID: "room-1",
			StartTime:  w.Start,
			EndTime:    w.End,
		})
	}
	return bookings
}

func TestCheck(t *testing.T) {
	checker := NewChecker(120, time.UTC)

	tests := []struct {
		name      string
		candidate model.TimeWindow
		existing  []*model.Booking
		wantErr   bool
	}{
		{
			name:      "no existing bookings",
			candidate: window(9, 0, 11, 0),
		},
		{
			name:      "exactly at the cap accepted",
			candidate: window(13, 0, 14, 0),
			existing:  committed(window(9, 0, 10, 0)),
		},
		{
			name:      "one minute over the cap rejected",
			candidate: window(13, 0, 14, 11),
			existing:  committed(window(9, 0, 10, 0)),
			wantErr:   true,
		},
		{
			name:      "sum across multiple bookings",
			candidate: window(15, 0, 15, 45),
			existing:  committed(window(9, 0, 10, 0), window(11, 0, 12, 0)),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checker.Check(tt.candidate, tt.existing)

			if tt.wantErr {
				rej, ok := model.AsRejection(err)
				if !ok {
					t.Fatalf("expected rejection, got %v", err)
				}
				if rej.Reason != model.ReasonQuotaExceeded {
					t.Errorf("reason = %s, want %s", rej.Reason, model.ReasonQuotaExceeded)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected candidate to pass, got %v", err)
			}
		})
	}
}

func TestCheckRejectsOverCapTotal(t *testing.T) {
	// One hour committed plus a 70 minute candidate totals 130 minutes.
	checker := NewChecker(120, time.UTC)

	err := checker.Check(window(13, 0, 14, 10), committed(window(9, 0, 10, 0)))
	rej, ok := model.AsRejection(err)
	if !ok || rej.Reason != model.ReasonQuotaExceeded {
		t.Fatalf("expected QUOTA_EXCEEDED for 130 total minutes, got %v", err)
	}
}

func TestDayBounds(t *testing.T) {
	loc := time.UTC
	start, end := DayBounds(time.Date(2025, 3, 3, 14, 30, 0, 0, loc), loc)

	wantStart := time.Date(2025, 3, 3, 0, 0, 0, 0, loc)
	wantEnd := time.Date(2025, 3, 3, 23, 59, 59, 999000000, loc)

	if !start.Equal(wantStart) {
		t.Errorf("day start = %v, want %v", start, wantStart)
	}
	if !end.Equal(wantEnd) {
		t.Errorf("day end = %v, want %v", end, wantEnd)
	}
}

func TestDayBoundsAcrossDSTTransition(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// March 9 2025 is the spring-forward day in New York: 23 civil hours.
	start, end := DayBounds(time.Date(2025, 3, 9, 12, 0, 0, 0, ny), ny)

	if got := end.Sub(start); got != 23*time.Hour-time.Millisecond {
		t.Errorf("spring-forward day length = %v, want %v", got, 23*time.Hour-time.Millisecond)
	}
	if start.Day() != 9 || end.In(ny).Day() != 9 {
		t.Errorf("bounds left the civil day: start=%v end=%v", start, end)
	}
}
