package validator

import (
	"strings"
	"testing"
	"time"

	"roomly/pkg/logger"
	"roomly/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "info",
		Format:  logger.JSON,
		Service: "test",
	})
}

func validBooking() *model.Booking {
	start := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	return &model.Booking{
		UserID:     "u-1",
		ResourceID: "room-1",
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
	}
}

func TestValidate(t *testing.T) {
	v := NewBookingValidator(testLogger())

	tests := []struct {
		name      string
		mutate    func(b *model.Booking)
		wantField string
	}{
		{
			name:   "valid candidate",
			mutate: func(b *model.Booking) {},
		},
		{
			name:      "missing user id",
			mutate:    func(b *model.Booking) { b.UserID = "" },
			wantField: "UserID",
		},
		{
			name:      "missing resource id",
			mutate:    func(b *model.Booking) { b.ResourceID = "" },
			wantField: "ResourceID",
		},
		{
			name:      "missing start time",
			mutate:    func(b *model.Booking) { b.StartTime = time.Time{} },
			wantField: "StartTime",
		},
		{
			name:      "missing end time",
			mutate:    func(b *model.Booking) { b.EndTime = time.Time{} },
			wantField: "EndTime",
		},
		{
			name:      "oversized user id",
			mutate:    func(b *model.Booking) { b.UserID = strings.Repeat("x", 65) },
			wantField: "UserID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			tt.mutate(b)

			err := v.Validate(b)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected booking to pass, got %v", err)
				}
				return
			}

			verrs, ok := err.(ValidationErrors)
			if !ok {
				t.Fatalf("expected ValidationErrors, got %T: %v", err, err)
			}
			found := false
			for _, ve := range verrs {
				if ve.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on field %s, got %v", tt.wantField, verrs)
			}
		})
	}
}

func TestValidateCandidateRejectsPresetID(t *testing.T) {
	v := NewBookingValidator(testLogger())

	b := validBooking()
	b.ID = "5f2d7a0e-0000-4000-8000-000000000000"

	err := v.ValidateCandidate(b)
	if err == nil {
		t.Fatal("expected preset id to be rejected")
	}
	if !strings.Contains(err.Error(), "id cannot be set") {
		t.Errorf("unexpected error: %v", err)
	}
}
