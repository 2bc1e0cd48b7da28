package integrationtests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	admissionserrors "roomly/internal/admissions/errors"
	"roomly/internal/admissions/repository"
	"roomly/pkg/client"
	"roomly/pkg/config"
	"roomly/pkg/model"
	"roomly/test/integration/common"
)

func newRepository(t *testing.T, helper *common.MongoHelper) repository.BookingRepository {
	t.Helper()

	cfg := &config.Config{
		MongoDatabaseName: helper.DBName,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		Client:            &client.Client{Mongo: helper.Client},
	}
	return repository.NewMongoBookingRepository(cfg)
}

func booking(user, resource string, start time.Time, minutes int) *model.Booking {
	return &model.Booking{
		ID:         uuid.NewString(),
		UserID:     user,
		ResourceID: resource,
		StartTime:  start,
		EndTime:    start.Add(time.Duration(minutes) * time.Minute),
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestBookingRepositoryRoundTrip(t *testing.T) {
	helper := common.NewMongoHelper(t, "")
	defer helper.Close(t)
	helper.CleanCollection(t, repository.CollectionName)

	repo := newRepository(t, helper)
	ctx := context.Background()
	day := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

	first := booking("u-1", "room-1", day, 60)
	second := booking("u-1", "room-2", day.Add(3*time.Hour), 30)
	other := booking("u-2", "room-1", day.Add(2*time.Hour), 45)

	for _, b := range []*model.Booking{first, second, other} {
		if err := repo.Create(ctx, b); err != nil {
			t.Fatalf("failed to create booking: %v", err)
		}
	}

	t.Run("find by id", func(t *testing.T) {
		got, err := repo.FindByID(ctx, first.ID)
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		if got.UserID != first.UserID || !got.StartTime.Equal(first.StartTime) {
			t.Errorf("stored booking does not match: %+v", got)
		}

		if _, err := repo.FindByID(ctx, uuid.NewString()); err != admissionserrors.ErrNotFound {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("find all by resource", func(t *testing.T) {
		bookings, err := repo.FindAllByResource(ctx, "room-1")
		if err != nil {
			t.Fatalf("FindAllByResource failed: %v", err)
		}
		if len(bookings) != 2 {
			t.Fatalf("expected 2 bookings on room-1, got %d", len(bookings))
		}
		if !bookings[0].StartTime.Before(bookings[1].StartTime) {
			t.Error("bookings not sorted by start time")
		}
	})

	t.Run("find by user day spans resources", func(t *testing.T) {
		dayStart := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
		dayEnd := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC).Add(-time.Millisecond)

		bookings, err := repo.FindByUserDay(ctx, "u-1", dayStart, dayEnd)
		if err != nil {
			t.Fatalf("FindByUserDay failed: %v", err)
		}
		if len(bookings) != 2 {
			t.Fatalf("expected 2 bookings for u-1, got %d", len(bookings))
		}
	})

	t.Run("list with window filter", func(t *testing.T) {
		from := day.Add(90 * time.Minute)
		to := day.Add(5 * time.Hour)

		bookings, err := repo.FindByResource(ctx, "room-1", &from, &to, 10, 0)
		if err != nil {
			t.Fatalf("FindByResource failed: %v", err)
		}
		if len(bookings) != 1 || bookings[0].ID != other.ID {
			t.Errorf("window filter returned wrong bookings: %+v", bookings)
		}

		count, err := repo.CountByResource(ctx, "room-1", &from, &to)
		if err != nil {
			t.Fatalf("CountByResource failed: %v", err)
		}
		if count != 1 {
			t.Errorf("expected count 1, got %d", count)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := repo.Delete(ctx, second.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if err := repo.Delete(ctx, second.ID); err != admissionserrors.ErrNotFound {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}
	})
}
