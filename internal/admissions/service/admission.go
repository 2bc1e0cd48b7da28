// Package service implements the admission pipeline: rule validation, then a
// per-resource critical section where the quota and overlap decisions are made
// against fresh state and the winning booking is committed.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	admissionserrors "roomly/internal/admissions/errors"
	"roomly/internal/admissions/events"
	"roomly/internal/admissions/index"
	"roomly/internal/admissions/quota"
	"roomly/internal/admissions/repository"
	"roomly/internal/admissions/rules"
	"roomly/internal/admissions/validator"
	"roomly/internal/metrics"
	"roomly/pkg/clock"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/lock"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

// AdmissionService is the single entry point for booking decisions. Admit
// either commits the candidate or returns why it was turned down.
type AdmissionService interface {
	Admit(ctx context.Context, candidate *model.Booking) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListByResource(ctx context.Context, resourceID string, from, to *time.Time, limit int, offset int64) ([]*model.Booking, int64, error)
}

type admissionService struct {
	repo      repository.BookingRepository
	rules     *rules.RuleSet
	quota     *quota.Checker
	locks     *lock.KeyedMutex
	clock     clock.Clock
	validator *validator.BookingValidator
	events    events.Publisher
	metrics   metrics.Recorder
	logger    *logger.Logger

	lockWait time.Duration

	// indexes caches one overlap index per resource, created lazily inside
	// that resource's critical section and maintained by commit and rollback.
	mu      sync.Mutex
	indexes map[string]*index.OverlapIndex
}

type Dependencies struct {
	Repo      repository.BookingRepository
	Rules     *rules.RuleSet
	Quota     *quota.Checker
	Clock     clock.Clock
	Validator *validator.BookingValidator
	Events    events.Publisher
	Metrics   metrics.Recorder
	Logger    *logger.Logger
	LockWait  time.Duration
}

func NewAdmissionService(deps Dependencies) AdmissionService {
	return &admissionService{
		repo:      deps.Repo,
		rules:     deps.Rules,
		quota:     deps.Quota,
		locks:     lock.NewKeyedMutex(),
		clock:     deps.Clock,
		validator: deps.Validator,
		events:    deps.Events,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		lockWait:  deps.LockWait,
		indexes:   make(map[string]*index.OverlapIndex),
	}
}

// FromConfig wires the service from a validated configuration.
func FromConfig(cfg *config.Config, repo repository.BookingRepository, pub events.Publisher, rec metrics.Recorder) AdmissionService {
	return NewAdmissionService(Dependencies{
		Repo:      repo,
		Rules:     rules.FromConfig(cfg),
		Quota:     quota.NewChecker(cfg.DailyQuotaMinutes, cfg.Location()),
		Clock:     clock.NewSystem(),
		Validator: validator.NewBookingValidator(cfg.Log),
		Events:    pub,
		Metrics:   rec,
		Logger:    cfg.Log,
		LockWait:  cfg.AdmitLockWait,
	})
}

// Admit runs the full pipeline. The stateless rules run before any lock is
// taken, so malformed requests never contend for a resource. Stateful checks
// and the durable write happen inside the resource's critical section; the
// committed event is published after release.
func (s *admissionService) Admit(ctx context.Context, candidate *model.Booking) (*model.Booking, error) {
	started := s.clock.Now()
	defer func() {
		s.metrics.RecordAdmitLatency(s.clock.Now().Sub(started))
	}()

	if err := s.validator.ValidateCandidate(candidate); err != nil {
		details := map[string]any{"error": err.Error()}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details = map[string]any{"fields": verrs}
		}
		return nil, apperrors.Validation("booking validation failed", details)
	}

	if err := s.rules.Validate(candidate.Window()); err != nil {
		return nil, s.rejected(candidate, err)
	}

	booking, err := s.admitLocked(ctx, candidate)
	if err != nil {
		if _, ok := model.AsRejection(err); ok {
			return nil, s.rejected(candidate, err)
		}
		return nil, err
	}

	s.metrics.RecordCommitted()
	s.logger.Info("booking committed",
		"booking_id", booking.ID,
		"user_id", booking.UserID,
		"resource_id", booking.ResourceID,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
	)

	// Best effort: the booking is durable whether or not the event lands.
	if err := s.events.BookingCommitted(ctx, booking); err != nil {
		s.logger.Error("failed to publish booking committed event",
			"booking_id", booking.ID, "error", err)
	}

	return booking, nil
}

// admitLocked holds the resource's serialization token for the stateful part
// of the pipeline and releases it before returning.
func (s *admissionService) admitLocked(ctx context.Context, candidate *model.Booking) (*model.Booking, error) {
	lockCtx, cancel := context.WithTimeout(ctx, s.lockWait)
	defer cancel()

	release, err := s.locks.Acquire(lockCtx, candidate.ResourceID)
	if err != nil {
		// Only the wait bound elapsing means "busy". A dead parent context
		// means the caller is gone; telling it to retry would be wrong.
		if ctx.Err() != nil {
			return nil, fmt.Errorf("admission abandoned: %w", ctx.Err())
		}
		return nil, model.Reject(model.ReasonBusy,
			"resource %s is busy, retry shortly", candidate.ResourceID)
	}
	defer release()

	idx, err := s.indexFor(ctx, candidate.ResourceID)
	if err != nil {
		return nil, err
	}

	// The quota read happens on every admission because the cap spans
	// resources; this resource's token does not cover the user's bookings
	// elsewhere, but a stale read can only under-count bookings committed
	// under other tokens in this instant, which the durable store still holds.
	dayStart, dayEnd := s.quota.Bounds(candidate.Window())
	committed, err := s.repo.FindByUserDay(ctx, candidate.UserID, dayStart, dayEnd)
	if err != nil {
		return nil, apperrors.Internal("failed to load user's bookings for quota check", err)
	}
	if err := s.quota.Check(candidate.Window(), committed); err != nil {
		return nil, err
	}

	if idx.HasOverlap(candidate.Window()) {
		return nil, model.Reject(model.ReasonOverlap,
			"requested window overlaps an existing booking on resource %s", candidate.ResourceID)
	}

	booking := &model.Booking{
		ID:         uuid.NewString(),
		UserID:     candidate.UserID,
		ResourceID: candidate.ResourceID,
		StartTime:  candidate.StartTime,
		EndTime:    candidate.EndTime,
		CreatedAt:  s.clock.Now().UTC().Truncate(time.Millisecond),
	}

	idx.Insert(booking.Window())

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		return s.repo.Create(sessCtx, booking)
	})
	if err != nil {
		// Compensate the index insert so a failed write leaves no trace.
		idx.Remove(booking.Window())
		return nil, apperrors.Internal("failed to persist booking", err)
	}

	return booking, nil
}

// indexFor returns the resource's overlap index, seeding it from the durable
// store on first use. Callers must hold the resource's token.
func (s *admissionService) indexFor(ctx context.Context, resourceID string) (*index.OverlapIndex, error) {
	s.mu.Lock()
	idx, ok := s.indexes[resourceID]
	s.mu.Unlock()
	if ok {
		return idx, nil
	}

	bookings, err := s.repo.FindAllByResource(ctx, resourceID)
	if err != nil {
		return nil, apperrors.Internal("failed to load committed bookings", err)
	}
	windows := make([]model.TimeWindow, 0, len(bookings))
	for _, b := range bookings {
		windows = append(windows, b.Window())
	}

	idx = index.NewSeeded(windows)
	s.mu.Lock()
	s.indexes[resourceID] = idx
	s.mu.Unlock()
	return idx, nil
}

func (s *admissionService) rejected(candidate *model.Booking, err error) error {
	rej, _ := model.AsRejection(err)
	s.metrics.RecordRejected(string(rej.Reason))
	s.logger.Info("booking rejected",
		"user_id", candidate.UserID,
		"resource_id", candidate.ResourceID,
		"reason", rej.Reason,
		"message", rej.Message,
	)
	return err
}

func (s *admissionService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		switch err {
		case admissionserrors.ErrNotFound:
			return nil, apperrors.NotFoundWithID("booking", id)
		case admissionserrors.ErrInvalidID:
			return nil, apperrors.InvalidInput("booking id cannot be empty")
		default:
			return nil, apperrors.Internal("failed to fetch booking", err)
		}
	}
	return booking, nil
}

func (s *admissionService) ListByResource(ctx context.Context, resourceID string, from, to *time.Time, limit int, offset int64) ([]*model.Booking, int64, error) {
	if resourceID == "" {
		return nil, 0, apperrors.InvalidInput("resource_id is required")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	bookings, err := s.repo.FindByResource(ctx, resourceID, from, to, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list bookings", err)
	}

	total, err := s.repo.CountByResource(ctx, resourceID, from, to)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to count bookings", err)
	}

	return bookings, total, nil
}
