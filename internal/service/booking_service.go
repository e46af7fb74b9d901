package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/studyslot/studyslot-api/internal/models"
	"github.com/studyslot/studyslot-api/internal/repository"
	appErrors "github.com/studyslot/studyslot-api/pkg/errors"
)

type bookingRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.BookingWithSubject, error)
	ListAll(ctx context.Context) ([]models.BookingWithSubject, error)
	CreateWithSlotClaim(ctx context.Context, booking *models.Booking) error
}

type bookingSlotLookup interface {
	FindByID(ctx context.Context, id string) (*models.TutorSlot, error)
	ListOpen(ctx context.Context) ([]models.OpenSlot, error)
}

// BookingService handles the booking flow and session listings.
type BookingService struct {
	repo    bookingRepository
	slots   bookingSlotLookup
	cache   *repository.SlotCache
	audit   auditWriter
	metrics *MetricsService
	logger  *zap.Logger
}

// NewBookingService creates a new booking service.
func NewBookingService(repo bookingRepository, slots bookingSlotLookup, cache *repository.SlotCache, audit auditWriter, metrics *MetricsService, logger *zap.Logger) *BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{repo: repo, slots: slots, cache: cache, audit: audit, metrics: metrics, logger: logger}
}

// MySessions returns the student's bookings.
func (s *BookingService) MySessions(ctx context.Context, studentID string) ([]models.BookingWithSubject, error) {
	bookings, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return bookings, nil
}

// AllSessions returns every booking, for the admin overview and exports.
func (s *BookingService) AllSessions(ctx context.Context) ([]models.BookingWithSubject, error) {
	bookings, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return bookings, nil
}

// Availability returns all open slots, served from the cache when possible.
func (s *BookingService) Availability(ctx context.Context) ([]models.OpenSlot, error) {
	start := time.Now()
	if cached, err := s.cache.GetOpen(ctx); err == nil {
		s.metrics.RecordCacheOperation(true, time.Since(start))
		return cached, nil
	} else if !errors.Is(err, repository.ErrCacheMiss) {
		s.logger.Warn("availability cache read failed", zap.Error(err))
	}
	s.metrics.RecordCacheOperation(false, time.Since(start))

	slots, err := s.slots.ListOpen(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list open slots")
	}

	writeStart := time.Now()
	if err := s.cache.SetOpen(ctx, slots); err != nil {
		s.logger.Warn("availability cache write failed", zap.Error(err))
	}
	s.metrics.ObserveCacheWrite(time.Since(writeStart))

	return slots, nil
}

// Book claims a slot for the student. The slot lookup distinguishes a missing
// slot (404) from an already-booked one (conflict); the claim itself is an
// atomic conditional update, so two concurrent requests cannot both succeed.
func (s *BookingService) Book(ctx context.Context, claims *models.JWTClaims, slotID string) (*models.Booking, error) {
	slot, err := s.slots.FindByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot")
	}

	if slot.Booked {
		return nil, appErrors.Clone(appErrors.ErrConflict, "")
	}

	booking := &models.Booking{
		StudentID:   claims.UserID,
		StudentName: claims.Name,
		TutorSlotID: slot.ID,
		TutorName:   slot.TutorName,
		SubjectID:   slot.SubjectID,
		Date:        slot.Date,
		Start:       slot.Start,
		End:         slot.End,
		Status:      models.BookingStatusBooked,
	}

	if err := s.repo.CreateWithSlotClaim(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to book slot")
	}

	s.cache.Invalidate(ctx)
	writeAudit(ctx, s.audit, s.logger, claims.UserID, models.AuditActionBookingCreate, "booking", booking.ID, nil)
	return booking, nil
}
