package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/studyslot/studyslot-api/internal/models"
	"github.com/studyslot/studyslot-api/internal/repository"
	appErrors "github.com/studyslot/studyslot-api/pkg/errors"
)

type slotRepository interface {
	FindByID(ctx context.Context, id string) (*models.TutorSlot, error)
	ListByTutor(ctx context.Context, tutorID string) ([]models.OpenSlot, error)
	Create(ctx context.Context, slot *models.TutorSlot) error
	Delete(ctx context.Context, id string) error
}

type slotSubjectLookup interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

type slotBookingCounter interface {
	CountBySlot(ctx context.Context, slotID string) (int, error)
}

// CreateSlotRequest captures the tutor slot form. Date and times are opaque
// strings; only presence is enforced.
type CreateSlotRequest struct {
	SubjectID string `form:"subject" json:"subject_id" validate:"required"`
	Date      string `form:"date" json:"date" validate:"required"`
	Start     string `form:"start" json:"start" validate:"required"`
	End       string `form:"end" json:"end" validate:"required"`
}

// SlotService handles tutor slot publication and removal.
type SlotService struct {
	repo      slotRepository
	subjects  slotSubjectLookup
	bookings  slotBookingCounter
	cache     *repository.SlotCache
	audit     auditWriter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSlotService creates a new slot service.
func NewSlotService(repo slotRepository, subjects slotSubjectLookup, bookings slotBookingCounter, cache *repository.SlotCache, audit auditWriter, validate *validator.Validate, logger *zap.Logger) *SlotService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlotService{repo: repo, subjects: subjects, bookings: bookings, cache: cache, audit: audit, validator: validate, logger: logger}
}

// ListByTutor returns the tutor's own slots.
func (s *SlotService) ListByTutor(ctx context.Context, tutorID string) ([]models.OpenSlot, error) {
	slots, err := s.repo.ListByTutor(ctx, tutorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list slots")
	}
	return slots, nil
}

// Create publishes a slot owned by the calling tutor, denormalizing the tutor
// name onto the row.
func (s *SlotService) Create(ctx context.Context, claims *models.JWTClaims, req CreateSlotRequest) (*models.TutorSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "all fields are required")
	}

	if _, err := s.subjects.FindByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown subject")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	slot := &models.TutorSlot{
		TutorID:   claims.UserID,
		TutorName: claims.Name,
		SubjectID: req.SubjectID,
		Date:      req.Date,
		Start:     req.Start,
		End:       req.End,
		Booked:    false,
	}

	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create slot")
	}

	s.cache.Invalidate(ctx)
	writeAudit(ctx, s.audit, s.logger, claims.UserID, models.AuditActionSlotCreate, "tutor_slot", slot.ID, nil)
	return slot, nil
}

// Delete removes a slot, enforcing ownership. A missing slot and a foreign
// slot both answer forbidden, matching the guarded lookup.
func (s *SlotService) Delete(ctx context.Context, tutorID, slotID string) error {
	slot, err := s.repo.FindByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrForbidden, "you can only delete your own slots")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot")
	}

	if slot.TutorID != tutorID {
		return appErrors.Clone(appErrors.ErrForbidden, "you can only delete your own slots")
	}

	count, err := s.bookings.CountBySlot(ctx, slot.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slot bookings")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrDuplicate, "slot has already been booked")
	}

	// The FK check below still catches a booking that lands between the
	// count and the delete.
	if err := s.repo.Delete(ctx, slot.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return appErrors.Clone(appErrors.ErrDuplicate, "slot has already been booked")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete slot")
	}

	s.cache.Invalidate(ctx)
	writeAudit(ctx, s.audit, s.logger, tutorID, models.AuditActionSlotDelete, "tutor_slot", slot.ID, nil)
	return nil
}
