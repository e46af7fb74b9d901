package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/studyslot/studyslot-api/internal/models"
)

// SlotRepository handles persistence for tutor availability slots.
type SlotRepository struct {
	db *sqlx.DB
}

// NewSlotRepository creates a new repository instance.
func NewSlotRepository(db *sqlx.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// FindByID returns a slot by id.
func (r *SlotRepository) FindByID(ctx context.Context, id string) (*models.TutorSlot, error) {
	const query = `SELECT id, tutor_id, tutor_name, subject_id, date, start_time, end_time, booked, created_at, updated_at FROM tutor_slots WHERE id = $1 LIMIT 1`
	var slot models.TutorSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find slot by id: %w", err)
	}
	return &slot, nil
}

// ListByTutor returns slots owned by the given tutor, with subject names
// resolved at read time.
func (r *SlotRepository) ListByTutor(ctx context.Context, tutorID string) ([]models.OpenSlot, error) {
	const query = `SELECT s.id, s.tutor_id, s.tutor_name, s.subject_id, s.date, s.start_time, s.end_time, s.booked, s.created_at, s.updated_at, sub.name AS subject_name
		FROM tutor_slots s
		JOIN subjects sub ON sub.id = s.subject_id
		WHERE s.tutor_id = $1
		ORDER BY s.date ASC, s.start_time ASC`
	var slots []models.OpenSlot
	if err := r.db.SelectContext(ctx, &slots, query, tutorID); err != nil {
		return nil, fmt.Errorf("list tutor slots: %w", err)
	}
	return slots, nil
}

// ListOpen returns all unbooked slots ordered by date and start time.
func (r *SlotRepository) ListOpen(ctx context.Context) ([]models.OpenSlot, error) {
	const query = `SELECT s.id, s.tutor_id, s.tutor_name, s.subject_id, s.date, s.start_time, s.end_time, s.booked, s.created_at, s.updated_at, sub.name AS subject_name
		FROM tutor_slots s
		JOIN subjects sub ON sub.id = s.subject_id
		WHERE s.booked = FALSE
		ORDER BY s.date ASC, s.start_time ASC`
	var slots []models.OpenSlot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list open slots: %w", err)
	}
	return slots, nil
}

// Create persists a new slot.
func (r *SlotRepository) Create(ctx context.Context, slot *models.TutorSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = now
	}
	slot.UpdatedAt = now

	const query = `INSERT INTO tutor_slots (id, tutor_id, tutor_name, subject_id, date, start_time, end_time, booked, created_at, updated_at) VALUES (:id, :tutor_id, :tutor_name, :subject_id, :date, :start_time, :end_time, :booked, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("create slot: %w", err)
	}
	return nil
}

// Delete removes a slot record.
func (r *SlotRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tutor_slots WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}
