package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/studyslot/studyslot-api/internal/models"
)

// ErrSlotTaken is returned when the conditional claim on a slot finds it
// already booked.
var ErrSlotTaken = errors.New("slot already booked")

// BookingRepository handles persistence for bookings, including the atomic
// slot claim.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new repository instance.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// ListByStudent returns the student's bookings with subject names resolved,
// ordered by date and start time.
func (r *BookingRepository) ListByStudent(ctx context.Context, studentID string) ([]models.BookingWithSubject, error) {
	const query = `SELECT b.id, b.student_id, b.student_name, b.tutor_slot_id, b.tutor_name, b.subject_id, b.date, b.start_time, b.end_time, b.status, b.created_at, sub.name AS subject_name
		FROM bookings b
		JOIN subjects sub ON sub.id = b.subject_id
		WHERE b.student_id = $1
		ORDER BY b.date ASC, b.start_time ASC`
	var bookings []models.BookingWithSubject
	if err := r.db.SelectContext(ctx, &bookings, query, studentID); err != nil {
		return nil, fmt.Errorf("list student bookings: %w", err)
	}
	return bookings, nil
}

// ListAll returns every booking with subject names resolved, for the admin
// overview and exports.
func (r *BookingRepository) ListAll(ctx context.Context) ([]models.BookingWithSubject, error) {
	const query = `SELECT b.id, b.student_id, b.student_name, b.tutor_slot_id, b.tutor_name, b.subject_id, b.date, b.start_time, b.end_time, b.status, b.created_at, sub.name AS subject_name
		FROM bookings b
		JOIN subjects sub ON sub.id = b.subject_id
		ORDER BY b.date ASC, b.start_time ASC`
	var bookings []models.BookingWithSubject
	if err := r.db.SelectContext(ctx, &bookings, query); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// CreateWithSlotClaim flips the slot's booked flag and inserts the booking in
// one transaction. The flag update is conditional on booked = FALSE, so of
// two concurrent requests exactly one wins; the loser gets ErrSlotTaken. The
// unique index on bookings.tutor_slot_id backs the same invariant.
func (r *BookingRepository) CreateWithSlotClaim(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if booking.Status == "" {
		booking.Status = models.BookingStatusBooked
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin booking tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		`UPDATE tutor_slots SET booked = TRUE, updated_at = $2 WHERE id = $1 AND booked = FALSE`,
		booking.TutorSlotID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("claim slot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("claim slot result: %w", err)
	}
	if affected == 0 {
		return ErrSlotTaken
	}

	const insert = `INSERT INTO bookings (id, student_id, student_name, tutor_slot_id, tutor_name, subject_id, date, start_time, end_time, status, created_at) VALUES (:id, :student_id, :student_name, :tutor_slot_id, :tutor_name, :subject_id, :date, :start_time, :end_time, :status, :created_at)`
	if _, err := tx.NamedExecContext(ctx, insert, booking); err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit booking tx: %w", err)
	}
	return nil
}

// CountBySlot reports how many bookings reference a slot.
func (r *BookingRepository) CountBySlot(ctx context.Context, slotID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM bookings WHERE tutor_slot_id = $1`, slotID); err != nil {
		return 0, fmt.Errorf("count slot bookings: %w", err)
	}
	return count, nil
}
