package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/studyslot/studyslot-api/internal/models"
	"github.com/studyslot/studyslot-api/internal/repository"
)

// stubUserRepo is an in-memory userRepository (and authUserRepository /
// seedUserRepository) for service tests.
type stubUserRepo struct {
	users     []*models.User
	auditLogs []*models.AuditLog

	listErr   error
	createErr error
	deleteErr error
	auditErr  error
}

func (s *stubUserRepo) List(ctx context.Context) ([]models.User, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	if user.ID == "" {
		user.ID = "user-" + user.Email
	}
	s.users = append(s.users, user)
	return nil
}

func (s *stubUserRepo) Delete(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i, u := range s.users {
		if u.ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *stubUserRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if s.auditErr != nil {
		return s.auditErr
	}
	s.auditLogs = append(s.auditLogs, log)
	return nil
}

// stubSubjectRepo is an in-memory subjectRepository.
type stubSubjectRepo struct {
	subjects []*models.Subject

	createErr error
	deleteErr error
}

func (s *stubSubjectRepo) List(ctx context.Context) ([]models.Subject, error) {
	out := make([]models.Subject, 0, len(s.subjects))
	for _, sub := range s.subjects {
		out = append(out, *sub)
	}
	return out, nil
}

func (s *stubSubjectRepo) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	for _, sub := range s.subjects {
		if sub.ID == id {
			return sub, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubSubjectRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	for _, sub := range s.subjects {
		if strings.EqualFold(sub.Code, code) {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubSubjectRepo) Create(ctx context.Context, subject *models.Subject) error {
	if s.createErr != nil {
		return s.createErr
	}
	if subject.ID == "" {
		subject.ID = "subject-" + subject.Code
	}
	s.subjects = append(s.subjects, subject)
	return nil
}

func (s *stubSubjectRepo) Delete(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i, sub := range s.subjects {
		if sub.ID == id {
			s.subjects = append(s.subjects[:i], s.subjects[i+1:]...)
			return nil
		}
	}
	return nil
}

// stubSlotRepo is an in-memory slotRepository and bookingSlotLookup.
type stubSlotRepo struct {
	slots []*models.TutorSlot

	createErr error
	deleteErr error
	listErr   error
}

func (s *stubSlotRepo) FindByID(ctx context.Context, id string) (*models.TutorSlot, error) {
	for _, slot := range s.slots {
		if slot.ID == id {
			return slot, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubSlotRepo) ListByTutor(ctx context.Context, tutorID string) ([]models.OpenSlot, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.OpenSlot
	for _, slot := range s.slots {
		if slot.TutorID == tutorID {
			out = append(out, models.OpenSlot{TutorSlot: *slot})
		}
	}
	return out, nil
}

func (s *stubSlotRepo) ListOpen(ctx context.Context) ([]models.OpenSlot, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.OpenSlot
	for _, slot := range s.slots {
		if !slot.Booked {
			out = append(out, models.OpenSlot{TutorSlot: *slot})
		}
	}
	return out, nil
}

func (s *stubSlotRepo) Create(ctx context.Context, slot *models.TutorSlot) error {
	if s.createErr != nil {
		return s.createErr
	}
	if slot.ID == "" {
		slot.ID = "slot-new"
	}
	s.slots = append(s.slots, slot)
	return nil
}

func (s *stubSlotRepo) Delete(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i, slot := range s.slots {
		if slot.ID == id {
			s.slots = append(s.slots[:i], s.slots[i+1:]...)
			return nil
		}
	}
	return nil
}

// stubBookingRepo is an in-memory bookingRepository that mirrors the
// conditional claim semantics of the real one.
type stubBookingRepo struct {
	slots    *stubSlotRepo
	bookings []*models.Booking

	claimErr error
	listErr  error
	countErr error
}

func (s *stubBookingRepo) CountBySlot(ctx context.Context, slotID string) (int, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	count := 0
	for _, b := range s.bookings {
		if b.TutorSlotID == slotID {
			count++
		}
	}
	return count, nil
}

func (s *stubBookingRepo) ListByStudent(ctx context.Context, studentID string) ([]models.BookingWithSubject, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.BookingWithSubject
	for _, b := range s.bookings {
		if b.StudentID == studentID {
			out = append(out, models.BookingWithSubject{Booking: *b})
		}
	}
	return out, nil
}

func (s *stubBookingRepo) ListAll(ctx context.Context) ([]models.BookingWithSubject, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.BookingWithSubject
	for _, b := range s.bookings {
		out = append(out, models.BookingWithSubject{Booking: *b})
	}
	return out, nil
}

func (s *stubBookingRepo) CreateWithSlotClaim(ctx context.Context, booking *models.Booking) error {
	if s.claimErr != nil {
		return s.claimErr
	}
	if s.slots != nil {
		slot, err := s.slots.FindByID(ctx, booking.TutorSlotID)
		if err != nil || slot.Booked {
			return repository.ErrSlotTaken
		}
		slot.Booked = true
	}
	if booking.ID == "" {
		booking.ID = "booking-new"
	}
	s.bookings = append(s.bookings, booking)
	return nil
}
