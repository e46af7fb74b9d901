package models

import "time"

// BookingStatusBooked is the only status a booking ever holds; there is no
// cancellation path.
const BookingStatusBooked = "booked"

// Booking records a student claiming a slot. Tutor, subject and time fields
// are snapshots of the source slot taken at creation.
type Booking struct {
	ID          string    `db:"id" json:"id"`
	StudentID   string    `db:"student_id" json:"student_id"`
	StudentName string    `db:"student_name" json:"student_name"`
	TutorSlotID string    `db:"tutor_slot_id" json:"tutor_slot_id"`
	TutorName   string    `db:"tutor_name" json:"tutor_name"`
	SubjectID   string    `db:"subject_id" json:"subject_id"`
	Date        string    `db:"date" json:"date"`
	Start       string    `db:"start_time" json:"start"`
	End         string    `db:"end_time" json:"end"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// BookingWithSubject is a booking joined with its subject name for the
// student's session list.
type BookingWithSubject struct {
	Booking
	SubjectName string `db:"subject_name" json:"subject_name"`
}
