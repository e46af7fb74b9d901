package models

import "time"

// TutorSlot is a tutor-published block of availability, bookable at most
// once. Date and times are opaque strings supplied by the tutor; the booked
// flag transitions false -> true exactly once and never back.
type TutorSlot struct {
	ID        string    `db:"id" json:"id"`
	TutorID   string    `db:"tutor_id" json:"tutor_id"`
	TutorName string    `db:"tutor_name" json:"tutor_name"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	Date      string    `db:"date" json:"date"`
	Start     string    `db:"start_time" json:"start"`
	End       string    `db:"end_time" json:"end"`
	Booked    bool      `db:"booked" json:"booked"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// OpenSlot is a slot row joined with its subject name for listings.
type OpenSlot struct {
	TutorSlot
	SubjectName string `db:"subject_name" json:"subject_name"`
}
