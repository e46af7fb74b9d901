package models

import "time"

// Audit actions recorded by the application.
const (
	AuditActionLogin         = "LOGIN"
	AuditActionLogout        = "LOGOUT"
	AuditActionUserCreate    = "USER_CREATE"
	AuditActionUserDelete    = "USER_DELETE"
	AuditActionSubjectCreate = "SUBJECT_CREATE"
	AuditActionSubjectDelete = "SUBJECT_DELETE"
	AuditActionSlotCreate    = "SLOT_CREATE"
	AuditActionSlotDelete    = "SLOT_DELETE"
	AuditActionBookingCreate = "BOOKING_CREATE"
)

// AuditLog is an append-only record of a state-changing action.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent  string    `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
