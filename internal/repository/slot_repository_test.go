package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyslot/studyslot-api/internal/models"
)

func slotColumns() []string {
	return []string{"id", "tutor_id", "tutor_name", "subject_id", "date", "start_time", "end_time", "booked", "created_at", "updated_at"}
}

func openSlotColumns() []string {
	return append(slotColumns(), "subject_name")
}

func TestSlotRepositoryFindByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSlotRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(slotColumns()).
		AddRow("s-1", "u-2", "Tutor One", "sub-1", "2026-09-01", "10:00", "11:00", false, now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, tutor_id, tutor_name, subject_id, date, start_time, end_time, booked, created_at, updated_at FROM tutor_slots WHERE id = $1 LIMIT 1`)).
		WithArgs("s-1").
		WillReturnRows(rows)

	slot, err := repo.FindByID(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, "u-2", slot.TutorID)
	assert.False(t, slot.Booked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryFindByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSlotRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM tutor_slots WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryListOpen(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSlotRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(openSlotColumns()).
		AddRow("s-1", "u-2", "Tutor One", "sub-1", "2026-09-01", "10:00", "11:00", false, now, now, "Mathematics").
		AddRow("s-2", "u-2", "Tutor One", "sub-1", "2026-09-01", "11:00", "12:00", false, now, now, "Mathematics")

	mock.ExpectQuery(`(?s)SELECT s\.id, .+FROM tutor_slots s\s+JOIN subjects sub ON sub\.id = s\.subject_id\s+WHERE s\.booked = FALSE`).
		WillReturnRows(rows)

	slots, err := repo.ListOpen(context.Background())
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "Mathematics", slots[0].SubjectName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryListByTutor(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSlotRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(openSlotColumns()).
		AddRow("s-1", "u-2", "Tutor One", "sub-1", "2026-09-01", "10:00", "11:00", true, now, now, "Mathematics")

	mock.ExpectQuery(`(?s)SELECT s\.id, .+FROM tutor_slots s\s+JOIN subjects sub ON sub\.id = s\.subject_id\s+WHERE s\.tutor_id = \$1`).
		WithArgs("u-2").
		WillReturnRows(rows)

	slots, err := repo.ListByTutor(context.Background(), "u-2")
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.True(t, slots[0].Booked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryCreateAssignsID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSlotRepository(db)

	mock.ExpectExec(`INSERT INTO tutor_slots`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	slot := &models.TutorSlot{
		TutorID:   "u-2",
		TutorName: "Tutor One",
		SubjectID: "sub-1",
		Date:      "2026-09-01",
		Start:     "10:00",
		End:       "11:00",
	}
	require.NoError(t, repo.Create(context.Background(), slot))
	assert.NotEmpty(t, slot.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryDelete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSlotRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tutor_slots WHERE id = $1`)).
		WithArgs("s-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "s-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
