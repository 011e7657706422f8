package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visitly/availability-api/internal/models"
)

func newAvailabilityMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAvailabilityRepositoryListByHost(t *testing.T) {
	db, mock, cleanup := newAvailabilityMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "host_id", "daysofweek", "start_time", "end_time", "is_recurring", "specific_date", "created_at", "updated_at"}).
		AddRow("avail-1", "host-1", "MONDAY", "08:00:00", "09:30:00", true, nil, now, now).
		AddRow("avail-2", "host-1", "TUESDAY", "08:00:00", "08:30:00", true, nil, now, now)
	mock.ExpectQuery("SELECT id, host_id, daysofweek, start_time, end_time, is_recurring, specific_date, created_at, updated_at").
		WithArgs("host-1").
		WillReturnRows(rows)

	records, err := repo.ListByHost(context.Background(), "host-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "MONDAY", records[0].DaysOfWeek)
	assert.Equal(t, "09:30:00", records[0].EndTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryInsertAssignsID(t *testing.T) {
	db, mock, cleanup := newAvailabilityMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectExec("INSERT INTO availability").
		WithArgs(sqlmock.AnyArg(), "host-1", "MONDAY", "08:00:00", "09:30:00", true, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.Availability{
		HostID:      "host-1",
		DaysOfWeek:  "MONDAY",
		StartTime:   "08:00:00",
		EndTime:     "09:30:00",
		IsRecurring: true,
	}
	err := repo.Insert(context.Background(), record)
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newAvailabilityMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM availability WHERE id = $1")).
		WithArgs("avail-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "avail-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryDeleteAllByHostKeepsSpecificDates(t *testing.T) {
	db, mock, cleanup := newAvailabilityMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM availability WHERE host_id = $1 AND is_recurring = TRUE")).
		WithArgs("host-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.DeleteAllByHost(context.Background(), "host-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
