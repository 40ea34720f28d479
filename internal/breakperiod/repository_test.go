package breakperiod

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var periodColumns = []string{"id", "room_id", "user_id", "start_date", "end_date", "mode", "created_by_user_id", "created_at"}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)
	now := time.Now()

	p := &BreakPeriod{ID: "p1", RoomID: "r1", UserID: "u1", StartDate: "2024-03-01", EndDate: "2024-03-05", Mode: ModeExclude, CreatedByUserID: "u1"}

	mock.ExpectQuery("INSERT INTO member_break_periods").
		WithArgs("p1", "r1", "u1", "2024-03-01", "2024-03-05", ModeExclude, "u1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, now, p.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListCovering(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM member_break_periods WHERE room_id = \\$1 AND start_date <= \\$2").
		WithArgs("r1", "2024-03-03").
		WillReturnRows(sqlmock.NewRows(periodColumns).
			AddRow("p1", "r1", "u1", "2024-03-01", "2024-03-05", "exclude", "u1", now))

	periods, err := repo.ListCovering(context.Background(), "r1", "2024-03-03")
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, "2024-03-01", periods[0].StartDate)
	assert.Equal(t, ModeExclude, periods[0].Mode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM member_break_periods WHERE id = \\$1").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(periodColumns))

	p, err := repo.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestRepository_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectExec("DELETE FROM member_break_periods").
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "p1"), ErrBreakPeriodNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
