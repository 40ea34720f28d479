package purchase

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/mealsplit/internal/purchase/split"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testWriteSet() *WriteSet {
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return &WriteSet{
		Purchase: &Purchase{
			ID: "p1", RoomID: "r1", PayerUserID: "u1", TotalCents: 1000, Currency: "USD",
			PurchasedAt: at, SplitMode: split.ModeCustomAmount, CreatedByUserID: "u1",
		},
		Splits: []*Split{
			{ID: "s1", PurchaseID: "p1", UserID: "u1", ShareCents: 600},
			{ID: "s2", PurchaseID: "p1", UserID: "u2", ShareCents: 400},
		},
		Inputs: []*SplitInput{
			{ID: "i1", PurchaseID: "p1", UserID: "u1", RawValue: "6", Value: 600},
			{ID: "i2", PurchaseID: "p1", UserID: "u2", RawValue: "4.00", Value: 400},
		},
	}
}

func TestRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)
	ws := testWriteSet()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO purchases").
		WithArgs("p1", "r1", "u1", int64(1000), "USD", ws.Purchase.PurchasedAt, "custom_amount", nil, nil, "u1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectExec("INSERT INTO purchase_splits").
		WithArgs("s1", "p1", "u1", int64(600)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO purchase_splits").
		WithArgs("s2", "p1", "u2", int64(400)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO purchase_split_inputs").
		WithArgs("i1", "p1", "u1", "6", int64(600)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO purchase_split_inputs").
		WithArgs("i2", "p1", "u2", "4.00", int64(400)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), ws))
	assert.Equal(t, now, ws.Purchase.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_RollsBackOnSplitFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO purchases").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectExec("INSERT INTO purchase_splits").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO purchase_splits").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), testWriteSet())
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByRoom(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)
	now := time.Now()
	notes := "weekly shop"

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM purchases WHERE room_id = \\$1").
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery("SELECT (.+) FROM purchases WHERE room_id = \\$1 ORDER BY purchased_at DESC").
		WithArgs("r1", 50, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_id", "payer_user_id", "total_cents", "currency", "purchased_at", "split_mode", "notes", "category", "created_by_user_id", "created_at"}).
			AddRow("p1", "r1", "u1", int64(1000), "USD", now, "equal", notes, nil, "u1", now))

	purchases, total, err := repo.ListByRoom(context.Background(), "r1", 50, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, purchases, 1)
	assert.Equal(t, split.ModeEqual, purchases[0].SplitMode)
	require.NotNil(t, purchases[0].Notes)
	assert.Equal(t, notes, *purchases[0].Notes)
	assert.Nil(t, purchases[0].Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_RoomLedger(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT id, payer_user_id, total_cents, purchased_at FROM purchases").
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "payer_user_id", "total_cents", "purchased_at"}).
			AddRow("p1", "u1", int64(900), now))
	mock.ExpectQuery("SELECT s.purchase_id, s.user_id, s.share_cents FROM purchase_splits s").
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows([]string{"purchase_id", "user_id", "share_cents"}).
			AddRow("p1", "u1", int64(450)).
			AddRow("p1", "u2", int64(450)))

	purchases, shares, err := repo.RoomLedger(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, "u1", purchases[0].PayerID)
	require.Len(t, shares, 2)
	assert.Equal(t, int64(450), shares[1].Cents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM purchases WHERE id = \\$1").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	p, err := repo.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, p)
}
