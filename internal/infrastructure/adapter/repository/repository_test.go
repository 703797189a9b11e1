package repository

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/amirhossein-jamali/game-portal/internal/domain/entity"
	errs "github.com/amirhossein-jamali/game-portal/internal/domain/error"
	"github.com/amirhossein-jamali/game-portal/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/game-portal/mocks/port/core"
)

var accountColumns = []string{"id", "login", "name", "role", "balance", "currency", "supervisor_id", "created_at", "updated_at"}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestAccountRepository_GetByID(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAccountRepository(db, core.NewPermissiveLogger())

		mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE "accounts"."id" = \$1`).
			WillReturnRows(sqlmock.NewRows(accountColumns).
				AddRow(3, "user1", "User One", "user", "125.50", "USD", 2, now, now))

		account, err := repo.GetByID(context.Background(), 3)

		require.NoError(t, err)
		assert.Equal(t, uint64(3), account.ID)
		assert.Equal(t, entity.RoleUser, account.Role)
		assert.Equal(t, "125.50", account.FormattedBalance())
		require.NotNil(t, account.SupervisorID)
		assert.True(t, account.IsSupervisedBy(2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAccountRepository(db, core.NewPermissiveLogger())

		mock.ExpectQuery(`SELECT \* FROM "accounts"`).
			WillReturnRows(sqlmock.NewRows(accountColumns))

		_, err := repo.GetByID(context.Background(), 99)

		assert.ErrorIs(t, err, errs.ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_LockByIDs(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("locks every requested account", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAccountRepository(db, core.NewPermissiveLogger())

		mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id IN \(\$1,\$2\) ORDER BY id FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows(accountColumns).
				AddRow(2, "runner", "Runner", "runner", "0.00", "USD", nil, now, now).
				AddRow(3, "user1", "User One", "user", "10.00", "USD", 2, now, now))

		accounts, err := repo.LockByIDs(context.Background(), 3, 2, 3)

		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, entity.RoleRunner, accounts[2].Role)
		assert.Nil(t, accounts[2].SupervisorID)
		assert.Equal(t, "10.00", accounts[3].FormattedBalance())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing account is left out of the result", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAccountRepository(db, core.NewPermissiveLogger())

		mock.ExpectQuery(`FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows(accountColumns).
				AddRow(2, "runner", "Runner", "runner", "0.00", "USD", nil, now, now))

		accounts, err := repo.LockByIDs(context.Background(), 2, 3)

		require.NoError(t, err)
		assert.Contains(t, accounts, uint64(2))
		assert.NotContains(t, accounts, uint64(3))
	})

	t.Run("deadlock maps to conflict", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAccountRepository(db, core.NewPermissiveLogger())

		mock.ExpectQuery(`FOR UPDATE`).
			WillReturnError(&pgconn.PgError{Code: "40P01", Message: "deadlock detected"})

		_, err := repo.LockByIDs(context.Background(), 2)

		assert.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestAccountRepository_UpdateBalance(t *testing.T) {
	account := &entity.Account{ID: 3, Balance: decimal.RequireFromString("42.10"), UpdatedAt: time.Now()}

	t.Run("updated", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAccountRepository(db, core.NewPermissiveLogger())

		mock.ExpectExec(`UPDATE "accounts" SET "balance"=\$1,"updated_at"=\$2 WHERE id = \$3`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateBalance(context.Background(), account))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAccountRepository(db, core.NewPermissiveLogger())

		mock.ExpectExec(`UPDATE "accounts"`).WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.UpdateBalance(context.Background(), account), errs.ErrAccountNotFound)
	})
}

func TestLedgerRepository_Append(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLedgerRepository(db, core.NewPermissiveLogger())

	mock.ExpectQuery(`INSERT INTO "ledger_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	entry := entity.NewAdjustment(2, 3, decimal.RequireFromString("50.00"), time.Now())
	require.NoError(t, repo.Append(context.Background(), entry))

	assert.Equal(t, uint64(42), entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepository_SumCredits(t *testing.T) {
	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	recipient := uint64(3)

	t.Run("per recipient", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewLedgerRepository(db, core.NewPermissiveLogger())

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "ledger_entries" WHERE \(actor_id = \$1 AND kind = \$2 AND amount > 0\) AND \(created_at >= \$3 AND created_at < \$4\) AND recipient_id = \$5`).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("750.25"))

		sum, err := repo.SumCredits(context.Background(), persistence.CreditSumFilter{
			ActorID:     2,
			RecipientID: &recipient,
			Since:       since,
			Until:       since.AddDate(0, 0, 1),
		})

		require.NoError(t, err)
		assert.Equal(t, "750.25", sum.StringFixed(2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("all recipients", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewLedgerRepository(db, core.NewPermissiveLogger())

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "ledger_entries"`).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("0"))

		sum, err := repo.SumCredits(context.Background(), persistence.CreditSumFilter{
			ActorID: 2,
			Since:   since,
			Until:   since.AddDate(0, 0, 1),
		})

		require.NoError(t, err)
		assert.True(t, sum.IsZero())
	})
}

func TestLedgerRepository_ReferenceExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLedgerRepository(db, core.NewPermissiveLogger())

	mock.ExpectQuery(`SELECT count\(\*\) FROM "ledger_entries" WHERE reference = \$1`).
		WithArgs("trade-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	exists, err := repo.ReferenceExists(context.Background(), "trade-1")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_DeleteNotIn(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCatalogRepository(db, core.NewPermissiveLogger())

	mock.ExpectExec(`DELETE FROM "game_catalog" WHERE id NOT IN \(\$1,\$2\)`).
		WithArgs("g1", "g2").
		WillReturnResult(sqlmock.NewResult(0, 3))

	removed, err := repo.DeleteNotIn(context.Background(), []string{"g1", "g2"})

	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepository_FindByIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCatalogRepository(db, core.NewPermissiveLogger())

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "game_catalog" WHERE id IN \(\$1,\$2\)`).
		WithArgs("g1", "g2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "provider", "device", "categories", "thumbnail", "demo", "bookmark", "rewrite_rule", "exit_button", "created_at", "updated_at"}).
			AddRow("g1", "Book of Dead", "Play'n GO", 2, "slots", "//img/a.png", true, false, false, true, now, now))

	found, err := repo.FindByIDs(context.Background(), []string{"g1", "g2"})

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Book of Dead", found["g1"].Name)
	assert.True(t, found["g1"].ExitButton)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Create(t *testing.T) {
	session := &entity.GameSession{
		PublicID:  "5b0c1a4e-7d38-4f44-9d49-2f0f9a0e3c11",
		AccountID: 3,
		GameID:    "g1",
		Status:    entity.SessionOpening,
		OpenedAt:  time.Now(),
		UpdatedAt: time.Now(),
	}

	t.Run("stored", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSessionRepository(db, core.NewPermissiveLogger())

		mock.ExpectQuery(`INSERT INTO "game_sessions"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

		s := *session
		require.NoError(t, repo.Create(context.Background(), &s))
		assert.Equal(t, uint64(11), s.ID)
	})

	t.Run("second active session", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSessionRepository(db, core.NewPermissiveLogger())

		mock.ExpectQuery(`INSERT INTO "game_sessions"`).
			WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

		s := *session
		err := repo.Create(context.Background(), &s)
		assert.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestSessionRepository_CloseStale(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db, core.NewPermissiveLogger())

	mock.ExpectExec(`UPDATE "game_sessions" SET "closed_at"=\$1,"status"=\$2,"updated_at"=\$3 WHERE status IN \(\$4,\$5\) AND updated_at < \$6`).
		WillReturnResult(sqlmock.NewResult(0, 4))

	now := time.Now()
	closed, err := repo.CloseStale(context.Background(), now.Add(-30*time.Minute), now)

	require.NoError(t, err)
	assert.Equal(t, int64(4), closed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_GetByPublicID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db, core.NewPermissiveLogger())

	mock.ExpectQuery(`SELECT \* FROM "game_sessions" WHERE public_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByPublicID(context.Background(), "missing")
	assert.ErrorIs(t, err, errs.ErrSessionNotFound)
}

func TestSyncLockRepository_AcquireTxLock(t *testing.T) {
	t.Run("inside transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSyncLockRepository(db, true, core.NewPermissiveLogger())

		mock.ExpectExec(`SELECT pg_advisory_xact_lock\(hashtext\(\$1\)\)`).
			WithArgs("game-catalog-sync").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.AcquireTxLock(context.Background(), "game-catalog-sync"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("outside transaction", func(t *testing.T) {
		db, _ := newMockDB(t)
		repo := NewSyncLockRepository(db, false, core.NewPermissiveLogger())

		assert.ErrorIs(t, repo.AcquireTxLock(context.Background(), "game-catalog-sync"), errs.ErrInternalServer)
	})
}

func TestErrorClassifier_MapError(t *testing.T) {
	c := NewErrorClassifier()

	testCases := []struct {
		name     string
		err      error
		expected error
	}{
		{"record not found", gorm.ErrRecordNotFound, errs.ErrAccountNotFound},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, errs.ErrConflict},
		{"lock not available", &pgconn.PgError{Code: "55P03"}, errs.ErrConflict},
		{"unique violation", &pgconn.PgError{Code: "23505"}, errs.ErrConstraintViolation},
		{"foreign key", &pgconn.PgError{Code: "23503"}, errs.ErrConstraintViolation},
		{"numeric overflow", &pgconn.PgError{Code: "22003", Message: "numeric field overflow"}, errs.ErrInvalidInput},
		{"value too long", &pgconn.PgError{Code: "22001"}, errs.ErrInvalidInput},
		{"deadline", context.DeadlineExceeded, errs.ErrDatabaseConnection},
		{"other", errors.New("boom"), errs.ErrDatabaseConnection},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, c.MapError(tc.err, errs.ErrAccountNotFound), tc.expected)
		})
	}

	assert.NoError(t, c.MapError(nil, errs.ErrAccountNotFound))
	assert.True(t, c.IsLockError(errors.New("could not serialize access due to concurrent update")))
	assert.True(t, c.IsDuplicateKeyError(errors.New("duplicate key value violates unique constraint")))

	overflow := c.MapError(&pgconn.PgError{Code: "22003"}, errs.ErrAccountNotFound)
	assert.NotErrorIs(t, overflow, errs.ErrDatabaseConnection)
	assert.Equal(t, http.StatusUnprocessableEntity, errs.HTTPStatus(overflow))
}
