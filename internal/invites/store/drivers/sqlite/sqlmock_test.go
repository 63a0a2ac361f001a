package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aussiebroadwan/futurgenie/internal/invites/store"
	"github.com/aussiebroadwan/futurgenie/internal/invites/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*sqlite.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("PRAGMA foreign_keys").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("PRAGMA busy_timeout").WillReturnResult(sqlmock.NewResult(0, 0))

	s, err := sqlite.NewStoreFromDB(db)
	require.NoError(t, err)
	return s, mock
}

func TestNewStoreFromDB_PragmaFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("PRAGMA foreign_keys").WillReturnError(errors.New("read-only"))

	_, err = sqlite.NewStoreFromDB(db)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkTokenUsed_DriverErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("exec error surfaces", func(t *testing.T) {
		s, mock := newMockStore(t)
		boom := errors.New("disk I/O error")
		mock.ExpectExec("UPDATE invitation_tokens SET used_at").WillReturnError(boom)

		err := s.Tokens().MarkTokenUsed(ctx, "tok", "acct", time.Now())
		require.ErrorIs(t, err, boom)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rows affected error surfaces", func(t *testing.T) {
		s, mock := newMockStore(t)
		boom := errors.New("rows affected unsupported")
		mock.ExpectExec("UPDATE invitation_tokens SET used_at").
			WillReturnResult(sqlmock.NewErrorResult(boom))

		err := s.Tokens().MarkTokenUsed(ctx, "tok", "acct", time.Now())
		require.ErrorIs(t, err, boom)
	})

	t.Run("zero rows is a conflict", func(t *testing.T) {
		s, mock := newMockStore(t)
		now := time.Date(2026, 2, 2, 8, 30, 0, 0, time.UTC)
		mock.ExpectExec("UPDATE invitation_tokens SET used_at").
			WithArgs(now.UnixMilli(), "acct", "tok", now.UnixMilli()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.Tokens().MarkTokenUsed(ctx, "tok", "acct", now)
		require.ErrorIs(t, err, store.ErrConflict)
	})
}

func TestWithTx_CommitAndRollback(t *testing.T) {
	ctx := context.Background()

	t.Run("commit on success", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM invitation_tokens WHERE id").WithArgs("tok").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := s.WithTx(ctx, func(tx store.Tx) error {
			return tx.Tokens().DeleteToken(ctx, "tok")
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback on error", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM invitation_tokens WHERE id").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := s.WithTx(ctx, func(tx store.Tx) error {
			return tx.Tokens().DeleteToken(ctx, "tok")
		})
		require.ErrorIs(t, err, store.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectBegin().WillReturnError(sql.ErrConnDone)

		err := s.WithTx(ctx, func(store.Tx) error { return nil })
		require.ErrorIs(t, err, sql.ErrConnDone)
	})

	t.Run("nested transactions are refused", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := s.WithTx(ctx, func(tx store.Tx) error {
			return tx.WithTx(ctx, func(store.Tx) error { return nil })
		})
		require.ErrorIs(t, err, sql.ErrTxDone)
	})
}

func TestListUnusedTokens_ScanError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("FROM invitation_tokens").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("only-one-column"))

	_, err := s.Tokens().ListUnusedTokens(context.Background(), "c1")
	require.Error(t, err)
}

func TestDeleteExpiredTokens_ReportsCount(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("DELETE FROM invitation_tokens WHERE used_at IS NULL").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := s.Tokens().DeleteExpiredTokens(context.Background(), time.Now())
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
}
