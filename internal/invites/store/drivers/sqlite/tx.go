package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/futurgenie/internal/invites/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op, the outer DB stays open.
func (t *txStore) Close() error { return nil }

// Ping is a no-op, the transaction already holds a live connection.
func (t *txStore) Ping(context.Context) error { return nil }

// Nested transactions are not supported.
func (t *txStore) Tx(context.Context) (store.Tx, error) { return nil, sql.ErrTxDone }

func (t *txStore) WithTx(context.Context, func(tx store.Tx) error) error { return sql.ErrTxDone }

// Migrations run on the outer store before any transaction.
func (t *txStore) ApplyMigrations() error { return nil }

func (t *txStore) Schools() store.Schools       { return &schoolsRepo{db: t.tx} }
func (t *txStore) Classrooms() store.Classrooms { return &classroomsRepo{db: t.tx} }
func (t *txStore) Profiles() store.Profiles     { return &profilesRepo{db: t.tx} }
func (t *txStore) Members() store.Members       { return &membersRepo{db: t.tx} }
func (t *txStore) Tokens() store.Tokens         { return &tokensRepo{db: t.tx} }
