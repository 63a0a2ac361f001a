package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/futurgenie/internal/invites/domain"
	"github.com/aussiebroadwan/futurgenie/internal/invites/store"
)

type tokensRepo struct {
	db DBTX
}

const tokenColumns = `id, secret_hash, secret_sealed, school_id, classroom_id, intended_role,
	created_by, created_at, expires_at, used_at, used_by`

func scanToken(row rowScanner) (domain.InvitationToken, error) {
	var (
		t                domain.InvitationToken
		role             string
		created, expires int64
		usedAt           sql.NullInt64
		usedBy           sql.NullString
	)
	err := row.Scan(
		&t.ID, &t.SecretHash, &t.SecretSealed, &t.SchoolID, &t.ClassroomID, &role,
		&t.CreatedBy, &created, &expires, &usedAt, &usedBy,
	)
	if err != nil {
		return domain.InvitationToken{}, err
	}

	t.IntendedRole = domain.Role(role)
	t.CreatedAt = fromMillis(created)
	t.ExpiresAt = fromMillis(expires)
	t.UsedAt = mapNullMillis(usedAt)
	t.UsedBy = mapNullString(usedBy)
	return t, nil
}

func (r *tokensRepo) queryTokens(ctx context.Context, query string, args ...any) ([]domain.InvitationToken, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.InvitationToken{}
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

const createToken = `INSERT INTO invitation_tokens (
	id, secret_hash, secret_sealed, school_id, classroom_id, intended_role, created_by, created_at, expires_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (r *tokensRepo) CreateToken(ctx context.Context, t domain.InvitationToken) error {
	_, err := r.db.ExecContext(ctx, createToken,
		t.ID, t.SecretHash, t.SecretSealed, t.SchoolID, t.ClassroomID, string(t.IntendedRole),
		t.CreatedBy, toMillis(t.CreatedAt), toMillis(t.ExpiresAt),
	)
	return mapWriteErr(err)
}

const getTokenByID = `SELECT ` + tokenColumns + ` FROM invitation_tokens WHERE id = ?`

func (r *tokensRepo) GetTokenByID(ctx context.Context, id string) (domain.InvitationToken, error) {
	t, err := scanToken(r.db.QueryRowContext(ctx, getTokenByID, id))
	if err != nil {
		return domain.InvitationToken{}, mapNotFound(err)
	}
	return t, nil
}

const getTokenBySecretHash = `SELECT ` + tokenColumns + ` FROM invitation_tokens WHERE secret_hash = ?`

func (r *tokensRepo) GetTokenBySecretHash(ctx context.Context, hash string) (domain.InvitationToken, error) {
	t, err := scanToken(r.db.QueryRowContext(ctx, getTokenBySecretHash, hash))
	if err != nil {
		return domain.InvitationToken{}, mapNotFound(err)
	}
	return t, nil
}

const findValidToken = `SELECT ` + tokenColumns + ` FROM invitation_tokens
WHERE school_id = ? AND classroom_id = ? AND intended_role = ?
  AND used_at IS NULL AND expires_at > ?
ORDER BY created_at DESC, id DESC
LIMIT 1`

func (r *tokensRepo) FindValidToken(
	ctx context.Context,
	schoolID, classroomID string,
	role domain.Role,
	now time.Time,
) (domain.InvitationToken, error) {
	t, err := scanToken(r.db.QueryRowContext(ctx, findValidToken, schoolID, classroomID, string(role), toMillis(now)))
	if err != nil {
		return domain.InvitationToken{}, mapNotFound(err)
	}
	return t, nil
}

const listUnusedTokens = `SELECT ` + tokenColumns + ` FROM invitation_tokens
WHERE classroom_id = ? AND used_at IS NULL
ORDER BY created_at DESC, id DESC`

func (r *tokensRepo) ListUnusedTokens(ctx context.Context, classroomID string) ([]domain.InvitationToken, error) {
	return r.queryTokens(ctx, listUnusedTokens, classroomID)
}

const markTokenUsed = `UPDATE invitation_tokens SET used_at = ?, used_by = ?
WHERE id = ? AND used_at IS NULL AND expires_at > ?`

func (r *tokensRepo) MarkTokenUsed(ctx context.Context, id, usedBy string, now time.Time) error {
	at := toMillis(now)
	res, err := r.db.ExecContext(ctx, markTokenUsed, at, mapStringNull(usedBy), id, at)
	if err != nil {
		return err
	}
	return requireOneRow(res, store.ErrConflict)
}

const deleteToken = `DELETE FROM invitation_tokens WHERE id = ?`

func (r *tokensRepo) DeleteToken(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteToken, id)
	if err != nil {
		return err
	}
	return requireOneRow(res, store.ErrNotFound)
}

const deleteExpiredTokens = `DELETE FROM invitation_tokens WHERE used_at IS NULL AND expires_at <= ?`

func (r *tokensRepo) DeleteExpiredTokens(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteExpiredTokens, toMillis(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
