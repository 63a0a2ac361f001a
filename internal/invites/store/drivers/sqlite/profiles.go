package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/futurgenie/internal/invites/domain"
	"github.com/aussiebroadwan/futurgenie/internal/invites/store"
)

type profilesRepo struct {
	db DBTX
}

const createProfile = `INSERT INTO profiles (id, role, school_id, display_name, created_at) VALUES (?, ?, ?, ?, ?)`

func (r *profilesRepo) CreateProfile(ctx context.Context, p domain.Profile) error {
	_, err := r.db.ExecContext(ctx, createProfile,
		p.ID, string(p.Role), mapStringNull(p.SchoolID), p.DisplayName, toMillis(p.CreatedAt))
	return mapWriteErr(err)
}

const getProfileByID = `SELECT id, role, school_id, display_name, created_at FROM profiles WHERE id = ?`

func (r *profilesRepo) GetProfileByID(ctx context.Context, id string) (domain.Profile, error) {
	var (
		p       domain.Profile
		role    string
		school  sql.NullString
		created int64
	)
	err := r.db.QueryRowContext(ctx, getProfileByID, id).Scan(&p.ID, &role, &school, &p.DisplayName, &created)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	p.Role = domain.Role(role)
	p.SchoolID = mapNullString(school)
	p.CreatedAt = fromMillis(created)
	return p, nil
}

const assignSchool = `UPDATE profiles SET role = ?, school_id = ? WHERE id = ? AND school_id IS NULL`

func (r *profilesRepo) AssignSchool(ctx context.Context, id string, role domain.Role, schoolID string) error {
	res, err := r.db.ExecContext(ctx, assignSchool, string(role), schoolID, id)
	if err != nil {
		return mapWriteErr(err)
	}
	return requireOneRow(res, store.ErrConflict)
}
