package sqlite

import (
	"context"

	"github.com/aussiebroadwan/futurgenie/internal/invites/domain"
)

type schoolsRepo struct {
	db DBTX
}

const createSchool = `INSERT INTO schools (id, name, created_by, created_at) VALUES (?, ?, ?, ?)`

func (r *schoolsRepo) CreateSchool(ctx context.Context, s domain.School) error {
	_, err := r.db.ExecContext(ctx, createSchool, s.ID, s.Name, s.CreatedBy, toMillis(s.CreatedAt))
	return mapWriteErr(err)
}

const getSchoolByID = `SELECT id, name, created_by, created_at FROM schools WHERE id = ?`

func (r *schoolsRepo) GetSchoolByID(ctx context.Context, id string) (domain.School, error) {
	var (
		s       domain.School
		created int64
	)
	err := r.db.QueryRowContext(ctx, getSchoolByID, id).Scan(&s.ID, &s.Name, &s.CreatedBy, &created)
	if err != nil {
		return domain.School{}, mapNotFound(err)
	}
	s.CreatedAt = fromMillis(created)
	return s, nil
}
