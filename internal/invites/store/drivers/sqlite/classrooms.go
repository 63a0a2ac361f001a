package sqlite

import (
	"context"

	"github.com/aussiebroadwan/futurgenie/internal/invites/domain"
)

type classroomsRepo struct {
	db DBTX
}

const classroomColumns = `id, school_id, name, grade, created_at`

func scanClassroom(row rowScanner) (domain.Classroom, error) {
	var (
		c       domain.Classroom
		created int64
	)
	if err := row.Scan(&c.ID, &c.SchoolID, &c.Name, &c.Grade, &created); err != nil {
		return domain.Classroom{}, err
	}
	c.CreatedAt = fromMillis(created)
	return c, nil
}

const createClassroom = `INSERT INTO classrooms (` + classroomColumns + `) VALUES (?, ?, ?, ?, ?)`

func (r *classroomsRepo) CreateClassroom(ctx context.Context, c domain.Classroom) error {
	_, err := r.db.ExecContext(ctx, createClassroom, c.ID, c.SchoolID, c.Name, c.Grade, toMillis(c.CreatedAt))
	return mapWriteErr(err)
}

const getClassroomByID = `SELECT ` + classroomColumns + ` FROM classrooms WHERE id = ?`

func (r *classroomsRepo) GetClassroomByID(ctx context.Context, id string) (domain.Classroom, error) {
	c, err := scanClassroom(r.db.QueryRowContext(ctx, getClassroomByID, id))
	if err != nil {
		return domain.Classroom{}, mapNotFound(err)
	}
	return c, nil
}

const listClassroomsBySchool = `SELECT ` + classroomColumns + ` FROM classrooms WHERE school_id = ? ORDER BY name, id`

func (r *classroomsRepo) ListClassroomsBySchool(ctx context.Context, schoolID string) ([]domain.Classroom, error) {
	rows, err := r.db.QueryContext(ctx, listClassroomsBySchool, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Classroom{}
	for rows.Next() {
		c, err := scanClassroom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
