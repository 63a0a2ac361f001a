package sqlite

import (
	"context"

	"github.com/aussiebroadwan/futurgenie/internal/invites/domain"
)

type membersRepo struct {
	db DBTX
}

const addMember = `INSERT INTO classroom_members (classroom_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)`

func (r *membersRepo) AddMember(ctx context.Context, m domain.ClassroomMember) error {
	_, err := r.db.ExecContext(ctx, addMember, m.ClassroomID, m.UserID, string(m.Role), toMillis(m.JoinedAt))
	return mapWriteErr(err)
}

const listMembers = `SELECT classroom_id, user_id, role, joined_at FROM classroom_members WHERE classroom_id = ? ORDER BY joined_at, user_id`

func (r *membersRepo) ListMembers(ctx context.Context, classroomID string) ([]domain.ClassroomMember, error) {
	rows, err := r.db.QueryContext(ctx, listMembers, classroomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ClassroomMember{}
	for rows.Next() {
		var (
			m      domain.ClassroomMember
			role   string
			joined int64
		)
		if err := rows.Scan(&m.ClassroomID, &m.UserID, &role, &joined); err != nil {
			return nil, err
		}
		m.Role = domain.Role(role)
		m.JoinedAt = fromMillis(joined)
		out = append(out, m)
	}
	return out, rows.Err()
}
