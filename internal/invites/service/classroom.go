package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/futurgenie/internal/invites/domain"
	"github.com/aussiebroadwan/futurgenie/internal/invites/store"
	"github.com/aussiebroadwan/futurgenie/pkg/idx"
	"github.com/aussiebroadwan/futurgenie/pkg/slogx"
)

var ErrClassroomNameTaken = fmt.Errorf("%w: classroom name already used in this school", ErrInvalidInput)

// ClassroomService is the minimal classroom surface invitations need.
type ClassroomService struct {
	Store store.Store
	Now   func() time.Time
}

// CreateClassroom adds a classroom to the director's school.
func (s *ClassroomService) CreateClassroom(
	ctx context.Context,
	actor domain.Actor,
	name string,
	grade string,
) (domain.Classroom, error) {
	if err := requireDirector(actor); err != nil {
		return domain.Classroom{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Classroom{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	now := clock(s.Now)
	c := domain.Classroom{
		ID:        idx.NewAt(now).String(),
		SchoolID:  actor.SchoolID,
		Name:      name,
		Grade:     strings.TrimSpace(grade),
		CreatedAt: now,
	}

	if err := s.Store.Classrooms().CreateClassroom(ctx, c); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Classroom{}, ErrClassroomNameTaken
		}
		slogx.FromContext(ctx).Error("failed to create classroom", slog.Any("error", err))
		return domain.Classroom{}, fmt.Errorf("create classroom: %w", err)
	}

	slogx.FromContext(ctx).Info("classroom created",
		slog.String("classroom_id", c.ID),
		slog.String("school_id", c.SchoolID),
	)
	return c, nil
}

// ListClassrooms lists the director's classrooms by name.
func (s *ClassroomService) ListClassrooms(ctx context.Context, actor domain.Actor) ([]domain.Classroom, error) {
	if err := requireDirector(actor); err != nil {
		return nil, err
	}

	list, err := s.Store.Classrooms().ListClassroomsBySchool(ctx, actor.SchoolID)
	if err != nil {
		return nil, fmt.Errorf("list classrooms: %w", err)
	}
	return list, nil
}

// Roster is the membership of one classroom with per-role counts.
type Roster struct {
	ClassroomID string
	Members     []domain.ClassroomMember
	Teachers    int
	Parents     int
}

// ListMembers returns who joined one of the director's classrooms, oldest
// first. Foreign classrooms are reported as missing.
func (s *ClassroomService) ListMembers(ctx context.Context, actor domain.Actor, classroomID string) (Roster, error) {
	if err := requireDirector(actor); err != nil {
		return Roster{}, err
	}
	classroomID = strings.TrimSpace(classroomID)
	if classroomID == "" {
		return Roster{}, fmt.Errorf("%w: classroom_id is required", ErrInvalidInput)
	}

	classroom, err := loadOwnedClassroom(ctx, s.Store, actor, classroomID)
	if err != nil {
		return Roster{}, err
	}

	members, err := s.Store.Members().ListMembers(ctx, classroom.ID)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list members",
			slog.String("classroom_id", classroom.ID),
			slog.Any("error", err),
		)
		return Roster{}, fmt.Errorf("list members: %w", err)
	}

	out := Roster{ClassroomID: classroom.ID, Members: members}
	for _, m := range members {
		switch m.Role {
		case domain.RoleTeacher:
			out.Teachers++
		case domain.RoleParent:
			out.Parents++
		case domain.RoleDirector:
		}
	}
	return out, nil
}
