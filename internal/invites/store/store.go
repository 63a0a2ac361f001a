package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/futurgenie/internal/invites/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict means a conditional write matched no row, another writer
	// got there first.
	ErrConflict = errors.New("store: conflict")
)

// Store is the root data access interface. Drivers implement it and expose
// sub-repositories. A Tx-scoped store implements the same interface so the
// repositories read the same inside and outside a transaction.
type Store interface {
	Schools() Schools
	Classrooms() Classrooms
	Profiles() Profiles
	Members() Members
	Tokens() Tokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise. Inside fn use the repositories of tx.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Schools interface {
	CreateSchool(ctx context.Context, s domain.School) error
	GetSchoolByID(ctx context.Context, id string) (domain.School, error)
}

type Classrooms interface {
	CreateClassroom(ctx context.Context, c domain.Classroom) error

	// GetClassroomByID returns ErrNotFound for unknown ids.
	GetClassroomByID(ctx context.Context, id string) (domain.Classroom, error)

	// ListClassroomsBySchool returns the school's classrooms by name.
	ListClassroomsBySchool(ctx context.Context, schoolID string) ([]domain.Classroom, error)
}

type Profiles interface {
	// CreateProfile fails with ErrAlreadyExists when the id is taken.
	CreateProfile(ctx context.Context, p domain.Profile) error

	GetProfileByID(ctx context.Context, id string) (domain.Profile, error)

	// AssignSchool sets role and school for a profile that has no school yet.
	// It returns ErrConflict when the profile already belongs to a school.
	AssignSchool(ctx context.Context, id string, role domain.Role, schoolID string) error
}

type Members interface {
	// AddMember fails with ErrAlreadyExists when the account is already in
	// the classroom.
	AddMember(ctx context.Context, m domain.ClassroomMember) error

	ListMembers(ctx context.Context, classroomID string) ([]domain.ClassroomMember, error)
}

type Tokens interface {
	// CreateToken inserts a token. A duplicate secret hash is ErrAlreadyExists.
	CreateToken(ctx context.Context, t domain.InvitationToken) error

	GetTokenByID(ctx context.Context, id string) (domain.InvitationToken, error)

	// GetTokenBySecretHash looks a token up by the fingerprint of its secret,
	// whatever its state.
	GetTokenBySecretHash(ctx context.Context, hash string) (domain.InvitationToken, error)

	// FindValidToken returns the newest unused token for the (school,
	// classroom, role) triple that is still valid at now.
	FindValidToken(ctx context.Context, schoolID, classroomID string, role domain.Role, now time.Time) (domain.InvitationToken, error)

	// ListUnusedTokens returns every unused token of a classroom, newest first,
	// expired ones included.
	ListUnusedTokens(ctx context.Context, classroomID string) ([]domain.InvitationToken, error)

	// MarkTokenUsed sets used_at and used_by only if the token is still
	// unused and unexpired at now. It returns ErrConflict when no row was
	// updated.
	MarkTokenUsed(ctx context.Context, id, usedBy string, now time.Time) error

	// DeleteToken returns ErrNotFound when nothing was deleted.
	DeleteToken(ctx context.Context, id string) error

	// DeleteExpiredTokens removes unused tokens that expired before cutoff
	// and returns how many went.
	DeleteExpiredTokens(ctx context.Context, cutoff time.Time) (int64, error)
}
