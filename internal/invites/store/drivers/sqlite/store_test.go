package sqlite_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/futurgenie/internal/invites/domain"
	"github.com/aussiebroadwan/futurgenie/internal/invites/store"
	"github.com/aussiebroadwan/futurgenie/internal/invites/store/drivers/sqlite"
	"github.com/aussiebroadwan/futurgenie/pkg/idx"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

type fixture struct {
	school    domain.School
	classroom domain.Classroom
}

func seed(t *testing.T, s store.Store) fixture {
	t.Helper()
	ctx := context.Background()

	school := domain.School{ID: idx.New().String(), Name: "Springfield", CreatedBy: "dir-1", CreatedAt: epoch}
	require.NoError(t, s.Schools().CreateSchool(ctx, school))
	require.NoError(t, s.Profiles().CreateProfile(ctx, domain.Profile{
		ID: "dir-1", Role: domain.RoleDirector, SchoolID: school.ID, CreatedAt: epoch,
	}))

	classroom := domain.Classroom{ID: idx.New().String(), SchoolID: school.ID, Name: "1A", Grade: "1", CreatedAt: epoch}
	require.NoError(t, s.Classrooms().CreateClassroom(ctx, classroom))

	return fixture{school: school, classroom: classroom}
}

func newToken(f fixture, role domain.Role, created time.Time) domain.InvitationToken {
	id := idx.NewAt(created).String()
	return domain.InvitationToken{
		ID:           id,
		SecretHash:   "hash-" + id,
		SecretSealed: "sealed-" + id,
		SchoolID:     f.school.ID,
		ClassroomID:  f.classroom.ID,
		IntendedRole: role,
		CreatedBy:    "dir-1",
		CreatedAt:    created,
		ExpiresAt:    created.Add(30 * 24 * time.Hour),
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.ApplyMigrations())

	version, dirty, err := s.SchemaVersion()
	require.NoError(t, err)
	require.False(t, dirty)
	require.EqualValues(t, 1, version)
}

func TestSchoolsAndClassrooms(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	f := seed(t, s)

	got, err := s.Schools().GetSchoolByID(ctx, f.school.ID)
	require.NoError(t, err)
	require.Equal(t, f.school, got)

	_, err = s.Schools().GetSchoolByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	c, err := s.Classrooms().GetClassroomByID(ctx, f.classroom.ID)
	require.NoError(t, err)
	require.Equal(t, f.classroom, c)

	dup := f.classroom
	dup.ID = idx.New().String()
	require.ErrorIs(t, s.Classrooms().CreateClassroom(ctx, dup), store.ErrAlreadyExists, "name unique per school")

	orphan := domain.Classroom{ID: idx.New().String(), SchoolID: "nope", Name: "x", CreatedAt: epoch}
	require.ErrorIs(t, s.Classrooms().CreateClassroom(ctx, orphan), store.ErrNotFound)

	second := domain.Classroom{ID: idx.New().String(), SchoolID: f.school.ID, Name: "0B", CreatedAt: epoch}
	require.NoError(t, s.Classrooms().CreateClassroom(ctx, second))

	list, err := s.Classrooms().ListClassroomsBySchool(ctx, f.school.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "0B", list[0].Name)
}

func TestProfiles(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	f := seed(t, s)

	p, err := s.Profiles().GetProfileByID(ctx, "dir-1")
	require.NoError(t, err)
	require.Equal(t, domain.RoleDirector, p.Role)
	require.Equal(t, f.school.ID, p.SchoolID)

	err = s.Profiles().CreateProfile(ctx, domain.Profile{ID: "dir-1", Role: domain.RoleTeacher, CreatedAt: epoch})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	require.NoError(t, s.Profiles().CreateProfile(ctx, domain.Profile{ID: "dir-2", Role: domain.RoleDirector, CreatedAt: epoch}))
	loose, err := s.Profiles().GetProfileByID(ctx, "dir-2")
	require.NoError(t, err)
	require.Empty(t, loose.SchoolID)

	require.NoError(t, s.Profiles().AssignSchool(ctx, "dir-2", domain.RoleDirector, f.school.ID))
	require.ErrorIs(t, s.Profiles().AssignSchool(ctx, "dir-2", domain.RoleDirector, f.school.ID), store.ErrConflict)
}

func TestMembers(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	f := seed(t, s)

	require.NoError(t, s.Profiles().CreateProfile(ctx, domain.Profile{ID: "t-1", Role: domain.RoleTeacher, SchoolID: f.school.ID, CreatedAt: epoch}))
	m := domain.ClassroomMember{ClassroomID: f.classroom.ID, UserID: "t-1", Role: domain.RoleTeacher, JoinedAt: epoch}
	require.NoError(t, s.Members().AddMember(ctx, m))
	require.ErrorIs(t, s.Members().AddMember(ctx, m), store.ErrAlreadyExists)

	list, err := s.Members().ListMembers(ctx, f.classroom.ID)
	require.NoError(t, err)
	require.Equal(t, []domain.ClassroomMember{m}, list)
}

func TestTokens_CreateAndLookup(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	f := seed(t, s)

	tok := newToken(f, domain.RoleTeacher, epoch)
	require.NoError(t, s.Tokens().CreateToken(ctx, tok))

	byID, err := s.Tokens().GetTokenByID(ctx, tok.ID)
	require.NoError(t, err)
	require.Equal(t, tok, byID)
	require.Nil(t, byID.UsedAt)

	byHash, err := s.Tokens().GetTokenBySecretHash(ctx, tok.SecretHash)
	require.NoError(t, err)
	require.Equal(t, tok.ID, byHash.ID)

	dup := newToken(f, domain.RoleParent, epoch.Add(time.Second))
	dup.SecretHash = tok.SecretHash
	require.ErrorIs(t, s.Tokens().CreateToken(ctx, dup), store.ErrAlreadyExists)

	_, err = s.Tokens().GetTokenBySecretHash(ctx, "nope")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTokens_FindValidAndList(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	f := seed(t, s)

	older := newToken(f, domain.RoleTeacher, epoch)
	newer := newToken(f, domain.RoleTeacher, epoch.Add(time.Hour))
	parent := newToken(f, domain.RoleParent, epoch.Add(2*time.Hour))
	for _, tok := range []domain.InvitationToken{older, newer, parent} {
		require.NoError(t, s.Tokens().CreateToken(ctx, tok))
	}

	got, err := s.Tokens().FindValidToken(ctx, f.school.ID, f.classroom.ID, domain.RoleTeacher, epoch.Add(3*time.Hour))
	require.NoError(t, err)
	require.Equal(t, newer.ID, got.ID)

	_, err = s.Tokens().FindValidToken(ctx, f.school.ID, f.classroom.ID, domain.RoleTeacher, newer.ExpiresAt)
	require.ErrorIs(t, err, store.ErrNotFound, "expires_at is exclusive")

	_, err = s.Tokens().FindValidToken(ctx, "other-school", f.classroom.ID, domain.RoleTeacher, epoch)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Tokens().MarkTokenUsed(ctx, parent.ID, "p-1", epoch.Add(3*time.Hour)))

	list, err := s.Tokens().ListUnusedTokens(ctx, f.classroom.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, newer.ID, list[0].ID, "newest first")
	require.Equal(t, older.ID, list[1].ID)
}

func TestTokens_MarkUsedOnce(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	f := seed(t, s)

	tok := newToken(f, domain.RoleParent, epoch)
	require.NoError(t, s.Tokens().CreateToken(ctx, tok))

	usedAt := epoch.Add(time.Minute)
	require.NoError(t, s.Tokens().MarkTokenUsed(ctx, tok.ID, "p-1", usedAt))
	require.ErrorIs(t, s.Tokens().MarkTokenUsed(ctx, tok.ID, "p-2", usedAt), store.ErrConflict)
	require.ErrorIs(t, s.Tokens().MarkTokenUsed(ctx, "missing", "p-2", usedAt), store.ErrConflict)

	got, err := s.Tokens().GetTokenByID(ctx, tok.ID)
	require.NoError(t, err)
	require.NotNil(t, got.UsedAt)
	require.True(t, usedAt.Equal(*got.UsedAt))
	require.Equal(t, "p-1", got.UsedBy)
}

func TestTokens_MarkUsedRefusesExpired(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	f := seed(t, s)

	tok := newToken(f, domain.RoleParent, epoch)
	require.NoError(t, s.Tokens().CreateToken(ctx, tok))

	require.ErrorIs(t, s.Tokens().MarkTokenUsed(ctx, tok.ID, "p-1", tok.ExpiresAt), store.ErrConflict,
		"expires_at is exclusive")

	got, err := s.Tokens().GetTokenByID(ctx, tok.ID)
	require.NoError(t, err)
	require.Nil(t, got.UsedAt)

	require.NoError(t, s.Tokens().MarkTokenUsed(ctx, tok.ID, "p-1", tok.ExpiresAt.Add(-time.Millisecond)))
}

func TestTokens_MarkUsedConcurrently(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	f := seed(t, s)

	tok := newToken(f, domain.RoleParent, epoch)
	require.NoError(t, s.Tokens().CreateToken(ctx, tok))

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.WithTx(ctx, func(tx store.Tx) error {
				return tx.Tokens().MarkTokenUsed(ctx, tok.ID, "acct-"+string(rune('a'+i)), epoch)
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, store.ErrConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, successes)
	require.Equal(t, workers-1, conflicts)
}

func TestTokens_DeleteAndSweep(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	f := seed(t, s)

	live := newToken(f, domain.RoleTeacher, epoch.Add(40*24*time.Hour))
	stale := newToken(f, domain.RoleTeacher, epoch)
	redeemed := newToken(f, domain.RoleParent, epoch)
	for _, tok := range []domain.InvitationToken{live, stale, redeemed} {
		require.NoError(t, s.Tokens().CreateToken(ctx, tok))
	}
	require.NoError(t, s.Tokens().MarkTokenUsed(ctx, redeemed.ID, "p-1", epoch.Add(time.Hour)))

	n, err := s.Tokens().DeleteExpiredTokens(ctx, epoch.Add(31*24*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, n, "only the unused expired token goes")

	_, err = s.Tokens().GetTokenByID(ctx, stale.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Tokens().GetTokenByID(ctx, redeemed.ID)
	require.NoError(t, err)

	require.NoError(t, s.Tokens().DeleteToken(ctx, live.ID))
	require.ErrorIs(t, s.Tokens().DeleteToken(ctx, live.ID), store.ErrNotFound)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	f := seed(t, s)

	tok := newToken(f, domain.RoleTeacher, epoch)
	require.NoError(t, s.Tokens().CreateToken(ctx, tok))

	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Tokens().MarkTokenUsed(ctx, tok.ID, "t-1", epoch))
		return tx.Members().AddMember(ctx, domain.ClassroomMember{
			ClassroomID: f.classroom.ID, UserID: "no-such-profile", Role: domain.RoleTeacher, JoinedAt: epoch,
		})
	})
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err := s.Tokens().GetTokenByID(ctx, tok.ID)
	require.NoError(t, err)
	require.Nil(t, got.UsedAt, "mark used was rolled back")
}
