package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/futurgenie/internal/invites/domain"
	"github.com/aussiebroadwan/futurgenie/internal/invites/store"
	"github.com/aussiebroadwan/futurgenie/internal/invites/store/drivers/sqlite"
	"github.com/aussiebroadwan/futurgenie/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 2, 2, 8, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// env is a fully wired set of services over an in-memory store.
type env struct {
	store      store.Store
	clock      *fakeClock
	sealer     *cryptox.Sealer
	identity   *IdentityService
	invites    *InvitationService
	onboarding *OnboardingService
	classrooms *ClassroomService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })

	sealer, err := cryptox.NewSealer([]byte("test master key material"))
	require.NoError(t, err)

	clock := newFakeClock()
	return &env{
		store:      s,
		clock:      clock,
		sealer:     sealer,
		identity:   &IdentityService{Store: s},
		invites:    &InvitationService{Store: s, Sealer: sealer, Now: clock.Now},
		onboarding: &OnboardingService{Store: s, Now: clock.Now},
		classrooms: &ClassroomService{Store: s, Now: clock.Now},
	}
}

// director onboards a school for subject and returns the resolved actor.
func (e *env) director(t *testing.T, subject, school string) domain.Actor {
	t.Helper()
	ctx := context.Background()

	_, err := e.onboarding.OnboardSchool(ctx, subject, "", OnboardRequest{SchoolName: school})
	require.NoError(t, err)

	actor, err := e.identity.ResolveActor(ctx, subject)
	require.NoError(t, err)
	return actor
}

func (e *env) classroom(t *testing.T, actor domain.Actor, name string) domain.Classroom {
	t.Helper()
	c, err := e.classrooms.CreateClassroom(context.Background(), actor, name, "3")
	require.NoError(t, err)
	return c
}
