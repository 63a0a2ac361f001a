package http_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	httpapi "github.com/aussiebroadwan/futurgenie/internal/invites/http"
	"github.com/aussiebroadwan/futurgenie/internal/invites/service"
	"github.com/aussiebroadwan/futurgenie/internal/invites/store"
	"github.com/aussiebroadwan/futurgenie/internal/invites/store/drivers/sqlite"
	"github.com/aussiebroadwan/futurgenie/pkg/cryptox"
	"github.com/aussiebroadwan/futurgenie/pkg/httpx"
	"github.com/aussiebroadwan/futurgenie/pkg/invitesdk"
	"github.com/aussiebroadwan/futurgenie/pkg/jwtx"
	"github.com/aussiebroadwan/futurgenie/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://id.example"
	testAudience = "authenticated"
	testBaseURL  = "https://app.example/join/"
	testOrigin   = "https://app.example"
)

var testSecret = []byte(strings.Repeat("k", 32))

// generous keeps handler tests clear of the limiter.
var generous = httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000}

type clock struct {
	mu     sync.Mutex
	offset time.Duration
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Now().Add(c.offset)
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset += d
}

type fixture struct {
	srv    *httptest.Server
	store  store.Store
	signer *jwtx.HS256Signer
	router *httpapi.Router
	clock  *clock
}

type fixtureOption func(*httpapi.Router)

func withLimits(l httpapi.RateLimits) fixtureOption {
	return func(r *httpapi.Router) { r.Limits = l }
}

func httpapiLimits(l httpx.RateLimitConfig) httpapi.RateLimits {
	return httpapi.RateLimits{Redeem: l, Onboard: l, Write: l, Read: l}
}

func withOnboardingToken(tok string) fixtureOption {
	return func(r *httpapi.Router) { r.OnboardingService.Token = tok }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	sealer, err := cryptox.NewSealer([]byte("handler test master key"))
	require.NoError(t, err)

	verifier, err := jwtx.NewVerifierHS256(testSecret, jwtx.VerifyOptions{
		Issuer:   testIssuer,
		Audience: []string{testAudience},
	})
	require.NoError(t, err)
	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)

	clk := &clock{}
	router := httpapi.NewRouter(verifier, "test", st, slogx.Discard())
	router.PublicBaseURL = testBaseURL
	router.CORSOrigins = []string{testOrigin}
	router.Limits = httpapiLimits(generous)
	router.IdentityService = &service.IdentityService{Store: st}
	router.InvitationService = &service.InvitationService{Store: st, Sealer: sealer, Now: clk.Now}
	router.OnboardingService = &service.OnboardingService{Store: st, Now: clk.Now}
	router.ClassroomService = &service.ClassroomService{Store: st, Now: clk.Now}
	for _, opt := range opts {
		opt(router)
	}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &fixture{srv: srv, store: st, signer: signer, router: router, clock: clk}
}

// session mints a provider session for subject.
func (f *fixture) session(t *testing.T, subject string) string {
	t.Helper()
	raw, err := f.signer.Sign(jwtx.NewSessionClaims(subject, "", time.Hour, testIssuer, []string{testAudience}, time.Now()))
	require.NoError(t, err)
	return raw
}

func (f *fixture) anon() *invitesdk.Client {
	return invitesdk.NewClient(f.srv.URL)
}

func (f *fixture) as(t *testing.T, subject string) *invitesdk.Client {
	return f.anon().WithToken(f.session(t, subject))
}

// director onboards a school for subject and returns their client.
func (f *fixture) director(t *testing.T, subject, school string) *invitesdk.Client {
	t.Helper()
	c := f.as(t, subject)
	_, err := c.OnboardSchool(context.Background(), "", invitesdk.OnboardRequest{SchoolName: school})
	require.NoError(t, err)
	return c
}

func (f *fixture) classroom(t *testing.T, c *invitesdk.Client, name string) *invitesdk.Classroom {
	t.Helper()
	room, err := c.CreateClassroom(context.Background(), invitesdk.ClassroomRequest{Name: name, Grade: "2"})
	require.NoError(t, err)
	return room
}

func requireAPIError(t *testing.T, err error, status int, code string) *invitesdk.APIError {
	t.Helper()
	require.Error(t, err)
	apiErr, ok := err.(*invitesdk.APIError)
	require.True(t, ok, "want *invitesdk.APIError, got %T: %v", err, err)
	require.Equal(t, status, apiErr.StatusCode, apiErr.Error())
	require.Equal(t, code, apiErr.Code)
	return apiErr
}
