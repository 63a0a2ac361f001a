package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/futurgenie/internal/invites/service"
	"github.com/aussiebroadwan/futurgenie/internal/invites/store"
	"github.com/aussiebroadwan/futurgenie/pkg/httpx"
	"github.com/aussiebroadwan/futurgenie/pkg/jwtx"
	"github.com/aussiebroadwan/futurgenie/pkg/slogx"

	_ "github.com/aussiebroadwan/futurgenie/api/invites" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// RateLimits holds the limiter profile of each endpoint class.
type RateLimits struct {
	Redeem  httpx.RateLimitConfig
	Onboard httpx.RateLimitConfig
	Write   httpx.RateLimitConfig
	Read    httpx.RateLimitConfig
}

// DefaultRateLimits returns the profiles from httpx, including env overrides.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		Redeem:  httpx.RedeemLimit,
		Onboard: httpx.OnboardLimit,
		Write:   httpx.WriteLimit,
		Read:    httpx.ReadLimit,
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	// PublicBaseURL prefixes invitation secrets in invite_url.
	PublicBaseURL string

	// CORSOrigins are the browser origins allowed to call the API.
	CORSOrigins []string

	// VerifierReady reports whether session keys are loaded. Nil means always.
	VerifierReady func() bool

	Limits RateLimits

	IdentityService   *service.IdentityService
	InvitationService *service.InvitationService
	OnboardingService *service.OnboardingService
	ClassroomService  *service.ClassroomService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	return &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		Limits:       DefaultRateLimits(),
	}
}

// ApplyRoutes registers every route. Set the services and options first.
func (r *Router) ApplyRoutes() {
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORS(r.CORSOrigins),
	}

	r.registerInvitations()
	r.registerSchools()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Classroom Invitation Service API
//	@version		0.1.0
//	@description	Multi-tenant school invitations. Directors issue single-use, expiring links that attach a teacher or parent account to a classroom.
//	@description
//	@description				Session tokens come from the identity provider and are verified with HS256 or EdDSA (JWKS).
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/futurgenie
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Identity-provider session JWT. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerInvitations() {
	h := &InvitationsHandler{
		IdentityService:   r.IdentityService,
		InvitationService: r.InvitationService,
		PublicBaseURL:     r.PublicBaseURL,
	}

	// Director operations - moderate limits by account
	r.Mux.Handle("POST /v1/invitations",
		httpx.Chain(http.HandlerFunc(h.HandleIssue),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitBySubject(r.Limits.Write),
		),
	)
	r.Mux.Handle("GET /v1/classrooms/{classroom_id}/invitations",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitBySubject(r.Limits.Read),
		),
	)
	r.Mux.Handle("DELETE /v1/invitations/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleRevoke),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitBySubject(r.Limits.Write),
		),
	)

	// Redemption is public - strict limit by IP, applied before the session
	// check so bad tokens still count against the caller.
	r.Mux.Handle("POST /v1/invitations/redeem",
		httpx.Chain(http.HandlerFunc(h.HandleRedeem),
			httpx.RateLimitByIP(r.Limits.Redeem),
			httpx.OptionalAuthnMiddleware(r.verifier),
		),
	)
}

func (r *Router) registerSchools() {
	h := &SchoolsHandler{
		IdentityService:   r.IdentityService,
		OnboardingService: r.OnboardingService,
		ClassroomService:  r.ClassroomService,
	}

	r.Mux.Handle("POST /v1/onboarding/school",
		httpx.Chain(http.HandlerFunc(h.HandleOnboard),
			httpx.RateLimitByIP(r.Limits.Onboard),
			httpx.AuthnMiddleware(r.verifier),
		),
	)
	r.Mux.Handle("POST /v1/classrooms",
		httpx.Chain(http.HandlerFunc(h.HandleCreateClassroom),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitBySubject(r.Limits.Write),
		),
	)
	r.Mux.Handle("GET /v1/classrooms",
		httpx.Chain(http.HandlerFunc(h.HandleListClassrooms),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitBySubject(r.Limits.Read),
		),
	)
	r.Mux.Handle("GET /v1/classrooms/{classroom_id}/members",
		httpx.Chain(http.HandlerFunc(h.HandleListMembers),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitBySubject(r.Limits.Read),
		),
	)
}

func (r *Router) registerSystem() {
	// Probes are polled by orchestrators, they get the read profile by IP.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.Limits.Read),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.VerifierReady),
			httpx.RateLimitByIP(r.Limits.Read),
		),
	)
}
