package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/futurgenie/pkg/jwtx"
	"github.com/aussiebroadwan/futurgenie/pkg/slogx"
)

// AuthnMiddleware rejects requests without a valid bearer session.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return authn(v, true)
}

// OptionalAuthnMiddleware authenticates the caller when a bearer token is
// present. A token that is present but invalid is still rejected.
func OptionalAuthnMiddleware(v jwtx.Verifier) Middleware {
	return authn(v, false)
}

func authn(v jwtx.Verifier, required bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw, ok := bearerToken(r)
			if !ok {
				if required {
					writeBearerError(w, "missing bearer token")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				slogx.FromContext(ctx).Warn("session verify failed", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			ctx = WithSession(ctx, claims)
			ctx = slogx.With(ctx, "subject", claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if len(authz) < len("Bearer ") || !strings.EqualFold(authz[:len("Bearer ")], "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(authz[len("Bearer "):])
	return raw, raw != ""
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "unauthorized", desc)
}
