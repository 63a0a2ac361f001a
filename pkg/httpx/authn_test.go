package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/futurgenie/pkg/httpx"
	"github.com/aussiebroadwan/futurgenie/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var secret = []byte(strings.Repeat("k", 32))

func jwtRegistered(sub string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{Subject: sub}
}

func session(t *testing.T, sub string) string {
	t.Helper()
	s, err := jwtx.NewSignerHS256(secret)
	require.NoError(t, err)
	raw, err := s.Sign(jwtx.NewSessionClaims(sub, "", time.Hour, "", nil, time.Now()))
	require.NoError(t, err)
	return raw
}

func subjectEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, ok := httpx.SubjectFromContext(r.Context())
		if !ok {
			sub = "anonymous"
		}
		_, _ = w.Write([]byte(sub))
	})
}

func TestAuthnMiddleware(t *testing.T) {
	v, err := jwtx.NewVerifierHS256(secret, jwtx.VerifyOptions{})
	require.NoError(t, err)

	required := httpx.AuthnMiddleware(v)(subjectEcho())
	optional := httpx.OptionalAuthnMiddleware(v)(subjectEcho())

	tests := []struct {
		name     string
		h        http.Handler
		header   string
		wantCode int
		wantBody string
	}{
		{"required valid", required, "Bearer " + session(t, "acct-1"), http.StatusOK, "acct-1"},
		{"required lowercase scheme", required, "bearer " + session(t, "acct-2"), http.StatusOK, "acct-2"},
		{"required missing", required, "", http.StatusUnauthorized, "unauthorized"},
		{"required garbage", required, "Bearer nope", http.StatusUnauthorized, "token verification failed"},
		{"optional missing", optional, "", http.StatusOK, "anonymous"},
		{"optional valid", optional, "Bearer " + session(t, "acct-3"), http.StatusOK, "acct-3"},
		{"optional garbage still rejected", optional, "Bearer nope", http.StatusUnauthorized, "token verification failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			tt.h.ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code)
			require.Contains(t, rec.Body.String(), tt.wantBody)
			if tt.wantCode == http.StatusUnauthorized {
				require.Contains(t, rec.Header().Get("WWW-Authenticate"), `Bearer error="invalid_token"`)
			}
		})
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mw("outer"), mw("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}
