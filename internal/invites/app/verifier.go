package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/futurgenie/pkg/jwtx"
)

// How often the EdDSA key set is re-fetched so the identity provider can
// rotate keys, and how soon to retry while no keys are loaded.
const (
	jwksRefreshInterval = 15 * time.Minute
	jwksRetryInterval   = 10 * time.Second
)

// SessionVerifier checks identity-provider session tokens. Ready is nil for
// HS256, which has nothing to load.
type SessionVerifier struct {
	jwtx.Verifier
	Ready func() bool

	keys   *jwtx.KeySet
	url    string
	client *http.Client
}

// InitVerifier builds the session verifier for the configured algorithm.
//
// Supported algorithms:
//   - HS256: the identity provider's shared JWT secret.
//   - EdDSA: public keys fetched from INVITES_JWKS_URL. A failed first fetch
//     is logged and retried by Refresh, /readyz stays 503 until keys load.
func InitVerifier(ctx context.Context, cfg Config, logger *slog.Logger) (*SessionVerifier, error) {
	opts := jwtx.VerifyOptions{
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		Leeway:   30 * time.Second,
	}

	switch cfg.JWTAlgorithm {
	case jwtx.AlgEdDSA:
		v := &SessionVerifier{
			keys:   jwtx.NewKeySet(),
			url:    cfg.JWKSURL,
			client: &http.Client{Timeout: 10 * time.Second},
		}
		v.Verifier = jwtx.NewVerifierEdDSA(v.keys, opts)
		v.Ready = v.keys.IsReady

		if err := v.Refresh(ctx); err != nil {
			logger.Warn("initial JWKS fetch failed, will retry", "url", cfg.JWKSURL, "error", err)
		}
		logger.Info("session verifier initialized", "algorithm", jwtx.AlgEdDSA, "jwks_url", cfg.JWKSURL)
		return v, nil

	default:
		hs, err := jwtx.NewVerifierHS256([]byte(cfg.JWTSecret), opts)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize HS256 verifier: %w", err)
		}
		logger.Info("session verifier initialized", "algorithm", jwtx.AlgHS256)
		return &SessionVerifier{Verifier: hs}, nil
	}
}

// Refresh re-fetches the JWKS. It is a no-op for HS256.
func (v *SessionVerifier) Refresh(ctx context.Context) error {
	if v.keys == nil {
		return nil
	}
	set, err := jwtx.FetchJWKS(ctx, v.client, v.url)
	if err != nil {
		return err
	}
	_, err = v.keys.ResetFromJWKS(set)
	return err
}

// refreshLoop keeps the key set current until ctx is cancelled.
func (v *SessionVerifier) refreshLoop(ctx context.Context, logger *slog.Logger) {
	if v.keys == nil {
		return
	}
	for {
		wait := jwksRefreshInterval
		if !v.keys.IsReady() {
			wait = jwksRetryInterval
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if err := v.Refresh(ctx); err != nil {
				logger.Error("JWKS refresh failed", "error", err)
			}
		}
	}
}
