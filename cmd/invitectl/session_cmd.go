package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aussiebroadwan/futurgenie/pkg/cryptox"
	"github.com/aussiebroadwan/futurgenie/pkg/jwtx"
)

// runSessionCmd implements `invitectl session`. It signs a session the way
// the identity provider would, for local development against the server.
func runSessionCmd(args []string, stdout, stderr io.Writer) int {
	fs := newBareFlagSet("session", stderr)
	var subject, email, alg, secret, keyFile, kid, issuer, audience string
	var ttl time.Duration
	fs.StringVar(&subject, "subject", "", "Account id to put in sub (REQUIRED)")
	fs.StringVar(&email, "email", "", "Email claim")
	fs.StringVar(&alg, "alg", envOr("INVITES_JWT_ALGORITHM", jwtx.AlgHS256), "HS256 or EdDSA")
	fs.StringVar(&secret, "secret", envOr("INVITES_JWT_SECRET", ""), "HS256 shared secret")
	fs.StringVar(&keyFile, "key", "", "EdDSA private key (PKCS8 PEM) from 'invitectl keygen'")
	fs.StringVar(&kid, "kid", "dev", "EdDSA key id")
	fs.StringVar(&issuer, "issuer", envOr("INVITES_JWT_ISSUER", ""), "iss claim")
	fs.StringVar(&audience, "audience", envOr("INVITES_JWT_AUDIENCE", "authenticated"), "aud claim, comma separated")
	fs.DurationVar(&ttl, "ttl", time.Hour, "Session lifetime")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if subject == "" {
		_, _ = fmt.Fprintln(stderr, "Error: -subject is required")
		return 2
	}

	signer, err := newSigner(alg, secret, keyFile, kid)
	if err != nil {
		return fail(stderr, err)
	}

	var aud []string
	for _, a := range strings.Split(audience, ",") {
		if a = strings.TrimSpace(a); a != "" {
			aud = append(aud, a)
		}
	}

	raw, err := signer.Sign(jwtx.NewSessionClaims(subject, email, ttl, issuer, aud, time.Now()))
	if err != nil {
		return fail(stderr, err)
	}
	_, _ = fmt.Fprintln(stdout, raw)
	return 0
}

func newSigner(alg, secret, keyFile, kid string) (jwtx.Signer, error) {
	alg, err := jwtx.NormaliseAlgorithm(alg)
	if err != nil {
		return nil, err
	}

	if alg == jwtx.AlgEdDSA {
		if keyFile == "" {
			return nil, errors.New("-key is required for EdDSA")
		}
		pemKey, err := os.ReadFile(keyFile)
		if err != nil {
			return nil, err
		}
		return jwtx.NewSignerEdDSA(kid, pemKey)
	}

	if secret == "" {
		return nil, errors.New("-secret or INVITES_JWT_SECRET is required for HS256")
	}
	return jwtx.NewSignerHS256([]byte(secret))
}

// runKeygenCmd implements `invitectl keygen`. The private key is written to
// -out, the public JWKS to stdout so it can be served as INVITES_JWKS_URL.
func runKeygenCmd(args []string, stdout, stderr io.Writer) int {
	fs := newBareFlagSet("keygen", stderr)
	var out, kid string
	fs.StringVar(&out, "out", "", "Write the private key PEM to this file (REQUIRED)")
	fs.StringVar(&kid, "kid", "dev", "Key id")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if out == "" {
		_, _ = fmt.Fprintln(stderr, "Error: -out is required")
		return 2
	}

	pemKey, err := cryptox.GenerateEd25519Key()
	if err != nil {
		return fail(stderr, err)
	}
	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	if err != nil {
		return fail(stderr, err)
	}
	if err := os.WriteFile(out, pemKey, 0o600); err != nil {
		return fail(stderr, err)
	}

	jwk, _ := signer.PublicJWK()
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jwtx.JWKS{Keys: []jwtx.JWK{jwk}}); err != nil {
		return fail(stderr, err)
	}
	return 0
}
