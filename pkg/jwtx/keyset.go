package jwtx

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"sync"
)

var ErrNoKey = errors.New("jwtx: key not found")

// KeySet holds the provider's Ed25519 verification keys by kid. It is safe
// for concurrent use so a background refresh can swap keys under live
// requests.
type KeySet struct {
	mu  sync.RWMutex
	pub map[string]ed25519.PublicKey
}

// NewKeySet returns an empty KeySet.
func NewKeySet() *KeySet {
	return &KeySet{pub: make(map[string]ed25519.PublicKey)}
}

// AddSigner registers the public half of s.
func (k *KeySet) AddSigner(s Signer) error {
	jwk, ok := s.PublicJWK()
	if !ok {
		return errors.New("jwtx: signer has no public key")
	}
	return k.AddJWK(jwk)
}

// AddJWK parses j and adds it to the set.
func (k *KeySet) AddJWK(j JWK) error {
	key, err := parseJWK(j)
	if err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.pub[j.Kid] = key
	return nil
}

// Get returns the public key for kid.
func (k *KeySet) Get(kid string) (ed25519.PublicKey, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if pk, ok := k.pub[kid]; ok {
		return pk, nil
	}
	return nil, ErrNoKey
}

// IsReady reports whether at least one key is loaded.
func (k *KeySet) IsReady() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.pub) > 0
}

// ResetFromJWKS replaces every key with the usable keys in jwks. Keys of
// other types are skipped, providers often publish RSA keys alongside.
func (k *KeySet) ResetFromJWKS(jwks JWKS) (int, error) {
	next := make(map[string]ed25519.PublicKey, len(jwks.Keys))
	for _, j := range jwks.Keys {
		if j.Kty != "OKP" {
			continue
		}
		key, err := parseJWK(j)
		if err != nil {
			return 0, err
		}
		next[j.Kid] = key
	}
	if len(next) == 0 {
		return 0, errors.New("jwtx: JWKS contains no Ed25519 keys")
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.pub = next
	return len(next), nil
}

func parseJWK(j JWK) (ed25519.PublicKey, error) {
	if j.Kty != "OKP" || j.Crv != "Ed25519" {
		return nil, errors.New("jwtx: unsupported key " + j.Kty + "/" + j.Crv)
	}
	if j.Kid == "" {
		return nil, errors.New("jwtx: JWK without kid")
	}
	xb, err := base64.RawURLEncoding.DecodeString(j.X)
	if err != nil {
		return nil, err
	}
	if len(xb) != ed25519.PublicKeySize {
		return nil, errors.New("jwtx: invalid Ed25519 public key size")
	}
	return ed25519.PublicKey(xb), nil
}
