// Copyright (c) 2026 AccountHub. All rights reserved.

package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Claim Names

const (
	// ClaimSubject is the standard 'sub' claim: the user's email address.
	ClaimSubject = "sub"

	// ClaimExpires is the standard 'exp' claim: absolute UTC expiration.
	ClaimExpires = "exp"

	// ClaimType is the discriminator claim separating special-purpose tokens.
	ClaimType = "type"

	// TokenTypePasswordReset marks a token usable only for password recovery.
	TokenTypePasswordReset = "password_reset"
)

// TokenCodec signs and verifies compact, self-contained, expiring claim sets.
//
// # Token Classes
//
// Three variants share one encoding scheme but differ in signing key and
// lifetime: access tokens (minutes), refresh tokens (days), and password-reset
// tokens (hours). The reset key is independent from the access key, which
// isolates the reset token class cryptographically: a reset token can never
// authenticate an API call and vice versa.
//
// # Concurrency
//
// Issuance and verification are pure computations with no I/O and no shared
// mutable state; a single codec may be used from any number of goroutines.
type TokenCodec struct {
	accessKey  []byte
	resetKey   []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
}

// TokenConfig holds the immutable signing material and lifetimes for a codec.
type TokenConfig struct {
	// AccessKey signs access and refresh tokens.
	AccessKey string
	// ResetKey signs password-reset tokens. Must differ from AccessKey.
	ResetKey string
	// Algorithm is the JOSE name of an HMAC signing method (e.g. "HS256").
	Algorithm string
	// Lifetimes per token class.
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	ResetTTL   time.Duration
}

// NewTokenCodec constructs a [TokenCodec] from explicit configuration.
//
// It fails fast on an unknown or non-HMAC algorithm name so that a
// misconfigured deployment never starts issuing unverifiable tokens.
func NewTokenCodec(cfg TokenConfig) (*TokenCodec, error) {
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if method == nil {
		return nil, fmt.Errorf("sec: unknown signing algorithm %q", cfg.Algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("sec: signing algorithm %q is not an HMAC method", cfg.Algorithm)
	}
	if cfg.AccessKey == "" || cfg.ResetKey == "" {
		return nil, fmt.Errorf("sec: signing keys must not be empty")
	}

	return &TokenCodec{
		accessKey:  []byte(cfg.AccessKey),
		resetKey:   []byte(cfg.ResetKey),
		method:     method,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		resetTTL:   cfg.ResetTTL,
	}, nil
}

// # Issuance

// Issue signs an arbitrary claim set with the access key.
//
// An 'exp' claim of now + lifetime (UTC) is always added. The timestamp is
// absolute, so verification never depends on issuance-time state.
func (codec *TokenCodec) Issue(claims map[string]any, lifetime time.Duration) (string, error) {
	return codec.sign(claims, codec.accessKey, lifetime)
}

// IssueAccess creates a short-lived access token whose subject is the email.
func (codec *TokenCodec) IssueAccess(email string) (string, error) {
	return codec.Issue(map[string]any{ClaimSubject: email}, codec.accessTTL)
}

// IssueRefresh creates a long-lived refresh token whose subject is the email.
//
// The core exposes only issuance and decoding primitives for this class;
// there is no redemption endpoint.
func (codec *TokenCodec) IssueRefresh(email string) (string, error) {
	return codec.Issue(map[string]any{ClaimSubject: email}, codec.refreshTTL)
}

// IssuePasswordReset creates a recovery token signed with the independent
// reset key, carrying the 'type' discriminator.
func (codec *TokenCodec) IssuePasswordReset(email string) (string, error) {
	claims := map[string]any{
		ClaimSubject: email,
		ClaimType:    TokenTypePasswordReset,
	}
	return codec.sign(claims, codec.resetKey, codec.resetTTL)
}

// sign encodes and signs a claim set, stamping the expiration claim.
func (codec *TokenCodec) sign(claims map[string]any, key []byte, lifetime time.Duration) (string, error) {
	mapClaims := jwt.MapClaims{}
	for name, value := range claims {
		mapClaims[name] = value
	}
	mapClaims[ClaimExpires] = jwt.NewNumericDate(time.Now().UTC().Add(lifetime))

	token := jwt.NewWithClaims(codec.method, mapClaims)
	signedToken, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// # Verification

// Decode verifies an access-class token and returns its claim set.
//
// It fails closed: a malformed string, a bad signature, an expired 'exp', or
// an unexpected signing algorithm all yield (nil, false), never an error.
// Callers branch only on presence.
func (codec *TokenCodec) Decode(tokenString string) (jwt.MapClaims, bool) {
	return codec.parse(tokenString, codec.accessKey)
}

// VerifyPasswordReset verifies a recovery token with the reset key and
// returns the subject email.
//
// The email is returned only if the signature checks out against the reset
// key, the 'type' claim equals "password_reset", and the subject is a
// non-empty string. Any other shape, including a structurally valid access
// token, yields ("", false).
func (codec *TokenCodec) VerifyPasswordReset(tokenString string) (string, bool) {
	claims, ok := codec.parse(tokenString, codec.resetKey)
	if !ok {
		return "", false
	}

	tokenType, _ := claims[ClaimType].(string)
	if tokenType != TokenTypePasswordReset {
		return "", false
	}

	return Subject(claims)
}

// Subject extracts the 'sub' claim as a string.
// Returns false when the claim is absent or not a string.
func Subject(claims jwt.MapClaims) (string, bool) {
	subject, ok := claims[ClaimSubject].(string)
	if !ok || subject == "" {
		return "", false
	}
	return subject, true
}

// parse verifies signature, algorithm, and expiration against the given key.
func (codec *TokenCodec) parse(tokenString string, key []byte) (jwt.MapClaims, bool) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Pin the algorithm: a token claiming any other method is rejected
		// before its signature is even considered.
		if token.Method.Alg() != codec.method.Alg() {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	})

	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}

	return claims, true
}
