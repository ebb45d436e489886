package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is the lifetime of an access token. The session
// cookie outlives it by far; clients refresh on the first 401.
const DefaultAccessTokenTTL = 15 * time.Minute

// Authentication methods recorded in the amr claim.
const (
	AMRPassword = "pwd"
	AMROTP      = "otp"
)

// Claims are the access-token claims.
type Claims struct {
	jwt.RegisteredClaims

	// SID is the session the token was minted for. Revoking the session
	// makes its outstanding access tokens fail authentication.
	SID string `json:"sid,omitempty"`

	// AMR lists how the user authenticated ("pwd", "otp").
	AMR []string `json:"amr,omitempty"`

	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// AccessParams is what NewAccessClaims needs to mint a token.
type AccessParams struct {
	UserID    string
	SessionID string
	Email     string
	Name      string
	AMR       []string
	Issuer    string
	Audience  []string
	TTL       time.Duration
}

// NewAccessClaims builds claims valid from now for p.TTL.
func NewAccessClaims(p AccessParams, now time.Time) Claims {
	ttl := p.TTL
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.Issuer,
			Subject:   p.UserID,
			Audience:  jwt.ClaimStrings(p.Audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		SID:   p.SessionID,
		AMR:   p.AMR,
		Email: p.Email,
		Name:  p.Name,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks the issuer; an empty expectation accepts any.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected != "" && c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateAudience requires at least one of expected; empty accepts any.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil
	}
	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}
	return ErrAudience
}

// ValidateTimes checks exp and nbf against now, allowing leeway for clock skew.
func (c *Claims) ValidateTimes(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}

// Has reports whether the user authenticated with method.
func (c *Claims) Has(method string) bool {
	return slices.Contains(c.AMR, method)
}
