package domain

import "time"

// Session is one login. It outlives many access tokens and is carried by the
// browser in the session cookie through a rotating refresh token.
type Session struct {
	ID         string
	UserID     string
	AMR        []string
	CreatedAt  time.Time
	LastSeenAt time.Time
	ExpiresAt  time.Time
	RevokedAt  *time.Time
}

// Active reports whether the session can still mint access tokens.
func (s Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// RefreshToken is one link in a session's rotation chain. Only the
// fingerprint of the opaque value is stored.
type RefreshToken struct {
	ID        string
	SessionID string
	TokenHash string
	Revoked   bool
	RevokedAt *time.Time
	CreatedAt time.Time
	ExpiresAt time.Time
}

// TokenPair is what a successful login or refresh hands out: the access
// token for the Authorization header and the opaque refresh token for the
// session cookie.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
	SessionID    string
}

// Challenge is a pending two-factor login.
type Challenge struct {
	ID        string
	UserID    string
	TokenHash string
	Attempts  int
	CreatedAt time.Time
	ExpiresAt time.Time
}

// PasswordReset tracks one forgot-password flow: a short code first, then
// a single-use reset token once the code is verified.
type PasswordReset struct {
	ID             string
	UserID         string
	CodeHash       string
	Attempts       int
	ResetTokenHash *string
	VerifiedAt     *time.Time
	UsedAt         *time.Time
	CreatedAt      time.Time
	ExpiresAt      time.Time
}
