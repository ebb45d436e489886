package http

import (
	"crypto/sha256"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const (
	// SessionCookieName is the cookie that carries the refresh token.
	SessionCookieName = "alumni_session"

	refreshTokenKey = "refresh_token"
)

// SessionCookies reads and writes the refresh token cookie. The cookie is
// signed with the secret and encrypted with a key derived from it, so the
// browser never sees the raw token.
type SessionCookies struct {
	store *sessions.CookieStore
}

// NewSessionCookies creates the cookie store. secret should be at least 32
// random bytes and stable across restarts, or every session is lost.
func NewSessionCookies(secret []byte, maxAge time.Duration, secure bool) *SessionCookies {
	blockKey := sha256.Sum256(append([]byte("alumni-session-block:"), secret...))

	store := sessions.NewCookieStore(secret, blockKey[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(store.Options.MaxAge)

	return &SessionCookies{store: store}
}

// Set stores the refresh token in the cookie.
func (c *SessionCookies) Set(w http.ResponseWriter, r *http.Request, refreshToken string) error {
	session, err := c.store.Get(r, SessionCookieName)
	if err != nil {
		// Undecodable cookie, usually a rotated secret. Start over.
		session, err = c.store.New(r, SessionCookieName)
		if err != nil && session == nil {
			return err
		}
	}

	session.Values[refreshTokenKey] = refreshToken
	return session.Save(r, w)
}

// Get returns the refresh token, or "" when the cookie is missing or cannot
// be decoded.
func (c *SessionCookies) Get(r *http.Request) string {
	session, err := c.store.Get(r, SessionCookieName)
	if err != nil {
		return ""
	}

	token, _ := session.Values[refreshTokenKey].(string)
	return token
}

// Clear expires the cookie.
func (c *SessionCookies) Clear(w http.ResponseWriter, r *http.Request) error {
	session, err := c.store.Get(r, SessionCookieName)
	if err != nil {
		session, err = c.store.New(r, SessionCookieName)
		if err != nil && session == nil {
			return err
		}
	}

	delete(session.Values, refreshTokenKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
