package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/alumni/internal/alumnid/domain"
	"github.com/aussiebroadwan/alumni/internal/alumnid/metrics"
	"github.com/aussiebroadwan/alumni/internal/alumnid/store"
	"github.com/aussiebroadwan/alumni/pkg/cryptox"
	"github.com/aussiebroadwan/alumni/pkg/idx"
	"github.com/aussiebroadwan/alumni/pkg/jwtx"
	"github.com/aussiebroadwan/alumni/pkg/slogx"
)

const (
	// MaxChallengeAttempts is the number of wrong codes a two-factor
	// challenge tolerates before it is burned.
	MaxChallengeAttempts = 5

	DefaultSessionTTL   = 30 * 24 * time.Hour
	DefaultChallengeTTL = 5 * time.Minute

	// DefaultReuseGrace is how long a rotated refresh token may still be
	// exchanged. Clients that refresh from several requests at once present
	// the same token more than once within this window.
	DefaultReuseGrace = 10 * time.Second
)

// AuthService owns logins, sessions and access tokens.
type AuthService struct {
	Store    store.Store
	Hasher   *cryptox.PasswordHasher
	Signer   jwtx.Signer
	Issuer   string
	Audience []string

	AccessTTL    time.Duration
	SessionTTL   time.Duration
	ChallengeTTL time.Duration
	ReuseGrace   time.Duration

	// Now defaults to time.Now.
	Now func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *AuthService) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return DefaultSessionTTL
}

func (s *AuthService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return jwtx.DefaultAccessTokenTTL
}

// Register creates an account. The caller validates field shapes.
func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (domain.User, error) {
	email = normalizeEmail(email)
	fullName = strings.TrimSpace(fullName)

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u := domain.User{
		ID:           idx.NewAt(idx.User, now),
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	slogx.FromContext(ctx).Info("user registered", slog.String("user_id", u.ID))
	metrics.AuthEvents.WithLabelValues("register", metrics.ResultOK).Inc()
	return u, nil
}

// Login checks the password. Accounts with two-factor enabled get a
// *TwoFactorRequiredError carrying a challenge token instead of a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Spend the same time as a real check so response latency does
			// not reveal which emails are registered.
			_ = s.Hasher.Verify(password, s.dummy())
			metrics.AuthEvents.WithLabelValues("login", metrics.ResultFailed).Inc()
			return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.User{}, domain.TokenPair{}, fmt.Errorf("get user: %w", err)
	}

	if u.PasswordHash == "" || s.Hasher.Verify(password, u.PasswordHash) != nil {
		l.Info("login failed", slog.String("user_id", u.ID))
		metrics.AuthEvents.WithLabelValues("login", metrics.ResultFailed).Inc()
		return domain.User{}, domain.TokenPair{}, ErrInvalidCredentials
	}

	if s.Hasher.NeedsRehash(u.PasswordHash) {
		if hash, err := s.Hasher.Hash(password); err == nil {
			if err := s.Store.Users().UpdatePasswordHash(ctx, u.ID, hash); err != nil {
				l.Warn("password rehash failed", slog.String("user_id", u.ID), slog.Any("error", err))
			}
		}
	}

	if u.TwoFactorEnabled() {
		token, err := s.createChallenge(ctx, u.ID)
		if err != nil {
			return domain.User{}, domain.TokenPair{}, err
		}
		metrics.AuthEvents.WithLabelValues("login", "challenged").Inc()
		return domain.User{}, domain.TokenPair{}, &TwoFactorRequiredError{
			ChallengeToken: token,
			Methods:        []string{"totp"},
		}
	}

	var pair domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		pair, err = s.startSession(ctx, tx, u, []string{jwtx.AMRPassword})
		return err
	})
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	l.Info("login succeeded", slog.String("user_id", u.ID), slog.String("session_id", pair.SessionID))
	metrics.AuthEvents.WithLabelValues("login", metrics.ResultOK).Inc()
	return u, pair, nil
}

// VerifyTwoFactor completes a challenged login with a TOTP code. A
// challenge is burned after MaxChallengeAttempts wrong codes.
func (s *AuthService) VerifyTwoFactor(ctx context.Context, challengeToken, code string) (domain.User, domain.TokenPair, error) {
	now := s.now()
	l := slogx.FromContext(ctx)

	c, err := s.Store.Challenges().GetChallengeByHash(ctx, cryptox.FingerprintToken(challengeToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.TokenPair{}, ErrChallengeExpired
		}
		return domain.User{}, domain.TokenPair{}, fmt.Errorf("get challenge: %w", err)
	}
	if !now.Before(c.ExpiresAt) {
		_ = s.Store.Challenges().DeleteChallenge(ctx, c.ID)
		return domain.User{}, domain.TokenPair{}, ErrChallengeExpired
	}
	if c.Attempts >= MaxChallengeAttempts {
		return domain.User{}, domain.TokenPair{}, ErrTooManyAttempts
	}

	u, err := s.Store.Users().GetUserByID(ctx, c.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.TokenPair{}, ErrChallengeExpired
		}
		return domain.User{}, domain.TokenPair{}, fmt.Errorf("get user: %w", err)
	}
	if !u.TwoFactorEnabled() || u.TOTPSecret == nil {
		return domain.User{}, domain.TokenPair{}, ErrChallengeExpired
	}

	if !validateTOTP(code, *u.TOTPSecret, now) {
		attempts, err := s.Store.Challenges().IncrementAttempts(ctx, c.ID)
		if err != nil {
			return domain.User{}, domain.TokenPair{}, fmt.Errorf("increment attempts: %w", err)
		}
		l.Info("two-factor code rejected", slog.String("user_id", u.ID), slog.Int("attempts", attempts))
		metrics.AuthEvents.WithLabelValues("two_factor", metrics.ResultFailed).Inc()
		if attempts >= MaxChallengeAttempts {
			return domain.User{}, domain.TokenPair{}, ErrTooManyAttempts
		}
		return domain.User{}, domain.TokenPair{}, ErrInvalidCode
	}

	var pair domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// Deleting first makes a concurrent use of the same challenge fail.
		if err := tx.Challenges().DeleteChallenge(ctx, c.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrChallengeExpired
			}
			return err
		}
		var err error
		pair, err = s.startSession(ctx, tx, u, []string{jwtx.AMRPassword, jwtx.AMROTP})
		return err
	})
	if err != nil {
		return domain.User{}, domain.TokenPair{}, err
	}

	l.Info("two-factor login succeeded", slog.String("user_id", u.ID), slog.String("session_id", pair.SessionID))
	metrics.AuthEvents.WithLabelValues("two_factor", metrics.ResultOK).Inc()
	return u, pair, nil
}

// Refresh exchanges a refresh token for a new access token and a rotated
// refresh token. Presenting a token that was rotated away more than
// ReuseGrace ago revokes the whole session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	if refreshToken == "" {
		return domain.TokenPair{}, ErrInvalidSession
	}

	now := s.now()
	l := slogx.FromContext(ctx)
	grace := s.ReuseGrace
	if grace <= 0 {
		grace = DefaultReuseGrace
	}

	var (
		pair   domain.TokenPair
		reused string
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		rt, err := tx.RefreshTokens().GetRefreshTokenByHash(ctx, cryptox.FingerprintToken(refreshToken))
		if err != nil {
			return err
		}

		if rt.Revoked {
			if rt.RevokedAt == nil || now.Sub(*rt.RevokedAt) > grace {
				// Commit the revocation, then report the failure.
				if err := tx.Sessions().RevokeSession(ctx, rt.SessionID, now); err != nil {
					return err
				}
				reused = rt.SessionID
				return nil
			}
		}
		if !now.Before(rt.ExpiresAt) {
			return ErrInvalidSession
		}

		sess, err := tx.Sessions().GetSession(ctx, rt.SessionID)
		if err != nil {
			return err
		}
		if !sess.Active(now) {
			return ErrInvalidSession
		}

		u, err := tx.Users().GetUserByID(ctx, sess.UserID)
		if err != nil {
			return err
		}

		if !rt.Revoked {
			if err := tx.RefreshTokens().RevokeRefreshToken(ctx, rt.ID, now); err != nil {
				return err
			}
		}
		if err := tx.Sessions().TouchSession(ctx, sess.ID, now); err != nil {
			return err
		}

		pair, err = s.issue(ctx, tx, u, sess, now)
		return err
	})
	if err != nil {
		metrics.AuthEvents.WithLabelValues("refresh", metrics.ResultFailed).Inc()
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidSession
		}
		return domain.TokenPair{}, err
	}

	if reused != "" {
		l.Warn("refresh token reuse detected, session revoked", slog.String("session_id", reused))
		metrics.AuthEvents.WithLabelValues("refresh", metrics.ResultBlocked).Inc()
		metrics.SessionsRevoked.WithLabelValues("refresh_reuse").Inc()
		return domain.TokenPair{}, ErrInvalidSession
	}

	l.Debug("session refreshed", slog.String("session_id", pair.SessionID))
	metrics.AuthEvents.WithLabelValues("refresh", metrics.ResultOK).Inc()
	return pair, nil
}

// Logout revokes the session named by the refresh token, or by sessionID
// when the cookie is gone. Unknown sessions are not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken, sessionID string) error {
	now := s.now()

	if refreshToken != "" {
		rt, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, cryptox.FingerprintToken(refreshToken))
		switch {
		case err == nil:
			sessionID = rt.SessionID
		case !errors.Is(err, store.ErrNotFound):
			return fmt.Errorf("get refresh token: %w", err)
		}
	}
	if sessionID == "" {
		return nil
	}

	if err := s.Store.Sessions().RevokeSession(ctx, sessionID, now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("revoke session: %w", err)
	}

	slogx.FromContext(ctx).Info("logged out", slog.String("session_id", sessionID))
	metrics.SessionsRevoked.WithLabelValues("logout").Inc()
	return nil
}

// Me returns the account behind an access token.
func (s *AuthService) Me(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

// SessionActive reports whether access tokens minted for sessionID should
// still be honoured. Storage failures count as inactive.
func (s *AuthService) SessionActive(ctx context.Context, sessionID string) bool {
	sess, err := s.Store.Sessions().GetSession(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Error("session lookup failed", slog.Any("error", err))
		}
		return false
	}
	return sess.Active(s.now())
}

func (s *AuthService) createChallenge(ctx context.Context, userID string) (string, error) {
	ttl := s.ChallengeTTL
	if ttl <= 0 {
		ttl = DefaultChallengeTTL
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", err
	}

	now := s.now()
	c := domain.Challenge{
		ID:        idx.NewAt(idx.Challenge, now),
		UserID:    userID,
		TokenHash: cryptox.FingerprintToken(token),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.Store.Challenges().CreateChallenge(ctx, c); err != nil {
		return "", fmt.Errorf("create challenge: %w", err)
	}
	return token, nil
}

// startSession opens a new session for u inside tx.
func (s *AuthService) startSession(ctx context.Context, tx store.Tx, u domain.User, amr []string) (domain.TokenPair, error) {
	now := s.now()
	sess := domain.Session{
		ID:         idx.NewAt(idx.Session, now),
		UserID:     u.ID,
		AMR:        amr,
		CreatedAt:  now,
		LastSeenAt: now,
		ExpiresAt:  now.Add(s.sessionTTL()),
	}
	if err := tx.Sessions().CreateSession(ctx, sess); err != nil {
		return domain.TokenPair{}, fmt.Errorf("create session: %w", err)
	}
	return s.issue(ctx, tx, u, sess, now)
}

// issue mints an access token and a fresh refresh token for sess. The
// refresh token never outlives its session.
func (s *AuthService) issue(ctx context.Context, tx store.Tx, u domain.User, sess domain.Session, now time.Time) (domain.TokenPair, error) {
	ttl := s.accessTTL()
	claims := jwtx.NewAccessClaims(jwtx.AccessParams{
		UserID:    u.ID,
		SessionID: sess.ID,
		Email:     u.Email,
		Name:      u.FullName,
		AMR:       sess.AMR,
		Issuer:    s.Issuer,
		Audience:  s.Audience,
		TTL:       ttl,
	}, now)
	access, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	opaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.TokenPair{}, err
	}
	rt := domain.RefreshToken{
		ID:        idx.NewAt(idx.Refresh, now),
		SessionID: sess.ID,
		TokenHash: cryptox.FingerprintToken(opaque),
		CreatedAt: now,
		ExpiresAt: sess.ExpiresAt,
	}
	if err := tx.RefreshTokens().CreateRefreshToken(ctx, rt); err != nil {
		return domain.TokenPair{}, fmt.Errorf("create refresh token: %w", err)
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: opaque,
		ExpiresIn:    ttl,
		SessionID:    sess.ID,
	}, nil
}

// dummy returns a valid hash to verify against when the user does not exist.
func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.Hasher.Hash("not-a-real-password")
	})
	return s.dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
