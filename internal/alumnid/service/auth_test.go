package service_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/aussiebroadwan/alumni/internal/alumnid/service"
	"github.com/aussiebroadwan/alumni/pkg/jwtx"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	u := f.register(t, " Ani@Example.com ", "Անի Պետրոսյան")
	require.Equal(t, "ani@example.com", u.Email)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := f.auth.Register(ctx, "ANI@example.com", "Sup3r$ecret", "Other Name")
		require.ErrorIs(t, err, service.ErrEmailTaken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := f.auth.Login(ctx, "ani@example.com", "wrong")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := f.auth.Login(ctx, "nobody@example.com", "Sup3r$ecret")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("success", func(t *testing.T) {
		got, pair, err := f.auth.Login(ctx, "ani@example.com", "Sup3r$ecret")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.NotEmpty(t, pair.RefreshToken)

		claims, err := f.verifier.Verify(pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, u.ID, claims.Subject)
		require.Equal(t, pair.SessionID, claims.SID)
		require.Equal(t, []string{jwtx.AMRPassword}, claims.AMR)
		require.True(t, f.auth.SessionActive(ctx, pair.SessionID))
	})
}

func TestRefreshRotatesToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "aram@example.com", "Արամ Սարգսյան")
	_, first := f.login(t, "aram@example.com")

	second, err := f.auth.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, first.SessionID, second.SessionID)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)
	_, err = f.verifier.Verify(second.AccessToken)
	require.NoError(t, err)

	t.Run("rotated token within grace still works", func(t *testing.T) {
		again, err := f.auth.Refresh(ctx, first.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, first.SessionID, again.SessionID)
	})

	t.Run("reuse after grace revokes the session", func(t *testing.T) {
		f.clock.Advance(service.DefaultReuseGrace + time.Second)

		_, err := f.auth.Refresh(ctx, first.RefreshToken)
		require.ErrorIs(t, err, service.ErrInvalidSession)
		require.False(t, f.auth.SessionActive(ctx, first.SessionID))

		_, err = f.auth.Refresh(ctx, second.RefreshToken)
		require.ErrorIs(t, err, service.ErrInvalidSession)
	})
}

func TestRefreshRejects(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "lilit@example.com", "Լիլիթ Հակոբյան")
	_, pair := f.login(t, "lilit@example.com")

	t.Run("empty token", func(t *testing.T) {
		_, err := f.auth.Refresh(ctx, "")
		require.ErrorIs(t, err, service.ErrInvalidSession)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := f.auth.Refresh(ctx, "not-a-token")
		require.ErrorIs(t, err, service.ErrInvalidSession)
	})

	t.Run("expired session", func(t *testing.T) {
		f.clock.Advance(25 * time.Hour)
		_, err := f.auth.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, service.ErrInvalidSession)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "gor@example.com", "Գոռ Մանուկյան")
	_, pair := f.login(t, "gor@example.com")

	require.NoError(t, f.auth.Logout(ctx, pair.RefreshToken, ""))
	require.False(t, f.auth.SessionActive(ctx, pair.SessionID))

	_, err := f.auth.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, service.ErrInvalidSession)

	// idempotent, also for sessions that never existed
	require.NoError(t, f.auth.Logout(ctx, pair.RefreshToken, ""))
	require.NoError(t, f.auth.Logout(ctx, "", "ses_missing"))
	require.NoError(t, f.auth.Logout(ctx, "", ""))

	t.Run("by session id when the cookie is gone", func(t *testing.T) {
		_, other := f.login(t, "gor@example.com")
		require.NoError(t, f.auth.Logout(ctx, "", other.SessionID))
		require.False(t, f.auth.SessionActive(ctx, other.SessionID))
	})
}

func TestTwoFactorLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	u := f.register(t, "mane@example.com", "Մանե Գրիգորյան")

	tfa := &service.TwoFactorService{Store: f.store, Issuer: "Alumni", Now: f.clock.Now}

	enrol, err := tfa.Enroll(ctx, u.ID)
	require.NoError(t, err)
	require.Contains(t, enrol.OTPAuthURL, "otpauth://totp/")

	require.ErrorIs(t, tfa.Confirm(ctx, u.ID, wrongCode(t, enrol.Secret, f.clock.Now())), service.ErrInvalidCode)

	code, err := totp.GenerateCode(enrol.Secret, f.clock.Now())
	require.NoError(t, err)
	require.NoError(t, tfa.Confirm(ctx, u.ID, code))

	_, err = tfa.Enroll(ctx, u.ID)
	require.ErrorIs(t, err, service.ErrTwoFactorEnabled)

	t.Run("password alone yields a challenge", func(t *testing.T) {
		_, _, err := f.auth.Login(ctx, "mane@example.com", "Sup3r$ecret")
		var challenge *service.TwoFactorRequiredError
		require.ErrorAs(t, err, &challenge)
		require.NotEmpty(t, challenge.ChallengeToken)
		require.Equal(t, []string{"totp"}, challenge.Methods)
	})

	t.Run("challenge burns after five wrong codes", func(t *testing.T) {
		token := challengeToken(t, f)
		bad := wrongCode(t, enrol.Secret, f.clock.Now())
		for i := 1; i < service.MaxChallengeAttempts; i++ {
			_, _, err := f.auth.VerifyTwoFactor(ctx, token, bad)
			require.ErrorIs(t, err, service.ErrInvalidCode, "attempt %d", i)
		}
		_, _, err := f.auth.VerifyTwoFactor(ctx, token, bad)
		require.ErrorIs(t, err, service.ErrTooManyAttempts)

		good, err := totp.GenerateCode(enrol.Secret, f.clock.Now())
		require.NoError(t, err)
		_, _, err = f.auth.VerifyTwoFactor(ctx, token, good)
		require.ErrorIs(t, err, service.ErrTooManyAttempts)
	})

	t.Run("valid code completes the login once", func(t *testing.T) {
		token := challengeToken(t, f)
		good, err := totp.GenerateCode(enrol.Secret, f.clock.Now())
		require.NoError(t, err)

		got, pair, err := f.auth.VerifyTwoFactor(ctx, token, good)
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)

		claims, err := f.verifier.Verify(pair.AccessToken)
		require.NoError(t, err)
		require.True(t, claims.Has(jwtx.AMROTP))

		_, _, err = f.auth.VerifyTwoFactor(ctx, token, good)
		require.ErrorIs(t, err, service.ErrChallengeExpired)
	})

	t.Run("expired challenge", func(t *testing.T) {
		token := challengeToken(t, f)
		f.clock.Advance(service.DefaultChallengeTTL + time.Second)
		good, err := totp.GenerateCode(enrol.Secret, f.clock.Now())
		require.NoError(t, err)
		_, _, err = f.auth.VerifyTwoFactor(ctx, token, good)
		require.ErrorIs(t, err, service.ErrChallengeExpired)
	})
}

func TestConfirmWithoutEnrolment(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	u := f.register(t, "hayk@example.com", "Հայկ Ավետիսյան")

	tfa := &service.TwoFactorService{Store: f.store, Issuer: "Alumni"}
	require.ErrorIs(t, tfa.Confirm(context.Background(), u.ID, "123456"), service.ErrTwoFactorNotEnrolled)
	_, err := tfa.Enroll(context.Background(), "usr_missing")
	require.ErrorIs(t, err, service.ErrNotFound)
}

func challengeToken(t *testing.T, f *fixture) string {
	t.Helper()
	_, _, err := f.auth.Login(context.Background(), "mane@example.com", "Sup3r$ecret")
	var challenge *service.TwoFactorRequiredError
	require.True(t, errors.As(err, &challenge), "expected a challenge, got %v", err)
	return challenge.ChallengeToken
}

// wrongCode returns a code that no step within the validation skew
// produces.
func wrongCode(t *testing.T, secret string, at time.Time) string {
	t.Helper()
	valid := map[string]bool{}
	for _, d := range []time.Duration{-30 * time.Second, 0, 30 * time.Second} {
		c, err := totp.GenerateCode(secret, at.Add(d))
		require.NoError(t, err)
		valid[c] = true
	}
	for i := 0; ; i++ {
		c := strconv.Itoa(100000 + i)
		if !valid[c] {
			return c
		}
	}
}
