package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aussiebroadwan/alumni/internal/alumnid/service"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	mu    sync.Mutex
	codes map[string]string
}

func (c *captureSender) SendResetCode(_ context.Context, email, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.codes == nil {
		c.codes = map[string]string{}
	}
	c.codes[email] = code
	return nil
}

func (c *captureSender) code(email string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codes[email]
}

func newResetService(f *fixture, sender service.CodeSender) *service.ResetService {
	return &service.ResetService{Store: f.store, Hasher: f.hasher, Sender: sender, Now: f.clock.Now}
}

func TestPasswordReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "sona@example.com", "Սոնա Վարդանյան")
	_, pair := f.login(t, "sona@example.com")

	sender := &captureSender{}
	resets := newResetService(f, sender)

	t.Run("unknown email is silent", func(t *testing.T) {
		require.NoError(t, resets.RequestReset(ctx, "ghost@example.com"))
		require.Empty(t, sender.code("ghost@example.com"))
	})

	require.NoError(t, resets.RequestReset(ctx, "Sona@Example.com"))
	code := sender.code("sona@example.com")
	require.Len(t, code, service.ResetCodeDigits)

	_, err := resets.VerifyCode(ctx, "sona@example.com", flip(code))
	require.ErrorIs(t, err, service.ErrInvalidCode)

	token, err := resets.VerifyCode(ctx, "sona@example.com", code)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	t.Run("code is single use", func(t *testing.T) {
		_, err := resets.VerifyCode(ctx, "sona@example.com", code)
		require.ErrorIs(t, err, service.ErrInvalidCode)
	})

	require.NoError(t, resets.ResetPassword(ctx, token, "N3w$ecretPass"))

	t.Run("old sessions are revoked", func(t *testing.T) {
		require.False(t, f.auth.SessionActive(ctx, pair.SessionID))
		_, err := f.auth.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, service.ErrInvalidSession)
	})

	t.Run("new password works", func(t *testing.T) {
		_, _, err := f.auth.Login(ctx, "sona@example.com", "Sup3r$ecret")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
		_, _, err = f.auth.Login(ctx, "sona@example.com", "N3w$ecretPass")
		require.NoError(t, err)
	})

	t.Run("reset token is single use", func(t *testing.T) {
		require.ErrorIs(t, resets.ResetPassword(ctx, token, "An0ther$ecret"), service.ErrInvalidCode)
	})
}

func TestResetAttemptsAreCapped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "tigran@example.com", "Տիգրան Մելքոնյան")

	sender := &captureSender{}
	resets := newResetService(f, sender)
	require.NoError(t, resets.RequestReset(ctx, "tigran@example.com"))
	code := sender.code("tigran@example.com")

	for i := 1; i < service.MaxResetAttempts; i++ {
		_, err := resets.VerifyCode(ctx, "tigran@example.com", flip(code))
		require.ErrorIs(t, err, service.ErrInvalidCode)
	}
	_, err := resets.VerifyCode(ctx, "tigran@example.com", flip(code))
	require.ErrorIs(t, err, service.ErrTooManyAttempts)

	_, err = resets.VerifyCode(ctx, "tigran@example.com", code)
	require.ErrorIs(t, err, service.ErrTooManyAttempts)

	t.Run("a new request starts over", func(t *testing.T) {
		require.NoError(t, resets.RequestReset(ctx, "tigran@example.com"))
		_, err := resets.VerifyCode(ctx, "tigran@example.com", sender.code("tigran@example.com"))
		require.NoError(t, err)
	})
}

// flip changes the last digit of a numeric code.
func flip(code string) string {
	b := []byte(code)
	last := b[len(b)-1]
	if last == '9' {
		b[len(b)-1] = '0'
	} else {
		b[len(b)-1] = last + 1
	}
	return string(b)
}
