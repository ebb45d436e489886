package alumni_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aussiebroadwan/alumni/pkg/alumnisdk"
	"github.com/stretchr/testify/require"
)

// TestSessionRefreshesExpiredAccessToken tests the complete flow:
// 1. Register and log in
// 2. Let the access token expire
// 3. Call an authenticated endpoint, which answers 401
// 4. Verify the session refreshed once and the retry succeeded
func TestSessionRefreshesExpiredAccessToken(t *testing.T) {
	baseURL := setupBackend(t, nil)
	ctx := context.Background()

	session := signUp(t, baseURL, "refresh@example.com", "Refresh User")
	oldToken, err := session.Credential()
	require.NoError(t, err)

	me, err := session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "refresh@example.com", me.Email)
	t.Logf("Logged in as %s", me.ID)

	waitForExpiry()

	me, err = session.Me(ctx)
	require.NoError(t, err, "Expired access token should be refreshed transparently")
	require.Equal(t, "refresh@example.com", me.Email)

	newToken, err := session.Credential()
	require.NoError(t, err)
	require.NotEqual(t, oldToken, newToken, "Access token should be replaced")
	t.Logf("Access token refreshed after expiry")
}

// TestConcurrentRequestsShareOneRefresh fires requests in parallel after the
// access token expired. With coalescing every request recovers and they end
// up holding the same credential.
func TestConcurrentRequestsShareOneRefresh(t *testing.T) {
	baseURL := setupBackend(t, nil)
	ctx := context.Background()

	session := signUp(t, baseURL, "burst@example.com", "Burst User", alumnisdk.WithRefreshCoalescing())

	waitForExpiry()

	const workers = 8
	var (
		wg     sync.WaitGroup
		failed atomic.Int32
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := session.ListPosts(ctx, ""); err != nil {
				t.Logf("request failed: %v", err)
				failed.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Zero(t, failed.Load(), "Every concurrent request should recover")

	me, err := session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "burst@example.com", me.Email)
	t.Logf("%d concurrent requests recovered with a single refresh", workers)
}

// TestRevokedSessionExpires verifies that once the server forgets the
// session, the next 401 ends it: the store is cleared and the handler runs
// exactly once.
func TestRevokedSessionExpires(t *testing.T) {
	baseURL := setupBackend(t, nil)
	ctx := context.Background()

	client := alumnisdk.NewSDKClient(baseURL)
	_, err := client.Register(ctx, alumnisdk.RegisterRequest{
		Email: "revoked@example.com", Password: testPassword, FullName: "Revoked User",
	})
	require.NoError(t, err)

	var notified atomic.Int32
	store := alumnisdk.NewMemoryStore("")
	session, _, err := client.LoginSession(ctx, store, "revoked@example.com", testPassword,
		alumnisdk.WithSessionExpiredHandler(func(context.Context, error) { notified.Add(1) }))
	require.NoError(t, err)

	// A second session shares the cookie jar, so logging it out revokes
	// the refresh token the first one relies on.
	token, err := session.Credential()
	require.NoError(t, err)
	other := client.NewSession(alumnisdk.NewMemoryStore(token))
	require.NoError(t, other.Logout(ctx))
	t.Logf("Session revoked server side")

	waitForExpiry()

	_, err = session.Me(ctx)
	require.Error(t, err)
	require.ErrorIs(t, err, alumnisdk.ErrSessionExpired)
	require.Equal(t, int32(1), notified.Load(), "Expiry handler should run once")

	stored, err := store.Load()
	require.NoError(t, err)
	require.Empty(t, stored, "Credential should be removed")

	// The cookie is gone too, so a later call ends the same way.
	_, err = session.Me(ctx)
	require.ErrorIs(t, err, alumnisdk.ErrSessionExpired)
}

// TestFailedRetryIsReturnedAsRecovered verifies that a retry failing for
// reasons unrelated to the credential surfaces as that failure.
func TestFailedRetryIsReturnedAsRecovered(t *testing.T) {
	baseURL := setupBackend(t, nil)
	ctx := context.Background()

	session := signUp(t, baseURL, "missing@example.com", "Missing User")

	waitForExpiry()

	_, err := session.GetPost(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	require.Error(t, err)

	var recovered *alumnisdk.RecoveredError
	require.True(t, errors.As(err, &recovered), "Retry failure should be wrapped: %v", err)
	require.Equal(t, http.StatusNotFound, alumnisdk.StatusCode(err))
	require.NotErrorIs(t, err, alumnisdk.ErrSessionExpired)
}

func TestRateLimitLogin(t *testing.T) {
	baseURL := setupBackend(t, map[string]string{
		"RATELIMIT_AUTH_REQUESTS": "5",
		"RATELIMIT_AUTH_BURST":    "5",
	})
	client := alumnisdk.NewSDKClient(baseURL)
	ctx := context.Background()

	// The auth preset allows 5 requests per minute, the 6th is refused.
	var lastErr error
	for i := range 6 {
		_, err := client.Login(ctx, "nobody@example.com", "wrong-password")
		require.Error(t, err)
		if i < 5 {
			require.Equal(t, http.StatusUnauthorized, alumnisdk.StatusCode(err), "request %d", i+1)
		}
		lastErr = err
	}
	require.Equal(t, http.StatusTooManyRequests, alumnisdk.StatusCode(lastErr))
	t.Logf("Rate limited after 5 login attempts")
}
