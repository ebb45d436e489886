package alumnisdk_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/alumni/pkg/alumnisdk"
	"github.com/stretchr/testify/require"
)

// fakeBackend accepts the bearer tokens in valid on /resource and answers
// /auth/refresh from refreshToken.
type fakeBackend struct {
	t *testing.T

	mu           sync.Mutex
	valid        map[string]bool
	refreshToken string // "" makes refresh fail with 401
	retryStatus  int    // status for /resource even with a valid token, 0 = 200

	resourceHits atomic.Int32
	refreshHits  atomic.Int32
	authHeaders  []string
	bodies       []string

	// onUnauthorized runs before a 401 is written on /resource.
	onUnauthorized func()
	// refreshDelay is slept before answering /auth/refresh.
	refreshDelay time.Duration
}

func newFakeBackend(t *testing.T, valid ...string) *fakeBackend {
	f := &fakeBackend{t: t, valid: make(map[string]bool)}
	for _, v := range valid {
		f.valid[v] = true
	}
	return f
}

func (f *fakeBackend) headers() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.authHeaders...)
}

func (f *fakeBackend) requestBodies() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.bodies...)
}

func (f *fakeBackend) server() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/resource", func(w http.ResponseWriter, r *http.Request) {
		f.resourceHits.Add(1)
		body, _ := io.ReadAll(r.Body)

		f.mu.Lock()
		f.authHeaders = append(f.authHeaders, r.Header.Get("Authorization"))
		f.bodies = append(f.bodies, string(body))
		token := r.Header.Get("Authorization")
		ok := len(token) > 7 && f.valid[token[7:]]
		retryStatus := f.retryStatus
		f.mu.Unlock()

		if !ok {
			if f.onUnauthorized != nil {
				f.onUnauthorized()
			}
			alumnisdk.ErrUnauthorized.WriteError(w)
			return
		}
		if retryStatus != 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(retryStatus)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":   "forbidden",
				"message": "no",
			})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	mux.HandleFunc("/public", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.authHeaders = append(f.authHeaders, r.Header.Get("Authorization"))
		f.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		alumnisdk.ErrNotFound.WriteError(w)
	})

	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		alumnisdk.ErrServerError.WriteError(w)
	})

	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		f.refreshHits.Add(1)
		if f.refreshDelay > 0 {
			time.Sleep(f.refreshDelay)
		}

		f.mu.Lock()
		token := f.refreshToken
		f.mu.Unlock()

		if token == "" {
			alumnisdk.ErrInvalidSession.WriteError(w)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(alumnisdk.RefreshResponse{AccessToken: token, TokenType: "Bearer"})
	})

	srv := httptest.NewServer(mux)
	f.t.Cleanup(srv.Close)
	return srv
}

type expiredRecorder struct {
	calls  atomic.Int32
	stored string
	err    error
}

func (e *expiredRecorder) handler(store alumnisdk.CredentialStore) alumnisdk.SessionExpiredHandler {
	return func(_ context.Context, err error) {
		e.calls.Add(1)
		e.stored, _ = store.Load()
		e.err = err
	}
}

func TestSessionDo(t *testing.T) {
	t.Parallel()

	t.Run("attaches stored credential", func(t *testing.T) {
		t.Parallel()

		backend := newFakeBackend(t, "abc")
		srv := backend.server()
		store := alumnisdk.NewMemoryStore("abc")
		session := alumnisdk.NewSDKClient(srv.URL).NewSession(store)

		resp, err := session.Do(context.Background(), alumnisdk.NewRequest(http.MethodGet, "/resource"))
		require.NoError(t, err)
		resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, []string{"Bearer abc"}, backend.headers())
		require.Zero(t, backend.refreshHits.Load())
	})

	t.Run("omits header without credential", func(t *testing.T) {
		t.Parallel()

		backend := newFakeBackend(t)
		srv := backend.server()
		session := alumnisdk.NewSDKClient(srv.URL).NewSession(alumnisdk.NewMemoryStore(""))

		req := alumnisdk.NewRequest(http.MethodGet, "/public")
		req.Header.Set("Authorization", "Bearer stale")

		resp, err := session.Do(context.Background(), req)
		require.NoError(t, err)
		resp.Body.Close()

		require.Equal(t, []string{""}, backend.headers())
	})

	t.Run("refreshes once and retries with new credential", func(t *testing.T) {
		t.Parallel()

		backend := newFakeBackend(t, "fresh")
		backend.refreshToken = "fresh"
		srv := backend.server()

		store := alumnisdk.NewMemoryStore("expired")
		var rec expiredRecorder
		session := alumnisdk.NewSDKClient(srv.URL).NewSession(store,
			alumnisdk.WithSessionExpiredHandler(rec.handler(store)))

		resp, err := session.Do(context.Background(), alumnisdk.NewRequest(http.MethodGet, "/resource"))
		require.NoError(t, err)
		resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, []string{"Bearer expired", "Bearer fresh"}, backend.headers())
		require.EqualValues(t, 1, backend.refreshHits.Load())
		require.Zero(t, rec.calls.Load())

		token, err := store.Load()
		require.NoError(t, err)
		require.Equal(t, "fresh", token)
	})

	t.Run("failed refresh expires the session", func(t *testing.T) {
		t.Parallel()

		backend := newFakeBackend(t, "fresh")
		srv := backend.server()

		store := alumnisdk.NewMemoryStore("expired")
		var rec expiredRecorder
		session := alumnisdk.NewSDKClient(srv.URL).NewSession(store,
			alumnisdk.WithSessionExpiredHandler(rec.handler(store)))

		_, err := session.Do(context.Background(), alumnisdk.NewRequest(http.MethodGet, "/resource"))
		require.Error(t, err)
		require.ErrorIs(t, err, alumnisdk.ErrSessionExpired)

		var expired *alumnisdk.SessionExpiredError
		require.ErrorAs(t, err, &expired)
		require.ErrorIs(t, expired.Cause, alumnisdk.ErrInvalidSession)
		require.Equal(t, http.StatusUnauthorized, alumnisdk.StatusCode(err))

		require.EqualValues(t, 1, backend.resourceHits.Load())
		require.EqualValues(t, 1, backend.refreshHits.Load())

		token, err := store.Load()
		require.NoError(t, err)
		require.Empty(t, token)

		require.EqualValues(t, 1, rec.calls.Load())
		require.Empty(t, rec.stored, "credential must be removed before the handler runs")
		require.ErrorIs(t, rec.err, alumnisdk.ErrSessionExpired)
	})

	t.Run("401 after refresh is not retried again", func(t *testing.T) {
		t.Parallel()

		// refresh hands out a token the resource still rejects
		backend := newFakeBackend(t)
		backend.refreshToken = "also-rejected"
		srv := backend.server()

		store := alumnisdk.NewMemoryStore("expired")
		var rec expiredRecorder
		session := alumnisdk.NewSDKClient(srv.URL).NewSession(store,
			alumnisdk.WithSessionExpiredHandler(rec.handler(store)))

		_, err := session.Do(context.Background(), alumnisdk.NewRequest(http.MethodGet, "/resource"))

		var recovered *alumnisdk.RecoveredError
		require.ErrorAs(t, err, &recovered)
		require.Equal(t, http.StatusUnauthorized, recovered.StatusCode())
		require.ErrorIs(t, err, alumnisdk.ErrUnauthorized)
		require.NotErrorIs(t, err, alumnisdk.ErrSessionExpired)

		require.EqualValues(t, 2, backend.resourceHits.Load())
		require.EqualValues(t, 1, backend.refreshHits.Load())
		require.Zero(t, rec.calls.Load())

		token, _ := store.Load()
		require.Equal(t, "also-rejected", token)
	})

	t.Run("retry failing with other status is recovered error", func(t *testing.T) {
		t.Parallel()

		backend := newFakeBackend(t, "fresh")
		backend.refreshToken = "fresh"
		backend.retryStatus = http.StatusForbidden
		srv := backend.server()

		session := alumnisdk.NewSDKClient(srv.URL).NewSession(alumnisdk.NewMemoryStore("expired"))

		_, err := session.Do(context.Background(), alumnisdk.NewRequest(http.MethodGet, "/resource"))

		var recovered *alumnisdk.RecoveredError
		require.ErrorAs(t, err, &recovered)
		require.ErrorIs(t, err, alumnisdk.ErrForbidden)
		require.Equal(t, http.StatusForbidden, alumnisdk.StatusCode(err))
	})

	t.Run("non-401 errors are returned without refresh", func(t *testing.T) {
		t.Parallel()

		backend := newFakeBackend(t)
		srv := backend.server()
		session := alumnisdk.NewSDKClient(srv.URL).NewSession(alumnisdk.NewMemoryStore("abc"))

		_, err := session.Do(context.Background(), alumnisdk.NewRequest(http.MethodGet, "/missing"))
		require.ErrorIs(t, err, alumnisdk.ErrNotFound)

		var recovered *alumnisdk.RecoveredError
		require.False(t, errors.As(err, &recovered))
		require.Zero(t, backend.refreshHits.Load())
	})

	t.Run("transport failure is not treated as 401", func(t *testing.T) {
		t.Parallel()

		backend := newFakeBackend(t)
		srv := backend.server()
		srv.Close()

		store := alumnisdk.NewMemoryStore("abc")
		var rec expiredRecorder
		session := alumnisdk.NewSDKClient(srv.URL).NewSession(store,
			alumnisdk.WithSessionExpiredHandler(rec.handler(store)))

		_, err := session.Do(context.Background(), alumnisdk.NewRequest(http.MethodGet, "/resource"))

		var transportErr *alumnisdk.TransportError
		require.ErrorAs(t, err, &transportErr)
		require.Equal(t, "/resource", transportErr.Path)
		require.Zero(t, alumnisdk.StatusCode(err))
		require.Zero(t, rec.calls.Load())

		token, _ := store.Load()
		require.Equal(t, "abc", token)
	})

	t.Run("request body is replayed on retry", func(t *testing.T) {
		t.Parallel()

		backend := newFakeBackend(t, "fresh")
		backend.refreshToken = "fresh"
		srv := backend.server()
		session := alumnisdk.NewSDKClient(srv.URL).NewSession(alumnisdk.NewMemoryStore("expired"))

		req, err := alumnisdk.NewJSONRequest(http.MethodPost, "/resource", map[string]string{"title": "hello"})
		require.NoError(t, err)

		resp, err := session.Do(context.Background(), req)
		require.NoError(t, err)
		resp.Body.Close()

		bodies := backend.requestBodies()
		require.Len(t, bodies, 2)
		require.JSONEq(t, `{"title":"hello"}`, bodies[0])
		require.Equal(t, bodies[0], bodies[1])
	})

	t.Run("credential is re-read before each request", func(t *testing.T) {
		t.Parallel()

		backend := newFakeBackend(t, "one", "two")
		srv := backend.server()
		store := alumnisdk.NewMemoryStore("one")
		session := alumnisdk.NewSDKClient(srv.URL).NewSession(store)

		resp, err := session.Do(context.Background(), alumnisdk.NewRequest(http.MethodGet, "/resource"))
		require.NoError(t, err)
		resp.Body.Close()

		require.NoError(t, store.Save("two"))

		resp, err = session.Do(context.Background(), alumnisdk.NewRequest(http.MethodGet, "/resource"))
		require.NoError(t, err)
		resp.Body.Close()

		require.Equal(t, []string{"Bearer one", "Bearer two"}, backend.headers())
	})
}

// concurrentExpired fires n requests whose first attempts all receive their
// 401 together, and returns the number of refresh calls the backend saw.
func concurrentExpired(t *testing.T, n int, opts ...alumnisdk.SessionOption) int32 {
	t.Helper()

	backend := newFakeBackend(t, "fresh")
	backend.refreshToken = "fresh"
	backend.refreshDelay = 100 * time.Millisecond

	var arrived atomic.Int32
	barrier := make(chan struct{})
	backend.onUnauthorized = func() {
		if arrived.Add(1) == int32(n) {
			close(barrier)
		}
		<-barrier
	}
	srv := backend.server()

	session := alumnisdk.NewSDKClient(srv.URL).NewSession(alumnisdk.NewMemoryStore("expired"), opts...)

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := session.Do(context.Background(), alumnisdk.NewRequest(http.MethodGet, "/resource"))
			if err == nil {
				resp.Body.Close()
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	return backend.refreshHits.Load()
}

func TestSessionConcurrentRefresh(t *testing.T) {
	t.Parallel()

	const n = 6

	t.Run("independent by default", func(t *testing.T) {
		t.Parallel()
		require.EqualValues(t, n, concurrentExpired(t, n))
	})

	t.Run("coalesced when enabled", func(t *testing.T) {
		t.Parallel()
		hits := concurrentExpired(t, n, alumnisdk.WithRefreshCoalescing())
		require.GreaterOrEqual(t, hits, int32(1))
		require.Less(t, hits, int32(n))
	})
}

func TestSessionCoalescedExpiryReportsEachRequest(t *testing.T) {
	t.Parallel()

	const n = 4

	backend := newFakeBackend(t, "fresh")
	backend.refreshDelay = 100 * time.Millisecond

	var arrived atomic.Int32
	barrier := make(chan struct{})
	backend.onUnauthorized = func() {
		if arrived.Add(1) == int32(n) {
			close(barrier)
		}
		<-barrier
	}
	srv := backend.server()

	var calls atomic.Int32
	session := alumnisdk.NewSDKClient(srv.URL).NewSession(alumnisdk.NewMemoryStore("expired"),
		alumnisdk.WithRefreshCoalescing(),
		alumnisdk.WithSessionExpiredHandler(func(context.Context, error) { calls.Add(1) }))

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := session.Do(context.Background(), alumnisdk.NewRequest(http.MethodGet, "/resource"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.ErrorIs(t, err, alumnisdk.ErrSessionExpired)
	}
	require.EqualValues(t, n, calls.Load())
	require.Less(t, backend.refreshHits.Load(), int32(n))
}

func TestSessionRefreshCancelled(t *testing.T) {
	t.Parallel()

	for name, opts := range map[string][]alumnisdk.SessionOption{
		"independent": nil,
		"coalesced":   {alumnisdk.WithRefreshCoalescing()},
	} {
		t.Run(name+" caller deadline keeps the session", func(t *testing.T) {
			t.Parallel()

			backend := newFakeBackend(t, "fresh")
			backend.refreshToken = "fresh"
			backend.refreshDelay = 200 * time.Millisecond
			srv := backend.server()

			store := alumnisdk.NewMemoryStore("expired")
			var rec expiredRecorder
			session := alumnisdk.NewSDKClient(srv.URL).NewSession(store,
				append(opts, alumnisdk.WithSessionExpiredHandler(rec.handler(store)))...)

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			_, err := session.Do(ctx, alumnisdk.NewRequest(http.MethodGet, "/resource"))

			var transportErr *alumnisdk.TransportError
			require.ErrorAs(t, err, &transportErr)
			require.ErrorIs(t, err, context.DeadlineExceeded)
			require.NotErrorIs(t, err, alumnisdk.ErrSessionExpired)
			require.Zero(t, rec.calls.Load())

			token, _ := store.Load()
			require.NotEmpty(t, token, "credential must survive a cancelled refresh")
		})
	}

	t.Run("coalesced waiter with a live context recovers", func(t *testing.T) {
		t.Parallel()

		backend := newFakeBackend(t, "fresh")
		backend.refreshToken = "fresh"
		backend.refreshDelay = 200 * time.Millisecond

		// Hold both first attempts until they have each been rejected, so
		// their refreshes overlap.
		var arrived atomic.Int32
		barrier := make(chan struct{})
		backend.onUnauthorized = func() {
			if arrived.Add(1) == 2 {
				close(barrier)
			}
			<-barrier
		}
		srv := backend.server()

		store := alumnisdk.NewMemoryStore("expired")
		var rec expiredRecorder
		session := alumnisdk.NewSDKClient(srv.URL).NewSession(store,
			alumnisdk.WithRefreshCoalescing(),
			alumnisdk.WithSessionExpiredHandler(rec.handler(store)))

		short, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		var wg sync.WaitGroup
		var shortErr, liveErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, shortErr = session.Do(short, alumnisdk.NewRequest(http.MethodGet, "/resource"))
		}()
		go func() {
			defer wg.Done()
			resp, err := session.Do(context.Background(), alumnisdk.NewRequest(http.MethodGet, "/resource"))
			if err == nil {
				resp.Body.Close()
			}
			liveErr = err
		}()
		wg.Wait()

		require.ErrorIs(t, shortErr, context.DeadlineExceeded)
		require.NotErrorIs(t, shortErr, alumnisdk.ErrSessionExpired)
		require.NoError(t, liveErr)
		require.EqualValues(t, 1, backend.refreshHits.Load())
		require.Zero(t, rec.calls.Load())

		token, _ := store.Load()
		require.Equal(t, "fresh", token)
	})
}

func TestNewSDKClientSetsNoTimeout(t *testing.T) {
	t.Parallel()

	client := alumnisdk.NewSDKClient("http://alumni.test/")
	require.Zero(t, client.HTTPClient.Timeout)
	require.NotNil(t, client.HTTPClient.Jar)
	require.Equal(t, "http://alumni.test", client.BaseURL)
}

func TestSessionLoginAndRefreshUseCookie(t *testing.T) {
	t.Parallel()

	var sawCookie atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "alumni_session", Value: "cookie-1", Path: "/", HttpOnly: true})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(alumnisdk.AuthResponse{AccessToken: "abc", TokenType: "Bearer"})
	})
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("alumni_session")
		if err != nil || c.Value != "cookie-1" {
			alumnisdk.ErrInvalidSession.WriteError(w)
			return
		}
		sawCookie.Store(true)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(alumnisdk.RefreshResponse{AccessToken: "fresh"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	store := alumnisdk.NewMemoryStore("")
	session, auth, err := alumnisdk.NewSDKClient(srv.URL).LoginSession(context.Background(), store, "ann@example.com", "pw")
	require.NoError(t, err)
	require.Equal(t, "abc", auth.AccessToken)

	token, _ := session.Credential()
	require.Equal(t, "abc", token)

	token, err = session.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, "fresh", token)
	require.True(t, sawCookie.Load())

	stored, _ := store.Load()
	require.Equal(t, "fresh", stored)
}

func TestSessionLogout(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend(t)
	srv := backend.server()
	store := alumnisdk.NewMemoryStore("abc")
	session := alumnisdk.NewSDKClient(srv.URL).NewSession(store)

	// the fake backend fails logout; the local credential must still go
	err := session.Logout(context.Background())
	require.ErrorIs(t, err, alumnisdk.ErrServerError)

	token, _ := store.Load()
	require.Empty(t, token)
}

func TestSessionIsAuthenticated(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		alumnisdk.ErrUnauthorized.WriteError(w)
	})
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		alumnisdk.ErrInvalidSession.WriteError(w)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	session := alumnisdk.NewSDKClient(srv.URL).NewSession(alumnisdk.NewMemoryStore("expired"))

	ok, err := session.IsAuthenticated(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLoginTwoFactorChallenge(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		(&alumnisdk.TwoFactorRequiredError{ChallengeToken: "chal-1", Methods: []string{"totp"}}).WriteError(w)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	store := alumnisdk.NewMemoryStore("")
	_, _, err := alumnisdk.NewSDKClient(srv.URL).LoginSession(context.Background(), store, "ann@example.com", "pw")

	var challenge *alumnisdk.TwoFactorRequiredError
	require.ErrorAs(t, err, &challenge)
	require.Equal(t, "chal-1", challenge.ChallengeToken)
	require.Equal(t, []string{"totp"}, challenge.Methods)

	token, _ := store.Load()
	require.Empty(t, token)
}
