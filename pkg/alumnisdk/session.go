package alumnisdk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/singleflight"
)

// maxRetries bounds the refresh-then-retry cycle triggered by a 401.
const maxRetries = 1

const refreshPath = "/auth/refresh"

// SessionExpiredHandler is invoked when a 401 could not be recovered by a
// refresh, once for each request that failed that way. With
// WithRefreshCoalescing several requests can share one failed refresh, and
// each of them reports it. The stored credential is already removed when it
// runs. A CLI would tell the user to log in again; a web frontend would
// redirect.
type SessionExpiredHandler func(ctx context.Context, err error)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionExpiredHandler sets the callback fired on irrecoverable 401s.
func WithSessionExpiredHandler(h SessionExpiredHandler) SessionOption {
	return func(s *Session) { s.onExpired = h }
}

// WithRefreshCoalescing makes concurrent requests that all hit a 401 share a
// single /auth/refresh call instead of each issuing their own.
func WithRefreshCoalescing() SessionOption {
	return func(s *Session) { s.refreshGroup = &singleflight.Group{} }
}

// WithLogger overrides the client's logger for this session.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// Session issues authenticated requests. The credential lives in the
// injected CredentialStore and is re-read before every attempt, never cached
// on the Session itself.
type Session struct {
	client *SDKClient
	store  CredentialStore
	logger *slog.Logger

	onExpired    SessionExpiredHandler
	refreshGroup *singleflight.Group
}

// Client returns the SDK client the session was created from.
func (s *Session) Client() *SDKClient { return s.client }

// Credential returns the currently stored credential ("" if none).
func (s *Session) Credential() (string, error) {
	return s.store.Load()
}

// Do sends req with the current credential attached.
//
// A 401 triggers exactly one refresh. When the refresh succeeds the request is
// re-issued once with the new credential and that outcome is returned; a
// failing outcome comes back as *RecoveredError. When the refresh fails the
// credential is removed, the SessionExpiredHandler fires and the error is a
// *SessionExpiredError. Any other status >= 400 is returned as *HTTPError and
// transport failures as *TransportError, neither retried.
//
// On success the caller owns the response body.
func (s *Session) Do(ctx context.Context, req *Request) (*http.Response, error) {
	refreshed := false

	for attempt := 0; attempt <= maxRetries; attempt++ {
		// Re-read on every attempt: a concurrent refresh or logout may have
		// replaced the credential while we were waiting on the network.
		token, err := s.store.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load credential: %w", err)
		}

		resp, err := s.send(ctx, req, token)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode < http.StatusBadRequest {
			return resp, nil
		}

		if resp.StatusCode == http.StatusUnauthorized && !refreshed {
			discard(resp)
			s.logger.Debug("access token rejected, attempting refresh",
				"method", req.Method, "path", req.Path)

			if _, err := s.refresh(ctx); err != nil {
				// A caller giving up says nothing about the session itself.
				var transportErr *TransportError
				if ctx.Err() != nil && errors.As(err, &transportErr) {
					return nil, err
				}
				return nil, s.expire(ctx, err)
			}
			refreshed = true
			continue
		}

		httpErr := readHTTPError(resp)
		if refreshed {
			return nil, &RecoveredError{Err: httpErr}
		}
		return nil, httpErr
	}

	// Every path through the final attempt returns above.
	return nil, errors.New("alumnisdk: retry budget exhausted")
}

// Refresh exchanges the session cookie for a new credential and stores it.
func (s *Session) Refresh(ctx context.Context) (string, error) {
	return s.refresh(ctx)
}

func (s *Session) refresh(ctx context.Context) (string, error) {
	if s.refreshGroup == nil {
		return s.doRefresh(ctx)
	}

	// The shared refresh must not die with whichever caller started it, so
	// it runs detached and each caller waits on its own context.
	ch := s.refreshGroup.DoChan("refresh", func() (any, error) {
		return s.doRefresh(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return "", &TransportError{Method: http.MethodPost, Path: refreshPath, Err: ctx.Err()}
	case res := <-ch:
		if res.Shared {
			s.logger.Debug("joined in-flight refresh")
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (s *Session) doRefresh(ctx context.Context) (string, error) {
	req, err := NewJSONRequest(http.MethodPost, refreshPath, struct{}{})
	if err != nil {
		return "", err
	}

	resp, err := s.client.doRequest(ctx, req)
	if err != nil {
		return "", err
	}

	var out RefreshResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", errors.New("refresh response did not carry an access token")
	}

	if err := s.store.Save(out.AccessToken); err != nil {
		return "", fmt.Errorf("failed to store refreshed credential: %w", err)
	}

	s.logger.Debug("access token refreshed")
	return out.AccessToken, nil
}

// expire clears the credential and fires the handler. It returns the error
// the caller of Do should see.
func (s *Session) expire(ctx context.Context, cause error) error {
	if err := s.store.Remove(); err != nil {
		s.logger.Error("failed to remove credential", "error", err)
		cause = errors.Join(cause, err)
	}

	expired := &SessionExpiredError{Cause: cause}
	s.logger.Info("session expired", "cause", cause)

	if s.onExpired != nil {
		s.onExpired(ctx, expired)
	}
	return expired
}

// send performs a single attempt.
func (s *Session) send(ctx context.Context, req *Request, token string) (*http.Response, error) {
	httpReq, err := req.build(ctx, s.client.BaseURL, token)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Method: req.Method, Path: req.Path, Err: err}
	}
	return resp, nil
}
