/*
Package alumnisdk provides a client SDK for the alumni network backend.

# Overview

The backend authenticates requests with a short-lived bearer access token and
keeps a long-lived session in an HttpOnly cookie. The SDK attaches the token to
every request, and when the backend answers 401 it exchanges the cookie for a
new token once and retries the request once.

# SDKClient vs Session

  - SDKClient: unauthenticated operations (register, login, password reset, health)
  - Session: authenticated operations with automatic refresh

	client := alumnisdk.NewSDKClient("https://alumni.example.com/api")

	store := alumnisdk.NewMemoryStore("")
	session, _, err := client.LoginSession(ctx, store, email, password,
		alumnisdk.WithSessionExpiredHandler(func(ctx context.Context, err error) {
			fmt.Fprintln(os.Stderr, "session expired, please log in again")
		}),
	)

	posts, err := session.ListPosts(ctx, alumnisdk.CategoryJob)

# Credential Storage

The access token is held by a CredentialStore, never by the Session. It is
re-read right before each attempt, so a token saved by another Session sharing
the store, or by another process sharing a file, is picked up immediately.
MemoryStore ships here; file and OS keyring stores live in pkg/credstore.

# Refresh and Retry

A request is sent at most twice. On a 401:

 1. POST /auth/refresh is called with the session cookie.
 2. On success the new token is saved and the request is re-sent with it. If
    the retry fails with an HTTP error, the error is a *RecoveredError and no
    further refresh happens.
 3. On failure the stored credential is removed, the SessionExpiredHandler
    runs once, and the error is a *SessionExpiredError.

Concurrent requests refresh independently by default. WithRefreshCoalescing
makes them share a single in-flight refresh.

# Error Handling

	switch {
	case errors.Is(err, alumnisdk.ErrSessionExpired):
		// log in again
	case errors.Is(err, alumnisdk.ErrNotFound):
		// 404
	}

	var transportErr *alumnisdk.TransportError
	if errors.As(err, &transportErr) {
		// no response received
	}

	var validationErr *alumnisdk.HTTPError
	if errors.As(err, &validationErr) && validationErr.Code == alumnisdk.ErrorCodeValidation {
		for field, msg := range validationErr.Fields {
			fmt.Println(field, msg)
		}
	}
*/
package alumnisdk
