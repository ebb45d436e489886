package alumnisdk

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// SDKClient is a client for the alumni backend.
// It provides the unauthenticated operations and creates Sessions for the
// authenticated ones.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// Logger receives refresh and session-expiry events. Defaults to a
	// discarding logger.
	Logger *slog.Logger
}

// NewSDKClient creates a client whose HTTP client keeps a cookie jar, which is
// where the backend's session cookie lives between login and refresh. No
// timeout is set; bound calls with their context or set HTTPClient.Timeout.
func NewSDKClient(baseURL string) *SDKClient {
	// cookiejar.New always returns a nil error.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Jar: jar},
		Logger: slog.New(slog.DiscardHandler),
	}
}

// NewSession creates an authenticated Session backed by store. The store may
// already hold a credential from an earlier run.
func (c *SDKClient) NewSession(store CredentialStore, opts ...SessionOption) *Session {
	s := &Session{
		client: c,
		store:  store,
		logger: c.logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoginSession logs in and returns a Session holding the new credential.
func (c *SDKClient) LoginSession(
	ctx context.Context,
	store CredentialStore,
	email, password string,
	opts ...SessionOption,
) (*Session, *AuthResponse, error) {
	s := c.NewSession(store, opts...)
	auth, err := s.Login(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}
	return s, auth, nil
}

func (c *SDKClient) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
