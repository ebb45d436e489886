package alumnisdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Login authenticates and stores the returned credential.
func (s *Session) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	auth, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(auth.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to store credential: %w", err)
	}
	return auth, nil
}

// VerifyTwoFactor completes a challenged login and stores the credential.
func (s *Session) VerifyTwoFactor(ctx context.Context, challengeToken, code string) (*AuthResponse, error) {
	auth, err := s.client.VerifyTwoFactor(ctx, challengeToken, code)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(auth.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to store credential: %w", err)
	}
	return auth, nil
}

// Logout removes the stored credential first and then asks the backend to
// revoke the cookie-backed session. The local credential is gone even when
// the backend call fails.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.store.Remove(); err != nil {
		return fmt.Errorf("failed to remove credential: %w", err)
	}

	resp, err := s.client.doRequest(ctx, NewRequest(http.MethodPost, "/auth/logout"))
	if err != nil {
		return err
	}
	return checkStatus(resp, http.StatusNoContent)
}

// Me returns the profile of the logged-in user.
func (s *Session) Me(ctx context.Context) (*User, error) {
	var user User
	if err := s.getJSON(ctx, "/auth/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// EnrollTwoFactor generates a TOTP secret. Two-factor stays disabled until
// ConfirmTwoFactor succeeds.
func (s *Session) EnrollTwoFactor(ctx context.Context) (*TwoFactorEnrollResponse, error) {
	var out TwoFactorEnrollResponse
	if err := s.sendJSON(ctx, http.MethodPost, "/auth/2fa/enroll", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConfirmTwoFactor verifies a code from the authenticator app and enables
// two-factor for the account.
func (s *Session) ConfirmTwoFactor(ctx context.Context, code string) error {
	return s.sendJSON(ctx, http.MethodPost, "/auth/2fa/confirm", TwoFactorConfirmRequest{Code: code}, nil)
}

// IsAuthenticated reports whether the stored credential is currently
// accepted, refreshing it if needed. A session expiry is reported as false
// with a nil error.
func (s *Session) IsAuthenticated(ctx context.Context) (bool, error) {
	_, err := s.Me(ctx)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrSessionExpired):
		return false, nil
	default:
		return false, err
	}
}
