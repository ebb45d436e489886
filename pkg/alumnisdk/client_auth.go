package alumnisdk

import (
	"context"
	"net/http"
)

// Register creates a new account. It does not log in.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var user User
	if err := c.postJSON(ctx, "/auth/register", req, &user, http.StatusCreated); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates with email and password. On success the backend sets
// the session cookie in the client's jar and returns an access token, which
// the caller is responsible for storing (Session.Login does this).
//
// Accounts with two-factor enabled get a *TwoFactorRequiredError instead;
// finish with VerifyTwoFactor.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	req := LoginRequest{Email: email, Password: password}
	if err := c.postJSON(ctx, "/auth/login", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyTwoFactor completes a challenged login with a TOTP code.
func (c *SDKClient) VerifyTwoFactor(ctx context.Context, challengeToken, code string) (*AuthResponse, error) {
	var out AuthResponse
	req := TwoFactorVerifyRequest{ChallengeToken: challengeToken, Code: code}
	if err := c.postJSON(ctx, "/auth/2fa/verify", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword asks the backend to issue a reset code for email. The
// backend answers 202 whether or not the account exists.
func (c *SDKClient) ForgotPassword(ctx context.Context, email string) error {
	return c.postJSON(ctx, "/auth/forgot-password", ForgotPasswordRequest{Email: email}, nil, http.StatusAccepted)
}

// VerifyResetCode exchanges the 6 digit code for a reset token.
func (c *SDKClient) VerifyResetCode(ctx context.Context, email, code string) (string, error) {
	var out VerifyCodeResponse
	req := VerifyCodeRequest{Email: email, Code: code}
	if err := c.postJSON(ctx, "/auth/verify-code", req, &out, http.StatusOK); err != nil {
		return "", err
	}
	return out.ResetToken, nil
}

// ResetPassword sets a new password. Every session of the account is revoked.
func (c *SDKClient) ResetPassword(ctx context.Context, resetToken, password string) error {
	req := ResetPasswordRequest{ResetToken: resetToken, Password: password}
	return c.postJSON(ctx, "/auth/reset-password", req, nil, http.StatusNoContent)
}

// GetLiveness checks whether the backend is running.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// GetReadiness checks whether the backend and its dependencies are ready.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *SDKClient) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, NewRequest(http.MethodGet, path))
	if err != nil {
		return nil, err
	}

	var out HealthResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
