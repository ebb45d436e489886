package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/alumni/internal/alumnid/domain"
	"github.com/aussiebroadwan/alumni/internal/alumnid/service"
	"github.com/aussiebroadwan/alumni/pkg/alumnisdk"
	"github.com/aussiebroadwan/alumni/pkg/httpx"
	"github.com/aussiebroadwan/alumni/pkg/jwtx"
	"github.com/aussiebroadwan/alumni/pkg/slogx"
)

// AuthHandler serves the /auth endpoints.
type AuthHandler struct {
	AuthService      *service.AuthService
	TwoFactorService *service.TwoFactorService
	ResetService     *service.ResetService
	Cookies          *SessionCookies
	Verifier         jwtx.Verifier
}

// HandleRegister handles POST /auth/register
//
//	@Summary		Register an account
//	@Description	Creates an account. The caller still has to log in.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		alumnisdk.RegisterRequest	true	"Account details"
//	@Success		201		{object}	alumnisdk.User
//	@Failure		409		{object}	alumnisdk.HTTPError	"Email already registered"
//	@Failure		422		{object}	alumnisdk.HTTPError	"Invalid fields"
//	@Router			/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req alumnisdk.RegisterRequest
	if !decodeValid(w, r, &req) {
		return
	}

	u, err := h.AuthService.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, selfUser(u))
}

// HandleLogin handles POST /auth/login
//
//	@Summary		Log in
//	@Description	Checks the password and starts a session. The access token is returned in the body and the refresh token in the alumni_session cookie.
//	@Description	Accounts with two-factor enabled get a 409 carrying a challenge token for /auth/2fa/verify.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		alumnisdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	alumnisdk.AuthResponse
//	@Failure		401		{object}	alumnisdk.HTTPError	"Invalid credentials"
//	@Failure		409		{object}	alumnisdk.HTTPError	"Two-factor code required"
//	@Failure		429		{object}	alumnisdk.HTTPError	"Rate limited"
//	@Router			/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req alumnisdk.LoginRequest
	if !decodeValid(w, r, &req) {
		return
	}

	u, pair, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.writeSession(w, r, u, pair)
}

// HandleVerifyTwoFactor handles POST /auth/2fa/verify
//
//	@Summary		Complete a two-factor login
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		alumnisdk.TwoFactorVerifyRequest	true	"Challenge and code"
//	@Success		200		{object}	alumnisdk.AuthResponse
//	@Failure		400		{object}	alumnisdk.HTTPError	"Invalid or expired code"
//	@Failure		429		{object}	alumnisdk.HTTPError	"Too many attempts"
//	@Router			/auth/2fa/verify [post].
func (h *AuthHandler) HandleVerifyTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req alumnisdk.TwoFactorVerifyRequest
	if !decodeValid(w, r, &req) {
		return
	}

	u, pair, err := h.AuthService.VerifyTwoFactor(r.Context(), req.ChallengeToken, req.Code)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.writeSession(w, r, u, pair)
}

// HandleRefresh handles POST /auth/refresh
//
//	@Summary		Refresh the access token
//	@Description	Exchanges the refresh token in the session cookie for a new access token. The cookie is rotated.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	alumnisdk.RefreshResponse
//	@Failure		401	{object}	alumnisdk.HTTPError	"Session missing, expired or revoked"
//	@Router			/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := h.Cookies.Get(r)
	if token == "" {
		slogx.FromContext(ctx).Debug("refresh without session cookie")
		alumnisdk.ErrInvalidSession.WriteError(w)
		return
	}

	pair, err := h.AuthService.Refresh(ctx, token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSession) {
			h.clearCookie(w, r)
		}
		writeError(w, r, err)
		return
	}

	if err := h.Cookies.Set(w, r, pair.RefreshToken); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, alumnisdk.RefreshResponse{
		AccessToken: pair.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(pair.ExpiresIn.Seconds()),
	})
}

// HandleLogout handles POST /auth/logout
//
//	@Summary		Log out
//	@Description	Revokes the session named by the cookie, or by the bearer token when the cookie is gone, and clears the cookie. Always answers 204.
//	@Tags			Auth
//	@Success		204
//	@Router			/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	err := h.AuthService.Logout(ctx, h.Cookies.Get(r), h.bearerSession(r))
	h.clearCookie(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleMe handles GET /auth/me
//
//	@Summary		Current account
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	alumnisdk.User
//	@Failure		401	{object}	alumnisdk.HTTPError	"Invalid or missing access token"
//	@Router			/auth/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	u, err := h.AuthService.Me(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, selfUser(u))
}

// HandleEnrollTwoFactor handles POST /auth/2fa/enroll
//
//	@Summary		Start two-factor enrolment
//	@Description	Generates a TOTP secret. Two-factor stays off until /auth/2fa/confirm sees a valid code.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	alumnisdk.TwoFactorEnrollResponse
//	@Failure		409	{object}	alumnisdk.HTTPError	"Already enabled"
//	@Router			/auth/2fa/enroll [post].
func (h *AuthHandler) HandleEnrollTwoFactor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	enrollment, err := h.TwoFactorService.Enroll(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, alumnisdk.TwoFactorEnrollResponse{
		Secret:     enrollment.Secret,
		OTPAuthURL: enrollment.OTPAuthURL,
	})
}

// HandleConfirmTwoFactor handles POST /auth/2fa/confirm
//
//	@Summary		Enable two-factor
//	@Tags			Auth
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	alumnisdk.TwoFactorConfirmRequest	true	"Code from the authenticator app"
//	@Success		204
//	@Failure		400	{object}	alumnisdk.HTTPError	"Invalid code"
//	@Router			/auth/2fa/confirm [post].
func (h *AuthHandler) HandleConfirmTwoFactor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req alumnisdk.TwoFactorConfirmRequest
	if !decodeValid(w, r, &req) {
		return
	}

	if err := h.TwoFactorService.Confirm(ctx, httpx.UserIDFromContext(ctx), req.Code); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleForgotPassword handles POST /auth/forgot-password
//
//	@Summary		Request a password reset code
//	@Description	Sends a six digit code out of band. Unknown addresses get the same answer.
//	@Tags			Auth
//	@Accept			json
//	@Param			request	body	alumnisdk.ForgotPasswordRequest	true	"Account email"
//	@Success		202
//	@Router			/auth/forgot-password [post].
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req alumnisdk.ForgotPasswordRequest
	if !decodeValid(w, r, &req) {
		return
	}

	if err := h.ResetService.RequestReset(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusAccepted)
}

// HandleVerifyCode handles POST /auth/verify-code
//
//	@Summary		Exchange a reset code for a reset token
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		alumnisdk.VerifyCodeRequest	true	"Email and code"
//	@Success		200		{object}	alumnisdk.VerifyCodeResponse
//	@Failure		400		{object}	alumnisdk.HTTPError	"Invalid or expired code"
//	@Router			/auth/verify-code [post].
func (h *AuthHandler) HandleVerifyCode(w http.ResponseWriter, r *http.Request) {
	var req alumnisdk.VerifyCodeRequest
	if !decodeValid(w, r, &req) {
		return
	}

	token, err := h.ResetService.VerifyCode(r.Context(), req.Email, req.Code)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, alumnisdk.VerifyCodeResponse{ResetToken: token})
}

// HandleResetPassword handles POST /auth/reset-password
//
//	@Summary		Set a new password
//	@Description	Consumes the reset token and signs the account out everywhere.
//	@Tags			Auth
//	@Accept			json
//	@Param			request	body	alumnisdk.ResetPasswordRequest	true	"Reset token and new password"
//	@Success		204
//	@Failure		400	{object}	alumnisdk.HTTPError	"Invalid or expired token"
//	@Router			/auth/reset-password [post].
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req alumnisdk.ResetPasswordRequest
	if !decodeValid(w, r, &req) {
		return
	}

	if err := h.ResetService.ResetPassword(r.Context(), req.ResetToken, req.Password); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeSession sets the refresh cookie and answers with the access token.
func (h *AuthHandler) writeSession(w http.ResponseWriter, r *http.Request, u domain.User, pair domain.TokenPair) {
	if err := h.Cookies.Set(w, r, pair.RefreshToken); err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, alumnisdk.AuthResponse{
		AccessToken: pair.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(pair.ExpiresIn.Seconds()),
		User:        selfUser(u),
	})
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter, r *http.Request) {
	if err := h.Cookies.Clear(w, r); err != nil {
		slogx.FromContext(r.Context()).Warn("failed to clear session cookie", slog.Any("error", err))
	}
}

// bearerSession returns the session of a valid bearer token, or "" when the
// header is missing or the token does not verify.
func (h *AuthHandler) bearerSession(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if h.Verifier == nil || !strings.HasPrefix(authz, "Bearer ") {
		return ""
	}

	claims, err := h.Verifier.Verify(strings.TrimSpace(strings.TrimPrefix(authz, "Bearer")))
	if err != nil {
		return ""
	}
	return claims.SID
}
