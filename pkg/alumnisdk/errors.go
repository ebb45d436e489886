package alumnisdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/alumni/pkg/httpx"
)

// ============================================================================
// Error Codes
// ============================================================================

const (
	ErrorCodeBadRequest         = "bad_request"
	ErrorCodeValidation         = "validation_failed"
	ErrorCodeUnauthorized       = "unauthorized"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeInvalidSession     = "invalid_session"
	ErrorCodeInvalidCode        = "invalid_code"
	ErrorCodeTooManyAttempts    = "too_many_attempts"
	ErrorCodeTwoFactorRequired  = "two_factor_required"
	ErrorCodeForbidden          = "forbidden"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeConflict           = "conflict"
	ErrorCodePayloadTooLarge    = "payload_too_large"
	ErrorCodeRateLimited        = "rate_limit_exceeded"
	ErrorCodeServerError        = "server_error"
)

// ErrSessionExpired is matched by every SessionExpiredError via errors.Is.
var ErrSessionExpired = errors.New("alumnisdk: session expired")

// ============================================================================
// TransportError
// ============================================================================

// TransportError is returned when no response was received at all (dial
// failures, DNS, TLS, connection resets, context cancellation). It is never
// interpreted as a 401 and never retried.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: transport: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ============================================================================
// HTTPError
// ============================================================================

// HTTPError is a non-2xx response from the backend. The backend writes these
// with WriteError and the SDK parses them back with parseErrorResponse, so
// both sides agree on the wire shape.
type HTTPError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int `json:"-"`

	// Code is the machine readable error code (e.g. "not_found").
	Code string `json:"error"`

	// Message is a human readable description.
	Message string `json:"message"`

	// Fields holds per-field validation messages, if any.
	Fields map[string]string `json:"fields,omitempty"`
}

func (e *HTTPError) Error() string {
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for k, v := range e.Fields {
			parts = append(parts, k+": "+v)
		}
		return fmt.Sprintf("%d %s: %s (%s)", e.StatusCode, e.Code, e.Message, strings.Join(parts, ", "))
	}
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Is lets errors.Is match predefined errors by status and code, so callers can
// write errors.Is(err, alumnisdk.ErrNotFound).
func (e *HTTPError) Is(target error) bool {
	t, ok := target.(*HTTPError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Code == t.Code
}

// WithMessage returns a copy of the error with a different message.
func (e *HTTPError) WithMessage(msg string) *HTTPError {
	c := *e
	c.Message = msg
	return &c
}

// WriteError writes the error as a JSON response.
func (e *HTTPError) WriteError(w http.ResponseWriter) {
	if e.StatusCode == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	}
	httpx.WriteJSON(w, e.StatusCode, e)
}

// NewValidationError wraps a field error map from a Validate method.
func NewValidationError(fields map[string]string) *HTTPError {
	return &HTTPError{
		StatusCode: http.StatusUnprocessableEntity,
		Code:       ErrorCodeValidation,
		Message:    "one or more fields are invalid",
		Fields:     fields,
	}
}

// ============================================================================
// Predefined Errors
// ============================================================================

var (
	ErrBadRequest = &HTTPError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeBadRequest,
		Message:    "the request is malformed",
	}

	ErrUnauthorized = &HTTPError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeUnauthorized,
		Message:    "the access token is missing, invalid or expired",
	}

	ErrInvalidCredentials = &HTTPError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeInvalidCredentials,
		Message:    "invalid email or password",
	}

	// ErrInvalidSession is what /auth/refresh answers when the session cookie
	// is missing, expired or revoked.
	ErrInvalidSession = &HTTPError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeInvalidSession,
		Message:    "the session is missing, expired or revoked",
	}

	ErrInvalidCode = &HTTPError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeInvalidCode,
		Message:    "the code is invalid or expired",
	}

	ErrTooManyAttempts = &HTTPError{
		StatusCode: http.StatusTooManyRequests,
		Code:       ErrorCodeTooManyAttempts,
		Message:    "too many failed attempts",
	}

	ErrForbidden = &HTTPError{
		StatusCode: http.StatusForbidden,
		Code:       ErrorCodeForbidden,
		Message:    "you are not allowed to modify this resource",
	}

	ErrNotFound = &HTTPError{
		StatusCode: http.StatusNotFound,
		Code:       ErrorCodeNotFound,
		Message:    "resource not found",
	}

	ErrConflict = &HTTPError{
		StatusCode: http.StatusConflict,
		Code:       ErrorCodeConflict,
		Message:    "resource already exists",
	}

	ErrPayloadTooLarge = &HTTPError{
		StatusCode: http.StatusRequestEntityTooLarge,
		Code:       ErrorCodePayloadTooLarge,
		Message:    "upload exceeds the size limit",
	}

	ErrServerError = &HTTPError{
		StatusCode: http.StatusInternalServerError,
		Code:       ErrorCodeServerError,
		Message:    "internal server error",
	}
)

// ============================================================================
// Session Errors
// ============================================================================

// SessionExpiredError is returned when a request got a 401 and the follow-up
// refresh failed. The stored credential has already been removed by the time
// the caller sees it.
type SessionExpiredError struct {
	// Cause is the error the refresh call failed with.
	Cause error
}

func (e *SessionExpiredError) Error() string {
	return fmt.Sprintf("session expired: %v", e.Cause)
}

func (e *SessionExpiredError) Unwrap() error { return e.Cause }

func (e *SessionExpiredError) Is(target error) bool { return target == ErrSessionExpired }

// RecoveredError is returned when a request got a 401, the refresh succeeded,
// but the retried request failed with its own HTTP error. No further retry is
// attempted.
type RecoveredError struct {
	Err *HTTPError
}

func (e *RecoveredError) Error() string {
	return fmt.Sprintf("retry after refresh failed: %v", e.Err)
}

func (e *RecoveredError) Unwrap() error { return e.Err }

// StatusCode is the status of the retried request.
func (e *RecoveredError) StatusCode() int { return e.Err.StatusCode }

// ============================================================================
// Two-Factor Challenge
// ============================================================================

// TwoFactorRequiredError is returned by Login when the account has two-factor
// authentication enabled. Complete the login with VerifyTwoFactor.
type TwoFactorRequiredError struct {
	ChallengeToken string   `json:"challengeToken"`
	Methods        []string `json:"methods"`
}

func (e *TwoFactorRequiredError) Error() string {
	return fmt.Sprintf("two-factor authentication required: methods=%v", e.Methods)
}

// WriteError writes the challenge as a 409 Conflict.
func (e *TwoFactorRequiredError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusConflict, map[string]any{
		"error":          ErrorCodeTwoFactorRequired,
		"message":        "a verification code is required to complete the login",
		"challengeToken": e.ChallengeToken,
		"methods":        e.Methods,
	})
}

// ============================================================================
// Error Parsing Helpers
// ============================================================================

// StatusCode extracts the HTTP status from any SDK error, or 0 when the error
// carries none (transport failures, decode failures).
func StatusCode(err error) int {
	var rec *RecoveredError
	if errors.As(err, &rec) {
		return rec.StatusCode()
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	if errors.Is(err, ErrSessionExpired) {
		return http.StatusUnauthorized
	}
	return 0
}

// parseErrorResponse turns an error response into a typed error. It returns
// nil for 2xx statuses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	if resp.StatusCode == http.StatusConflict {
		var challenge struct {
			Error          string   `json:"error"`
			ChallengeToken string   `json:"challengeToken"`
			Methods        []string `json:"methods"`
		}
		if err := json.Unmarshal(body, &challenge); err == nil &&
			challenge.Error == ErrorCodeTwoFactorRequired && challenge.ChallengeToken != "" {
			return &TwoFactorRequiredError{
				ChallengeToken: challenge.ChallengeToken,
				Methods:        challenge.Methods,
			}
		}
	}

	var errResp HTTPError
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Code != "" {
		errResp.StatusCode = resp.StatusCode
		return &errResp
	}

	return &HTTPError{
		StatusCode: resp.StatusCode,
		Code:       codeForStatus(resp.StatusCode),
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrorCodeBadRequest
	case http.StatusUnauthorized:
		return ErrorCodeUnauthorized
	case http.StatusForbidden:
		return ErrorCodeForbidden
	case http.StatusNotFound:
		return ErrorCodeNotFound
	case http.StatusConflict:
		return ErrorCodeConflict
	case http.StatusUnprocessableEntity:
		return ErrorCodeValidation
	case http.StatusTooManyRequests:
		return ErrorCodeRateLimited
	default:
		return ErrorCodeServerError
	}
}
