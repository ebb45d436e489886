package alumnisdk

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorResponse(t *testing.T) {
	t.Parallel()

	t.Run("structured body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewValidationError(map[string]string{"email": "required"}).WriteError(rec)

		err := parseErrorResponse(rec.Result(), rec.Body.Bytes())

		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		require.Equal(t, http.StatusUnprocessableEntity, httpErr.StatusCode)
		require.Equal(t, ErrorCodeValidation, httpErr.Code)
		require.Equal(t, "required", httpErr.Fields["email"])
	})

	t.Run("unstructured body falls back to status", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusBadGateway}
		err := parseErrorResponse(resp, []byte("<html>bad gateway</html>"))
		var httpErr *HTTPError
		require.ErrorAs(t, err, &httpErr)
		require.Equal(t, ErrorCodeServerError, httpErr.Code)
		require.Equal(t, http.StatusBadGateway, StatusCode(err))
	})

	t.Run("two-factor challenge", func(t *testing.T) {
		rec := httptest.NewRecorder()
		(&TwoFactorRequiredError{ChallengeToken: "c1", Methods: []string{"totp"}}).WriteError(rec)

		err := parseErrorResponse(rec.Result(), rec.Body.Bytes())

		var challenge *TwoFactorRequiredError
		require.ErrorAs(t, err, &challenge)
		require.Equal(t, "c1", challenge.ChallengeToken)
	})

	t.Run("plain conflict is not a challenge", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ErrConflict.WriteError(rec)

		err := parseErrorResponse(rec.Result(), rec.Body.Bytes())
		require.ErrorIs(t, err, ErrConflict)
	})

	t.Run("success is nil", func(t *testing.T) {
		require.NoError(t, parseErrorResponse(&http.Response{StatusCode: http.StatusNoContent}, nil))
	})
}

func TestWriteErrorUnauthorizedSetsChallenge(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	ErrUnauthorized.WriteError(rec)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
	require.JSONEq(t, `{"error":"unauthorized","message":"the access token is missing, invalid or expired"}`, rec.Body.String())
}

func TestStatusCode(t *testing.T) {
	t.Parallel()

	require.Equal(t, http.StatusNotFound, StatusCode(fmt.Errorf("wrapped: %w", ErrNotFound)))
	require.Equal(t, http.StatusForbidden, StatusCode(&RecoveredError{Err: ErrForbidden}))
	require.Equal(t, http.StatusUnauthorized, StatusCode(&SessionExpiredError{Cause: errors.New("x")}))
	require.Zero(t, StatusCode(&TransportError{Method: "GET", Path: "/", Err: errors.New("dial")}))
}
