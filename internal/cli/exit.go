package cli

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/aussiebroadwan/alumni/pkg/alumnisdk"
)

// Exit codes for different error scenarios
const (
	ExitSuccess          = 0 // Success
	ExitGeneralError     = 1 // General error (server 500, unknown error)
	ExitInvalidArguments = 2 // Invalid arguments/usage
	ExitNotFound         = 3 // Resource not found (404)
	ExitConflict         = 4 // Conflict (409), e.g. email already registered
	ExitAuthError        = 5 // Not logged in, bad credentials or expired session
	ExitPermissionDenied = 6 // Permission denied (403)
	ExitValidation       = 7 // Rejected input (400, 422)
	ExitNetworkError     = 8 // No response from the server
	ExitRateLimited      = 9 // Too many requests (429)
)

// usageError marks errors caused by how the command was invoked.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usage *usageError
	if errors.As(err, &usage) {
		return ExitInvalidArguments
	}
	var transport *alumnisdk.TransportError
	if errors.As(err, &transport) {
		return ExitNetworkError
	}
	if errors.Is(err, alumnisdk.ErrSessionExpired) {
		return ExitAuthError
	}

	return MapHTTPStatusToExitCode(alumnisdk.StatusCode(err))
}

// MapHTTPStatusToExitCode maps HTTP status codes to exit codes
func MapHTTPStatusToExitCode(statusCode int) int {
	switch statusCode {
	case http.StatusUnauthorized:
		return ExitAuthError
	case http.StatusForbidden:
		return ExitPermissionDenied
	case http.StatusNotFound:
		return ExitNotFound
	case http.StatusConflict:
		return ExitConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity,
		http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return ExitValidation
	case http.StatusTooManyRequests:
		return ExitRateLimited
	default:
		return ExitGeneralError
	}
}

// describe renders err for the terminal, listing field errors one per line.
func describe(err error) string {
	var httpErr *alumnisdk.HTTPError
	if !errors.As(err, &httpErr) || len(httpErr.Fields) == 0 {
		return err.Error()
	}

	fields := make([]string, 0, len(httpErr.Fields))
	for f := range httpErr.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString(httpErr.Message)
	for _, f := range fields {
		fmt.Fprintf(&b, "\n  %s: %s", f, httpErr.Fields[f])
	}
	return b.String()
}
