package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aussiebroadwan/alumni/pkg/alumnisdk"
)

var (
	ErrInvalidCredentials   = errors.New("invalid_credentials")
	ErrInvalidSession       = errors.New("invalid_session")
	ErrChallengeExpired     = errors.New("challenge_expired")
	ErrInvalidCode          = errors.New("invalid_code")
	ErrTooManyAttempts      = errors.New("too_many_attempts")
	ErrEmailTaken           = errors.New("email_taken")
	ErrNotFound             = errors.New("not_found")
	ErrForbidden            = errors.New("forbidden")
	ErrTwoFactorEnabled     = errors.New("two_factor_already_enabled")
	ErrTwoFactorNotEnrolled = errors.New("two_factor_not_enrolled")
	ErrUnsupportedMedia     = errors.New("unsupported_media_type")
	ErrMediaTooLarge        = errors.New("media_too_large")
)

// TwoFactorRequiredError is the SDK's challenge error; Login returns it for
// accounts with two-factor enabled.
type TwoFactorRequiredError = alumnisdk.TwoFactorRequiredError

// ValidationError carries per-field messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, ", "))
}

func invalid(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
