package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/alumni/internal/alumnid/service"
	"github.com/aussiebroadwan/alumni/pkg/alumnisdk"
	"github.com/aussiebroadwan/alumni/pkg/httpx"
	"github.com/aussiebroadwan/alumni/pkg/slogx"
)

var errUnsupportedMedia = &alumnisdk.HTTPError{
	StatusCode: http.StatusUnsupportedMediaType,
	Code:       "unsupported_media_type",
	Message:    "only PNG, JPEG, GIF and WebP images are accepted",
}

// writeError maps a service error onto the wire. Anything unrecognised is
// logged and answered with a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr      *service.ValidationError
		challenge *service.TwoFactorRequiredError
	)

	switch {
	case errors.As(err, &verr):
		alumnisdk.NewValidationError(verr.Fields).WriteError(w)
	case errors.As(err, &challenge):
		challenge.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		alumnisdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrInvalidSession):
		alumnisdk.ErrInvalidSession.WriteError(w)
	case errors.Is(err, service.ErrChallengeExpired), errors.Is(err, service.ErrInvalidCode):
		alumnisdk.ErrInvalidCode.WriteError(w)
	case errors.Is(err, service.ErrTooManyAttempts):
		alumnisdk.ErrTooManyAttempts.WriteError(w)
	case errors.Is(err, service.ErrEmailTaken):
		alumnisdk.ErrConflict.WithMessage("an account with this email already exists").WriteError(w)
	case errors.Is(err, service.ErrTwoFactorEnabled):
		alumnisdk.ErrConflict.WithMessage("two-factor authentication is already enabled").WriteError(w)
	case errors.Is(err, service.ErrTwoFactorNotEnrolled):
		alumnisdk.ErrBadRequest.WithMessage("start two-factor enrolment first").WriteError(w)
	case errors.Is(err, service.ErrNotFound):
		alumnisdk.ErrNotFound.WriteError(w)
	case errors.Is(err, service.ErrForbidden):
		alumnisdk.ErrForbidden.WriteError(w)
	case errors.Is(err, service.ErrUnsupportedMedia):
		errUnsupportedMedia.WriteError(w)
	case errors.Is(err, service.ErrMediaTooLarge), errors.Is(err, httpx.ErrBodyTooLarge):
		alumnisdk.ErrPayloadTooLarge.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
		alumnisdk.ErrServerError.WriteError(w)
	}
}

type validator interface {
	Validate() map[string]string
}

// decodeValid decodes the JSON body into v and runs its field validation.
// It writes the error response and returns false when either step fails.
func decodeValid(w http.ResponseWriter, r *http.Request, v validator) bool {
	if err := httpx.DecodeJSON(r, v); err != nil {
		if errors.Is(err, httpx.ErrBodyTooLarge) {
			alumnisdk.ErrPayloadTooLarge.WithMessage("request body too large").WriteError(w)
			return false
		}
		slogx.FromContext(r.Context()).Debug("invalid request body", slog.Any("error", err))
		alumnisdk.ErrBadRequest.WithMessage("invalid JSON body").WriteError(w)
		return false
	}

	if fields := v.Validate(); fields != nil {
		alumnisdk.NewValidationError(fields).WriteError(w)
		return false
	}
	return true
}
