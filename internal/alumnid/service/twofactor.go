package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/alumni/internal/alumnid/domain"
	"github.com/aussiebroadwan/alumni/internal/alumnid/store"
	"github.com/aussiebroadwan/alumni/pkg/slogx"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// Enrollment is a freshly generated TOTP secret awaiting confirmation.
type Enrollment struct {
	Secret     string
	OTPAuthURL string
}

type TwoFactorService struct {
	Store  store.Store
	Issuer string // shown in authenticator apps, e.g. "Alumni"
	Now    func() time.Time
}

// Enroll generates a TOTP secret for the user. Two-factor stays disabled
// until Confirm sees a valid code. Enrolling again replaces a pending
// secret.
func (s *TwoFactorService) Enroll(ctx context.Context, userID string) (Enrollment, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return Enrollment{}, err
	}
	if u.TwoFactorEnabled() {
		return Enrollment{}, ErrTwoFactorEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: u.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return Enrollment{}, fmt.Errorf("generate totp key: %w", err)
	}

	if err := s.Store.Users().SetTOTPSecret(ctx, userID, key.Secret()); err != nil {
		return Enrollment{}, fmt.Errorf("store totp secret: %w", err)
	}

	return Enrollment{Secret: key.Secret(), OTPAuthURL: key.URL()}, nil
}

// Confirm enables two-factor once the user proves their authenticator
// produces valid codes.
func (s *TwoFactorService) Confirm(ctx context.Context, userID, code string) error {
	u, err := s.user(ctx, userID)
	if err != nil {
		return err
	}
	if u.TwoFactorEnabled() {
		return ErrTwoFactorEnabled
	}
	if u.TOTPSecret == nil || *u.TOTPSecret == "" {
		return ErrTwoFactorNotEnrolled
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	if !validateTOTP(code, *u.TOTPSecret, now) {
		return ErrInvalidCode
	}

	if err := s.Store.Users().EnableTwoFactor(ctx, userID, now.UTC()); err != nil {
		return fmt.Errorf("enable two-factor: %w", err)
	}

	slogx.FromContext(ctx).Info("two-factor enabled", slog.String("user_id", userID))
	return nil
}

func (s *TwoFactorService) user(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

// validateTOTP accepts codes from the current 30 second step and one step
// either side.
func validateTOTP(code, secret string, at time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, at, totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}
