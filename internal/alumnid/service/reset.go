package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/alumni/internal/alumnid/domain"
	"github.com/aussiebroadwan/alumni/internal/alumnid/metrics"
	"github.com/aussiebroadwan/alumni/internal/alumnid/store"
	"github.com/aussiebroadwan/alumni/pkg/cryptox"
	"github.com/aussiebroadwan/alumni/pkg/idx"
	"github.com/aussiebroadwan/alumni/pkg/slogx"
)

const (
	ResetCodeDigits      = 6
	MaxResetAttempts     = 5
	DefaultResetCodeTTL  = 15 * time.Minute
	DefaultResetTokenTTL = 15 * time.Minute
)

// CodeSender delivers password reset codes to the account holder.
type CodeSender interface {
	SendResetCode(ctx context.Context, email, code string) error
}

// LogCodeSender writes reset codes to the log. There is no mail delivery.
type LogCodeSender struct {
	Logger *slog.Logger
}

func (s LogCodeSender) SendResetCode(ctx context.Context, email, code string) error {
	l := s.Logger
	if l == nil {
		l = slogx.FromContext(ctx)
	}
	l.Info("password reset code issued", slog.String("email", email), slog.String("code", code))
	return nil
}

// ResetService runs the forgot-password flow: code, then reset token, then
// new password.
type ResetService struct {
	Store    store.Store
	Hasher   *cryptox.PasswordHasher
	Sender   CodeSender
	CodeTTL  time.Duration
	TokenTTL time.Duration
	Now      func() time.Time
}

func (s *ResetService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// RequestReset issues a new code and replaces any earlier reset of the
// account. Unknown emails succeed silently.
func (s *ResetService) RequestReset(ctx context.Context, email string) error {
	l := slogx.FromContext(ctx)
	email = normalizeEmail(email)

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Debug("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("get user: %w", err)
	}

	code, err := cryptox.GenerateNumericCode(ResetCodeDigits)
	if err != nil {
		return err
	}

	ttl := s.CodeTTL
	if ttl <= 0 {
		ttl = DefaultResetCodeTTL
	}
	now := s.now()
	reset := domain.PasswordReset{
		ID:        idx.NewAt(idx.Reset, now),
		UserID:    u.ID,
		CodeHash:  cryptox.FingerprintToken(code),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.PasswordResets().DeleteUserResets(ctx, u.ID); err != nil {
			return err
		}
		return tx.PasswordResets().CreatePasswordReset(ctx, reset)
	})
	if err != nil {
		return fmt.Errorf("create password reset: %w", err)
	}

	if err := s.Sender.SendResetCode(ctx, u.Email, code); err != nil {
		return fmt.Errorf("send reset code: %w", err)
	}
	metrics.AuthEvents.WithLabelValues("reset_request", metrics.ResultOK).Inc()
	return nil
}

// VerifyCode exchanges a valid code for a single-use reset token.
func (s *ResetService) VerifyCode(ctx context.Context, email, code string) (string, error) {
	now := s.now()

	u, err := s.Store.Users().GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidCode
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	reset, err := s.Store.PasswordResets().GetPendingReset(ctx, u.ID, now)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidCode
		}
		return "", fmt.Errorf("get password reset: %w", err)
	}
	if reset.Attempts >= MaxResetAttempts {
		return "", ErrTooManyAttempts
	}

	if !cryptox.EqualFingerprint(code, reset.CodeHash) {
		attempts, err := s.Store.PasswordResets().IncrementResetAttempts(ctx, reset.ID)
		if err != nil {
			return "", fmt.Errorf("increment reset attempts: %w", err)
		}
		metrics.AuthEvents.WithLabelValues("reset_verify", metrics.ResultFailed).Inc()
		if attempts >= MaxResetAttempts {
			return "", ErrTooManyAttempts
		}
		return "", ErrInvalidCode
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", err
	}
	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = DefaultResetTokenTTL
	}
	if err := s.Store.PasswordResets().MarkResetVerified(ctx, reset.ID, cryptox.FingerprintToken(token), now, now.Add(ttl)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidCode
		}
		return "", fmt.Errorf("mark reset verified: %w", err)
	}

	metrics.AuthEvents.WithLabelValues("reset_verify", metrics.ResultOK).Inc()
	return token, nil
}

// ResetPassword sets a new password and signs the account out everywhere.
func (s *ResetService) ResetPassword(ctx context.Context, resetToken, password string) error {
	now := s.now()
	if resetToken == "" {
		return ErrInvalidCode
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	var userID string
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		reset, err := tx.PasswordResets().GetResetByToken(ctx, cryptox.FingerprintToken(resetToken))
		if err != nil {
			return err
		}
		if reset.UsedAt != nil || !now.Before(reset.ExpiresAt) {
			return ErrInvalidCode
		}
		if err := tx.PasswordResets().MarkResetUsed(ctx, reset.ID, now); err != nil {
			return err
		}
		if err := tx.Users().UpdatePasswordHash(ctx, reset.UserID, hash); err != nil {
			return err
		}
		userID = reset.UserID
		return tx.Sessions().RevokeUserSessions(ctx, reset.UserID, now)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidCode
		}
		return err
	}

	slogx.FromContext(ctx).Info("password reset", slog.String("user_id", userID))
	metrics.SessionsRevoked.WithLabelValues("password_reset").Inc()
	return nil
}
