package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/alumni/internal/alumnid/domain"
	"github.com/aussiebroadwan/alumni/internal/alumnid/metrics"
	"github.com/aussiebroadwan/alumni/internal/alumnid/store"
	"github.com/aussiebroadwan/alumni/pkg/idx"
	"github.com/aussiebroadwan/alumni/pkg/slogx"
)

// ProfileService manages the profile page: personal details, images,
// education and licenses.
type ProfileService struct {
	Store store.Store
	Media *MediaStore
	Now   func() time.Time
}

func (s *ProfileService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *ProfileService) GetUser(ctx context.Context, id string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, notFound(err)
	}
	return u, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, p domain.ProfileUpdate) (domain.User, error) {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Headline = strings.TrimSpace(p.Headline)
	p.Location = strings.TrimSpace(p.Location)
	p.About = strings.TrimSpace(p.About)
	if p.FullName == "" {
		return domain.User{}, invalid("fullname", "required")
	}

	if err := s.Store.Users().UpdateProfile(ctx, userID, p); err != nil {
		return domain.User{}, notFound(err)
	}
	return s.GetUser(ctx, userID)
}

// DeleteAccount removes the user and everything they own. Their sessions
// go with them.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID string) error {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Sessions().RevokeUserSessions(ctx, userID, s.now()); err != nil {
			return err
		}
		return tx.Users().DeleteUser(ctx, userID)
	})
	if err != nil {
		return notFound(err)
	}

	l := slogx.FromContext(ctx)
	for _, url := range []string{u.AvatarURL, u.BannerURL} {
		if url == "" || s.Media == nil {
			continue
		}
		if err := s.Media.Remove(url); err != nil {
			l.Warn("media cleanup failed", slog.String("url", url), slog.Any("error", err))
		}
	}

	l.Info("account deleted", slog.String("user_id", userID))
	metrics.SessionsRevoked.WithLabelValues("account_deleted").Inc()
	return nil
}

// UploadAvatar stores a profile photo and returns its URL.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID string, r io.Reader) (string, error) {
	return s.upload(ctx, userID, "avatar", r, s.Store.Users().UpdateAvatar)
}

// UploadBanner stores a profile banner and returns its URL.
func (s *ProfileService) UploadBanner(ctx context.Context, userID string, r io.Reader) (string, error) {
	return s.upload(ctx, userID, "banner", r, s.Store.Users().UpdateBanner)
}

func (s *ProfileService) upload(
	ctx context.Context,
	userID, kind string,
	r io.Reader,
	set func(ctx context.Context, userID, url string) error,
) (string, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}

	url, err := s.Media.Save(ctx, kind+"-"+userID, r)
	if err != nil {
		return "", err
	}
	if err := set(ctx, userID, url); err != nil {
		_ = s.Media.Remove(url)
		return "", notFound(err)
	}

	old := u.AvatarURL
	if kind == "banner" {
		old = u.BannerURL
	}
	if old != "" {
		_ = s.Media.Remove(old)
	}
	return url, nil
}

// ============================================================================
// Education
// ============================================================================

func (s *ProfileService) ListEducation(ctx context.Context, userID string) ([]domain.Education, error) {
	return s.Store.Education().ListEducation(ctx, userID)
}

func (s *ProfileService) AddEducation(ctx context.Context, userID string, e domain.Education) (domain.Education, error) {
	now := s.now()
	e.ID = idx.NewAt(idx.Education, now)
	e.UserID = userID
	e.CreatedAt = now
	if err := s.Store.Education().CreateEducation(ctx, e); err != nil {
		return domain.Education{}, fmt.Errorf("create education: %w", err)
	}
	return e, nil
}

func (s *ProfileService) UpdateEducation(ctx context.Context, userID, id string, e domain.Education) (domain.Education, error) {
	cur, err := s.ownEducation(ctx, userID, id)
	if err != nil {
		return domain.Education{}, err
	}
	cur.Institution = e.Institution
	cur.Degree = e.Degree
	cur.StartDate = e.StartDate
	cur.EndDate = e.EndDate
	if err := s.Store.Education().UpdateEducation(ctx, cur); err != nil {
		return domain.Education{}, notFound(err)
	}
	return cur, nil
}

func (s *ProfileService) DeleteEducation(ctx context.Context, userID, id string) error {
	if _, err := s.ownEducation(ctx, userID, id); err != nil {
		return err
	}
	return notFound(s.Store.Education().DeleteEducation(ctx, id))
}

func (s *ProfileService) ownEducation(ctx context.Context, userID, id string) (domain.Education, error) {
	e, err := s.Store.Education().GetEducation(ctx, id)
	if err != nil {
		return domain.Education{}, notFound(err)
	}
	if e.UserID != userID {
		return domain.Education{}, ErrForbidden
	}
	return e, nil
}

// ============================================================================
// Licenses
// ============================================================================

func (s *ProfileService) ListLicenses(ctx context.Context, userID string) ([]domain.License, error) {
	return s.Store.Licenses().ListLicenses(ctx, userID)
}

func (s *ProfileService) AddLicense(ctx context.Context, userID string, l domain.License) (domain.License, error) {
	now := s.now()
	l.ID = idx.NewAt(idx.License, now)
	l.UserID = userID
	l.CreatedAt = now
	if err := s.Store.Licenses().CreateLicense(ctx, l); err != nil {
		return domain.License{}, fmt.Errorf("create license: %w", err)
	}
	return l, nil
}

func (s *ProfileService) UpdateLicense(ctx context.Context, userID, id string, l domain.License) (domain.License, error) {
	cur, err := s.ownLicense(ctx, userID, id)
	if err != nil {
		return domain.License{}, err
	}
	cur.Name = l.Name
	cur.Organization = l.Organization
	cur.IssueDate = l.IssueDate
	cur.CredentialURL = l.CredentialURL
	if err := s.Store.Licenses().UpdateLicense(ctx, cur); err != nil {
		return domain.License{}, notFound(err)
	}
	return cur, nil
}

func (s *ProfileService) DeleteLicense(ctx context.Context, userID, id string) error {
	if _, err := s.ownLicense(ctx, userID, id); err != nil {
		return err
	}
	return notFound(s.Store.Licenses().DeleteLicense(ctx, id))
}

func (s *ProfileService) ownLicense(ctx context.Context, userID, id string) (domain.License, error) {
	l, err := s.Store.Licenses().GetLicense(ctx, id)
	if err != nil {
		return domain.License{}, notFound(err)
	}
	if l.UserID != userID {
		return domain.License{}, ErrForbidden
	}
	return l, nil
}

// notFound maps the storage sentinel to the service one and passes other
// errors through.
func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
