package alumnisdk

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// GetUser returns the public profile of a user.
func (s *Session) GetUser(ctx context.Context, userID string) (*User, error) {
	var user User
	if err := s.getJSON(ctx, "/users/"+url.PathEscape(userID), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile replaces the editable fields of the caller's profile.
func (s *Session) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*User, error) {
	var user User
	if err := s.sendJSON(ctx, http.MethodPut, "/users/me", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteProfile deletes the caller's account along with its content and
// sessions. The stored credential is removed on success.
func (s *Session) DeleteProfile(ctx context.Context) error {
	if err := s.deleteResource(ctx, "/users/me"); err != nil {
		return err
	}
	return s.store.Remove()
}

// UploadProfilePhoto uploads the avatar image.
func (s *Session) UploadProfilePhoto(ctx context.Context, filename string, r io.Reader) (*UploadResponse, error) {
	return s.upload(ctx, "/users/me/photo", "photo", filename, r)
}

// UploadBannerPhoto uploads the profile banner image.
func (s *Session) UploadBannerPhoto(ctx context.Context, filename string, r io.Reader) (*UploadResponse, error) {
	return s.upload(ctx, "/users/me/banner", "banner", filename, r)
}

// upload buffers the file into a multipart body so it can be replayed if the
// first attempt is rejected with a 401.
func (s *Session) upload(ctx context.Context, path, field, filename string, r io.Reader) (*UploadResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req := NewRequest(http.MethodPost, path)
	req.Body = buf.Bytes()
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := s.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	var out UploadResponse
	if err := decodeBody(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyPosts lists the caller's own announcements.
func (s *Session) MyPosts(ctx context.Context) ([]Post, error) {
	var posts []Post
	if err := s.getJSON(ctx, "/users/me/posts", &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// UserPosts lists the announcements written by a user.
func (s *Session) UserPosts(ctx context.Context, userID string) ([]Post, error) {
	var posts []Post
	if err := s.getJSON(ctx, "/users/"+url.PathEscape(userID)+"/posts", &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ============================================================================
// Education
// ============================================================================

// ListEducation lists the caller's education entries.
func (s *Session) ListEducation(ctx context.Context) ([]Education, error) {
	var out []Education
	if err := s.getJSON(ctx, "/users/me/education", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) CreateEducation(ctx context.Context, in EducationInput) (*Education, error) {
	var out Education
	if err := s.sendJSON(ctx, http.MethodPost, "/users/me/education", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) UpdateEducation(ctx context.Context, id string, in EducationInput) (*Education, error) {
	var out Education
	if err := s.sendJSON(ctx, http.MethodPut, "/users/me/education/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) DeleteEducation(ctx context.Context, id string) error {
	return s.deleteResource(ctx, "/users/me/education/"+url.PathEscape(id))
}

// ============================================================================
// Licenses & Certificates
// ============================================================================

// ListLicenses lists the caller's licenses and certificates.
func (s *Session) ListLicenses(ctx context.Context) ([]License, error) {
	var out []License
	if err := s.getJSON(ctx, "/users/me/licenses", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) CreateLicense(ctx context.Context, in LicenseInput) (*License, error) {
	var out License
	if err := s.sendJSON(ctx, http.MethodPost, "/users/me/licenses", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) UpdateLicense(ctx context.Context, id string, in LicenseInput) (*License, error) {
	var out License
	if err := s.sendJSON(ctx, http.MethodPut, "/users/me/licenses/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) DeleteLicense(ctx context.Context, id string) error {
	return s.deleteResource(ctx, "/users/me/licenses/"+url.PathEscape(id))
}
