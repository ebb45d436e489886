package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/aussiebroadwan/alumni/internal/alumnid/domain"
	"github.com/aussiebroadwan/alumni/internal/alumnid/service"
	"github.com/aussiebroadwan/alumni/pkg/alumnisdk"
	"github.com/aussiebroadwan/alumni/pkg/httpx"
)

// UserHandler serves profiles, uploads, education and licenses.
type UserHandler struct {
	ProfileService *service.ProfileService
	PostService    *service.PostService
	Cookies        *SessionCookies
}

// HandleGetUser handles GET /users/{id}
//
//	@Summary		Get a profile
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"User ID"
//	@Success		200	{object}	alumnisdk.User
//	@Failure		404	{object}	alumnisdk.HTTPError
//	@Router			/users/{id} [get].
func (h *UserHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := r.PathValue("id")
	u, err := h.ProfileService.GetUser(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if u.ID == httpx.UserIDFromContext(ctx) {
		httpx.WriteJSON(w, http.StatusOK, selfUser(u))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, publicUser(u))
}

// HandleUpdateProfile handles PUT /users/me
//
//	@Summary		Update the caller's profile
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		alumnisdk.UpdateProfileRequest	true	"Profile fields"
//	@Success		200		{object}	alumnisdk.User
//	@Failure		422		{object}	alumnisdk.HTTPError	"Invalid fields"
//	@Router			/users/me [put].
func (h *UserHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req alumnisdk.UpdateProfileRequest
	if !decodeValid(w, r, &req) {
		return
	}

	u, err := h.ProfileService.UpdateProfile(ctx, httpx.UserIDFromContext(ctx), domain.ProfileUpdate{
		FullName: req.FullName,
		Headline: req.Headline,
		Location: req.Location,
		About:    req.About,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, selfUser(u))
}

// HandleDeleteAccount handles DELETE /users/me
//
//	@Summary		Delete the caller's account
//	@Description	Removes the account with its posts, comments and uploads, and ends every session.
//	@Tags			Users
//	@Security		BearerAuth
//	@Success		204
//	@Router			/users/me [delete].
func (h *UserHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.ProfileService.DeleteAccount(ctx, httpx.UserIDFromContext(ctx)); err != nil {
		writeError(w, r, err)
		return
	}

	_ = h.Cookies.Clear(w, r)
	w.WriteHeader(http.StatusNoContent)
}

// HandleUploadPhoto handles POST /users/me/photo
//
//	@Summary		Upload a profile photo
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			photo	formData	file	true	"Image"
//	@Success		200		{object}	alumnisdk.UploadResponse
//	@Failure		413		{object}	alumnisdk.HTTPError	"Too large"
//	@Failure		415		{object}	alumnisdk.HTTPError	"Not an image"
//	@Router			/users/me/photo [post].
func (h *UserHandler) HandleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, "photo", h.ProfileService.UploadAvatar)
}

// HandleUploadBanner handles POST /users/me/banner
//
//	@Summary		Upload a profile banner
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			banner	formData	file	true	"Image"
//	@Success		200		{object}	alumnisdk.UploadResponse
//	@Failure		413		{object}	alumnisdk.HTTPError	"Too large"
//	@Failure		415		{object}	alumnisdk.HTTPError	"Not an image"
//	@Router			/users/me/banner [post].
func (h *UserHandler) HandleUploadBanner(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, "banner", h.ProfileService.UploadBanner)
}

func (h *UserHandler) upload(
	w http.ResponseWriter,
	r *http.Request,
	field string,
	save func(ctx context.Context, userID string, r io.Reader) (string, error),
) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(service.MaxMediaBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			alumnisdk.ErrPayloadTooLarge.WriteError(w)
			return
		}
		alumnisdk.ErrBadRequest.WithMessage("expected a multipart form").WriteError(w)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile(field)
	if err != nil {
		alumnisdk.NewValidationError(map[string]string{field: "required"}).WriteError(w)
		return
	}
	defer file.Close()

	url, err := save(ctx, httpx.UserIDFromContext(ctx), file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, alumnisdk.UploadResponse{URL: url})
}

// HandleMyPosts handles GET /users/me/posts
//
//	@Summary		Posts by the caller
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}	alumnisdk.Post
//	@Router			/users/me/posts [get].
func (h *UserHandler) HandleMyPosts(w http.ResponseWriter, r *http.Request) {
	h.writePostsBy(w, r, httpx.UserIDFromContext(r.Context()))
}

// HandleUserPosts handles GET /users/{id}/posts
//
//	@Summary		Posts by a user
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path	string	true	"User ID"
//	@Success		200	{array}	alumnisdk.Post
//	@Router			/users/{id}/posts [get].
func (h *UserHandler) HandleUserPosts(w http.ResponseWriter, r *http.Request) {
	h.writePostsBy(w, r, r.PathValue("id"))
}

func (h *UserHandler) writePostsBy(w http.ResponseWriter, r *http.Request, userID string) {
	posts, err := h.PostService.ListPosts(r.Context(), domain.PostFilter{AuthorID: userID})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPosts(posts))
}

// ============================================================================
// Education
// ============================================================================

// HandleListEducation handles GET /users/me/education
//
//	@Summary		List the caller's education
//	@Tags			Profile
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}	alumnisdk.Education
//	@Router			/users/me/education [get].
func (h *UserHandler) HandleListEducation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	list, err := h.ProfileService.ListEducation(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]alumnisdk.Education, 0, len(list))
	for _, e := range list {
		out = append(out, toEducation(e))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleAddEducation handles POST /users/me/education
//
//	@Summary		Add education
//	@Tags			Profile
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		alumnisdk.EducationInput	true	"Education"
//	@Success		201		{object}	alumnisdk.Education
//	@Failure		422		{object}	alumnisdk.HTTPError	"Invalid fields"
//	@Router			/users/me/education [post].
func (h *UserHandler) HandleAddEducation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req alumnisdk.EducationInput
	if !decodeValid(w, r, &req) {
		return
	}

	e, err := h.ProfileService.AddEducation(ctx, httpx.UserIDFromContext(ctx), fromEducationInput(req))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toEducation(e))
}

// HandleUpdateEducation handles PUT /users/me/education/{id}
//
//	@Summary		Update education
//	@Tags			Profile
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Education ID"
//	@Param			request	body		alumnisdk.EducationInput	true	"Education"
//	@Success		200		{object}	alumnisdk.Education
//	@Failure		403		{object}	alumnisdk.HTTPError	"Not yours"
//	@Router			/users/me/education/{id} [put].
func (h *UserHandler) HandleUpdateEducation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req alumnisdk.EducationInput
	if !decodeValid(w, r, &req) {
		return
	}

	e, err := h.ProfileService.UpdateEducation(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id"), fromEducationInput(req))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toEducation(e))
}

// HandleDeleteEducation handles DELETE /users/me/education/{id}
//
//	@Summary		Delete education
//	@Tags			Profile
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Education ID"
//	@Success		204
//	@Router			/users/me/education/{id} [delete].
func (h *UserHandler) HandleDeleteEducation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.ProfileService.DeleteEducation(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ============================================================================
// Licenses
// ============================================================================

// HandleListLicenses handles GET /users/me/licenses
//
//	@Summary		List the caller's licenses and certificates
//	@Tags			Profile
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}	alumnisdk.License
//	@Router			/users/me/licenses [get].
func (h *UserHandler) HandleListLicenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	list, err := h.ProfileService.ListLicenses(ctx, httpx.UserIDFromContext(ctx))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]alumnisdk.License, 0, len(list))
	for _, l := range list {
		out = append(out, toLicense(l))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleAddLicense handles POST /users/me/licenses
//
//	@Summary		Add a license
//	@Tags			Profile
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		alumnisdk.LicenseInput	true	"License"
//	@Success		201		{object}	alumnisdk.License
//	@Failure		422		{object}	alumnisdk.HTTPError	"Invalid fields"
//	@Router			/users/me/licenses [post].
func (h *UserHandler) HandleAddLicense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req alumnisdk.LicenseInput
	if !decodeValid(w, r, &req) {
		return
	}

	l, err := h.ProfileService.AddLicense(ctx, httpx.UserIDFromContext(ctx), fromLicenseInput(req))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toLicense(l))
}

// HandleUpdateLicense handles PUT /users/me/licenses/{id}
//
//	@Summary		Update a license
//	@Tags			Profile
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"License ID"
//	@Param			request	body		alumnisdk.LicenseInput	true	"License"
//	@Success		200		{object}	alumnisdk.License
//	@Failure		403		{object}	alumnisdk.HTTPError	"Not yours"
//	@Router			/users/me/licenses/{id} [put].
func (h *UserHandler) HandleUpdateLicense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req alumnisdk.LicenseInput
	if !decodeValid(w, r, &req) {
		return
	}

	l, err := h.ProfileService.UpdateLicense(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id"), fromLicenseInput(req))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toLicense(l))
}

// HandleDeleteLicense handles DELETE /users/me/licenses/{id}
//
//	@Summary		Delete a license
//	@Tags			Profile
//	@Security		BearerAuth
//	@Param			id	path	string	true	"License ID"
//	@Success		204
//	@Router			/users/me/licenses/{id} [delete].
func (h *UserHandler) HandleDeleteLicense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.ProfileService.DeleteLicense(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
