package http

import (
	"net/http"

	"github.com/aussiebroadwan/alumni/internal/alumnid/domain"
	"github.com/aussiebroadwan/alumni/internal/alumnid/service"
	"github.com/aussiebroadwan/alumni/pkg/alumnisdk"
	"github.com/aussiebroadwan/alumni/pkg/httpx"
)

// PostHandler serves announcements and their comments.
type PostHandler struct {
	PostService *service.PostService
}

// HandleList handles GET /posts
//
//	@Summary		List announcements
//	@Description	Newest first. Filter with ?category=job|internship|training|event|news.
//	@Tags			Posts
//	@Security		BearerAuth
//	@Produce		json
//	@Param			category	query	string	false	"Category"
//	@Success		200			{array}	alumnisdk.Post
//	@Router			/posts [get].
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category != "" && !alumnisdk.IsCategory(category) {
		alumnisdk.NewValidationError(map[string]string{"category": "unknown category"}).WriteError(w)
		return
	}

	posts, err := h.PostService.ListPosts(r.Context(), domain.PostFilter{Category: category})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPosts(posts))
}

// HandleGet handles GET /posts/{id}
//
//	@Summary		Get an announcement with its comments
//	@Tags			Posts
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Post ID"
//	@Success		200	{object}	alumnisdk.Post
//	@Failure		404	{object}	alumnisdk.HTTPError
//	@Router			/posts/{id} [get].
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.PostService.GetPost(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPost(p))
}

// HandleCreate handles POST /posts
//
//	@Summary		Publish an announcement
//	@Description	Content is HTML and is sanitised before it is stored.
//	@Tags			Posts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		alumnisdk.PostInput	true	"Post"
//	@Success		201		{object}	alumnisdk.Post
//	@Failure		422		{object}	alumnisdk.HTTPError	"Invalid fields"
//	@Router			/posts [post].
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req alumnisdk.PostInput
	if !decodeValid(w, r, &req) {
		return
	}

	p, err := h.PostService.CreatePost(ctx, httpx.UserIDFromContext(ctx), fromPostInput(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toPost(p))
}

// HandleUpdate handles PUT /posts/{id}
//
//	@Summary		Edit an announcement
//	@Tags			Posts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Post ID"
//	@Param			request	body		alumnisdk.PostInput	true	"Post"
//	@Success		200		{object}	alumnisdk.Post
//	@Failure		403		{object}	alumnisdk.HTTPError	"Not the author"
//	@Router			/posts/{id} [put].
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req alumnisdk.PostInput
	if !decodeValid(w, r, &req) {
		return
	}

	p, err := h.PostService.UpdatePost(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id"), fromPostInput(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPost(p))
}

// HandleDelete handles DELETE /posts/{id}
//
//	@Summary		Delete an announcement
//	@Tags			Posts
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Post ID"
//	@Success		204
//	@Failure		403	{object}	alumnisdk.HTTPError	"Not the author"
//	@Router			/posts/{id} [delete].
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.PostService.DeletePost(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListComments handles GET /posts/{id}/comments
//
//	@Summary		List comments on an announcement
//	@Tags			Comments
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path	string	true	"Post ID"
//	@Success		200	{array}	alumnisdk.Comment
//	@Router			/posts/{id}/comments [get].
func (h *PostHandler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.PostService.ListComments(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toComments(comments))
}

// HandleAddComment handles POST /posts/{id}/comments
//
//	@Summary		Comment on an announcement
//	@Tags			Comments
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Post ID"
//	@Param			request	body		alumnisdk.CommentInput	true	"Comment"
//	@Success		201		{object}	alumnisdk.Comment
//	@Router			/posts/{id}/comments [post].
func (h *PostHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req alumnisdk.CommentInput
	if !decodeValid(w, r, &req) {
		return
	}

	c, err := h.PostService.AddComment(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id"), req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toComment(c))
}

// HandleUpdateComment handles PUT /posts/{id}/comments/{cid}
//
//	@Summary		Edit a comment
//	@Tags			Comments
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Post ID"
//	@Param			cid		path		string					true	"Comment ID"
//	@Param			request	body		alumnisdk.CommentInput	true	"Comment"
//	@Success		200		{object}	alumnisdk.Comment
//	@Failure		403		{object}	alumnisdk.HTTPError	"Not the author"
//	@Router			/posts/{id}/comments/{cid} [put].
func (h *PostHandler) HandleUpdateComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req alumnisdk.CommentInput
	if !decodeValid(w, r, &req) {
		return
	}

	c, err := h.PostService.UpdateComment(ctx, httpx.UserIDFromContext(ctx),
		r.PathValue("id"), r.PathValue("cid"), req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toComment(c))
}

// HandleDeleteComment handles DELETE /posts/{id}/comments/{cid}
//
//	@Summary		Delete a comment
//	@Description	Allowed for the comment's author and the post's author.
//	@Tags			Comments
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Post ID"
//	@Param			cid	path	string	true	"Comment ID"
//	@Success		204
//	@Router			/posts/{id}/comments/{cid} [delete].
func (h *PostHandler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	err := h.PostService.DeleteComment(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id"), r.PathValue("cid"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
