package http

import (
	"net/http"

	"github.com/aussiebroadwan/alumni/internal/alumnid/service"
	"github.com/aussiebroadwan/alumni/pkg/alumnisdk"
	"github.com/aussiebroadwan/alumni/pkg/httpx"
)

// CommunityHandler serves the forum, search and chat endpoints.
type CommunityHandler struct {
	ForumService   *service.ForumService
	SearchService  *service.SearchService
	MessageService *service.MessageService
}

// HandleListTopics handles GET /forum/topics
//
//	@Summary		List forum topics
//	@Tags			Forum
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}	alumnisdk.Topic
//	@Router			/forum/topics [get].
func (h *CommunityHandler) HandleListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.ForumService.ListTopics(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTopics(topics))
}

// HandleGetTopic handles GET /forum/topics/{id}
//
//	@Summary		Get a forum topic with its posts
//	@Description	Accepts the topic ID or its slug.
//	@Tags			Forum
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Topic ID or slug"
//	@Success		200	{object}	alumnisdk.Topic
//	@Failure		404	{object}	alumnisdk.HTTPError
//	@Router			/forum/topics/{id} [get].
func (h *CommunityHandler) HandleGetTopic(w http.ResponseWriter, r *http.Request) {
	t, err := h.ForumService.GetTopic(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTopic(t))
}

// HandleSearch handles GET /search
//
//	@Summary		Search people, posts and topics
//	@Tags			Search
//	@Security		BearerAuth
//	@Produce		json
//	@Param			q	query		string	true	"Query, at least two characters"
//	@Success		200	{object}	alumnisdk.SearchResults
//	@Router			/search [get].
func (h *CommunityHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	res, err := h.SearchService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSearchResults(res))
}

// HandleListMessages handles GET /messages
//
//	@Summary		Chat history
//	@Tags			Messages
//	@Security		BearerAuth
//	@Produce		json
//	@Param			chatId	query	string	true	"Chat ID"
//	@Success		200		{array}	alumnisdk.Message
//	@Failure		422		{object}	alumnisdk.HTTPError	"Missing chatId"
//	@Router			/messages [get].
func (h *CommunityHandler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.MessageService.List(r.Context(), r.URL.Query().Get("chatId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toMessages(msgs))
}

// HandleSendMessage handles POST /messages
//
//	@Summary		Send a chat message
//	@Tags			Messages
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		alumnisdk.MessageInput	true	"Message"
//	@Success		201		{object}	alumnisdk.Message
//	@Router			/messages [post].
func (h *CommunityHandler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req alumnisdk.MessageInput
	if !decodeValid(w, r, &req) {
		return
	}

	m, err := h.MessageService.Send(ctx, httpx.UserIDFromContext(ctx), req.ChatID, req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toMessage(m))
}
