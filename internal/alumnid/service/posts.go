package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/alumni/internal/alumnid/domain"
	"github.com/aussiebroadwan/alumni/internal/alumnid/store"
	"github.com/aussiebroadwan/alumni/pkg/idx"
	"github.com/aussiebroadwan/alumni/pkg/slogx"
	"github.com/microcosm-cc/bluemonday"
)

// PostService manages announcements and their comments.
type PostService struct {
	Store store.Store
	Now   func() time.Time

	// Policy sanitises post content; NewPostService installs the UGC policy.
	Policy *bluemonday.Policy
}

func NewPostService(st store.Store) *PostService {
	return &PostService{Store: st, Policy: bluemonday.UGCPolicy()}
}

func (s *PostService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *PostService) ListPosts(ctx context.Context, f domain.PostFilter) ([]domain.Post, error) {
	return s.Store.Posts().ListPosts(ctx, f)
}

// GetPost returns a post with its comments.
func (s *PostService) GetPost(ctx context.Context, id string) (domain.Post, error) {
	p, err := s.Store.Posts().GetPost(ctx, id)
	if err != nil {
		return domain.Post{}, notFound(err)
	}
	p.Comments, err = s.Store.Comments().ListComments(ctx, id)
	if err != nil {
		return domain.Post{}, fmt.Errorf("list comments: %w", err)
	}
	return p, nil
}

// CreatePost publishes draft under authorID. Only Title, Content,
// Category and TopicID of draft are read.
func (s *PostService) CreatePost(ctx context.Context, authorID string, draft domain.Post) (domain.Post, error) {
	if err := s.prepare(ctx, &draft); err != nil {
		return domain.Post{}, err
	}

	now := s.now()
	draft.ID = idx.NewAt(idx.Post, now)
	draft.AuthorID = authorID
	draft.CreatedAt = now
	draft.UpdatedAt = now
	if err := s.Store.Posts().CreatePost(ctx, draft); err != nil {
		return domain.Post{}, fmt.Errorf("create post: %w", err)
	}

	slogx.FromContext(ctx).Info("post created", slog.String("post_id", draft.ID), slog.String("category", draft.Category))
	return s.GetPost(ctx, draft.ID)
}

func (s *PostService) UpdatePost(ctx context.Context, userID, id string, draft domain.Post) (domain.Post, error) {
	cur, err := s.ownPost(ctx, userID, id)
	if err != nil {
		return domain.Post{}, err
	}
	if err := s.prepare(ctx, &draft); err != nil {
		return domain.Post{}, err
	}

	cur.Title = draft.Title
	cur.Content = draft.Content
	cur.Category = draft.Category
	cur.TopicID = draft.TopicID
	cur.UpdatedAt = s.now()
	if err := s.Store.Posts().UpdatePost(ctx, cur); err != nil {
		return domain.Post{}, notFound(err)
	}
	return s.GetPost(ctx, id)
}

// DeletePost removes a post and its comments.
func (s *PostService) DeletePost(ctx context.Context, userID, id string) error {
	if _, err := s.ownPost(ctx, userID, id); err != nil {
		return err
	}
	if err := s.Store.Posts().DeletePost(ctx, id); err != nil {
		return notFound(err)
	}
	slogx.FromContext(ctx).Info("post deleted", slog.String("post_id", id))
	return nil
}

// prepare trims and sanitises a draft and checks its topic exists.
func (s *PostService) prepare(ctx context.Context, draft *domain.Post) error {
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Category = strings.TrimSpace(draft.Category)
	draft.TopicID = strings.TrimSpace(draft.TopicID)

	draft.Content = strings.TrimSpace(s.Policy.Sanitize(draft.Content))
	if draft.Content == "" {
		return invalid("content", "nothing left after removing unsafe markup")
	}

	if draft.TopicID != "" {
		if _, err := s.Store.Topics().GetTopic(ctx, draft.TopicID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return invalid("topicId", "unknown topic")
			}
			return err
		}
	}
	return nil
}

func (s *PostService) ownPost(ctx context.Context, userID, id string) (domain.Post, error) {
	p, err := s.Store.Posts().GetPost(ctx, id)
	if err != nil {
		return domain.Post{}, notFound(err)
	}
	if p.AuthorID != userID {
		return domain.Post{}, ErrForbidden
	}
	return p, nil
}

// ============================================================================
// Comments
// ============================================================================

// ListComments returns ErrNotFound for unknown posts rather than an empty
// list.
func (s *PostService) ListComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	if _, err := s.Store.Posts().GetPost(ctx, postID); err != nil {
		return nil, notFound(err)
	}
	return s.Store.Comments().ListComments(ctx, postID)
}

// AddComment stores text as plain text; clients escape it when rendering.
func (s *PostService) AddComment(ctx context.Context, userID, postID, text string) (domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Comment{}, invalid("text", "required")
	}
	if _, err := s.Store.Posts().GetPost(ctx, postID); err != nil {
		return domain.Comment{}, notFound(err)
	}

	now := s.now()
	c := domain.Comment{
		ID:        idx.NewAt(idx.Comment, now),
		PostID:    postID,
		AuthorID:  userID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Comments().CreateComment(ctx, c); err != nil {
		return domain.Comment{}, notFound(err)
	}
	return s.comment(ctx, postID, c.ID)
}

// UpdateComment is allowed for the comment's author only.
func (s *PostService) UpdateComment(ctx context.Context, userID, postID, id, text string) (domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Comment{}, invalid("text", "required")
	}

	c, err := s.comment(ctx, postID, id)
	if err != nil {
		return domain.Comment{}, err
	}
	if c.AuthorID != userID {
		return domain.Comment{}, ErrForbidden
	}

	c.Text = text
	c.UpdatedAt = s.now()
	if err := s.Store.Comments().UpdateComment(ctx, c); err != nil {
		return domain.Comment{}, notFound(err)
	}
	return c, nil
}

// DeleteComment is allowed for the comment's author and for the author of
// the post it is on.
func (s *PostService) DeleteComment(ctx context.Context, userID, postID, id string) error {
	c, err := s.comment(ctx, postID, id)
	if err != nil {
		return err
	}
	if c.AuthorID != userID {
		p, err := s.Store.Posts().GetPost(ctx, postID)
		if err != nil {
			return notFound(err)
		}
		if p.AuthorID != userID {
			return ErrForbidden
		}
	}
	return notFound(s.Store.Comments().DeleteComment(ctx, id))
}

// comment loads a comment and checks it belongs to postID.
func (s *PostService) comment(ctx context.Context, postID, id string) (domain.Comment, error) {
	c, err := s.Store.Comments().GetComment(ctx, id)
	if err != nil {
		return domain.Comment{}, notFound(err)
	}
	if c.PostID != postID {
		return domain.Comment{}, ErrNotFound
	}
	return c, nil
}
