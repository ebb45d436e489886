package alumnisdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListPosts lists announcements, newest first. An empty category lists all.
func (s *Session) ListPosts(ctx context.Context, category string) ([]Post, error) {
	path := "/posts"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}

	var posts []Post
	if err := s.getJSON(ctx, path, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost returns a single announcement with its comments.
func (s *Session) GetPost(ctx context.Context, postID string) (*Post, error) {
	var post Post
	if err := s.getJSON(ctx, "/posts/"+url.PathEscape(postID), &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Session) CreatePost(ctx context.Context, in PostInput) (*Post, error) {
	var post Post
	if err := s.sendJSON(ctx, http.MethodPost, "/posts", in, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Session) UpdatePost(ctx context.Context, postID string, in PostInput) (*Post, error) {
	var post Post
	if err := s.sendJSON(ctx, http.MethodPut, "/posts/"+url.PathEscape(postID), in, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Session) DeletePost(ctx context.Context, postID string) error {
	return s.deleteResource(ctx, "/posts/"+url.PathEscape(postID))
}

// ListComments lists the comments on a post, oldest first.
func (s *Session) ListComments(ctx context.Context, postID string) ([]Comment, error) {
	var comments []Comment
	if err := s.getJSON(ctx, "/posts/"+url.PathEscape(postID)+"/comments", &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *Session) CreateComment(ctx context.Context, postID string, in CommentInput) (*Comment, error) {
	var c Comment
	if err := s.sendJSON(ctx, http.MethodPost, "/posts/"+url.PathEscape(postID)+"/comments", in, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Session) UpdateComment(ctx context.Context, postID, commentID string, in CommentInput) (*Comment, error) {
	var c Comment
	path := "/posts/" + url.PathEscape(postID) + "/comments/" + url.PathEscape(commentID)
	if err := s.sendJSON(ctx, http.MethodPut, path, in, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Session) DeleteComment(ctx context.Context, postID, commentID string) error {
	return s.deleteResource(ctx, "/posts/"+url.PathEscape(postID)+"/comments/"+url.PathEscape(commentID))
}
