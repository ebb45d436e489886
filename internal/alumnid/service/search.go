package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aussiebroadwan/alumni/internal/alumnid/domain"
	"github.com/aussiebroadwan/alumni/internal/alumnid/store"
)

const (
	MinSearchQuery  = 2
	MaxSearchResult = 20
)

type SearchService struct {
	Store store.Store
}

// Search matches q against people, posts and topics. Queries shorter than
// MinSearchQuery runes return empty groups.
func (s *SearchService) Search(ctx context.Context, q string) (domain.SearchResults, error) {
	q = strings.TrimSpace(q)
	res := domain.SearchResults{
		Query:  q,
		Users:  []domain.User{},
		Posts:  []domain.Post{},
		Topics: []domain.Topic{},
	}
	if utf8.RuneCountInString(q) < MinSearchQuery {
		return res, nil
	}

	var err error
	if res.Users, err = s.Store.Users().SearchUsers(ctx, q, MaxSearchResult); err != nil {
		return domain.SearchResults{}, fmt.Errorf("search users: %w", err)
	}
	if res.Posts, err = s.Store.Posts().SearchPosts(ctx, q, MaxSearchResult); err != nil {
		return domain.SearchResults{}, fmt.Errorf("search posts: %w", err)
	}
	if res.Topics, err = s.Store.Topics().SearchTopics(ctx, q, MaxSearchResult); err != nil {
		return domain.SearchResults{}, fmt.Errorf("search topics: %w", err)
	}
	return res, nil
}
