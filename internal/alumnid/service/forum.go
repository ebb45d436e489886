package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/alumni/internal/alumnid/domain"
	"github.com/aussiebroadwan/alumni/internal/alumnid/store"
	"github.com/aussiebroadwan/alumni/pkg/idx"
	"github.com/gosimple/slug"
)

// maxSlugSuffix bounds the search for a free slug.
const maxSlugSuffix = 100

type ForumService struct {
	Store store.Store
	Now   func() time.Time
}

func (s *ForumService) ListTopics(ctx context.Context) ([]domain.Topic, error) {
	return s.Store.Topics().ListTopics(ctx)
}

// GetTopic accepts either a topic ID or its slug and returns the topic
// with its posts.
func (s *ForumService) GetTopic(ctx context.Context, ref string) (domain.Topic, error) {
	var (
		t   domain.Topic
		err error
	)
	if idx.KindOf(ref) == idx.Topic {
		t, err = s.Store.Topics().GetTopic(ctx, ref)
	} else {
		t, err = s.Store.Topics().GetTopicBySlug(ctx, ref)
	}
	if err != nil {
		return domain.Topic{}, notFound(err)
	}

	t.Posts, err = s.Store.Posts().ListPosts(ctx, domain.PostFilter{TopicID: t.ID})
	if err != nil {
		return domain.Topic{}, fmt.Errorf("list topic posts: %w", err)
	}
	return t, nil
}

// CreateTopic derives a slug from the title, suffixing "-2", "-3", ...
// while it is taken.
func (s *ForumService) CreateTopic(ctx context.Context, title, description string) (domain.Topic, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Topic{}, invalid("title", "required")
	}

	base := slug.Make(title)
	if base == "" {
		base = "topic"
	}

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}
	t := domain.Topic{
		ID:          idx.NewAt(idx.Topic, now),
		Title:       title,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
	}

	for n := 1; n <= maxSlugSuffix; n++ {
		t.Slug = base
		if n > 1 {
			t.Slug = base + "-" + strconv.Itoa(n)
		}
		err := s.Store.Topics().CreateTopic(ctx, t)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, store.ErrAlreadyExists) {
			return domain.Topic{}, fmt.Errorf("create topic: %w", err)
		}
	}
	return domain.Topic{}, fmt.Errorf("create topic: no free slug for %q", base)
}
