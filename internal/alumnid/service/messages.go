package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/alumni/internal/alumnid/domain"
	"github.com/aussiebroadwan/alumni/internal/alumnid/store"
	"github.com/aussiebroadwan/alumni/pkg/idx"
)

// MessageHistory is how many messages of a chat are returned.
const MessageHistory = 100

// MessageService backs the chat window. Chats are free-form IDs chosen by
// the client; any signed-in user may read and post to any chat.
type MessageService struct {
	Store store.Store
	Now   func() time.Time
}

func (s *MessageService) List(ctx context.Context, chatID string) ([]domain.Message, error) {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return nil, invalid("chatId", "required")
	}
	return s.Store.Messages().ListMessages(ctx, chatID, MessageHistory)
}

func (s *MessageService) Send(ctx context.Context, authorID, chatID, text string) (domain.Message, error) {
	chatID = strings.TrimSpace(chatID)
	text = strings.TrimSpace(text)
	switch {
	case chatID == "":
		return domain.Message{}, invalid("chatId", "required")
	case text == "":
		return domain.Message{}, invalid("text", "required")
	}

	author, err := s.Store.Users().GetUserByID(ctx, authorID)
	if err != nil {
		return domain.Message{}, notFound(err)
	}

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}
	m := domain.Message{
		ID:        idx.NewAt(idx.Message, now),
		ChatID:    chatID,
		AuthorID:  authorID,
		Text:      text,
		Author:    domain.Author{ID: author.ID, Name: author.FullName, AvatarURL: author.AvatarURL},
		CreatedAt: now,
	}
	if err := s.Store.Messages().CreateMessage(ctx, m); err != nil {
		return domain.Message{}, fmt.Errorf("create message: %w", err)
	}
	return m, nil
}
