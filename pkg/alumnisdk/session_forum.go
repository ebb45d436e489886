package alumnisdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListTopics lists the forum topics.
func (s *Session) ListTopics(ctx context.Context) ([]Topic, error) {
	var topics []Topic
	if err := s.getJSON(ctx, "/forum/topics", &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

// GetTopic returns a topic with its posts. id may be the topic ID or its slug.
func (s *Session) GetTopic(ctx context.Context, id string) (*Topic, error) {
	var topic Topic
	if err := s.getJSON(ctx, "/forum/topics/"+url.PathEscape(id), &topic); err != nil {
		return nil, err
	}
	return &topic, nil
}

// Search finds users, posts and topics matching q.
func (s *Session) Search(ctx context.Context, q string) (*SearchResults, error) {
	var out SearchResults
	if err := s.getJSON(ctx, "/search?q="+url.QueryEscape(q), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMessages lists the messages of a chat, oldest first.
func (s *Session) ListMessages(ctx context.Context, chatID string) ([]Message, error) {
	var msgs []Message
	if err := s.getJSON(ctx, "/messages?chatId="+url.QueryEscape(chatID), &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// SendMessage posts a message to a chat.
func (s *Session) SendMessage(ctx context.Context, chatID, text string) (*Message, error) {
	var msg Message
	in := MessageInput{ChatID: chatID, Text: text}
	if err := s.sendJSON(ctx, http.MethodPost, "/messages", in, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
