package sqlite

import (
	"context"

	"github.com/aussiebroadwan/alumni/internal/alumnid/domain"
)

type messagesRepo struct {
	db dbtx
}

func (r *messagesRepo) ListMessages(ctx context.Context, chatID string, limit int) ([]domain.Message, error) {
	// Newest limit rows, re-sorted oldest first for display.
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, chat_id, author_id, text, created_at, fullname, avatar_url FROM (
			SELECT m.id, m.chat_id, m.author_id, m.text, m.created_at, u.fullname, u.avatar_url
			FROM messages m
			JOIN users u ON u.id = m.author_id
			WHERE m.chat_id = ?
			ORDER BY m.created_at DESC, m.id DESC
			LIMIT ?
		)
		ORDER BY created_at, id`,
		chatID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Message{}
	for rows.Next() {
		var (
			m         domain.Message
			createdAt int64
		)
		if err := rows.Scan(&m.ID, &m.ChatID, &m.AuthorID, &m.Text, &createdAt,
			&m.Author.Name, &m.Author.AvatarURL); err != nil {
			return nil, err
		}
		m.Author.ID = m.AuthorID
		m.CreatedAt = fromMillis(createdAt)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *messagesRepo) CreateMessage(ctx context.Context, m domain.Message) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (id, chat_id, author_id, text, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.ChatID, m.AuthorID, m.Text, toMillis(m.CreatedAt),
	)
	return mapWriteErr(err)
}
