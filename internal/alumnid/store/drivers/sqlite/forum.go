package sqlite

import (
	"context"

	"github.com/aussiebroadwan/alumni/internal/alumnid/domain"
)

const topicSelect = `
	SELECT t.id, t.slug, t.title, t.description, t.created_at,
		(SELECT COUNT(*) FROM posts p WHERE p.topic_id = t.id)
	FROM topics t`

type topicsRepo struct {
	db dbtx
}

func scanTopic(row scanner) (domain.Topic, error) {
	var (
		t         domain.Topic
		createdAt int64
	)
	if err := row.Scan(&t.ID, &t.Slug, &t.Title, &t.Description, &createdAt, &t.PostCount); err != nil {
		return domain.Topic{}, err
	}
	t.CreatedAt = fromMillis(createdAt)
	return t, nil
}

func (r *topicsRepo) queryTopics(ctx context.Context, query string, args ...any) ([]domain.Topic, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Topic{}
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *topicsRepo) ListTopics(ctx context.Context) ([]domain.Topic, error) {
	return r.queryTopics(ctx, topicSelect+` ORDER BY t.title, t.id`)
}

func (r *topicsRepo) GetTopic(ctx context.Context, id string) (domain.Topic, error) {
	t, err := scanTopic(r.db.QueryRowContext(ctx, topicSelect+` WHERE t.id = ?`, id))
	if err != nil {
		return domain.Topic{}, mapNotFound(err)
	}
	return t, nil
}

func (r *topicsRepo) GetTopicBySlug(ctx context.Context, slug string) (domain.Topic, error) {
	t, err := scanTopic(r.db.QueryRowContext(ctx, topicSelect+` WHERE t.slug = ?`, slug))
	if err != nil {
		return domain.Topic{}, mapNotFound(err)
	}
	return t, nil
}

func (r *topicsRepo) CreateTopic(ctx context.Context, t domain.Topic) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO topics (id, slug, title, description, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.Slug, t.Title, t.Description, toMillis(t.CreatedAt),
	)
	return mapWriteErr(err)
}

func (r *topicsRepo) SearchTopics(ctx context.Context, q string, limit int) ([]domain.Topic, error) {
	pattern := likePattern(q)
	return r.queryTopics(ctx, topicSelect+`
		WHERE t.title LIKE ? ESCAPE '\' OR t.description LIKE ? ESCAPE '\'
		ORDER BY t.title, t.id
		LIMIT ?`,
		pattern, pattern, limit,
	)
}
