package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/aussiebroadwan/alumni/internal/alumnid/domain"
)

const postSelect = `
	SELECT p.id, p.author_id, p.topic_id, p.title, p.content, p.category, p.created_at, p.updated_at,
		u.fullname, u.avatar_url
	FROM posts p
	JOIN users u ON u.id = p.author_id`

type postsRepo struct {
	db dbtx
}

func scanPost(row scanner) (domain.Post, error) {
	var (
		p                    domain.Post
		topicID              sql.NullString
		createdAt, updatedAt int64
	)
	err := row.Scan(&p.ID, &p.AuthorID, &topicID, &p.Title, &p.Content, &p.Category,
		&createdAt, &updatedAt, &p.Author.Name, &p.Author.AvatarURL)
	if err != nil {
		return domain.Post{}, err
	}
	p.TopicID = topicID.String
	p.Author.ID = p.AuthorID
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return p, nil
}

func collectPosts(rows *sql.Rows) ([]domain.Post, error) {
	defer rows.Close()

	out := []domain.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *postsRepo) ListPosts(ctx context.Context, f domain.PostFilter) ([]domain.Post, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		where = append(where, "p.category = ?")
		args = append(args, f.Category)
	}
	if f.AuthorID != "" {
		where = append(where, "p.author_id = ?")
		args = append(args, f.AuthorID)
	}
	if f.TopicID != "" {
		where = append(where, "p.topic_id = ?")
		args = append(args, f.TopicID)
	}

	query := postSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.created_at DESC, p.id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

func (r *postsRepo) GetPost(ctx context.Context, id string) (domain.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, postSelect+` WHERE p.id = ?`, id))
	if err != nil {
		return domain.Post{}, mapNotFound(err)
	}
	return p, nil
}

func (r *postsRepo) CreatePost(ctx context.Context, p domain.Post) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO posts (id, author_id, topic_id, title, content, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.AuthorID, mapStringNull(p.TopicID), p.Title, p.Content, p.Category,
		toMillis(p.CreatedAt), toMillis(p.UpdatedAt),
	)
	return mapWriteErr(err)
}

func (r *postsRepo) UpdatePost(ctx context.Context, p domain.Post) error {
	return expectOne(r.db.ExecContext(ctx, `
		UPDATE posts SET topic_id = ?, title = ?, content = ?, category = ?, updated_at = ?
		WHERE id = ?`,
		mapStringNull(p.TopicID), p.Title, p.Content, p.Category, toMillis(p.UpdatedAt), p.ID,
	))
}

func (r *postsRepo) DeletePost(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id))
}

func (r *postsRepo) CountPosts(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}

func (r *postsRepo) SearchPosts(ctx context.Context, q string, limit int) ([]domain.Post, error) {
	pattern := likePattern(q)
	rows, err := r.db.QueryContext(ctx, postSelect+`
		WHERE p.title LIKE ? ESCAPE '\' OR p.content LIKE ? ESCAPE '\'
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT ?`,
		pattern, pattern, limit,
	)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}
