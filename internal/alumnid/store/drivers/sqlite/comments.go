package sqlite

import (
	"context"

	"github.com/aussiebroadwan/alumni/internal/alumnid/domain"
)

const commentSelect = `
	SELECT c.id, c.post_id, c.author_id, c.text, c.created_at, c.updated_at, u.fullname, u.avatar_url
	FROM comments c
	JOIN users u ON u.id = c.author_id`

type commentsRepo struct {
	db dbtx
}

func scanComment(row scanner) (domain.Comment, error) {
	var (
		c                    domain.Comment
		createdAt, updatedAt int64
	)
	err := row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Text, &createdAt, &updatedAt,
		&c.Author.Name, &c.Author.AvatarURL)
	if err != nil {
		return domain.Comment{}, err
	}
	c.Author.ID = c.AuthorID
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return c, nil
}

func (r *commentsRepo) ListComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx, commentSelect+`
		WHERE c.post_id = ?
		ORDER BY c.created_at, c.id`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *commentsRepo) GetComment(ctx context.Context, id string) (domain.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx, commentSelect+` WHERE c.id = ?`, id))
	if err != nil {
		return domain.Comment{}, mapNotFound(err)
	}
	return c, nil
}

func (r *commentsRepo) CreateComment(ctx context.Context, c domain.Comment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO comments (id, post_id, author_id, text, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.PostID, c.AuthorID, c.Text, toMillis(c.CreatedAt), toMillis(c.UpdatedAt),
	)
	return mapWriteErr(err)
}

func (r *commentsRepo) UpdateComment(ctx context.Context, c domain.Comment) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE comments SET text = ?, updated_at = ? WHERE id = ?`,
		c.Text, toMillis(c.UpdatedAt), c.ID,
	))
}

func (r *commentsRepo) DeleteComment(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id))
}
