package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/alumni/internal/alumnid/domain"
)

type challengesRepo struct {
	db dbtx
}

func (r *challengesRepo) CreateChallenge(ctx context.Context, c domain.Challenge) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO login_challenges (id, user_id, token_hash, attempts, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.TokenHash, c.Attempts, toMillis(c.CreatedAt), toMillis(c.ExpiresAt),
	)
	return mapWriteErr(err)
}

func (r *challengesRepo) GetChallengeByHash(ctx context.Context, hash string) (domain.Challenge, error) {
	var (
		c                    domain.Challenge
		createdAt, expiresAt int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, token_hash, attempts, created_at, expires_at
		FROM login_challenges WHERE token_hash = ?`, hash,
	).Scan(&c.ID, &c.UserID, &c.TokenHash, &c.Attempts, &createdAt, &expiresAt)
	if err != nil {
		return domain.Challenge{}, mapNotFound(err)
	}
	c.CreatedAt = fromMillis(createdAt)
	c.ExpiresAt = fromMillis(expiresAt)
	return c, nil
}

func (r *challengesRepo) IncrementAttempts(ctx context.Context, id string) (int, error) {
	var attempts int
	err := r.db.QueryRowContext(ctx,
		`UPDATE login_challenges SET attempts = attempts + 1 WHERE id = ? RETURNING attempts`, id,
	).Scan(&attempts)
	if err != nil {
		return 0, mapNotFound(err)
	}
	return attempts, nil
}

func (r *challengesRepo) DeleteChallenge(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM login_challenges WHERE id = ?`, id))
}

func (r *challengesRepo) DeleteExpiredChallenges(ctx context.Context, before time.Time) (int64, error) {
	return rowsAffected(r.db.ExecContext(ctx,
		`DELETE FROM login_challenges WHERE expires_at < ?`, toMillis(before)))
}
