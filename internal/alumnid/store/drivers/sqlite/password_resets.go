package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/alumni/internal/alumnid/domain"
)

const resetColumns = `id, user_id, code_hash, attempts, reset_token_hash, verified_at, used_at, created_at, expires_at`

type passwordResetsRepo struct {
	db dbtx
}

func scanReset(row scanner) (domain.PasswordReset, error) {
	var (
		pr                   domain.PasswordReset
		tokenHash            sql.NullString
		verifiedAt, usedAt   sql.NullInt64
		createdAt, expiresAt int64
	)
	err := row.Scan(&pr.ID, &pr.UserID, &pr.CodeHash, &pr.Attempts, &tokenHash,
		&verifiedAt, &usedAt, &createdAt, &expiresAt)
	if err != nil {
		return domain.PasswordReset{}, err
	}
	pr.ResetTokenHash = mapNullStringPtr(tokenHash)
	pr.VerifiedAt = mapNullTimePtr(verifiedAt)
	pr.UsedAt = mapNullTimePtr(usedAt)
	pr.CreatedAt = fromMillis(createdAt)
	pr.ExpiresAt = fromMillis(expiresAt)
	return pr, nil
}

func (r *passwordResetsRepo) CreatePasswordReset(ctx context.Context, pr domain.PasswordReset) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO password_resets (`+resetColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pr.ID, pr.UserID, pr.CodeHash, pr.Attempts, mapOptionalString(pr.ResetTokenHash),
		mapOptionalTime(pr.VerifiedAt), mapOptionalTime(pr.UsedAt),
		toMillis(pr.CreatedAt), toMillis(pr.ExpiresAt),
	)
	return mapWriteErr(err)
}

func (r *passwordResetsRepo) GetPendingReset(ctx context.Context, userID string, now time.Time) (domain.PasswordReset, error) {
	pr, err := scanReset(r.db.QueryRowContext(ctx, `
		SELECT `+resetColumns+` FROM password_resets
		WHERE user_id = ? AND verified_at IS NULL AND expires_at > ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
		userID, toMillis(now),
	))
	if err != nil {
		return domain.PasswordReset{}, mapNotFound(err)
	}
	return pr, nil
}

func (r *passwordResetsRepo) GetResetByToken(ctx context.Context, tokenHash string) (domain.PasswordReset, error) {
	pr, err := scanReset(r.db.QueryRowContext(ctx,
		`SELECT `+resetColumns+` FROM password_resets WHERE reset_token_hash = ?`, tokenHash))
	if err != nil {
		return domain.PasswordReset{}, mapNotFound(err)
	}
	return pr, nil
}

func (r *passwordResetsRepo) IncrementResetAttempts(ctx context.Context, id string) (int, error) {
	var attempts int
	err := r.db.QueryRowContext(ctx,
		`UPDATE password_resets SET attempts = attempts + 1 WHERE id = ? RETURNING attempts`, id,
	).Scan(&attempts)
	if err != nil {
		return 0, mapNotFound(err)
	}
	return attempts, nil
}

func (r *passwordResetsRepo) MarkResetVerified(ctx context.Context, id, tokenHash string, at, expiresAt time.Time) error {
	return expectOne(r.db.ExecContext(ctx, `
		UPDATE password_resets SET reset_token_hash = ?, verified_at = ?, expires_at = ?
		WHERE id = ? AND verified_at IS NULL`,
		tokenHash, toMillis(at), toMillis(expiresAt), id,
	))
}

func (r *passwordResetsRepo) MarkResetUsed(ctx context.Context, id string, at time.Time) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE password_resets SET used_at = ? WHERE id = ? AND used_at IS NULL`, toMillis(at), id))
}

func (r *passwordResetsRepo) DeleteUserResets(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM password_resets WHERE user_id = ?`, userID)
	return err
}

func (r *passwordResetsRepo) DeleteExpiredResets(ctx context.Context, before time.Time) (int64, error) {
	cutoff := toMillis(before)
	return rowsAffected(r.db.ExecContext(ctx,
		`DELETE FROM password_resets WHERE expires_at < ? OR used_at < ?`, cutoff, cutoff))
}
