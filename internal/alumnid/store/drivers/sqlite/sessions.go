package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/alumni/internal/alumnid/domain"
)

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, amr, created_at, last_seen_at, expires_at, revoked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, strings.Join(s.AMR, " "), toMillis(s.CreatedAt), toMillis(s.LastSeenAt),
		toMillis(s.ExpiresAt), mapOptionalTime(s.RevokedAt),
	)
	return mapWriteErr(err)
}

func (r *sessionsRepo) GetSession(ctx context.Context, id string) (domain.Session, error) {
	var (
		s                                domain.Session
		amr                              string
		createdAt, lastSeenAt, expiresAt int64
		revokedAt                        sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, amr, created_at, last_seen_at, expires_at, revoked_at
		FROM sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.UserID, &amr, &createdAt, &lastSeenAt, &expiresAt, &revokedAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.AMR = splitAndFilter(amr)
	s.CreatedAt = fromMillis(createdAt)
	s.LastSeenAt = fromMillis(lastSeenAt)
	s.ExpiresAt = fromMillis(expiresAt)
	s.RevokedAt = mapNullTimePtr(revokedAt)
	return s, nil
}

func (r *sessionsRepo) TouchSession(ctx context.Context, id string, at time.Time) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE sessions SET last_seen_at = ? WHERE id = ?`, toMillis(at), id))
}

func (r *sessionsRepo) RevokeSession(ctx context.Context, id string, at time.Time) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = COALESCE(revoked_at, ?) WHERE id = ?`, toMillis(at), id))
}

func (r *sessionsRepo) RevokeUserSessions(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL`, toMillis(at), userID)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	cutoff := toMillis(before)
	return rowsAffected(r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ? OR revoked_at < ?`, cutoff, cutoff))
}

type refreshTokensRepo struct {
	db dbtx
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (id, session_id, token_hash, revoked, revoked_at, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.SessionID, t.TokenHash, t.Revoked, mapOptionalTime(t.RevokedAt),
		toMillis(t.CreatedAt), toMillis(t.ExpiresAt),
	)
	return mapWriteErr(err)
}

func (r *refreshTokensRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error) {
	var (
		t                    domain.RefreshToken
		revokedAt            sql.NullInt64
		createdAt, expiresAt int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, session_id, token_hash, revoked, revoked_at, created_at, expires_at
		FROM refresh_tokens WHERE token_hash = ?`, hash,
	).Scan(&t.ID, &t.SessionID, &t.TokenHash, &t.Revoked, &revokedAt, &createdAt, &expiresAt)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	t.RevokedAt = mapNullTimePtr(revokedAt)
	t.CreatedAt = fromMillis(createdAt)
	t.ExpiresAt = fromMillis(expiresAt)
	return t, nil
}

func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, id string, at time.Time) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = 1, revoked_at = ? WHERE id = ? AND revoked = 0`, toMillis(at), id))
}
