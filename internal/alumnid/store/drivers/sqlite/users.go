package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/alumni/internal/alumnid/domain"
)

const userColumns = `id, email, fullname, headline, location, about, avatar_url, banner_url,
	password_hash, totp_secret, two_factor_at, created_at, updated_at`

type usersRepo struct {
	db dbtx
}

func scanUser(row scanner) (domain.User, error) {
	var (
		u                    domain.User
		secret               sql.NullString
		twoFactorAt          sql.NullInt64
		createdAt, updatedAt int64
	)
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Headline, &u.Location, &u.About,
		&u.AvatarURL, &u.BannerURL, &u.PasswordHash, &secret, &twoFactorAt, &createdAt, &updatedAt)
	if err != nil {
		return domain.User{}, err
	}
	u.TOTPSecret = mapNullStringPtr(secret)
	u.TwoFactorAt = mapNullTimePtr(twoFactorAt)
	u.CreatedAt = fromMillis(createdAt)
	u.UpdatedAt = fromMillis(updatedAt)
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.FullName, u.Headline, u.Location, u.About, u.AvatarURL, u.BannerURL,
		u.PasswordHash, mapOptionalString(u.TOTPSecret), mapOptionalTime(u.TwoFactorAt),
		toMillis(u.CreatedAt), toMillis(u.UpdatedAt),
	)
	return mapWriteErr(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) UpdateProfile(ctx context.Context, userID string, p domain.ProfileUpdate) error {
	return expectOne(r.db.ExecContext(ctx, `
		UPDATE users SET fullname = ?, headline = ?, location = ?, about = ?, updated_at = ?
		WHERE id = ?`,
		p.FullName, p.Headline, p.Location, p.About, toMillis(time.Now()), userID,
	))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		hash, toMillis(time.Now()), userID,
	))
}

func (r *usersRepo) UpdateAvatar(ctx context.Context, userID, url string) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE users SET avatar_url = ?, updated_at = ? WHERE id = ?`,
		url, toMillis(time.Now()), userID,
	))
}

func (r *usersRepo) UpdateBanner(ctx context.Context, userID, url string) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE users SET banner_url = ?, updated_at = ? WHERE id = ?`,
		url, toMillis(time.Now()), userID,
	))
}

func (r *usersRepo) SetTOTPSecret(ctx context.Context, userID, secret string) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE users SET totp_secret = ?, two_factor_at = NULL, updated_at = ? WHERE id = ?`,
		mapStringNull(secret), toMillis(time.Now()), userID,
	))
}

func (r *usersRepo) EnableTwoFactor(ctx context.Context, userID string, at time.Time) error {
	return expectOne(r.db.ExecContext(ctx, `
		UPDATE users SET two_factor_at = ?, updated_at = ?
		WHERE id = ? AND totp_secret IS NOT NULL`,
		toMillis(at), toMillis(at), userID,
	))
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID))
}

func (r *usersRepo) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (r *usersRepo) SearchUsers(ctx context.Context, q string, limit int) ([]domain.User, error) {
	pattern := likePattern(q)
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE fullname LIKE ? ESCAPE '\' OR headline LIKE ? ESCAPE '\' OR location LIKE ? ESCAPE '\'
		ORDER BY fullname
		LIMIT ?`,
		pattern, pattern, pattern, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
