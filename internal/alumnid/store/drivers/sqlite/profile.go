package sqlite

import (
	"context"

	"github.com/aussiebroadwan/alumni/internal/alumnid/domain"
)

type educationRepo struct {
	db dbtx
}

const educationColumns = `id, user_id, institution, degree, start_date, end_date, created_at`

func scanEducation(row scanner) (domain.Education, error) {
	var (
		e         domain.Education
		createdAt int64
	)
	if err := row.Scan(&e.ID, &e.UserID, &e.Institution, &e.Degree, &e.StartDate, &e.EndDate, &createdAt); err != nil {
		return domain.Education{}, err
	}
	e.CreatedAt = fromMillis(createdAt)
	return e, nil
}

func (r *educationRepo) ListEducation(ctx context.Context, userID string) ([]domain.Education, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+educationColumns+` FROM education
		WHERE user_id = ?
		ORDER BY start_date DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Education{}
	for rows.Next() {
		e, err := scanEducation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *educationRepo) GetEducation(ctx context.Context, id string) (domain.Education, error) {
	e, err := scanEducation(r.db.QueryRowContext(ctx, `SELECT `+educationColumns+` FROM education WHERE id = ?`, id))
	if err != nil {
		return domain.Education{}, mapNotFound(err)
	}
	return e, nil
}

func (r *educationRepo) CreateEducation(ctx context.Context, e domain.Education) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO education (`+educationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Institution, e.Degree, e.StartDate, e.EndDate, toMillis(e.CreatedAt),
	)
	return mapWriteErr(err)
}

func (r *educationRepo) UpdateEducation(ctx context.Context, e domain.Education) error {
	return expectOne(r.db.ExecContext(ctx, `
		UPDATE education SET institution = ?, degree = ?, start_date = ?, end_date = ?
		WHERE id = ?`,
		e.Institution, e.Degree, e.StartDate, e.EndDate, e.ID,
	))
}

func (r *educationRepo) DeleteEducation(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM education WHERE id = ?`, id))
}

type licensesRepo struct {
	db dbtx
}

const licenseColumns = `id, user_id, name, organization, issue_date, credential_url, created_at`

func scanLicense(row scanner) (domain.License, error) {
	var (
		l         domain.License
		createdAt int64
	)
	if err := row.Scan(&l.ID, &l.UserID, &l.Name, &l.Organization, &l.IssueDate, &l.CredentialURL, &createdAt); err != nil {
		return domain.License{}, err
	}
	l.CreatedAt = fromMillis(createdAt)
	return l, nil
}

func (r *licensesRepo) ListLicenses(ctx context.Context, userID string) ([]domain.License, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+licenseColumns+` FROM licenses
		WHERE user_id = ?
		ORDER BY issue_date DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.License{}
	for rows.Next() {
		l, err := scanLicense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *licensesRepo) GetLicense(ctx context.Context, id string) (domain.License, error) {
	l, err := scanLicense(r.db.QueryRowContext(ctx, `SELECT `+licenseColumns+` FROM licenses WHERE id = ?`, id))
	if err != nil {
		return domain.License{}, mapNotFound(err)
	}
	return l, nil
}

func (r *licensesRepo) CreateLicense(ctx context.Context, l domain.License) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO licenses (`+licenseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.UserID, l.Name, l.Organization, l.IssueDate, l.CredentialURL, toMillis(l.CreatedAt),
	)
	return mapWriteErr(err)
}

func (r *licensesRepo) UpdateLicense(ctx context.Context, l domain.License) error {
	return expectOne(r.db.ExecContext(ctx, `
		UPDATE licenses SET name = ?, organization = ?, issue_date = ?, credential_url = ?
		WHERE id = ?`,
		l.Name, l.Organization, l.IssueDate, l.CredentialURL, l.ID,
	))
}

func (r *licensesRepo) DeleteLicense(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM licenses WHERE id = ?`, id))
}
