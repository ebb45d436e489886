package domain

import "time"

type User struct {
	ID           string
	Email        string
	FullName     string
	Headline     string
	Location     string
	About        string
	AvatarURL    string
	BannerURL    string
	PasswordHash string     // argon2id encoded, empty for accounts that cannot log in
	TOTPSecret   *string    // base32, set on enrolment
	TwoFactorAt  *time.Time // when two-factor was confirmed (nullable)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TwoFactorEnabled reports whether logins need a TOTP code.
func (u User) TwoFactorEnabled() bool { return u.TwoFactorAt != nil }

// ProfileUpdate holds the editable profile fields.
type ProfileUpdate struct {
	FullName string
	Headline string
	Location string
	About    string
}

type Education struct {
	ID          string
	UserID      string
	Institution string
	Degree      string
	StartDate   string // YYYY-MM
	EndDate     string // YYYY-MM or empty
	CreatedAt   time.Time
}

type License struct {
	ID            string
	UserID        string
	Name          string
	Organization  string
	IssueDate     string // YYYY-MM
	CredentialURL string
	CreatedAt     time.Time
}
