package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/alumni/internal/alumnid/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Drivers implement it and expose
// one sub-repository per table group. Sub-repositories obtained from a Tx run
// inside that transaction.
type Store interface {
	Users() Users
	Sessions() Sessions
	RefreshTokens() RefreshTokens
	Challenges() Challenges
	PasswordResets() PasswordResets
	Education() Education
	Licenses() Licenses
	Posts() Posts
	Comments() Comments
	Topics() Topics
	Messages() Messages

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise. Inside fn only use tx, never the outer Store.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	CreateUser(ctx context.Context, u domain.User) error
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	UpdateProfile(ctx context.Context, userID string, p domain.ProfileUpdate) error
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
	UpdateAvatar(ctx context.Context, userID, url string) error
	UpdateBanner(ctx context.Context, userID, url string) error

	// SetTOTPSecret stores a pending secret; two-factor stays disabled.
	SetTOTPSecret(ctx context.Context, userID, secret string) error
	EnableTwoFactor(ctx context.Context, userID string, at time.Time) error

	// DeleteUser cascades to everything the user owns.
	DeleteUser(ctx context.Context, userID string) error

	CountUsers(ctx context.Context) (int, error)
	SearchUsers(ctx context.Context, q string, limit int) ([]domain.User, error)
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error
	GetSession(ctx context.Context, id string) (domain.Session, error)
	TouchSession(ctx context.Context, id string, at time.Time) error
	RevokeSession(ctx context.Context, id string, at time.Time) error
	RevokeUserSessions(ctx context.Context, userID string, at time.Time) error

	// DeleteExpiredSessions removes sessions that expired or were revoked
	// before the cutoff. Their refresh tokens go with them.
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

type RefreshTokens interface {
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken flips the revoked flag and records when. It returns
	// ErrNotFound when the token was already revoked, so concurrent rotations
	// of the same token cannot both succeed.
	RevokeRefreshToken(ctx context.Context, id string, at time.Time) error
}

type Challenges interface {
	CreateChallenge(ctx context.Context, c domain.Challenge) error
	GetChallengeByHash(ctx context.Context, hash string) (domain.Challenge, error)

	// IncrementAttempts bumps the failure counter and returns the new value.
	IncrementAttempts(ctx context.Context, id string) (int, error)
	DeleteChallenge(ctx context.Context, id string) error
	DeleteExpiredChallenges(ctx context.Context, before time.Time) (int64, error)
}

type PasswordResets interface {
	CreatePasswordReset(ctx context.Context, r domain.PasswordReset) error

	// GetPendingReset returns the newest unverified, unexpired reset for
	// the user.
	GetPendingReset(ctx context.Context, userID string, now time.Time) (domain.PasswordReset, error)
	GetResetByToken(ctx context.Context, tokenHash string) (domain.PasswordReset, error)
	IncrementResetAttempts(ctx context.Context, id string) (int, error)
	MarkResetVerified(ctx context.Context, id, tokenHash string, at, expiresAt time.Time) error

	// MarkResetUsed returns ErrNotFound when the reset was already used.
	MarkResetUsed(ctx context.Context, id string, at time.Time) error
	DeleteUserResets(ctx context.Context, userID string) error
	DeleteExpiredResets(ctx context.Context, before time.Time) (int64, error)
}

type Education interface {
	ListEducation(ctx context.Context, userID string) ([]domain.Education, error)
	GetEducation(ctx context.Context, id string) (domain.Education, error)
	CreateEducation(ctx context.Context, e domain.Education) error
	UpdateEducation(ctx context.Context, e domain.Education) error
	DeleteEducation(ctx context.Context, id string) error
}

type Licenses interface {
	ListLicenses(ctx context.Context, userID string) ([]domain.License, error)
	GetLicense(ctx context.Context, id string) (domain.License, error)
	CreateLicense(ctx context.Context, l domain.License) error
	UpdateLicense(ctx context.Context, l domain.License) error
	DeleteLicense(ctx context.Context, id string) error
}

type Posts interface {
	// ListPosts returns posts newest first with their author filled in.
	// Comments are not loaded.
	ListPosts(ctx context.Context, f domain.PostFilter) ([]domain.Post, error)
	GetPost(ctx context.Context, id string) (domain.Post, error)
	CreatePost(ctx context.Context, p domain.Post) error
	UpdatePost(ctx context.Context, p domain.Post) error
	DeletePost(ctx context.Context, id string) error
	CountPosts(ctx context.Context) (int, error)
	SearchPosts(ctx context.Context, q string, limit int) ([]domain.Post, error)
}

type Comments interface {
	// ListComments returns a post's comments oldest first.
	ListComments(ctx context.Context, postID string) ([]domain.Comment, error)
	GetComment(ctx context.Context, id string) (domain.Comment, error)
	CreateComment(ctx context.Context, c domain.Comment) error
	UpdateComment(ctx context.Context, c domain.Comment) error
	DeleteComment(ctx context.Context, id string) error
}

type Topics interface {
	// ListTopics returns topics with PostCount filled in.
	ListTopics(ctx context.Context) ([]domain.Topic, error)
	GetTopic(ctx context.Context, id string) (domain.Topic, error)
	GetTopicBySlug(ctx context.Context, slug string) (domain.Topic, error)
	CreateTopic(ctx context.Context, t domain.Topic) error
	SearchTopics(ctx context.Context, q string, limit int) ([]domain.Topic, error)
}

type Messages interface {
	// ListMessages returns the latest limit messages of a chat, oldest first.
	ListMessages(ctx context.Context, chatID string, limit int) ([]domain.Message, error)
	CreateMessage(ctx context.Context, m domain.Message) error
}
