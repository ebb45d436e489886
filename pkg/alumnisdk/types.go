package alumnisdk

import "time"

// ============================================================================
// Authentication Types
// ============================================================================

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullname"`
}

// AuthResponse is returned by login and two-factor verification.
type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType,omitempty"`
	ExpiresIn   int    `json:"expiresIn,omitempty"` // seconds
	User        User   `json:"user"`
}

// RefreshResponse is returned by POST /auth/refresh.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType,omitempty"`
	ExpiresIn   int    `json:"expiresIn,omitempty"`
}

// TwoFactorVerifyRequest completes a login that answered with a challenge.
type TwoFactorVerifyRequest struct {
	ChallengeToken string `json:"challengeToken"`
	Code           string `json:"code"`
}

// TwoFactorEnrollResponse carries the TOTP secret for authenticator apps.
type TwoFactorEnrollResponse struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauthUrl"`
}

// TwoFactorConfirmRequest enables two-factor after enrolment.
type TwoFactorConfirmRequest struct {
	Code string `json:"code"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// VerifyCodeRequest exchanges the emailed code for a reset token.
type VerifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// VerifyCodeResponse carries the single-use reset token.
type VerifyCodeResponse struct {
	ResetToken string `json:"resetToken"`
}

// ResetPasswordRequest sets a new password using a reset token.
type ResetPasswordRequest struct {
	ResetToken string `json:"resetToken"`
	Password   string `json:"password"`
}

// ============================================================================
// Profile Types
// ============================================================================

// User is a public profile.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email,omitempty"`
	FullName         string    `json:"fullname"`
	Headline         string    `json:"headline,omitempty"`
	Location         string    `json:"location,omitempty"`
	About            string    `json:"about,omitempty"`
	AvatarURL        string    `json:"avatar,omitempty"`
	BannerURL        string    `json:"banner,omitempty"`
	TwoFactorEnabled bool      `json:"twoFactorEnabled"`
	CreatedAt        time.Time `json:"createdAt"`
}

// UpdateProfileRequest is the body of PUT /users/me. Empty fields are cleared
// except FullName, which is required.
type UpdateProfileRequest struct {
	FullName string `json:"fullname"`
	Headline string `json:"headline"`
	Location string `json:"location"`
	About    string `json:"about"`
}

// UploadResponse is returned by the photo and banner uploads.
type UploadResponse struct {
	URL string `json:"url"`
}

// Education is one entry in a profile's education section.
type Education struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	StartDate   string `json:"startDate"`         // YYYY-MM
	EndDate     string `json:"endDate,omitempty"` // YYYY-MM, empty while ongoing
}

// EducationInput is the body for creating or updating education.
type EducationInput struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate,omitempty"`
}

// License is a license or certificate on a profile.
type License struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Organization  string `json:"organization"`
	IssueDate     string `json:"issueDate"` // YYYY-MM
	CredentialURL string `json:"credentialUrl,omitempty"`
}

// LicenseInput is the body for creating or updating a license.
type LicenseInput struct {
	Name          string `json:"name"`
	Organization  string `json:"organization"`
	IssueDate     string `json:"issueDate"`
	CredentialURL string `json:"credentialUrl,omitempty"`
}

// ============================================================================
// Content Types
// ============================================================================

// Post categories used by the announcement board.
const (
	CategoryJob        = "job"
	CategoryInternship = "internship"
	CategoryTraining   = "training"
	CategoryEvent      = "event"
	CategoryNews       = "news"
)

// Author is the embedded author summary on posts, comments and messages.
type Author struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Post is an announcement. Content is sanitised HTML.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	TopicID   string    `json:"topicId,omitempty"`
	Author    Author    `json:"author"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostInput is the body for creating or updating a post. TopicID files the
// post under a forum topic.
type PostInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	TopicID  string `json:"topicId,omitempty"`
}

// Comment is a reply on a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	Text      string    `json:"text"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentInput is the body for creating or updating a comment.
type CommentInput struct {
	Text string `json:"text"`
}

// Topic is a forum topic.
type Topic struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PostCount   int       `json:"postCount"`
	Posts       []Post    `json:"posts,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SearchResults is returned by GET /search.
type SearchResults struct {
	Query  string  `json:"query"`
	Users  []User  `json:"users"`
	Posts  []Post  `json:"posts"`
	Topics []Topic `json:"topics"`
}

// Message is a chat message.
type Message struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chatId"`
	Text      string    `json:"text"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// MessageInput is the body of POST /messages.
type MessageInput struct {
	ChatID string `json:"chatId"`
	Text   string `json:"text"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthChecks reports the state of the backend's dependencies.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
