package alumnisdk

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const (
	reasonRequired   = "required"
	reasonBadChars   = "contains characters that are not allowed"
	reasonBadEmail   = "invalid email address"
	reasonBadURL     = "must start with http:// or https://"
	reasonBadMonth   = "must be formatted YYYY-MM"
	reasonBadCode    = "must be 6 digits"
	reasonWeakPasswd = "must be at least 8 characters with upper and lower case letters, a digit and a special character"

	textMinLength    = 2
	textMaxLength    = 200
	contentMinLength = 10
	contentMaxLength = 1000
	commentMaxLength = 1000
	messageMaxLength = 2000
	aboutMaxLength   = 2000
)

var (
	reText    = regexp.MustCompile(`^[a-zA-Z\x{0561}-\x{0587}\x{0531}-\x{0556}\s\-'.]+$`)
	reEmail   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	reURL     = regexp.MustCompile(`^https?://.+`)
	reMonth   = regexp.MustCompile(`^\d{4}-\d{2}$`)
	reCode    = regexp.MustCompile(`^\d{6}$`)
	reUpper   = regexp.MustCompile(`[A-Z]`)
	reLower   = regexp.MustCompile(`[a-z]`)
	reDigit   = regexp.MustCompile(`[0-9]`)
	reSpecial = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)

	textOnly = bluemonday.StrictPolicy()
)

// ============================================================================
// Password Strength
// ============================================================================

// Strength grades how many password rules are met.
type Strength string

const (
	StrengthWeak   Strength = "weak"
	StrengthMedium Strength = "medium"
	StrengthStrong Strength = "strong"
)

// PasswordRules reports which of the five password rules pw satisfies.
type PasswordRules struct {
	Length    bool
	Uppercase bool
	Lowercase bool
	Digit     bool
	Special   bool
}

// Met counts the satisfied rules.
func (r PasswordRules) Met() int {
	n := 0
	for _, ok := range []bool{r.Length, r.Uppercase, r.Lowercase, r.Digit, r.Special} {
		if ok {
			n++
		}
	}
	return n
}

// CheckPassword evaluates pw against the password rules.
func CheckPassword(pw string) PasswordRules {
	return PasswordRules{
		Length:    utf8.RuneCountInString(pw) >= 8,
		Uppercase: reUpper.MatchString(pw),
		Lowercase: reLower.MatchString(pw),
		Digit:     reDigit.MatchString(pw),
		Special:   reSpecial.MatchString(pw),
	}
}

// PasswordStrength grades pw: weak with at most two rules met, medium with at
// most four, strong with all five.
func PasswordStrength(pw string) Strength {
	switch met := CheckPassword(pw).Met(); {
	case met <= 2:
		return StrengthWeak
	case met <= 4:
		return StrengthMedium
	default:
		return StrengthStrong
	}
}

// ============================================================================
// Request Validation
// ============================================================================

// Validate checks the registration fields. Returns nil if all are valid.
func (r RegisterRequest) Validate() map[string]string {
	errs := make(map[string]string)
	validateEmail(errs, "email", r.Email)
	validatePassword(errs, "password", r.Password)
	validateText(errs, "fullname", r.FullName, true)
	return nilIfEmpty(errs)
}

func (r LoginRequest) Validate() map[string]string {
	errs := make(map[string]string)
	validateEmail(errs, "email", r.Email)
	if r.Password == "" {
		errs["password"] = reasonRequired
	}
	return nilIfEmpty(errs)
}

func (r ForgotPasswordRequest) Validate() map[string]string {
	errs := make(map[string]string)
	validateEmail(errs, "email", r.Email)
	return nilIfEmpty(errs)
}

func (r VerifyCodeRequest) Validate() map[string]string {
	errs := make(map[string]string)
	validateEmail(errs, "email", r.Email)
	validateCode(errs, "code", r.Code)
	return nilIfEmpty(errs)
}

func (r ResetPasswordRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(r.ResetToken) == "" {
		errs["resetToken"] = reasonRequired
	}
	validatePassword(errs, "password", r.Password)
	return nilIfEmpty(errs)
}

func (r TwoFactorVerifyRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(r.ChallengeToken) == "" {
		errs["challengeToken"] = reasonRequired
	}
	validateCode(errs, "code", r.Code)
	return nilIfEmpty(errs)
}

func (r TwoFactorConfirmRequest) Validate() map[string]string {
	errs := make(map[string]string)
	validateCode(errs, "code", r.Code)
	return nilIfEmpty(errs)
}

func (r UpdateProfileRequest) Validate() map[string]string {
	errs := make(map[string]string)
	validateText(errs, "fullname", r.FullName, true)
	validateLength(errs, "headline", r.Headline, 0, textMaxLength)
	validateText(errs, "location", r.Location, false)
	validateLength(errs, "about", r.About, 0, aboutMaxLength)
	return nilIfEmpty(errs)
}

// Validate checks the education fields; an end date must not precede the
// start date.
func (e EducationInput) Validate() map[string]string {
	errs := make(map[string]string)
	validateText(errs, "institution", e.Institution, true)
	validateText(errs, "degree", e.Degree, true)
	validateMonth(errs, "startDate", e.StartDate, true)
	validateMonth(errs, "endDate", e.EndDate, false)

	// YYYY-MM compares correctly as a string.
	if _, bad := errs["startDate"]; !bad && e.EndDate != "" {
		if _, bad := errs["endDate"]; !bad && e.EndDate < e.StartDate {
			errs["endDate"] = "must not be before the start date"
		}
	}
	return nilIfEmpty(errs)
}

func (l LicenseInput) Validate() map[string]string {
	errs := make(map[string]string)
	validateText(errs, "name", l.Name, true)
	validateText(errs, "organization", l.Organization, true)
	validateMonth(errs, "issueDate", l.IssueDate, true)
	if v := strings.TrimSpace(l.CredentialURL); v != "" && !reURL.MatchString(v) {
		errs["credentialUrl"] = reasonBadURL
	}
	return nilIfEmpty(errs)
}

// Validate checks a post. Content length counts visible text only, so
// markup does not count towards the limits.
func (p PostInput) Validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(p.Title) == "" {
		errs["title"] = reasonRequired
	} else {
		validateLength(errs, "title", p.Title, textMinLength, textMaxLength)
	}
	validateLength(errs, "content", VisibleText(p.Content), contentMinLength, contentMaxLength)
	if !IsCategory(p.Category) {
		errs["category"] = "unknown category"
	}
	return nilIfEmpty(errs)
}

func (c CommentInput) Validate() map[string]string {
	errs := make(map[string]string)
	validateLength(errs, "text", c.Text, 1, commentMaxLength)
	return nilIfEmpty(errs)
}

func (m MessageInput) Validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(m.ChatID) == "" {
		errs["chatId"] = reasonRequired
	}
	validateLength(errs, "text", m.Text, 1, messageMaxLength)
	return nilIfEmpty(errs)
}

// IsCategory reports whether c is a known post category.
func IsCategory(c string) bool {
	switch c {
	case CategoryJob, CategoryInternship, CategoryTraining, CategoryEvent, CategoryNews:
		return true
	}
	return false
}

// VisibleText strips all markup from s and returns the trimmed text.
func VisibleText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textOnly.Sanitize(s)))
}

// ============================================================================
// Field Helpers
// ============================================================================

func validateEmail(errs map[string]string, field, v string) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		errs[field] = reasonRequired
	case !reEmail.MatchString(v):
		errs[field] = reasonBadEmail
	}
}

func validatePassword(errs map[string]string, field, pw string) {
	switch {
	case pw == "":
		errs[field] = reasonRequired
	case utf8.RuneCountInString(pw) > 128:
		errs[field] = "too long (max 128)"
	case CheckPassword(pw).Met() < 5:
		errs[field] = reasonWeakPasswd
	}
}

func validateText(errs map[string]string, field, v string, required bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		if required {
			errs[field] = reasonRequired
		}
		return
	}
	if !validateLength(errs, field, v, textMinLength, textMaxLength) {
		return
	}
	if !reText.MatchString(v) {
		errs[field] = reasonBadChars
	}
}

func validateLength(errs map[string]string, field, v string, min, max int) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(v))
	switch {
	case n < min:
		if n == 0 {
			errs[field] = reasonRequired
		} else {
			errs[field] = "too short (min " + strconv.Itoa(min) + ")"
		}
		return false
	case n > max:
		errs[field] = "too long (max " + strconv.Itoa(max) + ")"
		return false
	}
	return true
}

func validateMonth(errs map[string]string, field, v string, required bool) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		if required {
			errs[field] = reasonRequired
		}
	case !reMonth.MatchString(v):
		errs[field] = reasonBadMonth
	case v[5:] < "01" || v[5:] > "12":
		errs[field] = reasonBadMonth
	}
}

func validateCode(errs map[string]string, field, v string) {
	if !reCode.MatchString(strings.TrimSpace(v)) {
		errs[field] = reasonBadCode
	}
}

func nilIfEmpty(errs map[string]string) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	return errs
}
