package alumnisdk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordStrength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		password string
		want     Strength
	}{
		{"", StrengthWeak},
		{"abc", StrengthWeak},
		{"abcdefgh", StrengthWeak},
		{"Abcdefgh", StrengthMedium},
		{"Abcdefg1", StrengthMedium},
		{"Abcdefg1!", StrengthStrong},
		{"Պարոլ123!Aa", StrengthStrong},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			require.Equal(t, tt.want, PasswordStrength(tt.password))
		})
	}
}

func TestRegisterRequestValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		req := RegisterRequest{Email: "ann@example.com", Password: "Sup3r$ecret", FullName: "Անի Պետրոսյան"}
		require.Nil(t, req.Validate())
	})

	t.Run("all invalid", func(t *testing.T) {
		req := RegisterRequest{Email: "ann@", Password: "weakpass", FullName: "A1"}
		errs := req.Validate()
		require.Equal(t, reasonBadEmail, errs["email"])
		require.Equal(t, reasonWeakPasswd, errs["password"])
		require.Equal(t, reasonBadChars, errs["fullname"])
	})

	t.Run("name too short", func(t *testing.T) {
		req := RegisterRequest{Email: "ann@example.com", Password: "Sup3r$ecret", FullName: "A"}
		require.Contains(t, req.Validate()["fullname"], "too short")
	})
}

func TestEducationInputValidate(t *testing.T) {
	t.Parallel()

	base := EducationInput{Institution: "Yerevan State University", Degree: "Bachelor", StartDate: "2018-09"}

	t.Run("open ended", func(t *testing.T) {
		require.Nil(t, base.Validate())
	})

	t.Run("end before start", func(t *testing.T) {
		in := base
		in.EndDate = "2017-06"
		require.Contains(t, in.Validate()["endDate"], "before the start date")
	})

	t.Run("bad month", func(t *testing.T) {
		in := base
		in.StartDate = "2018-13"
		require.Equal(t, reasonBadMonth, in.Validate()["startDate"])
	})
}

func TestLicenseInputValidate(t *testing.T) {
	t.Parallel()

	in := LicenseInput{Name: "Cloud Practitioner", Organization: "Amazon", IssueDate: "2023-01", CredentialURL: "ftp://x"}
	require.Equal(t, reasonBadURL, in.Validate()["credentialUrl"])

	in.CredentialURL = "https://example.com/cert/1"
	require.Nil(t, in.Validate())
}

func TestPostInputValidate(t *testing.T) {
	t.Parallel()

	t.Run("markup does not count", func(t *testing.T) {
		in := PostInput{Title: "Junior Go role", Content: "<p><b>short</b></p>", Category: CategoryJob}
		require.Contains(t, in.Validate()["content"], "too short")
	})

	t.Run("too long", func(t *testing.T) {
		in := PostInput{Title: "Junior Go role", Content: strings.Repeat("ա", 1001), Category: CategoryJob}
		require.Contains(t, in.Validate()["content"], "too long")
	})

	t.Run("unknown category", func(t *testing.T) {
		in := PostInput{Title: "Junior Go role", Content: "We are hiring a junior engineer.", Category: "party"}
		require.Equal(t, "unknown category", in.Validate()["category"])
	})

	t.Run("valid", func(t *testing.T) {
		in := PostInput{Title: "Summer internship 2025", Content: "<p>Apply by <em>June</em>.</p>", Category: CategoryInternship}
		require.Nil(t, in.Validate())
	})
}

func TestVerifyCodeRequestValidate(t *testing.T) {
	t.Parallel()

	require.Nil(t, VerifyCodeRequest{Email: "ann@example.com", Code: "012345"}.Validate())
	require.Equal(t, reasonBadCode, VerifyCodeRequest{Email: "ann@example.com", Code: "12345a"}.Validate()["code"])
}

func TestVisibleText(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Tom & Jerry", VisibleText("<p>Tom &amp; <script>x</script>Jerry</p>"))
}
