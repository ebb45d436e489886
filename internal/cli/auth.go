package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/alumni/pkg/alumnisdk"
)

func newLoginCommand(st *state) *cobra.Command {
	var email, code string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Long: `Sign in with email and password. Accounts with two-factor
authentication are asked for a code from their authenticator app.

The access token is kept by the configured credential backend and the
session cookie in ~/.config/alumni/session.yaml, so later commands refresh
the token on their own.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			address, err := st.prompt.valueOrPrompt(email, "Email")
			if err != nil {
				return err
			}
			password, err := st.prompt.Secret("Password")
			if err != nil {
				return err
			}

			auth, err := st.session.Login(ctx, address, password)

			var challenge *alumnisdk.TwoFactorRequiredError
			if errors.As(err, &challenge) {
				if code, err = st.prompt.valueOrPrompt(code, "Authentication code"); err != nil {
					return err
				}
				auth, err = st.session.VerifyTwoFactor(ctx, challenge.ChallengeToken, code)
			}
			if err != nil {
				return err
			}

			return st.print.success(
				fmt.Sprintf("Logged in to %s as %s", st.cfg.URL, auth.User.FullName),
				map[string]any{"server": st.cfg.URL, "user": auth.User},
			)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted when omitted)")
	cmd.Flags().StringVar(&code, "code", "", "Two-factor code (prompted when required)")
	return cmd
}

func newLogoutCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := st.session.Logout(cmd.Context()); err != nil {
				return err
			}
			return st.print.success(fmt.Sprintf("Logged out of %s", st.cfg.URL), map[string]string{"server": st.cfg.URL})
		},
	}
}

func newWhoamiCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			me, err := st.session.Me(cmd.Context())
			if err != nil {
				return err
			}
			return st.print.result(me, func() {
				fmt.Fprintf(st.out, "Authenticated to %s as %s <%s>\n", st.cfg.URL, me.FullName, me.Email)
			})
		},
	}
}

func newTwoFactorCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "2fa",
		Short: "Manage two-factor authentication",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "enroll",
		Short: "Generate a TOTP secret for an authenticator app",
		Long: `Generate a TOTP secret. Two-factor stays off until "alumnictl 2fa confirm"
receives a valid code.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enroll, err := st.session.EnrollTwoFactor(cmd.Context())
			if err != nil {
				return err
			}
			return st.print.result(enroll, func() {
				st.print.fields("Secret", enroll.Secret, "URL", enroll.OTPAuthURL)
				fmt.Fprintln(st.out, `Add it to your authenticator app, then run "alumnictl 2fa confirm <code>".`)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "confirm <code>",
		Short: "Turn on two-factor with a code from the app",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := st.session.ConfirmTwoFactor(cmd.Context(), args[0]); err != nil {
				return err
			}
			return st.print.success("Two-factor authentication enabled", map[string]bool{"twoFactorEnabled": true})
		},
	})

	return cmd
}

func newPasswordCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Reset a forgotten password",
		Long: `Reset a forgotten password in three steps:

  alumnictl password forgot --email you@example.com
  alumnictl password verify --email you@example.com --code 123456
  alumnictl password reset --token <reset token>`,
	}

	var forgotEmail string
	forgot := &cobra.Command{
		Use:   "forgot",
		Short: "Request a reset code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := st.prompt.valueOrPrompt(forgotEmail, "Email")
			if err != nil {
				return err
			}
			if err := st.client.ForgotPassword(cmd.Context(), email); err != nil {
				return err
			}
			return st.print.success("If the account exists, a reset code is on its way", map[string]string{"email": email})
		},
	}
	forgot.Flags().StringVar(&forgotEmail, "email", "", "Account email")

	var verifyEmail, verifyCode string
	verify := &cobra.Command{
		Use:   "verify",
		Short: "Exchange the reset code for a reset token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := st.prompt.valueOrPrompt(verifyEmail, "Email")
			if err != nil {
				return err
			}
			code, err := st.prompt.valueOrPrompt(verifyCode, "Code")
			if err != nil {
				return err
			}
			token, err := st.client.VerifyResetCode(cmd.Context(), email, code)
			if err != nil {
				return err
			}
			return st.print.result(alumnisdk.VerifyCodeResponse{ResetToken: token}, func() {
				st.print.fields("Reset token", token)
			})
		},
	}
	verify.Flags().StringVar(&verifyEmail, "email", "", "Account email")
	verify.Flags().StringVar(&verifyCode, "code", "", "Code from the reset message")

	var resetToken string
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Set a new password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := st.prompt.valueOrPrompt(resetToken, "Reset token")
			if err != nil {
				return err
			}
			password, err := st.prompt.Secret("New password")
			if err != nil {
				return err
			}
			again, err := st.prompt.Secret("Repeat new password")
			if err != nil {
				return err
			}
			if password != again {
				return usageErrorf("passwords do not match")
			}

			if err := st.client.ResetPassword(cmd.Context(), token, password); err != nil {
				return err
			}
			return st.print.success(`Password changed. Run "alumnictl login" to sign in.`, map[string]bool{"reset": true})
		},
	}
	reset.Flags().StringVar(&resetToken, "token", "", "Reset token from \"password verify\"")

	cmd.AddCommand(forgot, verify, reset)
	return cmd
}
