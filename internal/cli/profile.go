package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/alumni/pkg/alumnisdk"
)

func newProfileCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View and edit profiles",
	}

	show := &cobra.Command{
		Use:   "show [user-id]",
		Short: "Show a profile, yours by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				u   *alumnisdk.User
				err error
			)
			if len(args) == 1 {
				u, err = st.session.GetUser(cmd.Context(), args[0])
			} else {
				u, err = st.session.Me(cmd.Context())
			}
			if err != nil {
				return err
			}
			return st.print.result(u, func() {
				st.print.fields(
					"ID", u.ID,
					"Name", u.FullName,
					"Email", u.Email,
					"Headline", u.Headline,
					"Location", u.Location,
					"About", u.About,
					"Photo", u.AvatarURL,
					"Banner", u.BannerURL,
					"Member since", formatTime(u.CreatedAt),
				)
			})
		},
	}

	var req alumnisdk.UpdateProfileRequest
	update := &cobra.Command{
		Use:   "update",
		Short: "Edit your profile",
		Long:  `Edit your profile. Fields whose flags are not given keep their current value.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			me, err := st.session.Me(cmd.Context())
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			merged := alumnisdk.UpdateProfileRequest{
				FullName: me.FullName,
				Headline: me.Headline,
				Location: me.Location,
				About:    me.About,
			}
			if flags.Changed("fullname") {
				merged.FullName = req.FullName
			}
			if flags.Changed("headline") {
				merged.Headline = req.Headline
			}
			if flags.Changed("location") {
				merged.Location = req.Location
			}
			if flags.Changed("about") {
				merged.About = req.About
			}

			u, err := st.session.UpdateProfile(cmd.Context(), merged)
			if err != nil {
				return err
			}
			return st.print.success("Profile updated", u)
		},
	}
	update.Flags().StringVar(&req.FullName, "fullname", "", "Full name")
	update.Flags().StringVar(&req.Headline, "headline", "", "Headline")
	update.Flags().StringVar(&req.Location, "location", "", "Location")
	update.Flags().StringVar(&req.About, "about", "", "About")

	cmd.AddCommand(show, update,
		newUploadCommand(st, "photo", "Upload a profile photo", st.sessionUploadPhoto),
		newUploadCommand(st, "banner", "Upload a banner image", st.sessionUploadBanner),
	)
	return cmd
}

type uploadFunc func(cmd *cobra.Command, name string, f *os.File) (*alumnisdk.UploadResponse, error)

func (st *state) sessionUploadPhoto(cmd *cobra.Command, name string, f *os.File) (*alumnisdk.UploadResponse, error) {
	return st.session.UploadProfilePhoto(cmd.Context(), name, f)
}

func (st *state) sessionUploadBanner(cmd *cobra.Command, name string, f *os.File) (*alumnisdk.UploadResponse, error) {
	return st.session.UploadBannerPhoto(cmd.Context(), name, f)
}

func newUploadCommand(st *state, use, short string, upload uploadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <image-file>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return usageErrorf("cannot open %s: %v", args[0], err)
			}
			defer f.Close()

			res, err := upload(cmd, filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			return st.print.success(fmt.Sprintf("Uploaded %s", res.URL), res)
		},
	}
}

func newEducationCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "education",
		Short: "Manage the education section of your profile",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your education",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := st.session.ListEducation(cmd.Context())
			if err != nil {
				return err
			}
			return st.print.result(items, func() {
				rows := make([][]string, 0, len(items))
				for _, e := range items {
					end := e.EndDate
					if end == "" {
						end = "present"
					}
					rows = append(rows, []string{e.ID, e.Institution, e.Degree, e.StartDate, end})
				}
				st.print.table([]string{"ID", "INSTITUTION", "DEGREE", "FROM", "TO"}, rows)
			})
		},
	})

	var in alumnisdk.EducationInput
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an education entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := st.session.CreateEducation(cmd.Context(), in)
			if err != nil {
				return err
			}
			return st.print.success(fmt.Sprintf("Added %s", e.ID), e)
		},
	}
	add.Flags().StringVar(&in.Institution, "institution", "", "University or school")
	add.Flags().StringVar(&in.Degree, "degree", "", "Degree or programme")
	add.Flags().StringVar(&in.StartDate, "start", "", "Start month, YYYY-MM")
	add.Flags().StringVar(&in.EndDate, "end", "", "End month, YYYY-MM (omit while ongoing)")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an education entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := st.session.DeleteEducation(cmd.Context(), args[0]); err != nil {
				return err
			}
			return st.print.success(fmt.Sprintf("Deleted %s", args[0]), map[string]string{"id": args[0]})
		},
	})

	return cmd
}

func newLicensesCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "licenses",
		Aliases: []string{"license", "certificates"},
		Short:   "Manage licenses and certificates on your profile",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your licenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := st.session.ListLicenses(cmd.Context())
			if err != nil {
				return err
			}
			return st.print.result(items, func() {
				rows := make([][]string, 0, len(items))
				for _, l := range items {
					rows = append(rows, []string{l.ID, l.Name, l.Organization, l.IssueDate})
				}
				st.print.table([]string{"ID", "NAME", "ISSUER", "ISSUED"}, rows)
			})
		},
	})

	var in alumnisdk.LicenseInput
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a license or certificate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := st.session.CreateLicense(cmd.Context(), in)
			if err != nil {
				return err
			}
			return st.print.success(fmt.Sprintf("Added %s", l.ID), l)
		},
	}
	add.Flags().StringVar(&in.Name, "name", "", "License or certificate name")
	add.Flags().StringVar(&in.Organization, "organization", "", "Issuing organisation")
	add.Flags().StringVar(&in.IssueDate, "issued", "", "Issue month, YYYY-MM")
	add.Flags().StringVar(&in.CredentialURL, "credential-url", "", "Link to verify the credential")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a license",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := st.session.DeleteLicense(cmd.Context(), args[0]); err != nil {
				return err
			}
			return st.print.success(fmt.Sprintf("Deleted %s", args[0]), map[string]string{"id": args[0]})
		},
	})

	return cmd
}
