package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aussiebroadwan/alumni/pkg/alumnisdk"
	"github.com/aussiebroadwan/alumni/pkg/credstore"
	"github.com/aussiebroadwan/alumni/pkg/slogx"
)

// Version is the alumnictl release, overridable with -ldflags.
var Version = "v0.1.0"

// state is shared by every command of one invocation.
type state struct {
	v          *viper.Viper
	configPath string

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	cfg     Config
	logger  *slog.Logger
	client  *alumnisdk.SDKClient
	session *alumnisdk.Session
	cookies *credstore.CookieFile
	print   *printer
	prompt  *prompter

	// loggedIn records whether a credential was stored when the command
	// started, to tell "never logged in" apart from "session expired".
	loggedIn bool
}

// Execute runs alumnictl with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	st := &state{v: newViper(), in: stdin, out: stdout, errOut: stderr}

	root := newRootCommand(st)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)

	// The session cookie may have been rotated even when the command failed.
	if perr := st.persist(); perr != nil {
		if err == nil {
			err = perr
		} else {
			st.logger.Warn("failed to save session cookie", "error", perr)
		}
	}

	if err != nil {
		if !errors.Is(err, alumnisdk.ErrSessionExpired) {
			fmt.Fprintf(stderr, "Error: %s\n", describe(err))
		}
		return ExitCode(err)
	}
	return ExitSuccess
}

func newRootCommand(st *state) *cobra.Command {
	root := &cobra.Command{
		Use:   "alumnictl",
		Short: "Command line client for the alumni network",
		Long: `alumnictl talks to an alumni backend: the announcement board, forum,
search, chat and your profile.

Configuration precedence: flags, then ALUMNI_* environment variables, then
~/.config/alumni/config.yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return st.setup()
		},
		// Without a RunE cobra skips PersistentPreRunE, and a bad --config
		// would go unnoticed.
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&st.configPath, "config", "", "Config file (default ~/.config/alumni/config.yaml)")
	flags.String("url", defaultURL, "Backend URL (or ALUMNI_URL)")
	flags.String("credential-backend", credstore.BackendFile, "Where to keep the access token: file or keyring")
	flags.Duration("timeout", 0, "HTTP request timeout (default 30s)")
	flags.Bool("json", false, "Output in JSON format")
	flags.Bool("verbose", false, "Log HTTP requests to stderr")
	if err := bindFlags(st.v, flags); err != nil {
		panic(err)
	}

	root.AddCommand(
		newLoginCommand(st),
		newLogoutCommand(st),
		newWhoamiCommand(st),
		newPostsCommand(st),
		newCommentsCommand(st),
		newTopicsCommand(st),
		newSearchCommand(st),
		newMessagesCommand(st),
		newProfileCommand(st),
		newEducationCommand(st),
		newLicensesCommand(st),
		newTwoFactorCommand(st),
		newPasswordCommand(st),
		newVersionCommand(st),
	)
	return root
}

// setup resolves configuration and builds the SDK session.
func (st *state) setup() error {
	cfg, err := loadConfig(st.v, st.configPath)
	if err != nil {
		return err
	}
	st.cfg = cfg

	level := "warn"
	if cfg.Verbose {
		level = "debug"
	}
	st.logger = slogx.New(slogx.Config{Level: level, Format: "text", Output: st.errOut})
	st.print = &printer{out: st.out, errOut: st.errOut, json: cfg.JSON}
	st.prompt = newPrompter(st.in, st.errOut)

	client := alumnisdk.NewSDKClient(cfg.URL)
	client.HTTPClient.Timeout = cfg.Timeout
	client.HTTPClient.Transport = &slogx.Transport{Logger: st.logger}
	client.Logger = st.logger

	cookiePath := cfg.SessionFile
	if cookiePath == "" {
		if cookiePath, err = credstore.DefaultCookiePath(); err != nil {
			return err
		}
	}
	cookies := credstore.NewCookieFile(cookiePath)
	client.HTTPClient.Jar = cookies.Track(client.HTTPClient.Jar)
	if err := cookies.Restore(client.HTTPClient.Jar, cfg.URL); err != nil {
		return err
	}

	store, err := credstore.Open(cfg.CredentialBackend, cfg.CredentialsFile, cfg.URL)
	if err != nil {
		return err
	}
	token, err := store.Load()
	if err != nil {
		return fmt.Errorf("failed to load credential: %w", err)
	}
	st.loggedIn = token != ""

	st.client = client
	st.cookies = cookies
	st.session = client.NewSession(store,
		alumnisdk.WithSessionExpiredHandler(st.sessionExpired),
		alumnisdk.WithRefreshCoalescing(),
		alumnisdk.WithLogger(st.logger),
	)
	return nil
}

// sessionExpired is the CLI's login redirect.
func (st *state) sessionExpired(context.Context, error) {
	if st.loggedIn {
		st.print.warn(`Session expired. Run "alumnictl login" to sign in again.`)
		return
	}
	st.print.warn(`Not logged in. Run "alumnictl login" first.`)
}

func (st *state) persist() error {
	if st.client == nil {
		return nil
	}
	return st.cookies.Save(st.client.HTTPClient.Jar, st.cfg.URL)
}
