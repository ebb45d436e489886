package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type versionInfo struct {
	Client string `json:"client"`
	Server string `json:"server,omitempty"`
	URL    string `json:"url"`
}

func newVersionCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client and server versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := versionInfo{Client: Version, URL: st.cfg.URL}

			// The server version is best effort; an offline backend is not an error.
			if health, err := st.client.GetLiveness(cmd.Context()); err == nil {
				info.Server = health.Version
			} else {
				st.logger.Debug("server version unavailable", "error", err)
			}

			return st.print.result(info, func() {
				fmt.Fprintf(st.out, "alumnictl %s\n", info.Client)
				if info.Server != "" {
					fmt.Fprintf(st.out, "server    %s (%s)\n", info.Server, info.URL)
				}
			})
		},
	}
}
