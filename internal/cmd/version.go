package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
)

type versionInfo struct {
	Version        string `json:"version" yaml:"version"`
	Commit         string `json:"commit" yaml:"commit"`
	BuildTime      string `json:"build_time" yaml:"build_time"`
	ServerURL      string `json:"server_url,omitempty" yaml:"server_url,omitempty"`
	ServerVersion  string `json:"server_version,omitempty" yaml:"server_version,omitempty"`
	ServerRevision string `json:"server_revision,omitempty" yaml:"server_revision,omitempty"`
}

func newVersionCmd(app *App) *cobra.Command {
	var clientOnly bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show client and server versions",
		Long: `Show the glc version and, when a token is configured and the instance
is reachable, the GitLab server version.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			info := versionInfo{
				Version:   app.Version,
				Commit:    app.Commit,
				BuildTime: app.BuildTime,
			}

			if !clientOnly {
				if client, err := clientFromContext(ctx); err != nil {
					slog.Debug("skipping server version", "error", err)
				} else {
					info.ServerURL = client.BaseURL()
					v, err := client.GetVersion(ctx)
					if err != nil {
						slog.Debug("server version unavailable", "url", client.BaseURL(), "error", err)
					} else {
						info.ServerVersion = v.Version
						info.ServerRevision = v.Revision
					}
				}
			}

			return printerForContext(ctx).Print(ctx, info)
		},
	}

	cmd.Flags().BoolVar(&clientOnly, "client", false, "Only show the client version")
	return cmd
}
