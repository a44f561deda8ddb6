package commands

import (
	"outofschool/internal/logger"

	"github.com/spf13/cobra"
)

// ServeCommands creates the command that runs the HTTP API
func ServeCommands(env *Env) []*cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the catalog HTTP API",
		Long: `Run the catalog HTTP API until interrupted. Pending migrations are applied
on startup. With --reindex the search index is rebuilt before listening.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := env.Config()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port, _ = cmd.Flags().GetInt("port")
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host, _ = cmd.Flags().GetString("host")
			}

			a, err := env.App(cmd.Context())
			if err != nil {
				return err
			}

			if reindex, _ := cmd.Flags().GetBool("reindex"); reindex && a.Indexer != nil {
				if _, err := a.Indexer.Reindex(cmd.Context()); err != nil {
					logger.WithError(err).Warn("Initial index rebuild failed")
				}
			}

			return a.Server().Start(cmd.Context())
		},
	}
	serveCmd.Flags().IntP("port", "P", 0, "Port to listen on (overrides server.port)")
	serveCmd.Flags().String("host", "", "Address to bind (overrides server.host)")
	serveCmd.Flags().Bool("reindex", false, "Rebuild the search index before serving")

	return []*cobra.Command{serveCmd}
}
