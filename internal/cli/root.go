package cli

import (
	"outofschool/internal/cli/commands"
	"outofschool/internal/logger"

	"github.com/spf13/cobra"
)

// createRootCommand creates the root command with global flags
func createRootCommand(env *commands.Env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "outofschool",
		Short: "Catalog search service for out-of-school education",
		Long: `outofschool serves the catalog of extracurricular workshops, providers,
applications and reports. Workshop searches run against the relational
database or a full-text search index, chosen per query.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			env.ConfigPath, _ = cmd.Flags().GetString("config")
			if level, _ := cmd.Flags().GetString("log-level"); level != "" {
				logger.SetLevel(level)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to configuration file (default $XDG_CONFIG_HOME/outofschool/config.toml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	return rootCmd
}
