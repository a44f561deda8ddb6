package commands

import (
	"io"
	"os"

	"outofschool/internal/errors"
	"outofschool/internal/operations"

	"github.com/spf13/cobra"
)

// DatabaseCommands creates schema and fixture commands
func DatabaseCommands(env *Env) []*cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// opening the application applies migrations
			a, err := env.App(cmd.Context())
			if err != nil {
				return err
			}
			status, err := a.DB.MigrationStatus()
			if err != nil {
				return err
			}
			return env.printJSON(status)
		},
	}

	seedCmd := &cobra.Command{
		Use:   "seed <fixtures.yaml|->",
		Short: "Import catalog fixtures from YAML",
		Long: `Import providers, workshops, applications, ministry administrators and
statistic reports from a YAML file ("-" reads standard input). Records are
upserted by id in one transaction. Add --reindex to refresh the search index
afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return errors.Wrap(errors.ErrFileRead, "Failed to open fixture file", err)
				}
				defer f.Close()
				r = f
			}

			a, err := env.App(cmd.Context())
			if err != nil {
				return err
			}
			stats, err := operations.Seed(cmd.Context(), a.Store(), r)
			if err != nil {
				return err
			}

			reindex, _ := cmd.Flags().GetBool("reindex")
			if reindex && a.Indexer != nil {
				if _, err := a.Indexer.Reindex(cmd.Context()); err != nil {
					return err
				}
			}
			return env.printJSON(stats)
		},
	}
	seedCmd.Flags().Bool("reindex", false, "Rebuild the search index after importing")

	return []*cobra.Command{migrateCmd, seedCmd}
}
