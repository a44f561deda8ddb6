package commands

import (
	"outofschool/internal/errors"

	"github.com/spf13/cobra"
)

// IndexStatus describes the on-disk search index
type IndexStatus struct {
	Path      string `json:"path"`
	Documents uint64 `json:"documents"`
}

// IndexCommands creates search index maintenance commands
func IndexCommands(env *Env) []*cobra.Command {
	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Search index maintenance",
	}

	rebuildCmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the workshop search index from the database",
		Long: `Stream every workshop into the search index and drop documents of deleted
workshops. The index is held open by a running server; use
POST /api/admin/index/rebuild against it instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.App(cmd.Context())
			if err != nil {
				return err
			}
			if a.Indexer == nil {
				return errors.StrategyUnavailable("the search index is disabled in the configuration")
			}

			stats, err := a.Indexer.Reindex(cmd.Context())
			if err != nil {
				return err
			}
			return env.printJSON(stats)
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the number of indexed workshops",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.App(cmd.Context())
			if err != nil {
				return err
			}
			if a.Index == nil {
				return errors.StrategyUnavailable("the search index is disabled in the configuration")
			}

			count, err := a.Index.DocCount(cmd.Context())
			if err != nil {
				return err
			}
			return env.printJSON(IndexStatus{Path: a.Config.Search.IndexPath, Documents: count})
		},
	}

	indexCmd.AddCommand(rebuildCmd, statusCmd)
	return []*cobra.Command{indexCmd}
}
