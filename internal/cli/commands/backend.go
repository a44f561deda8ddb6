package commands

import (
	"outofschool/internal/operations"

	"github.com/spf13/cobra"
)

// BackendCommands creates commands that switch search backends at runtime.
// Switches are stored in the database, so a running server picks them up
// once its cached value expires.
func BackendCommands(env *Env) []*cobra.Command {
	backendCmd := &cobra.Command{
		Use:     "backend",
		Short:   "Search backend switches",
		Aliases: []string{"backends"},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List search backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := env.App(cmd.Context())
			if err != nil {
				return err
			}
			states, err := a.Backends.List(cmd.Context())
			if err != nil {
				return err
			}
			return env.printJSON(states)
		},
	}

	backendCmd.AddCommand(listCmd,
		switchCommand(env, "enable <backend>", "Enable a search backend", true),
		switchCommand(env, "disable <backend>", "Disable a search backend", false),
	)
	return []*cobra.Command{backendCmd}
}

func switchCommand(env *Env, use, short string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:       use,
		Short:     short,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"relational", "index"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := operations.ParseBackend(args[0])
			if err != nil {
				return err
			}
			a, err := env.App(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.Backends.SetEnabled(cmd.Context(), kind, enabled); err != nil {
				return err
			}
			states, err := a.Backends.List(cmd.Context())
			if err != nil {
				return err
			}
			return env.printJSON(states)
		},
	}
}
