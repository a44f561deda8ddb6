package commands

import (
	"fmt"
	"os"

	"outofschool/internal/config"
	"outofschool/internal/errors"
	"outofschool/internal/logger"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

// ConfigCommands creates configuration management commands
func ConfigCommands(env *Env) []*cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := env.ConfigPath
			if path == "" {
				defaultPath, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = defaultPath
			}

			force, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(path); err == nil && !force {
				return errors.NewWithDetails(errors.ErrFileWrite, "Configuration already exists", path+" (use --force to overwrite)")
			}

			if err := config.Default().Save(path); err != nil {
				return err
			}
			logger.WithField("path", path).Info("Configuration written")
			_, err := fmt.Fprintln(env.Out, path)
			return err
		},
	}
	initCmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  "Print the configuration after defaults, the config file and OUTOFSCHOOL_* environment overrides are merged.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := env.Config()
			if err != nil {
				return err
			}
			data, err := toml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = env.Out.Write(data)
			return err
		},
	}

	configCmd.AddCommand(initCmd, showCmd)
	return []*cobra.Command{configCmd}
}
