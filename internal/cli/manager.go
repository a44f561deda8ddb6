package cli

import (
	"context"
	"io"
	"os"

	"outofschool/internal/cli/commands"

	"github.com/spf13/cobra"
)

// Manager handles CLI operations
type Manager struct {
	env     *commands.Env
	rootCmd *cobra.Command
}

// New creates a new CLI manager writing command output to stdout
func New() *Manager {
	return NewWithOutput(os.Stdout)
}

// NewWithOutput creates a CLI manager writing command output to out
func NewWithOutput(out io.Writer) *Manager {
	env := &commands.Env{Out: out}
	m := &Manager{
		env:     env,
		rootCmd: createRootCommand(env),
	}
	m.rootCmd.SetOut(out)
	m.setupCommands()
	return m
}

// Execute executes the CLI with the given arguments
func (m *Manager) Execute(args []string) error {
	return m.ExecuteWithContext(context.Background(), args)
}

// ExecuteWithContext executes the CLI with the given arguments and context.
// Services opened by the command are closed before returning.
func (m *Manager) ExecuteWithContext(ctx context.Context, args []string) error {
	m.rootCmd.SetArgs(args)
	err := m.rootCmd.ExecuteContext(ctx)
	if closeErr := m.env.Close(); err == nil {
		err = closeErr
	}
	return err
}

func (m *Manager) setupCommands() {
	groups := [][]*cobra.Command{
		commands.ServeCommands(m.env),
		commands.DatabaseCommands(m.env),
		commands.SearchCommands(m.env),
		commands.IndexCommands(m.env),
		commands.BackendCommands(m.env),
		commands.ConfigCommands(m.env),
	}
	for _, group := range groups {
		m.rootCmd.AddCommand(group...)
	}
}
