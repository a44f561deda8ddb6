package commands

import (
	"context"
	"net/url"
	"strings"

	"outofschool/internal/errors"
	"outofschool/internal/operations"
	"outofschool/internal/search"

	"github.com/spf13/cobra"
)

// WorkshopSearchOutput is the workshop search result with the backend that served it
type WorkshopSearchOutput struct {
	Strategy search.Kind `json:"strategy"`
	search.Result
}

type lister func(ctx context.Context, c *operations.Catalog, params url.Values) (interface{}, error)

// SearchCommands creates the list and search commands
func SearchCommands(env *Env) []*cobra.Command {
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Run catalog queries",
		Long: `Run the same list queries the HTTP API serves. Query parameters are given
as repeated --param name=value flags, e.g.

  outofschool search workshops --param searchText=robotics --param size=5`,
	}

	subcommands := []struct {
		use   string
		short string
		run   lister
	}{
		{"workshops", "Search workshops", func(ctx context.Context, c *operations.Catalog, p url.Values) (interface{}, error) {
			res, kind, err := c.Workshops(ctx, p)
			if err != nil {
				return nil, err
			}
			return WorkshopSearchOutput{Strategy: kind, Result: res}, nil
		}},
		{"admin-workshops", "List workshops for administrators", func(ctx context.Context, c *operations.Catalog, p url.Values) (interface{}, error) {
			return c.AdminWorkshops(ctx, p)
		}},
		{"providers", "List providers", func(ctx context.Context, c *operations.Catalog, p url.Values) (interface{}, error) {
			return c.Providers(ctx, p)
		}},
		{"applications", "List applications", func(ctx context.Context, c *operations.Catalog, p url.Values) (interface{}, error) {
			return c.Applications(ctx, p)
		}},
		{"ministry-admins", "List ministry administrators", func(ctx context.Context, c *operations.Catalog, p url.Values) (interface{}, error) {
			return c.MinistryAdmins(ctx, p)
		}},
		{"reports", "List statistic reports", func(ctx context.Context, c *operations.Catalog, p url.Values) (interface{}, error) {
			return c.StatisticReports(ctx, p)
		}},
	}

	for _, sub := range subcommands {
		run := sub.run
		cmd := &cobra.Command{
			Use:   sub.use,
			Short: sub.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				raw, _ := cmd.Flags().GetStringArray("param")
				params, err := parseParams(raw)
				if err != nil {
					return err
				}

				a, err := env.App(cmd.Context())
				if err != nil {
					return err
				}
				out, err := run(cmd.Context(), a.Catalog, params)
				if err != nil {
					return err
				}
				return env.printJSON(out)
			},
		}
		cmd.Flags().StringArrayP("param", "p", nil, "Query parameter as name=value (repeatable)")
		searchCmd.AddCommand(cmd)
	}

	return []*cobra.Command{searchCmd}
}

// parseParams turns name=value pairs into query parameters. Repeated names
// accumulate, matching repeated query string keys.
func parseParams(raw []string) (url.Values, error) {
	params := url.Values{}
	for _, pair := range raw {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.InvalidInput("param", "expected name=value, got "+pair)
		}
		params.Add(name, value)
	}
	return params, nil
}
