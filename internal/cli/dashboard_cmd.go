package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/workboard/internal/cli/formatter"
)

func newDashboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show project, task and team totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Dashboard.Summary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDashboard(d))
			return nil
		},
	}
}

func newSeedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the demo project, board and users",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Seed.SeedDemo(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !res.ProjectAdded && res.UsersAdded == 0 {
				fmt.Fprintf(out, "Demo data already present (%s).\n", res.Project.ShortID)
				return nil
			}
			fmt.Fprintf(out, "Seeded %s: %d task(s), %d user(s)\n", res.Project.ShortID, res.TasksAdded, res.UsersAdded)
			return nil
		},
	}
}
