package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/workboard/internal/board"
	"github.com/alexanderramin/workboard/internal/domain"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Add and remove board tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var in taskInput
	var interactive bool

	cmd := &cobra.Command{
		Use:   "add <project>",
		Short: "Add a task to a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			layout, ok := board.LayoutByName(p.Layout)
			if !ok {
				return fmt.Errorf("project %s has unknown layout %q", p.DisplayID(), p.Layout)
			}

			if interactive {
				if !app.interactive() {
					return fmt.Errorf("--interactive needs a terminal")
				}
				if err := taskForm(layout, &in).WithTheme(huhTheme()).Run(); err != nil {
					return err
				}
			}

			t, column, err := in.task(layout)
			if err != nil {
				return err
			}
			if err := app.Boards.AddTask(ctx, p.ID, column, &t); err != nil {
				return err
			}
			if column == "" {
				column = layout.First()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q to %s [%s]\n", t.Title, layout.Title(column), t.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "Task title")
	cmd.Flags().StringVar(&in.Type, "type", string(domain.TaskFeature), "Bug, Feature or Improvement")
	cmd.Flags().StringVar(&in.Priority, "priority", string(domain.PriorityMedium), "Low, Medium or High")
	cmd.Flags().StringVar(&in.Assignee, "assignee", "", "Assignee name")
	cmd.Flags().StringVar(&in.Column, "column", "", "Column (default: first column)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill in the task with a form")

	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <project> <task>",
		Short: "Remove a task by ID, ID prefix or title",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			snap, err := app.Boards.Board(ctx, p.ID)
			if err != nil {
				return err
			}
			t, _, _, err := resolveTask(snap, args[1])
			if err != nil {
				return err
			}
			if _, err := app.Boards.RemoveTask(ctx, p.ID, t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %q\n", t.Title)
			return nil
		},
	}
}
