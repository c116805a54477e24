package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/workboard/internal/board"
	"github.com/alexanderramin/workboard/internal/cli/formatter"
)

func newBoardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show and rearrange a project board",
	}

	cmd.AddCommand(
		newBoardShowCmd(app),
		newBoardMoveCmd(app),
		newBoardTUICmd(app),
	)

	return cmd
}

func newBoardShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project>",
		Short: "Print a project's board",
		Args:  cobra.ExactArgs(1),
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
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatBoard(p.DisplayID()+"  "+p.Name, snap))
			return nil
		},
	}
}

func newBoardMoveCmd(app *App) *cobra.Command {
	var task, from, to string
	var fromIndex, toIndex int

	cmd := &cobra.Command{
		Use:   "move <project>",
		Short: "Move a task to another column or position",
		Long: `Move a task by position (--from/--from-index) or by reference (--task).
--to-index defaults to the end of the destination column.`,
		Example: `  workboard board move EWM01 --from backlog --from-index 0 --to inprogress
  workboard board move EWM01 --task "Fix auth bug" --to Done --to-index 0`,
		Args: cobra.ExactArgs(1),
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
			layout := snap.Layout

			var src board.Column
			switch {
			case task != "" && from != "":
				return fmt.Errorf("use either --task or --from, not both")
			case task != "":
				_, src, fromIndex, err = resolveTask(snap, task)
				if err != nil {
					return err
				}
			case from != "":
				if src, err = columnArg(layout, from); err != nil {
					return err
				}
			default:
				return fmt.Errorf("one of --task or --from is required")
			}

			dst, err := columnArg(layout, to)
			if err != nil {
				return err
			}
			if toIndex < 0 {
				toIndex = len(snap.Tasks(dst))
				if dst == src {
					toIndex--
				}
			}

			mv, err := app.Boards.MoveTask(ctx, p.ID, src, dst, fromIndex, toIndex)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatMove(layout, mv))
			return nil
		},
	}

	cmd.Flags().StringVar(&task, "task", "", "Task ID, ID prefix or title")
	cmd.Flags().StringVar(&from, "from", "", "Source column")
	cmd.Flags().IntVar(&fromIndex, "from-index", 0, "Position in the source column")
	cmd.Flags().StringVar(&to, "to", "", "Destination column")
	cmd.Flags().IntVar(&toIndex, "to-index", -1, "Position in the destination column (default: end)")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newBoardTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui <project>",
		Short: "Rearrange a board interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("board tui needs an interactive terminal")
			}
			ctx := cmd.Context()
			p, err := app.Projects.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			m, err := newBoardModel(ctx, app.Boards, p)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}
}
