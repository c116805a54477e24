package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/workboard/internal/cli/formatter"
	"github.com/alexanderramin/workboard/internal/domain"
)

func newNotifyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notify",
		Aliases: []string{"notifications"},
		Short:   "Read and clear notifications",
	}

	cmd.AddCommand(
		newNotifyListCmd(app),
		newNotifyReadCmd(app),
		newNotifyClearCmd(app),
	)

	return cmd
}

func newNotifyListCmd(app *App) *cobra.Command {
	var unread bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := app.Notifications.List(cmd.Context(), unread)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatNotifications(list))
			return nil
		},
	}

	cmd.Flags().BoolVar(&unread, "unread", false, "Only unread notifications")
	return cmd
}

func newNotifyReadCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "read [notification]",
		Short: "Mark a notification (or --all) as read",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if all == (len(args) == 1) {
				return fmt.Errorf("pass a notification ID or --all")
			}
			// --all only needs the unread ones.
			list, err := app.Notifications.List(ctx, all)
			if err != nil {
				return err
			}
			if !all {
				n, err := resolveNotification(list, args[0])
				if err != nil {
					return err
				}
				list = []*domain.Notification{n}
			}
			for _, n := range list {
				if err := app.Notifications.MarkRead(ctx, n.ID); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %d notification(s) read\n", len(list))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Mark every unread notification read")
	return cmd
}

func newNotifyClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Notifications.ClearAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Notifications cleared.")
			return nil
		},
	}
}
