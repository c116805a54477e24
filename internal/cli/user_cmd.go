package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/workboard/internal/cli/formatter"
	"github.com/alexanderramin/workboard/internal/domain"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users and roles",
	}

	cmd.AddCommand(
		newUserAddCmd(app),
		newUserListCmd(app),
		newUserToggleRoleCmd(app),
		newUserRemoveCmd(app),
	)

	return cmd
}

func newUserAddCmd(app *App) *cobra.Command {
	var name, email, role string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := domain.ParseRole(role)
			if err != nil {
				return err
			}
			u := &domain.User{Name: name, Email: email, Role: r}
			if err := app.Users.Create(cmd.Context(), u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s <%s> as %s\n", u.Name, u.Email, u.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleEmployee), "Admin, Manager or Employee")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newUserListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Users.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(users) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No users found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatUserList(users))
			return nil
		},
	}
}

func newUserToggleRoleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-role <user>",
		Short: "Switch a user between Employee and Manager",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			users, err := app.Users.List(ctx)
			if err != nil {
				return err
			}
			u, err := resolveUser(users, args[0])
			if err != nil {
				return err
			}
			updated, err := app.Users.ToggleRole(ctx, u.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", updated.Name, updated.Role)
			return nil
		},
	}
}

func newUserRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <user>",
		Short: "Remove a user by ID, ID prefix or email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			users, err := app.Users.List(ctx)
			if err != nil {
				return err
			}
			u, err := resolveUser(users, args[0])
			if err != nil {
				return err
			}
			if err := app.Users.Delete(ctx, u.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", u.Name)
			return nil
		},
	}
}
