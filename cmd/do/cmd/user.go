package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/lifeplan/internal/model"
	"github.com/templui/lifeplan/internal/service"
)

func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	cmd.AddCommand(userCreateCmd())
	cmd.AddCommand(userPromoteCmd())
	cmd.AddCommand(userDeactivateCmd())
	return cmd
}

func userCreateCmd() *cobra.Command {
	var in service.SignupInput
	var admin bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user without sending a welcome email",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUserService(cmd.Context(), func(ctx context.Context, users *service.UserService) (*model.User, error) {
				return users.Create(ctx, in, admin)
			})
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Password, "password", "", "initial password")
	cmd.Flags().BoolVar(&admin, "admin", false, "grant the admin role")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("password")
	return cmd
}

func userPromoteCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Grant the admin role",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUserService(cmd.Context(), func(ctx context.Context, users *service.UserService) (*model.User, error) {
				return users.Promote(ctx, email)
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.MarkFlagRequired("email")
	return cmd
}

func userDeactivateCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "deactivate",
		Short: "Block sign-in for an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withUserService(cmd.Context(), func(ctx context.Context, users *service.UserService) (*model.User, error) {
				return users.Deactivate(ctx, email)
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.MarkFlagRequired("email")
	return cmd
}

func withUserService(ctx context.Context, run func(context.Context, *service.UserService) (*model.User, error)) error {
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	user, err := run(ctx, a.UserService)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> role=%s active=%t\n", user.Name, user.Email, user.Role, user.IsActive)
	return nil
}
