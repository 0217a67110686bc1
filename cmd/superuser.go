package cmd

import (
	"errors"
	"fmt"

	"skilldev_backend/internal/app"
	"skilldev_backend/internal/model"
	"skilldev_backend/internal/service"

	"github.com/spf13/cobra"
)

var superuserCmd = &cobra.Command{
	Use:   "create-superuser",
	Short: "Create an admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		role, _ := cmd.Flags().GetString("role")

		userRole := model.UserRole(role)
		if userRole != model.Admin && userRole != model.Instructor {
			return fmt.Errorf("unsupported role %q", role)
		}
		if len(password) < 8 {
			return errors.New("password must be at least 8 characters")
		}

		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		application, err := app.Bootstrap(cfg, "", true)
		if err != nil {
			return err
		}
		defer application.Close()

		user, err := application.Services.Auth.CreateUser(service.RegisterRequest{
			Username: username,
			Email:    email,
			Password: password,
		}, userRole)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (id %d)\n", user.Role, user.Username, user.ID)
		return nil
	},
}

func init() {
	superuserCmd.Flags().String("username", "", "Login name")
	superuserCmd.Flags().String("email", "", "Email address")
	superuserCmd.Flags().String("password", "", "Password (min 8 characters)")
	superuserCmd.Flags().String("role", string(model.Admin), "admin or instructor")
	_ = superuserCmd.MarkFlagRequired("username")
	_ = superuserCmd.MarkFlagRequired("email")
	_ = superuserCmd.MarkFlagRequired("password")
}
