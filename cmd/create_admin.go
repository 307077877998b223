package cmd

import (
	"errors"
	"fmt"

	"rental-admin/app"
	"rental-admin/models"
	"rental-admin/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

var adminReq models.CreateAdminRequest

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Register an account with the admin role",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateAdminRequest(adminReq); err != nil {
			return err
		}

		a, err := app.New(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		user, err := a.Auth.CreateAdmin(cmd.Context(), adminReq)
		if err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}
		log.Info("admin created", logger.String("user_id", user.ID), logger.String("email", user.Email))
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminReq.Email, "email", "", "admin e-mail")
	createAdminCmd.Flags().StringVar(&adminReq.Password, "password", "", "admin password (min 6 characters)")
	createAdminCmd.Flags().StringVar(&adminReq.Name, "name", "", "display name")
}

// validateAdminRequest applies the same binding rules the HTTP layer uses.
func validateAdminRequest(req models.CreateAdminRequest) error {
	v := validator.New()
	v.SetTagName("binding")
	if err := v.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("invalid admin: %s", verrs.Error())
		}
		return err
	}
	return nil
}
