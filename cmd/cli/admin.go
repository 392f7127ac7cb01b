package cli

import (
	"errors"
	"fmt"

	"go-appointment-booking/cmd/bootstrap"
	"go-appointment-booking/config"
	"go-appointment-booking/internal/domain/entity"
	"go-appointment-booking/internal/infrastructure/database"
	"go-appointment-booking/internal/repository"

	"github.com/spf13/cobra"
)

func newAdminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative tasks",
	}

	var email string
	grant := &cobra.Command{
		Use:   "grant",
		Short: "Grant the admin role to an existing user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return errors.New("--email is required")
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			log := bootstrap.NewLogger(cfg.App.LogLevel)

			db, err := database.NewPostgresConnection(cfg)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			user, err := repository.NewUserRepository().FindByEmail(db, email)
			if err != nil {
				return err
			}
			if user == nil {
				return fmt.Errorf("no user with email %s", email)
			}

			roleRepo := repository.NewRoleRepository()
			roles, err := roleRepo.FindRolesByUserID(db, user.ID)
			if err != nil {
				return err
			}
			for _, role := range roles {
				if role == entity.RoleAdmin {
					log.Infof("User %s is already an admin", email)
					return nil
				}
			}

			if err := roleRepo.AssignRole(db, user.ID, entity.RoleAdmin); err != nil {
				return err
			}
			log.Infof("Granted admin role to %s", email)
			return nil
		},
	}
	grant.Flags().StringVar(&email, "email", "", "email of the user to promote")

	cmd.AddCommand(grant)
	return cmd
}
