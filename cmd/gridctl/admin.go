package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gridiron/internal/config"
	domainerrors "gridiron/internal/errors"
	"gridiron/internal/models"
	"gridiron/internal/repositories"
	"gridiron/internal/services/auth"
	"gridiron/internal/services/wallet"
)

func seedAdminCmd(a *app) *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the admin account if it does not exist",
		Long: `Create an admin user and its wallet. Credentials default to the
ADMIN_EMAIL and ADMIN_PASSWORD environment variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				email = config.GetEnv("ADMIN_EMAIL", "")
			}
			if password == "" {
				password = config.GetEnv("ADMIN_PASSWORD", "")
			}
			if email == "" || password == "" {
				return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment or passed as flags")
			}

			users := repositories.NewUserRepository(a.db, a.cache, a.log)
			wallets := wallet.NewService(repositories.NewStore(a.db), a.cache, depositCurrency(a), a.log)
			// token issuing is never reached from Register
			svc := auth.NewService(users, wallets, auth.NewTokenIssuer(config.JWTConfig{}), a.log)

			user, err := svc.Register(cmd.Context(), auth.RegisterInput{
				Email:    email,
				Password: password,
				Name:     name,
				Role:     models.RoleAdmin,
			})
			if errors.Is(err, domainerrors.ErrEmailTaken) {
				fmt.Fprintln(cmd.OutOrStdout(), "admin user already exists")
				return nil
			}
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "admin account %s created (id %d)\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email (default $ADMIN_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "admin password (default $ADMIN_PASSWORD)")
	cmd.Flags().StringVar(&name, "name", "Administrator", "display name")
	return cmd
}

func depositCurrency(a *app) string {
	if a.cfg != nil && a.cfg.Deposits.Currency != "" {
		return a.cfg.Deposits.Currency
	}
	return "USD"
}
