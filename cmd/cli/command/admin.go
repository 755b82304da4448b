package command

import (
	"context"
	"fmt"
	"time"

	"foodgram/database"
	"foodgram/internal/http-api/repository"
	"foodgram/internal/http-api/service"

	"github.com/spf13/cobra"
)

var adminInput service.RegisterInput

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a user with the admin role",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		users := service.NewUserService(repository.NewUserRepository(db), nil, 0)
		user, err := users.CreateAdmin(ctx, adminInput)
		if err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}

		fmt.Println("✓ Admin created successfully!")
		fmt.Printf("ID: %d\n", user.ID)
		fmt.Printf("Username: %s\n", user.Username)
		return nil
	},
}

var clearTokensCmd = &cobra.Command{
	Use:   "clear-tokens",
	Short: "Delete auth tokens that have already expired",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		n, err := repository.NewTokenRepository(db).DeleteExpired(ctx, time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("✓ Removed %d expired tokens\n", n)
		return nil
	},
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&adminInput.Email, "email", "", "admin email (required)")
	f.StringVar(&adminInput.Username, "username", "", "admin username (required)")
	f.StringVar(&adminInput.FirstName, "first-name", "Admin", "first name")
	f.StringVar(&adminInput.LastName, "last-name", "Admin", "last name")
	f.StringVar(&adminInput.Password, "password", "", "admin password (required)")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(clearTokensCmd)
}
