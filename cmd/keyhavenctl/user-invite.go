package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/keyhaven/keyhaven/pkg/db"
	"github.com/keyhaven/keyhaven/pkg/model"
	gormstore "github.com/keyhaven/keyhaven/pkg/server/store/gorm"
)

// userInviteCmd represents the user invite command
var userInviteCmd = &cobra.Command{
	Use:   "invite <email>",
	Short: "Invite a user",
	Long: `Invite a user by creating a pending account for their email.

The account is activated on their first external-identity login. Use this to
bootstrap the first administrator.

Example:
  keyhavenctl user invite admin@example.com --role admin`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		email := strings.ToLower(strings.TrimSpace(args[0]))
		role, _ := cmd.Flags().GetString("role")
		name, _ := cmd.Flags().GetString("name")

		if err := inviteUser(email, name, role); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to invite user: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	userCmd.AddCommand(userInviteCmd)
	userInviteCmd.Flags().StringP("role", "r", model.RoleContributor, "role for the new user")
	userInviteCmd.Flags().StringP("name", "n", "", "display name")
}

func inviteUser(email, name, role string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !model.ValidRole(role) {
		return fmt.Errorf("unknown role %q", role)
	}

	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}
	users := gormstore.NewUsersStore(database)

	existing, err := users.FindByEmail(email)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("user %s already exists", email)
	}

	user := &model.User{
		ID:     uuid.NewString(),
		Email:  email,
		Name:   name,
		Role:   role,
		Status: model.StatusPending,
	}
	if err := users.Create(user); err != nil {
		return err
	}

	fmt.Printf("Invited %s as %s (pending until first login)\n", email, role)
	return nil
}
