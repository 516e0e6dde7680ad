package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/keyhaven/keyhaven/pkg/db"
	"github.com/keyhaven/keyhaven/pkg/model"
	gormstore "github.com/keyhaven/keyhaven/pkg/server/store/gorm"
)

// userRoleCmd represents the user role command
var userRoleCmd = &cobra.Command{
	Use:   "role <email> <role>",
	Short: "Change a user's role",
	Long: `Change a user's role.

Example:
  keyhavenctl user role dev@example.com manager`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		email := strings.ToLower(strings.TrimSpace(args[0]))
		role := args[1]

		if err := setUserRole(email, role); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to change role: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	userCmd.AddCommand(userRoleCmd)
}

func setUserRole(email, role string) error {
	if !model.ValidRole(role) {
		return fmt.Errorf("unknown role %q", role)
	}

	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}
	users := gormstore.NewUsersStore(database)

	user, err := users.FindByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("no user with email %s", email)
	}

	user.Role = role
	if err := users.Update(user); err != nil {
		return err
	}

	fmt.Printf("Set role of %s to %s\n", email, role)
	return nil
}
