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

// userStatusCmd represents the user status command
var userStatusCmd = &cobra.Command{
	Use:   "status <email> <status>",
	Short: "Activate or deactivate a user",
	Long: `Activate or deactivate a user.

Deactivated users keep their history but can no longer log in.

Example:
  keyhavenctl user status gone@example.com inactive`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		email := strings.ToLower(strings.TrimSpace(args[0]))
		status := args[1]

		if err := setUserStatus(email, status); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to change status: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	userCmd.AddCommand(userStatusCmd)
}

func setUserStatus(email, status string) error {
	if !model.ValidUserStatus(status) {
		return fmt.Errorf("unknown status %q", status)
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

	user.Status = status
	if err := users.Update(user); err != nil {
		return err
	}

	fmt.Printf("Set status of %s to %s\n", email, status)
	return nil
}
