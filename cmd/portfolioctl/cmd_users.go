package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"portfolio/models"
	"portfolio/repositories"
)

var (
	setRoleEmail string
	setRoleValue string
)

var setRoleCmd = &cobra.Command{
	Use:   "set-role",
	Short: "Change a user's role (ADMIN or VIEWER)",
	Long: `set-role looks the user up by email and sets the role directly.
The user must have signed in at least once so that the account exists.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := parseRole(setRoleValue)
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		return withDatabase(ctx, func(d *mongo.Database) error {
			users := repositories.NewUserRepository(d)
			u, err := users.FindByEmail(ctx, setRoleEmail)
			if errors.Is(err, repositories.ErrNotFound) {
				return fmt.Errorf("no user with email %s", setRoleEmail)
			}
			if err != nil {
				return err
			}
			updated, err := users.UpdateRole(ctx, u.ID, role)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): %s -> %s\n", updated.Email, updated.ID.Hex(), u.Role, updated.Role)
			return nil
		})
	},
}

func init() {
	setRoleCmd.Flags().StringVar(&setRoleEmail, "email", "", "Email of the user to change")
	setRoleCmd.Flags().StringVar(&setRoleValue, "role", "", "New role: ADMIN or VIEWER")
	_ = setRoleCmd.MarkFlagRequired("email")
	_ = setRoleCmd.MarkFlagRequired("role")
}

// parseRole 은 대소문자를 가리지 않는다.
func parseRole(s string) (models.Role, error) {
	role := models.Role(strings.ToUpper(strings.TrimSpace(s)))
	if !role.Valid() {
		return "", fmt.Errorf("invalid role %q (want ADMIN or VIEWER)", s)
	}
	return role, nil
}
