package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/ballotworks/election-api/internal/core/domain"
	"github.com/ballotworks/election-api/internal/core/ports"
)

// cliActor is the identity used for operator commands run from a shell.
var cliActor = domain.Identity{UserID: "cli", Role: domain.RoleSuperAdmin}

func createUserCommand() *cobra.Command {
	var (
		name, email, password, role string
		status                      string
		constituencyID, boothID     string
	)
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account; used to bootstrap the first superadmin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig(cmd.Context())
			if err != nil {
				return err
			}
			log := commonRun(cfg)

			a, err := openApp(cmd.Context(), cfg, log, false)
			if err != nil {
				return err
			}
			defer a.close()

			user, err := a.userService.CreateUser(cmd.Context(), ports.CreateUserInput{
				Actor:          cliActor,
				Name:           name,
				Email:          email,
				Password:       password,
				Role:           domain.Role(role),
				Status:         domain.UserStatus(status),
				ConstituencyID: constituencyID,
				BoothID:        boothID,
			})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(user)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "initial password (min 8 characters)")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleSuperAdmin), "superadmin, admin or voter")
	cmd.Flags().StringVar(&status, "status", string(domain.UserActive), "Active, Inactive or Pending")
	cmd.Flags().StringVar(&constituencyID, "constituency", "", "constituency id")
	cmd.Flags().StringVar(&boothID, "booth", "", "booth id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
