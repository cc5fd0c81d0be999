package cmd

import (
	"fmt"
	"time"

	"github.com/lucasz92/zenitwms-sub000/internal/core/config"
	"github.com/lucasz92/zenitwms-sub000/pkg/models"
	"github.com/lucasz92/zenitwms-sub000/pkg/roles"
	"github.com/lucasz92/zenitwms-sub000/pkg/security"

	"github.com/spf13/cobra"
)

const defaultTokenTTL = 12 * time.Hour

// TokenCmd signs a token with AUTH_JWT_SECRET for local development.
var TokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a development identity token.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.AuthJWTSecret == "" {
			return fmt.Errorf("AUTH_JWT_SECRET environment variable is not set")
		}

		flags := cmd.Flags()
		sub, _ := flags.GetString("sub")
		email, _ := flags.GetString("email")
		name, _ := flags.GetString("name")
		role, _ := flags.GetString("role")
		ttl, _ := flags.GetDuration("ttl")
		if ttl <= 0 {
			ttl = defaultTokenTTL
		}
		if !roles.Role(role).IsValid() {
			return fmt.Errorf("unknown role %q", role)
		}

		token, err := security.GenerateJWT(cfg.AuthJWTSecret, models.User{
			ID:    sub,
			Email: email,
			Name:  name,
			Role:  role,
		}, ttl)
		if err != nil {
			return fmt.Errorf("sign token: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}
