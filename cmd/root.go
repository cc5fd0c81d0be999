package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func Execute(ctx context.Context) {
	rootCmd := &cobra.Command{
		Use:           "zenitwms",
		Short:         "ZenitWMS warehouse management service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	MigrateCmd.Flags().String("dir", "", "Directory containing the migration files (defaults to MIGRATIONS_DIR)")
	TokenCmd.Flags().String("sub", "dev-user", "Subject of the token")
	TokenCmd.Flags().String("email", "dev@zenitwms.local", "Email claim")
	TokenCmd.Flags().String("name", "Developer", "Name claim")
	TokenCmd.Flags().String("role", "admin", "Role claim (viewer, operator, admin)")
	TokenCmd.Flags().Duration("ttl", 0, "Token lifetime (defaults to 12h)")

	rootCmd.AddCommand(ServeCmd, MigrateCmd, TokenCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
