package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/mealbook/internal/auth"
	"github.com/theirongolddev/mealbook/internal/config"
)

var flagTokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token USER",
	Short: "Mint a bearer token for the ledger server",
	Long:  "Sign a token for USER with the configured server secret (server.jwt_secret or MEALBOOK_JWT_SECRET).",
	Args:  cobra.ExactArgs(1),
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().DurationVar(&flagTokenTTL, "ttl", 30*24*time.Hour, "Token lifetime (0 for no expiry)")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(_ *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	issuer, err := auth.NewIssuer(config.GetJWTSecret(cfg))
	if err != nil {
		return err
	}
	token, err := issuer.Issue(args[0], flagTokenTTL)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
