package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/mealbook/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("  Problems:\n    %v\n", err)
	}
	fmt.Println()

	fmt.Println("  [General]")
	if user := config.GetUser(cfg); user != "" {
		fmt.Printf("    User:         %s\n", user)
	} else {
		fmt.Println("    User:         not configured")
	}
	if cfg.General.DefaultDays > 0 {
		fmt.Printf("    Default days: %d\n", cfg.General.DefaultDays)
	} else {
		fmt.Println("    Default days: current month")
	}
	fmt.Printf("    Week start:   %s\n", cfg.General.WeekStart)
	fmt.Println()

	fmt.Println("  [Meals]")
	fmt.Printf("    Price:  %s%s\n", cfg.Meals.Symbol(), cfg.Meals.MealPrice().StringFixed(2))
	fmt.Printf("    Budget: %s%s\n", cfg.Meals.Symbol(), cfg.Meals.BudgetAmount().StringFixed(2))
	fmt.Println()

	fmt.Println("  [Backend]")
	fmt.Printf("    Mode:  %s\n", cfg.Backend.Mode)
	if cfg.Backend.Mode == config.ModeRemote {
		fmt.Printf("    URL:   %s\n", cfg.Backend.URL)
		if token := config.GetToken(cfg); token != "" {
			fmt.Printf("    Token: %s\n", maskSecret(token))
		} else {
			fmt.Println("    Token: not configured")
		}
	} else {
		fmt.Printf("    Database: %s\n", config.DBPath(cfg))
	}
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address: %s\n", cfg.Server.Addr)
	fmt.Printf("    Store:   %s\n", cfg.Server.Store)
	if cfg.Server.Store == config.StoreMongo {
		fmt.Printf("    MongoDB: %s / %s\n", maskSecret(cfg.Server.MongoURI), cfg.Server.MongoDatabase)
	}
	if secret := config.GetJWTSecret(cfg); secret != "" {
		fmt.Printf("    JWT secret: %s\n", maskSecret(secret))
	} else {
		fmt.Println("    JWT secret: not configured")
	}
	fmt.Printf("    Rate limit: %d req/min\n", cfg.Server.RequestsPerMin)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `mealbook setup` to reconfigure.")
	return nil
}

func maskSecret(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
