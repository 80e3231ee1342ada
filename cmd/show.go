package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/mealbook/internal/cli"
	"github.com/theirongolddev/mealbook/internal/ledger"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the ledger for a range of days",
	RunE:  runShow,
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show meal counts and budget for a range",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(summaryCmd)
}

func runShow(cmd *cobra.Command, _ []string) error {
	return renderLedger(cmd, true)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	return renderLedger(cmd, false)
}

func renderLedger(cmd *cobra.Command, withTable bool) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	rng, err := resolveRange(s.cfg, time.Now())
	if err != nil {
		return err
	}

	view, err := s.svc.Reconcile(cmd.Context(), s.owner, &rng)
	if err != nil {
		return err
	}

	price := s.cfg.Meals.MealPrice()
	symbol := s.cfg.Meals.Symbol()
	summary := ledger.Summarize(view, price, s.cfg.Meals.BudgetAmount())

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("MEALS  %s  %s", s.owner, rng.String())))
	fmt.Println()
	if withTable {
		fmt.Print(cli.RenderTable(cli.LedgerTable(ledger.SummarizeDays(view, price), symbol)))
		fmt.Println()
	}
	fmt.Print(cli.RenderSummary(summary, symbol))
	fmt.Println()
	return nil
}
