package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/mealbook/internal/cli"
	"github.com/theirongolddev/mealbook/internal/ledger"
	"github.com/theirongolddev/mealbook/internal/model"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle DATE SLOT",
	Short: "Flip breakfast or dinner for one day",
	Example: `  mealbook toggle 2024-03-04 breakfast
  mealbook toggle 2024-03-04 d`,
	Args: cobra.ExactArgs(2),
	RunE: runToggle,
}

func init() {
	rootCmd.AddCommand(toggleCmd)
}

func runToggle(cmd *cobra.Command, args []string) error {
	day, err := model.ParseDate(args[0])
	if err != nil {
		return err
	}
	slot, err := model.ParseSlot(args[1])
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	rng := model.NewRange(day, day)
	view, err := s.svc.Reconcile(cmd.Context(), s.owner, &rng)
	if err != nil {
		return err
	}

	rec, err := s.svc.Toggle(cmd.Context(), view[0], slot)
	if err != nil {
		return err
	}

	ds := ledger.SummarizeDay(rec, s.cfg.Meals.MealPrice())
	fmt.Printf("  %s %s  breakfast %s  dinner %s  %s\n",
		model.FormatDate(rec.Date),
		cli.FormatDayOfWeek(rec.Date),
		cli.FormatMark(rec.Breakfast),
		cli.FormatMark(rec.Dinner),
		cli.FormatMoney(ds.Cost, s.cfg.Meals.Symbol()),
	)
	return nil
}
