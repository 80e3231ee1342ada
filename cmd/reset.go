package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	flagResetYes  bool
	flagForgetYes bool
	flagForgetAll bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear every meal in the range, keeping the day rows",
	RunE:  runReset,
}

var forgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Delete ledger rows in the range (or all with --all)",
	RunE:  runForget,
}

func init() {
	resetCmd.Flags().BoolVarP(&flagResetYes, "yes", "y", false, "Confirm the reset")
	forgetCmd.Flags().BoolVarP(&flagForgetYes, "yes", "y", false, "Confirm the deletion")
	forgetCmd.Flags().BoolVar(&flagForgetAll, "all", false, "Delete every row you own, ignoring --from/--to")
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(forgetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	rng, err := resolveRange(s.cfg, time.Now())
	if err != nil {
		return err
	}
	if !flagResetYes {
		return fmt.Errorf("reset clears every meal from %s; re-run with --yes", rng.String())
	}

	if err := s.svc.Reset(cmd.Context(), s.owner, &rng); err != nil {
		return err
	}
	fmt.Printf("  Cleared meals for %s (%s)\n", s.owner, rng.String())
	return nil
}

func runForget(cmd *cobra.Command, _ []string) error {
	if !flagForgetYes {
		return errors.New("forget permanently deletes rows; re-run with --yes")
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	if flagForgetAll {
		if err := s.svc.Forget(cmd.Context(), s.owner, nil); err != nil {
			return err
		}
		fmt.Printf("  Deleted every row for %s\n", s.owner)
		return nil
	}

	rng, err := resolveRange(s.cfg, time.Now())
	if err != nil {
		return err
	}
	if err := s.svc.Forget(cmd.Context(), s.owner, &rng); err != nil {
		return err
	}
	fmt.Printf("  Deleted rows for %s (%s)\n", s.owner, rng.String())
	return nil
}
