package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/mealbook/internal/config"
	"github.com/theirongolddev/mealbook/internal/tui"
	"github.com/theirongolddev/mealbook/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive ledger",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Backend changes made in the first-run form apply from the next launch.
	needSetup := !config.Exists()

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	theme.SetActive(s.cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	rng, err := resolveRange(s.cfg, time.Now())
	if err != nil {
		return err
	}

	opts := tui.Options{
		Service:   s.svc,
		Config:    s.cfg,
		Range:     rng,
		NeedSetup: needSetup,
	}
	if s.remote != nil {
		opts.Feed = s.remote
	}

	p := tea.NewProgram(tui.NewApp(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
