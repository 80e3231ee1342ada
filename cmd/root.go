// Package cmd implements the mealbook CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/mealbook/internal/config"
	"github.com/theirongolddev/mealbook/internal/ledger"
	"github.com/theirongolddev/mealbook/internal/logging"
	"github.com/theirongolddev/mealbook/internal/model"
	"github.com/theirongolddev/mealbook/internal/remote"
	"github.com/theirongolddev/mealbook/internal/store"
)

var (
	flagFrom    string
	flagTo      string
	flagConfig  string
	flagQuiet   bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "mealbook",
	Short: "Meal purchase ledger",
	Long:  "Track breakfast and dinner purchases per day and compare the spend against a budget.",
	RunE:  runShow,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagConfig != "" {
			config.SetPath(flagConfig)
		}
	},
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFrom, "from", "", "First day of the range (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&flagTo, "to", "", "Last day of the range (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug events to stderr")
}

// session bundles what every ledger command needs.
type session struct {
	cfg    config.Config
	svc    *ledger.Service
	owner  string
	remote *remote.Client
	log    *zap.Logger
	close  func()
}

// openSession loads config, opens the configured backend and resolves the
// current owner.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", config.Path(), err)
	}

	log := logging.CLI(flagVerbose)
	s := &session{cfg: cfg, log: log}

	switch cfg.Backend.Mode {
	case config.ModeRemote:
		client, err := remote.NewClient(cfg.Backend.URL, config.GetToken(cfg))
		if err != nil {
			return nil, err
		}
		s.remote = client
		s.svc = ledger.NewService(client, ledger.WithLogger(log), ledger.WithIdentity(client))
		s.close = func() { _ = log.Sync() }
	default:
		path := config.DBPath(cfg)
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Opening %s\n", path)
		}
		db, err := store.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening ledger: %w", err)
		}
		s.svc = ledger.NewService(db,
			ledger.WithLogger(log),
			ledger.WithIdentity(ledger.StaticIdentity(config.GetUser(cfg))))
		s.close = func() {
			_ = db.Close()
			_ = log.Sync()
		}
	}

	owner, err := s.svc.CurrentUser(cmd.Context())
	if err != nil {
		s.close()
		if errors.Is(err, ledger.ErrUnauthenticated) && cfg.Backend.Mode == config.ModeLocal {
			return nil, fmt.Errorf("%w: set general.user or MEALBOOK_USER (run `mealbook setup`)", err)
		}
		return nil, err
	}
	s.owner = owner
	return s, nil
}

// resolveRange turns --from/--to into a range. Without flags it falls back
// to general.default_days, or the current month when that is zero.
func resolveRange(cfg config.Config, now time.Time) (model.Range, error) {
	if flagFrom == "" && flagTo == "" {
		if cfg.General.DefaultDays > 0 {
			return model.LastNDays(now, cfg.General.DefaultDays), nil
		}
		return model.MonthRange(now), nil
	}

	start, end := now, now
	var err error
	if flagFrom != "" {
		if start, err = model.ParseDate(flagFrom); err != nil {
			return model.Range{}, fmt.Errorf("--from: %w", err)
		}
	}
	if flagTo != "" {
		if end, err = model.ParseDate(flagTo); err != nil {
			return model.Range{}, fmt.Errorf("--to: %w", err)
		}
	}
	if flagTo == "" {
		end = model.MonthRange(start).End
	}
	if flagFrom == "" {
		start = model.MonthRange(end).Start
	}

	r := model.NewRange(start, end)
	if !r.Valid() {
		return model.Range{}, fmt.Errorf("%w: %s is after %s", ledger.ErrInvalidRange,
			model.FormatDate(start), model.FormatDate(end))
	}
	if r.TooLong() {
		return model.Range{}, fmt.Errorf("%w: %s spans %d days, max %d", ledger.ErrInvalidRange,
			r, r.Len(), model.MaxRangeDays)
	}
	return r, nil
}
