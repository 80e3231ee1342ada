package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/mealbook/internal/config"
	"github.com/theirongolddev/mealbook/internal/tui/theme"
)

// SetupValues is the editable state behind the setup form. Numeric fields
// are kept as text so the form can bind to them directly.
type SetupValues struct {
	User     string
	Price    string
	Budget   string
	Currency string
	Mode     string
	URL      string
	Token    string
	Theme    string
}

// SetupValuesFrom seeds the form from an existing config.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		User:     config.GetUser(cfg),
		Price:    strconv.FormatFloat(cfg.Meals.Price, 'f', -1, 64),
		Budget:   strconv.FormatFloat(cfg.Meals.Budget, 'f', -1, 64),
		Currency: cfg.Meals.Currency,
		Mode:     cfg.Backend.Mode,
		URL:      cfg.Backend.URL,
		Token:    cfg.Backend.Token,
		Theme:    cfg.Appearance.Theme,
	}
}

// Apply writes the form values into cfg and validates the result.
func (v SetupValues) Apply(cfg config.Config) (config.Config, error) {
	price, err := parseAmount(v.Price)
	if err != nil {
		return cfg, fmt.Errorf("price: %w", err)
	}
	budget, err := parseAmount(v.Budget)
	if err != nil {
		return cfg, fmt.Errorf("budget: %w", err)
	}

	cfg.General.User = strings.TrimSpace(v.User)
	cfg.Meals.Price = price
	cfg.Meals.Budget = budget
	cfg.Meals.Currency = strings.TrimSpace(v.Currency)
	cfg.Backend.Mode = v.Mode
	if v.Mode == config.ModeRemote {
		cfg.Backend.URL = strings.TrimSpace(v.URL)
		cfg.Backend.Token = strings.TrimSpace(v.Token)
	}
	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
	}
	return cfg, cfg.Validate()
}

func parseAmount(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.New("must be a number")
	}
	if f < 0 {
		return 0, errors.New("must not be negative")
	}
	return f, nil
}

func validAmount(s string) error {
	_, err := parseAmount(s)
	return err
}

// NewSetupForm builds the first-run form. Values are written into v as the
// user edits; call v.Apply once the form completes.
func NewSetupForm(v *SetupValues) *huh.Form {
	themeOpts := huh.NewOptions(theme.Names()...)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to mealbook").
				Description("Track breakfast and dinner against a budget.\nThese settings can be changed later with `mealbook setup`."),
			huh.NewInput().
				Title("Your name").
				Description("Rows are stored under this owner in local mode.").
				Value(&v.User).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("a name is required")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().Title("Price per meal").Value(&v.Price).Validate(validAmount),
			huh.NewInput().Title("Budget").Value(&v.Budget).Validate(validAmount),
			huh.NewInput().Title("Currency symbol").CharLimit(4).Value(&v.Currency),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Where should meals be stored?").
				Options(
					huh.NewOption("On this machine (SQLite)", config.ModeLocal),
					huh.NewOption("A mealbook server", config.ModeRemote),
				).
				Value(&v.Mode),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Server URL").
				Placeholder("http://127.0.0.1:8740").
				Value(&v.URL).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("remote mode needs a server URL")
					}
					return nil
				}),
			huh.NewInput().
				Title("Access token").
				Description("Ask the server operator to run `mealbook token <user>`.").
				EchoMode(huh.EchoModePassword).
				Value(&v.Token),
		).WithHideFunc(func() bool { return v.Mode != config.ModeRemote }),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&v.Theme),
		),
	).WithShowHelp(false)
}
