package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func withPath(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "nested", "config.toml")
	SetPath(p)
	t.Cleanup(func() { SetPath("") })
	return p
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	withPath(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Meals.Price != 40 || cfg.Meals.Budget != 1000 {
		t.Errorf("meals = %+v, want price 40 budget 1000", cfg.Meals)
	}
	if cfg.Backend.Mode != ModeLocal {
		t.Errorf("Backend.Mode = %q, want %q", cfg.Backend.Mode, ModeLocal)
	}
	if Exists() {
		t.Error("Exists() = true before Save")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	p := withPath(t)

	cfg := DefaultConfig()
	cfg.General.User = "alice"
	cfg.Meals.Price = 12.5
	cfg.Backend.Mode = ModeRemote
	cfg.Backend.URL = "http://localhost:8740"
	cfg.Server.Store = StoreMongo
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(p)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config perm = %o, want 600", perm)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != cfg {
		t.Fatalf("Load = %+v, want %+v", got, cfg)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	p := withPath(t)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("[meals]\nbudget = 500\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Meals.Budget != 500 {
		t.Errorf("Budget = %v, want 500", cfg.Meals.Budget)
	}
	if cfg.Meals.Price != 40 {
		t.Errorf("Price = %v, want default 40", cfg.Meals.Price)
	}
}

func TestLoad_Malformed(t *testing.T) {
	p := withPath(t)
	_ = os.MkdirAll(filepath.Dir(p), 0o755)
	_ = os.WriteFile(p, []byte("[meals\n"), 0o600)

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Fatalf("err = %v, want parsing error", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.General.User = "from-file"
	cfg.Backend.Token = "file-token"
	cfg.Server.JWTSecret = "file-secret"

	t.Setenv("MEALBOOK_USER", "")
	t.Setenv("MEALBOOK_TOKEN", "")
	t.Setenv("MEALBOOK_JWT_SECRET", "")
	if GetUser(cfg) != "from-file" || GetToken(cfg) != "file-token" || GetJWTSecret(cfg) != "file-secret" {
		t.Fatal("config values not used when env is empty")
	}

	t.Setenv("MEALBOOK_USER", "env-user")
	t.Setenv("MEALBOOK_TOKEN", "env-token")
	t.Setenv("MEALBOOK_JWT_SECRET", "env-secret")
	if got := GetUser(cfg); got != "env-user" {
		t.Errorf("GetUser = %q, want env-user", got)
	}
	if got := GetToken(cfg); got != "env-token" {
		t.Errorf("GetToken = %q, want env-token", got)
	}
	if got := GetJWTSecret(cfg); got != "env-secret" {
		t.Errorf("GetJWTSecret = %q, want env-secret", got)
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Backend.Mode = ModeRemote
	cfg.Server.Store = "postgres"
	cfg.General.DefaultDays = 5000
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate succeeded, want errors")
	}
	for _, want := range []string{"backend.url", "server.store", "general.default_days"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestMealsDecimal(t *testing.T) {
	m := MealsConfig{Price: 12.5, Budget: 300}
	if got := m.MealPrice().String(); got != "12.5" {
		t.Errorf("MealPrice = %s, want 12.5", got)
	}
	if got := m.BudgetAmount().String(); got != "300" {
		t.Errorf("BudgetAmount = %s, want 300", got)
	}
	if m.Symbol() != "$" {
		t.Errorf("Symbol = %q, want $", m.Symbol())
	}
}
