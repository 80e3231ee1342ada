package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestNew_Levels(t *testing.T) {
	logger, err := New(Options{Level: "warn"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if logger.Core().Enabled(zap.InfoLevel) {
		t.Error("info enabled at warn level")
	}
	if !logger.Core().Enabled(zap.WarnLevel) {
		t.Error("warn disabled at warn level")
	}

	prod, err := New(Options{Production: true})
	if err != nil {
		t.Fatalf("New production: %v", err)
	}
	if prod.Core().Enabled(zap.DebugLevel) {
		t.Error("production logger has debug enabled")
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New(Options{Level: "chatty"}); err == nil {
		t.Fatal("New accepted an unknown level")
	}
}

func TestCLI(t *testing.T) {
	if CLI(false).Core().Enabled(zap.DebugLevel) {
		t.Error("quiet CLI logger has debug enabled")
	}
	if !CLI(true).Core().Enabled(zap.DebugLevel) {
		t.Error("verbose CLI logger has debug disabled")
	}
}
