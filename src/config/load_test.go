package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Cars != MaxCars || cfg.Floors != MaxFloors || cfg.TickPeriod != DefaultTickPeriod ||
		cfg.StepDuration != DefaultStepDuration || cfg.PendingMode != PendingShared || cfg.Listen != DefaultListenAddr {
		t.Errorf("Load() = %+v, expected defaults", cfg)
	}
	if len(cfg.ID) != RigIDLen {
		t.Errorf("generated ID %q has length %d, expected %d", cfg.ID, len(cfg.ID), RigIDLen)
	}
	if cfg.StepTicks() != 20 {
		t.Errorf("StepTicks() = %d, expected 20", cfg.StepTicks())
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "rig.yaml", `
id: lab-rig
cars: 2
floors: 6
tick_period: 50ms
step_duration: 1s
pending_mode: per-car
listen: 127.0.0.1:6000
echo: true
log:
  level: debug
  file: rig.log
`)
	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	expected := Config{
		ID:           "lab-rig",
		Cars:         2,
		Floors:       6,
		TickPeriod:   50 * time.Millisecond,
		StepDuration: time.Second,
		PendingMode:  PendingPerCar,
		Listen:       "127.0.0.1:6000",
		Echo:         true,
		Log:          LogConfig{Level: "debug", File: "rig.log"},
	}
	if cfg != expected {
		t.Errorf("Load() = %+v, expected %+v", cfg, expected)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeFile(t, "rig.yaml", "id: from-yaml\nlisten: 127.0.0.1:6000\n")
	envPath := writeFile(t, ".env", "RIG_ID=from-env-file\nRIG_LISTEN=127.0.0.1:7000\nRIG_TICK_PERIOD=250ms\nRIG_ECHO=true\n")
	t.Setenv("RIG_ID", "from-process")

	cfg, err := Load(path, envPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ID != "from-process" {
		t.Errorf("ID = %q, expected the process environment to win", cfg.ID)
	}
	if cfg.Listen != "127.0.0.1:7000" {
		t.Errorf("Listen = %q, expected the .env value", cfg.Listen)
	}
	if cfg.TickPeriod != 250*time.Millisecond || !cfg.Echo {
		t.Errorf("TickPeriod = %v, Echo = %v", cfg.TickPeriod, cfg.Echo)
	}
	if cfg.StepTicks() != 8 {
		t.Errorf("StepTicks() = %d, expected 8", cfg.StepTicks())
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		env      string
		expected error
	}{
		{"no cars", "cars: 0\n", "", ErrNoCars},
		{"too many cars", "cars: 4\n", "", ErrTooManyCars},
		{"one floor", "floors: 1\n", "", ErrFloors},
		{"too many floors", "floors: 9\n", "", ErrFloors},
		{"zero step", "step_duration: 0s\n", "", ErrTiming},
		{"bad pending mode", "", "RIG_PENDING_MODE=global\n", ErrPendingMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "rig.yaml", "id: x\n"+tt.yaml)
			envPath := writeFile(t, ".env", tt.env)
			if _, err := Load(path, envPath); !errors.Is(err, tt.expected) {
				t.Errorf("Load() error = %v, expected %v", err, tt.expected)
			}
		})
	}
}

func TestLoadMalformedInput(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), ""); err == nil {
		t.Error("Load() with missing config file succeeded")
	}
	bad := writeFile(t, "rig.yaml", "cars: [1, 2\n")
	if _, err := Load(bad, ""); err == nil {
		t.Error("Load() with malformed YAML succeeded")
	}
	envPath := writeFile(t, ".env", "RIG_TICK_PERIOD=fast\n")
	if _, err := Load("", envPath); err == nil {
		t.Error("Load() with malformed RIG_TICK_PERIOD succeeded")
	}
}
