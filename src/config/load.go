package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/xyproto/randomstring"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoCars      = errors.New("rig needs at least one car")
	ErrTooManyCars = fmt.Errorf("rig supports at most %d cars", MaxCars)
	ErrFloors      = fmt.Errorf("floor count must be between 2 and %d", MaxFloors)
	ErrTiming      = errors.New("tick period and step duration must be positive")
	ErrPendingMode = errors.New("unknown pending mode")
)

// Load reads the rig configuration.
//   - starts from Default()
//   - decodes the YAML file at path, if path is not empty
//   - applies RIG_* overrides from the .env file at envPath and the process environment
//   - generates a random rig id when none is set
func Load(path, envPath string) (Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	env, err := readEnv(envPath)
	if err != nil {
		return cfg, err
	}
	if err := applyEnv(&cfg, env); err != nil {
		return cfg, err
	}

	if cfg.ID == "" {
		cfg.ID = randomstring.EnglishFrequencyString(RigIDLen)
	}
	return cfg, cfg.Validate()
}

func (cfg Config) Validate() error {
	switch {
	case cfg.Cars < 1:
		return ErrNoCars
	case cfg.Cars > MaxCars:
		return fmt.Errorf("%w: got %d", ErrTooManyCars, cfg.Cars)
	case cfg.Floors < 2 || cfg.Floors > MaxFloors:
		return fmt.Errorf("%w: got %d", ErrFloors, cfg.Floors)
	case cfg.TickPeriod <= 0 || cfg.StepDuration <= 0:
		return ErrTiming
	}
	switch cfg.PendingMode {
	case PendingShared, PendingPerCar:
	default:
		return fmt.Errorf("%w: %q", ErrPendingMode, cfg.PendingMode)
	}
	return nil
}

// StepTicks is the number of ticks a car needs to travel one floor.
func (cfg Config) StepTicks() int {
	return int((cfg.StepDuration + cfg.TickPeriod - 1) / cfg.TickPeriod)
}

func readEnv(envPath string) (map[string]string, error) {
	if envPath == "" {
		return map[string]string{}, nil
	}
	env, err := godotenv.Read(envPath)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", envPath, err)
	}
	return env, nil
}

// The process environment wins over the .env file.
func lookup(env map[string]string, key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok {
		return v, true
	}
	v, ok := env[key]
	return v, ok
}

func applyEnv(cfg *Config, env map[string]string) error {
	if v, ok := lookup(env, "RIG_ID"); ok {
		cfg.ID = v
	}
	if v, ok := lookup(env, "RIG_LISTEN"); ok {
		cfg.Listen = v
	}
	if v, ok := lookup(env, "RIG_LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := lookup(env, "RIG_LOG_FILE"); ok {
		cfg.Log.File = v
	}
	if v, ok := lookup(env, "RIG_PENDING_MODE"); ok {
		cfg.PendingMode = PendingMode(v)
	}
	if v, ok := lookup(env, "RIG_ECHO"); ok {
		echo, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("RIG_ECHO: %w", err)
		}
		cfg.Echo = echo
	}
	if v, ok := lookup(env, "RIG_TICK_PERIOD"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("RIG_TICK_PERIOD: %w", err)
		}
		cfg.TickPeriod = d
	}
	return nil
}
