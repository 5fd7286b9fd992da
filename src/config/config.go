package config

import "time"

const (
	MaxCars             = 3
	MaxFloors           = 8
	DefaultTickPeriod   = 100 * time.Millisecond
	DefaultStepDuration = 2 * time.Second
	DefaultListenAddr   = "127.0.0.1:5760"
	RigIDLen            = 8
	LineBufferSize      = 64
	ClientTxBuffer      = 32
)

type PendingMode string

const (
	// PendingShared keeps one pending request for the whole rig. Any car
	// arriving at the pending pickup floor starts the dropoff leg.
	PendingShared PendingMode = "shared"
	// PendingPerCar attaches the pending request to the car that was assigned it.
	PendingPerCar PendingMode = "per-car"
)

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Config is the runtime configuration of one rig.
type Config struct {
	ID           string        `yaml:"id"`
	Cars         int           `yaml:"cars"`
	Floors       int           `yaml:"floors"`
	TickPeriod   time.Duration `yaml:"tick_period"`
	StepDuration time.Duration `yaml:"step_duration"`
	PendingMode  PendingMode   `yaml:"pending_mode"`
	Listen       string        `yaml:"listen"`
	Echo         bool          `yaml:"echo"`
	Log          LogConfig     `yaml:"log"`
}

func Default() Config {
	return Config{
		Cars:         MaxCars,
		Floors:       MaxFloors,
		TickPeriod:   DefaultTickPeriod,
		StepDuration: DefaultStepDuration,
		PendingMode:  PendingShared,
		Listen:       DefaultListenAddr,
		Log:          LogConfig{Level: "info"},
	}
}
