package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Data       DataConfig       `toml:"data"`
	Scripting  ScriptingConfig  `toml:"scripting"`
	Frontend   FrontendConfig   `toml:"frontend"`
	View       ViewConfig       `toml:"view"`
	Logging    LoggingConfig    `toml:"logging"`
}

type SimulationConfig struct {
	MapSize         int           `toml:"map_size"`
	Seed            int64         `toml:"seed"` // 0 = derive from the clock at boot
	TickRate        time.Duration `toml:"tick_rate"`
	GameSpeed       float64       `toml:"game_speed"`
	PathIterations  int           `toml:"path_iterations"` // solver expansions per tick, 0 = unlimited
	WaypointEpsilon float64       `toml:"waypoint_epsilon"`
	CommandBuffer   int           `toml:"command_buffer"`
}

type DataConfig struct {
	Bodies     string `toml:"bodies"`
	Buildings  string `toml:"buildings"`
	Animations string `toml:"animations"`
}

type ScriptingConfig struct {
	Dir      string `toml:"dir"`
	Scenario string `toml:"scenario"` // file under Dir run at startup, empty = none
}

type FrontendConfig struct {
	Enabled       bool          `toml:"enabled"`
	BindAddress   string        `toml:"bind_address"`
	SnapshotEvery int           `toml:"snapshot_every"` // ticks between entity snapshots
	WriteTimeout  time.Duration `toml:"write_timeout"`
	OutQueueSize  int           `toml:"out_queue_size"`
}

type ViewConfig struct {
	Mode string `toml:"mode"` // "headless" or "terminal"
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	s := c.Simulation
	switch {
	case s.MapSize < 1:
		return fmt.Errorf("simulation.map_size must be positive, got %d", s.MapSize)
	case s.TickRate <= 0:
		return fmt.Errorf("simulation.tick_rate must be positive, got %s", s.TickRate)
	case s.GameSpeed < 0:
		return fmt.Errorf("simulation.game_speed must not be negative, got %v", s.GameSpeed)
	case s.PathIterations < 0:
		return fmt.Errorf("simulation.path_iterations must not be negative, got %d", s.PathIterations)
	}
	switch c.View.Mode {
	case "headless", "terminal":
	default:
		return fmt.Errorf("view.mode must be headless or terminal, got %q", c.View.Mode)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{
			MapSize:         64,
			TickRate:        16 * time.Millisecond,
			GameSpeed:       1,
			PathIterations:  2000,
			WaypointEpsilon: 0.05,
			CommandBuffer:   256,
		},
		Data: DataConfig{
			Bodies:     "data/yaml/body_list.yaml",
			Buildings:  "data/yaml/building_list.yaml",
			Animations: "data/yaml/animation_list.yaml",
		},
		Scripting: ScriptingConfig{
			Dir: "scripts",
		},
		Frontend: FrontendConfig{
			Enabled:       false,
			BindAddress:   "127.0.0.1:8080",
			SnapshotEvery: 3,
			WriteTimeout:  10 * time.Second,
			OutQueueSize:  64,
		},
		View: ViewConfig{
			Mode: "headless",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
