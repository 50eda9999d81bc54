// Package engine assembles the simulation into a running service: it
// owns the world, the gesture pipeline and the interaction controller,
// drives them from a fixed-rate loop, and exposes them through the web
// server.
package engine

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/teslashibe/go-grasp/internal/config"
)

// Config holds all configuration for the engine. Flag parsing is done
// in cmd/grasp/main.go; this struct is data only.
type Config struct {
	// Debug enables verbose debug logging.
	Debug bool

	Server ServerConfig
	Scene  SceneConfig
	Sim    SimConfig
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port string
}

// SceneConfig selects the scene to load at startup.
type SceneConfig struct {
	Preset string
}

// SimConfig holds the simulation loop settings.
type SimConfig struct {
	// TickRate is the simulation frequency in Hz.
	TickRate float64 `mapstructure:"tick_rate"`

	// VariableDamping makes damping strength follow the measured tick
	// length instead of assuming a fixed step.
	VariableDamping bool `mapstructure:"variable_damping"`

	// Seed fixes the random source for reproducible runs. Zero means
	// seed from the clock.
	Seed int64 `mapstructure:"seed"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{Port: config.DefaultPort},
		Scene:  SceneConfig{Preset: config.DefaultPreset},
		Sim:    SimConfig{TickRate: 60},
	}
}

// Load reads configuration from grasp.toml and the environment. Env var
// overrides use prefix GRASP_, e.g. GRASP_SERVER_PORT.
func Load() (Config, error) {
	defaults := DefaultConfig()

	v := viper.New()
	v.SetDefault("debug", defaults.Debug)
	v.SetDefault("server.port", config.Port(defaults.Server.Port))
	v.SetDefault("scene.preset", config.ScenePreset(defaults.Scene.Preset))
	v.SetDefault("sim.tick_rate", defaults.Sim.TickRate)
	v.SetDefault("sim.variable_damping", defaults.Sim.VariableDamping)
	v.SetDefault("sim.seed", defaults.Sim.Seed)

	v.SetConfigType("toml")

	if cfgPath := config.ConfigFile(); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("grasp")
	}

	v.SetEnvPrefix("GRASP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks that the configuration can actually run.
func (c Config) Validate() error {
	if c.Server.Port == "" {
		return &ConfigError{Field: "Server.Port", Message: "server port must not be empty"}
	}
	if c.Sim.TickRate < 1 || c.Sim.TickRate > 240 {
		return &ConfigError{Field: "Sim.TickRate", Message: "sim tick rate must be between 1 and 240 Hz"}
	}
	if c.Scene.Preset == "" {
		return &ConfigError{Field: "Scene.Preset", Message: "scene preset must not be empty"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// WriteExample writes a commented example config to the given path.
func WriteExample(path string) error {
	example := `# grasp engine configuration

debug = false

[server]
port = "` + config.DefaultPort + `"

[scene]
preset = "` + config.DefaultPreset + `"

[sim]
tick_rate = 60
variable_damping = false
seed = 0
`
	return os.WriteFile(path, []byte(example), 0o644)
}
