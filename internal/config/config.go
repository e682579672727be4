package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Game     GameConfig     `mapstructure:"game"`
	AI       AIConfig       `mapstructure:"ai"`
	Map      MapConfig      `mapstructure:"map"`
	SelfPlay SelfPlayConfig `mapstructure:"selfplay"`
	Viewer   ViewerConfig   `mapstructure:"viewer"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// GameConfig holds engine rule settings
type GameConfig struct {
	MaxTurns int `mapstructure:"max_turns"`
}

// AIConfig holds commander thresholds
type AIConfig struct {
	StuckThreshold     int `mapstructure:"stuck_threshold"`
	ProximityThreshold int `mapstructure:"proximity_threshold"`
}

// MapConfig holds terrain generation settings, as percentages of the free cells
type MapConfig struct {
	BrickPercent int `mapstructure:"brick_percent"`
	SteelPercent int `mapstructure:"steel_percent"`
	WaterPercent int `mapstructure:"water_percent"`
	MaxAttempts  int `mapstructure:"max_attempts"`
}

// SelfPlayConfig holds settings for the self-play driver
type SelfPlayConfig struct {
	Games      int    `mapstructure:"games"`
	Workers    int    `mapstructure:"workers"`
	Seed       int64  `mapstructure:"seed"`
	ShowBoard  bool   `mapstructure:"show_board"`
	RecordDir  string `mapstructure:"record_dir"`
	MaxRecords int    `mapstructure:"max_records"`
}

// ViewerConfig holds settings for the terminal match viewer
type ViewerConfig struct {
	TickMS int `mapstructure:"tick_ms"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var (
	cfg *Config
	v   *viper.Viper
)

func setViperDefaults(v *viper.Viper) {
	// Game defaults
	v.SetDefault("game.max_turns", 100)

	// AI defaults
	v.SetDefault("ai.stuck_threshold", 10)
	v.SetDefault("ai.proximity_threshold", 3)

	// Map generation defaults
	v.SetDefault("map.brick_percent", 35)
	v.SetDefault("map.steel_percent", 8)
	v.SetDefault("map.water_percent", 8)
	v.SetDefault("map.max_attempts", 50)

	// Self-play defaults; seed 0 means time-based
	v.SetDefault("selfplay.games", 10)
	v.SetDefault("selfplay.workers", 1)
	v.SetDefault("selfplay.seed", 0)
	v.SetDefault("selfplay.show_board", false)
	v.SetDefault("selfplay.record_dir", "") // empty disables recording
	v.SetDefault("selfplay.max_records", 1000000)

	// Viewer defaults
	v.SetDefault("viewer.tick_ms", 300)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Init initializes the configuration
func Init(configPath string) error {
	v = viper.New()

	setViperDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/tank2")
	}

	// TANK2_AI_STUCK_THRESHOLD overrides ai.stuck_threshold
	v.SetEnvPrefix("TANK2")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing explicit file falls back to defaults as well
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath == "" {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
	}
	return cfg
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig merges config.<env>.yaml over the loaded config
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	envFile := fmt.Sprintf("config.%s.yaml", env)

	v.SetConfigFile(envFile)
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode merged config into struct: %w", err)
	}

	return Validate(cfg)
}

// Set allows runtime config updates
func Set(key string, value interface{}) {
	v.Set(key, value)
	_ = v.Unmarshal(cfg)
}

// GetString gets a string value from config
func GetString(key string) string {
	return v.GetString(key)
}

// GetInt gets an int value from config
func GetInt(key string) int {
	return v.GetInt(key)
}

// GetBool gets a bool value from config
func GetBool(key string) bool {
	return v.GetBool(key)
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return v.ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. Reloads that fail
// validation are discarded and the previous values stay in effect.
func WatchConfig(onChange func()) {
	v.OnConfigChange(func(e fsnotify.Event) {
		next := &Config{}
		if err := v.Unmarshal(next); err != nil {
			return
		}
		if err := Validate(next); err != nil {
			return
		}
		*cfg = *next
		if onChange != nil {
			onChange()
		}
	})
	v.WatchConfig()
}

// Validate validates the configuration values
func Validate(c *Config) error {
	if c.Game.MaxTurns <= 0 {
		return fmt.Errorf("game.max_turns must be positive")
	}

	if c.AI.StuckThreshold <= 0 {
		return fmt.Errorf("ai.stuck_threshold must be positive")
	}
	if c.AI.ProximityThreshold < 0 {
		return fmt.Errorf("ai.proximity_threshold must be non-negative")
	}

	for name, pct := range map[string]int{
		"map.brick_percent": c.Map.BrickPercent,
		"map.steel_percent": c.Map.SteelPercent,
		"map.water_percent": c.Map.WaterPercent,
	} {
		if pct < 0 || pct > 100 {
			return fmt.Errorf("%s must be between 0 and 100", name)
		}
	}
	if c.Map.BrickPercent+c.Map.SteelPercent+c.Map.WaterPercent > 100 {
		return fmt.Errorf("map terrain percentages must not exceed 100 in total")
	}
	if c.Map.MaxAttempts <= 0 {
		return fmt.Errorf("map.max_attempts must be positive")
	}

	if c.SelfPlay.Games < 0 {
		return fmt.Errorf("selfplay.games must be non-negative")
	}
	if c.SelfPlay.Workers <= 0 {
		return fmt.Errorf("selfplay.workers must be positive")
	}
	if c.SelfPlay.RecordDir != "" && c.SelfPlay.MaxRecords <= 0 {
		return fmt.Errorf("selfplay.max_records must be positive when recording")
	}

	if c.Viewer.TickMS <= 0 {
		return fmt.Errorf("viewer.tick_ms must be positive")
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json")
	}

	return nil
}
