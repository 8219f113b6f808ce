package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/eslsoft/vocdrill/internal/usecase/drill"
)

// Config holds all configuration for our application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Drill    DrillConfig    `mapstructure:"drill"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host     string `mapstructure:"host"`
	HTTPPort int    `mapstructure:"http_port"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	LogSQL bool   `mapstructure:"log_sql"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DrillConfig holds the tuning of the selection engine.
type DrillConfig struct {
	PickNeedWeight         float64 `mapstructure:"pick_need_weight"`
	PickRoundWeight        float64 `mapstructure:"pick_round_weight"`
	PickRecentIgnoreWeight float64 `mapstructure:"pick_recent_ignore_weight"`
	PickRandomWeight       float64 `mapstructure:"pick_random_weight"`
	EndNeedThreshold       float64 `mapstructure:"end_need_threshold"`
	EndMinRounds           int     `mapstructure:"end_min_rounds"`
	ChoiceWrongWeight      float64 `mapstructure:"choice_wrong_weight"`
	ChoiceNotShownWeight   float64 `mapstructure:"choice_not_shown_weight"`
	ChoiceRandomWeight     float64 `mapstructure:"choice_random_weight"`
	ChoiceCount            int     `mapstructure:"choice_count"`
}

const envPrefix = "VOCDRILL"

var supportedDrivers = map[string]struct{}{
	"sqlite3":  {},
	"postgres": {},
	"pgx":      {},
}

// Load reads configuration from the global viper instance, file and environment variables
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads configuration through v. Flags bound to v before the call take precedence over
// environment variables and the config file.
func LoadFrom(v *viper.Viper) (*Config, error) {
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("vocdrill")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.config/vocdrill")
	}

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.http_port", 8080)

	// Database defaults
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", "file:vocdrill.db?_foreign_keys=on")
	v.SetDefault("database.log_sql", false)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Drill defaults
	d := drill.DefaultConfig()
	v.SetDefault("drill.pick_need_weight", d.PickNeedWeight)
	v.SetDefault("drill.pick_round_weight", d.PickRoundWeight)
	v.SetDefault("drill.pick_recent_ignore_weight", d.PickRecentIgnoreWeight)
	v.SetDefault("drill.pick_random_weight", d.PickRandomWeight)
	v.SetDefault("drill.end_need_threshold", d.EndNeedThreshold)
	v.SetDefault("drill.end_min_rounds", d.EndMinRounds)
	v.SetDefault("drill.choice_wrong_weight", d.ChoiceWrongWeight)
	v.SetDefault("drill.choice_not_shown_weight", d.ChoiceNotShownWeight)
	v.SetDefault("drill.choice_random_weight", d.ChoiceRandomWeight)
	v.SetDefault("drill.choice_count", d.ChoiceCount)
}

// Validate checks the database driver and the drill tuning.
func (c *Config) Validate() error {
	if _, err := c.DatabaseDriver(); err != nil {
		return err
	}
	if err := c.DrillConfig().Validate(); err != nil {
		return fmt.Errorf("invalid drill config: %w", err)
	}
	return nil
}

// DatabaseDriver returns the normalised database/sql driver name.
func (c *Config) DatabaseDriver() (string, error) {
	driver := strings.ToLower(strings.TrimSpace(c.Database.Driver))
	if driver == "sqlite" {
		driver = "sqlite3"
	}
	if _, ok := supportedDrivers[driver]; !ok {
		return "", fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	return driver, nil
}

// DatabaseURL returns the connection string for the configured driver
func (c *Config) DatabaseURL() (string, error) {
	dsn := strings.TrimSpace(c.Database.DSN)
	if dsn == "" {
		return "", errors.New("database dsn is empty")
	}
	return dsn, nil
}

// DrillConfig maps the drill section onto the engine configuration.
func (c *Config) DrillConfig() drill.Config {
	d := c.Drill
	return drill.Config{
		PickNeedWeight:         d.PickNeedWeight,
		PickRoundWeight:        d.PickRoundWeight,
		PickRecentIgnoreWeight: d.PickRecentIgnoreWeight,
		PickRandomWeight:       d.PickRandomWeight,
		EndNeedThreshold:       d.EndNeedThreshold,
		EndMinRounds:           d.EndMinRounds,
		ChoiceWrongWeight:      d.ChoiceWrongWeight,
		ChoiceNotShownWeight:   d.ChoiceNotShownWeight,
		ChoiceRandomWeight:     d.ChoiceRandomWeight,
		ChoiceCount:            d.ChoiceCount,
	}
}
