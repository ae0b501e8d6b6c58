package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode          string `mapstructure:"mode"`
	Port          int    `mapstructure:"port"`
	AllowedOrigin string `mapstructure:"allowed_origin"`
	ReadLimit     int64  `mapstructure:"read_limit"`

	// Occupancy poller settings.
	ServerURL    string        `mapstructure:"server_url"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	SnapshotPath string        `mapstructure:"snapshot_path"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 3000)
	v.SetDefault("allowed_origin", "*")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("server_url", "http://localhost:3000")
	v.SetDefault("poll_interval", "5m")
	v.SetDefault("snapshot_path", "./data/occupancy.db")

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
