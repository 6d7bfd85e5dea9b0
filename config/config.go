package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Scene    SceneConfig    `mapstructure:"scene"`
	Timeline TimelineConfig `mapstructure:"timeline"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// SceneConfig holds the default scene document.
type SceneConfig struct {
	Path string `mapstructure:"path"`
}

// TimelineConfig holds evaluation and display settings.
type TimelineConfig struct {
	FPS             float64 `mapstructure:"fps"`
	EvalUpperTracks bool    `mapstructure:"eval_upper_tracks"`
	Width           int     `mapstructure:"width"`
}

// Dir returns the directory holding config.yaml.
func Dir() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "nla-timeline-cli")
}

// Load reads configuration from file and env. Env var overrides use prefix NLA_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "nla-timeline-cli", "data.db"))
	v.SetDefault("scene.path", "scene.yaml")
	v.SetDefault("timeline.fps", 24.0)
	v.SetDefault("timeline.eval_upper_tracks", false)
	v.SetDefault("timeline.width", 60)

	v.SetConfigType("yaml")

	cfgPath := os.Getenv("NLA_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(Dir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("NLA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit NLA_CONFIG that cannot be read is an error, a missing default file is not.
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Timeline.FPS <= 0 {
		return Config{}, fmt.Errorf("invalid timeline.fps %g: must be positive", c.Timeline.FPS)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("NLA_CONFIG")
	if path == "" {
		path = filepath.Join(Dir(), "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("scene.path", cfg.Scene.Path)
	v.Set("timeline.fps", cfg.Timeline.FPS)
	v.Set("timeline.eval_upper_tracks", cfg.Timeline.EvalUpperTracks)
	v.Set("timeline.width", cfg.Timeline.Width)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Set changes one dotted key, parsing value for the key's type.
func (c *Config) Set(key, value string) error {
	switch key {
	case "database.path":
		c.Database.Path = value
	case "scene.path":
		c.Scene.Path = value
	case "timeline.fps":
		fps, err := strconv.ParseFloat(value, 64)
		if err != nil || fps <= 0 {
			return fmt.Errorf("invalid timeline.fps %q: must be a positive number", value)
		}
		c.Timeline.FPS = fps
	case "timeline.eval_upper_tracks":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid timeline.eval_upper_tracks %q: %w", value, err)
		}
		c.Timeline.EvalUpperTracks = b
	case "timeline.width":
		w, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid timeline.width %q: %w", value, err)
		}
		c.Timeline.Width = w
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// Keys lists the settable keys with their current values, in display order.
func (c Config) Keys() [][2]string {
	return [][2]string{
		{"database.path", c.Database.Path},
		{"scene.path", c.Scene.Path},
		{"timeline.fps", strconv.FormatFloat(c.Timeline.FPS, 'g', -1, 64)},
		{"timeline.eval_upper_tracks", strconv.FormatBool(c.Timeline.EvalUpperTracks)},
		{"timeline.width", strconv.Itoa(c.Timeline.Width)},
	}
}
