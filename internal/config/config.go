package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates settings for the card service and CLI.
type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Render RenderConfig `mapstructure:"render"`
	Log    LogConfig    `mapstructure:"log"`
}

type APIConfig struct {
	Port int `mapstructure:"port"`
}

// RenderConfig controls layouts, fonts and photo intake.
type RenderConfig struct {
	LayoutDir     string        `mapstructure:"layout_dir"`
	DefaultLayout string        `mapstructure:"default_layout"`
	MultiLayout   string        `mapstructure:"multi_layout"`
	FontFile      string        `mapstructure:"font_file"`
	BoldFontFile  string        `mapstructure:"bold_font_file"`
	MaxPhotoBytes int64         `mapstructure:"max_photo_bytes"`
	MaxPixels     int           `mapstructure:"max_pixels"`
	PhotoTimeout  time.Duration `mapstructure:"photo_timeout"`
	// PhotoHosts lists the host names photo_url may point at; empty allows any
	// public host.
	PhotoHosts             []string `mapstructure:"photo_hosts"`
	AllowPrivatePhotoHosts bool     `mapstructure:"allow_private_photo_hosts"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads defaults, then the optional config file at path, then
// environment variables, which win.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("render.layout_dir", "")
	v.SetDefault("render.default_layout", "suspect")
	v.SetDefault("render.multi_layout", "multi")
	v.SetDefault("render.font_file", "")
	v.SetDefault("render.bold_font_file", "")
	v.SetDefault("render.max_photo_bytes", 10<<20)
	v.SetDefault("render.max_pixels", 40_000_000)
	v.SetDefault("render.photo_timeout", "12s")
	v.SetDefault("render.photo_hosts", []string{})
	v.SetDefault("render.allow_private_photo_hosts", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                         "CASECARD_PORT",
		"render.layout_dir":                "CASECARD_LAYOUT_DIR",
		"render.default_layout":            "CASECARD_DEFAULT_LAYOUT",
		"render.multi_layout":              "CASECARD_MULTI_LAYOUT",
		"render.font_file":                 "CASECARD_FONT_FILE",
		"render.bold_font_file":            "CASECARD_BOLD_FONT_FILE",
		"render.max_photo_bytes":           "CASECARD_MAX_PHOTO_BYTES",
		"render.max_pixels":                "CASECARD_MAX_PIXELS",
		"render.photo_timeout":             "CASECARD_PHOTO_TIMEOUT",
		"render.photo_hosts":               "CASECARD_PHOTO_HOSTS",
		"render.allow_private_photo_hosts": "CASECARD_ALLOW_PRIVATE_PHOTO_HOSTS",
		"log.level":                        "CASECARD_LOG_LEVEL",
		"log.format":                       "CASECARD_LOG_FORMAT",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 || cfg.API.Port > 65535 {
		return errors.New("api port must be between 1 and 65535")
	}
	if cfg.Render.DefaultLayout == "" {
		return errors.New("default layout is required")
	}
	if cfg.Render.MaxPhotoBytes <= 0 {
		return errors.New("max photo bytes must be positive")
	}
	if cfg.Render.MaxPixels <= 0 {
		return errors.New("max pixels must be positive")
	}
	if cfg.Render.PhotoTimeout <= 0 {
		return errors.New("photo timeout must be positive")
	}
	if cfg.Render.BoldFontFile != "" && cfg.Render.FontFile == "" {
		return errors.New("bold font file needs a regular font file")
	}
	switch cfg.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", cfg.Log.Format)
	}
	return nil
}
