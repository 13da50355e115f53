// Package config loads the mindmap settings from file, environment and
// defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"mindmap/geometry"
	"mindmap/layout"
)

const (
	configName = "mindmap"
	configType = "yaml"
	envPrefix  = "MINDMAP"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config is the complete application configuration.
type Config struct {
	Layout  LayoutConfig  `mapstructure:"layout"`
	Editor  EditorConfig  `mapstructure:"editor"`
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// LayoutConfig mirrors layout.Config and geometry.Metrics.
type LayoutConfig struct {
	NodeHeight     float64 `mapstructure:"node_height"`
	RootCharWidth  float64 `mapstructure:"root_char_width"`
	ChildCharWidth float64 `mapstructure:"child_char_width"`
	Padding        float64 `mapstructure:"padding"`
	RootMinWidth   float64 `mapstructure:"root_min_width"`
	ChildMinWidth  float64 `mapstructure:"child_min_width"`

	HorizontalGap   float64 `mapstructure:"horizontal_gap"`
	Buffer          float64 `mapstructure:"buffer"`
	SpacingBase     float64 `mapstructure:"spacing_base"`
	SpacingShrink   float64 `mapstructure:"spacing_shrink"`
	SpacingFloor    float64 `mapstructure:"spacing_floor"`
	CrowdedBonus    float64 `mapstructure:"crowded_bonus"`
	SiblingGap      float64 `mapstructure:"sibling_gap"`
	ComplexityGap   float64 `mapstructure:"complexity_gap"`
	ComplexityCap   float64 `mapstructure:"complexity_cap"`
	CenterTolerance float64 `mapstructure:"center_tolerance"`
	WidthTolerance  float64 `mapstructure:"width_tolerance"`
	OverlapEpsilon  float64 `mapstructure:"overlap_epsilon"`
	MaxPasses       int     `mapstructure:"max_passes"`
	MaxDepth        int     `mapstructure:"max_depth"`
}

// EditorConfig holds command surface settings.
type EditorConfig struct {
	HistorySize int `mapstructure:"history_size"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig selects the document store.
type StoreConfig struct {
	Backend  string `mapstructure:"backend"`
	RedisURL string `mapstructure:"redis_url"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file, MINDMAP_* environment variables and
// defaults. An explicit path must exist; otherwise mindmap.yaml is searched
// in the working directory and $HOME, and a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	applyDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func applyDefaults(v *viper.Viper) {
	lc := layout.DefaultConfig()
	m := lc.Metrics

	v.SetDefault("layout.node_height", m.NodeHeight)
	v.SetDefault("layout.root_char_width", m.RootCharWidth)
	v.SetDefault("layout.child_char_width", m.ChildCharWidth)
	v.SetDefault("layout.padding", m.Padding)
	v.SetDefault("layout.root_min_width", m.RootMinWidth)
	v.SetDefault("layout.child_min_width", m.ChildMinWidth)
	v.SetDefault("layout.horizontal_gap", lc.HorizontalGap)
	v.SetDefault("layout.buffer", lc.Buffer)
	v.SetDefault("layout.spacing_base", lc.SpacingBase)
	v.SetDefault("layout.spacing_shrink", lc.SpacingShrink)
	v.SetDefault("layout.spacing_floor", lc.SpacingFloor)
	v.SetDefault("layout.crowded_bonus", lc.CrowdedBonus)
	v.SetDefault("layout.sibling_gap", lc.SiblingGap)
	v.SetDefault("layout.complexity_gap", lc.ComplexityGap)
	v.SetDefault("layout.complexity_cap", lc.ComplexityCap)
	v.SetDefault("layout.center_tolerance", lc.CenterTolerance)
	v.SetDefault("layout.width_tolerance", lc.WidthTolerance)
	v.SetDefault("layout.overlap_epsilon", lc.OverlapEpsilon)
	v.SetDefault("layout.max_passes", lc.MaxPasses)
	v.SetDefault("layout.max_depth", lc.MaxDepth)

	v.SetDefault("editor.history_size", 500)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("store.backend", StoreMemory)
	v.SetDefault("store.redis_url", "redis://localhost:6379/0")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Validate checks the settings the engine and services depend on.
func (c *Config) Validate() error {
	if err := c.LayoutConfig().Validate(); err != nil {
		return err
	}
	if c.Editor.HistorySize <= 0 {
		return errors.New("editor: history size must be positive")
	}
	switch c.Store.Backend {
	case StoreMemory:
	case StoreRedis:
		if c.Store.RedisURL == "" {
			return errors.New("store: redis backend needs redis_url")
		}
	default:
		return fmt.Errorf("store: unknown backend %q", c.Store.Backend)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging: unknown format %q", c.Logging.Format)
	}
	return nil
}

// LayoutConfig converts the layout section to the engine configuration.
func (c *Config) LayoutConfig() layout.Config {
	l := c.Layout
	return layout.Config{
		Metrics: geometry.Metrics{
			NodeHeight:     l.NodeHeight,
			RootCharWidth:  l.RootCharWidth,
			ChildCharWidth: l.ChildCharWidth,
			Padding:        l.Padding,
			RootMinWidth:   l.RootMinWidth,
			ChildMinWidth:  l.ChildMinWidth,
		},
		HorizontalGap:   l.HorizontalGap,
		Buffer:          l.Buffer,
		SpacingBase:     l.SpacingBase,
		SpacingShrink:   l.SpacingShrink,
		SpacingFloor:    l.SpacingFloor,
		CrowdedBonus:    l.CrowdedBonus,
		SiblingGap:      l.SiblingGap,
		ComplexityGap:   l.ComplexityGap,
		ComplexityCap:   l.ComplexityCap,
		CenterTolerance: l.CenterTolerance,
		WidthTolerance:  l.WidthTolerance,
		OverlapEpsilon:  l.OverlapEpsilon,
		MaxPasses:       l.MaxPasses,
		MaxDepth:        l.MaxDepth,
	}
}
