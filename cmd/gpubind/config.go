package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the merged configuration of flags, config file and environment.
type Config struct {
	Platform string        `mapstructure:"platform"`
	Adapter  AdapterConfig `mapstructure:"adapter"`
	Canvas   CanvasConfig  `mapstructure:"canvas"`
	Log      LogConfig     `mapstructure:"log"`
}

// AdapterConfig selects and opens the adapter.
type AdapterConfig struct {
	PowerPreference string   `mapstructure:"power_preference"`
	ForceFallback   bool     `mapstructure:"force_fallback"`
	Features        []string `mapstructure:"features"`
}

// CanvasConfig sizes the headless canvas and names the PNG output.
type CanvasConfig struct {
	Width  uint32    `mapstructure:"width"`
	Height uint32    `mapstructure:"height"`
	Clear  []float64 `mapstructure:"clear"`
	Out    string    `mapstructure:"out"`
	Scale  int       `mapstructure:"scale"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Platform: "software",
		Canvas: CanvasConfig{
			Width:  320,
			Height: 240,
			Clear:  []float64{0, 0, 0, 1},
			Scale:  1,
		},
		Log: LogConfig{Level: "info"},
	}
}

// flagKeys maps flag names to their config keys.
var flagKeys = map[string]string{
	"platform":         "platform",
	"power-preference": "adapter.power_preference",
	"force-fallback":   "adapter.force_fallback",
	"feature":          "adapter.features",
	"width":            "canvas.width",
	"height":           "canvas.height",
	"clear":            "canvas.clear",
	"out":              "canvas.out",
	"scale":            "canvas.scale",
	"log-level":        "log.level",
}

func newViper() *viper.Viper {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("platform", def.Platform)
	v.SetDefault("adapter.power_preference", def.Adapter.PowerPreference)
	v.SetDefault("adapter.force_fallback", def.Adapter.ForceFallback)
	v.SetDefault("adapter.features", def.Adapter.Features)
	v.SetDefault("canvas.width", def.Canvas.Width)
	v.SetDefault("canvas.height", def.Canvas.Height)
	v.SetDefault("canvas.clear", def.Canvas.Clear)
	v.SetDefault("canvas.out", def.Canvas.Out)
	v.SetDefault("canvas.scale", def.Canvas.Scale)
	v.SetDefault("log.level", def.Log.Level)

	v.SetEnvPrefix("GPUBIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// bindFlags binds every flag in fs that has a config key.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil {
			return
		}
		err = v.BindPFlag(key, f)
	})
	return err
}

// loadConfig reads the optional config file and decodes the merged settings.
func loadConfig(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the platforms would otherwise reject later.
func (c Config) Validate() error {
	switch c.Adapter.PowerPreference {
	case "", "low-power", "high-performance":
	default:
		return fmt.Errorf("adapter.power_preference: unknown value %q", c.Adapter.PowerPreference)
	}
	if c.Canvas.Width == 0 || c.Canvas.Height == 0 {
		return fmt.Errorf("canvas: size %dx%d is empty", c.Canvas.Width, c.Canvas.Height)
	}
	if len(c.Canvas.Clear) != 4 {
		return fmt.Errorf("canvas.clear: got %d components, want 4", len(c.Canvas.Clear))
	}
	if c.Canvas.Scale < 1 {
		return fmt.Errorf("canvas.scale: %d is less than 1", c.Canvas.Scale)
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	return nil
}

func (c LogConfig) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}

// newLogger builds the text logger the CLI installs on gpubind and hal.
func (c LogConfig) newLogger(w io.Writer) *slog.Logger {
	level, err := c.level()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
