package internal

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"slices"
	"time"

	"github.com/alecthomas/chroma/v2/styles"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/swiki/internal/site"
	"github.com/starford/swiki/internal/watch"
)

var privateNameRe = regexp.MustCompile(`^_`)

// Config represents the application configuration.
type Config struct {
	App   ApplicationConfig `yaml:"app"`
	Wiki  WikiConfig        `yaml:"wiki"`
	Graph GraphConfig       `yaml:"graph"`
	Watch WatchConfig       `yaml:"watch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Wiki.Validate(); err != nil {
		return err
	}
	return c.Watch.Validate()
}

// SiteOptions converts the configuration into rebuild options.
func (c *Config) SiteOptions() site.Options {
	return site.Options{
		Input:          c.Wiki.Input,
		Output:         c.Wiki.Output,
		SystemDir:      c.Wiki.SystemDir,
		FrameFile:      c.Wiki.Frame,
		IndexFile:      c.Wiki.Index,
		Fatfile:        c.Wiki.Fatfile,
		Purge:          c.Wiki.Purge,
		HighlightStyle: c.Wiki.HighlightStyle,
		Workers:        c.Wiki.Workers,
		GraphDB:        c.Graph.Path,
	}
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// WikiConfig describes the source tree and what to generate from it.
type WikiConfig struct {
	Input          string `yaml:"input"`
	Output         string `yaml:"output"`
	SystemDir      string `yaml:"system_dir"`
	Frame          string `yaml:"frame"`
	Index          string `yaml:"index"`
	Fatfile        bool   `yaml:"fatfile"`
	Purge          bool   `yaml:"purge"`
	HighlightStyle string `yaml:"highlight_style"`
	Workers        int    `yaml:"workers"`
}

// Validate validates the wiki configuration.
func (c *WikiConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Input, validation.Required),
		validation.Field(&c.Output, validation.Required),
		validation.Field(&c.SystemDir, validation.Required, validation.Match(privateNameRe)),
		validation.Field(&c.Frame, validation.Required),
		validation.Field(&c.Index, validation.Required),
		validation.Field(&c.HighlightStyle, validation.By(knownStyle)),
		validation.Field(&c.Workers, validation.Required, validation.Min(1), validation.Max(64)),
	); err != nil {
		return err
	}
	in, err := filepath.Abs(c.Input)
	if err != nil {
		return fmt.Errorf("wiki: resolve input: %w", err)
	}
	out, err := filepath.Abs(c.Output)
	if err != nil {
		return fmt.Errorf("wiki: resolve output: %w", err)
	}
	if in == out {
		return fmt.Errorf("wiki: output must differ from input (%s)", in)
	}
	return nil
}

func knownStyle(value any) error {
	name, _ := value.(string)
	if name == "" || slices.Contains(styles.Names(), name) {
		return nil
	}
	return fmt.Errorf("unknown highlight style %q", name)
}

// GraphConfig controls the optional SQLite export of the page graph.
type GraphConfig struct {
	Path string `yaml:"path"`
}

// WatchConfig controls rebuild-on-change mode.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Min(time.Duration(0))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Wiki: WikiConfig{
			SystemDir:      "_swiki",
			Frame:          "frame.html",
			Index:          "index.md",
			Fatfile:        true,
			HighlightStyle: "monokai",
			Workers:        4,
		},
		Watch: WatchConfig{
			Debounce: watch.DefaultDebounce,
		},
	}
}
