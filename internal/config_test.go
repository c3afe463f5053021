package internal

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := NewDefaultConfig()
	dir := t.TempDir()
	cfg.Wiki.Input = filepath.Join(dir, "pages")
	cfg.Wiki.Output = filepath.Join(dir, "site")
	return cfg
}

func TestConfig_DefaultsValidWithPaths(t *testing.T) {
	cfg := validConfig(t)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
	if !cfg.Wiki.Fatfile {
		t.Error("fatfile should be enabled by default")
	}
}

func TestConfig_MissingInput(t *testing.T) {
	cfg := validConfig(t)
	cfg.Wiki.Input = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing input should fail validation")
	}
}

func TestConfig_SameInputAndOutput(t *testing.T) {
	cfg := validConfig(t)
	cfg.Wiki.Output = cfg.Wiki.Input + string(filepath.Separator)
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "must differ") {
		t.Fatalf("err = %v, want input/output conflict", err)
	}
}

func TestConfig_SystemDirMustBePrivate(t *testing.T) {
	cfg := validConfig(t)
	cfg.Wiki.SystemDir = "system"
	if err := cfg.Validate(); err == nil {
		t.Fatal("system dir without marker should fail")
	}
}

func TestConfig_WorkersRange(t *testing.T) {
	for _, n := range []int{0, 65} {
		cfg := validConfig(t)
		cfg.Wiki.Workers = n
		if err := cfg.Validate(); err == nil {
			t.Errorf("workers=%d should fail", n)
		}
	}
}

func TestConfig_UnknownHighlightStyle(t *testing.T) {
	cfg := validConfig(t)
	cfg.Wiki.HighlightStyle = "no-such-style"
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown style should fail")
	}
}

func TestConfig_NegativeDebounce(t *testing.T) {
	cfg := validConfig(t)
	cfg.Watch.Debounce = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative debounce should fail")
	}
}

func TestConfig_SiteOptions(t *testing.T) {
	cfg := validConfig(t)
	cfg.Graph.Path = "graph.db"
	cfg.Wiki.Purge = true
	opts := cfg.SiteOptions()
	if opts.Input != cfg.Wiki.Input || opts.GraphDB != "graph.db" || !opts.Purge || opts.FrameFile != "frame.html" {
		t.Errorf("options = %+v", opts)
	}
}
