package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
	Keep  string `yaml:"keep"`
}

func (s *sample) Validate() error {
	if s.Count < 0 {
		return errors.New("count must be positive")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_ExpandsEnvAndKeepsDefaults(t *testing.T) {
	t.Setenv("SWIKI_TEST_NAME", "from-env")
	p := writeFile(t, "name: ${SWIKI_TEST_NAME}\ncount: 3\n")

	s := sample{Keep: "default"}
	if err := Load(p, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "from-env" || s.Count != 3 || s.Keep != "default" {
		t.Errorf("loaded = %+v", s)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	var s sample
	err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &s)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	p := writeFile(t, "name: [broken\n")
	var s sample
	if err := Load(p, &s); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("err = %v", err)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(&sample{Count: 1}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := Validate(&sample{Count: -1}); err == nil {
		t.Error("expected validation error")
	}
}
