package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SALONREVIEWS_CONFIG", "")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Indicator.Pad != 1 || c.Indicator.EmphasisWindow != 600*time.Millisecond {
		t.Errorf("indicator defaults = %+v", c.Indicator)
	}
	if c.Live.Enabled || c.Live.Port != DefaultPort {
		t.Errorf("live defaults = %+v", c.Live)
	}
	if !strings.HasSuffix(c.Database.Path, filepath.Join("salonreviews", "salonreviews.db")) {
		t.Errorf("database path = %q", c.Database.Path)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SALONREVIEWS_CONFIG", writeConfig(t, `
[indicator]
pad = 2
emphasis_window = "450ms"

[live]
enabled = true
port = 20000

[ui]
select = "mia"
`))
	t.Setenv("SALONREVIEWS_LIVE_PORT", "21000")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Indicator.Pad != 2 || c.Indicator.EmphasisWindow != 450*time.Millisecond {
		t.Errorf("indicator = %+v", c.Indicator)
	}
	if !c.Live.Enabled || c.Live.Port != 21000 {
		t.Errorf("live = %+v, want env port override", c.Live)
	}
	if c.UI.Select != "mia" {
		t.Errorf("ui.select = %q", c.UI.Select)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SALONREVIEWS_CONFIG", filepath.Join(t.TempDir(), "nope.toml"))
	if _, err := Load(); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		Database:  DatabaseConfig{Path: "x.db"},
		Indicator: IndicatorConfig{Pad: 0, EmphasisWindow: time.Second},
		Live:      LiveConfig{Port: 1},
	}
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"no database", func(c *Config) { c.Database.Path = "" }, false},
		{"negative pad", func(c *Config) { c.Indicator.Pad = -1 }, false},
		{"zero window", func(c *Config) { c.Indicator.EmphasisWindow = 0 }, false},
		{"port zero", func(c *Config) { c.Live.Port = 0 }, false},
		{"port too big", func(c *Config) { c.Live.Port = 70000 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			if err := c.Validate(); (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, ok want %v", err, tt.ok)
			}
		})
	}
}
