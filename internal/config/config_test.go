package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	Init()

	cfg := Load()
	if cfg.Format != "json" {
		t.Fatalf("format = %q, want json", cfg.Format)
	}
	if cfg.ZoneFraction != 0.25 {
		t.Fatalf("zone_fraction = %v, want 0.25", cfg.ZoneFraction)
	}
	if cfg.WebAddr == "" || cfg.Glyphs != "unicode" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	viper.Reset()
	t.Setenv("BRAID_WEB_ADDR", "127.0.0.1:9999")
	t.Setenv("BRAID_GLYPHS", "ascii")
	Init()

	cfg := Load()
	if cfg.WebAddr != "127.0.0.1:9999" {
		t.Fatalf("web_addr = %q, want env override", cfg.WebAddr)
	}
	if cfg.Glyphs != "ascii" {
		t.Fatalf("glyphs = %q, want ascii", cfg.Glyphs)
	}
}
