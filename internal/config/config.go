package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds runtime defaults for a braid session. Values come from
// .braid.yaml, BRAID_* env vars, and CLI flags, in ascending precedence.
type Config struct {
	Dir          string  `mapstructure:"dir"`
	Format       string  `mapstructure:"format"`
	ZoneFraction float64 `mapstructure:"zone_fraction"`
	WebAddr      string  `mapstructure:"web_addr"`
	Glyphs       string  `mapstructure:"glyphs"`
}

// Init wires viper to the config file and environment. Safe to call once at
// root-command setup; a missing config file is not an error.
func Init() {
	viper.SetConfigName(".braid")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
	viper.SetEnvPrefix("BRAID")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

// Load reads configuration, applying built-in defaults for anything not set
// by file, environment, or flags.
func Load() Config {
	viper.SetDefault("dir", "")
	viper.SetDefault("format", "json")
	viper.SetDefault("zone_fraction", 0.25)
	viper.SetDefault("web_addr", "127.0.0.1:7311")
	viper.SetDefault("glyphs", "unicode")

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}
