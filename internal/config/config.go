// Package config loads webbundle's Options from a config file plus
// environment variables, grounded on fluxbase's internal/config.Load:
// godotenv for local .env files, viper for layered file/env/default
// resolution, and a WEBBUNDLE_-prefixed env-var namespace with "." replaced
// by "_" so nested keys map onto flat env names.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Options is every knob the Bundler Driver needs for one invocation (§7).
type Options struct {
	ProjectRoot  string   `mapstructure:"project_root"`
	WebRoot      string   `mapstructure:"web_root"`
	OutputDir    string   `mapstructure:"output_dir"`
	SourceRoot   string   `mapstructure:"source_root"`
	VendorDir    string   `mapstructure:"vendor_dir"`
	EntryPoints  []string `mapstructure:"entry_points"`
	AssetFiles   []string `mapstructure:"asset_files"`
	IncludePaths []string `mapstructure:"include_paths"`
	Extensions   []string `mapstructure:"extensions"`
	CacheDir     string   `mapstructure:"cache_dir"`
	IsDev        bool     `mapstructure:"is_dev"`
}

// Load reads webbundle.yaml (if present, at configPath or the current
// directory) layered under WEBBUNDLE_* environment variables and the
// defaults below. configPath may be empty.
func Load(configPath string) (*Options, error) {
	_ = loadEnvFile()

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("webbundle")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("WEBBUNDLE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var opts Options
	if err := viper.Unmarshal(&opts); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &opts, nil
}

// Validate reports missing required fields. ProjectRoot and at least one
// entry point or asset file are mandatory; everything else has a default.
func (o *Options) Validate() error {
	if o.ProjectRoot == "" {
		return fmt.Errorf("project_root is required")
	}
	if len(o.EntryPoints) == 0 && len(o.AssetFiles) == 0 {
		return fmt.Errorf("at least one entry point or asset file is required")
	}
	return nil
}

func loadEnvFile() error {
	for _, location := range []string{".env", ".env.local"} {
		if _, err := os.Stat(location); err == nil {
			return godotenv.Load(location)
		}
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("web_root", ".")
	viper.SetDefault("output_dir", "dist")
	viper.SetDefault("source_root", "src")
	viper.SetDefault("vendor_dir", "node_modules")
	viper.SetDefault("extensions", []string{".ts", ".js", ".json", ".node"})
	viper.SetDefault("cache_dir", "tmp/.webbundle-cache")
	viper.SetDefault("is_dev", false)
}
