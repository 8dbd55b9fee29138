// Package config loads the application's TOML configuration: where the
// input/value network models live, the loader backend to fetch them
// from, and the default request shape a caller's generated fingerprint
// falls back to when it doesn't specify one itself.
package config

import (
	"fmt"
	"strings"

	"github.com/bartasx/browserforge/loader"
	"github.com/spf13/viper"
)

// Config is the top-level application configuration. It generalizes the
// bucket-credential-only shape of loader.NewS3Instance's inline viper
// reads into a single document covering model file locations, the
// loader backend, and sampling defaults.
type Config struct {
	// InputFileName and ValueFileName name the two model files, passed
	// straight through to pipeline.Config.
	InputFileName string
	ValueFileName string

	// Loader selects which loader.Loader backend to build: "fs" (the
	// default), "zip", or "s3".
	Loader string

	// ZipInner names the backend loader.Zip wraps when Loader is "zip"
	// ("fs" or "s3"); defaults to "fs".
	ZipInner string

	// Dir is the base directory for the "fs" loader.
	Dir string

	// S3ConfigFileName, when Loader is "s3", names the TOML file
	// loader.NewS3Instance reads bucket credentials from.
	S3ConfigFileName string

	// DefaultLocales seeds pipeline.Request.Locales in cmd/gen when no
	// request file is given; a request file replaces these defaults.
	DefaultLocales []string

	// DefaultHTTPVersion seeds pipeline.Request.HTTPVersion likewise.
	DefaultHTTPVersion string
}

// Load reads configFileName (a TOML document, extension stripped per
// viper's convention) from the current directory or $GOPATH, mirroring
// loader.NewS3Instance's config lookup.
func Load(configFileName string) (Config, error) {
	viper.SetConfigType("toml")
	viper.SetConfigName(strings.Replace(configFileName, ".toml", "", -1))
	viper.AddConfigPath("./")
	viper.AddConfigPath("$GOPATH/src/github.com/bartasx/browserforge/")
	if err := viper.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("config: fatal error reading %s: %w", configFileName, err)
	}

	cfg := Config{
		InputFileName:      viper.GetString("InputFileName"),
		ValueFileName:      viper.GetString("ValueFileName"),
		Loader:             viper.GetString("Loader"),
		ZipInner:           viper.GetString("ZipInner"),
		Dir:                viper.GetString("Dir"),
		S3ConfigFileName:   viper.GetString("S3ConfigFileName"),
		DefaultLocales:     viper.GetStringSlice("DefaultLocales"),
		DefaultHTTPVersion: viper.GetString("DefaultHTTPVersion"),
	}
	if cfg.InputFileName == "" {
		cfg.InputFileName = "input.json"
	}
	if cfg.ValueFileName == "" {
		cfg.ValueFileName = "value.json"
	}
	if cfg.Loader == "" {
		cfg.Loader = "fs"
	}
	if cfg.ZipInner == "" {
		cfg.ZipInner = "fs"
	}
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if cfg.DefaultHTTPVersion == "" {
		cfg.DefaultHTTPVersion = "2"
	}
	if len(cfg.DefaultLocales) == 0 {
		cfg.DefaultLocales = []string{"en-US", "en"}
	}
	return cfg, nil
}

// NewLoader builds the loader.Loader backend cfg.Loader names. "zip"
// wraps cfg.ZipInner's own backend, so a model can ship as a ZIP
// archive on either the filesystem or in S3.
func (cfg Config) NewLoader() (loader.Loader, error) {
	switch cfg.Loader {
	case "", "fs":
		return loader.FS{Dir: cfg.Dir}, nil
	case "s3":
		return loader.NewS3Instance(cfg.S3ConfigFileName)
	case "zip":
		inner, err := cfg.innerLoader()
		if err != nil {
			return nil, err
		}
		return loader.Zip{Inner: inner}, nil
	default:
		return nil, fmt.Errorf("config: unknown loader backend %q", cfg.Loader)
	}
}

func (cfg Config) innerLoader() (loader.Loader, error) {
	switch cfg.ZipInner {
	case "", "fs":
		return loader.FS{Dir: cfg.Dir}, nil
	case "s3":
		return loader.NewS3Instance(cfg.S3ConfigFileName)
	default:
		return nil, fmt.Errorf("config: unknown zip inner backend %q", cfg.ZipInner)
	}
}
