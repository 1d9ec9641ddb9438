// Package config loads the settings of the openapi-comparator command from
// defaults, a YAML file, OPENAPI_COMPARATOR_* environment variables and
// command-line flags, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/criteo/openapi-comparator/internal/options"
	"github.com/criteo/openapi-comparator/oaserrors"
)

// DefaultFile is read from the working directory when --config is not given.
const DefaultFile = ".openapi-comparator.yaml"

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "OPENAPI_COMPARATOR_"

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config holds the merged settings of a run.
type Config struct {
	Strict                 bool          `koanf:"strict"`
	Format                 string        `koanf:"format"`
	FailOn                 string        `koanf:"fail-on"`
	Validate               bool          `koanf:"validate"`
	ReportUnchangedVersion bool          `koanf:"report-unchanged-version"`
	UserAgent              string        `koanf:"user-agent"`
	Timeout                time.Duration `koanf:"timeout"`
	Output                 string        `koanf:"output"`
	Verbose                bool          `koanf:"verbose"`
	Serve                  ServeConfig   `koanf:"serve"`
}

// ServeConfig configures the HTTP service.
type ServeConfig struct {
	Addr        string `koanf:"addr"`
	MaxBodySize int64  `koanf:"max-body-size"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		Format:  FormatText,
		FailOn:  "error",
		Timeout: 30 * time.Second,
		Serve: ServeConfig{
			Addr:        "127.0.0.1:8080",
			MaxBodySize: 10 << 20,
		},
	}
}

func defaultsMap() map[string]any {
	d := Defaults()
	return map[string]any{
		"strict":                   d.Strict,
		"format":                   d.Format,
		"fail-on":                  d.FailOn,
		"validate":                 d.Validate,
		"report-unchanged-version": d.ReportUnchangedVersion,
		"user-agent":               d.UserAgent,
		"timeout":                  d.Timeout.String(),
		"output":                   d.Output,
		"verbose":                  d.Verbose,
		"serve.addr":               d.Serve.Addr,
		"serve.max-body-size":      d.Serve.MaxBodySize,
	}
}

// flagKeys maps flag names to configuration keys where they differ.
var flagKeys = map[string]string{
	"addr":          "serve.addr",
	"max-body-size": "serve.max-body-size",
}

// envKeys maps environment suffixes to configuration keys where the plain
// underscore-to-dash rule does not apply.
var envKeys = map[string]string{
	"serve-addr":          "serve.addr",
	"serve-max-body-size": "serve.max-body-size",
}

// BindFlags registers the configuration flags on fs. Defaults shown in help
// match Defaults.
func BindFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.StringP("config", "c", "", "config file path (default: "+DefaultFile+" if present)")
	fs.Bool("strict", d.Strict, "report breaking changes as errors")
	fs.StringP("format", "f", d.Format, "output format: text, json or yaml")
	fs.String("fail-on", d.FailOn, "exit with status 1 when the verdict is at or above: none, info, warning or error")
	fs.Bool("validate", d.Validate, "run structural validation and fail on document diagnostics")
	fs.Bool("report-unchanged-version", d.ReportUnchangedVersion, "report NoVersionChange when info.version is unchanged")
	fs.String("user-agent", d.UserAgent, "User-Agent header for URL inputs")
	fs.Duration("timeout", d.Timeout, "timeout for URL inputs")
	fs.StringP("output", "o", d.Output, "write the report to this file instead of stdout")
	fs.BoolP("verbose", "v", d.Verbose, "enable debug logging on stderr")
}

// BindServeFlags registers the flags of the HTTP service.
func BindServeFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.String("addr", d.Serve.Addr, "listen address")
	fs.Int64("max-body-size", d.Serve.MaxBodySize, "maximum request body size in bytes")
}

// Load merges defaults, the config file, the environment and the flags set
// on flags, then validates the result. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultsMap(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path := configPath(flags); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if f.Name == "config" {
				return "", nil
			}
			key := f.Name
			if mapped, ok := flagKeys[key]; ok {
				key = mapped
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func configPath(flags *pflag.FlagSet) string {
	if flags != nil {
		if p, err := flags.GetString("config"); err == nil && p != "" {
			return p
		}
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile
	}
	return ""
}

func envKey(s string) string {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", "-")
	if mapped, ok := envKeys[key]; ok {
		return mapped
	}
	return key
}

// Check validates enumerated settings and bounds.
func (c *Config) Check() error {
	if err := options.ValidateOneOf("format", c.Format, FormatText, FormatJSON, FormatYAML); err != nil {
		return err
	}
	if err := options.ValidateOneOf("fail-on", c.FailOn, "none", "info", "warning", "error"); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return &oaserrors.ConfigError{Option: "timeout", Value: c.Timeout.String(), Message: "must not be negative"}
	}
	if c.Serve.MaxBodySize <= 0 {
		return &oaserrors.ConfigError{
			Option:  "serve.max-body-size",
			Value:   fmt.Sprint(c.Serve.MaxBodySize),
			Message: "must be positive",
		}
	}
	return nil
}
