// Package config loads gdsdump settings from TOML.
//
// Values present in the file overlay Default(); absent keys keep their
// defaults. Command line flags are applied by the caller after Load.
package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/gdsstream/internal/logging"
	"github.com/hashicorp/go-multierror"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// minRecordBytes is the smallest well-formed record: a bare header.
const minRecordBytes = 4

type Config struct {
	Decode  Decode
	Log     Log
	Output  Output
	Summary Summary
}

type Decode struct {
	Strict         bool
	CheckDataType  bool
	MaxRecordBytes int
}

type Log struct {
	Level     string
	Timestamp bool
	NoColor   bool
}

type Output struct {
	Format      string
	MetricsFile string
}

type Summary struct {
	Workers int
	Pattern string
}

func Default() Config {
	return Config{
		Decode: Decode{
			MaxRecordBytes: math.MaxUint16,
		},
		Log: Log{
			Level:     "info",
			Timestamp: true,
		},
		Output: Output{
			Format: FormatText,
		},
		Summary: Summary{
			Workers: 4,
			Pattern: "**/*.gds",
		},
	}
}

type fileConfig struct {
	Decode struct {
		Strict         bool `toml:"strict"`
		CheckDataType  bool `toml:"check_data_type"`
		MaxRecordBytes int  `toml:"max_record_bytes"`
	} `toml:"decode"`
	Log struct {
		Level     string `toml:"level"`
		Timestamp bool   `toml:"timestamp"`
		NoColor   bool   `toml:"no_color"`
	} `toml:"log"`
	Output struct {
		Format      string `toml:"format"`
		MetricsFile string `toml:"metrics_file"`
	} `toml:"output"`
	Summary struct {
		Workers int    `toml:"workers"`
		Pattern string `toml:"pattern"`
	} `toml:"summary"`
}

// Load overlays the file at path on Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("load config: unknown keys: %s", strings.Join(keys, ", "))
	}

	if meta.IsDefined("decode", "strict") {
		cfg.Decode.Strict = raw.Decode.Strict
	}
	if meta.IsDefined("decode", "check_data_type") {
		cfg.Decode.CheckDataType = raw.Decode.CheckDataType
	}
	if meta.IsDefined("decode", "max_record_bytes") {
		cfg.Decode.MaxRecordBytes = raw.Decode.MaxRecordBytes
	}

	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.TrimSpace(raw.Log.Level)
	}
	if meta.IsDefined("log", "timestamp") {
		cfg.Log.Timestamp = raw.Log.Timestamp
	}
	if meta.IsDefined("log", "no_color") {
		cfg.Log.NoColor = raw.Log.NoColor
	}

	if meta.IsDefined("output", "format") {
		cfg.Output.Format = strings.ToLower(strings.TrimSpace(raw.Output.Format))
	}
	if meta.IsDefined("output", "metrics_file") {
		cfg.Output.MetricsFile = strings.TrimSpace(raw.Output.MetricsFile)
	}

	if meta.IsDefined("summary", "workers") {
		cfg.Summary.Workers = raw.Summary.Workers
	}
	if meta.IsDefined("summary", "pattern") {
		cfg.Summary.Pattern = strings.TrimSpace(raw.Summary.Pattern)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting, not just the first.
func Validate(cfg Config) error {
	var errs *multierror.Error
	if n := cfg.Decode.MaxRecordBytes; n < minRecordBytes || n > math.MaxUint16 {
		errs = multierror.Append(errs, fmt.Errorf("decode.max_record_bytes %d out of range [%d, %d]", n, minRecordBytes, math.MaxUint16))
	}
	if _, ok := logging.ParseLevel(cfg.Log.Level); !ok {
		errs = multierror.Append(errs, fmt.Errorf("log.level %q is not a known level", cfg.Log.Level))
	}
	switch cfg.Output.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		errs = multierror.Append(errs, fmt.Errorf("output.format %q must be text, json or yaml", cfg.Output.Format))
	}
	if cfg.Summary.Workers < 1 {
		errs = multierror.Append(errs, fmt.Errorf("summary.workers must be at least 1, got %d", cfg.Summary.Workers))
	}
	if strings.TrimSpace(cfg.Summary.Pattern) == "" {
		errs = multierror.Append(errs, fmt.Errorf("summary.pattern is required"))
	}
	return errs.ErrorOrNil()
}
