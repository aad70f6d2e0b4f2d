package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/gdsstream/internal/config"
	"github.com/danmuck/gdsstream/internal/decoder"
	"github.com/danmuck/gdsstream/internal/logging"
	"github.com/danmuck/gdsstream/internal/observability"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath    string
	verbose       bool
	strict        bool
	checkDataType bool
	metricsFile   string

	// settings is resolved once per invocation by the root pre-run hook.
	settings config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gdsdump",
	Short: "Decode GDSII stream files",
	Long: `gdsdump decodes GDSII stream files record by record and prints the
resulting events, raw record listings, or per-library summaries.
Inputs may be gzip, zstd or lz4 compressed; "-" reads stdin.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveSettings(cmd)
		if err != nil {
			return err
		}
		settings = cfg
		log.Logger = newLogger(cfg.Log)
		if cfg.Output.MetricsFile != "" {
			observability.RegisterMetrics()
		}
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if path := settings.Output.MetricsFile; path != "" {
		if werr := observability.WriteTextfile(path); werr != nil {
			log.Error().Err(werr).Str("path", path).Msg("metrics textfile write failed")
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "gdsdump: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "TOML config file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&strict, "strict", false, "reject unknown record tags")
	flags.BoolVar(&checkDataType, "check-data-type", false, "reject records whose data type disagrees with the record table")
	flags.StringVar(&metricsFile, "metrics-file", "", "write prometheus metrics to this textfile on exit")
}

// resolveSettings layers defaults, the config file, then explicit flags.
func resolveSettings(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("strict") {
		cfg.Decode.Strict = strict
	}
	if flags.Changed("check-data-type") {
		cfg.Decode.CheckDataType = checkDataType
	}
	if flags.Changed("metrics-file") {
		cfg.Output.MetricsFile = metricsFile
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg config.Log) zerolog.Logger {
	lc := logging.DefaultConfig(logging.ProfileRuntime)
	if lvl, ok := logging.ParseLevel(cfg.Level); ok {
		lc.Level = lvl
	}
	lc.Timestamp = cfg.Timestamp
	lc.NoColor = lc.NoColor || cfg.NoColor
	logging.ApplyEnvOverrides(&lc)
	return logging.New(lc)
}

func newDecoder() *decoder.Decoder {
	opts := decoder.FromConfig(settings.Decode)
	opts.Logger = &log.Logger
	opts.Metrics = settings.Output.MetricsFile != ""
	return decoder.New(opts)
}
