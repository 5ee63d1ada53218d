package main

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/TableScan/internal/fetch"
	"github.com/GriffinCanCode/TableScan/internal/infrastructure/config"
	"github.com/GriffinCanCode/TableScan/internal/infrastructure/logging"
	"github.com/GriffinCanCode/TableScan/internal/markup"
	"github.com/GriffinCanCode/TableScan/internal/scan"
	"github.com/GriffinCanCode/TableScan/internal/summary"
)

var (
	scanOutput    string
	scanSummary   bool
	scanCollector string
	scanVerbose   bool
)

type pageScanner interface {
	Scan(ctx context.Context, url string) (scan.Outcome, error)
}

// newScanner is replaced in tests
var newScanner = func(collector scan.Collector, logger *zap.Logger) pageScanner {
	cfg := config.LoadOrDefault()

	fetcher := fetch.New(fetch.Config{
		Timeout:   cfg.Fetch.Timeout,
		Retries:   cfg.Fetch.Retries,
		RetryWait: cfg.Fetch.RetryWait,
		UserAgent: cfg.Fetch.UserAgent,
		MaxBytes:  cfg.Fetch.MaxBytes,
		RPS:       cfg.Fetch.RPS,
	}, logger)

	opts := []markup.Option{markup.WithMaxSize(int(cfg.Fetch.MaxBytes))}
	if cfg.Scan.Sanitize {
		opts = append(opts, markup.WithSanitizer())
	}

	return scan.NewScanner(fetcher, markup.NewParser(opts...),
		scan.WithCollector(collector),
		scan.WithLogger(logger),
	)
}

// report is what the scan command prints
type report struct {
	scan.Outcome `yaml:",inline"`
	Summary      *summary.Summary `json:"summary,omitempty" yaml:"summary,omitempty" toml:"summary,omitempty"`
}

var scanCmd = &cobra.Command{
	Use:   "scan [url]",
	Short: "Scan a page for its measurement table",
	Long: `Fetches the page at url and prints the first table that has a column of
measurements, reduced to value/name pairs. When no such table exists a
message is printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "json", "output format (json, yaml or toml)")
	scanCmd.Flags().BoolVar(&scanSummary, "summary", false, "append count, min, max, mean and stddev of the values")
	scanCmd.Flags().StringVar(&scanCollector, "collector", scan.CollectorCSS, "table collector (css or xpath)")
	scanCmd.Flags().BoolVarP(&scanVerbose, "verbose", "v", false, "log pipeline stages to stderr")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	encode, err := encoderFor(scanOutput)
	if err != nil {
		return err
	}
	collector, err := scan.CollectorFor(scanCollector)
	if err != nil {
		return err
	}

	logger := cliLogger(scanVerbose)
	defer func() { _ = logger.Sync() }()

	outcome, err := newScanner(collector, logger.Logger).Scan(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	rep := report{Outcome: outcome}
	if scanSummary && outcome.Found() {
		s := summary.Of(outcome.Table)
		rep.Summary = &s
	}

	data, err := encode(rep)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func encoderFor(format string) (func(any) ([]byte, error), error) {
	switch format {
	case "json":
		return func(v any) ([]byte, error) {
			return sonic.ConfigStd.MarshalIndent(v, "", "  ")
		}, nil
	case "yaml":
		return yaml.Marshal, nil
	case "toml":
		return toml.Marshal, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

func cliLogger(verbose bool) *logging.Logger {
	cfg := logging.ConfigFor("warn", false)
	if verbose {
		cfg = logging.ConfigFor("debug", true)
	}
	cfg.OutputPaths = []string{"stderr"}
	return logging.NewOrDefault(cfg)
}
