// Command censo-report turns a school census CSV into charts, a PDF report
// and optional CSV/XLSX exports.
//
// Usage:
//
//	censo-report [-config file] [-input path] [-out dir] [-engine fpdf|chrome]
//
// Flags override the config file and CENSO_* environment variables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/config"
	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/infrastructure"
	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/internal/operations"
	"github.com/felipepiassi/an-lise-de-dados-do-Censo-Escolar/pkg/contracts"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			slog.Error("censo_report_failed", slog.String("error", err.Error()))
		}
		stop()
		os.Exit(1)
	}
}

// options are the command-line overrides
type options struct {
	configFile string
	input      string
	outputDir  string
	engine     string
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("censo-report", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.configFile, "config", "", "YAML or TOML configuration file")
	fs.StringVar(&opts.input, "input", "", "census CSV file (overrides input.path)")
	fs.StringVar(&opts.outputDir, "out", "", "output directory (overrides output.dir)")
	fs.StringVar(&opts.engine, "engine", "", "report engine: fpdf | chrome (overrides report.engine)")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

// loadConfig layers the flags on top of file and environment configuration
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}
	if opts.input != "" {
		cfg.Input.Path = opts.input
	}
	if opts.outputDir != "" {
		cfg.Output.Dir = opts.outputDir
	}
	if opts.engine != "" {
		cfg.Report.Engine = opts.engine
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args, stdout)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("logger_init_failed", slog.String("error", err.Error()))
		logger = slog.Default()
	}
	defer func() { _ = infrastructure.CloseLogFile() }()

	paths := cfg.Paths()
	otelCfg := infrastructure.DefaultOTelConfig()
	otelCfg.EnableTracing = cfg.Telemetry.EnableTracing
	otelCfg.EnableMetrics = cfg.Telemetry.EnableMetrics
	otelCfg.TraceFile = paths.TraceFile
	otelCfg.MetricsFile = paths.MetricsFile

	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("otel_shutdown_failed", slog.String("error", err.Error()))
		}
	}()

	logger.Info("censo_report_starting",
		slog.String("version", contracts.Version),
		slog.String("input", cfg.Input.Path),
		slog.String("output_dir", cfg.Output.Dir),
		slog.String("engine", cfg.Report.Engine))

	manager, err := operations.NewCensusOperation(cfg, operations.Dependencies{
		Logger:    logger,
		Telemetry: providers,
	})
	if err != nil {
		return err
	}

	resp, err := manager.Execute(ctx, operations.OperationRequest{})
	if resp != nil {
		printSummary(stdout, resp)
	}
	return err
}

// printSummary writes the outcome of a run for the user
func printSummary(w io.Writer, resp *operations.OperationResponse) {
	fmt.Fprintf(w, "operation %s: %s (%s)\n", resp.ID, resp.Status, resp.Duration.Round(time.Millisecond))
	if resp.Cluster != nil && !resp.Cluster.Succeeded() {
		fmt.Fprintf(w, "clustering skipped: %s\n", resp.Cluster.Reason)
	}
	for _, path := range resp.Artifacts {
		fmt.Fprintf(w, "wrote %s\n", path)
	}
}
