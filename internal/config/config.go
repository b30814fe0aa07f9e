package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input" toml:"input" envconfig:"INPUT"`
	Output    OutputConfig    `yaml:"output" toml:"output" envconfig:"OUTPUT"`
	Report    ReportConfig    `yaml:"report" toml:"report" envconfig:"REPORT"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" toml:"telemetry" envconfig:"TELEMETRY"`
}

// InputConfig describes the census CSV to load
type InputConfig struct {
	Path      string `yaml:"path" toml:"path" split_words:"true" validate:"required"`
	Encoding  string `yaml:"encoding" toml:"encoding" split_words:"true" validate:"oneof=latin1 utf8"`
	Delimiter string `yaml:"delimiter" toml:"delimiter" split_words:"true" validate:"len=1"`
}

// OutputConfig describes where the charts, report and exports are written
type OutputConfig struct {
	Dir        string `yaml:"dir" toml:"dir" split_words:"true" validate:"required"`
	ExportCSV  bool   `yaml:"export_csv" toml:"export_csv" split_words:"true"`
	ExportXLSX bool   `yaml:"export_xlsx" toml:"export_xlsx" split_words:"true"`
}

// ReportConfig selects how the PDF report is produced
type ReportConfig struct {
	Engine        string   `yaml:"engine" toml:"engine" split_words:"true" validate:"oneof=fpdf chrome"`
	ChromeTimeout Duration `yaml:"chrome_timeout" toml:"chrome_timeout" split_words:"true" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" toml:"level" split_words:"true" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" toml:"format" split_words:"true" validate:"oneof=json text"`
	Output   string `yaml:"output" toml:"output" split_words:"true" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" toml:"file_path" split_words:"true"`
}

// TelemetryConfig toggles OpenTelemetry tracing and metrics files
type TelemetryConfig struct {
	EnableTracing bool   `yaml:"enable_tracing" toml:"enable_tracing" split_words:"true"`
	EnableMetrics bool   `yaml:"enable_metrics" toml:"enable_metrics" split_words:"true"`
	TraceFile     string `yaml:"trace_file" toml:"trace_file" split_words:"true"`
	MetricsFile   string `yaml:"metrics_file" toml:"metrics_file" split_words:"true"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Path:      DefaultInputPath,
			Encoding:  EncodingLatin1,
			Delimiter: DefaultDelimiter,
		},
		Output: OutputConfig{
			Dir:        DefaultOutputDir,
			ExportCSV:  true,
			ExportXLSX: true,
		},
		Report: ReportConfig{
			Engine:        EngineFPDF,
			ChromeTimeout: Duration(60 * time.Second),
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			TraceFile:   DefaultTraceFile,
			MetricsFile: DefaultMetricsFile,
		},
	}
}

// Load builds the configuration from defaults, an optional config file and
// CENSO_* environment variables, in increasing order of precedence.
// An empty configFile skips the file layer.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Keys are CENSO_<SECTION>_<FIELD>, e.g. CENSO_INPUT_PATH or CENSO_OUTPUT_EXPORT_CSV
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile decodes a YAML or TOML file on top of cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config file type %q", filepath.Ext(filePath))
	}
}

// Validate checks the configuration and normalizes derived values
func (c *Config) Validate() error {
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}
	if c.Telemetry.EnableTracing && c.Telemetry.TraceFile == "" {
		c.Telemetry.TraceFile = DefaultTraceFile
	}
	if c.Telemetry.EnableMetrics && c.Telemetry.MetricsFile == "" {
		c.Telemetry.MetricsFile = DefaultMetricsFile
	}

	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	return nil
}

// Paths resolves the output file locations for this configuration
func (c *Config) Paths() *Paths {
	return NewPaths(c.Output.Dir, c.Telemetry)
}
