package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var censoEnvVars = []string{
	"CENSO_INPUT_PATH", "CENSO_INPUT_ENCODING", "CENSO_INPUT_DELIMITER",
	"CENSO_OUTPUT_DIR", "CENSO_OUTPUT_EXPORT_CSV", "CENSO_OUTPUT_EXPORT_XLSX",
	"CENSO_REPORT_ENGINE", "CENSO_REPORT_CHROME_TIMEOUT",
	"CENSO_LOGGING_LEVEL", "CENSO_LOGGING_FORMAT", "CENSO_LOGGING_OUTPUT", "CENSO_LOGGING_FILE_PATH",
	"CENSO_TELEMETRY_ENABLE_TRACING", "CENSO_TELEMETRY_ENABLE_METRICS",
	"CENSO_TELEMETRY_TRACE_FILE", "CENSO_TELEMETRY_METRICS_FILE",
}

// clearEnv unsets every CENSO_* variable for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range censoEnvVars {
		if val, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, val) })
			os.Unsetenv(key)
		}
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        func(t *testing.T) string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no file and no env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultInputPath, cfg.Input.Path)
				assert.Equal(t, EncodingLatin1, cfg.Input.Encoding)
				assert.Equal(t, ";", cfg.Input.Delimiter)
				assert.Equal(t, DefaultOutputDir, cfg.Output.Dir)
				assert.True(t, cfg.Output.ExportCSV)
				assert.True(t, cfg.Output.ExportXLSX)
				assert.Equal(t, EngineFPDF, cfg.Report.Engine)
				assert.Equal(t, 60*time.Second, cfg.Report.ChromeTimeout.Std())
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.False(t, cfg.Telemetry.EnableTracing)
				assert.False(t, cfg.Telemetry.EnableMetrics)
			},
		},
		{
			name: "yaml file overrides defaults",
			file: func(t *testing.T) string {
				return writeFile(t, "censo.yaml", `
input:
  path: /data/censo.csv
  encoding: utf8
output:
  dir: /tmp/out
  export_xlsx: false
report:
  engine: chrome
  chrome_timeout: 90s
logging:
  level: debug
`)
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/data/censo.csv", cfg.Input.Path)
				assert.Equal(t, EncodingUTF8, cfg.Input.Encoding)
				assert.Equal(t, ";", cfg.Input.Delimiter)
				assert.Equal(t, "/tmp/out", cfg.Output.Dir)
				assert.True(t, cfg.Output.ExportCSV)
				assert.False(t, cfg.Output.ExportXLSX)
				assert.Equal(t, EngineChrome, cfg.Report.Engine)
				assert.Equal(t, 90*time.Second, cfg.Report.ChromeTimeout.Std())
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name: "toml file overrides defaults",
			file: func(t *testing.T) string {
				return writeFile(t, "censo.toml", `
[input]
path = "censo.csv"

[report]
chrome_timeout = "45s"

[telemetry]
enable_metrics = true
`)
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "censo.csv", cfg.Input.Path)
				assert.Equal(t, 45*time.Second, cfg.Report.ChromeTimeout.Std())
				assert.True(t, cfg.Telemetry.EnableMetrics)
				assert.Equal(t, DefaultMetricsFile, cfg.Telemetry.MetricsFile)
			},
		},
		{
			name: "env overrides file",
			env: map[string]string{
				"CENSO_INPUT_PATH":               "/env/censo.csv",
				"CENSO_OUTPUT_DIR":               "/env/out",
				"CENSO_TELEMETRY_ENABLE_TRACING": "true",
				"CENSO_REPORT_CHROME_TIMEOUT":    "2m",
			},
			file: func(t *testing.T) string {
				return writeFile(t, "censo.yml", "input:\n  path: /file/censo.csv\n")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/env/censo.csv", cfg.Input.Path)
				assert.Equal(t, "/env/out", cfg.Output.Dir)
				assert.True(t, cfg.Telemetry.EnableTracing)
				assert.Equal(t, 2*time.Minute, cfg.Report.ChromeTimeout.Std())
			},
		},
		{
			name:    "invalid engine fails validation",
			env:     map[string]string{"CENSO_REPORT_ENGINE": "latex"},
			wantErr: true,
		},
		{
			name:    "invalid encoding fails validation",
			env:     map[string]string{"CENSO_INPUT_ENCODING": "ebcdic"},
			wantErr: true,
		},
		{
			name: "unsupported file extension",
			file: func(t *testing.T) string {
				return writeFile(t, "censo.ini", "input=1")
			},
			wantErr: true,
		},
		{
			name: "missing file",
			file: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.yaml")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			var file string
			if tt.file != nil {
				file = tt.file(t)
			}

			cfg, err := Load(file)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Run("default config is valid", func(t *testing.T) {
		assert.NoError(t, Default().Validate())
	})

	t.Run("empty input path", func(t *testing.T) {
		cfg := Default()
		cfg.Input.Path = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty output dir", func(t *testing.T) {
		cfg := Default()
		cfg.Output.Dir = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("multi character delimiter", func(t *testing.T) {
		cfg := Default()
		cfg.Input.Delimiter = ";;"
		assert.Error(t, cfg.Validate())
	})

	t.Run("file logging gets a default path", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.Output = "both"
		cfg.Logging.FilePath = ""
		require.NoError(t, cfg.Validate())
		assert.Equal(t, DefaultLogFile, cfg.Logging.FilePath)
	})
}

func TestPaths(t *testing.T) {
	cfg := Default()
	cfg.Output.Dir = filepath.Join(t.TempDir(), "out")
	cfg.Telemetry.MetricsFile = "/abs/metrics.prom"

	paths := cfg.Paths()
	assert.Equal(t, filepath.Join(cfg.Output.Dir, "matrículas_por_localizacao.png"), paths.BarChart)
	assert.Equal(t, filepath.Join(cfg.Output.Dir, "distribuicao_clusters.png"), paths.PieChart)
	assert.Equal(t, filepath.Join(cfg.Output.Dir, "relatorio_censo_escolar.pdf"), paths.Report)
	assert.Equal(t, filepath.Join(cfg.Output.Dir, DefaultTraceFile), paths.TraceFile)
	assert.Equal(t, "/abs/metrics.prom", paths.MetricsFile)

	require.NoError(t, paths.EnsureDirectories())
	info, err := os.Stat(cfg.Output.Dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
