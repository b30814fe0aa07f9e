// Package config provides centralized configuration management for the census
// report. It loads configuration from multiple sources, validates it, and
// resolves every output file location.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Command line flags (applied by cmd/censo-report)
//	2. Environment variables
//	3. Configuration file (YAML or TOML)
//	4. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern CENSO_<SECTION>_<FIELD>:
//
//	CENSO_INPUT_PATH=data/censo.csv
//	CENSO_INPUT_ENCODING=latin1
//	CENSO_OUTPUT_DIR=relatorios
//	CENSO_REPORT_ENGINE=chrome
//	CENSO_LOGGING_LEVEL=debug
//	CENSO_TELEMETRY_ENABLE_TRACING=true
//
// # Usage
//
//	cfg, err := config.Load("censo.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths := cfg.Paths()
package config
