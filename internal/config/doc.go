// Package config provides centralized configuration management for the
// order-data pipeline. It loads settings from the environment and an optional
// YAML file, validates them and resolves every path the jobs touch.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. Configuration file (config.yaml, configs/config.yaml or OLIST_CONFIG_FILE)
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern OLIST_* for namespacing:
//
//	OLIST_LOGGING_LEVEL=debug
//	OLIST_PIPELINE_DATA_DIR=/srv/olist/raw
//	OLIST_PIPELINE_ANALYSIS_DIR=/srv/olist/out
//	OLIST_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Path Management
//
// Paths are configuration values, never package state. Each job resolves
// them once and passes them down:
//
//	paths, err := config.GetPaths(cfg.Pipeline)
//	report := paths.GetReportPath("1_sales_by_category.png")
//
// # Testing
//
// Use config.Default() and point Pipeline.BaseDir at t.TempDir().
package config
