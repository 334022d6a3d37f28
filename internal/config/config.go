package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load (OLIST_*)
const EnvPrefix = "OLIST"

// Config represents the complete pipeline configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration. A relative FilePath is placed
// in the logs directory under the pipeline base directory.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"olist.log"`
}

// PipelineConfig holds the directories, file names and tunables shared by
// the ETL and analysis jobs. Relative directories resolve against BaseDir.
type PipelineConfig struct {
	BaseDir            string  `yaml:"base_dir" envconfig:"BASE_DIR" default:"."`
	DataDir            string  `yaml:"data_dir" envconfig:"DATA_DIR" default:"data" validate:"required"`
	AnalysisDir        string  `yaml:"analysis_dir" envconfig:"ANALYSIS_DIR" default:"analysis" validate:"required"`
	OutputFile         string  `yaml:"output_file" envconfig:"OUTPUT_FILE" default:"processed_orders.csv" validate:"required"`
	SummaryWorkbook    string  `yaml:"summary_workbook" envconfig:"SUMMARY_WORKBOOK" default:"summary.xlsx"`
	DeliveryCutoffDays int     `yaml:"delivery_cutoff_days" envconfig:"DELIVERY_CUTOFF_DAYS" default:"40" validate:"gt=0"`
	TopCategories      int     `yaml:"top_categories" envconfig:"TOP_CATEGORIES" default:"15" validate:"gt=0"`
	HistogramBins      int     `yaml:"histogram_bins" envconfig:"HISTOGRAM_BINS" default:"30" validate:"gt=0"`
	ChartWidthInches   float64 `yaml:"chart_width_inches" envconfig:"CHART_WIDTH_INCHES" default:"12" validate:"gt=0"`
	ChartHeightInches  float64 `yaml:"chart_height_inches" envconfig:"CHART_HEIGHT_INCHES" default:"7" validate:"gt=0"`
}

// TelemetryConfig controls metrics textfiles and trace export
type TelemetryConfig struct {
	MetricsEnabled bool    `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED" default:"true"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none" validate:"oneof=none stdout"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" default:"1" validate:"gte=0,lte=1"`
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT" default:"development"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Environment (with struct defaults) first
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Config file fills whatever the environment left at its default
	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, switches, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
		switches.apply(&cfg.Telemetry)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// telemetrySwitches records the telemetry values a config file sets
// explicitly, so that false or 0 can replace a non-zero default
type telemetrySwitches struct {
	Telemetry struct {
		MetricsEnabled *bool    `yaml:"metrics_enabled"`
		SampleRatio    *float64 `yaml:"sample_ratio"`
	} `yaml:"telemetry"`
}

// apply copies the explicit file values into t unless the environment set them
func (s *telemetrySwitches) apply(t *TelemetryConfig) {
	if v := s.Telemetry.MetricsEnabled; v != nil && !envIsSet("TELEMETRY_METRICS_ENABLED") {
		t.MetricsEnabled = *v
	}
	if v := s.Telemetry.SampleRatio; v != nil && !envIsSet("TELEMETRY_SAMPLE_RATIO") {
		t.SampleRatio = *v
	}
}

func envIsSet(name string) bool {
	_, ok := os.LookupEnv(EnvPrefix + "_" + name)
	return ok
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, *telemetrySwitches, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, nil, err
	}

	var switches telemetrySwitches
	if err := yaml.Unmarshal(data, &switches); err != nil {
		return nil, nil, err
	}

	return &cfg, &switches, nil
}

// mergeConfigs merges file config with env config. A value explicitly set in
// the environment wins; otherwise a non-zero file value replaces the default.
func mergeConfigs(fileConfig, envConfig Config) Config {
	def := Default()

	pick := func(env, file, dflt string) string {
		if env != dflt || file == "" {
			return env
		}
		return file
	}
	pickInt := func(env, file, dflt int) int {
		if env != dflt || file == 0 {
			return env
		}
		return file
	}
	pickFloat := func(env, file, dflt float64) float64 {
		if env != dflt || file == 0 {
			return env
		}
		return file
	}

	// Logging
	envConfig.Logging.Level = pick(envConfig.Logging.Level, fileConfig.Logging.Level, def.Logging.Level)
	envConfig.Logging.Output = pick(envConfig.Logging.Output, fileConfig.Logging.Output, def.Logging.Output)
	envConfig.Logging.FilePath = pick(envConfig.Logging.FilePath, fileConfig.Logging.FilePath, def.Logging.FilePath)

	// Pipeline
	p, fp, dp := &envConfig.Pipeline, fileConfig.Pipeline, def.Pipeline
	p.BaseDir = pick(p.BaseDir, fp.BaseDir, dp.BaseDir)
	p.DataDir = pick(p.DataDir, fp.DataDir, dp.DataDir)
	p.AnalysisDir = pick(p.AnalysisDir, fp.AnalysisDir, dp.AnalysisDir)
	p.OutputFile = pick(p.OutputFile, fp.OutputFile, dp.OutputFile)
	p.SummaryWorkbook = pick(p.SummaryWorkbook, fp.SummaryWorkbook, dp.SummaryWorkbook)
	p.DeliveryCutoffDays = pickInt(p.DeliveryCutoffDays, fp.DeliveryCutoffDays, dp.DeliveryCutoffDays)
	p.TopCategories = pickInt(p.TopCategories, fp.TopCategories, dp.TopCategories)
	p.HistogramBins = pickInt(p.HistogramBins, fp.HistogramBins, dp.HistogramBins)
	p.ChartWidthInches = pickFloat(p.ChartWidthInches, fp.ChartWidthInches, dp.ChartWidthInches)
	p.ChartHeightInches = pickFloat(p.ChartHeightInches, fp.ChartHeightInches, dp.ChartHeightInches)

	// Telemetry
	envConfig.Telemetry.TraceExporter = pick(envConfig.Telemetry.TraceExporter, fileConfig.Telemetry.TraceExporter, def.Telemetry.TraceExporter)
	envConfig.Telemetry.Environment = pick(envConfig.Telemetry.Environment, fileConfig.Telemetry.Environment, def.Telemetry.Environment)

	return envConfig
}

// Validate checks the struct tags and normalizes logging per the JSON-only rule
func (c *Config) Validate() error {
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging file path is required for output %q", c.Logging.Output)
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG_FILE"); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "olist.log",
		},
		Pipeline: PipelineConfig{
			BaseDir:            ".",
			DataDir:            "data",
			AnalysisDir:        "analysis",
			OutputFile:         "processed_orders.csv",
			SummaryWorkbook:    "summary.xlsx",
			DeliveryCutoffDays: 40,
			TopCategories:      15,
			HistogramBins:      30,
			ChartWidthInches:   12,
			ChartHeightInches:  7,
		},
		Telemetry: TelemetryConfig{
			MetricsEnabled: true,
			TraceExporter:  "none",
			SampleRatio:    1,
			Environment:    "development",
		},
	}
}
