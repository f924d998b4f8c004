package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Trace exporter names accepted by OTEL_TRACES_EXPORTER.
const (
	ExporterOTLP   = "otlp"
	ExporterStdout = "stdout"
	ExporterNone   = "none"
)

// Config holds all configuration for the risk calculator.
type Config struct {
	LogLevel        string
	LogFormat       string
	Environment     string
	ModelsFile      string
	DefaultModel    string
	TracesExporter  string
	OTLPEndpoint    string
	OTLPCertificate string
	MetricsTextfile string
	AuditLog        string
	TargetBMI       float64
	OTLPInsecure    bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	targetBMI, err := getEnvFloat("RISKCALC_TARGET_BMI", 24.0)
	if err != nil {
		return nil, err
	}
	insecure, err := getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		ModelsFile:      getEnv("RISKCALC_MODELS_FILE", ""),
		DefaultModel:    getEnv("RISKCALC_DEFAULT_MODEL", "diabetes-logistic-v1"),
		TargetBMI:       targetBMI,
		TracesExporter:  strings.ToLower(getEnv("OTEL_TRACES_EXPORTER", ExporterNone)),
		OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTLPInsecure:    insecure,
		OTLPCertificate: getEnv("OTEL_EXPORTER_OTLP_CERTIFICATE", ""),
		MetricsTextfile: getEnv("METRICS_TEXTFILE", ""),
		AuditLog:        getEnv("RISKCALC_AUDIT_LOG", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be caught at parse time.
func (c *Config) Validate() error {
	switch c.TracesExporter {
	case ExporterOTLP, ExporterStdout, ExporterNone:
	default:
		return fmt.Errorf("OTEL_TRACES_EXPORTER must be otlp, stdout or none, got %q", c.TracesExporter)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	if c.TargetBMI < 0 {
		return fmt.Errorf("RISKCALC_TARGET_BMI must not be negative, got %g", c.TargetBMI)
	}
	if c.DefaultModel == "" {
		return fmt.Errorf("RISKCALC_DEFAULT_MODEL must not be empty")
	}
	return nil
}

// TracingEnabled reports whether spans should be exported anywhere.
func (c *Config) TracingEnabled() bool {
	return c.TracesExporter != ExporterNone
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
