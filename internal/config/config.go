package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	PageFetchTimeout   time.Duration
	AnalysisTimeout    time.Duration
	AssessorTimeout    time.Duration
	MaxRequestBodySize int64

	// MaxWorkers bounds concurrent page analyses; 0 means CPU count.
	MaxWorkers int
	// WorkingWidth is the fixed analysis resolution; wider pages are
	// downsampled to it before the signal chain runs.
	WorkingWidth int
	// ArtifactDir enables diagnostic-image emission when non-empty.
	ArtifactDir string

	// Visual assessor (Azure OpenAI-compatible vision endpoint).
	AssessorEndpoint   string
	AssessorDeployment string
	AssessorAPIKey     string
	AssessorAPIVersion string

	// Azure Blob page storage (optional backend).
	AzureAccountName string
	AzureAccountKey  string
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// AssessorConfigured reports whether the visual assessor collaborator
// can be called at all; without it every page runs degraded.
func (c *Config) AssessorConfigured() bool {
	return c.AssessorEndpoint != "" && c.AssessorDeployment != "" && c.AssessorAPIKey != ""
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 120*time.Second),
		PageFetchTimeout:   parseDurationOrDefault("PAGE_FETCH_TIMEOUT", 15*time.Second),
		AnalysisTimeout:    parseDurationOrDefault("ANALYSIS_TIMEOUT", 60*time.Second),
		AssessorTimeout:    parseDurationOrDefault("ASSESSOR_TIMEOUT", 45*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024), // 10MB
		MaxWorkers:         int(parseIntOrDefault("MAX_WORKERS", 0)),
		WorkingWidth:       int(parseIntOrDefault("WORKING_WIDTH", 1700)),
		ArtifactDir:        os.Getenv("ARTIFACT_DIR"),
		AssessorEndpoint:   strings.TrimRight(os.Getenv("ASSESSOR_ENDPOINT"), "/"),
		AssessorDeployment: os.Getenv("ASSESSOR_DEPLOYMENT"),
		AssessorAPIKey:     os.Getenv("ASSESSOR_API_KEY"),
		AssessorAPIVersion: getEnvOrDefault("ASSESSOR_API_VERSION", "2024-08-01-preview"),
		AzureAccountName:   os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureAccountKey:    os.Getenv("AZURE_STORAGE_KEY"),
	}

	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.MaxWorkers < 0 {
		return nil, fmt.Errorf("MAX_WORKERS must be >= 0 (got %d)", cfg.MaxWorkers)
	}
	if cfg.WorkingWidth < 100 {
		return nil, fmt.Errorf("WORKING_WIDTH must be >= 100 (got %d)", cfg.WorkingWidth)
	}
	if cfg.RequestTimeout <= 0 || cfg.PageFetchTimeout <= 0 || cfg.AnalysisTimeout <= 0 || cfg.AssessorTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s, analysis=%s, assessor=%s)",
			cfg.RequestTimeout, cfg.PageFetchTimeout, cfg.AnalysisTimeout, cfg.AssessorTimeout)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
