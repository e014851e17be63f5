// Package config builds the explicit configuration struct the pipeline
// components receive. Values come from the environment, optionally overlaid
// by a YAML file; core logic never reads the environment itself.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	API    APIConfig
	OCR    OCRConfig
	Report ReportConfig
}

// APIConfig holds the Gemini credential and endpoint settings.
type APIConfig struct {
	Key     string
	BaseURL string
	Model   string // empty means discover via ListModels
	Timeout time.Duration
}

// OCRConfig holds recognition fallback settings.
type OCRConfig struct {
	Language      string
	TessdataDir   string
	DPI           float64
	TextThreshold int
}

// ReportConfig holds report output settings.
type ReportConfig struct {
	Path string // empty disables the XLSX report
}

// fileConfig mirrors the YAML overlay. The credential is deliberately not
// readable from a file.
type fileConfig struct {
	API struct {
		BaseURL     string `yaml:"base_url"`
		Model       string `yaml:"model"`
		TimeoutSecs int    `yaml:"timeout_secs"`
	} `yaml:"api"`
	OCR struct {
		Language      string  `yaml:"language"`
		TessdataDir   string  `yaml:"tessdata_dir"`
		DPI           float64 `yaml:"dpi"`
		TextThreshold int     `yaml:"text_threshold"`
	} `yaml:"ocr"`
	Report struct {
		Path string `yaml:"path"`
	} `yaml:"report"`
}

// Load reads configuration from environment variables and, when path is
// non-empty, overlays the YAML file at path.
func Load(path string) (*Config, error) {
	cfg := fromEnv()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse config %q: %w", path, err)
		}
		merge(cfg, &fc)
	}
	applyDefaults(cfg)
	return cfg, nil
}

func fromEnv() *Config {
	return &Config{
		API: APIConfig{
			Key:     getEnv("GEMINI_API_KEY", ""),
			BaseURL: getEnv("GEMINI_BASE_URL", ""),
			Model:   getEnv("GEMINI_MODEL", ""),
			Timeout: getEnvAsDuration("LLM_TIMEOUT", 45*time.Second),
		},
		OCR: OCRConfig{
			Language:      getEnv("OCR_LANG", ""),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			DPI:           getEnvAsFloat64("OCR_DPI", 0),
			TextThreshold: getEnvAsInt("OCR_TEXT_THRESHOLD", 0),
		},
		Report: ReportConfig{
			Path: getEnv("REPORT_PATH", ""),
		},
	}
}

func merge(cfg *Config, fc *fileConfig) {
	if fc.API.BaseURL != "" {
		cfg.API.BaseURL = fc.API.BaseURL
	}
	if fc.API.Model != "" {
		cfg.API.Model = fc.API.Model
	}
	if fc.API.TimeoutSecs > 0 {
		cfg.API.Timeout = time.Duration(fc.API.TimeoutSecs) * time.Second
	}
	if fc.OCR.Language != "" {
		cfg.OCR.Language = fc.OCR.Language
	}
	if fc.OCR.TessdataDir != "" {
		cfg.OCR.TessdataDir = fc.OCR.TessdataDir
	}
	if fc.OCR.DPI > 0 {
		cfg.OCR.DPI = fc.OCR.DPI
	}
	if fc.OCR.TextThreshold > 0 {
		cfg.OCR.TextThreshold = fc.OCR.TextThreshold
	}
	if fc.Report.Path != "" {
		cfg.Report.Path = fc.Report.Path
	}
}

func applyDefaults(cfg *Config) {
	if cfg.OCR.Language == "" {
		cfg.OCR.Language = "eng"
	}
	if cfg.OCR.DPI <= 0 {
		cfg.OCR.DPI = 300
	}
	if cfg.OCR.TextThreshold <= 0 {
		cfg.OCR.TextThreshold = 50
	}
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = 45 * time.Second
	}
}

// Validate checks that required values are present.
func (c *Config) Validate() error {
	if c.API.Key == "" {
		return errors.New("GEMINI_API_KEY is required")
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
