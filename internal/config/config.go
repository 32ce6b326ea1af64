// Package config loads the application configuration and initializes the
// global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Extract   ExtractConfig   `yaml:"extract" mapstructure:"extract"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	OCR       OCRConfig       `yaml:"ocr" mapstructure:"ocr"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ExtractConfig holds the extraction pipeline thresholds.
type ExtractConfig struct {
	// MinTextChars is the input length below which escalation fires.
	MinTextChars int `yaml:"min_text_chars" mapstructure:"min_text_chars"`
	// MaxTariffPerKWh is the per-kWh tariff sanity ceiling.
	MaxTariffPerKWh float64 `yaml:"max_tariff_per_kwh" mapstructure:"max_tariff_per_kwh"`
	// MaxQuantityKWh is the row quantity sanity ceiling.
	MaxQuantityKWh float64 `yaml:"max_quantity_kwh" mapstructure:"max_quantity_kwh"`
	// MaxInjectionRatio flags injected/consumed ratios above this multiple.
	MaxInjectionRatio float64 `yaml:"max_injection_ratio" mapstructure:"max_injection_ratio"`
	// SavingsDiscountPct drives the savings projection.
	SavingsDiscountPct float64 `yaml:"savings_discount_pct" mapstructure:"savings_discount_pct"`
	// Denylist extends the built-in issuer decoy constants.
	Denylist []string `yaml:"denylist" mapstructure:"denylist"`
	// SpecFile optionally points at a YAML file with additional field
	// locator specs for new invoice layout revisions.
	SpecFile string `yaml:"spec_file" mapstructure:"spec_file"`
}

// AnthropicConfig holds the AI fallback extractor settings.
type AnthropicConfig struct {
	Key               string `yaml:"key" mapstructure:"key"`
	Model             string `yaml:"model" mapstructure:"model"`
	MaxTokens         int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	RequestsPerMinute int    `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// OCRConfig configures PDF text re-acquisition.
type OCRConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"`
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
}

// BatchConfig configures directory batch processing.
type BatchConfig struct {
	MaxConcurrentFiles int `yaml:"max_concurrent_files" mapstructure:"max_concurrent_files"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FATURA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("extract.min_text_chars", 120)
	v.SetDefault("extract.max_tariff_per_kwh", 10.0)
	v.SetDefault("extract.max_quantity_kwh", 100000.0)
	v.SetDefault("extract.max_injection_ratio", 10.0)
	v.SetDefault("extract.savings_discount_pct", 0.10)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("anthropic.requests_per_minute", 30)
	v.SetDefault("ocr.provider", "local")
	v.SetDefault("ocr.pdftotext_path", "pdftotext")
	v.SetDefault("batch.max_concurrent_files", 4)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
