package config

import (
	"fmt"
	"sort"

	"github.com/spf13/viper"

	"github.com/nairafolio/statement-ingest/internal/models"
	"github.com/nairafolio/statement-ingest/internal/registry"
)

// Config is the application configuration. Everything has a usable default;
// a config file only overrides.
type Config struct {
	ListenAddr       string `mapstructure:"listen_addr"`
	GeminiModel      string `mapstructure:"gemini_model"`
	LookAheadRows    int    `mapstructure:"look_ahead_rows"`
	PreserveOriginal bool   `mapstructure:"preserve_original"`

	// ExtraFeeKeywords are appended to the built-in fee vocabulary.
	ExtraFeeKeywords []string `mapstructure:"extra_fee_keywords"`

	// DetectionPatterns adds per-bank detection substrings, keyed by bank
	// identifier.
	DetectionPatterns map[string][]string `mapstructure:"detection_patterns"`

	// FieldMappings overrides a bank's column mapping: bank identifier →
	// raw column header → standard field name.
	FieldMappings map[string]map[string]string `mapstructure:"field_mappings"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("gemini_model", "gemini-2.5-flash")
	v.SetDefault("look_ahead_rows", 3)
	v.SetDefault("preserve_original", false)
}

// Load reads configuration from the given TOML file plus environment
// variables prefixed with INGEST_. An empty path returns pure defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("INGEST")
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// RegistryOptions converts file-loaded overrides into registry options, so
// the mapping source can be swapped without touching calling code. Banks are
// applied in sorted identifier order: registration order decides detection
// tie-breaks, and Go map iteration order would make those tie-breaks vary
// between process runs.
func (c *Config) RegistryOptions() []registry.Option {
	var opts []registry.Option
	if len(c.ExtraFeeKeywords) > 0 {
		opts = append(opts, registry.WithFeeKeywords(c.ExtraFeeKeywords...))
	}
	for _, bank := range sortedKeys(c.DetectionPatterns) {
		opts = append(opts, registry.WithDetectionPatterns(models.BankType(bank), c.DetectionPatterns[bank]...))
	}
	for _, bank := range sortedKeys(c.FieldMappings) {
		columns := c.FieldMappings[bank]
		mapping := make(map[string]registry.StandardField, len(columns))
		for header, field := range columns {
			mapping[header] = registry.StandardField(field)
		}
		opts = append(opts, registry.WithFieldMapping(models.BankType(bank), mapping))
	}
	return opts
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
