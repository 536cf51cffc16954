package config

import (
	"fmt"
	"strings"

	"github.com/de-tools/purchase-atlas/pkg/models/domain"
	"github.com/spf13/viper"
)

type Config struct {
	Seed           uint64          `mapstructure:"seed"`
	SampleSeed     uint64          `mapstructure:"sample_seed"`
	SampleFraction float64         `mapstructure:"sample_fraction"`
	Output         string          `mapstructure:"output"`
	LogLevel       string          `mapstructure:"log_level"`
	HeavyTail      HeavyTailConfig `mapstructure:"heavy_tail"`
	Segments       []SegmentConfig `mapstructure:"segments"`
	Database       DatabaseConfig  `mapstructure:"database"`
	Publish        PublishConfig   `mapstructure:"publish"`
}

type HeavyTailConfig struct {
	Probability float64 `mapstructure:"probability"`
	Min         float64 `mapstructure:"min"`
	Max         float64 `mapstructure:"max"`
}

type SegmentConfig struct {
	Name  string  `mapstructure:"name"`
	Count int     `mapstructure:"count"`
	Mu    float64 `mapstructure:"mu"`
	Sigma float64 `mapstructure:"sigma"`
	Color string  `mapstructure:"color"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type PublishConfig struct {
	Bucket  string `mapstructure:"bucket"`
	Key     string `mapstructure:"key"`
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads the file at path on top of the defaults. An empty path
// yields the defaults. Keys may also be overridden with PURCHASE_ATLAS_* env vars.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("purchase_atlas")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	// Scalars are defaulted by viper; explicit zero values are kept.
	if len(cfg.Segments) == 0 {
		cfg.Segments = append([]SegmentConfig{}, DefaultSegments...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// SegmentSpecs converts the configured segments into synthesizer input,
// preserving their order.
func (c *Config) SegmentSpecs() []domain.SegmentSpec {
	specs := make([]domain.SegmentSpec, 0, len(c.Segments))
	for _, s := range c.Segments {
		specs = append(specs, domain.SegmentSpec{
			Name:  s.Name,
			Count: s.Count,
			Mu:    s.Mu,
			Sigma: s.Sigma,
			Color: s.Color,
		})
	}
	return specs
}
