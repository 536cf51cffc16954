package config

import "github.com/spf13/viper"

// Default values for optional configuration fields.
const (
	DefaultSeed           = 42
	DefaultSampleSeed     = 1
	DefaultSampleFraction = 0.25
	DefaultOutput         = "chart.png"
	DefaultLogLevel       = "info"
	DefaultHeavyTailProb  = 0.03
	DefaultHeavyTailMin   = 3.0
	DefaultHeavyTailMax   = 10.0
	DefaultDatabasePath   = "purchase-atlas.db"
	DefaultPublishKey     = "charts/chart.png"
	DefaultPublishRegion  = "us-east-1"
)

// DefaultSegments are the three customer cohorts charted by default.
var DefaultSegments = []SegmentConfig{
	{Name: "Low value", Count: 550, Mu: 3.0, Sigma: 0.6, Color: "#7fbf7f"},
	{Name: "Mid value", Count: 450, Mu: 4.2, Sigma: 0.7, Color: "#4a90e2"},
	{Name: "High value", Count: 200, Mu: 5.0, Sigma: 0.9, Color: "#d64545"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("seed", DefaultSeed)
	v.SetDefault("sample_seed", DefaultSampleSeed)
	v.SetDefault("sample_fraction", DefaultSampleFraction)
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("heavy_tail.probability", DefaultHeavyTailProb)
	v.SetDefault("heavy_tail.min", DefaultHeavyTailMin)
	v.SetDefault("heavy_tail.max", DefaultHeavyTailMax)
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("publish.key", DefaultPublishKey)
	v.SetDefault("publish.region", DefaultPublishRegion)
}

func (c *Config) applyDefaults() {
	c.Seed = DefaultSeed
	c.SampleSeed = DefaultSampleSeed
	c.SampleFraction = DefaultSampleFraction
	c.Output = DefaultOutput
	c.LogLevel = DefaultLogLevel
	c.HeavyTail = HeavyTailConfig{
		Probability: DefaultHeavyTailProb,
		Min:         DefaultHeavyTailMin,
		Max:         DefaultHeavyTailMax,
	}
	c.Segments = append([]SegmentConfig{}, DefaultSegments...)
	c.Database.Path = DefaultDatabasePath
	c.Publish.Key = DefaultPublishKey
	c.Publish.Region = DefaultPublishRegion
}
