package config

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/rs/zerolog"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks that all values are in range.
func (c *Config) Validate() error {
	if c.SampleFraction <= 0 || c.SampleFraction > 1 {
		return fmt.Errorf("sample_fraction must be in (0, 1], got %v", c.SampleFraction)
	}
	if c.Output == "" {
		return errors.New("output is required")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	if c.HeavyTail.Probability < 0 || c.HeavyTail.Probability > 1 {
		return fmt.Errorf("heavy_tail.probability must be in [0, 1], got %v", c.HeavyTail.Probability)
	}
	if c.HeavyTail.Min < 0 || c.HeavyTail.Max < c.HeavyTail.Min {
		return fmt.Errorf("heavy_tail range [%v, %v] is invalid", c.HeavyTail.Min, c.HeavyTail.Max)
	}

	if len(c.Segments) == 0 {
		return errors.New("at least one segment is required")
	}
	seen := make(map[string]bool, len(c.Segments))
	for i, s := range c.Segments {
		if err := s.validate(fmt.Sprintf("segments[%d]", i)); err != nil {
			return err
		}
		if seen[s.Name] {
			return fmt.Errorf("segments[%d]: duplicate segment name %q", i, s.Name)
		}
		seen[s.Name] = true
	}

	return nil
}

func (s SegmentConfig) validate(prefix string) error {
	if s.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if s.Count < 1 {
		return fmt.Errorf("%s.count must be >= 1", prefix)
	}
	if s.Sigma <= 0 {
		return fmt.Errorf("%s.sigma must be > 0", prefix)
	}
	if !hexColor.MatchString(s.Color) {
		return fmt.Errorf("%s.color must be a #rrggbb hex color, got %q", prefix, s.Color)
	}
	return nil
}
