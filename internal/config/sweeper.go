package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"
)

// EnvSweeperRetentionMinutes overrides the retention window.
const EnvSweeperRetentionMinutes = "SWEEPER_RETENTION_MINUTES"

// MaxRetentionMinutes is the largest window representable as a time.Duration.
const MaxRetentionMinutes = math.MaxInt64 / int64(time.Minute)

// SweeperConfig controls the retention sweeper.
type SweeperConfig struct {
	RetentionMinutes int `toml:"retention_minutes"`
}

// Retention returns the retention window as a duration.
func (c *SweeperConfig) Retention() time.Duration {
	return time.Duration(c.RetentionMinutes) * time.Minute
}

// Finalize applies defaults and the environment override, failing on a
// non-integer, non-positive, or unrepresentable retention.
func (c *SweeperConfig) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}
	return c.validate()
}

func (c *SweeperConfig) Merge(overlay *SweeperConfig) {
	if overlay.RetentionMinutes != 0 {
		c.RetentionMinutes = overlay.RetentionMinutes
	}
}

func (c *SweeperConfig) loadDefaults() {
	if c.RetentionMinutes == 0 {
		c.RetentionMinutes = 10
	}
}

func (c *SweeperConfig) loadEnv() error {
	if v := os.Getenv(EnvSweeperRetentionMinutes); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvSweeperRetentionMinutes, v, err)
		}
		c.RetentionMinutes = n
	}
	return nil
}

func (c *SweeperConfig) validate() error {
	if c.RetentionMinutes <= 0 {
		return fmt.Errorf("retention_minutes must be positive, got %d", c.RetentionMinutes)
	}
	if int64(c.RetentionMinutes) > MaxRetentionMinutes {
		return fmt.Errorf("retention_minutes must be at most %d, got %d", MaxRetentionMinutes, c.RetentionMinutes)
	}
	return nil
}
