package region

import (
	"math"

	"github.com/pkg/errors"
)

const (
	// DefaultSmallAreaThreshold is the contour area at or below which a contour
	// is checked for convexity.
	DefaultSmallAreaThreshold = 50.0
	// DefaultSimplificationRatio is the polygon approximation tolerance as a
	// fraction of the contour perimeter.
	DefaultSimplificationRatio = 0.02
)

// ErrInvalidConfig is returned when a Config fails validation.
var ErrInvalidConfig = errors.New("invalid region config")

// Config contains configuration parameters for contour consolidation.
type Config struct {
	// SmallAreaThreshold separates large contours (kept as-is) from small ones
	// (re-added when their simplified polygon is convex).
	SmallAreaThreshold float64 `json:"small_area_threshold" yaml:"small_area_threshold"`
	// SimplificationRatio scales the contour perimeter into the ApproxPolyDP epsilon.
	SimplificationRatio float64 `json:"simplification_ratio" yaml:"simplification_ratio"`
}

// DefaultConfig returns the default consolidation configuration.
func DefaultConfig() Config {
	return Config{
		SmallAreaThreshold:  DefaultSmallAreaThreshold,
		SimplificationRatio: DefaultSimplificationRatio,
	}
}

// Validate checks that both parameters are finite and non-negative.
func (c Config) Validate() error {
	if math.IsNaN(c.SmallAreaThreshold) || math.IsInf(c.SmallAreaThreshold, 0) || c.SmallAreaThreshold < 0 {
		return errors.Wrapf(ErrInvalidConfig, "small area threshold %v", c.SmallAreaThreshold)
	}
	if math.IsNaN(c.SimplificationRatio) || math.IsInf(c.SimplificationRatio, 0) || c.SimplificationRatio < 0 {
		return errors.Wrapf(ErrInvalidConfig, "simplification ratio %v", c.SimplificationRatio)
	}
	return nil
}
