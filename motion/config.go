package motion

import "github.com/pkg/errors"

// DefaultDifferenceThreshold is the default binarization threshold on the
// 0-255 intensity scale.
const DefaultDifferenceThreshold = 130

// ErrInvalidConfig is returned when a Config fails validation.
var ErrInvalidConfig = errors.New("invalid motion config")

// Config contains configuration parameters for motion detection.
type Config struct {
	// DifferenceThreshold is the absolute intensity difference a pixel must
	// exceed to be marked as foreground. Must be in [0, 255].
	DifferenceThreshold int `json:"difference_threshold" yaml:"difference_threshold"`
}

// DefaultConfig returns a default configuration for motion detection.
func DefaultConfig() Config {
	return Config{
		DifferenceThreshold: DefaultDifferenceThreshold,
	}
}

// Validate checks the configuration ranges.
func (c Config) Validate() error {
	if c.DifferenceThreshold < 0 || c.DifferenceThreshold > 255 {
		return errors.Wrapf(ErrInvalidConfig, "difference threshold %d outside [0,255]", c.DifferenceThreshold)
	}
	return nil
}
