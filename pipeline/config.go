package pipeline

import (
	"github.com/nvr-ai/go-speed/motion"
	"github.com/nvr-ai/go-speed/region"
	"github.com/nvr-ai/go-speed/speed"
	"github.com/pkg/errors"
)

// Config holds the tunable constants of every pipeline stage.
type Config struct {
	Motion motion.Config `json:"motion" yaml:"motion"`
	Region region.Config `json:"region" yaml:"region"`
	Speed  speed.Config  `json:"speed" yaml:"speed"`
}

// DefaultConfig returns threshold 130, small area 50, simplification ratio
// 0.02 and reference distance 1.0.
func DefaultConfig() Config {
	return Config{
		Motion: motion.DefaultConfig(),
		Region: region.DefaultConfig(),
		Speed:  speed.DefaultConfig(),
	}
}

// Validate validates every stage configuration.
func (c Config) Validate() error {
	if err := c.Motion.Validate(); err != nil {
		return errors.Wrap(err, "motion")
	}
	if err := c.Region.Validate(); err != nil {
		return errors.Wrap(err, "region")
	}
	if err := c.Speed.Validate(); err != nil {
		return errors.Wrap(err, "speed")
	}
	return nil
}
