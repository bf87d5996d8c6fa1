// Package speed - Instantaneous speed estimation from bounding-box extent and
// wall-clock time between samples.
package speed

import (
	"math"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

// DefaultReferenceDistance leaves speeds in pixels per second.
const DefaultReferenceDistance = 1.0

var (
	// ErrDegenerateTiming is returned when no time has elapsed since the
	// previous sample, or the clock went backwards.
	ErrDegenerateTiming = errors.New("degenerate timing")
	// ErrInvalidConfig is returned when a Config fails validation.
	ErrInvalidConfig = errors.New("invalid speed config")
)

// Config contains configuration parameters for speed estimation.
type Config struct {
	// ReferenceDistance converts pixel extent into the output distance unit.
	// 1.0 means the output is pixels per second.
	ReferenceDistance float64 `json:"reference_distance" yaml:"reference_distance"`
}

// DefaultConfig returns the default speed configuration.
func DefaultConfig() Config {
	return Config{ReferenceDistance: DefaultReferenceDistance}
}

// Validate checks that the reference distance is finite and positive.
func (c Config) Validate() error {
	if math.IsNaN(c.ReferenceDistance) || math.IsInf(c.ReferenceDistance, 0) || c.ReferenceDistance <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "reference distance %v", c.ReferenceDistance)
	}
	return nil
}

// Estimator converts bounding-box extent and elapsed time into a speed. It
// keeps only the previous sample time: results are not smoothed.
type Estimator struct {
	config   Config
	clock    clock.Clock
	previous time.Time
}

// NewEstimator creates an estimator whose first previous sample time is the
// construction time.
//
// Arguments:
//   - config: Reference distance configuration.
//   - clk: Time source. A nil clock uses the wall clock.
//
// Returns:
//   - *Estimator: The estimator.
//   - error: ErrInvalidConfig if the configuration is invalid.
//
// @example
// mock := clock.NewMock()
// estimator, _ := NewEstimator(DefaultConfig(), mock)
// mock.Add(500 * time.Millisecond)
// v, _ := estimator.Estimate(20, 10) // 40 pixels per second
func NewEstimator(config Config, clk clock.Clock) (*Estimator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Estimator{
		config:   config,
		clock:    clk,
		previous: clk.Now(),
	}, nil
}

// Estimate returns max(width, height) / ReferenceDistance divided by the
// seconds elapsed since the previous sample, and records the current time as
// the new previous sample.
//
// Arguments:
//   - width: Bounding-box width in pixels.
//   - height: Bounding-box height in pixels.
//
// Returns:
//   - float64: The speed in reference units per second.
//   - error: ErrDegenerateTiming if elapsed time is not positive. The previous
//     sample time is not updated in that case.
func (e *Estimator) Estimate(width, height int) (float64, error) {
	now := e.clock.Now()
	elapsed := now.Sub(e.previous)
	if elapsed <= 0 {
		return 0, errors.Wrapf(ErrDegenerateTiming, "elapsed %v since %v", elapsed, e.previous.Format(time.RFC3339Nano))
	}

	pixelsPerUnit := float64(max(width, height)) / e.config.ReferenceDistance
	e.previous = now
	return pixelsPerUnit / elapsed.Seconds(), nil
}

// PreviousSample returns the time of the last successful estimate, or the
// construction / reset time if there has been none.
func (e *Estimator) PreviousSample() time.Time {
	return e.previous
}

// Config returns the estimator configuration.
func (e *Estimator) Config() Config {
	return e.config
}

// Reset restarts the sample clock at the current time.
func (e *Estimator) Reset() {
	e.previous = e.clock.Now()
}
