// Package pipeline - Per-frame speed estimation for a single camera stream.
//
// Pipeline Overview:
//
// ┌──────────────┐
// │ Color Frame  │
// └──────┬───────┘
// ┌────────────────────────────┐
// │ Normalize (grayscale)      │  images.Normalize
// └──────┬─────────────────────┘
// ┌────────────────────────────┐
// │ Motion Detection           │  motion.Detector
// │  (diff, threshold, contour)│
// └──────┬─────────────────────┘
// ┌────────────────────────────┐
// │ Region Consolidation       │  region.Consolidator
// └──────┬─────────────────────┘
// ┌────────────────────────────┐
// │ Speed Estimation           │  speed.Estimator
// └──────┬─────────────────────┘
// ┌────────────────────────────┐
// │ DetectionResult            │
// └────────────────────────────┘
//
// Usage:
//
//	p, _ := pipeline.New(pipeline.DefaultConfig())
//	defer p.Close()
//
//	for {
//	    frame := getNextFrame()
//	    result, err := p.Process(frame)
//	    if result.Detected() {
//	        drawBox(frame, result.Region.Box)
//	    }
//	}
//
// A Pipeline holds the previous frame and sample time of one stream. It takes
// no locks: each stream owns its own Pipeline and calls Process from one
// goroutine at a time.
package pipeline

import (
	"github.com/benbjohnson/clock"
	"github.com/nvr-ai/go-speed/common"
	"github.com/nvr-ai/go-speed/images"
	"github.com/nvr-ai/go-speed/motion"
	"github.com/nvr-ai/go-speed/region"
	"github.com/nvr-ai/go-speed/speed"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// DetectionResult is the outcome of one Process call. Region and Speed are
// either both set or both nil, except when speed estimation hit degenerate
// timing: then Region is set, Speed is nil and Process returns an error
// wrapping speed.ErrDegenerateTiming.
type DetectionResult struct {
	Region *region.Region
	Speed  *float64
}

// Detected reports whether both a region and a speed are present.
func (r DetectionResult) Detected() bool {
	return r.Region != nil && r.Speed != nil
}

// BoundingBox returns the region bounding box and whether a region is present.
func (r DetectionResult) BoundingBox() (common.BoundingBox, bool) {
	if r.Region == nil {
		return common.BoundingBox{}, false
	}
	return r.Region.Box, true
}

// Option configures a Pipeline.
type Option func(*options)

type options struct {
	clock  clock.Clock
	logger *zap.Logger
}

// WithClock sets the time source for speed estimation.
func WithClock(clk clock.Clock) Option {
	return func(o *options) {
		o.clock = clk
	}
}

// WithLogger sets the logger used for per-frame debug records.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Pipeline composes normalization, motion detection, region consolidation and
// speed estimation.
type Pipeline struct {
	config       Config
	detector     *motion.Detector
	consolidator *region.Consolidator
	estimator    *speed.Estimator
	logger       *zap.Logger
	frames       int64
}

// New creates a pipeline. The speed estimator's first sample time is the
// construction time.
//
// Arguments:
//   - config: Stage configuration, see DefaultConfig.
//   - opts: Optional clock and logger.
//
// Returns:
//   - *Pipeline: The pipeline; call Close when done.
//   - error: An error wrapping the stage ErrInvalidConfig on bad configuration.
func New(config Config, opts ...Option) (*Pipeline, error) {
	o := options{
		clock:  clock.New(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	consolidator, err := region.NewConsolidator(config.Region)
	if err != nil {
		return nil, err
	}
	estimator, err := speed.NewEstimator(config.Speed, o.clock)
	if err != nil {
		return nil, err
	}
	detector, err := motion.NewDetector(config.Motion)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		config:       config,
		detector:     detector,
		consolidator: consolidator,
		estimator:    estimator,
		logger:       o.logger,
	}, nil
}

// Process runs one frame through the pipeline.
//
// Arguments:
//   - color: An 8-bit BGR or BGRA frame. It is not modified or retained.
//
// Returns:
//   - DetectionResult: The region and speed, both nil when there is no motion
//     (including the first frame).
//   - error: images.ErrUnsupportedFrame or motion.ErrDimensionMismatch leave the
//     pipeline state unchanged. speed.ErrDegenerateTiming comes with the
//     detected region and no speed.
func (p *Pipeline) Process(color gocv.Mat) (DetectionResult, error) {
	frame, err := images.Normalize(color)
	if err != nil {
		return DetectionResult{}, errors.Wrap(err, "normalize")
	}
	defer frame.Close()

	contours, err := p.detector.Detect(frame)
	if err != nil {
		return DetectionResult{}, errors.Wrap(err, "detect motion")
	}
	p.frames++

	reg, err := p.consolidator.Consolidate(contours)
	if err != nil {
		return DetectionResult{}, errors.Wrap(err, "consolidate contours")
	}
	if reg == nil {
		p.logger.Debug("no motion", zap.Int64("frame", p.frames))
		return DetectionResult{}, nil
	}

	v, err := p.estimator.Estimate(reg.Box.Width, reg.Box.Height)
	if err != nil {
		p.logger.Warn("speed estimate skipped",
			zap.Int64("frame", p.frames),
			zap.Stringer("box", reg.Box),
			zap.Error(err))
		return DetectionResult{Region: reg}, errors.Wrap(err, "estimate speed")
	}

	p.logger.Debug("motion",
		zap.Int64("frame", p.frames),
		zap.Int("contours", len(contours)),
		zap.Stringer("box", reg.Box),
		zap.Int("area", reg.Box.Area()),
		zap.Float64("speed", v))

	return DetectionResult{Region: reg, Speed: &v}, nil
}

// Frames returns the number of frames accepted by the motion detector.
func (p *Pipeline) Frames() int64 {
	return p.frames
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config {
	return p.config
}

// Reset drops the previous frame and restarts the sample clock, so the next
// frame primes the pipeline again, possibly at a new resolution.
func (p *Pipeline) Reset() {
	p.detector.Reset()
	p.estimator.Reset()
	p.frames = 0
}

// Close releases the native memory held by the pipeline.
func (p *Pipeline) Close() error {
	return p.detector.Close()
}
