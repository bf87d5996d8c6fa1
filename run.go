package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/nvr-ai/go-speed/config"
	"github.com/nvr-ai/go-speed/motion"
	"github.com/nvr-ai/go-speed/pipeline"
	"github.com/nvr-ai/go-speed/profiler"
	"github.com/nvr-ai/go-speed/render"
	"github.com/nvr-ai/go-speed/speed"
	"github.com/nvr-ai/go-speed/stream"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

const (
	keyEscape = 27
	// maxFailedReads bounds consecutive empty or dropped reads before the
	// source is treated as gone.
	maxFailedReads = 100
)

type keyAction int

const (
	actionNone keyAction = iota
	actionSnapshot
	actionQuit
)

// actionFor maps a window key code to a driver action.
func actionFor(key int, snapshotKey string) keyAction {
	switch {
	case key < 0:
		return actionNone
	case key == 'q' || key == keyEscape:
		return actionQuit
	case len(snapshotKey) == 1 && key == int(snapshotKey[0]):
		return actionSnapshot
	default:
		return actionNone
	}
}

// openSource opens the configured frame source.
func openSource(src config.Source) (stream.Source, error) {
	switch {
	case src.FramesDir != "":
		return stream.OpenDirectory(src.FramesDir)
	case src.VideoPath != "":
		return stream.OpenVideo(src.VideoPath)
	default:
		return stream.OpenCapture(src.Device)
	}
}

// pause waits for d or until ctx is done.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type rewinder interface {
	Rewind()
}

// reader pulls frames from a source. Empty and dropped reads are retried
// after retryDelay; an exhausted directory source is rewound when loop is set.
type reader struct {
	source     stream.Source
	loop       bool
	retryDelay time.Duration
	// onRewind runs after every rewind.
	onRewind func()
}

func (r *reader) next(ctx context.Context, dst *gocv.Mat) error {
	failed := 0
	rewound := false
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := r.source.Read(dst)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, stream.ErrEmptyFrame), errors.Is(err, stream.ErrDroppedFrame):
			failed++
			if failed >= maxFailedReads {
				return errors.Wrapf(err, "%d consecutive failed reads", failed)
			}
			if err := pause(ctx, r.retryDelay); err != nil {
				return err
			}
		case errors.Is(err, stream.ErrEndOfStream) && r.loop && !rewound:
			rw, ok := r.source.(rewinder)
			if !ok {
				return err
			}
			rw.Rewind()
			rewound = true
			if r.onRewind != nil {
				r.onRewind()
			}
		default:
			return err
		}
	}
}

// tracker runs frames through the pipeline and keeps the label that is
// drawn on screen.
type tracker struct {
	pipeline *pipeline.Pipeline
	profiler *profiler.RuntimeProfiler
	logger   *zap.Logger
	label    string
}

func newTracker(p *pipeline.Pipeline, prof *profiler.RuntimeProfiler, logger *zap.Logger) *tracker {
	return &tracker{
		pipeline: p,
		profiler: prof,
		logger:   logger,
		label:    render.PendingLabel,
	}
}

// observe processes one color frame. A frame size change resets the
// pipeline, and a frame with no usable timing keeps the previous label;
// neither is returned as an error.
func (t *tracker) observe(frame gocv.Mat) (pipeline.DetectionResult, error) {
	done := t.profiler.StartOperation("process")
	result, err := t.pipeline.Process(frame)
	done()

	switch {
	case errors.Is(err, motion.ErrDimensionMismatch):
		t.logger.Warn("frame size changed, resetting pipeline", zap.Error(err))
		t.pipeline.Reset()
		return pipeline.DetectionResult{}, nil
	case errors.Is(err, speed.ErrDegenerateTiming):
		return result, nil
	case err != nil:
		return result, err
	}

	if result.Speed != nil {
		t.label = render.Label(result)
		t.profiler.RecordMetric("speed", *result.Speed)
	}
	return result, nil
}

func run(parent context.Context, cfg config.Config) (err error) {
	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("session", uuid.NewString()))

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := openSource(cfg.Source)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Combine(err, source.Close()) }()
	if dir, ok := source.(*stream.DirectorySource); ok {
		logger.Info("replaying frames", zap.String("dir", cfg.Source.FramesDir),
			zap.Int("frames", dir.Len()), zap.Bool("loop", cfg.Source.Loop))
	}

	p, err := pipeline.New(cfg.Pipeline, pipeline.WithLogger(logger.Named("pipeline")))
	if err != nil {
		return err
	}
	defer func() { err = multierr.Combine(err, p.Close()) }()

	prof := profiler.NewRuntimeProfiler(profiler.ProfilingOptions{
		ReportInterval: cfg.Profile.ReportInterval,
		MaxSamples:     cfg.Profile.MaxSamples,
	}, logger.Named("profiler"), nil)
	prof.Start()
	defer prof.Stop()

	var window *render.Window
	if cfg.Display.Window {
		window = render.NewWindow(cfg.Display.Title)
		defer func() { err = multierr.Combine(err, window.Close()) }()
	}

	snapshots := &stream.SnapshotWriter{Dir: cfg.Snapshot.Dir, Format: cfg.Snapshot.Format}
	t := newTracker(p, prof, logger)
	wait := time.Duration(cfg.Display.WaitMs) * time.Millisecond
	frames := &reader{
		source:     source,
		loop:       cfg.Source.Loop,
		retryDelay: wait,
		onRewind: func() {
			logger.Debug("rewinding frames")
			p.Reset()
		},
	}

	img := gocv.NewMat()
	defer img.Close()
	display := gocv.NewMat()
	defer display.Close()

	logger.Info("speedcam started",
		zap.Int("difference_threshold", cfg.Pipeline.Motion.DifferenceThreshold),
		zap.Float64("small_area_threshold", cfg.Pipeline.Region.SmallAreaThreshold),
		zap.Float64("simplification_ratio", cfg.Pipeline.Region.SimplificationRatio),
		zap.Float64("reference_distance", cfg.Pipeline.Speed.ReferenceDistance),
		zap.Bool("window", cfg.Display.Window),
	)

	for {
		if err := frames.next(ctx, &img); err != nil {
			switch {
			case ctx.Err() != nil:
				logger.Info("interrupted", zap.Int64("frames", p.Frames()))
				return nil
			case errors.Is(err, stream.ErrEndOfStream):
				logger.Info("end of stream", zap.Int64("frames", p.Frames()))
				return nil
			}
			return err
		}

		result, err := t.observe(img)
		if err != nil {
			return err
		}
		if window == nil {
			if err := pause(ctx, wait); err != nil {
				logger.Info("interrupted", zap.Int64("frames", p.Frames()))
				return nil
			}
			continue
		}

		// Draw on a copy so snapshots keep the raw frame.
		if err := img.CopyTo(&display); err != nil {
			return errors.Wrap(err, "copy frame for display")
		}
		if err := render.Annotate(&display, result, t.label); err != nil {
			return err
		}

		key, err := window.Show(display, cfg.Display.WaitMs)
		if err != nil {
			return err
		}
		switch actionFor(key, cfg.Snapshot.Key) {
		case actionSnapshot:
			path, err := snapshots.Save(img)
			if err != nil {
				logger.Error("snapshot failed", zap.Error(err))
				continue
			}
			logger.Info("snapshot saved", zap.String("path", path))
		case actionQuit:
			logger.Info("quit", zap.Int64("frames", p.Frames()))
			return nil
		}
	}
}
