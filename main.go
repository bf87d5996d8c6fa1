// Command speedcam measures the on-screen speed of a moving object.
//
// Each frame read from a camera, a video file or a directory of numbered
// images is pushed through the speed pipeline; the bounding box and the last
// measured speed are drawn on the frame before it is shown.
//
// Usage:
//
//	speedcam --device 1 --show-window
//	speedcam --video clip.mp4 --threshold 90 --log-level debug
//	speedcam --config speedcam.yaml --frames-dir frames/ --loop
//
// Key presses (q or ESC to quit, s to save a snapshot) are read from the
// window, so they need --show-window. Without a window the loop pauses
// display.wait_ms between frames.
package main

import (
	"fmt"
	"os"

	"github.com/nvr-ai/go-speed/config"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	flagConfig            = "config"
	flagDevice            = "device"
	flagVideo             = "video"
	flagFramesDir         = "frames-dir"
	flagLoop              = "loop"
	flagThreshold         = "threshold"
	flagArea              = "area"
	flagRatio             = "ratio"
	flagReferenceDistance = "reference-distance"
	flagShowWindow        = "show-window"
	flagSnapshotDir       = "snapshot-dir"
	flagLogLevel          = "log-level"
)

func newApp() *cli.App {
	defaults := config.Default()

	return &cli.App{
		Name:  "speedcam",
		Usage: "estimate the on-screen speed of moving objects",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
			},
			&cli.IntFlag{
				Name:  flagDevice,
				Value: defaults.Source.Device,
				Usage: "camera device index",
			},
			&cli.StringFlag{
				Name:  flagVideo,
				Usage: "read frames from video `FILE`",
			},
			&cli.StringFlag{
				Name:  flagFramesDir,
				Usage: "read frames from numbered images in `DIR`",
			},
			&cli.BoolFlag{
				Name:  flagLoop,
				Usage: "replay --frames-dir from the start when it ends",
			},
			&cli.IntFlag{
				Name:  flagThreshold,
				Value: defaults.Pipeline.Motion.DifferenceThreshold,
				Usage: "intensity difference above which a pixel is moving",
			},
			&cli.Float64Flag{
				Name:  flagArea,
				Value: defaults.Pipeline.Region.SmallAreaThreshold,
				Usage: "contours with at most this area are weighted when convex",
			},
			&cli.Float64Flag{
				Name:  flagRatio,
				Value: defaults.Pipeline.Region.SimplificationRatio,
				Usage: "polygon simplification tolerance as a fraction of perimeter",
			},
			&cli.Float64Flag{
				Name:  flagReferenceDistance,
				Value: defaults.Pipeline.Speed.ReferenceDistance,
				Usage: "pixels per distance unit",
			},
			&cli.BoolFlag{
				Name:  flagShowWindow,
				Usage: "show annotated frames in a window",
			},
			&cli.StringFlag{
				Name:  flagSnapshotDir,
				Value: defaults.Snapshot.Dir,
				Usage: "directory for snapshots taken with the snapshot key",
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Value: defaults.Log.Level,
				Usage: "log level (debug, info, warn, error)",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			return run(c.Context, cfg)
		},
	}
}

// loadConfig reads the optional config file and applies the flags that were
// set explicitly on the command line.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String(flagConfig); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if c.IsSet(flagDevice) {
		cfg.Source.Device = c.Int(flagDevice)
	}
	if c.IsSet(flagVideo) {
		cfg.Source.VideoPath = c.String(flagVideo)
	}
	if c.IsSet(flagFramesDir) {
		cfg.Source.FramesDir = c.String(flagFramesDir)
	}
	if c.IsSet(flagLoop) {
		cfg.Source.Loop = c.Bool(flagLoop)
	}
	if c.IsSet(flagThreshold) {
		cfg.Pipeline.Motion.DifferenceThreshold = c.Int(flagThreshold)
	}
	if c.IsSet(flagArea) {
		cfg.Pipeline.Region.SmallAreaThreshold = c.Float64(flagArea)
	}
	if c.IsSet(flagRatio) {
		cfg.Pipeline.Region.SimplificationRatio = c.Float64(flagRatio)
	}
	if c.IsSet(flagReferenceDistance) {
		cfg.Pipeline.Speed.ReferenceDistance = c.Float64(flagReferenceDistance)
	}
	if c.IsSet(flagShowWindow) {
		cfg.Display.Window = c.Bool(flagShowWindow)
	}
	if c.IsSet(flagSnapshotDir) {
		cfg.Snapshot.Dir = c.String(flagSnapshotDir)
	}
	if c.IsSet(flagLogLevel) {
		cfg.Log.Level = c.String(flagLogLevel)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "speedcam: %v\n", err)
		os.Exit(1)
	}
}
