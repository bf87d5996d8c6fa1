// Command capture records camera frames into a directory of numbered images
// that speedcam can replay with --frames-dir.
//
// Usage:
//
//	capture --device 0 --count 120 --out frames/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nvr-ai/go-speed/images"
	"github.com/nvr-ai/go-speed/stream"
	"github.com/nvr-ai/go-speed/util"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// maxFailedReads bounds consecutive empty or dropped reads.
const maxFailedReads = 100

// record copies up to count frames from src into dir. A count of 0 records
// until the source ends or ctx is cancelled. It returns the number of
// frames written.
func record(ctx context.Context, src stream.Source, dir string, count int, format images.ImageFormat, logger *zap.Logger) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, errors.Wrapf(err, "create output directory %s", dir)
	}

	img := gocv.NewMat()
	defer img.Close()

	written, failed := 0, 0
	for count == 0 || written < count {
		if err := ctx.Err(); err != nil {
			return written, nil
		}

		if err := src.Read(&img); err != nil {
			if errors.Is(err, stream.ErrEmptyFrame) || errors.Is(err, stream.ErrDroppedFrame) {
				if failed++; failed < maxFailedReads {
					continue
				}
				return written, errors.Wrapf(err, "%d consecutive failed reads", failed)
			}
			if errors.Is(err, stream.ErrEndOfStream) {
				return written, nil
			}
			return written, err
		}

		path := filepath.Join(dir, util.FrameFileName(written, format.Extension()))
		if ok := gocv.IMWrite(path, img); !ok {
			return written, errors.Errorf("write frame %s", path)
		}
		written++
		failed = 0
		logger.Debug("frame written", zap.String("path", path))
	}
	return written, nil
}

func main() {
	app := &cli.App{
		Name:  "capture",
		Usage: "record camera frames as numbered images",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "device", Usage: "camera device index"},
			&cli.IntFlag{Name: "count", Value: 100, Usage: "frames to record, 0 for no limit"},
			&cli.StringFlag{Name: "out", Value: "frames", Usage: "output `DIR`"},
			&cli.StringFlag{Name: "format", Value: string(images.FormatPNG), Usage: "png or jpeg"},
		},
		Action: func(c *cli.Context) (err error) {
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			format := images.ImageFormat(c.String("format"))
			if format != images.FormatPNG && format != images.FormatJPEG {
				return errors.Errorf("unsupported format %q", format)
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			src, err := stream.OpenCapture(c.Int("device"))
			if err != nil {
				return err
			}
			defer func() { err = multierr.Combine(err, src.Close()) }()

			size := src.FrameSize()
			logger.Info("recording",
				zap.Int("device", c.Int("device")),
				zap.Int("width", size.X),
				zap.Int("height", size.Y),
				zap.String("out", c.String("out")),
			)

			n, err := record(ctx, src, c.String("out"), c.Int("count"), format, logger)
			logger.Info("recorded", zap.Int("frames", n))
			return err
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "capture: %v\n", err)
		os.Exit(1)
	}
}
