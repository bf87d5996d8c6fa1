package stream

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/nvr-ai/go-speed/images"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// SnapshotWriter persists raw frames on request.
type SnapshotWriter struct {
	// Dir is created on first use.
	Dir string
	// Format selects the file encoding, PNG when empty.
	Format images.ImageFormat
	// Clock names files by time, the wall clock when nil.
	Clock clock.Clock
}

// Save writes frame to a new file in Dir and returns its path. The frame is
// written exactly as given, in gocv's BGR channel order.
//
// File names are snapshot-<unix seconds>-<uuid><ext>, so repeated snapshots
// never overwrite each other.
func (w *SnapshotWriter) Save(frame gocv.Mat) (string, error) {
	if frame.Empty() {
		return "", errors.Wrap(ErrEmptyFrame, "snapshot")
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "create snapshot directory %s", w.Dir)
	}

	clk := w.Clock
	if clk == nil {
		clk = clock.New()
	}
	format := w.Format
	if format == "" {
		format = images.FormatPNG
	}

	name := fmt.Sprintf("snapshot-%d-%s%s", clk.Now().Unix(), uuid.NewString(), format.Extension())
	path := filepath.Join(w.Dir, name)
	if ok := gocv.IMWrite(path, frame); !ok {
		return "", errors.Errorf("write snapshot %s", path)
	}
	return path, nil
}
