package stream

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/nvr-ai/go-speed/images"
	"github.com/nvr-ai/go-speed/util"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// writeFrames encodes one PNG per blob position into dir.
func writeFrames(t *testing.T, dir string, gen *images.MockFrameGenerator, blobs []image.Rectangle) {
	t.Helper()

	for i, blob := range blobs {
		f, err := os.Create(filepath.Join(dir, util.FrameFileName(i, ".png")))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, gen.Image(blob)))
		require.NoError(t, f.Close())
	}
}

func TestDirectorySource(t *testing.T) {
	dir := t.TempDir()
	gen := images.NewMockFrameGenerator(40, 30)
	writeFrames(t, dir, gen, []image.Rectangle{
		image.Rect(0, 0, 5, 5),
		image.Rect(10, 10, 15, 15),
		image.Rect(20, 20, 25, 25),
	})

	src, err := OpenDirectory(dir)
	require.NoError(t, err)
	defer src.Close()
	assert.Equal(t, 3, src.Len())

	frame := gocv.NewMat()
	defer frame.Close()

	for i := 0; i < 3; i++ {
		require.NoError(t, src.Read(&frame))
		assert.Equal(t, 30, frame.Rows())
		assert.Equal(t, 40, frame.Cols())
		assert.Equal(t, gocv.MatTypeCV8UC3, frame.Type())

		// Blob i sits at (10i, 10i).
		assert.Equal(t, uint8(255), frame.GetUCharAt(10*i+2, (10*i+2)*3))
	}

	err = src.Read(&frame)
	assert.True(t, errors.Is(err, ErrEndOfStream))

	src.Rewind()
	require.NoError(t, src.Read(&frame))
}

func TestOpenDirectoryEmpty(t *testing.T) {
	_, err := OpenDirectory(t.TempDir())
	assert.Error(t, err)
}

func TestDirectorySourceCorruptFrame(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "frame-0.png"), []byte("not a png"), 0o644))

	src, err := OpenDirectory(dir)
	require.NoError(t, err)

	frame := gocv.NewMat()
	defer frame.Close()
	assert.Error(t, src.Read(&frame))
}

func TestSnapshotWriter(t *testing.T) {
	gen := images.NewMockFrameGenerator(32, 24)
	frame, err := gen.MotionFrame(image.Rect(4, 4, 12, 20))
	require.NoError(t, err)
	defer frame.Close()

	mock := clock.NewMock()
	mock.Set(time.Unix(1700000000, 0))
	w := &SnapshotWriter{Dir: filepath.Join(t.TempDir(), "snapshots"), Clock: mock}

	first, err := w.Save(frame)
	require.NoError(t, err)
	second, err := w.Save(frame)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(filepath.Base(first), "snapshot-1700000000-"))
	assert.Equal(t, ".png", filepath.Ext(first))

	written := gocv.IMRead(first, gocv.IMReadColor)
	defer written.Close()
	assert.Equal(t, images.ComputeMatChecksum(frame), images.ComputeMatChecksum(written))
}

func TestSnapshotWriterEmptyFrame(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()

	w := &SnapshotWriter{Dir: t.TempDir()}
	_, err := w.Save(empty)
	assert.True(t, errors.Is(err, ErrEmptyFrame))
}

func TestOpenVideoMissingFile(t *testing.T) {
	_, err := OpenVideo(filepath.Join(t.TempDir(), "missing.mp4"))
	assert.Error(t, err)
}
