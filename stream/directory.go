package stream

import (
	"github.com/nvr-ai/go-speed/util"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// DirectorySource replays a directory of encoded frames in frame order.
type DirectorySource struct {
	files []util.ImageFile
	next  int
}

// OpenDirectory loads every supported image in dir.
//
// Arguments:
//   - dir: Directory holding frame-N.<ext> files.
//
// Returns:
//   - *DirectorySource: The source, positioned at the first frame.
//   - error: An error if the directory cannot be read or holds no images.
func OpenDirectory(dir string) (*DirectorySource, error) {
	files, err := util.LoadDirectoryImageFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.Errorf("no frames in %s", dir)
	}
	return &DirectorySource{files: files}, nil
}

// Len returns the number of frames in the directory.
func (d *DirectorySource) Len() int {
	return len(d.files)
}

// Read implements Source.
func (d *DirectorySource) Read(dst *gocv.Mat) error {
	if d.next >= len(d.files) {
		return ErrEndOfStream
	}
	file := d.files[d.next]
	d.next++

	decoded, err := gocv.IMDecode(file.Data, gocv.IMReadColor)
	if err != nil {
		return errors.Wrapf(err, "decode %s", file.Path)
	}
	defer decoded.Close()

	if decoded.Empty() {
		return errors.Wrapf(ErrEmptyFrame, "decode %s", file.Path)
	}
	if err := decoded.CopyTo(dst); err != nil {
		return errors.Wrapf(err, "copy %s", file.Path)
	}
	return nil
}

// Rewind restarts the sequence from the first frame.
func (d *DirectorySource) Rewind() {
	d.next = 0
}

// Close implements Source.
func (d *DirectorySource) Close() error {
	d.files = nil
	return nil
}
