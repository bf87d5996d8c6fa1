// Package util - Loading ordered frame sequences from disk.
package util

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ImageFile represents an image file.
type ImageFile struct {
	// Path is the path to the image file.
	Path string
	// Data is the raw bytes of the image file.
	Data []byte
	// Frame is the frame number parsed from the file name, or -1 if the name
	// carries no number.
	Frame int
}

// SupportedImageExtensions lists the extensions LoadDirectoryImageFiles reads.
var SupportedImageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp"}

var frameNumber = regexp.MustCompile(`(\d+)$`)

// FrameFileName returns the name used for frame n, e.g. "frame-000042.png".
func FrameFileName(n int, ext string) string {
	return fmt.Sprintf("frame-%06d%s", n, ext)
}

// ParseFrameNumber extracts the trailing number of a file name without its
// extension, e.g. "frame-12.png" -> 12.
func ParseFrameNumber(name string) (int, bool) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	m := frameNumber.FindStringSubmatch(base)
	if m == nil {
		return -1, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return -1, false
	}
	return n, true
}

// LoadDirectoryImageFiles reads all image files from a directory.
//
// Files are ordered by their frame number. Files without a number come after
// numbered ones, ordered by name.
//
// Arguments:
// - dir: Directory path containing image files.
//
// Returns:
// - []ImageFile: Slice of ImageFile, each containing the raw bytes of an image file.
// - error: Error if loading fails.
func LoadDirectoryImageFiles(dir string) ([]ImageFile, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read frame directory %s", dir)
	}

	var images []ImageFile
	for _, file := range files {
		if file.IsDir() || !supported(file.Name()) {
			continue
		}

		imgPath := filepath.Join(dir, file.Name())
		data, err := os.ReadFile(imgPath)
		if err != nil {
			return nil, errors.Wrapf(err, "read frame %s", imgPath)
		}

		frame, _ := ParseFrameNumber(file.Name())
		images = append(images, ImageFile{
			Path:  imgPath,
			Data:  data,
			Frame: frame,
		})
	}

	sort.SliceStable(images, func(i, j int) bool {
		a, b := images[i], images[j]
		switch {
		case a.Frame >= 0 && b.Frame >= 0 && a.Frame != b.Frame:
			return a.Frame < b.Frame
		case (a.Frame >= 0) != (b.Frame >= 0):
			return a.Frame >= 0
		default:
			return a.Path < b.Path
		}
	})

	return images, nil
}

func supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SupportedImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
