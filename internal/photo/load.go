package photo

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"filterlab/pkg/imgutil"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Load reads an image file as picked: pixels exactly as stored plus the
// orientation tag, without applying it.
func Load(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return img.WithName(filepath.Base(path)), nil
}

// Decode sniffs, decodes and reads the orientation of an image stream.
func Decode(rs io.ReadSeeker) (*Image, error) {
	kind, err := imgutil.SniffReader(rs)
	if err != nil {
		return nil, fmt.Errorf("sniff: %w", err)
	}
	if kind == imgutil.KindUnknown {
		return nil, fmt.Errorf("unsupported image format")
	}

	orientation := OrientationUnknown
	if kind.HasExif() {
		// A broken EXIF block should not make the pixels unusable.
		if o, err := readOrientation(rs); err == nil {
			orientation = o
		}
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	raster, err := imaging.Decode(rs, imaging.AutoOrientation(false))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}

	return NewOriented(raster, orientation), nil
}
