// Package photo holds the raster type shared by the filter pipeline.
//
// An *Image is compared by pointer: two structurally identical images are
// still distinct sources for caching and preview provenance.
package photo

import "image"

// Orientation is the EXIF orientation tag (1-8). Zero means unknown and is
// treated as upright.
type Orientation int

const (
	OrientationUnknown     Orientation = 0
	OrientationUp          Orientation = 1
	OrientationUpMirrored  Orientation = 2
	OrientationDown        Orientation = 3
	OrientationDownMirror  Orientation = 4
	OrientationLeftMirror  Orientation = 5
	OrientationRight       Orientation = 6
	OrientationRightMirror Orientation = 7
	OrientationLeft        Orientation = 8
)

// Upright reports whether pixels can be used as stored.
func (o Orientation) Upright() bool {
	return o == OrientationUp || o == OrientationUnknown
}

// Valid reports whether o is a known EXIF orientation value.
func (o Orientation) Valid() bool {
	return o >= OrientationUnknown && o <= OrientationLeft
}

type Image struct {
	raster      image.Image
	orientation Orientation
	name        string
}

// New wraps an upright raster.
func New(raster image.Image) *Image {
	return &Image{raster: raster, orientation: OrientationUp}
}

// NewOriented wraps a raster as it was stored, together with its orientation tag.
func NewOriented(raster image.Image, orientation Orientation) *Image {
	if !orientation.Valid() {
		orientation = OrientationUnknown
	}
	return &Image{raster: raster, orientation: orientation}
}

// WithName returns img after attaching a display name to it.
func (img *Image) WithName(name string) *Image {
	img.name = name
	return img
}

func (img *Image) Raster() image.Image {
	if img == nil {
		return nil
	}
	return img.raster
}

func (img *Image) Orientation() Orientation {
	if img == nil {
		return OrientationUnknown
	}
	return img.orientation
}

func (img *Image) Name() string {
	if img == nil {
		return ""
	}
	return img.name
}

// Bounds returns the raster bounds, or an empty rectangle for a nil image or raster.
func (img *Image) Bounds() image.Rectangle {
	if img == nil || img.raster == nil {
		return image.Rectangle{}
	}
	return img.raster.Bounds()
}
