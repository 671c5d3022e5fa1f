// Package transform turns picked photos upright and flattens the on-screen
// gesture transform into the exported raster.
package transform

import (
	"image"

	"filterlab/internal/photo"

	"github.com/disintegration/imaging"
)

// Normalize returns img unchanged when it is already upright. Otherwise the
// pixels are re-rendered once into an upright buffer, so the result is a new
// image with its own identity.
func Normalize(img *photo.Image) *photo.Image {
	if img == nil || img.Orientation().Upright() || img.Raster() == nil {
		return img
	}

	upright := photo.New(applyOrientation(img.Raster(), img.Orientation()))
	return upright.WithName(img.Name())
}

func applyOrientation(src image.Image, o photo.Orientation) *image.NRGBA {
	switch o {
	case photo.OrientationUpMirrored:
		return imaging.FlipH(src)
	case photo.OrientationDown:
		return imaging.Rotate180(src)
	case photo.OrientationDownMirror:
		return imaging.FlipV(src)
	case photo.OrientationLeftMirror:
		return imaging.Transpose(src)
	case photo.OrientationRight:
		return imaging.Rotate270(src)
	case photo.OrientationRightMirror:
		return imaging.Transverse(src)
	case photo.OrientationLeft:
		return imaging.Rotate90(src)
	default:
		return imaging.Clone(src)
	}
}
