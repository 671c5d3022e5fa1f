package transform

import (
	"errors"
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

var ErrInvalidScale = errors.New("scale must be a positive finite number")

// Bake composites src into a transparent canvas of the same size, rotated by
// rotation radians and then scaled about the canvas center.
func Bake(src image.Image, scale, rotation float64) (*image.NRGBA, error) {
	if src == nil {
		return nil, errors.New("nothing to bake")
	}
	if !(scale > 0) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScale, scale)
	}
	if math.IsNaN(rotation) || math.IsInf(rotation, 0) {
		return nil, fmt.Errorf("invalid rotation: %v", rotation)
	}

	sr := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, sr.Dx(), sr.Dy()))
	if sr.Empty() {
		return dst, nil
	}

	draw.BiLinear.Transform(dst, Matrix(sr, scale, rotation), src, sr, draw.Over, nil)
	return dst, nil
}

// Matrix maps source pixel coordinates into the baked canvas: translate to
// the center, rotate, scale, translate back.
func Matrix(sr image.Rectangle, scale, rotation float64) f64.Aff3 {
	sin, cos := math.Sincos(rotation)
	a, b := scale*cos, -scale*sin
	d, e := scale*sin, scale*cos

	// Source center (bounds may not start at the origin) and canvas center.
	scx := float64(sr.Min.X) + float64(sr.Dx())/2
	scy := float64(sr.Min.Y) + float64(sr.Dy())/2
	dcx := float64(sr.Dx()) / 2
	dcy := float64(sr.Dy()) / 2

	return f64.Aff3{
		a, b, dcx - (a*scx + b*scy),
		d, e, dcy - (d*scx + e*scy),
	}
}
