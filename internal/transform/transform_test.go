package transform

import (
	"image"
	"image/color"
	"math"
	"testing"

	"filterlab/internal/photo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var red = color.NRGBA{R: 255, A: 255}

func marked(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{B: 255, A: 255})
		}
	}
	img.SetNRGBA(0, 0, red)
	return img
}

func TestNormalizeUprightIsUnchanged(t *testing.T) {
	img := photo.New(marked(4, 2))
	require.Same(t, img, Normalize(img))

	unknown := photo.NewOriented(marked(4, 2), photo.OrientationUnknown)
	require.Same(t, unknown, Normalize(unknown))
	require.Nil(t, Normalize(nil))
}

func TestNormalizeRotates(t *testing.T) {
	tests := []struct {
		orientation photo.Orientation
		size        image.Point
		redAt       image.Point
	}{
		{photo.OrientationUpMirrored, image.Pt(4, 2), image.Pt(3, 0)},
		{photo.OrientationDown, image.Pt(4, 2), image.Pt(3, 1)},
		{photo.OrientationDownMirror, image.Pt(4, 2), image.Pt(0, 1)},
		{photo.OrientationLeftMirror, image.Pt(2, 4), image.Pt(0, 0)},
		{photo.OrientationRight, image.Pt(2, 4), image.Pt(1, 0)},
		{photo.OrientationRightMirror, image.Pt(2, 4), image.Pt(1, 3)},
		{photo.OrientationLeft, image.Pt(2, 4), image.Pt(0, 3)},
	}

	for _, tt := range tests {
		src := photo.NewOriented(marked(4, 2), tt.orientation).WithName("pick.jpg")
		out := Normalize(src)

		require.NotSame(t, src, out, "orientation %d", tt.orientation)
		require.True(t, out.Orientation().Upright())
		require.Equal(t, "pick.jpg", out.Name())
		require.Equal(t, tt.size, out.Bounds().Size(), "orientation %d", tt.orientation)

		r := out.Raster().(*image.NRGBA)
		require.Equal(t, red, r.NRGBAAt(tt.redAt.X, tt.redAt.Y), "orientation %d", tt.orientation)
	}
}

func TestBakeIdentity(t *testing.T) {
	src := marked(10, 6)
	out, err := Bake(src, 1, 0)
	require.NoError(t, err)
	require.Equal(t, src.Bounds(), out.Bounds())
	require.Equal(t, src.Pix, out.Pix)
}

func TestBakeHalfTurn(t *testing.T) {
	src := marked(10, 6)
	out, err := Bake(src, 1, math.Pi)
	require.NoError(t, err)

	px := out.NRGBAAt(9, 5)
	assert.Greater(t, px.R, uint8(200))
	assert.Less(t, px.B, uint8(60))
}

func TestBakeScaleDownLeavesTransparentBorder(t *testing.T) {
	src := marked(20, 20)
	out, err := Bake(src, 0.5, 0)
	require.NoError(t, err)
	require.Equal(t, uint8(0), out.NRGBAAt(0, 0).A)
	require.Equal(t, uint8(255), out.NRGBAAt(10, 10).A)
}

func TestBakeOffsetBounds(t *testing.T) {
	src := marked(12, 12).SubImage(image.Rect(2, 2, 10, 10))
	out, err := Bake(src, 1, 0)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 8, 8), out.Bounds())
	require.Equal(t, uint8(255), out.NRGBAAt(0, 0).B)
}

func TestBakeRejectsBadScale(t *testing.T) {
	for _, s := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := Bake(marked(2, 2), s, 0)
		require.ErrorIs(t, err, ErrInvalidScale)
	}
	_, err := Bake(nil, 1, 0)
	require.Error(t, err)
}

func TestMatrixRotatesAboutCenter(t *testing.T) {
	m := Matrix(image.Rect(0, 0, 10, 10), 2, math.Pi/2)
	// The center is a fixed point.
	x := m[0]*5 + m[1]*5 + m[2]
	y := m[3]*5 + m[4]*5 + m[5]
	require.InDelta(t, 5, x, 1e-9)
	require.InDelta(t, 5, y, 1e-9)
}

func TestGesture(t *testing.T) {
	g := NewGesture()
	require.True(t, g.Pinch(2))
	require.False(t, g.Pinch(2))
	require.Equal(t, 2.0, g.Scale)
	require.True(t, g.Pinch(0.25))
	require.False(t, g.Pinch(0.5))
	require.Equal(t, 0.5, g.Scale)

	g.Rotate(math.Pi / 2)
	require.InDelta(t, 90, g.Degrees(), 1e-9)
	g.Rotate(2 * math.Pi)
	require.InDelta(t, math.Pi/2, g.Rotation, 1e-9)

	g.Pan(3, 4)
	require.Equal(t, 3.0, g.PanX)

	g.Reset()
	require.Equal(t, NewGesture(), g)
}
