package filter

import (
	"fmt"
	"image"
	"math"
	"runtime"
	"sync"
)

// VignetteRadius is the fixed radius the vignette catalog entry always renders with.
const VignetteRadius = 1.0

// vignetteGraph darkens pixels by distance from the center. A radius of 1
// starts the falloff at the center and reaches full strength at the corners;
// smaller radii keep a clear middle.
type vignetteGraph struct {
	intensity float64
	radius    float64
	input     *image.NRGBA
}

func newVignetteGraph() *vignetteGraph {
	return &vignetteGraph{intensity: 0, radius: VignetteRadius}
}

func (g *vignetteGraph) Inputs() []string {
	return []string{KeyIntensity, KeyRadius}
}

func (g *vignetteGraph) SetValue(key string, v float64) bool {
	switch key {
	case KeyIntensity:
		g.intensity = v
	case KeyRadius:
		g.radius = v
	default:
		return false
	}
	return true
}

func (g *vignetteGraph) SetInput(img *image.NRGBA) {
	g.input = img
}

func (g *vignetteGraph) Extent() image.Rectangle {
	if g.input == nil {
		return image.Rectangle{}
	}
	return image.Rect(0, 0, g.input.Bounds().Dx(), g.input.Bounds().Dy())
}

func (g *vignetteGraph) Render() (image.Image, error) {
	if g.input == nil {
		return nil, fmt.Errorf("%w: no input bound", ErrRender)
	}
	extent := g.Extent()
	if extent.Empty() {
		return nil, fmt.Errorf("%w: empty extent", ErrRender)
	}

	src := g.input
	dst := image.NewNRGBA(extent)
	w, h := extent.Dx(), extent.Dy()
	cx, cy := float64(w)/2, float64(h)/2
	halfDiag := math.Hypot(cx, cy)
	strength := clamp(g.intensity, 0, 1)
	radius := clamp(g.radius, 0.01, 1)
	inner := 1 - radius

	rows := make(chan int, h)
	for y := 0; y < h; y++ {
		rows <- y
	}
	close(rows)

	workers := min(runtime.GOMAXPROCS(0), h)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for y := range rows {
				srcOff := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
				dstOff := y * dst.Stride
				dy := float64(y) + 0.5 - cy
				for x := 0; x < w; x++ {
					dx := float64(x) + 0.5 - cx
					d := math.Hypot(dx, dy) / halfDiag
					t := clamp((d-inner)/radius, 0, 1)
					factor := 1 - strength*t*t*(3-2*t)

					s := src.Pix[srcOff+x*4 : srcOff+x*4+4 : srcOff+x*4+4]
					o := dst.Pix[dstOff+x*4 : dstOff+x*4+4 : dstOff+x*4+4]
					o[0] = uint8(float64(s[0])*factor + 0.5)
					o[1] = uint8(float64(s[1])*factor + 0.5)
					o[2] = uint8(float64(s[2])*factor + 0.5)
					o[3] = s[3]
				}
			}
		}()
	}
	wg.Wait()

	return dst, nil
}
