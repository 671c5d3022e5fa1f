package filter

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/disintegration/gift"
)

// Failure taxonomy of a single filter pass. The applier recovers from all
// three locally; they only surface in logs and preview entries.
var (
	ErrDecode             = errors.New("source image cannot be decoded")
	ErrFilterConstruction = errors.New("unknown filter")
	ErrRender             = errors.New("filter graph produced no output")
)

// Engine filter identifiers.
const (
	EngineSepia            = "sepia"
	EngineVignette         = "vignette"
	EngineColorControls    = "color_controls"
	EngineGammaAdjust      = "gamma_adjust"
	EngineSharpenLuminance = "sharpen_luminance"
)

// Parameter keys understood by the engine filters.
const (
	KeyIntensity  = "intensity"
	KeyRadius     = "radius"
	KeyContrast   = "contrast"
	KeySaturation = "saturation"
	KeyBrightness = "brightness"
	KeyPower      = "power"
	KeySharpness  = "sharpness"
)

// Graph is a constructed filter pipeline. Parameter values persist on the
// graph between renders until overwritten.
type Graph interface {
	// Inputs lists the parameter keys the graph accepts.
	Inputs() []string
	// SetValue binds a parameter. Unknown keys are ignored and reported false.
	SetValue(key string, v float64) bool
	SetInput(img *image.NRGBA)
	// Extent is the output bounds for the bound input.
	Extent() image.Rectangle
	Render() (image.Image, error)
}

// HasInput reports whether key is one of g's parameters.
func HasInput(g Graph, key string) bool {
	for _, k := range g.Inputs() {
		if k == key {
			return true
		}
	}
	return false
}

// Engine constructs graphs by engine filter id.
type Engine struct {
	constructors map[string]func() Graph
}

// NewEngine returns an engine with the built-in filters registered.
func NewEngine() *Engine {
	e := &Engine{constructors: make(map[string]func() Graph)}
	e.Register(EngineSepia, func() Graph {
		return newGiftGraph(map[string]float64{KeyIntensity: 1}, func(p map[string]float64) []gift.Filter {
			return []gift.Filter{gift.Sepia(float32(clamp(p[KeyIntensity], 0, 1) * 100))}
		})
	})
	e.Register(EngineColorControls, func() Graph {
		defaults := map[string]float64{KeyContrast: 1, KeySaturation: 1, KeyBrightness: 0}
		return newGiftGraph(defaults, func(p map[string]float64) []gift.Filter {
			return []gift.Filter{
				gift.Brightness(float32(clamp(p[KeyBrightness], -1, 1) * 100)),
				gift.Contrast(float32(clamp((p[KeyContrast]-1)*100, -100, 100))),
				gift.Saturation(float32(clamp((p[KeySaturation]-1)*100, -100, 500))),
			}
		})
	})
	e.Register(EngineGammaAdjust, func() Graph {
		return newGiftGraph(map[string]float64{KeyPower: 0.75}, func(p map[string]float64) []gift.Filter {
			power := math.Max(p[KeyPower], 0.01)
			return []gift.Filter{gift.Gamma(float32(1 / power))}
		})
	})
	e.Register(EngineSharpenLuminance, func() Graph {
		return newGiftGraph(map[string]float64{KeySharpness: 0.4}, func(p map[string]float64) []gift.Filter {
			return []gift.Filter{gift.UnsharpMask(1, float32(math.Max(p[KeySharpness], 0)*2), 0)}
		})
	})
	e.Register(EngineVignette, func() Graph {
		return newVignetteGraph()
	})
	return e
}

// Register adds or replaces a graph constructor.
func (e *Engine) Register(id string, construct func() Graph) {
	e.constructors[id] = construct
}

// Construct builds a fresh graph for id.
func (e *Engine) Construct(id string) (Graph, error) {
	construct, ok := e.constructors[id]
	if !ok || id == "" {
		return nil, fmt.Errorf("%w: %q", ErrFilterConstruction, id)
	}
	g := construct()
	if g == nil {
		return nil, fmt.Errorf("%w: %q has no graph", ErrFilterConstruction, id)
	}
	return g, nil
}

// IDs lists the registered engine filter ids, sorted.
func (e *Engine) IDs() []string {
	ids := make([]string, 0, len(e.constructors))
	for id := range e.constructors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// giftGraph renders a gift filter list rebuilt from the current parameters.
type giftGraph struct {
	params map[string]float64
	keys   []string
	build  func(map[string]float64) []gift.Filter
	input  *image.NRGBA
}

func newGiftGraph(defaults map[string]float64, build func(map[string]float64) []gift.Filter) *giftGraph {
	g := &giftGraph{params: make(map[string]float64, len(defaults)), build: build}
	for k, v := range defaults {
		g.params[k] = v
		g.keys = append(g.keys, k)
	}
	sort.Strings(g.keys)
	return g
}

func (g *giftGraph) Inputs() []string {
	return g.keys
}

func (g *giftGraph) SetValue(key string, v float64) bool {
	if _, ok := g.params[key]; !ok {
		return false
	}
	g.params[key] = v
	return true
}

func (g *giftGraph) SetInput(img *image.NRGBA) {
	g.input = img
}

func (g *giftGraph) pipeline() *gift.GIFT {
	return gift.New(g.build(g.params)...)
}

func (g *giftGraph) Extent() image.Rectangle {
	if g.input == nil {
		return image.Rectangle{}
	}
	return g.pipeline().Bounds(g.input.Bounds())
}

func (g *giftGraph) Render() (image.Image, error) {
	if g.input == nil {
		return nil, fmt.Errorf("%w: no input bound", ErrRender)
	}
	p := g.pipeline()
	extent := p.Bounds(g.input.Bounds())
	if extent.Empty() {
		return nil, fmt.Errorf("%w: empty extent", ErrRender)
	}
	dst := image.NewNRGBA(extent)
	p.Draw(dst, g.input)
	return dst, nil
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
