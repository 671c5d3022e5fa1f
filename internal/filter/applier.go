package filter

import (
	"fmt"
	"image"
	"log/slog"

	"filterlab/internal/photo"

	"github.com/disintegration/imaging"
)

// applyCache is a single-slot memo: the last decoded source and the last
// constructed graph. Sources match by pointer, graphs by engine id.
type applyCache struct {
	source   *photo.Image
	decoded  *image.NRGBA
	engineID string
	graph    Graph
}

// Applier applies one filter at one intensity to one source image.
//
// An Applier is not safe for concurrent use. The interactive session owns one
// and every preview batch builds its own.
type Applier struct {
	engine *Engine
	cache  applyCache
	log    *slog.Logger

	decodes    int
	constructs int
}

func NewApplier(engine *Engine, logger *slog.Logger) *Applier {
	if engine == nil {
		engine = NewEngine()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Applier{engine: engine, log: logger}
}

// Apply returns the filtered image, or src itself when the filter is the
// passthrough filter or any stage of the pass fails.
func (a *Applier) Apply(src *photo.Image, def Definition, intensity float64) *photo.Image {
	out, err := a.apply(src, def, intensity)
	if err != nil {
		a.log.Debug("filter pass degraded to passthrough",
			"filter", def.Name, "engine", def.EngineID, "intensity", intensity, "error", err)
		return src
	}
	return out
}

// Invalidate drops both cache slots.
func (a *Applier) Invalidate() {
	a.cache = applyCache{}
}

func (a *Applier) apply(src *photo.Image, def Definition, intensity float64) (*photo.Image, error) {
	if def.IsOriginal() {
		return src, nil
	}

	decoded, err := a.decoded(src)
	if err != nil {
		return nil, err
	}

	graph, err := a.graph(def.EngineID)
	if err != nil {
		return nil, err
	}

	graph.SetInput(decoded)

	if def.HasParam() && HasInput(graph, def.ParamKey) {
		graph.SetValue(def.ParamKey, intensity)
	}

	if def.Name == Vignette {
		graph.SetValue(KeyRadius, VignetteRadius)
	}

	if graph.Extent().Empty() {
		return nil, fmt.Errorf("%w: empty extent for %s", ErrRender, def.Name)
	}
	raster, err := graph.Render()
	if err != nil {
		return nil, err
	}
	if raster == nil || raster.Bounds().Empty() {
		return nil, fmt.Errorf("%w: %s", ErrRender, def.Name)
	}

	return photo.New(raster), nil
}

func (a *Applier) decoded(src *photo.Image) (*image.NRGBA, error) {
	if a.cache.source == src && a.cache.decoded != nil {
		return a.cache.decoded, nil
	}

	raster := src.Raster()
	if raster == nil || raster.Bounds().Empty() {
		return nil, ErrDecode
	}

	decoded := imaging.Clone(raster)
	a.decodes++
	a.cache.source = src
	a.cache.decoded = decoded
	return decoded, nil
}

func (a *Applier) graph(engineID string) (Graph, error) {
	if a.cache.engineID == engineID && a.cache.graph != nil {
		return a.cache.graph, nil
	}

	g, err := a.engine.Construct(engineID)
	if err != nil {
		return nil, err
	}
	a.constructs++
	a.cache.engineID = engineID
	a.cache.graph = g
	return g, nil
}
