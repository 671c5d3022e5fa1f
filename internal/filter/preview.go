package filter

import (
	"context"
	"log/slog"

	"filterlab/internal/photo"

	"github.com/disintegration/imaging"
)

// DefaultPreviewSize is the edge length of preview thumbnails in pixels.
const DefaultPreviewSize = 200

// PreviewSet maps catalog index to a rendered thumbnail. Source records
// which image the entries were derived from.
type PreviewSet struct {
	Source  *photo.Image
	Entries []*photo.Image
}

// NewPreviewSet returns an all-empty set for source.
func NewPreviewSet(size int, source *photo.Image) PreviewSet {
	return PreviewSet{Source: source, Entries: make([]*photo.Image, size)}
}

func (p PreviewSet) Len() int {
	return len(p.Entries)
}

// At returns the preview at i, or nil if it is missing or out of range.
func (p PreviewSet) At(i int) *photo.Image {
	if i < 0 || i >= len(p.Entries) {
		return nil
	}
	return p.Entries[i]
}

// AllReady is true iff every entry is present.
func (p PreviewSet) AllReady() bool {
	if len(p.Entries) == 0 {
		return false
	}
	for _, e := range p.Entries {
		if e == nil {
			return false
		}
	}
	return true
}

// Ready counts present entries.
func (p PreviewSet) Ready() int {
	n := 0
	for _, e := range p.Entries {
		if e != nil {
			n++
		}
	}
	return n
}

// PreviewGenerator renders one thumbnail per catalog entry.
type PreviewGenerator struct {
	engine *Engine
	size   int
	log    *slog.Logger
}

func NewPreviewGenerator(engine *Engine, size int, logger *slog.Logger) *PreviewGenerator {
	if engine == nil {
		engine = NewEngine()
	}
	if size <= 0 {
		size = DefaultPreviewSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PreviewGenerator{engine: engine, size: size, log: logger}
}

func (g *PreviewGenerator) Size() int {
	return g.size
}

// Generate builds the whole batch synchronously. Entry 0 is the whole source
// squeezed into a size x size square, nothing cropped. A failed render leaves
// its entry nil. A cancelled context stops the batch early, leaving the
// remaining entries nil.
func (g *PreviewGenerator) Generate(ctx context.Context, catalog Catalog, source *photo.Image) PreviewSet {
	set := NewPreviewSet(catalog.Len(), source)
	if catalog.Len() == 0 {
		return set
	}

	raster := source.Raster()
	if raster == nil || raster.Bounds().Empty() {
		g.log.Warn("preview batch skipped: source has no pixels")
		return set
	}

	thumb := photo.New(imaging.Resize(raster, g.size, g.size, imaging.Lanczos))
	set.Entries[0] = thumb

	// A private applier keeps this batch off the interactive cache; the
	// shared thumbnail stays decoded across every filter of the batch.
	applier := NewApplier(g.engine, g.log)
	for i := 1; i < catalog.Len(); i++ {
		if ctx.Err() != nil {
			g.log.Debug("preview batch cancelled", "completed", i)
			return set
		}
		def := catalog[i]
		out, err := applier.apply(thumb, def, def.Default)
		if err != nil {
			g.log.Debug("preview render failed", "filter", def.Name, "error", err)
			continue
		}
		set.Entries[i] = out
	}

	return set
}
