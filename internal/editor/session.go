package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"filterlab/internal/filter"
	"filterlab/internal/photo"
	"filterlab/internal/transform"
)

var (
	ErrNoImage        = errors.New("no image loaded")
	ErrFilterIndex    = errors.New("filter index out of range")
	ErrOriginalFilter = errors.New("the original filter has no intensity")
)

// Options configures a Session. Zero values pick defaults.
type Options struct {
	Catalog     filter.Catalog
	Engine      *filter.Engine
	Threshold   time.Duration
	PreviewSize int
	Clock       Clock
	// Background runs preview batches and library writes off the loop.
	Background func(func())
	Gate       PermissionGate
	Sink       Sink
	// Events receives every state change. Sends block, so the consumer
	// must keep draining it.
	Events         chan<- Event
	ResetAfterSave bool
	Logger         *slog.Logger
}

// Session is the selection state of one editing session. Apart from Send,
// every method must be called on the session's loop.
type Session struct {
	loop       *Loop
	catalog    filter.Catalog
	applier    *filter.Applier
	generator  *filter.PreviewGenerator
	coord      *Coordinator
	background func(func())
	gate       PermissionGate
	sink       Sink
	events     chan<- Event
	resetAfter bool
	log        *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	source      *photo.Image
	index       int
	intensity   float64
	rendered    *photo.Image
	previews    filter.PreviewSet
	batchCancel context.CancelFunc
	// batchSeq identifies the live preview batch; a result carrying any
	// other number was cancelled.
	batchSeq uint64
}

func NewSession(loop *Loop, opts Options) (*Session, error) {
	if loop == nil {
		return nil, errors.New("session needs a loop")
	}
	if opts.Catalog == nil {
		opts.Catalog = filter.DefaultCatalog()
	}
	if err := opts.Catalog.Validate(); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if opts.Engine == nil {
		opts.Engine = filter.NewEngine()
	}
	if opts.Background == nil {
		opts.Background = func(fn func()) { go fn() }
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		loop:       loop,
		catalog:    opts.Catalog,
		applier:    filter.NewApplier(opts.Engine, opts.Logger),
		generator:  filter.NewPreviewGenerator(opts.Engine, opts.PreviewSize, opts.Logger),
		background: opts.Background,
		gate:       opts.Gate,
		sink:       opts.Sink,
		events:     opts.Events,
		resetAfter: opts.ResetAfterSave,
		log:        opts.Logger,
		ctx:        ctx,
		cancel:     cancel,
	}
	s.coord = NewCoordinator(opts.Threshold, opts.Clock, loop.Post, s.target, s.render, opts.Logger)
	return s, nil
}

// Send delivers a user action to the loop. Safe from any goroutine.
func (s *Session) Send(in Input) bool {
	return s.loop.Post(func() { s.handle(in) })
}

func (s *Session) handle(in Input) {
	var err error
	switch in := in.(type) {
	case ImagePicked:
		err = s.LoadImage(in.Image)
	case FilterTapped:
		err = s.SelectFilter(in.Index)
	case IntensityDragged:
		err = s.SetIntensity(in.Value)
	case SaveRequested:
		err = s.Save(in.Scale, in.Rotation)
	case ResetRequested:
		s.Reset()
	default:
		err = fmt.Errorf("unhandled input %T", in)
	}
	if err != nil {
		s.log.Warn("input rejected", "input", fmt.Sprintf("%T", in), "error", err)
	}
}

func (s *Session) Catalog() filter.Catalog {
	return s.catalog
}

func (s *Session) HasImage() bool {
	return s.source != nil
}

func (s *Session) Source() *photo.Image {
	return s.source
}

func (s *Session) Rendered() *photo.Image {
	return s.rendered
}

func (s *Session) SelectedIndex() int {
	return s.index
}

func (s *Session) Selected() filter.Definition {
	return s.catalog[s.index]
}

func (s *Session) Intensity() float64 {
	return s.intensity
}

func (s *Session) Previews() filter.PreviewSet {
	return s.previews
}

func (s *Session) AllPreviewsReady() bool {
	return s.previews.AllReady()
}

// LoadImage makes img (turned upright) the new source with the original
// filter selected, and starts a preview batch for it.
func (s *Session) LoadImage(img *photo.Image) error {
	if img == nil || img.Raster() == nil {
		return ErrNoImage
	}
	upright := transform.Normalize(img)

	s.coord.Cancel()
	s.cancelBatch()
	s.applier.Invalidate()

	s.source = upright
	s.index = 0
	s.intensity = s.catalog[0].Default
	s.rendered = upright
	s.previews = filter.NewPreviewSet(s.catalog.Len(), upright)

	s.log.Info("image loaded", "name", upright.Name(), "width", upright.Bounds().Dx(), "height", upright.Bounds().Dy())
	s.emit(ImageLoaded{Source: upright})
	s.emit(SelectionChanged{Index: 0, Definition: s.catalog[0], Intensity: s.intensity})
	s.emit(Rendered{Image: upright, Filter: 0, Intensity: s.intensity})
	s.emit(PreviewsChanged{Previews: s.previews})

	s.startBatch(upright)
	return nil
}

// SelectFilter switches to catalog entry i at its default intensity and
// renders it at once.
func (s *Session) SelectFilter(i int) error {
	if s.source == nil {
		return ErrNoImage
	}
	def, ok := s.catalog.At(i)
	if !ok {
		return fmt.Errorf("%w: %d", ErrFilterIndex, i)
	}

	s.coord.Cancel()
	s.index = i
	s.intensity = def.Default
	s.emit(SelectionChanged{Index: i, Definition: def, Intensity: def.Default})

	t := s.target()
	if def.IsOriginal() {
		s.coord.Update(t, true, def.Default)
		return nil
	}
	s.coord.Commit(t, def.Default)
	return nil
}

// SetIntensity routes a slider value for the selected filter through the
// coordinator.
func (s *Session) SetIntensity(v float64) error {
	if s.source == nil {
		return ErrNoImage
	}
	def := s.Selected()
	if def.IsOriginal() {
		return ErrOriginalFilter
	}

	s.intensity = def.Clamp(v)
	s.coord.Update(s.target(), false, s.intensity)
	return nil
}

// Reset drops the image, its render and previews, and any pending work.
func (s *Session) Reset() {
	s.coord.Cancel()
	s.cancelBatch()
	s.applier.Invalidate()

	hadImage := s.source != nil
	s.source = nil
	s.rendered = nil
	s.index = 0
	s.intensity = s.catalog[0].Default
	s.previews = filter.PreviewSet{}

	if hadImage {
		s.log.Info("session reset")
	}
	s.emit(ImageCleared{})
}

// Close cancels background work and any scheduled commit.
func (s *Session) Close() {
	s.coord.Cancel()
	s.cancelBatch()
	s.cancel()
}

func (s *Session) target() Target {
	return Target{Source: s.source, Filter: s.index}
}

func (s *Session) render(t Target, v float64) {
	if t != s.target() || s.source == nil {
		return
	}
	s.rendered = s.applier.Apply(t.Source, s.catalog[t.Filter], v)
	s.emit(Rendered{Image: s.rendered, Filter: t.Filter, Intensity: v})
}

func (s *Session) startBatch(src *photo.Image) {
	ctx, cancel := context.WithCancel(s.ctx)
	s.batchCancel = cancel
	s.batchSeq++
	seq := s.batchSeq

	gen, catalog := s.generator, s.catalog
	s.background(func() {
		started := time.Now()
		set := gen.Generate(ctx, catalog, src)
		s.log.Debug("preview batch generated", "ready", set.Ready(), "elapsed", time.Since(started))
		s.loop.Post(func() { s.finishBatch(seq, src, set) })
	})
}

func (s *Session) finishBatch(seq uint64, src *photo.Image, set filter.PreviewSet) {
	if seq != s.batchSeq || s.source != src {
		s.log.Debug("discarding superseded preview batch", "name", src.Name(), "batch", seq)
		return
	}
	s.cancelBatch()
	s.previews = set
	s.emit(PreviewsChanged{Previews: set, AllReady: set.AllReady()})
}

func (s *Session) cancelBatch() {
	s.batchSeq++
	if s.batchCancel != nil {
		s.batchCancel()
		s.batchCancel = nil
	}
}

func (s *Session) emit(ev Event) {
	if s.events != nil {
		s.events <- ev
	}
}
