package editor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"filterlab/internal/photo"
	"filterlab/internal/transform"
)

var (
	ErrPermissionDenied = errors.New("photo library access denied")
	ErrSaveFailed       = errors.New("save failed")
)

// PermissionGate asks for write access to the photo library. The completion
// may run on any goroutine, possibly before RequestPhotoLibraryAccess returns.
type PermissionGate interface {
	RequestPhotoLibraryAccess(completion func(granted bool))
}

// Sink stores an image in the photo library and reports the outcome through
// completion, from any goroutine.
type Sink interface {
	Save(ctx context.Context, img image.Image, completion func(path string, err error))
}

// Save writes the current render, with the gesture's scale and rotation
// baked in, to the library. Pending slider input is committed first so the
// saved image matches the last value the user picked. Exactly one
// SaveFinished is published for every call.
func (s *Session) Save(scale, rotation float64) error {
	if s.source == nil {
		s.emit(SaveFinished{Err: ErrNoImage})
		return ErrNoImage
	}
	if s.gate == nil || s.sink == nil {
		err := fmt.Errorf("%w: no photo library configured", ErrSaveFailed)
		s.emit(SaveFinished{Err: err})
		return err
	}

	s.coord.Flush()
	src, shown := s.source, s.rendered
	if shown == nil {
		shown = src
	}

	var once sync.Once
	finish := func(path string, err error) {
		once.Do(func() {
			if !s.loop.Post(func() { s.finishSave(src, path, err) }) {
				s.log.Warn("save result dropped: session closed", "name", src.Name(), "path", path, "error", err)
			}
		})
	}

	s.log.Info("saving image", "name", src.Name(), "scale", scale, "rotation", rotation)
	s.gate.RequestPhotoLibraryAccess(func(granted bool) {
		if !granted {
			finish("", ErrPermissionDenied)
			return
		}
		s.background(func() {
			s.write(shown, scale, rotation, finish)
		})
	})
	return nil
}

func (s *Session) write(shown *photo.Image, scale, rotation float64, finish func(string, error)) {
	baked, err := transform.Bake(shown.Raster(), scale, rotation)
	if err != nil {
		finish("", fmt.Errorf("%w: %w", ErrSaveFailed, err))
		return
	}
	s.sink.Save(s.ctx, baked, func(path string, err error) {
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrSaveFailed, err)
		}
		finish(path, err)
	})
}

func (s *Session) finishSave(src *photo.Image, path string, err error) {
	if err != nil {
		s.log.Error("save failed", "name", src.Name(), "error", err)
	} else {
		s.log.Info("image saved", "name", src.Name(), "path", path)
	}
	s.emit(SaveFinished{OK: err == nil, Path: path, Err: err})

	if err == nil && s.resetAfter && s.source == src {
		s.Reset()
	}
}
