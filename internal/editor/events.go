package editor

import (
	"filterlab/internal/filter"
	"filterlab/internal/photo"
)

// Event is a state change published to the presentation layer.
type Event interface {
	event()
}

// ImageLoaded: a new source replaced the previous one; previews are empty.
type ImageLoaded struct {
	Source *photo.Image
}

// ImageCleared: the session went back to having no image.
type ImageCleared struct{}

type SelectionChanged struct {
	Index      int
	Definition filter.Definition
	Intensity  float64
}

// Rendered carries the image the user should now see.
type Rendered struct {
	Image     *photo.Image
	Filter    int
	Intensity float64
}

type PreviewsChanged struct {
	Previews filter.PreviewSet
	AllReady bool
}

// SaveFinished is published exactly once per accepted save request.
type SaveFinished struct {
	OK   bool
	Path string
	Err  error
}

func (ImageLoaded) event()      {}
func (ImageCleared) event()     {}
func (SelectionChanged) event() {}
func (Rendered) event()         {}
func (PreviewsChanged) event()  {}
func (SaveFinished) event()     {}

// Input is a user action sent by the presentation layer.
type Input interface {
	input()
}

type ImagePicked struct {
	Image *photo.Image
}

type FilterTapped struct {
	Index int
}

type IntensityDragged struct {
	Value float64
}

// SaveRequested asks for the current render, with the on-screen gesture
// transform baked in, to be written to the library.
type SaveRequested struct {
	Scale    float64
	Rotation float64
}

type ResetRequested struct{}

func (ImagePicked) input()      {}
func (FilterTapped) input()     {}
func (IntensityDragged) input() {}
func (SaveRequested) input()    {}
func (ResetRequested) input()   {}
