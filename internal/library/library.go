// Package library is the on-disk photo library: a directory that saved
// edits are written into, the write-access gate in front of it, and the
// scanner that lists pickable images.
package library

import (
	"log/slog"
	"time"
)

const DefaultJPEGQuality = 92

// Library stores JPEGs in a single directory.
type Library struct {
	dir     string
	quality int
	now     func() time.Time
	log     *slog.Logger
}

type Option func(*Library)

func WithJPEGQuality(q int) Option {
	return func(l *Library) {
		if q >= 1 && q <= 100 {
			l.quality = q
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Library) {
		if logger != nil {
			l.log = logger
		}
	}
}

func withClock(now func() time.Time) Option {
	return func(l *Library) { l.now = now }
}

func New(dir string, opts ...Option) *Library {
	l := &Library{
		dir:     dir,
		quality: DefaultJPEGQuality,
		now:     time.Now,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Library) Dir() string {
	return l.dir
}
