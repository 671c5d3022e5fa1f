package cmd

import (
	"context"

	"filterlab/internal/editor"
	"filterlab/internal/filter"
	"filterlab/internal/library"
)

// runningSession is an editing session whose loop runs on its own goroutine.
type runningSession struct {
	*editor.Session
	events   chan editor.Event
	cancel   context.CancelFunc
	loopDone chan error
}

func startSession(ctx context.Context, catalog filter.Catalog) (*runningSession, error) {
	lib := library.New(cfg.LibraryDir,
		library.WithJPEGQuality(cfg.JPEGQuality),
		library.WithLogger(logger),
	)

	events := make(chan editor.Event, 64)
	loop := editor.NewLoop()
	session, err := editor.NewSession(loop, editor.Options{
		Catalog:        catalog,
		Threshold:      cfg.Debounce(),
		PreviewSize:    cfg.PreviewSize,
		Gate:           lib,
		Sink:           lib,
		Events:         events,
		ResetAfterSave: cfg.ResetAfterSave,
		Logger:         logger,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	rs := &runningSession{Session: session, events: events, cancel: cancel, loopDone: make(chan error, 1)}
	go func() { rs.loopDone <- loop.Run(ctx) }()
	return rs, nil
}

// stop shuts the loop down. Events published meanwhile are discarded.
func (rs *runningSession) stop() {
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for range rs.events {
		}
	}()
	rs.cancel()
	<-rs.loopDone
	rs.Close()
	close(rs.events)
	<-drained
}
