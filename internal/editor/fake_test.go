package editor

import (
	"context"
	"image"
	"image/color"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"filterlab/internal/photo"
)

// fakeClock fires timers synchronously from Advance.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, t := range due {
		t.f()
	}
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// spawner queues background work until the test runs it.
type spawner struct {
	mu    sync.Mutex
	tasks []func()
}

func (s *spawner) Go(fn func()) {
	s.mu.Lock()
	s.tasks = append(s.tasks, fn)
	s.mu.Unlock()
}

func (s *spawner) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// RunAt runs and removes the i-th queued task.
func (s *spawner) RunAt(i int) {
	s.mu.Lock()
	fn := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.mu.Unlock()
	fn()
}

func (s *spawner) RunAll() {
	for s.Len() > 0 {
		s.RunAt(0)
	}
}

type fakeGate struct {
	granted bool
	calls   int
}

func (g *fakeGate) RequestPhotoLibraryAccess(completion func(bool)) {
	g.calls++
	completion(g.granted)
}

type fakeSink struct {
	mu     sync.Mutex
	err    error
	twice  bool
	saved  []image.Image
	ctxErr error
}

func (s *fakeSink) Save(ctx context.Context, img image.Image, completion func(string, error)) {
	s.mu.Lock()
	s.saved = append(s.saved, img)
	s.ctxErr = ctx.Err()
	err := s.err
	s.mu.Unlock()

	path := "/library/saved.jpg"
	if err != nil {
		path = ""
	}
	completion(path, err)
	if s.twice {
		completion(path, err)
	}
}

func (s *fakeSink) Saved() []image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]image.Image(nil), s.saved...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testImage(w, h int, name string) *photo.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 90, A: 255})
		}
	}
	return photo.New(img).WithName(name)
}

// drain returns every event buffered in ch.
func drain(ch chan Event) []Event {
	var out []Event
	for {
		select {
		case ev := <-ch:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func eventsOf[T Event](events []Event) []T {
	var out []T
	for _, ev := range events {
		if e, ok := ev.(T); ok {
			out = append(out, e)
		}
	}
	return out
}
