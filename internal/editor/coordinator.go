package editor

import (
	"log/slog"
	"time"

	"filterlab/internal/photo"
)

// DefaultThreshold is the minimum spacing between committed renders while dragging.
const DefaultThreshold = 10 * time.Millisecond

// Target identifies what a commit renders: one source and one catalog entry.
type Target struct {
	Source *photo.Image
	Filter int
}

// Coordinator turns a stream of intensity values into rate-limited commits.
// It must only be used from the interactive loop; timer callbacks are
// marshalled back onto it through post.
type Coordinator struct {
	threshold time.Duration
	clock     Clock
	post      func(func()) bool
	current   func() Target
	commit    func(Target, float64)
	log       *slog.Logger

	lastCommit time.Time

	pending      Timer
	pendingSeq   uint64
	pendingValue float64
	pendingFor   Target
	seq          uint64
}

func NewCoordinator(threshold time.Duration, clock Clock, post func(func()) bool, current func() Target, commit func(Target, float64), logger *slog.Logger) *Coordinator {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if clock == nil {
		clock = SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		threshold: threshold,
		clock:     clock,
		post:      post,
		current:   current,
		commit:    commit,
		log:       logger,
	}
}

// Update submits v for t. Passthrough targets render at once and leave the
// debounce baseline alone. Otherwise v commits immediately when the last
// commit is at least threshold old, or replaces any scheduled commit.
func (c *Coordinator) Update(t Target, passthrough bool, v float64) {
	if passthrough {
		c.Cancel()
		c.commit(t, v)
		return
	}

	now := c.clock.Now()
	elapsed := now.Sub(c.lastCommit)
	if c.lastCommit.IsZero() || elapsed >= c.threshold {
		c.Cancel()
		c.commitNow(t, v, now)
		return
	}

	c.schedule(t, v, c.threshold-elapsed)
}

// Commit renders v for t right away, replacing anything scheduled, and
// restarts the debounce window.
func (c *Coordinator) Commit(t Target, v float64) {
	c.Cancel()
	c.commitNow(t, v, c.clock.Now())
}

// Flush commits the scheduled value now if its target is still current.
func (c *Coordinator) Flush() bool {
	if c.pending == nil {
		return false
	}
	t, v := c.pendingFor, c.pendingValue
	c.Cancel()
	if c.current() != t {
		return false
	}
	c.commitNow(t, v, c.clock.Now())
	return true
}

// Cancel drops the scheduled commit, if any.
func (c *Coordinator) Cancel() {
	if c.pending == nil {
		return
	}
	c.pending.Stop()
	c.pending = nil
	c.pendingSeq = 0
}

// Pending returns the scheduled value.
func (c *Coordinator) Pending() (float64, bool) {
	if c.pending == nil {
		return 0, false
	}
	return c.pendingValue, true
}

func (c *Coordinator) schedule(t Target, v float64, delay time.Duration) {
	c.Cancel()

	c.seq++
	seq := c.seq
	c.pendingSeq = seq
	c.pendingValue = v
	c.pendingFor = t
	c.pending = c.clock.AfterFunc(delay, func() {
		c.post(func() { c.fire(seq) })
	})
}

func (c *Coordinator) fire(seq uint64) {
	// A timer whose Stop lost the race still posts; its sequence is stale.
	if c.pending == nil || seq != c.pendingSeq {
		return
	}
	t, v := c.pendingFor, c.pendingValue
	c.pending = nil
	c.pendingSeq = 0

	if c.current() != t {
		c.log.Debug("dropping scheduled commit for a stale selection", "filter", t.Filter)
		return
	}
	c.commitNow(t, v, c.clock.Now())
}

func (c *Coordinator) commitNow(t Target, v float64, at time.Time) {
	c.commit(t, v)
	c.lastCommit = at
}
