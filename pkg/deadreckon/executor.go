package deadreckon

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/spheroball-team/go-controller/pkg/course"
	"github.com/spheroball-team/go-controller/pkg/heading"
	"github.com/spheroball-team/go-controller/pkg/toy"
)

// Progress reports the segment about to be driven.
type Progress struct {
	Segment  int           // index into the course, 0 based
	Of       int           // total segments
	Heading  int           // absolute heading for this leg
	Duration time.Duration // how long the roll will take
}

// Executor drives courses open loop. All waits go through the injected
// clock so tests can drive time themselves.
type Executor struct {
	toy    toy.Interface
	clock  clock.Clock
	logger golog.Logger

	mu     sync.Mutex
	tuning Tuning

	paused int32
}

// New returns an Executor driving t with the given tuning.
func New(t toy.Interface, tuning Tuning, clk clock.Clock, logger golog.Logger) *Executor {
	return &Executor{toy: t, clock: clk, logger: logger, tuning: tuning}
}

// Tuning returns the constants currently in use.
func (e *Executor) Tuning() Tuning {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tuning
}

// SetTuning replaces the constants used by the next Run.
func (e *Executor) SetTuning(t Tuning) {
	e.mu.Lock()
	e.tuning = t
	e.mu.Unlock()
}

// Pause makes Run hold position before starting the next segment. A
// segment already rolling finishes first; dead reckoning cannot resume
// a half-done leg.
func (e *Executor) Pause() { atomic.StoreInt32(&e.paused, 1) }

// Resume lets a paused Run continue.
func (e *Executor) Resume() { atomic.StoreInt32(&e.paused, 0) }

// Paused reports whether Run is holding between segments.
func (e *Executor) Paused() bool { return atomic.LoadInt32(&e.paused) == 1 }

// Run drives the course from wherever the toy is aimed. Segments with a
// turn roll on an absolute heading accumulated from the start aim;
// segments without keep the current aim, so a course opening with a
// straight leg does not twitch on the start line. Run returns when the
// course completes, a toy command fails, or ctx is cancelled; the toy
// is stopped on every path out.
func (e *Executor) Run(ctx context.Context, c course.Course, onSegment func(Progress)) error {
	if err := c.Validate(); err != nil {
		return err
	}
	tuning := e.Tuning()

	start, err := e.toy.Heading()
	if err != nil {
		return errors.Wrap(err, "reading start heading")
	}
	hdg := heading.FromInt(start)

	defer func() {
		if err := e.toy.Stop(); err != nil {
			e.logger.Errorw("failed to stop after run", "error", err)
		}
	}()

	for i, seg := range c.Segments {
		if err := e.waitWhilePaused(ctx); err != nil {
			return err
		}

		hdg = hdg.Add(seg.Turn)
		d := tuning.DurationForTiles(seg.Tiles)
		if onSegment != nil {
			onSegment(Progress{Segment: i, Of: len(c.Segments), Heading: hdg.Int(), Duration: d})
		}

		// Every leg starts from rest.
		if err := e.toy.Stop(); err != nil {
			return errors.Wrapf(err, "segment %d: stopping", i)
		}
		if seg.Turn != 0 {
			if err := e.toy.SetHeading(hdg.Int()); err != nil {
				return errors.Wrapf(err, "segment %d: aiming", i)
			}
			if err := e.sleep(ctx, tuning.HeadingSettle()); err != nil {
				return err
			}
		}
		if seg.Tiles == 0 {
			continue
		}

		if seg.Turn != 0 {
			err = e.toy.Roll(tuning.RunSpeed, hdg.Int())
		} else {
			// No turn: keep the current aim rather than re-command it.
			err = e.toy.SetSpeed(tuning.RunSpeed)
		}
		if err != nil {
			return errors.Wrapf(err, "segment %d: rolling", i)
		}
		if err := e.sleep(ctx, d); err != nil {
			return err
		}
		if err := e.toy.Stop(); err != nil {
			return errors.Wrapf(err, "segment %d: stopping", i)
		}
		if err := e.sleep(ctx, tuning.StabilizeDelay()); err != nil {
			return err
		}
	}
	return nil
}

// pausePoll is how often a paused run rechecks for resume.
const pausePoll = 50 * time.Millisecond

func (e *Executor) waitWhilePaused(ctx context.Context) error {
	for e.Paused() {
		if err := e.sleep(ctx, pausePoll); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func (e *Executor) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := e.clock.Timer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
