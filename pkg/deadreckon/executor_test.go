package deadreckon

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"go.viam.com/test"

	"github.com/spheroball-team/go-controller/pkg/course"
	"github.com/spheroball-team/go-controller/pkg/toy"
)

// testTuning keeps mock-clock runs short: one tile takes one second.
func testTuning() Tuning {
	return Tuning{
		TileCM:           50,
		RunSpeed:         60,
		SpeedCMPerS:      50,
		Safety:           1,
		HeadingSettleMS:  300,
		StabilizeDelayMS: 150,
	}
}

// runToCompletion winds the mock clock forward until the run finishes.
func runToCompletion(t *testing.T, clk *clock.Mock, errCh <-chan error) error {
	t.Helper()
	for i := 0; i < 10000; i++ {
		select {
		case err := <-errCh:
			return err
		default:
			clk.Add(pausePoll)
			time.Sleep(time.Millisecond)
		}
	}
	t.Fatal("run never completed")
	return nil
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	for i := 0; i < 2000; i++ {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestRunCommandSequence(t *testing.T) {
	logger := golog.NewTestLogger(t)
	d := toy.NewDummy(logger)
	clk := clock.NewMock()
	e := New(d, testTuning(), clk, logger)

	crs := course.Course{Name: "test", Segments: []course.Segment{
		{Tiles: 1},
		{Turn: 90, Tiles: 1},
		{Turn: -90},
	}}

	var progress []Progress
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Run(context.Background(), crs, func(p Progress) {
			progress = append(progress, p)
		})
	}()
	test.That(t, runToCompletion(t, clk, errCh), test.ShouldBeNil)

	test.That(t, d.Ops(), test.ShouldResemble, []string{
		"stop",         // leg 0 starts from rest
		"set-speed 60", // straight opener keeps the aim, no twitch
		"stop",
		"stop", // leg 1
		"set-heading 90",
		"roll 60 90",
		"stop",
		"stop", // leg 2 turns without rolling
		"set-heading 0",
		"stop", // final stop on the way out
	})

	test.That(t, progress, test.ShouldResemble, []Progress{
		{Segment: 0, Of: 3, Heading: 0, Duration: time.Second},
		{Segment: 1, Of: 3, Heading: 90, Duration: time.Second},
		{Segment: 2, Of: 3, Heading: 0, Duration: 0},
	})
}

func TestRunStartsFromCurrentAim(t *testing.T) {
	logger := golog.NewTestLogger(t)
	d := toy.NewDummy(logger)
	clk := clock.NewMock()
	e := New(d, testTuning(), clk, logger)

	// Aim the toy off axis before the run; turns accumulate from there.
	test.That(t, d.SetHeading(45), test.ShouldBeNil)

	crs := course.Course{Name: "test", Segments: []course.Segment{
		{Turn: 90, Tiles: 1},
	}}
	errCh := make(chan error, 1)
	go func() { errCh <- e.Run(context.Background(), crs, nil) }()
	test.That(t, runToCompletion(t, clk, errCh), test.ShouldBeNil)

	test.That(t, d.Ops(), test.ShouldResemble, []string{
		"set-heading 45",
		"stop",
		"set-heading 135",
		"roll 60 135",
		"stop",
		"stop",
	})
}

func TestRunCancelledMidRoll(t *testing.T) {
	logger := golog.NewTestLogger(t)
	d := toy.NewDummy(logger)
	clk := clock.NewMock()
	e := New(d, testTuning(), clk, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	crs := course.Course{Name: "long", Segments: []course.Segment{
		{Tiles: 100},
	}}
	errCh := make(chan error, 1)
	go func() { errCh <- e.Run(ctx, crs, nil) }()

	// Cancel once the roll is under way; no clock winding needed.
	waitFor(t, "roll to start", func() bool { return d.Speed() == 60 })
	cancel()

	err := <-errCh
	test.That(t, err, test.ShouldBeError, context.Canceled)

	// The toy must not be left rolling.
	ops := d.Ops()
	test.That(t, ops[len(ops)-1], test.ShouldEqual, "stop")
	test.That(t, d.Speed(), test.ShouldEqual, 0)
}

func TestPauseHoldsBetweenSegments(t *testing.T) {
	logger := golog.NewTestLogger(t)
	d := toy.NewDummy(logger)
	clk := clock.NewMock()
	e := New(d, testTuning(), clk, logger)

	e.Pause()
	test.That(t, e.Paused(), test.ShouldBeTrue)

	crs := course.Course{Name: "test", Segments: []course.Segment{
		{Tiles: 1},
		{Turn: 90, Tiles: 1},
	}}
	errCh := make(chan error, 1)
	go func() { errCh <- e.Run(context.Background(), crs, nil) }()

	// Wind plenty of time past a paused run; it must not move the toy.
	for i := 0; i < 20; i++ {
		clk.Add(pausePoll)
		time.Sleep(time.Millisecond)
	}
	test.That(t, d.Ops(), test.ShouldHaveLength, 0)

	e.Resume()
	test.That(t, runToCompletion(t, clk, errCh), test.ShouldBeNil)

	test.That(t, d.Ops(), test.ShouldResemble, []string{
		"stop",
		"set-speed 60",
		"stop",
		"stop",
		"set-heading 90",
		"roll 60 90",
		"stop",
		"stop",
	})
}

func TestRunRejectsInvalidCourse(t *testing.T) {
	logger := golog.NewTestLogger(t)
	d := toy.NewDummy(logger)
	e := New(d, testTuning(), clock.NewMock(), logger)

	err := e.Run(context.Background(), course.Course{Name: "empty"}, nil)
	test.That(t, err, test.ShouldNotBeNil)

	// A rejected course must not touch the toy at all.
	test.That(t, d.Ops(), test.ShouldHaveLength, 0)
}
