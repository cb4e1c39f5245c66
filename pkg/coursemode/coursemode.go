// Package coursemode drives preset courses: pick one with the D-pad,
// Cross to go, Square to abandon, Triangle to pause between legs.
package coursemode

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"

	"github.com/spheroball-team/go-controller/pkg/course"
	"github.com/spheroball-team/go-controller/pkg/deadreckon"
	"github.com/spheroball-team/go-controller/pkg/joystick"
	"github.com/spheroball-team/go-controller/pkg/sound"
	"github.com/spheroball-team/go-controller/pkg/toy"
)

type CourseMode struct {
	logger golog.Logger

	courses  []course.Course
	executor *deadreckon.Executor
	sounds   chan string

	cancel         context.CancelFunc
	stopWG         sync.WaitGroup
	joystickEvents chan *joystick.Event

	selected  int
	running   int32
	cancelRun context.CancelFunc
	runWG     sync.WaitGroup
	runDone   chan error

	startEdge joystick.EdgeDetector
}

func New(
	t toy.Interface,
	courses []course.Course,
	tuning deadreckon.Tuning,
	clk clock.Clock,
	sounds chan string,
	logger golog.Logger,
) *CourseMode {
	return &CourseMode{
		logger:         logger,
		courses:        courses,
		executor:       deadreckon.New(t, tuning, clk, logger),
		sounds:         sounds,
		joystickEvents: make(chan *joystick.Event),
		runDone:        make(chan error, 1),
	}
}

func (m *CourseMode) Name() string {
	return "Course mode"
}

func (m *CourseMode) Start(ctx context.Context) {
	m.stopWG.Add(1)
	var loopCtx context.Context
	loopCtx, m.cancel = context.WithCancel(ctx)
	go m.loop(loopCtx)
}

func (m *CourseMode) Stop() {
	m.cancel()
	m.stopWG.Wait()
}

func (m *CourseMode) loop(ctx context.Context) {
	defer m.stopWG.Done()
	defer m.stopRun()

	m.play(sound.Ready)
	m.announceSelected()

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-m.runDone:
			m.setRunning(false)
			switch {
			case err == nil:
				m.logger.Infow("course done", "name", m.courses[m.selected].Name)
				m.play(sound.CourseDone)
			case errors.Is(err, context.Canceled):
				m.logger.Infow("course run abandoned")
			default:
				m.logger.Errorw("course run failed", "error", err)
			}
		case event := <-m.joystickEvents:
			m.onEvent(event)
		}
	}
}

func (m *CourseMode) onEvent(event *joystick.Event) {
	switch event.Type {
	case joystick.EventTypeButton:
		switch event.Number {
		case joystick.ButtonCross:
			// Edge detect so a glitchy pad can't double-start a run.
			if m.startEdge.Rising(event.Value == 1) {
				m.startRun()
			}
		case joystick.ButtonSquare:
			if event.Value == 1 {
				m.stopRun()
			}
		case joystick.ButtonTriangle:
			if event.Value == 1 {
				m.pauseOrResumeRun()
			}
		}
	case joystick.EventTypeAxis:
		if event.Number == joystick.AxisDPadX && event.Value != 0 {
			m.selectCourse(event.Value > 0)
		}
	}
}

func (m *CourseMode) startRun() {
	if m.isRunning() {
		m.logger.Infow("already running")
		return
	}
	if len(m.courses) == 0 {
		m.logger.Errorw("no courses loaded")
		return
	}
	crs := m.courses[m.selected]
	m.logger.Infow("starting course", "name", crs.Name, "tiles", crs.TotalTiles())
	m.setRunning(true)
	m.executor.Resume()

	runCtx, cancel := context.WithCancel(context.Background())
	m.cancelRun = cancel
	m.runWG.Add(1)
	m.play(sound.Go)
	go m.runCourse(runCtx, crs)
}

func (m *CourseMode) runCourse(ctx context.Context, crs course.Course) {
	defer m.runWG.Done()
	m.runDone <- m.executor.Run(ctx, crs, func(p deadreckon.Progress) {
		m.logger.Infow("segment",
			"n", p.Segment+1,
			"of", p.Of,
			"heading", p.Heading,
			"duration", p.Duration,
		)
	})
}

func (m *CourseMode) stopRun() {
	if !m.isRunning() {
		return
	}
	m.logger.Infow("abandoning course run")
	m.cancelRun()
	m.runWG.Wait()
	m.setRunning(false)
}

func (m *CourseMode) pauseOrResumeRun() {
	if !m.isRunning() {
		return
	}
	if m.executor.Paused() {
		m.logger.Infow("resuming course run")
		m.executor.Resume()
	} else {
		m.logger.Infow("pausing at the end of this leg")
		m.executor.Pause()
	}
}

func (m *CourseMode) selectCourse(next bool) {
	if m.isRunning() {
		m.logger.Infow("can't change course mid-run")
		return
	}
	if len(m.courses) == 0 {
		return
	}
	if next {
		m.selected = (m.selected + 1) % len(m.courses)
	} else {
		m.selected--
		if m.selected < 0 {
			m.selected = len(m.courses) - 1
		}
	}
	m.announceSelected()
}

func (m *CourseMode) announceSelected() {
	if len(m.courses) == 0 {
		m.logger.Errorw("no courses loaded")
		return
	}
	crs := m.courses[m.selected]
	m.logger.Infow("course selected",
		"name", crs.Name,
		"segments", len(crs.Segments),
		"tiles", crs.TotalTiles(),
	)
}

func (m *CourseMode) setRunning(v bool) {
	if v {
		atomic.StoreInt32(&m.running, 1)
	} else {
		atomic.StoreInt32(&m.running, 0)
	}
}

func (m *CourseMode) isRunning() bool {
	return atomic.LoadInt32(&m.running) == 1
}

// play drops the cue if the sound player is busy or absent; a missed
// jingle must never stall the mode loop.
func (m *CourseMode) play(cue string) {
	if m.sounds == nil {
		return
	}
	select {
	case m.sounds <- cue:
	default:
	}
}

func (m *CourseMode) OnJoystickEvent(event *joystick.Event) {
	m.joystickEvents <- event
}
