// Package drivemode is free driving: push the left stick to nudge the
// ball forwards or back in timed bursts, bumpers to swing the aim.
package drivemode

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"

	"github.com/spheroball-team/go-controller/pkg/heading"
	"github.com/spheroball-team/go-controller/pkg/joystick"
	"github.com/spheroball-team/go-controller/pkg/toy"
	"github.com/spheroball-team/go-controller/pkg/tunable"
)

const (
	// Deadzone is the normalised stick travel ignored around centre.
	Deadzone = 0.15
	// Throttle is how far the stick must travel to command a burst.
	Throttle = 0.7
	// AimStep is how far one bumper press swings the base heading.
	AimStep = 45
	// AimSettleTime is the pause after re-aiming with the bumpers.
	AimSettleTime = 250 * time.Millisecond
	// BurstRepeatInterval re-issues bursts while the stick is held.
	BurstRepeatInterval = 50 * time.Millisecond
)

type DriveMode struct {
	Toy    toy.Interface
	clock  clock.Clock
	logger golog.Logger

	cancel         context.CancelFunc
	stopWG         sync.WaitGroup
	joystickEvents chan *joystick.Event

	tunables *tunable.Tunables
	fwdSpeed *tunable.Tunable
	revSpeed *tunable.Tunable
	burstMS  *tunable.Tunable
}

func New(t toy.Interface, clk clock.Clock, logger golog.Logger) *DriveMode {
	m := &DriveMode{
		Toy:            t,
		clock:          clk,
		logger:         logger,
		joystickEvents: make(chan *joystick.Event),
		tunables:       tunable.New(logger),
	}
	m.fwdSpeed = m.tunables.Create("forward speed", 50, 5)
	m.revSpeed = m.tunables.Create("reverse speed", 40, 5)
	m.burstMS = m.tunables.Create("burst ms", 800, 100)
	return m
}

func (m *DriveMode) Name() string {
	return "Drive mode"
}

func (m *DriveMode) Start(ctx context.Context) {
	m.stopWG.Add(1)
	var loopCtx context.Context
	loopCtx, m.cancel = context.WithCancel(ctx)
	go m.loop(loopCtx)
}

func (m *DriveMode) Stop() {
	m.cancel()
	m.stopWG.Wait()
}

type motionKind int

const (
	motionBurst motionKind = iota
	motionAim
)

type motionRequest struct {
	kind    motionKind
	speed   int
	heading heading.Compass
	dur     time.Duration
}

func (m *DriveMode) loop(ctx context.Context) {
	defer m.stopWG.Done()

	// Pick up whatever aim the last mode left the ball with.
	base := heading.Compass{}
	if h, err := m.Toy.Heading(); err == nil {
		base = heading.FromInt(h)
	} else {
		m.logger.Errorw("failed to read heading", "error", err)
	}

	// Start a goroutine to sequence timed motion so this loop never
	// stops listening to the stick.
	motionCtx, cancelMotion := context.WithCancel(context.Background())
	var motionDone sync.WaitGroup
	motionC := make(chan motionRequest)
	motionDone.Add(1)
	go m.motionLoop(motionCtx, &motionDone, motionC)
	defer func() {
		cancelMotion()
		motionDone.Wait()
		close(motionC)
	}()

	// Create a ticker to auto-repeat bursts while the stick is held past
	// the throttle point. We enable/disable auto-repeat by copying the
	// ticker's channel to repeatC, or setting repeatC to nil.
	repeatTicker := m.clock.Ticker(BurstRepeatInterval)
	defer repeatTicker.Stop()
	var repeatC <-chan time.Time

	var throttle float64

	sendBurst := func() {
		req := motionRequest{
			kind: motionBurst,
			dur:  time.Duration(m.burstMS.Get()) * time.Millisecond,
		}
		if throttle < 0 {
			req.speed = m.fwdSpeed.Get()
			req.heading = base
		} else {
			req.speed = m.revSpeed.Get()
			req.heading = base.Back()
		}
		select {
		case motionC <- req:
		default:
			// A burst is already running; drop this one rather than queue.
		}
	}

	sendAim := func() {
		select {
		case motionC <- motionRequest{kind: motionAim, heading: base}:
		default:
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-repeatC:
			sendBurst()
		case event := <-m.joystickEvents:
			switch event.Type {
			case joystick.EventTypeAxis:
				switch event.Number {
				case joystick.AxisLStickY:
					throttle = joystick.Deadzone(joystick.Normalized(event.Value), Deadzone)
					if throttle < -Throttle || throttle > Throttle {
						repeatC = repeatTicker.C
						select {
						case <-repeatC:
						default:
						}
						sendBurst()
					} else {
						repeatC = nil
						if err := m.Toy.Stop(); err != nil {
							m.logger.Errorw("failed to stop", "error", err)
						}
					}
				case joystick.AxisDPadX:
					if event.Value > 0 {
						m.tunables.SelectNext()
					} else if event.Value < 0 {
						m.tunables.SelectPrev()
					}
				case joystick.AxisDPadY:
					// Up on the pad increases the selected tunable.
					if event.Value < 0 {
						m.tunables.Bump(1)
					} else if event.Value > 0 {
						m.tunables.Bump(-1)
					}
				}
			case joystick.EventTypeButton:
				switch event.Number {
				case joystick.ButtonR1:
					if event.Value == 1 {
						base = base.Add(AimStep)
						m.logger.Infow("base heading", "degrees", base.Int())
						sendAim()
					}
				case joystick.ButtonL1:
					if event.Value == 1 {
						base = base.Add(-AimStep)
						m.logger.Infow("base heading", "degrees", base.Int())
						sendAim()
					}
				}
			}
		}
	}
}

func (m *DriveMode) motionLoop(ctx context.Context, wg *sync.WaitGroup, reqC <-chan motionRequest) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case req := <-reqC:
			var err error
			switch req.kind {
			case motionBurst:
				err = m.burst(ctx, req)
			case motionAim:
				err = m.aim(ctx, req)
			}
			if err != nil {
				m.logger.Errorw("motion failed", "error", err)
			}
		}
	}
}

// burst rolls on the requested heading for the burst time, then stops.
// The stop still happens if the mode is being shut down mid-burst.
func (m *DriveMode) burst(ctx context.Context, req motionRequest) error {
	if err := m.Toy.Roll(req.speed, req.heading.Int()); err != nil {
		return err
	}
	m.sleep(ctx, req.dur)
	return m.Toy.Stop()
}

// aim spins the ball to face the new base heading and gives it a moment
// to get there.
func (m *DriveMode) aim(ctx context.Context, req motionRequest) error {
	if err := m.Toy.Stop(); err != nil {
		return err
	}
	if err := m.Toy.SetHeading(req.heading.Int()); err != nil {
		return err
	}
	m.sleep(ctx, AimSettleTime)
	return nil
}

func (m *DriveMode) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := m.clock.Timer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (m *DriveMode) OnJoystickEvent(event *joystick.Event) {
	m.joystickEvents <- event
}
