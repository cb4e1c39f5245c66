package drivemode

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"go.viam.com/test"

	"github.com/spheroball-team/go-controller/pkg/joystick"
	"github.com/spheroball-team/go-controller/pkg/toy"
)

func axis(number uint8, value int16) *joystick.Event {
	return &joystick.Event{Type: joystick.EventTypeAxis, Number: number, Value: value}
}

func button(number uint8, value int16) *joystick.Event {
	return &joystick.Event{Type: joystick.EventTypeButton, Number: number, Value: value}
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

func windUntil(t *testing.T, clk *clock.Mock, what string, cond func() bool) {
	t.Helper()
	for i := 0; i < 10000; i++ {
		if cond() {
			return
		}
		clk.Add(BurstRepeatInterval)
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out winding the clock for %s", what)
}

func countRolls(d *toy.Dummy) int {
	n := 0
	for _, op := range d.Ops() {
		if strings.HasPrefix(op, "roll ") {
			n++
		}
	}
	return n
}

func startMode(t *testing.T) (*DriveMode, *toy.Dummy, *clock.Mock) {
	t.Helper()
	logger := golog.NewTestLogger(t)
	d := toy.NewDummy(logger)
	clk := clock.NewMock()
	m := New(d, clk, logger)
	m.Start(context.Background())
	// Let the mode's goroutines come up before poking it.
	time.Sleep(20 * time.Millisecond)
	return m, d, clk
}

func TestBurstForward(t *testing.T) {
	m, d, clk := startMode(t)
	defer m.Stop()

	m.OnJoystickEvent(axis(joystick.AxisLStickY, -32767))
	waitFor(t, "burst to start", func() bool { return countRolls(d) == 1 })

	// Releasing mid-burst stops the ball straight away.
	m.OnJoystickEvent(axis(joystick.AxisLStickY, 0))
	waitFor(t, "release stop", func() bool { return len(d.Ops()) == 2 })

	// The burst's own stop still fires when its time is up.
	clk.Add(time.Duration(m.burstMS.Get()) * time.Millisecond)
	waitFor(t, "burst stop", func() bool { return len(d.Ops()) == 3 })

	test.That(t, d.Ops(), test.ShouldResemble, []string{
		"roll 50 0",
		"stop",
		"stop",
	})
}

func TestBurstReverse(t *testing.T) {
	m, d, clk := startMode(t)
	defer m.Stop()

	m.OnJoystickEvent(axis(joystick.AxisLStickY, 32767))
	waitFor(t, "burst to start", func() bool { return countRolls(d) == 1 })

	m.OnJoystickEvent(axis(joystick.AxisLStickY, 0))
	clk.Add(time.Duration(m.burstMS.Get()) * time.Millisecond)
	waitFor(t, "burst stop", func() bool { return len(d.Ops()) == 3 })

	test.That(t, d.Ops(), test.ShouldResemble, []string{
		"roll 40 180", // reverse drives the opposite of the base aim
		"stop",
		"stop",
	})
}

func TestHeldStickKeepsBursting(t *testing.T) {
	m, d, clk := startMode(t)
	defer m.Stop()

	m.OnJoystickEvent(axis(joystick.AxisLStickY, -32767))
	windUntil(t, clk, "repeated bursts", func() bool { return countRolls(d) >= 3 })

	for _, op := range d.Ops() {
		if strings.HasPrefix(op, "roll ") {
			test.That(t, op, test.ShouldEqual, "roll 50 0")
		}
	}

	m.OnJoystickEvent(axis(joystick.AxisLStickY, 0))
}

func TestStickShortOfThrottleStops(t *testing.T) {
	m, d, _ := startMode(t)
	defer m.Stop()

	// Half travel clears the deadzone but not the throttle point.
	m.OnJoystickEvent(axis(joystick.AxisLStickY, -16383))
	// And a wiggle inside the deadzone counts as centred.
	m.OnJoystickEvent(axis(joystick.AxisLStickY, -3000))
	waitFor(t, "stops", func() bool { return len(d.Ops()) == 2 })

	test.That(t, countRolls(d), test.ShouldEqual, 0)
	test.That(t, d.Ops(), test.ShouldResemble, []string{"stop", "stop"})
}

func TestBumperSwingsAim(t *testing.T) {
	m, d, clk := startMode(t)
	defer m.Stop()

	m.OnJoystickEvent(button(joystick.ButtonR1, 1))
	m.OnJoystickEvent(button(joystick.ButtonR1, 0))
	waitFor(t, "re-aim", func() bool { return len(d.Ops()) == 2 })

	// Let the aim settle so the next command is accepted.
	clk.Add(AimSettleTime)
	time.Sleep(20 * time.Millisecond)

	// Bursts now follow the new base heading.
	m.OnJoystickEvent(axis(joystick.AxisLStickY, -32767))
	waitFor(t, "burst on new aim", func() bool { return countRolls(d) == 1 })

	test.That(t, d.Ops(), test.ShouldResemble, []string{
		"stop",
		"set-heading 45",
		"roll 50 45",
	})
}

func TestBumperSwingsAimLeft(t *testing.T) {
	m, d, _ := startMode(t)
	defer m.Stop()

	m.OnJoystickEvent(button(joystick.ButtonL1, 1))
	m.OnJoystickEvent(button(joystick.ButtonL1, 0))
	waitFor(t, "re-aim", func() bool { return len(d.Ops()) == 2 })

	test.That(t, d.Ops(), test.ShouldResemble, []string{
		"stop",
		"set-heading 315",
	})
}

func TestDPadAdjustsTunables(t *testing.T) {
	m, d, _ := startMode(t)
	defer m.Stop()

	// Up on the pad bumps the selected tunable (forward speed).
	m.OnJoystickEvent(axis(joystick.AxisDPadY, -32767))
	m.OnJoystickEvent(axis(joystick.AxisDPadY, 0))
	test.That(t, m.fwdSpeed.Get(), test.ShouldEqual, 55)

	// Right selects the next tunable (reverse speed), then bump it.
	m.OnJoystickEvent(axis(joystick.AxisDPadX, 32767))
	m.OnJoystickEvent(axis(joystick.AxisDPadX, 0))
	m.OnJoystickEvent(axis(joystick.AxisDPadY, -32767))
	m.OnJoystickEvent(axis(joystick.AxisDPadY, 0))
	test.That(t, m.revSpeed.Get(), test.ShouldEqual, 45)

	// The adjusted speed is what the next burst uses.
	m.OnJoystickEvent(axis(joystick.AxisLStickY, 32767))
	waitFor(t, "burst", func() bool { return countRolls(d) == 1 })
	test.That(t, d.Ops(), test.ShouldResemble, []string{"roll 45 180"})

	m.OnJoystickEvent(axis(joystick.AxisLStickY, 0))
}
