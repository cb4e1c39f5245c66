package toy

import (
	"fmt"
	"sync"

	"github.com/edaniels/golog"

	"github.com/spheroball-team/go-controller/pkg/clamp"
	"github.com/spheroball-team/go-controller/pkg/heading"
)

// Dummy is an in-memory toy. It logs every call and remembers what it
// was told so tests can assert on the command stream. The controller
// uses it instead of real hardware when SPHEROBALL_DUMMY_TOY=true.
type Dummy struct {
	logger golog.Logger

	mu         sync.Mutex
	ops        []string
	heading    int
	speed      int
	led        Color
	matrixCh   rune
	voltage    float64
	voltageErr error
	closed     bool
}

// NewDummy returns a Dummy reporting a full battery.
func NewDummy(logger golog.Logger) *Dummy {
	return &Dummy{logger: logger, voltage: 4.2}
}

func (d *Dummy) record(format string, args ...any) {
	op := fmt.Sprintf(format, args...)
	d.ops = append(d.ops, op)
	d.logger.Debugf("dummy toy: %s", op)
}

func (d *Dummy) SetHeading(degrees int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.heading = heading.Normalize(degrees)
	d.record("set-heading %d", d.heading)
	return nil
}

func (d *Dummy) SetSpeed(speed int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.speed = clamp.To(speed, 0, 255)
	d.record("set-speed %d", d.speed)
	return nil
}

func (d *Dummy) Roll(speed, degrees int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.speed = clamp.To(speed, 0, 255)
	d.heading = heading.Normalize(degrees)
	d.record("roll %d %d", d.speed, d.heading)
	return nil
}

func (d *Dummy) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.speed = 0
	d.record("stop")
	return nil
}

func (d *Dummy) Heading() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.heading, nil
}

func (d *Dummy) BatteryVoltage() (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.voltageErr != nil {
		return 0, d.voltageErr
	}
	return d.voltage, nil
}

func (d *Dummy) SetLED(c Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.led = c
	d.record("set-led %d,%d,%d", c.R, c.G, c.B)
	return nil
}

func (d *Dummy) SetMatrixChar(ch rune, c Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.matrixCh = ch
	d.record("matrix %c", ch)
	return nil
}

func (d *Dummy) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.record("close")
	return nil
}

// Ops returns the commands received so far, oldest first.
func (d *Dummy) Ops() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.ops...)
}

// Speed returns the last commanded speed.
func (d *Dummy) Speed() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.speed
}

// LED returns the last colour set on the main LED.
func (d *Dummy) LED() Color {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.led
}

// MatrixChar returns the last character shown on the matrix.
func (d *Dummy) MatrixChar() rune {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.matrixCh
}

// Closed reports whether Close was called.
func (d *Dummy) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// SetVoltage changes the voltage reported by BatteryVoltage.
func (d *Dummy) SetVoltage(v float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.voltage = v
}

// SetVoltageError makes BatteryVoltage fail until cleared with nil.
func (d *Dummy) SetVoltageError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.voltageErr = err
}

var _ Interface = (*Dummy)(nil)
