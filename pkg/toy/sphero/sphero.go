// Package sphero drives the toy through the gobot sphero platform.
//
// The link is a Bluetooth RFCOMM serial device: either an existing
// /dev/rfcommN node given on the command line, or one bound here with
// the rfcomm tool when the toy is named in the toys file.
package sphero

import (
	"context"
	"strings"
	"sync"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	sdk "gobot.io/x/gobot/platforms/sphero"

	"github.com/spheroball-team/go-controller/pkg/clamp"
	"github.com/spheroball-team/go-controller/pkg/heading"
	"github.com/spheroball-team/go-controller/pkg/toy"
)

// Toy is a toy.Interface backed by the vendor SDK.
type Toy struct {
	logger  golog.Logger
	adaptor *sdk.Adaptor
	driver  *sdk.SpheroDriver
	rfcomm  *rfcommSession

	mu      sync.Mutex
	heading int
}

// Connect resolves name and returns a running Toy. A name containing a
// path separator is used directly as the serial device; anything else
// is looked up in the toys file and bound to an RFCOMM node first.
func Connect(ctx context.Context, name string, logger golog.Logger) (*Toy, error) {
	if strings.Contains(name, "/") {
		return New(name, logger)
	}
	addr, err := LookupAddress(name)
	if err != nil {
		return nil, err
	}
	session, err := bindRFCOMM(ctx, rfcommDevice, addr, logger)
	if err != nil {
		return nil, err
	}
	t, err := New(rfcommDevice, logger)
	if err != nil {
		return nil, multierr.Combine(err, session.Close())
	}
	t.rfcomm = session
	return t, nil
}

// New connects to the toy on an RFCOMM serial device and starts the
// vendor driver.
func New(device string, logger golog.Logger) (*Toy, error) {
	adaptor := sdk.NewAdaptor(device)
	if err := adaptor.Connect(); err != nil {
		return nil, errors.Wrapf(err, "connecting to %s", device)
	}
	driver := sdk.NewSpheroDriver(adaptor)
	if err := driver.Start(); err != nil {
		return nil, multierr.Combine(
			errors.Wrap(err, "starting sphero driver"),
			adaptor.Finalize(),
		)
	}
	// The ball remembers state from its last session; start level.
	driver.SetStabilization(true)
	return &Toy{logger: logger, adaptor: adaptor, driver: driver}, nil
}

// setTracked normalises degrees and records it as the current heading.
func (t *Toy) setTracked(degrees int) int {
	d := heading.Normalize(degrees)
	t.mu.Lock()
	t.heading = d
	t.mu.Unlock()
	return d
}

func (t *Toy) SetHeading(degrees int) error {
	d := t.setTracked(degrees)
	t.driver.SetHeading(uint16(d))
	return nil
}

func (t *Toy) SetSpeed(speed int) error {
	t.mu.Lock()
	d := t.heading
	t.mu.Unlock()
	t.driver.Roll(uint8(clamp.To(speed, 0, 255)), uint16(d))
	return nil
}

func (t *Toy) Roll(speed, degrees int) error {
	d := t.setTracked(degrees)
	t.driver.Roll(uint8(clamp.To(speed, 0, 255)), uint16(d))
	return nil
}

func (t *Toy) Stop() error {
	t.driver.Stop()
	return nil
}

func (t *Toy) Heading() (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.heading, nil
}

func (t *Toy) BatteryVoltage() (float64, error) {
	state := t.driver.GetPowerState()
	if state.BattVoltage == 0 {
		return 0, errors.New("no power state from toy")
	}
	// The wire value is in 100ths of a volt.
	return float64(state.BattVoltage) / 100, nil
}

func (t *Toy) SetLED(c toy.Color) error {
	t.driver.SetRGB(c.R, c.G, c.B)
	return nil
}

func (t *Toy) SetMatrixChar(ch rune, c toy.Color) error {
	// This generation of ball has no LED matrix.
	t.logger.Debugf("no LED matrix on this toy, ignoring %q", ch)
	return nil
}

func (t *Toy) Close() error {
	err := multierr.Combine(t.driver.Halt(), t.adaptor.Finalize())
	if t.rfcomm != nil {
		err = multierr.Combine(err, t.rfcomm.Close())
	}
	return err
}

var _ toy.Interface = (*Toy)(nil)
