// Package battery watches the toy's battery and shows the level on its
// LED. The toy has no screen, so colour is the only gauge the drivers
// get before the ball dies mid-lesson.
package battery

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"

	"github.com/spheroball-team/go-controller/pkg/toy"
)

// CriticalVolts is the level below which the controller should give up
// and make the driver charge the ball.
const CriticalVolts = 3.5

// DefaultInterval is how often the battery is polled. Reading power
// state stalls the command stream briefly, so keep this long.
const DefaultInterval = 30 * time.Second

// Band maps a battery voltage to the LED colour shown for it.
func Band(volts float64) toy.Color {
	switch {
	case volts > 4.1:
		return toy.Green
	case volts > 3.9:
		return toy.Yellow
	case volts > 3.7:
		return toy.Orange
	default:
		return toy.Red
	}
}

// Monitor polls the battery on a ticker and drives the LED. When the
// level first drops below CriticalVolts it reports once on Critical;
// the main loop decides what to do about it.
type Monitor struct {
	toy      toy.Interface
	clock    clock.Clock
	logger   golog.Logger
	interval time.Duration

	critical chan float64
	reported bool

	cancel context.CancelFunc
	stopWG sync.WaitGroup
}

func New(t toy.Interface, clk clock.Clock, logger golog.Logger) *Monitor {
	return &Monitor{
		toy:      t,
		clock:    clk,
		logger:   logger,
		interval: DefaultInterval,
		critical: make(chan float64, 1),
	}
}

// Critical reports the voltage the first time it falls below
// CriticalVolts. At most one value is ever sent.
func (m *Monitor) Critical() <-chan float64 {
	return m.critical
}

func (m *Monitor) Start(ctx context.Context) {
	m.stopWG.Add(1)
	var loopCtx context.Context
	loopCtx, m.cancel = context.WithCancel(ctx)
	go m.loop(loopCtx)
}

func (m *Monitor) Stop() {
	m.cancel()
	m.stopWG.Wait()
}

func (m *Monitor) loop(ctx context.Context) {
	defer m.stopWG.Done()

	ticker := m.clock.Ticker(m.interval)
	defer ticker.Stop()

	// Check straight away so a flat ball is caught before the first
	// lesson run, not 30 seconds into it.
	m.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.poll(ctx)
		}
	}
}

func (m *Monitor) poll(ctx context.Context) {
	volts, err := m.toy.BatteryVoltage()
	if err != nil {
		m.logger.Errorw("battery read failed", "error", err)
		return
	}
	m.logger.Infow("battery level", "volts", volts)

	if err := m.toy.SetLED(Band(volts)); err != nil {
		m.logger.Errorw("failed to set battery LED", "error", err)
	}

	if volts < CriticalVolts && !m.reported {
		m.reported = true
		select {
		case m.critical <- volts:
		case <-ctx.Done():
		}
	}
}
