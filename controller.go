package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"

	"github.com/spheroball-team/go-controller/pkg/battery"
	"github.com/spheroball-team/go-controller/pkg/course"
	"github.com/spheroball-team/go-controller/pkg/coursemode"
	"github.com/spheroball-team/go-controller/pkg/deadreckon"
	"github.com/spheroball-team/go-controller/pkg/drivemode"
	"github.com/spheroball-team/go-controller/pkg/joystick"
	"github.com/spheroball-team/go-controller/pkg/pausemode"
	"github.com/spheroball-team/go-controller/pkg/sound"
	"github.com/spheroball-team/go-controller/pkg/toy"
	"github.com/spheroball-team/go-controller/pkg/toy/sphero"
)

type Mode interface {
	Name() string
	Start(ctx context.Context)
	Stop()
}

type JoystickUser interface {
	OnJoystickEvent(event *joystick.Event)
}

// playerColors picks the ball's LED colour by player number.
var playerColors = []toy.Color{toy.Red, toy.Green, toy.Blue, toy.Yellow, toy.Purple}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s <toy_name> <joystick_index> <player_id>\n", os.Args[0])
	os.Exit(1)
}

func main() {
	os.Exit(realMain())
}

func realMain() int {
	if len(os.Args) < 4 {
		usage()
	}
	toyName := os.Args[1]
	joystickIdx, err := strconv.Atoi(os.Args[2])
	if err != nil || joystickIdx < 0 {
		usage()
	}
	playerID, err := strconv.Atoi(os.Args[3])
	if err != nil || playerID < 1 || playerID > len(playerColors) {
		usage()
	}

	logger := golog.NewDevelopmentLogger("spheroball")
	logger.Infof("---- Spheroball controller ----")
	logger.Debugf("GOMAXPROCS %d", runtime.GOMAXPROCS(0))

	// Our global context, we cancel it to trigger shutdown.
	ctx, cancel := context.WithCancel(context.Background())

	signals := make(chan os.Signal, 2)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		s := <-signals
		logger.Infow("signal received", "signal", s)
		cancel()
		time.Sleep(2 * time.Second)
		os.Exit(0)
	}()

	joystickEvents := make(chan *joystick.Event)
	for {
		jDev := os.Getenv("JOYSTICK_DEVICE")
		if jDev == "" {
			jDev = joystick.DevicePath(joystickIdx)
		}
		j, err := joystick.NewJoystick(jDev)
		if err != nil {
			logger.Errorw("failed to open joystick, retrying", "device", jDev, "error", err)
			time.Sleep(time.Second)
			continue
		}

		logger.Infow("opened joystick", "device", jDev)
		go func() {
			defer cancel()
			err := loopReadingJoystickEvents(ctx, j, joystickEvents, logger)
			logger.Errorw("joystick reader exited", "error", err)
		}()
		break
	}

	var ball toy.Interface
	if os.Getenv("SPHEROBALL_DUMMY_TOY") == "true" {
		logger.Infow("using dummy toy")
		ball = toy.NewDummy(logger)
	} else {
		ball, err = sphero.Connect(ctx, toyName, logger)
		if err != nil {
			logger.Errorw("failed to connect to toy", "name", toyName, "error", err)
			cancel()
			return 1
		}
	}

	// First command doubles as a link check.
	if err := ball.Stop(); err != nil {
		logger.Errorw("toy not responding", "error", err)
		if err := ball.Close(); err != nil {
			logger.Errorw("failed to close the toy", "error", err)
		}
		cancel()
		return 1
	}
	defer func() {
		logger.Infow("parking the ball")
		if err := ball.Stop(); err != nil {
			logger.Errorw("failed to stop the ball", "error", err)
		}
		if err := ball.Close(); err != nil {
			logger.Errorw("failed to close the toy", "error", err)
		}
	}()

	color := playerColors[playerID-1]
	if err := ball.SetLED(color); err != nil {
		logger.Errorw("failed to set player colour", "error", err)
	}
	if err := ball.SetMatrixChar(rune('0'+playerID), color); err != nil {
		logger.Errorw("failed to set player number", "error", err)
	}
	logger.Infow("player ready", "player", playerID, "toy", toyName)

	soundsToPlay := sound.InitSound(logger)
	soundsToPlay <- sound.Ready

	clk := clock.New()
	tuning := deadreckon.LoadTuning(deadreckon.TuningPath(), logger)
	courses := course.Load(course.Path(), logger)

	monitor := battery.New(ball, clk, logger)
	monitor.Start(ctx)
	defer monitor.Stop()

	allModes := []Mode{
		drivemode.New(ball, clk, logger),
		coursemode.New(ball, courses, tuning, clk, soundsToPlay, logger),
		&pausemode.PauseMode{Toy: ball, Logger: logger},
	}
	var activeMode Mode = allModes[0]
	logger.Infof("----- %s -----", activeMode.Name())
	activeMode.Start(ctx)
	activeModeIdx := 0

	for {
		select {
		case <-ctx.Done():
			logger.Infow("shutting down")
			activeMode.Stop()
			cancel()
			time.Sleep(time.Second)
			return 0
		case volts := <-monitor.Critical():
			logger.Errorw("battery critically low, go charge the ball", "volts", volts)
			soundsToPlay <- sound.LowBattery
			activeMode.Stop()
			cancel()
			time.Sleep(time.Second)
			return 1
		case event, ok := <-joystickEvents:
			if !ok {
				logger.Errorw("joystick events channel closed")
				activeMode.Stop()
				cancel()
				time.Sleep(time.Second)
				return 0
			}
			// Intercept the Options button to implement mode switching.
			if event.Type == joystick.EventTypeButton &&
				event.Number == joystick.ButtonOptions &&
				event.Value == 1 {
				logger.Infow("options pressed, switching modes")
				activeMode.Stop()
				if err := ball.Stop(); err != nil {
					logger.Errorw("failed to stop the ball between modes", "error", err)
				}
				activeModeIdx++
				activeModeIdx = activeModeIdx % len(allModes)
				activeMode = allModes[activeModeIdx]
				logger.Infof("----- %s -----", activeMode.Name())
				activeMode.Start(ctx)
				continue
			}
			// Pass other joystick events through if this mode requires them.
			if ju, ok := activeMode.(JoystickUser); ok {
				ju.OnJoystickEvent(event)
			}
		}
	}
}

func loopReadingJoystickEvents(ctx context.Context, j *joystick.Joystick, events chan *joystick.Event, logger golog.Logger) error {
	defer close(events)
	defer j.Close()
	for ctx.Err() == nil {
		event, err := j.ReadEvent()
		if err != nil {
			logger.Errorw("failed to read from joystick", "error", err)
			return err
		}
		logger.Debugf("event from joystick: %s", event)
		events <- event
	}
	return ctx.Err()
}
