package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spheroball-team/go-controller/pkg/joystick"
)

func main() {
	// Our global context, we cancel it to trigger shutdown.
	ctx, cancel := context.WithCancel(context.Background())

	// Hook Ctrl-C etc.
	registerSignalHandlers(cancel)

	index := 0
	if len(os.Args) > 1 {
		i, err := strconv.Atoi(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "usage: %s [joystick_index]\n", os.Args[0])
			os.Exit(1)
		}
		index = i
	}

	// Wait for the joystick and kick off a background thread to read from it.
	joystickEvents := initJoystick(cancel, ctx, index)
	for je := range joystickEvents {
		describe(je)
	}
}

// describe prints the event, annotating the throttle stick with the
// values the drive mode would compute from it.
func describe(event *joystick.Event) {
	if event.Type == joystick.EventTypeAxis && event.Number == joystick.AxisLStickY {
		v := joystick.Normalized(event.Value)
		fmt.Printf("%v -> throttle %.3f (deadzoned %.3f)\n", event, v, joystick.Deadzone(v, 0.15))
		return
	}
	fmt.Println(event)
}

func initJoystick(cancel context.CancelFunc, ctx context.Context, index int) chan *joystick.Event {
	joystickEvents := make(chan *joystick.Event)
	firstLog := true
	for {
		jDev := os.Getenv("JOYSTICK_DEVICE")
		if jDev == "" {
			jDev = joystick.DevicePath(index)
		}
		j, err := joystick.NewJoystick(jDev)
		if err != nil {
			if firstLog {
				fmt.Printf("Waiting for joystick: %v.\n", err)
				firstLog = false
			}
			time.Sleep(1 * time.Second)
			continue
		}

		fmt.Printf("Opened joystick %s\n", jDev)
		go func() {
			defer cancel()
			err := loopReadingJoystickEvents(ctx, j, joystickEvents)
			fmt.Printf("Joystick failed: %v\n", err)
		}()
		break
	}
	return joystickEvents
}

func registerSignalHandlers(cancelFunc context.CancelFunc) {
	// Hook Ctrl-C to cause shut down.
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		s := <-signals
		log.Println("Signal: ", s)
		cancelFunc()
		time.Sleep(2 * time.Second)
		os.Exit(0)
	}()
}

func loopReadingJoystickEvents(ctx context.Context, j *joystick.Joystick, events chan *joystick.Event) error {
	defer close(events)
	defer j.Close()
	for ctx.Err() == nil {
		event, err := j.ReadEvent()
		if err != nil {
			fmt.Printf("Failed to read from joystick: %v.\n", err)
			return err
		}
		events <- event
	}
	return ctx.Err()
}
