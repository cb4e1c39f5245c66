package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/edaniels/golog"
	"github.com/fatih/color"

	"github.com/spheroball-team/go-controller/pkg/deadreckon"
	"github.com/spheroball-team/go-controller/pkg/toy"
	"github.com/spheroball-team/go-controller/pkg/toy/sphero"
)

// spherocal measures the ball's real ground speed: a few timed straight
// runs along a tape measure, then the average goes into the tuning file
// that course runs are timed with.

const (
	calRuns    = 3
	calRunTime = 2 * time.Second
)

var scanner *bufio.Scanner

func init() {
	scanner = bufio.NewScanner(os.Stdin)
}

func waitForEnter(prompt string) {
	fmt.Println(prompt)
	if !scanner.Scan() {
		panic(scanner.Err())
	}
}

func getDistance() float64 {
	fmt.Println("Enter measured distance (cm):")
	if !scanner.Scan() {
		panic(scanner.Err())
	}
retry:
	cm, err := strconv.ParseFloat(scanner.Text(), 64)
	if err != nil || cm <= 0 {
		fmt.Println("not a positive number, please try again:")
		if !scanner.Scan() {
			panic(scanner.Err())
		}
		goto retry
	}
	return cm
}

func main() {
	fmt.Println("---- Spheroball speed calibration ----")

	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <toy_name>\n", os.Args[0])
		os.Exit(1)
	}
	toyName := os.Args[1]

	logger := golog.NewDevelopmentLogger("spherocal")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ball toy.Interface
	if os.Getenv("SPHEROBALL_DUMMY_TOY") == "true" {
		logger.Infow("using dummy toy")
		ball = toy.NewDummy(logger)
	} else {
		var err error
		ball, err = sphero.Connect(ctx, toyName, logger)
		if err != nil {
			logger.Errorw("failed to connect to toy", "name", toyName, "error", err)
			os.Exit(1)
		}
	}
	defer func() {
		ball.Stop()
		ball.Close()
	}()

	tuning := deadreckon.LoadTuning(deadreckon.TuningPath(), logger)
	fmt.Printf("Current speed constant: %.1f cm/s at speed %d\n", tuning.SpeedCMPerS, tuning.RunSpeed)

	var total float64
	good := 0
	for i := 1; i <= calRuns; i++ {
		waitForEnter(fmt.Sprintf(
			"Run %d/%d: put the ball on the start line, aim it along the tape, press enter.",
			i, calRuns))

		if err := ball.Stop(); err != nil {
			logger.Errorw("failed to stop", "error", err)
		}
		h, _ := ball.Heading()
		if err := ball.Roll(tuning.RunSpeed, h); err != nil {
			logger.Errorw("failed to roll, skipping run", "error", err)
			continue
		}
		time.Sleep(calRunTime)
		if err := ball.Stop(); err != nil {
			logger.Errorw("failed to stop", "error", err)
		}

		cm := getDistance()
		speed := cm / calRunTime.Seconds()
		fmt.Printf("Run %d: %.1f cm in %v -> %.1f cm/s\n", i, cm, calRunTime, speed)
		total += speed
		good++
	}
	if good == 0 {
		logger.Errorw("no successful runs, nothing to save")
		os.Exit(1)
	}

	measured := total / float64(good)
	headline := color.New(color.FgCyan, color.Bold)
	headline.Printf("\nMeasured speed: %.1f cm/s (was %.1f)\n", measured, tuning.SpeedCMPerS)

	fmt.Println("Save to tuning file? (y/n):")
	if !scanner.Scan() {
		panic(scanner.Err())
	}
	if scanner.Text() != "y" {
		fmt.Println("Not saved.")
		return
	}

	tuning.SpeedCMPerS = measured
	path := deadreckon.TuningPath()
	if err := deadreckon.WriteTuning(tuning, path); err != nil {
		logger.Errorw("failed to write tuning", "path", path, "error", err)
		os.Exit(1)
	}
	color.Green("Saved to %s", path)
}
