package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/edaniels/golog"

	"github.com/spheroball-team/go-controller/pkg/course"
)

// courseplot renders each configured course to a PNG so a new course
// can be checked on screen before a ball drives it across a classroom.

func main() {
	outDir := "."
	if len(os.Args) > 1 {
		outDir = os.Args[1]
	}

	logger := golog.NewDevelopmentLogger("courseplot")
	courses := course.Load(course.Path(), logger)

	failed := false
	for _, c := range courses {
		out := filepath.Join(outDir, c.Name+".png")
		if err := course.Plot(c, out); err != nil {
			logger.Errorw("failed to plot course", "name", c.Name, "error", err)
			failed = true
			continue
		}
		fmt.Printf("%s: %d segments, %.1f tiles -> %s\n", c.Name, len(c.Segments), c.TotalTiles(), out)
	}
	if failed {
		os.Exit(1)
	}
}
