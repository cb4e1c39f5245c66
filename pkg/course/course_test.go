package course

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"
)

func TestValidate(t *testing.T) {
	good := Course{Name: "ok", Segments: []Segment{{Tiles: 1}}}
	test.That(t, good.Validate(), test.ShouldBeNil)

	test.That(t, Course{}.Validate(), test.ShouldNotBeNil)
	test.That(t, Course{Name: "empty"}.Validate(), test.ShouldNotBeNil)

	neg := Course{Name: "neg", Segments: []Segment{{Tiles: -1}}}
	test.That(t, neg.Validate(), test.ShouldNotBeNil)

	nan := Course{Name: "nan", Segments: []Segment{{Tiles: math.NaN()}}}
	test.That(t, nan.Validate(), test.ShouldNotBeNil)

	inf := Course{Name: "inf", Segments: []Segment{{Tiles: math.Inf(1)}}}
	test.That(t, inf.Validate(), test.ShouldNotBeNil)

	spin := Course{Name: "spin", Segments: []Segment{{Turn: 270, Tiles: 1}}}
	test.That(t, spin.Validate(), test.ShouldNotBeNil)
}

func TestBuiltin(t *testing.T) {
	courses := Builtin()
	test.That(t, len(courses), test.ShouldBeGreaterThan, 0)

	var classroom *Course
	for i := range courses {
		test.That(t, courses[i].Validate(), test.ShouldBeNil)
		if courses[i].Name == "classroom" {
			classroom = &courses[i]
		}
	}

	test.That(t, classroom, test.ShouldNotBeNil)
	test.That(t, classroom.Segments, test.ShouldHaveLength, 9)
	// The run starts straight ahead, along whatever the operator aimed.
	test.That(t, classroom.Segments[0].Turn, test.ShouldEqual, 0)
	test.That(t, classroom.TotalTiles(), test.ShouldAlmostEqual, 28.5)
}

func TestLoadOverlay(t *testing.T) {
	logger := golog.NewTestLogger(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "courses.yaml")
	file := `courses:
  - name: classroom
    segments:
      - tiles: 2
  - name: gym
    segments:
      - tiles: 1
      - turn: 90
        tiles: 1
  - name: broken
    segments:
      - tiles: -4
`
	test.That(t, os.WriteFile(path, []byte(file), 0o644), test.ShouldBeNil)

	courses := Load(path, logger)
	byName := map[string]Course{}
	for _, c := range courses {
		byName[c.Name] = c
	}

	// Same name replaces the built-in, new names append, invalid skipped.
	test.That(t, byName["classroom"].Segments, test.ShouldHaveLength, 1)
	test.That(t, byName["gym"].Segments, test.ShouldHaveLength, 2)
	_, ok := byName["broken"]
	test.That(t, ok, test.ShouldBeFalse)

	// The merged set is written back for inspection.
	_, err := os.Stat(filepath.Join(dir, "courses-in-use.yaml"))
	test.That(t, err, test.ShouldBeNil)
}

func TestLoadMissingFileUsesBuiltins(t *testing.T) {
	logger := golog.NewTestLogger(t)
	courses := Load(filepath.Join(t.TempDir(), "none.yaml"), logger)
	test.That(t, courses, test.ShouldResemble, Builtin())
}

func TestPlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classroom.png")
	test.That(t, Plot(Builtin()[0], path), test.ShouldBeNil)

	info, err := os.Stat(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, info.Size(), test.ShouldBeGreaterThan, 0)
}

func TestPlotRejectsInvalid(t *testing.T) {
	err := Plot(Course{}, filepath.Join(t.TempDir(), "bad.png"))
	test.That(t, err, test.ShouldNotBeNil)
}
