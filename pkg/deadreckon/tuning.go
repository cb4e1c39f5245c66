// Package deadreckon drives courses open loop: timed rolls on a
// settled heading, no position feedback.
package deadreckon

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Tuning holds the dead-reckoning constants. The defaults were measured
// on 50cm classroom tiles; Safety biases every run slightly short so an
// overshoot never compounds across segments.
type Tuning struct {
	// TileCM is the side of one floor tile in centimetres.
	TileCM float64 `yaml:"tile_cm"`
	// RunSpeed is the roll speed (0-255) used for course segments.
	RunSpeed int `yaml:"run_speed"`
	// SpeedCMPerS is the measured ground speed at RunSpeed. Measure it
	// with the spherocal tool; it varies a lot with the floor.
	SpeedCMPerS float64 `yaml:"speed_cm_per_s"`
	// Safety scales every run duration, slightly below 1.
	Safety float64 `yaml:"safety"`
	// HeadingSettleMS is how long the ball needs to finish a turn.
	HeadingSettleMS int `yaml:"heading_settle_ms"`
	// StabilizeDelayMS is the pause after each stop before moving on.
	StabilizeDelayMS int `yaml:"stabilize_delay_ms"`
}

// DefaultTuning returns the constants we drive with out of the box.
func DefaultTuning() Tuning {
	return Tuning{
		TileCM:           50,
		RunSpeed:         60,
		SpeedCMPerS:      30,
		Safety:           0.95,
		HeadingSettleMS:  300,
		StabilizeDelayMS: 150,
	}
}

func (t Tuning) HeadingSettle() time.Duration {
	return time.Duration(t.HeadingSettleMS) * time.Millisecond
}

func (t Tuning) StabilizeDelay() time.Duration {
	return time.Duration(t.StabilizeDelayMS) * time.Millisecond
}

// Validate rejects tunings that cannot drive.
func (t Tuning) Validate() error {
	if t.TileCM <= 0 || math.IsNaN(t.TileCM) || math.IsInf(t.TileCM, 0) {
		return errors.Errorf("bad tile size %v", t.TileCM)
	}
	if t.RunSpeed <= 0 || t.RunSpeed > 255 {
		return errors.Errorf("run speed %d out of range", t.RunSpeed)
	}
	if t.SpeedCMPerS <= 0 || math.IsNaN(t.SpeedCMPerS) || math.IsInf(t.SpeedCMPerS, 0) {
		return errors.Errorf("bad speed constant %v", t.SpeedCMPerS)
	}
	if t.Safety <= 0 || t.Safety > 1 {
		return errors.Errorf("safety factor %v out of range", t.Safety)
	}
	if t.HeadingSettleMS < 0 || t.StabilizeDelayMS < 0 {
		return errors.New("negative settle delay")
	}
	return nil
}

// minCMPerS guards the division when the speed constant is mistuned.
const minCMPerS = 1e-6

// DurationForTiles converts a distance in tiles to how long the toy
// must roll at RunSpeed to cover it.
func (t Tuning) DurationForTiles(tiles float64) time.Duration {
	cm := tiles * t.TileCM
	seconds := cm / math.Max(t.SpeedCMPerS, minCMPerS) * t.Safety
	return time.Duration(seconds * float64(time.Second))
}

const defaultTuningPath = "/cfg/tuning.yaml"

// TuningPath returns the tuning file location, honouring the
// SPHEROBALL_TUNING override.
func TuningPath() string {
	if p := os.Getenv("SPHEROBALL_TUNING"); p != "" {
		return p
	}
	return defaultTuningPath
}

// LoadTuning overlays DefaultTuning with the YAML file at path and
// writes the values in use back alongside it. Anything unusable falls
// back to the defaults with a log rather than stopping the controller.
func LoadTuning(path string, logger golog.Logger) Tuning {
	t := DefaultTuning()

	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Debugw("no tuning file, using defaults", "path", path, "error", err)
	} else if err := yaml.Unmarshal(raw, &t); err != nil {
		logger.Errorw("bad tuning file, using defaults", "path", path, "error", err)
		t = DefaultTuning()
	} else if err := t.Validate(); err != nil {
		logger.Errorw("tuning rejected, using defaults", "path", path, "error", err)
		t = DefaultTuning()
	}

	logger.Infow("tuning in use",
		"tile_cm", t.TileCM,
		"run_speed", t.RunSpeed,
		"speed_cm_per_s", t.SpeedCMPerS,
		"safety", t.Safety,
	)

	out, err := yaml.Marshal(t)
	if err == nil {
		err = os.WriteFile(inUsePath(path), out, 0666)
	}
	if err != nil {
		logger.Debugw("failed to write in-use tuning file", "error", err)
	}
	return t
}

// WriteTuning saves t to path, for the calibration tool.
func WriteTuning(t Tuning, path string) error {
	if err := t.Validate(); err != nil {
		return err
	}
	out, err := yaml.Marshal(t)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0666)
}

func inUsePath(path string) string {
	if ext := filepath.Ext(path); ext != "" {
		return strings.TrimSuffix(path, ext) + "-in-use" + ext
	}
	return path + "-in-use"
}
