// Package sound plays wav cues through the speaker. Send a file path
// on the channel returned by InitSound; a new cue cuts off the one
// before it.
package sound

import (
	"os"
	"time"

	"github.com/edaniels/golog"
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// Cues used by the controller.
const (
	Ready      = "/sounds/ready.wav"
	Go         = "/sounds/go.wav"
	CourseDone = "/sounds/course-done.wav"
	LowBattery = "/sounds/low-battery.wav"
)

func InitSound(logger golog.Logger) chan string {
	soundsToPlay := make(chan string)
	go func() {
		defer func() {
			recover()
			for s := range soundsToPlay {
				logger.Debugf("unable to play %s", s)
			}
		}()
		sampleRate := beep.SampleRate(44100)
		err := speaker.Init(sampleRate, sampleRate.N(time.Second/5))
		if err != nil {
			logger.Errorw("failed to open speaker", "error", err)
			for s := range soundsToPlay {
				logger.Debugf("unable to play %s", s)
			}
		}
		var ctrl *beep.Ctrl
		var s beep.StreamSeekCloser
		for soundToPlay := range soundsToPlay {
			if ctrl != nil {
				speaker.Lock()
				ctrl.Paused = true
				ctrl.Streamer = nil
				speaker.Unlock()
				ctrl = nil
			}
			if s != nil {
				s.Close()
			}

			f, err := os.Open(soundToPlay)
			if err != nil {
				logger.Errorw("failed to open sound", "file", soundToPlay, "error", err)
				continue
			}
			s, _, err = wav.Decode(f)
			if err != nil {
				logger.Errorw("failed to decode sound", "file", soundToPlay, "error", err)
				continue
			}
			ctrl = &beep.Ctrl{Streamer: s}
			speaker.Play(ctrl)
		}
	}()
	return soundsToPlay
}
