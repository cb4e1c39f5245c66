package pausemode

import (
	"context"

	"github.com/edaniels/golog"

	"github.com/spheroball-team/go-controller/pkg/toy"
)

// PauseMode parks the ball so it can be picked up safely.
type PauseMode struct {
	Toy    toy.Interface
	Logger golog.Logger
}

func (t *PauseMode) Name() string {
	return "Pause mode"
}

func (t *PauseMode) Start(ctx context.Context) {
	if err := t.Toy.Stop(); err != nil {
		t.Logger.Errorw("failed to stop", "error", err)
	}
}

func (t *PauseMode) Stop() {
}
