package tunable

import (
	"sync/atomic"

	"github.com/edaniels/golog"
)

type Tunable struct {
	Name string
	// Step is how much one D-pad press changes the value.
	Step   int
	value  int64
	logger golog.Logger
}

func (t *Tunable) Add(delta int) {
	newV := atomic.AddInt64(&t.value, int64(delta))
	t.logger.Infow("tunable changed", "name", t.Name, "value", newV)
}

func (t *Tunable) Get() int {
	return int(atomic.LoadInt64(&t.value))
}

type Tunables struct {
	All      []*Tunable
	selected int
	logger   golog.Logger
}

func New(logger golog.Logger) *Tunables {
	return &Tunables{logger: logger}
}

func (t *Tunables) Create(name string, value, step int) *Tunable {
	newTunable := &Tunable{
		Name:   name,
		Step:   step,
		value:  int64(value),
		logger: t.logger,
	}
	t.All = append(t.All, newTunable)
	return newTunable
}

func (t *Tunables) SelectNext() {
	t.selected++
	if t.selected >= len(t.All) {
		t.selected = 0
	}
	t.logger.Infow("tunable selected", "name", t.Current().Name, "value", t.Current().Get())
}

func (t *Tunables) SelectPrev() {
	t.selected--
	if t.selected < 0 {
		t.selected = len(t.All) - 1
	}
	t.logger.Infow("tunable selected", "name", t.Current().Name, "value", t.Current().Get())
}

func (t *Tunables) Current() *Tunable {
	return t.All[t.selected]
}

// Bump nudges the selected tunable by direction steps.
func (t *Tunables) Bump(direction int) {
	cur := t.Current()
	cur.Add(direction * cur.Step)
}
