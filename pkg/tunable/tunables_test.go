package tunable

import (
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"
)

func TestBumpAndSelection(t *testing.T) {
	tt := New(golog.NewTestLogger(t))
	speed := tt.Create("speed", 50, 5)
	burst := tt.Create("burst ms", 800, 100)

	test.That(t, tt.Current(), test.ShouldEqual, speed)

	tt.Bump(1)
	tt.Bump(1)
	tt.Bump(-1)
	test.That(t, speed.Get(), test.ShouldEqual, 55)

	tt.SelectNext()
	test.That(t, tt.Current(), test.ShouldEqual, burst)
	tt.Bump(-1)
	test.That(t, burst.Get(), test.ShouldEqual, 700)

	// Selection wraps both ways.
	tt.SelectNext()
	test.That(t, tt.Current(), test.ShouldEqual, speed)
	tt.SelectPrev()
	test.That(t, tt.Current(), test.ShouldEqual, burst)
}
