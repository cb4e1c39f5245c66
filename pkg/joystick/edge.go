package joystick

// EdgeDetector turns a stream of button states into one-shot triggers.
// The zero value is ready to use.
type EdgeDetector struct {
	down bool
}

// Rising reports true exactly once per press: on the transition from
// released to pressed, and not again until the button is released.
func (d *EdgeDetector) Rising(pressed bool) bool {
	fired := pressed && !d.down
	d.down = pressed
	return fired
}
