package toy

// Color is an RGB triple for the toy's LEDs.
type Color struct {
	R, G, B uint8
}

var (
	Red    = Color{255, 0, 0}
	Green  = Color{0, 255, 0}
	Blue   = Color{0, 0, 255}
	Yellow = Color{255, 255, 0}
	Orange = Color{255, 100, 0}
	Purple = Color{128, 0, 128}
	White  = Color{255, 255, 255}
	Off    = Color{}
)

// Interface is the capability set the rest of the controller needs from
// the toy. It hides the vendor SDK so the motion and battery logic can
// be driven against a fake. Implementations serialize commands
// internally; a single value is shared by the drive modes and the
// battery monitor.
type Interface interface {
	// Aim and motion. Headings are degrees clockwise in [0, 360);
	// implementations normalise out-of-range values. Speeds are 0-255
	// and are clamped. Roll aims at the given heading and starts
	// driving; SetSpeed keeps the current aim. None of these block.
	SetHeading(degrees int) error
	SetSpeed(speed int) error
	Roll(speed, degrees int) error
	Stop() error

	// Heading reports the last commanded heading. The vendor SDK
	// tracks this client side; so do we.
	Heading() (int, error)

	// BatteryVoltage reads the battery voltage in volts.
	BatteryVoltage() (float64, error)

	// LEDs. SetMatrixChar is a no-op on toys without a matrix.
	SetLED(c Color) error
	SetMatrixChar(ch rune, c Color) error

	Close() error
}
