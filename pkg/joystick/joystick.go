package joystick

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"
)

// Reader for the Linux joystick interface (/dev/input/jsN).
//
// Button and axis numbering below follows the PS4 controller, which is
// what we drive with; other pads mostly agree on the axes but renumber
// the buttons.  Sticks and the D-pad arrive as axes in range
// [-32767, 32767] with up and left negative; buttons arrive as 0/1.

type EventType uint8

const (
	EventTypeButton = 1
	EventTypeAxis   = 2
)

const (
	ButtonCross    = 0
	ButtonCircle   = 1
	ButtonTriangle = 2
	ButtonSquare   = 3
	ButtonL1       = 4
	ButtonR1       = 5
	ButtonL2       = 6
	ButtonR2       = 7
	ButtonShare    = 8
	ButtonOptions  = 9
	ButtonPS       = 10
	ButtonLStick   = 11
	ButtonRStick   = 12

	AxisLStickX = 0
	AxisLStickY = 1
	AxisRStickX = 3
	AxisRStickY = 4
	AxisDPadX   = 6
	AxisDPadY   = 7
)

// AxisMax is the magnitude of a fully deflected axis.
const AxisMax = 32767

func (e EventType) String() string {
	switch e {
	case EventTypeAxis:
		return "axis"
	case EventTypeButton:
		return "button"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(e))
	}
}

type Joystick struct {
	device io.ReadCloser

	deviceEpoch    uint32
	wallclockEpoch time.Time
}

type rawEvent struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

type Event struct {
	Time   time.Time
	Value  int16
	Type   EventType
	Number uint8
}

func (e *Event) String() string {
	return fmt.Sprintf("%v(%v)=%v", e.Type, e.Number, e.Value)
}

// DevicePath returns the device node for the numbered joystick.
func DevicePath(index int) string {
	return fmt.Sprintf("/dev/input/js%d", index)
}

func NewJoystick(device string) (*Joystick, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, err
	}
	return &Joystick{
		device: f,
	}, nil
}

func (j *Joystick) ReadEvent() (*Event, error) {
	var rawEvent rawEvent
	err := binary.Read(j.device, binary.LittleEndian, &rawEvent)
	if err != nil {
		return nil, err
	}

	// The kernel timestamps events with its own millisecond counter;
	// map those onto the wallclock using the first event as the epoch.
	if j.deviceEpoch == 0 {
		j.deviceEpoch = rawEvent.Time
		j.wallclockEpoch = time.Now()
	}

	return &Event{
		Time:   j.wallclockEpoch.Add(time.Duration(rawEvent.Time-j.deviceEpoch) * time.Millisecond),
		Value:  rawEvent.Value,
		Type:   EventType(rawEvent.Type & 0x7f),
		Number: rawEvent.Number,
	}, nil
}

func (j *Joystick) Close() error {
	return j.device.Close()
}
