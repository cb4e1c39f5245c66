package heading

// Compass is a whole-degree heading stored as a value in range [0, 360),
// increasing clockwise, which is the convention the toy's aim and roll
// commands expect. All operations clamp their output into range.
type Compass struct {
	int
}

// FromInt converts a degree value of any sign or magnitude to a Compass
// by calculating v mod 360 and shifting into range.
func FromInt(v int) Compass {
	return Compass{Normalize(v)}
}

// Normalize maps v onto [0, 360). The result is never negative.
func Normalize(v int) int {
	v %= 360
	if v < 0 {
		v += 360
	}
	return v
}

func (h Compass) Add(delta int) Compass {
	return FromInt(h.int + delta)
}

func (h Compass) Sub(delta int) Compass {
	return FromInt(h.int - delta)
}

// Back returns the heading pointing the opposite way.
func (h Compass) Back() Compass {
	return FromInt(h.int + 180)
}

// Int returns the heading in degrees, range [0, 360).
func (h Compass) Int() int {
	return h.int
}
