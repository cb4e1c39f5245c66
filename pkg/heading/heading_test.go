package heading

import "testing"

func TestNormalize(t *testing.T) {
	for _, c := range []struct{ in, want int }{
		{0, 0},
		{45, 45},
		{359, 359},
		{360, 0},
		{450, 90},
		{720, 0},
		{-1, 359},
		{-45, 315},
		{-90, 270},
		{-360, 0},
		{-450, 270},
		{1234, 154},
	} {
		got := Normalize(c.in)
		if got != c.want {
			t.Errorf("Normalize(%d) = %d; want %d", c.in, got, c.want)
		}
		if got < 0 || got >= 360 {
			t.Errorf("Normalize(%d) = %d; out of range", c.in, got)
		}
	}
}

func TestAddAccumulates(t *testing.T) {
	// Successive relative turns, as driven on a course.
	h := FromInt(0)
	for i, c := range []struct{ delta, want int }{
		{90, 90},
		{90, 180},
		{90, 270},
		{-90, 180},
		{-90, 90},
		{90, 180},
		{90, 270},
		{90, 0},
	} {
		h = h.Add(c.delta)
		if h.Int() != c.want {
			t.Errorf("turn %d: heading = %d; want %d", i, h.Int(), c.want)
		}
	}
}

func TestSub(t *testing.T) {
	if got := FromInt(0).Sub(45).Int(); got != 315 {
		t.Errorf("0 - 45 = %d; want 315", got)
	}
	if got := FromInt(90).Sub(45).Int(); got != 45 {
		t.Errorf("90 - 45 = %d; want 45", got)
	}
}

func TestBack(t *testing.T) {
	for _, c := range []struct{ in, want int }{
		{0, 180},
		{90, 270},
		{180, 0},
		{270, 90},
		{45, 225},
	} {
		if got := FromInt(c.in).Back().Int(); got != c.want {
			t.Errorf("Back of %d = %d; want %d", c.in, got, c.want)
		}
	}
}
