package clamp

import "testing"

func TestTo(t *testing.T) {
	if got := To(300, 0, 255); got != 255 {
		t.Errorf("To(300, 0, 255) = %d; want 255", got)
	}
	if got := To(-5, 0, 255); got != 0 {
		t.Errorf("To(-5, 0, 255) = %d; want 0", got)
	}
	if got := To(60, 0, 255); got != 60 {
		t.Errorf("To(60, 0, 255) = %d; want 60", got)
	}
	if got := To(1.5, -1.0, 1.0); got != 1.0 {
		t.Errorf("To(1.5, -1, 1) = %v; want 1", got)
	}
}
