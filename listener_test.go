package alengine

import "testing"

func TestNewListenerDefaults(t *testing.T) {
	l := NewListener()
	if l.Gain != 1 {
		t.Errorf("Gain = %f, want 1", l.Gain)
	}
	if l.MetersPerUnit != 1 {
		t.Errorf("MetersPerUnit = %f, want 1", l.MetersPerUnit)
	}
	if l.Orientation.Forward != (Vec3{0, 0, -1}) {
		t.Errorf("default orientation should face -Z, got %+v", l.Orientation.Forward)
	}
	if l.Orientation.Up != (Vec3{0, 1, 0}) {
		t.Errorf("default orientation should have +Y up, got %+v", l.Orientation.Up)
	}
	if l.Position != (Vec3{}) {
		t.Errorf("a new listener should start at the origin, got %+v", l.Position)
	}
}
