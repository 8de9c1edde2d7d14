package physics

import "testing"

func TestScreenFrame(t *testing.T) {
	f := ScreenFrame{GroundY: 500}

	if f.Gravity(6000) != 6000 {
		t.Error("screen gravity should pull toward increasing y")
	}
	if !f.OnGround(480, 20) {
		t.Error("ball touching ground not detected")
	}
	if f.OnGround(479, 20) {
		t.Error("airborne ball reported on ground")
	}
	if f.RestingY(20) != 480 {
		t.Errorf("resting y: got %f", f.RestingY(20))
	}
	if f.Height(100, 20) != 380 {
		t.Errorf("height: got %f", f.Height(100, 20))
	}
	if f.Height(600, 20) != 0 {
		t.Error("height below ground should clamp to zero")
	}
}

func TestPhysicsFrame(t *testing.T) {
	f := PhysicsFrame{}

	if f.Gravity(6000) != -6000 {
		t.Error("physics gravity should pull toward decreasing y")
	}
	if !f.OnGround(20, 20) {
		t.Error("ball touching ground not detected")
	}
	if f.OnGround(21, 20) {
		t.Error("airborne ball reported on ground")
	}
	if f.RestingY(20) != 20 {
		t.Errorf("resting y: got %f", f.RestingY(20))
	}
	if f.Height(500, 20) != 480 {
		t.Errorf("height: got %f", f.Height(500, 20))
	}
	if f.Height(10, 20) != 0 {
		t.Error("height below ground should clamp to zero")
	}
}
