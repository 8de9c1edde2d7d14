package physics

// Frame fixes the vertical axis convention for a ball. The two variants
// agree on dynamics and disagree only on the gravity sign and the ground
// test, so a ball dropped from the same height reaches the same impact
// speed in either frame.
type Frame interface {
	// Name identifies the frame in configs and state payloads.
	Name() string
	// Gravity applies the frame's sign to a gravity magnitude.
	Gravity(magnitude float64) float64
	// OnGround reports whether a ball with the given center and radius
	// touches or penetrates the ground.
	OnGround(y, radius float64) bool
	// RestingY is the center position of a ball resting exactly on the
	// ground.
	RestingY(radius float64) float64
	// Height is the gap between the ball's lowest point and the ground,
	// clamped at zero.
	Height(y, radius float64) float64
}

// ScreenFrame uses display coordinates: y grows downward and the ground
// sits at a caller-chosen GroundY.
type ScreenFrame struct {
	GroundY float64
}

func (f ScreenFrame) Name() string { return "screen" }

func (f ScreenFrame) Gravity(magnitude float64) float64 { return magnitude }

func (f ScreenFrame) OnGround(y, radius float64) bool { return y+radius >= f.GroundY }

func (f ScreenFrame) RestingY(radius float64) float64 { return f.GroundY - radius }

func (f ScreenFrame) Height(y, radius float64) float64 {
	h := f.GroundY - (y + radius)
	if h < 0 {
		return 0
	}
	return h
}

// PhysicsFrame uses textbook coordinates: y grows upward and the ground is
// fixed at y=0.
type PhysicsFrame struct{}

func (f PhysicsFrame) Name() string { return "physics" }

func (f PhysicsFrame) Gravity(magnitude float64) float64 { return -magnitude }

func (f PhysicsFrame) OnGround(y, radius float64) bool { return y <= radius }

func (f PhysicsFrame) RestingY(radius float64) float64 { return radius }

func (f PhysicsFrame) Height(y, radius float64) float64 {
	h := y - radius
	if h < 0 {
		return 0
	}
	return h
}
