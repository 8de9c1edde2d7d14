package physics

import "math"

const (
	DefaultRadius            = 20.0
	DefaultMass              = 1.0
	DefaultGravity           = 6000.0
	DefaultBounceDamping     = 0.8
	DefaultMinBounceVelocity = 50.0
)

// Snapshot is an immutable copy of a ball's dynamic state at one instant.
// It is stored by value in history, so mutating the live ball never
// touches retained snapshots.
type Snapshot struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	VelocityY     float64 `json:"velocity_y"`
	AccelerationY float64 `json:"acceleration_y"`
}

// Ball is a single body falling under gravity with ground bounce. Vertical
// motion only; X is carried for placement but never changes after
// construction or reset.
type Ball struct {
	X             float64
	Y             float64
	VelocityY     float64
	AccelerationY float64

	Radius            float64
	Mass              float64
	Gravity           float64 // magnitude, sign applied by the frame
	BounceDamping     float64
	MinBounceVelocity float64

	frame  Frame
	startX float64
	startY float64
}

// NewBall creates a ball at (x, y) in the given frame with the default
// physical constants.
func NewBall(x, y float64, frame Frame) *Ball {
	return &Ball{
		X:                 x,
		Y:                 y,
		Radius:            DefaultRadius,
		Mass:              DefaultMass,
		Gravity:           DefaultGravity,
		BounceDamping:     DefaultBounceDamping,
		MinBounceVelocity: DefaultMinBounceVelocity,
		frame:             frame,
		startX:            x,
		startY:            y,
	}
}

func (b *Ball) Frame() Frame { return b.frame }

// AtRest reports zero velocity while touching the ground. A resting ball
// accumulates no gravity until disturbed.
func (b *Ball) AtRest() bool {
	return b.VelocityY == 0 && b.frame.OnGround(b.Y, b.Radius)
}

// Integrate advances the ball one fixed step with semi-implicit Euler.
// Velocity updates before position; the reverse ordering drifts energy and
// breaks resting behavior.
func (b *Ball) Integrate(dt float64) {
	if b.AtRest() {
		b.AccelerationY = 0
	} else {
		b.AccelerationY = b.frame.Gravity(b.Gravity)
	}
	b.VelocityY += b.AccelerationY * dt
	b.Y += b.VelocityY * dt
}

// ResolveGroundCollision clamps a penetrating ball onto the ground and
// reflects its velocity with damping. Rebounds below MinBounceVelocity snap
// to zero, ending the bounce decay in finitely many ticks; that floor is a
// policy, not physics.
func (b *Ball) ResolveGroundCollision() {
	if !b.frame.OnGround(b.Y, b.Radius) {
		return
	}
	b.Y = b.frame.RestingY(b.Radius)
	b.VelocityY = -b.VelocityY * b.BounceDamping
	if math.Abs(b.VelocityY) < b.MinBounceVelocity {
		b.VelocityY = 0
	}
}

// Snapshot copies the dynamic state out of the ball.
func (b *Ball) Snapshot() Snapshot {
	return Snapshot{
		X:             b.X,
		Y:             b.Y,
		VelocityY:     b.VelocityY,
		AccelerationY: b.AccelerationY,
	}
}

// Restore copies a snapshot back into the ball.
func (b *Ball) Restore(s Snapshot) {
	b.X = s.X
	b.Y = s.Y
	b.VelocityY = s.VelocityY
	b.AccelerationY = s.AccelerationY
}

// Reset returns the ball to its configured start position with zero
// velocity and acceleration.
func (b *Ball) Reset() {
	b.X = b.startX
	b.Y = b.startY
	b.VelocityY = 0
	b.AccelerationY = 0
}

// SetStart moves the configured start position and resets to it.
func (b *Ball) SetStart(x, y float64) {
	b.startX = x
	b.startY = y
	b.Reset()
}

// Height is the ball's clearance above the ground in its own frame.
func (b *Ball) Height() float64 {
	return b.frame.Height(b.Y, b.Radius)
}

// Energy returns kinetic, potential and total mechanical energy. Total is
// never negative.
func (b *Ball) Energy() (ke, pe, total float64) {
	ke = 0.5 * b.Mass * b.VelocityY * b.VelocityY
	pe = b.Mass * b.Gravity * b.Height()
	return ke, pe, ke + pe
}
