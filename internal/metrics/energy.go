package metrics

import (
	"math"

	"github.com/san-kum/bouncelab/internal/physics"
)

// Observer receives the ball state after every advancing tick.
type Observer interface {
	OnStep(snap physics.Snapshot, t float64)
}

// Metric is an observer that reduces a run to one diagnostic value.
type Metric interface {
	Observer
	Name() string
	Value() float64
	Reset()
}

// Energy is the ball's mechanical energy split. Purely diagnostic: nothing
// in the simulation branches on it.
type Energy struct {
	Kinetic   float64 `json:"kinetic"`
	Potential float64 `json:"potential"`
	Total     float64 `json:"total"`
}

// Measure computes the current energy split of a ball.
func Measure(b *physics.Ball) Energy {
	ke, pe, total := b.Energy()
	return Energy{Kinetic: ke, Potential: pe, Total: total}
}

// EnergyDrift tracks the worst relative excursion of total energy from the
// first observed value. Bounce damping removes energy on every impact, so
// here drift measures dissipation rather than integrator error.
type EnergyDrift struct {
	ball     *physics.Ball
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(ball *physics.Ball) *EnergyDrift {
	return &EnergyDrift{ball: ball}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) OnStep(snap physics.Snapshot, t float64) {
	_, _, total := e.ball.Energy()

	if e.samples == 0 {
		e.initial = total
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(total-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

// PeakHeight records the greatest clearance above ground seen in a run.
type PeakHeight struct {
	ball *physics.Ball
	peak float64
}

func NewPeakHeight(ball *physics.Ball) *PeakHeight {
	return &PeakHeight{ball: ball}
}

func (p *PeakHeight) Name() string { return "peak_height" }

func (p *PeakHeight) OnStep(snap physics.Snapshot, t float64) {
	p.peak = math.Max(p.peak, p.ball.Height())
}

func (p *PeakHeight) Value() float64 { return p.peak }

func (p *PeakHeight) Reset() { p.peak = 0 }
