// Package timectl orchestrates simulation time: fixed-step advancement,
// play state, and every backward navigation over the history buffer.
package timectl

import (
	"fmt"

	"github.com/san-kum/bouncelab/internal/history"
	"github.com/san-kum/bouncelab/internal/physics"
)

const DefaultTargetFPS = 144

// StepMode is a UI hint for how step magnitudes entered by the user should
// be interpreted. It has no effect on tick semantics.
type StepMode string

const (
	StepFrames  StepMode = "frames"
	StepSeconds StepMode = "seconds"
)

// HistoryInfo describes the retained history for state payloads.
type HistoryInfo struct {
	Stored    int     `json:"stored"`
	Capacity  int     `json:"capacity"`
	Seconds   float64 `json:"seconds"`
	CanRewind bool    `json:"can_rewind"`
}

// Manager owns the ball and its history and is the single writer of both.
// Every tick runs snapshot, integrate, resolve, advance; every backward
// operation restores a retained snapshot and discards newer history.
type Manager struct {
	targetFPS int
	dt        float64

	simTime   float64
	playing   bool
	stepMode  StepMode
	autoPause bool

	ball *physics.Ball
	hist *history.Buffer

	onTick []func()
}

// New builds a manager around a ball. targetFPS fixes the tick size
// dt = 1/targetFPS; historyFrames bounds the rewind window.
func New(ball *physics.Ball, targetFPS, historyFrames int) (*Manager, error) {
	if ball == nil {
		return nil, fmt.Errorf("ball must not be nil")
	}
	if targetFPS <= 0 {
		return nil, fmt.Errorf("target fps must be positive, got %d", targetFPS)
	}
	hist, err := history.NewBuffer(historyFrames)
	if err != nil {
		return nil, err
	}
	return &Manager{
		targetFPS: targetFPS,
		dt:        1.0 / float64(targetFPS),
		stepMode:  StepSeconds,
		ball:      ball,
		hist:      hist,
	}, nil
}

func (m *Manager) Dt() float64         { return m.dt }
func (m *Manager) TargetFPS() int      { return m.targetFPS }
func (m *Manager) SimTime() float64    { return m.simTime }
func (m *Manager) Playing() bool       { return m.playing }
func (m *Manager) StepMode() StepMode  { return m.stepMode }
func (m *Manager) AutoPause() bool     { return m.autoPause }
func (m *Manager) Ball() *physics.Ball { return m.ball }
func (m *Manager) HistoryLen() int     { return m.hist.Len() }

func (m *Manager) History() *history.Buffer { return m.hist }

func (m *Manager) HistoryInfo() HistoryInfo {
	return HistoryInfo{
		Stored:    m.hist.Len(),
		Capacity:  m.hist.Cap(),
		Seconds:   float64(m.hist.Len()) / float64(m.targetFPS),
		CanRewind: m.hist.Len() > 1,
	}
}

// OnTick registers a callback invoked after every advancing tick.
func (m *Manager) OnTick(fn func()) {
	m.onTick = append(m.onTick, fn)
}

// AdvanceFrame is the tick primitive: save the pre-tick state, integrate
// one dt, resolve ground contact, advance time.
func (m *Manager) AdvanceFrame() {
	m.hist.Push(m.ball.Snapshot(), m.simTime)
	m.ball.Integrate(m.dt)
	m.ball.ResolveGroundCollision()
	m.simTime += m.dt
	for _, fn := range m.onTick {
		fn()
	}
}

func (m *Manager) TogglePlayPause() bool {
	m.playing = !m.playing
	return m.playing
}

func (m *Manager) Play()  { m.playing = true }
func (m *Manager) Pause() { m.playing = false }

// Reset returns the simulation to t=0: ball at its configured start with
// zero velocity, history cleared, playback paused.
func (m *Manager) Reset() {
	m.simTime = 0
	m.playing = false
	m.ball.Reset()
	m.hist.Clear()
}

// StepForwardFrames runs exactly n ticks. Non-positive counts are no-ops.
func (m *Manager) StepForwardFrames(n int) {
	if n <= 0 {
		return
	}
	for i := 0; i < n; i++ {
		m.AdvanceFrame()
	}
	m.finishStep()
}

// StepForwardTime runs floor(seconds/dt) ticks. The sub-dt remainder is
// dropped: the simulation only exists at tick boundaries.
func (m *Manager) StepForwardTime(seconds float64) {
	if seconds <= 0 {
		return
	}
	steps := int(seconds / m.dt)
	for i := 0; i < steps; i++ {
		m.AdvanceFrame()
	}
	m.finishStep()
}

// StepBackwardFrames rewinds exactly n frames: the record n ticks back is
// restored and kept as the tail, so forward-n followed by backward-n lands
// on the identical snapshot and time. Going past t=0 lands on Reset.
func (m *Manager) StepBackwardFrames(n int) {
	if n <= 0 {
		return
	}
	target := m.simTime - float64(n)*m.dt
	if target <= 0 {
		m.Reset()
	} else {
		m.rewindTo(target)
	}
	m.finishStep()
}

// StepBackwardTime rewinds by a duration. Reaching or passing t=0 lands on
// Reset, never on negative time.
func (m *Manager) StepBackwardTime(seconds float64) {
	if seconds <= 0 {
		return
	}
	target := m.simTime - seconds
	if target <= 0 {
		m.Reset()
	} else {
		m.rewindTo(target)
	}
	m.finishStep()
}

// RewindToTime restores the retained state nearest to target and discards
// everything newer. With no history it falls back to Reset.
func (m *Manager) RewindToTime(target float64) {
	m.rewindTo(target)
	m.finishStep()
}

func (m *Manager) rewindTo(target float64) {
	idx := m.hist.Nearest(target)
	if idx < 0 {
		m.Reset()
		return
	}
	m.hist.TruncateAfter(idx)
	m.restoreTail()
}

// JumpToTime moves to an arbitrary timestamp: backward via rewind (zero
// lands on Reset), forward via fixed ticks. Negative targets clamp to 0.
func (m *Manager) JumpToTime(target float64) {
	if target < 0 {
		target = 0
	}
	switch {
	case target == 0 && m.simTime > 0:
		m.Reset()
	case target < m.simTime:
		m.rewindTo(target)
	case target > m.simTime:
		steps := int((target - m.simTime) / m.dt)
		for i := 0; i < steps; i++ {
			m.AdvanceFrame()
		}
	}
	m.finishStep()
}

func (m *Manager) restoreTail() {
	last, ok := m.hist.Last()
	if !ok {
		m.Reset()
		return
	}
	m.ball.Restore(last.Snap)
	m.simTime = last.Time
}

func (m *Manager) finishStep() {
	if m.autoPause {
		m.playing = false
	}
}

func (m *Manager) ToggleStepMode() StepMode {
	if m.stepMode == StepFrames {
		m.stepMode = StepSeconds
	} else {
		m.stepMode = StepFrames
	}
	return m.stepMode
}

func (m *Manager) SetStepMode(mode StepMode) { m.stepMode = mode }

func (m *Manager) SetAutoPause(enabled bool) { m.autoPause = enabled }

// SuggestedStep is the default magnitude for the current step mode: one
// second, expressed in frames or seconds.
func (m *Manager) SuggestedStep() string {
	if m.stepMode == StepFrames {
		return fmt.Sprintf("%d", m.targetFPS)
	}
	return "1.0"
}
