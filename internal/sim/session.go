// Package sim bundles a ball and its time manager into one session: the
// unit of simulation a shell (TUI, CLI run, websocket client) owns and
// drives. Shells read immutable state payloads; only the session mutates
// the ball and history.
package sim

import (
	"github.com/san-kum/bouncelab/internal/config"
	"github.com/san-kum/bouncelab/internal/metrics"
	"github.com/san-kum/bouncelab/internal/physics"
	"github.com/san-kum/bouncelab/internal/timectl"
)

// BallState is the renderable slice of the ball.
type BallState struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Radius        float64 `json:"radius"`
	VelocityY     float64 `json:"velocity_y"`
	AccelerationY float64 `json:"acceleration_y"`
	AtRest        bool    `json:"at_rest"`
}

// Viewport tells a renderer how much world to show. The upper bound
// follows the ball so a high toss never leaves the visible area.
type Viewport struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinY float64 `json:"min_y"`
	MaxY float64 `json:"max_y"`
}

// State is the full payload a shell consumes once per displayed frame.
type State struct {
	Ball        BallState           `json:"ball"`
	Time        float64             `json:"simulation_time"`
	Playing     bool                `json:"is_playing"`
	StepMode    timectl.StepMode    `json:"step_mode"`
	AutoPause   bool                `json:"auto_pause_after_step"`
	Coordinates string              `json:"coordinate_system"`
	GroundY     float64             `json:"ground_y"`
	History     timectl.HistoryInfo `json:"history"`
	Energy      metrics.Energy      `json:"energy"`
	Viewport    Viewport            `json:"viewport"`
}

const (
	viewportPadding   = 50.0
	minViewportHeight = 600.0
)

// Session owns one ball, one time manager, and the observers watching it.
type Session struct {
	cfg       *config.Config
	ball      *physics.Ball
	tm        *timectl.Manager
	observers []metrics.Observer
}

// NewSession builds a session from a validated config.
func NewSession(cfg *config.Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ball := cfg.NewBall()
	tm, err := timectl.New(ball, cfg.TargetFPS, cfg.HistoryFrames)
	if err != nil {
		return nil, err
	}
	tm.SetAutoPause(cfg.AutoPause)
	s := &Session{cfg: cfg, ball: ball, tm: tm}
	tm.OnTick(s.notify)
	return s, nil
}

func (s *Session) AddObserver(o metrics.Observer) {
	s.observers = append(s.observers, o)
}

func (s *Session) Manager() *timectl.Manager { return s.tm }
func (s *Session) Ball() *physics.Ball       { return s.ball }
func (s *Session) Config() *config.Config    { return s.cfg }

// Update runs one tick if the session is playing and returns the fresh
// state. Called by the owning shell at the fixed cadence.
func (s *Session) Update() State {
	if s.tm.Playing() {
		s.tm.AdvanceFrame()
	}
	return s.State()
}

func (s *Session) notify() {
	snap := s.ball.Snapshot()
	t := s.tm.SimTime()
	for _, o := range s.observers {
		o.OnStep(snap, t)
	}
}

// State assembles the read-only payload for rendering or serialization.
func (s *Session) State() State {
	return State{
		Ball: BallState{
			X:             s.ball.X,
			Y:             s.ball.Y,
			Radius:        s.ball.Radius,
			VelocityY:     s.ball.VelocityY,
			AccelerationY: s.ball.AccelerationY,
			AtRest:        s.ball.AtRest(),
		},
		Time:        s.tm.SimTime(),
		Playing:     s.tm.Playing(),
		StepMode:    s.tm.StepMode(),
		AutoPause:   s.tm.AutoPause(),
		Coordinates: s.ball.Frame().Name(),
		GroundY:     s.cfg.GroundY(),
		History:     s.tm.HistoryInfo(),
		Energy:      metrics.Measure(s.ball),
		Viewport:    s.viewport(),
	}
}

func (s *Session) viewport() Viewport {
	maxY := s.ball.Y + s.ball.Radius + viewportPadding
	if maxY < minViewportHeight {
		maxY = minViewportHeight
	}
	return Viewport{
		MinX: 0,
		MaxX: s.cfg.Width,
		MinY: -300, // room below the ground line
		MaxY: maxY,
	}
}

// Stepping and time travel delegate to the manager; each returns the state
// after the operation so callers can respond with one payload.

func (s *Session) TogglePlay() State {
	s.tm.TogglePlayPause()
	return s.State()
}

func (s *Session) Reset() State {
	s.tm.Reset()
	return s.State()
}

func (s *Session) StepForwardFrames(n int) State {
	s.tm.StepForwardFrames(n)
	return s.State()
}

func (s *Session) StepForwardTime(seconds float64) State {
	s.tm.StepForwardTime(seconds)
	return s.State()
}

func (s *Session) StepBackwardFrames(n int) State {
	s.tm.StepBackwardFrames(n)
	return s.State()
}

func (s *Session) StepBackwardTime(seconds float64) State {
	s.tm.StepBackwardTime(seconds)
	return s.State()
}

func (s *Session) JumpToTime(target float64) State {
	s.tm.JumpToTime(target)
	return s.State()
}

func (s *Session) ToggleStepMode() State {
	s.tm.ToggleStepMode()
	return s.State()
}

func (s *Session) SetAutoPause(enabled bool) State {
	s.tm.SetAutoPause(enabled)
	return s.State()
}

// SetStartY moves the drop height (the ball's lowest point) and restarts
// the run from it.
func (s *Session) SetStartY(bottom float64) State {
	var center float64
	if s.cfg.Coordinates == "physics" {
		center = bottom + s.ball.Radius
	} else {
		center = bottom - s.ball.Radius
	}
	s.ball.SetStart(s.cfg.Width/2, center)
	s.tm.Reset()
	return s.State()
}
