package server

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/san-kum/bouncelab/internal/config"
	"github.com/san-kum/bouncelab/internal/sim"
)

func newTestSession(t *testing.T) *sim.Session {
	t.Helper()
	s, err := sim.NewSession(config.DefaultConfig())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func cmd(typ, value string) Command {
	c := Command{Type: typ}
	if value != "" {
		c.Value = json.RawMessage(value)
	}
	return c
}

func statePayload(t *testing.T, env Envelope) sim.State {
	t.Helper()
	if env.Type != "state" {
		t.Fatalf("expected state envelope, got %s: %+v", env.Type, env.Payload)
	}
	st, ok := env.Payload.(sim.State)
	if !ok {
		t.Fatalf("unexpected payload type %T", env.Payload)
	}
	return st
}

func TestHandleTogglePlay(t *testing.T) {
	s := newTestSession(t)

	st := statePayload(t, handleCommand(s, cmd("toggle_play", "")))
	if !st.Playing {
		t.Error("expected playing after toggle")
	}
	st = statePayload(t, handleCommand(s, cmd("toggle_play", "")))
	if st.Playing {
		t.Error("expected paused after second toggle")
	}
}

func TestHandleStepAcceptsNumbersAndStrings(t *testing.T) {
	s := newTestSession(t)

	st := statePayload(t, handleCommand(s, cmd("step", "1.0")))
	if math.Abs(st.Time-1.0) > 1e-9 {
		t.Errorf("expected t=1.0, got %f", st.Time)
	}

	st = statePayload(t, handleCommand(s, cmd("step", `"0.5"`)))
	if math.Abs(st.Time-1.5) > 1e-9 {
		t.Errorf("expected t=1.5, got %f", st.Time)
	}
}

func TestHandleRejectsMalformedValues(t *testing.T) {
	s := newTestSession(t)

	tests := []Command{
		cmd("step", `"abc"`),
		cmd("step", `{"nested": true}`),
		cmd("step", ""),
		cmd("jump", `"not-a-number"`),
		cmd("set_auto_pause", `"yes"`),
		cmd("step_frames", "2.7"),
		cmd("step_back_frames", `"1.5"`),
		cmd("nonsense", "1"),
	}

	for _, c := range tests {
		env := handleCommand(s, c)
		if env.Type != "error" {
			t.Errorf("command %+v should produce an error envelope, got %s", c, env.Type)
		}
	}

	if st := s.State(); st.Time != 0 {
		t.Errorf("rejected commands must not touch the session, got t=%f", st.Time)
	}
}

func TestHandleStepLimit(t *testing.T) {
	s := newTestSession(t)

	env := handleCommand(s, cmd("step", "3600"))
	if env.Type != "error" {
		t.Error("oversized step should be rejected")
	}
	env = handleCommand(s, cmd("jump", "3600"))
	if env.Type != "error" {
		t.Error("oversized jump should be rejected")
	}
	env = handleCommand(s, cmd("step_frames", "1000000"))
	if env.Type != "error" {
		t.Error("oversized frame step should be rejected")
	}
}

func TestHandleRoundTrip(t *testing.T) {
	s := newTestSession(t)
	handleCommand(s, cmd("step_frames", "30"))
	want := statePayload(t, handleCommand(s, cmd("get_state", "")))

	handleCommand(s, cmd("step_frames", "10"))
	got := statePayload(t, handleCommand(s, cmd("step_back_frames", "10")))

	if got.Ball != want.Ball || got.Time != want.Time {
		t.Errorf("round trip mismatch: %+v vs %+v", got.Ball, want.Ball)
	}
}

func TestHandleJumpAndReset(t *testing.T) {
	s := newTestSession(t)

	st := statePayload(t, handleCommand(s, cmd("jump", "0.5")))
	if math.Abs(st.Time-0.5) > 1e-9 {
		t.Errorf("jump landed at %f", st.Time)
	}

	st = statePayload(t, handleCommand(s, cmd("reset", "")))
	if st.Time != 0 || st.History.Stored != 0 {
		t.Errorf("reset left t=%f stored=%d", st.Time, st.History.Stored)
	}
}

func TestHandleSetStartY(t *testing.T) {
	s := newTestSession(t)

	st := statePayload(t, handleCommand(s, cmd("set_start_y", "300")))
	if st.Ball.Y != 300-st.Ball.Radius {
		t.Errorf("expected center %f, got %f", 300-st.Ball.Radius, st.Ball.Y)
	}
}

func TestHandleAutoPauseAndStepMode(t *testing.T) {
	s := newTestSession(t)

	st := statePayload(t, handleCommand(s, cmd("set_auto_pause", "true")))
	if !st.AutoPause {
		t.Error("auto pause not enabled")
	}

	st = statePayload(t, handleCommand(s, cmd("toggle_step_mode", "")))
	if st.StepMode != "frames" {
		t.Errorf("expected frames mode, got %s", st.StepMode)
	}
}

func TestEnvelopeSerialization(t *testing.T) {
	s := newTestSession(t)
	env := handleCommand(s, cmd("get_state", ""))

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded struct {
		Type    string `json:"type"`
		Payload struct {
			Ball struct {
				Y float64 `json:"y"`
			} `json:"ball"`
			History struct {
				Capacity int `json:"capacity"`
			} `json:"history"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Type != "state" {
		t.Errorf("expected state type, got %s", decoded.Type)
	}
	if decoded.Payload.History.Capacity != 500 {
		t.Errorf("expected capacity 500, got %d", decoded.Payload.History.Capacity)
	}
}

func TestFrameCountsMustBeWhole(t *testing.T) {
	s := newTestSession(t)

	if env := handleCommand(s, cmd("step_frames", "3")); env.Type != "state" {
		t.Errorf("whole frame count rejected: %+v", env.Payload)
	}
	if env := handleCommand(s, cmd("step_frames", "3.0")); env.Type != "state" {
		t.Errorf("integral float frame count rejected: %+v", env.Payload)
	}
	if env := handleCommand(s, cmd("step_frames", "3.5")); env.Type != "error" {
		t.Error("fractional frame count must be rejected, not truncated")
	}
}

func TestHubRegistry(t *testing.T) {
	h := NewHub(config.DefaultConfig())

	if h.Count() != 0 {
		t.Errorf("expected empty hub, got %d", h.Count())
	}

	a := &Client{id: "c1"}
	b := &Client{id: "c2"}
	h.add(a)
	h.add(b)
	if h.Count() != 2 {
		t.Errorf("expected 2 clients, got %d", h.Count())
	}

	h.remove(a)
	if h.Count() != 1 {
		t.Errorf("expected 1 client after remove, got %d", h.Count())
	}

	h.remove(a) // removing twice is harmless
	if h.Count() != 1 {
		t.Errorf("double remove changed count: %d", h.Count())
	}
}
