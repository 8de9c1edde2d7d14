package server

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Command is an inbound client message. Value carries the numeric or
// boolean argument for commands that take one.
type Command struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Envelope is an outbound message: a state payload or an error.
type Envelope struct {
	Type    string      `json:"type"` // "state" or "error"
	Payload interface{} `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func stateEnvelope(payload interface{}) Envelope {
	return Envelope{Type: "state", Payload: payload}
}

func errorEnvelope(msg string) Envelope {
	return Envelope{Type: "error", Payload: errorPayload{Message: msg}}
}

// floatValue parses a numeric argument. JSON numbers and numeric strings
// are both accepted; anything else is rejected here, before the core ever
// sees it.
func floatValue(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("missing numeric value")
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid numeric value %q", s)
		}
		return f, nil
	}
	return 0, fmt.Errorf("invalid numeric value %s", string(raw))
}

func intValue(raw json.RawMessage) (int, error) {
	f, err := floatValue(raw)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("expected a whole number, got %s", string(raw))
	}
	return int(f), nil
}

func boolValue(raw json.RawMessage) (bool, error) {
	if len(raw) == 0 {
		return false, fmt.Errorf("missing boolean value")
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, fmt.Errorf("invalid boolean value %s", string(raw))
	}
	return b, nil
}
