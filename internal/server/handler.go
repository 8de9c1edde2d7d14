package server

import (
	"fmt"

	"github.com/san-kum/bouncelab/internal/sim"
)

// maxStepSeconds bounds a single forward step so one command cannot stall
// a session's tick loop for an arbitrary time.
const maxStepSeconds = 60.0

// handleCommand applies one validated command to a session and returns the
// response envelope. Malformed arguments never reach the session.
func handleCommand(s *sim.Session, cmd Command) Envelope {
	switch cmd.Type {
	case "toggle_play":
		return stateEnvelope(s.TogglePlay())

	case "reset":
		return stateEnvelope(s.Reset())

	case "step":
		seconds, err := floatValue(cmd.Value)
		if err != nil {
			return errorEnvelope(err.Error())
		}
		if seconds > maxStepSeconds {
			return errorEnvelope(fmt.Sprintf("step of %.1fs exceeds the %.0fs limit", seconds, maxStepSeconds))
		}
		return stateEnvelope(s.StepForwardTime(seconds))

	case "step_back":
		seconds, err := floatValue(cmd.Value)
		if err != nil {
			return errorEnvelope(err.Error())
		}
		return stateEnvelope(s.StepBackwardTime(seconds))

	case "step_frames":
		n, err := intValue(cmd.Value)
		if err != nil {
			return errorEnvelope(err.Error())
		}
		if float64(n) > maxStepSeconds*float64(s.Config().TargetFPS) {
			return errorEnvelope(fmt.Sprintf("step of %d frames exceeds the limit", n))
		}
		return stateEnvelope(s.StepForwardFrames(n))

	case "step_back_frames":
		n, err := intValue(cmd.Value)
		if err != nil {
			return errorEnvelope(err.Error())
		}
		return stateEnvelope(s.StepBackwardFrames(n))

	case "jump":
		target, err := floatValue(cmd.Value)
		if err != nil {
			return errorEnvelope(err.Error())
		}
		if target-s.Manager().SimTime() > maxStepSeconds {
			return errorEnvelope(fmt.Sprintf("jump to %.1fs exceeds the %.0fs forward limit", target, maxStepSeconds))
		}
		return stateEnvelope(s.JumpToTime(target))

	case "set_start_y":
		y, err := floatValue(cmd.Value)
		if err != nil {
			return errorEnvelope(err.Error())
		}
		return stateEnvelope(s.SetStartY(y))

	case "toggle_step_mode":
		return stateEnvelope(s.ToggleStepMode())

	case "set_auto_pause":
		enabled, err := boolValue(cmd.Value)
		if err != nil {
			return errorEnvelope(err.Error())
		}
		return stateEnvelope(s.SetAutoPause(enabled))

	case "get_state":
		return stateEnvelope(s.State())

	default:
		return errorEnvelope(fmt.Sprintf("unknown command %q", cmd.Type))
	}
}
