package export

import (
	"strings"
	"testing"
)

func TestTrajectoryToSVG(t *testing.T) {
	times := []float64{0, 0.25, 0.5, 0.75, 1.0}
	heights := []float64{400, 225, 100, 25, 0}

	svg := TrajectoryToSVG(times, heights, 800, 400, "#00ff00")

	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing XML header")
	}
	if !strings.Contains(svg, "<path") {
		t.Error("missing trajectory path")
	}
	if !strings.Contains(svg, "#00ff00") {
		t.Error("stroke color not applied")
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("unterminated document")
	}
}

func TestTrajectoryToSVGDegenerateInput(t *testing.T) {
	if TrajectoryToSVG(nil, nil, 800, 400, "#fff") != "" {
		t.Error("expected empty output for no samples")
	}
	if TrajectoryToSVG([]float64{0}, []float64{1}, 800, 400, "#fff") != "" {
		t.Error("expected empty output for a single sample")
	}
	if TrajectoryToSVG([]float64{0, 1}, []float64{1}, 800, 400, "#fff") != "" {
		t.Error("expected empty output for mismatched lengths")
	}
}
