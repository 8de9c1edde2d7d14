package export

import (
	"fmt"
	"strings"
)

// TrajectoryToSVG renders a height-vs-time curve as a standalone SVG with a
// ground line at zero height.
func TrajectoryToSVG(times, heights []float64, width, height int, strokeColor string) string {
	if len(times) < 2 || len(times) != len(heights) {
		return ""
	}

	minT, maxT := times[0], times[len(times)-1]
	maxH := 0.0
	for _, h := range heights {
		if h > maxH {
			maxH = h
		}
	}
	rangeT := maxT - minT
	if rangeT == 0 {
		rangeT = 1
	}
	if maxH == 0 {
		maxH = 1
	}
	maxH *= 1.1 // headroom above the highest point

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	// Ground line sits at the bottom edge.
	groundY := float64(height) - 2
	sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#444" stroke-width="1"/>
`, groundY, width, groundY))

	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))

	for i := range times {
		x := (times[i] - minT) / rangeT * float64(width)
		y := groundY - heights[i]/maxH*(groundY-2)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
