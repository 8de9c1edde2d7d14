package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/bouncelab/internal/config"
	"github.com/san-kum/bouncelab/internal/sim"
	"github.com/san-kum/bouncelab/internal/timectl"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

type trailPoint struct {
	x, y     float64
	velocity float64
}

type model struct {
	session  *sim.Session
	interval time.Duration

	trail   []trailPoint
	heights []float64

	jumping bool
	editBuf string
	status  string

	lastFrame time.Time
	fps       float64

	width  int
	height int
}

// NewApp builds the interactive view around an already configured session.
func NewApp(s *sim.Session) *model {
	dt := s.Manager().Dt()
	return &model{
		session:  s,
		interval: time.Duration(dt * float64(time.Second)),
		trail:    make([]trailPoint, 0, 100),
		heights:  make([]float64, 0, 120),
		width:    80,
		height:   24,
	}
}

func (m model) Init() tea.Cmd { return m.tick() }

type tickMsg time.Time

func (m model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.session.Manager().Playing() {
			now := time.Now()
			if !m.lastFrame.IsZero() {
				if d := now.Sub(m.lastFrame).Seconds(); d > 0 {
					m.fps = 1.0 / d
				}
			}
			m.lastFrame = now
			m.record(m.session.Update())
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *model) record(st sim.State) {
	h := st.GroundY - (st.Ball.Y + st.Ball.Radius)
	if st.Coordinates == "physics" {
		h = st.Ball.Y - st.Ball.Radius
	}
	m.trail = append(m.trail, trailPoint{st.Ball.X, st.Ball.Y, abs(st.Ball.VelocityY)})
	if len(m.trail) > 100 {
		m.trail = m.trail[1:]
	}
	m.heights = append(m.heights, h)
	if len(m.heights) > 120 {
		m.heights = m.heights[1:]
	}
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.jumping {
		return m.jumpKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case " ", "p":
		m.session.TogglePlay()
		m.status = ""

	case "right", "l":
		m.record(m.stepForward())

	case "left", "h":
		m.stepBackward()
		m.trimTrail()

	case ".":
		m.record(m.session.StepForwardFrames(1))
	case ",":
		m.session.StepBackwardFrames(1)
		m.trimTrail()

	case "m":
		st := m.session.ToggleStepMode()
		m.status = fmt.Sprintf("step mode: %s", st.StepMode)

	case "a":
		st := m.session.State()
		st = m.session.SetAutoPause(!st.AutoPause)
		if st.AutoPause {
			m.status = "auto-pause on"
		} else {
			m.status = "auto-pause off"
		}

	case "j":
		m.jumping = true
		m.editBuf = ""

	case "r":
		m.session.Reset()
		m.trail = m.trail[:0]
		m.heights = m.heights[:0]
		m.status = ""
	}
	return m, nil
}

func (m *model) stepForward() sim.State {
	if m.session.State().StepMode == timectl.StepFrames {
		return m.session.StepForwardFrames(1)
	}
	return m.session.StepForwardTime(1.0)
}

func (m *model) stepBackward() sim.State {
	if m.session.State().StepMode == timectl.StepFrames {
		return m.session.StepBackwardFrames(1)
	}
	return m.session.StepBackwardTime(1.0)
}

// trimTrail drops trail points recorded after the current simulation time.
// Stepping back rewrites the present, so the drawn trail has to follow.
func (m *model) trimTrail() {
	st := m.session.State()
	keep := st.History.Stored
	if keep > len(m.trail) {
		keep = len(m.trail)
	}
	m.trail = m.trail[:keep]
	if keep < len(m.heights) {
		m.heights = m.heights[:keep]
	}
}

func (m model) jumpKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if target, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
			st := m.session.JumpToTime(target)
			m.status = fmt.Sprintf("jumped to t=%.3fs", st.Time)
			m.trimTrail()
		} else if m.editBuf != "" {
			m.status = "invalid time"
		}
		m.jumping = false
		m.editBuf = ""
	case "escape":
		m.jumping = false
		m.editBuf = ""
	case "backspace":
		if len(m.editBuf) > 0 {
			m.editBuf = m.editBuf[:len(m.editBuf)-1]
		}
	default:
		if len(msg.String()) == 1 {
			c := msg.String()[0]
			if (c >= '0' && c <= '9') || c == '.' {
				m.editBuf += string(c)
			}
		}
	}
	return m, nil
}

func (m model) View() string {
	st := m.session.State()
	cfg := m.session.Config()

	cw := m.width - 6
	ch := m.height - 11
	if cw < 50 {
		cw = 50
	}
	if ch < 12 {
		ch = 12
	}

	canvas := make([][]rune, ch)
	for i := range canvas {
		canvas[i] = make([]rune, cw)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	m.drawScene(canvas, cw, ch, st, cfg)

	var b strings.Builder

	statusIcon := yellow.Render("○")
	statusText := yellow.Render("paused")
	if st.Playing {
		statusIcon = green.Render("●")
		statusText = green.Render("playing")
	}
	mode := dim.Render(fmt.Sprintf("step by %s", st.StepMode))
	b.WriteString(fmt.Sprintf("\n   %s %s  %s  %s\n",
		statusIcon, cyan.Render("bouncelab"), statusText, mode))

	b.WriteString(m.timeline(st))

	for _, row := range canvas {
		b.WriteString("   " + string(row) + "\n")
	}

	b.WriteString(m.energyBar(st))

	b.WriteString(fmt.Sprintf("   %s%s  %s%s  %s%s\n",
		dim.Render("y="), white.Render(fmt.Sprintf("%.1f", st.Ball.Y)),
		dim.Render("vy="), white.Render(fmt.Sprintf("%.1f", st.Ball.VelocityY)),
		dim.Render("t="), white.Render(fmt.Sprintf("%.3fs", st.Time))))

	if len(m.heights) > 1 {
		b.WriteString(fmt.Sprintf("   %s %s\n", dim.Render("h"), cyan.Render(sparkline(m.heights, 32))))
	}

	if m.jumping {
		b.WriteString("\n   " + magenta.Render("jump to time: "+m.editBuf+"▋") + dim.Render("  enter confirm  esc cancel") + "\n")
	} else {
		if m.status != "" {
			b.WriteString("\n   " + yellow.Render(m.status) + "\n")
		}
		b.WriteString("\n" + dim.Render("   space play/pause  ←→ step  ,. frame  j jump  m mode  a auto-pause  r reset  q quit") + "\n")
	}

	return b.String()
}

func (m model) timeline(st sim.State) string {
	barWidth := 40
	fill := 0
	if st.History.Capacity > 0 {
		fill = st.History.Stored * barWidth / st.History.Capacity
	}
	bar := cyan.Render(strings.Repeat("━", fill)) + dimmer.Render(strings.Repeat("─", barWidth-fill))
	info := dim.Render(fmt.Sprintf("%.2fs held  %d/%d frames", st.History.Seconds, st.History.Stored, st.History.Capacity))
	fpsStr := ""
	if st.Playing && m.fps > 0 {
		fpsStr = "  " + dim.Render(fmt.Sprintf("%.0ffps", m.fps))
	}
	return fmt.Sprintf("   %s %s%s\n\n", bar, info, fpsStr)
}

func (m model) energyBar(st sim.State) string {
	total := st.Energy.Total
	if total <= 0 {
		return "\n"
	}
	keRatio := st.Energy.Kinetic / total
	energyWidth := 20
	keBar := int(keRatio * float64(energyWidth))
	if keBar > energyWidth {
		keBar = energyWidth
	}
	peBar := energyWidth - keBar
	return fmt.Sprintf("\n   energy %s%s  %s %.0f  %s %.0f\n",
		green.Render(strings.Repeat("█", keBar)),
		yellow.Render(strings.Repeat("█", peBar)),
		green.Render("KE"), st.Energy.Kinetic,
		yellow.Render("PE"), st.Energy.Potential)
}

// drawScene maps world coordinates onto the canvas grid. Screen worlds put
// y=0 at the top; physics worlds at the ground, so those flip vertically.
func (m model) drawScene(canvas [][]rune, w, h int, st sim.State, cfg *config.Config) {
	groundRow := h - 2
	scaleX := float64(w) / cfg.Width
	scaleY := float64(groundRow) / st.GroundY

	toCanvas := func(x, y float64) (int, int) {
		cx := int(x * scaleX)
		cy := int(y * scaleY)
		if st.Coordinates == "physics" {
			cy = groundRow - cy
		}
		return cx, cy
	}

	for x := 0; x < w; x++ {
		set(canvas, x, groundRow+1, '▀', w, h)
	}

	maxV := 0.0
	for _, pt := range m.trail {
		if pt.velocity > maxV {
			maxV = pt.velocity
		}
	}
	for _, pt := range m.trail {
		tx, ty := toCanvas(pt.x, pt.y)
		if ty <= groundRow {
			set(canvas, tx, ty, trailChar(pt.velocity, maxV), w, h)
		}
	}

	bx, by := toCanvas(st.Ball.X, st.Ball.Y)
	if by > groundRow {
		by = groundRow
	}
	set(canvas, bx, by, '⬤', w, h)
	if st.Ball.AtRest {
		set(canvas, bx+2, by, 'z', w, h)
	}
}

func trailChar(velocity, maxVel float64) rune {
	if maxVel == 0 {
		return '·'
	}
	ratio := velocity / maxVel
	if ratio < 0.25 {
		return '·'
	} else if ratio < 0.5 {
		return '∘'
	} else if ratio < 0.75 {
		return '○'
	}
	return '●'
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		v := data[i*step]
		idx := int((v - minVal) / rang * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

func set(canvas [][]rune, x, y int, c rune, w, h int) {
	if x >= 0 && x < w && y >= 0 && y < h {
		canvas[y][x] = c
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Run starts the interactive viewer and blocks until the user quits.
func Run(cfg *config.Config) error {
	s, err := sim.NewSession(cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(NewApp(s), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
