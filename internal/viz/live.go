package viz

import (
	"fmt"
	"image"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/wheelsim/internal/config"
	"github.com/san-kum/wheelsim/internal/physics"
)

const (
	canvasW         = 60
	canvasH         = 30
	historyCapacity = 600
	resultsShown    = 12
	paramsShown     = 9
	restBeforeAuto  = 90
	frameDelay      = 2
	maxGIFFrames    = 600
)

// Params that are stepped by one instead of scaled.
var discreteParams = map[string]bool{
	"sub_steps":          true,
	"near_pocket_refine": true,
	"max_sub_steps":      true,
	"groove_neighbors":   true,
}

var toggleParams = map[string]bool{
	"rotor_fixed":          true,
	"require_mid_for_stop": true,
}

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Options configures a live session.
type Options struct {
	Title         string
	Randomize     bool
	TicksPerFrame int
	GIFPath       string
	Auto          bool
}

// Model drives one engine in real time and renders the wheel beside a
// telemetry panel. All engine calls happen on the bubbletea update loop.
type Model struct {
	eng  *physics.Engine
	base config.Config
	cfg  config.Config
	opts Options

	wheel     *Wheel
	running   bool
	auto      bool
	rest      int
	paramKeys []string
	selected  int

	energy   []float64
	history  []physics.Telemetry
	playHead int

	results []int
	spins   int
	forced  int

	recording bool
	frames    []*image.Paletted
	message   string
	showHelp  bool
}

// NewModel launches a first spin on eng and returns the model driving it.
func NewModel(eng *physics.Engine, opts Options) Model {
	if opts.TicksPerFrame < 1 {
		opts.TicksPerFrame = 1
	}
	if opts.Title == "" {
		opts.Title = "wheelsim"
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "spin.gif"
	}
	cfg := eng.Config()
	m := Model{
		eng:       eng,
		base:      cfg,
		cfg:       cfg,
		opts:      opts,
		wheel:     NewWheel(eng.Layout(), NewCanvas(canvasW, canvasH)),
		running:   true,
		auto:      opts.Auto,
		paramKeys: cfg.ParamNames(),
		energy:    make([]float64, 0, historyCapacity),
		history:   make([]physics.Telemetry, 0, historyCapacity),
		playHead:  -1,
	}
	m.launch()
	return m
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "enter", "l":
			m.launch()
		case "r":
			m.reset()
		case "a":
			m.auto = !m.auto
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "tab":
			m.cycleParam(1)
		case "shift+tab":
			m.cycleParam(-1)
		case "up", "k":
			m.adjustParam(1)
		case "down", "j":
			m.adjustParam(-1)
		case "+", "=":
			m.opts.TicksPerFrame = min(m.opts.TicksPerFrame*2, 64)
		case "-", "_":
			m.opts.TicksPerFrame = max(m.opts.TicksPerFrame/2, 1)
		case "g":
			m.toggleRecording()
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.advance()
			} else if m.playHead++; m.playHead >= len(m.history) {
				m.playHead = -1
			}
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) launch() {
	m.eng.Launch(m.opts.Randomize)
	m.wheel.ClearTrail()
	m.energy = m.energy[:0]
	m.history = m.history[:0]
	m.playHead = -1
	m.rest = 0
	m.record()
	m.draw()
}

// advance runs one frame worth of ticks. A settled wheel keeps turning with
// the ball seated.
func (m *Model) advance() {
	wasRolling := m.eng.Rolling()
	for i := 0; i < m.opts.TicksPerFrame; i++ {
		m.eng.Step()
	}
	if wasRolling {
		m.record()
		if !m.eng.Rolling() {
			m.settle()
		}
		return
	}
	if m.auto && m.eng.HasResult() {
		if m.rest++; m.rest >= restBeforeAuto {
			m.launch()
		}
	}
}

func (m *Model) settle() {
	tm := m.eng.Telemetry()
	m.spins++
	if tm.Forced {
		m.forced++
	}
	m.results = append(m.results, tm.Result)
	if len(m.results) > resultsShown {
		m.results = m.results[1:]
	}
}

func (m *Model) record() {
	tm := m.eng.Telemetry()
	m.energy = append(m.energy, tm.Energy)
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
	m.history = append(m.history, tm)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

// scrub moves the replay head through recorded frames, pausing live play.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead = max(m.playHead+dir, 0)
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// reset restores the starting configuration and leaves the wheel idle.
func (m *Model) reset() {
	m.cfg = m.base
	if err := m.eng.SetConfig(m.cfg); err != nil {
		m.message = err.Error()
	}
	m.eng.Reset()
	m.wheel.ClearTrail()
	m.energy = m.energy[:0]
	m.history = m.history[:0]
	m.playHead = -1
	m.rest = 0
}

func (m *Model) cycleParam(dir int) {
	if n := len(m.paramKeys); n > 0 {
		m.selected = (m.selected + dir + n) % n
	}
}

// adjustParam nudges the selected tunable by 5% (or by one for counts) and
// hands a fresh copy to the engine. Rejected values are rolled back.
func (m *Model) adjustParam(dir int) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	val := m.cfg.GetParams()[key]

	var next float64
	switch {
	case toggleParams[key]:
		next = 1 - val
	case discreteParams[key]:
		step := math.Max(1, math.Round(math.Abs(val)*0.05))
		next = val + float64(dir)*step
	case val == 0:
		next = float64(dir) * 0.01
	default:
		next = val * (1 + 0.05*float64(dir))
	}

	cfg := m.cfg
	if err := cfg.SetParam(key, next); err != nil {
		m.message = err.Error()
		return
	}
	if err := m.eng.SetConfig(cfg); err != nil {
		m.message = err.Error()
		return
	}
	m.cfg = cfg
	m.message = ""
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.frames = m.frames[:0]
		m.message = "recording"
		return
	}
	m.recording = false
	if err := SaveGIF(m.opts.GIFPath, m.frames, frameDelay); err != nil {
		m.message = "gif: " + err.Error()
	} else {
		m.message = fmt.Sprintf("saved %d frames to %s", len(m.frames), m.opts.GIFPath)
	}
	m.frames = nil
}

// captureFrame keeps the most recent maxGIFFrames frames of a recording.
func (m *Model) captureFrame() {
	m.frames = append(m.frames, m.wheel.Canvas().Image(8, 16))
	if len(m.frames) > maxGIFFrames {
		m.frames = m.frames[len(m.frames)-maxGIFFrames:]
	}
}

// current is the telemetry on screen: the replay frame or the live engine.
func (m *Model) current() physics.Telemetry {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead]
	}
	return m.eng.Telemetry()
}

func (m *Model) draw() {
	tm := m.current()
	x, y := m.eng.Layout().WorldPoint(tm.R, tm.Theta)
	m.wheel.Draw(tm.RotorDeg, x, y)
}

func (m Model) View() string {
	st := currentStyles()
	tm := m.current()

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.opts.Title)) + "\n")
	s.WriteString(m.status(st, tm) + "\n\n")

	if tm.HasResult {
		s.WriteString(st.label.Render("Result") + NumberBadge(tm.Result))
		if tm.Forced {
			s.WriteString(st.muted.Render("  forced"))
		}
		s.WriteString("\n")
	}
	if len(m.results) > 0 {
		badges := make([]string, len(m.results))
		for i, n := range m.results {
			badges[i] = NumberBadge(n)
		}
		s.WriteString(st.label.Render("History") + strings.Join(badges, " ") + "\n")
	}
	s.WriteString(st.label.Render("Spins") + st.value.Render(fmt.Sprintf("%d (%d forced)", m.spins, m.forced)) + "\n\n")

	row := func(label, format string, args ...any) {
		s.WriteString(st.label.Render(label) + st.value.Render(fmt.Sprintf(format, args...)) + "\n")
	}
	row("Radius", "%7.2f", tm.R)
	row("Ball ω", "%7.3f rad/s", tm.W)
	row("Rotor ω", "%7.3f rad/s", tm.WheelW)
	row("Slip", "%7.3f rad/s", tm.RelSpeed())
	row("Radial v", "%7.2f", tm.RV)
	row("Height", "%7.3f", tm.Z)
	row("Tilt", "%7.4f", tm.Tilt)
	row("Ticks", "%d / %d sub", tm.Ticks, tm.SubSteps)
	if peak := maxOf(m.energy); peak > 0 {
		s.WriteString(st.label.Render("Energy") + ProgressBar(tm.Energy/peak, 20) + "\n")
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(34), asciigraph.Caption("energy"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	s.WriteString("\n" + st.muted.Render("PARAMETERS") + "\n")
	s.WriteString(m.paramList(st))
	if m.message != "" {
		s.WriteString("\n" + st.paused.Render(m.message) + "\n")
	}
	s.WriteString("\n" + Separator(30) + "\n")
	s.WriteString(st.muted.Render("SP pause  L launch  R reset  A auto\n↑↓ tune  TAB param  [ ] replay  ? help"))

	canvasView := lipgloss.NewStyle().Padding(1, 2).Render(m.wheel.Canvas().String())
	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + main
	}
	return main
}

func (m Model) status(st styles, tm physics.Telemetry) string {
	var parts []string
	switch {
	case m.playHead >= 0:
		parts = append(parts, st.paused.Render(fmt.Sprintf("REPLAY %d/%d", m.playHead+1, len(m.history))))
	case !m.running:
		parts = append(parts, st.paused.Render("PAUSED"))
	case tm.Rolling:
		parts = append(parts, st.running.Render("ROLLING"))
	case tm.HasResult:
		parts = append(parts, st.settled.Render("SETTLED"))
	default:
		parts = append(parts, st.muted.Render("IDLE"))
	}
	parts = append(parts, st.muted.Render(fmt.Sprintf("x%d", m.opts.TicksPerFrame)))
	if m.auto {
		parts = append(parts, st.muted.Render("auto"))
	}
	if m.recording {
		parts = append(parts, st.recording.Render("● REC"))
	}
	return strings.Join(parts, "  ")
}

// paramList shows a window of tunables around the selected one.
func (m Model) paramList(st styles) string {
	if len(m.paramKeys) == 0 {
		return st.muted.Render("  (none)") + "\n"
	}
	params := m.cfg.GetParams()
	lo := max(0, m.selected-paramsShown/2)
	hi := min(len(m.paramKeys), lo+paramsShown)
	lo = max(0, hi-paramsShown)

	var b strings.Builder
	for i := lo; i < hi; i++ {
		k := m.paramKeys[i]
		line := fmt.Sprintf("%-22s %10.4g", k, params[k])
		if i == m.selected {
			b.WriteString(st.active.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + st.muted.Render(line) + "\n")
		}
	}
	return b.String()
}

func maxOf(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		m = math.Max(m, x)
	}
	return m
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space     pause / resume            ║
║  L, Enter  launch a new spin         ║
║  R         reset tuning, idle wheel  ║
║  A         auto relaunch             ║
║  Tab       next parameter            ║
║  Up/K      increase parameter        ║
║  Down/J    decrease parameter        ║
║  + / -     ticks per frame           ║
║  [ / ]     replay the spin           ║
║  G         toggle GIF recording      ║
║  T         cycle themes              ║
║  Q         quit                      ║
╚══════════════════════════════════════╝`

// RunLive starts the live view in the alternate screen.
func RunLive(eng *physics.Engine, opts Options) error {
	_, err := tea.NewProgram(NewModel(eng, opts), tea.WithAltScreen()).Run()
	return err
}
