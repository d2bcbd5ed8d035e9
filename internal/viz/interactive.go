package viz

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/wheelsim/internal/config"
	"github.com/san-kum/wheelsim/internal/layout"
	"github.com/san-kum/wheelsim/internal/physics"
)

var presetInfo = map[string]string{
	"casino":      "regulation wheel",
	"fast":        "hard launches, thin air",
	"sticky":      "deep grooves, dead walls",
	"loose":       "lively separators, more tilt",
	"fixed-rotor": "slow constant rotor",
}

const (
	statePresets = iota
	stateSetup
	stateLive
)

type setupField struct {
	name  string
	value float64
}

// App is the interactive front end: pick a preset, adjust the session, then
// hand over to the live Model.
type App struct {
	layout *layout.Layout
	logger *log.Logger

	state   int
	presets []string
	cursor  int
	preset  string

	fields      []setupField
	fieldCursor int
	editing     bool
	editBuf     string
	err         string

	live Model
}

func NewApp(l *layout.Layout, logger *log.Logger) *App {
	return &App{
		layout:  l,
		logger:  logger,
		presets: config.ListPresets(),
		fields: []setupField{
			{"seed", 0},
			{"ticks/frame", 1},
			{"randomize", 1},
			{"auto", 0},
		},
	}
}

func (a *App) field(name string) float64 {
	for _, f := range a.fields {
		if f.name == name {
			return f.value
		}
	}
	return 0
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.state == stateLive {
		next, cmd := a.live.Update(msg)
		a.live = next.(Model)
		return a, cmd
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	if a.state == statePresets {
		return a, a.presetKey(key)
	}
	return a, a.setupKey(key)
}

func (a *App) presetKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "up", "k":
		a.cursor = max(a.cursor-1, 0)
	case "down", "j":
		a.cursor = min(a.cursor+1, len(a.presets)-1)
	case "enter", " ":
		if len(a.presets) > 0 {
			a.preset = a.presets[a.cursor]
			a.state, a.fieldCursor, a.err = stateSetup, 0, ""
		}
	}
	return nil
}

func (a *App) setupKey(msg tea.KeyMsg) tea.Cmd {
	if a.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(a.editBuf, 64); err == nil {
				a.fields[a.fieldCursor].value = v
			} else {
				a.err = fmt.Sprintf("not a number: %q", a.editBuf)
			}
			a.editing, a.editBuf = false, ""
		case "esc":
			a.editing, a.editBuf = false, ""
		case "backspace":
			if len(a.editBuf) > 0 {
				a.editBuf = a.editBuf[:len(a.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 && strings.ContainsAny(s, "0123456789.-") {
				a.editBuf += s
			}
		}
		return nil
	}
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "q", "esc":
		a.state = statePresets
	case "up", "k":
		a.fieldCursor = max(a.fieldCursor-1, 0)
	case "down", "j":
		a.fieldCursor = min(a.fieldCursor+1, len(a.fields)-1)
	case "left", "h":
		a.fields[a.fieldCursor].value = max(a.fields[a.fieldCursor].value-1, 0)
	case "right", "l":
		a.fields[a.fieldCursor].value++
	case "enter", " ":
		a.editing, a.err = true, ""
		a.editBuf = strconv.FormatFloat(a.fields[a.fieldCursor].value, 'f', -1, 64)
	case "s":
		return a.start()
	}
	return nil
}

// start builds an engine from the chosen preset and switches to live view.
func (a *App) start() tea.Cmd {
	cfg := config.GetPreset(a.preset)
	opts := []physics.Option{physics.WithLogger(a.logger)}
	if seed := int64(a.field("seed")); seed != 0 {
		opts = append(opts, physics.WithSeed(seed))
	}
	eng, err := physics.New(a.layout, cfg, opts...)
	if err != nil {
		a.err = err.Error()
		return nil
	}
	a.live = NewModel(eng, Options{
		Title:         "wheelsim · " + a.preset,
		Randomize:     a.field("randomize") != 0,
		TicksPerFrame: int(a.field("ticks/frame")),
		Auto:          a.field("auto") != 0,
	})
	a.state = stateLive
	return a.live.Init()
}

func (a *App) View() string {
	switch a.state {
	case stateSetup:
		return a.viewSetup()
	case stateLive:
		return a.live.View()
	}
	return a.viewPresets()
}

func (a *App) title(name, sub string) string {
	t := CurrentTheme
	h := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	m := lipgloss.NewStyle().Foreground(t.Muted)
	return "\n\n    " + h.Render(name) + "\n    " + m.Render(sub) + "\n    " + Separator(25) + "\n\n"
}

func (a *App) menuLine(selected bool, name, desc string) string {
	t := CurrentTheme
	if selected {
		return fmt.Sprintf("    %s %s  %s\n",
			lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Render("▸"),
			lipgloss.NewStyle().Foreground(t.Text).Bold(true).Render(fmt.Sprintf("%-14s", name)),
			lipgloss.NewStyle().Foreground(t.Primary).Render(desc))
	}
	dim := lipgloss.NewStyle().Foreground(t.Muted)
	return fmt.Sprintf("    %s  %s\n", dim.Render(fmt.Sprintf("  %-14s", name)), dim.Render(desc))
}

func (a *App) hints(pairs ...string) string {
	t := CurrentTheme
	k := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	d := lipgloss.NewStyle().Foreground(t.Muted)
	var b strings.Builder
	b.WriteString("\n    ")
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(k.Render(pairs[i]) + d.Render(" "+pairs[i+1]+"  "))
	}
	return b.String() + "\n"
}

func (a *App) viewPresets() string {
	var b strings.Builder
	b.WriteString(a.title("WHEELSIM", "roulette wheel physics"))
	for i, name := range a.presets {
		b.WriteString(a.menuLine(i == a.cursor, name, presetInfo[name]))
	}
	b.WriteString(a.hints("j/k", "navigate", "enter", "select", "q", "quit"))
	return b.String()
}

func (a *App) viewSetup() string {
	var b strings.Builder
	b.WriteString(a.title(strings.ToUpper(a.preset), presetInfo[a.preset]))
	for i, f := range a.fields {
		val := strconv.FormatFloat(f.value, 'f', -1, 64)
		if a.editing && i == a.fieldCursor {
			val = a.editBuf + "_"
		}
		b.WriteString(a.menuLine(i == a.fieldCursor, f.name, fmt.Sprintf("%8s", val)))
	}
	if a.err != "" {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(a.err) + "\n")
	}
	b.WriteString(a.hints("j/k", "select", "h/l", "adjust", "enter", "edit", "s", "start", "esc", "back"))
	return b.String()
}

// RunInteractive opens the preset picker and then the live view.
func RunInteractive(l *layout.Layout, logger *log.Logger) error {
	_, err := tea.NewProgram(NewApp(l, logger), tea.WithAltScreen()).Run()
	return err
}
