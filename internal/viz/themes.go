package viz

import "github.com/charmbracelet/lipgloss"

// Theme is a colour scheme for the live view.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	// pocket badges
	Red, Black, Green lipgloss.Color
}

var (
	ThemeFelt = Theme{
		Name:    "felt",
		Primary: lipgloss.Color("#3ddc84"),
		Accent:  lipgloss.Color("#ffd24a"),
		Text:    lipgloss.Color("#f2f2f2"),
		Muted:   lipgloss.Color("#5f7f6a"),
		Success: lipgloss.Color("#3ddc84"),
		Warning: lipgloss.Color("#ffb020"),
		Error:   lipgloss.Color("#ff4b4b"),
		Red:     lipgloss.Color("#d7263d"),
		Black:   lipgloss.Color("#202020"),
		Green:   lipgloss.Color("#0b8f3c"),
	}

	ThemeNeon = Theme{
		Name:    "neon",
		Primary: lipgloss.Color("#ff00ff"),
		Accent:  lipgloss.Color("#00ffff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Success: lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff4444"),
		Red:     lipgloss.Color("#ff2e63"),
		Black:   lipgloss.Color("#1a1a2e"),
		Green:   lipgloss.Color("#08d9d6"),
	}

	ThemeRetro = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Success: lipgloss.Color("#88ff88"),
		Warning: lipgloss.Color("#ffff00"),
		Error:   lipgloss.Color("#ff0000"),
		Red:     lipgloss.Color("#00cc00"),
		Black:   lipgloss.Color("#003300"),
		Green:   lipgloss.Color("#88ff88"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Success: lipgloss.Color("#00ff00"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff0000"),
		Red:     lipgloss.Color("#cc3333"),
		Black:   lipgloss.Color("#333333"),
		Green:   lipgloss.Color("#33aa55"),
	}

	CurrentTheme = ThemeFelt

	Themes = []Theme{ThemeFelt, ThemeNeon, ThemeRetro, ThemeMinimal}
)

// GetTheme returns the named theme, or felt when the name is unknown.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeFelt
}

func SetTheme(name string) { CurrentTheme = GetTheme(name) }

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = ThemeFelt
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
