package preview

import "github.com/charmbracelet/lipgloss"

// Theme colors the status panel and the unlit LEDs of the preview.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	// Off is drawn for black pixels so the panel grid stays visible.
	Off lipgloss.Color
}

var (
	ThemeDark = Theme{
		Name:    "dark",
		Primary: lipgloss.Color("#00ffff"),
		Accent:  lipgloss.Color("#ff00ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666666"),
		Success: lipgloss.Color("#00ff00"),
		Warning: lipgloss.Color("#ff8800"),
		Off:     lipgloss.Color("#000000"),
	}

	ThemePanel = Theme{
		Name:    "panel",
		Primary: lipgloss.Color("#ff6b6b"),
		Accent:  lipgloss.Color("#feca57"),
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Success: lipgloss.Color("#5fd068"),
		Warning: lipgloss.Color("#ffc048"),
		Off:     lipgloss.Color("#1a1a1a"),
	}

	ThemeRetro = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Success: lipgloss.Color("#88ff88"),
		Warning: lipgloss.Color("#ffff00"),
		Off:     lipgloss.Color("#001100"),
	}

	Themes = []Theme{ThemeDark, ThemePanel, ThemeRetro}
)

// GetTheme returns a theme by name, falling back to the dark theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDark
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func nextTheme(cur Theme) Theme {
	for i, t := range Themes {
		if t.Name == cur.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
