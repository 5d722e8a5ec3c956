package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the color scheme of the fluid view.
type Theme struct {
	Name     string
	Particle lipgloss.Color
	Border   lipgloss.Color
	Accent   lipgloss.Color
	Muted    lipgloss.Color
	Warning  lipgloss.Color
}

var (
	ThemeOcean = Theme{
		Name:     "ocean",
		Particle: lipgloss.Color("#00a8cc"),
		Border:   lipgloss.Color("#4488aa"),
		Accent:   lipgloss.Color("#ffd700"),
		Muted:    lipgloss.Color("#335566"),
		Warning:  lipgloss.Color("#ff4444"),
	}

	ThemeRetroGreen = Theme{
		Name:     "retro",
		Particle: lipgloss.Color("#00ff00"),
		Border:   lipgloss.Color("#00cc00"),
		Accent:   lipgloss.Color("#88ff88"),
		Muted:    lipgloss.Color("#005500"),
		Warning:  lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:     "minimal",
		Particle: lipgloss.Color("#ffffff"),
		Border:   lipgloss.Color("#888888"),
		Accent:   lipgloss.Color("#0088ff"),
		Muted:    lipgloss.Color("#444444"),
		Warning:  lipgloss.Color("#ffaa00"),
	}

	ThemeSunset = Theme{
		Name:     "sunset",
		Particle: lipgloss.Color("#ff6b6b"),
		Border:   lipgloss.Color("#feca57"),
		Accent:   lipgloss.Color("#ff9ff3"),
		Muted:    lipgloss.Color("#8b6b8c"),
		Warning:  lipgloss.Color("#ff4757"),
	}

	Themes = []Theme{
		ThemeOcean,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to ocean.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeOcean
}

// NextTheme returns the theme after the named one, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
