package render

import (
	"github.com/charmbracelet/glamour/styles"
)

// Markdown style names accepted in configuration
const (
	ThemeDark       = "dark"
	ThemeLight      = "light"
	ThemeTokyoNight = "tokyonight"
	ThemeDracula    = "dracula"
	ThemePink       = "pink"
	ThemeASCII      = "ascii"
	ThemeNoTTY      = "notty"
)

// styleAliases maps configuration names onto glamour's standard styles.
// TUI theme names without a glamour counterpart fall back to dark.
var styleAliases = map[string]string{
	ThemeDark:       styles.DarkStyle,
	ThemeLight:      styles.LightStyle,
	ThemeTokyoNight: styles.TokyoNightStyle,
	"tokyo-night":   styles.TokyoNightStyle,
	ThemeDracula:    styles.DraculaStyle,
	ThemePink:       styles.PinkStyle,
	ThemeASCII:      styles.AsciiStyle,
	ThemeNoTTY:      styles.NoTTYStyle,
	"catppuccin":    styles.DarkStyle,
	"nord":          styles.DarkStyle,
}

// ResolveStyle returns the glamour standard style for name. ok is false when
// name is not a known style, in which case it is treated as a JSON style path.
func ResolveStyle(name string) (string, bool) {
	style, ok := styleAliases[name]
	return style, ok
}

// IsBuiltinStyle reports whether style names a bundled glamour style
func IsBuiltinStyle(style string) bool {
	_, ok := ResolveStyle(style)
	return ok
}

// ThemeInfo contains information about a theme for display purposes.
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes lists the markdown styles offered to users
func AvailableThemes() []ThemeInfo {
	return []ThemeInfo{
		{Name: ThemeDark, Description: "Dark theme (default)"},
		{Name: ThemeTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: ThemeLight, Description: "Light theme for bright terminals"},
		{Name: ThemeDracula, Description: "Dracula color scheme"},
		{Name: ThemePink, Description: "Pink accents"},
		{Name: ThemeNoTTY, Description: "Plain text (no styling)"},
		{Name: ThemeASCII, Description: "ASCII-only output"},
	}
}

// ThemeNames returns just the theme names for selection.
func ThemeNames() []string {
	themes := AvailableThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
