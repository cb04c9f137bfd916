package dashboard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-echarts/go-echarts/v2/types"
)

// ThemeMode is the light/dark display preference.
type ThemeMode string

const (
	ThemeDark  ThemeMode = "dark"
	ThemeLight ThemeMode = "light"
)

// DefaultThemeMode is used for viewers without a stored preference.
const DefaultThemeMode = ThemeDark

// ParseThemeMode validates a user supplied mode.
func ParseThemeMode(value string) (ThemeMode, error) {
	switch mode := ThemeMode(strings.ToLower(strings.TrimSpace(value))); mode {
	case ThemeDark, ThemeLight:
		return mode, nil
	default:
		return "", fmt.Errorf("%w %q", ErrInvalidThemeMode, value)
	}
}

// Toggle returns the opposite mode.
func (m ThemeMode) Toggle() ThemeMode {
	if m == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// ToggleLabel is the command palette label for switching away from m.
func (m ThemeMode) ToggleLabel() string {
	if m == ThemeLight {
		return "Switch to Dark Mode"
	}
	return "Switch to Light Mode"
}

// ThemeSelection carries resolved theme tokens for templates and charts.
type ThemeSelection struct {
	Mode       ThemeMode
	Tokens     map[string]string
	ChartTheme string
}

var themeTokens = map[ThemeMode]map[string]string{
	ThemeDark: {
		"bg":            "#0a0e1a",
		"surface":       "#131a2b",
		"text":          "#e6e9f2",
		"text-muted":    "#8b93a7",
		"border":        "rgba(255,255,255,0.08)",
		"accent":        "#00d4ff",
		"accent-purple": "#7c4dff",
		"success":       "#00e676",
		"warning":       "#ffab40",
	},
	ThemeLight: {
		"bg":            "#f5f7fb",
		"surface":       "#ffffff",
		"text":          "#1b2133",
		"text-muted":    "#5f6b85",
		"border":        "rgba(0,0,0,0.08)",
		"accent":        "#0097c4",
		"accent-purple": "#6236ff",
		"success":       "#00a152",
		"warning":       "#f57c00",
	},
}

// ThemeFor resolves the tokens and chart theme for a mode. Unknown modes fall
// back to DefaultThemeMode.
func ThemeFor(mode ThemeMode) *ThemeSelection {
	if _, ok := themeTokens[mode]; !ok {
		mode = DefaultThemeMode
	}
	tokens := make(map[string]string, len(themeTokens[mode]))
	for key, value := range themeTokens[mode] {
		tokens[key] = value
	}
	chartTheme := types.ThemeChalk
	if mode == ThemeLight {
		chartTheme = types.ThemeWesteros
	}
	return &ThemeSelection{Mode: mode, Tokens: tokens, ChartTheme: chartTheme}
}

// CSSVariables normalizes token keys into CSS variable names.
func (theme *ThemeSelection) CSSVariables() map[string]string {
	if theme == nil || len(theme.Tokens) == 0 {
		return nil
	}
	vars := make(map[string]string, len(theme.Tokens))
	for key, value := range theme.Tokens {
		name := normalizeCSSVariable(key)
		if name == "" {
			continue
		}
		vars[name] = value
	}
	return vars
}

// CSSVariablesInline renders the CSS variable map as a style string with keys
// in sorted order.
func (theme *ThemeSelection) CSSVariablesInline() string {
	vars := theme.CSSVariables()
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var builder strings.Builder
	for _, key := range keys {
		if vars[key] == "" {
			continue
		}
		builder.WriteString(key)
		builder.WriteString(": ")
		builder.WriteString(vars[key])
		builder.WriteString("; ")
	}
	return strings.TrimSpace(builder.String())
}

func normalizeCSSVariable(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "--") {
		return name
	}
	return "--" + name
}
