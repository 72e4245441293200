// Package ui holds the terminal colour themes used by the CLI, the REPL and
// the usage text. The active theme is process-wide and safe for concurrent
// use.
package ui

import (
	"os"
	"sync"
)

// Theme is a set of ANSI escape codes. Every field of NoColorTheme is empty.
type Theme struct {
	Name string

	Primary   string // operation names, prompts
	Secondary string // labels, defaults, dim text
	Success   string // matched expectations, "true"
	Warning   string // headings, absent results
	Error     string // faults, mismatches
	Value     string // decoded result values
	Bold      string
	Reset     string
}

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;39m",
		Secondary: "\033[38;5;245m",
		Success:   "\033[38;5;82m",
		Warning:   "\033[38;5;220m",
		Error:     "\033[38;5;196m",
		Value:     "\033[38;5;141m",
		Bold:      "\033[1m",
		Reset:     "\033[0m",
	}

	// LightTheme suits light terminal backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;27m",
		Secondary: "\033[38;5;240m",
		Success:   "\033[38;5;28m",
		Warning:   "\033[38;5;130m",
		Error:     "\033[38;5;124m",
		Value:     "\033[38;5;54m",
		Bold:      "\033[1m",
		Reset:     "\033[0m",
	}

	// NoColorTheme disables colour output.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme activates "dark", "light" or "none". Other names select dark.
func SetTheme(name string) {
	switch name {
	case "light":
		SetCurrentTheme(LightTheme)
	case "none":
		SetCurrentTheme(NoColorTheme)
	default:
		SetCurrentTheme(DarkTheme)
	}
}

// InitTheme picks the startup theme. Colour is off when noColor is set or
// when the NO_COLOR environment variable exists (https://no-color.org/).
func InitTheme(noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetCurrentTheme(DarkTheme)
}

// Paint wraps s in color and a reset, or returns s unchanged when color is
// empty.
func Paint(color, s string) string {
	if color == "" {
		return s
	}
	return color + s + GetCurrentTheme().Reset
}

// Colors adapts the active theme to interfaces that ask for individual
// codes, such as apperrors.ColorProvider.
type Colors struct{}

func (Colors) Yellow() string { return GetCurrentTheme().Warning }
func (Colors) Red() string    { return GetCurrentTheme().Error }
func (Colors) Green() string  { return GetCurrentTheme().Success }
func (Colors) Reset() string  { return GetCurrentTheme().Reset }
