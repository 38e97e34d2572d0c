// Package styles contains Lip Gloss style definitions.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Deadline colors. Adaptive so they read on light and dark terminals.
var (
	OverdueColor  = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF6B6B"}
	DueTodayColor = lipgloss.AdaptiveColor{Light: "#B26A00", Dark: "#FFB454"}
	UpcomingColor = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#7FD88F"}
	DoneColor     = lipgloss.AdaptiveColor{Light: "#9E9E9E", Dark: "#6C6C6C"}
	TagColor      = lipgloss.AdaptiveColor{Light: "#5E35B1", Dark: "#B39DDB"}
	TitleColor    = lipgloss.AdaptiveColor{Light: "#1565C0", Dark: "#82AAFF"}

	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#BDBDBD", Dark: "#4E4E4E"}
)

var (
	OverdueStyle  = lipgloss.NewStyle().Foreground(OverdueColor).Bold(true)
	DueTodayStyle = lipgloss.NewStyle().Foreground(DueTodayColor)
	UpcomingStyle = lipgloss.NewStyle().Foreground(UpcomingColor)
	DoneStyle     = lipgloss.NewStyle().Foreground(DoneColor).Strikethrough(true)
	TagStyle      = lipgloss.NewStyle().Foreground(TagColor)
	TitleStyle    = lipgloss.NewStyle().Foreground(TitleColor).Bold(true)
	MutedStyle    = lipgloss.NewStyle().Foreground(DoneColor)
)

// SetColorEnabled switches color output on or off for every style. With
// color on, the profile is taken from the environment, so NO_COLOR and
// CLICOLOR_FORCE are still honored.
func SetColorEnabled(enabled bool) {
	if enabled {
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}
