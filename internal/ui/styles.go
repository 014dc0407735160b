package ui

import "github.com/charmbracelet/lipgloss"

// Styles are the Lip Gloss styles of the interactive form.
type Styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Muted    lipgloss.Style
	Help     lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Button   lipgloss.Style
	ButtonOn lipgloss.Style
	Banner   lipgloss.Style
	Frame    lipgloss.Style
}

// NewStyles derives the TUI styles from the current theme.
func NewStyles() Styles {
	t := Current()
	s := Styles{
		Title:    lipgloss.NewStyle().Bold(true),
		Label:    lipgloss.NewStyle().Bold(true),
		Focused:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.TUIAccent)),
		Muted:    lipgloss.NewStyle().Faint(true),
		Help:     lipgloss.NewStyle().Faint(true),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.TUISuccess)),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.TUIError)).Bold(true),
		Button:   lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.NormalBorder()),
		ButtonOn: lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.NormalBorder()).Bold(true).Reverse(true),
		Banner:   lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()),
		Frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.TUIBorder)).
			Padding(0, 1),
	}
	if t.Name == "mono" {
		s.Focused = lipgloss.NewStyle().Bold(true).Underline(true)
		s.Success = lipgloss.NewStyle()
		s.Error = lipgloss.NewStyle().Bold(true)
		s.Frame = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
	}
	return s
}
