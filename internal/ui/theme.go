package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for the account screen.
type Theme struct {
	Name string

	Text    string
	Muted   string
	Accent  string
	Success string
	Warning string
	Danger  string

	Surface     string
	Border      string
	BorderFocus string
}

var themes = []Theme{
	{
		Name:        "Feather",
		Text:        "#c6d0f5",
		Muted:       "#838ba7",
		Accent:      "#8caaee",
		Success:     "#a6d189",
		Warning:     "#e5c890",
		Danger:      "#e78284",
		Surface:     "#292c3c",
		Border:      "#51576d",
		BorderFocus: "#8caaee",
	},
	{
		Name:        "Night",
		Text:        "#d8dee9",
		Muted:       "#616e88",
		Accent:      "#88c0d0",
		Success:     "#a3be8c",
		Warning:     "#ebcb8b",
		Danger:      "#bf616a",
		Surface:     "#2e3440",
		Border:      "#4c566a",
		BorderFocus: "#88c0d0",
	},
	{
		Name:        "Paper",
		Text:        "#4c4f69",
		Muted:       "#9ca0b0",
		Accent:      "#1e66f5",
		Success:     "#40a02b",
		Warning:     "#df8e1d",
		Danger:      "#d20f39",
		Surface:     "#e6e9ef",
		Border:      "#acb0be",
		BorderFocus: "#1e66f5",
	},
}

// GetTheme returns the theme with the given name, or the first theme when
// the name is unknown.
func GetTheme(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

// NextTheme returns the name of the theme after the given one, wrapping.
func NextTheme(name string) string {
	for i, t := range themes {
		if t.Name == name {
			return themes[(i+1)%len(themes)].Name
		}
	}
	return themes[0].Name
}

// Styles holds the lipgloss styles derived from a theme.
type Styles struct {
	Title     lipgloss.Style
	Handle    lipgloss.Style
	Badge     lipgloss.Style
	BadgeOff  lipgloss.Style
	Bio       lipgloss.Style
	Counts    lipgloss.Style
	FieldName lipgloss.Style
	Verified  lipgloss.Style
	TagChip   lipgloss.Style
	TabOn     lipgloss.Style
	TabOff    lipgloss.Style
	Status    lipgloss.Style
	Meta      lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Toast     lipgloss.Style
	Footer    lipgloss.Style
}

// Styles returns lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Text)),
		Handle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),
		Badge: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Surface)).
			Background(lipgloss.Color(t.Success)).
			Padding(0, 1),
		BadgeOff: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),
		Bio: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),
		Counts: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
		FieldName: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Muted)),
		Verified: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)),
		TagChip: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Background(lipgloss.Color(t.Surface)).
			Padding(0, 1),
		TabOn: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Accent)).
			Underline(true),
		TabOff: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),
		Meta: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Danger)),
		Toast: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Surface)).
			Background(lipgloss.Color(t.Danger)).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
	}
}
