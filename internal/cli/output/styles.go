package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used for text output.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Path    lipgloss.Style

	StatusSuccess lipgloss.Style
	StatusSkipped lipgloss.Style
	StatusFailed  lipgloss.Style
}

// NewStyles builds styles for a lipgloss renderer. A renderer with the
// Ascii profile yields plain text.
func NewStyles(r *lipgloss.Renderer) *Styles {
	green := lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
	yellow := lipgloss.AdaptiveColor{Light: "#ca8a04", Dark: "#facc15"}
	red := lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
	blue := lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#60a5fa"}
	gray := lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}

	return &Styles{
		Header1: r.NewStyle().Bold(true).Underline(true),
		Header2: r.NewStyle().Bold(true).Foreground(blue),
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(gray),
		Info:    r.NewStyle().Foreground(blue),
		Success: r.NewStyle().Foreground(green),
		Warning: r.NewStyle().Foreground(yellow),
		Error:   r.NewStyle().Foreground(red),
		Path:    r.NewStyle().Foreground(blue),

		StatusSuccess: r.NewStyle().Foreground(green).Bold(true),
		StatusSkipped: r.NewStyle().Foreground(yellow),
		StatusFailed:  r.NewStyle().Foreground(red).Bold(true),
	}
}
