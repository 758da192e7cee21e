package terminal

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-verisure/pkg/banner"
)

// Styles holds the lipgloss styles a session prints with.
type Styles struct {
	Title   lipgloss.Style
	Banners map[banner.Kind]lipgloss.Style
	Content lipgloss.Style
	Alert   lipgloss.Style
	Label   lipgloss.Style
}

// DefaultStyles builds styles bound to w, so colour support is detected on
// the writer the session prints to.
func DefaultStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	bannerStyle := func(color string) lipgloss.Style {
		return r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(color)).
			PaddingLeft(1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(lipgloss.Color(color))
	}
	return Styles{
		Title: r.NewStyle().Bold(true).Underline(true),
		Banners: map[banner.Kind]lipgloss.Style{
			banner.Success: bannerStyle("2"),
			banner.Error:   bannerStyle("1"),
			banner.Warning: bannerStyle("3"),
			banner.Info:    bannerStyle("4"),
		},
		Content: r.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			Padding(0, 1),
		Alert: r.NewStyle().Bold(true).Reverse(true).Padding(0, 1),
		Label: r.NewStyle().Faint(true),
	}
}
