package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.Color("#1ec8a5")
	colorMuted   = lipgloss.Color("#7A869A")
	colorError   = lipgloss.Color("#EF5B5B")
	colorSuccess = lipgloss.Color("#3FB68B")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	eyebrowStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5B8DEF")).
			Padding(0, 1)

	navStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	navActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0B1D2A")).
			Background(colorAccent).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)

	errorStyle = lipgloss.NewStyle().Foreground(colorError).Bold(true)

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)

	chipOnlineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0B1D2A")).
			Background(colorSuccess).
			Padding(0, 1)

	chipOfflineStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(colorError).
				Padding(0, 1)
)

// accentStyle はサイト設定のアクセント色で見出しを描く。不正な色の場合は既定の色を使う。
func accentStyle(hex string) lipgloss.Style {
	if len(hex) != 7 || hex[0] != '#' {
		return titleStyle
	}
	return titleStyle.Foreground(lipgloss.Color(hex))
}
