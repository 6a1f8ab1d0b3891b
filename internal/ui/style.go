package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Color scheme shared by every command.
var (
	PrimaryColor   = "#632CA6" // Datadog purple
	SecondaryColor = "#2563EB"

	SuccessColor = "#10B981"
	ErrorColor   = "#EF4444"
	WarningColor = "#F59E0B"
	InfoColor    = "#3B82F6"

	HeaderColor  = "#F9FAFB"
	TextColor    = "#E5E7EB"
	DimTextColor = "#9CA3AF"
	LinkColor    = "#60A5FA"

	BorderColor        = "#374151"
	AlternatingRowDark = "#1F2937"
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(HeaderColor)).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(SuccessColor))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ErrorColor))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(WarningColor))

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(InfoColor))

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(DimTextColor))

	LinkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(LinkColor)).
			Underline(true)

	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(PrimaryColor)).
			Bold(true).
			MarginBottom(1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(BorderColor)).
			Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(HeaderColor))

	TableRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(TextColor))
)

// out is where human-facing messages go. Standard output is reserved for
// the rewritten service definition.
var (
	out   io.Writer = os.Stderr
	plain bool
)

// SetOutput redirects messages, mainly for tests.
func SetOutput(w io.Writer) {
	out = w
}

// Output returns the current message writer.
func Output() io.Writer {
	return out
}

// SetPlain disables styling and spinners.
func SetPlain(p bool) {
	plain = p
}

// IsPlain reports whether styling is disabled.
func IsPlain() bool {
	return plain || IsCI()
}

// TerminalWidth is the width text is wrapped to.
func TerminalWidth() int {
	return 80
}

// IsCI reports whether we run under a CI system.
func IsCI() bool {
	return os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" || os.Getenv("TRAVIS") != ""
}

func render(style lipgloss.Style, text string) string {
	if IsPlain() {
		return text
	}
	return style.Render(text)
}
