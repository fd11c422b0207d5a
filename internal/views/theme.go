package views

import "github.com/charmbracelet/lipgloss"

// Palette is the Catppuccin Mocha subset the contact book draws with.
type Palette struct {
	Red      string
	Green    string
	Blue     string
	Lavender string
	Text     string
	Subtext0 string
	Overlay1 string
	Surface1 string
	Surface0 string
}

var Colours = Palette{
	Red:      "#f38ba8",
	Green:    "#a6e3a1",
	Blue:     "#89b4fa",
	Lavender: "#b4befe",
	Text:     "#cdd6f4",
	Subtext0: "#a6adc8",
	Overlay1: "#7f849c",
	Surface1: "#45475a",
	Surface0: "#313244",
}

func fg(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(Colours.Text)).
			Background(lipgloss.Color(Colours.Surface0)).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Colours.Text)).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Colours.Surface1))

	selectedCardStyle = cardStyle.
				BorderForeground(lipgloss.Color(Colours.Blue)).
				Background(lipgloss.Color(Colours.Surface0))

	labelStyle   = fg(Colours.Subtext0).Bold(true)
	emptyStyle   = fg(Colours.Overlay1).Padding(1, 0)
	controlStyle = fg(Colours.Overlay1).Padding(0, 1)

	editButtonStyle   = fg(Colours.Blue).Bold(true)
	deleteButtonStyle = fg(Colours.Red).Bold(true)

	formStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Colours.Lavender))

	modalStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(Colours.Red))

	errorStyle = fg(Colours.Red).Bold(true).Padding(0, 1)
)
