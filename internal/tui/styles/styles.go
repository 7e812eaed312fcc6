package styles

import "github.com/charmbracelet/lipgloss"

type Style struct {
	Color       Color
	Doc         lipgloss.Style
	TitleBar    lipgloss.Style
	SubtitleBar lipgloss.Style
	Lane        lipgloss.Style
	Badge       lipgloss.Style
	VehicleName lipgloss.Style
	FinishLine  lipgloss.Style
	FinishTitle lipgloss.Style
	FinishBody  lipgloss.Style
	Green       lipgloss.Style
	Yellow      lipgloss.Style
	Subtle      lipgloss.Style
}

type Color struct {
	Red               lipgloss.Color
	Yellow            lipgloss.Color
	Green             lipgloss.Color
	Blue              lipgloss.Color
	Light             lipgloss.Color
	Dark              lipgloss.Color
	Subtle            lipgloss.AdaptiveColor
	PrimaryForeground lipgloss.AdaptiveColor
}

func Default() *Style {
	red := lipgloss.Color("#CF040E")
	yellow := lipgloss.Color("#FAD105")
	green := lipgloss.Color("#17C81D")
	blue := lipgloss.Color("#1277EF")
	light := lipgloss.Color("#D1D4DD")
	dark := lipgloss.Color("#383838")
	subtle := lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	primaryForeground := lipgloss.AdaptiveColor{Light: "#383838", Dark: "#D9DCCF"}

	return &Style{
		Color: Color{
			Red:               red,
			Yellow:            yellow,
			Green:             green,
			Blue:              blue,
			Light:             light,
			Dark:              dark,
			Subtle:            subtle,
			PrimaryForeground: primaryForeground,
		},
		Doc: lipgloss.NewStyle().Margin(1, 1),
		// header styles
		TitleBar: lipgloss.NewStyle().
			Align(lipgloss.Center).
			Bold(true).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(primaryForeground).
			Foreground(primaryForeground),
		SubtitleBar: lipgloss.NewStyle().
			Align(lipgloss.Center).
			Foreground(primaryForeground),
		// track styles
		Lane: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(subtle),
		Badge: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1),
		VehicleName: lipgloss.NewStyle().Foreground(primaryForeground),
		FinishLine:  lipgloss.NewStyle().Foreground(red).Bold(true),
		// finish sequence banner
		FinishTitle: lipgloss.NewStyle().
			Background(dark).
			Bold(true).
			Foreground(light).
			Padding(0, 1),
		FinishBody: lipgloss.NewStyle().
			Bold(true).
			Foreground(blue).
			Padding(0, 1),
		Green:  lipgloss.NewStyle().Foreground(green),
		Yellow: lipgloss.NewStyle().Foreground(yellow),
		Subtle: lipgloss.NewStyle().Foreground(subtle),
	}
}
