package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	AccentBlue = lipgloss.Color("#3B82F6")
	SlateDark  = lipgloss.Color("#1F2937")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
	Amber      = lipgloss.Color("#F59E0B")
)

// Borders
var ActiveBorder = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(AccentBlue)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(AccentBlue)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Amber)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(AccentBlue).
			Padding(0, 1)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(AccentBlue)

	FilterStyle = lipgloss.NewStyle().
			Foreground(White)
)

// SpinnerFrames is the loading animation used across views
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
