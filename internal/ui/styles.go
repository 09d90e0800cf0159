package ui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	ColorRed     = lipgloss.Color("#FF5C5C")
	ColorGreen   = lipgloss.Color("#51CF66")
	ColorYellow  = lipgloss.Color("#F59F00")
	ColorCyan    = lipgloss.Color("#00FFFF")
	ColorPurple  = lipgloss.Color("#8B5CF6")
	ColorGray    = lipgloss.Color("#666666")
	ColorDimGray = lipgloss.Color("#444444")
	ColorWhite   = lipgloss.Color("#FFFFFF")
)

// Base styles reused by UI components.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	StatValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	StatLabelStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	BadgePipelineStyle = lipgloss.NewStyle().
				Foreground(ColorCyan)

	BadgeFeedbackStyle = lipgloss.NewStyle().
				Foreground(ColorGreen)

	BadgeErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	WinnerStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	ScoreStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	LiveBadgeStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	EndedBadgeStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	ActiveStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	TimestampStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	SectionTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorWhite)

	TabStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	TabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	PreprocessingStyle = lipgloss.NewStyle().
				Foreground(ColorPurple)

	TagStyle = lipgloss.NewStyle().
			Foreground(ColorPurple)

	LocationStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)
)
