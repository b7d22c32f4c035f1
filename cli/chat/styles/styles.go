package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Layout constants
const (
	SidebarWidth      = 28
	MinTextareaHeight = 1
	MaxTextareaHeight = 6
	InputBorderHeight = 2
	HeaderHeight      = 1
	StatusHeight      = 1
	MinViewportHeight = 1
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7C3AED") // Purple
	SecondaryColor = lipgloss.Color("#06B6D4") // Cyan
	AccentColor    = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#EF4444") // Red
	TextColor      = lipgloss.Color("#F9FAFB") // Light gray
	DimTextColor   = lipgloss.Color("#9CA3AF") // Dim gray
	BorderColor    = lipgloss.Color("#4B5563")
)

// Title bar
var (
	TitleStyle = lipgloss.NewStyle().
			Background(PrimaryColor).
			Foreground(TextColor).
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(DimTextColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)
)

// Sidebar
var (
	SidebarStyle = lipgloss.NewStyle().
			Width(SidebarWidth).
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(BorderColor)

	SidebarTitleStyle = lipgloss.NewStyle().
				Foreground(AccentColor).
				Bold(true)

	ChatItemStyle = lipgloss.NewStyle().
			Foreground(DimTextColor)

	ChatItemSelectedStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Background(PrimaryColor)
)

// Messages
var (
	UserLabelStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	AssistantLabelStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor).
				Bold(true)

	LogLabelStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Bold(true)

	LogContentStyle = lipgloss.NewStyle().
			Foreground(DimTextColor)
)

// Input
var (
	TextAreaStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor)
)
