package cli

import (
	"fmt"
	"strings"

	"github.com/buger/goterm"
	"github.com/fatih/color"
)

var (
	// Colors.
	titleColor = color.New(color.FgGreen)
	chatColor  = color.New(color.FgCyan)
	timeColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed)

	width = goterm.Width()
)

// Title printed to cli.
func Title(text string, args ...any) {
	title := "      " + fmt.Sprintf(text, args...) + "      "
	leftWidth := (width - len(title)) / 2
	separator1 := strings.Repeat("-", leftWidth)
	separator2 := strings.Repeat("-", width-len(title)-len(separator1))
	titleColor.Printf("%s%s%s\n", separator1, title, separator2)
}

// ChatOutput printed to cli.
func ChatOutput(text string, args ...any) {
	chatColor.Printf(text, args...)
}

// TimeOutput printed to cli.
func TimeOutput(text string, args ...any) {
	timeColor.Printf(text, args...)
}

// ErrorOutput printed to cli.
func ErrorOutput(text string, args ...any) {
	errorColor.Printf(text, args...)
}
