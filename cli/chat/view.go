package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"termchat/cli/chat/styles"
)

// View renders the model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		m.viewport.View(),
		m.renderStatus(),
		styles.TextAreaStyle.Render(m.textarea.View()),
	)

	if !m.sidebarVisible {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main)
}

func (m *Model) renderTitle() string {
	searchStr := "off"
	if m.searchEnabled {
		searchStr = "on"
	}
	logsStr := "off"
	if m.showLogs {
		logsStr = "on"
	}
	title := fmt.Sprintf(" %s │ search: %s │ logs: %s ", m.config.Model, searchStr, logsStr)

	width := m.width
	if m.sidebarVisible {
		width -= styles.SidebarWidth + 1
	}
	return styles.TitleStyle.Width(width).Render(title)
}

func (m *Model) renderStatus() string {
	if m.streaming && m.status != "" {
		return m.spinner.View() + " " + styles.StatusStyle.Render(m.status)
	}
	if m.statusIsError {
		return styles.ErrorStyle.Render(m.status)
	}
	return styles.StatusStyle.Render(m.status)
}

func (m *Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(styles.SidebarTitleStyle.Render("Chat History"))
	b.WriteString("\n\n")

	if len(m.chats) == 0 {
		b.WriteString(styles.ChatItemStyle.Render("no chats yet"))
	}
	for i, chat := range m.chats {
		title := chat.Title
		if runes := []rune(title); len(runes) > styles.SidebarWidth-2 {
			title = string(runes[:styles.SidebarWidth-5]) + "..."
		}
		line := title
		if m.sidebarFocused && i == m.selected {
			line = styles.ChatItemSelectedStyle.Render(title)
		} else {
			line = styles.ChatItemStyle.Render(title)
		}
		b.WriteString(line)
		b.WriteString("\n")
		b.WriteString(styles.ChatItemStyle.Render(
			"  " + time.UnixMicro(chat.UpdateTimestamp).Format("Jan 2 15:04")))
		b.WriteString("\n")
	}

	return styles.SidebarStyle.Height(m.height).Render(b.String())
}
