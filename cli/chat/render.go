package chat

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"termchat/cli/chat/styles"
	"termchat/store"
)

// renderer wraps glamour for assistant markdown. A nil glamour renderer falls
// back to plain text.
type renderer struct {
	glamour *glamour.TermRenderer
	width   int
}

func newRenderer(width int) *renderer {
	if width < 1 {
		width = 1
	}
	gr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.Error("creating glamour renderer failed", "err", err)
		gr = nil
	}
	return &renderer{glamour: gr, width: width}
}

// markdown renders assistant content, falling back to the raw text on error.
func (r *renderer) markdown(content string) string {
	if r == nil || r.glamour == nil {
		return content
	}
	rendered, err := r.glamour.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

// renderMessages builds the viewport content from the transcript, honoring
// the logs toggle.
func (m *Model) renderMessages() string {
	var b strings.Builder
	for _, message := range m.messages {
		if message.role == store.RoleLog && !m.showLogs {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}

		switch message.role {
		case store.RoleUser:
			b.WriteString(styles.UserLabelStyle.Render("User:"))
			b.WriteString("\n")
			b.WriteString(message.content)
		case store.RoleLog:
			b.WriteString(styles.LogLabelStyle.Render("Search Results:"))
			b.WriteString("\n")
			b.WriteString(styles.LogContentStyle.Render(message.content))
		default:
			b.WriteString(styles.AssistantLabelStyle.Render("Assistant:"))
			b.WriteString("\n")
			b.WriteString(m.renderer.markdown(message.content))
		}
		b.WriteString("\n")
	}
	return b.String()
}
