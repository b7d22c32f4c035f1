package chat

import (
	"context"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"termchat/cli/chat/styles"
	"termchat/internal/configuration"
	"termchat/internal/debug"
	"termchat/internal/history"
	"termchat/session"
	"termchat/store"
)

var log = debug.GetLogger()

// displayMessage is one transcript entry as rendered, decoupled from the
// session-owned chat.
type displayMessage struct {
	role    store.Role
	content string
}

// Model is the bubbletea model for the chat TUI.
type Model struct {
	ctx     context.Context
	config  *configuration.Config
	store   *store.Store
	session *session.Session

	// Sidebar state
	chats          []*store.ChatSummary
	selected       int
	sidebarVisible bool
	sidebarFocused bool

	// Transcript state
	messages []displayMessage
	showLogs bool

	// Streaming state
	events    <-chan session.Event
	streaming bool

	searchEnabled bool
	status        string
	statusIsError bool

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	renderer *renderer
	history  *history.History

	width    int
	height   int
	ready    bool
	quitting bool
}

// NewModel creates the TUI model around an idle session.
func NewModel(ctx context.Context, config *configuration.Config, s *store.Store, sess *session.Session) *Model {
	ta := textarea.New()
	ta.Placeholder = "Type a message..."
	ta.Prompt = "┃ "
	ta.SetHeight(styles.MinTextareaHeight)
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.SecondaryColor)

	historyPath := filepath.Join(os.TempDir(), "termchat_history")

	m := &Model{
		ctx:            ctx,
		config:         config,
		store:          s,
		session:        sess,
		selected:       -1,
		sidebarVisible: true,
		searchEnabled:  config.Search.Enabled,
		textarea:       ta,
		spinner:        sp,
		history:        history.New(historyPath),
	}
	m.resetTranscript(sess.Chat())
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.listChats())
}

// resetTranscript rebuilds the display messages from a chat.
func (m *Model) resetTranscript(chat *store.Chat) {
	m.messages = nil
	for _, message := range chat.Messages {
		m.messages = append(m.messages, displayMessage{
			role:    message.Role,
			content: message.Content,
		})
	}
}

// appendDisplay adds a transcript entry and keeps the viewport pinned to the
// bottom.
func (m *Model) appendDisplay(role store.Role, content string) {
	m.messages = append(m.messages, displayMessage{role: role, content: content})
	m.refreshViewport()
}

// setGrowingContent updates the growing assistant entry, creating it on the
// first chunk.
func (m *Model) setGrowingContent(content string) {
	if n := len(m.messages); n > 0 && m.messages[n-1].role == store.RoleAssistant {
		m.messages[n-1].content = content
	} else {
		m.messages = append(m.messages, displayMessage{role: store.RoleAssistant, content: content})
	}
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

func (m *Model) setStatus(text string) {
	m.status = text
	m.statusIsError = false
}

func (m *Model) setError(err error) {
	if err == nil {
		return
	}
	log.Error("ui error", "err", err)
	m.status = err.Error()
	m.statusIsError = true
}
