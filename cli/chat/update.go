package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"termchat/cli/chat/styles"
	"termchat/session"
	"termchat/store"
)

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalculateLayout()
		if !m.ready {
			m.ready = true
		}
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.streaming {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	// Session events.
	case session.SearchStartedMsg:
		m.setStatus("Searching the web...")
		return m, m.waitForEvent()

	case session.SearchResultsMsg:
		m.appendDisplay(store.RoleLog, msg.Results)
		m.setStatus("Thinking...")
		return m, m.waitForEvent()

	case session.StreamChunkMsg:
		m.setGrowingContent(msg.Content)
		m.setStatus("")
		return m, m.waitForEvent()

	case session.StreamDoneMsg:
		if msg.Err != nil {
			m.setStatus("response interrupted")
		}
		return m, m.waitForEvent()

	case session.ChatSavedMsg:
		return m, tea.Batch(m.waitForEvent(), m.listChats())

	case session.SaveErrorMsg:
		m.setError(msg.Err)
		return m, m.waitForEvent()

	case streamClosedMsg:
		m.streaming = false
		m.events = nil
		return m, nil

	// Command results.
	case chatsLoadedMsg:
		m.chats = msg.chats
		if m.selected >= len(m.chats) {
			m.selected = len(m.chats) - 1
		}
		return m, nil

	case chatLoadedMsg:
		m.resetTranscript(msg.chat)
		m.refreshViewport()
		m.setStatus("")
		m.sidebarFocused = false
		m.textarea.Focus()
		return m, textarea.Blink

	case chatDeletedMsg:
		if msg.reset {
			m.messages = nil
			m.refreshViewport()
			m.selected = -1
		}
		return m, m.listChats()

	case errMsg:
		m.setError(msg.err)
		return m, nil
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		m.session.Abort()
		return m, tea.Quit

	case "esc":
		if m.streaming {
			m.session.Abort()
			return m, nil
		}

	case "ctrl+n":
		if err := m.session.NewChat(); err != nil {
			m.setError(err)
			return m, nil
		}
		m.messages = nil
		m.refreshViewport()
		m.selected = -1
		m.setStatus("new chat")
		return m, nil

	case "ctrl+b":
		m.sidebarVisible = !m.sidebarVisible
		if !m.sidebarVisible {
			m.sidebarFocused = false
			m.textarea.Focus()
		}
		m.recalculateLayout()
		m.refreshViewport()
		return m, nil

	case "ctrl+f":
		m.searchEnabled = !m.searchEnabled
		return m, nil

	case "ctrl+g":
		m.showLogs = !m.showLogs
		m.refreshViewport()
		return m, nil

	case "tab":
		if m.sidebarVisible {
			m.sidebarFocused = !m.sidebarFocused
			if m.sidebarFocused {
				m.textarea.Blur()
				if m.selected == -1 && len(m.chats) > 0 {
					m.selected = 0
				}
			} else {
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
		return m, nil
	}

	if m.sidebarFocused {
		return m.handleSidebarKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m *Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.chats)-1 {
			m.selected++
		}
	case "enter":
		if m.selected >= 0 && m.selected < len(m.chats) {
			return m, m.loadChat(m.chats[m.selected].ID)
		}
	case "ctrl+d":
		if m.selected >= 0 && m.selected < len(m.chats) {
			return m, m.deleteChat(m.chats[m.selected].ID)
		}
	}
	return m, nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m, m.sendMessage()

	case "alt+enter":
		m.textarea.InsertString("\n")
		m.adjustTextareaHeight()
		return m, nil

	case "alt+p":
		if entry, ok := m.history.Previous(m.textarea.Value()); ok {
			m.textarea.SetValue(entry)
			m.adjustTextareaHeight()
		}
		return m, nil

	case "alt+n":
		if entry, ok := m.history.Next(); ok {
			m.textarea.SetValue(entry)
			m.adjustTextareaHeight()
		}
		return m, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	m.history.Reset()
	m.adjustTextareaHeight()
	return m, cmd
}

// adjustTextareaHeight resizes the textarea based on content line count.
func (m *Model) adjustTextareaHeight() {
	lines := m.textarea.LineCount()
	if lines < styles.MinTextareaHeight {
		lines = styles.MinTextareaHeight
	}
	if lines > styles.MaxTextareaHeight {
		lines = styles.MaxTextareaHeight
	}
	if m.textarea.Height() != lines {
		m.textarea.SetHeight(lines)
		m.recalculateLayout()
	}
}

// recalculateLayout adjusts viewport and textarea dimensions.
func (m *Model) recalculateLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	contentWidth := m.width
	if m.sidebarVisible {
		contentWidth -= styles.SidebarWidth + 1
	}

	viewportHeight := m.height - styles.HeaderHeight - styles.StatusHeight -
		m.textarea.Height() - styles.InputBorderHeight
	if viewportHeight < styles.MinViewportHeight {
		viewportHeight = styles.MinViewportHeight
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, viewportHeight)
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = viewportHeight
	}
	m.textarea.SetWidth(contentWidth - 2)
	m.renderer = newRenderer(contentWidth - 2)
}
