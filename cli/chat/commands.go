package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"termchat/session"
	"termchat/store"
)

// Messages produced by background commands.
type (
	chatsLoadedMsg struct {
		chats []*store.ChatSummary
	}
	chatLoadedMsg struct {
		chat *store.Chat
	}
	chatDeletedMsg struct {
		id int64
		// reset reports that the deleted chat was the active one and the
		// session moved to a fresh chat.
		reset bool
	}
	streamClosedMsg struct{}
	errMsg          struct {
		err error
	}
)

// listChats refreshes the sidebar entries.
func (m *Model) listChats() tea.Cmd {
	return func() tea.Msg {
		chats, err := m.store.ListChats()
		if err != nil {
			return errMsg{err}
		}
		return chatsLoadedMsg{chats}
	}
}

// loadChat makes a stored chat the active one.
func (m *Model) loadChat(id int64) tea.Cmd {
	return func() tea.Msg {
		chat, err := m.session.LoadChat(id)
		if err != nil {
			return errMsg{err}
		}
		return chatLoadedMsg{chat}
	}
}

// deleteChat removes a chat from the store.
func (m *Model) deleteChat(id int64) tea.Cmd {
	return func() tea.Msg {
		reset, err := m.session.DeleteChat(id)
		if err != nil {
			return errMsg{err}
		}
		return chatDeletedMsg{id: id, reset: reset}
	}
}

// waitForEvent forwards the next session event to the update loop; a closed
// channel means the exchange reached idle.
func (m *Model) waitForEvent() tea.Cmd {
	events := m.events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return streamClosedMsg{}
		}
		return event
	}
}

// sendMessage submits the textarea content and starts consuming events.
func (m *Model) sendMessage() tea.Cmd {
	text := m.textarea.Value()

	events, err := m.session.Submit(m.ctx, text, m.searchEnabled)
	if err == session.ErrEmptyInput {
		return nil
	}
	if err == session.ErrBusy {
		m.setStatus("a response is still streaming")
		return nil
	}
	if err != nil {
		m.setError(err)
		return nil
	}

	m.history.Add(text)
	m.textarea.Reset()
	m.events = events
	m.streaming = true
	m.appendDisplay(store.RoleUser, strings.TrimSpace(text))
	m.setStatus("Thinking...")
	return tea.Batch(m.waitForEvent(), m.spinner.Tick)
}
