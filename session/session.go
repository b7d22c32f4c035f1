// Package session drives one request/response exchange against the model
// backend at a time, keeping the in-memory chat and its observers consistent
// while chunks arrive, and committing the finished exchange to the store.
package session

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"termchat/internal/debug"
	"termchat/internal/llm"
	"termchat/internal/search"
	"termchat/store"
)

// State of the current exchange.
type State int

const (
	StateIdle State = iota
	StateSending
	StateAugmenting
	StateStreaming
	StateCommitting
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateAugmenting:
		return "augmenting"
	case StateStreaming:
		return "streaming"
	case StateCommitting:
		return "committing"
	}
	return "unknown"
}

var (
	// ErrBusy is returned when a submission arrives while an exchange is
	// active. New input is rejected rather than superseding the stream.
	ErrBusy = errors.New("an exchange is already in flight")
	// ErrEmptyInput is returned for empty or whitespace-only submissions.
	ErrEmptyInput = errors.New("empty input")
)

const searchContextPrompt = "Use the following web search results to help answer the user's question:\n\n"

// eventBuffer sizes the handoff channel to the foreground loop; sends block
// once the reader falls this far behind.
const eventBuffer = 64

// Session owns the active chat and the single in-flight exchange.
type Session struct {
	store     *store.Store
	client    llm.Client
	augmenter search.Augmenter
	model     string

	// maxSearchResults caps the augmenter output.
	maxSearchResults int

	mu     sync.Mutex
	state  State
	chat   *store.Chat
	cancel context.CancelFunc
}

// New instantiates a session with a fresh unsaved chat. The augmenter may be
// nil, in which case search submissions proceed without augmentation.
func New(s *store.Store, client llm.Client, augmenter search.Augmenter, model string, maxSearchResults int) *Session {
	return &Session{
		store:            s,
		client:           client,
		augmenter:        augmenter,
		model:            model,
		maxSearchResults: maxSearchResults,
		state:            StateIdle,
		chat:             store.NewChat(),
	}
}

// State returns the current exchange state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Chat returns the active chat. While an exchange is in flight the chat is
// owned by the background worker; callers should render from events instead.
func (s *Session) Chat() *store.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chat
}

// NewChat discards the active chat for a fresh unsaved one. The discarded
// chat stays in the store if it was ever saved.
func (s *Session) NewChat() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return ErrBusy
	}
	s.chat = store.NewChat()
	return nil
}

// LoadChat makes a stored chat the active one.
func (s *Session) LoadChat(id int64) (*store.Chat, error) {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.mu.Unlock()

	chat, err := s.store.GetChat(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return nil, ErrBusy
	}
	s.chat = chat
	return chat, nil
}

// DeleteChat removes a chat from the store. Deleting the active chat resets
// the session to a fresh unsaved chat and returns true; deleting the active
// chat of an in-flight exchange is rejected.
func (s *Session) DeleteChat(id int64) (bool, error) {
	s.mu.Lock()
	if s.state != StateIdle && s.chat.ID == id {
		s.mu.Unlock()
		return false, ErrBusy
	}
	s.mu.Unlock()

	if err := s.store.DeleteChat(id); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chat.ID == id {
		s.chat = store.NewChat()
		return true, nil
	}
	return false, nil
}

// Submit starts an exchange with the given user text. It returns a channel of
// events that closes when the session is idle again. Empty input returns
// ErrEmptyInput with no state change; a submission while an exchange is
// active returns ErrBusy.
func (s *Session) Submit(ctx context.Context, text string, useSearch bool) (<-chan Event, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return nil, ErrBusy
	}

	s.state = StateSending
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.chat.Append(store.RoleUser, text)
	messages := backendMessages(s.chat)

	events := make(chan Event, eventBuffer)
	go s.run(ctx, text, useSearch, messages, events)
	return events, nil
}

// Abort cancels the in-flight backend stream, if any. The aborted exchange
// surfaces its cancellation inline and is still committed with whatever
// partial content exists.
func (s *Session) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// backendMessages builds the backend-facing message list: the transcript
// without log messages. Callers hold s.mu.
func backendMessages(chat *store.Chat) []*llm.Message {
	messages := make([]*llm.Message, 0, len(chat.Messages))
	for _, message := range chat.Messages {
		if message.Role == store.RoleLog {
			continue
		}
		messages = append(messages, &llm.Message{
			Role:    string(message.Role),
			Content: message.Content,
		})
	}
	return messages
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// appendMessage grows the active chat on behalf of the background worker.
func (s *Session) appendMessage(role store.Role, content string) *store.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chat.Append(role, content)
}

func (s *Session) setMessageContent(message *store.Message, content string) {
	s.mu.Lock()
	message.Content = content
	s.mu.Unlock()
}

// run performs the blocking parts of the exchange: the augmenter call, the
// backend stream and the final save. It never touches the foreground
// directly; everything observable goes through the events channel.
func (s *Session) run(ctx context.Context, query string, useSearch bool, messages []*llm.Message, events chan<- Event) {
	log := debug.GetLogger()

	defer close(events)
	defer func() {
		s.mu.Lock()
		s.state = StateIdle
		s.cancel = nil
		s.mu.Unlock()
	}()

	if useSearch && s.augmenter != nil {
		s.setState(StateAugmenting)
		events <- SearchStartedMsg{Query: query}

		results := s.augmenter.Search(ctx, query, s.maxSearchResults)

		// The search context goes to the backend only; the transcript gets a
		// log message for audit instead.
		messages = append([]*llm.Message{{
			Role:    string(store.RoleSystem),
			Content: searchContextPrompt + results,
		}}, messages...)
		s.appendMessage(store.RoleLog, results)
		events <- SearchResultsMsg{Results: results}
	}

	s.setState(StateStreaming)

	var assistant *store.Message
	var accumulated strings.Builder
	var streamErr error

	stream, err := s.client.CreateChatStream(ctx, &llm.ChatStreamRequest{
		Model:    s.model,
		Messages: messages,
	})
	if err != nil {
		streamErr = err
	} else {
		defer stream.Close()
		for {
			event, err := stream.Recv()
			if err == io.EOF {
				break
			}
			if err != nil {
				streamErr = err
				break
			}
			if assistant == nil {
				assistant = s.appendMessage(store.RoleAssistant, "")
			}
			accumulated.WriteString(event.Token)
			s.setMessageContent(assistant, accumulated.String())
			events <- StreamChunkMsg{Content: accumulated.String()}
		}
	}

	if streamErr != nil {
		log.Error("backend stream failed", "err", streamErr)
		// Keep whatever partial text was shown and make the failure visible
		// inline rather than dropping it.
		if assistant == nil {
			assistant = s.appendMessage(store.RoleAssistant, "")
		}
		if accumulated.Len() > 0 {
			accumulated.WriteString("\n\n")
		}
		accumulated.WriteString("error: " + streamErr.Error())
		s.setMessageContent(assistant, accumulated.String())
		events <- StreamChunkMsg{Content: accumulated.String()}
	}
	events <- StreamDoneMsg{Err: streamErr}

	s.setState(StateCommitting)
	// SaveChat assigns the id, title, timestamps and persisted markers on
	// commit; holding s.mu keeps those writes synchronized with foreground
	// readers of the same chat.
	s.mu.Lock()
	chat := s.chat
	err = s.store.SaveChat(chat)
	s.mu.Unlock()
	if err != nil {
		log.Error("saving chat failed", "err", err)
		events <- SaveErrorMsg{Err: err}
		return
	}
	log.Debug("chat saved", "chat_id", chat.ID, "messages", len(chat.Messages))
	events <- ChatSavedMsg{ChatID: chat.ID}
}
