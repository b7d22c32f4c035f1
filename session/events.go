package session

// Event is delivered on the channel returned by Submit. Events arrive in the
// order the exchange produced them; the channel closes once the session is
// idle again. Each event type doubles as a bubbletea message.
type Event interface {
	sessionEvent()
}

// SearchStartedMsg signals that the augmenter is running.
type SearchStartedMsg struct {
	Query string
}

// SearchResultsMsg carries the augmenter output that was recorded on the chat
// as a log message.
type SearchResultsMsg struct {
	Results string
}

// StreamChunkMsg carries the full accumulated assistant content after a chunk
// was applied.
type StreamChunkMsg struct {
	Content string
}

// StreamDoneMsg signals the end of the backend stream. Err is set when the
// stream failed; the partial content has already been made visible inline.
type StreamDoneMsg struct {
	Err error
}

// ChatSavedMsg signals that the exchange was committed. A chat list view
// should refresh its ordering on receipt.
type ChatSavedMsg struct {
	ChatID int64
}

// SaveErrorMsg signals that the final save failed; the transcript lives only
// in memory.
type SaveErrorMsg struct {
	Err error
}

func (SearchStartedMsg) sessionEvent() {}
func (SearchResultsMsg) sessionEvent() {}
func (StreamChunkMsg) sessionEvent()   {}
func (StreamDoneMsg) sessionEvent()    {}
func (ChatSavedMsg) sessionEvent()     {}
func (SaveErrorMsg) sessionEvent()     {}
