package llm

import (
	"context"

	"github.com/pkg/errors"

	"termchat/internal/configuration"
)

// Message is the wire shape of one conversation turn.
type Message struct {
	Role    string
	Content string
}

// ChatStreamRequest describes one streaming exchange with the model backend.
type ChatStreamRequest struct {
	Model    string
	Messages []*Message
}

// StreamEvent carries one incremental content delta of the assistant turn.
type StreamEvent struct {
	Token        string
	FinishReason string
}

// Stream yields events until io.EOF. Close releases the underlying call.
type Stream interface {
	Recv() (*StreamEvent, error)
	Close()
}

// Client is a streaming model backend.
type Client interface {
	CreateChatStream(context.Context, *ChatStreamRequest) (Stream, error)
}

// NewClient instantiates the backend client selected by the configuration.
func NewClient(config *configuration.Config) (Client, error) {
	switch config.Provider {
	case configuration.ProviderOllama:
		return NewOllamaClient(config.OllamaHost)
	case configuration.ProviderOpenAI:
		return NewOpenAIClient(config.OpenaiAPIKey, config.OpenaiAPIHost), nil
	}
	return nil, errors.Errorf("unknown provider (%s)", config.Provider)
}
