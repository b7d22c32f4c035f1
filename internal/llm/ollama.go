package llm

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/ollama/ollama/api"
	"github.com/pkg/errors"
)

// OllamaClient speaks to a local Ollama server.
type OllamaClient struct {
	client *api.Client
}

// NewOllamaClient instantiates a client against the given host URL.
func NewOllamaClient(host string) (*OllamaClient, error) {
	u, err := url.Parse(host)
	if err != nil {
		return nil, errors.Wrap(err, "parsing ollama host")
	}
	return &OllamaClient{client: api.NewClient(u, &http.Client{})}, nil
}

// CreateChatStream opens a streaming chat call. The Ollama API pushes chunks
// through a callback, so the stream bridges them onto a channel.
func (c *OllamaClient) CreateChatStream(ctx context.Context, request *ChatStreamRequest) (Stream, error) {
	messages := make([]api.Message, 0, len(request.Messages))
	for _, message := range request.Messages {
		messages = append(messages, api.Message{
			Role:    message.Role,
			Content: message.Content,
		})
	}

	streaming := true
	chatRequest := &api.ChatRequest{
		Model:    request.Model,
		Messages: messages,
		Stream:   &streaming,
	}

	ctx, cancel := context.WithCancel(ctx)
	stream := &ollamaStream{
		events: make(chan *StreamEvent, 16),
		cancel: cancel,
	}

	go func() {
		defer close(stream.events)
		err := c.client.Chat(ctx, chatRequest, func(response api.ChatResponse) error {
			event := &StreamEvent{Token: response.Message.Content}
			if response.Done {
				event.FinishReason = response.DoneReason
			}
			select {
			case stream.events <- event:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			stream.setErr(err)
		}
	}()

	return stream, nil
}

type ollamaStream struct {
	events chan *StreamEvent
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

func (s *ollamaStream) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *ollamaStream) Recv() (*StreamEvent, error) {
	event, ok := <-s.events
	if !ok {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	return event, nil
}

func (s *ollamaStream) Close() { s.cancel() }
