package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient speaks to any OpenAI-compatible chat completion endpoint.
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient instantiates a client against the given host.
func NewOpenAIClient(apiKey, apiHost string) *OpenAIClient {
	openAIConfig := openai.DefaultConfig(apiKey)
	if apiHost != "" {
		openAIConfig.BaseURL = apiHost
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(openAIConfig)}
}

// CreateChatStream opens a streaming chat completion call.
func (c *OpenAIClient) CreateChatStream(ctx context.Context, request *ChatStreamRequest) (Stream, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(request.Messages))
	for _, message := range request.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    message.Role,
			Content: message.Content,
		})
	}
	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    request.Model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating completion stream: %w", err)
	}
	return &chatCompletionStreamWrapper{stream}, nil
}

type chatCompletionStreamWrapper struct {
	stream *openai.ChatCompletionStream
}

func (s *chatCompletionStreamWrapper) Close() { s.stream.Close() }

func (s *chatCompletionStreamWrapper) Recv() (*StreamEvent, error) {
	response, err := s.stream.Recv()
	if err != nil {
		return nil, err
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("ChatCompletionResponse returned no choice: %+v", response)
	}
	return &StreamEvent{
		Token:        response.Choices[0].Delta.Content,
		FinishReason: string(response.Choices[0].FinishReason),
	}, nil
}
