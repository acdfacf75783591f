package openai

import (
	"fmt"
	"strings"

	"docbot/internal/domain"
)

// ChatModel calls the /chat/completions endpoint.
type ChatModel struct {
	client      *Client
	model       string
	temperature float64
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

// NewChatModel creates a chat adapter for the given model.
func NewChatModel(client *Client, model string, temperature float64) *ChatModel {
	return &ChatModel{
		client:      client,
		model:       model,
		temperature: temperature,
	}
}

// GenerateWithSystem generates text with a system prompt.
func (m *ChatModel) GenerateWithSystem(systemPrompt, userPrompt string) (string, error) {
	return m.complete([]chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	})
}

func (m *ChatModel) complete(messages []chatMessage) (string, error) {
	var resp chatResponse
	err := m.client.postJSON("/chat/completions", chatRequest{
		Model:       m.model,
		Messages:    messages,
		Temperature: m.temperature,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("%w: API error: %s", domain.ErrProvider, resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: response contains no choices", domain.ErrProvider)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ModelName returns the chat model name.
func (m *ChatModel) ModelName() string {
	return m.model
}
