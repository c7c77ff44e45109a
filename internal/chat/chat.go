// Package chat is the thin proxy to the generative assistant: a fixed
// health-companion persona over the DeepSeek chat-completions API.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-deepseek/deepseek"
	"github.com/go-deepseek/deepseek/request"

	"github.com/healing-app/healing/internal/config"
)

// SystemPrompt is the assistant persona. All replies are in Spanish,
// short, and advice-oriented.
const SystemPrompt = "Eres un asistente amigable de salud llamado Healing. " +
	"Responde en español, breve, claro y con consejos útiles."

var ErrEmptyMessage = errors.New("message is empty")

// Message is one transcript entry. Role is "user" or "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client wraps the DeepSeek API with the application's model settings.
type Client struct {
	client      deepseek.Client
	model       string
	maxTokens   int
	temperature float64
}

func NewClient(cfg config.ChatConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("chat API key is required (set DEEPSEEK_API_KEY or add it to the config file)")
	}

	client, err := deepseek.NewClient(cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create DeepSeek client: %w", err)
	}

	return &Client{
		client:      client,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

func (c *Client) complete(ctx context.Context, transcript []Message) (string, error) {
	messages := make([]*request.Message, 0, len(transcript)+1)
	messages = append(messages, &request.Message{
		Role:    "system",
		Content: SystemPrompt,
	})

	for _, msg := range transcript {
		messages = append(messages, &request.Message{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	var temp *float32
	if c.temperature > 0 {
		t := float32(c.temperature)
		temp = &t
	}

	resp, err := c.client.CallChatCompletionsChat(ctx, &request.ChatCompletionsRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: temp,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("DeepSeek API request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("DeepSeek API returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Session keeps the conversation transcript for one chat run.
type Session struct {
	client   *Client
	messages []Message
}

func NewSession(client *Client) *Session {
	return &Session{client: client}
}

// Send appends the user message, asks the assistant, and appends its
// reply. Blank input is rejected before any API call.
func (s *Session) Send(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyMessage
	}

	s.messages = append(s.messages, Message{Role: "user", Content: text})

	reply, err := s.client.complete(ctx, s.messages)
	if err != nil {
		// Keep the transcript consistent: the user turn stays, the
		// failed assistant turn does not.
		return "", err
	}

	s.messages = append(s.messages, Message{Role: "assistant", Content: reply})
	return reply, nil
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []Message {
	return append([]Message(nil), s.messages...)
}
