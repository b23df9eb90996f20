// Package openai provides a backend client for OpenAI's chat API.
package openai

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sashabaranov/go-openai"

	"github.com/orin-ai/orin"
)

const DefaultModel = openai.GPT4oMini

// Client is a client for the OpenAI API.
type Client struct {
	// client is the underlying OpenAI client.
	client *openai.Client

	// defaultModel is the model to use for chat completions.
	// It can be overridden using WithModel option.
	defaultModel string
}

// Option is a configuration option for the OpenAI client.
type Option func(*Client)

// WithModel sets the model to use for text generation.
func WithModel(model string) Option {
	return func(c *Client) {
		c.defaultModel = model
	}
}

// New creates a new client for the OpenAI API.
func New(ctx context.Context, apiKey string, options ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, goerr.New("apiKey is required")
	}

	client := &Client{
		defaultModel: DefaultModel,
	}
	for _, option := range options {
		option(client)
	}

	client.client = openai.NewClient(apiKey)
	return client, nil
}

// NewSession creates a new session for the OpenAI API.
func (c *Client) NewSession(ctx context.Context, options ...orin.SessionOption) (orin.Session, error) {
	cfg := orin.NewSessionConfig(options...)

	session := &Session{
		client:  c.client,
		model:   c.defaultModel,
		cfg:     cfg,
		history: append([]orin.Message{}, cfg.History()...),
	}
	return session, nil
}

// Session is a session for the OpenAI chat. It maintains the conversation
// state and handles message generation.
type Session struct {
	client  *openai.Client
	model   string
	cfg     orin.SessionConfig
	history []orin.Message
}

// History returns a copy of the conversation history.
func (s *Session) History() []orin.Message {
	return append([]orin.Message{}, s.history...)
}

// GenerateContent sends a prompt and returns the model output. Both sides of
// the exchange are appended to the session history.
func (s *Session) GenerateContent(ctx context.Context, prompt string, options ...orin.GenerateOption) (*orin.Response, error) {
	gen := orin.NewGenerateConfig(options...)

	messages := make([]openai.ChatCompletionMessage, 0, len(s.history)+2)
	if systemPrompt := s.cfg.SystemPrompt(); systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	for _, msg := range s.history {
		role := openai.ChatMessageRoleUser
		if msg.Role == orin.RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: float32(gen.Temperature(s.cfg.Temperature())),
		MaxTokens:   gen.MaxTokens(s.cfg.MaxTokens()),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate content", goerr.V("model", s.model))
	}
	if len(resp.Choices) == 0 {
		return nil, goerr.New("empty response from OpenAI", goerr.V("model", s.model))
	}
	text := resp.Choices[0].Message.Content

	s.history = append(s.history,
		orin.Message{Role: orin.RoleUser, Content: prompt},
		orin.Message{Role: orin.RoleModel, Content: text},
	)

	return &orin.Response{Text: text}, nil
}
