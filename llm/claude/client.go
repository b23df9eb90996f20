// Package claude provides a backend client for Anthropic's Claude API.
package claude

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/m-mizutani/goerr/v2"

	"github.com/orin-ai/orin"
)

// Client is a client for the Claude API.
type Client struct {
	// client is the underlying Claude client.
	client *anthropic.Client

	// defaultModel is the model to use for chat completions.
	// It can be overridden using WithModel option.
	defaultModel anthropic.Model
}

// Option is a configuration option for the Claude client.
type Option func(*Client)

// WithModel sets the model to use for text generation.
func WithModel(model anthropic.Model) Option {
	return func(c *Client) {
		c.defaultModel = model
	}
}

// New creates a new client for the Claude API.
func New(ctx context.Context, apiKey string, options ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, goerr.New("apiKey is required")
	}

	client := &Client{
		defaultModel: anthropic.ModelClaudeSonnet4_0,
	}
	for _, option := range options {
		option(client)
	}

	newClient := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	client.client = &newClient

	return client, nil
}

// NewSession creates a new session for the Claude API.
func (c *Client) NewSession(ctx context.Context, options ...orin.SessionOption) (orin.Session, error) {
	cfg := orin.NewSessionConfig(options...)

	session := &Session{
		client: c.client,
		model:  c.defaultModel,
		cfg:    cfg,
	}
	for _, msg := range cfg.History() {
		session.append(msg)
	}
	return session, nil
}

// Session is a session for the Claude chat. It maintains the conversation
// state and handles message generation.
type Session struct {
	client *anthropic.Client
	model  anthropic.Model
	cfg    orin.SessionConfig

	messages []anthropic.MessageParam
	history  []orin.Message
}

func (s *Session) append(msg orin.Message) {
	block := anthropic.NewTextBlock(msg.Content)
	if msg.Role == orin.RoleModel {
		s.messages = append(s.messages, anthropic.NewAssistantMessage(block))
	} else {
		s.messages = append(s.messages, anthropic.NewUserMessage(block))
	}
	s.history = append(s.history, msg)
}

// History returns a copy of the conversation history.
func (s *Session) History() []orin.Message {
	return append([]orin.Message{}, s.history...)
}

// GenerateContent sends a prompt and returns the model output. Both sides of
// the exchange are appended to the session history.
func (s *Session) GenerateContent(ctx context.Context, prompt string, options ...orin.GenerateOption) (*orin.Response, error) {
	gen := orin.NewGenerateConfig(options...)

	messages := append(s.messages, anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)))

	params := anthropic.MessageNewParams{
		Model:       s.model,
		MaxTokens:   int64(gen.MaxTokens(s.cfg.MaxTokens())),
		Temperature: anthropic.Float(gen.Temperature(s.cfg.Temperature())),
		Messages:    messages,
	}
	if systemPrompt := s.cfg.SystemPrompt(); systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: systemPrompt},
		}
	}

	resp, err := s.client.Messages.New(ctx, params)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate content", goerr.V("model", s.model))
	}
	if len(resp.Content) == 0 {
		return nil, goerr.New("empty response from Claude", goerr.V("model", s.model))
	}

	var sb strings.Builder
	for _, content := range resp.Content {
		if content.Type == "text" {
			sb.WriteString(content.Text)
		}
	}
	text := sb.String()

	s.messages = messages
	s.messages = append(s.messages, resp.ToParam())
	s.history = append(s.history,
		orin.Message{Role: orin.RoleUser, Content: prompt},
		orin.Message{Role: orin.RoleModel, Content: text},
	)

	return &orin.Response{Text: text}, nil
}
