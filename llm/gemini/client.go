// Package gemini provides a backend client for Google's Gemini API.
package gemini

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"

	"github.com/orin-ai/orin"
)

const DefaultModel = "gemini-2.5-flash"

// Client is a client for the Gemini API.
type Client struct {
	// client is the underlying Gemini client.
	client *genai.Client

	// defaultModel is the model to use for chat completions.
	// It can be overridden using WithModel option.
	defaultModel string
}

// Option is a configuration option for the Gemini client.
type Option func(*Client)

// WithModel sets the model to use for text generation.
// Default: "gemini-2.5-flash"
func WithModel(model string) Option {
	return func(c *Client) {
		c.defaultModel = model
	}
}

// New creates a new client for the Gemini API using API-key authentication.
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

	newClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client")
	}

	client.client = newClient
	return client, nil
}

// NewSession creates a new session for the Gemini API.
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

// Session is a session for the Gemini chat. It maintains the conversation
// state and handles message generation.
type Session struct {
	client  *genai.Client
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

	temperature := float32(gen.Temperature(s.cfg.Temperature()))
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(gen.MaxTokens(s.cfg.MaxTokens())),
	}
	if systemPrompt := s.cfg.SystemPrompt(); systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	contents := make([]*genai.Content, 0, len(s.history)+1)
	for _, msg := range s.history {
		contents = append(contents, &genai.Content{
			Role:  string(msg.Role),
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  string(orin.RoleUser),
		Parts: []*genai.Part{{Text: prompt}},
	})

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, config)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate content", goerr.V("model", s.model))
	}

	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
		break
	}
	text := sb.String()
	if text == "" {
		return nil, goerr.New("empty response from Gemini", goerr.V("model", s.model))
	}

	s.history = append(s.history,
		orin.Message{Role: orin.RoleUser, Content: prompt},
		orin.Message{Role: orin.RoleModel, Content: text},
	)

	return &orin.Response{Text: text}, nil
}
