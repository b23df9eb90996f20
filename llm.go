package orin

import "context"

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one entry of conversation history sent to the backend.
type Message struct {
	Role    Role
	Content string
}

// Response is the raw output of one backend generation call.
type Response struct {
	Text string
}

// LLMClient is a client for a generative-language backend.
type LLMClient interface {
	NewSession(ctx context.Context, options ...SessionOption) (Session, error)
}

// Session is one conversation with the backend. Implementations keep the
// running history internally and append both sides of every exchange.
type Session interface {
	GenerateContent(ctx context.Context, prompt string, options ...GenerateOption) (*Response, error)
	History() []Message
}

// SessionConfig holds creation-time settings for a backend session.
type SessionConfig struct {
	systemPrompt string
	history      []Message
	temperature  float64
	maxTokens    int
}

// Default generation parameters for shallow turns. Deep turns override them
// per call via GenerateOption.
const (
	DefaultTemperature = 0.4
	DefaultMaxTokens   = 500
)

// NewSessionConfig builds a session configuration from options. Backend
// implementations call this from their NewSession.
func NewSessionConfig(options ...SessionOption) SessionConfig {
	cfg := SessionConfig{
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
	}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}

func (c *SessionConfig) SystemPrompt() string { return c.systemPrompt }
func (c *SessionConfig) History() []Message   { return c.history }
func (c *SessionConfig) Temperature() float64 { return c.temperature }
func (c *SessionConfig) MaxTokens() int       { return c.maxTokens }

// SessionOption configures a new backend session.
type SessionOption func(*SessionConfig)

// WithSessionSystemPrompt sets the system instruction for the session.
func WithSessionSystemPrompt(prompt string) SessionOption {
	return func(c *SessionConfig) {
		c.systemPrompt = prompt
	}
}

// WithSessionHistory seeds the session with prior conversation history.
func WithSessionHistory(history []Message) SessionOption {
	return func(c *SessionConfig) {
		c.history = history
	}
}

// WithSessionTemperature sets the default sampling temperature.
func WithSessionTemperature(temperature float64) SessionOption {
	return func(c *SessionConfig) {
		c.temperature = temperature
	}
}

// WithSessionMaxTokens sets the default output token budget.
func WithSessionMaxTokens(maxTokens int) SessionOption {
	return func(c *SessionConfig) {
		c.maxTokens = maxTokens
	}
}

// GenerateConfig holds per-call overrides of the session's generation
// parameters.
type GenerateConfig struct {
	temperature *float64
	maxTokens   *int
}

// NewGenerateConfig builds per-call generation settings from options.
func NewGenerateConfig(options ...GenerateOption) GenerateConfig {
	var cfg GenerateConfig
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}

// Temperature resolves the effective temperature against a session default.
func (c *GenerateConfig) Temperature(fallback float64) float64 {
	if c.temperature != nil {
		return *c.temperature
	}
	return fallback
}

// MaxTokens resolves the effective token budget against a session default.
func (c *GenerateConfig) MaxTokens(fallback int) int {
	if c.maxTokens != nil {
		return *c.maxTokens
	}
	return fallback
}

// GenerateOption overrides generation parameters for a single call.
type GenerateOption func(*GenerateConfig)

// WithTemperature overrides the sampling temperature for one call.
func WithTemperature(temperature float64) GenerateOption {
	return func(c *GenerateConfig) {
		c.temperature = &temperature
	}
}

// WithMaxTokens overrides the output token budget for one call.
func WithMaxTokens(maxTokens int) GenerateOption {
	return func(c *GenerateConfig) {
		c.maxTokens = &maxTokens
	}
}
