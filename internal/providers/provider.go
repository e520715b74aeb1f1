// Package providers contains clients for the external AI services the
// pipeline consumes: an LLM completion service for text analysis and a TTS
// service for audio synthesis.
package providers

import (
	"context"
	"encoding/json"
	"time"
)

// ChatClient is the interface for LLM completion requests.
type ChatClient interface {
	// Chat sends a chat completion request.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error)

	// Name returns the client identifier (e.g., "openai").
	Name() string
}

// TTSClient is the interface for text-to-speech synthesis.
// Separate from ChatClient because it has different rate limiting and
// returns binary audio rather than structured responses.
type TTSClient interface {
	// Name returns the provider identifier (e.g., "elevenlabs").
	Name() string

	// Synthesize converts one text segment to audio.
	Synthesize(ctx context.Context, req *TTSRequest) (*TTSResult, error)

	// GetVoice looks up a single voice by ID.
	GetVoice(ctx context.Context, voiceID string) (*Voice, error)

	// ListVoices retrieves the full voice catalog.
	ListVoices(ctx context.Context) ([]Voice, error)

	// HealthCheck verifies the API is reachable and the key is valid.
	HealthCheck(ctx context.Context) error
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// ChatRequest is a request to an LLM.
type ChatRequest struct {
	Messages []Message `json:"messages"`

	// Model selection (uses client default if empty)
	Model string `json:"model,omitempty"`

	// Generation parameters
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`

	// JSONObject requests the provider's JSON response mode.
	JSONObject bool `json:"-"`
}

// ChatResult is the complete response from an LLM call.
type ChatResult struct {
	Content    string          `json:"content"`
	ParsedJSON json.RawMessage `json:"parsed_json,omitempty"` // Set when JSONObject was requested

	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	ExecutionTime time.Duration `json:"execution_time"`

	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// VoiceSettings controls synthesis expressiveness per request.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style,omitempty"`
	Speed           float64 `json:"speed,omitempty"`
	UseSpeakerBoost bool    `json:"use_speaker_boost,omitempty"`
}

// TTSRequest is a synthesis request for one text segment.
type TTSRequest struct {
	VoiceID  string
	Text     string
	Model    string // Uses client default if empty
	Settings VoiceSettings
}

// TTSResult is the response from a synthesis call.
type TTSResult struct {
	Success       bool          `json:"success"`
	Audio         []byte        `json:"-"`
	CharCount     int           `json:"char_count"`
	ExecutionTime time.Duration `json:"execution_time"`
	RequestID     string        `json:"request_id,omitempty"`
	ErrorMessage  string        `json:"error_message,omitempty"`
}

// Voice represents a TTS voice from the provider catalog.
type Voice struct {
	VoiceID     string `json:"voice_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
