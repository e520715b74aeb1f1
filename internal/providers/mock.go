package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

const MockName = "mock"

// MockChatClient is a ChatClient for testing.
type MockChatClient struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	ResponseText string
	ResponseJSON json.RawMessage

	// State
	requestCount atomic.Int64
}

// NewMockChatClient creates a new mock chat client with sensible defaults.
func NewMockChatClient() *MockChatClient {
	return &MockChatClient{
		ResponseText: "mock response",
	}
}

// Name returns the client identifier.
func (c *MockChatClient) Name() string {
	return MockName
}

// RequestCount reports how many chat calls were made.
func (c *MockChatClient) RequestCount() int {
	return int(c.requestCount.Load())
}

// Chat sends a mock chat request.
func (c *MockChatClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()
	c.requestCount.Add(1)

	result := &ChatResult{
		Provider:  MockName,
		ModelUsed: req.Model,
	}

	if c.ShouldFail {
		result.ErrorMessage = "mock client configured to fail"
		result.ExecutionTime = time.Since(start)
		return result, fmt.Errorf("mock client configured to fail")
	}

	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			result.ErrorMessage = ctx.Err().Error()
			return result, ctx.Err()
		}
	}

	if len(c.ResponseJSON) > 0 {
		result.Content = string(c.ResponseJSON)
		result.ParsedJSON = c.ResponseJSON
	} else {
		result.Content = c.ResponseText
		if req.JSONObject {
			if parsed, err := ParseStructuredJSON(result.Content); err == nil {
				result.ParsedJSON = parsed
			}
		}
	}
	result.Success = true
	result.ExecutionTime = time.Since(start)
	return result, nil
}

// MockTTSClient is a TTSClient for testing.
type MockTTSClient struct {
	// Audio returned per call. If AudioFunc is set it takes precedence.
	Audio     []byte
	AudioFunc func(req *TTSRequest) []byte

	// Voices returned by catalog calls.
	Voices []Voice

	// FailSynthesis makes Synthesize return an error.
	FailSynthesis bool
	// FailLookup makes GetVoice return an error for any ID.
	FailLookup bool
	// FailList makes ListVoices return an error.
	FailList bool

	// Requests records every synthesis request in order.
	Requests []TTSRequest
}

// Name returns the provider identifier.
func (c *MockTTSClient) Name() string {
	return MockName
}

// Synthesize records the request and returns canned audio.
func (c *MockTTSClient) Synthesize(ctx context.Context, req *TTSRequest) (*TTSResult, error) {
	c.Requests = append(c.Requests, *req)

	if c.FailSynthesis {
		err := fmt.Errorf("mock TTS configured to fail")
		return &TTSResult{Success: false, ErrorMessage: err.Error(), CharCount: len(req.Text)}, err
	}

	audio := c.Audio
	if c.AudioFunc != nil {
		audio = c.AudioFunc(req)
	}
	if audio == nil {
		audio = []byte("mock-audio")
	}

	return &TTSResult{
		Success:   true,
		Audio:     audio,
		CharCount: len(req.Text),
	}, nil
}

// GetVoice returns a catalog voice by ID.
func (c *MockTTSClient) GetVoice(ctx context.Context, voiceID string) (*Voice, error) {
	if c.FailLookup {
		return nil, fmt.Errorf("voice lookup failed (status 404): not found")
	}
	for _, v := range c.Voices {
		if v.VoiceID == voiceID {
			found := v
			return &found, nil
		}
	}
	return nil, fmt.Errorf("voice lookup failed (status 404): voice %q not found", voiceID)
}

// ListVoices returns the configured catalog.
func (c *MockTTSClient) ListVoices(ctx context.Context) ([]Voice, error) {
	if c.FailList {
		return nil, fmt.Errorf("voice list failed (status 500): internal error")
	}
	return c.Voices, nil
}

// HealthCheck always succeeds.
func (c *MockTTSClient) HealthCheck(ctx context.Context) error {
	return nil
}

// SpeakerNames extracts distinct speakers from recorded requests, for test
// assertions on synthesis ordering.
func (c *MockTTSClient) SpeakerNames() []string {
	var names []string
	seen := map[string]bool{}
	for _, r := range c.Requests {
		key := strings.TrimSpace(r.VoiceID)
		if !seen[key] {
			seen[key] = true
			names = append(names, key)
		}
	}
	return names
}

// Verify interfaces
var (
	_ ChatClient = (*MockChatClient)(nil)
	_ TTSClient  = (*MockTTSClient)(nil)
)
