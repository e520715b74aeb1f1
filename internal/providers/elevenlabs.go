package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	ElevenLabsName         = "elevenlabs"
	ElevenLabsAPIBaseURL   = "https://api.elevenlabs.io/v1"
	ElevenLabsDefaultModel = "eleven_multilingual_v2"

	// ElevenLabsMaxChars is the per-request character limit enforced
	// upstream of the client; longer text must be chunked before calling.
	ElevenLabsMaxChars = 4500
)

// ElevenLabsConfig holds configuration for the ElevenLabs TTS client.
type ElevenLabsConfig struct {
	APIKey  string
	Model   string // e.g., "eleven_multilingual_v2", "eleven_turbo_v2_5"
	BaseURL string // Optional (tests)
	Timeout time.Duration
}

// ElevenLabsClient implements TTSClient using the ElevenLabs API.
type ElevenLabsClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewElevenLabsClient creates a new ElevenLabs TTS client.
func NewElevenLabsClient(cfg ElevenLabsConfig) *ElevenLabsClient {
	if cfg.Model == "" {
		cfg.Model = ElevenLabsDefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = ElevenLabsAPIBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 300 * time.Second // TTS can be slow for long text
	}

	return &ElevenLabsClient{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Name returns the provider identifier.
func (c *ElevenLabsClient) Name() string {
	return ElevenLabsName
}

// Model returns the model being used.
func (c *ElevenLabsClient) Model() string {
	return c.model
}

// HealthCheck verifies the ElevenLabs API is reachable and the API key is valid.
func (c *ElevenLabsClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/user", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("invalid API key")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("health check failed with status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// Synthesize converts text to audio using the ElevenLabs API.
// A non-success status is returned as an error; the caller decides whether
// that is fatal (it is, for chapter synthesis).
func (c *ElevenLabsClient) Synthesize(ctx context.Context, req *TTSRequest) (*TTSResult, error) {
	start := time.Now()

	if req.VoiceID == "" {
		err := fmt.Errorf("voice_id is required")
		return &TTSResult{
			Success:       false,
			ErrorMessage:  err.Error(),
			CharCount:     len(req.Text),
			ExecutionTime: time.Since(start),
		}, err
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	ttsReq := elevenLabsTTSRequest{
		Text:          req.Text,
		ModelID:       model,
		VoiceSettings: req.Settings,
	}

	audioBytes, requestID, err := c.doSynthesize(ctx, req.VoiceID, ttsReq)
	if err != nil {
		return &TTSResult{
			Success:       false,
			ErrorMessage:  err.Error(),
			CharCount:     len(req.Text),
			ExecutionTime: time.Since(start),
		}, err
	}

	return &TTSResult{
		Success:       true,
		Audio:         audioBytes,
		CharCount:     len(req.Text),
		ExecutionTime: time.Since(start),
		RequestID:     requestID,
	}, nil
}

// doSynthesize makes the HTTP request to the text-to-speech endpoint.
// Returns the raw MP3 bytes and the provider request ID.
func (c *ElevenLabsClient) doSynthesize(ctx context.Context, voiceID string, body elevenLabsTTSRequest) ([]byte, string, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/text-to-speech/%s", c.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp elevenLabsErrorResponse
		errMsg := string(respBody)
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Detail.Message != "" {
			errMsg = errResp.Detail.Message
		}
		return nil, "", fmt.Errorf("ElevenLabs TTS error (status %d): %s", resp.StatusCode, errMsg)
	}

	requestID := resp.Header.Get("request-id")
	if requestID == "" {
		requestID = resp.Header.Get("x-request-id")
	}

	return respBody, requestID, nil
}

// GetVoice looks up a single voice by ID. A non-OK status means the voice
// does not exist or is not accessible with this API key.
func (c *ElevenLabsClient) GetVoice(ctx context.Context, voiceID string) (*Voice, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/voices/"+voiceID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("voice lookup failed (status %d): %s", resp.StatusCode, string(body))
	}

	var v elevenLabsVoice
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &Voice{
		VoiceID:     v.VoiceID,
		Name:        v.Name,
		Description: v.Description,
	}, nil
}

// ListVoices retrieves available voices from ElevenLabs.
func (c *ElevenLabsClient) ListVoices(ctx context.Context) ([]Voice, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to list voices (status %d): %s", resp.StatusCode, string(body))
	}

	var result elevenLabsVoicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	voices := make([]Voice, 0, len(result.Voices))
	for _, v := range result.Voices {
		description := v.Description
		if description == "" && len(v.Labels) > 0 {
			// Build description from labels
			for key, val := range v.Labels {
				if description != "" {
					description += ", "
				}
				description += key + ": " + val
			}
		}

		voices = append(voices, Voice{
			VoiceID:     v.VoiceID,
			Name:        v.Name,
			Description: description,
		})
	}

	return voices, nil
}

// ElevenLabs API types

type elevenLabsTTSRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

type elevenLabsErrorResponse struct {
	Detail struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"detail"`
}

type elevenLabsVoicesResponse struct {
	Voices []elevenLabsVoice `json:"voices"`
}

type elevenLabsVoice struct {
	VoiceID     string            `json:"voice_id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Category    string            `json:"category,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// Verify interface
var _ TTSClient = (*ElevenLabsClient)(nil)
