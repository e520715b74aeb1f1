package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	OpenAIName         = "openai"
	OpenAIDefaultModel = "gpt-4o"
)

// OpenAIConfig holds configuration for the OpenAI chat client.
type OpenAIConfig struct {
	APIKey     string
	Model      string        // "gpt-4o" (default)
	Timeout    time.Duration // HTTP timeout
	MaxRetries int           // Retry attempts for SDK transport
	BaseURL    string        // Optional (tests)
	HTTPClient *http.Client  // Optional (tests)
}

// OpenAIClient implements ChatClient using the official OpenAI SDK.
type OpenAIClient struct {
	model  string
	client openai.Client
}

// NewOpenAIClient creates a new OpenAI chat client.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = OpenAIDefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		model:  cfg.Model,
		client: openai.NewClient(opts...),
	}
}

// Name returns the client identifier.
func (c *OpenAIClient) Name() string {
	return OpenAIName
}

// Model returns the default model.
func (c *OpenAIClient) Model() string {
	return c.model
}

// Chat sends a chat completion request.
func (c *OpenAIClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = c.model
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)),
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case "assistant":
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}

	if req.JSONObject {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}

	result := &ChatResult{
		Provider:  OpenAIName,
		ModelUsed: model,
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		result.Success = false
		result.ErrorMessage = err.Error()
		result.ExecutionTime = time.Since(start)
		return result, fmt.Errorf("openai chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		result.Success = false
		result.ErrorMessage = "empty response from model"
		result.ExecutionTime = time.Since(start)
		return result, fmt.Errorf("openai returned no choices")
	}

	result.Content = resp.Choices[0].Message.Content
	result.ModelUsed = resp.Model
	result.PromptTokens = int(resp.Usage.PromptTokens)
	result.CompletionTokens = int(resp.Usage.CompletionTokens)
	result.TotalTokens = int(resp.Usage.TotalTokens)
	result.ExecutionTime = time.Since(start)
	result.Success = true

	// Parse JSON content when JSON mode was requested. Malformed output is
	// not an error at this layer; callers fall back on nil ParsedJSON.
	if req.JSONObject {
		if parsed, perr := ParseStructuredJSON(result.Content); perr == nil {
			result.ParsedJSON = parsed
		}
	}

	return result, nil
}

// Verify interface
var _ ChatClient = (*OpenAIClient)(nil)
