// Package llm provides the completion client for the generation service.
// The service is a black box: text in, text out. parsesmith talks to
// Groq's OpenAI-compatible chat-completions endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client defines the interface for LLM providers.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ServiceError reports a transport, auth, or quota failure from the
// completion service. It is never retried here; the orchestrator records
// it as an attempt failure.
type ServiceError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("generation service error (status %d): %s", e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("generation service error: %v", e.Err)
	}
	return fmt.Sprintf("generation service error: %s", e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// GroqConfig holds configuration for the Groq client.
type GroqConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// DefaultGroqConfig returns sensible defaults. The low temperature keeps
// code generation deterministic-leaning.
func DefaultGroqConfig(apiKey string) GroqConfig {
	return GroqConfig{
		APIKey:      apiKey,
		BaseURL:     "https://api.groq.com/openai/v1",
		Model:       "openai/gpt-oss-120b",
		Temperature: 0.2,
		Timeout:     120 * time.Second,
	}
}

// GroqClient implements Client against the Groq API.
type GroqClient struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewGroqClient creates a new Groq client.
func NewGroqClient(cfg GroqConfig, logger *zap.Logger) *GroqClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GroqClient{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// Complete sends a prompt and returns the completion.
func (c *GroqClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt)
}

// CompleteWithSystem sends a prompt with a system message.
func (c *GroqClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.apiKey == "" {
		return "", &ServiceError{Message: "API key not configured"}
	}

	// Auto-apply timeout if context has no deadline.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	requestID := uuid.NewString()
	c.logger.Info("completion requested",
		zap.String("request_id", requestID),
		zap.String("model", c.model),
		zap.Int("system_len", len(systemPrompt)),
		zap.Int("user_len", len(userPrompt)))

	messages := make([]chatMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userPrompt})

	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   4096,
		Temperature: c.temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", &ServiceError{Message: "failed to marshal request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", &ServiceError{Message: "failed to create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ServiceError{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ServiceError{Message: "failed to read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &ServiceError{StatusCode: resp.StatusCode, Message: excerpt(string(body))}
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return "", &ServiceError{Message: "failed to parse response", Err: err}
	}
	if cr.Error != nil {
		return "", &ServiceError{Message: cr.Error.Message}
	}
	if len(cr.Choices) == 0 {
		return "", &ServiceError{Message: "no completion returned"}
	}

	c.logger.Debug("completion received",
		zap.String("request_id", requestID),
		zap.Int("completion_tokens", cr.Usage.CompletionTokens))

	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}

// SetModel changes the model used for completions.
func (c *GroqClient) SetModel(model string) { c.model = model }

// GetModel returns the current model.
func (c *GroqClient) GetModel() string { return c.model }

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 512 {
		return s[:512] + "..."
	}
	return s
}
