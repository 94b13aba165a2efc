package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultOllamaModel = "llama3.1:8b"

	ollamaTemperature = 0.7
)

// OllamaClient talks to a local Ollama instance, for running the
// pipeline without a hosted provider credential.
type OllamaClient struct {
	httpClient *http.Client
	baseURL    string
	model      string
	logger     *slog.Logger
}

// OllamaChatRequest represents an Ollama chat API request
type OllamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []OllamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  OllamaOptions   `json:"options,omitempty"`
}

// OllamaMessage represents a chat message
type OllamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OllamaOptions represents generation options
type OllamaOptions struct {
	Temperature float64 `json:"temperature"`
}

// OllamaChatResponse represents an Ollama chat API response
type OllamaChatResponse struct {
	Model     string        `json:"model"`
	CreatedAt string        `json:"created_at"`
	Message   OllamaMessage `json:"message"`
	Done      bool          `json:"done"`
	Error     string        `json:"error,omitempty"`

	TotalDuration int64 `json:"total_duration"`
	EvalCount     int   `json:"eval_count"`
}

// NewOllamaClient creates a new Ollama API client
func NewOllamaClient(baseURL string, model string, logger *slog.Logger) *OllamaClient {
	if model == "" {
		model = defaultOllamaModel
	}

	baseURL = strings.TrimRight(baseURL, "/")

	client := &OllamaClient{
		httpClient: &http.Client{
			Timeout: 120 * time.Second, // local inference is slow for long outputs
		},
		baseURL: baseURL,
		model:   model,
		logger:  logger,
	}

	logger.Info("Ollama client initialized",
		"base_url", baseURL,
		"model", model,
	)

	return client
}

// Complete sends one chat request and returns the raw reply text.
func (c *OllamaClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []OllamaMessage{}
	if systemPrompt != "" {
		messages = append(messages, OllamaMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, OllamaMessage{Role: "user", Content: userPrompt})

	reqBody, err := json.Marshal(OllamaChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Options: OllamaOptions{
			Temperature: ollamaTemperature,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/api/chat"

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Ollama API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp OllamaChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if chatResp.Error != "" {
		return "", fmt.Errorf("Ollama API error: %s", chatResp.Error)
	}

	c.logger.Debug("Ollama request completed",
		"eval_count", chatResp.EvalCount,
		"total_duration_ms", chatResp.TotalDuration/1e6,
	)

	return chatResp.Message.Content, nil
}
