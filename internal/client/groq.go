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
	"sync"
	"sync/atomic"
	"time"
)

const (
	groqAPIBase = "https://api.groq.com/openai/v1/chat/completions"
	groqModel   = "llama-3.1-8b-instant"

	// Record generation needs room for a whole JSON array, unlike a
	// classifier that answers with one token.
	groqMaxTokens   = 4096
	groqTemperature = 0.7
)

// GroqClient talks to the Groq chat-completions API.
// Supports multiple API keys with automatic failover on rate limit (429)
// and daily limit exhaustion with automatic reset at midnight UTC.
type GroqClient struct {
	httpClient  *http.Client
	apiKeys     []string
	currentKey  atomic.Int32
	keyMutex    sync.RWMutex
	keyStatus   []keyStatus
	rateLimiter *RateLimiter
	logger      *slog.Logger

	// When all keys are exhausted for the day, wait until this time.
	allExhaustedUntil time.Time
}

// keyStatus tracks the health of an API key
type keyStatus struct {
	// Per-minute rate limiting (resets after 1 minute)
	rateLimited   bool
	rateLimitedAt time.Time

	// Daily limit exhaustion (resets at midnight UTC)
	dailyExhausted   bool
	dailyExhaustedAt time.Time
}

// GroqRequest represents a chat completion request
type GroqRequest struct {
	Model       string        `json:"model"`
	Messages    []GroqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// GroqMessage represents a chat message
type GroqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GroqResponse represents a chat completion response
type GroqResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
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
		Code    string `json:"code,omitempty"`
	} `json:"error,omitempty"`
}

// NewGroqClient creates a Groq client with one or more API keys for failover.
func NewGroqClient(apiKeys []string, requestsPerMinute float64, logger *slog.Logger) *GroqClient {
	if len(apiKeys) == 0 {
		panic("at least one API key is required")
	}

	client := &GroqClient{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		apiKeys:     apiKeys,
		keyStatus:   make([]keyStatus, len(apiKeys)),
		rateLimiter: NewRateLimiter(requestsPerMinute / 60.0),
		logger:      logger,
	}

	go client.midnightResetLoop()

	logger.Info("Groq client initialized",
		"keys_count", len(apiKeys),
		"rpm", requestsPerMinute,
	)

	return client
}

// Complete sends one chat completion and returns the raw reply text.
func (c *GroqClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait failed: %w", err)
	}
	return c.doRequestWithFailover(ctx, systemPrompt, userPrompt)
}

// midnightResetLoop resets all daily-exhausted keys at midnight UTC
func (c *GroqClient) midnightResetLoop() {
	for {
		now := time.Now().UTC()
		nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)

		time.Sleep(nextMidnight.Sub(now))

		c.resetAllDailyLimits()
	}
}

func (c *GroqClient) resetAllDailyLimits() {
	c.keyMutex.Lock()
	defer c.keyMutex.Unlock()

	resetCount := 0
	for i := range c.keyStatus {
		if c.keyStatus[i].dailyExhausted {
			resetCount++
		}
		c.keyStatus[i] = keyStatus{}
	}
	c.allExhaustedUntil = time.Time{}

	if resetCount > 0 {
		c.logger.Info("midnight reset: all API keys restored",
			"keys_reset", resetCount,
			"total_keys", len(c.apiKeys),
		)
	}
}

func (c *GroqClient) getCurrentKey() (string, int) {
	idx := int(c.currentKey.Load()) % len(c.apiKeys)
	return c.apiKeys[idx], idx
}

// isDailyLimitError checks whether a 429 body indicates daily quota
// exhaustion rather than a per-minute limit.
func isDailyLimitError(statusCode int, body []byte) bool {
	if statusCode != http.StatusTooManyRequests {
		return false
	}

	bodyStr := strings.ToLower(string(body))
	for _, pattern := range []string{"tokens per day", "requests per day", "daily", "quota"} {
		if strings.Contains(bodyStr, pattern) {
			return true
		}
	}
	return false
}

// rotateKey switches to the next available API key.
// Returns true if a non-exhausted key was found.
func (c *GroqClient) rotateKey(failedIdx int, isDailyLimit bool) bool {
	c.keyMutex.Lock()
	defer c.keyMutex.Unlock()

	now := time.Now()

	if isDailyLimit {
		c.keyStatus[failedIdx].dailyExhausted = true
		c.keyStatus[failedIdx].dailyExhaustedAt = now
		c.logger.Warn("API key daily limit exhausted", "key_idx", failedIdx)
	} else {
		c.keyStatus[failedIdx].rateLimited = true
		c.keyStatus[failedIdx].rateLimitedAt = now
	}

	startIdx := (failedIdx + 1) % len(c.apiKeys)
	for i := 0; i < len(c.apiKeys); i++ {
		idx := (startIdx + i) % len(c.apiKeys)
		status := &c.keyStatus[idx]

		if status.dailyExhausted {
			continue
		}

		// Per-minute limits clear after a one minute cooldown.
		if status.rateLimited && time.Since(status.rateLimitedAt) > time.Minute {
			status.rateLimited = false
		}

		if !status.rateLimited {
			c.currentKey.Store(int32(idx))
			c.logger.Info("rotated to new API key",
				"from_idx", failedIdx,
				"to_idx", idx,
				"daily_limit", isDailyLimit,
			)
			return true
		}
	}

	allDailyExhausted := true
	for _, status := range c.keyStatus {
		if !status.dailyExhausted {
			allDailyExhausted = false
			break
		}
	}

	if allDailyExhausted {
		nowUTC := time.Now().UTC()
		nextMidnight := time.Date(nowUTC.Year(), nowUTC.Month(), nowUTC.Day()+1, 0, 0, 0, 0, time.UTC)
		c.allExhaustedUntil = nextMidnight

		c.logger.Warn("all API keys daily limit exhausted, waiting until midnight UTC",
			"total_keys", len(c.apiKeys),
			"resume_at", nextMidnight,
		)
	} else {
		c.logger.Warn("all API keys temporarily rate limited",
			"total_keys", len(c.apiKeys),
		)
	}

	return false
}

func (c *GroqClient) markKeySuccess(idx int) {
	c.keyMutex.Lock()
	defer c.keyMutex.Unlock()
	c.keyStatus[idx].rateLimited = false
	// dailyExhausted only resets at midnight
}

// waitUntilMidnight blocks until midnight UTC when all keys are exhausted.
func (c *GroqClient) waitUntilMidnight(ctx context.Context) error {
	c.keyMutex.RLock()
	exhaustedUntil := c.allExhaustedUntil
	c.keyMutex.RUnlock()

	if exhaustedUntil.IsZero() || time.Now().After(exhaustedUntil) {
		return nil
	}

	c.logger.Info("waiting until midnight for API key reset",
		"resume_at", exhaustedUntil,
	)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Until(exhaustedUntil)):
		return nil
	}
}

// doRequestWithFailover makes a request with automatic key rotation on 429.
// If all keys are daily-exhausted, waits until midnight UTC and retries.
func (c *GroqClient) doRequestWithFailover(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []GroqMessage{}
	if systemPrompt != "" {
		messages = append(messages, GroqMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, GroqMessage{Role: "user", Content: userPrompt})

	reqBody, err := json.Marshal(GroqRequest{
		Model:       groqModel,
		Messages:    messages,
		Temperature: groqTemperature,
		MaxTokens:   groqMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	for {
		if err := c.waitUntilMidnight(ctx); err != nil {
			return "", err
		}

		triedKeys := 0
		for triedKeys < len(c.apiKeys) {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}

			apiKey, keyIdx := c.getCurrentKey()

			c.keyMutex.RLock()
			isDailyExhausted := c.keyStatus[keyIdx].dailyExhausted
			c.keyMutex.RUnlock()

			if isDailyExhausted {
				triedKeys++
				c.currentKey.Store(int32((keyIdx + 1) % len(c.apiKeys)))
				continue
			}

			httpReq, err := http.NewRequestWithContext(ctx, "POST", groqAPIBase, bytes.NewReader(reqBody))
			if err != nil {
				return "", fmt.Errorf("failed to create request: %w", err)
			}
			httpReq.Header.Set("Content-Type", "application/json")
			httpReq.Header.Set("Authorization", "Bearer "+apiKey)

			resp, err := c.httpClient.Do(httpReq)
			if err != nil {
				return "", fmt.Errorf("failed to send request: %w", err)
			}

			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return "", fmt.Errorf("failed to read response: %w", err)
			}

			if resp.StatusCode == http.StatusTooManyRequests {
				isDailyLimit := isDailyLimitError(resp.StatusCode, body)

				c.logger.Warn("rate limit hit, rotating key",
					"key_idx", keyIdx,
					"is_daily_limit", isDailyLimit,
				)

				if c.rotateKey(keyIdx, isDailyLimit) {
					triedKeys++
					continue
				}

				c.keyMutex.RLock()
				allExhaustedUntil := c.allExhaustedUntil
				c.keyMutex.RUnlock()

				if !allExhaustedUntil.IsZero() {
					break // wait for midnight in the outer loop
				}
				return "", fmt.Errorf("all API keys rate limited: %s", string(body))
			}

			if resp.StatusCode != http.StatusOK {
				c.logger.Error("Groq API returned non-200 status",
					"status", resp.StatusCode,
					"body", string(body),
				)
				return "", fmt.Errorf("Groq API error (status %d): %s", resp.StatusCode, string(body))
			}

			var groqResp GroqResponse
			if err := json.Unmarshal(body, &groqResp); err != nil {
				return "", fmt.Errorf("failed to parse response: %w", err)
			}

			if groqResp.Error != nil {
				msg := strings.ToLower(groqResp.Error.Message)
				if strings.Contains(msg, "daily") || strings.Contains(msg, "quota") {
					c.rotateKey(keyIdx, true)
					triedKeys++
					continue
				}
				return "", fmt.Errorf("Groq API error: %s", groqResp.Error.Message)
			}

			if len(groqResp.Choices) == 0 {
				return "", fmt.Errorf("no choices in response")
			}

			c.markKeySuccess(keyIdx)

			c.logger.Debug("Groq API request successful",
				"key_idx", keyIdx,
				"tokens_used", groqResp.Usage.TotalTokens,
			)

			return groqResp.Choices[0].Message.Content, nil
		}

		c.keyMutex.RLock()
		allExhaustedUntil := c.allExhaustedUntil
		c.keyMutex.RUnlock()

		if allExhaustedUntil.IsZero() {
			return "", fmt.Errorf("all API keys exhausted")
		}
	}
}
