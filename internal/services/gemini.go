package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/timonchiklol/console-rpg/pkg/chat"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	DefaultGeminiTemperature = 0.7
	DefaultGeminiMaxTokens   = 2048
)

// GeminiService implements LLMService for Google Gemini. It holds a pool of
// API keys and rotates to the next key whenever one is rate-limited, so a
// single throttled key does not stall the whole table.
type GeminiService struct {
	keys       []string
	modelName  string
	baseURL    string
	httpClient *http.Client
	maxRetries uint64
	retryWait  time.Duration
	logger     *slog.Logger

	mu   sync.Mutex
	next int // index of the key to try first
}

var _ LLMService = (*GeminiService)(nil)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiChatRequest struct {
	Contents          []geminiContent        `json:"contents"`
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiChatResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// NewGeminiService creates a Gemini-backed LLM service. keys must be
// non-empty; timeout bounds each HTTP attempt.
func NewGeminiService(keys []string, modelName string, timeout time.Duration, maxRetries int, retryWait time.Duration, logger *slog.Logger) *GeminiService {
	return &GeminiService{
		keys:       keys,
		modelName:  modelName,
		baseURL:    geminiBaseURL,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: uint64(maxRetries),
		retryWait:  retryWait,
		logger:     logger,
	}
}

// splitChatMessages combines system messages into the systemInstruction and
// maps the rest onto Gemini's user/model roles.
func (g *GeminiService) splitChatMessages(messages []chat.ChatMessage) (*geminiContent, []geminiContent) {
	var systemParts []geminiPart
	var contents []geminiContent

	for _, msg := range messages {
		switch msg.Role {
		case chat.ChatRoleSystem:
			systemParts = append(systemParts, geminiPart{Text: msg.Content})
		case chat.ChatRoleAgent:
			contents = append(contents, geminiContent{Role: "model", Parts: []geminiPart{{Text: msg.Content}}})
		default:
			contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: msg.Content}}})
		}
	}

	var system *geminiContent
	if len(systemParts) > 0 {
		system = &geminiContent{Parts: systemParts}
	}
	return system, contents
}

// GenerateTurn sends the conversation to Gemini and parses the structured
// turn response. Transient failures are retried with a constant wait; when
// the model answers but ignores the schema, the raw text becomes a
// mechanics-free turn instead of an error.
func (g *GeminiService) GenerateTurn(ctx context.Context, messages []chat.ChatMessage) (*chat.TurnResponse, error) {
	system, contents := g.splitChatMessages(messages)

	reqBody, err := json.Marshal(geminiChatRequest{
		Contents:          contents,
		SystemInstruction: system,
		GenerationConfig: geminiGenerationConfig{
			Temperature:      DefaultGeminiTemperature,
			MaxOutputTokens:  DefaultGeminiMaxTokens,
			ResponseMimeType: "application/json",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var content string
	operation := func() error {
		var opErr error
		content, opErr = g.completeWithKeyPool(ctx, reqBody)
		return opErr
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(g.retryWait), g.maxRetries),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	tr, err := ParseTurnResponse(content)
	if err != nil {
		g.logger.Warn("Model output did not match schema, degrading to plain narration", "error", err)
		return DegradedTurnResponse(content), nil
	}
	return tr, nil
}

// completeWithKeyPool makes one generation attempt, trying every key in the
// pool before reporting a retryable rate-limit failure. Rotation is sticky:
// the key that succeeds is tried first next time.
func (g *GeminiService) completeWithKeyPool(ctx context.Context, reqBody []byte) (string, error) {
	g.mu.Lock()
	start := g.next
	g.mu.Unlock()

	var lastErr error
	for i := 0; i < len(g.keys); i++ {
		idx := (start + i) % len(g.keys)

		content, err := g.complete(ctx, reqBody, g.keys[idx])
		if err == nil {
			g.mu.Lock()
			g.next = idx
			g.mu.Unlock()
			return content, nil
		}

		lastErr = err
		var he *httpError
		if !errors.As(err, &he) {
			return "", err // transport error, retryable
		}
		switch {
		case he.status == http.StatusTooManyRequests:
			g.logger.Debug("Gemini key rate limited, rotating", "key_index", idx)
			continue
		case he.status >= 500:
			return "", err // retryable after the wait
		default:
			return "", backoff.Permanent(err)
		}
	}

	// Every key is throttled; worth waiting out the interval.
	return "", fmt.Errorf("all %d API keys rate limited: %w", len(g.keys), lastErr)
}

func (g *GeminiService) complete(ctx context.Context, reqBody []byte, apiKey string) (string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.modelName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &httpError{status: resp.StatusCode, body: string(body)}
	}

	var geminiResp geminiChatResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if geminiResp.Error != nil {
		return "", fmt.Errorf("API error: %s", geminiResp.Error.Message)
	}
	if len(geminiResp.Candidates) == 0 {
		return "", fmt.Errorf("response has no candidates")
	}

	var text string
	for _, part := range geminiResp.Candidates[0].Content.Parts {
		text += part.Text
	}
	if text == "" {
		return "", fmt.Errorf("response candidate has no text")
	}
	return text, nil
}

// httpError carries the status code so the retry loop can classify
// failures.
type httpError struct {
	status int
	body   string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.status, e.body)
}
