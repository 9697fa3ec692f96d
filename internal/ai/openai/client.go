package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Lin-Jiong-HDU/ag/internal/ai"
	"github.com/google/uuid"
)

const (
	// DefaultBaseURL points at the DeepSeek OpenAI-compatible endpoint.
	DefaultBaseURL = "https://api.deepseek.com/v1"
	DefaultModel   = "deepseek-chat"

	defaultConnectTimeout = 30 * time.Second
	defaultBackoff        = 500 * time.Millisecond
	defaultMaxBackoff     = 5 * time.Second

	// RequestIDHeader carries the per-request id sent with every call.
	RequestIDHeader = "X-Request-Id"

	maxLineSize = 1 << 20
)

// StatusError is returned when the API answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// Client implements ai.StreamProvider for OpenAI-compatible chat APIs.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	maxBackoff time.Duration
	logger     *slog.Logger
	newID      func() string
}

// Option configures a Client.
type Option func(*Client)

// WithConnectTimeout bounds the wait for response headers. The body of a
// stream is not subject to it.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			return
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.ResponseHeaderTimeout = d
		c.httpClient = &http.Client{Transport: transport}
	}
}

// WithRetry sets how many times a request that failed before streaming
// started is retried, and the initial backoff between attempts.
func WithRetry(maxRetries int, backoff time.Duration) Option {
	return func(c *Client) {
		if maxRetries >= 0 {
			c.maxRetries = maxRetries
		}
		if backoff > 0 {
			c.backoff = backoff
		}
	}
}

// WithLogger sets the logger for request lifecycle records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a new client
func NewClient(apiKey, model, baseURL string, opts ...Option) *Client {
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxRetries: 2,
		backoff:    defaultBackoff,
		maxBackoff: defaultMaxBackoff,
		logger:     slog.New(slog.DiscardHandler),
		newID:      uuid.NewString,
	}
	WithConnectTimeout(defaultConnectTimeout)(c)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ChatStream starts a streaming chat completion.
// The caller must range over the returned sequence to release the connection.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ai.StreamOptions) (iter.Seq2[string, error], error) {
	model := opts.Model
	if model == "" {
		model = c.model
	}

	reqBody := map[string]interface{}{
		"model":       model,
		"messages":    messages,
		"temperature": opts.Temperature,
		"stream":      true,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	requestID := c.newID()
	resp, err := c.open(ctx, jsonBody, requestID)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", requestID, err)
	}

	c.logger.Debug("Stream opened", "request_id", requestID, "model", model)

	return func(yield func(string, error) bool) {
		defer resp.Body.Close()

		for chunk, err := range DecodeStream(resp.Body) {
			if err != nil {
				yield("", fmt.Errorf("request %s: %w", requestID, err))
				return
			}
			if !yield(chunk, nil) {
				return
			}
		}
		c.logger.Debug("Stream finished", "request_id", requestID)
	}, nil
}

// open sends the request, retrying failures that happen before the stream starts.
func (c *Client) open(ctx context.Context, body []byte, requestID string) (*http.Response, error) {
	delay := c.backoff
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("Retrying API request",
				"request_id", requestID,
				"attempt", attempt,
				"error", lastErr.Error(),
			)
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
			delay *= 2
			if delay > c.maxBackoff {
				delay = c.maxBackoff
			}
		}

		resp, err := c.do(ctx, body, requestID)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil || !retryable(err) {
			break
		}
	}

	return nil, lastErr
}

func (c *Client) do(ctx context.Context, body []byte, requestID string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	return resp, nil
}

func retryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// DecodeStream decodes server-sent events into content fragments.
//
// Lines that are not "data:" events, payloads that do not decode as a chat
// completion chunk and chunks without content are skipped. "data: [DONE]"
// ends the sequence. A read error is yielded once and ends the sequence.
func DecodeStream(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		for scanner.Scan() {
			line := strings.TrimRight(scanner.Text(), "\r")

			// SSE: "data: {...}"
			if !strings.HasPrefix(line, "data:") {
				continue
			}

			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				return
			}

			var chunk struct {
				Choices []struct {
					Delta struct {
						Content string `json:"content"`
					} `json:"delta"`
				} `json:"choices"`
			}

			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				continue
			}

			if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
				continue
			}

			if !yield(chunk.Choices[0].Delta.Content, nil) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			yield("", fmt.Errorf("failed to read stream: %w", err))
		}
	}
}
