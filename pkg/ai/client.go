package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hagglehub/hagglehub-backend/pkg/config"
	pkgerrors "github.com/hagglehub/hagglehub-backend/pkg/errors"
)

const responseBodyReadLimit int64 = 1 << 20

var errAPIKeyRequired = errors.New("ai api key is required")

// Client wraps the LLM invocation endpoint used for negotiation coaching.
// The service is treated as an opaque prompt-in/JSON-out boundary.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured invocation base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the LLM client from configuration.
func NewClient(cfg config.AIConfig, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// InvokeRequest is the prompt payload. ResponseSchema, when present, asks the
// model to answer with JSON matching the given schema.
type InvokeRequest struct {
	Prompt         string         `json:"prompt"`
	ResponseSchema map[string]any `json:"response_json_schema,omitempty"`
}

// InvokeResult carries the raw structured answer from the model.
type InvokeResult struct {
	Raw json.RawMessage
}

// Decode unmarshals the structured answer into dest.
func (r InvokeResult) Decode(dest any) error {
	if len(r.Raw) == 0 {
		return fmt.Errorf("empty ai response")
	}
	return json.Unmarshal(r.Raw, dest)
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type       string         `json:"type"`
	JSONSchema map[string]any `json:"json_schema,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Invoke sends the prompt to the chat-completions endpoint and returns the
// model's answer. Rate-limit responses surface as retryable coded errors so
// callers can extend their backoff instead of dropping state.
func (c *Client) Invoke(ctx context.Context, req InvokeRequest) (*InvokeResult, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prompt is required")
	}

	payload := chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: req.Prompt}},
	}
	if req.ResponseSchema != nil {
		payload.ResponseFormat = &responseFormat{
			Type: "json_schema",
			JSONSchema: map[string]any{
				"name":   "response",
				"schema": req.ResponseSchema,
			},
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode ai request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build ai request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "invoke ai service")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read ai response")
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, pkgerrors.New(pkgerrors.CodeRateLimit, "ai service rate limited")
	case resp.StatusCode >= 400:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("ai service returned %d", resp.StatusCode)).
			WithDetails(map[string]any{"body": truncate(string(raw), 256)})
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode ai response")
	}
	if parsed.Error != nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "ai response contained no choices")
	}

	return &InvokeResult{Raw: json.RawMessage(parsed.Choices[0].Message.Content)}, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
