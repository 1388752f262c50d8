package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/tmaxmax/go-sse"
	"go.uber.org/zap"
)

// Anthropic provides an interface to the Anthropic API for large language model interactions. It implements
// the LLM interface by streaming a message and collecting its text deltas.
type Anthropic struct {
	apiKey    string
	model     string
	maxTokens int
	params    LLMParameters
	endpoint  string

	client *http.Client

	logger *zap.Logger
}

type anthropicChatRequest struct {
	Model         string             `json:"model"`
	Messages      []anthropicMessage `json:"messages"`
	System        string             `json:"system,omitempty"`
	MaxTokens     int                `json:"max_tokens,omitempty"`
	Temperature   *float32           `json:"temperature,omitempty"`
	TopP          *float32           `json:"top_p,omitempty"`
	StopSequences []string           `json:"stop_sequences,omitempty"`
	Stream        bool               `json:"stream"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicStreamResponse struct {
	Type  string `json:"type"`
	Delta struct {
		Text string `json:"text"`
	} `json:"delta"`
}

type anthropicError struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

const (
	anthropicAPIEndpoint = "https://api.anthropic.com/v1"
)

// NewAnthropic creates a new Anthropic instance with the specified API key, model name, and maximum
// token limit. An empty endpoint selects the public API.
func NewAnthropic(apiKey, model, endpoint string, maxTokens int, params LLMParameters, logger *zap.Logger) Anthropic {
	if endpoint == "" {
		endpoint = anthropicAPIEndpoint
	}
	return Anthropic{
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		params:    params,
		endpoint:  strings.TrimRight(endpoint, "/"),
		client:    &http.Client{},
		logger:    logger.With(zap.String("module", "anthropic")),
	}
}

// Complete implements the LLM interface.
func (a Anthropic) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	reqBody := anthropicChatRequest{
		Model: a.model,
		Messages: []anthropicMessage{
			{
				Role:    "user",
				Content: prompt,
			},
		},
		Stream:        true,
		System:        systemPrompt,
		MaxTokens:     a.maxTokens,
		Temperature:   a.params.Temperature,
		TopP:          a.params.TopP,
		StopSequences: a.params.Stop,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.endpoint+"/messages", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	var sb strings.Builder
	for ev, err := range sse.Read(resp.Body, nil) {
		if err != nil {
			return "", fmt.Errorf("error reading response: %w", err)
		}
		switch ev.Type {
		case "error":
			var e anthropicError
			if err := json.Unmarshal([]byte(ev.Data), &e); err != nil {
				return "", fmt.Errorf("error unmarshaling error: %w", err)
			}
			return "", fmt.Errorf("anthropic error %s: %s", e.Error.Type, e.Error.Message)
		case "message_stop":
			a.logger.Debug("Completion", zap.String("model", a.model), zap.Int("length", sb.Len()))
			return sb.String(), nil
		case "content_block_delta":
			var res anthropicStreamResponse
			if err := json.Unmarshal([]byte(ev.Data), &res); err != nil {
				return "", fmt.Errorf("error unmarshaling response: %w", err)
			}
			sb.WriteString(res.Delta.Text)
		default:
			continue
		}
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return sb.String(), nil
}
