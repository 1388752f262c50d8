package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

// Ollama provides an implementation of the LLM interface for interacting with Ollama's language models.
// It manages connections to an Ollama server instance.
type Ollama struct {
	host   string
	model  string
	params LLMParameters

	client *api.Client

	logger *zap.Logger
}

// NewOllama creates a new Ollama instance with the specified host URL and model name. The host
// parameter should be a valid URL pointing to an Ollama server.
func NewOllama(host, model string, params LLMParameters, logger *zap.Logger) (Ollama, error) {
	u, err := url.Parse(host)
	if err != nil {
		return Ollama{}, fmt.Errorf("error parsing host %q: %w", host, err)
	}

	return Ollama{
		host:   host,
		model:  model,
		params: params,
		client: api.NewClient(u, &http.Client{}),
		logger: logger.With(zap.String("module", "ollama")),
	}, nil
}

// Complete implements the LLM interface. The answer is requested without streaming.
func (o Ollama) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	f := false
	req := api.ChatRequest{
		Model: o.model,
		Messages: []api.Message{
			{
				Role:    "system",
				Content: systemPrompt,
			},
			{
				Role:    "user",
				Content: prompt,
			},
		},
		Stream:  &f,
		Options: o.options(),
	}

	var answer string
	if err := o.client.Chat(ctx, &req, func(res api.ChatResponse) error {
		answer += res.Message.Content
		return nil
	}); err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}

	o.logger.Debug("Completion", zap.String("model", o.model), zap.Int("length", len(answer)))
	return answer, nil
}

func (o Ollama) options() map[string]any {
	opts := map[string]any{}
	if o.params.Temperature != nil {
		opts["temperature"] = *o.params.Temperature
	}
	if o.params.TopP != nil {
		opts["top_p"] = *o.params.TopP
	}
	if o.params.Stop != nil {
		opts["stop"] = o.params.Stop
	}
	if o.params.Seed != nil {
		opts["seed"] = *o.params.Seed
	}
	return opts
}
