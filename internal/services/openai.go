package services

import (
	"context"
	"errors"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAI provides an implementation of the LLM interface for OpenAI and OpenAI compatible APIs, such as
// OpenRouter, selected through the base URL.
type OpenAI struct {
	model     string
	maxTokens int
	params    LLMParameters

	client *goopenai.Client

	logger *zap.Logger
}

// NewOpenAI creates a new OpenAI instance with the specified API key, base URL and model name. An empty
// baseURL selects the OpenAI API.
func NewOpenAI(apiKey, baseURL, model string, maxTokens int, params LLMParameters, logger *zap.Logger) OpenAI {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return OpenAI{
		model:     model,
		maxTokens: maxTokens,
		params:    params,
		client:    goopenai.NewClientWithConfig(cfg),
		logger:    logger.With(zap.String("module", "openai")),
	}
}

// Complete is a wrapper around the OpenAI chat completion API.
func (o OpenAI) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	req := o.chatRequest([]goopenai.ChatCompletionMessage{
		{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: systemPrompt,
		},
		{
			Role:    goopenai.ChatMessageRoleUser,
			Content: prompt,
		},
	})

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices found")
	}

	o.logger.Debug("Completion",
		zap.String("model", o.model),
		zap.Int("promptTokens", resp.Usage.PromptTokens),
		zap.Int("completionTokens", resp.Usage.CompletionTokens))

	return resp.Choices[0].Message.Content, nil
}

func (o OpenAI) chatRequest(messages []goopenai.ChatCompletionMessage) goopenai.ChatCompletionRequest {
	req := goopenai.ChatCompletionRequest{
		Model:     o.model,
		Messages:  messages,
		MaxTokens: o.maxTokens,
	}

	if o.params.Temperature != nil {
		req.Temperature = *o.params.Temperature
	}
	if o.params.TopP != nil {
		req.TopP = *o.params.TopP
	}
	if o.params.Stop != nil {
		req.Stop = o.params.Stop
	}
	if o.params.Seed != nil {
		req.Seed = o.params.Seed
	}

	return req
}
