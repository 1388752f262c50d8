package services

import "context"

// LLM is a large language model that answers a single prompt under a system prompt.
type LLM interface {
	Complete(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// LLMParameters holds the optional sampling parameters shared by the providers. Nil fields are left to the
// provider's defaults.
type LLMParameters struct {
	Temperature *float32 `yaml:"temperature"`
	TopP        *float32 `yaml:"topP"`
	Stop        []string `yaml:"stop"`
	Seed        *int     `yaml:"seed"`
}
