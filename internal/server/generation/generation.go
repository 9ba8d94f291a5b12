// Package generation is the boundary to the text-generation service that
// turns a grounded prompt into an answer.
package generation

import "context"

// Params are the sampling parameters sent with every request.
type Params struct {
	Temperature      float64
	MaxTokens        int
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
}

// DefaultParams favour short, consistent answers.
func DefaultParams() Params {
	return Params{
		Temperature:      0.3,
		MaxTokens:        800,
		TopP:             0.9,
		FrequencyPenalty: 0.1,
		PresencePenalty:  0.1,
	}
}

// Generator produces a completion for prompt. An empty completion is an
// error.
type Generator interface {
	Generate(ctx context.Context, prompt string, p Params) (string, error)
}
