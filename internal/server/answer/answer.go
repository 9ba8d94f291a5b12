// Package answer turns retrieved passages into a grounded reply. When the
// generation service cannot be used the reply is assembled from the passages
// themselves, so a caller always gets an answer.
package answer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/ragkeeper/internal/common"
	"github.com/dmitrijs2005/ragkeeper/internal/logging"
	"github.com/dmitrijs2005/ragkeeper/internal/server/generation"
	"github.com/dmitrijs2005/ragkeeper/internal/server/models"
)

const (
	NoContextText  = "No relevant information found."
	FallbackPrefix = "Based on the available information: "

	// fallbackPassages is how many passages the fallback quotes.
	fallbackPassages = 3

	DefaultTimeout = 30 * time.Second
)

// Answerer calls the generator with a per-attempt timeout and at most
// Retries extra attempts.
type Answerer struct {
	gen     generation.Generator
	log     logging.Logger
	params  generation.Params
	timeout time.Duration
	retries int
}

type Option func(*Answerer)

func WithParams(p generation.Params) Option {
	return func(a *Answerer) { a.params = p }
}

func WithTimeout(d time.Duration) Option {
	return func(a *Answerer) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithRetries sets the number of extra attempts, clamped to 0..1.
func WithRetries(n int) Option {
	return func(a *Answerer) { a.retries = max(0, min(n, 1)) }
}

func New(gen generation.Generator, log logging.Logger, opts ...Option) *Answerer {
	if log == nil {
		log = logging.Nop()
	}
	a := &Answerer{
		gen:     gen,
		log:     log,
		params:  generation.DefaultParams(),
		timeout: DefaultTimeout,
		retries: 1,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Answer never fails. No passages yields the no-context reply without any
// outbound call; a generation failure yields the fallback built from the
// passages. Sources list each passage's source id in rank order.
func (a *Answerer) Answer(ctx context.Context, query string, passages []models.ScoredPassage) models.Answer {
	if len(passages) == 0 {
		return models.Answer{Text: NoContextText, Sources: []string{}, Mode: models.ModeNoContext}
	}

	sources := make([]string, len(passages))
	for i, p := range passages {
		sources[i] = p.SourceID
	}

	text, err := a.generate(ctx, BuildPrompt(query, passages))
	if err != nil {
		a.log.Warn(ctx, "generation failed, using fallback answer", "error", err)
		return models.Answer{Text: Fallback(passages), Sources: sources, Mode: models.ModeFallback}
	}
	return models.Answer{Text: text, Sources: sources, Mode: models.ModeGenerated}
}

func (a *Answerer) generate(ctx context.Context, prompt string) (string, error) {
	if a.gen == nil {
		return "", common.ErrGenerationUnavailable
	}

	var lastErr error
	for attempt := 0; attempt <= a.retries; attempt++ {
		actx, cancel := context.WithTimeout(ctx, a.timeout)
		text, err := a.gen.Generate(actx, prompt, a.params)
		cancel()
		if err == nil {
			return text, nil
		}
		lastErr = err

		if errors.Is(err, common.ErrGenerationUnavailable) || ctx.Err() != nil {
			break
		}
		a.log.Debug(ctx, "generation attempt failed", "attempt", attempt+1, "error", err)
	}
	return "", lastErr
}

// Fallback quotes the first passages verbatim.
func Fallback(passages []models.ScoredPassage) string {
	n := min(len(passages), fallbackPassages)
	texts := make([]string, n)
	for i := 0; i < n; i++ {
		texts[i] = passages[i].Text
	}
	return FallbackPrefix + strings.Join(texts, " ")
}
