package models

// AnswerMode tells how an Answer was produced.
type AnswerMode string

const (
	// ModeGenerated means the text came from the language model.
	ModeGenerated AnswerMode = "generated"
	// ModeFallback means generation failed and the text was assembled from
	// the retrieved passages.
	ModeFallback AnswerMode = "fallback"
	// ModeNoContext means nothing was retrieved for the caller's role.
	ModeNoContext AnswerMode = "no_context"
)

// Answer is the pipeline result returned to callers.
type Answer struct {
	Text    string
	Sources []string
	Mode    AnswerMode
}
