package models

import "github.com/dmitrijs2005/ragkeeper/internal/server/policy"

// Passage is one indexed chunk of a source document.
type Passage struct {
	ID       string
	SourceID string
	Category policy.Category
	Text     string
}

// ScoredPassage is a Passage together with its similarity to a query.
// Higher scores are more similar.
type ScoredPassage struct {
	Passage
	Score float64
}
