package answer

import (
	"strings"

	"github.com/dmitrijs2005/ragkeeper/internal/server/models"
)

const (
	contextBegin = "<<<CONTEXT"
	contextEnd   = "CONTEXT>>>"
)

// BuildPrompt embeds the passage texts verbatim between the context markers,
// one passage per block, followed by the question and the grounding rules.
func BuildPrompt(query string, passages []models.ScoredPassage) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant that answers questions using only the context below.\n\n")
	b.WriteString(contextBegin)
	b.WriteString("\n")
	for _, p := range passages {
		b.WriteString("[source: ")
		b.WriteString(p.SourceID)
		b.WriteString("]\n")
		b.WriteString(p.Text)
		b.WriteString("\n\n")
	}
	b.WriteString(contextEnd)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(query)
	b.WriteString("\n\nInstructions:\n")
	b.WriteString("- Answer based only on the context between the markers above.\n")
	b.WriteString("- If the context does not contain enough information, say so clearly.\n")
	b.WriteString("- Be specific and concise.\n\nAnswer:")
	return b.String()
}
