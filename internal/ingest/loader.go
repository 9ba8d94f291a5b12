// Package ingest turns a directory of text documents into the passage corpus
// the server answers from.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/ragkeeper/internal/server/policy"
)

// Document is one source file.
type Document struct {
	Source   string
	Category policy.Category
	Text     string
}

var documentExts = map[string]bool{".txt": true, ".md": true}

// LoadDocuments reads the .txt and .md files directly under dir, sorted by
// name. Source is the file name relative to dir.
func LoadDocuments(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var docs []Document
	for _, e := range entries {
		if e.IsDir() || !documentExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		docs = append(docs, Document{
			Source:   e.Name(),
			Category: CategoryFromName(e.Name()),
			Text:     string(data),
		})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Source < docs[j].Source })
	return docs, nil
}

// CategoryFromName derives a category from a file name. "hr" must be a whole
// word of the name; the other keywords may appear anywhere.
func CategoryFromName(name string) policy.Category {
	lower := strings.ToLower(name)
	words := strings.FieldsFunc(lower, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
	hasWord := func(w string) bool {
		for _, x := range words {
			if x == w {
				return true
			}
		}
		return false
	}

	switch {
	case strings.Contains(lower, "engineering"):
		return policy.CategoryEngineering
	case strings.Contains(lower, "financ"):
		return policy.CategoryFinance
	case hasWord("hr") || strings.Contains(lower, "employee"):
		return policy.CategoryHR
	case strings.Contains(lower, "market"):
		return policy.CategoryMarketing
	default:
		return policy.CategoryGeneral
	}
}
