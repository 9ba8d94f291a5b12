// Package corpus reads and writes the passage snapshot that ingestion
// produces and the server indexes at start-up. A snapshot is JSON Lines:
// one passage object per line.
package corpus

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/ragkeeper/internal/server/models"
	"github.com/dmitrijs2005/ragkeeper/internal/server/policy"
)

// maxLine bounds one encoded passage.
const maxLine = 4 << 20

// Store loads and saves a snapshot.
type Store interface {
	Load(ctx context.Context) ([]models.Passage, error)
	Save(ctx context.Context, passages []models.Passage) error
}

type record struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Category string `json:"category"`
	Text     string `json:"text"`
}

// Encode writes passages as JSON Lines.
func Encode(w io.Writer, passages []models.Passage) error {
	enc := json.NewEncoder(w)
	for _, p := range passages {
		if err := enc.Encode(record{ID: p.ID, Source: p.SourceID, Category: string(p.Category), Text: p.Text}); err != nil {
			return fmt.Errorf("encode passage %s: %w", p.ID, err)
		}
	}
	return nil
}

// Decode reads JSON Lines written by Encode. Blank lines are skipped and an
// unknown or missing category is read as general.
func Decode(r io.Reader) ([]models.Passage, error) {
	var out []models.Passage

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		var rec record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if rec.ID == "" {
			return nil, fmt.Errorf("line %d: missing id", line)
		}
		out = append(out, models.Passage{
			ID:       rec.ID,
			SourceID: rec.Source,
			Category: policy.ParseCategory(rec.Category),
			Text:     rec.Text,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Open returns the store for uri: s3://bucket/key selects object storage,
// anything else is a local file path.
func Open(ctx context.Context, uri string, s3cfg S3Config) (Store, error) {
	if rest, ok := strings.CutPrefix(uri, "s3://"); ok {
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return nil, fmt.Errorf("invalid s3 uri %q", uri)
		}
		client, err := NewS3Client(ctx, s3cfg)
		if err != nil {
			return nil, err
		}
		return NewS3Store(client, bucket, key), nil
	}
	if uri == "" {
		return nil, fmt.Errorf("empty corpus uri")
	}
	return NewFileStore(uri), nil
}
