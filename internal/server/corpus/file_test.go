package corpus

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/ragkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "corpus.jsonl")
	st := NewFileStore(path)

	require.NoError(t, st.Save(ctx, samplePassages()))

	got, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, samplePassages(), got)

	require.NoError(t, st.Save(ctx, samplePassages()[:1]))
	got, err = st.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFileStore_LoadMissing(t *testing.T) {
	st := NewFileStore(filepath.Join(t.TempDir(), "absent.jsonl"))

	_, err := st.Load(context.Background())
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
