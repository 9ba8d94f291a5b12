package retrieval

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/ragkeeper/internal/logging"
	"github.com/dmitrijs2005/ragkeeper/internal/server/models"
	"github.com/dmitrijs2005/ragkeeper/internal/server/policy"
	"github.com/dmitrijs2005/ragkeeper/internal/server/vectorindex/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIndex struct {
	hits   []models.ScoredPassage
	err    error
	gotN   int
	called int
}

func (f *fakeIndex) Search(_ context.Context, _ string, n int) ([]models.ScoredPassage, error) {
	f.called++
	f.gotN = n
	if f.err != nil {
		return nil, f.err
	}
	out := append([]models.ScoredPassage(nil), f.hits...)
	if n < len(out) {
		out = out[:n]
	}
	return out, nil
}

func hit(id, src string, cat policy.Category, score float64) models.ScoredPassage {
	return models.ScoredPassage{
		Passage: models.Passage{ID: id, SourceID: src, Category: cat, Text: "text " + id},
		Score:   score,
	}
}

func TestRetrieve_FiltersOverfetchedNeighbours(t *testing.T) {
	// 15 neighbours, only 4 of them engineering.
	var hits []models.ScoredPassage
	for i := 0; i < 15; i++ {
		cat := policy.CategoryFinance
		if i%4 == 1 {
			cat = policy.CategoryEngineering
		}
		hits = append(hits, hit(fmt.Sprintf("p%02d", i), fmt.Sprintf("doc%02d.md", i), cat, 1-float64(i)/100))
	}
	idx := &fakeIndex{hits: hits}
	r := New(idx, logging.Nop(), 5, 3)

	got := r.Retrieve(context.Background(), "deploy", policy.RoleEngineering, 5)

	assert.Equal(t, 15, idx.gotN)
	require.Len(t, got, 4)
	for i, g := range got {
		assert.Equal(t, policy.CategoryEngineering, g.Category)
		if i > 0 {
			assert.GreaterOrEqual(t, got[i-1].Score, g.Score)
		}
	}
	assert.Equal(t, "p01", got[0].ID)
}

func TestRetrieve_StopsAtK(t *testing.T) {
	var hits []models.ScoredPassage
	for i := 0; i < 9; i++ {
		hits = append(hits, hit(fmt.Sprintf("g%d", i), "general.md", policy.CategoryGeneral, 0.9-float64(i)/10))
	}
	r := New(&fakeIndex{hits: hits}, nil, 5, 3)

	got := r.Retrieve(context.Background(), "q", policy.RoleAdmin, 2)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"g0", "g1"}, []string{got[0].ID, got[1].ID})
}

func TestRetrieve_NoAllowedCandidates(t *testing.T) {
	idx := &fakeIndex{hits: []models.ScoredPassage{
		hit("f1", "fin.md", policy.CategoryFinance, 0.9),
		hit("h1", "hr.md", policy.CategoryHR, 0.8),
	}}
	r := New(idx, logging.Nop(), 5, 3)

	got := r.Retrieve(context.Background(), "q", policy.RoleMarketing, 5)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRetrieve_UnknownRoleSeesGeneralOnly(t *testing.T) {
	idx := &fakeIndex{hits: []models.ScoredPassage{
		hit("e1", "eng.md", policy.CategoryEngineering, 0.9),
		hit("g1", "faq.md", policy.CategoryGeneral, 0.5),
		hit("m1", "mkt.md", policy.CategoryMarketing, 0.4),
	}}
	r := New(idx, logging.Nop(), 5, 3)

	got := r.Retrieve(context.Background(), "q", policy.Role("intern"), 5)
	require.Len(t, got, 1)
	assert.Equal(t, "g1", got[0].ID)
}

func TestRetrieve_IndexErrorYieldsEmpty(t *testing.T) {
	r := New(&fakeIndex{err: errors.New("connection refused")}, logging.Nop(), 5, 3)

	got := r.Retrieve(context.Background(), "q", policy.RoleAdmin, 5)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRetrieve_NonPositiveKUsesDefault(t *testing.T) {
	idx := &fakeIndex{}
	r := New(idx, logging.Nop(), 4, 2)

	r.Retrieve(context.Background(), "q", policy.RoleUser, 0)
	assert.Equal(t, 8, idx.gotN)

	r.Retrieve(context.Background(), "q", policy.RoleUser, -3)
	assert.Equal(t, 8, idx.gotN)
}

func TestNew_Defaults(t *testing.T) {
	r := New(&fakeIndex{}, nil, 0, 0)
	assert.Equal(t, DefaultTopK, r.topK)
	assert.Equal(t, DefaultOverfetch, r.overfetch)
	assert.NotNil(t, r.log)
}

func TestRetrieve_TieOrdering(t *testing.T) {
	idx := &fakeIndex{hits: []models.ScoredPassage{
		hit("b_1", "b.md", policy.CategoryGeneral, 0.5),
		hit("a_2", "a.md", policy.CategoryGeneral, 0.5),
		hit("a_1", "a.md", policy.CategoryGeneral, 0.5),
		hit("z_0", "z.md", policy.CategoryGeneral, 0.7),
	}}
	r := New(idx, logging.Nop(), 5, 3)

	got := r.Retrieve(context.Background(), "q", policy.RoleUser, 5)
	ids := make([]string, len(got))
	for i, g := range got {
		ids[i] = g.ID
	}
	assert.Equal(t, []string{"z_0", "a_1", "a_2", "b_1"}, ids)

	again := r.Retrieve(context.Background(), "q", policy.RoleUser, 5)
	assert.Equal(t, got, again)
}

func TestRetrieve_TiesDoNotDependOnIndexOrder(t *testing.T) {
	tied := []models.ScoredPassage{
		hit("c_0", "c.md", policy.CategoryGeneral, 0.5),
		hit("a_0", "a.md", policy.CategoryGeneral, 0.5),
		hit("b_0", "b.md", policy.CategoryGeneral, 0.5),
	}
	reversed := []models.ScoredPassage{tied[2], tied[1], tied[0]}

	first := New(&fakeIndex{hits: tied}, nil, 5, 3).Retrieve(context.Background(), "q", policy.RoleUser, 5)
	second := New(&fakeIndex{hits: reversed}, nil, 5, 3).Retrieve(context.Background(), "q", policy.RoleUser, 5)

	assert.Equal(t, first, second)
	assert.Equal(t, "a_0", first[0].ID)
}

type unitEmbedder struct{}

func (unitEmbedder) Name() string           { return "unit" }
func (unitEmbedder) Prepare([]string) error { return nil }
func (unitEmbedder) Embed(context.Context, string) ([]float64, error) {
	return []float64{1, 0}, nil
}

func TestRetrieve_UnrecognisedCategoryHiddenFromEveryRole(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":[
			{"score":0.95,"payload":{"passage_id":"board_0","source":"board_minutes.md","category":"executive","text":"secret board minutes"}},
			{"score":0.90,"payload":{"passage_id":"legal_0","source":"contracts.md","category":"Executive-Board","text":"contract terms"}},
			{"score":0.50,"payload":{"passage_id":"faq_0","source":"faq.md","text":"office hours"}}
		]}`))
	}))
	defer srv.Close()

	ix := qdrant.New(qdrant.Config{URL: srv.URL, Collection: "documents"}, unitEmbedder{})
	r := New(ix, logging.Nop(), 5, 3)

	for _, role := range []policy.Role{policy.RoleAdmin, policy.RoleUser, policy.RoleEngineering, policy.Role("intern")} {
		got := r.Retrieve(context.Background(), "board", role, 5)
		require.Len(t, got, 1, "role %q", role)
		assert.Equal(t, "faq.md", got[0].SourceID)
		assert.Equal(t, policy.CategoryGeneral, got[0].Category)
	}
}
