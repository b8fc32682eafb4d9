package search

import (
	"testing"

	"github.com/poiesic/docflow/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		engine, err := NewEngine()
		require.NoError(t, err)
		assert.NotNil(t, engine)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		engine, err := NewEngine(WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, engine)
	})
}

func TestSearch_UnknownStrategy(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	_, err = engine.Search(nil, "query", Strategy("vector"), Options{})
	assert.Equal(t, ErrUnknownStrategy, err)
}

func TestSearch_FulltextScenario(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	candidates := []*core.Document{
		{Id: "doc1", Title: "Database Engine", Keywords: []string{"database", "storage"}},
		{Id: "doc2", Title: "UI Widget", Keywords: []string{"ui"}},
	}

	result, err := engine.Search(candidates, "database", StrategyFulltext, Options{})
	require.NoError(t, err)

	// doc2 scores zero and is excluded; doc1 ranks alone at the top.
	require.Len(t, result.Results, 1)
	assert.Equal(t, "doc1", result.Results[0].Document.Id)
	assert.Greater(t, result.Results[0].Score, 0.0)
}

func TestSearch_FulltextMonotonicInTermFrequency(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	// Same token count per document, different query-term frequency. The
	// third document keeps the corpus document frequency below N so IDF
	// stays positive.
	candidates := []*core.Document{
		{Id: "once", Title: "Doc One", Content: "database alpha beta gamma"},
		{Id: "twice", Title: "Doc Two", Content: "database database beta gamma"},
		{Id: "other", Title: "Doc Three", Content: "alpha beta gamma delta"},
	}

	result, err := engine.Search(candidates, "database", StrategyFulltext, Options{})
	require.NoError(t, err)
	require.Len(t, result.Results, 2)

	assert.Equal(t, "twice", result.Results[0].Document.Id)
	assert.Greater(t, result.Results[0].Score, result.Results[1].Score)
}

func TestSearch_FulltextTitleBoost(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	// Identical content except only one title contains the whole query.
	candidates := []*core.Document{
		{Id: "boosted", Title: "Payments service", Content: "handles payments flows"},
		{Id: "plain", Title: "Billing engine", Content: "handles payments flows"},
		{Id: "other", Title: "Search ranking", Content: "nothing relevant here"},
	}

	result, err := engine.Search(candidates, "payments", StrategyFulltext, Options{})
	require.NoError(t, err)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "boosted", result.Results[0].Document.Id)
}

func TestSearch_SemanticSynonymExpansion(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	candidates := []*core.Document{
		{Id: "match", Title: "Customer login"},
		{Id: "miss", Title: "Inventory report"},
	}

	// "user" never appears in either document; the synonym table bridges it
	// to "customer".
	result, err := engine.Search(candidates, "user login", StrategySemantic, Options{})
	require.NoError(t, err)

	require.Len(t, result.Results, 1)
	assert.Equal(t, "match", result.Results[0].Document.Id)
	assert.Greater(t, result.Results[0].Score, 0.1)
}

func TestSearch_KeywordScoring(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	candidates := []*core.Document{
		{Id: "exact", Title: "Alpha", Keywords: []string{"search"}},
		{Id: "substr", Title: "Beta", Keywords: []string{"searching"}},
		{Id: "title", Title: "Search overview", Keywords: []string{"other"}},
		{Id: "none", Title: "Gamma", Keywords: []string{"billing"}},
	}

	result, err := engine.Search(candidates, "search", StrategyKeyword, Options{})
	require.NoError(t, err)
	require.Len(t, result.Results, 3)

	scores := make(map[string]float64)
	for _, r := range result.Results {
		scores[r.Document.Id] = r.Score
	}

	assert.InDelta(t, 1.0, scores["exact"], 1e-9)
	assert.InDelta(t, 0.5, scores["substr"], 1e-9)
	assert.InDelta(t, 0.3, scores["title"], 1e-9)
	assert.NotContains(t, scores, "none")
}

func TestSearch_CombinedIsWeightedSum(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	candidates := []*core.Document{
		{Id: "doc1", Title: "Database storage engine", Content: "database internals and storage layout", Keywords: []string{"database", "storage"}},
		{Id: "doc2", Title: "Search ranking", Content: "ranking database results", Keywords: []string{"search"}},
		{Id: "doc3", Title: "Unrelated", Content: "nothing to see", Keywords: nil},
	}
	query := "database storage"

	fulltext := engine.scoreFulltext(candidates, query)
	semantic := engine.scoreSemantic(candidates, query)
	keyword := engine.scoreKeyword(candidates, query)

	result, err := engine.Search(candidates, query, StrategyCombined, Options{})
	require.NoError(t, err)
	require.NotEmpty(t, result.Results)

	for _, r := range result.Results {
		id := r.Document.Id
		want := 0.4*fulltext[id] + 0.35*semantic[id] + 0.25*keyword[id]
		assert.InDelta(t, want, r.Score, 1e-9, "combined score for %s", id)
		assert.Greater(t, r.Score, 0.1)
	}
}

func TestSearch_Pagination(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	candidates := []*core.Document{
		{Id: "a", Title: "Gamma", Keywords: []string{"task"}},
		{Id: "b", Title: "Beta", Keywords: []string{"task"}},
		{Id: "c", Title: "Alpha", Keywords: []string{"task"}},
	}

	t.Run("offset beyond total", func(t *testing.T) {
		result, err := engine.Search(candidates, "task", StrategyKeyword, Options{Limit: 1, Offset: 5})
		require.NoError(t, err)
		assert.Empty(t, result.Results)
		assert.Equal(t, 3, result.Total)
		assert.False(t, result.HasMore)
	})

	t.Run("has more against pre-slice total", func(t *testing.T) {
		result, err := engine.Search(candidates, "task", StrategyKeyword, Options{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, result.Results, 2)
		assert.Equal(t, 3, result.Total)
		assert.True(t, result.HasMore)
	})

	t.Run("no limit returns everything", func(t *testing.T) {
		result, err := engine.Search(candidates, "task", StrategyKeyword, Options{})
		require.NoError(t, err)
		assert.Len(t, result.Results, 3)
		assert.False(t, result.HasMore)
	})
}

type recordingMonitor struct {
	started    bool
	strategies []Strategy
	finished   bool
}

func (m *recordingMonitor) Start(_ string, _ Strategy, _ int) { m.started = true }
func (m *recordingMonitor) StrategyScored(s Strategy, _ map[string]float64) {
	m.strategies = append(m.strategies, s)
}
func (m *recordingMonitor) Finish(_ *Result) { m.finished = true }

func TestSearchWithMonitor(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	candidates := []*core.Document{
		{Id: "a", Title: "Database", Keywords: []string{"database"}},
	}

	monitor := &recordingMonitor{}
	_, err = engine.SearchWithMonitor(candidates, "database", StrategyCombined, Options{}, monitor)
	require.NoError(t, err)

	assert.True(t, monitor.started)
	assert.True(t, monitor.finished)
	// Combined reports each sub-strategy and then itself.
	assert.Contains(t, monitor.strategies, StrategyFulltext)
	assert.Contains(t, monitor.strategies, StrategySemantic)
	assert.Contains(t, monitor.strategies, StrategyKeyword)
	assert.Contains(t, monitor.strategies, StrategyCombined)
}
