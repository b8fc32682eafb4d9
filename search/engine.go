package search

import (
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/poiesic/docflow/core"
)

// Strategy selects a ranking algorithm.
type Strategy string

const (
	StrategyFulltext Strategy = "fulltext"
	StrategySemantic Strategy = "semantic"
	StrategyKeyword  Strategy = "keyword"
	StrategyCombined Strategy = "combined"
)

// Weights applied by the combined strategy.
const (
	combinedFulltextWeight = 0.4
	combinedSemanticWeight = 0.35
	combinedKeywordWeight  = 0.25
)

// Options holds pagination parameters for a search.
type Options struct {
	Limit  int // <= 0 means no limit
	Offset int
}

// Result is a ranked, paginated search outcome.
// Total and HasMore refer to the full ranking before the offset/limit slice.
type Result struct {
	Results []*core.SearchResult
	Total   int
	HasMore bool
}

// Engine ranks an in-memory candidate set under one of four strategies.
// Candidates are supplied by the caller, already filtered and size-bounded;
// the engine never touches storage.
type Engine struct {
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a new search engine.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Search ranks candidates against the query under the given strategy and
// returns the paginated result.
//
// Results are ordered by descending score. Ties are not broken: the relative
// order of equal scores depends on score-map iteration and is unspecified.
func (e *Engine) Search(candidates []*core.Document, query string, strategy Strategy, opts Options) (*Result, error) {
	return e.SearchWithMonitor(candidates, query, strategy, opts, nil)
}

// SearchWithMonitor is Search with observer hooks at each stage.
func (e *Engine) SearchWithMonitor(candidates []*core.Document, query string, strategy Strategy, opts Options, monitor Monitor) (*Result, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query, strategy, len(candidates))

	var scores map[string]float64
	switch strategy {
	case StrategyFulltext:
		scores = e.scoreFulltext(candidates, query)
	case StrategySemantic:
		scores = e.scoreSemantic(candidates, query)
	case StrategyKeyword:
		scores = e.scoreKeyword(candidates, query)
	case StrategyCombined:
		scores = e.scoreCombined(candidates, query, monitor)
	default:
		return nil, ErrUnknownStrategy
	}
	monitor.StrategyScored(strategy, scores)

	result := paginate(candidates, scores, opts)
	monitor.Finish(result)
	return result, nil
}

// documentText is the searchable text of a document: title, content and keywords.
func documentText(doc *core.Document) string {
	return doc.Title + " " + doc.Content + " " + strings.Join(doc.Keywords, " ")
}

// scoreFulltext ranks by a TF-IDF sum over query tokens, with title and
// keyword boosts. Documents scoring <= 0 are excluded.
//
// IDF is ln(N/df) with no additive smoothing, so very rare terms in small
// corpora can dominate; terms absent from every candidate contribute zero.
func (e *Engine) scoreFulltext(candidates []*core.Document, query string) map[string]float64 {
	queryTokens := Tokenize(query)
	lowerQuery := strings.ToLower(strings.TrimSpace(query))

	// Per-document token lists and corpus document frequencies
	docTokens := make([][]string, len(candidates))
	df := make(map[string]int)
	for i, doc := range candidates {
		docTokens[i] = Tokenize(documentText(doc))
		seen := make(map[string]bool, len(docTokens[i]))
		for _, tok := range docTokens[i] {
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
	}

	n := float64(len(candidates))
	scores := make(map[string]float64)

	for i, doc := range candidates {
		total := len(docTokens[i])
		if total == 0 {
			continue
		}

		counts := make(map[string]int, total)
		for _, tok := range docTokens[i] {
			counts[tok]++
		}

		var score float64
		for _, qt := range queryTokens {
			c := counts[qt]
			if c == 0 {
				continue
			}
			d := df[qt]
			if d == 0 {
				continue
			}
			tf := float64(c) / float64(total)
			idf := math.Log(n / float64(d))
			score += tf * idf
		}

		if lowerQuery != "" && strings.Contains(strings.ToLower(doc.Title), lowerQuery) {
			score *= 2
		}
		for _, kw := range doc.Keywords {
			k := strings.ToLower(kw)
			if k == "" {
				continue
			}
			if strings.Contains(k, lowerQuery) || strings.Contains(lowerQuery, k) {
				score *= 1.5
				break
			}
		}

		if score > 0 {
			scores[doc.Id] = score
		}
	}

	return scores
}

// scoreSemantic ranks by Jaccard similarity over synonym-expanded token sets
// blended with Jaccard similarity over raw 2/3-gram phrase sets.
// Documents scoring <= 0.1 are excluded.
func (e *Engine) scoreSemantic(candidates []*core.Document, query string) map[string]float64 {
	queryTokens := expandTokens(Tokenize(query))
	queryPhrases := phraseSet(query)

	scores := make(map[string]float64)
	for _, doc := range candidates {
		text := documentText(doc)
		tokenSim := jaccard(queryTokens, expandTokens(Tokenize(text)))
		phraseSim := jaccard(queryPhrases, phraseSet(text))

		score := 0.7*tokenSim + 0.3*phraseSim
		if score > 0.1 {
			scores[doc.Id] = score
		}
	}

	return scores
}

// scoreKeyword ranks by direct matches between query tokens and the
// document's keyword list: 1.0 per exact keyword match, 0.5 per substring
// match in either direction, 0.3 per title substring match.
// Documents scoring <= 0 are excluded.
func (e *Engine) scoreKeyword(candidates []*core.Document, query string) map[string]float64 {
	var queryTokens []string
	for _, word := range strings.Fields(query) {
		if len(word) > 2 {
			queryTokens = append(queryTokens, strings.ToLower(word))
		}
	}

	scores := make(map[string]float64)
	for _, doc := range candidates {
		title := strings.ToLower(doc.Title)

		var score float64
		for _, qt := range queryTokens {
			for _, kw := range doc.Keywords {
				k := strings.ToLower(kw)
				switch {
				case k == qt:
					score += 1.0
				case strings.Contains(k, qt) || strings.Contains(qt, k):
					score += 0.5
				}
			}
			if strings.Contains(title, qt) {
				score += 0.3
			}
		}

		if score > 0 {
			scores[doc.Id] = score
		}
	}

	return scores
}

// scoreCombined runs all three strategies over the same candidate set and
// blends them 0.4 fulltext + 0.35 semantic + 0.25 keyword; absent entries
// contribute zero. Documents scoring <= 0.1 are excluded.
func (e *Engine) scoreCombined(candidates []*core.Document, query string, monitor Monitor) map[string]float64 {
	fulltext := e.scoreFulltext(candidates, query)
	monitor.StrategyScored(StrategyFulltext, fulltext)
	semantic := e.scoreSemantic(candidates, query)
	monitor.StrategyScored(StrategySemantic, semantic)
	keyword := e.scoreKeyword(candidates, query)
	monitor.StrategyScored(StrategyKeyword, keyword)

	ids := make(map[string]bool)
	for id := range fulltext {
		ids[id] = true
	}
	for id := range semantic {
		ids[id] = true
	}
	for id := range keyword {
		ids[id] = true
	}

	scores := make(map[string]float64, len(ids))
	for id := range ids {
		score := combinedFulltextWeight*fulltext[id] +
			combinedSemanticWeight*semantic[id] +
			combinedKeywordWeight*keyword[id]
		if score > 0.1 {
			scores[id] = score
		}
	}

	return scores
}

// paginate orders scored candidates descending, then slices by offset/limit.
// Total and HasMore are computed against the full ranking, not the slice.
func paginate(candidates []*core.Document, scores map[string]float64, opts Options) *Result {
	results := make([]*core.SearchResult, 0, len(scores))
	for _, doc := range candidates {
		if score, ok := scores[doc.Id]; ok {
			results = append(results, &core.SearchResult{Document: doc, Score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	total := len(results)

	start := opts.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}

	end := total
	if opts.Limit > 0 && start+opts.Limit < end {
		end = start + opts.Limit
	}

	return &Result{
		Results: results[start:end],
		Total:   total,
		HasMore: end < total,
	}
}
