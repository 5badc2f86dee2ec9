package search

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"

	"github.com/leadwireai/leadwire/internal/rag"
)

func point(score float32, payload map[string]string) *qdrant.ScoredPoint {
	values := make(map[string]*qdrant.Value, len(payload))
	for k, v := range payload {
		values[k] = qdrant.NewValueString(v)
	}
	return &qdrant.ScoredPoint{Score: score, Payload: values}
}

func TestBuildResultJoinsPassages(t *testing.T) {
	t.Parallel()
	points := []*qdrant.ScoredPoint{
		point(0.92, map[string]string{"text": "Prazo de entrega: 5 dias.", "title": "FAQ", "uri": "doc://faq"}),
		point(0.81, map[string]string{"text": "Frete grátis acima de R$200."}),
	}

	result := buildResult(points, 0.5, rag.SearchOptions{SummaryResultCount: 5, IncludeCitations: true})

	assert.Equal(t, "Prazo de entrega: 5 dias.\n\nFrete grátis acima de R$200.", result.Summary)
	assert.Equal(t, []rag.Citation{{Title: "FAQ", URI: "doc://faq"}}, result.Citations)
}

func TestBuildResultRespectsScoreFloor(t *testing.T) {
	t.Parallel()
	points := []*qdrant.ScoredPoint{
		point(0.3, map[string]string{"text": "irrelevante"}),
	}

	result := buildResult(points, 0.5, rag.SearchOptions{SummaryResultCount: 5})
	assert.Empty(t, result.Summary)
	assert.Empty(t, result.Citations)
}

func TestBuildResultLimitsToSummaryCount(t *testing.T) {
	t.Parallel()
	points := []*qdrant.ScoredPoint{
		point(0.9, map[string]string{"text": "a"}),
		point(0.8, map[string]string{"text": "b"}),
		point(0.7, map[string]string{"text": "c"}),
	}

	result := buildResult(points, 0, rag.SearchOptions{SummaryResultCount: 2})
	assert.Equal(t, "a\n\nb", result.Summary)
}

func TestBuildResultSkipsEmptyText(t *testing.T) {
	t.Parallel()
	points := []*qdrant.ScoredPoint{
		point(0.9, map[string]string{"title": "sem texto"}),
		point(0.8, map[string]string{"text": "  "}),
		point(0.7, map[string]string{"text": "conteúdo"}),
	}

	result := buildResult(points, 0, rag.SearchOptions{SummaryResultCount: 5, IncludeCitations: true})
	assert.Equal(t, "conteúdo", result.Summary)
	assert.Empty(t, result.Citations)
}

func TestBuildResultCitationsOffByDefault(t *testing.T) {
	t.Parallel()
	points := []*qdrant.ScoredPoint{
		point(0.9, map[string]string{"text": "a", "uri": "doc://a"}),
	}

	result := buildResult(points, 0, rag.SearchOptions{SummaryResultCount: 5})
	assert.Empty(t, result.Citations)
}
