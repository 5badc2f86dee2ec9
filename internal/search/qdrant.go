package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"github.com/leadwireai/leadwire/internal/rag"
)

// Payload fields expected on indexed passages.
const (
	payloadText      = "text"
	payloadTitle     = "title"
	payloadURI       = "uri"
	payloadReference = "reference"
)

const searchPageSize = 10

// QdrantIndex implements rag.SearchIndex over a Qdrant deployment. Each
// resolved store target maps to one collection (target.CollectionID).
type QdrantIndex struct {
	client     *qdrant.Client
	embedder   Embedder
	scoreFloor float32
	timeout    time.Duration
	logger     *slog.Logger
}

func NewQdrantIndex(log *slog.Logger, host string, port int, apiKey string, useTLS bool, scoreFloor float64, timeout time.Duration, embedder Embedder) (*QdrantIndex, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant init: %w", err)
	}
	return &QdrantIndex{
		client:     client,
		embedder:   embedder,
		scoreFloor: float32(scoreFloor),
		timeout:    timeout,
		logger:     log.With(slog.String("service", "search")),
	}, nil
}

// Close releases the underlying connection.
func (i *QdrantIndex) Close() error {
	return i.client.Close()
}

func (i *QdrantIndex) Search(ctx context.Context, target rag.StoreTarget, query string, opts rag.SearchOptions) (rag.SearchResult, error) {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	vector, err := i.embedder.Embed(ctx, query)
	if err != nil {
		return rag.SearchResult{}, err
	}

	points, err := i.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: target.CollectionID,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(searchPageSize)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return rag.SearchResult{}, fmt.Errorf("query collection %s: %w", target.CollectionID, err)
	}

	i.logger.Debug("search executed",
		slog.String("collection", target.CollectionID),
		slog.Int("hits", len(points)),
	)
	return buildResult(points, i.scoreFloor, opts), nil
}

// buildResult assembles the summary from the top passages above the score
// floor and, when asked, one citation per contributing passage.
func buildResult(points []*qdrant.ScoredPoint, scoreFloor float32, opts rag.SearchOptions) rag.SearchResult {
	var passages []string
	var citations []rag.Citation
	for _, point := range points {
		if len(passages) >= opts.SummaryResultCount {
			break
		}
		if point.GetScore() < scoreFloor {
			continue
		}
		payload := point.GetPayload()
		text := strings.TrimSpace(stringValue(payload, payloadText))
		if text == "" {
			continue
		}
		passages = append(passages, text)
		if opts.IncludeCitations {
			citation := rag.Citation{
				Title:     stringValue(payload, payloadTitle),
				URI:       stringValue(payload, payloadURI),
				Reference: stringValue(payload, payloadReference),
			}
			if citation != (rag.Citation{}) {
				citations = append(citations, citation)
			}
		}
	}

	return rag.SearchResult{
		Summary:   strings.Join(passages, "\n\n"),
		Citations: citations,
	}
}

func stringValue(payload map[string]*qdrant.Value, key string) string {
	if payload == nil {
		return ""
	}
	return payload[key].GetStringValue()
}
