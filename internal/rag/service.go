package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// NoAnswerSummary is returned when the index finds nothing relevant.
const NoAnswerSummary = "Não encontrei uma resposta direta para essa pergunta nos meus documentos."

const (
	minSummaryResults = 1
	maxSummaryResults = 5
)

// QueryRequest is one knowledge-base question.
type QueryRequest struct {
	TenantID           string
	Query              string
	PlaybookName       string
	Alias              string
	DataStoreID        string
	SummaryResultCount int
	IncludeCitations   bool
}

// Service is the query facade: target resolution plus the search call.
type Service struct {
	resolver *Resolver
	index    SearchIndex
	logger   *slog.Logger
}

func NewService(log *slog.Logger, resolver *Resolver, index SearchIndex) *Service {
	return &Service{
		resolver: resolver,
		index:    index,
		logger:   log.With(slog.String("service", "rag")),
	}
}

// RunQuery resolves the target and executes the search.
func (s *Service) RunQuery(ctx context.Context, req QueryRequest) (SearchResult, error) {
	if strings.TrimSpace(req.Query) == "" {
		return SearchResult{}, fmt.Errorf("%w: query must not be empty", ErrConfiguration)
	}

	target, err := s.resolver.ResolveTarget(ctx, req.TenantID, Selector{
		PlaybookName: req.PlaybookName,
		Alias:        req.Alias,
		DataStoreID:  req.DataStoreID,
	})
	if err != nil {
		return SearchResult{}, err
	}

	opts := SearchOptions{
		SummaryResultCount: clamp(req.SummaryResultCount, minSummaryResults, maxSummaryResults),
		IncludeCitations:   req.IncludeCitations,
	}
	result, err := s.index.Search(ctx, target, req.Query, opts)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search %s: %w", target.DataStoreID, err)
	}
	if strings.TrimSpace(result.Summary) == "" {
		result.Summary = NoAnswerSummary
	}
	if !opts.IncludeCitations {
		result.Citations = nil
	}

	s.logger.Info("rag query answered",
		slog.String("tenant_id", req.TenantID),
		slog.String("data_store_id", target.DataStoreID),
		slog.Int("citations", len(result.Citations)),
	)
	return result, nil
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
