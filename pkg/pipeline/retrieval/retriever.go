package retrieval

import (
	"context"
	"fmt"
	"strings"

	"pillsee-be/internal/pkg/logger"
	"pillsee-be/internal/repository/contract"
	"pillsee-be/internal/repository/specification"
	"pillsee-be/pkg/embedding"
)

// Retriever embeds a free-text query and runs a similarity search over the
// medication corpus. It is the only pipeline stage that touches both the
// embedding provider and the corpus store.
type Retriever struct {
	provider   embedding.Provider
	repository contract.MedicationRepository
	logger     logger.ILogger
}

func NewRetriever(provider embedding.Provider, repository contract.MedicationRepository, log logger.ILogger) *Retriever {
	return &Retriever{
		provider:   provider,
		repository: repository,
		logger:     log,
	}
}

// Search returns up to limit corpus entries scored by cosine similarity,
// highest first. Results below threshold are excluded before ranking. Any
// provider or store failure is reported as ErrUnavailable so the caller can
// degrade instead of failing the whole query.
func (r *Retriever) Search(ctx context.Context, query string, limit int, threshold float64, specs ...specification.Specification) ([]*contract.ScoredMedication, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	resp, err := r.provider.Generate(ctx, query)
	if err != nil {
		r.logger.Warn("retrieval", "embedding generation failed", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("%w: embedding: %v", ErrUnavailable, err)
	}

	matches, err := r.repository.SearchSimilarWithScore(ctx, resp.Values, limit, threshold, specs...)
	if err != nil {
		r.logger.Warn("retrieval", "similarity search failed", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("%w: corpus: %v", ErrUnavailable, err)
	}

	r.logger.Debug("retrieval", "similarity search completed", map[string]interface{}{
		"matches": len(matches),
		"limit":   limit,
	})

	return matches, nil
}
