package embedding

import (
	"context"
	"math"
)

// Response carries a fixed-dimension embedding vector. Providers normalize to
// unit length so cosine similarity in pgvector is accurate.
type Response struct {
	Values []float32
}

// Provider defines the interface for generating text embeddings. The same
// text must always produce the same vector; retrieval determinism depends
// on it.
type Provider interface {
	Generate(ctx context.Context, text string) (*Response, error)
}

// normalizeVector normalizes a vector to unit length (magnitude = 1).
// Cosine distance in pgvector requires normalized vectors.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
