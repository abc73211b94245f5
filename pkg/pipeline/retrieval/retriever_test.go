package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pillsee-be/internal/entity"
	"pillsee-be/internal/pkg/logger"
	"pillsee-be/internal/repository/memory"
	"pillsee-be/pkg/embedding"
)

type stubEmbedder struct {
	values []float32
	err    error
}

func (s *stubEmbedder) Generate(ctx context.Context, text string) (*embedding.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &embedding.Response{Values: s.values}, nil
}

func seedCorpus(t *testing.T) *memory.MedicationRepository {
	t.Helper()
	repo := memory.NewMedicationRepository()
	meds := []*entity.Medication{
		{Id: uuid.New(), Name: "Paralen", ActiveIngredient: "paracetamol", Embedding: []float32{1, 0, 0}},
		{Id: uuid.New(), Name: "Ibalgin", ActiveIngredient: "ibuprofen", Embedding: []float32{0, 1, 0}},
		{Id: uuid.New(), Name: "Aspirin", ActiveIngredient: "kyselina acetylsalicylová", Embedding: []float32{0.7, 0.7, 0}},
	}
	require.NoError(t, repo.CreateBulk(context.Background(), meds))
	return repo
}

func TestSearch_RanksBySimilarity(t *testing.T) {
	repo := seedCorpus(t)
	retriever := NewRetriever(&stubEmbedder{values: []float32{1, 0, 0}}, repo, logger.NewNopLogger())

	matches, err := retriever.Search(context.Background(), "paralen na bolest hlavy", 5, 0.5)

	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "Paralen", matches[0].Medication.Name)
	assert.Equal(t, "Aspirin", matches[1].Medication.Name)
	assert.Greater(t, matches[0].Similarity, matches[1].Similarity)
}

func TestSearch_ThresholdExcludesWeakMatches(t *testing.T) {
	repo := seedCorpus(t)
	retriever := NewRetriever(&stubEmbedder{values: []float32{1, 0, 0}}, repo, logger.NewNopLogger())

	matches, err := retriever.Search(context.Background(), "paralen", 5, 0.99)

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Paralen", matches[0].Medication.Name)
}

func TestSearch_LimitCapsResults(t *testing.T) {
	repo := seedCorpus(t)
	retriever := NewRetriever(&stubEmbedder{values: []float32{1, 0, 0}}, repo, logger.NewNopLogger())

	matches, err := retriever.Search(context.Background(), "lék", 1, 0.0)

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Paralen", matches[0].Medication.Name)
}

func TestSearch_EmptyQueryReturnsNothing(t *testing.T) {
	repo := seedCorpus(t)
	retriever := NewRetriever(&stubEmbedder{values: []float32{1, 0, 0}}, repo, logger.NewNopLogger())

	matches, err := retriever.Search(context.Background(), "   ", 5, 0.5)

	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSearch_EmbeddingFailureIsUnavailable(t *testing.T) {
	repo := seedCorpus(t)
	retriever := NewRetriever(&stubEmbedder{err: errors.New("connection refused")}, repo, logger.NewNopLogger())

	_, err := retriever.Search(context.Background(), "paralen", 5, 0.5)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}
