package validation

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
	"pillsee-be/pkg/pipeline/extraction"
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

func newValidatorWithCorpus(t *testing.T, queryVector []float32) *Validator {
	t.Helper()
	repo := memory.NewMedicationRepository()
	meds := []*entity.Medication{
		{Id: uuid.New(), Name: "Paralen", ActiveIngredient: "paracetamol", Embedding: []float32{1, 0, 0}},
		{Id: uuid.New(), Name: "Ibalgin", ActiveIngredient: "ibuprofen", Embedding: []float32{0, 1, 0}},
	}
	require.NoError(t, repo.CreateBulk(context.Background(), meds))
	return NewValidator(&stubEmbedder{values: queryVector}, repo, logger.NewNopLogger(), 5, 0.75, 0.5)
}

func TestValidate_Confirmed(t *testing.T) {
	validator := newValidatorWithCorpus(t, []float32{1, 0, 0})
	candidate := &extraction.Candidate{Name: "Paralen", ActiveIngredient: "paracetamol", Confidence: 0.9}

	outcome := validator.Validate(context.Background(), candidate)

	assert.Equal(t, StatusConfirmed, outcome.Status)
	require.NotNil(t, outcome.BestMatch)
	assert.Equal(t, "Paralen", outcome.BestMatch.Medication.Name)
	assert.InDelta(t, 1.0, outcome.Similarity, 1e-6)
}

func TestValidate_Uncertain(t *testing.T) {
	// Best match scores cos ≈ 0.7, between the minimum and confirmation thresholds.
	validator := newValidatorWithCorpus(t, []float32{0.7, 0.3, 0.648})
	candidate := &extraction.Candidate{Name: "Paralen", Confidence: 0.9}

	outcome := validator.Validate(context.Background(), candidate)

	assert.Equal(t, StatusUncertain, outcome.Status)
	require.NotNil(t, outcome.BestMatch)
	assert.Less(t, outcome.Similarity, 0.75)
	assert.GreaterOrEqual(t, outcome.Similarity, 0.5)
}

func TestValidate_Unmatched(t *testing.T) {
	validator := newValidatorWithCorpus(t, []float32{0, 0, 1})
	candidate := &extraction.Candidate{Name: "Neexistin", Confidence: 0.9}

	outcome := validator.Validate(context.Background(), candidate)

	assert.Equal(t, StatusUnmatched, outcome.Status)
	assert.Nil(t, outcome.BestMatch)
}

func TestValidate_UnknownNameSkipsCorpus(t *testing.T) {
	validator := newValidatorWithCorpus(t, []float32{1, 0, 0})

	outcome := validator.Validate(context.Background(), extraction.Unknown("nerozpoznáno"))

	assert.Equal(t, StatusUnmatched, outcome.Status)
	assert.Nil(t, outcome.BestMatch)
}

func TestValidate_EmbeddingFailureDegradesToUnmatched(t *testing.T) {
	repo := memory.NewMedicationRepository()
	validator := NewValidator(&stubEmbedder{err: errors.New("timeout")}, repo, logger.NewNopLogger(), 5, 0.75, 0.5)
	candidate := &extraction.Candidate{Name: "Paralen", Confidence: 0.9}

	outcome := validator.Validate(context.Background(), candidate)

	assert.Equal(t, StatusUnmatched, outcome.Status)
}

func TestCompositeQuery(t *testing.T) {
	candidate := &extraction.Candidate{Name: "Paralen", ActiveIngredient: "paracetamol", Strength: "500 mg"}

	query := compositeQuery(candidate)

	assert.Equal(t, "Název: Paralen\nÚčinná látka: paracetamol\nSíla: 500 mg", query)
}

func TestClassify_ThresholdsInclusive(t *testing.T) {
	assert.Equal(t, StatusConfirmed, Classify(0.9, 0.75, 0.5))
	assert.Equal(t, StatusConfirmed, Classify(0.75, 0.75, 0.5))
	assert.Equal(t, StatusUncertain, Classify(0.6, 0.75, 0.5))
	assert.Equal(t, StatusUncertain, Classify(0.5, 0.75, 0.5))
	assert.Equal(t, StatusUnmatched, Classify(0.49, 0.75, 0.5))
	assert.Equal(t, StatusUnmatched, Classify(0, 0.75, 0.5))
}
