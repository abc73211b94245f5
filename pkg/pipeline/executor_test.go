package pipeline

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pillsee-be/internal/entity"
	"pillsee-be/internal/pkg/logger"
	"pillsee-be/internal/repository/memory"
	"pillsee-be/pkg/embedding"
	"pillsee-be/pkg/pipeline/assembly"
	"pillsee-be/pkg/pipeline/extraction"
	"pillsee-be/pkg/pipeline/retrieval"
	"pillsee-be/pkg/pipeline/validation"
)

// hashEmbedder maps token hashes into a fixed-dimension bag-of-words vector.
// Deterministic, so identical text always embeds identically and overlapping
// text embeds nearby.
type hashEmbedder struct {
	dims int
	err  error
}

func (h *hashEmbedder) Generate(ctx context.Context, text string) (*embedding.Response, error) {
	if h.err != nil {
		return nil, h.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	values := make([]float32, h.dims)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		hasher := fnv.New32a()
		hasher.Write([]byte(token))
		values[int(hasher.Sum32())%h.dims] += 1
	}
	var norm float64
	for _, v := range values {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range values {
			values[i] *= scale
		}
	}
	return &embedding.Response{Values: values}, nil
}

type stubVision struct {
	response string
	err      error
}

func (s *stubVision) Analyze(ctx context.Context, instruction, imageBase64, mimeType string) (string, error) {
	return s.response, s.err
}

var jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}

func defaultOptions() Options {
	return Options{
		TopK:             5,
		ConfirmThreshold: 0.75,
		MinThreshold:     0.5,
		TextTimeout:      3 * time.Second,
		ImageTimeout:     8 * time.Second,
		MaxQueryLength:   500,
		MaxImageBytes:    10 * 1024 * 1024,
	}
}

func embedText(t *testing.T, embedder embedding.Provider, text string) []float32 {
	t.Helper()
	resp, err := embedder.Generate(context.Background(), text)
	require.NoError(t, err)
	return resp.Values
}

func newExecutor(t *testing.T, embedder embedding.Provider, visionProvider *stubVision, records ...*entity.Medication) *Executor {
	t.Helper()
	log := logger.NewNopLogger()
	repo := memory.NewMedicationRepository()
	require.NoError(t, repo.CreateBulk(context.Background(), records))

	opts := defaultOptions()
	return NewExecutor(
		extraction.NewExtractor(visionProvider, log),
		retrieval.NewRetriever(embedder, repo, log),
		validation.NewValidator(embedder, repo, log, opts.TopK, opts.ConfirmThreshold, opts.MinThreshold),
		assembly.NewAssembler(),
		log,
		opts,
	)
}

func paralenRecord(t *testing.T, embedder embedding.Provider) *entity.Medication {
	t.Helper()
	text := "Název: Paralen 500mg\nÚčinná látka: paracetamol"
	return &entity.Medication{
		Id:               uuid.New(),
		Name:             "Paralen 500mg",
		ActiveIngredient: "paracetamol",
		EmbeddingText:    text,
		Embedding:        embedText(t, embedder, text),
	}
}

// Scenario: a text query naming a corpus record resolves with high
// confidence and the disclaimer attached.
func TestSubmitText_KnownMedication(t *testing.T) {
	embedder := &hashEmbedder{dims: 64}
	executor := newExecutor(t, embedder, &stubVision{}, paralenRecord(t, embedder))

	answer, err := executor.SubmitText(context.Background(), "Název: Paralen 500mg\nÚčinná látka: paracetamol")

	require.NoError(t, err)
	assert.Equal(t, assembly.ConfidenceHigh, answer.Confidence)
	require.NotNil(t, answer.Medication)
	assert.Equal(t, "Paralen 500mg", answer.Medication.Name)
	assert.NotEmpty(t, answer.Disclaimer)
}

// Round-trip fidelity: querying a record's exact embedding text returns that
// record as the top match above the confirmation threshold.
func TestSubmitText_RoundTripFidelity(t *testing.T) {
	embedder := &hashEmbedder{dims: 64}
	record := paralenRecord(t, embedder)
	executor := newExecutor(t, embedder, &stubVision{}, record)

	answer, err := executor.SubmitText(context.Background(), record.EmbeddingText)

	require.NoError(t, err)
	assert.Equal(t, assembly.ConfidenceHigh, answer.Confidence)
	assert.GreaterOrEqual(t, answer.Similarity, 0.75)
	assert.Equal(t, record.Name, answer.Medication.Name)
}

// Scenario: a query against an empty corpus still produces a valid answer
// with the not-found note and the disclaimer.
func TestSubmitText_EmptyCorpus(t *testing.T) {
	executor := newExecutor(t, &hashEmbedder{dims: 64}, &stubVision{})

	answer, err := executor.SubmitText(context.Background(), "Co je to Paralen?")

	require.NoError(t, err)
	assert.Equal(t, assembly.ConfidenceLow, answer.Confidence)
	assert.NotEmpty(t, answer.Note)
	assert.NotEmpty(t, answer.Disclaimer)
}

// Scenario: embedding service down mid-request degrades to a valid answer
// instead of an error or a hang.
func TestSubmitText_EmbeddingUnavailable(t *testing.T) {
	executor := newExecutor(t, &hashEmbedder{dims: 64, err: errors.New("connection refused")}, &stubVision{})

	start := time.Now()
	answer, err := executor.SubmitText(context.Background(), "Co je to Paralen?")

	require.NoError(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)
	assert.Equal(t, assembly.ConfidenceLow, answer.Confidence)
	assert.Contains(t, answer.Note, "nedostupný")
	assert.NotEmpty(t, answer.Disclaimer)
}

func TestSubmitText_InputBounds(t *testing.T) {
	executor := newExecutor(t, &hashEmbedder{dims: 64}, &stubVision{})

	var invalid *InvalidInputError

	_, err := executor.SubmitText(context.Background(), "   ")
	require.Error(t, err)
	assert.ErrorAs(t, err, &invalid)

	_, err = executor.SubmitText(context.Background(), strings.Repeat("a", 501))
	require.Error(t, err)
	assert.ErrorAs(t, err, &invalid)

	// 500 multibyte runes are within bounds even though the byte count is not.
	_, err = executor.SubmitText(context.Background(), strings.Repeat("č", 500))
	assert.NoError(t, err)
}

// Scenario: image recognized and confirmed against the corpus.
func TestSubmitImage_Confirmed(t *testing.T) {
	embedder := &hashEmbedder{dims: 64}
	vision := &stubVision{response: `{"name":"Paralen 500mg","active_ingredient":"paracetamol","confidence_score":0.9}`}
	executor := newExecutor(t, embedder, vision, paralenRecord(t, embedder))

	answer, err := executor.SubmitImage(context.Background(), jpegHeader)

	require.NoError(t, err)
	assert.Equal(t, assembly.ConfidenceHigh, answer.Confidence)
	assert.Equal(t, "Paralen 500mg", answer.Medication.Name)
	assert.NotEmpty(t, answer.Disclaimer)
}

// Scenario: vision call fails; answer states recognition failed with low
// confidence and no fabricated fields.
func TestSubmitImage_ExtractionFailed(t *testing.T) {
	embedder := &hashEmbedder{dims: 64}
	vision := &stubVision{err: errors.New("upstream 503")}
	executor := newExecutor(t, embedder, vision, paralenRecord(t, embedder))

	answer, err := executor.SubmitImage(context.Background(), jpegHeader)

	require.NoError(t, err)
	assert.Equal(t, assembly.ConfidenceLow, answer.Confidence)
	assert.Nil(t, answer.Medication)
	assert.Contains(t, answer.Note, "Nepodařilo se rozpoznat lék")
	assert.NotEmpty(t, answer.Disclaimer)
}

func TestSubmitImage_InputBounds(t *testing.T) {
	executor := newExecutor(t, &hashEmbedder{dims: 64}, &stubVision{})

	var invalid *InvalidInputError

	_, err := executor.SubmitImage(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorAs(t, err, &invalid)

	_, err = executor.SubmitImage(context.Background(), []byte("not an image"))
	require.Error(t, err)
	assert.ErrorAs(t, err, &invalid)

	oversized := make([]byte, defaultOptions().MaxImageBytes+1)
	copy(oversized, jpegHeader)
	_, err = executor.SubmitImage(context.Background(), oversized)
	require.Error(t, err)
	assert.ErrorAs(t, err, &invalid)
}
