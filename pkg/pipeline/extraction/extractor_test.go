package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pillsee-be/internal/pkg/logger"
)

type fakeVisionProvider struct {
	response string
	err      error
}

func (f *fakeVisionProvider) Analyze(ctx context.Context, instruction, imageBase64, mimeType string) (string, error) {
	return f.response, f.err
}

func newTestExtractor(response string, err error) *Extractor {
	return NewExtractor(&fakeVisionProvider{response: response, err: err}, logger.NewNopLogger())
}

func TestExtract_ValidJSON(t *testing.T) {
	resp := `{"name":"Paralen","active_ingredient":"paracetamol","strength":"500 mg","form":"tablety","manufacturer":"Zentiva","registration_number":"54/154/82-C","confidence_score":0.92,"extracted_text":"PARALEN 500"}`
	extractor := newTestExtractor(resp, nil)

	candidate := extractor.Extract(context.Background(), []byte{0xFF, 0xD8, 0xFF}, "image/jpeg")

	require.NotNil(t, candidate)
	assert.Equal(t, "Paralen", candidate.Name)
	assert.Equal(t, "paracetamol", candidate.ActiveIngredient)
	assert.Equal(t, "500 mg", candidate.Strength)
	assert.InDelta(t, 0.92, candidate.Confidence, 1e-9)
	assert.Empty(t, candidate.Note)
}

func TestExtract_CodeFencedJSON(t *testing.T) {
	resp := "```json\n{\"name\":\"Ibalgin\",\"active_ingredient\":\"ibuprofen\",\"confidence_score\":0.85}\n```"
	extractor := newTestExtractor(resp, nil)

	candidate := extractor.Extract(context.Background(), []byte("img"), "image/png")

	assert.Equal(t, "Ibalgin", candidate.Name)
	assert.InDelta(t, 0.85, candidate.Confidence, 1e-9)
}

func TestExtract_JSONEmbeddedInProse(t *testing.T) {
	resp := `Zde je výsledek: {"name":"Aspirin","active_ingredient":"kyselina acetylsalicylová","confidence_score":0.9} Doufám, že pomůže.`
	extractor := newTestExtractor(resp, nil)

	candidate := extractor.Extract(context.Background(), []byte("img"), "image/jpeg")

	assert.Equal(t, "Aspirin", candidate.Name)
}

func TestExtract_ProviderError(t *testing.T) {
	extractor := newTestExtractor("", errors.New("upstream timeout"))

	candidate := extractor.Extract(context.Background(), []byte("img"), "image/jpeg")

	require.NotNil(t, candidate)
	assert.Empty(t, candidate.Name)
	assert.Zero(t, candidate.Confidence)
	assert.Equal(t, noteRecognitionFailed, candidate.Note)
}

func TestExtract_MalformedJSON(t *testing.T) {
	extractor := newTestExtractor("not json at all", nil)

	candidate := extractor.Extract(context.Background(), []byte("img"), "image/jpeg")

	assert.Empty(t, candidate.Name)
	assert.Zero(t, candidate.Confidence)
	assert.NotEmpty(t, candidate.Note)
	assert.Equal(t, "not json at all", candidate.ExtractedText)
}

func TestExtract_NotVisibleSentinelNormalized(t *testing.T) {
	resp := `{"name":"Paralen","active_ingredient":"není viditelné","strength":"není viditelné","confidence_score":0.7}`
	extractor := newTestExtractor(resp, nil)

	candidate := extractor.Extract(context.Background(), []byte("img"), "image/jpeg")

	assert.Equal(t, "Paralen", candidate.Name)
	assert.Empty(t, candidate.ActiveIngredient)
	assert.Empty(t, candidate.Strength)
}

func TestAssessQuality_MissingNamePenalty(t *testing.T) {
	extractor := newTestExtractor("", nil)
	candidate := &Candidate{ActiveIngredient: "ibuprofen", Confidence: 0.9}

	extractor.assessQuality(candidate)

	assert.InDelta(t, 0.6, candidate.Confidence, 1e-9)
	assert.Equal(t, noteLowConfidence, candidate.Note)
}

func TestAssessQuality_MissingIngredientPenalty(t *testing.T) {
	extractor := newTestExtractor("", nil)
	candidate := &Candidate{Name: "Paralen", Confidence: 0.9}

	extractor.assessQuality(candidate)

	assert.InDelta(t, 0.7, candidate.Confidence, 1e-9)
	assert.Equal(t, noteMediumConfidence, candidate.Note)
}

func TestAssessQuality_ConfidenceNeverNegative(t *testing.T) {
	extractor := newTestExtractor("", nil)
	candidate := &Candidate{Confidence: 0.1}

	extractor.assessQuality(candidate)

	assert.GreaterOrEqual(t, candidate.Confidence, 0.0)
	assert.Equal(t, noteVeryLowConfidence, candidate.Note)
}

func TestSniffImage(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}
	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00}
	webp := append([]byte("RIFF\x00\x00\x00\x00WEBP"), 0x00)

	mime, ok := SniffImage(jpeg)
	assert.True(t, ok)
	assert.Equal(t, "image/jpeg", mime)

	mime, ok = SniffImage(png)
	assert.True(t, ok)
	assert.Equal(t, "image/png", mime)

	mime, ok = SniffImage(webp)
	assert.True(t, ok)
	assert.Equal(t, "image/webp", mime)

	_, ok = SniffImage([]byte("plain text"))
	assert.False(t, ok)
}
