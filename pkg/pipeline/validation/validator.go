package validation

import (
	"context"
	"strings"

	"pillsee-be/internal/pkg/logger"
	"pillsee-be/internal/repository/contract"
	"pillsee-be/pkg/embedding"
	"pillsee-be/pkg/pipeline/extraction"
)

// Status classifies how well an extracted candidate agrees with the corpus.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusUncertain Status = "uncertain"
	StatusUnmatched Status = "unmatched"
)

// Classify maps a best-match similarity onto the three-way status. Both
// thresholds are inclusive. Text retrieval and image validation share the
// split through this single function.
func Classify(similarity, confirmThreshold, minThreshold float64) Status {
	switch {
	case similarity >= confirmThreshold:
		return StatusConfirmed
	case similarity >= minThreshold:
		return StatusUncertain
	default:
		return StatusUnmatched
	}
}

// Outcome is the validator verdict for one candidate. BestMatch is nil when
// the status is unmatched; Similarity carries the best score either way.
type Outcome struct {
	Status     Status
	BestMatch  *contract.ScoredMedication
	Matches    []*contract.ScoredMedication
	Similarity float64
}

// Validator cross-checks a vision candidate against the registry corpus by
// embedding a composite of the recognized name and active ingredient and
// confirming the best match clears the configured thresholds.
type Validator struct {
	provider         embedding.Provider
	repository       contract.MedicationRepository
	logger           logger.ILogger
	topK             int
	confirmThreshold float64
	minThreshold     float64
}

func NewValidator(provider embedding.Provider, repository contract.MedicationRepository, log logger.ILogger, topK int, confirmThreshold, minThreshold float64) *Validator {
	return &Validator{
		provider:         provider,
		repository:       repository,
		logger:           log,
		topK:             topK,
		confirmThreshold: confirmThreshold,
		minThreshold:     minThreshold,
	}
}

// Validate resolves a candidate to a three-way outcome. A candidate without
// a recognized name cannot be validated and is reported unmatched without
// touching the corpus. Corpus or embedding failures also degrade to
// unmatched; validation never blocks the pipeline.
func (v *Validator) Validate(ctx context.Context, candidate *extraction.Candidate) *Outcome {
	if candidate == nil || !candidate.NameKnown() {
		return &Outcome{Status: StatusUnmatched}
	}

	query := compositeQuery(candidate)

	resp, err := v.provider.Generate(ctx, query)
	if err != nil {
		v.logger.Warn("validation", "embedding generation failed", map[string]interface{}{"error": err.Error()})
		return &Outcome{Status: StatusUnmatched}
	}

	matches, err := v.repository.SearchSimilarWithScore(ctx, resp.Values, v.topK, v.minThreshold)
	if err != nil {
		v.logger.Warn("validation", "corpus lookup failed", map[string]interface{}{"error": err.Error()})
		return &Outcome{Status: StatusUnmatched}
	}

	if len(matches) == 0 {
		v.logger.Info("validation", "candidate not found in corpus", map[string]interface{}{"name": candidate.Name})
		return &Outcome{Status: StatusUnmatched}
	}

	best := matches[0]
	outcome := &Outcome{
		Status:     Classify(best.Similarity, v.confirmThreshold, v.minThreshold),
		BestMatch:  best,
		Matches:    matches,
		Similarity: best.Similarity,
	}

	v.logger.Info("validation", "candidate validated", map[string]interface{}{
		"name":       candidate.Name,
		"status":     string(outcome.Status),
		"similarity": best.Similarity,
	})

	return outcome
}

// compositeQuery mirrors the corpus embedding text so the candidate and the
// registry entries live in the same embedding neighborhood.
func compositeQuery(candidate *extraction.Candidate) string {
	parts := []string{"Název: " + candidate.Name}
	if candidate.ActiveIngredient != "" {
		parts = append(parts, "Účinná látka: "+candidate.ActiveIngredient)
	}
	if candidate.Strength != "" {
		parts = append(parts, "Síla: "+candidate.Strength)
	}
	return strings.Join(parts, "\n")
}
