package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"pillsee-be/internal/pkg/logger"
	"pillsee-be/pkg/pipeline/assembly"
	"pillsee-be/pkg/pipeline/extraction"
	"pillsee-be/pkg/pipeline/retrieval"
	"pillsee-be/pkg/pipeline/validation"
)

// Options bound the pipeline inputs and external-call latency. Values come
// from configuration; the zero value is not usable.
type Options struct {
	TopK             int
	ConfirmThreshold float64
	MinThreshold     float64
	TextTimeout      time.Duration
	ImageTimeout     time.Duration
	MaxQueryLength   int
	MaxImageBytes    int
}

// Executor wires the four fixed stages into the two entry points. Stages are
// statically enumerated; there is no runtime discovery of callable steps.
type Executor struct {
	extractor *extraction.Extractor
	retriever *retrieval.Retriever
	validator *validation.Validator
	assembler *assembly.Assembler
	logger    logger.ILogger
	options   Options
}

func NewExecutor(extractor *extraction.Extractor, retriever *retrieval.Retriever, validator *validation.Validator, assembler *assembly.Assembler, log logger.ILogger, options Options) *Executor {
	return &Executor{
		extractor: extractor,
		retriever: retriever,
		validator: validator,
		assembler: assembler,
		logger:    log,
		options:   options,
	}
}

// SubmitText runs the text path: embed, search, assemble. Only input
// validation can fail; a dead embedding service or corpus yields a degraded
// answer with the corpus-unavailable note instead of an error.
func (e *Executor) SubmitText(ctx context.Context, query string) (*assembly.Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalidInput("query must not be empty")
	}
	if len([]rune(query)) > e.options.MaxQueryLength {
		return nil, invalidInput("query exceeds %d characters", e.options.MaxQueryLength)
	}

	ctx, cancel := context.WithTimeout(ctx, e.options.TextTimeout)
	defer cancel()

	matches, err := e.retriever.Search(ctx, query, e.options.TopK, e.options.MinThreshold)
	if err != nil {
		if errors.Is(err, retrieval.ErrUnavailable) {
			return e.assembler.Unavailable(), nil
		}
		e.logger.Error("pipeline", "unexpected retrieval failure", map[string]interface{}{"error": err.Error()})
		return e.assembler.Unavailable(), nil
	}

	answer := e.assembler.FromMatches(matches, e.options.ConfirmThreshold, e.options.MinThreshold)

	e.logger.Info("pipeline", "text query completed", map[string]interface{}{
		"confidence": string(answer.Confidence),
		"matches":    len(matches),
	})

	return answer, nil
}

// SubmitImage runs the image path: extract, cross-validate, assemble. A
// failed extraction degrades to an all-unknown candidate and the pipeline
// continues, so the caller always gets a structurally valid answer.
func (e *Executor) SubmitImage(ctx context.Context, image []byte) (*assembly.Answer, error) {
	if len(image) == 0 {
		return nil, invalidInput("image must not be empty")
	}
	if len(image) > e.options.MaxImageBytes {
		return nil, invalidInput("image exceeds %d bytes", e.options.MaxImageBytes)
	}
	mimeType, ok := extraction.SniffImage(image)
	if !ok {
		return nil, invalidInput("unsupported image format, expected JPEG, PNG or WebP")
	}

	ctx, cancel := context.WithTimeout(ctx, e.options.ImageTimeout)
	defer cancel()

	candidate := e.extractor.Extract(ctx, image, mimeType)
	outcome := e.validator.Validate(ctx, candidate)
	answer := e.assembler.FromOutcome(outcome, candidate)

	e.logger.Info("pipeline", "image query completed", map[string]interface{}{
		"confidence": string(answer.Confidence),
		"status":     string(outcome.Status),
	})

	return answer, nil
}
