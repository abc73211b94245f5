package extraction

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"

	"pillsee-be/internal/pkg/logger"
	"pillsee-be/pkg/vision"
)

const (
	noteRecognitionFailed = "Nepodařilo se rozpoznat lék z obrázku. Zkuste obrázek s lepším osvětlením nebo z jiného úhlu."
	noteVeryLowConfidence = "Velmi nízká spolehlivost rozpoznání. Zkuste obrázek s lepším osvětlením nebo z jiného úhlu."
	noteLowConfidence     = "Nízká spolehlivost rozpoznání. Doporučujeme ověřit informace."
	noteMediumConfidence  = "Střední spolehlivost rozpoznání. Zkontrolujte správnost údajů."
	noteNameNotRecognized = "Nepodařilo se rozpoznat název léku"
)

// Extractor turns a package photograph into a structured Candidate via one
// call to a vision-capable model. It never returns an error: every failure
// mode degrades to an all-unknown candidate with confidence 0 so the
// pipeline can continue and tell the user recognition failed.
type Extractor struct {
	provider vision.Provider
	logger   logger.ILogger
}

func NewExtractor(provider vision.Provider, log logger.ILogger) *Extractor {
	return &Extractor{
		provider: provider,
		logger:   log,
	}
}

func (e *Extractor) Extract(ctx context.Context, imageBytes []byte, mimeType string) *Candidate {
	imageBase64 := base64.StdEncoding.EncodeToString(imageBytes)

	raw, err := e.provider.Analyze(ctx, visionInstruction, imageBase64, mimeType)
	if err != nil {
		e.logger.Warn("extraction", "vision call failed", map[string]interface{}{"error": err.Error()})
		return Unknown(noteRecognitionFailed)
	}

	candidate := e.parseResponse(raw)
	e.assessQuality(candidate)

	e.logger.Info("extraction", "vision extraction completed", map[string]interface{}{
		"name":       candidate.Name,
		"confidence": candidate.Confidence,
	})

	return candidate
}

// parseResponse decodes the model output defensively. The model is asked for
// strict JSON but may wrap it in code fences or return prose; on any decode
// failure the result is all-unknown with the raw text preserved.
func (e *Extractor) parseResponse(raw string) *Candidate {
	payload := stripCodeFences(raw)

	var candidate Candidate
	if err := json.Unmarshal([]byte(payload), &candidate); err != nil {
		e.logger.Warn("extraction", "vision output is not valid JSON", map[string]interface{}{"error": err.Error()})
		c := Unknown(noteRecognitionFailed)
		c.ExtractedText = strings.TrimSpace(raw)
		return c
	}

	candidate.Name = normalizeField(candidate.Name)
	candidate.ActiveIngredient = normalizeField(candidate.ActiveIngredient)
	candidate.Strength = normalizeField(candidate.Strength)
	candidate.Form = normalizeField(candidate.Form)
	candidate.Manufacturer = normalizeField(candidate.Manufacturer)
	candidate.RegistrationNumber = normalizeField(candidate.RegistrationNumber)
	candidate.ExtractedText = strings.TrimSpace(candidate.ExtractedText)

	if candidate.Confidence < 0 {
		candidate.Confidence = 0
	}
	if candidate.Confidence > 1 {
		candidate.Confidence = 1
	}

	return &candidate
}

// assessQuality lowers self-reported confidence when critical fields are
// missing and attaches an advisory note for low-confidence results. The note
// is information for the user, not a failure: validation still runs.
func (e *Extractor) assessQuality(c *Candidate) {
	if c.Name == "" {
		c.Confidence = max(0, c.Confidence-0.3)
		c.Note = noteNameNotRecognized
	}
	if c.ActiveIngredient == "" {
		c.Confidence = max(0, c.Confidence-0.2)
	}

	switch {
	case c.Confidence < 0.4:
		c.Note = noteVeryLowConfidence
	case c.Confidence < 0.6:
		c.Note = noteLowConfidence
	case c.Confidence < 0.8 && c.Note == "":
		c.Note = noteMediumConfidence
	}
}

func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	// Fall back to the outermost JSON object when the model adds prose.
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return strings.TrimSpace(s)
}
