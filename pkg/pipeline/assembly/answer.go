package assembly

import "errors"

// Disclaimer is appended verbatim to every assembled answer.
const Disclaimer = "Tyto informace mají pouze informativní charakter a nenahrazují konzultaci s lékařem nebo lékárníkem. Před užitím léku si vždy přečtěte příbalovou informaci."

// ConfidenceLabel is the user-facing trust level of an answer.
type ConfidenceLabel string

const (
	ConfidenceHigh   ConfidenceLabel = "high"
	ConfidenceMedium ConfidenceLabel = "medium"
	ConfidenceLow    ConfidenceLabel = "low"
)

// MedicationInfo holds the display fields of an answer. Empty fields were
// absent from the source record and are omitted from the rendered payload,
// never guessed.
type MedicationInfo struct {
	Name                 string `json:"name,omitempty"`
	ActiveIngredient     string `json:"active_ingredient,omitempty"`
	Strength             string `json:"strength,omitempty"`
	Form                 string `json:"form,omitempty"`
	Manufacturer         string `json:"manufacturer,omitempty"`
	RegistrationNumber   string `json:"registration_number,omitempty"`
	AtcCode              string `json:"atc_code,omitempty"`
	Indication           string `json:"indication,omitempty"`
	Contraindication     string `json:"contraindication,omitempty"`
	SideEffects          string `json:"side_effects,omitempty"`
	Interactions         string `json:"interactions,omitempty"`
	Dosage               string `json:"dosage,omitempty"`
	PrescriptionRequired bool   `json:"prescription_required"`
}

// Answer is the sole artifact the pipeline returns. It can only be built
// through newAnswer, which guarantees the disclaimer is present; there is no
// code path that yields an Answer without one.
type Answer struct {
	Medication *MedicationInfo `json:"medication,omitempty"`
	Confidence ConfidenceLabel `json:"confidence"`
	Similarity float64         `json:"similarity,omitempty"`
	Note       string          `json:"note,omitempty"`
	Warnings   []string        `json:"warnings,omitempty"`
	Disclaimer string          `json:"disclaimer"`
}

var errMissingDisclaimer = errors.New("assembly: answer requires a disclaimer")

func newAnswer(medication *MedicationInfo, confidence ConfidenceLabel, similarity float64, note string, warnings []string) *Answer {
	answer := &Answer{
		Medication: medication,
		Confidence: confidence,
		Similarity: similarity,
		Note:       note,
		Warnings:   warnings,
		Disclaimer: Disclaimer,
	}
	if answer.Disclaimer == "" {
		panic(errMissingDisclaimer)
	}
	return answer
}
