package assembly

import (
	"strings"

	"pillsee-be/internal/entity"
	"pillsee-be/internal/repository/contract"
	"pillsee-be/pkg/pipeline/extraction"
	"pillsee-be/pkg/pipeline/validation"
)

const (
	noteNotFound          = "Lék se nepodařilo ověřit v registru léčiv. Zkontrolujte prosím název a zkuste dotaz upřesnit."
	noteUncertain         = "Nalezená shoda v registru není jednoznačná. Ověřte prosím, že se jedná o váš lék."
	noteCorpusUnavailable = "Registr léčiv je momentálně nedostupný, dotaz nebylo možné ověřit. Zkuste to prosím později."

	warningPrescription = "Tento lék je vázán na lékařský předpis."
)

// Sensitive therapeutic classes that always earn a consultation warning,
// matched against the medication name and active ingredient.
var sensitiveClasses = []string{"antibio", "kortiko", "psycho", "opio", "warfarin"}

// Assembler turns validation outcomes and retrieval matches into the final
// answer. It is a pure function of its inputs: no stage is re-invoked and
// identical inputs produce identical answers.
type Assembler struct{}

func NewAssembler() *Assembler {
	return &Assembler{}
}

// FromOutcome assembles the answer for an image submission. The extraction
// candidate supplements any field the matched record leaves empty, but a
// corpus value always wins over a guess from the photograph.
func (a *Assembler) FromOutcome(outcome *validation.Outcome, candidate *extraction.Candidate) *Answer {
	if outcome == nil || outcome.Status == validation.StatusUnmatched || outcome.BestMatch == nil {
		note := noteNotFound
		if candidate != nil && candidate.Note != "" {
			note = candidate.Note + " " + noteNotFound
		}
		return newAnswer(partialInfo(candidate), ConfidenceLow, 0, note, nil)
	}

	info := recordInfo(outcome.BestMatch.Medication)
	enrich(info, candidate)

	label := ConfidenceHigh
	note := ""
	if outcome.Status == validation.StatusUncertain {
		label = ConfidenceMedium
		note = noteUncertain
	}

	return newAnswer(info, label, outcome.Similarity, note, collectWarnings(info))
}

// FromMatches assembles the answer for a text query from ranked retrieval
// matches, using the top match as the displayed record.
func (a *Assembler) FromMatches(matches []*contract.ScoredMedication, confirmThreshold, minThreshold float64) *Answer {
	if len(matches) == 0 {
		return newAnswer(nil, ConfidenceLow, 0, noteNotFound, nil)
	}

	best := matches[0]
	info := recordInfo(best.Medication)

	label := ConfidenceLow
	note := noteNotFound
	switch validation.Classify(best.Similarity, confirmThreshold, minThreshold) {
	case validation.StatusConfirmed:
		label = ConfidenceHigh
		note = ""
	case validation.StatusUncertain:
		label = ConfidenceMedium
		note = noteUncertain
	}

	return newAnswer(info, label, best.Similarity, note, collectWarnings(info))
}

// Unavailable assembles the degraded answer used when the corpus cannot be
// searched at all.
func (a *Assembler) Unavailable() *Answer {
	return newAnswer(nil, ConfidenceLow, 0, noteCorpusUnavailable, nil)
}

func recordInfo(medication *entity.Medication) *MedicationInfo {
	if medication == nil {
		return nil
	}
	return &MedicationInfo{
		Name:                 medication.Name,
		ActiveIngredient:     medication.ActiveIngredient,
		Strength:             medication.Strength,
		Form:                 medication.Form,
		Manufacturer:         medication.Manufacturer,
		RegistrationNumber:   medication.RegistrationNumber,
		AtcCode:              medication.AtcCode,
		Indication:           medication.Indication,
		Contraindication:     medication.Contraindication,
		SideEffects:          medication.SideEffects,
		Interactions:         medication.Interactions,
		Dosage:               medication.Dosage,
		PrescriptionRequired: medication.PrescriptionRequired,
	}
}

// partialInfo carries over only what the vision stage actually recognized.
func partialInfo(candidate *extraction.Candidate) *MedicationInfo {
	if candidate == nil || !candidate.NameKnown() {
		return nil
	}
	return &MedicationInfo{
		Name:               candidate.Name,
		ActiveIngredient:   candidate.ActiveIngredient,
		Strength:           candidate.Strength,
		Form:               candidate.Form,
		Manufacturer:       candidate.Manufacturer,
		RegistrationNumber: candidate.RegistrationNumber,
	}
}

// enrich fills record fields the registry left empty with values the vision
// stage recognized on the package.
func enrich(info *MedicationInfo, candidate *extraction.Candidate) {
	if info == nil || candidate == nil {
		return
	}
	if info.Strength == "" {
		info.Strength = candidate.Strength
	}
	if info.Form == "" {
		info.Form = candidate.Form
	}
	if info.Manufacturer == "" {
		info.Manufacturer = candidate.Manufacturer
	}
	if info.RegistrationNumber == "" {
		info.RegistrationNumber = candidate.RegistrationNumber
	}
}

func collectWarnings(info *MedicationInfo) []string {
	if info == nil {
		return nil
	}
	var warnings []string
	if info.Contraindication != "" {
		warnings = append(warnings, "Kontraindikace: "+info.Contraindication)
	}
	if info.Interactions != "" {
		warnings = append(warnings, "Interakce: "+info.Interactions)
	}
	if info.PrescriptionRequired {
		warnings = append(warnings, warningPrescription)
	}
	haystack := strings.ToLower(info.Name + " " + info.ActiveIngredient + " " + info.AtcCode)
	for _, class := range sensitiveClasses {
		if strings.Contains(haystack, class) {
			warnings = append(warnings, "Užívání tohoto léku konzultujte s lékařem.")
			break
		}
	}
	return warnings
}
