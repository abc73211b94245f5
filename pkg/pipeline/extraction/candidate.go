package extraction

import "strings"

// NotVisible is the sentinel the vision prompt asks the model to emit for
// unreadable fields. It is normalized to an empty ("unknown") field and never
// treated as a literal value downstream.
const NotVisible = "není viditelné"

// Candidate is the structured guess extracted from a package photograph.
// Empty fields are unknown. Confidence is in [0,1].
type Candidate struct {
	Name               string  `json:"name"`
	ActiveIngredient   string  `json:"active_ingredient"`
	Strength           string  `json:"strength"`
	Form               string  `json:"form"`
	Manufacturer       string  `json:"manufacturer"`
	RegistrationNumber string  `json:"registration_number"`
	Confidence         float64 `json:"confidence_score"`
	ExtractedText      string  `json:"extracted_text"`
	Note               string  `json:"note,omitempty"`
}

// NameKnown reports whether the candidate carries a usable product name.
func (c *Candidate) NameKnown() bool {
	return c != nil && c.Name != ""
}

// Unknown returns an all-unknown candidate with zero confidence and the
// given advisory note. Used whenever the vision call fails or its output
// cannot be parsed.
func Unknown(note string) *Candidate {
	return &Candidate{
		Confidence: 0,
		Note:       note,
	}
}

func normalizeField(value string) string {
	v := strings.TrimSpace(value)
	switch strings.ToLower(v) {
	case "", NotVisible, "neznámé", "unknown", "n/a", "null":
		return ""
	}
	return v
}
