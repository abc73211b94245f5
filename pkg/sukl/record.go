package sukl

import "strings"

// Record is one cleaned row of the SÚKL registry export. Fields absent from
// the source file stay empty.
type Record struct {
	Name               string
	ActiveIngredient   string
	Strength           string
	Form               string
	Manufacturer       string
	RegistrationNumber string
	AtcCode            string
	Indication         string
	Contraindication   string
	SideEffects        string
	Interactions       string
	Dosage             string
	Price              string
	PrescriptionRaw    string
	Code               string
	Packaging          string
	Route              string
	Ean                string
}

// Valid reports whether the row carries enough signal to embed: a name plus
// either an active ingredient or an ATC code. Official NKOD exports often
// lack the ingredient column, so the ATC code stands in for it.
func (r *Record) Valid() bool {
	return r.Name != "" && (r.ActiveIngredient != "" || r.AtcCode != "")
}

// PrescriptionRequired interprets the registry's dispensing column. The NKOD
// VYDEJ codes use "R" for prescription-bound and "F"/"V" for over-the-counter
// sale; older exports spell it out in Czech.
func (r *Record) PrescriptionRequired() bool {
	v := strings.ToUpper(strings.TrimSpace(r.PrescriptionRaw))
	switch v {
	case "", "F", "V", "VOLNĚ PRODEJNÉ", "BEZ RECEPTU":
		return false
	}
	return true
}

// EmbeddingText renders the record as the labeled Czech text block that gets
// embedded. Queries are phrased against the same labels, which keeps records
// and queries in one embedding neighborhood.
func (r *Record) EmbeddingText() string {
	var parts []string
	add := func(label, value string) {
		if value != "" {
			parts = append(parts, label+": "+value)
		}
	}

	add("Název", r.Name)
	if r.ActiveIngredient != "" {
		add("Účinná látka", r.ActiveIngredient)
	} else {
		add("ATC kód", r.AtcCode)
	}
	add("Síla", r.Strength)
	add("Léková forma", r.Form)
	add("Výrobce", r.Manufacturer)
	add("Indikace", r.Indication)
	add("Kontraindikace", r.Contraindication)
	add("Nežádoucí účinky", r.SideEffects)
	add("Interakce", r.Interactions)
	add("Dávkování", r.Dosage)

	return strings.Join(parts, "\n")
}

// Metadata collects the registry fields that are kept alongside the record
// for reference but not embedded.
func (r *Record) Metadata() map[string]interface{} {
	meta := map[string]interface{}{}
	put := func(key, value string) {
		if value != "" {
			meta[key] = value
		}
	}
	put("kod_sukl", r.Code)
	put("baleni", r.Packaging)
	put("cesta", r.Route)
	put("ean", r.Ean)
	put("vydej", r.PrescriptionRaw)
	put("cena", r.Price)
	return meta
}
