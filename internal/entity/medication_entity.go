package entity

import (
	"time"

	"github.com/google/uuid"
)

// Medication is one record of the SUKL corpus. EmbeddingText is the
// denormalized blob the embedding is derived from; the two are written
// together at ingestion and never mutated independently.
type Medication struct {
	Id                   uuid.UUID
	Name                 string
	ActiveIngredient     string
	Strength             string
	Form                 string
	Manufacturer         string
	RegistrationNumber   string
	AtcCode              string
	Indication           string
	Contraindication     string
	SideEffects          string
	Interactions         string
	Dosage               string
	Price                string
	PrescriptionRequired bool
	EmbeddingText        string
	Embedding            []float32
	Metadata             map[string]interface{} // raw registry columns (JSONB)
	CreatedAt            time.Time
}
