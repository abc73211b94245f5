package contract

import (
	"context"

	"pillsee-be/internal/entity"
	"pillsee-be/internal/repository/specification"
)

// ScoredMedication wraps a Medication with its similarity score relative to a
// query embedding. Similarity is cosine-derived, 0.0 to 1.0 (1.0 = identical).
type ScoredMedication struct {
	Medication *entity.Medication
	Similarity float64
}

type MedicationRepository interface {
	CreateBulk(ctx context.Context, medications []*entity.Medication) error
	// DeleteAllUnscoped hard-deletes the whole corpus; used by the importer
	// for a wholesale refresh before re-ingestion.
	DeleteAllUnscoped(ctx context.Context) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Medication, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Medication, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns up to limit medications ordered by
	// similarity descending, ties broken by id ascending. Filter specs apply
	// before ranking. An empty corpus yields an empty slice, not an error.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64, specs ...specification.Specification) ([]*ScoredMedication, error)
}
