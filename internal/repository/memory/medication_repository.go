package memory

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"pillsee-be/internal/entity"
	"pillsee-be/internal/repository/contract"
	"pillsee-be/internal/repository/specification"
)

// MedicationRepository is an in-memory mirror of the pgvector-backed corpus
// store. It computes exact cosine similarity and is used by tests and by
// corpus-less development runs. It supports the medication filter
// specifications; gorm-only specifications are ignored.
type MedicationRepository struct {
	mu      sync.RWMutex
	records []*entity.Medication
}

func NewMedicationRepository() *MedicationRepository {
	return &MedicationRepository{}
}

func (r *MedicationRepository) CreateBulk(ctx context.Context, medications []*entity.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, medications...)
	return nil
}

func (r *MedicationRepository) DeleteAllUnscoped(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
	return nil
}

func (r *MedicationRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records {
		if matchesAll(rec, specs) {
			return rec, nil
		}
	}
	return nil, nil
}

func (r *MedicationRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.Medication
	for _, rec := range r.records {
		if matchesAll(rec, specs) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *MedicationRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}

func (r *MedicationRepository) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64, specs ...specification.Specification) ([]*contract.ScoredMedication, error) {
	if limit <= 0 {
		limit = 5
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var scored []*contract.ScoredMedication
	for _, rec := range r.records {
		if !matchesAll(rec, specs) {
			continue
		}
		sim := cosineSimilarity(embedding, rec.Embedding)
		if sim >= threshold {
			scored = append(scored, &contract.ScoredMedication{
				Medication: rec,
				Similarity: sim,
			})
		}
	}

	// Similarity descending, id ascending on ties, matching the SQL ordering.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Similarity != scored[j].Similarity {
			return scored[i].Similarity > scored[j].Similarity
		}
		return scored[i].Medication.Id.String() < scored[j].Medication.Id.String()
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func matchesAll(rec *entity.Medication, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByNamePrefix:
			if !strings.HasPrefix(strings.ToUpper(rec.Name), strings.ToUpper(s.Prefix)) {
				return false
			}
		case specification.ByAtcCode:
			if rec.AtcCode != s.Code {
				return false
			}
		case specification.ByRegistrationNumber:
			if rec.RegistrationNumber != s.Number {
				return false
			}
		case specification.PrescriptionOnly:
			if !rec.PrescriptionRequired {
				return false
			}
		case specification.ByID:
			if rec.Id != s.ID {
				return false
			}
		}
	}
	return true
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
