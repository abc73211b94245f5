package implementation

import (
	"context"
	"errors"

	"pillsee-be/internal/entity"
	"pillsee-be/internal/mapper"
	"pillsee-be/internal/model"
	"pillsee-be/internal/repository/contract"
	"pillsee-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type MedicationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MedicationMapper
}

func NewMedicationRepository(db *gorm.DB) contract.MedicationRepository {
	return &MedicationRepositoryImpl{
		db:     db,
		mapper: mapper.NewMedicationMapper(),
	}
}

func (r *MedicationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MedicationRepositoryImpl) CreateBulk(ctx context.Context, medications []*entity.Medication) error {
	if len(medications) == 0 {
		return nil
	}
	models := make([]*model.Medication, len(medications))
	for i, e := range medications {
		models[i] = r.mapper.ToModel(e)
	}

	if err := r.db.WithContext(ctx).CreateInBatches(models, 200).Error; err != nil {
		return err
	}

	// Update generated IDs back to entities
	for i, m := range models {
		*medications[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *MedicationRepositoryImpl) DeleteAllUnscoped(ctx context.Context) error {
	return r.db.WithContext(ctx).Unscoped().Where("1 = 1").Delete(&model.Medication{}).Error
}

func (r *MedicationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Medication, error) {
	var m model.Medication
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *MedicationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Medication, error) {
	var models []*model.Medication
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Medication, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *MedicationRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Medication{}).Count(&count).Error
	return count, err
}

// SearchSimilarWithScore ranks by pgvector cosine distance. The distance
// operator returns 1 - cosine_similarity, so similarity = 1 - (a <=> b).
// Ordering is similarity DESC then id ASC for deterministic output on ties.
func (r *MedicationRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64, specs ...specification.Specification) ([]*contract.ScoredMedication, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.Medication
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("medications").
		Select("medications.*, 1 - (embedding_value <=> ?) as similarity", queryVector)

	// Filters apply before ranking so the limit counts post-filter candidates.
	query = r.applySpecifications(query, specs...)

	err := query.
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC, id ASC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredMedication, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredMedication{
			Medication: r.mapper.ToEntity(&res.Medication),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
