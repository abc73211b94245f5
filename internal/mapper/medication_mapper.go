package mapper

import (
	"encoding/json"

	"pillsee-be/internal/entity"
	"pillsee-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type MedicationMapper struct{}

func NewMedicationMapper() *MedicationMapper {
	return &MedicationMapper{}
}

func (m *MedicationMapper) ToEntity(mdl *model.Medication) *entity.Medication {
	var metadata map[string]interface{}
	if len(mdl.Metadata) > 0 {
		// Malformed metadata is not fatal, the structured columns carry the record.
		_ = json.Unmarshal(mdl.Metadata, &metadata)
	}

	return &entity.Medication{
		Id:                   mdl.Id,
		Name:                 mdl.Name,
		ActiveIngredient:     mdl.ActiveIngredient,
		Strength:             mdl.Strength,
		Form:                 mdl.Form,
		Manufacturer:         mdl.Manufacturer,
		RegistrationNumber:   mdl.RegistrationNumber,
		AtcCode:              mdl.AtcCode,
		Indication:           mdl.Indication,
		Contraindication:     mdl.Contraindication,
		SideEffects:          mdl.SideEffects,
		Interactions:         mdl.Interactions,
		Dosage:               mdl.Dosage,
		Price:                mdl.Price,
		PrescriptionRequired: mdl.PrescriptionRequired,
		EmbeddingText:        mdl.EmbeddingText,
		Embedding:            mdl.EmbeddingValue.Slice(),
		Metadata:             metadata,
		CreatedAt:            mdl.CreatedAt,
	}
}

func (m *MedicationMapper) ToModel(e *entity.Medication) *model.Medication {
	var metadata datatypes.JSON
	if e.Metadata != nil {
		if raw, err := json.Marshal(e.Metadata); err == nil {
			metadata = raw
		}
	}

	return &model.Medication{
		Id:                   e.Id,
		Name:                 e.Name,
		ActiveIngredient:     e.ActiveIngredient,
		Strength:             e.Strength,
		Form:                 e.Form,
		Manufacturer:         e.Manufacturer,
		RegistrationNumber:   e.RegistrationNumber,
		AtcCode:              e.AtcCode,
		Indication:           e.Indication,
		Contraindication:     e.Contraindication,
		SideEffects:          e.SideEffects,
		Interactions:         e.Interactions,
		Dosage:               e.Dosage,
		Price:                e.Price,
		PrescriptionRequired: e.PrescriptionRequired,
		EmbeddingText:        e.EmbeddingText,
		EmbeddingValue:       pgvector.NewVector(e.Embedding),
		Metadata:             metadata,
		CreatedAt:            e.CreatedAt,
	}
}
