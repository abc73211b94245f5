package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type Medication struct {
	Id                   uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name                 string          `gorm:"type:text;not null;index"`
	ActiveIngredient     string          `gorm:"type:text;index"`
	Strength             string          `gorm:"type:text"`
	Form                 string          `gorm:"type:text"`
	Manufacturer         string          `gorm:"type:text"`
	RegistrationNumber   string          `gorm:"type:text;index"`
	AtcCode              string          `gorm:"type:text;index"`
	Indication           string          `gorm:"type:text"`
	Contraindication     string          `gorm:"type:text"`
	SideEffects          string          `gorm:"type:text"`
	Interactions         string          `gorm:"type:text"`
	Dosage               string          `gorm:"type:text"`
	Price                string          `gorm:"type:text"`
	PrescriptionRequired bool            `gorm:"default:false"`
	EmbeddingText        string          `gorm:"type:text;not null"`
	EmbeddingValue       pgvector.Vector `gorm:"type:vector(512)"` // text-embedding-3-small trimmed to 512 dimensions
	Metadata             datatypes.JSON  `gorm:"type:jsonb"`
	CreatedAt            time.Time       `gorm:"autoCreateTime"`
}

func (Medication) TableName() string {
	return "medications"
}
