package specification

import (
	"strings"

	"gorm.io/gorm"
)

// ByNamePrefix restricts to medications whose name starts with the given
// prefix (case-insensitive). Applied before ranking so the retrieval fan-out
// counts post-filter candidates.
type ByNamePrefix struct {
	Prefix string
}

func (s ByNamePrefix) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name ILIKE ?", strings.ToUpper(s.Prefix)+"%")
}

// ByAtcCode filters by exact ATC classification code.
type ByAtcCode struct {
	Code string
}

func (s ByAtcCode) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("atc_code = ?", s.Code)
}

// ByRegistrationNumber filters by the exact SUKL registration number.
type ByRegistrationNumber struct {
	Number string
}

func (s ByRegistrationNumber) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("registration_number = ?", s.Number)
}

// PrescriptionOnly restricts to prescription-bound medications.
type PrescriptionOnly struct{}

func (s PrescriptionOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("prescription_required = ?", true)
}
