package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pet belongs to exactly one owner
type Pet struct {
	gorm.Model

	PetID               string  `json:"pet_id" gorm:"uniqueIndex"`
	OwnerID             string  `json:"owner_id" gorm:"index"` // references User.UserID
	Name                string  `json:"name"`
	Type                string  `json:"type"` // "dog", "cat", ...
	Breed               string  `json:"breed"`
	Age                 int     `json:"age"`
	Weight              float64 `json:"weight"` // in kg
	SpecialInstructions string  `json:"special_instructions"`
}

func (p *Pet) BeforeCreate(tx *gorm.DB) error {
	if p.PetID == "" {
		p.PetID = uuid.NewString()
	}
	return nil
}
