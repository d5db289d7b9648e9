package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sitter is the one-to-one extension of a User with UserType SITTER
type Sitter struct {
	gorm.Model

	SitterID        string  `json:"sitter_id" gorm:"uniqueIndex"`
	UserID          string  `json:"user_id" gorm:"uniqueIndex"` // references User.UserID
	Rating          float64 `json:"rating" gorm:"default:5.0"`
	ExperienceYears int     `json:"experience_years"`
	Bio             string  `json:"bio"`
	TotalServices   int     `json:"total_services" gorm:"default:0"`
	Available       bool    `json:"available" gorm:"default:true"`
}

func (s *Sitter) BeforeCreate(tx *gorm.DB) error {
	if s.SitterID == "" {
		s.SitterID = uuid.NewString()
	}
	if s.Rating == 0 {
		s.Rating = 5.0
	}
	return nil
}

// CompleteService bumps the service counter and folds a new rating
// into the weighted average
func (s *Sitter) CompleteService(rating float64) {
	s.TotalServices++
	if s.TotalServices == 1 {
		s.Rating = rating
	} else {
		s.Rating = ((s.Rating * float64(s.TotalServices-1)) + rating) / float64(s.TotalServices)
	}
}
