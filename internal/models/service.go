package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is a catalog entry owners book sitters for
type Service struct {
	gorm.Model

	ServiceID       string  `json:"service_id" gorm:"uniqueIndex"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
	Category        string  `json:"category"` // "walking", "boarding", "grooming", ...
	IsActive        bool    `json:"is_active" gorm:"default:true"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ServiceID == "" {
		s.ServiceID = uuid.NewString()
	}
	return nil
}
