package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact is a CRM contact (buyer, seller, supplier).
type Contact struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	FirstName string         `json:"firstName" gorm:"not null"`
	LastName  string         `json:"lastName" gorm:"not null"`
	Email     string         `json:"email" gorm:"index"`
	Phone     string         `json:"phone"`
	Company   string         `json:"company"`
	Notes     string         `json:"notes"`
	CreatedBy uuid.UUID      `json:"createdBy" gorm:"type:uuid"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
