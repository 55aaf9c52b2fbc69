package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vehicle statuses
const (
	VehicleInStock  = "en_stock"
	VehicleReserved = "reserve"
	VehicleSold     = "vendu"
)

// Vehicle is one unit of dealership stock.
type Vehicle struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Registration string         `json:"registration" gorm:"uniqueIndex;not null"`
	Make         string         `json:"make" gorm:"not null"`
	Model        string         `json:"model" gorm:"not null"`
	Year         int            `json:"year"`
	Mileage      int            `json:"mileage"`
	Price        float64        `json:"price"`
	Status       string         `json:"status" gorm:"default:en_stock"`
	PhotoURL     string         `json:"photoUrl"`
	CreatedBy    uuid.UUID      `json:"createdBy" gorm:"type:uuid"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
