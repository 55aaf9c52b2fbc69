package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types
const (
	TypeInfo    = "info"
	TypeSuccess = "success"
	TypeWarning = "warning"
	TypeError   = "error"
)

// Notification categories
const (
	CategorySystem     = "system"
	CategoryUser       = "user"
	CategoryCommercial = "commercial"
	CategoryTechnique  = "technique"
)

type Notification struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID  `json:"userId" gorm:"type:uuid;index;not null"`
	SenderID  *uuid.UUID `json:"senderId" gorm:"type:uuid"`
	Sender    *User      `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Title     string     `json:"title" gorm:"not null"`
	Message   string     `json:"message"`
	Type      string     `json:"type" gorm:"not null;default:info"`
	Category  string     `json:"category" gorm:"not null;default:system"`
	Read      bool       `json:"read" gorm:"default:false"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

func ValidNotificationType(t string) bool {
	switch t {
	case TypeInfo, TypeSuccess, TypeWarning, TypeError:
		return true
	}
	return false
}

func ValidNotificationCategory(c string) bool {
	switch c {
	case CategorySystem, CategoryUser, CategoryCommercial, CategoryTechnique:
		return true
	}
	return false
}
