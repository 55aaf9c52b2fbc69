package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmailLog is the audit row written for every send attempt, success
// or failure.
type EmailLog struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Recipient    string     `json:"recipient" gorm:"not null"`
	Subject      string     `json:"subject"`
	DocumentID   *uuid.UUID `json:"documentId" gorm:"type:uuid"`
	DocumentType string     `json:"documentType"`
	Success      bool       `json:"success"`
	ErrorText    string     `json:"errorText"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func (l *EmailLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
