package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pole is a business unit (Commercial, Technique, ...) gating access
// to dashboard sections.
type Pole struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (p *Pole) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// UserPole grants a user access to one pole. Existence of the row is
// the authorization signal; the privilege level comes from the role.
type UserPole struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_user_pole"`
	PoleID    uuid.UUID `json:"poleId" gorm:"type:uuid;not null;uniqueIndex:idx_user_pole"`
	Pole      *Pole     `json:"pole,omitempty" gorm:"foreignKey:PoleID"`
	CreatedAt time.Time `json:"createdAt"`
}

func (up *UserPole) BeforeCreate(tx *gorm.DB) error {
	if up.ID == uuid.Nil {
		up.ID = uuid.New()
	}
	return nil
}
