package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID            string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at"`
	Username      string         `gorm:"unique;not null" json:"username"`
	Email         string         `gorm:"unique;not null" json:"email"`
	Password      *string        `json:"-"` // Don't expose password in JSON
	Avatar        string         `json:"avatar"`
	Bio           string         `json:"bio"`
	GoogleID      *string        `gorm:"uniqueIndex" json:"-"`
	Provider      string         `gorm:"type:varchar(20);default:'email'" json:"provider"`
	EmailVerified bool           `json:"email_verified"`
	Drafts        []Draft        `json:"drafts,omitempty" gorm:"foreignKey:UserID"`
	Itineraries   []Itinerary    `json:"itineraries,omitempty" gorm:"foreignKey:CreatorID"`
	RefreshTokens []RefreshToken `json:"-" gorm:"foreignKey:UserID"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
