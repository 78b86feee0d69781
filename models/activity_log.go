package models

import (
	"gorm.io/gorm"
)

// ActivityLog records authoring events delivered over the event bus:
// "draft_created", "step_saved", "draft_published", "draft_deleted".
type ActivityLog struct {
	gorm.Model
	UserID      string    `json:"userId" gorm:"type:uuid;not null;index"`
	User        User      `json:"user" gorm:"foreignKey:UserID"`
	DraftID     string    `json:"draftId" gorm:"type:uuid;index"`
	ItineraryID *string   `json:"itineraryId" gorm:"type:uuid"`
	Activity    string    `json:"activity" gorm:"not null;type:varchar(50)"`
	Step        int       `json:"step"`
}
