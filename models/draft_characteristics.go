package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DraftCharacteristics holds the five 1-5 trip-shape axes. One row per draft,
// all five required before the creator can leave step 3.
type DraftCharacteristics struct {
	ID               string    `gorm:"type:uuid;primaryKey" json:"id"`
	DraftID          string    `gorm:"type:uuid;not null;uniqueIndex" json:"draft_id"`
	PhysicalDemand   int       `gorm:"check:physical_demand between 1 and 5" json:"physical_demand"`
	CulturalImmersion int      `gorm:"check:cultural_immersion between 1 and 5" json:"cultural_immersion"`
	Pace             int       `gorm:"check:pace between 1 and 5" json:"pace"`
	BudgetLevel      int       `gorm:"check:budget_level between 1 and 5" json:"budget_level"`
	SocialStyle      int       `gorm:"check:social_style between 1 and 5" json:"social_style"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (c *DraftCharacteristics) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Complete reports whether all five axes are set.
func (c *DraftCharacteristics) Complete() bool {
	if c == nil {
		return false
	}
	for _, v := range []int{c.PhysicalDemand, c.CulturalImmersion, c.Pace, c.BudgetLevel, c.SocialStyle} {
		if v < 1 || v > 5 {
			return false
		}
	}
	return true
}
