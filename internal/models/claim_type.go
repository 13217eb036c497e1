package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClaimType is reference data naming the kinds of claims the system
// accepts (e.g. "Auto Accident"). Rows are seeded at startup and looked
// up by name when a claim is created.
type ClaimType struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string `gorm:"size:255" json:"description,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *ClaimType) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return
}

// SeedClaimTypes are the claim types inserted on first start.
var SeedClaimTypes = []string{"Home Incident", "Travel Medical", "Auto Accident"}
