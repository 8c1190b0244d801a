package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CompletionType struct {
	ID        string    `json:"id" gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *CompletionType) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Backlog records one completed playthrough of a game. A NULL completion
// date means the date is unknown, which ranks after every known date.
type Backlog struct {
	ID               string            `json:"id" gorm:"type:char(36);primaryKey"`
	GameID           string            `json:"gameId" gorm:"type:char(36);index;not null"`
	CompletionDate   *time.Time        `json:"completionDate"`
	EndingType       string            `json:"endingType"`
	CompletionTypeID string            `json:"completionTypeId" gorm:"type:char(36)"`
	CustomAttributes datatypes.JSONMap `json:"customAttributes"`
	CreatedAt        time.Time         `json:"createdAt"`
}

func (b *Backlog) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
