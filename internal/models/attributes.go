package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AttributeType string

const (
	AttributeText    AttributeType = "text"
	AttributeNumber  AttributeType = "number"
	AttributeDate    AttributeType = "date"
	AttributeBoolean AttributeType = "boolean"
	AttributeSelect  AttributeType = "select"
)

func (t AttributeType) Valid() bool {
	switch t {
	case AttributeText, AttributeNumber, AttributeDate, AttributeBoolean, AttributeSelect:
		return true
	}
	return false
}

// Attribute defines the schema for custom attribute maps. Global attributes
// show up as structured fields on every game form; non-global ones are just
// named templates.
type Attribute struct {
	ID        string                      `json:"id" gorm:"type:char(36);primaryKey"`
	Name      string                      `json:"name" gorm:"not null;uniqueIndex"`
	Type      AttributeType               `json:"type" gorm:"type:varchar(20);not null"`
	Options   datatypes.JSONSlice[string] `json:"options,omitempty"`
	IsGlobal  bool                        `json:"isGlobal" gorm:"index"`
	CreatedAt time.Time                   `json:"createdAt"`
}

func (a *Attribute) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
