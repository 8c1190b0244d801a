package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Peripheral struct {
	ID               string            `json:"id" gorm:"type:char(36);primaryKey"`
	Name             string            `json:"name" gorm:"not null"`
	ConsoleFamilyID  string            `json:"consoleFamilyId" gorm:"type:char(36);index"`
	Quantity         int               `json:"quantity" gorm:"default:1"`
	Color            string            `json:"color"`
	Picture          string            `json:"picture"`
	CustomAttributes datatypes.JSONMap `json:"customAttributes"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

func (p *Peripheral) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *Peripheral) ListTitle() string { return p.Name }

func (p *Peripheral) ListDate() *time.Time { return nil }

func (p *Peripheral) ListCategoryIDs() []string { return nil }

func (p *Peripheral) ListFamilyID() string { return p.ConsoleFamilyID }

func (p *Peripheral) SearchText() string { return p.Name }
