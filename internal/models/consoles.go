package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ConsoleFamily is a platform line (e.g. a console generation entry),
// independent of any owned unit.
type ConsoleFamily struct {
	ID         string    `json:"id" gorm:"type:char(36);primaryKey"`
	Name       string    `json:"name" gorm:"not null"`
	Developer  string    `json:"developer"`
	Generation string    `json:"generation,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (f *ConsoleFamily) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// Console is an individually owned unit belonging to a family.
type Console struct {
	ID               string            `json:"id" gorm:"type:char(36);primaryKey"`
	ConsoleFamilyID  string            `json:"consoleFamilyId" gorm:"type:char(36);index"`
	Model            string            `json:"model"`
	ReleaseDate      *time.Time        `json:"releaseDate"`
	Region           string            `json:"region"`
	Color            string            `json:"color"`
	Picture          string            `json:"picture"`
	CustomAttributes datatypes.JSONMap `json:"customAttributes"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

func (c *Console) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (c *Console) ListTitle() string { return c.Model }

func (c *Console) ListDate() *time.Time { return c.ReleaseDate }

func (c *Console) ListCategoryIDs() []string { return nil }

func (c *Console) ListFamilyID() string { return c.ConsoleFamilyID }

func (c *Console) SearchText() string { return c.Model }
