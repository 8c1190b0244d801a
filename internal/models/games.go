package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MediaFormat string

const (
	MediaPhysical MediaFormat = "physical"
	MediaDigital  MediaFormat = "digital"
)

type Game struct {
	ID               string                      `json:"id" gorm:"type:char(36);primaryKey"`
	Title            string                      `json:"title" gorm:"not null"`
	AlternateTitles  datatypes.JSONSlice[string] `json:"alternateTitles,omitempty"`
	CoverArt         string                      `json:"coverArt"`
	ReleaseDate      *time.Time                  `json:"releaseDate"`
	ConsoleFamilyID  string                      `json:"consoleFamilyId" gorm:"type:char(36);index"`
	ConsoleID        string                      `json:"consoleId,omitempty" gorm:"type:char(36)"`
	Developer        string                      `json:"developer"`
	Region           string                      `json:"region"`
	PhysicalDigital  MediaFormat                 `json:"physicalDigital" gorm:"type:varchar(10);default:'physical'"`
	CategoryIDs      datatypes.JSONSlice[string] `json:"categoryIds"`
	CustomAttributes datatypes.JSONMap           `json:"customAttributes"`
	CreatedAt        time.Time                   `json:"createdAt"`
	UpdatedAt        time.Time                   `json:"updatedAt"`
}

func (g *Game) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// HasCategory reports whether the game is tagged with the given category.
func (g *Game) HasCategory(categoryID string) bool {
	for _, id := range g.CategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}

func (g *Game) ListTitle() string { return g.Title }

func (g *Game) ListDate() *time.Time { return g.ReleaseDate }

func (g *Game) ListCategoryIDs() []string { return g.CategoryIDs }

func (g *Game) ListFamilyID() string { return g.ConsoleFamilyID }

func (g *Game) SearchText() string {
	text := g.Title
	for _, alt := range g.AlternateTitles {
		text += " " + alt
	}
	return text
}
