package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryType string

const (
	CategoryFranchise CategoryType = "franchise"
	CategorySaga      CategoryType = "saga"
	CategoryGenre     CategoryType = "genre"
	CategoryCustom    CategoryType = "custom"
)

// CategoryTypes lists every valid category type, in display order.
var CategoryTypes = []CategoryType{
	CategoryFranchise,
	CategorySaga,
	CategoryGenre,
	CategoryCustom,
}

func (t CategoryType) Valid() bool {
	switch t {
	case CategoryFranchise, CategorySaga, CategoryGenre, CategoryCustom:
		return true
	}
	return false
}

type Category struct {
	ID          string       `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string       `json:"name" gorm:"not null"`
	Type        CategoryType `json:"type" gorm:"type:varchar(20);not null;index"`
	Description string       `json:"description,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
