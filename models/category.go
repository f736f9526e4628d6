package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category represents a product category.
// Products keep a copy of it taken at save time.
type Category struct {
	ID   string `gorm:"primaryKey;size:36" json:"id"`
	Name string `gorm:"not null" json:"name"`
}

func (c *Category) TableName() string {
	return "categoria"
}

// BeforeCreate assigns an id to categories saved without one.
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
