package model

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	Base
	Name      string     `gorm:"size:255;not null;uniqueIndex" json:"name"`
	ImageID   *uuid.UUID `gorm:"type:uuid" json:"-"`
	CreatedAt time.Time  `json:"created_at"`

	Image *Image `gorm:"foreignKey:ImageID;constraint:OnDelete:SET NULL" json:"image,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

// ProductCategory is the join row between products and categories
type ProductCategory struct {
	ProductID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	CategoryID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt  time.Time

	Product  Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Category Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

func (ProductCategory) TableName() string {
	return "product_categories"
}
