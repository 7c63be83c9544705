package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	Base
	Name        string          `gorm:"size:255;not null;index" json:"name"`
	NameSearch  string          `gorm:"size:255;not null;default:'';index" json:"-"` // lower-cased Name
	MerchantID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Price       decimal.Decimal `gorm:"type:decimal(9,2);not null;check:chk_products_price,price >= 0" json:"price"`
	Units       string          `gorm:"size:255" json:"units"` // kg, pcs, l ...
	Description string          `gorm:"type:text" json:"description"`
	IsFeatured  bool            `gorm:"default:false;index" json:"is_featured"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Merchant User           `gorm:"foreignKey:MerchantID;constraint:OnDelete:CASCADE" json:"-"`
	Images   []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// BeforeSave refreshes NameSearch; SQLite's LOWER only folds ASCII
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.NameSearch = strings.ToLower(p.Name)
	return nil
}

// ProductImage links a product to one of its pictures
type ProductImage struct {
	Base
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	ImageID   uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`

	Image Image `gorm:"foreignKey:ImageID;constraint:OnDelete:CASCADE" json:"image"`
}

func (ProductImage) TableName() string {
	return "product_images"
}
