package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxRating is the upper bound of a review rating
var MaxRating = decimal.NewFromInt(5)

type Review struct {
	Base
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_author_product,priority:2;index" json:"product"`
	AuthorID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_author_product,priority:1" json:"author"`
	MerchantID uuid.UUID       `gorm:"type:uuid;not null;index" json:"merchant"`
	Rating     decimal.Decimal `gorm:"type:decimal(2,1);not null;check:chk_reviews_rating,rating >= 0 AND rating <= 5" json:"rating"`
	ReviewText string          `gorm:"type:text" json:"review_text"`
	CreatedAt  time.Time       `gorm:"index" json:"created_at"`

	Product  Product       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	Author   User          `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Merchant User          `gorm:"foreignKey:MerchantID;constraint:OnDelete:CASCADE" json:"-"`
	Images   []ReviewImage `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}

type ReviewImage struct {
	Base
	ReviewID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	ImageID  uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`

	Image Image `gorm:"foreignKey:ImageID;constraint:OnDelete:CASCADE" json:"image"`
}

func (ReviewImage) TableName() string {
	return "review_images"
}
