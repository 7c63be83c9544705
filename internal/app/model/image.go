package model

type Image struct {
	Base
	URL string `gorm:"type:text;not null" json:"url"`
}

func (Image) TableName() string {
	return "images"
}
