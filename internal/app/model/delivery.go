package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultDeliveryWindow is the window length used when time_end is not given
const DefaultDeliveryWindow = 4 * time.Hour

type DeliveryType string

const (
	DeliveryTypePickup  DeliveryType = "pickup"
	DeliveryTypeCourier DeliveryType = "courier"
)

func (t DeliveryType) IsValid() bool {
	return t == DeliveryTypePickup || t == DeliveryTypeCourier
}

type Delivery struct {
	Base
	OrderID        uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex" json:"order"`
	TimeStart      time.Time    `gorm:"not null;index" json:"time_start"`
	TimeEnd        time.Time    `gorm:"not null;check:chk_deliveries_time_end,time_end > time_start" json:"time_end"`
	District       string       `gorm:"size:255" json:"district"`
	DeliveryType   DeliveryType `gorm:"type:varchar(20);not null" json:"delivery_type"`
	ReminderSentAt *time.Time   `json:"-"` // set by the reminder job
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (Delivery) TableName() string {
	return "deliveries"
}
