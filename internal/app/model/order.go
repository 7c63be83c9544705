package model

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusOpened    OrderStatus = "opened"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid reports whether s is one of the known order statuses
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusOpened, OrderStatusConfirmed, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	Base
	UserID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"-"`
	Status    OrderStatus `gorm:"type:varchar(20);not null;default:'opened'" json:"status"`
	CreatedAt time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`

	User     User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Delivery *Delivery   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"delivery,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	Base
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Quantity  int       `gorm:"not null;check:chk_order_items_quantity,quantity >= 0" json:"quantity"`
	Units     string    `gorm:"size:255" json:"units"` // copied from the product
	CreatedAt time.Time `json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
