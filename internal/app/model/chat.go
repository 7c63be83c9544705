package model

import (
	"time"

	"github.com/google/uuid"
)

// Chat is a one-to-one conversation between a customer and a merchant
type Chat struct {
	Base
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chats_pair,priority:1" json:"user"`
	MerchantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chats_pair,priority:2;index" json:"merchant"`
	CreatedAt  time.Time `json:"created_at"`

	User     User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Merchant User `gorm:"foreignKey:MerchantID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Chat) TableName() string {
	return "chats"
}

// HasParticipant reports whether userID is either side of the chat
func (c *Chat) HasParticipant(userID uuid.UUID) bool {
	return c.UserID == userID || c.MerchantID == userID
}

// Peer returns the other participant
func (c *Chat) Peer(userID uuid.UUID) uuid.UUID {
	if c.UserID == userID {
		return c.MerchantID
	}
	return c.UserID
}

type Message struct {
	Base
	ChatID   uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_chat_sent,priority:1" json:"chat"`
	SenderID uuid.UUID `gorm:"type:uuid;not null;index" json:"sender"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	SendDate time.Time `gorm:"not null;index:idx_messages_chat_sent,priority:2" json:"send_date"`

	Chat   Chat `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE" json:"-"`
	Sender User `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Message) TableName() string {
	return "messages"
}
