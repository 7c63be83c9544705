package repository

import (
	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/ecofoods/ecofoods-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatRepository interface {
	Create(chat *model.Chat) error
	FindByID(id uuid.UUID) (*model.Chat, error)
	FindByPair(userID, merchantID uuid.UUID) (*model.Chat, error)
	FindByParticipant(userID uuid.UUID) ([]model.Chat, error)
	CreateMessage(message *model.Message) error
	FindMessages(chatID uuid.UUID, offset, limit int) ([]model.Message, int64, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(chat *model.Chat) error {
	logger.Debug("Creating chat in database", map[string]interface{}{
		"user_id":     chat.UserID,
		"merchant_id": chat.MerchantID,
	})

	if err := r.db.Omit(clause.Associations).Create(chat).Error; err != nil {
		logger.Error("Failed to create chat in database", err, map[string]interface{}{
			"user_id":     chat.UserID,
			"merchant_id": chat.MerchantID,
		})
		return err
	}
	return nil
}

func (r *chatRepository) FindByID(id uuid.UUID) (*model.Chat, error) {
	var chat model.Chat
	if err := r.db.Where("id = ?", id).First(&chat).Error; err != nil {
		logLookupError("Failed to find chat by ID", err, map[string]interface{}{
			"chat_id": id,
		})
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) FindByPair(userID, merchantID uuid.UUID) (*model.Chat, error) {
	var chat model.Chat
	err := r.db.Where("user_id = ? AND merchant_id = ?", userID, merchantID).First(&chat).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) FindByParticipant(userID uuid.UUID) ([]model.Chat, error) {
	chats := []model.Chat{}
	err := r.db.Where("user_id = ? OR merchant_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&chats).Error
	if err != nil {
		logger.Error("Failed to find chats by participant", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Chats found by participant", map[string]interface{}{
		"user_id": userID,
		"count":   len(chats),
	})
	return chats, nil
}

func (r *chatRepository) CreateMessage(message *model.Message) error {
	if err := r.db.Omit(clause.Associations).Create(message).Error; err != nil {
		logger.Error("Failed to create message in database", err, map[string]interface{}{
			"chat_id":   message.ChatID,
			"sender_id": message.SenderID,
		})
		return err
	}

	logger.Debug("Message created in database", map[string]interface{}{
		"message_id": message.ID,
		"chat_id":    message.ChatID,
	})
	return nil
}

// FindMessages pages through a chat oldest first and returns the total count
func (r *chatRepository) FindMessages(chatID uuid.UUID, offset, limit int) ([]model.Message, int64, error) {
	var total int64
	if err := r.db.Model(&model.Message{}).Where("chat_id = ?", chatID).Count(&total).Error; err != nil {
		logger.Error("Failed to count messages", err, map[string]interface{}{
			"chat_id": chatID,
		})
		return nil, 0, err
	}

	messages := []model.Message{}
	err := r.db.Where("chat_id = ?", chatID).
		Order("send_date ASC").
		Offset(offset).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		logger.Error("Failed to find messages", err, map[string]interface{}{
			"chat_id": chatID,
		})
		return nil, 0, err
	}
	return messages, total, nil
}
