package service

import (
	"errors"
	"strings"
	"time"

	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/ecofoods/ecofoods-backend/internal/app/repository"
	"github.com/ecofoods/ecofoods-backend/internal/websocket"
	"github.com/ecofoods/ecofoods-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultMessagePageSize = 50
	MaxMessagePageSize     = 100
)

var (
	ErrChatNotFound     = errors.New("chat not found")
	ErrMerchantNotFound = errors.New("merchant not found")
	ErrChatWithSelf     = errors.New("cannot open a chat with yourself")
	ErrEmptyMessage     = errors.New("message text must not be empty")
)

// Notifier pushes realtime events to a user's open sessions
type Notifier interface {
	SendToUser(userID uuid.UUID, eventType string, data interface{}) error
}

type ChatService interface {
	GetOrCreateChat(userID, merchantID uuid.UUID) (*model.Chat, bool, error)
	ListChats(userID uuid.UUID) ([]model.Chat, error)
	SendMessage(senderID, chatID uuid.UUID, text string) (*model.Message, error)
	ListMessages(userID, chatID uuid.UUID, page, pageSize int) ([]model.Message, int64, error)
	ResolvePeer(chatID, userID uuid.UUID) (uuid.UUID, bool)
}

type chatService struct {
	repo     repository.ChatRepository
	userRepo repository.UserRepository
	notifier Notifier
}

// NewChatService wires chats to notifier; a nil notifier disables pushes
func NewChatService(repo repository.ChatRepository, userRepo repository.UserRepository, notifier Notifier) ChatService {
	return &chatService{
		repo:     repo,
		userRepo: userRepo,
		notifier: notifier,
	}
}

func (s *chatService) GetOrCreateChat(userID, merchantID uuid.UUID) (*model.Chat, bool, error) {
	if userID == merchantID {
		return nil, false, ErrChatWithSelf
	}

	merchant, err := s.userRepo.FindByID(merchantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrMerchantNotFound
		}
		return nil, false, err
	}
	if !merchant.IsMerchant {
		return nil, false, ErrMerchantNotFound
	}

	chat, err := s.repo.FindByPair(userID, merchantID)
	if err == nil {
		return chat, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	chat = &model.Chat{UserID: userID, MerchantID: merchantID}
	if err := s.repo.Create(chat); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost a race with a concurrent create
			existing, findErr := s.repo.FindByPair(userID, merchantID)
			if findErr != nil {
				return nil, false, findErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	logger.Info("Chat created", map[string]interface{}{
		"chat_id":     chat.ID,
		"user_id":     userID,
		"merchant_id": merchantID,
	})
	return chat, true, nil
}

func (s *chatService) ListChats(userID uuid.UUID) ([]model.Chat, error) {
	return s.repo.FindByParticipant(userID)
}

func (s *chatService) participantChat(chatID, userID uuid.UUID) (*model.Chat, error) {
	chat, err := s.repo.FindByID(chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	if !chat.HasParticipant(userID) {
		return nil, ErrChatNotFound
	}
	return chat, nil
}

func (s *chatService) SendMessage(senderID, chatID uuid.UUID, text string) (*model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	chat, err := s.participantChat(chatID, senderID)
	if err != nil {
		return nil, err
	}

	message := &model.Message{
		ChatID:   chatID,
		SenderID: senderID,
		Text:     text,
		SendDate: time.Now().UTC(),
	}
	if err := s.repo.CreateMessage(message); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		peer := chat.Peer(senderID)
		err := s.notifier.SendToUser(peer, websocket.EventChatMessage, message)
		switch {
		case errors.Is(err, websocket.ErrUserOffline):
			// the peer reads it from get_messages later
			logger.Debug("Chat peer offline, message stored only", map[string]interface{}{
				"chat_id": chatID,
				"peer_id": peer,
			})
		case err != nil:
			logger.Warn("Failed to push chat message", map[string]interface{}{
				"chat_id": chatID,
				"peer_id": peer,
				"error":   err.Error(),
			})
		}
	}
	return message, nil
}

func (s *chatService) ListMessages(userID, chatID uuid.UUID, page, pageSize int) ([]model.Message, int64, error) {
	if _, err := s.participantChat(chatID, userID); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultMessagePageSize
	}
	if pageSize > MaxMessagePageSize {
		pageSize = MaxMessagePageSize
	}
	return s.repo.FindMessages(chatID, (page-1)*pageSize, pageSize)
}

// ResolvePeer is the hub's PeerResolver for typing relays
func (s *chatService) ResolvePeer(chatID, userID uuid.UUID) (uuid.UUID, bool) {
	chat, err := s.participantChat(chatID, userID)
	if err != nil {
		return uuid.Nil, false
	}
	return chat.Peer(userID), true
}
