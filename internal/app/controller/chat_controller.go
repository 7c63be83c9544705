package controller

import (
	"net/http"

	"github.com/ecofoods/ecofoods-backend/internal/app/service"
	apperrors "github.com/ecofoods/ecofoods-backend/internal/errors"
	"github.com/ecofoods/ecofoods-backend/internal/middleware"
	"github.com/ecofoods/ecofoods-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
)

type ChatController struct {
	chatService service.ChatService
	hub         *websocket.Hub
	upgrader    *gorillaws.Upgrader
}

func NewChatController(chatService service.ChatService, hub *websocket.Hub, upgrader *gorillaws.Upgrader) *ChatController {
	return &ChatController{
		chatService: chatService,
		hub:         hub,
		upgrader:    upgrader,
	}
}

type CreateChatRequest struct {
	MerchantUUID string `json:"merchant_uuid" binding:"required,uuid"`
}

type SendMessageRequest struct {
	ChatUUID string `json:"chat_uuid" binding:"required,uuid"`
	Text     string `json:"text" binding:"required,max=4000"`
}

type GetMessagesQuery struct {
	ChatUUID string `form:"chat_uuid" binding:"required,uuid"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CreateChat returns the caller's chat with a merchant, opening it if needed
// POST /api/create_chat
func (ctrl *ChatController) CreateChat(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}
	merchantID, ok := parseUUID(c, req.MerchantUUID, "merchant_uuid")
	if !ok {
		return
	}

	chat, created, err := ctrl.chatService.GetOrCreateChat(userID, merchantID)
	if err != nil {
		respondServiceError(c, err, "create chat")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, toChatResponse(chat))
}

// GET /api/get_chats
func (ctrl *ChatController) GetChats(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	chats, err := ctrl.chatService.ListChats(userID)
	if err != nil {
		respondServiceError(c, err, "fetch chats")
		return
	}

	resp := make([]ChatResponse, 0, len(chats))
	for i := range chats {
		resp = append(resp, toChatResponse(&chats[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/send_message
func (ctrl *ChatController) SendMessage(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}
	chatID, ok := parseUUID(c, req.ChatUUID, "chat_uuid")
	if !ok {
		return
	}

	message, err := ctrl.chatService.SendMessage(userID, chatID, req.Text)
	if err != nil {
		respondServiceError(c, err, "send message")
		return
	}
	c.JSON(http.StatusCreated, toMessageResponse(message))
}

// GET /api/get_messages?chat_uuid=&page=&page_size=
func (ctrl *ChatController) GetMessages(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var query GetMessagesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}
	chatID, ok := parseUUID(c, query.ChatUUID, "chat_uuid")
	if !ok {
		return
	}

	messages, total, err := ctrl.chatService.ListMessages(userID, chatID, query.Page, query.PageSize)
	if err != nil {
		respondServiceError(c, err, "fetch messages")
		return
	}

	resp := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		resp = append(resp, toMessageResponse(&messages[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"messages": resp,
		"total":    total,
	})
}

// ServeWS upgrades the request to a websocket bound to the caller
// GET /api/ws
func (ctrl *ChatController) ServeWS(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := ctrl.hub.Serve(ctrl.upgrader, c.Writer, c.Request, userID); err != nil {
		// the upgrader has already written the HTTP error
		middleware.GetLoggerFromContext(c).Warn("WebSocket upgrade failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}
