package service

import (
	"errors"
	"testing"

	"github.com/ecofoods/ecofoods-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatService_GetOrCreateChat(t *testing.T) {
	env := setupServiceTest(t)
	chats := NewChatService(env.chats, env.users, nil)
	merchant := env.createUser(t, "farm@example.com", true)
	customer := env.createUser(t, "buyer@example.com", false)

	chat, created, err := chats.GetOrCreateChat(customer.ID, merchant.ID)
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := chats.GetOrCreateChat(customer.ID, merchant.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, chat.ID, again.ID)

	_, _, err = chats.GetOrCreateChat(merchant.ID, customer.ID)
	assert.ErrorIs(t, err, ErrMerchantNotFound)

	_, _, err = chats.GetOrCreateChat(merchant.ID, merchant.ID)
	assert.ErrorIs(t, err, ErrChatWithSelf)

	_, _, err = chats.GetOrCreateChat(customer.ID, uuid.New())
	assert.ErrorIs(t, err, ErrMerchantNotFound)

	for _, id := range []uuid.UUID{customer.ID, merchant.ID} {
		list, err := chats.ListChats(id)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	}
}

func TestChatService_SendMessage(t *testing.T) {
	env := setupServiceTest(t)
	notifier := &fakeNotifier{}
	chats := NewChatService(env.chats, env.users, notifier)
	merchant := env.createUser(t, "farm@example.com", true)
	customer := env.createUser(t, "buyer@example.com", false)
	stranger := env.createUser(t, "stranger@example.com", false)

	chat, _, err := chats.GetOrCreateChat(customer.ID, merchant.ID)
	require.NoError(t, err)

	message, err := chats.SendMessage(customer.ID, chat.ID, "  Are the carrots organic?  ")
	require.NoError(t, err)
	assert.Equal(t, "Are the carrots organic?", message.Text)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, merchant.ID, notifier.sent[0].userID)
	assert.Equal(t, websocket.EventChatMessage, notifier.sent[0].eventType)

	_, err = chats.SendMessage(customer.ID, chat.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = chats.SendMessage(stranger.ID, chat.ID, "hi")
	assert.ErrorIs(t, err, ErrChatNotFound)

	_, err = chats.SendMessage(customer.ID, uuid.New(), "hi")
	assert.ErrorIs(t, err, ErrChatNotFound)

	t.Run("Push failure keeps the message", func(t *testing.T) {
		notifier.err = errors.New("socket closed")
		_, err := chats.SendMessage(merchant.ID, chat.ID, "Yes")
		require.NoError(t, err)
	})
}

func TestChatService_ListMessages(t *testing.T) {
	env := setupServiceTest(t)
	chats := NewChatService(env.chats, env.users, nil)
	merchant := env.createUser(t, "farm@example.com", true)
	customer := env.createUser(t, "buyer@example.com", false)
	stranger := env.createUser(t, "stranger@example.com", false)

	chat, _, err := chats.GetOrCreateChat(customer.ID, merchant.ID)
	require.NoError(t, err)
	for _, text := range []string{"one", "two", "three"} {
		_, err := chats.SendMessage(customer.ID, chat.ID, text)
		require.NoError(t, err)
	}

	messages, total, err := chats.ListMessages(merchant.ID, chat.ID, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, messages, 1)
	assert.Equal(t, "three", messages[0].Text)

	messages, _, err = chats.ListMessages(customer.ID, chat.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, messages, 3)

	_, _, err = chats.ListMessages(stranger.ID, chat.ID, 1, 10)
	assert.ErrorIs(t, err, ErrChatNotFound)
}

func TestChatService_ResolvePeer(t *testing.T) {
	env := setupServiceTest(t)
	chats := NewChatService(env.chats, env.users, nil)
	merchant := env.createUser(t, "farm@example.com", true)
	customer := env.createUser(t, "buyer@example.com", false)

	chat, _, err := chats.GetOrCreateChat(customer.ID, merchant.ID)
	require.NoError(t, err)

	peer, ok := chats.ResolvePeer(chat.ID, customer.ID)
	assert.True(t, ok)
	assert.Equal(t, merchant.ID, peer)

	_, ok = chats.ResolvePeer(chat.ID, uuid.New())
	assert.False(t, ok)
}
