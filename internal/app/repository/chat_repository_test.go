package repository

import (
	"testing"
	"time"

	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/ecofoods/ecofoods-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestChatRepository_PairAndMessages(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	repo := NewChatRepository(testDB)
	customer := createTestUser(t, testDB, "customer@example.com", false)
	merchant := createTestUser(t, testDB, "merchant@example.com", true)

	chat := &model.Chat{UserID: customer.ID, MerchantID: merchant.ID}
	require.NoError(t, repo.Create(chat))
	assert.ErrorIs(t, repo.Create(&model.Chat{UserID: customer.ID, MerchantID: merchant.ID}), gorm.ErrDuplicatedKey)

	found, err := repo.FindByPair(customer.ID, merchant.ID)
	require.NoError(t, err)
	assert.Equal(t, chat.ID, found.ID)

	chats, err := repo.FindByParticipant(merchant.ID)
	require.NoError(t, err)
	assert.Len(t, chats, 1)

	base := time.Now().UTC()
	for i, text := range []string{"hello", "do you have plums?", "yes"} {
		sender := customer.ID
		if i == 2 {
			sender = merchant.ID
		}
		require.NoError(t, repo.CreateMessage(&model.Message{
			ChatID:   chat.ID,
			SenderID: sender,
			Text:     text,
			SendDate: base.Add(time.Duration(i) * time.Second),
		}))
	}

	messages, total, err := repo.FindMessages(chat.ID, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, messages, 2)
	assert.Equal(t, "hello", messages[0].Text)

	messages, _, err = repo.FindMessages(chat.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "yes", messages[0].Text)
}
