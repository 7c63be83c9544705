package repository

import (
	"testing"

	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/ecofoods/ecofoods-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestReviewRepository_CreateAndSummary(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	repo := NewReviewRepository(testDB)
	merchant := createTestUser(t, testDB, "merchant@example.com", true)
	alice := createTestUser(t, testDB, "alice@example.com", false)
	bob := createTestUser(t, testDB, "bob@example.com", false)
	product := createTestProduct(t, testDB, merchant, "Plums", "4.00", false)

	empty, err := repo.Summary(product.ID)
	require.NoError(t, err)
	assert.Zero(t, empty.Count)
	assert.True(t, empty.Average.IsZero())

	first := &model.Review{ProductID: product.ID, AuthorID: alice.ID, MerchantID: merchant.ID, Rating: decimal.RequireFromString("4.5"), ReviewText: "Sweet"}
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(&model.Review{ProductID: product.ID, AuthorID: bob.ID, MerchantID: merchant.ID, Rating: decimal.RequireFromString("3.0")}))

	image := &model.Image{URL: "https://cdn.example.com/plums.jpg"}
	require.NoError(t, NewImageRepository(testDB).Create(image))
	require.NoError(t, repo.AddImage(first.ID, image.ID))

	duplicate := &model.Review{ProductID: product.ID, AuthorID: alice.ID, MerchantID: merchant.ID, Rating: decimal.NewFromInt(1)}
	assert.ErrorIs(t, repo.Create(duplicate), gorm.ErrDuplicatedKey)

	exists, err := repo.ExistsForAuthor(alice.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	summary, err := repo.Summary(product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Count)
	assert.Equal(t, "3.8", summary.Average.StringFixed(1))

	reviews, err := repo.FindByProductID(product.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)

	found, err := repo.FindByID(first.ID)
	require.NoError(t, err)
	require.Len(t, found.Images, 1)
	assert.Equal(t, image.URL, found.Images[0].Image.URL)
}
