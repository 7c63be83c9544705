package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_CreateAndList(t *testing.T) {
	env := setupServiceTest(t)
	categories := NewCategoryService(env.db, env.category, env.products, env.images)

	created, err := categories.Create(" Vegetables ", "https://cdn.example.com/categories/veg.png")
	require.NoError(t, err)
	assert.Equal(t, "Vegetables", created.Name)
	require.NotNil(t, created.Image)

	_, err = categories.Create("Vegetables", "")
	assert.ErrorIs(t, err, ErrCategoryAlreadyExists)

	_, err = categories.Create("", "")
	assert.ErrorIs(t, err, ErrEmptyName)

	list, err := categories.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCategoryService_LinkProduct(t *testing.T) {
	env := setupServiceTest(t)
	categories := NewCategoryService(env.db, env.category, env.products, env.images)
	merchant := env.createUser(t, "farm@example.com", true)
	other := env.createUser(t, "other@example.com", true)
	product := env.createProduct(t, merchant, "Carrots", "1.00")
	category, err := categories.Create("Vegetables", "")
	require.NoError(t, err)

	assert.ErrorIs(t, categories.LinkProduct(other.ID, product.ID, category.ID), ErrProductNotFound)
	assert.ErrorIs(t, categories.LinkProduct(merchant.ID, product.ID, uuid.New()), ErrCategoryNotFound)

	require.NoError(t, categories.LinkProduct(merchant.ID, product.ID, category.ID))
	// linking twice is a no-op
	require.NoError(t, categories.LinkProduct(merchant.ID, product.ID, category.ID))

	products, err := categories.ListProducts(category.ID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, product.ID, products[0].ID)

	_, err = categories.ListProducts(uuid.New())
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
