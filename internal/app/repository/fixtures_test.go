package repository

import (
	"testing"

	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestUser(t *testing.T, testDB *gorm.DB, email string, merchant bool) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		PasswordHash: "hash",
		IsMerchant:   merchant,
		Address:      email + " street 1",
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createTestProduct(t *testing.T, testDB *gorm.DB, merchant *model.User, name string, price string, featured bool) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:       name,
		MerchantID: merchant.ID,
		Price:      decimal.RequireFromString(price),
		Units:      "kg",
		IsFeatured: featured,
	}
	require.NoError(t, NewProductRepository(testDB).Create(product))
	return product
}

func createTestOrder(t *testing.T, testDB *gorm.DB, user *model.User, items ...*model.Product) *model.Order {
	t.Helper()
	repo := NewOrderRepository(testDB)
	order := &model.Order{UserID: user.ID, Status: model.OrderStatusOpened}
	require.NoError(t, repo.Create(order))
	for _, p := range items {
		require.NoError(t, repo.CreateItem(&model.OrderItem{OrderID: order.ID, ProductID: p.ID, Quantity: 1, Units: p.Units}))
	}
	return order
}
