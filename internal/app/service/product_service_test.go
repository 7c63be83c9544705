package service

import (
	"testing"

	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_AddProduct(t *testing.T) {
	env := setupServiceTest(t)
	productService := env.productService()
	merchant := env.createUser(t, "farm@example.com", true)
	customer := env.createUser(t, "buyer@example.com", false)

	tests := []struct {
		name    string
		userID  uuid.UUID
		input   ProductInput
		wantErr error
	}{
		{
			name:   "Merchant with image",
			userID: merchant.ID,
			input: ProductInput{
				Name:     "Carrots",
				Price:    decimal.RequireFromString("2.50"),
				Units:    "kg",
				ImageURL: "https://cdn.example.com/products/carrots.jpg",
			},
		},
		{
			name:    "Customer is rejected",
			userID:  customer.ID,
			input:   ProductInput{Name: "Carrots", Price: decimal.NewFromInt(1)},
			wantErr: ErrNotMerchant,
		},
		{
			name:    "Negative price",
			userID:  merchant.ID,
			input:   ProductInput{Name: "Carrots", Price: decimal.NewFromInt(-1)},
			wantErr: ErrInvalidPrice,
		},
		{
			name:    "Blank name",
			userID:  merchant.ID,
			input:   ProductInput{Name: "  ", Price: decimal.NewFromInt(1)},
			wantErr: ErrEmptyName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := productService.AddProduct(tt.userID, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, product)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, product.ID)
			assert.Equal(t, "2.5", product.Price.String())
		})
	}

	products, err := productService.ListMerchantProducts(merchant.ID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Len(t, products[0].Images, 1)
	assert.Equal(t, "https://cdn.example.com/products/carrots.jpg", products[0].Images[0].Image.URL)
}

func TestProductService_ImportProducts(t *testing.T) {
	env := setupServiceTest(t)
	productService := env.productService()
	merchant := env.createUser(t, "farm@example.com", true)

	count, err := productService.ImportProducts(merchant.ID, []ProductInput{
		{Name: "Apples", Price: decimal.RequireFromString("1.10"), Units: "kg"},
		{Name: "Pears", Price: decimal.RequireFromString("1.30"), Units: "kg", ImageURL: "https://cdn.example.com/p.jpg"},
		{Name: "Plums", Price: decimal.RequireFromString("2.00"), Units: "kg"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	products, err := productService.ListMerchantProducts(merchant.ID)
	require.NoError(t, err)
	assert.Len(t, products, 3)
}

func TestProductService_ImportProducts_RollsBackOnInvalidRow(t *testing.T) {
	env := setupServiceTest(t)
	productService := env.productService()
	merchant := env.createUser(t, "farm@example.com", true)

	_, err := productService.ImportProducts(merchant.ID, []ProductInput{
		{Name: "Apples", Price: decimal.RequireFromString("1.10")},
		{Name: "", Price: decimal.RequireFromString("1.30")},
	})
	assert.ErrorIs(t, err, ErrEmptyName)

	var count int64
	require.NoError(t, env.db.Model(&model.Product{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProductService_GetHomeFeed(t *testing.T) {
	env := setupServiceTest(t)
	merchant := env.createUser(t, "farm@example.com", true)
	env.createProduct(t, merchant, "Carrots", "1.00")
	featured := &model.Product{Name: "Honey", MerchantID: merchant.ID, Price: decimal.NewFromInt(9), IsFeatured: true}
	require.NoError(t, env.products.Create(featured))

	feed, err := env.productService().GetHomeFeed()
	require.NoError(t, err)
	assert.Len(t, feed.Announcements, 2)
	require.Len(t, feed.Advertisings, 1)
	assert.Equal(t, "Honey", feed.Advertisings[0].Name)
	assert.Equal(t, merchant.Address, feed.Advertisings[0].Merchant.Address)
}

func TestProductService_Search(t *testing.T) {
	env := setupServiceTest(t)
	merchant := env.createUser(t, "farm@example.com", true)
	env.createProduct(t, merchant, "Organic Carrots", "1.00")
	env.createProduct(t, merchant, "Goat Cheese", "5.00")
	env.createProduct(t, merchant, "100% Juice", "3.00")

	tests := []struct {
		query string
		want  []string
	}{
		{query: "carrot", want: []string{"Organic Carrots"}},
		{query: "CHEESE", want: []string{"Goat Cheese"}},
		{query: "%", want: []string{"100% Juice"}},
		{query: "banana", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			products, err := env.productService().Search(tt.query)
			require.NoError(t, err)
			names := []string{}
			for _, p := range products {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}

	all, err := env.productService().Search("")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestProductService_GetProductByID(t *testing.T) {
	env := setupServiceTest(t)
	merchant := env.createUser(t, "farm@example.com", true)
	product := env.createProduct(t, merchant, "Carrots", "1.00")

	found, err := env.productService().GetProductByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carrots", found.Name)

	_, err = env.productService().GetProductByID(uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}
