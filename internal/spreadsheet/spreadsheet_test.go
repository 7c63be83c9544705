package spreadsheet

import (
	"bytes"
	"testing"
	"time"

	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestReadProducts(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"name", "price", "units", "description", "is_featured", "image_url"},
		{"Carrots", "2.50", "kg", "Organic", "true", "https://cdn.example.com/c.jpg"},
		{},
		{"Milk", "1.2", "l", "", "", ""},
	})

	products, err := ReadProducts(buf)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "Carrots", products[0].Name)
	assert.True(t, decimal.RequireFromString("2.50").Equal(products[0].Price))
	assert.True(t, products[0].IsFeatured)
	assert.Equal(t, "https://cdn.example.com/c.jpg", products[0].ImageURL)

	assert.Equal(t, "Milk", products[1].Name)
	assert.False(t, products[1].IsFeatured)
	assert.Empty(t, products[1].ImageURL)
}

func TestReadProducts_InvalidPrice(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"name", "price"},
		{"Carrots", "cheap"},
	})

	_, err := ReadProducts(buf)
	assert.ErrorContains(t, err, "row 2")
}

func TestWriteMerchantOrders_OnlyMerchantLines(t *testing.T) {
	merchant := uuid.New()
	other := uuid.New()
	order := model.Order{
		Base:      model.Base{ID: uuid.New()},
		Status:    model.OrderStatusConfirmed,
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		User:      model.User{Email: "buyer@example.com"},
		Items: []model.OrderItem{
			{Quantity: 3, Units: "kg", Product: model.Product{Name: "Apples", MerchantID: merchant, Price: decimal.RequireFromString("1.50")}},
			{Quantity: 1, Units: "pc", Product: model.Product{Name: "Bread", MerchantID: other, Price: decimal.RequireFromString("2.00")}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMerchantOrders(&buf, merchant, []model.Order{order}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(OrdersSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Order", rows[0][0])
	assert.Equal(t, []string{
		order.ID.String(), "2024-05-01T10:00:00Z", "confirmed", "buyer@example.com",
		"Apples", "3", "kg", "1.50", "4.50",
	}, rows[1])
}
