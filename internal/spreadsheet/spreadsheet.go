// Package spreadsheet reads and writes the XLSX workbooks merchants
// exchange with the shop: order exports and product imports.
package spreadsheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ecofoods/ecofoods-backend/internal/app/model"
	"github.com/ecofoods/ecofoods-backend/internal/app/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	OrdersSheet    = "Orders"
	ContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	productColumns = 6
)

var orderHeader = []interface{}{
	"Order", "Created", "Status", "Customer", "Product", "Quantity", "Units", "Price", "Total",
}

// WriteMerchantOrders writes one row per order line that sells a product
// owned by merchantID. Lines of other merchants in the same order are skipped.
func WriteMerchantOrders(w io.Writer, merchantID uuid.UUID, orders []model.Order) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), OrdersSheet); err != nil {
		return fmt.Errorf("spreadsheet: rename sheet: %w", err)
	}
	if err := f.SetSheetRow(OrdersSheet, "A1", &orderHeader); err != nil {
		return fmt.Errorf("spreadsheet: write header: %w", err)
	}

	row := 2
	for _, order := range orders {
		for _, item := range order.Items {
			if item.Product.MerchantID != merchantID {
				continue
			}
			total := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			values := []interface{}{
				order.ID.String(),
				order.CreatedAt.UTC().Format(time.RFC3339),
				string(order.Status),
				order.User.Email,
				item.Product.Name,
				item.Quantity,
				item.Units,
				item.Product.Price.StringFixed(2),
				total.StringFixed(2),
			}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(OrdersSheet, cell, &values); err != nil {
				return fmt.Errorf("spreadsheet: write row %d: %w", row, err)
			}
			row++
		}
	}

	return f.Write(w)
}

// ReadProducts parses the first sheet: a header row followed by
// name, price, units, description, is_featured, image_url. Blank rows are skipped.
func ReadProducts(r io.Reader) ([]service.ProductInput, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("spreadsheet: no sheets found")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("spreadsheet: no data found")
	}

	var products []service.ProductInput
	for i, row := range rows[1:] {
		line := i + 2
		cells := make([]string, productColumns)
		for j := 0; j < productColumns && j < len(row); j++ {
			cells[j] = strings.TrimSpace(row[j])
		}
		if strings.Join(cells, "") == "" {
			continue
		}

		price, err := decimal.NewFromString(cells[1])
		if err != nil {
			return nil, fmt.Errorf("spreadsheet: row %d: invalid price %q", line, cells[1])
		}
		featured := false
		if cells[4] != "" {
			featured, err = strconv.ParseBool(cells[4])
			if err != nil {
				return nil, fmt.Errorf("spreadsheet: row %d: invalid is_featured %q", line, cells[4])
			}
		}

		products = append(products, service.ProductInput{
			Name:        cells[0],
			Price:       price,
			Units:       cells[2],
			Description: cells[3],
			IsFeatured:  featured,
			ImageURL:    cells[5],
		})
	}
	return products, nil
}
