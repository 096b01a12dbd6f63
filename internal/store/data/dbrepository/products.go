package dbrepository

import (
	"context"
	_ "embed"

	"github.com/BYJDG/byjudge-main1/internal/store/data"
)

//go:embed sql/select_product_for_update.sql
var selectProductForUpdateQuery string

// GetProductForUpdate locks the product row for the duration of the
// surrounding transaction. Stock checks and adjustments must go through
// this lock so concurrent orders serialize per product.
func (db *DBRepository) GetProductForUpdate(ctx context.Context, productID int) (data.Product, error) {
	return db.scanProduct(ctx, selectProductForUpdateQuery, productID)
}

func (db *DBRepository) scanProduct(ctx context.Context, query string, productID int) (data.Product, error) {
	var product data.Product
	err := db.storage.QueryValue(
		ctx,
		query,
		[]any{productID},
		[]any{
			&product.ID,
			&product.Name,
			&product.Price,
			&product.Currency,
			&product.DurationDays,
			&product.StockQuantity,
			&product.IsActive,
		},
	)
	if err != nil {
		return data.Product{}, handleSQLError(err)
	}
	return product, nil
}

//go:embed sql/update_product_stock.sql
var updateProductStockQuery string

// AdjustProductStock adds delta to a finite stock counter. Rows with the
// unlimited sentinel are left untouched.
func (db *DBRepository) AdjustProductStock(ctx context.Context, productID int, delta int) error {
	_, err := db.storage.Exec(ctx, updateProductStockQuery, productID, delta)
	if err != nil {
		return handleSQLError(err)
	}
	return nil
}
