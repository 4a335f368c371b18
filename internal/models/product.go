package models

import "github.com/shopspring/decimal"

// Product is a row of the products table.
type Product struct {
	ProductID string          `db:"product_id"`
	Name      string          `db:"name"`
	UnitPrice decimal.Decimal `db:"unit_price"`
	TaxRate   decimal.Decimal `db:"tax_rate"`
	IsActive  bool            `db:"is_active"`
}
