package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry used to price sale items.
type Product struct {
	ProductID string          `json:"productID"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	TaxRate   decimal.Decimal `json:"taxRate"` // e.g. 0.21
	IsActive  bool            `json:"isActive"`
}
