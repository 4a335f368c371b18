package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is a row of the sales table. Items, payments and checks live in their own tables.
type Sale struct {
	SaleID        string          `db:"sale_id"`
	AccountID     string          `db:"account_id"`
	SaleDate      time.Time       `db:"sale_date"`
	Total         decimal.Decimal `db:"total"`
	PaymentStatus string          `db:"payment_status"`
	Status        string          `db:"status"`
	Notes         string          `db:"notes"`
	VoidReason    *string         `db:"void_reason"` // Nullable
	VoidedAt      *time.Time      `db:"voided_at"`   // Nullable
	AuditFields
}

// SaleItem is a row of the sale_items table.
type SaleItem struct {
	ItemID      string          `db:"item_id"`
	SaleID      string          `db:"sale_id"`
	ProductID   string          `db:"product_id"`
	Description string          `db:"description"`
	Quantity    decimal.Decimal `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	TaxRate     decimal.Decimal `db:"tax_rate"`
	LineTotal   decimal.Decimal `db:"line_total"`
}

// Payment is a row of the sale_payments table.
type Payment struct {
	PaymentID string          `db:"payment_id"`
	SaleID    string          `db:"sale_id"`
	Method    string          `db:"method"`
	Amount    decimal.Decimal `db:"amount"`
	CreatedAt time.Time       `db:"created_at"`
	CreatedBy string          `db:"created_by"`
}
