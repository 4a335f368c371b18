package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Check is a row of the checks table. The clearing and rejection columns are flat and nullable;
// a CHECK constraint ties them to the state column.
type Check struct {
	CheckID         string          `db:"check_id"`
	SaleID          string          `db:"sale_id"`
	AccountID       string          `db:"account_id"`
	PaymentID       string          `db:"payment_id"`
	Number          string          `db:"number"`
	Bank            string          `db:"bank"`
	Amount          decimal.Decimal `db:"amount"`
	IssueDate       time.Time       `db:"issue_date"`
	DueDate         time.Time       `db:"due_date"`
	State           string          `db:"state"`
	ClearedDate     *time.Time      `db:"cleared_date"`
	RejectedDate    *time.Time      `db:"rejected_date"`
	RejectionReason *string         `db:"rejection_reason"`
	AuditFields
}
