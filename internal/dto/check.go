package dto

import (
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CashCheckRequest marks a check as cashed. ClearedDate defaults to now.
type CashCheckRequest struct {
	ClearedDate *time.Time `json:"clearedDate"`
}

// RejectCheckRequest marks a check as rejected. RejectedDate defaults to now.
type RejectCheckRequest struct {
	Reason       string     `json:"reason" binding:"required"`
	RejectedDate *time.Time `json:"rejectedDate"`
}

// EditCheckRequest updates a pending check. Use pointers to distinguish omitted fields.
// Amount is accepted only when it equals the registered amount.
type EditCheckRequest struct {
	Number    *string          `json:"number" binding:"omitempty,min=1"`
	Bank      *string          `json:"bank"`
	IssueDate *time.Time       `json:"issueDate"`
	DueDate   *time.Time       `json:"dueDate"`
	Amount    *decimal.Decimal `json:"amount"`
}

// ListChecksParams filters an account's checks.
type ListChecksParams struct {
	State string `form:"state" binding:"omitempty,oneof=PENDING CASHED REJECTED"`
}

// CheckResponse defines the data returned for a check.
type CheckResponse struct {
	CheckID         string            `json:"checkID"`
	SaleID          string            `json:"saleID"`
	AccountID       string            `json:"accountID"`
	PaymentID       string            `json:"paymentID"`
	Number          string            `json:"number"`
	Bank            string            `json:"bank"`
	Amount          decimal.Decimal   `json:"amount"`
	IssueDate       time.Time         `json:"issueDate"`
	DueDate         time.Time         `json:"dueDate"`
	State           domain.CheckState `json:"state"`
	ClearedDate     *time.Time        `json:"clearedDate,omitempty"`
	RejectionReason *string           `json:"rejectionReason,omitempty"`
	LastUpdatedAt   time.Time         `json:"lastUpdatedAt"`
	LastUpdatedBy   string            `json:"lastUpdatedBy"`
}

// ToCheckResponse converts a domain.Check to CheckResponse.
func ToCheckResponse(c *domain.Check) CheckResponse {
	res := CheckResponse{
		CheckID:       c.CheckID,
		SaleID:        c.SaleID,
		AccountID:     c.AccountID,
		PaymentID:     c.PaymentID,
		Number:        c.Number,
		Bank:          c.Bank,
		Amount:        c.Amount,
		IssueDate:     c.IssueDate,
		DueDate:       c.DueDate,
		State:         c.State,
		ClearedDate:   c.ClearedDate(),
		LastUpdatedAt: c.LastUpdatedAt,
		LastUpdatedBy: c.LastUpdatedBy,
	}
	if c.Rejection != nil {
		reason := c.Rejection.Reason
		res.RejectionReason = &reason
	}
	return res
}

// ToCheckResponses converts a slice of domain.Check to []CheckResponse.
func ToCheckResponses(checks []domain.Check) []CheckResponse {
	res := make([]CheckResponse, len(checks))
	for i := range checks {
		res[i] = ToCheckResponse(&checks[i])
	}
	return res
}
