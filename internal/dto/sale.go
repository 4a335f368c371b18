package dto

import (
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SaleItemRequest is one line of a sale. Prices and tax come from the product catalog.
type SaleItemRequest struct {
	ProductID   string          `json:"productID" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"dgt0"`
	Description string          `json:"description"`
}

// CheckDetailsRequest carries the instrument fields of a check payment.
type CheckDetailsRequest struct {
	Number    string    `json:"number" binding:"required"`
	Bank      string    `json:"bank"`
	IssueDate time.Time `json:"issueDate" binding:"required"`
	DueDate   time.Time `json:"dueDate" binding:"required,gtefield=IssueDate"`
}

// PaymentRequest is a payment submitted with a sale or added later.
type PaymentRequest struct {
	Method domain.PaymentMethod `json:"method" binding:"required,oneof=CASH TRANSFER CHECK ON_ACCOUNT"`
	Amount decimal.Decimal      `json:"amount" binding:"dgt0"`
	Check  *CheckDetailsRequest `json:"check" binding:"required_if=Method CHECK"`
}

// CreateSaleRequest defines the data needed to register a sale.
type CreateSaleRequest struct {
	AccountID string            `json:"accountID" binding:"required"`
	SaleDate  *time.Time        `json:"saleDate"` // defaults to now
	Items     []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
	Payments  []PaymentRequest  `json:"payments" binding:"dive"`
	Notes     string            `json:"notes"`
	// Total is accepted for compatibility and ignored; the total is always computed from the items.
	Total *decimal.Decimal `json:"total,omitempty"`
}

// VoidSaleRequest carries the reason for voiding a sale.
type VoidSaleRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// SaleItemResponse defines the data returned for a sale line.
type SaleItemResponse struct {
	ItemID      string          `json:"itemID"`
	ProductID   string          `json:"productID"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID string               `json:"paymentID"`
	SaleID    string               `json:"saleID"`
	Method    domain.PaymentMethod `json:"method"`
	Amount    decimal.Decimal      `json:"amount"`
	CreatedAt time.Time            `json:"createdAt"`
	CreatedBy string               `json:"createdBy"`
}

// SaleResponse defines the data returned for a sale.
type SaleResponse struct {
	SaleID        string               `json:"saleID"`
	AccountID     string               `json:"accountID"`
	SaleDate      time.Time            `json:"saleDate"`
	Total         decimal.Decimal      `json:"total"`
	OpenAmount    decimal.Decimal      `json:"openAmount"`
	PaymentStatus domain.PaymentStatus `json:"paymentStatus"`
	Status        domain.SaleStatus    `json:"status"`
	Notes         string               `json:"notes"`
	VoidReason    string               `json:"voidReason,omitempty"`
	VoidedAt      *time.Time           `json:"voidedAt,omitempty"`
	Items         []SaleItemResponse   `json:"items"`
	Payments      []PaymentResponse    `json:"payments"`
	Checks        []CheckResponse      `json:"checks"`
	CreatedAt     time.Time            `json:"createdAt"`
	CreatedBy     string               `json:"createdBy"`
}

// AddPaymentResponse is returned after a payment is appended to a sale.
// AccountBalance is only present when the payment moved the ledger.
type AddPaymentResponse struct {
	Payment        PaymentResponse  `json:"payment"`
	Sale           SaleResponse     `json:"sale"`
	AccountBalance *decimal.Decimal `json:"accountBalance,omitempty"`
}

// ToPaymentResponse converts a domain.PaymentRecord to PaymentResponse.
func ToPaymentResponse(p *domain.PaymentRecord) PaymentResponse {
	return PaymentResponse{
		PaymentID: p.PaymentID,
		SaleID:    p.SaleID,
		Method:    p.Method,
		Amount:    p.Amount,
		CreatedAt: p.CreatedAt,
		CreatedBy: p.CreatedBy,
	}
}

// ToSaleResponse converts a domain.Sale to SaleResponse.
func ToSaleResponse(s *domain.Sale) SaleResponse {
	items := make([]SaleItemResponse, len(s.Items))
	for i, it := range s.Items {
		items[i] = SaleItemResponse{
			ItemID:      it.ItemID,
			ProductID:   it.ProductID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			LineTotal:   it.LineTotal,
		}
	}
	payments := make([]PaymentResponse, len(s.Payments))
	for i := range s.Payments {
		payments[i] = ToPaymentResponse(&s.Payments[i])
	}
	return SaleResponse{
		SaleID:        s.SaleID,
		AccountID:     s.AccountID,
		SaleDate:      s.SaleDate,
		Total:         s.Total,
		OpenAmount:    s.OpenAmount(),
		PaymentStatus: s.PaymentStatus,
		Status:        s.Status,
		Notes:         s.Notes,
		VoidReason:    s.VoidReason,
		VoidedAt:      s.VoidedAt,
		Items:         items,
		Payments:      payments,
		Checks:        ToCheckResponses(s.Checks),
		CreatedAt:     s.CreatedAt,
		CreatedBy:     s.CreatedBy,
	}
}

// ToAddPaymentResponse converts a domain.PaymentReceipt to AddPaymentResponse.
func ToAddPaymentResponse(r *domain.PaymentReceipt) AddPaymentResponse {
	return AddPaymentResponse{
		Payment:        ToPaymentResponse(&r.Payment),
		Sale:           ToSaleResponse(&r.Sale),
		AccountBalance: r.AccountBalance,
	}
}
