package domain

import (
	"time"

	"github.com/SscSPs/bizledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// PaymentMethod is the instrument used for a payment.
type PaymentMethod string

const (
	MethodCash      PaymentMethod = "CASH"
	MethodTransfer  PaymentMethod = "TRANSFER"
	MethodCheck     PaymentMethod = "CHECK"
	MethodOnAccount PaymentMethod = "ON_ACCOUNT" // charged to credit, no instrument
)

// IsValid reports whether m is a known payment method.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCash, MethodTransfer, MethodCheck, MethodOnAccount:
		return true
	}
	return false
}

// IsSettled reports whether the method represents money already in hand.
func (m PaymentMethod) IsSettled() bool {
	return m == MethodCash || m == MethodTransfer
}

// PaymentStatus summarises how much of a sale has been collected.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPartial PaymentStatus = "PARTIAL"
	PaymentPaid    PaymentStatus = "PAID"
)

// SaleStatus tracks whether the sale is still in force.
type SaleStatus string

const (
	SaleActive SaleStatus = "ACTIVE"
	SaleVoided SaleStatus = "VOIDED"
)

// SaleItem is a priced line of a sale. Prices are taken from the catalog at sale time.
type SaleItem struct {
	ItemID      string          `json:"itemID"`
	SaleID      string          `json:"saleID"`
	ProductID   string          `json:"productID"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// PaymentRecord is one payment attached to a sale.
type PaymentRecord struct {
	PaymentID string          `json:"paymentID"`
	SaleID    string          `json:"saleID"`
	Method    PaymentMethod   `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
	CreatedBy string          `json:"createdBy"`
}

// Sale is a registered sale with its lines, payments and checks.
type Sale struct {
	SaleID        string          `json:"saleID"`
	AccountID     string          `json:"accountID"`
	SaleDate      time.Time       `json:"saleDate"`
	Total         decimal.Decimal `json:"total"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	Status        SaleStatus      `json:"status"`
	Notes         string          `json:"notes"`
	VoidReason    string          `json:"voidReason,omitempty"`
	VoidedAt      *time.Time      `json:"voidedAt,omitempty"`
	AuditFields

	Items    []SaleItem      `json:"items"`
	Payments []PaymentRecord `json:"payments"`
	Checks   []Check         `json:"checks"`
}

// ComputeTotal returns Σ quantity × unitPrice × (1 + taxRate), rounded to cents.
// Line totals are stored unrounded on the items; rounding is applied once to the sum.
func ComputeTotal(items []SaleItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(accounting.LineTotal(it.Quantity, it.UnitPrice, it.TaxRate))
	}
	return accounting.RoundMoney(total)
}

// SettledNow is the amount paid in cash or transfer. Checks do not count.
func SettledNow(payments []PaymentRecord) decimal.Decimal {
	settled := decimal.Zero
	for _, p := range payments {
		if p.Method.IsSettled() {
			settled = settled.Add(p.Amount)
		}
	}
	return settled
}

// PaymentPosition is the collection breakdown of a sale.
type PaymentPosition struct {
	Settled        decimal.Decimal // cash + transfer + cashed checks
	PendingChecks  decimal.Decimal
	HasPendingCheck bool
}

// Position computes the collection breakdown from payments and check states.
// A check payment whose check is not known yet is treated as pending.
func Position(payments []PaymentRecord, checks []Check) PaymentPosition {
	byPayment := make(map[string]Check, len(checks))
	for _, c := range checks {
		byPayment[c.PaymentID] = c
	}

	pos := PaymentPosition{Settled: decimal.Zero, PendingChecks: decimal.Zero}
	for _, p := range payments {
		switch p.Method {
		case MethodCash, MethodTransfer:
			pos.Settled = pos.Settled.Add(p.Amount)
		case MethodCheck:
			c, ok := byPayment[p.PaymentID]
			switch {
			case ok && c.State == CheckCashed:
				pos.Settled = pos.Settled.Add(p.Amount)
			case !ok || c.State == CheckPending:
				pos.PendingChecks = pos.PendingChecks.Add(p.Amount)
				pos.HasPendingCheck = true
			}
		}
	}
	return pos
}

// DerivePaymentStatus applies the collection rule: paid once everything is settled and no check
// is still pending, pending while nothing is settled, partial otherwise. Rejected checks neither
// settle nor block.
func DerivePaymentStatus(total decimal.Decimal, payments []PaymentRecord, checks []Check) PaymentStatus {
	pos := Position(payments, checks)
	switch {
	case pos.Settled.GreaterThanOrEqual(total) && !pos.HasPendingCheck:
		return PaymentPaid
	case pos.Settled.IsZero():
		return PaymentPending
	default:
		return PaymentPartial
	}
}

// OpenAmount is what may still be paid on the sale: total minus settled minus pending checks.
func (s Sale) OpenAmount() decimal.Decimal {
	pos := Position(s.Payments, s.Checks)
	open := s.Total.Sub(pos.Settled).Sub(pos.PendingChecks)
	if open.IsNegative() {
		return decimal.Zero
	}
	return open
}

// ReplaceCheck swaps in an updated copy of one of the sale's checks, appending it if unknown.
func (s *Sale) ReplaceCheck(c Check) {
	for i := range s.Checks {
		if s.Checks[i].CheckID == c.CheckID {
			s.Checks[i] = c
			return
		}
	}
	s.Checks = append(s.Checks, c)
}

// RefreshPaymentStatus re-derives PaymentStatus from the current payments and checks.
// It reports whether the status changed.
func (s *Sale) RefreshPaymentStatus() bool {
	next := DerivePaymentStatus(s.Total, s.Payments, s.Checks)
	changed := next != s.PaymentStatus
	s.PaymentStatus = next
	return changed
}

// IsVoided reports whether the sale has been voided.
func (s Sale) IsVoided() bool {
	return s.Status == SaleVoided
}

// CheckInstrument carries the instrument fields supplied with a check payment.
type CheckInstrument struct {
	Number    string
	Bank      string
	IssueDate time.Time
	DueDate   time.Time
}

// PaymentReceipt is the outcome of adding a payment to an existing sale.
// AccountBalance is set only when the payment moved the ledger.
type PaymentReceipt struct {
	Payment        PaymentRecord
	Sale           Sale
	AccountBalance *decimal.Decimal
}
