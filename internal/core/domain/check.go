package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// CheckState is the lifecycle state of a check. Cashed and rejected are terminal.
type CheckState string

const (
	CheckPending  CheckState = "PENDING"
	CheckCashed   CheckState = "CASHED"
	CheckRejected CheckState = "REJECTED"
)

// IsValid reports whether s is a known state.
func (s CheckState) IsValid() bool {
	switch s {
	case CheckPending, CheckCashed, CheckRejected:
		return true
	}
	return false
}

// CheckClearing holds the data that only exists once a check is cashed.
type CheckClearing struct {
	ClearedDate time.Time `json:"clearedDate"`
}

// CheckRejection holds the data that only exists once a check is rejected.
type CheckRejection struct {
	RejectedDate time.Time `json:"rejectedDate"`
	Reason       string    `json:"reason"`
}

// Check is a deferred payment instrument attached to a sale.
// Clearing is set iff State is CASHED, Rejection iff State is REJECTED.
type Check struct {
	CheckID   string          `json:"checkID"`
	SaleID    string          `json:"saleID"`
	AccountID string          `json:"accountID"`
	PaymentID string          `json:"paymentID"`
	Number    string          `json:"number"`
	Bank      string          `json:"bank"`
	Amount    decimal.Decimal `json:"amount"`
	IssueDate time.Time       `json:"issueDate"`
	DueDate   time.Time       `json:"dueDate"`
	State     CheckState      `json:"state"`
	Clearing  *CheckClearing  `json:"clearing,omitempty"`
	Rejection *CheckRejection `json:"rejection,omitempty"`
	AuditFields
}

// CheckEdit carries the mutable fields of a pending check. Nil means unchanged.
type CheckEdit struct {
	Number    *string
	Bank      *string
	IssueDate *time.Time
	DueDate   *time.Time
	Amount    *decimal.Decimal // never allowed to differ from the current amount
}

// Validate checks the structural rules of a check.
func (c Check) Validate() error {
	if strings.TrimSpace(c.Number) == "" {
		return apperrors.NewValidationError("number", "check number is required")
	}
	if !c.Amount.IsPositive() {
		return apperrors.NewValidationError("amount", "check amount must be positive")
	}
	if c.IssueDate.IsZero() || c.DueDate.IsZero() {
		return apperrors.NewValidationError("dates", "issue and due dates are required")
	}
	if c.DueDate.Before(c.IssueDate) {
		return apperrors.NewValidationError("dueDate", "due date cannot be before issue date")
	}
	switch c.State {
	case CheckPending:
		if c.Clearing != nil || c.Rejection != nil {
			return apperrors.NewValidationError("state", "pending check cannot carry clearing data")
		}
	case CheckCashed:
		if c.Clearing == nil || c.Rejection != nil {
			return apperrors.NewValidationError("state", "cashed check must carry only clearing data")
		}
	case CheckRejected:
		if c.Rejection == nil || c.Clearing != nil {
			return apperrors.NewValidationError("state", "rejected check must carry only rejection data")
		}
	default:
		return apperrors.NewValidationError("state", fmt.Sprintf("unknown check state %q", c.State))
	}
	return nil
}

// IsTerminal reports whether the check can no longer change state.
func (c Check) IsTerminal() bool {
	return c.State == CheckCashed || c.State == CheckRejected
}

// ClearedDate returns the date the check left the pending state, if any.
func (c Check) ClearedDate() *time.Time {
	switch {
	case c.Clearing != nil:
		d := c.Clearing.ClearedDate
		return &d
	case c.Rejection != nil:
		d := c.Rejection.RejectedDate
		return &d
	}
	return nil
}

func (c Check) notPending() error {
	return fmt.Errorf("%w: check %s is %s", apperrors.ErrAlreadyProcessed, c.CheckID, c.State)
}

// Cash moves a pending check to CASHED.
func (c *Check) Cash(clearedDate time.Time) error {
	if c.State != CheckPending {
		return c.notPending()
	}
	if clearedDate.IsZero() {
		return apperrors.NewValidationError("clearedDate", "is required")
	}
	if clearedDate.Before(c.IssueDate) {
		return apperrors.NewValidationError("clearedDate", "cannot be before the issue date")
	}
	c.State = CheckCashed
	c.Clearing = &CheckClearing{ClearedDate: clearedDate}
	return nil
}

// Reject moves a pending check to REJECTED.
func (c *Check) Reject(reason string, rejectedDate time.Time) error {
	if c.State != CheckPending {
		return c.notPending()
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return apperrors.NewValidationError("reason", "rejection reason is required")
	}
	if rejectedDate.IsZero() {
		return apperrors.NewValidationError("rejectedDate", "is required")
	}
	c.State = CheckRejected
	c.Rejection = &CheckRejection{RejectedDate: rejectedDate, Reason: reason}
	return nil
}

// ApplyEdit updates the mutable fields of a pending check.
func (c *Check) ApplyEdit(edit CheckEdit) error {
	if c.State != CheckPending {
		return c.notPending()
	}
	if edit.Amount != nil && !edit.Amount.Equal(c.Amount) {
		return apperrors.NewValidationError("amount", "check amount cannot be changed after registration")
	}

	updated := *c
	if edit.Number != nil {
		updated.Number = strings.TrimSpace(*edit.Number)
	}
	if edit.Bank != nil {
		updated.Bank = strings.TrimSpace(*edit.Bank)
	}
	if edit.IssueDate != nil {
		updated.IssueDate = *edit.IssueDate
	}
	if edit.DueDate != nil {
		updated.DueDate = *edit.DueDate
	}
	if err := updated.Validate(); err != nil {
		return err
	}
	*c = updated
	return nil
}
