package mapping

import (
	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/models"
)

// ToModelCheck flattens the clearing and rejection data into nullable columns.
func ToModelCheck(d domain.Check) models.Check {
	m := models.Check{
		CheckID:     d.CheckID,
		SaleID:      d.SaleID,
		AccountID:   d.AccountID,
		PaymentID:   d.PaymentID,
		Number:      d.Number,
		Bank:        d.Bank,
		Amount:      d.Amount,
		IssueDate:   d.IssueDate,
		DueDate:     d.DueDate,
		State:       string(d.State),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
	if d.Clearing != nil {
		cleared := d.Clearing.ClearedDate
		m.ClearedDate = &cleared
	}
	if d.Rejection != nil {
		rejected, reason := d.Rejection.RejectedDate, d.Rejection.Reason
		m.RejectedDate = &rejected
		m.RejectionReason = &reason
	}
	return m
}

// ToDomainCheck rebuilds the state-specific parts of a check from its nullable columns.
func ToDomainCheck(m models.Check) domain.Check {
	d := domain.Check{
		CheckID:     m.CheckID,
		SaleID:      m.SaleID,
		AccountID:   m.AccountID,
		PaymentID:   m.PaymentID,
		Number:      m.Number,
		Bank:        m.Bank,
		Amount:      m.Amount,
		IssueDate:   m.IssueDate,
		DueDate:     m.DueDate,
		State:       domain.CheckState(m.State),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
	if m.ClearedDate != nil {
		d.Clearing = &domain.CheckClearing{ClearedDate: *m.ClearedDate}
	}
	if m.RejectedDate != nil {
		d.Rejection = &domain.CheckRejection{RejectedDate: *m.RejectedDate}
		if m.RejectionReason != nil {
			d.Rejection.Reason = *m.RejectionReason
		}
	}
	return d
}

// ToDomainCheckSlice converts a slice of model Checks to a slice of domain Checks
func ToDomainCheckSlice(ms []models.Check) []domain.Check {
	ds := make([]domain.Check, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCheck(m)
	}
	return ds
}
