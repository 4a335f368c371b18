package mapping

import (
	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/models"
)

// ToModelSale converts the header of a domain Sale. Items, payments and checks are mapped separately.
func ToModelSale(d domain.Sale) models.Sale {
	m := models.Sale{
		SaleID:        d.SaleID,
		AccountID:     d.AccountID,
		SaleDate:      d.SaleDate,
		Total:         d.Total,
		PaymentStatus: string(d.PaymentStatus),
		Status:        string(d.Status),
		Notes:         d.Notes,
		VoidedAt:      d.VoidedAt,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
	if d.VoidReason != "" {
		reason := d.VoidReason
		m.VoidReason = &reason
	}
	return m
}

// ToDomainSale converts a model Sale header to a domain Sale with empty collections.
func ToDomainSale(m models.Sale) domain.Sale {
	d := domain.Sale{
		SaleID:        m.SaleID,
		AccountID:     m.AccountID,
		SaleDate:      m.SaleDate,
		Total:         m.Total,
		PaymentStatus: domain.PaymentStatus(m.PaymentStatus),
		Status:        domain.SaleStatus(m.Status),
		Notes:         m.Notes,
		VoidedAt:      m.VoidedAt,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
		Items:         []domain.SaleItem{},
		Payments:      []domain.PaymentRecord{},
		Checks:        []domain.Check{},
	}
	if m.VoidReason != nil {
		d.VoidReason = *m.VoidReason
	}
	return d
}

func ToModelSaleItem(d domain.SaleItem) models.SaleItem {
	return models.SaleItem(d)
}

func ToDomainSaleItem(m models.SaleItem) domain.SaleItem {
	return domain.SaleItem(m)
}

func ToModelPayment(d domain.PaymentRecord) models.Payment {
	return models.Payment{
		PaymentID: d.PaymentID,
		SaleID:    d.SaleID,
		Method:    string(d.Method),
		Amount:    d.Amount,
		CreatedAt: d.CreatedAt,
		CreatedBy: d.CreatedBy,
	}
}

func ToDomainPayment(m models.Payment) domain.PaymentRecord {
	return domain.PaymentRecord{
		PaymentID: m.PaymentID,
		SaleID:    m.SaleID,
		Method:    domain.PaymentMethod(m.Method),
		Amount:    m.Amount,
		CreatedAt: m.CreatedAt,
		CreatedBy: m.CreatedBy,
	}
}
