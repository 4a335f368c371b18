package mapping

import (
	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:        d.EntryID,
		EntrySeq:       d.Sequence,
		AccountID:      d.AccountID,
		SaleID:         d.SaleID,
		Kind:           models.EntryKind(d.Kind),
		Debit:          d.Debit,
		Credit:         d.Credit,
		RunningBalance: d.RunningBalance,
		Description:    d.Description,
		OccurredAt:     d.OccurredAt,
		CreatedBy:      d.CreatedBy,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:        m.EntryID,
		Sequence:       m.EntrySeq,
		AccountID:      m.AccountID,
		SaleID:         m.SaleID,
		Kind:           domain.EntryKind(m.Kind),
		Debit:          m.Debit,
		Credit:         m.Credit,
		RunningBalance: m.RunningBalance,
		Description:    m.Description,
		OccurredAt:     m.OccurredAt,
		CreatedBy:      m.CreatedBy,
	}
}

// ToDomainLedgerEntrySlice converts a slice of model LedgerEntries to a slice of domain LedgerEntries
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
