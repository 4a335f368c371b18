package services

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/dto"
)

// SaleReaderSvc defines read operations for sales.
type SaleReaderSvc interface {
	GetSaleByID(ctx context.Context, saleID string) (*domain.Sale, error)
}

// SaleWriterSvc registers and voids sales.
type SaleWriterSvc interface {
	// RegisterSale prices the items, persists the sale with its payments and checks, and posts
	// the uncollected part as debt, all in one transaction.
	RegisterSale(ctx context.Context, req dto.CreateSaleRequest, userID string) (*domain.Sale, error)

	// VoidSale rejects the sale's pending checks, reverses its outstanding debt and marks it voided.
	VoidSale(ctx context.Context, saleID string, req dto.VoidSaleRequest, userID string) (*domain.Sale, error)
}

// SaleSvcFacade combines all sale-related service interfaces
type SaleSvcFacade interface {
	SaleReaderSvc
	SaleWriterSvc
}

// PaymentSvc appends payments to existing sales.
type PaymentSvc interface {
	AddPayment(ctx context.Context, saleID string, req dto.PaymentRequest, userID string) (*domain.PaymentReceipt, error)
}
