package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// paymentService appends payments to existing sales.
type paymentService struct {
	BaseService
	txManager     portsrepo.TransactionManager
	saleRepo      portsrepo.SaleRepositoryFacade
	balanceEngine portssvc.BalanceEngineTxSvc
	checkSvc      portssvc.CheckLifecycleSvc
}

// NewPaymentService creates a new payment recorder.
func NewPaymentService(base BaseService, txManager portsrepo.TransactionManager, saleRepo portsrepo.SaleRepositoryFacade, balanceEngine portssvc.BalanceEngineTxSvc, checkSvc portssvc.CheckLifecycleSvc) portssvc.PaymentSvc {
	return &paymentService{
		BaseService:   base,
		txManager:     txManager,
		saleRepo:      saleRepo,
		balanceEngine: balanceEngine,
		checkSvc:      checkSvc,
	}
}

var _ portssvc.PaymentSvc = (*paymentService)(nil)

// AddPayment implements portssvc.PaymentSvc
func (s *paymentService) AddPayment(ctx context.Context, saleID string, req dto.PaymentRequest, userID string) (*domain.PaymentReceipt, error) {
	instrument, err := validatePayment(0, req)
	if err != nil {
		return nil, err
	}

	var receipt domain.PaymentReceipt
	err = withTx(ctx, s.txManager, func(tx pgx.Tx) error {
		sale, err := s.saleRepo.FindSaleByIDForUpdate(ctx, tx, saleID)
		if err != nil {
			return fmt.Errorf("failed to lock sale %s: %w", saleID, err)
		}
		if sale.IsVoided() {
			return apperrors.NewValidationError("saleID", fmt.Sprintf("sale %s is voided", saleID))
		}
		if open := sale.OpenAmount(); req.Amount.GreaterThan(open) {
			return apperrors.NewValidationError("amount", fmt.Sprintf("payment %s exceeds open amount %s", req.Amount.StringFixed(2), open.StringFixed(2)))
		}

		now := s.now()
		payment := domain.PaymentRecord{
			PaymentID: uuid.NewString(),
			SaleID:    saleID,
			Method:    req.Method,
			Amount:    req.Amount,
			CreatedAt: now,
			CreatedBy: userID,
		}
		if err := s.saleRepo.SavePaymentInTx(ctx, tx, payment); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}
		sale.Payments = append(sale.Payments, payment)

		switch {
		case payment.Method.IsSettled():
			entry, err := s.balanceEngine.RecordCollectionInTx(ctx, tx, sale.AccountID, saleID, payment.Amount,
				fmt.Sprintf("payment %s (%s)", payment.PaymentID, payment.Method), userID)
			if err != nil {
				return err
			}
			balance := entry.RunningBalance
			receipt.AccountBalance = &balance
		case payment.Method == domain.MethodCheck:
			// The amount is already part of the sale's debt; cashing the check will collect it.
			check, err := s.checkSvc.RegisterFromSaleInTx(ctx, tx, *sale, payment, *instrument, userID)
			if err != nil {
				return err
			}
			sale.ReplaceCheck(*check)
		}

		if sale.RefreshPaymentStatus() {
			sale.Touch(userID, now)
			if err := s.saleRepo.UpdateSaleStatusInTx(ctx, tx, *sale); err != nil {
				return fmt.Errorf("failed to update sale %s: %w", saleID, err)
			}
		}

		receipt.Payment = payment
		receipt.Sale = *sale
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to add payment", slog.String("sale_id", saleID))
		return nil, err
	}

	s.LogInfo(ctx, "Payment added",
		slog.String("sale_id", saleID),
		slog.String("method", string(req.Method)),
		slog.String("amount", req.Amount.String()),
		slog.String("payment_status", string(receipt.Sale.PaymentStatus)))
	return &receipt, nil
}
