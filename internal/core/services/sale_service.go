package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// voidedCheckReason is recorded on checks rejected because their sale was voided.
const voidedCheckReason = "sale voided"

// saleService registers and voids sales.
type saleService struct {
	BaseService
	txManager     portsrepo.TransactionManager
	saleRepo      portsrepo.SaleRepositoryFacade
	accountRepo   portsrepo.AccountReader
	productRepo   portsrepo.ProductReader
	balanceEngine portssvc.BalanceEngineTxSvc
	checkSvc      portssvc.CheckLifecycleSvc
}

// NewSaleService creates a new sale registration service.
func NewSaleService(base BaseService, txManager portsrepo.TransactionManager, saleRepo portsrepo.SaleRepositoryFacade, accountRepo portsrepo.AccountReader, productRepo portsrepo.ProductReader, balanceEngine portssvc.BalanceEngineTxSvc, checkSvc portssvc.CheckLifecycleSvc) portssvc.SaleSvcFacade {
	return &saleService{
		BaseService:   base,
		txManager:     txManager,
		saleRepo:      saleRepo,
		accountRepo:   accountRepo,
		productRepo:   productRepo,
		balanceEngine: balanceEngine,
		checkSvc:      checkSvc,
	}
}

var _ portssvc.SaleSvcFacade = (*saleService)(nil)

// validatePayment checks a single payment request and extracts the check instrument, if any.
func validatePayment(i int, p dto.PaymentRequest) (*domain.CheckInstrument, error) {
	field := fmt.Sprintf("payments[%d]", i)
	if !p.Method.IsValid() {
		return nil, apperrors.NewValidationError(field+".method", fmt.Sprintf("unknown payment method %q", p.Method))
	}
	if !p.Amount.IsPositive() {
		return nil, apperrors.NewValidationError(field+".amount", "must be positive")
	}
	if !accounting.HasMoneyScale(p.Amount) {
		return nil, apperrors.NewValidationError(field+".amount", "must have at most two decimal places")
	}
	if p.Method != domain.MethodCheck {
		return nil, nil
	}
	if p.Check == nil {
		return nil, apperrors.NewValidationError(field+".check", "check details are required for check payments")
	}
	if strings.TrimSpace(p.Check.Number) == "" {
		return nil, apperrors.NewValidationError(field+".check.number", "is required")
	}
	if p.Check.IssueDate.IsZero() || p.Check.DueDate.IsZero() {
		return nil, apperrors.NewValidationError(field+".check", "issueDate and dueDate are required")
	}
	if p.Check.DueDate.Before(p.Check.IssueDate) {
		return nil, apperrors.NewValidationError(field+".check.dueDate", "cannot be before issueDate")
	}
	return &domain.CheckInstrument{
		Number:    p.Check.Number,
		Bank:      p.Check.Bank,
		IssueDate: p.Check.IssueDate.UTC(),
		DueDate:   p.Check.DueDate.UTC(),
	}, nil
}

// priceItems looks every product up in the catalog and builds priced sale lines.
func (s *saleService) priceItems(ctx context.Context, saleID string, reqItems []dto.SaleItemRequest) ([]domain.SaleItem, error) {
	ids := make([]string, 0, len(reqItems))
	seen := make(map[string]struct{}, len(reqItems))
	for i, it := range reqItems {
		if it.ProductID == "" {
			return nil, apperrors.NewValidationError(fmt.Sprintf("items[%d].productID", i), "is required")
		}
		if !it.Quantity.IsPositive() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "must be positive")
		}
		if _, ok := seen[it.ProductID]; !ok {
			seen[it.ProductID] = struct{}{}
			ids = append(ids, it.ProductID)
		}
	}

	products, err := s.productRepo.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	items := make([]domain.SaleItem, len(reqItems))
	for i, it := range reqItems {
		product, ok := products[it.ProductID]
		if !ok {
			return nil, apperrors.NewValidationError(fmt.Sprintf("items[%d].productID", i), fmt.Sprintf("unknown product %s", it.ProductID))
		}
		if !product.IsActive {
			return nil, apperrors.NewValidationError(fmt.Sprintf("items[%d].productID", i), fmt.Sprintf("product %s is inactive", it.ProductID))
		}
		description := it.Description
		if description == "" {
			description = product.Name
		}
		items[i] = domain.SaleItem{
			ItemID:      uuid.NewString(),
			SaleID:      saleID,
			ProductID:   product.ProductID,
			Description: description,
			Quantity:    it.Quantity,
			UnitPrice:   product.UnitPrice,
			TaxRate:     product.TaxRate,
			LineTotal:   accounting.LineTotal(it.Quantity, product.UnitPrice, product.TaxRate),
		}
	}
	return items, nil
}

// RegisterSale implements portssvc.SaleWriterSvc
func (s *saleService) RegisterSale(ctx context.Context, req dto.CreateSaleRequest, userID string) (*domain.Sale, error) {
	logger := s.GetLogger(ctx).With(slog.String("account_id", req.AccountID))

	if req.AccountID == "" {
		return nil, apperrors.NewValidationError("accountID", "is required")
	}
	if len(req.Items) == 0 {
		return nil, apperrors.NewValidationError("items", "a sale needs at least one item")
	}
	instruments := make([]*domain.CheckInstrument, len(req.Payments))
	for i, p := range req.Payments {
		instrument, err := validatePayment(i, p)
		if err != nil {
			return nil, err
		}
		instruments[i] = instrument
	}

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", req.AccountID, err)
	}
	if !account.IsActive {
		return nil, apperrors.NewValidationError("accountID", fmt.Sprintf("account %s is inactive", account.AccountID))
	}

	now := s.now()
	saleID := uuid.NewString()
	items, err := s.priceItems(ctx, saleID, req.Items)
	if err != nil {
		return nil, err
	}
	total := domain.ComputeTotal(items)
	if req.Total != nil && !req.Total.Equal(total) {
		logger.Warn("Ignoring client-supplied sale total",
			slog.String("client_total", req.Total.String()),
			slog.String("computed_total", total.String()))
	}

	payments := make([]domain.PaymentRecord, len(req.Payments))
	paid := decimal.Zero
	for i, p := range req.Payments {
		payments[i] = domain.PaymentRecord{
			PaymentID: uuid.NewString(),
			SaleID:    saleID,
			Method:    p.Method,
			Amount:    p.Amount,
			CreatedAt: now,
			CreatedBy: userID,
		}
		paid = paid.Add(p.Amount)
	}
	if paid.GreaterThan(total) {
		return nil, apperrors.NewValidationError("payments", fmt.Sprintf("payments %s exceed sale total %s", paid.StringFixed(2), total.StringFixed(2)))
	}

	saleDate := now
	if req.SaleDate != nil {
		saleDate = req.SaleDate.UTC()
	}
	sale := domain.Sale{
		SaleID:      saleID,
		AccountID:   account.AccountID,
		SaleDate:    saleDate,
		Total:       total,
		Status:      domain.SaleActive,
		Notes:       req.Notes,
		AuditFields: domain.NewAuditFields(userID, now),
		Items:       items,
		Payments:    payments,
		Checks:      []domain.Check{},
	}
	// Every check is pending at registration, so the status is known before anything is written.
	sale.RefreshPaymentStatus()

	settledNow := domain.SettledNow(payments)
	debt := total.Sub(settledNow)

	err = withTx(ctx, s.txManager, func(tx pgx.Tx) error {
		if err := s.saleRepo.SaveSaleInTx(ctx, tx, sale); err != nil {
			return fmt.Errorf("failed to save sale: %w", err)
		}
		if err := s.saleRepo.SaveSaleItemsInTx(ctx, tx, items); err != nil {
			return fmt.Errorf("failed to save sale items: %w", err)
		}
		for _, p := range payments {
			if err := s.saleRepo.SavePaymentInTx(ctx, tx, p); err != nil {
				return fmt.Errorf("failed to save payment: %w", err)
			}
		}

		// Checks and on-account payments stay in the debt until the money is actually collected.
		if debt.IsPositive() {
			if _, err := s.balanceEngine.RecordSaleDebtInTx(ctx, tx, account.AccountID, saleID, debt, fmt.Sprintf("sale %s", saleID), userID); err != nil {
				return err
			}
		}

		for i, p := range payments {
			if instruments[i] == nil {
				continue
			}
			check, err := s.checkSvc.RegisterFromSaleInTx(ctx, tx, sale, p, *instruments[i], userID)
			if err != nil {
				return err
			}
			sale.Checks = append(sale.Checks, *check)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrCreditLimitExceeded) {
			logger.Info("Sale rejected by credit limit", slog.String("total", total.String()), slog.String("debt", debt.String()))
		} else {
			s.LogError(ctx, err, "Failed to register sale", slog.String("account_id", req.AccountID))
		}
		return nil, err
	}

	logger.Info("Sale registered",
		slog.String("sale_id", saleID),
		slog.String("total", total.String()),
		slog.String("debt", debt.String()),
		slog.String("payment_status", string(sale.PaymentStatus)))
	return &sale, nil
}

// VoidSale implements portssvc.SaleWriterSvc
func (s *saleService) VoidSale(ctx context.Context, saleID string, req dto.VoidSaleRequest, userID string) (*domain.Sale, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, apperrors.NewValidationError("reason", "is required")
	}

	var result domain.Sale
	err := withTx(ctx, s.txManager, func(tx pgx.Tx) error {
		sale, err := s.saleRepo.FindSaleByIDForUpdate(ctx, tx, saleID)
		if err != nil {
			return fmt.Errorf("failed to lock sale %s: %w", saleID, err)
		}
		if sale.IsVoided() {
			return fmt.Errorf("%w: sale %s is already voided", apperrors.ErrAlreadyProcessed, saleID)
		}

		rejected, err := s.checkSvc.RejectPendingForSaleInTx(ctx, tx, saleID, voidedCheckReason, userID)
		if err != nil {
			return err
		}
		for _, c := range rejected {
			sale.ReplaceCheck(c)
		}

		if _, err := s.balanceEngine.ReverseSaleDebtInTx(ctx, tx, sale.AccountID, saleID, userID); err != nil {
			return err
		}

		now := s.now()
		sale.Status = domain.SaleVoided
		sale.VoidReason = reason
		sale.VoidedAt = &now
		sale.RefreshPaymentStatus()
		sale.Touch(userID, now)
		if err := s.saleRepo.UpdateSaleStatusInTx(ctx, tx, *sale); err != nil {
			return fmt.Errorf("failed to update sale %s: %w", saleID, err)
		}
		result = *sale
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to void sale", slog.String("sale_id", saleID))
		return nil, err
	}

	s.LogInfo(ctx, "Sale voided", slog.String("sale_id", saleID), slog.String("account_id", result.AccountID))
	return &result, nil
}

// GetSaleByID implements portssvc.SaleReaderSvc
func (s *saleService) GetSaleByID(ctx context.Context, saleID string) (*domain.Sale, error) {
	sale, err := s.saleRepo.FindSaleByID(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find sale %s: %w", saleID, err)
	}
	return sale, nil
}
