package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// checkService owns the check state machine and the ledger effect of cashing.
// Lock order is sale, then check, then account (taken by the balance engine).
type checkService struct {
	BaseService
	txManager     portsrepo.TransactionManager
	checkRepo     portsrepo.CheckRepositoryFacade
	saleRepo      portsrepo.SaleRepositoryFacade
	balanceEngine portssvc.BalanceEngineTxSvc
}

// NewCheckService creates a new check lifecycle service.
func NewCheckService(base BaseService, txManager portsrepo.TransactionManager, checkRepo portsrepo.CheckRepositoryFacade, saleRepo portsrepo.SaleRepositoryFacade, balanceEngine portssvc.BalanceEngineTxSvc) portssvc.CheckSvcFacade {
	return &checkService{
		BaseService:   base,
		txManager:     txManager,
		checkRepo:     checkRepo,
		saleRepo:      saleRepo,
		balanceEngine: balanceEngine,
	}
}

var _ portssvc.CheckSvcFacade = (*checkService)(nil)

// RegisterFromSaleInTx implements portssvc.CheckLifecycleSvc
func (s *checkService) RegisterFromSaleInTx(ctx context.Context, tx pgx.Tx, sale domain.Sale, payment domain.PaymentRecord, instrument domain.CheckInstrument, userID string) (*domain.Check, error) {
	if payment.Method != domain.MethodCheck {
		return nil, apperrors.NewValidationError("method", fmt.Sprintf("payment %s is not a check payment", payment.PaymentID))
	}

	now := s.now()
	check := domain.Check{
		CheckID:     uuid.NewString(),
		SaleID:      sale.SaleID,
		AccountID:   sale.AccountID,
		PaymentID:   payment.PaymentID,
		Number:      strings.TrimSpace(instrument.Number),
		Bank:        strings.TrimSpace(instrument.Bank),
		Amount:      payment.Amount,
		IssueDate:   instrument.IssueDate,
		DueDate:     instrument.DueDate,
		State:       domain.CheckPending,
		AuditFields: domain.NewAuditFields(userID, now),
	}
	if err := check.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkRepo.SaveCheckInTx(ctx, tx, check); err != nil {
		return nil, fmt.Errorf("failed to save check: %w", err)
	}
	s.LogDebug(ctx, "Check registered", slog.String("check_id", check.CheckID), slog.String("sale_id", sale.SaleID))
	return &check, nil
}

// transition locks the owning sale and the check, applies fn to the check, persists it and
// re-derives the sale's payment status. fn may post ledger entries through tx.
func (s *checkService) transition(ctx context.Context, checkID, userID string, fn func(tx pgx.Tx, check *domain.Check) error) (*domain.Check, error) {
	current, err := s.checkRepo.FindCheckByID(ctx, checkID)
	if err != nil {
		return nil, fmt.Errorf("failed to find check %s: %w", checkID, err)
	}

	var result domain.Check
	err = withTx(ctx, s.txManager, func(tx pgx.Tx) error {
		sale, err := s.saleRepo.FindSaleByIDForUpdate(ctx, tx, current.SaleID)
		if err != nil {
			return fmt.Errorf("failed to lock sale %s: %w", current.SaleID, err)
		}
		check, err := s.checkRepo.FindCheckByIDForUpdate(ctx, tx, checkID)
		if err != nil {
			return fmt.Errorf("failed to lock check %s: %w", checkID, err)
		}

		if err := fn(tx, check); err != nil {
			return err
		}

		now := s.now()
		check.Touch(userID, now)
		if err := s.checkRepo.UpdateCheckInTx(ctx, tx, *check); err != nil {
			return fmt.Errorf("failed to update check %s: %w", checkID, err)
		}

		sale.ReplaceCheck(*check)
		if sale.RefreshPaymentStatus() {
			sale.Touch(userID, now)
			if err := s.saleRepo.UpdateSaleStatusInTx(ctx, tx, *sale); err != nil {
				return fmt.Errorf("failed to update sale %s: %w", sale.SaleID, err)
			}
		}
		result = *check
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CashCheck implements portssvc.CheckLifecycleSvc
func (s *checkService) CashCheck(ctx context.Context, checkID string, req dto.CashCheckRequest, userID string) (*domain.Check, error) {
	clearedDate := s.now()
	if req.ClearedDate != nil {
		clearedDate = req.ClearedDate.UTC()
	}

	check, err := s.transition(ctx, checkID, userID, func(tx pgx.Tx, check *domain.Check) error {
		if err := check.Cash(clearedDate); err != nil {
			return err
		}
		// The only path by which a check's amount stops counting as debt.
		if _, err := s.balanceEngine.RecordCollectionInTx(ctx, tx, check.AccountID, check.SaleID, check.Amount, "check cashed", userID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to cash check", slog.String("check_id", checkID))
		return nil, err
	}

	s.LogInfo(ctx, "Check cashed",
		slog.String("check_id", checkID),
		slog.String("account_id", check.AccountID),
		slog.String("amount", check.Amount.String()))
	return check, nil
}

// RejectCheck implements portssvc.CheckLifecycleSvc
func (s *checkService) RejectCheck(ctx context.Context, checkID string, req dto.RejectCheckRequest, userID string) (*domain.Check, error) {
	rejectedDate := s.now()
	if req.RejectedDate != nil {
		rejectedDate = req.RejectedDate.UTC()
	}

	check, err := s.transition(ctx, checkID, userID, func(_ pgx.Tx, check *domain.Check) error {
		return check.Reject(req.Reason, rejectedDate)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to reject check", slog.String("check_id", checkID))
		return nil, err
	}

	s.LogInfo(ctx, "Check rejected; debt stays outstanding",
		slog.String("check_id", checkID),
		slog.String("account_id", check.AccountID),
		slog.String("amount", check.Amount.String()))
	return check, nil
}

// EditCheck implements portssvc.CheckLifecycleSvc
func (s *checkService) EditCheck(ctx context.Context, checkID string, req dto.EditCheckRequest, userID string) (*domain.Check, error) {
	var result domain.Check
	err := withTx(ctx, s.txManager, func(tx pgx.Tx) error {
		check, err := s.checkRepo.FindCheckByIDForUpdate(ctx, tx, checkID)
		if err != nil {
			return fmt.Errorf("failed to lock check %s: %w", checkID, err)
		}

		edit := domain.CheckEdit{
			Number: req.Number,
			Bank:   req.Bank,
			Amount: req.Amount,
		}
		if req.IssueDate != nil {
			issue := req.IssueDate.UTC()
			edit.IssueDate = &issue
		}
		if req.DueDate != nil {
			due := req.DueDate.UTC()
			edit.DueDate = &due
		}
		if err := check.ApplyEdit(edit); err != nil {
			return err
		}

		check.Touch(userID, s.now())
		if err := s.checkRepo.UpdateCheckInTx(ctx, tx, *check); err != nil {
			return fmt.Errorf("failed to update check %s: %w", checkID, err)
		}
		result = *check
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RejectPendingForSaleInTx implements portssvc.CheckLifecycleSvc
func (s *checkService) RejectPendingForSaleInTx(ctx context.Context, tx pgx.Tx, saleID, reason, userID string) ([]domain.Check, error) {
	checks, err := s.checkRepo.FindChecksBySaleInTx(ctx, tx, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load checks of sale %s: %w", saleID, err)
	}

	now := s.now()
	rejected := make([]domain.Check, 0, len(checks))
	for i := range checks {
		check := checks[i]
		if check.State != domain.CheckPending {
			continue
		}
		if err := check.Reject(reason, now); err != nil {
			return nil, err
		}
		check.Touch(userID, now)
		if err := s.checkRepo.UpdateCheckInTx(ctx, tx, check); err != nil {
			return nil, fmt.Errorf("failed to update check %s: %w", check.CheckID, err)
		}
		rejected = append(rejected, check)
	}
	return rejected, nil
}

// GetCheckByID implements portssvc.CheckReaderSvc
func (s *checkService) GetCheckByID(ctx context.Context, checkID string) (*domain.Check, error) {
	check, err := s.checkRepo.FindCheckByID(ctx, checkID)
	if err != nil {
		return nil, fmt.Errorf("failed to find check %s: %w", checkID, err)
	}
	return check, nil
}

// ListChecksByAccount implements portssvc.CheckReaderSvc
func (s *checkService) ListChecksByAccount(ctx context.Context, accountID string, state *domain.CheckState) ([]domain.Check, error) {
	if state != nil && !state.IsValid() {
		return nil, apperrors.NewValidationError("state", fmt.Sprintf("unknown check state %q", *state))
	}
	checks, err := s.checkRepo.ListChecksByAccount(ctx, accountID, state)
	if err != nil {
		return nil, fmt.Errorf("failed to list checks of account %s: %w", accountID, err)
	}
	return checks, nil
}
