package services

import (
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// ContainerConfig carries the tunables the services need.
type ContainerConfig struct {
	// BalanceEpsilon is the tolerance used when reconciling cached and derived balances.
	BalanceEpsilon decimal.Decimal
	Base           BaseService
}

// NewServiceContainer wires all services from the repository provider.
// The balance engine is built first since every other ledger-touching service posts through it.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, cfg ContainerConfig) *portssvc.ServiceContainer {
	opts := []BalanceEngineOption{WithBalanceEngineBase(cfg.Base)}
	if !cfg.BalanceEpsilon.IsZero() {
		opts = append(opts, WithBalanceEpsilon(cfg.BalanceEpsilon))
	}
	engine := NewBalanceEngine(repos.TxManager, repos.AccountRepo, repos.LedgerRepo, opts...)
	checkSvc := NewCheckService(cfg.Base, repos.TxManager, repos.CheckRepo, repos.SaleRepo, engine)

	return &portssvc.ServiceContainer{
		Account:       NewAccountService(cfg.Base, repos.TxManager, repos.AccountRepo, repos.LedgerRepo, engine),
		BalanceEngine: engine,
		Check:         checkSvc,
		Sale:          NewSaleService(cfg.Base, repos.TxManager, repos.SaleRepo, repos.AccountRepo, repos.ProductRepo, engine, checkSvc),
		Payment:       NewPaymentService(cfg.Base, repos.TxManager, repos.SaleRepo, engine, checkSvc),
	}
}
