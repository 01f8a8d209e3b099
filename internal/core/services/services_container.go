package services

import (
	portsrepo "github.com/SscSPs/pos_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher portssvc.EventPublisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The ledger validates cash legs against the cash register, so it goes first.
	cashRegister := NewCashRegisterService(
		repos.LedgerRepo,
		WithStaleAfter(cfg.StaleSessionAfter),
		WithCashRegisterPublisher(publisher),
		WithCashRegisterRetry(cfg.LedgerMaxRetries, cfg.LedgerRetryDelay),
	)
	container.CashRegister = cashRegister

	container.Ledger = NewLedgerService(
		repos.LedgerRepo,
		cashRegister,
		WithLedgerPublisher(publisher),
		WithLedgerRetry(cfg.LedgerMaxRetries, cfg.LedgerRetryDelay),
	)

	container.CustomerAccount = NewCustomerAccountService(repos.LedgerRepo)
	container.Stock = NewStockService(repos.LedgerRepo)
	container.Reporting = NewReportingService(repos.LedgerRepo, repos.ReportingRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.LedgerSvcFacade          = (*ledgerService)(nil)
	_ portssvc.CashRegisterSvcFacade    = (*cashRegisterService)(nil)
	_ portssvc.CustomerAccountSvcFacade = (*customerAccountService)(nil)
	_ portssvc.StockSvcFacade           = (*stockService)(nil)
	_ portssvc.ReportingSvcFacade       = (*reportingService)(nil)
)
