package services

import (
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/events"
	portsrepo "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/repositories"
	portssvc "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, emitter events.Emitter) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Config comes first; every other service pulls the institution policy
	// through it.
	container.Config = NewConfigService(repos.ConfigRepo, emitter)

	container.FundingSource = NewFundingSourceService(
		container.Config,
		repos.SourceRepo,
		repos.SessionRepo,
		repos.LedgerRepo,
		emitter,
	)
	container.Session = NewSessionService(
		container.Config,
		repos.SourceRepo,
		repos.SessionRepo,
		repos.LedgerRepo,
		emitter,
	)
	container.Ledger = NewLedgerService(
		container.Config,
		repos.SourceRepo,
		repos.SessionRepo,
		repos.LedgerRepo,
		emitter,
	)
	container.Payment = NewPaymentService(
		container.Config,
		repos.PaymentRepo,
		repos.SourceRepo,
		repos.SessionRepo,
		emitter,
	)
	container.Statement = NewStatementService(
		container.Config,
		repos.StatementRepo,
		repos.SourceRepo,
		emitter,
	)
	container.Reconciliation = NewReconciliationService(
		container.Config,
		repos.ReconciliationRepo,
		repos.StatementRepo,
		emitter,
	)

	return container
}
