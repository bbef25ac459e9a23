package pgsql

import (
	portsrepo "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ConfigRepo:         newPgxConfigRepository(dbPool),
		SourceRepo:         newPgxFundingSourceRepository(dbPool),
		SessionRepo:        newPgxSessionRepository(dbPool),
		LedgerRepo:         newPgxLedgerRepository(dbPool),
		PaymentRepo:        newPgxPaymentRepository(dbPool),
		StatementRepo:      newPgxStatementRepository(dbPool),
		ReconciliationRepo: newPgxReconciliationRepository(dbPool),
	}
}
