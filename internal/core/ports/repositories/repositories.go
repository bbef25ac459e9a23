package repositories

// RepositoryProvider bundles every repository implementation handed to the
// service container.
type RepositoryProvider struct {
	ConfigRepo         ConfigRepository
	SourceRepo         FundingSourceRepository
	SessionRepo        SessionRepository
	LedgerRepo         LedgerRepository
	PaymentRepo        PaymentRepository
	StatementRepo      StatementRepository
	ReconciliationRepo ReconciliationRepository
}
