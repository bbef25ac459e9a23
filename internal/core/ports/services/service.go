package services

// ServiceContainer holds instances of all the treasury services. This is the
// main entry point for accessing service functionality and is used throughout
// the application, particularly in the handlers.
type ServiceContainer struct {
	Config         ConfigSvcFacade
	FundingSource  FundingSourceSvcFacade
	Session        SessionSvcFacade
	Ledger         LedgerSvcFacade
	Payment        PaymentSvcFacade
	Statement      StatementSvcFacade
	Reconciliation ReconciliationSvcFacade
}
