package services

import (
	"context"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	portsrepo "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/repositories"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/dto"
)

// LedgerSvcFacade is the treasury ledger recorder: every balance-affecting
// event passes through it and leaves an immutable entry behind.
type LedgerSvcFacade interface {
	// Record appends a manual ledger entry. Entries caught by the
	// adjustments-require-approval policy are written APPROVAL_PENDING
	// instead of POSTED and carry no balance effect until approved.
	Record(ctx context.Context, institutionID string, req dto.RecordTransactionRequest, userID string) (*domain.TreasuryTransaction, error)

	// Reverse posts a REVERSAL counter-entry against a POSTED transaction.
	// The original entry is never mutated.
	Reverse(ctx context.Context, institutionID string, transactionID string, reason string, userID string) (*domain.TreasuryTransaction, error)

	// ApprovePending posts an APPROVAL_PENDING entry, applying its balance
	// effect.
	ApprovePending(ctx context.Context, institutionID string, transactionID string, approverUserID string) (*domain.TreasuryTransaction, error)

	GetTransaction(ctx context.Context, institutionID string, transactionID string) (*domain.TreasuryTransaction, error)

	ListTransactions(ctx context.Context, institutionID string, filter portsrepo.ListTransactionsFilter) ([]domain.TreasuryTransaction, int, error)
}
