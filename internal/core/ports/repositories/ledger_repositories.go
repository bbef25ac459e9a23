package repositories

import (
	"context"
	"time"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceGuard carries the policy limits a balance adjustment must respect.
// The repository evaluates the guard against the row-locked balance so the
// check and the write are one atomic unit.
type BalanceGuard struct {
	// AllowNegative permits the post-adjustment balance to go below zero.
	AllowNegative bool
	// MaxBalance caps the post-adjustment balance on inbound movements; nil
	// means no cap.
	MaxBalance *decimal.Decimal
}

// ListTransactionsFilter narrows ListTransactions.
type ListTransactionsFilter struct {
	SourceID  string
	Direction *domain.Direction
	Category  *domain.TransactionCategory
	Status    *domain.TransactionStatus
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// LedgerRepository is the transactional boundary for balance-affecting
// writes: the transaction append and the balance mutation commit together or
// not at all.
type LedgerRepository interface {
	// RecordTransaction appends a ledger entry and, when its status is
	// POSTED, applies the signed delta to the source balance under a row
	// lock. Returns apperrors.ErrInsufficientFunds or
	// apperrors.ErrBalanceCapExceeded when the guard rejects the resulting
	// balance.
	RecordTransaction(ctx context.Context, txn domain.TreasuryTransaction, guard BalanceGuard) error

	// RecordTransfer appends both legs of an internal transfer and adjusts
	// both source balances in one database transaction. Sources are locked in
	// deterministic order to avoid deadlocks.
	RecordTransfer(ctx context.Context, out domain.TreasuryTransaction, in domain.TreasuryTransaction, outGuard BalanceGuard, inGuard BalanceGuard) error

	// PostPendingTransaction flips an APPROVAL_PENDING entry to POSTED and
	// applies its delta, atomically.
	PostPendingTransaction(ctx context.Context, institutionID string, transactionID string, approverUserID string, guard BalanceGuard, now time.Time) (*domain.TreasuryTransaction, error)

	FindTransactionByID(ctx context.Context, institutionID string, transactionID string) (*domain.TreasuryTransaction, error)

	ListTransactions(ctx context.Context, institutionID string, filter ListTransactionsFilter) ([]domain.TreasuryTransaction, int, error)

	// SumSessionMovements totals the signed POSTED movements stamped with the
	// given cash desk session.
	SumSessionMovements(ctx context.Context, institutionID string, sessionID string) (decimal.Decimal, error)
}
