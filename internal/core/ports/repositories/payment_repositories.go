package repositories

import (
	"context"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
)

// ListBatchesFilter narrows ListBatches.
type ListBatchesFilter struct {
	Status   *domain.BatchStatus
	SourceID string
	Branch   string
	Limit    int
	Offset   int
}

// PaymentRepository persists payment batches and their lines.
type PaymentRepository interface {
	// SaveBatch inserts the batch and all its lines in one transaction.
	SaveBatch(ctx context.Context, batch domain.PaymentBatch, lines []domain.PaymentLine) error

	FindBatchByID(ctx context.Context, institutionID string, batchID string) (*domain.PaymentBatch, error)

	ListBatches(ctx context.Context, institutionID string, filter ListBatchesFilter) ([]domain.PaymentBatch, int, error)

	FindLinesByBatch(ctx context.Context, institutionID string, batchID string) ([]domain.PaymentLine, error)

	FindLineByID(ctx context.Context, institutionID string, lineID string) (*domain.PaymentLine, error)

	// SaveLine inserts an additional line on an existing batch.
	SaveLine(ctx context.Context, line domain.PaymentLine) error

	// UpdateBatch rewrites the batch's mutable fields (status, total,
	// approval/execution stamps).
	UpdateBatch(ctx context.Context, batch domain.PaymentBatch) error

	// UpdateLine rewrites a line's mutable fields (status, approval,
	// external reference, failure reason).
	UpdateLine(ctx context.Context, line domain.PaymentLine) error

	// ExecuteBatch applies a batch execution as one atomic unit: debit the
	// source by the batch total under a row lock (guarded), mark the given
	// lines PAID, append one ledger entry per line, and stamp the batch
	// EXECUTED. On any failure nothing is applied; a guard rejection surfaces
	// as apperrors.ErrInsufficientFunds.
	ExecuteBatch(ctx context.Context, batch domain.PaymentBatch, paidLines []domain.PaymentLine, txns []domain.TreasuryTransaction, guard BalanceGuard) error

	// UpdateLineWithTransaction updates one line and appends one ledger
	// entry (with its balance effect) atomically; used by the ad-hoc
	// mark-paid / mark-failed corrections.
	UpdateLineWithTransaction(ctx context.Context, line domain.PaymentLine, txn domain.TreasuryTransaction, guard BalanceGuard) error
}
