package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/apperrors"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	portsrepo "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/repositories"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/models"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transactionColumns = `
	transaction_id, institution_id, source_type, source_id, direction, category,
	amount, currency, transaction_date, reference, counterparty_name, notes,
	status, linked_object_type, linked_object_id, cashdesk_session_id,
	reverses_transaction_id, approved_by, reconciled_at,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for the transaction ledger.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepository = (*PgxLedgerRepository)(nil)

func scanTransaction(row pgx.Row) (models.TreasuryTransaction, error) {
	var m models.TreasuryTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.InstitutionID,
		&m.SourceType,
		&m.SourceID,
		&m.Direction,
		&m.Category,
		&m.Amount,
		&m.Currency,
		&m.TransactionDate,
		&m.Reference,
		&m.CounterpartyName,
		&m.Notes,
		&m.Status,
		&m.LinkedObjectType,
		&m.LinkedObjectID,
		&m.CashdeskSessionID,
		&m.ReversesTransactionID,
		&m.ApprovedBy,
		&m.ReconciledAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// lockSourceBalance row-locks the funding source and returns its current
// balance. The lock holds until the surrounding transaction ends.
func lockSourceBalance(ctx context.Context, tx pgx.Tx, institutionID, sourceID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	query := `
		SELECT current_balance FROM treasury_funding_sources
		WHERE source_id = $1 AND institution_id = $2
		FOR UPDATE;
	`
	err := tx.QueryRow(ctx, query, sourceID, institutionID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, apperrors.ErrNotFound
		}
		return decimal.Zero, apperrors.NewAppError(500, "failed to lock funding source "+sourceID, err)
	}
	return balance, nil
}

// checkGuard validates the post-adjustment balance against the guard.
func checkGuard(newBalance decimal.Decimal, delta decimal.Decimal, guard portsrepo.BalanceGuard) error {
	if newBalance.IsNegative() && !guard.AllowNegative {
		return apperrors.ErrInsufficientFunds
	}
	if delta.IsPositive() && guard.MaxBalance != nil && newBalance.GreaterThan(*guard.MaxBalance) {
		return apperrors.ErrBalanceCapExceeded
	}
	return nil
}

func updateSourceBalanceTx(ctx context.Context, tx pgx.Tx, institutionID, sourceID string, newBalance decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE treasury_funding_sources
		SET current_balance = $3, last_updated_at = $4, last_updated_by = $5
		WHERE source_id = $1 AND institution_id = $2;
	`
	if _, err := tx.Exec(ctx, query, sourceID, institutionID, newBalance, now, userID); err != nil {
		return apperrors.NewAppError(500, "failed to update balance of funding source "+sourceID, err)
	}
	return nil
}

func insertTransactionTx(ctx context.Context, tx pgx.Tx, m models.TreasuryTransaction) error {
	query := `
		INSERT INTO treasury_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23);
	`
	_, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.InstitutionID,
		m.SourceType,
		m.SourceID,
		m.Direction,
		m.Category,
		m.Amount,
		m.Currency,
		m.TransactionDate,
		m.Reference,
		m.CounterpartyName,
		m.Notes,
		m.Status,
		m.LinkedObjectType,
		m.LinkedObjectID,
		m.CashdeskSessionID,
		m.ReversesTransactionID,
		m.ApprovedBy,
		m.ReconciledAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: transaction %s already exists", apperrors.ErrDuplicate, m.TransactionID)
		}
		return apperrors.NewAppError(500, "failed to insert transaction "+m.TransactionID, err)
	}
	return nil
}

// RecordTransaction appends one ledger entry and applies its balance effect
// under a row lock when the entry is POSTED. Non-POSTED entries (pending
// approval) are stored without touching the balance.
func (r *PgxLedgerRepository) RecordTransaction(ctx context.Context, txn domain.TreasuryTransaction, guard portsrepo.BalanceGuard) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if txn.Status == domain.TxnPosted {
		balance, err := lockSourceBalance(ctx, tx, txn.InstitutionID, txn.SourceID)
		if err != nil {
			return err
		}
		delta := txn.SignedAmount()
		newBalance := balance.Add(delta)
		if err := checkGuard(newBalance, delta, guard); err != nil {
			return err
		}
		if err := updateSourceBalanceTx(ctx, tx, txn.InstitutionID, txn.SourceID, newBalance, txn.CreatedBy, txn.CreatedAt); err != nil {
			return err
		}
	}

	if err := insertTransactionTx(ctx, tx, mapping.ToModelTransaction(txn)); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// RecordTransfer appends both legs of an internal transfer and adjusts both
// balances in one database transaction. Sources are locked in source ID
// order so two concurrent transfers between the same pair cannot deadlock.
func (r *PgxLedgerRepository) RecordTransfer(ctx context.Context, out domain.TreasuryTransaction, in domain.TreasuryTransaction, outGuard portsrepo.BalanceGuard, inGuard portsrepo.BalanceGuard) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	type leg struct {
		txn   domain.TreasuryTransaction
		guard portsrepo.BalanceGuard
	}
	legs := []leg{{out, outGuard}, {in, inGuard}}
	if legs[1].txn.SourceID < legs[0].txn.SourceID {
		legs[0], legs[1] = legs[1], legs[0]
	}

	for _, l := range legs {
		balance, err := lockSourceBalance(ctx, tx, l.txn.InstitutionID, l.txn.SourceID)
		if err != nil {
			return err
		}
		delta := l.txn.SignedAmount()
		newBalance := balance.Add(delta)
		if err := checkGuard(newBalance, delta, l.guard); err != nil {
			return err
		}
		if err := updateSourceBalanceTx(ctx, tx, l.txn.InstitutionID, l.txn.SourceID, newBalance, l.txn.CreatedBy, l.txn.CreatedAt); err != nil {
			return err
		}
		if err := insertTransactionTx(ctx, tx, mapping.ToModelTransaction(l.txn)); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// PostPendingTransaction flips an APPROVAL_PENDING entry to POSTED and
// applies its balance effect atomically.
func (r *PgxLedgerRepository) PostPendingTransaction(ctx context.Context, institutionID string, transactionID string, approverUserID string, guard portsrepo.BalanceGuard, now time.Time) (*domain.TreasuryTransaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	query := `
		SELECT ` + transactionColumns + `
		FROM treasury_transactions
		WHERE transaction_id = $1 AND institution_id = $2
		FOR UPDATE;
	`
	m, err := scanTransaction(tx.QueryRow(ctx, query, transactionID, institutionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction "+transactionID, err)
	}
	if m.Status != string(domain.TxnApprovalPending) {
		return nil, fmt.Errorf("%w: transaction %s is %s, not APPROVAL_PENDING", apperrors.ErrInvalidStateTransition, transactionID, m.Status)
	}

	txn := mapping.ToDomainTransaction(m)
	balance, err := lockSourceBalance(ctx, tx, institutionID, txn.SourceID)
	if err != nil {
		return nil, err
	}
	delta := txn.SignedAmount()
	newBalance := balance.Add(delta)
	if err := checkGuard(newBalance, delta, guard); err != nil {
		return nil, err
	}
	if err := updateSourceBalanceTx(ctx, tx, institutionID, txn.SourceID, newBalance, approverUserID, now); err != nil {
		return nil, err
	}

	updateQuery := `
		UPDATE treasury_transactions
		SET status = 'POSTED', approved_by = $3, last_updated_at = $4, last_updated_by = $5
		WHERE transaction_id = $1 AND institution_id = $2;
	`
	if _, err := tx.Exec(ctx, updateQuery, transactionID, institutionID, approverUserID, now, approverUserID); err != nil {
		return nil, apperrors.NewAppError(500, "failed to post transaction "+transactionID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	txn.Status = domain.TxnPosted
	txn.ApprovedBy = approverUserID
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = approverUserID
	return &txn, nil
}

// FindTransactionByID retrieves one ledger entry scoped to the institution.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, institutionID string, transactionID string) (*domain.TreasuryTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM treasury_transactions
		WHERE transaction_id = $1 AND institution_id = $2;
	`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID, institutionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction "+transactionID, err)
	}
	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

// ListTransactions retrieves one page of ledger entries plus the total count.
func (r *PgxLedgerRepository) ListTransactions(ctx context.Context, institutionID string, filter portsrepo.ListTransactionsFilter) ([]domain.TreasuryTransaction, int, error) {
	where := ` WHERE institution_id = $1`
	args := []interface{}{institutionID}
	if filter.SourceID != "" {
		args = append(args, filter.SourceID)
		where += ` AND source_id = $` + strconv.Itoa(len(args))
	}
	if filter.Direction != nil {
		args = append(args, string(*filter.Direction))
		where += ` AND direction = $` + strconv.Itoa(len(args))
	}
	if filter.Category != nil {
		args = append(args, string(*filter.Category))
		where += ` AND category = $` + strconv.Itoa(len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		where += ` AND transaction_date >= $` + strconv.Itoa(len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where += ` AND transaction_date <= $` + strconv.Itoa(len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM treasury_transactions` + where
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count transactions", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := `SELECT ` + transactionColumns + ` FROM treasury_transactions` + where +
		` ORDER BY transaction_date DESC, created_at DESC, transaction_id LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to list transactions", err)
	}
	defer rows.Close()

	txns := []models.TreasuryTransaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		txns = append(txns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}

	return mapping.ToDomainTransactionSlice(txns), total, nil
}

// SumSessionMovements totals the signed POSTED movements stamped with the
// given session.
func (r *PgxLedgerRepository) SumSessionMovements(ctx context.Context, institutionID string, sessionID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN direction = 'IN' THEN amount ELSE -amount END), 0)
		FROM treasury_transactions
		WHERE institution_id = $1 AND cashdesk_session_id = $2 AND status = 'POSTED';
	`
	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, institutionID, sessionID).Scan(&sum); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum movements for session "+sessionID, err)
	}
	return sum, nil
}
