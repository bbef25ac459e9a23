package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/apperrors"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	portsrepo "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/repositories"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/models"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const batchColumns = `
	batch_id, institution_id, branch, source_type, source_id, payment_method,
	description, planned_date, status, currency, total_amount, reference_number,
	approved_by, approved_at, executed_by, executed_at,
	created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `
	line_id, institution_id, batch_id, payee_type, payee_id, payee_name,
	amount, currency, status, external_reference, linked_object_type,
	linked_object_id, failure_reason, requires_approval, approved,
	approved_by, approved_at, reconciled_at,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for payment batch data.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepository {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentRepository = (*PgxPaymentRepository)(nil)

func scanBatch(row pgx.Row) (models.PaymentBatch, error) {
	var m models.PaymentBatch
	err := row.Scan(
		&m.BatchID,
		&m.InstitutionID,
		&m.Branch,
		&m.SourceType,
		&m.SourceID,
		&m.PaymentMethod,
		&m.Description,
		&m.PlannedDate,
		&m.Status,
		&m.Currency,
		&m.TotalAmount,
		&m.ReferenceNumber,
		&m.ApprovedBy,
		&m.ApprovedAt,
		&m.ExecutedBy,
		&m.ExecutedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanLine(row pgx.Row) (models.PaymentLine, error) {
	var m models.PaymentLine
	err := row.Scan(
		&m.LineID,
		&m.InstitutionID,
		&m.BatchID,
		&m.PayeeType,
		&m.PayeeID,
		&m.PayeeName,
		&m.Amount,
		&m.Currency,
		&m.Status,
		&m.ExternalReference,
		&m.LinkedObjectType,
		&m.LinkedObjectID,
		&m.FailureReason,
		&m.RequiresApproval,
		&m.Approved,
		&m.ApprovedBy,
		&m.ApprovedAt,
		&m.ReconciledAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func insertLineTx(ctx context.Context, tx pgx.Tx, m models.PaymentLine) error {
	query := `
		INSERT INTO treasury_payment_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
	`
	_, err := tx.Exec(ctx, query,
		m.LineID,
		m.InstitutionID,
		m.BatchID,
		m.PayeeType,
		m.PayeeID,
		m.PayeeName,
		m.Amount,
		m.Currency,
		m.Status,
		m.ExternalReference,
		m.LinkedObjectType,
		m.LinkedObjectID,
		m.FailureReason,
		m.RequiresApproval,
		m.Approved,
		m.ApprovedBy,
		m.ApprovedAt,
		m.ReconciledAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: payment line %s already exists", apperrors.ErrDuplicate, m.LineID)
		}
		return apperrors.NewAppError(500, "failed to insert payment line "+m.LineID, err)
	}
	return nil
}

func updateLineTx(ctx context.Context, tx pgx.Tx, m models.PaymentLine) error {
	query := `
		UPDATE treasury_payment_lines
		SET status = $3, external_reference = $4, failure_reason = $5,
		    requires_approval = $6, approved = $7, approved_by = $8, approved_at = $9,
		    reconciled_at = $10, last_updated_at = $11, last_updated_by = $12
		WHERE line_id = $1 AND institution_id = $2;
	`
	tag, err := tx.Exec(ctx, query,
		m.LineID,
		m.InstitutionID,
		m.Status,
		m.ExternalReference,
		m.FailureReason,
		m.RequiresApproval,
		m.Approved,
		m.ApprovedBy,
		m.ApprovedAt,
		m.ReconciledAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update payment line "+m.LineID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func updateBatchTx(ctx context.Context, tx pgx.Tx, m models.PaymentBatch) error {
	query := `
		UPDATE treasury_payment_batches
		SET status = $3, total_amount = $4, reference_number = $5,
		    approved_by = $6, approved_at = $7, executed_by = $8, executed_at = $9,
		    description = $10, planned_date = $11,
		    last_updated_at = $12, last_updated_by = $13
		WHERE batch_id = $1 AND institution_id = $2;
	`
	tag, err := tx.Exec(ctx, query,
		m.BatchID,
		m.InstitutionID,
		m.Status,
		m.TotalAmount,
		m.ReferenceNumber,
		m.ApprovedBy,
		m.ApprovedAt,
		m.ExecutedBy,
		m.ExecutedAt,
		m.Description,
		m.PlannedDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update payment batch "+m.BatchID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveBatch inserts the batch and all its lines in one transaction.
func (r *PgxPaymentRepository) SaveBatch(ctx context.Context, batch domain.PaymentBatch, lines []domain.PaymentLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelPaymentBatch(batch)
	query := `
		INSERT INTO treasury_payment_batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err = tx.Exec(ctx, query,
		m.BatchID,
		m.InstitutionID,
		m.Branch,
		m.SourceType,
		m.SourceID,
		m.PaymentMethod,
		m.Description,
		m.PlannedDate,
		m.Status,
		m.Currency,
		m.TotalAmount,
		m.ReferenceNumber,
		m.ApprovedBy,
		m.ApprovedAt,
		m.ExecutedBy,
		m.ExecutedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: payment batch %s already exists", apperrors.ErrDuplicate, m.BatchID)
		}
		return apperrors.NewAppError(500, "failed to insert payment batch "+m.BatchID, err)
	}

	for _, line := range lines {
		if err := insertLineTx(ctx, tx, mapping.ToModelPaymentLine(line)); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// FindBatchByID retrieves a batch scoped to the institution.
func (r *PgxPaymentRepository) FindBatchByID(ctx context.Context, institutionID string, batchID string) (*domain.PaymentBatch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM treasury_payment_batches
		WHERE batch_id = $1 AND institution_id = $2;
	`
	m, err := scanBatch(r.Pool.QueryRow(ctx, query, batchID, institutionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payment batch "+batchID, err)
	}
	d := mapping.ToDomainPaymentBatch(m)
	return &d, nil
}

// ListBatches retrieves one page of batches plus the total count.
func (r *PgxPaymentRepository) ListBatches(ctx context.Context, institutionID string, filter portsrepo.ListBatchesFilter) ([]domain.PaymentBatch, int, error) {
	where := ` WHERE institution_id = $1`
	args := []interface{}{institutionID}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.SourceID != "" {
		args = append(args, filter.SourceID)
		where += ` AND source_id = $` + strconv.Itoa(len(args))
	}
	if filter.Branch != "" {
		args = append(args, filter.Branch)
		where += ` AND branch = $` + strconv.Itoa(len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM treasury_payment_batches` + where
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count payment batches", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := `SELECT ` + batchColumns + ` FROM treasury_payment_batches` + where +
		` ORDER BY created_at DESC, batch_id LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to list payment batches", err)
	}
	defer rows.Close()

	batches := []models.PaymentBatch{}
	for rows.Next() {
		m, err := scanBatch(rows)
		if err != nil {
			return nil, 0, apperrors.NewAppError(500, "failed to scan payment batch row", err)
		}
		batches = append(batches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewAppError(500, "error iterating payment batch rows", err)
	}

	return mapping.ToDomainPaymentBatchSlice(batches), total, nil
}

// FindLinesByBatch retrieves every line of a batch in creation order.
func (r *PgxPaymentRepository) FindLinesByBatch(ctx context.Context, institutionID string, batchID string) ([]domain.PaymentLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM treasury_payment_lines
		WHERE institution_id = $1 AND batch_id = $2
		ORDER BY created_at, line_id;
	`
	rows, err := r.Pool.Query(ctx, query, institutionID, batchID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list lines for batch "+batchID, err)
	}
	defer rows.Close()

	lines := []models.PaymentLine{}
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment line row", err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payment line rows", err)
	}

	return mapping.ToDomainPaymentLineSlice(lines), nil
}

// FindLineByID retrieves a line scoped to the institution.
func (r *PgxPaymentRepository) FindLineByID(ctx context.Context, institutionID string, lineID string) (*domain.PaymentLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM treasury_payment_lines
		WHERE line_id = $1 AND institution_id = $2;
	`
	m, err := scanLine(r.Pool.QueryRow(ctx, query, lineID, institutionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payment line "+lineID, err)
	}
	d := mapping.ToDomainPaymentLine(m)
	return &d, nil
}

// SaveLine inserts an additional line on an existing batch.
func (r *PgxPaymentRepository) SaveLine(ctx context.Context, line domain.PaymentLine) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		return insertLineTx(ctx, tx, mapping.ToModelPaymentLine(line))
	})
}

// UpdateBatch rewrites a batch's mutable fields.
func (r *PgxPaymentRepository) UpdateBatch(ctx context.Context, batch domain.PaymentBatch) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		return updateBatchTx(ctx, tx, mapping.ToModelPaymentBatch(batch))
	})
}

// UpdateLine rewrites a line's mutable fields.
func (r *PgxPaymentRepository) UpdateLine(ctx context.Context, line domain.PaymentLine) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		return updateLineTx(ctx, tx, mapping.ToModelPaymentLine(line))
	})
}

// ExecuteBatch applies a batch execution as one atomic unit: lock the
// funding source, debit it by the batch total under the guard, mark the paid
// lines, append one ledger entry per line, and stamp the batch EXECUTED.
func (r *PgxPaymentRepository) ExecuteBatch(ctx context.Context, batch domain.PaymentBatch, paidLines []domain.PaymentLine, txns []domain.TreasuryTransaction, guard portsrepo.BalanceGuard) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	balance, err := lockSourceBalance(ctx, tx, batch.InstitutionID, batch.SourceID)
	if err != nil {
		return err
	}
	delta := batch.TotalAmount.Neg()
	newBalance := balance.Add(delta)
	if err := checkGuard(newBalance, delta, guard); err != nil {
		return err
	}
	if err := updateSourceBalanceTx(ctx, tx, batch.InstitutionID, batch.SourceID, newBalance, batch.ExecutedBy, batch.LastUpdatedAt); err != nil {
		return err
	}

	for _, line := range paidLines {
		if err := updateLineTx(ctx, tx, mapping.ToModelPaymentLine(line)); err != nil {
			return err
		}
	}
	for _, txn := range txns {
		if err := insertTransactionTx(ctx, tx, mapping.ToModelTransaction(txn)); err != nil {
			return err
		}
	}
	if err := updateBatchTx(ctx, tx, mapping.ToModelPaymentBatch(batch)); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// UpdateLineWithTransaction updates one line and appends one ledger entry
// with its balance effect atomically.
func (r *PgxPaymentRepository) UpdateLineWithTransaction(ctx context.Context, line domain.PaymentLine, txn domain.TreasuryTransaction, guard portsrepo.BalanceGuard) error {
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

	if err := updateLineTx(ctx, tx, mapping.ToModelPaymentLine(line)); err != nil {
		return err
	}
	if err := insertTransactionTx(ctx, tx, mapping.ToModelTransaction(txn)); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}
