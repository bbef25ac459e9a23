package pgsql

import (
	"context"
	"errors"
	"fmt"
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

const matchColumns = `
	match_id, institution_id, statement_line_id, match_type, matched_id,
	confidence, status, confirmed_by, confirmed_at, rejected_reason,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxReconciliationRepository struct {
	BaseRepository
}

// newPgxReconciliationRepository creates a new repository for reconciliation
// match data.
func newPgxReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepository {
	return &PgxReconciliationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReconciliationRepository = (*PgxReconciliationRepository)(nil)

func scanMatch(row pgx.Row) (models.ReconciliationMatch, error) {
	var m models.ReconciliationMatch
	var confirmedBy, rejectedReason *string
	err := row.Scan(
		&m.MatchID,
		&m.InstitutionID,
		&m.StatementLineID,
		&m.MatchType,
		&m.MatchedID,
		&m.Confidence,
		&m.Status,
		&confirmedBy,
		&m.ConfirmedAt,
		&rejectedReason,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if confirmedBy != nil {
		m.ConfirmedBy = *confirmedBy
	}
	if rejectedReason != nil {
		m.RejectedReason = *rejectedReason
	}
	return m, err
}

// SaveMatches inserts a set of SUGGESTED matches.
func (r *PgxReconciliationRepository) SaveMatches(ctx context.Context, matches []domain.ReconciliationMatch) error {
	if len(matches) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO treasury_reconciliation_matches (` + matchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	batch := &pgx.Batch{}
	for _, match := range matches {
		m := mapping.ToModelMatch(match)
		batch.Queue(query,
			m.MatchID,
			m.InstitutionID,
			m.StatementLineID,
			m.MatchType,
			m.MatchedID,
			m.Confidence,
			m.Status,
			nullIfEmpty(m.ConfirmedBy),
			m.ConfirmedAt,
			nullIfEmpty(m.RejectedReason),
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: duplicate reconciliation match", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert reconciliation matches", err)
	}

	return r.Commit(ctx, tx)
}

// FindMatchByID retrieves a match scoped to the institution.
func (r *PgxReconciliationRepository) FindMatchByID(ctx context.Context, institutionID string, matchID string) (*domain.ReconciliationMatch, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM treasury_reconciliation_matches
		WHERE match_id = $1 AND institution_id = $2;
	`
	m, err := scanMatch(r.Pool.QueryRow(ctx, query, matchID, institutionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find reconciliation match "+matchID, err)
	}
	d := mapping.ToDomainMatch(m)
	return &d, nil
}

func (r *PgxReconciliationRepository) listMatches(ctx context.Context, query string, args ...interface{}) ([]domain.ReconciliationMatch, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list reconciliation matches", err)
	}
	defer rows.Close()

	matches := []models.ReconciliationMatch{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan reconciliation match row", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating reconciliation match rows", err)
	}
	return mapping.ToDomainMatchSlice(matches), nil
}

// ListMatchesByLine returns every match proposed for one statement line,
// highest confidence first.
func (r *PgxReconciliationRepository) ListMatchesByLine(ctx context.Context, institutionID string, statementLineID string) ([]domain.ReconciliationMatch, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM treasury_reconciliation_matches
		WHERE institution_id = $1 AND statement_line_id = $2
		ORDER BY confidence DESC, match_id;
	`
	return r.listMatches(ctx, query, institutionID, statementLineID)
}

// ListMatchesByStatement returns every match proposed for a statement's
// lines.
func (r *PgxReconciliationRepository) ListMatchesByStatement(ctx context.Context, institutionID string, statementID string) ([]domain.ReconciliationMatch, error) {
	query := `
		SELECT m.match_id, m.institution_id, m.statement_line_id, m.match_type, m.matched_id,
		       m.confidence, m.status, m.confirmed_by, m.confirmed_at, m.rejected_reason,
		       m.created_at, m.created_by, m.last_updated_at, m.last_updated_by
		FROM treasury_reconciliation_matches m
		JOIN treasury_bank_statement_lines l ON m.statement_line_id = l.line_id
		WHERE m.institution_id = $1 AND l.statement_id = $2
		ORDER BY l.txn_date, l.line_id, m.confidence DESC, m.match_id;
	`
	return r.listMatches(ctx, query, institutionID, statementID)
}

// ConfirmMatch applies a confirmation atomically: the match becomes
// CONFIRMED, the statement line is flagged matched, the matched record is
// stamped reconciled, and for payment lines the parent batch's
// reconciliation state is rolled forward.
func (r *PgxReconciliationRepository) ConfirmMatch(ctx context.Context, match domain.ReconciliationMatch, confirmedBy string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// Lock the statement line; a second confirmation for the same line waits
	// here and then fails the matched check.
	var alreadyMatched bool
	lineQuery := `
		SELECT matched FROM treasury_bank_statement_lines
		WHERE line_id = $1 AND institution_id = $2
		FOR UPDATE;
	`
	if err := tx.QueryRow(ctx, lineQuery, match.StatementLineID, match.InstitutionID).Scan(&alreadyMatched); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to lock statement line "+match.StatementLineID, err)
	}
	if alreadyMatched {
		return fmt.Errorf("%w: statement line %s already has a confirmed match", apperrors.ErrDuplicate, match.StatementLineID)
	}

	confirmQuery := `
		UPDATE treasury_reconciliation_matches
		SET status = 'CONFIRMED', confirmed_by = $3, confirmed_at = $4,
		    last_updated_at = $4, last_updated_by = $3
		WHERE match_id = $1 AND institution_id = $2 AND status = 'SUGGESTED';
	`
	tag, err := tx.Exec(ctx, confirmQuery, match.MatchID, match.InstitutionID, confirmedBy, now)
	if err != nil {
		return apperrors.NewAppError(500, "failed to confirm match "+match.MatchID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: match %s is not SUGGESTED", apperrors.ErrInvalidStateTransition, match.MatchID)
	}

	markLineQuery := `
		UPDATE treasury_bank_statement_lines
		SET matched = TRUE, last_updated_at = $3, last_updated_by = $4
		WHERE line_id = $1 AND institution_id = $2;
	`
	if _, err := tx.Exec(ctx, markLineQuery, match.StatementLineID, match.InstitutionID, now, confirmedBy); err != nil {
		return apperrors.NewAppError(500, "failed to flag statement line "+match.StatementLineID, err)
	}

	switch match.MatchType {
	case domain.MatchPaymentLine:
		if err := r.reconcilePaymentLineTx(ctx, tx, match.InstitutionID, match.MatchedID, confirmedBy, now); err != nil {
			return err
		}
	case domain.MatchTreasuryTransaction:
		stampQuery := `
			UPDATE treasury_transactions
			SET reconciled_at = $3, last_updated_at = $3, last_updated_by = $4
			WHERE transaction_id = $1 AND institution_id = $2;
		`
		if _, err := tx.Exec(ctx, stampQuery, match.MatchedID, match.InstitutionID, now, confirmedBy); err != nil {
			return apperrors.NewAppError(500, "failed to stamp transaction "+match.MatchedID, err)
		}
	default:
		return fmt.Errorf("%w: unknown match type %s", apperrors.ErrValidation, match.MatchType)
	}

	return r.Commit(ctx, tx)
}

// reconcilePaymentLineTx stamps the payment line reconciled and rolls the
// parent batch forward to PARTIALLY_RECONCILED or RECONCILED.
func (r *PgxReconciliationRepository) reconcilePaymentLineTx(ctx context.Context, tx pgx.Tx, institutionID, lineID, userID string, now time.Time) error {
	var batchID string
	stampQuery := `
		UPDATE treasury_payment_lines
		SET reconciled_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE line_id = $1 AND institution_id = $2
		RETURNING batch_id;
	`
	if err := tx.QueryRow(ctx, stampQuery, lineID, institutionID, now, userID).Scan(&batchID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to stamp payment line "+lineID, err)
	}

	var outstanding int
	outstandingQuery := `
		SELECT COUNT(*) FROM treasury_payment_lines
		WHERE institution_id = $1 AND batch_id = $2
		  AND status NOT IN ('CANCELLED', 'FAILED') AND reconciled_at IS NULL;
	`
	if err := tx.QueryRow(ctx, outstandingQuery, institutionID, batchID).Scan(&outstanding); err != nil {
		return apperrors.NewAppError(500, "failed to count outstanding lines for batch "+batchID, err)
	}

	next := string(domain.BatchPartiallyReconciled)
	if outstanding == 0 {
		next = string(domain.BatchReconciled)
	}
	rollQuery := `
		UPDATE treasury_payment_batches
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE batch_id = $1 AND institution_id = $2
		  AND status IN ('EXECUTED', 'PARTIALLY_RECONCILED');
	`
	if _, err := tx.Exec(ctx, rollQuery, batchID, institutionID, next, now, userID); err != nil {
		return apperrors.NewAppError(500, "failed to roll reconciliation state of batch "+batchID, err)
	}
	return nil
}

// RejectMatch flips a SUGGESTED match to REJECTED with the given reason.
func (r *PgxReconciliationRepository) RejectMatch(ctx context.Context, match domain.ReconciliationMatch, reason string, userID string, now time.Time) error {
	query := `
		UPDATE treasury_reconciliation_matches
		SET status = 'REJECTED', rejected_reason = $3, last_updated_at = $4, last_updated_by = $5
		WHERE match_id = $1 AND institution_id = $2 AND status = 'SUGGESTED';
	`
	tag, err := r.Pool.Exec(ctx, query, match.MatchID, match.InstitutionID, nullIfEmpty(reason), now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to reject match "+match.MatchID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: match %s is not SUGGESTED", apperrors.ErrInvalidStateTransition, match.MatchID)
	}
	return nil
}

// FindPaymentLinesByReference returns paid, unreconciled payment lines whose
// external reference equals ref.
func (r *PgxReconciliationRepository) FindPaymentLinesByReference(ctx context.Context, institutionID string, ref string) ([]domain.PaymentLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM treasury_payment_lines
		WHERE institution_id = $1 AND external_reference = $2
		  AND status = 'PAID' AND reconciled_at IS NULL
		ORDER BY created_at, line_id;
	`
	return r.queryLines(ctx, query, institutionID, ref)
}

// FindCandidatePaymentLines returns paid, unreconciled lines with the given
// amount and currency whose parent batch is paid from the bank account and
// planned within [from, to].
func (r *PgxReconciliationRepository) FindCandidatePaymentLines(ctx context.Context, institutionID string, bankAccountID string, amount decimal.Decimal, currency string, from time.Time, to time.Time) ([]domain.PaymentLine, error) {
	query := `
		SELECT l.line_id, l.institution_id, l.batch_id, l.payee_type, l.payee_id, l.payee_name,
		       l.amount, l.currency, l.status, l.external_reference, l.linked_object_type,
		       l.linked_object_id, l.failure_reason, l.requires_approval, l.approved,
		       l.approved_by, l.approved_at, l.reconciled_at,
		       l.created_at, l.created_by, l.last_updated_at, l.last_updated_by
		FROM treasury_payment_lines l
		JOIN treasury_payment_batches b ON l.batch_id = b.batch_id
		WHERE l.institution_id = $1 AND b.source_id = $2
		  AND l.amount = $3 AND l.currency = $4
		  AND l.status = 'PAID' AND l.reconciled_at IS NULL
		  AND b.planned_date >= $5 AND b.planned_date <= $6
		ORDER BY l.created_at, l.line_id;
	`
	return r.queryLines(ctx, query, institutionID, bankAccountID, amount, currency, from, to)
}

func (r *PgxReconciliationRepository) queryLines(ctx context.Context, query string, args ...interface{}) ([]domain.PaymentLine, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query candidate payment lines", err)
	}
	defer rows.Close()

	lines := []models.PaymentLine{}
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan candidate payment line row", err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating candidate payment line rows", err)
	}
	return mapping.ToDomainPaymentLineSlice(lines), nil
}

// FindTransactionsByReference returns POSTED, unreconciled ledger entries
// whose reference equals ref or whose notes contain it.
func (r *PgxReconciliationRepository) FindTransactionsByReference(ctx context.Context, institutionID string, ref string) ([]domain.TreasuryTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM treasury_transactions
		WHERE institution_id = $1 AND status = 'POSTED' AND reconciled_at IS NULL
		  AND (reference = $2 OR notes LIKE '%' || $2 || '%')
		ORDER BY transaction_date, transaction_id;
	`
	return r.queryTransactions(ctx, query, institutionID, ref)
}

// FindCandidateTransactions returns POSTED, unreconciled ledger entries on
// the bank account with the given amount, currency and direction dated
// within [from, to].
func (r *PgxReconciliationRepository) FindCandidateTransactions(ctx context.Context, institutionID string, bankAccountID string, amount decimal.Decimal, currency string, direction domain.Direction, from time.Time, to time.Time) ([]domain.TreasuryTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM treasury_transactions
		WHERE institution_id = $1 AND source_id = $2
		  AND amount = $3 AND currency = $4 AND direction = $5
		  AND status = 'POSTED' AND reconciled_at IS NULL
		  AND transaction_date >= $6 AND transaction_date <= $7
		ORDER BY transaction_date, transaction_id;
	`
	return r.queryTransactions(ctx, query, institutionID, bankAccountID, amount, currency, string(direction), from, to)
}

func (r *PgxReconciliationRepository) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]domain.TreasuryTransaction, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query candidate transactions", err)
	}
	defer rows.Close()

	txns := []models.TreasuryTransaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan candidate transaction row", err)
		}
		txns = append(txns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating candidate transaction rows", err)
	}
	return mapping.ToDomainTransactionSlice(txns), nil
}
