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
)

const statementColumns = `
	statement_id, institution_id, bank_account_id, period_start, period_end,
	status, line_count,
	created_at, created_by, last_updated_at, last_updated_by`

const statementLineColumns = `
	line_id, institution_id, statement_id, txn_date, description,
	amount_signed, currency, reference_raw, external_id, matched,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxStatementRepository struct {
	BaseRepository
}

// newPgxStatementRepository creates a new repository for bank statement data.
func newPgxStatementRepository(pool *pgxpool.Pool) portsrepo.StatementRepository {
	return &PgxStatementRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.StatementRepository = (*PgxStatementRepository)(nil)

func scanStatement(row pgx.Row) (models.BankStatement, error) {
	var m models.BankStatement
	err := row.Scan(
		&m.StatementID,
		&m.InstitutionID,
		&m.BankAccountID,
		&m.PeriodStart,
		&m.PeriodEnd,
		&m.Status,
		&m.LineCount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanStatementLine(row pgx.Row) (models.BankStatementLine, error) {
	var m models.BankStatementLine
	err := row.Scan(
		&m.LineID,
		&m.InstitutionID,
		&m.StatementID,
		&m.TxnDate,
		&m.Description,
		&m.AmountSigned,
		&m.Currency,
		&m.ReferenceRaw,
		&m.ExternalID,
		&m.Matched,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveStatement inserts the statement and all its lines in one transaction.
func (r *PgxStatementRepository) SaveStatement(ctx context.Context, stmt domain.BankStatement, lines []domain.BankStatementLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelStatement(stmt)
	query := `
		INSERT INTO treasury_bank_statements (` + statementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, query,
		m.StatementID,
		m.InstitutionID,
		m.BankAccountID,
		m.PeriodStart,
		m.PeriodEnd,
		m.Status,
		m.LineCount,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: statement %s already exists", apperrors.ErrDuplicate, m.StatementID)
		}
		return apperrors.NewAppError(500, "failed to insert statement "+m.StatementID, err)
	}

	lineQuery := `
		INSERT INTO treasury_bank_statement_lines (` + statementLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		lm := mapping.ToModelStatementLine(line)
		batch.Queue(lineQuery,
			lm.LineID,
			lm.InstitutionID,
			lm.StatementID,
			lm.TxnDate,
			lm.Description,
			lm.AmountSigned,
			lm.Currency,
			lm.ReferenceRaw,
			lm.ExternalID,
			lm.Matched,
			lm.CreatedAt,
			lm.CreatedBy,
			lm.LastUpdatedAt,
			lm.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for statement "+m.StatementID, err)
	}

	return r.Commit(ctx, tx)
}

// FindStatementByID retrieves a statement scoped to the institution.
func (r *PgxStatementRepository) FindStatementByID(ctx context.Context, institutionID string, statementID string) (*domain.BankStatement, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM treasury_bank_statements
		WHERE statement_id = $1 AND institution_id = $2;
	`
	m, err := scanStatement(r.Pool.QueryRow(ctx, query, statementID, institutionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find statement "+statementID, err)
	}
	d := mapping.ToDomainStatement(m)
	return &d, nil
}

// ListStatements retrieves one page of statements plus the total count.
func (r *PgxStatementRepository) ListStatements(ctx context.Context, institutionID string, bankAccountID string, limit int, offset int) ([]domain.BankStatement, int, error) {
	where := ` WHERE institution_id = $1`
	args := []interface{}{institutionID}
	if bankAccountID != "" {
		args = append(args, bankAccountID)
		where += ` AND bank_account_id = $2`
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM treasury_bank_statements` + where
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count statements", err)
	}

	args = append(args, limit, offset)
	query := `SELECT ` + statementColumns + ` FROM treasury_bank_statements` + where +
		fmt.Sprintf(` ORDER BY period_end DESC, statement_id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to list statements", err)
	}
	defer rows.Close()

	stmts := []models.BankStatement{}
	for rows.Next() {
		m, err := scanStatement(rows)
		if err != nil {
			return nil, 0, apperrors.NewAppError(500, "failed to scan statement row", err)
		}
		stmts = append(stmts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewAppError(500, "error iterating statement rows", err)
	}

	return mapping.ToDomainStatementSlice(stmts), total, nil
}

// ListStatementLines retrieves one page of a statement's lines in statement
// order.
func (r *PgxStatementRepository) ListStatementLines(ctx context.Context, institutionID string, statementID string, limit int, offset int) ([]domain.BankStatementLine, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(*) FROM treasury_bank_statement_lines
		WHERE institution_id = $1 AND statement_id = $2;
	`
	if err := r.Pool.QueryRow(ctx, countQuery, institutionID, statementID).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count lines for statement "+statementID, err)
	}

	query := `
		SELECT ` + statementLineColumns + `
		FROM treasury_bank_statement_lines
		WHERE institution_id = $1 AND statement_id = $2
		ORDER BY txn_date, line_id
		LIMIT $3 OFFSET $4;
	`
	rows, err := r.Pool.Query(ctx, query, institutionID, statementID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to list lines for statement "+statementID, err)
	}
	defer rows.Close()

	lines := []models.BankStatementLine{}
	for rows.Next() {
		m, err := scanStatementLine(rows)
		if err != nil {
			return nil, 0, apperrors.NewAppError(500, "failed to scan statement line row", err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewAppError(500, "error iterating statement line rows", err)
	}

	return mapping.ToDomainStatementLineSlice(lines), total, nil
}

// FindUnmatchedLines returns every line of the statement without a CONFIRMED
// match, in statement order.
func (r *PgxStatementRepository) FindUnmatchedLines(ctx context.Context, institutionID string, statementID string) ([]domain.BankStatementLine, error) {
	query := `
		SELECT ` + statementLineColumns + `
		FROM treasury_bank_statement_lines
		WHERE institution_id = $1 AND statement_id = $2 AND matched = FALSE
		ORDER BY txn_date, line_id;
	`
	rows, err := r.Pool.Query(ctx, query, institutionID, statementID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find unmatched lines for statement "+statementID, err)
	}
	defer rows.Close()

	lines := []models.BankStatementLine{}
	for rows.Next() {
		m, err := scanStatementLine(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan statement line row", err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating statement line rows", err)
	}

	return mapping.ToDomainStatementLineSlice(lines), nil
}

// FindStatementsByStatus returns up to limit statements in the given status
// across all institutions, oldest first.
func (r *PgxStatementRepository) FindStatementsByStatus(ctx context.Context, status domain.StatementStatus, limit int) ([]domain.BankStatement, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM treasury_bank_statements
		WHERE status = $1
		ORDER BY created_at, statement_id
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, string(status), limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to find statements by status", err)
	}
	defer rows.Close()

	stmts := []models.BankStatement{}
	for rows.Next() {
		m, err := scanStatement(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan statement row", err)
		}
		stmts = append(stmts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating statement rows", err)
	}

	return mapping.ToDomainStatementSlice(stmts), nil
}

// FindStatementLineByID retrieves one statement line scoped to the
// institution.
func (r *PgxStatementRepository) FindStatementLineByID(ctx context.Context, institutionID string, lineID string) (*domain.BankStatementLine, error) {
	query := `
		SELECT ` + statementLineColumns + `
		FROM treasury_bank_statement_lines
		WHERE line_id = $1 AND institution_id = $2;
	`
	m, err := scanStatementLine(r.Pool.QueryRow(ctx, query, lineID, institutionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find statement line "+lineID, err)
	}
	d := mapping.ToDomainStatementLine(m)
	return &d, nil
}

// UpdateStatementStatus moves a statement through its lifecycle.
func (r *PgxStatementRepository) UpdateStatementStatus(ctx context.Context, institutionID string, statementID string, status domain.StatementStatus, userID string, now time.Time) error {
	query := `
		UPDATE treasury_bank_statements
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE statement_id = $1 AND institution_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, statementID, institutionID, string(status), now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of statement "+statementID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
