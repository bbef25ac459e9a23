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
)

const sourceColumns = `
	source_id, institution_id, branch, source_type, name, currency,
	bank_name, account_number, custodian_employee_id,
	opening_balance, current_balance, state,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxFundingSourceRepository struct {
	BaseRepository
}

// newPgxFundingSourceRepository creates a new repository for funding source data.
func newPgxFundingSourceRepository(pool *pgxpool.Pool) portsrepo.FundingSourceRepository {
	return &PgxFundingSourceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FundingSourceRepository = (*PgxFundingSourceRepository)(nil)

func scanSource(row pgx.Row) (models.FundingSource, error) {
	var m models.FundingSource
	err := row.Scan(
		&m.SourceID,
		&m.InstitutionID,
		&m.Branch,
		&m.SourceType,
		&m.Name,
		&m.Currency,
		&m.BankName,
		&m.AccountNumber,
		&m.CustodianEmployeeID,
		&m.OpeningBalance,
		&m.CurrentBalance,
		&m.State,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveSource inserts a new funding source.
func (r *PgxFundingSourceRepository) SaveSource(ctx context.Context, source domain.FundingSource) error {
	m := mapping.ToModelFundingSource(source)
	query := `
		INSERT INTO treasury_funding_sources (` + sourceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.SourceID,
		m.InstitutionID,
		m.Branch,
		m.SourceType,
		m.Name,
		m.Currency,
		m.BankName,
		m.AccountNumber,
		m.CustodianEmployeeID,
		m.OpeningBalance,
		m.CurrentBalance,
		m.State,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: funding source %s already exists", apperrors.ErrDuplicate, m.SourceID)
		}
		return apperrors.NewAppError(500, "failed to save funding source "+m.SourceID, err)
	}
	return nil
}

// FindSourceByID retrieves a funding source scoped to the institution.
func (r *PgxFundingSourceRepository) FindSourceByID(ctx context.Context, institutionID string, sourceID string) (*domain.FundingSource, error) {
	query := `
		SELECT ` + sourceColumns + `
		FROM treasury_funding_sources
		WHERE source_id = $1 AND institution_id = $2;
	`
	m, err := scanSource(r.Pool.QueryRow(ctx, query, sourceID, institutionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find funding source "+sourceID, err)
	}
	d := mapping.ToDomainFundingSource(m)
	return &d, nil
}

// ListSources retrieves one page of funding sources plus the total count.
func (r *PgxFundingSourceRepository) ListSources(ctx context.Context, institutionID string, filter portsrepo.ListSourcesFilter) ([]domain.FundingSource, int, error) {
	where := ` WHERE institution_id = $1`
	args := []interface{}{institutionID}
	if filter.SourceType != nil {
		args = append(args, string(*filter.SourceType))
		where += ` AND source_type = $` + strconv.Itoa(len(args))
	}
	if filter.Branch != "" {
		args = append(args, filter.Branch)
		where += ` AND branch = $` + strconv.Itoa(len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM treasury_funding_sources` + where
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count funding sources", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := `SELECT ` + sourceColumns + ` FROM treasury_funding_sources` + where +
		` ORDER BY created_at DESC, source_id LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to list funding sources", err)
	}
	defer rows.Close()

	sources := []models.FundingSource{}
	for rows.Next() {
		m, err := scanSource(rows)
		if err != nil {
			return nil, 0, apperrors.NewAppError(500, "failed to scan funding source row", err)
		}
		sources = append(sources, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewAppError(500, "error iterating funding source rows", err)
	}

	return mapping.ToDomainFundingSourceSlice(sources), total, nil
}

// UpdateSourceState moves a funding source through its lifecycle.
func (r *PgxFundingSourceRepository) UpdateSourceState(ctx context.Context, institutionID string, sourceID string, state domain.SourceState, userID string, now time.Time) error {
	query := `
		UPDATE treasury_funding_sources
		SET state = $3, last_updated_at = $4, last_updated_by = $5
		WHERE source_id = $1 AND institution_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, sourceID, institutionID, string(state), now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update state of funding source "+sourceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
