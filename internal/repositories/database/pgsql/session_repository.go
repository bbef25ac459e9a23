package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/apperrors"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	portsrepo "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/repositories"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/models"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const sessionColumns = `
	session_id, institution_id, source_id, status,
	opened_by, opened_at, opening_count,
	closed_by, closed_at, closing_count,
	discrepancy, discrepancy_note,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxSessionRepository struct {
	BaseRepository
}

// newPgxSessionRepository creates a new repository for cash desk session data.
func newPgxSessionRepository(pool *pgxpool.Pool) portsrepo.SessionRepository {
	return &PgxSessionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SessionRepository = (*PgxSessionRepository)(nil)

func scanSession(row pgx.Row) (models.CashDeskSession, error) {
	var m models.CashDeskSession
	var closedBy, discrepancyNote *string
	err := row.Scan(
		&m.SessionID,
		&m.InstitutionID,
		&m.SourceID,
		&m.Status,
		&m.OpenedBy,
		&m.OpenedAt,
		&m.OpeningCount,
		&closedBy,
		&m.ClosedAt,
		&m.ClosingCount,
		&m.Discrepancy,
		&discrepancyNote,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if closedBy != nil {
		m.ClosedBy = *closedBy
	}
	if discrepancyNote != nil {
		m.DiscrepancyNote = *discrepancyNote
	}
	return m, err
}

// SaveSession inserts a new OPEN session. The partial unique index on
// (source_id) WHERE status = 'OPEN' turns a concurrent double open into a
// unique violation.
func (r *PgxSessionRepository) SaveSession(ctx context.Context, session domain.CashDeskSession) error {
	m := mapping.ToModelSession(session)
	query := `
		INSERT INTO treasury_cashdesk_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.SessionID,
		m.InstitutionID,
		m.SourceID,
		m.Status,
		m.OpenedBy,
		m.OpenedAt,
		m.OpeningCount,
		nullIfEmpty(m.ClosedBy),
		m.ClosedAt,
		m.ClosingCount,
		m.Discrepancy,
		nullIfEmpty(m.DiscrepancyNote),
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: cash desk %s", apperrors.ErrSessionAlreadyOpen, m.SourceID)
		}
		return apperrors.NewAppError(500, "failed to save session "+m.SessionID, err)
	}
	return nil
}

// FindOpenSessionBySource returns the desk's OPEN session.
func (r *PgxSessionRepository) FindOpenSessionBySource(ctx context.Context, institutionID string, sourceID string) (*domain.CashDeskSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM treasury_cashdesk_sessions
		WHERE institution_id = $1 AND source_id = $2 AND status = 'OPEN';
	`
	m, err := scanSession(r.Pool.QueryRow(ctx, query, institutionID, sourceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: cash desk %s", apperrors.ErrNoOpenSession, sourceID)
		}
		return nil, apperrors.NewAppError(500, "failed to find open session for desk "+sourceID, err)
	}
	d := mapping.ToDomainSession(m)
	return &d, nil
}

// FindSessionByID retrieves a session scoped to the institution.
func (r *PgxSessionRepository) FindSessionByID(ctx context.Context, institutionID string, sessionID string) (*domain.CashDeskSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM treasury_cashdesk_sessions
		WHERE session_id = $1 AND institution_id = $2;
	`
	m, err := scanSession(r.Pool.QueryRow(ctx, query, sessionID, institutionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find session "+sessionID, err)
	}
	d := mapping.ToDomainSession(m)
	return &d, nil
}

// CloseSession writes the closing fields and flips status to CLOSED. The
// status guard in the WHERE clause makes a double close a no-op update.
func (r *PgxSessionRepository) CloseSession(ctx context.Context, session domain.CashDeskSession) error {
	m := mapping.ToModelSession(session)
	query := `
		UPDATE treasury_cashdesk_sessions
		SET status = 'CLOSED', closed_by = $3, closed_at = $4, closing_count = $5,
		    discrepancy = $6, discrepancy_note = $7,
		    last_updated_at = $8, last_updated_by = $9
		WHERE session_id = $1 AND institution_id = $2 AND status = 'OPEN';
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.SessionID,
		m.InstitutionID,
		m.ClosedBy,
		m.ClosedAt,
		m.ClosingCount,
		m.Discrepancy,
		nullIfEmpty(m.DiscrepancyNote),
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to close session "+m.SessionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: session %s is not open", apperrors.ErrInvalidStateTransition, m.SessionID)
	}
	return nil
}

// ListSessions retrieves one page of a desk's sessions, newest first.
func (r *PgxSessionRepository) ListSessions(ctx context.Context, institutionID string, sourceID string, limit int, offset int) ([]domain.CashDeskSession, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(*) FROM treasury_cashdesk_sessions
		WHERE institution_id = $1 AND source_id = $2;
	`
	if err := r.Pool.QueryRow(ctx, countQuery, institutionID, sourceID).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count sessions for desk "+sourceID, err)
	}

	query := `
		SELECT ` + sessionColumns + `
		FROM treasury_cashdesk_sessions
		WHERE institution_id = $1 AND source_id = $2
		ORDER BY opened_at DESC, session_id
		LIMIT $3 OFFSET $4;
	`
	rows, err := r.Pool.Query(ctx, query, institutionID, sourceID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to list sessions for desk "+sourceID, err)
	}
	defer rows.Close()

	sessions := []models.CashDeskSession{}
	for rows.Next() {
		m, err := scanSession(rows)
		if err != nil {
			return nil, 0, apperrors.NewAppError(500, "failed to scan session row", err)
		}
		sessions = append(sessions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewAppError(500, "error iterating session rows", err)
	}

	return mapping.ToDomainSessionSlice(sessions), total, nil
}

// nullIfEmpty maps empty strings to SQL NULL for nullable text columns.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
