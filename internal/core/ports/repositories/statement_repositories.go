package repositories

import (
	"context"
	"time"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
)

// StatementRepository persists imported bank statements and their lines.
type StatementRepository interface {
	// SaveStatement inserts the statement and all its lines in one
	// transaction.
	SaveStatement(ctx context.Context, stmt domain.BankStatement, lines []domain.BankStatementLine) error

	FindStatementByID(ctx context.Context, institutionID string, statementID string) (*domain.BankStatement, error)

	ListStatements(ctx context.Context, institutionID string, bankAccountID string, limit int, offset int) ([]domain.BankStatement, int, error)

	ListStatementLines(ctx context.Context, institutionID string, statementID string, limit int, offset int) ([]domain.BankStatementLine, int, error)

	// FindUnmatchedLines returns every line of the statement without a
	// CONFIRMED match, in statement order.
	FindUnmatchedLines(ctx context.Context, institutionID string, statementID string) ([]domain.BankStatementLine, error)

	FindStatementLineByID(ctx context.Context, institutionID string, lineID string) (*domain.BankStatementLine, error)

	// FindStatementsByStatus returns up to limit statements in the given
	// status across all institutions, oldest first. Used by the background
	// auto-match sweep.
	FindStatementsByStatus(ctx context.Context, status domain.StatementStatus, limit int) ([]domain.BankStatement, error)

	UpdateStatementStatus(ctx context.Context, institutionID string, statementID string, status domain.StatementStatus, userID string, now time.Time) error
}
