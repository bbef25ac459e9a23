package services

import (
	"context"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/dto"
)

// StatementSvcFacade ingests pre-parsed bank statements.
type StatementSvcFacade interface {
	// Import creates the statement and its lines; fails with
	// apperrors.ErrReconciliationDisabled when reconciliation is off.
	Import(ctx context.Context, institutionID string, req dto.ImportStatementRequest, userID string) (*domain.BankStatement, error)

	GetStatement(ctx context.Context, institutionID string, statementID string) (*domain.BankStatement, error)

	ListStatements(ctx context.Context, institutionID string, bankAccountID string, limit int, offset int) ([]domain.BankStatement, int, error)

	ListLines(ctx context.Context, institutionID string, statementID string, limit int, offset int) ([]domain.BankStatementLine, int, error)

	ArchiveStatement(ctx context.Context, institutionID string, statementID string, userID string) (*domain.BankStatement, error)
}
