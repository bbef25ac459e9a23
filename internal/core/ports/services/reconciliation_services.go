package services

import (
	"context"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/dto"
)

// ReconciliationSvcFacade runs the confidence-scored matcher over imported
// statements and handles manual confirm/reject.
type ReconciliationSvcFacade interface {
	// AutoMatch proposes matches for every unmatched line of the statement,
	// auto-confirming unambiguous candidates at or above the configured
	// confidence threshold.
	AutoMatch(ctx context.Context, institutionID string, statementID string, userID string) (*dto.AutoMatchResult, error)

	Confirm(ctx context.Context, institutionID string, matchID string, userID string) (*domain.ReconciliationMatch, error)

	Reject(ctx context.Context, institutionID string, matchID string, reason string, userID string) (*domain.ReconciliationMatch, error)

	ListMatchesByStatement(ctx context.Context, institutionID string, statementID string) ([]domain.ReconciliationMatch, error)

	ListMatchesByLine(ctx context.Context, institutionID string, statementLineID string) ([]domain.ReconciliationMatch, error)
}
