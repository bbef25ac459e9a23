package repositories

import (
	"context"
	"time"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
)

// ListSourcesFilter narrows ListSources.
type ListSourcesFilter struct {
	SourceType *domain.SourceType
	Branch     string
	Limit      int
	Offset     int
}

// FundingSourceRepository persists bank accounts and cash desks. It never
// touches CurrentBalance: that column belongs to the ledger repository's
// atomic adjust.
type FundingSourceRepository interface {
	SaveSource(ctx context.Context, source domain.FundingSource) error

	// FindSourceByID returns the source, apperrors.ErrNotFound if absent or
	// belonging to a different institution.
	FindSourceByID(ctx context.Context, institutionID string, sourceID string) (*domain.FundingSource, error)

	// ListSources returns one page of sources and the total count.
	ListSources(ctx context.Context, institutionID string, filter ListSourcesFilter) ([]domain.FundingSource, int, error)

	// UpdateSourceState moves the source through its lifecycle
	// (ACTIVE/LOCKED/RETIRED).
	UpdateSourceState(ctx context.Context, institutionID string, sourceID string, state domain.SourceState, userID string, now time.Time) error
}
