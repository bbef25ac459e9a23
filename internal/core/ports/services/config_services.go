package services

import (
	"context"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/dto"
)

// ConfigSvcFacade resolves the active treasury configuration for an
// institution. Every other treasury service consults it for policy.
type ConfigSvcFacade interface {
	// GetOrCreate returns the institution's active configuration, lazily
	// creating a default one on first access and repairing duplicate active
	// rows if found.
	GetOrCreate(ctx context.Context, institutionID string) (*domain.TreasuryConfiguration, error)

	// Update applies a partial update; fields not provided keep their value.
	Update(ctx context.Context, institutionID string, req dto.UpdateConfigRequest, userID string) (*domain.TreasuryConfiguration, error)
}
