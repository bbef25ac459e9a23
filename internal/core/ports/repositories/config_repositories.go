package repositories

import (
	"context"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
)

// ConfigRepository persists the per-institution treasury configuration.
type ConfigRepository interface {
	// FindActiveConfig returns the single active configuration, or
	// apperrors.ErrNotFound when the institution has none yet. When duplicate
	// active rows exist it returns the newest one.
	FindActiveConfig(ctx context.Context, institutionID string) (*domain.TreasuryConfiguration, error)

	// SaveConfig inserts a new configuration row.
	SaveConfig(ctx context.Context, cfg domain.TreasuryConfiguration) error

	// UpdateConfig rewrites an existing configuration in place.
	UpdateConfig(ctx context.Context, cfg domain.TreasuryConfiguration) error

	// DeactivateOlderConfigs repairs duplicate active rows, deactivating every
	// active configuration for the institution except keepConfigID. Returns
	// the number of rows deactivated.
	DeactivateOlderConfigs(ctx context.Context, institutionID string, keepConfigID string) (int, error)
}
