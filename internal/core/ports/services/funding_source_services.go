package services

import (
	"context"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	portsrepo "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/repositories"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/dto"
)

// FundingSourceSvcFacade owns bank accounts and cash desks and the money
// movements between them. Balance fields are only ever changed through the
// ledger's atomic adjust, which these operations delegate to.
type FundingSourceSvcFacade interface {
	CreateBankAccount(ctx context.Context, institutionID string, req dto.CreateBankAccountRequest, userID string) (*domain.FundingSource, error)
	CreateCashDesk(ctx context.Context, institutionID string, req dto.CreateCashDeskRequest, userID string) (*domain.FundingSource, error)
	GetSource(ctx context.Context, institutionID string, sourceID string) (*domain.FundingSource, error)
	ListSources(ctx context.Context, institutionID string, filter portsrepo.ListSourcesFilter) ([]domain.FundingSource, int, error)
	RetireSource(ctx context.Context, institutionID string, sourceID string, userID string) error

	// CashIn records an inbound cash movement on a desk.
	CashIn(ctx context.Context, institutionID string, deskID string, req dto.CashMovementRequest, userID string) (*domain.TreasuryTransaction, error)
	// CashOut records an outbound cash movement; large amounts may land in
	// APPROVAL_PENDING per the cash-out approval threshold.
	CashOut(ctx context.Context, institutionID string, deskID string, req dto.CashMovementRequest, userID string) (*domain.TreasuryTransaction, error)
	// TransferToBank moves counted cash from a desk into a bank account;
	// both ledger legs commit atomically. Returns the outbound desk leg.
	TransferToBank(ctx context.Context, institutionID string, deskID string, req dto.TransferToBankRequest, userID string) (*domain.TreasuryTransaction, error)
	// WithdrawToCashDesk moves money from a bank account into a desk.
	// Returns the outbound bank leg.
	WithdrawToCashDesk(ctx context.Context, institutionID string, bankAccountID string, req dto.WithdrawToCashDeskRequest, userID string) (*domain.TreasuryTransaction, error)
}
