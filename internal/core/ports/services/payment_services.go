package services

import (
	"context"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	portsrepo "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/repositories"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/dto"
)

// PaymentSvcFacade drives payment batches and lines through their lifecycle:
// draft, approval, execution, ad-hoc corrections.
type PaymentSvcFacade interface {
	CreateBatch(ctx context.Context, institutionID string, req dto.CreateBatchRequest, userID string) (*domain.PaymentBatch, error)

	// GetBatch returns the batch together with its lines.
	GetBatch(ctx context.Context, institutionID string, batchID string) (*domain.PaymentBatch, []domain.PaymentLine, error)

	ListBatches(ctx context.Context, institutionID string, filter portsrepo.ListBatchesFilter) ([]domain.PaymentBatch, int, error)

	// AddLine appends a line to a batch still open for editing.
	AddLine(ctx context.Context, institutionID string, batchID string, req dto.CreateLineRequest, userID string) (*domain.PaymentLine, error)

	// SubmitForApproval recomputes the total and moves the batch to
	// APPROVAL_PENDING, or straight to APPROVED when policy allows.
	SubmitForApproval(ctx context.Context, institutionID string, batchID string, userID string) (*domain.PaymentBatch, error)

	ApproveBatch(ctx context.Context, institutionID string, batchID string, approverUserID string) (*domain.PaymentBatch, error)

	CancelBatch(ctx context.Context, institutionID string, batchID string, userID string) (*domain.PaymentBatch, error)

	// ExecuteBatch debits the source and pays out every pending line as one
	// atomic unit.
	ExecuteBatch(ctx context.Context, institutionID string, batchID string, req dto.ExecuteBatchRequest, userID string) (*domain.PaymentBatch, error)

	ApproveLine(ctx context.Context, institutionID string, lineID string, approverUserID string) (*domain.PaymentLine, error)

	CancelLine(ctx context.Context, institutionID string, lineID string, userID string) (*domain.PaymentLine, error)

	// MarkLinePaid settles a single line outside batch execution.
	MarkLinePaid(ctx context.Context, institutionID string, lineID string, req dto.MarkLinePaidRequest, userID string) (*domain.PaymentLine, error)

	// MarkLineFailed flags a line failed; a previously paid line gets its
	// debit reversed by a counter-entry.
	MarkLineFailed(ctx context.Context, institutionID string, lineID string, req dto.MarkLineFailedRequest, userID string) (*domain.PaymentLine, error)
}
