package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/apperrors"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/events"
	portsrepo "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/repositories"
	portssvc "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/services"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/dto"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/middleware"
)

// paymentService drives payment batches and lines through their lifecycle.
type paymentService struct {
	configSvc   portssvc.ConfigSvcFacade
	paymentRepo portsrepo.PaymentRepository
	sourceRepo  portsrepo.FundingSourceRepository
	sessionRepo portsrepo.SessionRepository
	emitter     events.Emitter
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	configSvc portssvc.ConfigSvcFacade,
	paymentRepo portsrepo.PaymentRepository,
	sourceRepo portsrepo.FundingSourceRepository,
	sessionRepo portsrepo.SessionRepository,
	emitter events.Emitter,
) portssvc.PaymentSvcFacade {
	if emitter == nil {
		emitter = events.Nop{}
	}
	return &paymentService{
		configSvc:   configSvc,
		paymentRepo: paymentRepo,
		sourceRepo:  sourceRepo,
		sessionRepo: sessionRepo,
		emitter:     emitter,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// newBatchReference builds a human-readable batch reference.
func newBatchReference() string {
	return "PB-" + strings.ToUpper(uuid.NewString()[:8])
}

// buildLine validates one line request and materializes the domain line.
func buildLine(cfg *domain.TreasuryConfiguration, batch *domain.PaymentBatch, req dto.CreateLineRequest, userID string, now time.Time) (domain.PaymentLine, error) {
	if !req.Amount.IsPositive() {
		return domain.PaymentLine{}, fmt.Errorf("%w: line amount must be positive", apperrors.ErrValidation)
	}
	if cfg.RequireBeneficiaryDetailsForNonCash && batch.PaymentMethod != domain.MethodCash {
		if req.PayeeName == "" || req.ExternalReference == "" {
			return domain.PaymentLine{}, fmt.Errorf("%w: payee name and external reference are required for %s payments",
				apperrors.ErrMissingBeneficiaryDetails, batch.PaymentMethod)
		}
	}

	requiresApproval := cfg.LineApprovalRequired && req.Amount.GreaterThanOrEqual(cfg.LineApprovalThreshold)
	return domain.PaymentLine{
		LineID:            uuid.NewString(),
		InstitutionID:     batch.InstitutionID,
		BatchID:           batch.BatchID,
		PayeeType:         req.PayeeType,
		PayeeID:           req.PayeeID,
		PayeeName:         req.PayeeName,
		Amount:            req.Amount,
		Currency:          batch.Currency,
		Status:            domain.LinePending,
		ExternalReference: req.ExternalReference,
		LinkedObjectType:  req.LinkedObjectType,
		LinkedObjectID:    req.LinkedObjectID,
		RequiresApproval:  requiresApproval,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}, nil
}

// CreateBatch creates a DRAFT batch with its initial lines.
func (s *paymentService) CreateBatch(ctx context.Context, institutionID string, req dto.CreateBatchRequest, userID string) (*domain.PaymentBatch, error) {
	cfg, err := s.configSvc.GetOrCreate(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	if !cfg.MethodEnabled(req.PaymentMethod) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrPaymentMethodDisabled, req.PaymentMethod)
	}
	source, err := s.sourceRepo.FindSourceByID(ctx, institutionID, req.SourceID)
	if err != nil {
		return nil, err
	}
	if !source.IsActive() {
		return nil, fmt.Errorf("%w: source %s is %s", apperrors.ErrSourceNotActive, source.SourceID, source.State)
	}
	if req.PaymentMethod == domain.MethodCash && source.SourceType != domain.SourceCashDesk {
		return nil, fmt.Errorf("%w: cash batches pay out of a cash desk", apperrors.ErrValidation)
	}
	if req.PaymentMethod != domain.MethodCash && source.SourceType != domain.SourceBank {
		return nil, fmt.Errorf("%w: %s batches pay out of a bank account", apperrors.ErrValidation, req.PaymentMethod)
	}

	now := time.Now()
	batch := domain.PaymentBatch{
		BatchID:         uuid.NewString(),
		InstitutionID:   institutionID,
		Branch:          req.Branch,
		SourceType:      source.SourceType,
		SourceID:        source.SourceID,
		PaymentMethod:   req.PaymentMethod,
		Description:     req.Description,
		PlannedDate:     req.PlannedDate,
		Status:          domain.BatchDraft,
		Currency:        source.Currency,
		ReferenceNumber: newBatchReference(),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	lines := make([]domain.PaymentLine, 0, len(req.Lines))
	for _, lr := range req.Lines {
		line, err := buildLine(cfg, &batch, lr, userID, now)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	batch.TotalAmount = domain.TotalOfLines(lines)

	if err := s.paymentRepo.SaveBatch(ctx, batch, lines); err != nil {
		return nil, fmt.Errorf("failed to create payment batch: %w", err)
	}

	s.emitter.Emit(ctx, institutionID, events.BatchCreated, map[string]any{
		"batchID":     batch.BatchID,
		"sourceID":    batch.SourceID,
		"totalAmount": batch.TotalAmount.String(),
		"lineCount":   len(lines),
	})
	return &batch, nil
}

// GetBatch returns the batch with its lines.
func (s *paymentService) GetBatch(ctx context.Context, institutionID string, batchID string) (*domain.PaymentBatch, []domain.PaymentLine, error) {
	batch, err := s.paymentRepo.FindBatchByID(ctx, institutionID, batchID)
	if err != nil {
		return nil, nil, err
	}
	lines, err := s.paymentRepo.FindLinesByBatch(ctx, institutionID, batchID)
	if err != nil {
		return nil, nil, err
	}
	return batch, lines, nil
}

// ListBatches retrieves one page of batches.
func (s *paymentService) ListBatches(ctx context.Context, institutionID string, filter portsrepo.ListBatchesFilter) ([]domain.PaymentBatch, int, error) {
	return s.paymentRepo.ListBatches(ctx, institutionID, filter)
}

// AddLine appends a line to a batch still open for editing. With the
// edit-after-approval policy on, an APPROVAL_PENDING or APPROVED batch drops
// back to DRAFT and loses its approval stamp.
func (s *paymentService) AddLine(ctx context.Context, institutionID string, batchID string, req dto.CreateLineRequest, userID string) (*domain.PaymentLine, error) {
	cfg, err := s.configSvc.GetOrCreate(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	batch, err := s.paymentRepo.FindBatchByID(ctx, institutionID, batchID)
	if err != nil {
		return nil, err
	}
	switch batch.Status {
	case domain.BatchDraft:
	case domain.BatchApprovalPending, domain.BatchApproved:
		if !cfg.AllowEditAfterApproval {
			return nil, fmt.Errorf("%w: batch %s is %s and editing after approval is disabled",
				apperrors.ErrInvalidStateTransition, batchID, batch.Status)
		}
	default:
		return nil, fmt.Errorf("%w: batch %s is %s", apperrors.ErrInvalidStateTransition, batchID, batch.Status)
	}

	now := time.Now()
	line, err := buildLine(cfg, batch, req, userID, now)
	if err != nil {
		return nil, err
	}
	if err := s.paymentRepo.SaveLine(ctx, line); err != nil {
		return nil, err
	}

	lines, err := s.paymentRepo.FindLinesByBatch(ctx, institutionID, batchID)
	if err != nil {
		return nil, err
	}
	if batch.Status != domain.BatchDraft {
		batch.Status = domain.BatchDraft
		batch.ApprovedBy = ""
		batch.ApprovedAt = nil
	}
	batch.TotalAmount = domain.TotalOfLines(lines)
	batch.LastUpdatedAt = now
	batch.LastUpdatedBy = userID
	if err := s.paymentRepo.UpdateBatch(ctx, *batch); err != nil {
		return nil, err
	}

	return &line, nil
}

// SubmitForApproval recomputes the total and moves the batch forward:
// APPROVAL_PENDING when policy demands an approval, APPROVED directly
// otherwise.
func (s *paymentService) SubmitForApproval(ctx context.Context, institutionID string, batchID string, userID string) (*domain.PaymentBatch, error) {
	cfg, err := s.configSvc.GetOrCreate(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	batch, err := s.paymentRepo.FindBatchByID(ctx, institutionID, batchID)
	if err != nil {
		return nil, err
	}
	if batch.Status != domain.BatchDraft {
		return nil, fmt.Errorf("%w: batch %s is %s, not DRAFT", apperrors.ErrInvalidStateTransition, batchID, batch.Status)
	}

	lines, err := s.paymentRepo.FindLinesByBatch(ctx, institutionID, batchID)
	if err != nil {
		return nil, err
	}
	total := domain.TotalOfLines(lines)
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: batch has no payable lines", apperrors.ErrValidation)
	}

	now := time.Now()
	batch.TotalAmount = total
	batch.LastUpdatedAt = now
	batch.LastUpdatedBy = userID
	if cfg.BatchApprovalRequired && total.GreaterThanOrEqual(cfg.BatchApprovalThreshold) {
		batch.Status = domain.BatchApprovalPending
	} else {
		batch.Status = domain.BatchApproved
		batch.ApprovedBy = userID
		batch.ApprovedAt = &now
	}
	if err := s.paymentRepo.UpdateBatch(ctx, *batch); err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, institutionID, events.BatchSubmitted, map[string]any{
		"batchID": batchID,
		"status":  string(batch.Status),
		"total":   total.String(),
	})
	return batch, nil
}

// ApproveBatch approves an APPROVAL_PENDING batch.
func (s *paymentService) ApproveBatch(ctx context.Context, institutionID string, batchID string, approverUserID string) (*domain.PaymentBatch, error) {
	cfg, err := s.configSvc.GetOrCreate(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	batch, err := s.paymentRepo.FindBatchByID(ctx, institutionID, batchID)
	if err != nil {
		return nil, err
	}
	if batch.Status != domain.BatchApprovalPending {
		return nil, fmt.Errorf("%w: batch %s is %s, not APPROVAL_PENDING", apperrors.ErrInvalidStateTransition, batchID, batch.Status)
	}
	if batch.CreatedBy == approverUserID && !cfg.AllowSelfApproval {
		return nil, apperrors.ErrSelfApprovalNotAllowed
	}

	now := time.Now()
	batch.Status = domain.BatchApproved
	batch.ApprovedBy = approverUserID
	batch.ApprovedAt = &now
	batch.LastUpdatedAt = now
	batch.LastUpdatedBy = approverUserID
	if err := s.paymentRepo.UpdateBatch(ctx, *batch); err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, institutionID, events.BatchApproved, map[string]any{
		"batchID":    batchID,
		"approvedBy": approverUserID,
	})
	return batch, nil
}

// CancelBatch cancels a batch that has not yet been executed.
func (s *paymentService) CancelBatch(ctx context.Context, institutionID string, batchID string, userID string) (*domain.PaymentBatch, error) {
	cfg, err := s.configSvc.GetOrCreate(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	batch, err := s.paymentRepo.FindBatchByID(ctx, institutionID, batchID)
	if err != nil {
		return nil, err
	}
	if !batch.Status.CanTransition(domain.BatchCancelled) {
		return nil, fmt.Errorf("%w: batch %s is %s", apperrors.ErrInvalidStateTransition, batchID, batch.Status)
	}
	// A batch already sitting in front of an approver cannot be withdrawn
	// unilaterally when the policy is on.
	if cfg.CancellationRequiresApproval && batch.Status == domain.BatchApprovalPending {
		return nil, apperrors.ErrApprovalRequiredForCancellation
	}

	now := time.Now()
	batch.Status = domain.BatchCancelled
	batch.LastUpdatedAt = now
	batch.LastUpdatedBy = userID
	if err := s.paymentRepo.UpdateBatch(ctx, *batch); err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, institutionID, events.BatchCancelled, map[string]any{"batchID": batchID})
	return batch, nil
}

// ExecuteBatch debits the source and pays out every pending line as one
// atomic unit.
func (s *paymentService) ExecuteBatch(ctx context.Context, institutionID string, batchID string, req dto.ExecuteBatchRequest, userID string) (*domain.PaymentBatch, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	cfg, err := s.configSvc.GetOrCreate(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	batch, err := s.paymentRepo.FindBatchByID(ctx, institutionID, batchID)
	if err != nil {
		return nil, err
	}
	if batch.Status != domain.BatchApproved {
		return nil, fmt.Errorf("%w: batch %s is %s, not APPROVED", apperrors.ErrInvalidStateTransition, batchID, batch.Status)
	}
	// The toggle may have flipped since the batch was created.
	if !cfg.MethodEnabled(batch.PaymentMethod) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrPaymentMethodDisabled, batch.PaymentMethod)
	}
	if cfg.ExecutionProofRequired && req.ProofReference == "" {
		return nil, apperrors.ErrProofRequired
	}
	source, err := s.sourceRepo.FindSourceByID(ctx, institutionID, batch.SourceID)
	if err != nil {
		return nil, err
	}
	if !source.IsActive() {
		return nil, fmt.Errorf("%w: source %s is %s", apperrors.ErrSourceNotActive, source.SourceID, source.State)
	}

	lines, err := s.paymentRepo.FindLinesByBatch(ctx, institutionID, batchID)
	if err != nil {
		return nil, err
	}

	var sessionID string
	if batch.PaymentMethod == domain.MethodCash {
		session, err := s.sessionRepo.FindOpenSessionBySource(ctx, institutionID, batch.SourceID)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNoOpenSession) {
				return nil, err
			}
			if cfg.RequireOpenSession {
				return nil, err
			}
		} else {
			sessionID = session.SessionID
		}
	}

	now := time.Now()
	needsBeneficiary := cfg.RequireBeneficiaryDetailsForNonCash && batch.PaymentMethod != domain.MethodCash
	paidLines := make([]domain.PaymentLine, 0, len(lines))
	txns := make([]domain.TreasuryTransaction, 0, len(lines))
	for _, line := range lines {
		if line.Status != domain.LinePending {
			continue
		}
		if line.RequiresApproval && !line.Approved {
			return nil, fmt.Errorf("%w: line %s awaits approval", apperrors.ErrUnapprovedLinesRemain, line.LineID)
		}
		if needsBeneficiary && (line.PayeeName == "" || line.PayeeID == "") {
			return nil, fmt.Errorf("%w: line %s has no payee name or ID", apperrors.ErrMissingBeneficiaryDetails, line.LineID)
		}
		if line.ExternalReference == "" && req.ProofReference != "" {
			line.ExternalReference = req.ProofReference
		}
		line.Status = domain.LinePaid
		line.LastUpdatedAt = now
		line.LastUpdatedBy = userID
		paidLines = append(paidLines, line)

		txns = append(txns, domain.TreasuryTransaction{
			TransactionID:     uuid.NewString(),
			InstitutionID:     institutionID,
			SourceType:        batch.SourceType,
			SourceID:          batch.SourceID,
			Direction:         domain.DirectionOut,
			Category:          domain.CategoryBatchPayment,
			Amount:            line.Amount,
			Currency:          line.Currency,
			TransactionDate:   now,
			Reference:         line.ExternalReference,
			CounterpartyName:  line.PayeeName,
			Notes:             req.Notes,
			Status:            domain.TxnPosted,
			LinkedObjectType:  "PAYMENT_LINE",
			LinkedObjectID:    line.LineID,
			CashdeskSessionID: sessionID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		})
	}
	if len(paidLines) == 0 {
		return nil, fmt.Errorf("%w: batch has no pending lines to pay", apperrors.ErrValidation)
	}

	total := domain.TotalOfLines(paidLines)
	batch.Status = domain.BatchExecuted
	batch.TotalAmount = total
	batch.ExecutedBy = userID
	batch.ExecutedAt = &now
	batch.LastUpdatedAt = now
	batch.LastUpdatedBy = userID

	guard := guardFor(cfg, source)
	if err := s.paymentRepo.ExecuteBatch(ctx, *batch, paidLines, txns, guard); err != nil {
		return nil, err
	}

	logger.Info("payment batch executed",
		slog.String("batch_id", batchID), slog.String("total", total.String()), slog.Int("lines", len(paidLines)))
	s.emitter.Emit(ctx, institutionID, events.BatchExecuted, map[string]any{
		"batchID": batchID,
		"total":   total.String(),
		"lines":   len(paidLines),
	})
	return batch, nil
}

// ApproveLine approves a line flagged by the line-approval policy.
func (s *paymentService) ApproveLine(ctx context.Context, institutionID string, lineID string, approverUserID string) (*domain.PaymentLine, error) {
	cfg, err := s.configSvc.GetOrCreate(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	line, err := s.paymentRepo.FindLineByID(ctx, institutionID, lineID)
	if err != nil {
		return nil, err
	}
	if !line.RequiresApproval {
		return nil, fmt.Errorf("%w: line %s does not require approval", apperrors.ErrValidation, lineID)
	}
	if line.Approved {
		return nil, fmt.Errorf("%w: line %s is already approved", apperrors.ErrDuplicate, lineID)
	}
	if line.Status != domain.LinePending {
		return nil, fmt.Errorf("%w: line %s is %s", apperrors.ErrInvalidStateTransition, lineID, line.Status)
	}
	if line.CreatedBy == approverUserID && !cfg.AllowSelfApproval {
		return nil, apperrors.ErrSelfApprovalNotAllowed
	}

	now := time.Now()
	line.Approved = true
	line.ApprovedBy = approverUserID
	line.ApprovedAt = &now
	line.LastUpdatedAt = now
	line.LastUpdatedBy = approverUserID
	if err := s.paymentRepo.UpdateLine(ctx, *line); err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, institutionID, events.LineApproved, map[string]any{"lineID": lineID})
	return line, nil
}

// CancelLine cancels a PENDING line on a not-yet-executed batch and
// recomputes the batch total.
func (s *paymentService) CancelLine(ctx context.Context, institutionID string, lineID string, userID string) (*domain.PaymentLine, error) {
	line, err := s.paymentRepo.FindLineByID(ctx, institutionID, lineID)
	if err != nil {
		return nil, err
	}
	if line.Status != domain.LinePending {
		return nil, fmt.Errorf("%w: line %s is %s", apperrors.ErrInvalidStateTransition, lineID, line.Status)
	}
	batch, err := s.paymentRepo.FindBatchByID(ctx, institutionID, line.BatchID)
	if err != nil {
		return nil, err
	}
	switch batch.Status {
	case domain.BatchDraft, domain.BatchApprovalPending, domain.BatchApproved:
	default:
		return nil, fmt.Errorf("%w: batch %s is %s", apperrors.ErrInvalidStateTransition, batch.BatchID, batch.Status)
	}

	now := time.Now()
	line.Status = domain.LineCancelled
	line.LastUpdatedAt = now
	line.LastUpdatedBy = userID
	if err := s.paymentRepo.UpdateLine(ctx, *line); err != nil {
		return nil, err
	}

	lines, err := s.paymentRepo.FindLinesByBatch(ctx, institutionID, batch.BatchID)
	if err != nil {
		return nil, err
	}
	batch.TotalAmount = domain.TotalOfLines(lines)
	batch.LastUpdatedAt = now
	batch.LastUpdatedBy = userID
	if err := s.paymentRepo.UpdateBatch(ctx, *batch); err != nil {
		return nil, err
	}

	return line, nil
}

// MarkLinePaid settles one line outside batch execution, debiting the source.
// Used for lines that failed or were skipped during execution.
func (s *paymentService) MarkLinePaid(ctx context.Context, institutionID string, lineID string, req dto.MarkLinePaidRequest, userID string) (*domain.PaymentLine, error) {
	cfg, err := s.configSvc.GetOrCreate(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	line, err := s.paymentRepo.FindLineByID(ctx, institutionID, lineID)
	if err != nil {
		return nil, err
	}
	if line.Status != domain.LinePending && line.Status != domain.LineFailed {
		return nil, fmt.Errorf("%w: line %s is %s", apperrors.ErrInvalidStateTransition, lineID, line.Status)
	}
	batch, err := s.paymentRepo.FindBatchByID(ctx, institutionID, line.BatchID)
	if err != nil {
		return nil, err
	}
	switch batch.Status {
	case domain.BatchExecuted, domain.BatchPartiallyReconciled:
	default:
		return nil, fmt.Errorf("%w: batch %s is %s, not executed", apperrors.ErrInvalidStateTransition, batch.BatchID, batch.Status)
	}
	source, err := s.sourceRepo.FindSourceByID(ctx, institutionID, batch.SourceID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	line.Status = domain.LinePaid
	line.FailureReason = ""
	if req.ExternalReference != "" {
		line.ExternalReference = req.ExternalReference
	}
	line.LastUpdatedAt = now
	line.LastUpdatedBy = userID

	txn := domain.TreasuryTransaction{
		TransactionID:    uuid.NewString(),
		InstitutionID:    institutionID,
		SourceType:       batch.SourceType,
		SourceID:         batch.SourceID,
		Direction:        domain.DirectionOut,
		Category:         domain.CategoryBatchPayment,
		Amount:           line.Amount,
		Currency:         line.Currency,
		TransactionDate:  now,
		Reference:        line.ExternalReference,
		CounterpartyName: line.PayeeName,
		Notes:            req.Notes,
		Status:           domain.TxnPosted,
		LinkedObjectType: "PAYMENT_LINE",
		LinkedObjectID:   line.LineID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.paymentRepo.UpdateLineWithTransaction(ctx, *line, txn, guardFor(cfg, source)); err != nil {
		return nil, err
	}

	s.emitter.Emit(ctx, institutionID, events.LinePaid, map[string]any{"lineID": lineID})
	return line, nil
}

// MarkLineFailed flags a line failed. A previously paid line gets its debit
// undone by an IN counter-entry; a pending line just flips status.
func (s *paymentService) MarkLineFailed(ctx context.Context, institutionID string, lineID string, req dto.MarkLineFailedRequest, userID string) (*domain.PaymentLine, error) {
	line, err := s.paymentRepo.FindLineByID(ctx, institutionID, lineID)
	if err != nil {
		return nil, err
	}
	if line.Status != domain.LinePaid && line.Status != domain.LinePending {
		return nil, fmt.Errorf("%w: line %s is %s", apperrors.ErrInvalidStateTransition, lineID, line.Status)
	}
	batch, err := s.paymentRepo.FindBatchByID(ctx, institutionID, line.BatchID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	wasPaid := line.Status == domain.LinePaid
	line.Status = domain.LineFailed
	line.FailureReason = req.Reason
	line.LastUpdatedAt = now
	line.LastUpdatedBy = userID

	if wasPaid {
		refund := domain.TreasuryTransaction{
			TransactionID:    uuid.NewString(),
			InstitutionID:    institutionID,
			SourceType:       batch.SourceType,
			SourceID:         batch.SourceID,
			Direction:        domain.DirectionIn,
			Category:         domain.CategoryReversal,
			Amount:           line.Amount,
			Currency:         line.Currency,
			TransactionDate:  now,
			Reference:        line.ExternalReference,
			CounterpartyName: line.PayeeName,
			Notes:            req.Reason,
			Status:           domain.TxnPosted,
			LinkedObjectType: "PAYMENT_LINE",
			LinkedObjectID:   line.LineID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		// Refunds are inbound; no guard can reject them.
		if err := s.paymentRepo.UpdateLineWithTransaction(ctx, *line, refund, portsrepo.BalanceGuard{AllowNegative: true}); err != nil {
			return nil, err
		}
	} else {
		if err := s.paymentRepo.UpdateLine(ctx, *line); err != nil {
			return nil, err
		}
	}

	s.emitter.Emit(ctx, institutionID, events.LineFailed, map[string]any{
		"lineID": lineID,
		"reason": req.Reason,
	})
	return line, nil
}
