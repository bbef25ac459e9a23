package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
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

// reconciliationService pairs statement lines with the internal records that
// caused them. Matching runs in two passes per line: an exact reference pass,
// then an amount/date window pass.
type reconciliationService struct {
	configSvc     portssvc.ConfigSvcFacade
	reconRepo     portsrepo.ReconciliationRepository
	statementRepo portsrepo.StatementRepository
	emitter       events.Emitter
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(
	configSvc portssvc.ConfigSvcFacade,
	reconRepo portsrepo.ReconciliationRepository,
	statementRepo portsrepo.StatementRepository,
	emitter events.Emitter,
) portssvc.ReconciliationSvcFacade {
	if emitter == nil {
		emitter = events.Nop{}
	}
	return &reconciliationService{
		configSvc:     configSvc,
		reconRepo:     reconRepo,
		statementRepo: statementRepo,
		emitter:       emitter,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// candidate is one scored pairing produced by the matcher before it is
// persisted.
type candidate struct {
	matchType  domain.MatchType
	matchedID  string
	confidence int
}

// collectCandidates scores every plausible internal record for one statement
// line. A negative signed amount is money leaving the bank, so it can pair
// with payment lines and OUT ledger entries; a positive amount only with IN
// entries.
func (s *reconciliationService) collectCandidates(ctx context.Context, institutionID string, bankAccountID string, line domain.BankStatementLine, windowDays int) ([]candidate, error) {
	outbound := line.AmountSigned.IsNegative()
	amount := line.AmountSigned.Abs()
	direction := domain.DirectionIn
	if outbound {
		direction = domain.DirectionOut
	}

	var cands []candidate
	seen := map[string]bool{}
	add := func(matchType domain.MatchType, matchedID string, confidence int) {
		key := string(matchType) + ":" + matchedID
		if seen[key] {
			return
		}
		seen[key] = true
		cands = append(cands, candidate{matchType: matchType, matchedID: matchedID, confidence: confidence})
	}

	// Reference pass: referenceRaw first, then the provider's external ID.
	// An exact reference hit stands on its own; a differing amount (partial
	// payment, fee-adjusted) still gets proposed at reference confidence.
	for _, ref := range []string{line.ReferenceRaw, line.ExternalID} {
		if ref == "" {
			continue
		}
		if outbound {
			paymentLines, err := s.reconRepo.FindPaymentLinesByReference(ctx, institutionID, ref)
			if err != nil {
				return nil, err
			}
			for _, pl := range paymentLines {
				add(domain.MatchPaymentLine, pl.LineID, domain.ConfidenceLineReference)
			}
		}
		txns, err := s.reconRepo.FindTransactionsByReference(ctx, institutionID, ref)
		if err != nil {
			return nil, err
		}
		for _, txn := range txns {
			if txn.SourceID == bankAccountID {
				add(domain.MatchTreasuryTransaction, txn.TransactionID, domain.ConfidenceTxnReference)
			}
		}
	}

	// Window pass: amount, currency and direction within the configured span
	// around the statement date. Tried only when the reference pass came up
	// empty.
	if len(cands) == 0 {
		from := line.TxnDate.AddDate(0, 0, -windowDays)
		to := line.TxnDate.AddDate(0, 0, windowDays)
		if outbound {
			paymentLines, err := s.reconRepo.FindCandidatePaymentLines(ctx, institutionID, bankAccountID, amount, line.Currency, from, to)
			if err != nil {
				return nil, err
			}
			for _, pl := range paymentLines {
				add(domain.MatchPaymentLine, pl.LineID, domain.ConfidenceLineWindow)
			}
		}
		txns, err := s.reconRepo.FindCandidateTransactions(ctx, institutionID, bankAccountID, amount, line.Currency, direction, from, to)
		if err != nil {
			return nil, err
		}
		for _, txn := range txns {
			add(domain.MatchTreasuryTransaction, txn.TransactionID, domain.ConfidenceTxnWindow)
		}
	}

	// Highest confidence first; ties break on matched ID so reruns propose
	// the same ordering.
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].confidence != cands[j].confidence {
			return cands[i].confidence > cands[j].confidence
		}
		return cands[i].matchedID < cands[j].matchedID
	})
	return cands, nil
}

// AutoMatch runs the matcher over every unmatched line of the statement. A
// single top candidate at or above the auto-confirm threshold is confirmed
// immediately; a tied top score is left SUGGESTED for an operator.
func (s *reconciliationService) AutoMatch(ctx context.Context, institutionID string, statementID string, userID string) (*dto.AutoMatchResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	cfg, err := s.configSvc.GetOrCreate(ctx, institutionID)
	if err != nil {
		return nil, err
	}
	if !cfg.ReconciliationEnabled {
		return nil, apperrors.ErrReconciliationDisabled
	}
	stmt, err := s.statementRepo.FindStatementByID(ctx, institutionID, statementID)
	if err != nil {
		return nil, err
	}
	if stmt.Status == domain.StatementArchived {
		return nil, fmt.Errorf("%w: statement %s is archived", apperrors.ErrInvalidStateTransition, statementID)
	}

	lines, err := s.statementRepo.FindUnmatchedLines(ctx, institutionID, statementID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := &dto.AutoMatchResult{StatementID: statementID, LinesProcessed: len(lines)}
	for _, line := range lines {
		cands, err := s.collectCandidates(ctx, institutionID, stmt.BankAccountID, line, cfg.MatchWindowDays)
		if err != nil {
			return nil, err
		}
		if len(cands) == 0 {
			result.Unmatched++
			continue
		}

		matches := make([]domain.ReconciliationMatch, len(cands))
		for i, c := range cands {
			matches[i] = domain.ReconciliationMatch{
				MatchID:         uuid.NewString(),
				InstitutionID:   institutionID,
				StatementLineID: line.LineID,
				MatchType:       c.matchType,
				MatchedID:       c.matchedID,
				Confidence:      c.confidence,
				Status:          domain.MatchSuggested,
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					CreatedBy:     userID,
					LastUpdatedAt: now,
					LastUpdatedBy: userID,
				},
			}
		}
		if err := s.reconRepo.SaveMatches(ctx, matches); err != nil {
			return nil, err
		}
		result.Suggested += len(matches)

		top := matches[0]
		if top.Confidence < cfg.AutoConfirmConfidenceThreshold {
			continue
		}
		if len(matches) > 1 && matches[1].Confidence == top.Confidence {
			result.Ambiguous++
			continue
		}
		if err := s.reconRepo.ConfirmMatch(ctx, top, userID, now); err != nil {
			logger.Error("auto-confirm failed, match left suggested",
				slog.String("match_id", top.MatchID), slog.String("error", err.Error()))
			continue
		}
		result.AutoConfirmed++
		s.emitter.Emit(ctx, institutionID, events.ReconciliationConfirmed, map[string]any{
			"matchID":       top.MatchID,
			"confidence":    top.Confidence,
			"autoConfirmed": true,
		})
	}

	if stmt.Status == domain.StatementImported {
		if err := s.statementRepo.UpdateStatementStatus(ctx, institutionID, statementID, domain.StatementReady, userID, now); err != nil {
			return nil, err
		}
	}

	logger.Info("statement auto-match complete",
		slog.String("statement_id", statementID),
		slog.Int("lines", result.LinesProcessed),
		slog.Int("suggested", result.Suggested),
		slog.Int("auto_confirmed", result.AutoConfirmed),
		slog.Int("unmatched", result.Unmatched))
	s.emitter.Emit(ctx, institutionID, events.ReconciliationSuggested, map[string]any{
		"statementID":   statementID,
		"suggested":     result.Suggested,
		"autoConfirmed": result.AutoConfirmed,
	})
	return result, nil
}

// Confirm accepts a suggested match on an operator's authority.
func (s *reconciliationService) Confirm(ctx context.Context, institutionID string, matchID string, userID string) (*domain.ReconciliationMatch, error) {
	match, err := s.reconRepo.FindMatchByID(ctx, institutionID, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != domain.MatchSuggested {
		return nil, fmt.Errorf("%w: match %s is %s", apperrors.ErrInvalidStateTransition, matchID, match.Status)
	}

	now := time.Now()
	if err := s.reconRepo.ConfirmMatch(ctx, *match, userID, now); err != nil {
		return nil, err
	}
	match.Status = domain.MatchConfirmed
	match.ConfirmedBy = userID
	match.ConfirmedAt = &now
	match.LastUpdatedAt = now
	match.LastUpdatedBy = userID

	s.emitter.Emit(ctx, institutionID, events.ReconciliationConfirmed, map[string]any{
		"matchID":       matchID,
		"confidence":    match.Confidence,
		"autoConfirmed": false,
	})
	return match, nil
}

// Reject discards a suggested match.
func (s *reconciliationService) Reject(ctx context.Context, institutionID string, matchID string, reason string, userID string) (*domain.ReconciliationMatch, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", apperrors.ErrValidation)
	}
	match, err := s.reconRepo.FindMatchByID(ctx, institutionID, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != domain.MatchSuggested {
		return nil, fmt.Errorf("%w: match %s is %s", apperrors.ErrInvalidStateTransition, matchID, match.Status)
	}

	now := time.Now()
	if err := s.reconRepo.RejectMatch(ctx, *match, reason, userID, now); err != nil {
		return nil, err
	}
	match.Status = domain.MatchRejected
	match.RejectedReason = reason
	match.LastUpdatedAt = now
	match.LastUpdatedBy = userID

	s.emitter.Emit(ctx, institutionID, events.ReconciliationRejected, map[string]any{"matchID": matchID})
	return match, nil
}

func (s *reconciliationService) ListMatchesByStatement(ctx context.Context, institutionID string, statementID string) ([]domain.ReconciliationMatch, error) {
	return s.reconRepo.ListMatchesByStatement(ctx, institutionID, statementID)
}

func (s *reconciliationService) ListMatchesByLine(ctx context.Context, institutionID string, statementLineID string) ([]domain.ReconciliationMatch, error) {
	return s.reconRepo.ListMatchesByLine(ctx, institutionID, statementLineID)
}
