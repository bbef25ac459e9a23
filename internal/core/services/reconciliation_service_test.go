package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/apperrors"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	portssvc "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/services"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/services"
)

type ReconciliationServiceTestSuite struct {
	suite.Suite
	cfg               *domain.TreasuryConfiguration
	mockReconRepo     *MockReconciliationRepository
	mockStatementRepo *MockStatementRepository
	service           portssvc.ReconciliationSvcFacade

	institutionID string
	userID        string
	stmt          *domain.BankStatement
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.institutionID = uuid.NewString()
	suite.userID = uuid.NewString()
	cfg := domain.DefaultTreasuryConfiguration(suite.institutionID)
	cfg.ConfigID = uuid.NewString()
	suite.cfg = &cfg
	suite.stmt = &domain.BankStatement{
		StatementID:   uuid.NewString(),
		InstitutionID: suite.institutionID,
		BankAccountID: uuid.NewString(),
		Status:        domain.StatementImported,
	}

	suite.mockReconRepo = new(MockReconciliationRepository)
	suite.mockStatementRepo = new(MockStatementRepository)
	suite.service = services.NewReconciliationService(
		&stubConfigSvc{cfg: suite.cfg},
		suite.mockReconRepo,
		suite.mockStatementRepo,
		nil,
	)
}

// outboundLine is a debit row on the statement: money left the bank account.
func (suite *ReconciliationServiceTestSuite) outboundLine(amount, ref string) domain.BankStatementLine {
	return domain.BankStatementLine{
		LineID:        uuid.NewString(),
		InstitutionID: suite.institutionID,
		StatementID:   suite.stmt.StatementID,
		TxnDate:       time.Now().AddDate(0, 0, -1),
		AmountSigned:  decimalFromString(suite.T(), amount).Neg(),
		Currency:      "XAF",
		ReferenceRaw:  ref,
	}
}

func (suite *ReconciliationServiceTestSuite) expectNoReferenceHits(ctx context.Context, ref string) {
	suite.mockReconRepo.On("FindPaymentLinesByReference", ctx, suite.institutionID, ref).
		Return([]domain.PaymentLine{}, nil).Once()
	suite.mockReconRepo.On("FindTransactionsByReference", ctx, suite.institutionID, ref).
		Return([]domain.TreasuryTransaction{}, nil).Once()
}

func (suite *ReconciliationServiceTestSuite) TestAutoMatch_ReconciliationDisabled() {
	ctx := context.Background()
	suite.cfg.ReconciliationEnabled = false

	_, err := suite.service.AutoMatch(ctx, suite.institutionID, suite.stmt.StatementID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrReconciliationDisabled)
}

func (suite *ReconciliationServiceTestSuite) TestAutoMatch_ArchivedStatementRejected() {
	ctx := context.Background()
	suite.stmt.Status = domain.StatementArchived

	suite.mockStatementRepo.On("FindStatementByID", ctx, suite.institutionID, suite.stmt.StatementID).Return(suite.stmt, nil).Once()

	_, err := suite.service.AutoMatch(ctx, suite.institutionID, suite.stmt.StatementID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidStateTransition)
}

func (suite *ReconciliationServiceTestSuite) TestAutoMatch_ReferenceHitAutoConfirms() {
	ctx := context.Background()
	line := suite.outboundLine("450000", "SAL-2026-03-001")
	paymentLine := domain.PaymentLine{
		LineID:            uuid.NewString(),
		Amount:            decimalFromString(suite.T(), "450000"),
		Currency:          "XAF",
		Status:            domain.LinePaid,
		ExternalReference: "SAL-2026-03-001",
	}

	suite.mockStatementRepo.On("FindStatementByID", ctx, suite.institutionID, suite.stmt.StatementID).Return(suite.stmt, nil).Once()
	suite.mockStatementRepo.On("FindUnmatchedLines", ctx, suite.institutionID, suite.stmt.StatementID).
		Return([]domain.BankStatementLine{line}, nil).Once()
	suite.mockReconRepo.On("FindPaymentLinesByReference", ctx, suite.institutionID, "SAL-2026-03-001").
		Return([]domain.PaymentLine{paymentLine}, nil).Once()
	suite.mockReconRepo.On("FindTransactionsByReference", ctx, suite.institutionID, "SAL-2026-03-001").
		Return([]domain.TreasuryTransaction{}, nil).Once()
	suite.mockReconRepo.On("SaveMatches", ctx, mock.MatchedBy(func(matches []domain.ReconciliationMatch) bool {
		return len(matches) == 1 &&
			matches[0].MatchType == domain.MatchPaymentLine &&
			matches[0].MatchedID == paymentLine.LineID &&
			matches[0].Confidence == domain.ConfidenceLineReference &&
			matches[0].Status == domain.MatchSuggested
	})).Return(nil).Once()
	suite.mockReconRepo.On("ConfirmMatch", ctx, mock.MatchedBy(func(m domain.ReconciliationMatch) bool {
		return m.MatchedID == paymentLine.LineID
	}), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockStatementRepo.On("UpdateStatementStatus", ctx, suite.institutionID, suite.stmt.StatementID,
		domain.StatementReady, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.AutoMatch(ctx, suite.institutionID, suite.stmt.StatementID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, result.LinesProcessed)
	suite.Equal(1, result.Suggested)
	suite.Equal(1, result.AutoConfirmed)
	suite.Equal(0, result.Ambiguous)
	// A reference hit settles the line; the window fallback never runs.
	suite.mockReconRepo.AssertNotCalled(suite.T(), "FindCandidatePaymentLines",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "FindCandidateTransactions",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestAutoMatch_ReferenceHitKeepsAmountMismatch() {
	ctx := context.Background()
	// Fee-adjusted debit: the bank took 449500 against a 450000 line. The
	// exact reference still carries the pairing at reference confidence.
	line := suite.outboundLine("449500", "SAL-2026-03-001")
	paymentLine := domain.PaymentLine{
		LineID:            uuid.NewString(),
		Amount:            decimalFromString(suite.T(), "450000"),
		Currency:          "XAF",
		Status:            domain.LinePaid,
		ExternalReference: "SAL-2026-03-001",
	}

	suite.mockStatementRepo.On("FindStatementByID", ctx, suite.institutionID, suite.stmt.StatementID).Return(suite.stmt, nil).Once()
	suite.mockStatementRepo.On("FindUnmatchedLines", ctx, suite.institutionID, suite.stmt.StatementID).
		Return([]domain.BankStatementLine{line}, nil).Once()
	suite.mockReconRepo.On("FindPaymentLinesByReference", ctx, suite.institutionID, "SAL-2026-03-001").
		Return([]domain.PaymentLine{paymentLine}, nil).Once()
	suite.mockReconRepo.On("FindTransactionsByReference", ctx, suite.institutionID, "SAL-2026-03-001").
		Return([]domain.TreasuryTransaction{}, nil).Once()
	suite.mockReconRepo.On("SaveMatches", ctx, mock.MatchedBy(func(matches []domain.ReconciliationMatch) bool {
		return len(matches) == 1 &&
			matches[0].MatchedID == paymentLine.LineID &&
			matches[0].Confidence == domain.ConfidenceLineReference
	})).Return(nil).Once()
	suite.mockReconRepo.On("ConfirmMatch", ctx, mock.MatchedBy(func(m domain.ReconciliationMatch) bool {
		return m.MatchedID == paymentLine.LineID
	}), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockStatementRepo.On("UpdateStatementStatus", ctx, suite.institutionID, suite.stmt.StatementID,
		domain.StatementReady, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.AutoMatch(ctx, suite.institutionID, suite.stmt.StatementID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, result.Suggested)
	suite.Equal(1, result.AutoConfirmed)
	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestAutoMatch_TieStaysSuggested() {
	ctx := context.Background()
	// Window tier 90 clears a low threshold but the tie keeps a human in the
	// loop.
	suite.cfg.AutoConfirmConfidenceThreshold = 80
	line := suite.outboundLine("450000", "")
	twin1 := domain.PaymentLine{LineID: uuid.NewString(), Amount: decimalFromString(suite.T(), "450000"), Currency: "XAF"}
	twin2 := domain.PaymentLine{LineID: uuid.NewString(), Amount: decimalFromString(suite.T(), "450000"), Currency: "XAF"}

	suite.mockStatementRepo.On("FindStatementByID", ctx, suite.institutionID, suite.stmt.StatementID).Return(suite.stmt, nil).Once()
	suite.mockStatementRepo.On("FindUnmatchedLines", ctx, suite.institutionID, suite.stmt.StatementID).
		Return([]domain.BankStatementLine{line}, nil).Once()
	suite.mockReconRepo.On("FindCandidatePaymentLines", ctx, suite.institutionID, suite.stmt.BankAccountID,
		mock.Anything, "XAF", mock.Anything, mock.Anything).Return([]domain.PaymentLine{twin1, twin2}, nil).Once()
	suite.mockReconRepo.On("FindCandidateTransactions", ctx, suite.institutionID, suite.stmt.BankAccountID,
		mock.Anything, "XAF", domain.DirectionOut, mock.Anything, mock.Anything).Return([]domain.TreasuryTransaction{}, nil).Once()
	suite.mockReconRepo.On("SaveMatches", ctx, mock.MatchedBy(func(matches []domain.ReconciliationMatch) bool {
		return len(matches) == 2 &&
			matches[0].Confidence == domain.ConfidenceLineWindow &&
			matches[1].Confidence == domain.ConfidenceLineWindow
	})).Return(nil).Once()
	suite.mockStatementRepo.On("UpdateStatementStatus", ctx, suite.institutionID, suite.stmt.StatementID,
		domain.StatementReady, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.AutoMatch(ctx, suite.institutionID, suite.stmt.StatementID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, result.Ambiguous)
	suite.Equal(0, result.AutoConfirmed)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "ConfirmMatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestAutoMatch_BelowThresholdStaysSuggested() {
	ctx := context.Background()
	line := suite.outboundLine("450000", "")
	candidate := domain.PaymentLine{LineID: uuid.NewString(), Amount: decimalFromString(suite.T(), "450000"), Currency: "XAF"}

	suite.mockStatementRepo.On("FindStatementByID", ctx, suite.institutionID, suite.stmt.StatementID).Return(suite.stmt, nil).Once()
	suite.mockStatementRepo.On("FindUnmatchedLines", ctx, suite.institutionID, suite.stmt.StatementID).
		Return([]domain.BankStatementLine{line}, nil).Once()
	suite.mockReconRepo.On("FindCandidatePaymentLines", ctx, suite.institutionID, suite.stmt.BankAccountID,
		mock.Anything, "XAF", mock.Anything, mock.Anything).Return([]domain.PaymentLine{candidate}, nil).Once()
	suite.mockReconRepo.On("FindCandidateTransactions", ctx, suite.institutionID, suite.stmt.BankAccountID,
		mock.Anything, "XAF", domain.DirectionOut, mock.Anything, mock.Anything).Return([]domain.TreasuryTransaction{}, nil).Once()
	// window tier 90 < default threshold 95
	suite.mockReconRepo.On("SaveMatches", ctx, mock.AnythingOfType("[]domain.ReconciliationMatch")).Return(nil).Once()
	suite.mockStatementRepo.On("UpdateStatementStatus", ctx, suite.institutionID, suite.stmt.StatementID,
		domain.StatementReady, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.AutoMatch(ctx, suite.institutionID, suite.stmt.StatementID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, result.Suggested)
	suite.Equal(0, result.AutoConfirmed)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "ConfirmMatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestAutoMatch_NoCandidates() {
	ctx := context.Background()
	line := suite.outboundLine("777", "NO-SUCH-REF")

	suite.mockStatementRepo.On("FindStatementByID", ctx, suite.institutionID, suite.stmt.StatementID).Return(suite.stmt, nil).Once()
	suite.mockStatementRepo.On("FindUnmatchedLines", ctx, suite.institutionID, suite.stmt.StatementID).
		Return([]domain.BankStatementLine{line}, nil).Once()
	suite.expectNoReferenceHits(ctx, "NO-SUCH-REF")
	suite.mockReconRepo.On("FindCandidatePaymentLines", ctx, suite.institutionID, suite.stmt.BankAccountID,
		mock.Anything, "XAF", mock.Anything, mock.Anything).Return([]domain.PaymentLine{}, nil).Once()
	suite.mockReconRepo.On("FindCandidateTransactions", ctx, suite.institutionID, suite.stmt.BankAccountID,
		mock.Anything, "XAF", domain.DirectionOut, mock.Anything, mock.Anything).Return([]domain.TreasuryTransaction{}, nil).Once()
	suite.mockStatementRepo.On("UpdateStatementStatus", ctx, suite.institutionID, suite.stmt.StatementID,
		domain.StatementReady, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.AutoMatch(ctx, suite.institutionID, suite.stmt.StatementID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(1, result.Unmatched)
	suite.Equal(0, result.Suggested)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "SaveMatches", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestConfirm_OnlySuggested() {
	ctx := context.Background()
	match := &domain.ReconciliationMatch{
		MatchID: uuid.NewString(),
		Status:  domain.MatchConfirmed,
	}

	suite.mockReconRepo.On("FindMatchByID", ctx, suite.institutionID, match.MatchID).Return(match, nil).Once()

	_, err := suite.service.Confirm(ctx, suite.institutionID, match.MatchID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidStateTransition)
}

func (suite *ReconciliationServiceTestSuite) TestConfirm_Success() {
	ctx := context.Background()
	match := &domain.ReconciliationMatch{
		MatchID:         uuid.NewString(),
		StatementLineID: uuid.NewString(),
		MatchType:       domain.MatchPaymentLine,
		MatchedID:       uuid.NewString(),
		Confidence:      domain.ConfidenceLineWindow,
		Status:          domain.MatchSuggested,
	}

	suite.mockReconRepo.On("FindMatchByID", ctx, suite.institutionID, match.MatchID).Return(match, nil).Once()
	suite.mockReconRepo.On("ConfirmMatch", ctx, mock.MatchedBy(func(m domain.ReconciliationMatch) bool {
		return m.MatchID == match.MatchID
	}), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	confirmed, err := suite.service.Confirm(ctx, suite.institutionID, match.MatchID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.MatchConfirmed, confirmed.Status)
	suite.Equal(suite.userID, confirmed.ConfirmedBy)
	suite.mockReconRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestConfirm_DoubleConfirmSurfacesDuplicate() {
	ctx := context.Background()
	match := &domain.ReconciliationMatch{
		MatchID: uuid.NewString(),
		Status:  domain.MatchSuggested,
	}

	suite.mockReconRepo.On("FindMatchByID", ctx, suite.institutionID, match.MatchID).Return(match, nil).Once()
	suite.mockReconRepo.On("ConfirmMatch", ctx, mock.Anything, suite.userID, mock.AnythingOfType("time.Time")).
		Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.Confirm(ctx, suite.institutionID, match.MatchID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *ReconciliationServiceTestSuite) TestReject_RequiresReason() {
	ctx := context.Background()

	_, err := suite.service.Reject(ctx, suite.institutionID, uuid.NewString(), "", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReconRepo.AssertNotCalled(suite.T(), "RejectMatch",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestReject_Success() {
	ctx := context.Background()
	match := &domain.ReconciliationMatch{
		MatchID: uuid.NewString(),
		Status:  domain.MatchSuggested,
	}

	suite.mockReconRepo.On("FindMatchByID", ctx, suite.institutionID, match.MatchID).Return(match, nil).Once()
	suite.mockReconRepo.On("RejectMatch", ctx, mock.Anything, "amount coincidence", suite.userID,
		mock.AnythingOfType("time.Time")).Return(nil).Once()

	rejected, err := suite.service.Reject(ctx, suite.institutionID, match.MatchID, "amount coincidence", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.MatchRejected, rejected.Status)
	suite.Equal("amount coincidence", rejected.RejectedReason)
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
