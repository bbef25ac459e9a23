package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/apperrors"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	portsrepo "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/repositories"
	portssvc "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/services"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/services"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/dto"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	cfg             *domain.TreasuryConfiguration
	mockSourceRepo  *MockFundingSourceRepository
	mockSessionRepo *MockSessionRepository
	mockLedgerRepo  *MockLedgerRepository
	service         portssvc.LedgerSvcFacade

	institutionID string
	userID        string
	bank          *domain.FundingSource
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.institutionID = uuid.NewString()
	suite.userID = uuid.NewString()
	cfg := domain.DefaultTreasuryConfiguration(suite.institutionID)
	cfg.ConfigID = uuid.NewString()
	suite.cfg = &cfg
	suite.bank = &domain.FundingSource{
		SourceID:      uuid.NewString(),
		InstitutionID: suite.institutionID,
		SourceType:    domain.SourceBank,
		Currency:      "XAF",
		State:         domain.SourceActive,
	}

	suite.mockSourceRepo = new(MockFundingSourceRepository)
	suite.mockSessionRepo = new(MockSessionRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.service = services.NewLedgerService(
		&stubConfigSvc{cfg: suite.cfg},
		suite.mockSourceRepo,
		suite.mockSessionRepo,
		suite.mockLedgerRepo,
		nil,
	)
}

func (suite *LedgerServiceTestSuite) TestRecord_BankDeposit() {
	ctx := context.Background()
	req := dto.RecordTransactionRequest{
		SourceID:  suite.bank.SourceID,
		Direction: "IN",
		Category:  "DEPOSIT",
		Amount:    decimalFromString(suite.T(), "300000"),
		Reference: "WIRE-001",
	}

	suite.mockSourceRepo.On("FindSourceByID", ctx, suite.institutionID, suite.bank.SourceID).Return(suite.bank, nil).Once()
	suite.mockLedgerRepo.On("RecordTransaction", ctx, mock.MatchedBy(func(t domain.TreasuryTransaction) bool {
		return t.SourceID == suite.bank.SourceID &&
			t.Status == domain.TxnPosted &&
			t.Category == domain.CategoryDeposit &&
			t.Currency == "XAF" &&
			t.CashdeskSessionID == ""
	}), mock.MatchedBy(func(g portsrepo.BalanceGuard) bool {
		return !g.AllowNegative && g.MaxBalance == nil
	})).Return(nil).Once()

	txn, err := suite.service.Record(ctx, suite.institutionID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.TxnPosted, txn.Status)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestRecord_RejectsSystemCategories() {
	ctx := context.Background()

	for _, category := range []string{"BATCH_PAYMENT", "REVERSAL"} {
		suite.mockSourceRepo.On("FindSourceByID", ctx, suite.institutionID, suite.bank.SourceID).Return(suite.bank, nil).Once()
		req := dto.RecordTransactionRequest{
			SourceID:  suite.bank.SourceID,
			Direction: "OUT",
			Category:  category,
			Amount:    decimalFromString(suite.T(), "100"),
		}

		_, err := suite.service.Record(ctx, suite.institutionID, req, suite.userID)

		suite.Require().Error(err)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "RecordTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestRecord_AdjustmentNeedsApproval() {
	ctx := context.Background()
	suite.cfg.AdjustmentsRequireApproval = true
	req := dto.RecordTransactionRequest{
		SourceID:  suite.bank.SourceID,
		Direction: "OUT",
		Category:  "ADJUSTMENT",
		Amount:    decimalFromString(suite.T(), "5000"),
		Notes:     "till variance writeoff",
	}

	suite.mockSourceRepo.On("FindSourceByID", ctx, suite.institutionID, suite.bank.SourceID).Return(suite.bank, nil).Once()
	suite.mockLedgerRepo.On("RecordTransaction", ctx, mock.MatchedBy(func(t domain.TreasuryTransaction) bool {
		return t.Status == domain.TxnApprovalPending
	}), mock.AnythingOfType("repositories.BalanceGuard")).Return(nil).Once()

	txn, err := suite.service.Record(ctx, suite.institutionID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.TxnApprovalPending, txn.Status)
}

func (suite *LedgerServiceTestSuite) TestReverse_PostsCounterEntry() {
	ctx := context.Background()
	original := &domain.TreasuryTransaction{
		TransactionID: uuid.NewString(),
		InstitutionID: suite.institutionID,
		SourceType:    domain.SourceBank,
		SourceID:      suite.bank.SourceID,
		Direction:     domain.DirectionOut,
		Category:      domain.CategoryWithdrawal,
		Amount:        decimalFromString(suite.T(), "12000"),
		Currency:      "XAF",
		Status:        domain.TxnPosted,
	}

	suite.mockLedgerRepo.On("FindTransactionByID", ctx, suite.institutionID, original.TransactionID).Return(original, nil).Once()
	suite.mockSourceRepo.On("FindSourceByID", ctx, suite.institutionID, suite.bank.SourceID).Return(suite.bank, nil).Once()
	suite.mockLedgerRepo.On("RecordTransaction", ctx, mock.MatchedBy(func(t domain.TreasuryTransaction) bool {
		return t.Direction == domain.DirectionIn &&
			t.Category == domain.CategoryReversal &&
			t.ReversesTransactionID == original.TransactionID &&
			t.Amount.Equal(original.Amount) &&
			t.Status == domain.TxnPosted
	}), mock.AnythingOfType("repositories.BalanceGuard")).Return(nil).Once()

	reversal, err := suite.service.Reverse(ctx, suite.institutionID, original.TransactionID, "duplicate entry", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(original.TransactionID, reversal.ReversesTransactionID)
	suite.Equal("duplicate entry", reversal.Notes)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestReverse_OnlyPostedReversible() {
	ctx := context.Background()
	pending := &domain.TreasuryTransaction{
		TransactionID: uuid.NewString(),
		SourceID:      suite.bank.SourceID,
		Status:        domain.TxnApprovalPending,
	}

	suite.mockLedgerRepo.On("FindTransactionByID", ctx, suite.institutionID, pending.TransactionID).Return(pending, nil).Once()

	_, err := suite.service.Reverse(ctx, suite.institutionID, pending.TransactionID, "mistake", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidStateTransition)
}

func (suite *LedgerServiceTestSuite) TestApprovePending_SelfApprovalDenied() {
	ctx := context.Background()
	pending := &domain.TreasuryTransaction{
		TransactionID: uuid.NewString(),
		SourceID:      suite.bank.SourceID,
		Status:        domain.TxnApprovalPending,
		AuditFields:   domain.AuditFields{CreatedBy: suite.userID},
	}

	suite.mockLedgerRepo.On("FindTransactionByID", ctx, suite.institutionID, pending.TransactionID).Return(pending, nil).Once()

	_, err := suite.service.ApprovePending(ctx, suite.institutionID, pending.TransactionID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrSelfApprovalNotAllowed)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "PostPendingTransaction",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestApprovePending_PostsWithGuard() {
	ctx := context.Background()
	approver := uuid.NewString()
	pending := &domain.TreasuryTransaction{
		TransactionID: uuid.NewString(),
		SourceID:      suite.bank.SourceID,
		Status:        domain.TxnApprovalPending,
		AuditFields:   domain.AuditFields{CreatedBy: suite.userID},
	}
	posted := *pending
	posted.Status = domain.TxnPosted
	posted.ApprovedBy = approver

	suite.mockLedgerRepo.On("FindTransactionByID", ctx, suite.institutionID, pending.TransactionID).Return(pending, nil).Once()
	suite.mockSourceRepo.On("FindSourceByID", ctx, suite.institutionID, suite.bank.SourceID).Return(suite.bank, nil).Once()
	suite.mockLedgerRepo.On("PostPendingTransaction", ctx, suite.institutionID, pending.TransactionID, approver,
		mock.AnythingOfType("repositories.BalanceGuard"), mock.AnythingOfType("time.Time")).Return(&posted, nil).Once()

	result, err := suite.service.ApprovePending(ctx, suite.institutionID, pending.TransactionID, approver)

	suite.Require().NoError(err)
	suite.Equal(domain.TxnPosted, result.Status)
	suite.Equal(approver, result.ApprovedBy)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
