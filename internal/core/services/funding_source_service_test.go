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

type FundingSourceServiceTestSuite struct {
	suite.Suite
	cfg             *domain.TreasuryConfiguration
	mockSourceRepo  *MockFundingSourceRepository
	mockSessionRepo *MockSessionRepository
	mockLedgerRepo  *MockLedgerRepository
	service         portssvc.FundingSourceSvcFacade

	institutionID string
	userID        string
}

func (suite *FundingSourceServiceTestSuite) SetupTest() {
	suite.institutionID = uuid.NewString()
	suite.userID = uuid.NewString()
	cfg := domain.DefaultTreasuryConfiguration(suite.institutionID)
	cfg.ConfigID = uuid.NewString()
	suite.cfg = &cfg

	suite.mockSourceRepo = new(MockFundingSourceRepository)
	suite.mockSessionRepo = new(MockSessionRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.service = services.NewFundingSourceService(
		&stubConfigSvc{cfg: suite.cfg},
		suite.mockSourceRepo,
		suite.mockSessionRepo,
		suite.mockLedgerRepo,
		nil,
	)
}

func (suite *FundingSourceServiceTestSuite) activeDesk() *domain.FundingSource {
	return &domain.FundingSource{
		SourceID:      uuid.NewString(),
		InstitutionID: suite.institutionID,
		SourceType:    domain.SourceCashDesk,
		Name:          "Main desk",
		Currency:      "XAF",
		State:         domain.SourceActive,
	}
}

func (suite *FundingSourceServiceTestSuite) openSessionFor(deskID string) *domain.CashDeskSession {
	return &domain.CashDeskSession{
		SessionID:     uuid.NewString(),
		InstitutionID: suite.institutionID,
		SourceID:      deskID,
		Status:        domain.SessionOpen,
	}
}

func (suite *FundingSourceServiceTestSuite) TestCreateBankAccount_Success() {
	ctx := context.Background()
	req := dto.CreateBankAccountRequest{
		Name:           "Operating account",
		BankName:       "Afriland",
		AccountNumber:  "0123456789",
		Currency:       "XAF",
		OpeningBalance: decimalFromString(suite.T(), "1000000"),
	}

	suite.mockSourceRepo.On("SaveSource", ctx, mock.MatchedBy(func(s domain.FundingSource) bool {
		return s.SourceType == domain.SourceBank &&
			s.State == domain.SourceActive &&
			s.CurrentBalance.Equal(req.OpeningBalance) &&
			s.CreatedBy == suite.userID
	})).Return(nil).Once()

	source, err := suite.service.CreateBankAccount(ctx, suite.institutionID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(req.Name, source.Name)
	suite.True(source.CurrentBalance.Equal(req.OpeningBalance))
	suite.mockSourceRepo.AssertExpectations(suite.T())
}

func (suite *FundingSourceServiceTestSuite) TestCreateCashDesk_DisabledByPolicy() {
	ctx := context.Background()
	suite.cfg.CashEnabled = false
	req := dto.CreateCashDeskRequest{
		Name:                "Branch desk",
		CustodianEmployeeID: uuid.NewString(),
		Currency:            "XAF",
	}

	source, err := suite.service.CreateCashDesk(ctx, suite.institutionID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(source)
	suite.ErrorIs(err, apperrors.ErrConfigurationDisabled)
	suite.mockSourceRepo.AssertNotCalled(suite.T(), "SaveSource", mock.Anything, mock.Anything)
}

func (suite *FundingSourceServiceTestSuite) TestCreateBankAccount_NegativeOpeningBalance() {
	ctx := context.Background()
	req := dto.CreateBankAccountRequest{
		Name:           "Bad account",
		BankName:       "Afriland",
		AccountNumber:  "0123456789",
		Currency:       "XAF",
		OpeningBalance: decimalFromString(suite.T(), "-1"),
	}

	_, err := suite.service.CreateBankAccount(ctx, suite.institutionID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *FundingSourceServiceTestSuite) TestCashIn_PostsStampedTransaction() {
	ctx := context.Background()
	desk := suite.activeDesk()
	session := suite.openSessionFor(desk.SourceID)
	req := dto.CashMovementRequest{Amount: decimalFromString(suite.T(), "50000")}

	suite.mockSourceRepo.On("FindSourceByID", ctx, suite.institutionID, desk.SourceID).Return(desk, nil).Once()
	suite.mockSessionRepo.On("FindOpenSessionBySource", ctx, suite.institutionID, desk.SourceID).Return(session, nil).Once()
	suite.mockLedgerRepo.On("RecordTransaction", ctx, mock.MatchedBy(func(t domain.TreasuryTransaction) bool {
		return t.Direction == domain.DirectionIn &&
			t.Category == domain.CategoryDeposit &&
			t.Status == domain.TxnPosted &&
			t.CashdeskSessionID == session.SessionID &&
			t.Currency == desk.Currency
	}), mock.MatchedBy(func(g portsrepo.BalanceGuard) bool {
		return g.AllowNegative
	})).Return(nil).Once()

	txn, err := suite.service.CashIn(ctx, suite.institutionID, desk.SourceID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.TxnPosted, txn.Status)
	suite.Equal(session.SessionID, txn.CashdeskSessionID)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *FundingSourceServiceTestSuite) TestCashIn_NoOpenSessionWhenRequired() {
	ctx := context.Background()
	desk := suite.activeDesk()
	req := dto.CashMovementRequest{Amount: decimalFromString(suite.T(), "1000")}

	suite.mockSourceRepo.On("FindSourceByID", ctx, suite.institutionID, desk.SourceID).Return(desk, nil).Once()
	suite.mockSessionRepo.On("FindOpenSessionBySource", ctx, suite.institutionID, desk.SourceID).Return(nil, apperrors.ErrNoOpenSession).Once()

	_, err := suite.service.CashIn(ctx, suite.institutionID, desk.SourceID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNoOpenSession)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "RecordTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FundingSourceServiceTestSuite) TestCashOut_ThresholdForcesApproval() {
	ctx := context.Background()
	suite.cfg.CashOutApprovalThreshold = decimalFromString(suite.T(), "100000")
	desk := suite.activeDesk()
	session := suite.openSessionFor(desk.SourceID)
	req := dto.CashMovementRequest{Amount: decimalFromString(suite.T(), "150000")}

	suite.mockSourceRepo.On("FindSourceByID", ctx, suite.institutionID, desk.SourceID).Return(desk, nil).Once()
	suite.mockSessionRepo.On("FindOpenSessionBySource", ctx, suite.institutionID, desk.SourceID).Return(session, nil).Once()
	suite.mockLedgerRepo.On("RecordTransaction", ctx, mock.MatchedBy(func(t domain.TreasuryTransaction) bool {
		return t.Status == domain.TxnApprovalPending && t.Direction == domain.DirectionOut
	}), mock.AnythingOfType("repositories.BalanceGuard")).Return(nil).Once()

	txn, err := suite.service.CashOut(ctx, suite.institutionID, desk.SourceID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.TxnApprovalPending, txn.Status)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *FundingSourceServiceTestSuite) TestCashOut_ReasonRequiredByPolicy() {
	ctx := context.Background()
	suite.cfg.CashOutRequiresReason = true
	desk := suite.activeDesk()
	req := dto.CashMovementRequest{Amount: decimalFromString(suite.T(), "1000")}

	suite.mockSourceRepo.On("FindSourceByID", ctx, suite.institutionID, desk.SourceID).Return(desk, nil).Once()

	_, err := suite.service.CashOut(ctx, suite.institutionID, desk.SourceID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *FundingSourceServiceTestSuite) TestCashOut_GuardRejectionSurfaces() {
	ctx := context.Background()
	desk := suite.activeDesk()
	session := suite.openSessionFor(desk.SourceID)
	req := dto.CashMovementRequest{Amount: decimalFromString(suite.T(), "999999")}

	suite.mockSourceRepo.On("FindSourceByID", ctx, suite.institutionID, desk.SourceID).Return(desk, nil).Once()
	suite.mockSessionRepo.On("FindOpenSessionBySource", ctx, suite.institutionID, desk.SourceID).Return(session, nil).Once()
	suite.mockLedgerRepo.On("RecordTransaction", ctx, mock.AnythingOfType("domain.TreasuryTransaction"), mock.AnythingOfType("repositories.BalanceGuard")).
		Return(apperrors.ErrInsufficientFunds).Once()

	_, err := suite.service.CashOut(ctx, suite.institutionID, desk.SourceID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
}

func (suite *FundingSourceServiceTestSuite) TestTransferToBank_CurrencyMismatch() {
	ctx := context.Background()
	desk := suite.activeDesk()
	bank := &domain.FundingSource{
		SourceID:      uuid.NewString(),
		InstitutionID: suite.institutionID,
		SourceType:    domain.SourceBank,
		Currency:      "USD",
		State:         domain.SourceActive,
	}
	req := dto.TransferToBankRequest{
		Amount:        decimalFromString(suite.T(), "20000"),
		BankAccountID: bank.SourceID,
	}

	suite.mockSourceRepo.On("FindSourceByID", ctx, suite.institutionID, desk.SourceID).Return(desk, nil).Once()
	suite.mockSourceRepo.On("FindSourceByID", ctx, suite.institutionID, bank.SourceID).Return(bank, nil).Once()

	_, err := suite.service.TransferToBank(ctx, suite.institutionID, desk.SourceID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "RecordTransfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FundingSourceServiceTestSuite) TestTransferToBank_RecordsBothLegs() {
	ctx := context.Background()
	desk := suite.activeDesk()
	session := suite.openSessionFor(desk.SourceID)
	bank := &domain.FundingSource{
		SourceID:      uuid.NewString(),
		InstitutionID: suite.institutionID,
		SourceType:    domain.SourceBank,
		Currency:      "XAF",
		State:         domain.SourceActive,
	}
	req := dto.TransferToBankRequest{
		Amount:        decimalFromString(suite.T(), "250000"),
		BankAccountID: bank.SourceID,
		Reference:     "EOD-DEPOSIT",
	}

	suite.mockSourceRepo.On("FindSourceByID", ctx, suite.institutionID, desk.SourceID).Return(desk, nil).Once()
	suite.mockSourceRepo.On("FindSourceByID", ctx, suite.institutionID, bank.SourceID).Return(bank, nil).Once()
	suite.mockSessionRepo.On("FindOpenSessionBySource", ctx, suite.institutionID, desk.SourceID).Return(session, nil).Once()
	suite.mockLedgerRepo.On("RecordTransfer", ctx,
		mock.MatchedBy(func(out domain.TreasuryTransaction) bool {
			return out.SourceID == desk.SourceID && out.Direction == domain.DirectionOut &&
				out.Category == domain.CategoryTransfer && out.CashdeskSessionID == session.SessionID
		}),
		mock.MatchedBy(func(in domain.TreasuryTransaction) bool {
			return in.SourceID == bank.SourceID && in.Direction == domain.DirectionIn
		}),
		mock.AnythingOfType("repositories.BalanceGuard"),
		mock.AnythingOfType("repositories.BalanceGuard"),
	).Return(nil).Once()

	out, err := suite.service.TransferToBank(ctx, suite.institutionID, desk.SourceID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(desk.SourceID, out.SourceID)
	suite.Equal(domain.DirectionOut, out.Direction)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *FundingSourceServiceTestSuite) TestRetireSource_OpenSessionBlocks() {
	ctx := context.Background()
	desk := suite.activeDesk()
	session := suite.openSessionFor(desk.SourceID)

	suite.mockSourceRepo.On("FindSourceByID", ctx, suite.institutionID, desk.SourceID).Return(desk, nil).Once()
	suite.mockSessionRepo.On("FindOpenSessionBySource", ctx, suite.institutionID, desk.SourceID).Return(session, nil).Once()

	err := suite.service.RetireSource(ctx, suite.institutionID, desk.SourceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockSourceRepo.AssertNotCalled(suite.T(), "UpdateSourceState",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FundingSourceServiceTestSuite) TestRetireSource_AlreadyRetired() {
	ctx := context.Background()
	desk := suite.activeDesk()
	desk.State = domain.SourceRetired

	suite.mockSourceRepo.On("FindSourceByID", ctx, suite.institutionID, desk.SourceID).Return(desk, nil).Once()

	err := suite.service.RetireSource(ctx, suite.institutionID, desk.SourceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidStateTransition)
}

func TestFundingSourceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FundingSourceServiceTestSuite))
}
