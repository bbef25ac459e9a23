package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/apperrors"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	portssvc "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/services"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/services"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/dto"
)

type SessionServiceTestSuite struct {
	suite.Suite
	cfg             *domain.TreasuryConfiguration
	mockSourceRepo  *MockFundingSourceRepository
	mockSessionRepo *MockSessionRepository
	mockLedgerRepo  *MockLedgerRepository
	service         portssvc.SessionSvcFacade

	institutionID string
	userID        string
	desk          *domain.FundingSource
}

func (suite *SessionServiceTestSuite) SetupTest() {
	suite.institutionID = uuid.NewString()
	suite.userID = uuid.NewString()
	cfg := domain.DefaultTreasuryConfiguration(suite.institutionID)
	cfg.ConfigID = uuid.NewString()
	suite.cfg = &cfg
	suite.desk = &domain.FundingSource{
		SourceID:      uuid.NewString(),
		InstitutionID: suite.institutionID,
		SourceType:    domain.SourceCashDesk,
		Currency:      "XAF",
		State:         domain.SourceActive,
	}

	suite.mockSourceRepo = new(MockFundingSourceRepository)
	suite.mockSessionRepo = new(MockSessionRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.service = services.NewSessionService(
		&stubConfigSvc{cfg: suite.cfg},
		suite.mockSourceRepo,
		suite.mockSessionRepo,
		suite.mockLedgerRepo,
		nil,
	)
}

func (suite *SessionServiceTestSuite) openSession(opening string) *domain.CashDeskSession {
	return &domain.CashDeskSession{
		SessionID:     uuid.NewString(),
		InstitutionID: suite.institutionID,
		SourceID:      suite.desk.SourceID,
		Status:        domain.SessionOpen,
		OpenedBy:      suite.userID,
		OpeningCount:  decimalFromString(suite.T(), opening),
	}
}

func (suite *SessionServiceTestSuite) TestOpenSession_Success() {
	ctx := context.Background()
	req := dto.OpenSessionRequest{OpeningCountAmount: decimalFromString(suite.T(), "75000")}

	suite.mockSourceRepo.On("FindSourceByID", ctx, suite.institutionID, suite.desk.SourceID).Return(suite.desk, nil).Once()
	suite.mockSessionRepo.On("SaveSession", ctx, mock.MatchedBy(func(s domain.CashDeskSession) bool {
		return s.Status == domain.SessionOpen &&
			s.SourceID == suite.desk.SourceID &&
			s.OpeningCount.Equal(req.OpeningCountAmount) &&
			s.OpenedBy == suite.userID
	})).Return(nil).Once()

	session, err := suite.service.OpenSession(ctx, suite.institutionID, suite.desk.SourceID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.SessionOpen, session.Status)
	suite.mockSessionRepo.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestOpenSession_SecondOpenRejected() {
	ctx := context.Background()
	req := dto.OpenSessionRequest{OpeningCountAmount: decimalFromString(suite.T(), "0")}

	suite.mockSourceRepo.On("FindSourceByID", ctx, suite.institutionID, suite.desk.SourceID).Return(suite.desk, nil).Once()
	suite.mockSessionRepo.On("SaveSession", ctx, mock.AnythingOfType("domain.CashDeskSession")).
		Return(apperrors.ErrSessionAlreadyOpen).Once()

	_, err := suite.service.OpenSession(ctx, suite.institutionID, suite.desk.SourceID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrSessionAlreadyOpen)
}

func (suite *SessionServiceTestSuite) TestOpenSession_NotACashDesk() {
	ctx := context.Background()
	bank := &domain.FundingSource{
		SourceID:   uuid.NewString(),
		SourceType: domain.SourceBank,
		State:      domain.SourceActive,
	}
	req := dto.OpenSessionRequest{OpeningCountAmount: decimalFromString(suite.T(), "0")}

	suite.mockSourceRepo.On("FindSourceByID", ctx, suite.institutionID, bank.SourceID).Return(bank, nil).Once()

	_, err := suite.service.OpenSession(ctx, suite.institutionID, bank.SourceID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SessionServiceTestSuite) TestCloseSession_BalancedCount() {
	ctx := context.Background()
	session := suite.openSession("50000")
	// opening 50000 + net movements 20000 = expected 70000
	req := dto.CloseSessionRequest{ClosingCountAmount: decimalFromString(suite.T(), "70000")}

	suite.mockSessionRepo.On("FindOpenSessionBySource", ctx, suite.institutionID, suite.desk.SourceID).Return(session, nil).Once()
	suite.mockLedgerRepo.On("SumSessionMovements", ctx, suite.institutionID, session.SessionID).
		Return(decimalFromString(suite.T(), "20000"), nil).Once()
	suite.mockSessionRepo.On("CloseSession", ctx, mock.MatchedBy(func(s domain.CashDeskSession) bool {
		return s.Status == domain.SessionClosed && s.Discrepancy != nil && s.Discrepancy.IsZero()
	})).Return(nil).Once()

	closed, err := suite.service.CloseSession(ctx, suite.institutionID, suite.desk.SourceID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(closed.Discrepancy)
	suite.True(closed.Discrepancy.IsZero())
	suite.mockSourceRepo.AssertNotCalled(suite.T(), "UpdateSourceState",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SessionServiceTestSuite) TestCloseSession_DiscrepancyRequiresNote() {
	ctx := context.Background()
	session := suite.openSession("50000")
	req := dto.CloseSessionRequest{ClosingCountAmount: decimalFromString(suite.T(), "40000")}

	suite.mockSessionRepo.On("FindOpenSessionBySource", ctx, suite.institutionID, suite.desk.SourceID).Return(session, nil).Once()
	suite.mockLedgerRepo.On("SumSessionMovements", ctx, suite.institutionID, session.SessionID).
		Return(decimalFromString(suite.T(), "0"), nil).Once()

	_, err := suite.service.CloseSession(ctx, suite.institutionID, suite.desk.SourceID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockSessionRepo.AssertNotCalled(suite.T(), "CloseSession", mock.Anything, mock.Anything)
}

func (suite *SessionServiceTestSuite) TestCloseSession_AutoLocksDeskPastTolerance() {
	ctx := context.Background()
	suite.cfg.AutoLockOnDiscrepancy = true
	suite.cfg.DiscrepancyTolerance = decimalFromString(suite.T(), "1000")
	session := suite.openSession("50000")
	req := dto.CloseSessionRequest{
		ClosingCountAmount: decimalFromString(suite.T(), "42000"),
		DiscrepancyNote:    "drawer short after evening rush",
	}

	suite.mockSessionRepo.On("FindOpenSessionBySource", ctx, suite.institutionID, suite.desk.SourceID).Return(session, nil).Once()
	suite.mockLedgerRepo.On("SumSessionMovements", ctx, suite.institutionID, session.SessionID).
		Return(decimalFromString(suite.T(), "0"), nil).Once()
	suite.mockSessionRepo.On("CloseSession", ctx, mock.AnythingOfType("domain.CashDeskSession")).Return(nil).Once()
	suite.mockSourceRepo.On("UpdateSourceState", ctx, suite.institutionID, suite.desk.SourceID,
		domain.SourceLocked, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	closed, err := suite.service.CloseSession(ctx, suite.institutionID, suite.desk.SourceID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(closed.Discrepancy.Equal(decimalFromString(suite.T(), "-8000")))
	suite.mockSourceRepo.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestCloseSession_WithinToleranceNoLock() {
	ctx := context.Background()
	suite.cfg.AutoLockOnDiscrepancy = true
	suite.cfg.DiscrepancyTolerance = decimalFromString(suite.T(), "10000")
	session := suite.openSession("50000")
	req := dto.CloseSessionRequest{
		ClosingCountAmount: decimalFromString(suite.T(), "49000"),
		DiscrepancyNote:    "rounding on coin count",
	}

	suite.mockSessionRepo.On("FindOpenSessionBySource", ctx, suite.institutionID, suite.desk.SourceID).Return(session, nil).Once()
	suite.mockLedgerRepo.On("SumSessionMovements", ctx, suite.institutionID, session.SessionID).
		Return(decimalFromString(suite.T(), "0"), nil).Once()
	suite.mockSessionRepo.On("CloseSession", ctx, mock.AnythingOfType("domain.CashDeskSession")).Return(nil).Once()

	_, err := suite.service.CloseSession(ctx, suite.institutionID, suite.desk.SourceID, req, suite.userID)

	suite.Require().NoError(err)
	suite.mockSourceRepo.AssertNotCalled(suite.T(), "UpdateSourceState",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SessionServiceTestSuite))
}
