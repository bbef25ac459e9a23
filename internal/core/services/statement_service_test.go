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
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/dto"
)

type StatementServiceTestSuite struct {
	suite.Suite
	cfg               *domain.TreasuryConfiguration
	mockStatementRepo *MockStatementRepository
	mockSourceRepo    *MockFundingSourceRepository
	service           portssvc.StatementSvcFacade

	institutionID string
	userID        string
	bank          *domain.FundingSource
}

func (suite *StatementServiceTestSuite) SetupTest() {
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

	suite.mockStatementRepo = new(MockStatementRepository)
	suite.mockSourceRepo = new(MockFundingSourceRepository)
	suite.service = services.NewStatementService(
		&stubConfigSvc{cfg: suite.cfg},
		suite.mockStatementRepo,
		suite.mockSourceRepo,
		nil,
	)
}

func (suite *StatementServiceTestSuite) importRequest() dto.ImportStatementRequest {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return dto.ImportStatementRequest{
		BankAccountID: suite.bank.SourceID,
		PeriodStart:   start,
		PeriodEnd:     start.AddDate(0, 1, -1),
		Lines: []dto.StatementLineInput{
			{
				TxnDate:      start.AddDate(0, 0, 3),
				Description:  "SALARY BATCH 2026-03",
				AmountSigned: decimalFromString(suite.T(), "-830000"),
				Currency:     "XAF",
				ReferenceRaw: "PB-1A2B3C4D",
			},
			{
				TxnDate:      start.AddDate(0, 0, 10),
				Description:  "CLIENT WIRE",
				AmountSigned: decimalFromString(suite.T(), "1200000"),
				Currency:     "XAF",
				ExternalID:   "FT-99812",
			},
		},
	}
}

func (suite *StatementServiceTestSuite) TestImport_Success() {
	ctx := context.Background()
	req := suite.importRequest()

	suite.mockSourceRepo.On("FindSourceByID", ctx, suite.institutionID, suite.bank.SourceID).Return(suite.bank, nil).Once()
	suite.mockStatementRepo.On("SaveStatement", ctx, mock.MatchedBy(func(s domain.BankStatement) bool {
		return s.Status == domain.StatementImported &&
			s.BankAccountID == suite.bank.SourceID &&
			s.LineCount == 2
	}), mock.MatchedBy(func(lines []domain.BankStatementLine) bool {
		return len(lines) == 2 && !lines[0].Matched && lines[0].LineID != ""
	})).Return(nil).Once()

	stmt, err := suite.service.Import(ctx, suite.institutionID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatementImported, stmt.Status)
	suite.Equal(2, stmt.LineCount)
	suite.mockStatementRepo.AssertExpectations(suite.T())
}

func (suite *StatementServiceTestSuite) TestImport_ReconciliationDisabled() {
	ctx := context.Background()
	suite.cfg.ReconciliationEnabled = false

	_, err := suite.service.Import(ctx, suite.institutionID, suite.importRequest(), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrReconciliationDisabled)
}

func (suite *StatementServiceTestSuite) TestImport_RejectsCashDesk() {
	ctx := context.Background()
	desk := &domain.FundingSource{
		SourceID:   suite.bank.SourceID,
		SourceType: domain.SourceCashDesk,
		State:      domain.SourceActive,
	}

	suite.mockSourceRepo.On("FindSourceByID", ctx, suite.institutionID, suite.bank.SourceID).Return(desk, nil).Once()

	_, err := suite.service.Import(ctx, suite.institutionID, suite.importRequest(), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *StatementServiceTestSuite) TestImport_InvertedPeriodRejected() {
	ctx := context.Background()
	req := suite.importRequest()
	req.PeriodStart, req.PeriodEnd = req.PeriodEnd, req.PeriodStart

	suite.mockSourceRepo.On("FindSourceByID", ctx, suite.institutionID, suite.bank.SourceID).Return(suite.bank, nil).Once()

	_, err := suite.service.Import(ctx, suite.institutionID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *StatementServiceTestSuite) TestImport_ZeroAmountLineRejected() {
	ctx := context.Background()
	req := suite.importRequest()
	req.Lines[0].AmountSigned = decimalFromString(suite.T(), "0")

	suite.mockSourceRepo.On("FindSourceByID", ctx, suite.institutionID, suite.bank.SourceID).Return(suite.bank, nil).Once()

	_, err := suite.service.Import(ctx, suite.institutionID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockStatementRepo.AssertNotCalled(suite.T(), "SaveStatement", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *StatementServiceTestSuite) TestArchiveStatement_Success() {
	ctx := context.Background()
	stmt := &domain.BankStatement{
		StatementID:   uuid.NewString(),
		InstitutionID: suite.institutionID,
		BankAccountID: suite.bank.SourceID,
		Status:        domain.StatementReady,
	}

	suite.mockStatementRepo.On("FindStatementByID", ctx, suite.institutionID, stmt.StatementID).Return(stmt, nil).Once()
	suite.mockStatementRepo.On("UpdateStatementStatus", ctx, suite.institutionID, stmt.StatementID,
		domain.StatementArchived, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	archived, err := suite.service.ArchiveStatement(ctx, suite.institutionID, stmt.StatementID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatementArchived, archived.Status)
	suite.mockStatementRepo.AssertExpectations(suite.T())
}

func (suite *StatementServiceTestSuite) TestArchiveStatement_AlreadyArchived() {
	ctx := context.Background()
	stmt := &domain.BankStatement{
		StatementID: uuid.NewString(),
		Status:      domain.StatementArchived,
	}

	suite.mockStatementRepo.On("FindStatementByID", ctx, suite.institutionID, stmt.StatementID).Return(stmt, nil).Once()

	_, err := suite.service.ArchiveStatement(ctx, suite.institutionID, stmt.StatementID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidStateTransition)
}

func TestStatementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StatementServiceTestSuite))
}
