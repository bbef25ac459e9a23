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

type ConfigServiceTestSuite struct {
	suite.Suite
	mockRepo *MockConfigRepository
	service  portssvc.ConfigSvcFacade
}

func (suite *ConfigServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockConfigRepository)
	suite.service = services.NewConfigService(suite.mockRepo, nil)
}

func (suite *ConfigServiceTestSuite) TestGetOrCreate_Existing() {
	ctx := context.Background()
	institutionID := uuid.NewString()
	existing := domain.DefaultTreasuryConfiguration(institutionID)
	existing.ConfigID = uuid.NewString()

	suite.mockRepo.On("FindActiveConfig", ctx, institutionID).Return(&existing, nil).Once()
	suite.mockRepo.On("DeactivateOlderConfigs", ctx, institutionID, existing.ConfigID).Return(0, nil).Once()

	cfg, err := suite.service.GetOrCreate(ctx, institutionID)

	suite.Require().NoError(err)
	suite.Equal(existing.ConfigID, cfg.ConfigID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ConfigServiceTestSuite) TestGetOrCreate_LazyCreatesDefaults() {
	ctx := context.Background()
	institutionID := uuid.NewString()

	suite.mockRepo.On("FindActiveConfig", ctx, institutionID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveConfig", ctx, mock.MatchedBy(func(c domain.TreasuryConfiguration) bool {
		return c.InstitutionID == institutionID && c.IsActive && c.ConfigID != "" && c.CreatedBy == "system"
	})).Return(nil).Once()

	cfg, err := suite.service.GetOrCreate(ctx, institutionID)

	suite.Require().NoError(err)
	suite.True(cfg.BankEnabled)
	suite.True(cfg.CashEnabled)
	suite.True(cfg.ReconciliationEnabled)
	suite.True(cfg.BatchApprovalRequired)
	suite.Equal(3, cfg.MatchWindowDays)
	suite.Equal(95, cfg.AutoConfirmConfidenceThreshold)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ConfigServiceTestSuite) TestGetOrCreate_CreateRaceRereads() {
	ctx := context.Background()
	institutionID := uuid.NewString()
	winner := domain.DefaultTreasuryConfiguration(institutionID)
	winner.ConfigID = uuid.NewString()

	suite.mockRepo.On("FindActiveConfig", ctx, institutionID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveConfig", ctx, mock.AnythingOfType("domain.TreasuryConfiguration")).Return(apperrors.ErrDuplicate).Once()
	suite.mockRepo.On("FindActiveConfig", ctx, institutionID).Return(&winner, nil).Once()

	cfg, err := suite.service.GetOrCreate(ctx, institutionID)

	suite.Require().NoError(err)
	suite.Equal(winner.ConfigID, cfg.ConfigID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ConfigServiceTestSuite) TestUpdate_PartialMerge() {
	ctx := context.Background()
	institutionID := uuid.NewString()
	userID := uuid.NewString()
	existing := domain.DefaultTreasuryConfiguration(institutionID)
	existing.ConfigID = uuid.NewString()

	allowSelf := true
	windowDays := 7
	req := dto.UpdateConfigRequest{
		AllowSelfApproval: &allowSelf,
		MatchWindowDays:   &windowDays,
	}

	suite.mockRepo.On("FindActiveConfig", ctx, institutionID).Return(&existing, nil).Once()
	suite.mockRepo.On("DeactivateOlderConfigs", ctx, institutionID, existing.ConfigID).Return(0, nil).Once()
	suite.mockRepo.On("UpdateConfig", ctx, mock.MatchedBy(func(c domain.TreasuryConfiguration) bool {
		return c.AllowSelfApproval && c.MatchWindowDays == 7 && c.BankEnabled && c.LastUpdatedBy == userID
	})).Return(nil).Once()

	cfg, err := suite.service.Update(ctx, institutionID, req, userID)

	suite.Require().NoError(err)
	suite.True(cfg.AllowSelfApproval)
	suite.Equal(7, cfg.MatchWindowDays)
	// untouched fields keep their values
	suite.True(cfg.RequireOpenSession)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ConfigServiceTestSuite) TestUpdate_RejectsOutOfRangeWindow() {
	ctx := context.Background()
	institutionID := uuid.NewString()
	existing := domain.DefaultTreasuryConfiguration(institutionID)
	existing.ConfigID = uuid.NewString()

	windowDays := 120
	req := dto.UpdateConfigRequest{MatchWindowDays: &windowDays}

	suite.mockRepo.On("FindActiveConfig", ctx, institutionID).Return(&existing, nil).Once()
	suite.mockRepo.On("DeactivateOlderConfigs", ctx, institutionID, existing.ConfigID).Return(0, nil).Once()

	cfg, err := suite.service.Update(ctx, institutionID, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(cfg)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateConfig", mock.Anything, mock.Anything)
}

func (suite *ConfigServiceTestSuite) TestUpdate_RejectsNegativeThreshold() {
	ctx := context.Background()
	institutionID := uuid.NewString()
	existing := domain.DefaultTreasuryConfiguration(institutionID)
	existing.ConfigID = uuid.NewString()

	negative := decimalFromString(suite.T(), "-10")
	req := dto.UpdateConfigRequest{BatchApprovalThreshold: &negative}

	suite.mockRepo.On("FindActiveConfig", ctx, institutionID).Return(&existing, nil).Once()
	suite.mockRepo.On("DeactivateOlderConfigs", ctx, institutionID, existing.ConfigID).Return(0, nil).Once()

	_, err := suite.service.Update(ctx, institutionID, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestConfigServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigServiceTestSuite))
}
