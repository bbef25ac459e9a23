package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/apperrors"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	portsrepo "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/repositories"
	portssvc "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/services"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/dto"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/handlers"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/middleware"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/platform/config"
)

// --- Mock FundingSourceService ---
type MockFundingSourceService struct {
	mock.Mock
}

func (m *MockFundingSourceService) CreateBankAccount(ctx context.Context, institutionID string, req dto.CreateBankAccountRequest, userID string) (*domain.FundingSource, error) {
	args := m.Called(ctx, institutionID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FundingSource), args.Error(1)
}
func (m *MockFundingSourceService) CreateCashDesk(ctx context.Context, institutionID string, req dto.CreateCashDeskRequest, userID string) (*domain.FundingSource, error) {
	args := m.Called(ctx, institutionID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FundingSource), args.Error(1)
}
func (m *MockFundingSourceService) GetSource(ctx context.Context, institutionID string, sourceID string) (*domain.FundingSource, error) {
	args := m.Called(ctx, institutionID, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FundingSource), args.Error(1)
}
func (m *MockFundingSourceService) ListSources(ctx context.Context, institutionID string, filter portsrepo.ListSourcesFilter) ([]domain.FundingSource, int, error) {
	args := m.Called(ctx, institutionID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.FundingSource), args.Int(1), args.Error(2)
}
func (m *MockFundingSourceService) RetireSource(ctx context.Context, institutionID string, sourceID string, userID string) error {
	args := m.Called(ctx, institutionID, sourceID, userID)
	return args.Error(0)
}
func (m *MockFundingSourceService) CashIn(ctx context.Context, institutionID string, deskID string, req dto.CashMovementRequest, userID string) (*domain.TreasuryTransaction, error) {
	args := m.Called(ctx, institutionID, deskID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TreasuryTransaction), args.Error(1)
}
func (m *MockFundingSourceService) CashOut(ctx context.Context, institutionID string, deskID string, req dto.CashMovementRequest, userID string) (*domain.TreasuryTransaction, error) {
	args := m.Called(ctx, institutionID, deskID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TreasuryTransaction), args.Error(1)
}
func (m *MockFundingSourceService) TransferToBank(ctx context.Context, institutionID string, deskID string, req dto.TransferToBankRequest, userID string) (*domain.TreasuryTransaction, error) {
	args := m.Called(ctx, institutionID, deskID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TreasuryTransaction), args.Error(1)
}
func (m *MockFundingSourceService) WithdrawToCashDesk(ctx context.Context, institutionID string, bankAccountID string, req dto.WithdrawToCashDeskRequest, userID string) (*domain.TreasuryTransaction, error) {
	args := m.Called(ctx, institutionID, bankAccountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TreasuryTransaction), args.Error(1)
}

var _ portssvc.FundingSourceSvcFacade = (*MockFundingSourceService)(nil)

type FundingSourceHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockService   *MockFundingSourceService
	institutionID string
	userID        string
}

func (suite *FundingSourceHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.institutionID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.mockService = new(MockFundingSourceService)

	cfg := &config.Config{
		IsProduction:       true, // skip swagger registration
		RateLimit:          "1000-M",
		CORSAllowedOrigins: []string{"*"},
	}
	services := &portssvc.ServiceContainer{FundingSource: suite.mockService}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, services)
}

func (suite *FundingSourceHandlerTestSuite) request(method, path string, body any, withTenant bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if withTenant {
		req.Header.Set(middleware.InstitutionHeader, suite.institutionID)
		req.Header.Set(middleware.UserHeader, suite.userID)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *FundingSourceHandlerTestSuite) decode(w *httptest.ResponseRecorder) (dto.Response, json.RawMessage) {
	var resp struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return dto.Response{Success: resp.Success, Message: resp.Message}, resp.Data
}

func (suite *FundingSourceHandlerTestSuite) TestCreateBankAccount_Success() {
	req := dto.CreateBankAccountRequest{
		Name:           "Operations Account",
		BankName:       "Afriland First Bank",
		AccountNumber:  "10005-00024-08123456789-42",
		Currency:       "XAF",
		OpeningBalance: decimal.NewFromInt(2500000),
	}
	created := &domain.FundingSource{
		SourceID:       uuid.NewString(),
		InstitutionID:  suite.institutionID,
		SourceType:     domain.SourceBank,
		Name:           req.Name,
		BankName:       req.BankName,
		AccountNumber:  req.AccountNumber,
		Currency:       "XAF",
		OpeningBalance: req.OpeningBalance,
		CurrentBalance: req.OpeningBalance,
		State:          domain.SourceActive,
		AuditFields:    domain.AuditFields{CreatedAt: time.Now(), CreatedBy: suite.userID},
	}

	suite.mockService.On("CreateBankAccount", mock.Anything, suite.institutionID, req, suite.userID).Return(created, nil).Once()

	w := suite.request(http.MethodPost, "/api/treasury/bank-accounts", req, true)

	suite.Equal(http.StatusCreated, w.Code)
	resp, data := suite.decode(w)
	suite.True(resp.Success)
	var source dto.SourceResponse
	suite.Require().NoError(json.Unmarshal(data, &source))
	suite.Equal(created.SourceID, source.SourceID)
	suite.Equal("BANK", source.SourceType)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *FundingSourceHandlerTestSuite) TestCreateBankAccount_MissingInstitutionHeader() {
	req := dto.CreateBankAccountRequest{
		Name:          "Operations Account",
		BankName:      "Afriland First Bank",
		AccountNumber: "10005-00024-08123456789-42",
		Currency:      "XAF",
	}

	w := suite.request(http.MethodPost, "/api/treasury/bank-accounts", req, false)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "CreateBankAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FundingSourceHandlerTestSuite) TestCreateBankAccount_InvalidCurrencyRejectedAtBinding() {
	req := dto.CreateBankAccountRequest{
		Name:          "Operations Account",
		BankName:      "Afriland First Bank",
		AccountNumber: "10005-00024-08123456789-42",
		Currency:      "xaf",
	}

	w := suite.request(http.MethodPost, "/api/treasury/bank-accounts", req, true)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "CreateBankAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FundingSourceHandlerTestSuite) TestGetSource_NotFound() {
	sourceID := uuid.NewString()
	suite.mockService.On("GetSource", mock.Anything, suite.institutionID, sourceID).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.request(http.MethodGet, "/api/treasury/sources/"+sourceID, nil, true)

	suite.Equal(http.StatusNotFound, w.Code)
	resp, _ := suite.decode(w)
	suite.False(resp.Success)
}

func (suite *FundingSourceHandlerTestSuite) TestCashOut_PolicyRefusalMapsTo422() {
	deskID := uuid.NewString()
	req := dto.CashMovementRequest{Amount: decimal.NewFromInt(500000), Notes: "fuel advance"}

	suite.mockService.On("CashOut", mock.Anything, suite.institutionID, deskID, req, suite.userID).
		Return(nil, fmt.Errorf("%w: balance would fall below zero", apperrors.ErrInsufficientFunds)).Once()

	w := suite.request(http.MethodPost, "/api/treasury/cash-desks/"+deskID+"/cash-out", req, true)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	resp, _ := suite.decode(w)
	suite.False(resp.Success)
	suite.Contains(resp.Message, "insufficient funds")
}

func (suite *FundingSourceHandlerTestSuite) TestListSources_FilterAndPaging() {
	desk := domain.FundingSource{
		SourceID:      uuid.NewString(),
		InstitutionID: suite.institutionID,
		SourceType:    domain.SourceCashDesk,
		Name:          "Front Desk",
		Currency:      "XAF",
		State:         domain.SourceActive,
	}
	st := domain.SourceCashDesk
	expectedFilter := portsrepo.ListSourcesFilter{SourceType: &st, Limit: 20, Offset: 20}

	suite.mockService.On("ListSources", mock.Anything, suite.institutionID, mock.MatchedBy(func(f portsrepo.ListSourcesFilter) bool {
		return f.SourceType != nil && *f.SourceType == *expectedFilter.SourceType &&
			f.Limit == expectedFilter.Limit && f.Offset == expectedFilter.Offset
	})).Return([]domain.FundingSource{desk}, 21, nil).Once()

	w := suite.request(http.MethodGet, "/api/treasury/sources?sourceType=CASHDESK&page=2&pageSize=20", nil, true)

	suite.Equal(http.StatusOK, w.Code)
	_, data := suite.decode(w)
	var paged struct {
		Count    int                  `json:"count"`
		Next     *int                 `json:"next"`
		Previous *int                 `json:"previous"`
		Results  []dto.SourceResponse `json:"results"`
	}
	suite.Require().NoError(json.Unmarshal(data, &paged))
	suite.Equal(21, paged.Count)
	suite.Nil(paged.Next)
	suite.Require().NotNil(paged.Previous)
	suite.Equal(1, *paged.Previous)
	suite.Len(paged.Results, 1)
	suite.Equal(desk.SourceID, paged.Results[0].SourceID)
}

func (suite *FundingSourceHandlerTestSuite) TestRetireSource_ConflictWhenSessionOpen() {
	sourceID := uuid.NewString()
	suite.mockService.On("RetireSource", mock.Anything, suite.institutionID, sourceID, suite.userID).
		Return(fmt.Errorf("%w: close the open session first", apperrors.ErrInvalidStateTransition)).Once()

	w := suite.request(http.MethodDelete, "/api/treasury/sources/"+sourceID, nil, true)

	suite.Equal(http.StatusConflict, w.Code)
}

func TestFundingSourceHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(FundingSourceHandlerTestSuite))
}
