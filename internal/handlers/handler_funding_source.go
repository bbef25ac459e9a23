package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	portsrepo "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/repositories"
	portssvc "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/services"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/dto"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/middleware"
)

// fundingSourceHandler handles bank accounts, cash desks and the cash
// movements between them.
type fundingSourceHandler struct {
	sourceService portssvc.FundingSourceSvcFacade
}

func newFundingSourceHandler(ss portssvc.FundingSourceSvcFacade) *fundingSourceHandler {
	return &fundingSourceHandler{sourceService: ss}
}

// registerFundingSourceRoutes registers funding source routes.
func registerFundingSourceRoutes(rg *gin.RouterGroup, sourceService portssvc.FundingSourceSvcFacade) {
	h := newFundingSourceHandler(sourceService)

	sources := rg.Group("/sources")
	{
		sources.GET("", h.listSources)
		sources.GET("/:sourceID", h.getSource)
		sources.DELETE("/:sourceID", h.retireSource)
	}

	banks := rg.Group("/bank-accounts")
	{
		banks.POST("", h.createBankAccount)
		banks.POST("/:sourceID/withdraw-to-cashdesk", h.withdrawToCashDesk)
	}

	desks := rg.Group("/cash-desks")
	{
		desks.POST("", h.createCashDesk)
		desks.POST("/:sourceID/cash-in", h.cashIn)
		desks.POST("/:sourceID/cash-out", h.cashOut)
		desks.POST("/:sourceID/transfer-to-bank", h.transferToBank)
	}
}

// createBankAccount godoc
// @Summary Create a bank account
// @Tags funding-sources
// @Accept json
// @Produce json
// @Param account body dto.CreateBankAccountRequest true "Bank account details"
// @Success 201 {object} dto.Response{data=dto.SourceResponse}
// @Failure 400 {object} dto.Response
// @Failure 422 {object} dto.Response "Bank operations disabled"
// @Router /bank-accounts [post]
func (h *fundingSourceHandler) createBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	var req dto.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBankAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	source, err := h.sourceService.CreateBankAccount(c.Request.Context(), institutionID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to create bank account")
		return
	}

	logger.Info("Bank account created", slog.String("source_id", source.SourceID))
	c.JSON(http.StatusCreated, dto.OK("Bank account created", dto.ToSourceResponse(source)))
}

// createCashDesk godoc
// @Summary Create a cash desk
// @Tags funding-sources
// @Accept json
// @Produce json
// @Param desk body dto.CreateCashDeskRequest true "Cash desk details"
// @Success 201 {object} dto.Response{data=dto.SourceResponse}
// @Failure 400 {object} dto.Response
// @Failure 422 {object} dto.Response "Cash operations disabled"
// @Router /cash-desks [post]
func (h *fundingSourceHandler) createCashDesk(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	var req dto.CreateCashDeskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCashDesk", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	source, err := h.sourceService.CreateCashDesk(c.Request.Context(), institutionID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to create cash desk")
		return
	}

	logger.Info("Cash desk created", slog.String("source_id", source.SourceID))
	c.JSON(http.StatusCreated, dto.OK("Cash desk created", dto.ToSourceResponse(source)))
}

// getSource godoc
// @Summary Get a funding source
// @Tags funding-sources
// @Produce json
// @Param sourceID path string true "Source ID"
// @Success 200 {object} dto.Response{data=dto.SourceResponse}
// @Failure 404 {object} dto.Response
// @Router /sources/{sourceID} [get]
func (h *fundingSourceHandler) getSource(c *gin.Context) {
	institutionID, _, ok := tenantAndUser(c, false)
	if !ok {
		return
	}

	source, err := h.sourceService.GetSource(c.Request.Context(), institutionID, c.Param("sourceID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve funding source")
		return
	}
	c.JSON(http.StatusOK, dto.OK("Funding source retrieved", dto.ToSourceResponse(source)))
}

// listSources godoc
// @Summary List funding sources
// @Tags funding-sources
// @Produce json
// @Param sourceType query string false "BANK or CASHDESK"
// @Param branch query string false "Branch filter"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.Response{data=dto.PagedList}
// @Router /sources [get]
func (h *fundingSourceHandler) listSources(c *gin.Context) {
	institutionID, _, ok := tenantAndUser(c, false)
	if !ok {
		return
	}

	p := pageFromQuery(c)
	filter := portsrepo.ListSourcesFilter{
		Branch: c.Query("branch"),
		Limit:  p.Limit(),
		Offset: p.Offset(),
	}
	switch c.Query("sourceType") {
	case string(domain.SourceBank):
		st := domain.SourceBank
		filter.SourceType = &st
	case string(domain.SourceCashDesk):
		st := domain.SourceCashDesk
		filter.SourceType = &st
	}

	sources, total, err := h.sourceService.ListSources(c.Request.Context(), institutionID, filter)
	if err != nil {
		respondError(c, err, "Failed to list funding sources")
		return
	}
	c.JSON(http.StatusOK, dto.OK("Funding sources listed", pagedData(p, total, dto.ToListSourceResponse(sources))))
}

// retireSource godoc
// @Summary Retire a funding source
// @Description Marks the source RETIRED; its ledger history stays queryable
// @Tags funding-sources
// @Produce json
// @Param sourceID path string true "Source ID"
// @Success 200 {object} dto.Response
// @Failure 409 {object} dto.Response "Already retired or session still open"
// @Router /sources/{sourceID} [delete]
func (h *fundingSourceHandler) retireSource(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	sourceID := c.Param("sourceID")
	if err := h.sourceService.RetireSource(c.Request.Context(), institutionID, sourceID, userID); err != nil {
		respondError(c, err, "Failed to retire funding source")
		return
	}

	logger.Info("Funding source retired", slog.String("source_id", sourceID))
	c.JSON(http.StatusOK, dto.OK("Funding source retired", nil))
}

// cashIn godoc
// @Summary Record a cash-in on a desk
// @Tags cash-desks
// @Accept json
// @Produce json
// @Param sourceID path string true "Cash desk ID"
// @Param movement body dto.CashMovementRequest true "Movement details"
// @Success 201 {object} dto.Response{data=dto.TransactionResponse}
// @Failure 422 {object} dto.Response "No open session or balance cap exceeded"
// @Router /cash-desks/{sourceID}/cash-in [post]
func (h *fundingSourceHandler) cashIn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	var req dto.CashMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CashIn", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	txn, err := h.sourceService.CashIn(c.Request.Context(), institutionID, c.Param("sourceID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to record cash in")
		return
	}
	c.JSON(http.StatusCreated, dto.OK("Cash in recorded", dto.ToTransactionResponse(txn)))
}

// cashOut godoc
// @Summary Record a cash-out on a desk
// @Description Amounts at or above the cash-out approval threshold are written APPROVAL_PENDING
// @Tags cash-desks
// @Accept json
// @Produce json
// @Param sourceID path string true "Cash desk ID"
// @Param movement body dto.CashMovementRequest true "Movement details"
// @Success 201 {object} dto.Response{data=dto.TransactionResponse}
// @Failure 422 {object} dto.Response "Insufficient funds or missing reason"
// @Router /cash-desks/{sourceID}/cash-out [post]
func (h *fundingSourceHandler) cashOut(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	var req dto.CashMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CashOut", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	txn, err := h.sourceService.CashOut(c.Request.Context(), institutionID, c.Param("sourceID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to record cash out")
		return
	}
	c.JSON(http.StatusCreated, dto.OK("Cash out recorded", dto.ToTransactionResponse(txn)))
}

// transferToBank godoc
// @Summary Transfer desk cash to a bank account
// @Description Both ledger legs commit atomically; the outbound desk leg is returned
// @Tags cash-desks
// @Accept json
// @Produce json
// @Param sourceID path string true "Cash desk ID"
// @Param transfer body dto.TransferToBankRequest true "Transfer details"
// @Success 201 {object} dto.Response{data=dto.TransactionResponse}
// @Failure 422 {object} dto.Response
// @Router /cash-desks/{sourceID}/transfer-to-bank [post]
func (h *fundingSourceHandler) transferToBank(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	var req dto.TransferToBankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for TransferToBank", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	txn, err := h.sourceService.TransferToBank(c.Request.Context(), institutionID, c.Param("sourceID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to transfer to bank")
		return
	}
	c.JSON(http.StatusCreated, dto.OK("Transfer recorded", dto.ToTransactionResponse(txn)))
}

// withdrawToCashDesk godoc
// @Summary Withdraw from a bank account into a cash desk
// @Tags funding-sources
// @Accept json
// @Produce json
// @Param sourceID path string true "Bank account ID"
// @Param withdrawal body dto.WithdrawToCashDeskRequest true "Withdrawal details"
// @Success 201 {object} dto.Response{data=dto.TransactionResponse}
// @Failure 422 {object} dto.Response
// @Router /bank-accounts/{sourceID}/withdraw-to-cashdesk [post]
func (h *fundingSourceHandler) withdrawToCashDesk(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	var req dto.WithdrawToCashDeskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for WithdrawToCashDesk", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	txn, err := h.sourceService.WithdrawToCashDesk(c.Request.Context(), institutionID, c.Param("sourceID"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to withdraw to cash desk")
		return
	}
	c.JSON(http.StatusCreated, dto.OK("Withdrawal recorded", dto.ToTransactionResponse(txn)))
}
