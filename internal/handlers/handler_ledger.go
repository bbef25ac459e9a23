package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	portsrepo "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/repositories"
	portssvc "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/services"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/dto"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/middleware"
)

// ledgerHandler exposes the treasury transaction ledger.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers transaction routes.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	txns := rg.Group("/transactions")
	{
		txns.POST("", h.recordTransaction)
		txns.GET("", h.listTransactions)
		txns.GET("/:transactionID", h.getTransaction)
		txns.POST("/:transactionID/reverse", h.reverseTransaction)
		txns.POST("/:transactionID/approve", h.approveTransaction)
	}
}

// reverseRequest carries the reason for a reversal.
type reverseRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// recordTransaction godoc
// @Summary Record a manual ledger entry
// @Description Appends a DEPOSIT, WITHDRAWAL or ADJUSTMENT; system categories are rejected here
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.RecordTransactionRequest true "Entry details"
// @Success 201 {object} dto.Response{data=dto.TransactionResponse}
// @Failure 400 {object} dto.Response
// @Failure 422 {object} dto.Response "Insufficient funds or source not active"
// @Router /transactions [post]
func (h *ledgerHandler) recordTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	var req dto.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	txn, err := h.ledgerService.Record(c.Request.Context(), institutionID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to record transaction")
		return
	}

	logger.Info("Ledger entry recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("status", string(txn.Status)))
	c.JSON(http.StatusCreated, dto.OK("Transaction recorded", dto.ToTransactionResponse(txn)))
}

// getTransaction godoc
// @Summary Get a ledger entry
// @Tags transactions
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} dto.Response{data=dto.TransactionResponse}
// @Failure 404 {object} dto.Response
// @Router /transactions/{transactionID} [get]
func (h *ledgerHandler) getTransaction(c *gin.Context) {
	institutionID, _, ok := tenantAndUser(c, false)
	if !ok {
		return
	}

	txn, err := h.ledgerService.GetTransaction(c.Request.Context(), institutionID, c.Param("transactionID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.OK("Transaction retrieved", dto.ToTransactionResponse(txn)))
}

// listTransactions godoc
// @Summary List ledger entries
// @Tags transactions
// @Produce json
// @Param sourceID query string false "Source filter"
// @Param direction query string false "IN or OUT"
// @Param category query string false "Category filter"
// @Param status query string false "Status filter"
// @Param from query string false "RFC3339 lower bound on transaction date"
// @Param to query string false "RFC3339 upper bound on transaction date"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.Response{data=dto.PagedList}
// @Router /transactions [get]
func (h *ledgerHandler) listTransactions(c *gin.Context) {
	institutionID, _, ok := tenantAndUser(c, false)
	if !ok {
		return
	}

	p := pageFromQuery(c)
	filter := portsrepo.ListTransactionsFilter{
		SourceID: c.Query("sourceID"),
		Limit:    p.Limit(),
		Offset:   p.Offset(),
	}
	if v := c.Query("direction"); v != "" {
		d := domain.Direction(v)
		filter.Direction = &d
	}
	if v := c.Query("category"); v != "" {
		cat := domain.TransactionCategory(v)
		filter.Category = &cat
	}
	if v := c.Query("status"); v != "" {
		st := domain.TransactionStatus(v)
		filter.Status = &st
	}
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.From = &t
		} else {
			c.JSON(http.StatusBadRequest, dto.Fail("Invalid 'from' date, expected RFC3339"))
			return
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.To = &t
		} else {
			c.JSON(http.StatusBadRequest, dto.Fail("Invalid 'to' date, expected RFC3339"))
			return
		}
	}

	txns, total, err := h.ledgerService.ListTransactions(c.Request.Context(), institutionID, filter)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.OK("Transactions listed", pagedData(p, total, dto.ToListTransactionResponse(txns))))
}

// reverseTransaction godoc
// @Summary Reverse a posted ledger entry
// @Description Posts a REVERSAL counter-entry; the original entry is never mutated
// @Tags transactions
// @Accept json
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Param reversal body reverseRequest true "Reversal reason"
// @Success 201 {object} dto.Response{data=dto.TransactionResponse}
// @Failure 409 {object} dto.Response "Not POSTED or already reversed"
// @Router /transactions/{transactionID}/reverse [post]
func (h *ledgerHandler) reverseTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	var req reverseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReverseTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	txn, err := h.ledgerService.Reverse(c.Request.Context(), institutionID, c.Param("transactionID"), req.Reason, userID)
	if err != nil {
		respondError(c, err, "Failed to reverse transaction")
		return
	}

	logger.Info("Ledger entry reversed",
		slog.String("original_transaction_id", c.Param("transactionID")),
		slog.String("reversal_transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.OK("Transaction reversed", dto.ToTransactionResponse(txn)))
}

// approveTransaction godoc
// @Summary Approve a pending ledger entry
// @Description Posts an APPROVAL_PENDING entry, applying its balance effect
// @Tags transactions
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} dto.Response{data=dto.TransactionResponse}
// @Failure 422 {object} dto.Response "Self approval not allowed"
// @Router /transactions/{transactionID}/approve [post]
func (h *ledgerHandler) approveTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	institutionID, userID, ok := tenantAndUser(c, true)
	if !ok {
		return
	}

	txn, err := h.ledgerService.ApprovePending(c.Request.Context(), institutionID, c.Param("transactionID"), userID)
	if err != nil {
		respondError(c, err, "Failed to approve transaction")
		return
	}

	logger.Info("Pending ledger entry approved", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusOK, dto.OK("Transaction approved", dto.ToTransactionResponse(txn)))
}
